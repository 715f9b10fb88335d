package main

// #region imports
import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/faqforge/internal/audit"
	"github.com/danielpatrickdp/faqforge/internal/config"
	"github.com/danielpatrickdp/faqforge/internal/faq"
	"github.com/danielpatrickdp/faqforge/internal/genclient"
	"github.com/danielpatrickdp/faqforge/internal/logging"
	"github.com/danielpatrickdp/faqforge/internal/orchestrator"
	"github.com/danielpatrickdp/faqforge/internal/params"
)

// #endregion

// #region main

func main() {
	configPath := flag.String("config", "", "path to TOML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := params.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("open parameter store", zap.Error(err))
	}
	defer store.Close()

	recorder, err := audit.NewRecorder(store.DB(), log)
	if err != nil {
		log.Fatal("open audit log", zap.Error(err))
	}

	client := genclient.New(genclient.Config{
		BaseURL:           cfg.Generation.BaseURL,
		APIKey:            cfg.Generation.APIKey,
		Model:             cfg.Generation.Model,
		RequestsPerMinute: cfg.Generation.RequestsPerMinute,
		Timeout:           cfg.Generation.GenTimeout(),
	}, log)

	orch := orchestrator.New(client, store, recorder, log,
		orchestrator.WithMaxAttempts(cfg.Learning.MaxAttempts),
		orchestrator.WithRequestTimeout(cfg.Learning.RequestTimeout()),
	)

	fmt.Println("FAQ generator ready.")
	fmt.Printf("  DB: %s | Model: %s\n", cfg.DBPath, cfg.Generation.Model)
	fmt.Println("Type a question (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "quit" || prompt == "exit" {
			break
		}
		if err := faq.ValidatePrompt(prompt); err != nil {
			fmt.Printf("rejected: %v\n", err)
			continue
		}

		res := orch.GenerateWithLearning(context.Background(), prompt)
		printResult(res)
	}
}

// #endregion

// #region output

func printResult(res orchestrator.Result) {
	fmt.Printf("\n# %s\n\n%s\n\n", res.FAQ.Title, res.FAQ.Answer)
	fmt.Printf("category=%s keywords=%s\n", res.FAQ.Category, strings.Join(res.FAQ.Keywords, ","))
	fmt.Printf("success=%v score=%.3f level=%s attempts=%d\n",
		res.Success, res.Quality.Overall, res.Quality.Level, res.AttemptCount)
	for i, a := range res.Attempts {
		line := fmt.Sprintf("  [%d] %s temp=%.2f max_tokens=%d top_p=%.2f score=%.3f %dms",
			i+1, a.Strategy, a.Config.Temperature, a.Config.MaxTokens, a.Config.TopP,
			a.Score.Overall, a.DurationMs)
		if a.Err != "" {
			line += " error=" + a.Err
		}
		fmt.Println(line)
	}
	if res.Warning != "" {
		fmt.Printf("warning: %s\n", res.Warning)
	}
	fmt.Println()
}

// #endregion
