package main

// #region imports
import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/faqforge/internal/audit"
	"github.com/danielpatrickdp/faqforge/internal/params"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to faqforge.db")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	recent := flag.Int("audit", 0, "also show N most recent audit entries")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/faqforge.db [--json] [--audit N]")
		os.Exit(2)
	}

	store, err := params.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.Ranked(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list params: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		out := make([]map[string]interface{}, 0, len(records))
		for _, r := range records {
			out = append(out, map[string]interface{}{
				"scenario_code": r.ScenarioCode,
				"temperature":   r.Config.Temperature,
				"max_tokens":    r.Config.MaxTokens,
				"top_p":         r.Config.TopP,
				"best_score":    r.BestScore,
				"success_count": r.SuccessCount,
				"updated_at":    r.UpdatedAt,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
	} else {
		fmt.Printf("%-22s %6s %10s %6s %8s %7s  %s\n",
			"SCENARIO", "TEMP", "MAX_TOKENS", "TOP_P", "SCORE", "COUNT", "UPDATED")
		for _, r := range records {
			fmt.Printf("%-22s %6.2f %10d %6.2f %8.3f %7d  %s\n",
				r.ScenarioCode, r.Config.Temperature, r.Config.MaxTokens, r.Config.TopP,
				r.BestScore, r.SuccessCount, r.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		if len(records) == 0 {
			fmt.Println("no learned parameters yet")
		}
	}

	if *recent > 0 {
		showAudit(ctx, store, *recent)
	}
}

// #endregion

// #region audit

func showAudit(ctx context.Context, store *params.Store, n int) {
	recorder, err := audit.NewRecorder(store.DB(), zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open audit: %v\n", err)
		os.Exit(1)
	}
	entries, err := recorder.Recent(ctx, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list audit: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%-36s %-8s %6s %-11s %8s  %s\n",
		"REQUEST", "SUCCESS", "SCORE", "LEVEL", "ATTEMPTS", "CREATED")
	for _, e := range entries {
		fmt.Printf("%-36s %-8v %6.3f %-11s %8d  %s\n",
			e.RequestID, e.Success, e.Score, e.Level, e.AttemptCount,
			e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

// #endregion
