package main

// #region imports
import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/faqforge/internal/replay"
)

// #endregion

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(1)
	}

	if fixture.Description != "" {
		fmt.Println(fixture.Description)
	}

	results, sum := replay.Replay(fixture)
	for _, r := range results {
		status := "ok"
		if !r.Pass {
			status = "FAIL"
		}
		line := fmt.Sprintf("[%4s] %-20s score=%.3f level=%-11s scenario=%s",
			status, r.ID, r.Score, r.Level, r.Scenario)
		if r.Reason != "" {
			line += "  (" + r.Reason + ")"
		}
		fmt.Println(line)
	}

	fmt.Printf("\n%d cases: %d passed, %d failed\n", sum.Total, sum.Passed, sum.Failed)
	if sum.Failed > 0 {
		os.Exit(1)
	}
}

// #endregion
