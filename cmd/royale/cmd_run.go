package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/grantmcd/prisoners-royale/internal/engine"
	"github.com/grantmcd/prisoners-royale/internal/tui"
)

func runTournament(cmd *cobra.Command, args []string) error {
	players, err := newResolver().ResolveAll(args)
	if err != nil {
		return err
	}
	result, err := newEngine().Run(players)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(w io.Writer, result *engine.Result) {
	for _, log := range result.Log {
		fmt.Fprintf(w, "Cycle %d (%d left)\n", log.Round, log.SurvivorCount)
		for _, e := range log.Eliminated {
			fmt.Fprintf(w, "  x %-32s %5d\n", e.ID, e.Score)
		}
		for _, e := range log.Leaderboard {
			fmt.Fprintf(w, "    %-32s %5d\n", e.ID, e.Score)
		}
	}
	if result.Draw() {
		fmt.Fprintln(w, "\nResult: draw")
		return
	}
	fmt.Fprintf(w, "\nWinner: %s (%s)\n", result.Winner, result.WinnerID)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The viewer owns the terminal, so engine logs are dropped below warnings.
	return tui.Run(newEngine(engine.WithLogger(quietLogger())), newResolver())
}
