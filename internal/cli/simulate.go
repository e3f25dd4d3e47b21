package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/accord/internal/engine"
	"github.com/talgya/accord/internal/persistence"
	"github.com/talgya/accord/internal/scenario"
	"github.com/talgya/accord/internal/sim"
)

var (
	simDuration int
	simSeed     int64
	dbPath      string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one agent simulation of the scenario's proposal",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := scenario.Load(scenarioPath)
		if err != nil {
			return err
		}
		space, profiles, err := doc.Build()
		if err != nil {
			return err
		}
		proposal, ok := doc.BuildProposal()
		if !ok {
			return fmt.Errorf("scenario %q has no proposal to simulate", doc.Name)
		}

		eng, err := engine.New(doc.EngineConfig())
		if err != nil {
			return err
		}

		var seed *int64
		if cmd.Flags().Changed("seed") {
			seed = &simSeed
		}

		// Ctrl+C cancels at the next step boundary; the partial run still
		// reports.
		handle, results := eng.StartSimulation(space, proposal, profiles, simDuration, seed)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		var run *sim.Run
		select {
		case res := <-results:
			if res.Err != nil {
				return res.Err
			}
			run = res.Run
		case <-sigCh:
			eng.Cancel(handle)
			res := <-results
			if res.Err != nil {
				return res.Err
			}
			run = res.Run
		}

		if dbPath != "" {
			db, err := persistence.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.SaveRun(run); err != nil {
				return err
			}
		}

		printRun(run)
		return nil
	},
}

func printRun(run *sim.Run) {
	state := "complete"
	if !run.Complete {
		state = fmt.Sprintf("INCOMPLETE (cancelled after %d steps)", run.StepsCompleted)
	}
	fmt.Printf("Run %s — seed %d, %s steps, %s\n",
		run.ID, run.Seed, humanize.Comma(int64(run.StepsCompleted)), state)

	s := run.Summary
	if s == nil {
		return
	}
	fmt.Printf("\n  incidents     %s (avg severity %.2f, max %.2f)\n",
		humanize.Comma(int64(s.TotalIncidents)), s.AvgSeverity, s.MaxSeverity)
	fmt.Printf("  trend         %s\n", s.Trend)
	fmt.Printf("  assessment    %s\n", s.Assessment)
	if run.HotlineAttempts > 0 {
		fmt.Printf("  hotline       %.0f%% effective (%d/%d)\n",
			s.HotlineEffectiveness*100, run.HotlineSuccesses, run.HotlineAttempts)
	}

	parties := make([]string, 0, len(s.ComplianceByParty))
	for id := range s.ComplianceByParty {
		parties = append(parties, id)
	}
	sort.Strings(parties)
	for _, id := range parties {
		fmt.Printf("  compliance    %-12s %.1f%%\n", id, s.ComplianceByParty[id]*100)
	}
}

func init() {
	simulateCmd.Flags().IntVarP(&simDuration, "duration", "d", 300, "Simulation steps")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (omit to generate one)")
	simulateCmd.Flags().StringVar(&dbPath, "db", "", "SQLite path to persist the run (optional)")
	rootCmd.AddCommand(simulateCmd)
}
