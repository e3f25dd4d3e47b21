package cli

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/accord/internal/engine"
	"github.com/talgya/accord/internal/scenario"
	"github.com/talgya/accord/internal/sim"
)

var (
	mcRuns     int
	mcWorkers  int
	mcDuration int
	mcBaseSeed int64
)

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Explore the proposal across many seeds concurrently",
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

		baseSeed := mcBaseSeed
		if !cmd.Flags().Changed("seed") {
			baseSeed = rand.Int63()
		}

		runs, err := eng.Explore(cmd.Context(), space, proposal, profiles, mcDuration, mcRuns, mcWorkers, baseSeed)
		if err != nil {
			return err
		}

		printExploration(runs, baseSeed)
		return nil
	},
}

func printExploration(runs []*sim.Run, baseSeed int64) {
	counts := make([]int, 0, len(runs))
	totalIncidents := 0
	trends := make(map[sim.Trend]int)
	assessments := make(map[sim.Assessment]int)
	for _, run := range runs {
		n := run.Summary.TotalIncidents
		counts = append(counts, n)
		totalIncidents += n
		trends[run.Summary.Trend]++
		assessments[run.Summary.Assessment]++
	}
	sort.Ints(counts)

	fmt.Printf("Monte Carlo: %s runs x %s steps (seeds %d..%d)\n\n",
		humanize.Comma(int64(len(runs))), humanize.Comma(int64(mcDuration)),
		baseSeed, baseSeed+int64(len(runs))-1)
	fmt.Printf("  incidents/run  min %d  median %d  max %d  mean %.1f\n",
		counts[0], counts[len(counts)/2], counts[len(counts)-1],
		float64(totalIncidents)/float64(len(runs)))
	fmt.Printf("  trends         declining %d / stable %d / escalating %d\n",
		trends[sim.TrendDeclining], trends[sim.TrendStable], trends[sim.TrendEscalating])
	fmt.Printf("  assessments    good %d / mixed %d / concerning %d\n",
		assessments[sim.AssessmentGood], assessments[sim.AssessmentMixed], assessments[sim.AssessmentConcerning])
}

func init() {
	montecarloCmd.Flags().IntVarP(&mcRuns, "runs", "n", 50, "Number of independent runs")
	montecarloCmd.Flags().IntVarP(&mcWorkers, "workers", "w", 8, "Concurrent runs")
	montecarloCmd.Flags().IntVarP(&mcDuration, "duration", "d", 300, "Steps per run")
	montecarloCmd.Flags().Int64Var(&mcBaseSeed, "seed", 0, "Base seed (omit to generate one)")
	rootCmd.AddCommand(montecarloCmd)
}
