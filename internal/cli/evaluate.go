package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/accord/internal/engine"
	"github.com/talgya/accord/internal/scenario"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score the scenario's proposal against every party",
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
			return fmt.Errorf("scenario %q has no proposal to evaluate", doc.Name)
		}

		eng, err := engine.New(doc.EngineConfig())
		if err != nil {
			return err
		}
		ev, err := eng.EvaluateProposal(space, proposal, profiles)
		if err != nil {
			return err
		}

		fmt.Printf("Proposal %s (round %d)\n\n", proposal.ID, proposal.Round)
		for i, score := range ev.Scores {
			acc := ev.Acceptances[i]
			fmt.Printf("  %-12s utility %.3f  accept %.3f  [%s]", score.PartyID, score.Value, acc.Probability, acc.Status)
			if score.Vetoed {
				fmt.Print("  RED LINE CROSSED")
			} else if score.BelowBATNA {
				fmt.Print("  below BATNA")
			}
			fmt.Println()
			for _, ds := range score.Breakdown {
				marker := ""
				if ds.RedLineViolated {
					marker = "  !! red line"
				} else if ds.BelowMinimum {
					marker = "  below minimum"
				}
				fmt.Printf("    %-16s weight %.2f  satisfaction %.3f%s\n", ds.DimensionID, ds.Weight, ds.Satisfaction, marker)
			}
		}
		fmt.Printf("\nOverall agreement probability: %.3f\n", ev.OverallProbability)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
