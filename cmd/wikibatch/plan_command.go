package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wikidatabot/internal/pipeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var planFlag string

	cmd := &cobra.Command{
		Use:         "plan",
		Short:       "Display the enrichment sequence",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := resolvePlan(planFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan %s: %d jobs, %d scripts\n", plan.Name, len(plan.Jobs), len(plan.Scripts()))
			fmt.Fprintln(out, renderPlanTable(plan))
			return nil
		},
	}

	cmd.Flags().StringVarP(&planFlag, "plan", "p", "", "Plan file to display instead of the built-in sequence")
	return cmd
}

func renderPlanTable(plan pipeline.Plan) string {
	rows := make([][]string, 0, len(plan.Jobs))
	for i, job := range plan.Jobs {
		input := job.Input
		if input == "" {
			input = "(run input)"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			job.Name,
			input,
			job.Output,
			yesNo(job.ForwardExtras),
		})
	}
	return renderTable(
		[]string{"#", "Job", "Reads", "Writes", "Extras"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
