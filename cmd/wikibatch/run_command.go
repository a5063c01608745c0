package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wikidatabot/internal/artifact"
	"wikidatabot/internal/config"
	"wikidatabot/internal/pipeline"
	"wikidatabot/internal/preflight"
	"wikidatabot/internal/runstore"
	"wikidatabot/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var planFlag string
	var onFailure string
	var strictArtifacts bool
	var dryRun bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run <input-list> [-- <parser args>...]",
		Short: "Execute the enrichment sequence over an input list",
		Long: `Execute the enrichment sequence over an input list.

The input list holds one identifier per line: knowledge-base items (Q123) or
raw store IDs. Arguments after -- are forwarded verbatim to the parser job at
the head of the sequence.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inputArgs := args
			var extras []string
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				inputArgs = args[:at]
				extras = args[at:]
			}
			if len(inputArgs) != 1 {
				return errors.New("exactly one input list is required (put parser arguments after --)")
			}
			input, err := config.ExpandPath(inputArgs[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("on-failure") {
				if onFailure != config.OnFailureContinue && onFailure != config.OnFailureHalt {
					return fmt.Errorf("invalid --on-failure value %q (expected %s or %s)", onFailure, config.OnFailureContinue, config.OnFailureHalt)
				}
				cfg.Runner.OnFailure = onFailure
			}
			if cmd.Flags().Changed("strict-artifacts") {
				cfg.Runner.StrictArtifacts = strictArtifacts
			}

			plan, err := resolvePlan(planFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "Plan %s (%d jobs), input %s\n", plan.Name, len(plan.Jobs), input)
				fmt.Fprintln(out, renderPlanTable(plan))
				return nil
			}

			if summary := describeInput(input); summary != "" {
				fmt.Fprintln(out, summary)
			}

			if !skipPreflight {
				results := preflight.Check(cfg, plan.Scripts())
				if !preflight.Passed(results) {
					colorize := shouldColorize(out)
					for _, result := range results {
						if result.Passed {
							continue
						}
						fmt.Fprintln(out, statusLine(result.Name, false, result.Detail, colorize))
					}
					fmt.Fprintln(out, "Preflight found problems; jobs may fail. Run `wikibatch status` for details.")
				}
			}

			store, err := ctx.openStore(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runner := ctx.newRunner(cfg, ctx.newLogger(cfg), store)
			report, err := runner.Run(cmd.Context(), plan, input, extras)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, renderReportTable(report))
			switch report.Status {
			case runstore.RunCompleted:
				fmt.Fprintf(out, "Run %s completed: %d jobs succeeded\n", shortID(report.RunID), len(report.Results))
				return nil
			case runstore.RunInterrupted:
				return fmt.Errorf("run %s interrupted: %d failed, %d skipped", shortID(report.RunID), report.Failed(), report.Skipped())
			default:
				return fmt.Errorf("run %s %s: %d of %d jobs failed, %d skipped", shortID(report.RunID), report.Status, report.Failed(), len(report.Results), report.Skipped())
			}
		},
	}

	cmd.Flags().StringVarP(&planFlag, "plan", "p", "", "Plan file to execute instead of the built-in sequence")
	cmd.Flags().StringVar(&onFailure, "on-failure", "", "Failure policy for this run: continue or halt")
	cmd.Flags().BoolVar(&strictArtifacts, "strict-artifacts", false, "Fail producers with missing outputs and skip their consumers")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resolved sequence without executing it")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before the first job")
	return cmd
}

func renderReportTable(report *pipeline.Report) string {
	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", result.Position+1),
			result.Job.Name,
			string(result.Status),
			formatDuration(result.Duration),
			resultMessage(result),
		})
	}
	return renderTable(
		[]string{"#", "Job", "Status", "Duration", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

// describeInput summarizes the identifier mix in the input list. Unreadable
// input is left for the runner to report.
func describeInput(path string) string {
	ids, err := artifact.FromPath(path).Read()
	if err != nil {
		return ""
	}
	items, external, unknown := artifact.Classify(ids)
	summary := fmt.Sprintf("Input: %d identifiers (%d items, %d external IDs)", len(ids), len(items), len(external))
	if len(unknown) > 0 {
		summary += fmt.Sprintf(", %d unrecognized", len(unknown))
	}
	return summary
}

func resultMessage(result pipeline.JobResult) string {
	switch {
	case result.Err != nil:
		return services.Message(result.Err)
	case result.Reason != "":
		return result.Reason
	default:
		return ""
	}
}
