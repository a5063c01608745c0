package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wikidatabot/internal/runstore"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.Plan,
					string(run.Status),
					run.StartedAt.Local().Format(time.DateTime),
					runDuration(run),
					fmt.Sprintf("%d", run.JobsTotal),
					fmt.Sprintf("%d", run.JobsFailed),
					fmt.Sprintf("%d", run.JobsSkipped),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Plan", "Status", "Started", "Duration", "Jobs", "Failed", "Skipped"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Display one run and its per-job results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			run, err := store.FindRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load run: %w", err)
			}
			if run == nil {
				return fmt.Errorf("run %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:      %s\n", run.ID)
			fmt.Fprintf(out, "Plan:     %s\n", run.Plan)
			fmt.Fprintf(out, "Status:   %s\n", run.Status)
			fmt.Fprintf(out, "Input:    %s\n", run.InputPath)
			if run.InputSnapshot != "" {
				fmt.Fprintf(out, "Snapshot: %s\n", run.InputSnapshot)
			}
			fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
			if run.FinishedAt != nil {
				fmt.Fprintf(out, "Finished: %s\n", run.FinishedAt.Local().Format(time.DateTime))
			}
			fmt.Fprintf(out, "Jobs:     %d total, %d failed, %d skipped\n", run.JobsTotal, run.JobsFailed, run.JobsSkipped)

			jobs, err := store.JobsForRun(cmd.Context(), run.ID)
			if err != nil {
				return fmt.Errorf("load job records: %w", err)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No job records")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					fmt.Sprintf("%d", job.Position+1),
					job.Name,
					string(job.Status),
					formatDuration(job.Duration),
					job.ErrorMessage,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Job", "Status", "Duration", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	return cmd
}

func runDuration(run *runstore.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return formatDuration(run.FinishedAt.Sub(run.StartedAt))
}
