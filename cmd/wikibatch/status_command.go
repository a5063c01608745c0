package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wikidatabot/internal/config"
	"wikidatabot/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var planFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the environment the enrichment sequence needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			plan, err := resolvePlan(planFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range sectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, statusLine("Work directory", true, cfg.Paths.WorkDir, colorize))
			fmt.Fprintln(out, statusLine("Scripts directory", true, cfg.Paths.ScriptsDir, colorize))
			fmt.Fprintln(out, statusLine("Interpreter", true, cfg.Runner.Interpreter, colorize))
			fmt.Fprintln(out, statusLine("Failure policy", true, cfg.Runner.OnFailure, colorize))
			fmt.Fprintln(out, statusLine("Strict artifacts", true, yesNo(cfg.Runner.StrictArtifacts), colorize))

			for _, line := range sectionHeader(fmt.Sprintf("Preflight (plan %s)", plan.Name), colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.Check(cfg, plan.Scripts())
			results = append(results, checkRunStore(ctx, cfg))
			for _, result := range results {
				fmt.Fprintln(out, statusLine(result.Name, result.Passed, result.Detail, colorize))
			}

			if !preflight.Passed(results) {
				return errors.New("environment is not ready for a batch run")
			}
			fmt.Fprintln(out, "Environment ready")
			return nil
		},
	}

	cmd.Flags().StringVarP(&planFlag, "plan", "p", "", "Plan file whose scripts should be checked")
	return cmd
}

func checkRunStore(ctx *commandContext, cfg *config.Config) preflight.Result {
	result := preflight.Result{Name: "Run history"}
	store, err := ctx.openStore(cfg)
	if err != nil {
		result.Detail = fmt.Sprintf("%s (error: %v)", cfg.RunStorePath(), err)
		return result
	}
	defer store.Close()
	result.Passed = true
	result.Detail = store.Path()
	return result
}
