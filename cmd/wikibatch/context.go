package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"wikidatabot/internal/config"
	"wikidatabot/internal/logging"
	"wikidatabot/internal/pipeline"
	"wikidatabot/internal/runstore"
)

type commandContext struct {
	configFlag string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	// commandRunner overrides job execution in tests.
	commandRunner pipeline.CommandRunner
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) openStore(cfg *config.Config) (*runstore.Store, error) {
	return runstore.Open(cfg.RunStorePath())
}

func (c *commandContext) newRunner(cfg *config.Config, logger *slog.Logger, store *runstore.Store) *pipeline.Runner {
	runner := pipeline.NewRunner(cfg, logger, store)
	if c.commandRunner != nil {
		runner.WithCommandRunner(c.commandRunner)
	}
	return runner
}

// resolvePlan returns the built-in sequence, or the declarative plan loaded
// from the given file when one is named.
func resolvePlan(planFlag string) (pipeline.Plan, error) {
	if strings.TrimSpace(planFlag) == "" {
		return pipeline.Default(), nil
	}
	path, err := config.ExpandPath(planFlag)
	if err != nil {
		return pipeline.Plan{}, err
	}
	return pipeline.LoadPlan(path)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
