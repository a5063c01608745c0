package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRunner(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.ScriptsDir == "" {
		return errors.New("paths.scripts_dir must be set")
	}
	return nil
}

func (c *Config) validateRunner() error {
	if c.Runner.Interpreter == "" {
		return errors.New("runner.interpreter must be set")
	}
	switch c.Runner.OnFailure {
	case OnFailureContinue, OnFailureHalt:
	default:
		return fmt.Errorf("runner.on_failure must be %q or %q, got %q", OnFailureContinue, OnFailureHalt, c.Runner.OnFailure)
	}
	if c.Runner.JobTimeout < 0 {
		return errors.New("runner.job_timeout must not be negative (seconds, 0 disables)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
