package config

import "strings"

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.WorkDir, &c.Paths.LogDir, &c.Paths.ScriptsDir} {
		trimmed := strings.TrimSpace(*field)
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Runner.Interpreter = strings.TrimSpace(c.Runner.Interpreter)
	c.Runner.OnFailure = strings.ToLower(strings.TrimSpace(c.Runner.OnFailure))
	if c.Runner.OnFailure == "" {
		c.Runner.OnFailure = defaultOnFailure
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
