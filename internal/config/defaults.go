package config

const (
	defaultWorkDir     = "~/.local/share/wikibatch/work"
	defaultLogDir      = "~/.local/share/wikibatch/logs"
	defaultScriptsDir  = "~/wikidatabot"
	defaultInterpreter = "python3"
	defaultOnFailure   = OnFailureContinue
	defaultJobTimeout  = 0
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:    defaultWorkDir,
			LogDir:     defaultLogDir,
			ScriptsDir: defaultScriptsDir,
		},
		Runner: Runner{
			Interpreter: defaultInterpreter,
			OnFailure:   defaultOnFailure,
			JobTimeout:  defaultJobTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
