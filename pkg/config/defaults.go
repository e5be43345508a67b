package config

// Default returns the built-in library defaults.
func Default() *Defaults {
	return &Defaults{
		Sigma:              1.0,
		Recombination:      "average",
		Distribution:       "linear",
		SoftmaxTemperature: 1.0,
		Seed:               0,
		BatchWorkers:       4,
		Logging: LoggingConfig{
			Level:     "INFO",
			UseStderr: false,
		},
	}
}
