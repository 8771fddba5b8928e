package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:                 "info",
			MaxConcurrent:            2,
			ActionsPerMinute:         6,
			InvocationTimeoutSeconds: 90,
		},
		Browser: BrowserConfig{
			Headless:               true,
			NavigateTimeoutSeconds: 30,
			ActionTimeoutSeconds:   15,
		},
		LLM: LLMConfig{
			DefaultProvider: "google",
			TimeoutSeconds:  30,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Endpoint: "/metrics",
		},
	}
}
