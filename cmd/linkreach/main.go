package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkreach/internal/bus"
	"linkreach/internal/config"
	"linkreach/internal/domain"
	"linkreach/internal/executor"
	"linkreach/internal/linkedin"
	"linkreach/internal/manifest"
	"linkreach/internal/metrics"
	"linkreach/internal/provider"
	"linkreach/internal/server"

	"github.com/spf13/cobra"
)

var (
	version    = "1.0.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "linkreach",
		Short: "LinkReach: personalized LinkedIn outreach automation",
		Long:  "LinkReach sends personalized LinkedIn connection requests and messages, with AI-generated notes and a streaming progress API.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.linkreach/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(runCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(manifestCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			cfgPath := config.DefaultConfigPath()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
	}
	setupLogger(cfg)
	return cfg
}

func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.General.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	var out io.Writer = os.Stderr
	if cfg.General.LogFile != "" {
		f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Warn("cannot open log file, using stderr", "path", cfg.General.LogFile, "err", err)
		} else {
			out = io.MultiWriter(os.Stderr, f)
		}
	}
	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// buildExecutor wires the driver, provider factory and admission control.
func buildExecutor(cfg *config.Config) (*executor.Executor, *bus.EventBus) {
	eventBus := bus.NewEventBus(logger)
	metrics.Bridge(eventBus)

	driver := linkedin.NewDriver(linkedin.DriverConfig{
		Headless:        cfg.Browser.Headless,
		UserAgent:       cfg.Browser.UserAgent,
		NavigateTimeout: time.Duration(cfg.Browser.NavigateTimeoutSeconds) * time.Second,
		ActionTimeout:   time.Duration(cfg.Browser.ActionTimeoutSeconds) * time.Second,
		Logger:          logger,
	})

	exec := executor.New(executor.Config{
		Driver:            driver,
		Providers:         provider.NewFactory(cfg, logger),
		Admission:         executor.NewAdmission(cfg.General.MaxConcurrent, cfg.General.ActionsPerMinute),
		Bus:               eventBus,
		Logger:            logger,
		InvocationTimeout: time.Duration(cfg.General.InvocationTimeoutSeconds) * time.Second,
		NoteTimeout:       time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
	return exec, eventBus
}

func runCmd() *cobra.Command {
	var action, messageText, fullName, title, company, language string
	var noPersonalize bool

	cmd := &cobra.Command{
		Use:   "run \"<prompt>\"",
		Short: "Run one outreach invocation from the command line",
		Long: "Runs a single invocation and prints its events. Credentials are read\n" +
			"from the environment: LINKEDIN_SESSION_COOKIE or LINKEDIN_EMAIL +\n" +
			"LINKEDIN_PASSWORD, plus LLM_API_KEY (and optionally LLM_PROVIDER,\n" +
			"LLM_MODEL) for note personalization.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			exec, _ := buildExecutor(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			keys := make(map[string]string)
			for _, k := range []string{
				domain.KeySessionCookie, domain.KeyEmail, domain.KeyPassword,
				domain.KeyLLMAPIKey, domain.KeyLLMProvider, domain.KeyLLMModel,
			} {
				if v := os.Getenv(k); v != "" {
					keys[k] = v
				}
			}

			req := executor.Request{
				Prompt:   args[0],
				Language: language,
				Keys:     keys,
				Options: executor.Options{
					Action:      action,
					FullName:    fullName,
					Title:       title,
					Company:     company,
					MessageText: messageText,
				},
			}
			if noPersonalize {
				off := false
				req.Options.Personalize = &off
			}

			success := false
			for ev := range exec.Execute(ctx, req) {
				switch ev.Kind {
				case domain.EventStatus:
					fmt.Fprintln(os.Stderr, ev.Message)
				case domain.EventResult:
					fmt.Println(ev.Result.Message)
					success = ev.Result.Success
				case domain.EventError:
					fmt.Fprintln(os.Stderr, "error: "+ev.Message)
				}
			}
			if !success {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&action, "action", "connect", "action: connect or message")
	cmd.Flags().StringVar(&messageText, "message", "", "message text (message action)")
	cmd.Flags().StringVar(&fullName, "name", "", "prospect full name")
	cmd.Flags().StringVar(&title, "title", "", "prospect title")
	cmd.Flags().StringVar(&company, "company", "", "prospect company")
	cmd.Flags().StringVar(&language, "language", "", "output language, e.g. es")
	cmd.Flags().BoolVar(&noPersonalize, "no-personalize", false, "skip AI personalization")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the SSE execution API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			exec, _ := buildExecutor(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Host:           cfg.Server.Host,
				Port:           cfg.Server.Port,
				APIKey:         cfg.Server.APIKey,
				MetricsEnabled: cfg.Metrics.Enabled,
				MetricsPath:    cfg.Metrics.Endpoint,
				Logger:         logger,
				Version:        version,
			}, exec)
			return srv.Start(ctx)
		},
	}
}

func manifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Print capability metadata as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := manifest.Default().YAML()
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
			return nil
		},
	}
}
