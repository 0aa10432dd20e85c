package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/bekirdag/jobdesk/internal/config"
	"github.com/bekirdag/jobdesk/internal/jobapi"
	"github.com/bekirdag/jobdesk/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "jobdesk",
		Usage: "Warehouse job dashboard for the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML settings file",
				Value: config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "optional .env file",
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "jobs API base URL (overrides JOBDESK_API_URL)",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Markdown rendering theme: auto, light, or dark",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "log destination while the dashboard is open",
			},
			&cli.StringFlag{
				Name:  "events-file",
				Usage: `dashboard audit trail (JSON lines), "off" to disable`,
			},
		},
		Action: dashboardAction,
		Commands: []*cli.Command{
			{
				Name:   "tui",
				Usage:  "Open the interactive dashboard",
				Action: dashboardAction,
			},
			{
				Name:  "jobs",
				Usage: "Inspect and change jobs",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "Print jobs, newest first",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "status",
								Usage: "all, pending, inProgress or completed",
								Value: "all",
							},
							&cli.StringFlag{
								Name:  "from",
								Usage: "created on or after (YYYY-MM-DD)",
							},
							&cli.StringFlag{
								Name:  "to",
								Usage: "created on or before (YYYY-MM-DD)",
							},
						},
						Action: jobsListAction,
					},
					{
						Name:      "set-status",
						Usage:     "Change the status of a job",
						ArgsUsage: "<id> <status>",
						Action:    jobsSetStatusAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a job",
						ArgsUsage: "<id>",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "yes",
								Usage: "skip the confirmation prompt",
							},
						},
						Action: jobsDeleteAction,
					},
				},
			},
			{
				Name:   "activity",
				Usage:  "Print the recent activity feed",
				Action: activityAction,
			},
		},
	}
}

// appContext is what every action needs: resolved settings, a logger and
// the API client.
type appContext struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	client     *jobapi.Client
	logFile    io.Closer
}

// newAppContext resolves settings as defaults, YAML file, .env, environment
// and finally flags. The dashboard logs to a file because it owns the
// terminal; the other commands log to stderr.
func newAppContext(cmd *cli.Command, interactive bool) (*appContext, error) {
	configPath := cmd.String("config")
	cfg, err := config.Load(config.Options{Path: configPath, EnvFile: cmd.String("env")})
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	app := &appContext{cfg: cfg, configPath: configPath}
	logCfg := logger.DefaultConfig()
	logCfg.Level = level
	logCfg.Output = errWriter(cmd)
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	if interactive {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		app.logFile = f
		logCfg.Output = f
	}
	app.logger = logger.New(logCfg)

	client, err := jobapi.NewClient(cfg.APIURL, jobapi.WithLogger(app.logger))
	if err != nil {
		app.Close()
		return nil, err
	}
	app.client = client
	return app, nil
}

func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("api-url") {
		cfg.APIURL = cmd.String("api-url")
	}
	if cmd.IsSet("theme") {
		cfg.Theme = cmd.String("theme")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}
	if cmd.IsSet("events-file") {
		cfg.EventsFile = cmd.String("events-file")
	}
}

func (a *appContext) Close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func dashboardAction(ctx context.Context, cmd *cli.Command) error {
	app, err := newAppContext(cmd, true)
	if err != nil {
		return err
	}
	defer app.Close()

	// Cancelling on exit aborts any request still in flight.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var events *telemetryLogger
	if path := app.cfg.EventsFile; !strings.EqualFold(path, "off") {
		events = newTelemetryLogger(path, newTelemetrySessionID(), resolveTelemetryUserID())
	}
	events.Emit(telemetryEvent{
		Event: eventSessionStarted,
		Extra: map[string]string{"api_url": app.client.BaseURL()},
	})

	app.logger.Info("dashboard starting", "api", app.client.BaseURL())
	m := newModel(ctx, modelOptions{
		repo:       app.client,
		theme:      markdownThemeFromString(app.cfg.Theme),
		apiURL:     app.client.BaseURL(),
		configPath: app.configPath,
		logger:     app.logger,
		telemetry:  events,
	})
	if _, err := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	app.logger.Info("dashboard exited")
	return nil
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func inReader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}
