package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/omriShneor/quickcal/internal/completion"
	"github.com/omriShneor/quickcal/internal/config"
	"github.com/omriShneor/quickcal/internal/extract"
	"github.com/omriShneor/quickcal/internal/gcal"
	"github.com/omriShneor/quickcal/internal/notify"
	"github.com/omriShneor/quickcal/internal/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "quickcal",
		Usage: "Turn plain-language event descriptions into Google Calendar events.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional YAML file overriding environment settings",
				EnvVars: []string{"QUICKCAL_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides QUICKCAL_LOG_LEVEL)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			authorizeCommand(),
			parseCommand(),
			eventsCommand(),
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the web app (default).",
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.InsecureSecret() {
		logger.Warn("SECRET_KEY is not set; using the public default, forms are not protected against forgery")
	}

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}
	calendarClient, err := newCalendarClient(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Extractor:     extractor,
		Calendar:      calendarClient,
		NotifyService: newNotifyService(cfg, logger),
		Logger:        logger,
		SecretKey:     cfg.SecretKey,
		EventsFile:    cfg.EventsFile,
		Port:          cfg.HTTPPort,
		SecureCookies: strings.HasPrefix(cfg.AppURL(), "https://"),
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func authorizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "authorize",
		Usage: "Authorize Google Calendar access from the terminal.",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(c)
			if err != nil {
				return err
			}
			calendarClient, err := newCalendarClient(cfg, logger)
			if err != nil {
				return err
			}

			fmt.Printf("Go to the following link in your browser, approve access, then paste "+
				"the 'code' parameter of the page you are redirected to:\n%v\n", calendarClient.AuthCodeURL("console"))
			fmt.Print("Enter Authorization Code: ")

			reader := bufio.NewReader(os.Stdin)
			code, _ := reader.ReadString('\n')
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code entered")
			}

			if err := calendarClient.Exchange(c.Context, code); err != nil {
				return err
			}
			logger.Info("Authorization complete", "token_file", cfg.GoogleTokenFile)
			return nil
		},
	}
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Show the event a description would produce, without creating it.",
		ArgsUsage: "<description>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "timezone",
				Usage: "IANA zone of the user",
				Value: "UTC",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			extractor, err := newExtractor(cfg, logger)
			if err != nil {
				return err
			}

			result, err := extractor.Extract(c.Context, strings.Join(c.Args().Slice(), " "), c.String("timezone"))
			if err != nil {
				return err
			}

			start, end := result.Event.Boundaries()
			out := map[string]interface{}{
				"raw":     result.Raw,
				"fields":  result.Fields,
				"all_day": result.Event.AllDay,
				"start":   start,
				"end":     end,
				"display": extract.Present(result.Event, result.Location),
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List upcoming events and refresh the snapshot file.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Usage: "how many days ahead to list",
				Value: 7,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(c)
			if err != nil {
				return err
			}
			calendarClient, err := newCalendarClient(cfg, logger)
			if err != nil {
				return err
			}

			session, err := calendarClient.Authorize(c.Context)
			if err != nil {
				if gcal.IsNotAuthorized(err) {
					return fmt.Errorf("%w; run the 'authorize' command first", err)
				}
				return err
			}

			events, err := session.ListUpcoming(c.Context, time.Now(), c.Int("days"))
			if err != nil {
				return err
			}
			if err := gcal.WriteSnapshot(cfg.EventsFile, events); err != nil {
				return err
			}

			for _, e := range events {
				when := ""
				if e.Start != nil {
					when = e.Start.DateTime
					if when == "" {
						when = e.Start.Date
					}
				}
				fmt.Printf("%-25s  %s\n", when, e.Summary)
			}
			logger.Info("Snapshot written", "file", cfg.EventsFile, "count", len(events))
			return nil
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newExtractor(cfg *config.Config, logger *slog.Logger) (*extract.Extractor, error) {
	client, err := completion.New(completion.Config{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.LLMAPIKey(),
		Model:     cfg.LLMModel,
		MaxTokens: cfg.LLMMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Completion client configured", "provider", cfg.LLMProvider, "model", client.Model())

	return extract.New(extract.Config{Completer: client, Logger: logger}), nil
}

func newCalendarClient(cfg *config.Config, logger *slog.Logger) (*gcal.Client, error) {
	oauthConfig, err := gcal.LoadOAuthConfig(cfg.GoogleCredentialsFile, cfg.RedirectURL())
	if err != nil {
		return nil, err
	}
	return gcal.NewClient(gcal.ClientConfig{
		OAuth:      oauthConfig,
		TokenFile:  cfg.GoogleTokenFile,
		CalendarID: cfg.CalendarID,
		Logger:     logger,
	}), nil
}

func newNotifyService(cfg *config.Config, logger *slog.Logger) *notify.Service {
	var emailNotifier notify.Notifier
	if resend := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppURL(), logger); resend.IsConfigured() {
		emailNotifier = resend
		logger.Info("Email confirmations configured (Resend)", "recipient", cfg.NotifyEmail)
	}
	return notify.NewService(emailNotifier, cfg.NotifyEmail, logger)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
