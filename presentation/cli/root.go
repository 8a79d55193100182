package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"course_e2e/application/automation"
	"course_e2e/domain/interfaces"
	"course_e2e/infrastructure/browser"
	"course_e2e/infrastructure/config"
	"course_e2e/infrastructure/logging"
	"course_e2e/infrastructure/storage"
)

// App carries the state shared by every subcommand once the root command
// has loaded configuration
type App struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *logrus.Logger
	out     io.Writer

	// newDriver is swapped in tests
	newDriver func(cfg *config.Config, logger logrus.FieldLogger) (interfaces.Driver, error)
}

func NewApp() *App {
	return &App{
		v:         config.NewViper(),
		out:       os.Stdout,
		newDriver: browser.NewDriver,
	}
}

// NewRootCommand - builds the command tree around a fresh App
func NewRootCommand() *cobra.Command {
	return NewApp().Command()
}

// Command - builds the root command for a
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "course-e2e",
		Short:         "Browser checks for the course marketplace",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.SetOut(a.out)
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./e2e.yaml)")
	flags.String("driver", config.DriverPlaywright, "automation backend: playwright, webdriver or rod")
	flags.String("browser", "chrome", "browser: chrome, chrome-headless, firefox or webkit")
	flags.String("base-url", config.DefaultBaseURL, "base URL of the application under test")
	flags.Bool("headless", true, "run the browser without a window")
	flags.String("log-level", "info", "log level")

	for key, flag := range map[string]string{
		"driver":    "driver",
		"browser":   "browser",
		"base_url":  "base-url",
		"headless":  "headless",
		"log.level": "log-level",
	} {
		// only errors on a nil flag
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.doctorCommand(),
		a.smokeCommand(),
		a.checkCommand(),
		versionCommand(),
	)
	return root
}

func (a *App) load() error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log)
	a.logger.WithFields(logrus.Fields{
		"driver":   cfg.Driver,
		"browser":  cfg.Browser,
		"base_url": cfg.BaseURL,
	}).Debug("Configuration loaded")
	return nil
}

// run is one browser session whose artifacts live under a run directory
type run struct {
	id      string
	session *automation.Session
	store   interfaces.ArtifactStore
}

func (a *App) startRun() (*run, error) {
	id := uuid.NewString()
	store, err := storage.NewArtifactStore(filepath.Join(a.cfg.Artifacts.Dir, id))
	if err != nil {
		return nil, err
	}

	driver, err := a.newDriver(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger := a.logger.WithField("run_id", id)
	return &run{
		id:      id,
		session: automation.NewSession(driver, store, automation.OptionsFromConfig(a.cfg), logger),
		store:   store,
	}, nil
}

func (r *run) close(logger logrus.FieldLogger) {
	if err := r.session.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close browser")
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
