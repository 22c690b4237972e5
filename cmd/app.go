package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/docuflow/docuflow/internal/api"
	"github.com/docuflow/docuflow/internal/auth"
	"github.com/docuflow/docuflow/internal/config"
	apperrors "github.com/docuflow/docuflow/internal/errors"
	"github.com/docuflow/docuflow/internal/generation"
	"github.com/docuflow/docuflow/internal/health"
	"github.com/docuflow/docuflow/internal/logging"
	"github.com/docuflow/docuflow/internal/storage"
)

// app carries the dependencies shared by every subcommand. It is populated
// by the root command before any subcommand runs.
type app struct {
	cfg      *config.Config
	api      *api.Client
	sessions storage.SessionStore
	auth     *auth.Client
	probe    *health.Probe
}

func (a *app) init(configPath, apiURL string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validating config: %w", err)
		}
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logging.Init(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})

	sessions, err := storage.New(cfg.Session.Backend, cfg.Session.Path)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	a.cfg = cfg
	a.api = api.NewClient(cfg.APIURL)
	a.sessions = sessions
	a.auth = auth.NewClient(a.api, sessions)
	a.probe = health.NewProbe(a.api)

	slog.Debug("Client configured", "api_url", cfg.APIURL, "session_backend", cfg.Session.Backend)
	return nil
}

func (a *app) orchestrator(outputDir string) *generation.Orchestrator {
	if outputDir == "" {
		outputDir = a.cfg.OutputDir
	}
	return generation.NewOrchestrator(a.api, a.sessions, generation.NewDirSaver(outputDir))
}

func (a *app) close() {
	if c, ok := a.sessions.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("Unable to close session store", "err", err)
		}
	}
}

// userError turns err into the message shown on the terminal. The full
// error chain is only logged at debug level.
func userError(err error) error {
	if err == nil {
		return nil
	}
	slog.Debug("Command failed", "err", err)

	switch {
	case errors.Is(err, apperrors.ErrSessionExpired):
		return errors.New("your session has expired, run `docuflow login` to sign in again")
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return errors.New("you are not logged in, run `docuflow login` first")
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Status != 0 {
			return fmt.Errorf("%s (status %d)", appErr.Message, appErr.Status)
		}
		return errors.New(appErr.Message)
	}
	return err
}
