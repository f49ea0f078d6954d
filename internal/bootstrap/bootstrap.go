package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	sessioninadapter "timeanchor/internal/modules/session/adapter/in"
	sessionoutadapter "timeanchor/internal/modules/session/adapter/out"
	sessionin "timeanchor/internal/modules/session/port/in"
	sessionout "timeanchor/internal/modules/session/port/out"
	sessionservice "timeanchor/internal/modules/session/service"
	sessionusecase "timeanchor/internal/modules/session/usecase"
	"timeanchor/internal/platform/clock"
	"timeanchor/internal/platform/config"
	"timeanchor/internal/platform/id"
	"timeanchor/internal/platform/logging"
	"timeanchor/internal/platform/schedule"
	uiapp "timeanchor/internal/ui/app"
)

type App struct {
	SessionCLI sessioninadapter.CLIHandler
	Session    sessionin.Usecase
	Logger     *slog.Logger

	closers []func() error
}

func New(cfg config.Config) (*App, error) {
	app := &App{}
	logFile, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, logFile.Close)

	logger, err := logging.New(logFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Logger = logger

	store, err := newSnapshotStore(cfg, app)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	writer := sessionoutadapter.NewAsyncSnapshotWriter(store, logger.With("component", "snapshot"))
	app.closers = append(app.closers, writer.Close)

	svc := sessionservice.NewSessionService(
		clock.SystemClock{},
		schedule.TickerScheduler{},
		id.UUID{},
		writer,
		sessionoutadapter.NewVaultJournalStore(cfg.JournalPath),
		logger.With("component", "engine"),
	)
	svc.SetProfile(cfg.Accelerated)
	svc.Load(context.Background())
	app.closers = append(app.closers, func() error {
		svc.Close()
		return nil
	})

	app.Session = sessionusecase.NewInteractor(svc)
	app.SessionCLI = sessioninadapter.NewCLIHandler(app.Session)
	logger.Info("engine ready", "data", cfg.DataPath, "store", cfg.Store, "accelerated", cfg.Accelerated)
	return app, nil
}

func newSnapshotStore(cfg config.Config, app *App) (sessionout.SnapshotStore, error) {
	switch cfg.Store {
	case config.StoreFile:
		return sessionoutadapter.NewFileSnapshotStore(cfg.SnapshotPath), nil
	case config.StoreSQLite:
		store, err := sessionoutadapter.NewSQLiteSnapshotStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("new snapshot store: %w", err)
		}
		app.closers = append(app.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}

// Close releases resources in reverse order of acquisition, so the engine
// stops before the pending snapshot is flushed and the log is closed last.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App, out io.Writer) error {
	model := uiapp.NewModel(app.Session)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(out))
	_, err := program.Run()
	return err
}
