// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/tejashwikalptaru/govis/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/govis/internal/adapter/audio/speaker"
	"github.com/tejashwikalptaru/govis/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/govis/internal/adapter/repository/memory"
	fynesched "github.com/tejashwikalptaru/govis/internal/adapter/scheduler/fyne"
	"github.com/tejashwikalptaru/govis/internal/adapter/scheduler/ticker"
	fyneui "github.com/tejashwikalptaru/govis/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/govis/internal/config"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/dsp"
	"github.com/tejashwikalptaru/govis/internal/logger"
	"github.com/tejashwikalptaru/govis/internal/observe"
	"github.com/tejashwikalptaru/govis/internal/ports"
	"github.com/tejashwikalptaru/govis/internal/service"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger   *slog.Logger
	fyneApp  fyne.App
	settings *config.Config

	// Infrastructure
	eventBus    ports.EventBus
	audioOutput ports.AudioOutput
	scheduler   ports.Scheduler
	provider    *observe.Provider
	metrics     *observe.Metrics

	// Repositories
	preferencesRepo ports.PreferencesRepository

	// Services
	playbackService   *service.PlaybackService
	preferenceService *service.PreferenceService
	samplerService    *service.SamplerService
	driverService     *service.DriverService

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	// Metrics endpoint
	metricsServer *observe.Server
	group         *errgroup.Group
	cancel        context.CancelFunc

	shutdown bool
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// Settings is the loaded configuration file; nil uses config.Default()
	Settings *config.Config

	// UseMockAudio forces the mock audio output regardless of Settings
	UseMockAudio bool

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	return Config{
		AppID:   "io.github.tejashwikalptaru.govis",
		AppName: "govis",
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg Config) (*Application, error) {
	app := &Application{settings: cfg.Settings}
	if app.settings == nil {
		app.settings = config.Default()
	}
	if err := app.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Step 1: Create Fyne application
	if cfg.TestFyneApp != nil {
		app.fyneApp = cfg.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(cfg.AppID)
	}

	// Step 2: Create logger (GOVIS_LOG_LEVEL wins over the file)
	loggerCfg := logger.Config{
		Level:  app.settings.LogLevel(),
		Format: app.settings.Log.Format,
	}
	if level, ok := logger.LevelFromEnv(); ok {
		loggerCfg.Level = level
	}
	app.logger = logger.NewLogger(loggerCfg)
	app.logger.Info("initializing application",
		slog.String("app_id", cfg.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 3: Metrics
	provider, err := observe.InitProvider(observe.ProviderConfig{
		ServiceName:    cfg.AppName,
		ServiceVersion: Version,
		Registry:       prometheus.NewRegistry(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	app.provider = provider
	app.metrics, err = observe.NewMetrics(provider.MeterProvider())
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}

	// Step 4: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))

	// Step 5: Create the audio output
	app.audioOutput = app.newAudioOutput(cfg.UseMockAudio || app.settings.Audio.UseMock)

	// Step 6: Create repositories and services (with dependency injection)
	app.preferencesRepo = memory.NewPreferencesRepository(app.fyneApp.Preferences())

	app.preferenceService = service.NewPreferenceService(
		app.logger.With(slog.String("service", "preference")),
		app.preferencesRepo,
		app.eventBus,
	)

	app.playbackService = service.NewPlaybackService(
		app.logger.With(slog.String("service", "playback")),
		app.audioOutput,
		app.eventBus,
	)

	analyserCfg := app.settings.AnalyserConfig()
	app.samplerService = service.NewSamplerService(
		app.logger.With(slog.String("service", "sampler")),
		app.audioOutput,
		func(int) (ports.AnalyserNode, error) {
			return dsp.NewAnalyser(analyserCfg)
		},
	)
	app.samplerService.Listen(app.eventBus)

	// Step 7: Load saved state
	app.loadSavedState()

	// Step 8: Create UI and the animation driver drawing into it
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, app.logger.With(slog.String("component", "window")))
	app.scheduler = app.newScheduler()

	app.driverService = service.NewDriverService(
		app.logger.With(slog.String("service", "driver")),
		service.DriverDependencies{
			Playback:  app.audioOutput,
			Graph:     app.samplerService,
			Sampler:   app.samplerService,
			Generator: service.NewSimulatorService(nil),
			Renderer:  visualizer.NewEngine(),
			Surface:   app.mainWindow.Surface(),
			Scheduler: app.scheduler,
			Bus:       app.eventBus,
			Metrics:   app.metrics,
			Mode:      app.initialMode(),
		},
	)

	// Step 9: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.playbackService,
		app.preferenceService,
		app.driverService,
		app.eventBus,
		app.mainWindow,
	)
	app.mainWindow.SetPresenter(app.presenter)

	return app, nil
}

// newScheduler creates the frame clock chosen by the visualizer settings.
// The display clock starts with the Fyne app.
func (a *Application) newScheduler() ports.Scheduler {
	if a.settings.Visualizer.Clock == config.ClockTimer {
		a.logger.Info("using timer frame clock", slog.Int("fps", a.settings.Visualizer.FrameRate))
		return ticker.New(a.settings.FrameInterval())
	}

	s := fynesched.New()
	a.fyneApp.Lifecycle().SetOnStarted(s.Start)
	return s
}

// newAudioOutput opens the sound device, falling back to the mock output when
// it is unavailable.
func (a *Application) newAudioOutput(useMock bool) ports.AudioOutput {
	if !useMock {
		out, err := speaker.NewOutput(
			a.logger.With(slog.String("output", "speaker")),
			speaker.Config{SampleRate: a.settings.Audio.SampleRate},
		)
		if err == nil {
			return out
		}
		a.logger.Warn("sound device unavailable, using silent output", slog.Any("error", err))
	}

	// The silent output has no analysis tap, so the driver falls back to simulated frames
	out := mock.NewOutput()
	out.SetSampleRate(a.settings.Audio.SampleRate)
	out.SetFailAttach(true)
	return out
}

// initialMode returns the saved mode, or the configured one when the saved
// mode is the default.
func (a *Application) initialMode() domain.RenderMode {
	mode := a.preferenceService.RenderMode()
	if mode == domain.DefaultRenderMode {
		return a.settings.Visualizer.Mode
	}
	return mode
}

// loadSavedState restores the application state from the previous session.
func (a *Application) loadSavedState() {
	volume := a.preferenceService.Volume()
	if err := a.playbackService.SetVolume(volume); err != nil {
		a.logger.Warn("failed to set volume", slog.Any("error", err))
	}
}

// Run starts the metrics endpoint (when configured) and shows the window.
// It blocks until the window is closed.
func (a *Application) Run() error {
	if err := a.StartMetricsServer(); err != nil {
		return err
	}

	a.logger.Info("govis started")

	// Show and run UI (blocks until the window is closed)
	a.mainWindow.ShowAndRun()
	return nil
}

// StartMetricsServer serves /metrics on the configured address.
// It does nothing when no address is configured.
func (a *Application) StartMetricsServer() error {
	addr := a.settings.Metrics.ListenAddr
	if addr == "" || a.metricsServer != nil {
		return nil
	}

	srv, err := observe.NewServer(addr, a.provider.Handler())
	if err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Serve)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	a.metricsServer = srv
	a.group = g
	a.cancel = cancel

	a.logger.Info("serving metrics", slog.String("addr", srv.Addr()))
	return nil
}

// MetricsAddr returns the bound metrics address, or "" when not serving.
func (a *Application) MetricsAddr() string {
	if a.metricsServer == nil {
		return ""
	}
	return a.metricsServer.Addr()
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	if a.shutdown {
		return nil
	}
	a.shutdown = true

	a.logger.Info("shutting down application")

	var errs []error

	// Shutdown UI and presenter
	if a.presenter != nil {
		a.presenter.Shutdown()
	}
	if s, ok := a.scheduler.(*fynesched.Scheduler); ok {
		s.Close()
	}

	// Shutdown services (in reverse order of creation)
	if a.samplerService != nil {
		if err := a.samplerService.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("sampler service: %w", err))
		}
	}
	if a.playbackService != nil {
		if err := a.playbackService.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("playback service: %w", err))
		}
	}
	if a.preferenceService != nil {
		if err := a.preferenceService.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("preference service: %w", err))
		}
	}

	if a.audioOutput != nil {
		if err := a.audioOutput.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audio output: %w", err))
		}
	}

	if a.cancel != nil {
		a.cancel()
		if err := a.group.Wait(); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}
	if a.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider: %w", err))
		}
		cancel()
	}

	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// GetServices returns the application services (for testing).
func (a *Application) GetServices() (*service.PlaybackService, *service.PreferenceService, *service.DriverService) {
	return a.playbackService, a.preferenceService, a.driverService
}

// GetEventBus returns the event bus (for testing).
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application (for testing).
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}
