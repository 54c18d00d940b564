package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xiaohua-travel/linebot/internal/app/di"
	"github.com/xiaohua-travel/linebot/internal/cache"
	"github.com/xiaohua-travel/linebot/internal/commands/image"
	"github.com/xiaohua-travel/linebot/internal/commands/start"
	"github.com/xiaohua-travel/linebot/internal/commands/text"
	"github.com/xiaohua-travel/linebot/internal/commands/video"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/core"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/server"
)

type Application struct {
	Logger logger.Logger
	cfg    *config.Config
	bot    *core.Bot
	di     *di.Container
	server *server.Server
	cron   *cron.Cron
}

func New(cfg *config.Config) (*Application, error) {
	container, err := di.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	container.Logger.Info("DI Container created")

	bot := core.NewBot(
		container.Line,
		container.Queue,
		container.Locks,
		container.Logger,
		container.Localizer,
	)

	app := &Application{
		Logger: container.Logger,
		cfg:    cfg,
		bot:    bot,
		di:     container,
		server: server.New(container.Line, bot, container.Media, container.Logger),
		cron:   cron.New(),
	}
	app.registerCommands()

	if err := app.scheduleMaintenance(); err != nil {
		_ = container.Close()
		return nil, err
	}
	return app, nil
}

func (a *Application) registerCommands() {
	a.bot.RegisterCommand(line.EventText, text.New(a.di))
	a.bot.RegisterCommand(line.EventImage, image.New(a.di))
	a.bot.RegisterCommand(line.EventVideo, video.New(a.di))
	a.bot.RegisterCommand(line.EventFollow, start.New(a.di))
}

func (a *Application) scheduleMaintenance() error {
	if schedule := a.cfg.Media().SweepSchedule; schedule != "" {
		if _, err := a.cron.AddFunc(schedule, func() { _, _ = a.SweepMedia() }); err != nil {
			return fmt.Errorf("invalid media.sweep_schedule %q: %w", schedule, err)
		}
	}

	purger, ok := a.di.Cache.(cache.Purger)
	if schedule := a.cfg.Session().PurgeSchedule; ok && schedule != "" {
		if _, err := a.cron.AddFunc(schedule, func() { a.purgeSessions(purger) }); err != nil {
			return fmt.Errorf("invalid session.purge_schedule %q: %w", schedule, err)
		}
	}
	return nil
}

// Run serves the webhook until ctx is cancelled, then drains in-flight work.
func (a *Application) Run(ctx context.Context) error {
	a.Logger.Info("Starting application")
	defer a.di.Close()

	queueCtx, cancelQueue := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelQueue()
	a.di.Queue.Start(queueCtx)
	a.cron.Start()

	serverCfg := a.cfg.Server()
	httpServer := a.server.NewHTTPServer(ctx, serverCfg)
	errCh := make(chan error, 1)
	go func() {
		a.Logger.WithField("addr", serverCfg.Addr()).Info("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutting down server")
	case runErr = <-errCh:
		a.Logger.WithError(runErr).Error("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.WithError(err).Error("Server forced to shutdown")
	}
	<-a.cron.Stop().Done()

	// give queued events until the shutdown deadline, then cancel them
	drained := make(chan struct{})
	go func() {
		a.di.Queue.Stop()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		a.Logger.Warn("Queue did not drain in time, cancelling pending events")
		cancelQueue()
		<-drained
	}

	a.Logger.Info("Application stopped")
	return runErr
}

// SweepMedia deletes stored media older than the retention window.
func (a *Application) SweepMedia() (int, error) {
	removed, err := a.di.Media.Sweep(time.Now())
	log := a.Logger.WithField("removed", removed)
	if err != nil {
		log.WithError(err).Error("Media sweep failed")
		return removed, err
	}
	log.Debug("Media sweep finished")
	return removed, nil
}

func (a *Application) purgeSessions(purger cache.Purger) {
	purged, err := purger.PurgeExpired()
	if err != nil {
		a.Logger.WithError(err).Error("Failed to purge expired sessions")
		return
	}
	a.Logger.WithField("purged", purged).Debug("Expired sessions purged")
}

func (a *Application) Close() error {
	return a.di.Close()
}
