package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/kbukum/engineconnector/component"
	"github.com/kbukum/engineconnector/logger"
)

// App owns the process lifecycle. Components start in registration order,
// hooks run around them and everything stops in reverse, either on a
// shutdown signal (Run) or when a one-shot task returns (RunTask).
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal

	onStart phase
	onReady phase
	onStop  phase
}

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	svc := cfg.GetServiceConfig()
	s := newSettings(opts)

	log := s.log
	if log == nil {
		logger.Init(svc.Logging)
		log = logger.GetGlobalLogger()
	}
	return &App[C]{
		Name:            svc.Name,
		Version:         svc.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(log),
		Logger:          log,
		gracefulTimeout: s.grace,
		signals:         s.signals,
		onStart:         phase{name: "onStart"},
		onReady:         phase{name: "onReady"},
		onStop:          phase{name: "onStop"},
	}, nil
}

// RegisterComponent adds c to the registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck fails when any component reports something other than healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += "(" + h.Message + ")"
		}
		bad = append(bad, entry)
	}
	if len(bad) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Run starts everything and blocks until a shutdown signal arrives or ctx
// is done. Used by the gateway.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		return errors.Join(err, a.stop())
	}
	a.Logger.Info("application ready, waiting for shutdown signal")

	sigCtx, cancel := signal.NotifyContext(ctx, a.signals...)
	defer cancel()
	<-sigCtx.Done()
	if ctx.Err() != nil {
		a.Logger.Info("context canceled, shutting down")
	} else {
		a.Logger.Info("received shutdown signal")
	}
	return a.stop()
}

// RunTask runs task between startup and shutdown. The task's context is
// canceled by a shutdown signal. A task error wins over a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.start(ctx); err != nil {
		return errors.Join(err, a.stop())
	}
	taskCtx, cancel := signal.NotifyContext(ctx, a.signals...)
	defer cancel()

	if err := task(taskCtx); err != nil {
		_ = a.stop()
		return err
	}
	return a.stop()
}

func (a *App[C]) start(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	if err := a.onStart.run(ctx); err != nil {
		return err
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.MergeWithError(nil, err))
	}
	if err := a.onReady.run(ctx); err != nil {
		return err
	}
	a.Logger.Info("application started",
		logger.MergeWithDuration(logger.Fields("components", a.Components.Len()), time.Since(began)))
	return nil
}

// stop runs the onStop hooks, then stops components, all within the
// graceful timeout. Both steps run even when the first fails.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hookErr := a.onStop.run(ctx)
	if hookErr != nil {
		a.Logger.Error("onStop hook error", logger.MergeWithError(nil, hookErr))
	}
	stopErr := a.Components.StopAll(ctx)
	if stopErr != nil {
		a.Logger.Error("shutdown completed with errors", logger.MergeWithError(nil, stopErr))
	}
	a.Logger.Info("application shutdown complete")
	return errors.Join(hookErr, stopErr)
}
