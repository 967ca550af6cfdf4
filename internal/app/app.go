// Package app wires the engine, its diagnostics, and the host
// bindings together. The host loader calls Run once after the addon is
// loaded into the game client.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	addon "interact-nearest/addon"
	"interact-nearest/addon/internal/telemetry"
	"interact-nearest/addon/logging"
	loggingSinks "interact-nearest/addon/logging/sinks"
)

// Config carries the host collaborators and optional overrides.
type Config struct {
	// AddonConfigPath points at an optional YAML override file.
	AddonConfigPath string
	// LogConfig selects sinks; nil uses logging.DefaultConfig.
	LogConfig *logging.Config

	Provider   addon.Provider
	Interactor addon.Interactor

	// ScriptRegistry and KeyBinder may be nil when the host exposes
	// only one of the two surfaces.
	ScriptRegistry addon.ScriptRegistry
	KeyBinder      addon.KeyBinder

	Logger telemetry.Logger
}

// App is the running addon: the engine plus its diagnostics plumbing.
type App struct {
	Engine  *addon.Engine
	Router  *logging.Router
	Metrics *logging.Metrics

	streamServer *http.Server
}

// Run builds and binds everything. It returns the running App; the
// host calls Close during unload.
func Run(cfg Config) (*App, error) {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	engineCfg, err := addon.LoadConfig(cfg.AddonConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load addon config: %w", err)
	}

	logConfig := logging.DefaultConfig()
	if cfg.LogConfig != nil {
		logConfig = *cfg.LogConfig
	}

	var namedSinks []logging.NamedSink
	var stream *loggingSinks.Stream
	if logConfig.HasSink("debug") {
		sink, err := loggingSinks.NewDebugFile(logConfig.Debug)
		if err != nil {
			return nil, fmt.Errorf("debug sink: %w", err)
		}
		namedSinks = append(namedSinks, logging.NamedSink{Name: "debug", Sink: sink})
	}
	if logConfig.HasSink("json") {
		if logConfig.JSON.Compress {
			namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewZstdFile(logConfig.JSON.FilePath)})
		} else {
			file, err := openAppend(logConfig.JSON.FilePath)
			if err != nil {
				return nil, fmt.Errorf("json sink: %w", err)
			}
			namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval)})
		}
	}
	if logConfig.HasSink("console") {
		namedSinks = append(namedSinks, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout)})
	}
	if logConfig.HasSink("stream") && logConfig.Stream.Addr != "" {
		stream = loggingSinks.NewStream()
		namedSinks = append(namedSinks, logging.NamedSink{Name: "stream", Sink: stream})
	}

	router, err := logging.NewRouter(logging.SystemClock{}, logConfig, namedSinks)
	if err != nil {
		return nil, fmt.Errorf("construct logging router: %w", err)
	}

	metrics := logging.NewMetrics()
	engine, err := addon.NewEngine(engineCfg, addon.Deps{
		Provider:   cfg.Provider,
		Interactor: cfg.Interactor,
		Publisher:  router,
		Logger:     telemetryLogger,
		Metrics:    telemetry.WrapMetrics(metrics),
	})
	if err != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		router.Close(closeCtx)
		return nil, err
	}

	app := &App{Engine: engine, Router: router, Metrics: metrics}

	if stream != nil {
		mux := http.NewServeMux()
		mux.Handle("/tail", stream.Handler())
		app.streamServer = &http.Server{Addr: logConfig.Stream.Addr, Handler: mux}
		go func() {
			if err := app.streamServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				telemetryLogger.Printf("stream listener stopped: %v", err)
			}
		}()
	}

	if cfg.ScriptRegistry != nil {
		if err := addon.Bind(cfg.ScriptRegistry, engine); err != nil {
			app.Close(context.Background())
			return nil, err
		}
	}
	if cfg.KeyBinder != nil {
		if err := addon.RegisterBindings(cfg.KeyBinder, engine); err != nil {
			app.Close(context.Background())
			return nil, err
		}
	}

	return app, nil
}

// Close flushes diagnostics and stops the stream listener.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var firstErr error
	if a.streamServer != nil {
		if err := a.streamServer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.Router != nil {
		if err := a.Router.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openAppend(path string) (*os.File, error) {
	if path == "" {
		path = "Logs/interact_events.jsonl"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
