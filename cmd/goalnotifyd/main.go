// Package main is the entry point for the goalnotifyd toast daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/vunf1/goalnotify/internal/audio"
	"github.com/vunf1/goalnotify/internal/config"
	"github.com/vunf1/goalnotify/internal/daemon"
	"github.com/vunf1/goalnotify/internal/dbus"
	"github.com/vunf1/goalnotify/internal/display"
	"github.com/vunf1/goalnotify/internal/queue"
)

const (
	appID   = "io.github.vunf1.goalnotifyd"
	appName = "goalnotifyd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *showVersion {
		println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting goalnotifyd", "version", version)

	cfg, err := config.LoadDaemonConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between the GTK main loop and the signal handler.
	var (
		displayManager *display.Manager
		queueServer    *queue.Server
		bridge         *dbus.Server
		player         *audio.Player
		configWatcher  *daemon.ConfigWatcher
		running        atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		glib.IdleAdd(func() {
			if running.Load() {
				if configWatcher != nil {
					configWatcher.Stop()
				}
				if bridge != nil {
					_ = bridge.Stop()
				}
				if queueServer != nil {
					_ = queueServer.Stop()
				}
				if displayManager != nil {
					displayManager.Stop()
				}
				if player != nil {
					player.Close()
				}
				app.Quit()
			}
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		displayManager = display.NewManager(&app.Application, cfg, logger)
		if err := displayManager.Start(); err != nil {
			logger.Error("failed to start display manager", "error", err)
			app.Quit()
			return
		}

		if cfg.Audio.Enabled {
			player = audio.NewPlayer(logger)
			player.SetVolume(float64(cfg.Audio.Volume) / 100.0)
			if chime := cfg.ChimePath(); chime != "" {
				if err := player.Preload(chime); err != nil {
					logger.Warn("failed to preload chime", "path", chime, "error", err)
				}
			}
		}

		service := daemon.NewService(&app.Application, displayManager, player, version, logger)
		if cfg.Audio.Enabled {
			service.SetChime(cfg.ChimePath())
		}

		socketPath := queue.SocketPath(cfg.Queue.Socket)
		queueServer = queue.NewServer(socketPath, logger)
		queueServer.SetNotifyHandler(service.HandleNotify)
		queueServer.SetPromptHandler(service.HandlePrompt)
		queueServer.SetStatusHandler(service.HandleStatus)
		if err := queueServer.Start(); err != nil {
			logger.Error("failed to start queue server", "error", err)
			displayManager.Stop()
			app.Quit()
			return
		}

		if cfg.DBus.Enabled {
			bridge = dbus.NewServer(logger)
			bridge.SetServerInfo(dbus.ServerInfo{
				Name:        appName,
				Vendor:      "goalnotify",
				Version:     version,
				SpecVersion: "1.2",
			})
			bridge.SetNotifyHandler(service.HandleNotify)
			if err := bridge.Start(); err != nil {
				logger.Warn("failed to start D-Bus bridge", "error", err)
				bridge = nil
			}
		}

		notifier := daemon.NewInternalNotifier(logger)
		notifier.SetNotifyHandler(service.HandleNotify)

		configWatcher, err = daemon.NewConfigWatcher(logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			configWatcher.SetReloadCallback(func(newConfig *config.DaemonConfig) {
				glib.IdleAdd(func() {
					displayManager.UpdateConfig(newConfig)
					if player != nil {
						player.SetVolume(float64(newConfig.Audio.Volume) / 100.0)
					}
					service.SetChime("")
					if newConfig.Audio.Enabled {
						service.SetChime(newConfig.ChimePath())
					}
					cfg = newConfig
					notifier.NotifyConfigReloaded()
				})
			})
			configWatcher.SetErrorCallback(func(err error) {
				notifier.NotifyConfigError(err)
			})
			if err := configWatcher.Start(ctx); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			}
		}

		logger.Info("goalnotifyd ready", "socket", socketPath, "dbus", cfg.DBus.Enabled)
		notifier.NotifyStartup(version)

		// Hidden window keeps the application alive: GTK apps quit
		// when all windows are closed.
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if bridge != nil {
			_ = bridge.Stop()
		}
		if queueServer != nil {
			_ = queueServer.Stop()
		}
		if displayManager != nil {
			displayManager.Stop()
		}
		if player != nil {
			player.Close()
		}
		running.Store(false)
	})

	status := app.Run(os.Args)
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("goalnotifyd stopped")
}
