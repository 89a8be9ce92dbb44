package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2"

	"ytcommentsync/internal/api"
	"ytcommentsync/internal/auth"
	"ytcommentsync/internal/config"
	"ytcommentsync/internal/database"
	"ytcommentsync/internal/notify"
	"ytcommentsync/internal/repository"
	"ytcommentsync/internal/service"
	"ytcommentsync/internal/snapshot"
	"ytcommentsync/internal/worker"
	"ytcommentsync/internal/youtube"
)

// Authorize runs the interactive consent flow for one configured channel and
// exits. Meant for operators, when a cycle reports that reauthorization is
// required.
func Authorize(channelName string) error {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	channels, err := config.LoadChannels(cfg.ChannelsFile)
	if err != nil {
		return fmt.Errorf("failed to load channels: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := auth.NewProvider(logger)
	for _, ch := range channels {
		if ch.Name == channelName {
			return provider.Authorize(ctx, ch, cfg.AuthListenAddr, cfg.AuthTimeout)
		}
	}
	return fmt.Errorf("channel %q not listed in %s", channelName, cfg.ChannelsFile)
}

// Run wires every component together and drives sync cycles until the
// process is interrupted.
func Run() error {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	channels, err := config.LoadChannels(cfg.ChannelsFile)
	if err != nil {
		return fmt.Errorf("failed to load channels: %w", err)
	}

	// 2. Open the database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	commentRepo := repository.NewCommentRepository(db)

	// 3. Build the sync engine
	provider := auth.NewProvider(logger)

	factory := func(ctx context.Context, ts oauth2.TokenSource) (service.YouTubeClient, error) {
		return youtube.NewClient(ctx, ts, logger)
	}

	var notifier service.Notifier
	if cfg.TelegramEnabled {
		client := notify.NewTelegramClient(cfg.TelegramBotToken, logger)
		notifier = notify.NewDispatcher(client, commentRepo, notify.DispatcherConfig{
			ChatID:         cfg.TelegramChatID,
			UserID:         cfg.TelegramUserID,
			ThreadID:       cfg.TelegramThreadID,
			UTCOffsetHours: cfg.UTCOffsetHours,
		}, logger)
	}

	var snapshots service.SnapshotWriter
	if cfg.SnapshotsEnabled && cfg.SnapshotDir != "" {
		snapshots = snapshot.NewWriter(cfg.SnapshotDir, logger)
	}

	syncer := service.NewSyncer(channels, provider, factory, commentRepo, notifier, snapshots, logger)

	// 4. Status endpoint
	statusStore := api.NewStatusStore()
	statusSrv := api.NewServer(cfg.StatusAddr, statusStore)
	go func() {
		logger.Printf("[App] Status endpoint on %s", cfg.StatusAddr)
		if err := statusSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("[App] Status server failed: %v", err)
		}
	}()

	// 5. Run cycles until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := worker.NewScheduler(cfg.SyncInterval, func(ctx context.Context) {
		statusStore.Update(syncer.RunCycle(ctx))
	}, logger)

	logger.Printf("[App] Comment sync started (%d channels)", len(channels))
	scheduler.Start(ctx)

	<-ctx.Done()
	scheduler.Stop()
	statusSrv.Shutdown(context.Background())

	logger.Printf("[App] Shut down cleanly")
	return nil
}
