package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wirabuild/construction-management/internal/core/events"
	"github.com/wirabuild/construction-management/internal/notification"
	notificationPostgres "github.com/wirabuild/construction-management/internal/notification/postgres"
	"github.com/wirabuild/construction-management/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker processes",
	Long:  `Start and manage background workers like the push notification consumer`,
}

var notifierWorkerCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Start the push notification worker",
	Long:  `Consume queued notifications from the broker and deliver them to registered device tokens`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotifierWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

func startNotifierWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		lg.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		lg.Error("failed to initialize orm", "error", err)
		os.Exit(1)
	}

	publisher, err := notification.NewRabbitMQPublisher(config.Notifier)
	if err != nil {
		lg.Error("failed to connect to broker", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	deviceTokenRepo := notificationPostgres.NewDeviceTokenRepository(gormDB)
	consumer := notification.NewConsumer(deviceTokenRepo, publisher, &notification.LogDeliverer{Logger: lg}, config.Notifier.Queue, lg)

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		lg.Info("received signal, shutting down notifier worker", "signal", sig)
		cancel()
	}()

	lg.Info("notifier worker is running. Press Ctrl+C to stop.", "queue", config.Notifier.Queue)

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Error("notifier worker stopped", "error", err)
		os.Exit(1)
	}

	lg.Info("notifier worker shutdown complete")
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)

	eventBus.Subscribe("test.event", func(ctx context.Context, event events.Event) error {
		lg.Info("received test event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	lg.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down event bus", "signal", sig)
	lg.Info("event bus shutdown complete")
}

func init() {
	workerCmd.AddCommand(notifierWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
