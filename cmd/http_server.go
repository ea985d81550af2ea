package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	authPostgres "github.com/wirabuild/construction-management/internal/auth/postgres"
	"github.com/wirabuild/construction-management/internal/company"
	companyPostgres "github.com/wirabuild/construction-management/internal/company/postgres"
	"github.com/wirabuild/construction-management/internal/core/events"
	"github.com/wirabuild/construction-management/internal/income"
	incomePostgres "github.com/wirabuild/construction-management/internal/income/postgres"
	"github.com/wirabuild/construction-management/internal/notification"
	notificationPostgres "github.com/wirabuild/construction-management/internal/notification/postgres"
	"github.com/wirabuild/construction-management/internal/photo"
	photoPostgres "github.com/wirabuild/construction-management/internal/photo/postgres"
	"github.com/wirabuild/construction-management/internal/project"
	projectPostgres "github.com/wirabuild/construction-management/internal/project/postgres"
	"github.com/wirabuild/construction-management/internal/reimbursement"
	reimbursementPostgres "github.com/wirabuild/construction-management/internal/reimbursement/postgres"
	"github.com/wirabuild/construction-management/internal/storage"
	"github.com/wirabuild/construction-management/internal/task"
	taskPostgres "github.com/wirabuild/construction-management/internal/task/postgres"
	"github.com/wirabuild/construction-management/internal/transport/rest"
	"github.com/wirabuild/construction-management/internal/user"
	userPostgres "github.com/wirabuild/construction-management/internal/user/postgres"
	"github.com/wirabuild/construction-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	// Auth and role resolution.
	companyRepo := companyPostgres.NewCompanyRepository(gormDB)
	resolver := auth.NewMembershipResolver(companyRepo, lg)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, resolver, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB))
	userHandler := user.NewHandler(userService)

	companyService := company.NewService(companyRepo, resolver, lg)
	companyHandler := company.NewHandler(companyService)

	projectService := project.NewService(projectPostgres.NewProjectRepository(gormDB), lg)
	projectHandler := project.NewHandler(projectService)

	taskService := task.NewService(taskPostgres.NewTaskRepository(gormDB), eventBus, lg)
	taskHandler := task.NewHandler(taskService)

	reimbursementService := reimbursement.NewService(
		reimbursementPostgres.NewReimbursementRepository(gormDB), projectService, eventBus, lg)
	reimbursementHandler := reimbursement.NewHandler(reimbursementService)

	incomeService := income.NewService(incomePostgres.NewIncomeRepository(gormDB), projectService, lg)
	incomeHandler := income.NewHandler(incomeService)

	objectStore, err := storage.NewMinioClient(config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	if err := objectStore.EnsureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure storage bucket: %w", err)
	}
	photoService := photo.NewService(photoPostgres.NewPhotoRepository(gormDB), objectStore, eventBus, lg)
	photoHandler := photo.NewHandler(photoService)

	deviceTokenRepo := notificationPostgres.NewDeviceTokenRepository(gormDB)
	publisher, err := notification.NewRabbitMQPublisher(config.Notifier)
	if err != nil {
		return nil, fmt.Errorf("failed to connect notification broker: %w", err)
	}
	notificationService := notification.NewService(deviceTokenRepo, publisher, config.Notifier.Queue, lg)
	notificationService.RegisterEventHandlers(eventBus)
	notificationHandler := notification.NewHandler(notificationService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:          authHandler,
		User:          userHandler,
		Company:       companyHandler,
		Project:       projectHandler,
		Task:          taskHandler,
		Reimbursement: reimbursementHandler,
		Income:        incomeHandler,
		Photo:         photoHandler,
		Notification:  notificationHandler,
	}, config.Server.AllowedOrigins, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}

// initDB opens the pgx-backed sqlx connection pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing *sql.DB so gorm repositories share the pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}
