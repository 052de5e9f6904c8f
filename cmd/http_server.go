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
	gormPostgres "gorm.io/driver/postgres"
	gormSqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/accessrequest"
	accessrequestPostgres "github.com/nxthub/influencer-ops/internal/accessrequest/postgres"
	"github.com/nxthub/influencer-ops/internal/auth"
	authPostgres "github.com/nxthub/influencer-ops/internal/auth/postgres"
	"github.com/nxthub/influencer-ops/internal/campaign"
	campaignPostgres "github.com/nxthub/influencer-ops/internal/campaign/postgres"
	accessrequestDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/accessrequest"
	campaignDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/campaign"
	departmentDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/department"
	influencerDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/influencer"
	userDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/user"
	"github.com/nxthub/influencer-ops/internal/core/events"
	"github.com/nxthub/influencer-ops/internal/department"
	departmentPostgres "github.com/nxthub/influencer-ops/internal/department/postgres"
	"github.com/nxthub/influencer-ops/internal/influencer"
	influencerPostgres "github.com/nxthub/influencer-ops/internal/influencer/postgres"
	"github.com/nxthub/influencer-ops/internal/permission"
	"github.com/nxthub/influencer-ops/internal/transport/rest"
	"github.com/nxthub/influencer-ops/internal/transport/swagger"
	"github.com/nxthub/influencer-ops/internal/user"
	userPostgres "github.com/nxthub/influencer-ops/internal/user/postgres"
	"github.com/nxthub/influencer-ops/pkg/logger"
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
	GormDB *gorm.DB
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
	deps.Logger.Info("starting HTTP server",
		"address", addr,
		"backend", deps.Config.Storage.Backend)

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
		if sqlDB, err := deps.GormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				deps.Logger.Error("database close error", "error", err)
			}
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

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	// Fail fast on a broken API document instead of at first swagger hit.
	if _, err := swagger.LoadSpec("./api/openapi.yml"); err != nil {
		lg.Warn("openapi document failed validation", "error", err)
	}

	gormDB, err := initDB(config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	router := chi.NewRouter()
	handlers := wireHandlers(config, gormDB, lg)

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql connection: %w", err)
	}

	rest.RegisterAllRoutes(router, sqlDB, config.Storage.Backend, handlers, lg)

	return &Dependencies{
		Config: config,
		GormDB: gormDB,
		Router: router,
		Logger: lg,
	}, nil
}

func wireHandlers(config *internal.Config, gormDB *gorm.DB, lg *slog.Logger) rest.Handlers {
	eventBus := events.NewEventBus(lg)
	perm := permission.NewEvaluator()

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, lg)

	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)
	departmentService := department.NewService(departmentRepo, perm, lg)

	campaignRepo := campaignPostgres.NewCampaignRepository(gormDB)
	campaignService := campaign.NewService(campaignRepo, departmentRepo, perm, eventBus, lg)

	influencerRepo := influencerPostgres.NewInfluencerRepository(gormDB)
	accessRequestRepo := accessrequestPostgres.NewAccessRequestRepository(gormDB)
	influencerService := influencer.NewService(influencerRepo, perm, accessRequestRepo, lg)

	accessRequestService := accessrequest.NewService(
		accessRequestRepo,
		influencerRepo,
		perm,
		eventBus,
		config.AccessRequests.AllowDuplicatePending,
		lg,
	)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, departmentRepo, perm, config.Security.BCryptCost, lg)

	// Event subscribers: influencer roster denormalization plus a plain
	// audit trail of workflow decisions.
	influencer.NewEventHandler(influencerRepo, lg).RegisterEventHandlers(eventBus)
	registerAuditSubscribers(eventBus, lg)

	return rest.Handlers{
		Auth:          auth.NewHandler(authService),
		Campaign:      campaign.NewHandler(campaignService),
		Influencer:    influencer.NewHandler(influencerService),
		Department:    department.NewHandler(departmentService),
		User:          user.NewHandler(userService),
		AccessRequest: accessrequest.NewHandler(accessRequestService),
	}
}

// registerAuditSubscribers logs every workflow decision as a structured
// audit record.
func registerAuditSubscribers(eventBus *events.EventBus, lg *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		lg.Info("audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
	eventBus.Subscribe(events.EventCampaignStatusChanged, audit)
	eventBus.Subscribe(events.EventCampaignCompleted, audit)
	eventBus.Subscribe(events.EventAccessRequestResolved, audit)
}

// initDB opens the configured backend. Postgres connects through the
// pgx stdlib driver so sqlx and gorm share one pool; sqlite is the
// single-user local mode and is auto-migrated on start since goose
// migrations target postgres.
func initDB(cfg internal.StorageConfig) (*gorm.DB, error) {
	switch cfg.Backend {
	case internal.StorageBackendPostgres:
		conn, err := sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		conn.SetMaxIdleConns(cfg.MaxIdleConns)
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: conn.DB}), &gorm.Config{})
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to initialize orm: %w", err)
		}
		return gormDB, nil

	case internal.StorageBackendSQLite:
		gormDB, err := gorm.Open(gormSqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := autoMigrate(gormDB); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		return gormDB, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&departmentDatamodel.Department{},
		&userDatamodel.User{},
		&influencerDatamodel.Influencer{},
		&campaignDatamodel.Campaign{},
		&accessrequestDatamodel.AccessRequest{},
	)
}
