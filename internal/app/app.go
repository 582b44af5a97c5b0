package app

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"goal-tracker-go/internal/auth"
	"goal-tracker-go/internal/config"
	"goal-tracker-go/internal/db"
	categorydomain "goal-tracker-go/internal/domain/category"
	filedomain "goal-tracker-go/internal/domain/file"
	goaldomain "goal-tracker-go/internal/domain/goal"
	notificationdomain "goal-tracker-go/internal/domain/notification"
	statusdomain "goal-tracker-go/internal/domain/status"
	teamdomain "goal-tracker-go/internal/domain/team"
	templatedomain "goal-tracker-go/internal/domain/template"
	userdomain "goal-tracker-go/internal/domain/user"
	"goal-tracker-go/internal/mailer"
	"goal-tracker-go/internal/metrics"
	categoryrepo "goal-tracker-go/internal/repository/postgres/category"
	filerepo "goal-tracker-go/internal/repository/postgres/file"
	goalrepo "goal-tracker-go/internal/repository/postgres/goal"
	notificationrepo "goal-tracker-go/internal/repository/postgres/notification"
	statusrepo "goal-tracker-go/internal/repository/postgres/status"
	teamrepo "goal-tracker-go/internal/repository/postgres/team"
	templaterepo "goal-tracker-go/internal/repository/postgres/template"
	userrepo "goal-tracker-go/internal/repository/postgres/user"
	"goal-tracker-go/internal/storage"
	"goal-tracker-go/internal/transport/httpserver"
	"goal-tracker-go/internal/transport/httpserver/handler"
	"goal-tracker-go/internal/transport/httpserver/handler/categories"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
	"goal-tracker-go/internal/transport/httpserver/handler/goals"
	"goal-tracker-go/internal/transport/httpserver/handler/notifications"
	"goal-tracker-go/internal/transport/httpserver/handler/statuses"
	"goal-tracker-go/internal/transport/httpserver/handler/teams"
	"goal-tracker-go/internal/transport/httpserver/handler/templates"
	authmw "goal-tracker-go/internal/transport/httpserver/middleware"
	"goal-tracker-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	log        logger.Logger
}

// Connect loads config and opens the database without wiring the HTTP
// stack; the migrate command needs nothing more.
func Connect(log logger.Logger) (config.Config, *gorm.DB, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return config.Config{}, nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, dbConn, nil
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	cfg, dbConn, err := Connect(log)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, db: dbConn, log: log}

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(ctx, dbConn, log); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	log.Info("app: initializing storage", "bucket", cfg.Storage.Bucket)
	blobs, err := storage.NewS3(ctx, cfg.Storage)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	router, err := Router(ctx, cfg, dbConn, blobs, mailer.New(cfg.Mail, cfg.IsDevelopment(), log), log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Router wires repositories, services and handlers over an open database.
// Blob storage and the invitation mailer are passed in so tests can swap them.
func Router(ctx context.Context, cfg config.Config, dbConn *gorm.DB, blobs filedomain.Storage, mail teamdomain.Mailer, log logger.Logger) (http.Handler, error) {
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	notificationService := notificationdomain.NewService(notificationrepo.NewPostgres(dbConn))
	teamRepository := teamrepo.NewPostgres(dbConn)
	teamService := teamdomain.NewService(
		teamRepository,
		notificationService,
		users,
		mail,
		log,
	)
	goalService := goaldomain.NewService(goalrepo.NewPostgres(dbConn), teamRepository, notificationService, blobs, log)
	categoryService := categorydomain.NewService(categoryrepo.NewPostgres(dbConn))
	statusService := statusdomain.NewService(statusrepo.NewPostgres(dbConn), teamRepository)
	templateService := templatedomain.NewService(templaterepo.NewPostgres(dbConn), goalService, teamRepository)
	fileService := filedomain.NewService(filerepo.NewPostgres(dbConn), blobs, goalService, cfg.Storage.SignedURLTTL, log)

	sqlDB, err := dbConn.DB()
	if err != nil {
		return nil, err
	}
	storagePinger, _ := blobs.(common.StoragePinger)

	handlers := &handler.Handlers{
		Common:        common.New(sqlDB, storagePinger, log),
		Goals:         goals.New(goalService, fileService, m, log),
		Categories:    categories.New(categoryService, goalService, log),
		Teams:         teams.New(teamService, goalService, m, log),
		Statuses:      statuses.New(statusService, log),
		Templates:     templates.New(templateService, log),
		Notifications: notifications.New(notificationService, log),
	}

	log.Info("app: initializing auth")
	verifier := auth.NewVerifier(ctx, cfg.Supabase, log)
	if cfg.Supabase.SkipAuth {
		log.Warn("app: AUTH_SKIP enabled, requests run as the mock user", "user_id", cfg.Supabase.MockUserID)
	}
	jwtAuth := authmw.NewJWTAuth(cfg.Supabase, verifier, users, log)

	log.Info("app: initializing router")
	return httpserver.NewRouter(cfg, handlers, jwtAuth, m), nil
}
