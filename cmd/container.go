package cmd

import (
	"context"
	"database/sql"
	"time"

	"github.com/developeraldawla/project-n8n/app/mailer"
	"github.com/developeraldawla/project-n8n/app/payment"
	"github.com/developeraldawla/project-n8n/app/quota"
	"github.com/developeraldawla/project-n8n/app/repository"
	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/app/storage"
	"github.com/developeraldawla/project-n8n/app/webhook"
	"github.com/developeraldawla/project-n8n/config"
	"github.com/sirupsen/logrus"

	_ "github.com/go-sql-driver/mysql"
)

// services holds everything the commands share. Build it with mustBuildServices
// and call close when done.
type services struct {
	cfg *config.Config

	gate          *service.GateService
	usage         *service.UsageService
	users         *service.UserService
	plans         *service.PlanService
	tools         *service.ToolService
	execution     *service.ExecutionService
	subscriptions *service.SubscriptionService
	callbacks     *service.PaymentCallbackService
	notifications *service.NotificationService
	audit         *service.AuditService
	content       *service.ContentService

	closers []func() error
}

type usageCounter interface {
	Increment(ctx context.Context, userID string, day time.Time, limit int64) (bool, int64, error)
	Used(ctx context.Context, userID string, day time.Time) (int64, error)
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}

func mustOpenDatabase(cfg *config.Config) *sql.DB {
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}
	return db
}

func mustBuildServices(ctx context.Context) *services {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg)
	s := &services{cfg: cfg, closers: []func() error{db.Close}}

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	toolRepo := repository.NewToolRepository(db)
	versionRepo := repository.NewToolVersionRepository(db)
	accessRepo := repository.NewToolAccessRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	contentRepo := repository.NewContentRepository(db)

	s.audit = service.NewAuditService(auditRepo)
	s.notifications = service.NewNotificationService(notificationRepo, mailer.New(cfg.Email))
	s.gate = service.NewGateService(userRepo)
	s.usage = service.NewUsageService(s.gate, s.mustBuildCounter(ctx, db), usageRepo, userRepo, cfg.Usage)
	s.plans = service.NewPlanService(planRepo, s.audit)
	s.subscriptions = service.NewSubscriptionService(
		subscriptionRepo,
		planRepo,
		userRepo,
		payment.NewCheckoutService(cfg.Subscriptions.CheckoutBaseURL),
		s.notifications,
		cfg.Subscriptions,
		cfg.Plans,
	)
	s.callbacks = service.NewPaymentCallbackService(subscriptionRepo, s.subscriptions, s.notifications)
	s.users = service.NewUserService(userRepo, planRepo, s.subscriptions, s.notifications, s.audit, cfg.Plans)
	s.tools = service.NewToolService(toolRepo, versionRepo, accessRepo, planRepo, userRepo, s.audit)
	s.execution = service.NewExecutionService(s.tools, s.usage, webhook.NewClient(cfg.Webhook), s.mustBuildArchiver(ctx))
	s.content = service.NewContentService(contentRepo, s.audit)

	return s
}

// mustBuildCounter prefers Redis when REDIS_URL is set and falls back to the
// usage_counters table.
func (s *services) mustBuildCounter(ctx context.Context, db *sql.DB) usageCounter {
	if s.cfg.Redis.URL == "" {
		return repository.NewUsageCounterRepository(db)
	}

	client, err := quota.Connect(ctx, s.cfg.Redis.URL, s.cfg.Redis.ConnectTimeout)
	if err != nil {
		s.close()
		logrus.WithError(err).Fatal("Failed to connect to redis")
	}
	s.closers = append(s.closers, client.Close)
	logrus.Info("Usage counters backed by redis")
	return quota.NewStore(client)
}

func (s *services) mustBuildArchiver(ctx context.Context) storage.Archiver {
	if s.cfg.Storage.Bucket == "" {
		return storage.NoopArchiver{}
	}

	archiver, err := storage.NewS3Archiver(ctx, s.cfg.Storage)
	if err != nil {
		s.close()
		logrus.WithError(err).Fatal("Failed to initialize output storage")
	}
	logrus.WithField("bucket", s.cfg.Storage.Bucket).Info("Tool outputs archived to S3")
	return archiver
}

func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logrus.WithError(err).Warn("Failed to release resource")
		}
	}
	s.closers = nil
}
