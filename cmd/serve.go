package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/developeraldawla/project-n8n/app/auth"
	"github.com/developeraldawla/project-n8n/app/controller"
	"github.com/developeraldawla/project-n8n/app/entity"
	grpcserver "github.com/developeraldawla/project-n8n/app/grpc"
	"github.com/developeraldawla/project-n8n/app/types"
	"github.com/developeraldawla/project-n8n/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  "Start both HTTP (Echo) and gRPC servers for the tool platform.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type controllers struct {
	account       *controller.AccountController
	plans         *controller.PlanController
	tools         *controller.ToolController
	subscriptions *controller.SubscriptionController
	admin         *controller.AdminController
	notifications *controller.NotificationController
	content       *controller.ContentController
}

func newControllers(s *services) *controllers {
	return &controllers{
		account:       controller.NewAccountController(s.users, s.gate, s.usage),
		plans:         controller.NewPlanController(s.plans),
		tools:         controller.NewToolController(s.tools, s.execution),
		subscriptions: controller.NewSubscriptionController(s.subscriptions, s.callbacks),
		admin:         controller.NewAdminController(s.users, s.audit),
		notifications: controller.NewNotificationController(s.notifications),
		content:       controller.NewContentController(s.content),
	}
}

func runServe(_ *cobra.Command, _ []string) {
	s := mustBuildServices(context.Background())
	defer s.close()
	cfg := s.cfg

	if cfg.App.APIKey == "" {
		logrus.Warn("APP_API_KEY is empty; payment callbacks and gRPC calls will be rejected")
	}

	verifier := auth.NewVerifier(cfg.Auth)
	e := setupHTTPServer(newControllers(s), verifier, cfg.App.APIKey)
	grpcSrv, healthSrv, lis := setupGRPCServer(cfg, grpcserver.NewServer(s.gate, s.usage))

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthSrv.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	grpcSrv.GracefulStop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(c *controllers, verifier *auth.Verifier, apiKey string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"request_id": v.RequestID,
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string {
			return fmt.Sprintf("rest-%s", uuid.New().String())
		},
	}))

	e.GET("/health", c.account.Health)
	e.POST("/auth/register", c.account.Register)
	e.GET("/plans", c.plans.ListPublic)
	e.GET("/cms/public", c.content.Public)

	requireUser := auth.RequireUser(verifier)

	user := e.Group("", requireUser)
	user.GET("/me", c.account.Me)
	user.GET("/me/features/:key", c.account.Feature)
	user.GET("/me/limits/:key", c.account.Limit)
	user.GET("/me/usage", c.account.Usage)
	user.GET("/stats/mine", c.account.Stats)

	user.GET("/tools", c.tools.List)
	user.GET("/tools/:slug", c.tools.Get)
	user.POST("/tools/:slug/execute", c.tools.Execute)

	user.GET("/subscription", c.subscriptions.Current)
	user.POST("/subscription", c.subscriptions.Subscribe)
	user.POST("/subscription/cancel", c.subscriptions.Cancel)

	user.GET("/notifications", c.notifications.List)
	user.PATCH("/notifications/read-all", c.notifications.MarkAllRead)
	user.PATCH("/notifications/:id/read", c.notifications.MarkRead)

	user.GET("/cms/config/:key", c.content.GetConfig)

	admin := e.Group("/admin", requireUser, auth.RequireRole(entity.RoleAdmin))
	admin.GET("/plans", c.plans.ListAll)
	admin.POST("/plans", c.plans.Create)
	admin.PUT("/plans/:id", c.plans.Update)

	admin.GET("/tools", c.tools.AdminList)
	admin.POST("/tools", c.tools.Create)
	admin.GET("/tools/:id", c.tools.AdminGet)
	admin.PUT("/tools/:id", c.tools.Update)
	admin.GET("/tools/:id/versions", c.tools.ListVersions)
	admin.POST("/tools/:id/versions", c.tools.CreateVersion)
	admin.POST("/tools/:id/versions/:version/publish", c.tools.PublishVersion)
	admin.GET("/tools/:id/access", c.tools.ListAccess)
	admin.PUT("/tools/:id/access", c.tools.SetAccess)

	admin.GET("/users", c.admin.ListUsers)
	admin.PUT("/users/:id/plan", c.admin.ChangeUserPlan)
	admin.GET("/audit", c.admin.ListAudit)

	cms := e.Group("/cms", requireUser, auth.RequireRole(entity.RoleAdmin))
	cms.PUT("/content/:key", c.content.UpdateContent)
	cms.PUT("/config/:key", c.content.SetConfig)

	webhooks := e.Group("/webhooks", auth.RequireAPIKey(apiKey))
	webhooks.POST("/payment-callback", c.subscriptions.PaymentCallback)

	return e
}

func setupGRPCServer(cfg *config.Config, gateServer *grpcserver.Server) (*grpc.Server, *health.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoveryInterceptor(),
			grpcserver.RequestIDInterceptor(),
			grpcserver.LoggingInterceptor(),
			grpcserver.APIKeyInterceptor(cfg.App.APIKey),
		),
	)
	types.RegisterGateServiceServer(grpcSrv, gateServer)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus("toolhub.GateService", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	return grpcSrv, healthSrv, lis
}
