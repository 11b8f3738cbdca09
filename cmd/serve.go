package cmd

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vibast-solutions/ms-go-lubycash/app/client/banking"
	"github.com/vibast-solutions/ms-go-lubycash/app/controller"
	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
	"github.com/vibast-solutions/ms-go-lubycash/app/events"
	"github.com/vibast-solutions/ms-go-lubycash/app/metrics"
	"github.com/vibast-solutions/ms-go-lubycash/app/middleware"
	"github.com/vibast-solutions/ms-go-lubycash/app/repository"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"
	"github.com/vibast-solutions/ms-go-lubycash/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP (Echo) server exposing the auth, users, permission and customers routes.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type handlers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	permission *controller.PermissionController
	customer   *controller.CustomerController
	health     *controller.HealthController
	authMW     *middleware.AuthMiddleware
	roleMW     *middleware.RoleMiddleware
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := openDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ResetTokenTopic, cfg.Kafka.ValidationTopic)
	defer func() {
		if err := producer.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close event producer")
		}
	}()

	bankingClient := banking.NewClient(cfg.Banking.BaseURL, cfg.Banking.Timeout)

	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	tokenRepo := repository.NewResetPassTokenRepository(db)

	authService := service.NewAuthService(db, userRepo, addressRepo, tokenRepo, producer, cfg)
	userService := service.NewUserService(db, userRepo, addressRepo, bankingClient, producer, cfg)
	permissionService := service.NewPermissionService(userRepo, addressRepo)
	customerService := service.NewCustomerService(userRepo, bankingClient)

	e := newHTTPServer(handlers{
		auth:       controller.NewAuthController(authService),
		user:       controller.NewUserController(userService),
		permission: controller.NewPermissionController(permissionService),
		customer:   controller.NewCustomerController(customerService),
		health:     controller.NewHealthController(db),
		authMW:     middleware.NewAuthMiddleware(authService),
		roleMW:     middleware.NewRoleMiddleware(userService),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
	go func() {
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP server shutdown failed")
	}
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newHTTPServer(h handlers) *echo.Echo {
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
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
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

	e.GET("/healthz", h.health.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	requireAdmin := h.roleMW.RequireRole(entity.RoleAdmin)
	requireCustomer := h.roleMW.RequireRole(entity.RoleCustomer)
	requireUser := h.roleMW.RequireRole(entity.RoleUser)

	auth := e.Group("/auth")
	auth.POST("/login", h.auth.Login)
	auth.POST("/new-password", h.auth.NewPassword)
	auth.POST("/reset-password", h.auth.ResetPassword)

	users := e.Group("/users")
	users.POST("/new", h.user.Create)

	usersAuth := users.Group("", h.authMW.RequireAuth)
	usersAuth.GET("/my-account", h.user.MyAccount)
	usersAuth.PUT("/user-update", h.user.UpdateSelf)
	usersAuth.DELETE("/user-delete", h.user.DeleteSelf)
	usersAuth.POST("/become-a-customer", h.user.BecomeCustomer, requireUser)
	usersAuth.GET("/all", h.user.List, requireAdmin)
	usersAuth.GET("/:id", h.user.Show, requireAdmin)
	usersAuth.PUT("/admin-update/:id", h.user.AdminUpdate, requireAdmin)
	usersAuth.DELETE("/admin-delete/:id", h.user.AdminDelete, requireAdmin)

	permission := e.Group("/permission", h.authMW.RequireAuth, requireAdmin)
	permission.POST("/admin/add/:id", h.permission.AddAdmin)
	permission.POST("/admin/remove/:id", h.permission.RemoveAdmin)
	permission.POST("/user/add/:id", h.permission.AddUser)
	permission.POST("/user/remove/:id", h.permission.RemoveUser)

	customers := e.Group("/customers", h.authMW.RequireAuth)
	customers.GET("/all", h.customer.List, requireAdmin)
	customers.POST("/bank-statement/:cpf", h.customer.BankStatement, requireAdmin)
	customers.POST("/transfer/make", h.customer.MakeTransfer, requireCustomer)

	return e
}
