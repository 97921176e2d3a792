package routes

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/httpx"
	"taskflow/internal/notification"
	"taskflow/internal/task"
	"taskflow/pkg/middleware"
)

// EchoModules wires the whole application: config, storage, services,
// handlers and the route table.
var EchoModules = fx.Module("echo",
	fx.Provide(
		config.NewConfig,
		config.NewLogger,
		config.NewMongoDatabase,
		config.NewMailer,
		middleware.NewEnforcer,

		auth.NewUserRepository,
		task.NewRepository,
		notification.NewRepository,

		// Services consume interfaces; bind the concrete repositories.
		func(r *auth.UserRepository) auth.UserStore { return r },
		func(r *task.Repository) auth.TaskPurger { return r },
		func(r *task.Repository) task.Store { return r },
		func(r *auth.UserRepository) task.Directory { return r },
		func(s *notification.Service) task.Recorder { return s },
		func(r *notification.Repository) notification.Store { return r },

		auth.NewUserService,
		task.NewService,
		notification.NewService,

		auth.NewAuthHandler,
		task.NewHandler,
		notification.NewHandler,

		NewEchoServer,
	),
	fx.Invoke(RegisterRoutes),
)

func NewEchoServer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = httpx.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	port := ":" + cfg.Port
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Server starting", zap.String("addr", "http://localhost"+port))
			go func() {
				if err := e.Start(port); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	enforcer *casbin.Enforcer,
	authHandler *auth.AuthHandler,
	taskHandler *task.Handler,
	notificationHandler *notification.Handler,
) {
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/check-auth", authHandler.CheckAuth)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.POST("/reset-password", authHandler.ResetPassword)

	api := e.Group("/api")
	api.Use(middleware.Session(cfg))
	api.Use(middleware.RBAC(enforcer, log))

	admin := api.Group("/admin")
	admin.GET("/dashboard", taskHandler.AdminDashboard)
	admin.POST("/tasks", taskHandler.CreateTask)
	admin.DELETE("/tasks/:taskId", taskHandler.DeleteTask)
	admin.GET("/employees/all", authHandler.AllEmployees)
	admin.GET("/pending-users", authHandler.PendingUsers)
	admin.POST("/user/approve/:userId", authHandler.ApproveUser)
	admin.DELETE("/user/:userId", authHandler.DeleteUser)
	admin.POST("/user/update/:userId", authHandler.UpdateUser)
	admin.GET("/notifications", notificationHandler.List)
	admin.POST("/notifications/mark-read", notificationHandler.MarkAllRead)
	admin.DELETE("/notifications/all", notificationHandler.DeleteAll)
	admin.DELETE("/notifications/:notificationId", notificationHandler.Delete)

	employee := api.Group("/employee")
	employee.GET("/dashboard", taskHandler.EmployeeDashboard)
	employee.POST("/tasks/:taskId/update", taskHandler.UpdateTaskStatus)
	employee.GET("/notifications/count", taskHandler.UnreadCount)
	employee.POST("/notifications/mark-read", taskHandler.MarkRead)
	employee.GET("/me", authHandler.Me)
	employee.POST("/update-info", authHandler.UpdateInfo)
}
