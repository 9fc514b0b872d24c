package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/config"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/db"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/httpapi"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection error", zap.Error(err))
	}
	if err := db.Migrate(database); err != nil {
		logger.Fatal("migration error", zap.Error(err))
	}
	if err := db.Seed(database, logger); err != nil {
		logger.Fatal("seed error", zap.Error(err))
	}

	handler := httpapi.NewHandler(httpapi.Config{
		Auth:          service.NewAuthService(database, cfg.JWTSecret, cfg.TokenTTL, logger),
		Employees:     service.NewEmployeeService(database, logger),
		Departments:   service.NewDepartmentService(database, logger),
		Roles:         service.NewRoleService(database, logger),
		Managers:      service.NewManagerService(database, logger),
		Tasks:         service.NewTaskService(database, logger),
		Presences:     service.NewPresenceService(database, logger),
		Leaves:        service.NewLeaveService(database, logger),
		Announcements: service.NewAnnouncementService(database, logger),
		Dashboard:     service.NewDashboardService(database),
		JWTSecret:     cfg.JWTSecret,
		Logger:        logger,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))
	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(200, "ok")
	})
	handler.Register(router)

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
