package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/handlers"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/middleware"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/observability"
	"github.com/grupolocar/locar-api/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/grupolocar/locar-api/docs"
)

// @title           Grupo Locar API
// @version         1.0
// @description     API de gestão do Grupo Locar: funcionários (RH), clientes, fornecedores, filiais, PSL, usuários e registro de atividades. Inclui a sincronização dos funcionários cadastrados no formulário público (Atlas) com a base local.

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name Auth
// @tag.description Login e menus por perfil

// @tag.name Sync
// @tag.description Sincronização de funcionários Atlas → local

// @tag.name Health
// @tag.description Health check operations

func main() {
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	observability.InitTracer("locar-api")
	defer observability.ShutdownTracer()

	config.InitMongoDB()
	config.InitRedis()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.Logger
	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Services
	cache := services.NewCacheService(config.Redis, logger)
	attachments, err := services.NewAttachmentStore(cfg.UploadsDir, logger)
	if err != nil {
		logger.Fatal("failed to prepare uploads directory", zap.String("dir", cfg.UploadsDir), zap.Error(err))
	}
	users := services.NewUserService(config.MongoDB, logger)
	throttle := services.NewLoginThrottle(config.Redis, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow, logger)
	throttle.StartCleanup(rootCtx, time.Minute)
	auth := services.NewAuthService(users, throttle, cfg.JWTSecret, config.TokenLifetime, logger)

	activityLogs := services.NewActivityLogService(config.MongoDB, logger)
	activityWorker := services.NewActivityLogWorker(activityLogs, 2, 1000, logger)

	employees := services.NewEmployeeService(config.MongoDB, cache, attachments, logger)
	clients := services.NewClientService(config.MongoDB, logger)
	suppliers := services.NewSupplierService(config.MongoDB, logger)
	branches := services.NewBranchService(config.MongoDB, logger)
	psl := services.NewPSLService(config.MongoDB, logger)

	syncRunner := services.WithSyncHooks(
		services.NewSyncRunner(services.SyncSettingsFromConfig(cfg), services.NewMongoSyncConnector(cfg), logger),
		cache.SyncHook(),
	)

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(config.MongoDB, config.Redis, logger)
	authHandlers := handlers.NewAuthHandlers(auth, logger)
	userHandlers := handlers.NewUserHandlers(users, logger)
	employeeHandlers := handlers.NewEmployeeHandlers(employees, cfg.UploadMaxMemoryMB, logger)
	clientHandlers := handlers.NewClientHandlers(clients, logger)
	supplierHandlers := handlers.NewSupplierHandlers(suppliers, logger)
	branchHandlers := handlers.NewBranchHandlers(branches, logger)
	pslHandlers := handlers.NewPSLHandlers(psl, logger)
	logHandlers := handlers.NewActivityLogHandlers(activityLogs, logger)
	syncHandlers := handlers.NewSyncHandlers(syncRunner, logger)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization", "X-Request-ID")
	corsConfig.AddExposeHeaders("X-Request-ID")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.New(corsConfig),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.Static("/uploads", attachments.Dir())
	router.GET("/", healthHandlers.Root)

	api := router.Group("/api")
	{
		api.GET("/health", healthHandlers.Health)
		api.POST("/auth/login", authHandlers.Login)
		api.POST("/sync/sincronizar-funcionarios", syncHandlers.SyncEmployees)
	}

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(auth, cfg.AuthRequired),
		middleware.ActivityLogMiddleware(activityWorker),
	)
	{
		protected.GET("/auth/menus", authHandlers.Menus)

		usuarios := protected.Group("/usuarios")
		if cfg.AuthRequired {
			usuarios.Use(middleware.RequireRole(models.RoleAdmin))
		}
		usuarios.GET("", userHandlers.List)
		usuarios.POST("", userHandlers.Create)
		usuarios.PUT("/:id", userHandlers.Update)
		usuarios.PUT("/:id/senha", userHandlers.SetPassword)

		funcionarios := protected.Group("/funcionarios")
		funcionarios.GET("", employeeHandlers.List)
		funcionarios.GET("/filtro", employeeHandlers.Search)
		funcionarios.GET("/estatisticas/situacao", employeeHandlers.SituacaoStats)
		funcionarios.GET("/perfil-ideal-config", employeeHandlers.GetIdealProfileConfig)
		funcionarios.POST("/perfil-ideal-config", employeeHandlers.SaveIdealProfileConfig)
		funcionarios.GET("/perfil-ideal", employeeHandlers.IdealProfile)
		funcionarios.POST("/perfil-ideal", employeeHandlers.SaveIdealProfileConfig)
		funcionarios.POST("/com-anexos", employeeHandlers.CreateWithAttachments)
		funcionarios.PUT("/com-anexos/:id", employeeHandlers.UpdateWithAttachments)
		funcionarios.GET("/:id", employeeHandlers.Get)
		funcionarios.POST("", employeeHandlers.Create)
		funcionarios.PUT("/:id", employeeHandlers.Update)

		clientes := protected.Group("/clientes")
		clientes.GET("", clientHandlers.List)
		clientes.GET("/proximo-codigo", clientHandlers.NextCode)
		clientes.POST("", clientHandlers.Create)
		clientes.PUT("/:id", clientHandlers.Update)

		fornecedores := protected.Group("/fornecedores")
		fornecedores.GET("", supplierHandlers.List)
		fornecedores.GET("/proximo-codigo", supplierHandlers.NextCode)
		fornecedores.POST("", supplierHandlers.Create)
		fornecedores.PUT("/:id", supplierHandlers.Update)

		tipos := protected.Group("/tipoFornecedor")
		tipos.GET("", supplierHandlers.ListTypes)
		tipos.POST("", supplierHandlers.CreateType)
		tipos.PUT("/:id", supplierHandlers.UpdateType)

		filiais := protected.Group("/filiais")
		filiais.GET("", branchHandlers.List)
		filiais.POST("", branchHandlers.Create)
		filiais.PUT("/:id", branchHandlers.Update)

		pslGroup := protected.Group("/psl")
		pslGroup.GET("", pslHandlers.List)
		pslGroup.POST("", pslHandlers.Create)
		pslGroup.PUT("/:id", pslHandlers.Update)

		protected.GET("/logs", logHandlers.Latest)
		protected.POST("/logs", logHandlers.Record)
	}

	router.NoRoute(handlers.NotFound)

	if cfg.SyncOnStartup {
		services.RunInBackground(rootCtx, syncRunner, logger)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.Bool("auth_required", cfg.AuthRequired),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	activityWorker.Stop()

	if err := config.MongoDB.Client().Disconnect(ctx); err != nil {
		logger.Warn("failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Info("server exited gracefully")
	_ = logger.Sync()
}
