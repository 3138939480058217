package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meytoof/MentorAI-sub000/internal/config"
	"github.com/meytoof/MentorAI-sub000/internal/controller"
	"github.com/meytoof/MentorAI-sub000/internal/repository"
	"github.com/meytoof/MentorAI-sub000/internal/service"
	"github.com/meytoof/MentorAI-sub000/internal/util"
	"github.com/meytoof/MentorAI-sub000/pkg/configwatcher"
	"github.com/meytoof/MentorAI-sub000/pkg/database"
	"github.com/meytoof/MentorAI-sub000/pkg/logger"
	"github.com/meytoof/MentorAI-sub000/pkg/monitoring"
	"github.com/meytoof/MentorAI-sub000/pkg/security"
	"github.com/meytoof/MentorAI-sub000/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user         *repository.UserRepository
	conversation *repository.ConversationRepository
	checkin      *repository.CheckinRepository
	motivation   *repository.MotivationRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	motivation *service.MotivationService
	ai         *service.AIService
	tutor      *service.TutorService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	tutor        *controller.TutorController
	conversation *controller.ConversationController
	motivation   *controller.MotivationController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		conversation: repository.NewConversationRepository(db, rdb),
		checkin:      repository.NewCheckinRepository(db),
		motivation:   repository.NewMotivationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.checkin)
	s.motivation = service.NewMotivationService(repos.motivation)
	s.ai = service.NewAIService(cfg.AI)
	s.tutor = service.NewTutorService(s.ai, repos.conversation, repos.user, s.user, cfg)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		user:         controller.NewUserController(s.user, s.storage),
		tutor:        controller.NewTutorController(s.tutor),
		conversation: controller.NewConversationController(repos.conversation),
		motivation:   controller.NewMotivationController(s.motivation),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// redis only backs the history cache; run degraded without it
		logger.Log.Warn("Redis unavailable, history served from MySQL only", zap.Error(err))
		rdb = nil
	}

	if !cfg.AI.Configured() {
		logger.Log.Error("AI endpoint not configured; tutoring requests will be rejected")
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("mentorai", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// Hot-reload the AI endpoint settings so API keys can be rotated
	// without a restart. Everything else still needs one.
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		services.ai.UpdateConfig(reloaded.AI)
		logger.Log.Info("AI configuration reloaded",
			zap.Bool("configured", reloaded.AI.Configured()))
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
