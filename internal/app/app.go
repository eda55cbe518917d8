package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/config"
	"github.com/imanoela-sketch/apphistomed/internal/controller"
	"github.com/imanoela-sketch/apphistomed/internal/repository"
	"github.com/imanoela-sketch/apphistomed/internal/service"
	"github.com/imanoela-sketch/apphistomed/pkg/configwatcher"
	"github.com/imanoela-sketch/apphistomed/pkg/database"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"
	"github.com/imanoela-sketch/apphistomed/pkg/monitoring"
	"github.com/imanoela-sketch/apphistomed/pkg/security"
	"github.com/imanoela-sketch/apphistomed/pkg/tracing"

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

	cancelSubscriptions context.CancelFunc

	// campos recarregáveis em runtime, lidos pelos middlewares a cada
	// requisição
	liveMu    sync.RWMutex
	origins   []string
	rateMax   int
	rateEvery time.Duration
}

func (a *App) allowedOrigins() []string {
	a.liveMu.RLock()
	defer a.liveMu.RUnlock()
	return a.origins
}

func (a *App) rateLimits() (int, time.Duration) {
	a.liveMu.RLock()
	defer a.liveMu.RUnlock()
	return a.rateMax, a.rateEvery
}

type repositories struct {
	user *repository.UserRepository
	kv   *repository.KVStore
}

type services struct {
	gemini     *service.GeminiService
	image      *service.ImageService
	storage    *service.StorageService
	library    *service.LibraryService
	quiz       *service.QuizService
	mindmap    *service.MindMapService
	studentLog *service.StudentLogService
	auth       *service.AuthService
}

type controllers struct {
	auth       *controller.AuthController
	library    *controller.LibraryController
	quiz       *controller.QuizController
	microscope *controller.MicroscopeController
	mindmap    *controller.MindMapController
	studentLog *controller.StudentLogController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user: repository.NewUserRepository(db),
		kv:   repository.NewKVStore(repository.NewRedisBackend(rdb)),
	}
}

func (a *App) initServices(ctx context.Context, repos *repositories, cfg *config.Config) *services {
	s := &services{}

	gemini, err := service.NewGeminiService(ctx, cfg.Gemini)
	if err != nil {
		logger.Log.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}
	s.gemini = gemini

	s.image = service.NewImageService()
	s.storage = service.NewStorageService(cfg)
	s.library = service.NewLibraryService(s.gemini)
	s.quiz = service.NewQuizService(s.gemini)
	s.studentLog = service.NewStudentLogService(repos.kv)

	mindmap, err := service.NewMindMapService(ctx, repos.kv, s.image, s.storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize mind map gallery", zap.Error(err))
	}
	s.mindmap = mindmap

	var provider service.AuthProvider
	if cfg.Auth.Provider == "local" {
		provider = &service.LocalAuthProvider{Users: repos.user}
	} else {
		provider = service.NewSupabaseClient(cfg.Auth.SupabaseURL, cfg.Auth.SupabaseKey)
	}
	s.auth = service.NewAuthService(cfg, provider, repos.kv, s.studentLog)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		library:    controller.NewLibraryController(s.library),
		quiz:       controller.NewQuizController(s.quiz),
		microscope: controller.NewMicroscopeController(s.image, s.gemini),
		mindmap:    controller.NewMindMapController(s.mindmap),
		studentLog: controller.NewStudentLogController(s.studentLog),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.origins = cfg.CORS.AllowedOrigins
	a.rateMax, a.rateEvery = normalizeRateLimit(cfg.RateLimit)

	router.Use(security.CORS(a.allowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.rateLimits))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func normalizeRateLimit(cfg config.RateLimitConfig) (int, time.Duration) {
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	return maxRequests, window
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancelSubscriptions = cancel

	repos := app.initRepositories(db, rdb)
	services := app.initServices(ctx, repos, cfg)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("histomed-atlas", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// recarrega origens, limites e modelos de IA sem reiniciar o processo
	go configwatcher.WatchConfig("configs/config.yaml", func(updated *config.Config) {
		logger.Log.Info("Configuration reloaded",
			zap.Strings("allowed_origins", updated.CORS.AllowedOrigins),
			zap.String("text_model", updated.Gemini.TextModel))
		app.liveMu.Lock()
		app.origins = updated.CORS.AllowedOrigins
		app.rateMax, app.rateEvery = normalizeRateLimit(updated.RateLimit)
		app.liveMu.Unlock()
		services.gemini.UpdateModels(updated.Gemini.TextModel, updated.Gemini.VisionModel)
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

	if a.cancelSubscriptions != nil {
		a.cancelSubscriptions()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
