package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"reviewhub/database"
	"reviewhub/internal/api/cache"
	"reviewhub/internal/api/handler"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Redis is optional; without it ratings are recomputed per request.
	var ratingCache service.RatingCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, rating cache disabled", "error", err)
		} else {
			if cfg.RedisPassword != "" {
				opts.Password = cfg.RedisPassword
			}
			ratingCache = cache.NewRatingCache(redis.NewClient(opts), cfg.CacheTTL)
		}
	}

	var mailSender mailer.Sender
	if cfg.SMTPHost != "" {
		mailSender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom)
	} else {
		logger.Warn("no SMTP_HOST configured, confirmation codes go to the log")
		mailSender = mailer.NewLogSender(logger)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	signer := service.NewJWTSigner(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, signer, mailSender, logger)
	userService := service.NewUserService(userRepo)
	reviewService := service.NewReviewService(reviewRepo, ratingCache, logger)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewService, reviewRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	commentService := service.NewCommentService(commentRepo)
	resolver := service.NewScopeResolver(titleRepo, reviewRepo, commentRepo)

	registerValidators()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Authenticate(signer, userRepo))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	handler.NewAuthHandler(authService).RegisterRoutes(v1)
	handler.NewUserHandler(userService).RegisterRoutes(v1)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(v1)
	handler.NewGenreHandler(genreService).RegisterRoutes(v1)
	handler.NewTitleHandler(titleService, resolver).RegisterRoutes(v1)
	handler.NewReviewHandler(reviewService, resolver).RegisterRoutes(v1)
	handler.NewCommentHandler(commentService, resolver).RegisterRoutes(v1)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting HTTP server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

// registerValidators adds the custom binding rules and makes validation
// errors report json field names instead of Go struct fields.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
