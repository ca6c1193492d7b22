package config

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// App bundles the infrastructure built at startup.
type App struct {
	Config Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Melody *melody.Melody
	Cron   *cron.Cron
}

// NewRouter builds the gin engine with CORS configured from cfg.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", "X-Session-ID")
	configCors.AddExposeHeaders("X-Session-ID")
	configCors.AllowCredentials = true
	if len(cfg.AllowedOrigins) > 0 {
		configCors.AllowOrigins = cfg.AllowedOrigins
	} else {
		configCors.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)
	return router
}

func InitApp(ctx context.Context) (*App, error) {
	LoadEnv()
	cfg := Load()

	db, err := ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	rdb, err := ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("All components initialized successfully")
	return &App{
		Config: cfg,
		Router: NewRouter(cfg),
		DB:     db,
		Redis:  rdb,
		Melody: melody.New(),
		Cron:   cron.New(),
	}, nil
}
