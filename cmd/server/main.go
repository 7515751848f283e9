package main

import (
	"context"
	"log"

	"github.com/answerhub/community-api/internal/bootstrap"
	"github.com/answerhub/community-api/internal/config"
	"github.com/answerhub/community-api/internal/server"
	"github.com/answerhub/community-api/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect(cfg.DatabaseURL)
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedCategories(db); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedModeratorUser(db); err != nil {
			log.Fatalf("failed to seed moderator user: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when redis is not configured or unreachable;
// the app degrades to uncached, unlimited operation.
func connectRedis(url string) *redis.Client {
	if url == "" {
		log.Println("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without redis: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable, running without redis: %v", err)
		return nil
	}

	return client
}
