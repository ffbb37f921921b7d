package storage

import (
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

// Redis is nil when REDIS_URL is not configured; callers must treat it as
// optional. Its only role is the short-TTL settings cache.
var Redis *redis.Client

func InitializeRedis() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Println("REDIS_URL not set, settings cache disabled (reads go to the database)")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	log.Println("Redis initialized with address:", redisURL)
}
