package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the API and its two backing stores. Postgres
// holds the ledger and Redis backs the price cache and alert queue, so the
// endpoint degrades to 503 when either is unreachable.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgresOK := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgresOK = false
		}

		redisOK := rdb.Ping(ctx).Err() == nil

		status := http.StatusOK
		if !postgresOK || !redisOK {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"servicio": "gasolinera-api",
			"postgres": estado(postgresOK),
			"redis":    estado(redisOK),
		})
	}
}

func estado(ok bool) string {
	if ok {
		return "connected"
	}
	return "error"
}
