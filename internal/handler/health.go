package handler

import (
	"context"
	"net/http"
	"time"

	"shoppos/internal/infra"
	"shoppos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity, the SMTP breaker and dead-letter backlog;
// never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if db == nil {
			dbStatus = "error"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var dlq map[string]int64
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else if lengths, err := worker.DLQLengths(ctx, rdb); err == nil {
			dlq = lengths
		}

		smtpStatus := "disabled"
		if mailer.Enabled() {
			smtpStatus = mailer.BreakerState().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"smtp":  smtpStatus,
			"dlq":   dlq,
		})
	}
}
