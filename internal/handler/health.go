package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type healthResponse struct {
	OK       bool   `json:"ok"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

func pingPostgres(ctx context.Context, db *gorm.DB) string {
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "error"
	}
	return "ok"
}

func pingRedis(ctx context.Context, rdb *redis.Client) string {
	if rdb == nil {
		return "disabled"
	}
	if rdb.Ping(ctx).Err() != nil {
		return "error"
	}
	return "ok"
}

// Health reports 503 when Postgres or a configured Redis does not answer within 3s.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res := healthResponse{Postgres: pingPostgres(ctx, db), Redis: pingRedis(ctx, rdb)}
		res.OK = res.Postgres != "error" && res.Redis != "error"
		status := http.StatusOK
		if !res.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, res)
	}
}
