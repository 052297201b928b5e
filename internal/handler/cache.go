package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
)

// 每次写操作都会让代数加一，旧代数的缓存不再被读取，等待过期即可
const weekCacheGenerationKey = "schedule_week_generation"

// 只缓存从周一到周日的整周查询
func isWholeWeek(start, end calendar.Date) bool {
	return start.Weekday() == time.Monday && end == start.AddDays(6)
}

func (h *Handler) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
}

func (h *Handler) weekCacheKey(ctx context.Context, weekStart calendar.Date) (string, error) {
	generation, err := h.redisClient.Get(ctx, weekCacheGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("schedule_week_%d_%s", generation, weekStart), nil
}

// cachedWeek 返回缓存的整周数据和对应的缓存键；缓存不可用时不影响正常查询
func (h *Handler) cachedWeek(ctx context.Context, start, end calendar.Date) ([]byte, string) {
	if h.redisClient == nil || !isWholeWeek(start, end) {
		return nil, ""
	}

	ctx, cancel := h.cacheContext(ctx)
	defer cancel()

	key, err := h.weekCacheKey(ctx, start)
	if err != nil {
		slog.Warn("读取排班缓存失败", "error", err)
		return nil, ""
	}

	data, err := h.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("读取排班缓存失败", "key", key, "error", err)
		}
		return nil, key
	}
	return data, key
}

func (h *Handler) cacheWeek(ctx context.Context, key string, data []byte) {
	if h.redisClient == nil || key == "" {
		return
	}

	ctx, cancel := h.cacheContext(ctx)
	defer cancel()

	if err := h.redisClient.Set(ctx, key, data, time.Duration(h.config.Redis.WeekDataTTL)*time.Second).Err(); err != nil {
		slog.Warn("写入排班缓存失败", "key", key, "error", err)
	}
}

func (h *Handler) invalidateWeekCache(ctx context.Context) {
	if h.redisClient == nil {
		return
	}

	ctx, cancel := h.cacheContext(ctx)
	defer cancel()

	if err := h.redisClient.Incr(ctx, weekCacheGenerationKey).Err(); err != nil {
		slog.Warn("清除排班缓存失败", "error", err)
	}
}
