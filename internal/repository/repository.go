package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/config"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/scheduler"
)

// 发布时依赖这个唯一约束来保证同一员工同一开始时刻只发布一次
const publishedUniqueConstraint = "published_shifts_employee_id_start_time_key"

var _ scheduler.Store = (*Repository)(nil)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) transactionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

// storeErr 把基础设施错误包装为 domain.ErrStoreUnavailable，sql.ErrNoRows 原样返回
func storeErr(op string, err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}

// int64Array 把 ID 列表转换为 PostgreSQL 的数组字面量，例如 {1,2,3}
func int64Array(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
