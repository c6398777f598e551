package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"honeypoty/backend/internal/monitoring"
)

// CleanupTask 定时停用过期空间。
type CleanupTask struct {
	spaces   *SpaceService
	interval time.Duration
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewCleanupTask 创建清理任务
func NewCleanupTask(spaces *SpaceService, interval time.Duration, metrics *monitoring.Metrics, logger *zap.Logger) *CleanupTask {
	return &CleanupTask{
		spaces:   spaces,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
}

// RunOnce 执行一次清理，返回停用的空间数量
func (t *CleanupTask) RunOnce(ctx context.Context) (int64, error) {
	count, err := t.spaces.DeactivateStale(ctx)
	t.metrics.RecordCleanup(count, err)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		t.logger.Info("deactivated stale email spaces", zap.Int64("count", count))
	}
	return count, nil
}

// Run 按固定间隔执行清理直到 ctx 结束。
//
// 单次执行的错误或 panic 只记录日志，不影响后续执行。
func (t *CleanupTask) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("cleanup task started",
		zap.Duration("interval", t.interval),
		zap.Duration("retention", t.spaces.Retention()),
	)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("cleanup task stopped")
			return nil
		case <-ticker.C:
			t.fire(ctx)
		}
	}
}

func (t *CleanupTask) fire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.metrics.RecordCleanup(0, fmt.Errorf("panic: %v", r))
			t.logger.Error("cleanup task panicked", zap.Any("panic", r))
		}
	}()

	if _, err := t.RunOnce(ctx); err != nil {
		t.logger.Error("cleanup task failed", zap.Error(err))
	}
}
