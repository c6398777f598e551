package health

import (
	"context"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"
)

// Pinger 可被探测的依赖，storage.Gateway 实现了该接口
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthChecker 健康检查器
type HealthChecker struct {
	health  healthcheck.Handler
	store   Pinger
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthChecker 创建健康检查器
//
// 存储连接作为就绪检查，网关未初始化时就绪探测失败；
// 存活检查只关注进程本身。
func NewHealthChecker(store Pinger, logger *zap.Logger) *HealthChecker {
	hc := &HealthChecker{
		health:  healthcheck.NewHandler(),
		store:   store,
		timeout: 3 * time.Second,
		logger:  logger,
	}

	hc.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(10000))
	hc.health.AddReadinessCheck("store", hc.checkStore)

	return hc
}

func (hc *HealthChecker) checkStore() error {
	ctx, cancel := context.WithTimeout(context.Background(), hc.timeout)
	defer cancel()

	if err := hc.store.Health(ctx); err != nil {
		hc.logger.Warn("store health check failed", zap.Error(err))
		return err
	}
	return nil
}

// LiveHandler 存活探测
func (hc *HealthChecker) LiveHandler() http.HandlerFunc {
	return hc.health.LiveEndpoint
}

// ReadyHandler 就绪探测
func (hc *HealthChecker) ReadyHandler() http.HandlerFunc {
	return hc.health.ReadyEndpoint
}
