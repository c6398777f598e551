package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"honeypoty/backend/internal/storage"
	"honeypoty/backend/internal/storage/memory"
)

func TestHealthChecker(t *testing.T) {
	t.Run("网关未初始化时未就绪", func(t *testing.T) {
		hc := NewHealthChecker(storage.NewGateway(), zap.NewNop())

		rec := httptest.NewRecorder()
		hc.ReadyHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready?full=1", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), storage.ErrNotInitialized.Error())
	})

	t.Run("初始化后就绪", func(t *testing.T) {
		gw := storage.NewGateway()
		require.NoError(t, gw.Init(memory.NewStore()))
		hc := NewHealthChecker(gw, zap.NewNop())

		rec := httptest.NewRecorder()
		hc.ReadyHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("存活探测不依赖存储", func(t *testing.T) {
		hc := NewHealthChecker(storage.NewGateway(), zap.NewNop())

		rec := httptest.NewRecorder()
		hc.LiveHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
