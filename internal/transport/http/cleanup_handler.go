package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"honeypoty/backend/internal/service"
)

// CleanupHandler 手动触发清理
type CleanupHandler struct {
	task   *service.CleanupTask
	logger *zap.Logger
}

// NewCleanupHandler 创建清理处理器
func NewCleanupHandler(task *service.CleanupTask, logger *zap.Logger) *CleanupHandler {
	return &CleanupHandler{task: task, logger: logger}
}

// Run 立即执行一次清理
// @Summary 手动清理
// @Description 停用超过保留期没有活动的空间
// @Tags Maintenance
// @Produce json
// @Success 200 {object} cleanupResponse
// @Failure 500 {object} errorResponse
// @Router /api/cleanup [post]
func (h *CleanupHandler) Run(c *gin.Context) {
	count, err := h.task.RunOnce(c.Request.Context())
	if err != nil {
		internalError(c, h.logger, MsgCleanupFailed, err)
		return
	}
	c.JSON(http.StatusOK, cleanupResponse{
		Message:          "Cleanup completed",
		DeactivatedCount: count,
	})
}
