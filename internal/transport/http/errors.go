package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"honeypoty/backend/internal/middleware"
)

// errorResponse 错误响应
type errorResponse struct {
	Error string `json:"error"`
}

// 客户端错误消息
const (
	MsgEmailRequired           = "Email is required"
	MsgSenderRecipientRequired = "Sender and recipient are required"
	MsgSenderRequired          = "Sender is required"
	MsgSpaceNotFound           = "Space not found"
	MsgNotFound                = "Not found"
)

// 服务端错误消息，具体原因只写日志
const (
	MsgFetchSpacesFailed    = "Failed to fetch spaces"
	MsgFetchAllSpacesFailed = "Failed to fetch all spaces"
	MsgCreateSpaceFailed    = "Failed to create space"
	MsgSaveEmailFailed      = "Failed to save email"
	MsgFetchEmailsFailed    = "Failed to fetch emails"
	MsgCleanupFailed        = "Failed to perform cleanup"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

// internalError 记录失败原因并返回通用 500 消息
func internalError(c *gin.Context, log *zap.Logger, msg string, err error) {
	log.Error(msg,
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: msg})
}
