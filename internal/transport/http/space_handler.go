package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"honeypoty/backend/internal/service"
)

// SpaceHandler 空间相关接口
type SpaceHandler struct {
	spaces         *service.SpaceService
	emails         *service.EmailService
	initialAddress string
	logger         *zap.Logger
}

// NewSpaceHandler 创建空间处理器
func NewSpaceHandler(spaces *service.SpaceService, emails *service.EmailService, initialAddress string, logger *zap.Logger) *SpaceHandler {
	return &SpaceHandler{
		spaces:         spaces,
		emails:         emails,
		initialAddress: initialAddress,
		logger:         logger,
	}
}

// ListActive 获取活跃空间
// @Summary 获取活跃空间
// @Description 返回保留期内仍有活动的空间，按创建时间升序
// @Tags Spaces
// @Produce json
// @Success 200 {array} spaceSummary
// @Failure 500 {object} errorResponse
// @Router /api/spaces [get]
func (h *SpaceHandler) ListActive(c *gin.Context) {
	spaces, err := h.spaces.ListActive(c.Request.Context())
	if err != nil {
		internalError(c, h.logger, MsgFetchSpacesFailed, err)
		return
	}
	c.JSON(http.StatusOK, toSpaceSummaries(spaces, h.initialAddress))
}

// ListAll 获取全部空间
// @Summary 获取全部空间
// @Description 返回包括已停用空间在内的全部记录
// @Tags Spaces
// @Produce json
// @Success 200 {array} domain.EmailSpace
// @Failure 500 {object} errorResponse
// @Router /api/spaces/all [get]
func (h *SpaceHandler) ListAll(c *gin.Context) {
	spaces, err := h.spaces.ListAll(c.Request.Context())
	if err != nil {
		internalError(c, h.logger, MsgFetchAllSpacesFailed, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}

// Create 创建空间
// @Summary 创建空间
// @Description 地址已存在时返回已有空间
// @Tags Spaces
// @Accept json
// @Produce json
// @Param request body createSpaceRequest true "空间地址"
// @Success 201 {object} createSpaceResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/spaces [post]
func (h *SpaceHandler) Create(c *gin.Context) {
	var req createSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		badRequest(c, MsgEmailRequired)
		return
	}

	space, err := h.spaces.Create(c.Request.Context(), req.Email)
	if err != nil {
		internalError(c, h.logger, MsgCreateSpaceFailed, err)
		return
	}

	c.JSON(http.StatusCreated, createSpaceResponse{
		Email:     space.Email,
		Active:    space.IsActive,
		CreatedAt: space.CreatedAt,
	})
}

// ListEmails 获取空间内的邮件
// @Summary 获取空间邮件
// @Description 最新的邮件在前
// @Tags Spaces
// @Produce json
// @Param email path string true "空间地址"
// @Success 200 {array} spaceEmail
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/spaces/{email}/emails [get]
func (h *SpaceHandler) ListEmails(c *gin.Context) {
	ctx := c.Request.Context()

	space, err := h.spaces.GetByEmail(ctx, c.Param("email"))
	if err != nil {
		internalError(c, h.logger, MsgFetchEmailsFailed, err)
		return
	}
	if space == nil {
		notFound(c, MsgSpaceNotFound)
		return
	}

	emails, err := h.emails.ListBySpace(ctx, space.ID)
	if err != nil {
		internalError(c, h.logger, MsgFetchEmailsFailed, err)
		return
	}
	c.JSON(http.StatusOK, toSpaceEmails(emails))
}
