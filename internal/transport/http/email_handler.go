package httptransport

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"honeypoty/backend/internal/service"
)

// EmailHandler 邮件投递与查询接口
type EmailHandler struct {
	emails *service.EmailService
	logger *zap.Logger
}

// NewEmailHandler 创建邮件处理器
func NewEmailHandler(emails *service.EmailService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{emails: emails, logger: logger}
}

// Incoming 接收外部投递的邮件
// @Summary 投递邮件
// @Description 收件地址对应的空间不存在时自动创建
// @Tags Emails
// @Accept json
// @Produce json
// @Param request body incomingEmailRequest true "邮件内容"
// @Success 201 {object} incomingEmailResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/emails/incoming [post]
func (h *EmailHandler) Incoming(c *gin.Context) {
	var req incomingEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Sender) == "" || strings.TrimSpace(req.Recipient) == "" {
		badRequest(c, MsgSenderRecipientRequired)
		return
	}

	email, err := h.emails.Save(c.Request.Context(), service.SaveEmailInput{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
		Source:    service.SourceHTTP,
	})
	if err != nil {
		if errors.Is(err, service.ErrSenderRequired) || errors.Is(err, service.ErrRecipientRequired) {
			badRequest(c, MsgSenderRecipientRequired)
			return
		}
		internalError(c, h.logger, MsgSaveEmailFailed, err)
		return
	}

	c.JSON(http.StatusCreated, incomingEmailResponse{
		Message: "Email saved successfully",
		Email:   toSavedEmail(email),
	})
}

// ListBySender 按发件人查询邮件
// @Summary 按发件人查询邮件
// @Tags Emails
// @Produce json
// @Param sender query string true "发件人地址"
// @Success 200 {array} senderEmail
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/emails [get]
func (h *EmailHandler) ListBySender(c *gin.Context) {
	sender := c.Query("sender")
	if strings.TrimSpace(sender) == "" {
		badRequest(c, MsgSenderRequired)
		return
	}

	emails, err := h.emails.ListBySender(c.Request.Context(), sender)
	if err != nil {
		if errors.Is(err, service.ErrSenderRequired) {
			badRequest(c, MsgSenderRequired)
			return
		}
		internalError(c, h.logger, MsgFetchEmailsFailed, err)
		return
	}
	c.JSON(http.StatusOK, toSenderEmails(emails))
}
