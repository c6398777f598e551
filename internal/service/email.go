package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"honeypoty/backend/internal/domain"
	"honeypoty/backend/internal/monitoring"
)

// 邮件来源，用于指标标签
const (
	SourceHTTP = "http"
	SourceSMTP = "smtp"
)

// EmailService 负责记录进入蜜罐的邮件。
type EmailService struct {
	spaces  *SpaceService
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewEmailService 创建邮件服务
func NewEmailService(spaces *SpaceService, metrics *monitoring.Metrics, logger *zap.Logger) *EmailService {
	return &EmailService{
		spaces:  spaces,
		metrics: metrics,
		logger:  logger,
	}
}

// SaveEmailInput 定义保存邮件所需的输入。
type SaveEmailInput struct {
	Sender    string
	Recipient string
	Subject   string
	Body      string
	Source    string // 为空时按 http 计
}

// Save 保存一封邮件，收件地址对应的空间不存在时自动创建。
//
// 发件人是自由文本，只去除首尾空白后原样保存；收件人按 domain.NormalizeAddress 归一到空间。
func (s *EmailService) Save(ctx context.Context, input SaveEmailInput) (*domain.Email, error) {
	sender := strings.TrimSpace(input.Sender)
	if sender == "" {
		return nil, ErrSenderRequired
	}
	if domain.NormalizeAddress(input.Recipient) == "" {
		return nil, ErrRecipientRequired
	}

	space, err := s.spaces.Create(ctx, input.Recipient)
	if err != nil {
		return nil, fmt.Errorf("resolve space: %w", err)
	}

	if err := s.spaces.Touch(ctx, space.ID); err != nil {
		return nil, fmt.Errorf("touch space: %w", err)
	}

	store, err := s.spaces.stores.Store()
	if err != nil {
		return nil, err
	}

	email := &domain.Email{
		SpaceID:     space.ID,
		SenderEmail: sender,
		Subject:     input.Subject,
		Body:        input.Body,
		ReceivedAt:  s.spaces.now(),
	}
	if err := store.InsertEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("insert email: %w", err)
	}

	source := input.Source
	if source == "" {
		source = SourceHTTP
	}
	s.metrics.RecordEmailReceived(source)
	s.logger.Info("email recorded",
		zap.Int64("email_id", email.ID),
		zap.Int64("space_id", space.ID),
		zap.String("sender", sender),
		zap.String("recipient", space.Email),
		zap.String("source", source),
	)
	return email, nil
}

// ListBySpace 返回空间内的邮件，最新的在前
func (s *EmailService) ListBySpace(ctx context.Context, spaceID int64) ([]domain.Email, error) {
	store, err := s.spaces.stores.Store()
	if err != nil {
		return nil, err
	}
	return store.ListEmailsBySpace(ctx, spaceID)
}

// ListBySender 返回发件人字段与 sender 完全一致的邮件，最新的在前
func (s *EmailService) ListBySender(ctx context.Context, sender string) ([]domain.Email, error) {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, ErrSenderRequired
	}

	store, err := s.spaces.stores.Store()
	if err != nil {
		return nil, err
	}
	return store.ListEmailsBySender(ctx, sender)
}
