package httptransport

import (
	"time"

	"honeypoty/backend/internal/domain"
)

// spaceSummary 活跃空间列表项
type spaceSummary struct {
	Email        string    `json:"email"`
	Active       bool      `json:"active"`
	IsInitial    bool      `json:"isInitial"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// createSpaceRequest 创建空间请求
type createSpaceRequest struct {
	Email string `json:"email"`
}

// createSpaceResponse 创建空间响应
type createSpaceResponse struct {
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// incomingEmailRequest 投递邮件请求
type incomingEmailRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// savedEmail 已保存邮件
type savedEmail struct {
	ID          int64     `json:"id"`
	SpaceID     int64     `json:"spaceId"`
	SenderEmail string    `json:"senderEmail"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

// incomingEmailResponse 投递邮件响应
type incomingEmailResponse struct {
	Message string     `json:"message"`
	Email   savedEmail `json:"email"`
}

// spaceEmail 空间内的邮件列表项
type spaceEmail struct {
	ID          int64     `json:"id"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	ReceivedAt  time.Time `json:"received_at"`
}

// senderEmail 按发件人查询的邮件列表项
type senderEmail struct {
	ID         int64     `json:"id"`
	SpaceID    int64     `json:"space_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// cleanupResponse 手动清理响应
type cleanupResponse struct {
	Message          string `json:"message"`
	DeactivatedCount int64  `json:"deactivatedCount"`
}

func toSpaceSummaries(spaces []domain.EmailSpace, initial string) []spaceSummary {
	out := make([]spaceSummary, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, spaceSummary{
			Email:        s.Email,
			Active:       s.IsActive,
			IsInitial:    s.Email == initial,
			CreatedAt:    s.CreatedAt,
			LastActivity: s.LastActivity,
		})
	}
	return out
}

func toSavedEmail(e *domain.Email) savedEmail {
	return savedEmail{
		ID:          e.ID,
		SpaceID:     e.SpaceID,
		SenderEmail: e.SenderEmail,
		Subject:     e.Subject,
		Body:        e.Body,
		ReceivedAt:  e.ReceivedAt,
	}
}

func toSpaceEmails(emails []domain.Email) []spaceEmail {
	out := make([]spaceEmail, 0, len(emails))
	for _, e := range emails {
		out = append(out, spaceEmail{
			ID:          e.ID,
			SenderEmail: e.SenderEmail,
			Subject:     e.Subject,
			Body:        e.Body,
			ReceivedAt:  e.ReceivedAt,
		})
	}
	return out
}

func toSenderEmails(emails []domain.Email) []senderEmail {
	out := make([]senderEmail, 0, len(emails))
	for _, e := range emails {
		out = append(out, senderEmail{
			ID:         e.ID,
			SpaceID:    e.SpaceID,
			Subject:    e.Subject,
			Body:       e.Body,
			ReceivedAt: e.ReceivedAt,
		})
	}
	return out
}
