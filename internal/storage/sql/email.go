package sql

import (
	"context"

	"honeypoty/backend/internal/domain"
)

// ========== Email Repository ==========

// InsertEmail 保存邮件并回填自增 ID
func (s *Store) InsertEmail(ctx context.Context, email *domain.Email) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO emails (space_id, sender_email, subject, body, received_at) VALUES (?, ?, ?, ?, ?)`
	args := []interface{}{email.SpaceID, email.SenderEmail, email.Subject, email.Body, email.ReceivedAt}

	if s.driverName == "postgres" {
		return s.db.QueryRowContext(ctx, s.rebind(query+` RETURNING id`), args...).Scan(&email.ID)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	email.ID, err = result.LastInsertId()
	return err
}

// ListEmailsBySpace 返回空间内的邮件，最新的在前
func (s *Store) ListEmailsBySpace(ctx context.Context, spaceID int64) ([]domain.Email, error) {
	query := `
		SELECT id, space_id, sender_email, subject, body, received_at
		FROM emails
		WHERE space_id = ?
		ORDER BY received_at DESC, id DESC
	`
	return s.queryEmails(ctx, s.rebind(query), spaceID)
}

// ListEmailsBySender 返回指定发件人的邮件，最新的在前
func (s *Store) ListEmailsBySender(ctx context.Context, sender string) ([]domain.Email, error) {
	query := `
		SELECT id, space_id, sender_email, subject, body, received_at
		FROM emails
		WHERE sender_email = ?
		ORDER BY received_at DESC, id DESC
	`
	return s.queryEmails(ctx, s.rebind(query), sender)
}

func (s *Store) queryEmails(ctx context.Context, query string, args ...interface{}) ([]domain.Email, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]domain.Email, 0)
	for rows.Next() {
		var email domain.Email
		if err := rows.Scan(
			&email.ID,
			&email.SpaceID,
			&email.SenderEmail,
			&email.Subject,
			&email.Body,
			&email.ReceivedAt,
		); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}
