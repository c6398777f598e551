package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"honeypoty/backend/internal/domain"
	"honeypoty/backend/internal/storage"
)

const uniqueViolation = "23505"

// Store 基于 pgx 的原生 PostgreSQL 存储实现
type Store struct {
	db           DB
	closer       func()
	queryTimeout time.Duration
}

// NewStore 基于已连接的 Client 创建存储
func NewStore(client *Client, queryTimeout time.Duration) *Store {
	return newStoreWithDB(client.DB(), client.Close, queryTimeout)
}

func newStoreWithDB(db DB, closer func(), queryTimeout time.Duration) *Store {
	if closer == nil {
		closer = func() {}
	}
	return &Store{db: db, closer: closer, queryTimeout: queryTimeout}
}

// Close 关闭连接池
func (s *Store) Close() error {
	s.closer()
	return nil
}

// Health 检查数据库连接
func (s *Store) Health(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.Ping(ctx)
}

// ========== Space Repository ==========

// InsertSpace 插入新空间，唯一约束冲突返回 storage.ErrDuplicateSpace
func (s *Store) InsertSpace(ctx context.Context, space *domain.EmailSpace) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.db.QueryRow(ctx,
		`INSERT INTO email_spaces (email, created_at, last_activity, is_active)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		space.Email, space.CreatedAt, space.LastActivity, space.IsActive,
	).Scan(&space.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateSpace
		}
		return err
	}
	return nil
}

// GetSpaceByEmail 根据地址获取空间
func (s *Store) GetSpaceByEmail(ctx context.Context, email string) (*domain.EmailSpace, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRow(ctx,
		`SELECT id, email, created_at, last_activity, is_active FROM email_spaces WHERE email = $1`, email)
	return scanSpace(row)
}

// GetSpaceByID 根据 ID 获取空间
func (s *Store) GetSpaceByID(ctx context.Context, id int64) (*domain.EmailSpace, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRow(ctx,
		`SELECT id, email, created_at, last_activity, is_active FROM email_spaces WHERE id = $1`, id)
	return scanSpace(row)
}

// ListActiveSpaces 返回激活且在 since 之后有活动的空间
func (s *Store) ListActiveSpaces(ctx context.Context, since time.Time) ([]domain.EmailSpace, error) {
	return s.querySpaces(ctx,
		`SELECT id, email, created_at, last_activity, is_active
		 FROM email_spaces
		 WHERE is_active = TRUE AND last_activity >= $1
		 ORDER BY created_at ASC, id ASC`, since)
}

// ListSpaces 返回全部空间
func (s *Store) ListSpaces(ctx context.Context) ([]domain.EmailSpace, error) {
	return s.querySpaces(ctx,
		`SELECT id, email, created_at, last_activity, is_active
		 FROM email_spaces
		 ORDER BY created_at ASC, id ASC`)
}

// TouchSpace 更新空间最后活动时间
func (s *Store) TouchSpace(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.Exec(ctx, `UPDATE email_spaces SET last_activity = $1 WHERE id = $2`, at, id)
	return err
}

// DeactivateSpaces 批量停用长期无活动的空间
func (s *Store) DeactivateSpaces(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.db.Exec(ctx,
		`UPDATE email_spaces SET is_active = FALSE WHERE last_activity < $1 AND is_active = TRUE`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ========== Email Repository ==========

// InsertEmail 保存邮件
func (s *Store) InsertEmail(ctx context.Context, email *domain.Email) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.db.QueryRow(ctx,
		`INSERT INTO emails (space_id, sender_email, subject, body, received_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		email.SpaceID, email.SenderEmail, email.Subject, email.Body, email.ReceivedAt,
	).Scan(&email.ID)
}

// ListEmailsBySpace 返回空间内的邮件，最新的在前
func (s *Store) ListEmailsBySpace(ctx context.Context, spaceID int64) ([]domain.Email, error) {
	return s.queryEmails(ctx,
		`SELECT id, space_id, sender_email, subject, body, received_at
		 FROM emails WHERE space_id = $1
		 ORDER BY received_at DESC, id DESC`, spaceID)
}

// ListEmailsBySender 返回指定发件人的邮件，最新的在前
func (s *Store) ListEmailsBySender(ctx context.Context, sender string) ([]domain.Email, error) {
	return s.queryEmails(ctx,
		`SELECT id, space_id, sender_email, subject, body, received_at
		 FROM emails WHERE sender_email = $1
		 ORDER BY received_at DESC, id DESC`, sender)
}

func (s *Store) querySpaces(ctx context.Context, query string, args ...any) ([]domain.EmailSpace, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spaces := make([]domain.EmailSpace, 0)
	for rows.Next() {
		var space domain.EmailSpace
		if err := rows.Scan(&space.ID, &space.Email, &space.CreatedAt, &space.LastActivity, &space.IsActive); err != nil {
			return nil, err
		}
		spaces = append(spaces, space)
	}
	return spaces, rows.Err()
}

func (s *Store) queryEmails(ctx context.Context, query string, args ...any) ([]domain.Email, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]domain.Email, 0)
	for rows.Next() {
		var email domain.Email
		if err := rows.Scan(&email.ID, &email.SpaceID, &email.SenderEmail, &email.Subject, &email.Body, &email.ReceivedAt); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func scanSpace(row pgx.Row) (*domain.EmailSpace, error) {
	var space domain.EmailSpace
	err := row.Scan(&space.ID, &space.Email, &space.CreatedAt, &space.LastActivity, &space.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrSpaceNotFound
		}
		return nil, err
	}
	return &space, nil
}

// isUniqueViolation 判断是否为唯一约束冲突
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
