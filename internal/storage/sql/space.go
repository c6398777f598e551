package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"honeypoty/backend/internal/domain"
	"honeypoty/backend/internal/storage"
)

const spaceColumns = `id, email, created_at, last_activity, is_active`

// ========== Space Repository ==========

// InsertSpace 插入新空间并回填自增 ID
//
// 唯一约束冲突统一转换为 storage.ErrDuplicateSpace，由上层回退为按地址查询。
func (s *Store) InsertSpace(ctx context.Context, space *domain.EmailSpace) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO email_spaces (email, created_at, last_activity, is_active) VALUES (?, ?, ?, ?)`
	args := []interface{}{space.Email, space.CreatedAt, space.LastActivity, space.IsActive}

	if s.driverName == "postgres" {
		// lib/pq 不支持 LastInsertId
		err := s.db.QueryRowContext(ctx, s.rebind(query+` RETURNING id`), args...).Scan(&space.ID)
		return s.translateInsertError(err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return s.translateInsertError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted space id: %w", err)
	}
	space.ID = id
	return nil
}

// GetSpaceByEmail 根据地址获取空间
func (s *Store) GetSpaceByEmail(ctx context.Context, email string) (*domain.EmailSpace, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + spaceColumns + ` FROM email_spaces WHERE email = ?`
	return scanSpace(s.db.QueryRowContext(ctx, s.rebind(query), email))
}

// GetSpaceByID 根据 ID 获取空间
func (s *Store) GetSpaceByID(ctx context.Context, id int64) (*domain.EmailSpace, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + spaceColumns + ` FROM email_spaces WHERE id = ?`
	return scanSpace(s.db.QueryRowContext(ctx, s.rebind(query), id))
}

// ListActiveSpaces 返回激活且在 since 之后有活动的空间
func (s *Store) ListActiveSpaces(ctx context.Context, since time.Time) ([]domain.EmailSpace, error) {
	query := `
		SELECT ` + spaceColumns + `
		FROM email_spaces
		WHERE is_active = ? AND last_activity >= ?
		ORDER BY created_at ASC, id ASC
	`
	return s.querySpaces(ctx, s.rebind(query), true, since)
}

// ListSpaces 返回全部空间（含已停用）
func (s *Store) ListSpaces(ctx context.Context) ([]domain.EmailSpace, error) {
	query := `
		SELECT ` + spaceColumns + `
		FROM email_spaces
		ORDER BY created_at ASC, id ASC
	`
	return s.querySpaces(ctx, query)
}

// TouchSpace 更新空间最后活动时间
func (s *Store) TouchSpace(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `UPDATE email_spaces SET last_activity = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.rebind(query), at, id)
	return err
}

// DeactivateSpaces 停用 before 之前无活动的激活空间，返回受影响行数
func (s *Store) DeactivateSpaces(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `UPDATE email_spaces SET is_active = ? WHERE last_activity < ? AND is_active = ?`
	result, err := s.db.ExecContext(ctx, s.rebind(query), false, before, true)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) querySpaces(ctx context.Context, query string, args ...interface{}) ([]domain.EmailSpace, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spaces := make([]domain.EmailSpace, 0)
	for rows.Next() {
		var space domain.EmailSpace
		if err := rows.Scan(
			&space.ID,
			&space.Email,
			&space.CreatedAt,
			&space.LastActivity,
			&space.IsActive,
		); err != nil {
			return nil, err
		}
		spaces = append(spaces, space)
	}

	return spaces, rows.Err()
}

func (s *Store) translateInsertError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return storage.ErrDuplicateSpace
	}
	return err
}

func scanSpace(row *sql.Row) (*domain.EmailSpace, error) {
	var space domain.EmailSpace
	err := row.Scan(
		&space.ID,
		&space.Email,
		&space.CreatedAt,
		&space.LastActivity,
		&space.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSpaceNotFound
		}
		return nil, err
	}
	return &space, nil
}
