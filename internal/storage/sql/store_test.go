package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"honeypoty/backend/internal/domain"
	"honeypoty/backend/internal/storage"
)

var spaceCols = []string{"id", "email", "created_at", "last_activity", "is_active"}

func newMockStore(t *testing.T, driver string) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newStoreWithDB(db, driver, time.Second), mock
}

func TestStore_Rebind(t *testing.T) {
	pg := &Store{driverName: "postgres"}
	my := &Store{driverName: "mysql"}

	query := `UPDATE email_spaces SET is_active = ? WHERE last_activity < ? AND is_active = ?`
	assert.Equal(t, `UPDATE email_spaces SET is_active = $1 WHERE last_activity < $2 AND is_active = $3`, pg.rebind(query))
	assert.Equal(t, query, my.rebind(query))
}

func TestStore_InsertSpace(t *testing.T) {
	now := time.Now().UTC()

	t.Run("MySQL 使用 LastInsertId", func(t *testing.T) {
		store, mock := newMockStore(t, "mysql")
		mock.ExpectExec("INSERT INTO email_spaces").
			WithArgs("a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(), true).
			WillReturnResult(sqlmock.NewResult(7, 1))

		space := &domain.EmailSpace{Email: "a@x.com", CreatedAt: now, LastActivity: now, IsActive: true}
		require.NoError(t, store.InsertSpace(context.Background(), space))
		assert.Equal(t, int64(7), space.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PostgreSQL 使用 RETURNING", func(t *testing.T) {
		store, mock := newMockStore(t, "postgres")
		mock.ExpectQuery("RETURNING id").
			WithArgs("a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(), true).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

		space := &domain.EmailSpace{Email: "a@x.com", CreatedAt: now, LastActivity: now, IsActive: true}
		require.NoError(t, store.InsertSpace(context.Background(), space))
		assert.Equal(t, int64(3), space.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MySQL 重复键转换为 ErrDuplicateSpace", func(t *testing.T) {
		store, mock := newMockStore(t, "mysql")
		mock.ExpectExec("INSERT INTO email_spaces").
			WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

		err := store.InsertSpace(context.Background(), &domain.EmailSpace{Email: "a@x.com"})
		assert.ErrorIs(t, err, storage.ErrDuplicateSpace)
	})

	t.Run("PostgreSQL 唯一约束转换为 ErrDuplicateSpace", func(t *testing.T) {
		store, mock := newMockStore(t, "postgres")
		mock.ExpectQuery("INSERT INTO email_spaces").
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

		err := store.InsertSpace(context.Background(), &domain.EmailSpace{Email: "a@x.com"})
		assert.ErrorIs(t, err, storage.ErrDuplicateSpace)
	})

	t.Run("其他错误原样返回", func(t *testing.T) {
		store, mock := newMockStore(t, "mysql")
		boom := errors.New("connection refused")
		mock.ExpectExec("INSERT INTO email_spaces").WillReturnError(boom)

		err := store.InsertSpace(context.Background(), &domain.EmailSpace{Email: "a@x.com"})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, storage.ErrDuplicateSpace)
	})
}

func TestStore_GetSpace(t *testing.T) {
	now := time.Now().UTC()

	t.Run("按地址找到空间", func(t *testing.T) {
		store, mock := newMockStore(t, "mysql")
		mock.ExpectQuery("FROM email_spaces WHERE email").
			WithArgs("a@x.com").
			WillReturnRows(sqlmock.NewRows(spaceCols).AddRow(int64(1), "a@x.com", now, now, true))

		space, err := store.GetSpaceByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), space.ID)
		assert.True(t, space.IsActive)
	})

	t.Run("不存在时返回 ErrSpaceNotFound", func(t *testing.T) {
		store, mock := newMockStore(t, "postgres")
		mock.ExpectQuery("FROM email_spaces WHERE id").
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(spaceCols))

		_, err := store.GetSpaceByID(context.Background(), 9)
		assert.ErrorIs(t, err, storage.ErrSpaceNotFound)
	})
}

func TestStore_ListActiveSpaces(t *testing.T) {
	store, mock := newMockStore(t, "postgres")
	now := time.Now().UTC()
	since := now.Add(-180 * 24 * time.Hour)

	mock.ExpectQuery("last_activity >=").
		WithArgs(true, since).
		WillReturnRows(sqlmock.NewRows(spaceCols).
			AddRow(int64(1), "old@x.com", now.Add(-time.Hour), now, true).
			AddRow(int64(2), "new@x.com", now, now, true))

	spaces, err := store.ListActiveSpaces(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, spaces, 2)
	assert.Equal(t, "old@x.com", spaces[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeactivateSpaces(t *testing.T) {
	store, mock := newMockStore(t, "mysql")
	cutoff := time.Now().UTC().Add(-180 * 24 * time.Hour)

	mock.ExpectExec("UPDATE email_spaces SET is_active").
		WithArgs(false, cutoff, true).
		WillReturnResult(sqlmock.NewResult(0, 4))

	count, err := store.DeactivateSpaces(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Emails(t *testing.T) {
	now := time.Now().UTC()
	emailCols := []string{"id", "space_id", "sender_email", "subject", "body", "received_at"}

	t.Run("写入邮件", func(t *testing.T) {
		store, mock := newMockStore(t, "mysql")
		mock.ExpectExec("INSERT INTO emails").
			WithArgs(int64(1), "s@y.com", "hi", "", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(11, 1))

		email := &domain.Email{SpaceID: 1, SenderEmail: "s@y.com", Subject: "hi", ReceivedAt: now}
		require.NoError(t, store.InsertEmail(context.Background(), email))
		assert.Equal(t, int64(11), email.ID)
	})

	t.Run("按空间列出邮件", func(t *testing.T) {
		store, mock := newMockStore(t, "postgres")
		mock.ExpectQuery("WHERE space_id").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(emailCols).
				AddRow(int64(2), int64(1), "s@y.com", "second", "", now).
				AddRow(int64(1), int64(1), "s@y.com", "first", "", now.Add(-time.Minute)))

		emails, err := store.ListEmailsBySpace(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, emails, 2)
		assert.Equal(t, "second", emails[0].Subject)
	})

	t.Run("按发件人列出邮件", func(t *testing.T) {
		store, mock := newMockStore(t, "mysql")
		mock.ExpectQuery("WHERE sender_email").
			WithArgs("s@y.com").
			WillReturnRows(sqlmock.NewRows(emailCols).
				AddRow(int64(5), int64(2), "s@y.com", "x", "y", now))

		emails, err := store.ListEmailsBySender(context.Background(), "s@y.com")
		require.NoError(t, err)
		require.Len(t, emails, 1)
		assert.Equal(t, int64(2), emails[0].SpaceID)
	})
}
