package memory

import (
	"context"
	"testing"
	"time"

	"honeypoty/backend/internal/domain"
	"honeypoty/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpace(email string, created time.Time) *domain.EmailSpace {
	return &domain.EmailSpace{
		Email:        email,
		CreatedAt:    created,
		LastActivity: created,
		IsActive:     true,
	}
}

func TestMemoryStore_SpaceOperations(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()

	space := newSpace("a@honeypoty.de", now)
	require.NoError(t, store.InsertSpace(ctx, space))
	assert.Equal(t, int64(1), space.ID)

	// 重复地址违反唯一约束
	err := store.InsertSpace(ctx, newSpace("a@honeypoty.de", now))
	assert.ErrorIs(t, err, storage.ErrDuplicateSpace)

	got, err := store.GetSpaceByEmail(ctx, "a@honeypoty.de")
	require.NoError(t, err)
	assert.Equal(t, space.ID, got.ID)

	got, err = store.GetSpaceByID(ctx, space.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@honeypoty.de", got.Email)

	_, err = store.GetSpaceByEmail(ctx, "missing@honeypoty.de")
	assert.ErrorIs(t, err, storage.ErrSpaceNotFound)

	_, err = store.GetSpaceByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrSpaceNotFound)

	// 返回的是副本，修改不影响存储
	got.IsActive = false
	again, err := store.GetSpaceByID(ctx, space.ID)
	require.NoError(t, err)
	assert.True(t, again.IsActive)
}

func TestMemoryStore_ListAndDeactivate(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()
	cutoff := now.Add(-180 * 24 * time.Hour)

	stale := newSpace("stale@honeypoty.de", now.Add(-400*24*time.Hour))
	stale.LastActivity = cutoff.Add(-time.Hour)
	fresh := newSpace("fresh@honeypoty.de", now.Add(-time.Hour))
	older := newSpace("older@honeypoty.de", now.Add(-2*time.Hour))

	require.NoError(t, store.InsertSpace(ctx, stale))
	require.NoError(t, store.InsertSpace(ctx, fresh))
	require.NoError(t, store.InsertSpace(ctx, older))

	all, err := store.ListSpaces(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "stale@honeypoty.de", all[0].Email)
	assert.Equal(t, "older@honeypoty.de", all[1].Email)
	assert.Equal(t, "fresh@honeypoty.de", all[2].Email)

	active, err := store.ListActiveSpaces(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "older@honeypoty.de", active[0].Email)

	count, err := store.DeactivateSpaces(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 幂等：再次执行不再改变任何行
	count, err = store.DeactivateSpaces(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	got, err := store.GetSpaceByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// 刷新活动时间不会重新激活已停用的空间
	require.NoError(t, store.TouchSpace(ctx, stale.ID, now))
	active, err = store.ListActiveSpaces(ctx, cutoff)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestMemoryStore_EmailOperations(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()

	space := newSpace("inbox@honeypoty.de", now)
	require.NoError(t, store.InsertSpace(ctx, space))

	first := &domain.Email{SpaceID: space.ID, SenderEmail: "s@y.com", Subject: "first", ReceivedAt: now}
	second := &domain.Email{SpaceID: space.ID, SenderEmail: "s@y.com", Subject: "second", ReceivedAt: now}
	third := &domain.Email{SpaceID: space.ID, SenderEmail: "other@y.com", Subject: "third", ReceivedAt: now.Add(time.Minute)}
	require.NoError(t, store.InsertEmail(ctx, first))
	require.NoError(t, store.InsertEmail(ctx, second))
	require.NoError(t, store.InsertEmail(ctx, third))

	emails, err := store.ListEmailsBySpace(ctx, space.ID)
	require.NoError(t, err)
	require.Len(t, emails, 3)
	assert.Equal(t, "third", emails[0].Subject)
	assert.Equal(t, "second", emails[1].Subject) // 相同时间按 ID 倒序
	assert.Equal(t, "first", emails[2].Subject)

	bySender, err := store.ListEmailsBySender(ctx, "s@y.com")
	require.NoError(t, err)
	assert.Len(t, bySender, 2)

	err = store.InsertEmail(ctx, &domain.Email{SpaceID: 999, SenderEmail: "s@y.com", ReceivedAt: now})
	assert.ErrorIs(t, err, storage.ErrSpaceNotFound)
}

func TestMemoryStore_Health(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	assert.NoError(t, store.Health(ctx))
	require.NoError(t, store.Close())
	assert.Error(t, store.Health(ctx))
}
