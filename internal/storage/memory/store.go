package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"honeypoty/backend/internal/domain"
	"honeypoty/backend/internal/storage"
)

// Store 使用内存保存空间与邮件数据，主要用于开发验证和测试。
//
// 与数据库实现保持相同的语义：邮箱地址唯一、ID 自增、返回值为副本。
type Store struct {
	mu        sync.RWMutex
	spaces    map[int64]*domain.EmailSpace
	byEmail   map[string]int64
	emails    map[int64][]*domain.Email // spaceID -> emails（按写入顺序）
	nextSpace int64
	nextEmail int64
	closed    bool
}

// NewStore 创建一个内存存储实例。
func NewStore() *Store {
	return &Store{
		spaces:  make(map[int64]*domain.EmailSpace),
		byEmail: make(map[string]int64),
		emails:  make(map[int64][]*domain.Email),
	}
}

// ========== Space Repository ==========

// InsertSpace 插入新空间，地址已存在时返回 storage.ErrDuplicateSpace
func (s *Store) InsertSpace(_ context.Context, space *domain.EmailSpace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(space.Email)
	if _, exists := s.byEmail[key]; exists {
		return storage.ErrDuplicateSpace
	}

	s.nextSpace++
	space.ID = s.nextSpace

	stored := *space
	s.spaces[stored.ID] = &stored
	s.byEmail[key] = stored.ID
	return nil
}

// GetSpaceByEmail 根据地址获取空间
func (s *Store) GetSpaceByEmail(_ context.Context, email string) (*domain.EmailSpace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrSpaceNotFound
	}
	space := *s.spaces[id]
	return &space, nil
}

// GetSpaceByID 根据 ID 获取空间
func (s *Store) GetSpaceByID(_ context.Context, id int64) (*domain.EmailSpace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.spaces[id]
	if !ok {
		return nil, storage.ErrSpaceNotFound
	}
	space := *stored
	return &space, nil
}

// ListActiveSpaces 返回未停用且在 since 之后有活动的空间，按创建时间升序
func (s *Store) ListActiveSpaces(_ context.Context, since time.Time) ([]domain.EmailSpace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.EmailSpace, 0, len(s.spaces))
	for _, space := range s.spaces {
		if space.ActiveSince(since) {
			result = append(result, *space)
		}
	}
	sortByCreated(result)
	return result, nil
}

// ListSpaces 返回全部空间，按创建时间升序
func (s *Store) ListSpaces(_ context.Context) ([]domain.EmailSpace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.EmailSpace, 0, len(s.spaces))
	for _, space := range s.spaces {
		result = append(result, *space)
	}
	sortByCreated(result)
	return result, nil
}

// TouchSpace 刷新空间的最后活动时间
func (s *Store) TouchSpace(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if space, ok := s.spaces[id]; ok {
		space.LastActivity = at
	}
	return nil
}

// DeactivateSpaces 停用 before 之前无活动的激活空间
func (s *Store) DeactivateSpaces(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, space := range s.spaces {
		if space.IsActive && space.LastActivity.Before(before) {
			space.IsActive = false
			count++
		}
	}
	return count, nil
}

// ========== Email Repository ==========

// InsertEmail 保存邮件，所属空间必须存在
func (s *Store) InsertEmail(_ context.Context, email *domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spaces[email.SpaceID]; !ok {
		return storage.ErrSpaceNotFound
	}

	s.nextEmail++
	email.ID = s.nextEmail

	stored := *email
	stored.Space = nil
	s.emails[email.SpaceID] = append(s.emails[email.SpaceID], &stored)
	return nil
}

// ListEmailsBySpace 返回空间内的邮件，最新的在前
func (s *Store) ListEmailsBySpace(_ context.Context, spaceID int64) ([]domain.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.emails[spaceID]
	result := make([]domain.Email, 0, len(stored))
	for _, email := range stored {
		result = append(result, *email)
	}
	sortNewestFirst(result)
	return result, nil
}

// ListEmailsBySender 返回指定发件人的全部邮件，最新的在前
func (s *Store) ListEmailsBySender(_ context.Context, sender string) ([]domain.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Email, 0)
	for _, list := range s.emails {
		for _, email := range list {
			if email.SenderEmail == sender {
				result = append(result, *email)
			}
		}
	}
	sortNewestFirst(result)
	return result, nil
}

// ========== 工具方法 ==========

// Close 关闭存储
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Health 内存存储在关闭前始终健康
func (s *Store) Health(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errStoreClosed
	}
	return nil
}

func sortByCreated(spaces []domain.EmailSpace) {
	sort.SliceStable(spaces, func(i, j int) bool {
		if spaces[i].CreatedAt.Equal(spaces[j].CreatedAt) {
			return spaces[i].ID < spaces[j].ID
		}
		return spaces[i].CreatedAt.Before(spaces[j].CreatedAt)
	})
}

func sortNewestFirst(emails []domain.Email) {
	sort.SliceStable(emails, func(i, j int) bool {
		if emails[i].ReceivedAt.Equal(emails[j].ReceivedAt) {
			return emails[i].ID > emails[j].ID
		}
		return emails[i].ReceivedAt.After(emails[j].ReceivedAt)
	})
}
