package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"honeypoty/backend/internal/domain"
	"honeypoty/backend/internal/monitoring"
	"honeypoty/backend/internal/storage"
)

var (
	ErrEmailRequired     = errors.New("email is required")
	ErrSenderRequired    = errors.New("sender is required")
	ErrRecipientRequired = errors.New("recipient is required")
)

// SpaceService 封装邮箱空间的注册与生命周期操作。
//
// 所有时间判断都基于同一个保留期：最后活动早于 now-retention 的空间
// 既不会出现在活跃列表中，也会被清理任务停用。
type SpaceService struct {
	stores    storage.Provider
	retention time.Duration
	now       func() time.Time
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewSpaceService 创建空间服务，metrics 可以为 nil；retention 非正时使用 domain.DefaultRetention
func NewSpaceService(stores storage.Provider, retention time.Duration, metrics *monitoring.Metrics, logger *zap.Logger) *SpaceService {
	if retention <= 0 {
		retention = domain.DefaultRetention
	}
	return &SpaceService{
		stores:    stores,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
		metrics:   metrics,
		logger:    logger,
	}
}

// SetClock 替换时间来源，测试中用于固定当前时间
func (s *SpaceService) SetClock(now func() time.Time) {
	s.now = now
}

// Retention 返回保留期
func (s *SpaceService) Retention() time.Duration {
	return s.retention
}

// Create 创建激活的空间；地址已存在时返回已有空间。
//
// 先插入再在唯一约束冲突时回查，并发创建同一地址最终只会产生一条记录。
func (s *SpaceService) Create(ctx context.Context, email string) (*domain.EmailSpace, error) {
	address := domain.NormalizeAddress(email)
	if address == "" {
		return nil, ErrEmailRequired
	}

	store, err := s.stores.Store()
	if err != nil {
		return nil, err
	}

	now := s.now()
	space := &domain.EmailSpace{
		Email:        address,
		CreatedAt:    now,
		LastActivity: now,
		IsActive:     true,
	}

	err = store.InsertSpace(ctx, space)
	if err == nil {
		s.metrics.RecordSpaceCreated()
		s.logger.Info("email space created",
			zap.Int64("space_id", space.ID),
			zap.String("email", space.Email),
		)
		return space, nil
	}
	if !errors.Is(err, storage.ErrDuplicateSpace) {
		return nil, fmt.Errorf("insert space: %w", err)
	}

	existing, err := store.GetSpaceByEmail(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch existing space: %w", err)
	}
	return existing, nil
}

// GetByEmail 根据地址查找空间，不存在时返回 (nil, nil)
func (s *SpaceService) GetByEmail(ctx context.Context, email string) (*domain.EmailSpace, error) {
	store, err := s.stores.Store()
	if err != nil {
		return nil, err
	}

	space, err := store.GetSpaceByEmail(ctx, domain.NormalizeAddress(email))
	if errors.Is(err, storage.ErrSpaceNotFound) {
		return nil, nil
	}
	return space, err
}

// GetByID 根据 ID 查找空间，不存在时返回 (nil, nil)
func (s *SpaceService) GetByID(ctx context.Context, id int64) (*domain.EmailSpace, error) {
	store, err := s.stores.Store()
	if err != nil {
		return nil, err
	}

	space, err := store.GetSpaceByID(ctx, id)
	if errors.Is(err, storage.ErrSpaceNotFound) {
		return nil, nil
	}
	return space, err
}

// ListActive 返回保留期内仍有活动的激活空间，按创建时间升序
func (s *SpaceService) ListActive(ctx context.Context) ([]domain.EmailSpace, error) {
	store, err := s.stores.Store()
	if err != nil {
		return nil, err
	}
	return store.ListActiveSpaces(ctx, s.cutoff())
}

// ListAll 返回全部空间，按创建时间升序
func (s *SpaceService) ListAll(ctx context.Context) ([]domain.EmailSpace, error) {
	store, err := s.stores.Store()
	if err != nil {
		return nil, err
	}
	return store.ListSpaces(ctx)
}

// Touch 将空间的最后活动时间更新为当前时间
func (s *SpaceService) Touch(ctx context.Context, id int64) error {
	store, err := s.stores.Store()
	if err != nil {
		return err
	}
	return store.TouchSpace(ctx, id, s.now())
}

// DeactivateStale 停用超过保留期没有活动的空间，返回本次停用的数量
func (s *SpaceService) DeactivateStale(ctx context.Context) (int64, error) {
	store, err := s.stores.Store()
	if err != nil {
		return 0, err
	}
	return store.DeactivateSpaces(ctx, s.cutoff())
}

func (s *SpaceService) cutoff() time.Time {
	return s.now().Add(-s.retention)
}
