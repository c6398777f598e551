package storage

import (
	"context"
	"errors"
	"time"

	"honeypoty/backend/internal/domain"
)

var (
	// ErrNotInitialized 存储网关尚未初始化
	ErrNotInitialized = errors.New("storage gateway not initialized: call Init first")
	// ErrAlreadyInitialized 存储网关重复初始化
	ErrAlreadyInitialized = errors.New("storage gateway already initialized")
	// ErrSpaceNotFound 空间不存在
	ErrSpaceNotFound = errors.New("space not found")
	// ErrDuplicateSpace 邮箱地址违反唯一约束
	ErrDuplicateSpace = errors.New("space email already exists")
)

// SpaceRepository 定义邮箱空间数据存取操作。
//
// 时间窗口由调用方计算后传入，存储层不内置保留期限。
type SpaceRepository interface {
	// InsertSpace 插入新空间并回填 ID；地址重复时返回 ErrDuplicateSpace
	InsertSpace(ctx context.Context, space *domain.EmailSpace) error
	GetSpaceByEmail(ctx context.Context, email string) (*domain.EmailSpace, error)
	GetSpaceByID(ctx context.Context, id int64) (*domain.EmailSpace, error)
	ListActiveSpaces(ctx context.Context, since time.Time) ([]domain.EmailSpace, error)
	ListSpaces(ctx context.Context) ([]domain.EmailSpace, error)
	TouchSpace(ctx context.Context, id int64, at time.Time) error
	// DeactivateSpaces 单条批量更新，返回被停用的行数
	DeactivateSpaces(ctx context.Context, before time.Time) (int64, error)
}

// EmailRepository 定义邮件数据存取操作。
type EmailRepository interface {
	InsertEmail(ctx context.Context, email *domain.Email) error
	ListEmailsBySpace(ctx context.Context, spaceID int64) ([]domain.Email, error)
	ListEmailsBySender(ctx context.Context, sender string) ([]domain.Email, error)
}

// Store 定义完整的存储接口。
type Store interface {
	SpaceRepository
	EmailRepository

	Close() error
	Health(ctx context.Context) error
}

// Provider 提供已初始化的存储实例
type Provider interface {
	Store() (Store, error)
}
