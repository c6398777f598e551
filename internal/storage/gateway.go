package storage

import (
	"context"
	"sync"
)

// Gateway 持有进程内唯一的共享连接池。
//
// 必须在任何查询之前调用 Init；未初始化时所有访问都返回 ErrNotInitialized，
// 不会隐式创建新的连接池。
type Gateway struct {
	mu    sync.RWMutex
	store Store
}

// NewGateway 创建未初始化的网关
func NewGateway() *Gateway {
	return &Gateway{}
}

// Init 绑定存储实例，只允许调用一次
func (g *Gateway) Init(store Store) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store != nil {
		return ErrAlreadyInitialized
	}
	g.store = store
	return nil
}

// Store 返回已初始化的存储
func (g *Gateway) Store() (Store, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.store == nil {
		return nil, ErrNotInitialized
	}
	return g.store, nil
}

// Health 检查底层存储连接
func (g *Gateway) Health(ctx context.Context) error {
	store, err := g.Store()
	if err != nil {
		return err
	}
	return store.Health(ctx)
}

// Close 关闭连接池并恢复为未初始化状态
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store == nil {
		return nil
	}
	err := g.store.Close()
	g.store = nil
	return err
}

var defaultGateway = NewGateway()

// Default 返回进程级网关
func Default() *Gateway {
	return defaultGateway
}

// Init 初始化进程级网关
func Init(store Store) error {
	return defaultGateway.Init(store)
}
