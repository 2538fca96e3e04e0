package basket

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// 保存キーの接頭辞。所有者IDを連結する。
const keyPrefix = "folk-market-basket:"

// Manager は所有者ごとのStoreをプロセス内で1つずつ保持する。
// Storeは最初のアクセス時にKVから読み込まれ、以後そのセッションの正となる。
type Manager struct {
	mu     sync.Mutex
	kv     KV
	log    *zap.Logger
	stores map[string]*Store
}

func NewManager(kv KV, log *zap.Logger) *Manager {
	return &Manager{
		kv:     kv,
		log:    log,
		stores: map[string]*Store{},
	}
}

// ForOwner は所有者のStoreを返す（無ければ読み込んで作る）。
func (m *Manager) ForOwner(ctx context.Context, owner string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[owner]; ok {
		return s
	}

	s := Open(ctx, m.kv, keyPrefix+owner, m.log)
	m.stores[owner] = s
	return s
}
