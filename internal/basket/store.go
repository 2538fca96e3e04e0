package basket

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"app/internal/domain/model"
)

// 永続化先のキーバリューストア。
// トランザクション保証は要求しない（last-write-wins）。
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Del(ctx context.Context, key string) error
}

// Store は1セッション分のバスケット。
// メモリ上の状態が正で、KVへの書き込みは毎回の後追い（write-through）。
// 書き込み失敗はログに残して握りつぶす。
type Store struct {
	mu  sync.Mutex
	key string
	kv  KV
	log *zap.Logger

	//表示用に挿入順を保持しつつ、所属判定はハッシュセットで行う
	ids   []model.ItemID
	index map[string]struct{}

	//変更のたびに進む世代番号。照合結果の鮮度判定に使う。
	gen uint64
}

// Open はKVからレコードを読み込んでStoreを作る。
// レコード無し→空。壊れたレコード→ログを残して破棄し空で開始。
func Open(ctx context.Context, kv KV, key string, log *zap.Logger) *Store {
	s := &Store{
		key:   key,
		kv:    kv,
		log:   log,
		ids:   []model.ItemID{},
		index: map[string]struct{}{},
	}

	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		//読み出し失敗は空で開始（このセッション中はメモリが正）
		log.Warn("basket load failed", zap.String("key", key), zap.Error(err))
		return s
	}
	if !ok {
		return s
	}

	ids, migrated, err := decodeRecord(raw)
	if err != nil {
		//壊れたレコードはリトライせず破棄する
		log.Warn("discarding malformed basket record", zap.String("key", key), zap.Error(err))
		if delErr := kv.Del(ctx, key); delErr != nil {
			log.Warn("basket record delete failed", zap.String("key", key), zap.Error(delErr))
		}
		return s
	}

	for _, id := range ids {
		if _, dup := s.index[id.Key()]; dup {
			continue
		}
		s.ids = append(s.ids, id)
		s.index[id.Key()] = struct{}{}
	}

	//旧形式はこの場で現行フォーマットへ書き直す
	if migrated {
		s.persistLocked(ctx)
	}

	return s
}

// Add はIDを追加する。既に入っていれば何もしない（冪等）。
func (s *Store) Add(ctx context.Context, id model.ItemID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id.Key()]; ok {
		return false
	}

	s.ids = append(s.ids, append(model.ItemID(nil), id...))
	s.index[id.Key()] = struct{}{}
	s.gen++
	s.persistLocked(ctx)
	return true
}

// Remove はIDを取り除く。入っていなければ何もしない（冪等）。
func (s *Store) Remove(ctx context.Context, id model.ItemID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id.Key()]; !ok {
		return false
	}

	delete(s.index, id.Key())
	kept := s.ids[:0]
	for _, v := range s.ids {
		if v.Key() != id.Key() {
			kept = append(kept, v)
		}
	}
	s.ids = kept
	s.gen++
	s.persistLocked(ctx)
	return true
}

// Clear は全件を破棄し、KVのレコードも消す。
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = []model.ItemID{}
	s.index = map[string]struct{}{}
	s.gen++

	if err := s.kv.Del(ctx, s.key); err != nil {
		s.log.Warn("basket record delete failed", zap.String("key", s.key), zap.Error(err))
	}
}

// Contains はバイト値での所属判定。
func (s *Store) Contains(id model.ItemID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.index[id.Key()]
	return ok
}

// Count は現在の件数（バッジ表示用）。
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ids)
}

// Items は挿入順のIDスナップショットを返す。
func (s *Store) Items() []model.ItemID {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ItemID, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, append(model.ItemID(nil), id...))
	}
	return out
}

// Generation は現在の世代番号を返す。
// 照合開始時に控えておき、終了時に一致しなければ結果を捨てる。
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gen
}

// 呼び出し側でmuを握っていること
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := encodeRecord(s.ids)
	if err != nil {
		s.log.Warn("basket encode failed", zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		//永続化失敗でもメモリ状態は正として続行する
		s.log.Warn("basket persist failed", zap.String("key", s.key), zap.Error(err))
	}
}
