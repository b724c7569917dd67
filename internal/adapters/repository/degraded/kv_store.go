package degraded

import (
	"context"

	"github.com/ogurasousui/facility-admission/internal/core/kv"
	"github.com/ogurasousui/facility-admission/internal/platform/logging"
	"github.com/sirupsen/logrus"
)

// KVStore はストア障害時にセッションを継続させるラッパーです。
// 読み込みエラーは「値なし」として扱い、書き込みエラーは警告を記録して破棄します。
type KVStore struct {
	next        kv.Store
	logger      logrus.FieldLogger
	bypass      func(context.Context) bool
	strictReads map[string]struct{}
}

// Option は KVStore の挙動を調整します。
type Option func(*KVStore)

// WithBypass は fn が true を返すコンテキストでエラーを握りつぶさずにそのまま返します。
// トランザクション内の失敗をトランザクション管理側へ伝えるために使います。
func WithBypass(fn func(context.Context) bool) Option {
	return func(s *KVStore) {
		s.bypass = fn
	}
}

// WithStrictReads は指定キーの読み込みエラーを「値なし」に変換せずに返します。
func WithStrictReads(keys ...string) Option {
	return func(s *KVStore) {
		for _, k := range keys {
			s.strictReads[k] = struct{}{}
		}
	}
}

// NewKVStore は next をラップした KVStore を生成します。
func NewKVStore(next kv.Store, logger logrus.FieldLogger, opts ...Option) *KVStore {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &KVStore{next: next, logger: logger, strictReads: make(map[string]struct{})}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put は next へ書き込みます。失敗しても nil を返します。
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	err := s.next.Put(ctx, key, value)
	if err == nil || s.bypassed(ctx) {
		return err
	}
	s.logger.WithError(err).WithField("key", key).Warn("store: write dropped")
	return nil
}

// Get は next から読み込みます。失敗した場合はキーが存在しないものとして扱います。
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := s.next.Get(ctx, key)
	if err == nil {
		return value, ok, nil
	}
	if _, strict := s.strictReads[key]; strict || s.bypassed(ctx) {
		return nil, false, err
	}
	s.logger.WithError(err).WithField("key", key).Warn("store: read failed, treating as absent")
	return nil, false, nil
}

// Remove は next からキーを削除します。失敗しても nil を返します。
func (s *KVStore) Remove(ctx context.Context, key string) error {
	err := s.next.Remove(ctx, key)
	if err == nil || s.bypassed(ctx) {
		return err
	}
	s.logger.WithError(err).WithField("key", key).Warn("store: remove dropped")
	return nil
}

func (s *KVStore) bypassed(ctx context.Context) bool {
	return s.bypass != nil && s.bypass(ctx)
}
