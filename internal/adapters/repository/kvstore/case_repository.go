package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ogurasousui/facility-admission/internal/core/hiring"
	"github.com/ogurasousui/facility-admission/internal/core/kv"
	"github.com/sirupsen/logrus"
)

// CaseRepository は hiring_cases キーに採用ケース一覧をキャッシュします。
type CaseRepository struct {
	store  kv.Store
	logger logrus.FieldLogger
}

// NewCaseRepository は CaseRepository を生成します。
func NewCaseRepository(store kv.Store, logger logrus.FieldLogger) *CaseRepository {
	return &CaseRepository{store: store, logger: loggerOrDefault(logger)}
}

// Load はキャッシュを読み込みます。キーがない場合や値が壊れている場合は hiring.ErrCacheNotFound を返します。
func (r *CaseRepository) Load(ctx context.Context) ([]*hiring.Case, error) {
	raw, ok, err := r.store.Get(ctx, kv.HiringCasesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, hiring.ErrCacheNotFound
	}

	var decoded []caseJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		r.logger.WithError(err).WithField("key", kv.HiringCasesKey).Warn("kvstore: malformed hiring case cache")
		return nil, hiring.ErrCacheNotFound
	}

	cases := make([]*hiring.Case, 0, len(decoded))
	for _, c := range decoded {
		cases = append(cases, decodeCase(c))
	}
	return cases, nil
}

// Save は一覧全体を書き戻します。
func (r *CaseRepository) Save(ctx context.Context, cases []*hiring.Case) error {
	encoded := make([]caseJSON, 0, len(cases))
	for _, c := range cases {
		encoded = append(encoded, encodeCase(c))
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("kvstore: encode hiring cases: %w", err)
	}
	return r.store.Put(ctx, kv.HiringCasesKey, raw)
}
