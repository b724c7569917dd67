package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ogurasousui/facility-admission/internal/core/admission"
	"github.com/ogurasousui/facility-admission/internal/core/kv"
	"github.com/sirupsen/logrus"
)

// AdmissionRepository は admission:{token} キーにスナップショットを保存します。
type AdmissionRepository struct {
	store  kv.Store
	logger logrus.FieldLogger
}

// NewAdmissionRepository は AdmissionRepository を生成します。
func NewAdmissionRepository(store kv.Store, logger logrus.FieldLogger) *AdmissionRepository {
	return &AdmissionRepository{store: store, logger: loggerOrDefault(logger)}
}

// Save はスナップショットを上書き保存します。
func (r *AdmissionRepository) Save(ctx context.Context, snapshot *admission.Snapshot) error {
	raw, err := json.Marshal(encodeSnapshot(snapshot))
	if err != nil {
		return fmt.Errorf("kvstore: encode snapshot: %w", err)
	}
	return r.store.Put(ctx, kv.AdmissionKey(snapshot.Token), raw)
}

// FindByToken はスナップショットを取得します。値が壊れている場合は存在しないものとして扱います。
func (r *AdmissionRepository) FindByToken(ctx context.Context, token string) (*admission.Snapshot, error) {
	key := kv.AdmissionKey(token)
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, admission.ErrSnapshotNotFound
	}

	var decoded snapshotJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("kvstore: malformed admission snapshot")
		return nil, admission.ErrSnapshotNotFound
	}

	snapshot := decodeSnapshot(decoded)
	if snapshot.Token == "" {
		snapshot.Token = token
	}
	return snapshot, nil
}
