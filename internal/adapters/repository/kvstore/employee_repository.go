package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ogurasousui/facility-admission/internal/core/employee"
	"github.com/ogurasousui/facility-admission/internal/core/kv"
	"github.com/ogurasousui/facility-admission/internal/platform/logging"
	"github.com/sirupsen/logrus"
)

// EmployeeRepository は active_employees キーに在籍社員レジストリを保存します。
type EmployeeRepository struct {
	store  kv.Store
	logger logrus.FieldLogger
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(store kv.Store, logger logrus.FieldLogger) *EmployeeRepository {
	return &EmployeeRepository{store: store, logger: loggerOrDefault(logger)}
}

// List はレジストリを読み込みます。キーがない場合や値が壊れている場合は空の一覧を返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Record, error) {
	raw, ok, err := r.store.Get(ctx, kv.ActiveEmployeesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*employee.Record{}, nil
	}

	var decoded []employeeJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		r.logger.WithError(err).WithField("key", kv.ActiveEmployeesKey).Warn("kvstore: malformed employee registry, starting empty")
		return []*employee.Record{}, nil
	}

	records := make([]*employee.Record, 0, len(decoded))
	for _, rec := range decoded {
		records = append(records, decodeEmployee(rec))
	}
	return records, nil
}

// Initialized は active_employees キーが存在するかを返します。値の破損は問いません。
func (r *EmployeeRepository) Initialized(ctx context.Context) (bool, error) {
	_, ok, err := r.store.Get(ctx, kv.ActiveEmployeesKey)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReplaceAll はレジストリ全体を書き戻します。
func (r *EmployeeRepository) ReplaceAll(ctx context.Context, records []*employee.Record) error {
	encoded := make([]employeeJSON, 0, len(records))
	for _, rec := range records {
		encoded = append(encoded, encodeEmployee(rec))
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("kvstore: encode employees: %w", err)
	}
	return r.store.Put(ctx, kv.ActiveEmployeesKey, raw)
}

func loggerOrDefault(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	return logging.Discard()
}
