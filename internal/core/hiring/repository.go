package hiring

import (
	"context"

	"github.com/ogurasousui/facility-admission/internal/core/admission"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
)

// CaseRepository は保持中の採用ケース一覧をキャッシュします。
type CaseRepository interface {
	// Load はキャッシュを読み込みます。存在しない場合は ErrCacheNotFound を返します。
	Load(ctx context.Context) ([]*Case, error)
	Save(ctx context.Context, cases []*Case) error
}

// SnapshotReader は入社スナップショットを参照します。マージ処理は書き込みを行いません。
type SnapshotReader interface {
	FindByToken(ctx context.Context, token string) (*admission.Snapshot, error)
}

// Registrar は在籍社員レジストリへの登録を行います。
type Registrar interface {
	Admit(ctx context.Context, in employee.AdmitInput) (*employee.Record, error)
	// FindBySourceCase は採用ケースから作成済みのレコードを返します。なければ employee.ErrEmployeeNotFound です。
	FindBySourceCase(ctx context.Context, caseID string) (*employee.Record, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}
