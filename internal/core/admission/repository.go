package admission

import "context"

// Repository は入社スナップショット永続化の抽象です。
type Repository interface {
	// Save は admission:{token} へスナップショットを上書き保存します。
	Save(ctx context.Context, snapshot *Snapshot) error
	// FindByToken はスナップショットを取得します。存在しない場合は ErrSnapshotNotFound を返します。
	FindByToken(ctx context.Context, token string) (*Snapshot, error)
}
