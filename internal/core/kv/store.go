package kv

import "context"

// Store は名前空間付きキーで値を保持する共有ストアの抽象です。
// 複数キーにまたがる原子性やロックは提供せず、同一キーへの書き込みは後勝ちです。
type Store interface {
	// Put はキーの値を無条件に上書きします。
	Put(ctx context.Context, key string, value []byte) error
	// Get は最後に書き込まれた値を返します。キーが存在しない場合 ok は false です。
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Remove はキーを削除します。存在しないキーの削除はエラーになりません。
	Remove(ctx context.Context, key string) error
}

const (
	// HiringCasesKey は採用ケース一覧のキャッシュキーです。
	HiringCasesKey = "hiring_cases"
	// ActiveEmployeesKey は在籍社員レジストリのキーです。
	ActiveEmployeesKey = "active_employees"

	admissionKeyPrefix = "admission:"
)

// AdmissionKey は入社スナップショットのキー admission:{token} を返します。
func AdmissionKey(token string) string {
	return admissionKeyPrefix + token
}
