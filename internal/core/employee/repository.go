package employee

import "context"

// Repository は在籍社員レジストリ永続化の抽象です。
// レジストリは一つのコレクションとして読み書きされます。
type Repository interface {
	// List は保存済みのレコードを返します。破損した値は空のコレクションとして扱います。
	List(ctx context.Context) ([]*Record, error)
	// Initialized はレジストリが一度でも書き込まれているかを返します。
	Initialized(ctx context.Context) (bool, error)
	// ReplaceAll はコレクション全体を書き戻します。
	ReplaceAll(ctx context.Context, records []*Record) error
}
