package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status は在籍社員の状態を表します。
type Status string

const (
	StatusActive Status = "ACTIVE"
)

// BankInfo は給与振込口座です。
type BankInfo struct {
	Name    string
	Agency  string
	Account string
}

// Record は入社完了によって作成される在籍社員レコードです。作成後は変更されません。
type Record struct {
	ID                 string
	Name               string
	Role               string
	StartDate          time.Time
	Status             Status
	Documents          []string
	BankInfo           BankInfo
	TransportValue     string
	SourceHiringCaseID string
}

// TransportAllowance は日額交通費を数値として返します。未入力または解釈できない場合 ok は false です。
func (r *Record) TransportAllowance() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(r.TransportValue)
	if raw == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}
