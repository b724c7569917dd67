package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
)

const dateLayout = "2006-01-02"

type employeeRow struct {
	ID                 string `csv:"id"`
	Name               string `csv:"name"`
	Role               string `csv:"role"`
	StartDate          string `csv:"start_date"`
	Status             string `csv:"employment_status"`
	Documents          string `csv:"documents"`
	BankName           string `csv:"bank_name"`
	BankAgency         string `csv:"bank_agency"`
	BankAccount        string `csv:"bank_account"`
	TransportAllowance string `csv:"transport_allowance"`
	SourceHiringCaseID string `csv:"source_hiring_case_id"`
}

// WriteEmployeesCSV は在籍社員の一覧を CSV として w に書き込みます。
// 交通費は小数点以下 2 桁に正規化し、解釈できない値は入力のまま出力します。
func WriteEmployeesCSV(w io.Writer, records []*employee.Record) error {
	rows := make([]*employeeRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toRow(rec))
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return nil
}

func toRow(rec *employee.Record) *employeeRow {
	allowance := rec.TransportValue
	if value, ok := rec.TransportAllowance(); ok {
		allowance = value.StringFixed(2)
	}

	start := ""
	if !rec.StartDate.IsZero() {
		start = rec.StartDate.Format(dateLayout)
	}

	return &employeeRow{
		ID:                 rec.ID,
		Name:               rec.Name,
		Role:               rec.Role,
		StartDate:          start,
		Status:             string(rec.Status),
		Documents:          strings.Join(rec.Documents, "; "),
		BankName:           rec.BankInfo.Name,
		BankAgency:         rec.BankInfo.Agency,
		BankAccount:        rec.BankInfo.Account,
		TransportAllowance: allowance,
		SourceHiringCaseID: rec.SourceHiringCaseID,
	}
}
