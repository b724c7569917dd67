package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator は新しいレコード ID を払い出します。
type IDGenerator func() string

// Service は在籍社員レジストリのユースケースをまとめます。
type Service struct {
	repo  Repository
	newID IDGenerator
}

// UseCase は在籍社員ユースケースの公開インターフェースです。
type UseCase interface {
	Admit(ctx context.Context, in AdmitInput) (*Record, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Record, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*Record, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, newID IDGenerator) *Service {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{repo: repo, newID: newID}
}

// AdmitInput は採用ケースから在籍社員を作成する際の入力です。
type AdmitInput struct {
	Name               string
	Role               string
	StartDate          time.Time
	Documents          []string
	BankInfo           BankInfo
	TransportValue     string
	SourceHiringCaseID string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ListEmployeesInput は一覧取得時の入力です。Query は氏名または職種の部分一致です。
type ListEmployeesInput struct {
	Query string
}

// Admit はレジストリを読み込み、新しいレコードを追加して書き戻します。
// 同じ採用ケースからの二重登録は ErrAlreadyAdmitted になります。
func (s *Service) Admit(ctx context.Context, in AdmitInput) (*Record, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	sourceID := strings.TrimSpace(in.SourceHiringCaseID)
	if sourceID == "" {
		return nil, ErrInvalidSourceCaseID
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee: list registry: %w", err)
	}

	for _, rec := range existing {
		if rec.SourceHiringCaseID == sourceID {
			return nil, ErrAlreadyAdmitted
		}
	}

	rec := &Record{
		ID:                 s.newID(),
		Name:               name,
		Role:               strings.TrimSpace(in.Role),
		StartDate:          in.StartDate,
		Status:             StatusActive,
		Documents:          cloneStrings(in.Documents),
		BankInfo:           in.BankInfo,
		TransportValue:     in.TransportValue,
		SourceHiringCaseID: sourceID,
	}

	updated := make([]*Record, 0, len(existing)+1)
	updated = append(updated, existing...)
	updated = append(updated, rec)

	if err := s.repo.ReplaceAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("employee: write registry: %w", err)
	}

	return rec, nil
}

// Seed はレジストリがまだ存在しない場合に限り records で初期化します。書き込んだ場合は true を返します。
func (s *Service) Seed(ctx context.Context, records []*Record) (bool, error) {
	initialized, err := s.repo.Initialized(ctx)
	if err != nil {
		return false, fmt.Errorf("employee: check registry: %w", err)
	}
	if initialized {
		return false, nil
	}

	seeded := make([]*Record, 0, len(records))
	for _, in := range records {
		if in == nil {
			continue
		}
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return false, ErrInvalidName
		}
		rec := *in
		rec.Name = name
		if strings.TrimSpace(rec.ID) == "" {
			rec.ID = s.newID()
		}
		if rec.Status == "" {
			rec.Status = StatusActive
		}
		rec.Documents = cloneStrings(in.Documents)
		seeded = append(seeded, &rec)
	}

	if err := s.repo.ReplaceAll(ctx, seeded); err != nil {
		return false, fmt.Errorf("employee: write registry: %w", err)
	}
	return true, nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Record, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, ErrEmployeeNotFound
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, ErrEmployeeNotFound
}

// FindBySourceCase は採用ケース ID から登録済みのレコードを探します。
func (s *Service) FindBySourceCase(ctx context.Context, caseID string) (*Record, error) {
	sourceID := strings.TrimSpace(caseID)
	if sourceID == "" {
		return nil, ErrInvalidSourceCaseID
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.SourceHiringCaseID == sourceID {
			return rec, nil
		}
	}
	return nil, ErrEmployeeNotFound
}

// ListEmployees は在籍社員の一覧を返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*Record, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(in.Query))
	if query == "" {
		return records, nil
	}

	filtered := make([]*Record, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Name), query) || strings.Contains(strings.ToLower(rec.Role), query) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
