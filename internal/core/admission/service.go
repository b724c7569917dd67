package admission

import (
	"context"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// SubmissionListener はスナップショットの書き込み完了を受け取ります。
type SubmissionListener interface {
	AdmissionSubmitted(ctx context.Context, token string)
}

// UseCase は入社ポータルのユースケースです。
type UseCase interface {
	ValidateStep(ctx context.Context, step Step, form Form) error
	Submit(ctx context.Context, form Form) (*Snapshot, error)
	GetSnapshot(ctx context.Context, token string) (*Snapshot, error)
}

// Service は入社スナップショットの作成を担います。
type Service struct {
	repo      Repository
	clock     Clock
	listeners []SubmissionListener
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, listeners ...SubmissionListener) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock, listeners: listeners}
}

// ValidateStep は指定段階の必須項目を検証します。前の段階へ進むための判定に使います。
func (s *Service) ValidateStep(_ context.Context, step Step, form Form) error {
	return validateStep(step, form.normalized())
}

// Submit はフォームを検証し、スナップショットを admission:{token} に書き込みます。
// 同じトークンで再送信された場合は上書きされます。
func (s *Service) Submit(ctx context.Context, form Form) (*Snapshot, error) {
	normalized := form.normalized()
	if normalized.Token == "" {
		return nil, ErrInvalidToken
	}

	for _, step := range []Step{StepPersonal, StepBanking, StepDocuments} {
		if err := validateStep(step, normalized); err != nil {
			return nil, err
		}
	}

	docs := buildDocuments(normalized.Documents)
	snapshot := &Snapshot{
		Token:             normalized.Token,
		FullName:          normalized.Personal.FullName,
		CPF:               normalized.Personal.CPF,
		BankName:          normalized.Banking.BankName,
		BankAgency:        normalized.Banking.BankAgency,
		BankAccount:       normalized.Banking.BankAccount,
		TransportValue:    normalized.Personal.TransportValue,
		UploadedDocuments: docs,
		DocumentCount:     len(docs),
		SubmittedAt:       s.clock.Now(),
	}

	if err := s.repo.Save(ctx, snapshot); err != nil {
		return nil, err
	}

	for _, l := range s.listeners {
		l.AdmissionSubmitted(ctx, snapshot.Token)
	}

	return snapshot, nil
}

// GetSnapshot は送信済みスナップショットを取得します。
func (s *Service) GetSnapshot(ctx context.Context, token string) (*Snapshot, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, ErrInvalidToken
	}
	return s.repo.FindByToken(ctx, trimmed)
}
