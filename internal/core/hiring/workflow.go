package hiring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
	"github.com/sirupsen/logrus"
)

// IDGenerator は ID やトークンを払い出します。
type IDGenerator func() string

const defaultProbationMonths = 3

// UseCase は採用ワークフローの公開インターフェースです。
type UseCase interface {
	CreateCase(ctx context.Context, in CreateCaseInput) (*Case, error)
	GetCase(ctx context.Context, in GetCaseInput) (*Case, error)
	ListCases(ctx context.Context, in ListCasesInput) ([]*Case, error)
	ToggleMedicalClearance(ctx context.Context, id string) (*Case, error)
	ToggleIntegration(ctx context.Context, id string) (*Case, error)
	CancelCase(ctx context.Context, id string) (*Case, error)
	Complete(ctx context.Context, c *Case) (*employee.Record, error)
	AdmissionLink(ctx context.Context, id string) (string, error)
	Sync(ctx context.Context) int
}

// Options は Workflow の依存関係です。Snapshots と Registry は必須です。
type Options struct {
	Snapshots     SnapshotReader
	Cache         CaseRepository
	Registry      Registrar
	Tx            TransactionManager
	NewID         IDGenerator
	NewToken      IDGenerator
	PortalBaseURL string
	Logger        logrus.FieldLogger
}

// Workflow は採用ケースの集合を保持し、入社スナップショットとの同期と入社完了を担います。
// すべての操作は内部ロックで直列化され、保持中の一覧は変更時に丸ごと差し替えられます。
type Workflow struct {
	mu      sync.Mutex
	cases   []*Case
	retired map[string]struct{}

	snapshots SnapshotReader
	cache     CaseRepository
	registry  Registrar
	tx        TransactionManager
	newID     IDGenerator
	newToken  IDGenerator
	baseURL   string
	logger    logrus.FieldLogger
}

// NewWorkflow は Workflow を生成します。
func NewWorkflow(opts Options) *Workflow {
	w := &Workflow{
		cases:     []*Case{},
		retired:   make(map[string]struct{}),
		snapshots: opts.Snapshots,
		cache:     opts.Cache,
		registry:  opts.Registry,
		tx:        opts.Tx,
		newID:     opts.NewID,
		newToken:  opts.NewToken,
		baseURL:   strings.TrimRight(opts.PortalBaseURL, "/"),
		logger:    opts.Logger,
	}
	if w.tx == nil {
		w.tx = noopTransactionManager{}
	}
	if w.newID == nil {
		w.newID = uuid.NewString
	}
	if w.newToken == nil {
		w.newToken = uuid.NewString
	}
	if w.logger == nil {
		w.logger = discardLogger()
	}
	return w
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// CreateCaseInput は採用ケース作成時の入力です。
type CreateCaseInput struct {
	CandidateName    string
	Role             string
	StartDate        time.Time
	ProbationEndDate *time.Time
	Token            string
}

// GetCaseInput は採用ケース取得時の入力です。
type GetCaseInput struct {
	ID string
}

// ListCasesInput は一覧取得時の入力です。Query は候補者名または職種の部分一致です。
type ListCasesInput struct {
	Query  string
	Status *OverallStatus
}

// Load はキャッシュから採用ケースを復元します。キャッシュがなければ seeds で初期化して書き込みます。
// キャッシュの読み込み自体が失敗した場合、seeds は保持するだけで書き込みません。
func (w *Workflow) Load(ctx context.Context, seeds []*Case) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		source []*Case
		err    error
	)
	if w.cache != nil {
		source, err = w.cache.Load(ctx)
	} else {
		err = ErrCacheNotFound
	}

	fromSeeds, persistSeeds := false, false
	if err != nil {
		if errors.Is(err, ErrCacheNotFound) {
			persistSeeds = true
		} else {
			w.logger.WithError(err).Warn("hiring: load case cache, holding seeds without writing them")
		}
		source = seeds
		fromSeeds = true
	}

	cases := make([]*Case, 0, len(source))
	seen := make(map[string]struct{}, len(source))
	for _, c := range source {
		normalized, err := w.normalizeLoaded(c)
		if err != nil {
			w.logger.WithError(err).WithField("case_id", c.ID).Warn("hiring: skip invalid case")
			continue
		}
		if _, dup := seen[normalized.Token]; dup {
			w.logger.WithField("token", normalized.Token).Warn("hiring: skip case with duplicate token")
			continue
		}
		seen[normalized.Token] = struct{}{}
		cases = append(cases, normalized)
	}

	w.cases = cases
	if persistSeeds {
		w.persist(ctx, cases)
	}
	w.logger.WithFields(logrus.Fields{"cases": len(cases), "from_seeds": fromSeeds}).Info("hiring: cases loaded")
	return nil
}

// Cases は保持中の一覧を返します。返却値は共有されるため変更してはいけません。
func (w *Workflow) Cases() []*Case {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cases
}

// CreateCase は新しい採用ケースを PENDING の書類状況で作成します。
func (w *Workflow) CreateCase(ctx context.Context, in CreateCaseInput) (*Case, error) {
	name := strings.TrimSpace(in.CandidateName)
	if name == "" {
		return nil, ErrInvalidCandidateName
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		return nil, ErrInvalidRole
	}
	if in.StartDate.IsZero() {
		return nil, ErrInvalidStartDate
	}

	start := normalizeDate(in.StartDate)
	probation := start.AddDate(0, defaultProbationMonths, 0)
	if in.ProbationEndDate != nil && !in.ProbationEndDate.IsZero() {
		probation = normalizeDate(*in.ProbationEndDate)
	}
	if probation.Before(start) {
		return nil, ErrInvalidDateRange
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	token := strings.TrimSpace(in.Token)
	if token == "" {
		token = w.newToken()
	}
	if w.tokenTaken(token) {
		return nil, ErrTokenAlreadyExists
	}

	c := &Case{
		ID:                 w.newID(),
		CandidateName:      name,
		Role:               role,
		StartDate:          start,
		ProbationEndDate:   probation,
		DocumentsStatus:    DocumentsPending,
		DocumentsSubmitted: []string{},
		Token:              token,
		OverallStatus:      StatusInProgress,
	}

	next := make([]*Case, 0, len(w.cases)+1)
	next = append(next, w.cases...)
	next = append(next, c)
	w.cases = next
	w.persist(ctx, next)

	w.logger.WithFields(logrus.Fields{"case_id": c.ID, "token": c.Token}).Info("hiring: case created")
	return c, nil
}

// GetCase は採用ケースを取得します。
func (w *Workflow) GetCase(_ context.Context, in GetCaseInput) (*Case, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, ErrInvalidID
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.indexOf(id)
	if idx < 0 {
		return nil, ErrCaseNotFound
	}
	return w.cases[idx], nil
}

// ListCases は保持順に採用ケースを返します。
func (w *Workflow) ListCases(_ context.Context, in ListCasesInput) ([]*Case, error) {
	if in.Status != nil && !isValidOverallStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}

	w.mu.Lock()
	cases := w.cases
	w.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(in.Query))
	out := make([]*Case, 0, len(cases))
	for _, c := range cases {
		if in.Status != nil && c.OverallStatus != *in.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(c.CandidateName), query) &&
			!strings.Contains(strings.ToLower(c.Role), query) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ToggleMedicalClearance は健康診断 (ASO) 完了フラグを反転します。
func (w *Workflow) ToggleMedicalClearance(ctx context.Context, id string) (*Case, error) {
	return w.update(ctx, id, func(c *Case) error {
		c.MedicalClearanceDone = !c.MedicalClearanceDone
		return nil
	})
}

// ToggleIntegration は入社時研修完了フラグを反転します。
func (w *Workflow) ToggleIntegration(ctx context.Context, id string) (*Case, error) {
	return w.update(ctx, id, func(c *Case) error {
		c.IntegrationDone = !c.IntegrationDone
		return nil
	})
}

// CancelCase はケースを CANCELLED にします。ケースは一覧に残ります。
func (w *Workflow) CancelCase(ctx context.Context, id string) (*Case, error) {
	return w.update(ctx, id, func(c *Case) error {
		c.OverallStatus = StatusCancelled
		return nil
	})
}

// Sync はマージパスを一回実行し、変更されたケース数を返します。
func (w *Workflow) Sync(ctx context.Context) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, changed := MergePass(ctx, w.cases, w.snapshots, w.logger)
	if changed == 0 {
		return 0
	}

	w.cases = next
	w.persist(ctx, next)
	w.logger.WithField("changed", changed).Info("hiring: merged admission snapshots")
	return changed
}

// AdmissionSubmitted は入社ポータルからの送信通知を受け取り、対象ケースがあればマージパスを実行します。
func (w *Workflow) AdmissionSubmitted(ctx context.Context, token string) {
	w.mu.Lock()
	held := w.holdsToken(token)
	w.mu.Unlock()

	if !held {
		w.logger.WithField("token", token).Debug("hiring: admission submitted for unknown token")
		return
	}
	w.Sync(ctx)
}

// Complete は採用ケースを在籍社員レコードに変換し、ケースを一覧から取り除きます。
// すでに取り除かれたケースに対しては何も書き込まず ErrCaseNotFound を返します。
func (w *Workflow) Complete(ctx context.Context, c *Case) (*employee.Record, error) {
	if c == nil {
		return nil, ErrCaseNotFound
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.indexOf(c.ID)
	if idx < 0 {
		return nil, ErrCaseNotFound
	}

	current := w.cases[idx]
	if current.OverallStatus == StatusCancelled {
		return nil, ErrCaseCancelled
	}

	remaining := make([]*Case, 0, len(w.cases)-1)
	remaining = append(remaining, w.cases[:idx]...)
	remaining = append(remaining, w.cases[idx+1:]...)

	var record *employee.Record
	err := w.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		rec, err := w.registry.Admit(txCtx, employee.AdmitInput{
			Name:      current.CandidateName,
			Role:      current.Role,
			StartDate: current.StartDate,
			Documents: current.DocumentsSubmitted,
			BankInfo: employee.BankInfo{
				Name:    current.BankName,
				Agency:  current.BankAgency,
				Account: current.BankAccount,
			},
			TransportValue:     current.TransportValue,
			SourceHiringCaseID: current.ID,
		})
		if err != nil {
			return err
		}

		if w.cache != nil {
			if err := w.cache.Save(txCtx, remaining); err != nil {
				return fmt.Errorf("hiring: save case cache: %w", err)
			}
		}

		record = rec
		return nil
	})
	if errors.Is(err, employee.ErrAlreadyAdmitted) {
		// レジストリへの書き込みだけが先に成功していた場合は、そのレコードでケースの除去をやり直す。
		existing, findErr := w.registry.FindBySourceCase(ctx, current.ID)
		if findErr != nil {
			return nil, fmt.Errorf("hiring: resume completion: %w", errors.Join(err, findErr))
		}
		record = existing
		w.persist(ctx, remaining)
		err = nil
	}
	if err != nil {
		return nil, err
	}

	w.cases = remaining
	w.retired[current.Token] = struct{}{}

	w.logger.WithFields(logrus.Fields{
		"case_id":     current.ID,
		"employee_id": record.ID,
	}).Info("hiring: admission completed")
	return record, nil
}

// AdmissionLink はケースのトークンから入社ポータルのリンクを組み立てます。
func (w *Workflow) AdmissionLink(ctx context.Context, id string) (string, error) {
	c, err := w.GetCase(ctx, GetCaseInput{ID: id})
	if err != nil {
		return "", err
	}
	return w.baseURL + AdmissionPath(c.Token), nil
}

// AdmissionPath は /admission/{token} 形式のパスを返します。
func AdmissionPath(token string) string {
	return "/admission/" + url.PathEscape(token)
}

func (w *Workflow) update(ctx context.Context, id string, fn func(*Case) error) (*Case, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, ErrInvalidID
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.indexOf(trimmed)
	if idx < 0 {
		return nil, ErrCaseNotFound
	}

	updated := w.cases[idx].clone()
	if err := fn(updated); err != nil {
		return nil, err
	}

	next := make([]*Case, len(w.cases))
	copy(next, w.cases)
	next[idx] = updated
	w.cases = next
	w.persist(ctx, next)

	return updated, nil
}

func (w *Workflow) persist(ctx context.Context, cases []*Case) {
	if w.cache == nil {
		return
	}
	if err := w.cache.Save(ctx, cases); err != nil {
		w.logger.WithError(err).Warn("hiring: save case cache")
	}
}

func (w *Workflow) indexOf(id string) int {
	for i, c := range w.cases {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (w *Workflow) holdsToken(token string) bool {
	for _, c := range w.cases {
		if c.Token == token {
			return true
		}
	}
	return false
}

func (w *Workflow) tokenTaken(token string) bool {
	if _, ok := w.retired[token]; ok {
		return true
	}
	return w.holdsToken(token)
}

func (w *Workflow) normalizeLoaded(c *Case) (*Case, error) {
	if c == nil {
		return nil, ErrInvalidID
	}
	out := c.clone()
	out.CandidateName = strings.TrimSpace(out.CandidateName)
	if out.CandidateName == "" {
		return nil, ErrInvalidCandidateName
	}
	if strings.TrimSpace(out.ID) == "" {
		out.ID = w.newID()
	}
	if strings.TrimSpace(out.Token) == "" {
		out.Token = w.newToken()
	}
	if !isValidDocumentsStatus(out.DocumentsStatus) {
		out.DocumentsStatus = DocumentsPending
	}
	if !isValidOverallStatus(out.OverallStatus) {
		out.OverallStatus = StatusInProgress
	}
	if out.DocumentsSubmitted == nil {
		out.DocumentsSubmitted = []string{}
	}
	if !out.StartDate.IsZero() {
		out.StartDate = normalizeDate(out.StartDate)
		if out.ProbationEndDate.IsZero() {
			out.ProbationEndDate = out.StartDate.AddDate(0, defaultProbationMonths, 0)
		}
	}
	return out, nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
