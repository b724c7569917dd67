package hiring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/facility-admission/internal/core/employee"
)

type workflowFixture struct {
	wf        *Workflow
	snapshots *fakeSnapshots
	cache     *fakeCache
	registry  *fakeRegistryRepo
	tx        *recordingTx
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	f := &workflowFixture{
		snapshots: newFakeSnapshots(),
		cache:     &fakeCache{},
		registry:  &fakeRegistryRepo{},
		tx:        &recordingTx{},
	}
	f.wf = NewWorkflow(Options{
		Snapshots:     f.snapshots,
		Cache:         f.cache,
		Registry:      employee.NewService(f.registry, sequence("emp")),
		Tx:            f.tx,
		NewID:         sequence("case"),
		NewToken:      sequence("tok"),
		PortalBaseURL: "https://rh.example.com/",
	})
	return f
}

func (f *workflowFixture) create(t *testing.T, name, token string) *Case {
	t.Helper()

	c, err := f.wf.CreateCase(context.Background(), CreateCaseInput{
		CandidateName: name,
		Role:          "Operador de Máquina",
		StartDate:     time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
		Token:         token,
	})
	if err != nil {
		t.Fatalf("CreateCase returned error: %v", err)
	}
	return c
}

func TestWorkflow_CreateCase_Defaults(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, " Marcos Oliveira ", "")

	if c.ID != "case-1" || c.Token != "tok-1" {
		t.Fatalf("expected generated id and token, got %s %s", c.ID, c.Token)
	}
	if c.DocumentsStatus != DocumentsPending || c.OverallStatus != StatusInProgress {
		t.Fatalf("unexpected initial statuses: %s %s", c.DocumentsStatus, c.OverallStatus)
	}
	if !c.StartDate.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected normalized start date, got %v", c.StartDate)
	}
	if !c.ProbationEndDate.Equal(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected three month probation, got %v", c.ProbationEndDate)
	}
	if f.cache.saves != 1 || len(f.cache.cases) != 1 {
		t.Fatalf("expected case cache to be written")
	}
}

func TestWorkflow_CreateCase_Validation(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)

	tests := []struct {
		name string
		in   CreateCaseInput
		want error
	}{
		{name: "missing name", in: CreateCaseInput{Role: "r", StartDate: start}, want: ErrInvalidCandidateName},
		{name: "missing role", in: CreateCaseInput{CandidateName: "n", StartDate: start}, want: ErrInvalidRole},
		{name: "missing start", in: CreateCaseInput{CandidateName: "n", Role: "r"}, want: ErrInvalidStartDate},
		{name: "probation before start", in: CreateCaseInput{CandidateName: "n", Role: "r", StartDate: start, ProbationEndDate: &before}, want: ErrInvalidDateRange},
	}

	for _, tc := range tests {
		if _, err := f.wf.CreateCase(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestWorkflow_CreateCase_DuplicateToken(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	f.create(t, "Marcos", "marcos-123")

	_, err := f.wf.CreateCase(context.Background(), CreateCaseInput{
		CandidateName: "Other",
		Role:          "r",
		StartDate:     time.Now(),
		Token:         "marcos-123",
	})
	if !errors.Is(err, ErrTokenAlreadyExists) {
		t.Fatalf("expected ErrTokenAlreadyExists, got %v", err)
	}
}

func TestWorkflow_Sync_TwoThenFiveDocuments(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "Candidate", "T")

	f.snapshots.put(snapshotWithDocs("T", "Ana Silva", 2))
	if changed := f.wf.Sync(context.Background()); changed != 1 {
		t.Fatalf("expected 1 change, got %d", changed)
	}

	got, err := f.wf.GetCase(context.Background(), GetCaseInput{ID: c.ID})
	if err != nil {
		t.Fatalf("GetCase: %v", err)
	}
	if got.DocumentsStatus != DocumentsPartial || len(got.DocumentsSubmitted) != 2 {
		t.Fatalf("expected PARTIAL with 2 documents, got %s %v", got.DocumentsStatus, got.DocumentsSubmitted)
	}
	if got.BankName != "Nubank" || got.TransportValue != "10.00" {
		t.Fatalf("expected banking data merged, got %+v", got)
	}

	f.snapshots.put(snapshotWithDocs("T", "Ana Silva Souza", 5))
	f.wf.Sync(context.Background())

	got, _ = f.wf.GetCase(context.Background(), GetCaseInput{ID: c.ID})
	if got.DocumentsStatus != DocumentsComplete || len(got.DocumentsSubmitted) != 5 {
		t.Fatalf("expected COMPLETE with 5 documents, got %s %v", got.DocumentsStatus, got.DocumentsSubmitted)
	}
	if got.CandidateName != "Ana Silva Souza" {
		t.Fatalf("expected latest name, got %q", got.CandidateName)
	}
}

func TestWorkflow_Sync_NoOpStability(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	f.create(t, "A", "a")
	f.create(t, "B", "b")
	f.snapshots.put(snapshotWithDocs("a", "Ana", 3))

	f.wf.Sync(context.Background())
	first := f.wf.Cases()
	savesAfterFirst := f.cache.saves

	if changed := f.wf.Sync(context.Background()); changed != 0 {
		t.Fatalf("expected second pass to change nothing, got %d", changed)
	}
	second := f.wf.Cases()

	if len(first) != len(second) || &first[0] != &second[0] {
		t.Fatalf("collection must not be replaced when nothing changed")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("case %d was replaced by a no-op pass", i)
		}
	}
	if f.cache.saves != savesAfterFirst {
		t.Fatalf("no-op pass must not rewrite the cache")
	}
}

func TestWorkflow_Sync_IsolatesOtherTokens(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	f.create(t, "A", "a")
	f.create(t, "B", "b")
	before := f.wf.Cases()
	untouched := before[1]

	f.snapshots.put(snapshotWithDocs("a", "Ana", 5))
	f.wf.Sync(context.Background())

	after := f.wf.Cases()
	if after[1] != untouched {
		t.Fatalf("case for another token must keep its identity")
	}
	if after[1].DocumentsStatus != DocumentsPending || after[1].CandidateName != "B" {
		t.Fatalf("case for another token was mutated: %+v", after[1])
	}
	if after[0].DocumentsStatus != DocumentsComplete {
		t.Fatalf("expected matching case to complete, got %s", after[0].DocumentsStatus)
	}
}

func TestWorkflow_Sync_Monotonic(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "A", "a")

	f.snapshots.put(snapshotWithDocs("a", "Ana", 5))
	for i := 0; i < 3; i++ {
		f.wf.Sync(context.Background())
	}

	f.snapshots.put(snapshotWithDocs("a", "Ana", 0))
	for i := 0; i < 3; i++ {
		f.wf.Sync(context.Background())
		got, _ := f.wf.GetCase(context.Background(), GetCaseInput{ID: c.ID})
		if got.DocumentsStatus != DocumentsComplete {
			t.Fatalf("pass %d downgraded COMPLETE to %s", i, got.DocumentsStatus)
		}
	}
}

func TestWorkflow_Toggles(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "A", "a")

	once, err := f.wf.ToggleMedicalClearance(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("ToggleMedicalClearance: %v", err)
	}
	if !once.MedicalClearanceDone {
		t.Fatalf("expected medical clearance to be done")
	}
	twice, err := f.wf.ToggleMedicalClearance(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("ToggleMedicalClearance: %v", err)
	}
	if twice.MedicalClearanceDone != c.MedicalClearanceDone {
		t.Fatalf("two toggles must restore the original value")
	}

	integrated, err := f.wf.ToggleIntegration(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("ToggleIntegration: %v", err)
	}
	if !integrated.IntegrationDone || integrated.MedicalClearanceDone {
		t.Fatalf("toggles must be independent: %+v", integrated)
	}
	if c.IntegrationDone {
		t.Fatalf("previously returned case must not be mutated")
	}

	if _, err := f.wf.ToggleIntegration(context.Background(), "missing"); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestWorkflow_Sync_PreservesManualFields(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "A", "a")
	if _, err := f.wf.ToggleMedicalClearance(context.Background(), c.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	f.snapshots.put(snapshotWithDocs("a", "Ana", 4))
	f.wf.Sync(context.Background())

	got, _ := f.wf.GetCase(context.Background(), GetCaseInput{ID: c.ID})
	if !got.MedicalClearanceDone || got.OverallStatus != StatusInProgress {
		t.Fatalf("merge must keep manual fields: %+v", got)
	}
}

func TestWorkflow_Complete_RemovesAndMaterializes(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "Candidate", "T")
	f.create(t, "Other", "U")

	snapshot := snapshotWithDocs("T", "Ana Silva", 2)
	f.snapshots.put(snapshot)
	f.wf.Sync(context.Background())

	current, _ := f.wf.GetCase(context.Background(), GetCaseInput{ID: c.ID})
	rec, err := f.wf.Complete(context.Background(), current)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if rec.Name != "Ana Silva" || rec.Status != employee.StatusActive || rec.SourceHiringCaseID != c.ID {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.Documents) != 2 || rec.Documents[0] != "RG" || rec.Documents[1] != "CPF" {
		t.Fatalf("unexpected documents: %v", rec.Documents)
	}
	if rec.BankInfo.Name != "Nubank" || rec.BankInfo.Agency != "0001" || rec.BankInfo.Account != "999-1" {
		t.Fatalf("unexpected bank info: %+v", rec.BankInfo)
	}
	if len(f.registry.records) != 1 {
		t.Fatalf("expected exactly one employee record, got %d", len(f.registry.records))
	}

	for _, held := range f.wf.Cases() {
		if held.Token == "T" {
			t.Fatalf("completed case still held")
		}
	}
	for _, cached := range f.cache.cases {
		if cached.Token == "T" {
			t.Fatalf("completed case still cached")
		}
	}
	if f.tx.calls != 1 {
		t.Fatalf("expected completion to run inside one transaction, got %d", f.tx.calls)
	}
}

func TestWorkflow_Complete_StaleReferenceIsNoOp(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "Ana", "T")

	if _, err := f.wf.Complete(context.Background(), c); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	if _, err := f.wf.Complete(context.Background(), c); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
	if len(f.registry.records) != 1 {
		t.Fatalf("second completion must not write, got %d records", len(f.registry.records))
	}

	if _, err := f.wf.CreateCase(context.Background(), CreateCaseInput{
		CandidateName: "Reuse",
		Role:          "r",
		StartDate:     time.Now(),
		Token:         "T",
	}); !errors.Is(err, ErrTokenAlreadyExists) {
		t.Fatalf("completed token must not be reused, got %v", err)
	}
}

func TestWorkflow_Complete_CancelledCase(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "Ana", "T")

	cancelled, err := f.wf.CancelCase(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("CancelCase: %v", err)
	}
	if cancelled.OverallStatus != StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.OverallStatus)
	}

	if _, err := f.wf.Complete(context.Background(), cancelled); !errors.Is(err, ErrCaseCancelled) {
		t.Fatalf("expected ErrCaseCancelled, got %v", err)
	}
	if len(f.wf.Cases()) != 1 {
		t.Fatalf("cancelled case must stay held")
	}
}

func TestWorkflow_Complete_CacheFailureKeepsCase(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "Ana", "T")
	f.cache.saveErr = errStoreDown

	if _, err := f.wf.Complete(context.Background(), c); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected cache error, got %v", err)
	}
	if len(f.wf.Cases()) != 1 {
		t.Fatalf("case must stay held when the transition fails")
	}
}

func TestWorkflow_Complete_RetryAfterCacheFailure(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "Ana", "T")
	f.cache.saveErr = errStoreDown

	if _, err := f.wf.Complete(context.Background(), c); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected cache error, got %v", err)
	}
	if len(f.registry.records) != 1 {
		t.Fatalf("expected the registry write to have happened, got %d records", len(f.registry.records))
	}

	f.cache.saveErr = nil
	rec, err := f.wf.Complete(context.Background(), c)
	if err != nil {
		t.Fatalf("retry must finish the completion, got %v", err)
	}
	if rec.ID != "emp-1" || rec.SourceHiringCaseID != c.ID {
		t.Fatalf("expected the existing record, got %+v", rec)
	}
	if len(f.registry.records) != 1 {
		t.Fatalf("registry must keep exactly one record, got %d", len(f.registry.records))
	}
	if len(f.wf.Cases()) != 0 || len(f.cache.cases) != 0 {
		t.Fatalf("case must be removed after the retry: held=%d cached=%d", len(f.wf.Cases()), len(f.cache.cases))
	}
	if _, err := f.wf.CreateCase(context.Background(), CreateCaseInput{CandidateName: "Bia", Role: "Analista", StartDate: time.Now(), Token: "T"}); !errors.Is(err, ErrTokenAlreadyExists) {
		t.Fatalf("expected the token to be retired, got %v", err)
	}
	if _, err := f.wf.Complete(context.Background(), c); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound after completion, got %v", err)
	}
}

func TestWorkflow_Load_ReadFailureKeepsStoredCache(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	stored := []*Case{{ID: "9", CandidateName: "Stored", Role: "Operador", Token: "stored"}}
	f.cache.cases = stored
	f.cache.loadErr = errStoreDown

	seeds := []*Case{{ID: "1", CandidateName: "Seed", Role: "Operador", Token: "seed", StartDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)}}
	if err := f.wf.Load(context.Background(), seeds); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cases := f.wf.Cases(); len(cases) != 1 || cases[0].Token != "seed" {
		t.Fatalf("expected seeds to be held in memory, got %+v", cases)
	}
	if f.cache.saves != 0 || f.cache.cases[0].Token != "stored" {
		t.Fatalf("seeds must not overwrite the stored cache: saves=%d", f.cache.saves)
	}
}

func TestWorkflow_Load_FromSeedsThenCache(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	seeds := []*Case{
		{ID: "1", CandidateName: "Marcos Oliveira", Role: "Operador", Token: "marcos-123", DocumentsStatus: DocumentsPartial, StartDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "2", CandidateName: "Julia Fernandes", Role: "Analista", Token: "julia-456"},
		{ID: "3", CandidateName: "Duplicate", Token: "julia-456"},
	}

	if err := f.wf.Load(context.Background(), seeds); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cases := f.wf.Cases()
	if len(cases) != 2 {
		t.Fatalf("expected 2 seeded cases, got %d", len(cases))
	}
	if cases[1].DocumentsStatus != DocumentsPending || cases[1].OverallStatus != StatusInProgress {
		t.Fatalf("expected defaults for seed, got %+v", cases[1])
	}
	if !cases[0].ProbationEndDate.Equal(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected derived probation end, got %v", cases[0].ProbationEndDate)
	}
	if len(f.cache.cases) != 2 {
		t.Fatalf("expected seeds to be cached")
	}

	reloaded := NewWorkflow(Options{Snapshots: f.snapshots, Cache: f.cache, Registry: employee.NewService(f.registry, nil)})
	if err := reloaded.Load(context.Background(), nil); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Cases()) != 2 {
		t.Fatalf("expected cases restored from cache, got %d", len(reloaded.Cases()))
	}
}

func TestWorkflow_ListCases_Query(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	f.create(t, "Marcos Oliveira", "")
	f.create(t, "Julia Fernandes", "")

	found, err := f.wf.ListCases(context.Background(), ListCasesInput{Query: "julia"})
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(found) != 1 || found[0].CandidateName != "Julia Fernandes" {
		t.Fatalf("unexpected result: %+v", found)
	}

	cancelled := StatusCancelled
	none, err := f.wf.ListCases(context.Background(), ListCasesInput{Status: &cancelled})
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no cancelled cases, got %d %v", len(none), err)
	}

	invalid := OverallStatus("DONE")
	if _, err := f.wf.ListCases(context.Background(), ListCasesInput{Status: &invalid}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestWorkflow_AdmissionLink(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "Ana", "ana silva/1")

	link, err := f.wf.AdmissionLink(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("AdmissionLink: %v", err)
	}
	if link != "https://rh.example.com/admission/ana%20silva%2F1" {
		t.Fatalf("unexpected link: %s", link)
	}
	if AdmissionPath("marcos-123") != "/admission/marcos-123" {
		t.Fatalf("unexpected path: %s", AdmissionPath("marcos-123"))
	}
}

func TestWorkflow_AdmissionSubmitted_TriggersSync(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t)
	c := f.create(t, "A", "a")

	f.snapshots.put(snapshotWithDocs("a", "Ana", 5))
	f.wf.AdmissionSubmitted(context.Background(), "a")

	got, _ := f.wf.GetCase(context.Background(), GetCaseInput{ID: c.ID})
	if got.DocumentsStatus != DocumentsComplete {
		t.Fatalf("expected push notification to merge, got %s", got.DocumentsStatus)
	}

	reads := f.snapshots.reads
	f.wf.AdmissionSubmitted(context.Background(), "orphan")
	if f.snapshots.reads != reads {
		t.Fatalf("orphaned snapshot must not trigger a pass")
	}
}
