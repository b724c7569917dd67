package hiring

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ogurasousui/facility-admission/internal/core/admission"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
)

type fakeSnapshots struct {
	mu        sync.Mutex
	snapshots map[string]*admission.Snapshot
	reads     int
	err       error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{snapshots: make(map[string]*admission.Snapshot)}
}

func (f *fakeSnapshots) put(s *admission.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[s.Token] = s
}

func (f *fakeSnapshots) FindByToken(_ context.Context, token string) (*admission.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.snapshots[token]
	if !ok {
		return nil, admission.ErrSnapshotNotFound
	}
	return s, nil
}

type fakeCache struct {
	cases   []*Case
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeCache) Load(_ context.Context) ([]*Case, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.cases == nil {
		return nil, ErrCacheNotFound
	}
	return f.cases, nil
}

func (f *fakeCache) Save(_ context.Context, cases []*Case) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.cases = cases
	return nil
}

type fakeRegistryRepo struct {
	records []*employee.Record
}

func (r *fakeRegistryRepo) List(_ context.Context) ([]*employee.Record, error) {
	out := make([]*employee.Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *fakeRegistryRepo) Initialized(_ context.Context) (bool, error) {
	return r.records != nil, nil
}

func (r *fakeRegistryRepo) ReplaceAll(_ context.Context, records []*employee.Record) error {
	r.records = records
	return nil
}

type recordingTx struct {
	calls int
}

func (t *recordingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func snapshotWithDocs(token, name string, n int) *admission.Snapshot {
	types := admission.DocumentTypes()
	docs := make([]admission.UploadedDocument, 0, n)
	for i := 0; i < n && i < len(types); i++ {
		docs = append(docs, admission.UploadedDocument{
			Type:         types[i],
			FileName:     fmt.Sprintf("doc-%d.pdf", i),
			DisplayLabel: types[i].Label(),
		})
	}
	return &admission.Snapshot{
		Token:             token,
		FullName:          name,
		CPF:               "000.000.000-00",
		BankName:          "Nubank",
		BankAgency:        "0001",
		BankAccount:       "999-1",
		TransportValue:    "10.00",
		UploadedDocuments: docs,
		DocumentCount:     len(docs),
	}
}

var errStoreDown = errors.New("store down")
