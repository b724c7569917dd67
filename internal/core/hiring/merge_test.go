package hiring

import (
	"context"
	"testing"

	"github.com/ogurasousui/facility-admission/internal/core/admission"
)

func TestStatusForCount_Thresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		count   int
		current DocumentsStatus
		want    DocumentsStatus
	}{
		{count: 0, current: DocumentsPending, want: DocumentsPending},
		{count: 0, current: DocumentsPartial, want: DocumentsPartial},
		{count: 0, current: DocumentsComplete, want: DocumentsComplete},
		{count: 3, current: DocumentsPending, want: DocumentsPartial},
		{count: 5, current: DocumentsPending, want: DocumentsComplete},
		{count: 7, current: DocumentsPartial, want: DocumentsComplete},
	}

	for _, tc := range cases {
		if got := StatusForCount(tc.count, tc.current); got != tc.want {
			t.Errorf("count=%d current=%s: expected %s, got %s", tc.count, tc.current, tc.want, got)
		}
	}
}

func TestMergeCase_NoChangeKeepsPointer(t *testing.T) {
	t.Parallel()

	c := &Case{ID: "1", CandidateName: "Ana Silva", Token: "t", DocumentsStatus: DocumentsPartial}
	snapshot := snapshotWithDocs("t", "Ana Silva", 2)

	merged, changed := MergeCase(c, snapshot)
	if changed {
		t.Fatalf("expected no change")
	}
	if merged != c {
		t.Fatalf("unchanged case must keep its identity")
	}
}

func TestMergeCase_EmptyNameKeepsCurrentName(t *testing.T) {
	t.Parallel()

	c := &Case{ID: "1", CandidateName: "Julia Fernandes", Token: "t", DocumentsStatus: DocumentsPending}
	snapshot := snapshotWithDocs("t", "", 1)

	merged, changed := MergeCase(c, snapshot)
	if !changed {
		t.Fatalf("expected status change")
	}
	if merged.CandidateName != "Julia Fernandes" {
		t.Fatalf("expected name to be kept, got %q", merged.CandidateName)
	}
	if c.DocumentsStatus != DocumentsPending {
		t.Fatalf("original case must not be mutated")
	}
}

func TestMergeCase_ZeroDocumentsNeverDowngrades(t *testing.T) {
	t.Parallel()

	c := &Case{ID: "1", CandidateName: "Ana", Token: "t", DocumentsStatus: DocumentsComplete, DocumentsSubmitted: []string{"RG"}}
	snapshot := snapshotWithDocs("t", "Ana", 0)

	merged, changed := MergeCase(c, snapshot)
	if changed || merged.DocumentsStatus != DocumentsComplete {
		t.Fatalf("expected COMPLETE to be preserved, got %s changed=%v", merged.DocumentsStatus, changed)
	}
}

func TestMergeCase_NilDocumentListKeepsSubmitted(t *testing.T) {
	t.Parallel()

	c := &Case{ID: "1", CandidateName: "Ana", Token: "t", DocumentsStatus: DocumentsPartial, DocumentsSubmitted: []string{"RG"}}
	snapshot := &admission.Snapshot{Token: "t", FullName: "Ana Maria", DocumentCount: 1}

	merged, changed := MergeCase(c, snapshot)
	if !changed {
		t.Fatalf("expected name change to trigger merge")
	}
	if len(merged.DocumentsSubmitted) != 1 || merged.DocumentsSubmitted[0] != "RG" {
		t.Fatalf("expected documents to be kept, got %v", merged.DocumentsSubmitted)
	}
}

func TestMergePass_NoSnapshotsReturnsSameSlice(t *testing.T) {
	t.Parallel()

	cases := []*Case{
		{ID: "1", CandidateName: "A", Token: "a", DocumentsStatus: DocumentsPending},
		{ID: "2", CandidateName: "B", Token: "b", DocumentsStatus: DocumentsPending},
	}

	out, changed := MergePass(context.Background(), cases, newFakeSnapshots(), nil)
	if changed != 0 {
		t.Fatalf("expected no changes, got %d", changed)
	}
	if &out[0] != &cases[0] {
		t.Fatalf("collection must not be replaced when nothing changed")
	}
}

func TestMergePass_OnlyMatchingCaseReplaced(t *testing.T) {
	t.Parallel()

	a := &Case{ID: "1", CandidateName: "A", Token: "a", DocumentsStatus: DocumentsPending}
	b := &Case{ID: "2", CandidateName: "B", Token: "b", DocumentsStatus: DocumentsPending}
	cases := []*Case{a, b}

	snapshots := newFakeSnapshots()
	snapshots.put(snapshotWithDocs("a", "Ana", 3))

	out, changed := MergePass(context.Background(), cases, snapshots, nil)
	if changed != 1 {
		t.Fatalf("expected 1 change, got %d", changed)
	}
	if out[1] != b {
		t.Fatalf("case without snapshot must keep its identity")
	}
	if out[0] == a || out[0].DocumentsStatus != DocumentsPartial || out[0].CandidateName != "Ana" {
		t.Fatalf("unexpected merged case: %+v", out[0])
	}
	if cases[0] != a {
		t.Fatalf("input collection must not be mutated")
	}
}

func TestMergePass_ReadErrorLeavesCasesUnchanged(t *testing.T) {
	t.Parallel()

	cases := []*Case{{ID: "1", CandidateName: "A", Token: "a", DocumentsStatus: DocumentsPending}}
	snapshots := newFakeSnapshots()
	snapshots.err = errStoreDown

	out, changed := MergePass(context.Background(), cases, snapshots, nil)
	if changed != 0 || out[0] != cases[0] {
		t.Fatalf("expected read errors to leave the case untouched")
	}
}
