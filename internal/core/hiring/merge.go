package hiring

import (
	"context"
	"errors"

	"github.com/ogurasousui/facility-admission/internal/core/admission"
	"github.com/sirupsen/logrus"
)

// StatusForCount は提出書類数から書類状況を導出します。
// 0 件の場合は current をそのまま返し、進んだ状況を PENDING に戻しません。
func StatusForCount(count int, current DocumentsStatus) DocumentsStatus {
	switch {
	case count >= admission.RequiredDocumentCount:
		return DocumentsComplete
	case count > 0:
		return DocumentsPartial
	default:
		return current
	}
}

// MergeCase はスナップショットをケースへ反映します。
// 書類状況と候補者名のどちらも変わらない場合は c 自身を返し、changed は false です。
func MergeCase(c *Case, snapshot *admission.Snapshot) (merged *Case, changed bool) {
	if c == nil || snapshot == nil {
		return c, false
	}

	status := StatusForCount(snapshot.DocumentCount, c.DocumentsStatus)
	name := snapshot.FullName
	if name == "" {
		name = c.CandidateName
	}

	if status == c.DocumentsStatus && name == c.CandidateName {
		return c, false
	}

	merged = c.clone()
	merged.CandidateName = name
	merged.BankName = snapshot.BankName
	merged.BankAgency = snapshot.BankAgency
	merged.BankAccount = snapshot.BankAccount
	merged.TransportValue = snapshot.TransportValue
	merged.DocumentsStatus = status
	if labels := snapshot.Labels(); labels != nil {
		merged.DocumentsSubmitted = labels
	}
	return merged, true
}

// MergePass は保持順にすべてのケースを走査し、変更があったケースだけを差し替えます。
// 変更が一件もなければ cases をそのまま返します。
func MergePass(ctx context.Context, cases []*Case, reader SnapshotReader, logger logrus.FieldLogger) ([]*Case, int) {
	var (
		out     []*Case
		changed int
	)

	for i, c := range cases {
		snapshot, err := reader.FindByToken(ctx, c.Token)
		if err != nil {
			if !errors.Is(err, admission.ErrSnapshotNotFound) && logger != nil {
				logger.WithError(err).WithField("token", c.Token).Warn("hiring: read admission snapshot")
			}
			continue
		}

		merged, ok := MergeCase(c, snapshot)
		if !ok {
			continue
		}

		if out == nil {
			out = make([]*Case, len(cases))
			copy(out, cases)
		}
		out[i] = merged
		changed++
	}

	if out == nil {
		return cases, 0
	}
	return out, changed
}
