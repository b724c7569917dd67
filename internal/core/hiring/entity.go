package hiring

import "time"

// DocumentsStatus は書類提出状況です。利用者が直接設定することはなく、マージ処理でのみ導出されます。
type DocumentsStatus string

const (
	DocumentsPending  DocumentsStatus = "PENDING"
	DocumentsPartial  DocumentsStatus = "PARTIAL"
	DocumentsComplete DocumentsStatus = "COMPLETE"
)

// OverallStatus は採用ケース全体の状態です。
type OverallStatus string

const (
	StatusInProgress OverallStatus = "IN_PROGRESS"
	StatusCompleted  OverallStatus = "COMPLETED"
	StatusCancelled  OverallStatus = "CANCELLED"
)

// Case は入社手続き中の採用ケースです。
// Workflow が保持する Case は共有される値として扱い、変更時は複製を差し替えます。
type Case struct {
	ID                   string
	CandidateName        string
	Role                 string
	StartDate            time.Time
	ProbationEndDate     time.Time
	MedicalClearanceDone bool
	IntegrationDone      bool
	DocumentsStatus      DocumentsStatus
	DocumentsSubmitted   []string
	BankName             string
	BankAgency           string
	BankAccount          string
	TransportValue       string
	Token                string
	OverallStatus        OverallStatus
}

func (c *Case) clone() *Case {
	if c == nil {
		return nil
	}
	copied := *c
	if c.DocumentsSubmitted != nil {
		copied.DocumentsSubmitted = make([]string, len(c.DocumentsSubmitted))
		copy(copied.DocumentsSubmitted, c.DocumentsSubmitted)
	}
	return &copied
}

func isValidDocumentsStatus(s DocumentsStatus) bool {
	switch s {
	case DocumentsPending, DocumentsPartial, DocumentsComplete:
		return true
	default:
		return false
	}
}

func isValidOverallStatus(s OverallStatus) bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
