package kvstore

import (
	"strings"
	"time"

	"github.com/ogurasousui/facility-admission/internal/core/admission"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
	"github.com/ogurasousui/facility-admission/internal/core/hiring"
)

const dateLayout = "2006-01-02"

type uploadedDocumentJSON struct {
	Type         string `json:"type"`
	FileName     string `json:"fileName"`
	DisplayLabel string `json:"displayLabel"`
}

type snapshotJSON struct {
	Token             string                 `json:"token"`
	FullName          string                 `json:"fullName"`
	CPF               string                 `json:"cpf"`
	BankName          string                 `json:"bankName"`
	BankAgency        string                 `json:"bankAgency"`
	BankAccount       string                 `json:"bankAccount"`
	TransportValue    string                 `json:"transportValue"`
	UploadedDocuments []uploadedDocumentJSON `json:"uploadedDocuments"`
	DocumentCount     int                    `json:"documentCount"`
	SubmittedAt       string                 `json:"submittedAt"`
}

type caseJSON struct {
	ID                   string   `json:"id"`
	CandidateName        string   `json:"candidateName"`
	Role                 string   `json:"role"`
	StartDate            string   `json:"startDate"`
	ProbationEndDate     string   `json:"probationEndDate"`
	MedicalClearanceDone bool     `json:"medicalClearanceDone"`
	IntegrationDone      bool     `json:"integrationDone"`
	DocumentsStatus      string   `json:"documentsStatus"`
	DocumentsSubmitted   []string `json:"documentsSubmitted"`
	BankName             string   `json:"bankName"`
	BankAgency           string   `json:"bankAgency"`
	BankAccount          string   `json:"bankAccount"`
	TransportValue       string   `json:"transportValue"`
	Token                string   `json:"token"`
	OverallStatus        string   `json:"overallStatus"`
}

type bankInfoJSON struct {
	Name    string `json:"name"`
	Agency  string `json:"agency"`
	Account string `json:"account"`
}

type employeeJSON struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Role               string       `json:"role"`
	StartDate          string       `json:"startDate"`
	Status             string       `json:"employmentStatus"`
	Documents          []string     `json:"documents"`
	BankInfo           bankInfoJSON `json:"bankInfo"`
	TransportValue     string       `json:"transportValue"`
	SourceHiringCaseID string       `json:"sourceHiringCaseId"`
}

func encodeSnapshot(s *admission.Snapshot) snapshotJSON {
	out := snapshotJSON{
		Token:          s.Token,
		FullName:       s.FullName,
		CPF:            s.CPF,
		BankName:       s.BankName,
		BankAgency:     s.BankAgency,
		BankAccount:    s.BankAccount,
		TransportValue: s.TransportValue,
		DocumentCount:  s.DocumentCount,
		SubmittedAt:    formatTimestamp(s.SubmittedAt),
	}
	out.UploadedDocuments = make([]uploadedDocumentJSON, 0, len(s.UploadedDocuments))
	for _, doc := range s.UploadedDocuments {
		out.UploadedDocuments = append(out.UploadedDocuments, uploadedDocumentJSON{
			Type:         string(doc.Type),
			FileName:     doc.FileName,
			DisplayLabel: doc.DisplayLabel,
		})
	}
	return out
}

func decodeSnapshot(in snapshotJSON) *admission.Snapshot {
	out := &admission.Snapshot{
		Token:          in.Token,
		FullName:       in.FullName,
		CPF:            in.CPF,
		BankName:       in.BankName,
		BankAgency:     in.BankAgency,
		BankAccount:    in.BankAccount,
		TransportValue: in.TransportValue,
		DocumentCount:  in.DocumentCount,
		SubmittedAt:    parseTimestamp(in.SubmittedAt),
	}
	if in.UploadedDocuments != nil {
		out.UploadedDocuments = make([]admission.UploadedDocument, 0, len(in.UploadedDocuments))
		for _, doc := range in.UploadedDocuments {
			docType := admission.DocumentType(doc.Type)
			label := doc.DisplayLabel
			if label == "" {
				label = docType.Label()
			}
			out.UploadedDocuments = append(out.UploadedDocuments, admission.UploadedDocument{
				Type:         docType,
				FileName:     doc.FileName,
				DisplayLabel: label,
			})
		}
	}
	return out
}

func encodeCase(c *hiring.Case) caseJSON {
	return caseJSON{
		ID:                   c.ID,
		CandidateName:        c.CandidateName,
		Role:                 c.Role,
		StartDate:            formatDate(c.StartDate),
		ProbationEndDate:     formatDate(c.ProbationEndDate),
		MedicalClearanceDone: c.MedicalClearanceDone,
		IntegrationDone:      c.IntegrationDone,
		DocumentsStatus:      string(c.DocumentsStatus),
		DocumentsSubmitted:   nonNil(c.DocumentsSubmitted),
		BankName:             c.BankName,
		BankAgency:           c.BankAgency,
		BankAccount:          c.BankAccount,
		TransportValue:       c.TransportValue,
		Token:                c.Token,
		OverallStatus:        string(c.OverallStatus),
	}
}

func decodeCase(in caseJSON) *hiring.Case {
	return &hiring.Case{
		ID:                   in.ID,
		CandidateName:        in.CandidateName,
		Role:                 in.Role,
		StartDate:            parseDate(in.StartDate),
		ProbationEndDate:     parseDate(in.ProbationEndDate),
		MedicalClearanceDone: in.MedicalClearanceDone,
		IntegrationDone:      in.IntegrationDone,
		DocumentsStatus:      hiring.DocumentsStatus(in.DocumentsStatus),
		DocumentsSubmitted:   nonNil(in.DocumentsSubmitted),
		BankName:             in.BankName,
		BankAgency:           in.BankAgency,
		BankAccount:          in.BankAccount,
		TransportValue:       in.TransportValue,
		Token:                in.Token,
		OverallStatus:        hiring.OverallStatus(in.OverallStatus),
	}
}

func encodeEmployee(r *employee.Record) employeeJSON {
	return employeeJSON{
		ID:        r.ID,
		Name:      r.Name,
		Role:      r.Role,
		StartDate: formatDate(r.StartDate),
		Status:    string(r.Status),
		Documents: nonNil(r.Documents),
		BankInfo: bankInfoJSON{
			Name:    r.BankInfo.Name,
			Agency:  r.BankInfo.Agency,
			Account: r.BankInfo.Account,
		},
		TransportValue:     r.TransportValue,
		SourceHiringCaseID: r.SourceHiringCaseID,
	}
}

func decodeEmployee(in employeeJSON) *employee.Record {
	return &employee.Record{
		ID:        in.ID,
		Name:      in.Name,
		Role:      in.Role,
		StartDate: parseDate(in.StartDate),
		Status:    employee.Status(in.Status),
		Documents: nonNil(in.Documents),
		BankInfo: employee.BankInfo{
			Name:    in.BankInfo.Name,
			Agency:  in.BankInfo.Agency,
			Account: in.BankInfo.Account,
		},
		TransportValue:     in.TransportValue,
		SourceHiringCaseID: in.SourceHiringCaseID,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// parseDate は YYYY-MM-DD に加えて RFC 3339 形式も受け付けます。解釈できない値はゼロ値になります。
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
