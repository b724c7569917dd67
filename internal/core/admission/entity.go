package admission

import "time"

// DocumentType は入社ポータルで受け付ける書類の種別です。
type DocumentType string

const (
	DocumentRG               DocumentType = "RG"
	DocumentCPF              DocumentType = "CPF"
	DocumentProofOfResidence DocumentType = "PROOF_OF_RESIDENCE"
	DocumentVoterID          DocumentType = "VOTER_ID"
	DocumentMilitaryCert     DocumentType = "MILITARY_CERT"
)

// RequiredDocumentCount は書類がすべて揃ったとみなす件数です。
const RequiredDocumentCount = 5

var documentTypes = []DocumentType{
	DocumentRG,
	DocumentCPF,
	DocumentProofOfResidence,
	DocumentVoterID,
	DocumentMilitaryCert,
}

var documentLabels = map[DocumentType]string{
	DocumentRG:               "RG",
	DocumentCPF:              "CPF",
	DocumentProofOfResidence: "Comprovante de Residência",
	DocumentVoterID:          "Título de Eleitor",
	DocumentMilitaryCert:     "Certificado de Reservista",
}

// DocumentTypes は書類スロットを画面の並び順で返します。
func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

// Label は書類種別の表示ラベルを返します。
func (t DocumentType) Label() string {
	if label, ok := documentLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid は既知の書類種別かどうかを返します。
func (t DocumentType) Valid() bool {
	_, ok := documentLabels[t]
	return ok
}

// UploadedDocument はアップロードされた書類のメタデータです。ファイル本体は保持しません。
type UploadedDocument struct {
	Type         DocumentType
	FileName     string
	DisplayLabel string
}

// Snapshot は応募者が送信した入社データのスナップショットです。
type Snapshot struct {
	Token             string
	FullName          string
	CPF               string
	BankName          string
	BankAgency        string
	BankAccount       string
	TransportValue    string
	UploadedDocuments []UploadedDocument
	DocumentCount     int
	SubmittedAt       time.Time
}

// Labels は書類の表示ラベルを送信順で返します。
func (s *Snapshot) Labels() []string {
	if s == nil || s.UploadedDocuments == nil {
		return nil
	}
	labels := make([]string, 0, len(s.UploadedDocuments))
	for _, doc := range s.UploadedDocuments {
		labels = append(labels, doc.DisplayLabel)
	}
	return labels
}
