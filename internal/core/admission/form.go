package admission

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Step は入力フォームの段階です。
type Step int

const (
	StepPersonal Step = iota + 1
	StepBanking
	StepDocuments
)

// ParseStep は数値から Step を生成します。
func ParseStep(n int) (Step, error) {
	step := Step(n)
	switch step {
	case StepPersonal, StepBanking, StepDocuments:
		return step, nil
	default:
		return 0, ErrInvalidStep
	}
}

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepBanking:
		return "banking"
	case StepDocuments:
		return "documents"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// PersonalInfo は第 1 段階の入力です。
type PersonalInfo struct {
	FullName       string `field:"fullName" validate:"required"`
	CPF            string `field:"cpf" validate:"required"`
	TransportValue string `field:"transportValue"`
}

// BankingInfo は第 2 段階の入力です。
type BankingInfo struct {
	BankName    string `field:"bankName" validate:"required"`
	BankAgency  string `field:"bankAgency" validate:"required"`
	BankAccount string `field:"bankAccount" validate:"required"`
}

// Form は入社ポータルの入力全体です。Documents はスロットごとに選択されたファイル名を持ちます。
type Form struct {
	Token     string
	Personal  PersonalInfo
	Banking   BankingInfo
	Documents map[DocumentType]string
}

// FieldError は未入力の項目を表します。
type FieldError struct {
	Field string
	Rule  string
}

// ValidationError は段階ごとの入力エラーです。ErrMissingRequiredField をラップします。
type ValidationError struct {
	Step   Step
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("admission: %s step: missing required fields: %s", e.Step, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrMissingRequiredField
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

func (f Form) normalized() Form {
	out := Form{
		Token: strings.TrimSpace(f.Token),
		Personal: PersonalInfo{
			FullName:       strings.TrimSpace(f.Personal.FullName),
			CPF:            strings.TrimSpace(f.Personal.CPF),
			TransportValue: strings.TrimSpace(f.Personal.TransportValue),
		},
		Banking: BankingInfo{
			BankName:    strings.TrimSpace(f.Banking.BankName),
			BankAgency:  strings.TrimSpace(f.Banking.BankAgency),
			BankAccount: strings.TrimSpace(f.Banking.BankAccount),
		},
	}
	if f.Documents != nil {
		out.Documents = make(map[DocumentType]string, len(f.Documents))
		for t, name := range f.Documents {
			out.Documents[t] = strings.TrimSpace(name)
		}
	}
	return out
}

func validateStep(step Step, form Form) error {
	var target any
	switch step {
	case StepPersonal:
		target = form.Personal
	case StepBanking:
		target = form.Banking
	case StepDocuments:
		return validateDocuments(form.Documents)
	default:
		return ErrInvalidStep
	}

	err := validate.Struct(target)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return &ValidationError{Step: step, Fields: fields}
}

func validateDocuments(files map[DocumentType]string) error {
	for t := range files {
		if !t.Valid() {
			return fmt.Errorf("%s: %w", t, ErrUnknownDocumentType)
		}
	}
	return nil
}

// buildDocuments は選択済みスロットだけを画面の並び順で書類一覧にします。
func buildDocuments(files map[DocumentType]string) []UploadedDocument {
	docs := make([]UploadedDocument, 0, len(documentTypes))
	for _, t := range documentTypes {
		name := files[t]
		if name == "" {
			continue
		}
		docs = append(docs, UploadedDocument{Type: t, FileName: name, DisplayLabel: t.Label()})
	}
	return docs
}
