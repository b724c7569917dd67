package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/facility-admission/internal/adapters/grpc/hiringv1"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
	"github.com/ogurasousui/facility-admission/internal/core/hiring"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const dateLayout = "2006-01-02"

// HiringGrpcHandler は HiringService の gRPC 実装です。
type HiringGrpcHandler struct {
	cases     hiring.UseCase
	employees employee.UseCase
	hiringv1.UnimplementedHiringServiceServer
}

// NewHiringGrpcHandler は HiringGrpcHandler を生成します。
func NewHiringGrpcHandler(cases hiring.UseCase, employees employee.UseCase) *HiringGrpcHandler {
	return &HiringGrpcHandler{cases: cases, employees: employees}
}

// CreateCase は採用ケースを作成します。
func (h *HiringGrpcHandler) CreateCase(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	startDate, err := parseDate(stringField(req, "startDate"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("startDate: %v", err))
	}

	var probationPtr *time.Time
	if raw := stringField(req, "probationEndDate"); raw != "" {
		probation, err := parseDate(raw)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("probationEndDate: %v", err))
		}
		probationPtr = &probation
	}

	created, err := h.cases.CreateCase(ctx, hiring.CreateCaseInput{
		CandidateName:    stringField(req, "candidateName"),
		Role:             stringField(req, "role"),
		StartDate:        startDate,
		ProbationEndDate: probationPtr,
		Token:            stringField(req, "token"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return caseResponse(created)
}

// ListCases は採用ケースの一覧を取得します。
func (h *HiringGrpcHandler) ListCases(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var statusPtr *hiring.OverallStatus
	if raw := stringField(req, "status"); raw != "" {
		s := hiring.OverallStatus(strings.ToUpper(raw))
		statusPtr = &s
	}

	cases, err := h.cases.ListCases(ctx, hiring.ListCasesInput{
		Query:  stringField(req, "query"),
		Status: statusPtr,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(cases))
	for _, c := range cases {
		items = append(items, caseToMap(c))
	}
	return newStruct(map[string]any{"cases": items})
}

// GetCase は採用ケースを取得します。
func (h *HiringGrpcHandler) GetCase(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.cases.GetCase(ctx, hiring.GetCaseInput{ID: stringField(req, "id")})
	if err != nil {
		return nil, toStatusError(err)
	}
	return caseResponse(found)
}

// ToggleMedicalClearance は健康診断完了フラグを反転します。
func (h *HiringGrpcHandler) ToggleMedicalClearance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	updated, err := h.cases.ToggleMedicalClearance(ctx, stringField(req, "id"))
	if err != nil {
		return nil, toStatusError(err)
	}
	return caseResponse(updated)
}

// ToggleIntegration は入社時研修完了フラグを反転します。
func (h *HiringGrpcHandler) ToggleIntegration(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	updated, err := h.cases.ToggleIntegration(ctx, stringField(req, "id"))
	if err != nil {
		return nil, toStatusError(err)
	}
	return caseResponse(updated)
}

// CancelCase は採用ケースを取り消します。
func (h *HiringGrpcHandler) CancelCase(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	updated, err := h.cases.CancelCase(ctx, stringField(req, "id"))
	if err != nil {
		return nil, toStatusError(err)
	}
	return caseResponse(updated)
}

// CompleteAdmission は採用ケースを在籍社員に変換します。
func (h *HiringGrpcHandler) CompleteAdmission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.cases.GetCase(ctx, hiring.GetCaseInput{ID: stringField(req, "id")})
	if err != nil {
		return nil, toStatusError(err)
	}

	record, err := h.cases.Complete(ctx, found)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"employee": employeeToMap(record)})
}

// GetAdmissionLink は応募者向けポータルのリンクを返します。
func (h *HiringGrpcHandler) GetAdmissionLink(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	link, err := h.cases.AdmissionLink(ctx, stringField(req, "id"))
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"link": link})
}

// SyncNow はマージパスを即座に一回実行します。
func (h *HiringGrpcHandler) SyncNow(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	changed := h.cases.Sync(ctx)
	return newStruct(map[string]any{"changed": changed})
}

// ListEmployees は在籍社員の一覧を取得します。
func (h *HiringGrpcHandler) ListEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	records, err := h.employees.ListEmployees(ctx, employee.ListEmployeesInput{Query: stringField(req, "query")})
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(records))
	for _, rec := range records {
		items = append(items, employeeToMap(rec))
	}
	return newStruct(map[string]any{"employees": items})
}

func caseResponse(c *hiring.Case) (*structpb.Struct, error) {
	return newStruct(map[string]any{"case": caseToMap(c)})
}

func caseToMap(c *hiring.Case) map[string]any {
	return map[string]any{
		"id":                   c.ID,
		"candidateName":        c.CandidateName,
		"role":                 c.Role,
		"startDate":            formatDate(c.StartDate),
		"probationEndDate":     formatDate(c.ProbationEndDate),
		"medicalClearanceDone": c.MedicalClearanceDone,
		"integrationDone":      c.IntegrationDone,
		"documentsStatus":      string(c.DocumentsStatus),
		"documentsSubmitted":   toAnySlice(c.DocumentsSubmitted),
		"bankName":             c.BankName,
		"bankAgency":           c.BankAgency,
		"bankAccount":          c.BankAccount,
		"transportValue":       c.TransportValue,
		"token":                c.Token,
		"overallStatus":        string(c.OverallStatus),
	}
}

func employeeToMap(r *employee.Record) map[string]any {
	out := map[string]any{
		"id":               r.ID,
		"name":             r.Name,
		"role":             r.Role,
		"startDate":        formatDate(r.StartDate),
		"employmentStatus": string(r.Status),
		"documents":        toAnySlice(r.Documents),
		"bankInfo": map[string]any{
			"name":    r.BankInfo.Name,
			"agency":  r.BankInfo.Agency,
			"account": r.BankInfo.Account,
		},
		"transportValue":     r.TransportValue,
		"sourceHiringCaseId": r.SourceHiringCaseID,
	}
	if allowance, ok := r.TransportAllowance(); ok {
		out["transportAllowance"] = allowance.StringFixed(2)
	}
	return out
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return s, nil
}

func stringField(req *structpb.Struct, name string) string {
	return strings.TrimSpace(req.GetFields()[name].GetStringValue())
}

func toAnySlice(in []string) []any {
	out := make([]any, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	return out
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
