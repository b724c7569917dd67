package portal

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/facility-admission/internal/core/admission"
	"github.com/ogurasousui/facility-admission/internal/platform/logging"
	"github.com/sirupsen/logrus"
)

// Handler は応募者向け入社ポータルの HTTP ハンドラーです。
type Handler struct {
	svc    admission.UseCase
	logger logrus.FieldLogger
}

// NewHandler は Handler を生成します。
func NewHandler(svc admission.UseCase, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register はルートを登録します。
func (h *Handler) Register(router fiber.Router) {
	router.Get("/healthz", h.HandleHealth)
	router.Get("/admission/:token", h.HandleGetForm)
	router.Post("/admission/:token/steps/:step", h.HandleValidateStep)
	router.Post("/admission/:token", h.HandleSubmit)
}

// HandleHealth は死活監視用の応答を返します。
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleGetForm はフォームの構成、または送信済みの場合はその状態を返します。
func (h *Handler) HandleGetForm(c *fiber.Ctx) error {
	token := c.Params("token")

	snapshot, err := h.svc.GetSnapshot(c.UserContext(), token)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"token":         snapshot.Token,
			"status":        "SUBMITTED",
			"fullName":      snapshot.FullName,
			"documentCount": snapshot.DocumentCount,
			"submittedAt":   snapshot.SubmittedAt.Format(time.RFC3339),
		})
	case errors.Is(err, admission.ErrSnapshotNotFound):
		return c.JSON(fiber.Map{
			"token":     token,
			"status":    "OPEN",
			"steps":     stepDescriptors(),
			"documents": documentDescriptors(),
		})
	default:
		return toHTTPError(err)
	}
}

// HandleValidateStep は一つの段階の必須項目を検証します。
func (h *Handler) HandleValidateStep(c *fiber.Ctx) error {
	n, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return toHTTPError(admission.ErrInvalidStep)
	}
	step, err := admission.ParseStep(n)
	if err != nil {
		return toHTTPError(err)
	}

	form, err := readForm(c)
	if err != nil {
		return toHTTPError(err)
	}

	if err := h.svc.ValidateStep(c.UserContext(), step, form); err != nil {
		return h.validationResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubmit はフォームを送信します。送信済みのトークンには 409 を返します。
func (h *Handler) HandleSubmit(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := c.Params("token")

	if _, err := h.svc.GetSnapshot(ctx, token); err == nil {
		return toHTTPError(admission.ErrSnapshotAlreadyExists)
	} else if !errors.Is(err, admission.ErrSnapshotNotFound) {
		return toHTTPError(err)
	}

	form, err := readForm(c)
	if err != nil {
		return toHTTPError(err)
	}

	snapshot, err := h.svc.Submit(ctx, form)
	if err != nil {
		return h.validationResponse(c, err)
	}

	h.logger.WithFields(logrus.Fields{
		"token":          snapshot.Token,
		"document_count": snapshot.DocumentCount,
	}).Info("portal: admission submitted")

	docs := make([]fiber.Map, 0, len(snapshot.UploadedDocuments))
	for _, d := range snapshot.UploadedDocuments {
		docs = append(docs, fiber.Map{
			"type":         string(d.Type),
			"fileName":     d.FileName,
			"displayLabel": d.DisplayLabel,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":             snapshot.Token,
		"status":            "SUBMITTED",
		"documentCount":     snapshot.DocumentCount,
		"uploadedDocuments": docs,
		"submittedAt":       snapshot.SubmittedAt.Format(time.RFC3339),
	})
}

func (h *Handler) validationResponse(c *fiber.Ctx, err error) error {
	var verr *admission.ValidationError
	if !errors.As(err, &verr) {
		return toHTTPError(err)
	}

	fields := make([]fiber.Map, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, fiber.Map{"field": f.Field, "rule": f.Rule})
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  verr.Error(),
		"step":   int(verr.Step),
		"fields": fields,
	})
}

// readForm はフォーム値とアップロードされたファイル名を読み取ります。ファイル本体は保持しません。
func readForm(c *fiber.Ctx) (admission.Form, error) {
	form := admission.Form{
		Token: c.Params("token"),
		Personal: admission.PersonalInfo{
			FullName:       c.FormValue("fullName"),
			CPF:            c.FormValue("cpf"),
			TransportValue: c.FormValue("transportValue"),
		},
		Banking: admission.BankingInfo{
			BankName:    c.FormValue("bankName"),
			BankAgency:  c.FormValue("bankAgency"),
			BankAccount: c.FormValue("bankAccount"),
		},
	}

	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return form, nil
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return form, fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}
	form.Documents = documentsFromFiles(mf.File)
	return form, nil
}

func documentsFromFiles(files map[string][]*multipart.FileHeader) map[admission.DocumentType]string {
	if len(files) == 0 {
		return nil
	}
	docs := make(map[admission.DocumentType]string, len(files))
	for field, headers := range files {
		if len(headers) == 0 {
			continue
		}
		docs[admission.DocumentType(field)] = headers[0].Filename
	}
	return docs
}

func stepDescriptors() []fiber.Map {
	return []fiber.Map{
		{"step": int(admission.StepPersonal), "name": admission.StepPersonal.String(), "fields": []string{"fullName", "cpf", "transportValue"}, "required": []string{"fullName", "cpf"}},
		{"step": int(admission.StepBanking), "name": admission.StepBanking.String(), "fields": []string{"bankName", "bankAgency", "bankAccount"}, "required": []string{"bankName", "bankAgency", "bankAccount"}},
		{"step": int(admission.StepDocuments), "name": admission.StepDocuments.String(), "fields": []string{}, "required": []string{}},
	}
}

func documentDescriptors() []fiber.Map {
	types := admission.DocumentTypes()
	out := make([]fiber.Map, 0, len(types))
	for _, t := range types {
		out = append(out, fiber.Map{"type": string(t), "label": t.Label()})
	}
	return out
}

func toHTTPError(err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, admission.ErrInvalidToken),
		errors.Is(err, admission.ErrInvalidStep),
		errors.Is(err, admission.ErrUnknownDocumentType):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, admission.ErrMissingRequiredField):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, admission.ErrSnapshotAlreadyExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, admission.ErrSnapshotNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
