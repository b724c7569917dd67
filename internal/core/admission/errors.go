package admission

import "errors"

var (
	ErrInvalidToken          = errors.New("admission: invalid token")
	ErrInvalidStep           = errors.New("admission: invalid step")
	ErrUnknownDocumentType   = errors.New("admission: unknown document type")
	ErrMissingRequiredField  = errors.New("admission: missing required field")
	ErrSnapshotNotFound      = errors.New("admission: snapshot not found")
	ErrSnapshotAlreadyExists = errors.New("admission: snapshot already submitted")
)
