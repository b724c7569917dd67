package hiring

import "errors"

var (
	ErrInvalidID            = errors.New("hiring: invalid id")
	ErrInvalidCandidateName = errors.New("hiring: invalid candidate name")
	ErrInvalidRole          = errors.New("hiring: invalid role")
	ErrInvalidStartDate     = errors.New("hiring: invalid start date")
	ErrInvalidDateRange     = errors.New("hiring: probation ends before start date")
	ErrInvalidStatus        = errors.New("hiring: invalid status")
	ErrCaseNotFound         = errors.New("hiring: case not found")
	ErrCaseCancelled        = errors.New("hiring: case cancelled")
	ErrTokenAlreadyExists   = errors.New("hiring: token already in use")
	ErrCacheNotFound        = errors.New("hiring: case cache not found")
)
