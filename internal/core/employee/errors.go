package employee

import "errors"

var (
	ErrInvalidName         = errors.New("employee: invalid name")
	ErrInvalidSourceCaseID = errors.New("employee: invalid source hiring case id")
	ErrAlreadyAdmitted     = errors.New("employee: hiring case already admitted")
	ErrEmployeeNotFound    = errors.New("employee: not found")
)
