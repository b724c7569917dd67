package handler

import (
	"errors"

	"github.com/ogurasousui/facility-admission/internal/core/employee"
	"github.com/ogurasousui/facility-admission/internal/core/hiring"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hiring.ErrInvalidID),
		errors.Is(err, hiring.ErrInvalidCandidateName),
		errors.Is(err, hiring.ErrInvalidRole),
		errors.Is(err, hiring.ErrInvalidStartDate),
		errors.Is(err, hiring.ErrInvalidDateRange),
		errors.Is(err, hiring.ErrInvalidStatus),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidSourceCaseID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, hiring.ErrTokenAlreadyExists), errors.Is(err, employee.ErrAlreadyAdmitted):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, hiring.ErrCaseNotFound), errors.Is(err, employee.ErrEmployeeNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, hiring.ErrCaseCancelled):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
