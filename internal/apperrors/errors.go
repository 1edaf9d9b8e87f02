package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that no valid identity was presented for the operation.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the actor lacks the role or assignment required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource is in a state that does not permit the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrInvalidTransition indicates a requested status is outside the enum or not
// reachable from the document's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInsufficientBalance indicates a leave ledger operation would drive the
// remaining balance below zero.
var ErrInsufficientBalance = errors.New("insufficient leave balance")

// ErrInternal indicates an unexpected failure that should not be exposed to callers.
var ErrInternal = errors.New("internal error")
