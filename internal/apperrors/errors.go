package apperrors

import (
	"errors"
	"fmt"
)

// Sentinels. ErrNotFound is a lookup miss, not a failure; single-entity
// reads return it so the HTTP layer can answer 404 without log noise.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
)

// QueryFailedError wraps a store read/write error with the operation that
// issued it. The underlying message passes through untouched and no layer
// retries on it.
type QueryFailedError struct {
	Op  string
	Err error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("query failed: %s: %v", e.Op, e.Err)
}

func (e *QueryFailedError) Unwrap() error { return e.Err }

func QueryFailed(op string, err error) error {
	return &QueryFailedError{Op: op, Err: err}
}

// MalformedRecordError signals that a persisted row arrived without a field
// the transform layer requires.
type MalformedRecordError struct {
	Record string
	Field  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: missing %s", e.Record, e.Field)
}

func MalformedRecord(record, field string) error {
	return &MalformedRecordError{Record: record, Field: field}
}

// UploadRejectedError is raised by client-side validation before any storage
// call is made.
type UploadRejectedError struct {
	Reason string
}

func (e *UploadRejectedError) Error() string {
	return fmt.Sprintf("upload rejected: %s", e.Reason)
}

func UploadRejected(reason string) error {
	return &UploadRejectedError{Reason: reason}
}

func IsQueryFailed(err error) bool {
	var qf *QueryFailedError
	return errors.As(err, &qf)
}

func IsMalformedRecord(err error) bool {
	var mr *MalformedRecordError
	return errors.As(err, &mr)
}

func IsUploadRejected(err error) bool {
	var ur *UploadRejectedError
	return errors.As(err, &ur)
}
