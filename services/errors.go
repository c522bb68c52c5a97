package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError is returned for input the user can correct and resubmit.
type ValidationError struct {
	Message string
	Slots   []int // 1-based answer slots that were missing
}

func (e *ValidationError) Error() string {
	if len(e.Slots) == 0 {
		return e.Message
	}
	s := make([]string, len(e.Slots))
	for i, n := range e.Slots {
		s[i] = strconv.Itoa(n)
	}
	return e.Message + " (slots " + strings.Join(s, ", ") + ")"
}

const (
	ReasonNotFound         = "not_found"
	ReasonAlreadyResponded = "already_responded"
)

// NotEligibleError means the respondent does not exist or already answered.
type NotEligibleError struct {
	Reason string
}

func (e *NotEligibleError) Error() string {
	return "respondent not eligible: " + e.Reason
}

// AlreadyResponded reports whether err is a NotEligibleError for a completed respondent.
func AlreadyResponded(err error) bool {
	var ne *NotEligibleError
	return errors.As(err, &ne) && ne.Reason == ReasonAlreadyResponded
}

// StorageError wraps any persistence failure. Its text is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrChartNotFound      = errors.New("chart not found")
)

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
