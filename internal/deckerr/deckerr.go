// Package deckerr defines the error kinds returned by profile and device
// operations.
//
// Every failure of a core operation carries exactly one Kind. Callers test for
// a kind with errors.Is:
//
//	if errors.Is(err, deckerr.DeviceNotFound) {
//		// stale device reference
//	}
package deckerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind uint8

const (
	Unknown Kind = iota
	ProfileNotFound
	DuplicateName
	DeviceNotFound
	DeviceTypeMismatch
	DeviceControlFailed
	StorageFailure
)

var kindNames = map[Kind]string{
	Unknown:             "unknown error",
	ProfileNotFound:     "profile not found",
	DuplicateName:       "duplicate profile name",
	DeviceNotFound:      "device not found",
	DeviceTypeMismatch:  "device type mismatch",
	DeviceControlFailed: "device control failed",
	StorageFailure:      "storage failure",
}

// String returns a short human readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error lets a Kind be used directly as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is an error tagged with a Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New returns an error of kind k with a formatted message.
func New(k Kind, format string, args ...any) error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind k. A nil err yields nil.
func Wrap(k Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
