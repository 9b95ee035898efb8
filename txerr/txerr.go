// Package txerr defines the error kinds returned while building and signing
// a transaction.
package txerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. A Kind is itself an error so callers can write
// errors.Is(err, txerr.InsufficientFunds).
type Kind uint8

const (
	Unknown Kind = iota
	InvalidAddress
	InvalidPrivateKey
	InsufficientFunds
	EncodingError
	SerializationError
	SigningError
)

var kindNames = [...]string{
	Unknown:            "unknown error",
	InvalidAddress:     "invalid address",
	InvalidPrivateKey:  "invalid private key",
	InsufficientFunds:  "insufficient funds",
	EncodingError:      "encoding error",
	SerializationError: "serialization error",
	SigningError:       "signing error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) Error() string { return k.String() }

// Error carries the kind of a failure, the operation that produced it and
// the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New returns an *Error of kind k for op with a formatted cause.
func New(k Kind, op, format string, args ...any) error {
	return &Error{Kind: k, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap returns an *Error of kind k for op wrapping err. A nil err yields nil.
// If err already carries a Kind it is kept as is.
func Wrap(k Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return &Error{Kind: k, Op: op, Err: err}
}

// KindOf returns the Kind carried by err, or Unknown.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return Unknown
}
