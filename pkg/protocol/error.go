package protocol

import (
	"errors"

	lerrors "github.com/vango-dev/livedom/internal/errors"
)

// ErrorMessage is sent when an error occurs. Code is a registry code such
// as "L202".
type ErrorMessage struct {
	Code    string // Error code
	Message string // Human-readable error message
	Fatal   bool   // If true, connection should be closed
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	EncodeErrorMessageTo(e, em)
	return e.Bytes()
}

// EncodeErrorMessageTo encodes an ErrorMessage using the provided encoder.
//
//	[Code: string][Message: string][Fatal: bool]
func EncodeErrorMessageTo(e *Encoder, em *ErrorMessage) {
	e.WriteString(em.Code)
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	return DecodeErrorMessageFrom(d)
}

// DecodeErrorMessageFrom decodes an ErrorMessage from a decoder.
func DecodeErrorMessageFrom(d *Decoder) (*ErrorMessage, error) {
	code, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	message, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}

	return &ErrorMessage{
		Code:    code,
		Message: message,
		Fatal:   fatal,
	}, nil
}

// NewError creates a non-fatal ErrorMessage from any error. Registry errors
// keep their code; anything else is reported as "L000".
func NewError(err error) *ErrorMessage {
	em := &ErrorMessage{Code: lerrors.Code(err), Message: err.Error()}
	if em.Code == "" {
		em.Code = "L000"
	}
	var le *lerrors.Error
	if errors.As(err, &le) {
		em.Message = le.FormatCompact()
	}
	return em
}

// NewFatalError creates a fatal ErrorMessage from any error.
func NewFatalError(err error) *ErrorMessage {
	em := NewError(err)
	em.Fatal = true
	return em
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code + ": " + em.Message
	}
	return em.Code + ": " + em.Message
}

// IsFatal returns true if this error should close the connection.
func (em *ErrorMessage) IsFatal() bool {
	return em.Fatal
}
