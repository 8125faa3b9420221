package signer

import "fmt"

// DecodeError reports a secret key or transaction blob that could not be
// decoded into the expected shape. It is fatal to the operation it occurs in.
type DecodeError struct {
	Msg string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SigningError reports a transaction whose required signer slots could not
// all be filled with verifying signatures.
type SigningError struct {
	Msg string
	Err error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *SigningError) Unwrap() error { return e.Err }
