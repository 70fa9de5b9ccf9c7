package evmvote

import (
	"fmt"

	"golang.org/x/xerrors"
)

// The three kinds of failure a wallet session reports. None of them is
// retried: the caller decides what to do.
var (
	// ErrWalletConnectionFailed is returned when the user cancels the wallet
	// dialog or when the wallet or the node cannot be reached.
	ErrWalletConnectionFailed = xerrors.New("wallet connection failed")
	// ErrContractCallFailed is returned when a read call to the contract
	// fails, either on the network or while decoding the result.
	ErrContractCallFailed = xerrors.New("contract call failed")
	// ErrTransactionFailed is returned when a transaction cannot be
	// submitted or when its confirmation fails.
	ErrTransactionFailed = xerrors.New("transaction failed")
)

// Error is a wrapper around an standard error that allows
// to print the stack trace from the call of the constructor.
type Error struct {
	kind  error
	err   error
	msg   string
	frame xerrors.Frame
}

// NewError returns an error of the given kind caused by err. Both the kind
// and the cause can be matched with errors.Is.
func NewError(kind error, err error) error {
	if err == nil {
		err = kind
	}
	return &Error{
		kind:  kind,
		err:   err,
		msg:   kind.Error(),
		frame: xerrors.Caller(1),
	}
}

// ErrorOrNil returns the error if any with the stack trace
// beginning at the call of the function.
func ErrorOrNil(err error, msg string) error {
	return ErrorOrNilSkip(err, msg, 1)
}

// ErrorOrNilSkip returns the error if any with the stack trace
// beginning at the call of the skip-nth caller.
func ErrorOrNilSkip(err error, msg string, skip int) error {
	if err == nil {
		return nil
	}
	return &Error{
		err:   err,
		msg:   msg,
		frame: xerrors.Caller(skip),
	}
}

// WrapError returns a wrapper of the error is it can be used
// for comparison.
func WrapError(err error) error {
	return ErrorOrNilSkip(err, "", 2)
}

func (e *Error) Error() string {
	if e.err == e.kind {
		return e.msg
	}
	if e.msg != "" {
		return e.msg + ": " + fmt.Sprintf("%v", e.err)
	}
	return fmt.Sprintf("%v", e.err)
}

// Is reports whether the target is the kind of the error.
func (e *Error) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

// Unwrap returns the next error in the chain.
func (e *Error) Unwrap() error {
	return e.err
}

// Format prints the error to the formatter.
func (e *Error) Format(f fmt.State, c rune) {
	xerrors.FormatError(e, f, c)
}

// FormatError prints the error to the printer. It prints
// the stack trace when the '+' is used in combination with
// 'v'.
func (e *Error) FormatError(p xerrors.Printer) error {
	if e.err == e.kind {
		p.Printf("%s", e.msg)
	} else if e.msg != "" {
		p.Printf("%s: %v", e.msg, e.err)
	} else {
		p.Printf("%v", e.err)
	}

	if p.Detail() {
		e.frame.Format(p)
		if e.err != e.kind {
			p.Printf("%+v", e.err)
		}
	}
	return nil
}
