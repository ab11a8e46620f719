package mirror

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// A TypeMismatchError describes an Any extraction or assignment whose
	// requested type does not match the stored one.
	TypeMismatchError struct {
		Want *Type // requested type
		Have *Type // stored type, nil when the Any is empty
	}
	// A DuplicateRegistrationError is raised when a permanent name or a type
	// is registered twice.
	DuplicateRegistrationError struct {
		Name string
		Type *Type
		Prev *Type  // type already holding Name, if any
		Held string // permanent name Type already holds, if any
	}
	// A CallError wraps a failure while invoking a reflected function.
	CallError struct {
		Func string
		Err  error
	}
	// An ArgumentError describes arguments that cannot be passed to a
	// reflected function.
	ArgumentError struct {
		Func  string
		Index int // -1 when the count is wrong
		Want  []*Type
		Have  []*Type
	}
	mirrorError string
)

var (
	ErrTypeMismatch          = mirrorError("type mismatch")
	ErrReadOnly              = mirrorError("read-only value")
	ErrNotFound              = mirrorError("not found")
	ErrDuplicateRegistration = mirrorError("duplicate registration")
	ErrInvalid               = mirrorError("invalid reflection")
)

func (err mirrorError) Error() string {
	return "mirror: " + string(err)
}

func newTypeMismatchError(want, have *Type) *TypeMismatchError {
	return &TypeMismatchError{Want: want, Have: have}
}

func (err *TypeMismatchError) Error() string {
	if err.Have == nil {
		return "mirror: cannot get " + err.Want.String() + " from empty value"
	}
	return "mirror: cannot get " + err.Want.String() + " from value of type " + err.Have.String()
}

func (err *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func (err *DuplicateRegistrationError) Error() string {
	if err.Prev != nil {
		return "mirror: permanent name " + err.Name + " already registered for " + err.Prev.String()
	}
	return "mirror: type " + err.Type.String() + " already registered as " + err.Held
}

func (err *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

func (err *CallError) Error() string {
	return "mirror: error calling " + err.Func + ": " + err.Err.Error()
}

// Unwrap returns the underlying error.
func (err *CallError) Unwrap() error {
	return err.Err
}

func (err *ArgumentError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf("mirror: %s takes %d arguments, got %d", err.Func, len(err.Want), len(err.Have))
	}
	var have string
	if err.Index < len(err.Have) {
		have = err.Have[err.Index].String()
	}
	return fmt.Sprintf("mirror: %s argument %d: cannot use %s as %s", err.Func, err.Index, have, err.Want[err.Index])
}

func (err *ArgumentError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// panicError turns a recovered value into an error.
func panicError(rec any) error {
	switch rec := rec.(type) {
	case error:
		return rec
	case string:
		return errors.New(rec)
	}
	return fmt.Errorf("%v", rec)
}

func typeList(typs []*Type) string {
	var bld strings.Builder
	bld.WriteByte('(')
	for idx, typ := range typs {
		if idx > 0 {
			bld.WriteString(", ")
		}
		bld.WriteString(typ.String())
	}
	bld.WriteByte(')')
	return bld.String()
}
