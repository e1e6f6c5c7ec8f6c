package runtime

import (
	"errors"
	"fmt"

	"github.com/panyam/ion/decl"
)

var (
	ErrNotImplemented       = errors.New("evaluation for this node type not implemented")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrMissingSchema        = errors.New("missing schema")
	ErrFieldMismatch        = errors.New("field mismatch")
	ErrFieldNotFound        = errors.New("field not found")
	ErrExtraField           = errors.New("extra field")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrModuloByZero         = errors.New("modulo by zero")
	ErrInvalidOperands      = errors.New("invalid operands")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrReservedName         = errors.New("reserved name")
	ErrSchemaDepth          = errors.New("schema nesting too deep")

	// Scope chain errors live with the scope.
	ErrUnboundName      = decl.ErrUnboundName
	ErrDuplicateBinding = decl.ErrDuplicateBinding
	ErrConstViolation   = decl.ErrConstViolation
	ErrAliasCycle       = decl.ErrAliasCycle
)

// EvalError ties a failure to the statement that caused it.
type EvalError struct {
	Pos decl.Location
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos.LineColStr(), e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// atNode wraps err with the position of node unless it already carries one.
func atNode(node decl.Node, err error) error {
	if err == nil || node == nil {
		return err
	}
	var ee *EvalError
	if errors.As(err, &ee) {
		return err
	}
	return &EvalError{Pos: node.Pos(), Err: err}
}
