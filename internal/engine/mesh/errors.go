package mesh

import (
	"errors"
	"fmt"
)

// ErrTooManyVertices is returned when expanded geometry cannot be addressed
// with 16-bit indices.
var ErrTooManyVertices = errors.New("mesh exceeds 65535 unique vertices")

// MalformedMeshError reports a structurally invalid record.
type MalformedMeshError struct {
	Line   int // 1-based source line, 0 when not line oriented
	Reason string
	Err    error
}

func (e *MalformedMeshError) Error() string {
	msg := e.Reason
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "malformed mesh: " + msg
}

func (e *MalformedMeshError) Unwrap() error {
	return e.Err
}

func malformed(line int, err error, format string, args ...any) *MalformedMeshError {
	return &MalformedMeshError{Line: line, Reason: fmt.Sprintf(format, args...), Err: err}
}
