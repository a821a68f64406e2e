package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolNotFound            = errors.New("external tool not found")
	ErrToolExecution           = errors.New("external tool execution failed")
	ErrRasterizer              = errors.New("rasterizer failure")
	ErrRepairFailed            = errors.New("pdf repair failed")
	ErrEmptyText               = errors.New("no text extracted")
	ErrClassificationParse     = errors.New("classification response not parseable")
	ErrClassificationTransport = errors.New("classification request failed")
	ErrMoveFailed              = errors.New("filesystem move failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ToolExitError carries the exit code and captured stderr of a failed
// child-process invocation so callers can match failure signatures.
type ToolExitError struct {
	Tool   string
	Code   int
	Stderr string
}

func (e *ToolExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if len(msg) > 512 {
		msg = msg[:512]
	}
	if msg == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.Code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.Code, msg)
}
