package structural

import (
	"errors"
	"strings"

	goerrors "github.com/go-errors/errors"
)

// ErrInvalid is matched by every [*Error] via [errors.Is].
var ErrInvalid = errors.New("CustomResourceDefinition is invalid")

// Reasons reported by [Complete].
const (
	ReasonItemsArray   = "`items` must be a schema object and not an array"
	ReasonTypeArray    = "`type` must be a type and not an array"
	ReasonTypeMismatch = "`type` must be same as parent"
	ReasonPropertyBool = "value in `properties` must be a schema object and not a bool"
)

// Error describes the first structural rule violated by a schema.
type Error struct {
	stack *goerrors.Error

	// Reason describes the violated rule.
	Reason string
	// Path is the JSON pointer of the offending node, relative to the root
	// passed to [Complete]. Empty when the root itself is at fault.
	Path string
}

func newError(reason string) *Error {
	return &Error{
		Reason: reason,
		stack:  goerrors.Wrap(reason, 1),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := ErrInvalid.Error() + ": " + e.Reason
	if e.Path != "" {
		msg += " at " + e.Path
	}

	return msg
}

// Unwrap returns [ErrInvalid].
func (e *Error) Unwrap() error {
	return ErrInvalid
}

// Stack returns the call stack captured when the error was created,
// formatted like [runtime/debug.Stack].
func (e *Error) Stack() []byte {
	return e.stack.Stack()
}

// StackFrames returns the call stack captured when the error was created.
func (e *Error) StackFrames() []goerrors.StackFrame {
	return e.stack.StackFrames()
}

// ErrorStack returns the error message followed by the captured call stack.
func (e *Error) ErrorStack() string {
	return e.Error() + "\n" + string(e.Stack())
}

// atPath prefixes the path of err with the given JSON pointer tokens, if err
// is an [*Error]. Other errors are returned unchanged.
func atPath(err error, tokens ...string) error {
	var serr *Error
	if !errors.As(err, &serr) {
		return err
	}

	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteByte('/')
		sb.WriteString(escapeToken(tok))
	}

	serr.Path = sb.String() + serr.Path

	return err
}

var tokenEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// escapeToken escapes a JSON pointer reference token (RFC 6901).
func escapeToken(tok string) string {
	return tokenEscaper.Replace(tok)
}
