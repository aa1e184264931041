package xaml

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Error taxonomy. Every *ParseError satisfies errors.Is against exactly
// one of these.
var (
	ErrMalformedMarkup            = errors.New("malformed markup")
	ErrUnknownType                = errors.New("unknown type")
	ErrUnknownProperty            = errors.New("unknown property")
	ErrInvalidPropertyNameSyntax  = errors.New("invalid property name syntax")
	ErrUnbalancedConditionalScope = errors.New("unbalanced conditional scope")
)

var (
	ErrSchemaContextNotFound = errors.New("schema context not found")
	ErrReaderClosed          = errors.New("reader is closed")
)

// ErrorCode identifies a diagnostic. The code, a position and up to two
// string parameters are all an ErrorReporter receives.
type ErrorCode int

const (
	CodeMalformedMarkup ErrorCode = iota + 1
	CodeUnknownType
	CodeUnknownNamespace
	CodeUnknownProperty
	CodeUnknownAttachedProperty
	CodeCannotAddChildren
	CodeInvalidPropertyName
	CodeInvalidPropertyElement
	CodeUnbalancedConditionalScope
)

var codeTemplates = map[ErrorCode]string{
	CodeMalformedMarkup:            "malformed markup: %s",
	CodeUnknownType:                "the type '%s' was not found in namespace '%s'",
	CodeUnknownNamespace:           "unknown namespace '%s' for type '%s'",
	CodeUnknownProperty:            "unknown member '%s' on type '%s'",
	CodeUnknownAttachedProperty:    "unknown attachable member '%s' on type '%s'",
	CodeCannotAddChildren:          "cannot add children to type '%s'",
	CodeInvalidPropertyName:        "invalid property name '%s'",
	CodeInvalidPropertyElement:     "property element '%s' is not valid here",
	CodeUnbalancedConditionalScope: "conditional scope ended without a matching start",
}

var codeKinds = map[ErrorCode]error{
	CodeMalformedMarkup:            ErrMalformedMarkup,
	CodeUnknownType:                ErrUnknownType,
	CodeUnknownNamespace:           ErrUnknownType,
	CodeUnknownProperty:            ErrUnknownProperty,
	CodeUnknownAttachedProperty:    ErrUnknownProperty,
	CodeCannotAddChildren:          ErrUnknownProperty,
	CodeInvalidPropertyName:        ErrInvalidPropertyNameSyntax,
	CodeInvalidPropertyElement:     ErrInvalidPropertyNameSyntax,
	CodeUnbalancedConditionalScope: ErrUnbalancedConditionalScope,
}

// Message renders the English text for the code. Missing parameters are
// left empty and extra ones are ignored.
func (c ErrorCode) Message(params ...string) string {
	tmpl, ok := codeTemplates[c]
	if !ok {
		return fmt.Sprintf("unknown error code %d", int(c))
	}
	n := strings.Count(tmpl, "%s")
	args := make([]any, n)
	for i := range args {
		if i < len(params) {
			args[i] = params[i]
		} else {
			args[i] = ""
		}
	}
	return fmt.Sprintf(tmpl, args...)
}

// Kind returns the taxonomy sentinel the code belongs to.
func (c ErrorCode) Kind() error {
	return codeKinds[c]
}

func (c ErrorCode) String() string {
	switch c {
	case CodeMalformedMarkup:
		return "MalformedMarkup"
	case CodeUnknownType:
		return "UnknownType"
	case CodeUnknownNamespace:
		return "UnknownNamespace"
	case CodeUnknownProperty:
		return "UnknownProperty"
	case CodeUnknownAttachedProperty:
		return "UnknownAttachedProperty"
	case CodeCannotAddChildren:
		return "CannotAddChildren"
	case CodeInvalidPropertyName:
		return "InvalidPropertyName"
	case CodeInvalidPropertyElement:
		return "InvalidPropertyElement"
	case CodeUnbalancedConditionalScope:
		return "UnbalancedConditionalScope"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// ParseError is a diagnostic with its position. Err holds the
// underlying cause, if any.
type ParseError struct {
	Code   ErrorCode
	Line   int
	Column int
	Params []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Code.Message(e.Params...), e.Line, e.Column)
}

func (e *ParseError) Is(target error) bool {
	return target == e.Code.Kind()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
