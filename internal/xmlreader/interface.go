// Package xmlreader is a small pull tokenizer for the subset of XML that
// XAML markup uses: elements, attributes, character data, CDATA,
// comments and processing instructions. Document type declarations are
// rejected.
package xmlreader

import (
	"fmt"

	"github.com/lestrrat-go/strcursor"
	"github.com/lestrrat-go/xaml/internal/orderedmap"
	"github.com/lestrrat-go/xaml/internal/stack"
	"github.com/pkg/errors"
)

// MaxNameLength caps element, attribute and PI target names.
const MaxNameLength = 50000

var (
	ErrAttrValueNotFinished         = errors.New("attribute value not finished")
	ErrCDATANotFinished             = errors.New("invalid CDATA section (premature end)")
	ErrDocumentEnd                  = errors.New("extra content at document end")
	ErrDTDNotAllowed                = errors.New("document type declarations are not allowed")
	ErrDuplicateAttribute           = errors.New("attribute redefined")
	ErrEmptyDocument                = errors.New("start tag expected, '<' not found")
	ErrEqualSignRequired            = errors.New("'=' was required here")
	ErrGtRequired                   = errors.New("'>' was required here")
	ErrHyphenInComment              = errors.New("'--' not allowed in comment")
	ErrInvalidChar                  = errors.New("invalid char")
	ErrInvalidCharRef               = errors.New("invalid character reference")
	ErrInvalidComment               = errors.New("invalid comment section")
	ErrInvalidName                  = errors.New("invalid xml name")
	ErrInvalidProcessingInstruction = errors.New("invalid processing instruction")
	ErrInvalidVersionNum            = errors.New("invalid version")
	ErrInvalidXMLDecl               = errors.New("invalid XML declaration")
	ErrLtInAttributeValue           = errors.New("'<' not allowed in attribute value")
	ErrMisplacedCDATAEnd            = errors.New("misplaced CDATA end ']]>'")
	ErrNameRequired                 = errors.New("name is required")
	ErrNameTooLong                  = errors.New("name is too long")
	ErrPrematureEOF                 = errors.New("end of document reached")
	ErrQuoteRequired                = errors.New("string not started, expecting ' or \"")
	ErrSemicolonRequired            = errors.New("';' is required")
	ErrSpaceRequired                = errors.New("space required")
	ErrTagMismatch                  = errors.New("closing tag does not match")
	ErrUndeclaredEntity             = errors.New("undeclared entity")
	ErrXMLDeclNotAtStart            = errors.New("XML declaration allowed only at the start of the document")
)

// SyntaxError is returned for every well-formedness failure. Line and
// Column point at the cursor when the failure was detected.
type SyntaxError struct {
	Line   int
	Column int
	// Text of the offending line
	Context string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Err, e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

type Kind int

const (
	StartElement Kind = iota + 1
	EndElement
	CharData
	CDATA
	Comment
	ProcInst
)

func (k Kind) String() string {
	switch k {
	case StartElement:
		return "StartElement"
	case EndElement:
		return "EndElement"
	case CharData:
		return "CharData"
	case CDATA:
		return "CDATA"
	case Comment:
		return "Comment"
	case ProcInst:
		return "ProcInst"
	default:
		return "Unknown"
	}
}

type Attr struct {
	Prefix string
	Local  string
	Value  string
	Line   int
	Column int
}

// QName returns the attribute name as written.
func (a Attr) QName() string {
	if a.Prefix == "" {
		return a.Local
	}
	return a.Prefix + ":" + a.Local
}

// Token is one lexical unit. Prefix and Local hold the element name for
// StartElement and EndElement, and the target for ProcInst. Data holds
// the text of CharData, CDATA, Comment and ProcInst tokens.
type Token struct {
	Kind        Kind
	Prefix      string
	Local       string
	Attrs       []Attr
	SelfClosing bool
	Data        string
	Line        int
	Column      int
}

func (t Token) QName() string {
	if t.Prefix == "" {
		return t.Local
	}
	return t.Prefix + ":" + t.Local
}

type readerState int

const (
	psStart readerState = iota
	psProlog
	psContent
	psEpilog
	psEOF
)

type Reader struct {
	cursor *strcursor.RuneCursor
	// where the input was cut short, nil if it was not
	cut      *position
	atCut    bool
	state    readerState
	names    stack.Stack[string]
	attrs    *orderedmap.Map[string, Attr]
	err      error
	version  string
	encoding string
}
