// Package scanner turns XML tokens into XAML lexical items: object
// elements, property elements, end tags and text. It owns the namespace
// prefix scope stack and applies the XAML whitespace rules to text.
package scanner

import (
	"io"
	"strings"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xaml/internal/pool"
	"github.com/lestrrat-go/xaml/internal/stack"
	"github.com/lestrrat-go/xaml/internal/stack/nsstack"
	"github.com/lestrrat-go/xaml/internal/xmlreader"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/pkg/errors"
)

var ErrNotInitialized = errors.New("scanner was not initialized")

type Kind int

const (
	StartObject Kind = iota + 1
	StartProperty
	EndTag
	Text
)

func (k Kind) String() string {
	switch k {
	case StartObject:
		return "StartObject"
	case StartProperty:
		return "StartProperty"
	case EndTag:
		return "EndTag"
	case Text:
		return "Text"
	default:
		return "Unknown"
	}
}

// Attr is an attribute other than a namespace declaration. Namespace is
// nil for unprefixed attributes.
type Attr struct {
	Prefix    string
	Local     string
	Value     string
	Namespace *schema.Namespace
	Line      int
	Column    int
}

type Item struct {
	Kind   Kind
	Prefix string
	Local  string
	// Namespace the element prefix resolved to. Never nil for start
	// items; check IsResolved for undeclared prefixes.
	Namespace *schema.Namespace
	// DefaultNamespace is what the empty prefix maps to on this element
	DefaultNamespace *schema.Namespace
	Declarations     []*schema.Namespace
	Attrs            []Attr
	// IsEmpty is set for self-closing elements. No EndTag follows them.
	IsEmpty bool
	Text    string
	Line    int
	Column  int
}

type elementScope struct {
	preserve  bool
	ignorable []string
}

type Scanner struct {
	reader      *xmlreader.Reader
	namespaces  *nsstack.Stack
	scopes      stack.Stack[elementScope]
	peeked      *xmlreader.Token
	afterStart  bool
	initialized bool
}

func New(r *xmlreader.Reader) *Scanner {
	return &Scanner{
		reader:     r,
		namespaces: nsstack.New(),
	}
}

// Init positions the scanner on the root element, skipping prolog
// comments and processing instructions.
func (s *Scanner) Init() error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	for {
		tok, err := s.reader.Next()
		if err != nil {
			if err == io.EOF {
				return xmlreader.ErrEmptyDocument
			}
			return err
		}
		if tok.Kind == xmlreader.StartElement {
			s.peeked = &tok
			s.initialized = true
			return nil
		}
	}
}

// Position returns where the underlying tokenizer currently is.
func (s *Scanner) Position() (line, column int) {
	return s.reader.LineNumber(), s.reader.Column()
}

func (s *Scanner) nextToken() (xmlreader.Token, error) {
	if tok := s.peeked; tok != nil {
		s.peeked = nil
		return *tok, nil
	}
	return s.reader.Next()
}

// Next returns the next item, or io.EOF after the root element closed.
func (s *Scanner) Next() (item Item, err error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker().BindError(&err)
		defer g.End()
	}

	if !s.initialized {
		return Item{}, ErrNotInitialized
	}

	for {
		tok, err := s.nextToken()
		if err != nil {
			return Item{}, err
		}

		switch tok.Kind {
		case xmlreader.StartElement:
			item, skipped, err := s.startElement(tok)
			if err != nil {
				return Item{}, err
			}
			if skipped {
				continue
			}
			return item, nil
		case xmlreader.EndElement:
			s.namespaces.PopScope()
			s.scopes.Pop()
			s.afterStart = false
			return Item{
				Kind:   EndTag,
				Prefix: tok.Prefix,
				Local:  tok.Local,
				Line:   tok.Line,
				Column: tok.Column,
			}, nil
		case xmlreader.CharData, xmlreader.CDATA:
			item, ok, err := s.text(tok)
			if err != nil {
				return Item{}, err
			}
			if ok {
				return item, nil
			}
		}
		// comments and processing instructions carry nothing for XAML
	}
}

func (s *Scanner) isIgnorable(ns *schema.Namespace) bool {
	if ns == nil || !ns.IsResolved() {
		return false
	}
	found := false
	s.scopes.Walk(func(sc elementScope) bool {
		for _, uri := range sc.ignorable {
			if uri == ns.URI() {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func (s *Scanner) lookup(prefix string) *schema.Namespace {
	if ns, ok := s.namespaces.Lookup(prefix); ok {
		return ns
	}
	return schema.UnresolvedNamespace(prefix)
}

func (s *Scanner) startElement(tok xmlreader.Token) (Item, bool, error) {
	s.namespaces.PushScope()
	for _, attr := range tok.Attrs {
		switch {
		case attr.Prefix == "" && attr.Local == "xmlns":
			s.namespaces.Declare("", attr.Value)
		case attr.Prefix == "xmlns":
			s.namespaces.Declare(attr.Local, attr.Value)
		}
	}

	var sc elementScope
	if parent, ok := s.scopes.Top(); ok {
		sc.preserve = parent.preserve
	}

	item := Item{
		Kind:             StartObject,
		Prefix:           tok.Prefix,
		Local:            tok.Local,
		Namespace:        s.lookup(tok.Prefix),
		DefaultNamespace: s.lookup(""),
		Declarations:     s.namespaces.Declared(),
		IsEmpty:          tok.SelfClosing,
		Line:             tok.Line,
		Column:           tok.Column,
	}
	if strings.IndexByte(tok.Local, '.') > -1 {
		item.Kind = StartProperty
	}

	attrs := make([]Attr, 0, len(tok.Attrs))
	for _, attr := range tok.Attrs {
		if attr.Prefix == "xmlns" || (attr.Prefix == "" && attr.Local == "xmlns") {
			continue
		}
		a := Attr{
			Prefix: attr.Prefix,
			Local:  attr.Local,
			Value:  attr.Value,
			Line:   attr.Line,
			Column: attr.Column,
		}
		if attr.Prefix != "" {
			a.Namespace = s.lookup(attr.Prefix)
		}
		if a.Namespace != nil && a.Namespace.IsResolved() {
			switch {
			case a.Namespace.URI() == schema.CompatibilityNamespace && a.Local == "Ignorable":
				for _, prefix := range strings.Fields(a.Value) {
					if ns, ok := s.namespaces.Lookup(prefix); ok {
						sc.ignorable = append(sc.ignorable, ns.URI())
					}
				}
				continue
			case a.Namespace.URI() == schema.XMLNamespace && a.Local == "space":
				sc.preserve = a.Value == "preserve"
			}
		}
		attrs = append(attrs, a)
	}

	s.scopes.Push(sc)

	if s.isIgnorable(item.Namespace) {
		if pdebug.Enabled {
			pdebug.Printf("skipping ignorable element %s", tok.QName())
		}
		if !tok.SelfClosing {
			if err := s.skipSubtree(); err != nil {
				return Item{}, false, err
			}
		}
		s.scopes.Pop()
		s.namespaces.PopScope()
		return Item{}, true, nil
	}

	for _, a := range attrs {
		if s.isIgnorable(a.Namespace) {
			continue
		}
		item.Attrs = append(item.Attrs, a)
	}

	if tok.SelfClosing {
		s.scopes.Pop()
		s.namespaces.PopScope()
		s.afterStart = false
	} else {
		s.afterStart = true
	}
	return item, false, nil
}

func (s *Scanner) skipSubtree() error {
	depth := 1
	for depth > 0 {
		tok, err := s.nextToken()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case xmlreader.StartElement:
			if !tok.SelfClosing {
				depth++
			}
		case xmlreader.EndElement:
			depth--
		}
	}
	return nil
}

// text coalesces adjacent character data and CDATA tokens into a single
// Text item. ok is false if nothing is left after whitespace handling.
func (s *Scanner) text(first xmlreader.Token) (Item, bool, error) {
	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	buf = append(buf, first.Data...)
	var next xmlreader.Token
	for {
		tok, err := s.reader.Next()
		if err != nil {
			return Item{}, false, err
		}
		if tok.Kind == xmlreader.CharData || tok.Kind == xmlreader.CDATA {
			buf = append(buf, tok.Data...)
			continue
		}
		if tok.Kind == xmlreader.Comment || tok.Kind == xmlreader.ProcInst {
			continue
		}
		next = tok
		break
	}
	s.peeked = &next

	var preserve bool
	if sc, ok := s.scopes.Top(); ok {
		preserve = sc.preserve
	}

	var txt string
	if preserve {
		txt = string(buf)
	} else {
		txt = collapseWhitespace(buf, s.afterStart, next.Kind == xmlreader.EndElement)
		if txt == "" {
			return Item{}, false, nil
		}
	}

	s.afterStart = false
	return Item{
		Kind:   Text,
		Text:   txt,
		Line:   first.Line,
		Column: first.Column,
	}, true, nil
}

func isXMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func collapseWhitespace(b []byte, trimLeading, trimTrailing bool) string {
	var sb strings.Builder
	sb.Grow(len(b))
	inSpace := false
	for _, c := range b {
		if isXMLSpace(c) {
			inSpace = true
			continue
		}
		if inSpace && (sb.Len() > 0 || !trimLeading) {
			sb.WriteByte(' ')
		}
		inSpace = false
		sb.WriteByte(c)
	}
	if sb.Len() == 0 {
		return ""
	}
	if inSpace && !trimTrailing {
		sb.WriteByte(' ')
	}
	return sb.String()
}
