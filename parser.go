package xaml

import (
	"io"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xaml/internal/scanner"
	"github.com/lestrrat-go/xaml/internal/stack"
	"github.com/lestrrat-go/xaml/internal/xmlreader"
	"github.com/lestrrat-go/xaml/node"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/lestrrat-go/xaml/xamlname"
	"github.com/pkg/errors"
)

// Members of the XAML language namespace that are understood as
// directives. Anything else under that namespace is an unknown member.
var knownDirectives = map[string]struct{}{
	"Name":              {},
	"Key":               {},
	"Class":             {},
	"Uid":               {},
	"FieldModifier":     {},
	"ClassModifier":     {},
	"Load":              {},
	"DeferLoadStrategy": {},
	"Phase":             {},
	"ConnectionId":      {},
	"Subclass":          {},
	"DefaultBindMode":   {},
}

var xmlDirectives = map[string]struct{}{
	"lang":  {},
	"space": {},
}

type frameKind int

const (
	objectFrame frameKind = iota + 1
	memberFrame
)

type frame struct {
	kind frameKind
	// object frames only
	typ schema.Type
	// member frames only: opened for content rather than by a property
	// element
	implicit bool
	// closing the frame also closes a conditional scope
	conditional bool
}

// pullParser turns scanner items into nodes. One item can produce many
// nodes, so they are queued and handed out one at a time.
type pullParser struct {
	sc      schema.Context
	scanner *scanner.Scanner
	frames  stack.Stack[frame]
	queue   []node.Node
	head    int
	done    bool
}

func newPullParser(sc schema.Context, s *scanner.Scanner) *pullParser {
	return &pullParser{
		sc:      sc,
		scanner: s,
	}
}

func (p *pullParser) emit(n node.Node) {
	p.queue = append(p.queue, n)
}

func (p *pullParser) next() (n node.Node, err error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker().BindError(&err)
		defer g.End()
	}

	for p.head >= len(p.queue) {
		p.queue = p.queue[:0]
		p.head = 0
		if p.done {
			return node.Node{}, io.EOF
		}

		item, err := p.scanner.Next()
		if err != nil {
			if err == io.EOF {
				if p.frames.Len() > 0 {
					line, column := p.scanner.Position()
					return node.Node{}, newParseError(CodeMalformedMarkup, node.LineInfo{Line: line, Column: column}, xmlreader.ErrPrematureEOF, xmlreader.ErrPrematureEOF.Error())
				}
				p.done = true
				continue
			}
			return node.Node{}, malformed(err)
		}

		if err := p.translate(item); err != nil {
			return node.Node{}, err
		}
	}

	n = p.queue[p.head]
	p.queue[p.head] = node.Node{}
	p.head++
	if pdebug.Enabled {
		pdebug.Printf("%s at %s", n, n.LineInfo())
	}
	return n, nil
}

// malformed converts a tokenizer error into a *ParseError that keeps
// the tokenizer's position.
func malformed(err error) error {
	var serr *xmlreader.SyntaxError
	if errors.As(err, &serr) {
		return newParseError(CodeMalformedMarkup, node.LineInfo{Line: serr.Line, Column: serr.Column}, err, serr.Err.Error())
	}
	return newParseError(CodeMalformedMarkup, node.LineInfo{}, err, err.Error())
}

func (p *pullParser) translate(item scanner.Item) error {
	li := node.LineInfo{Line: item.Line, Column: item.Column}
	switch item.Kind {
	case scanner.StartObject:
		return p.startObject(item, li)
	case scanner.StartProperty:
		return p.startProperty(item, li)
	case scanner.Text:
		if err := p.enterContent(li); err != nil {
			return err
		}
		p.emit(node.NewText(item.Text, li))
	case scanner.EndTag:
		p.closeImplicitMember(li)
		p.closeFrame(li)
	}
	return nil
}

// resolveType never fails. Unknown types carry the prefix and whether
// the namespace itself was known.
func (p *pullParser) resolveType(ns *schema.Namespace, local string) schema.Type {
	if !ns.IsResolved() {
		return schema.NewUnknownType("", ns.Prefix(), local, false)
	}
	t := p.sc.ResolveType(ns.URI(), local)
	if ut, ok := t.(*schema.UnknownType); ok {
		return schema.NewUnknownType(ns.URI(), ns.Prefix(), local, ut.NamespaceResolved())
	}
	return t
}

func sameType(a, b schema.Type) bool {
	if ra, ok := a.(*schema.ResolvedType); ok {
		if rb, ok := b.(*schema.ResolvedType); ok {
			return ra.Info() == rb.Info()
		}
		return false
	}
	return a.Namespace() == b.Namespace() && a.Name() == b.Name()
}

// enterContent makes sure content can be added at the current position,
// opening the implicit content member of the current object if needed.
func (p *pullParser) enterContent(li node.LineInfo) error {
	top, ok := p.frames.Top()
	if !ok {
		return newParseError(CodeMalformedMarkup, li, nil, "content outside of the root element")
	}
	if top.kind != objectFrame {
		return nil
	}

	var prop schema.Property
	if rt, ok := top.typ.(*schema.ResolvedType); ok && rt.ContentProperty() != "" {
		prop = p.sc.ResolveProperty(rt, rt.ContentProperty())
	} else {
		prop = schema.NewUnknownContentProperty(top.typ)
	}
	p.emit(node.NewStartMember(prop, li))
	p.frames.Push(frame{kind: memberFrame, implicit: true})
	return nil
}

func (p *pullParser) closeImplicitMember(li node.LineInfo) {
	if top, ok := p.frames.Top(); ok && top.kind == memberFrame && top.implicit {
		p.emit(node.NewEndMember(li))
		p.frames.Pop()
	}
}

func (p *pullParser) closeFrame(li node.LineInfo) {
	top, ok := p.frames.Top()
	if !ok {
		return
	}
	if top.kind == objectFrame {
		p.emit(node.NewEndObject(li))
	} else {
		p.emit(node.NewEndMember(li))
	}
	if top.conditional {
		p.emit(node.NewEndConditionalScope(li))
	}
	p.frames.Pop()
}

func (p *pullParser) prefixDefinitions(item scanner.Item, li node.LineInfo) {
	for _, ns := range item.Declarations {
		p.emit(node.NewPrefixDefinition(ns, li))
	}
}

func (p *pullParser) startObject(item scanner.Item, li node.LineInfo) error {
	if p.frames.Len() > 0 {
		if err := p.enterContent(li); err != nil {
			return err
		}
	}

	p.prefixDefinitions(item, li)

	typ := p.resolveType(item.Namespace, item.Local)
	conditional := item.Namespace.IsConditional()
	if conditional {
		p.emit(node.NewStartConditionalScope(item.Namespace.Predicate(), li))
	}
	p.emit(node.NewStartObject(typ, li))
	p.frames.Push(frame{kind: objectFrame, typ: typ, conditional: conditional})

	for _, attr := range item.Attrs {
		if err := p.attribute(typ, item, attr); err != nil {
			return err
		}
	}

	if item.IsEmpty {
		p.closeFrame(li)
	}
	return nil
}

func (p *pullParser) attribute(owner schema.Type, item scanner.Item, attr scanner.Attr) error {
	li := node.LineInfo{Line: attr.Line, Column: attr.Column}
	ns := attr.Namespace

	var prop schema.Property
	switch {
	case ns != nil && !ns.IsResolved():
		prop = schema.NewUnknownProperty(owner, attr.Local, false)
	case ns != nil && ns.URI() == schema.XAMLNamespace:
		if _, ok := knownDirectives[attr.Local]; ok {
			prop = schema.NewDirectiveProperty(schema.XAMLNamespace, attr.Local)
		} else {
			prop = schema.NewUnknownProperty(owner, attr.Local, false)
		}
	case ns != nil && ns.URI() == schema.XMLNamespace:
		if _, ok := xmlDirectives[attr.Local]; ok {
			prop = schema.NewDirectiveProperty(schema.XMLNamespace, attr.Local)
		} else {
			prop = schema.NewUnknownProperty(owner, attr.Local, false)
		}
	default:
		pn, err := xamlname.ParsePropertyName(attr.Prefix, attr.Local)
		if err != nil {
			return newParseError(CodeInvalidPropertyName, li, err, attr.Local)
		}
		if !pn.IsDotted() {
			prop = p.sc.ResolveProperty(owner, pn.Name())
			break
		}
		// an unprefixed owner lives in the default namespace
		ownerNS := ns
		if ownerNS == nil {
			ownerNS = item.DefaultNamespace
		}
		prop = p.memberOf(owner, p.resolveType(ownerNS, pn.OwnerName()), pn.Name())
	}

	conditional := ns != nil && ns.IsConditional()
	if conditional {
		p.emit(node.NewStartConditionalScope(ns.Predicate(), li))
	}
	p.emit(node.NewStartMember(prop, li))
	p.emit(node.NewText(attr.Value, li))
	p.emit(node.NewEndMember(li))
	if conditional {
		p.emit(node.NewEndConditionalScope(li))
	}
	return nil
}

// derivesFrom reports whether base is one of the base types of t
func derivesFrom(t, base schema.Type) bool {
	rt, ok := t.(*schema.ResolvedType)
	if !ok {
		return false
	}
	rb, ok := base.(*schema.ResolvedType)
	if !ok {
		return false
	}
	for ti := rt.Info().Base; ti != nil; ti = ti.Base {
		if ti == rb.Info() {
			return true
		}
	}
	return false
}

// memberOf resolves name given as Owner.Name on an object of type
// current. An owner that current does not derive from makes it an
// attached property, so the owner must declare name as attachable.
func (p *pullParser) memberOf(current, owner schema.Type, name string) schema.Property {
	if sameType(current, owner) {
		return p.sc.ResolveProperty(current, name)
	}
	prop := p.sc.ResolveProperty(owner, name)
	if derivesFrom(current, owner) {
		return prop
	}
	if !prop.IsAttached() {
		return schema.NewUnknownProperty(owner, name, true)
	}
	return prop
}

func (p *pullParser) startProperty(item scanner.Item, li node.LineInfo) error {
	p.closeImplicitMember(li)

	top, ok := p.frames.Top()
	if !ok || top.kind != objectFrame {
		return newParseError(CodeInvalidPropertyElement, li, nil, item.Local)
	}
	if len(item.Attrs) > 0 {
		return newParseError(CodeInvalidPropertyElement, li, nil, item.Local)
	}

	pn, err := xamlname.ParsePropertyName(item.Prefix, item.Local)
	if err != nil {
		return newParseError(CodeInvalidPropertyName, li, err, item.Local)
	}
	prop := p.memberOf(top.typ, p.resolveType(item.Namespace, pn.OwnerName()), pn.Name())

	p.prefixDefinitions(item, li)
	conditional := item.Namespace.IsConditional()
	if conditional {
		p.emit(node.NewStartConditionalScope(item.Namespace.Predicate(), li))
	}
	p.emit(node.NewStartMember(prop, li))
	p.frames.Push(frame{kind: memberFrame, conditional: conditional})

	if item.IsEmpty {
		p.closeFrame(li)
	}
	return nil
}
