// Package node defines XamlNode, the unit of the typed node stream the
// pull parser produces.
package node

import (
	"strconv"

	"github.com/lestrrat-go/xaml/schema"
)

// Kind represents the variant of a Node
type Kind int

const (
	StartObject Kind = iota + 1
	EndObject
	StartMember
	EndMember
	Text
	StartConditionalScope
	EndConditionalScope
	PrefixDefinition
)

func (k Kind) String() string {
	switch k {
	case StartObject:
		return "StartObject"
	case EndObject:
		return "EndObject"
	case StartMember:
		return "StartMember"
	case EndMember:
		return "EndMember"
	case Text:
		return "Text"
	case StartConditionalScope:
		return "StartConditionalScope"
	case EndConditionalScope:
		return "EndConditionalScope"
	case PrefixDefinition:
		return "PrefixDefinition"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// LineInfo is a 1-based position in the markup.
type LineInfo struct {
	Line   int
	Column int
}

func (li LineInfo) String() string {
	return strconv.Itoa(li.Line) + ":" + strconv.Itoa(li.Column)
}

// Node is an immutable parse event. Which accessors return meaningful
// values depends on Kind:
//
//	StartObject            Type
//	StartMember            Property
//	Text                   Text
//	StartConditionalScope  Predicate
//	PrefixDefinition       Namespace
type Node struct {
	kind Kind
	li   LineInfo
	typ  schema.Type
	prop schema.Property
	text string
	ns   *schema.Namespace
}

func NewStartObject(t schema.Type, li LineInfo) Node {
	return Node{kind: StartObject, li: li, typ: t}
}

func NewEndObject(li LineInfo) Node {
	return Node{kind: EndObject, li: li}
}

func NewStartMember(p schema.Property, li LineInfo) Node {
	return Node{kind: StartMember, li: li, prop: p}
}

func NewEndMember(li LineInfo) Node {
	return Node{kind: EndMember, li: li}
}

func NewText(s string, li LineInfo) Node {
	return Node{kind: Text, li: li, text: s}
}

func NewStartConditionalScope(predicate string, li LineInfo) Node {
	return Node{kind: StartConditionalScope, li: li, text: predicate}
}

func NewEndConditionalScope(li LineInfo) Node {
	return Node{kind: EndConditionalScope, li: li}
}

func NewPrefixDefinition(ns *schema.Namespace, li LineInfo) Node {
	return Node{kind: PrefixDefinition, li: li, ns: ns}
}

func (n Node) Kind() Kind {
	return n.kind
}

func (n Node) LineInfo() LineInfo {
	return n.li
}

// IsZero returns true for the zero Node, which is what a reader reports
// before the first Read.
func (n Node) IsZero() bool {
	return n.kind == 0
}

func (n Node) Type() schema.Type {
	return n.typ
}

func (n Node) Property() schema.Property {
	return n.prop
}

func (n Node) Text() string {
	if n.kind != Text {
		return ""
	}
	return n.text
}

func (n Node) Predicate() string {
	if n.kind != StartConditionalScope {
		return ""
	}
	return n.text
}

func (n Node) Namespace() *schema.Namespace {
	return n.ns
}

func (n Node) String() string {
	switch n.kind {
	case StartObject:
		return "StartObject(" + n.typ.String() + ")"
	case StartMember:
		return "StartMember(" + n.prop.String() + ")"
	case Text:
		return "Text(" + strconv.Quote(n.text) + ")"
	case StartConditionalScope:
		return "StartConditionalScope(" + n.text + ")"
	case PrefixDefinition:
		uri := n.ns.URI()
		if n.ns.IsConditional() {
			uri += "?" + n.ns.Predicate()
		}
		return "PrefixDefinition(" + n.ns.Prefix() + "=" + uri + ")"
	default:
		return n.kind.String()
	}
}
