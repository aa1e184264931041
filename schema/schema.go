// Package schema defines what the XAML parser needs from a schema
// context: namespaces, types and properties, and the rules for
// resolving markup names against them.
//
// Resolution never fails. A name that cannot be resolved produces an
// UnknownType or UnknownProperty carrying what was attempted, and it is
// up to the node stream validator to decide whether that is an error.
package schema

import "strings"

// Well known namespaces
const (
	XAMLNamespace          = "http://schemas.microsoft.com/winfx/2006/xaml"
	PresentationNamespace  = "http://schemas.microsoft.com/winfx/2006/xaml/presentation"
	XMLNamespace           = "http://www.w3.org/XML/1998/namespace"
	CompatibilityNamespace = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// Context resolves markup names. Both methods are total: a miss is
// reported through the returned value, never as an error.
type Context interface {
	ResolveType(namespaceURI, localName string) Type
	ResolveProperty(owner Type, localName string) Property
}

// Namespace maps a markup prefix to a namespace URI. A namespace URI of
// the form "uri?Predicate(args)" is conditional: URI() returns the part
// before the '?' and Predicate() the part after it.
type Namespace struct {
	prefix    string
	uri       string
	predicate string
	resolved  bool
}

func NewNamespace(prefix, uri string) *Namespace {
	ns := &Namespace{
		prefix:   prefix,
		uri:      uri,
		resolved: true,
	}
	if i := strings.IndexByte(uri, '?'); i > -1 {
		ns.uri = uri[:i]
		ns.predicate = uri[i+1:]
	}
	return ns
}

// UnresolvedNamespace is what an undeclared prefix resolves to.
func UnresolvedNamespace(prefix string) *Namespace {
	return &Namespace{prefix: prefix}
}

func (ns *Namespace) Prefix() string {
	return ns.prefix
}

func (ns *Namespace) URI() string {
	return ns.uri
}

func (ns *Namespace) Predicate() string {
	return ns.predicate
}

func (ns *Namespace) IsConditional() bool {
	return ns.predicate != ""
}

func (ns *Namespace) IsResolved() bool {
	return ns.resolved
}

// Type is either a *ResolvedType or an *UnknownType.
type Type interface {
	Name() string
	Namespace() string
	String() string
	xamlType()
}

// Property is one of *ResolvedProperty, *DirectiveProperty,
// *UnknownProperty or *UnknownContentProperty.
type Property interface {
	Name() string
	// Owner is nil for directives
	Owner() Type
	IsAttached() bool
	String() string
	xamlProperty()
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return "{" + ns + "}" + name
}

type ResolvedType struct {
	info *TypeInfo
}

func (*ResolvedType) xamlType() {}

func (t *ResolvedType) Info() *TypeInfo {
	return t.info
}

func (t *ResolvedType) Name() string {
	return t.info.Name
}

func (t *ResolvedType) Namespace() string {
	return t.info.Namespace
}

// ContentProperty returns the name of the property that receives child
// content, or "" if the type accepts none.
func (t *ResolvedType) ContentProperty() string {
	return t.info.ContentPropertyName()
}

func (t *ResolvedType) String() string {
	return qualify(t.info.Namespace, t.info.Name)
}

// UnknownType records a type name that could not be resolved.
type UnknownType struct {
	namespace         string
	prefix            string
	name              string
	namespaceResolved bool
}

func NewUnknownType(namespaceURI, prefix, name string, namespaceResolved bool) *UnknownType {
	return &UnknownType{
		namespace:         namespaceURI,
		prefix:            prefix,
		name:              name,
		namespaceResolved: namespaceResolved,
	}
}

func (*UnknownType) xamlType() {}

func (t *UnknownType) Name() string {
	return t.name
}

func (t *UnknownType) Namespace() string {
	return t.namespace
}

func (t *UnknownType) Prefix() string {
	return t.prefix
}

// NamespaceResolved is false when the namespace itself is not known,
// as opposed to a known namespace that lacks the type.
func (t *UnknownType) NamespaceResolved() bool {
	return t.namespaceResolved
}

func (t *UnknownType) String() string {
	if !t.namespaceResolved && t.namespace == "" && t.prefix != "" {
		return t.prefix + ":" + t.name
	}
	return qualify(t.namespace, t.name)
}

type ResolvedProperty struct {
	owner Type
	info  *PropertyInfo
}

func (*ResolvedProperty) xamlProperty() {}

func (p *ResolvedProperty) Info() *PropertyInfo {
	return p.info
}

func (p *ResolvedProperty) Name() string {
	return p.info.Name
}

func (p *ResolvedProperty) Owner() Type {
	return p.owner
}

func (p *ResolvedProperty) IsAttached() bool {
	return p.info.Attached
}

func (p *ResolvedProperty) String() string {
	return p.owner.Name() + "." + p.info.Name
}

// DirectiveProperty is a language-level member such as x:Name or
// xml:space. It belongs to no type.
type DirectiveProperty struct {
	namespace string
	name      string
}

func NewDirectiveProperty(namespaceURI, name string) *DirectiveProperty {
	return &DirectiveProperty{namespace: namespaceURI, name: name}
}

func (*DirectiveProperty) xamlProperty() {}

func (p *DirectiveProperty) Name() string {
	return p.name
}

func (p *DirectiveProperty) Namespace() string {
	return p.namespace
}

func (p *DirectiveProperty) Owner() Type {
	return nil
}

func (p *DirectiveProperty) IsAttached() bool {
	return false
}

func (p *DirectiveProperty) String() string {
	return qualify(p.namespace, p.name)
}

// UnknownProperty records a member name that could not be resolved on
// its owner.
type UnknownProperty struct {
	owner    Type
	name     string
	attached bool
}

func NewUnknownProperty(owner Type, name string, attached bool) *UnknownProperty {
	return &UnknownProperty{owner: owner, name: name, attached: attached}
}

func (*UnknownProperty) xamlProperty() {}

func (p *UnknownProperty) Name() string {
	return p.name
}

func (p *UnknownProperty) Owner() Type {
	return p.owner
}

func (p *UnknownProperty) IsAttached() bool {
	return p.attached
}

func (p *UnknownProperty) String() string {
	if p.owner == nil {
		return p.name
	}
	return p.owner.Name() + "." + p.name
}

// UnknownContentProperty stands in for the implicit content member of a
// type that does not accept content.
type UnknownContentProperty struct {
	owner Type
}

func NewUnknownContentProperty(owner Type) *UnknownContentProperty {
	return &UnknownContentProperty{owner: owner}
}

func (*UnknownContentProperty) xamlProperty() {}

func (p *UnknownContentProperty) Name() string {
	return "_UnknownContent"
}

func (p *UnknownContentProperty) Owner() Type {
	return p.owner
}

func (p *UnknownContentProperty) IsAttached() bool {
	return false
}

func (p *UnknownContentProperty) String() string {
	return p.owner.Name() + "._UnknownContent"
}

func IsUnknownType(t Type) bool {
	_, ok := t.(*UnknownType)
	return ok
}

func IsUnknownProperty(p Property) bool {
	switch p.(type) {
	case *UnknownProperty, *UnknownContentProperty:
		return true
	}
	return false
}
