package schema

import (
	"github.com/lestrrat-go/xaml/internal/orderedmap"
	"github.com/pkg/errors"
)

var (
	ErrDuplicateType     = errors.New("type already defined")
	ErrDuplicateProperty = errors.New("property already defined")
	ErrBaseTypeCycle     = errors.New("base type chain forms a cycle")
	ErrBaseTypeNotFound  = errors.New("base type not found")
)

type PropertyInfo struct {
	Name          string
	Attached      bool
	DeclaringType *TypeInfo
}

type TypeInfo struct {
	Namespace       string
	Name            string
	Base            *TypeInfo
	ContentProperty string
	properties      *orderedmap.Map[string, *PropertyInfo]
}

func NewTypeInfo(namespaceURI, name string) *TypeInfo {
	return &TypeInfo{
		Namespace:  namespaceURI,
		Name:       name,
		properties: orderedmap.New[string, *PropertyInfo](),
	}
}

func (ti *TypeInfo) addProperty(name string, attached bool) error {
	return ti.properties.Set(name, &PropertyInfo{
		Name:          name,
		Attached:      attached,
		DeclaringType: ti,
	})
}

// AddProperty declares a property. It is meant for building tables, so
// it panics on a duplicate name.
func (ti *TypeInfo) AddProperty(names ...string) *TypeInfo {
	for _, name := range names {
		if err := ti.addProperty(name, false); err != nil {
			panic(errors.Wrapf(ErrDuplicateProperty, "%s.%s", ti.Name, name))
		}
	}
	return ti
}

// AddAttachedProperty declares attachable properties owned by this type.
func (ti *TypeInfo) AddAttachedProperty(names ...string) *TypeInfo {
	for _, name := range names {
		if err := ti.addProperty(name, true); err != nil {
			panic(errors.Wrapf(ErrDuplicateProperty, "%s.%s", ti.Name, name))
		}
	}
	return ti
}

func (ti *TypeInfo) SetContentProperty(name string) *TypeInfo {
	ti.ContentProperty = name
	return ti
}

func (ti *TypeInfo) SetBase(base *TypeInfo) *TypeInfo {
	ti.Base = base
	return ti
}

// LookupProperty finds a property on the type or its base types.
func (ti *TypeInfo) LookupProperty(name string) (*PropertyInfo, bool) {
	for t := ti; t != nil; t = t.Base {
		if pi, ok := t.properties.Get(name); ok {
			return pi, true
		}
	}
	return nil, false
}

// ContentPropertyName returns the nearest content property declared on
// the type or its base types.
func (ti *TypeInfo) ContentPropertyName() string {
	for t := ti; t != nil; t = t.Base {
		if t.ContentProperty != "" {
			return t.ContentProperty
		}
	}
	return ""
}

// Static is a Context backed by in-memory tables.
type Static struct {
	namespaces *orderedmap.Map[string, *orderedmap.Map[string, *ResolvedType]]
}

var _ Context = (*Static)(nil)

func NewStatic() *Static {
	return &Static{
		namespaces: orderedmap.New[string, *orderedmap.Map[string, *ResolvedType]](),
	}
}

// AddNamespace makes a namespace known even if it declares no types.
func (s *Static) AddNamespace(uri string) {
	if _, ok := s.namespaces.Get(uri); ok {
		return
	}
	_ = s.namespaces.Set(uri, orderedmap.New[string, *ResolvedType]())
}

func (s *Static) AddType(ti *TypeInfo) error {
	s.AddNamespace(ti.Namespace)
	types, _ := s.namespaces.Get(ti.Namespace)
	if err := types.Set(ti.Name, &ResolvedType{info: ti}); err != nil {
		return ErrDuplicateType
	}
	return nil
}

// LookupType returns the TypeInfo registered under namespace and name.
func (s *Static) LookupType(namespaceURI, name string) (*TypeInfo, bool) {
	types, ok := s.namespaces.Get(namespaceURI)
	if !ok {
		return nil, false
	}
	rt, ok := types.Get(name)
	if !ok {
		return nil, false
	}
	return rt.info, true
}

func (s *Static) HasNamespace(uri string) bool {
	_, ok := s.namespaces.Get(uri)
	return ok
}

func (s *Static) ResolveType(namespaceURI, localName string) Type {
	types, ok := s.namespaces.Get(namespaceURI)
	if !ok {
		return NewUnknownType(namespaceURI, "", localName, false)
	}
	if rt, ok := types.Get(localName); ok {
		return rt
	}
	return NewUnknownType(namespaceURI, "", localName, true)
}

func (s *Static) ResolveProperty(owner Type, localName string) Property {
	if rt, ok := owner.(*ResolvedType); ok {
		if pi, ok := rt.info.LookupProperty(localName); ok {
			return &ResolvedProperty{owner: rt, info: pi}
		}
	}
	return NewUnknownProperty(owner, localName, false)
}
