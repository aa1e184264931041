// Package xamlname parses the names used in XAML markup: type names of
// the form [prefix:]Name and property names of the form [prefix:]Name or
// [prefix:]Owner.Name.
//
// Names are immutable and safe to share. FullName and ScopedName are
// computed on first use and cached together.
package xamlname

import (
	"strings"
	"sync"
	"unicode"

	"github.com/pkg/errors"
)

var (
	ErrInvalidName      = errors.New("invalid name")
	ErrPrefixNotAllowed = errors.New("name must not carry a prefix here")
)

type memo struct {
	once   sync.Once
	full   string
	scoped string
}

func (m *memo) get(prefix string, scoped func() string) (string, string) {
	m.once.Do(func() {
		m.scoped = scoped()
		if prefix == "" {
			m.full = m.scoped
		} else {
			m.full = prefix + ":" + m.scoped
		}
	})
	return m.full, m.scoped
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) ||
		unicode.Is(unicode.Pc, r) || unicode.Is(unicode.Cf, r)
}

// IsValidName reports whether s is a single undotted, unprefixed name.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStart(r) {
				return false
			}
			continue
		}
		if !isNamePart(r) {
			return false
		}
	}
	return true
}

// splitPrefix separates an optional "prefix:" from text. An externally
// supplied prefix forbids one in the text.
func splitPrefix(prefix, text string) (string, string, error) {
	i := strings.IndexByte(text, ':')
	if i < 0 {
		return prefix, text, nil
	}
	if prefix != "" {
		return "", "", errors.Wrapf(ErrPrefixNotAllowed, `%q`, text)
	}
	p := text[:i]
	if !IsValidName(p) {
		return "", "", errors.Wrapf(ErrInvalidName, `%q`, text)
	}
	return p, text[i+1:], nil
}

type TypeName struct {
	prefix string
	name   string
	memo   memo
}

func NewTypeName(prefix, name string) *TypeName {
	return &TypeName{prefix: prefix, name: name}
}

// ParseTypeName parses "[prefix:]Name".
func ParseTypeName(text string) (*TypeName, error) {
	prefix, name, err := splitPrefix("", text)
	if err != nil {
		return nil, err
	}
	if !IsValidName(name) {
		return nil, errors.Wrapf(ErrInvalidName, `%q`, text)
	}
	return NewTypeName(prefix, name), nil
}

func (n *TypeName) Prefix() string {
	return n.prefix
}

func (n *TypeName) Name() string {
	return n.name
}

func (n *TypeName) ScopedName() string {
	_, scoped := n.memo.get(n.prefix, func() string { return n.name })
	return scoped
}

func (n *TypeName) FullName() string {
	full, _ := n.memo.get(n.prefix, func() string { return n.name })
	return full
}

func (n *TypeName) String() string {
	return n.FullName()
}

type PropertyName struct {
	prefix string
	name   string
	owner  *TypeName
	memo   memo
}

// ParsePropertyName parses text as "[prefix:]Name" or
// "[prefix:]Owner.Name". prefix is the prefix already known to the
// caller; if it is non-empty the text must not carry one of its own.
func ParsePropertyName(prefix, text string) (*PropertyName, error) {
	prefix, rest, err := splitPrefix(prefix, text)
	if err != nil {
		return nil, err
	}

	if IsValidName(rest) {
		return &PropertyName{prefix: prefix, name: rest}, nil
	}

	i := strings.IndexByte(rest, '.')
	if i < 0 {
		return nil, errors.Wrapf(ErrInvalidName, `%q`, text)
	}
	owner, name := rest[:i], rest[i+1:]
	if !IsValidName(owner) || !IsValidName(name) {
		return nil, errors.Wrapf(ErrInvalidName, `%q`, text)
	}
	return &PropertyName{
		prefix: prefix,
		name:   name,
		owner:  NewTypeName(prefix, owner),
	}, nil
}

func (n *PropertyName) Prefix() string {
	return n.prefix
}

func (n *PropertyName) Name() string {
	return n.name
}

func (n *PropertyName) IsDotted() bool {
	return n.owner != nil
}

// Owner returns the owning type name of a dotted name, or nil.
func (n *PropertyName) Owner() *TypeName {
	return n.owner
}

func (n *PropertyName) OwnerName() string {
	if n.owner == nil {
		return ""
	}
	return n.owner.Name()
}

func (n *PropertyName) scoped() string {
	if n.owner == nil {
		return n.name
	}
	return n.owner.Name() + "." + n.name
}

func (n *PropertyName) ScopedName() string {
	_, scoped := n.memo.get(n.prefix, n.scoped)
	return scoped
}

func (n *PropertyName) FullName() string {
	full, _ := n.memo.get(n.prefix, n.scoped)
	return full
}

func (n *PropertyName) String() string {
	return n.FullName()
}
