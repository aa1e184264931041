// Package nsstack keeps track of namespace prefix declarations across
// nested element scopes.
package nsstack

import (
	"github.com/lestrrat-go/xaml/internal/stack"
	"github.com/lestrrat-go/xaml/schema"
)

type scope struct {
	decls []*schema.Namespace
}

// Stack is a stack of scopes. The "xml" prefix is always bound.
type Stack struct {
	scopes stack.Stack[*scope]
	xml    *schema.Namespace
}

func New() *Stack {
	s := &Stack{
		xml: schema.NewNamespace("xml", schema.XMLNamespace),
	}
	s.PushScope()
	return s
}

// PushScope opens a new declaration scope, usually one per element.
func (s *Stack) PushScope() {
	s.scopes.Push(&scope{})
}

// PopScope drops the innermost scope and every declaration in it.
func (s *Stack) PopScope() {
	if s.scopes.Len() <= 1 {
		return
	}
	s.scopes.Pop()
}

// Declare binds prefix in the innermost scope. A later declaration of
// the same prefix in the same scope wins.
func (s *Stack) Declare(prefix, uri string) *schema.Namespace {
	ns := schema.NewNamespace(prefix, uri)
	sc := s.scopes.TopRef()
	(*sc).decls = append((*sc).decls, ns)
	return ns
}

// Declared returns the namespaces declared in the innermost scope.
func (s *Stack) Declared() []*schema.Namespace {
	sc, _ := s.scopes.Top()
	return sc.decls
}

func (s *Stack) Lookup(prefix string) (*schema.Namespace, bool) {
	if prefix == "xml" {
		return s.xml, true
	}
	var found *schema.Namespace
	s.scopes.Walk(func(sc *scope) bool {
		for i := len(sc.decls) - 1; i >= 0; i-- {
			if sc.decls[i].Prefix() == prefix {
				found = sc.decls[i]
				return false
			}
		}
		return true
	})
	return found, found != nil
}
