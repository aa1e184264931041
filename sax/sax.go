package sax

import (
	"context"

	"github.com/lestrrat-go/xaml/node"
	"github.com/lestrrat-go/xaml/schema"
)

var _ Handler = (*SAX)(nil)

func New() *SAX {
	return &SAX{}
}

func (s *SAX) StartObject(ctx context.Context, t schema.Type, li node.LineInfo) error {
	if h := s.StartObjectHandler; h != nil {
		return h(ctx, t, li)
	}
	return nil
}

func (s *SAX) EndObject(ctx context.Context, li node.LineInfo) error {
	if h := s.EndObjectHandler; h != nil {
		return h(ctx, li)
	}
	return nil
}

func (s *SAX) StartMember(ctx context.Context, p schema.Property, li node.LineInfo) error {
	if h := s.StartMemberHandler; h != nil {
		return h(ctx, p, li)
	}
	return nil
}

func (s *SAX) EndMember(ctx context.Context, li node.LineInfo) error {
	if h := s.EndMemberHandler; h != nil {
		return h(ctx, li)
	}
	return nil
}

func (s *SAX) Text(ctx context.Context, text string, li node.LineInfo) error {
	if h := s.TextHandler; h != nil {
		return h(ctx, text, li)
	}
	return nil
}

func (s *SAX) StartConditionalScope(ctx context.Context, predicate string, li node.LineInfo) error {
	if h := s.StartConditionalScopeHandler; h != nil {
		return h(ctx, predicate, li)
	}
	return nil
}

func (s *SAX) EndConditionalScope(ctx context.Context, li node.LineInfo) error {
	if h := s.EndConditionalScopeHandler; h != nil {
		return h(ctx, li)
	}
	return nil
}

func (s *SAX) PrefixDefinition(ctx context.Context, ns *schema.Namespace, li node.LineInfo) error {
	if h := s.PrefixDefinitionHandler; h != nil {
		return h(ctx, ns, li)
	}
	return nil
}
