// Package sax defines the callback interface an object writer implements
// to receive a XAML node stream, along with SAX, a Handler built from
// optional function fields.
package sax

import (
	"context"

	"github.com/lestrrat-go/xaml/node"
	"github.com/lestrrat-go/xaml/schema"
)

type StartObjectFunc func(ctx context.Context, t schema.Type, li node.LineInfo) error
type EndObjectFunc func(ctx context.Context, li node.LineInfo) error
type StartMemberFunc func(ctx context.Context, p schema.Property, li node.LineInfo) error
type EndMemberFunc func(ctx context.Context, li node.LineInfo) error
type TextFunc func(ctx context.Context, text string, li node.LineInfo) error
type StartConditionalScopeFunc func(ctx context.Context, predicate string, li node.LineInfo) error
type EndConditionalScopeFunc func(ctx context.Context, li node.LineInfo) error
type PrefixDefinitionFunc func(ctx context.Context, ns *schema.Namespace, li node.LineInfo) error

// Handler receives one call per node. Returning an error stops the
// stream.
type Handler interface {
	StartObject(context.Context, schema.Type, node.LineInfo) error
	EndObject(context.Context, node.LineInfo) error
	StartMember(context.Context, schema.Property, node.LineInfo) error
	EndMember(context.Context, node.LineInfo) error
	Text(context.Context, string, node.LineInfo) error
	StartConditionalScope(context.Context, string, node.LineInfo) error
	EndConditionalScope(context.Context, node.LineInfo) error
	PrefixDefinition(context.Context, *schema.Namespace, node.LineInfo) error
}

type SAX struct {
	StartObjectHandler           StartObjectFunc
	EndObjectHandler             EndObjectFunc
	StartMemberHandler           StartMemberFunc
	EndMemberHandler             EndMemberFunc
	TextHandler                  TextFunc
	StartConditionalScopeHandler StartConditionalScopeFunc
	EndConditionalScopeHandler   EndConditionalScopeFunc
	PrefixDefinitionHandler      PrefixDefinitionFunc
}
