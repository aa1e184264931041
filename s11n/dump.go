// Package s11n writes XAML node streams as indented text, one node per
// line.
package s11n

import (
	"context"
	"io"
	"strings"

	"github.com/lestrrat-go/xaml/node"
	"github.com/lestrrat-go/xaml/sax"
	"github.com/lestrrat-go/xaml/schema"
)

const indentUnit = "  "

// Dumper writes every node it receives to an io.Writer. Start nodes
// increase the indentation of what follows and end nodes decrease it.
// It can be used directly as a sax.Handler.
type Dumper struct {
	out      io.Writer
	depth    int
	lineInfo bool
}

var _ sax.Handler = (*Dumper)(nil)

func NewDumper(out io.Writer) *Dumper {
	return &Dumper{out: out}
}

// LineInfo makes the dumper prefix each line with the node position
func (d *Dumper) LineInfo(v bool) *Dumper {
	d.lineInfo = v
	return d
}

func (d *Dumper) DumpNode(n node.Node) error {
	switch n.Kind() {
	case node.EndObject, node.EndMember, node.EndConditionalScope:
		if d.depth > 0 {
			d.depth--
		}
	}

	var sb strings.Builder
	if d.lineInfo {
		sb.WriteString(n.LineInfo().String())
		sb.WriteByte(' ')
	}
	for range d.depth {
		sb.WriteString(indentUnit)
	}
	sb.WriteString(n.String())
	sb.WriteByte('\n')
	if _, err := io.WriteString(d.out, sb.String()); err != nil {
		return err
	}

	switch n.Kind() {
	case node.StartObject, node.StartMember, node.StartConditionalScope:
		d.depth++
	}
	return nil
}

// DumpNodes writes nodes to out
func DumpNodes(out io.Writer, nodes []node.Node, lineInfo bool) error {
	d := NewDumper(out).LineInfo(lineInfo)
	for _, n := range nodes {
		if err := d.DumpNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dumper) StartObject(_ context.Context, t schema.Type, li node.LineInfo) error {
	return d.DumpNode(node.NewStartObject(t, li))
}

func (d *Dumper) EndObject(_ context.Context, li node.LineInfo) error {
	return d.DumpNode(node.NewEndObject(li))
}

func (d *Dumper) StartMember(_ context.Context, p schema.Property, li node.LineInfo) error {
	return d.DumpNode(node.NewStartMember(p, li))
}

func (d *Dumper) EndMember(_ context.Context, li node.LineInfo) error {
	return d.DumpNode(node.NewEndMember(li))
}

func (d *Dumper) Text(_ context.Context, text string, li node.LineInfo) error {
	return d.DumpNode(node.NewText(text, li))
}

func (d *Dumper) StartConditionalScope(_ context.Context, predicate string, li node.LineInfo) error {
	return d.DumpNode(node.NewStartConditionalScope(predicate, li))
}

func (d *Dumper) EndConditionalScope(_ context.Context, li node.LineInfo) error {
	return d.DumpNode(node.NewEndConditionalScope(li))
}

func (d *Dumper) PrefixDefinition(_ context.Context, ns *schema.Namespace, li node.LineInfo) error {
	return d.DumpNode(node.NewPrefixDefinition(ns, li))
}
