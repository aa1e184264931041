package xaml

import (
	"github.com/lestrrat-go/xaml/node"
	"github.com/lestrrat-go/xaml/schema"
)

// Validator checks a node stream for references the schema context
// could not resolve. Such references are legal only inside a
// conditional scope, whose predicate may bring them into existence.
//
// The first failure is terminal: Validate keeps returning it, and only
// that one is sent to the reporter.
type Validator struct {
	reporter ErrorReporter
	depth    int
	err      error
}

// NewValidator creates a Validator. reporter may be nil.
func NewValidator(reporter ErrorReporter) *Validator {
	return &Validator{reporter: reporter}
}

// Depth returns the current conditional scope depth.
func (v *Validator) Depth() int {
	return v.depth
}

// Err returns the first error, if any.
func (v *Validator) Err() error {
	return v.err
}

func (v *Validator) Validate(n node.Node) error {
	if v.err != nil {
		return v.err
	}

	switch n.Kind() {
	case node.StartConditionalScope:
		v.depth++
	case node.EndConditionalScope:
		if v.depth == 0 {
			return v.fail(CodeUnbalancedConditionalScope, n.LineInfo())
		}
		v.depth--
	case node.StartObject:
		if v.depth > 0 {
			return nil
		}
		if t, ok := n.Type().(*schema.UnknownType); ok {
			if !t.NamespaceResolved() {
				ns := t.Namespace()
				if ns == "" {
					ns = t.Prefix()
				}
				return v.fail(CodeUnknownNamespace, n.LineInfo(), ns, t.Name())
			}
			return v.fail(CodeUnknownType, n.LineInfo(), t.Name(), t.Namespace())
		}
	case node.StartMember:
		if v.depth > 0 {
			return nil
		}
		switch p := n.Property().(type) {
		case *schema.UnknownContentProperty:
			return v.fail(CodeCannotAddChildren, n.LineInfo(), ownerName(p.Owner()))
		case *schema.UnknownProperty:
			if p.IsAttached() {
				return v.fail(CodeUnknownAttachedProperty, n.LineInfo(), p.Name(), ownerName(p.Owner()))
			}
			return v.fail(CodeUnknownProperty, n.LineInfo(), p.Name(), ownerName(p.Owner()))
		}
	}
	return nil
}

func ownerName(t schema.Type) string {
	if t == nil {
		return ""
	}
	return t.Name()
}

func (v *Validator) fail(code ErrorCode, li node.LineInfo, params ...string) error {
	perr := newParseError(code, li, nil, params...)
	v.err = perr
	if err := report(v.reporter, perr); err != nil {
		v.err = err
	}
	return v.err
}
