package xaml

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xaml/encoding"
	"github.com/lestrrat-go/xaml/internal/debug"
	"github.com/lestrrat-go/xaml/internal/scanner"
	"github.com/lestrrat-go/xaml/internal/xmlreader"
	"github.com/lestrrat-go/xaml/node"
	"github.com/lestrrat-go/xaml/sax"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/pkg/errors"
)

// TextReader reads XAML markup as a stream of nodes. It holds on to the
// schema context until Close is called.
type TextReader struct {
	tlog      *slog.Logger
	sc        schema.Context
	parser    *pullParser
	validator *Validator
	reporter  ErrorReporter
	validate  bool
	current   node.Node
	err       error
	closed    bool
	kind      encoding.Kind
}

// NewTextReader prepares src for reading. src is copied, so the caller
// may reuse it afterwards.
func NewTextReader(ctx context.Context, sc schema.Context, src []byte, options ...ReaderOption) (r *TextReader, err error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker().BindError(&err)
		defer g.End()
	}

	if sc == nil {
		return nil, ErrSchemaContextNotFound
	}

	var forced string
	var reporter ErrorReporter
	validate := true
	for _, option := range options {
		switch option.Ident() {
		case identEncoding{}:
			forced = option.Value().(string)
		case identErrorReporter{}:
			reporter = option.Value().(ErrorReporter)
		case identValidation{}:
			validate = option.Value().(bool)
		}
	}
	if reporter == nil {
		reporter = NewReporter()
	}

	buf, kind := encoding.Normalize(bytes.Clone(src))
	decoded, err := encoding.Decode(buf, kind, forced)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode input (detected %s)", kind)
	}

	tlog := getTraceLogFromContext(ctx)
	xr := xmlreader.New(decoded)
	s := scanner.New(xr)
	err = s.Init()
	if declared := xr.Encoding(); forced == "" && declared != "" {
		redecoded, ok, derr := switchEncoding(buf, kind, declared)
		if derr != nil {
			return nil, errors.Wrapf(derr, "failed to decode input (declared %s)", declared)
		}
		if ok {
			tlog.Debug("switching encoding", slog.String("encoding", declared))
			xr = xmlreader.New(redecoded)
			s = scanner.New(xr)
			err = s.Init()
		}
	}
	if err != nil {
		perr := malformed(err).(*ParseError)
		if rerr := report(reporter, perr); rerr != nil {
			return nil, errors.Wrap(rerr, "failed to report error")
		}
		tlog.Debug("failed to find root element", slog.String("error", perr.Error()))
		return nil, perr
	}

	tlog.Debug("prolog", slog.String("version", xr.Version()), slog.String("encoding", xr.Encoding()))

	return &TextReader{
		tlog:      tlog,
		sc:        sc,
		parser:    newPullParser(sc, s),
		validator: NewValidator(reporter),
		reporter:  reporter,
		validate:  validate,
		kind:      kind,
	}, nil
}

// switchEncoding decodes buf again with the encoding named by the XML
// declaration. It only applies when the byte layout did not already
// settle the question, and names it cannot load are ignored.
func switchEncoding(buf []byte, kind encoding.Kind, declared string) ([]byte, bool, error) {
	if kind != encoding.SingleByte {
		return nil, false, nil
	}
	if detected, _ := encoding.Detect(buf); detected != encoding.SingleByte {
		return nil, false, nil
	}
	if strings.HasPrefix(strings.ToLower(declared), "utf") || encoding.Load(declared) == nil {
		return nil, false, nil
	}

	b, err := encoding.Decode(buf, kind, declared)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Encoding returns the byte layout the normalizer settled on
func (r *TextReader) Encoding() encoding.Kind {
	return r.kind
}

// Read advances to the next node. It returns io.EOF after the last node.
// The first error is returned again on every subsequent call.
func (r *TextReader) Read() (node.Node, error) {
	if r.err != nil {
		return node.Node{}, r.err
	}
	if r.closed {
		return node.Node{}, ErrReaderClosed
	}

	n, err := r.parser.next()
	if err != nil {
		if err == io.EOF {
			r.current = node.Node{}
			return node.Node{}, io.EOF
		}
		var perr *ParseError
		if errors.As(err, &perr) {
			if rerr := report(r.reporter, perr); rerr != nil {
				err = rerr
			}
		}
		return node.Node{}, r.fail(err)
	}

	if r.validate {
		if err := r.validator.Validate(n); err != nil {
			if debug.Enabled {
				debug.Printf("validation failed at %s", n.LineInfo())
				debug.Dump(n)
			}
			return node.Node{}, r.fail(err)
		}
	}

	r.current = n
	r.tlog.Debug("node", slog.String("node", n.String()), slog.String("at", n.LineInfo().String()))
	return n, nil
}

func (r *TextReader) fail(err error) error {
	r.err = err
	r.current = node.Node{}
	r.tlog.Debug("read failed", slog.String("error", err.Error()))
	return err
}

// Current returns the node the last successful Read produced
func (r *TextReader) Current() node.Node {
	return r.current
}

// SchemaContext returns the schema context the reader resolves against.
// It fails once the reader is closed.
func (r *TextReader) SchemaContext() (schema.Context, error) {
	if r.closed || r.sc == nil {
		return nil, ErrSchemaContextNotFound
	}
	return r.sc, nil
}

// Err returns the error that stopped the reader, if any
func (r *TextReader) Err() error {
	return r.err
}

// Close releases the schema context and the parser. It is safe to call
// more than once.
func (r *TextReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.sc = nil
	r.parser = nil
	r.current = node.Node{}
	return nil
}

// Parse reads the whole node stream of src.
func Parse(ctx context.Context, sc schema.Context, src []byte, options ...ReaderOption) ([]node.Node, error) {
	ctx, span := StartSpan(ctx, "xaml.Parse")
	defer span.End()

	r, err := NewTextReader(ctx, sc, src, options...)
	if err != nil {
		TraceError(ctx, err, "failed to create reader")
		return nil, err
	}
	defer r.Close()

	var nodes []node.Node
	for {
		n, err := r.Read()
		if err != nil {
			if err == io.EOF {
				TraceEvent(ctx, "parsed", slog.Int("nodes", len(nodes)))
				return nodes, nil
			}
			TraceError(ctx, err, "failed to read node", slog.Int("nodes", len(nodes)))
			return nodes, err
		}
		nodes = append(nodes, n)
	}
}

// Transform reads every node from r and hands it to the matching
// method of h. It stops at the first error from either side.
func Transform(ctx context.Context, r *TextReader, h sax.Handler) error {
	ctx, span := StartSpan(ctx, "xaml.Transform")
	defer span.End()

	var count int
	for {
		n, err := r.Read()
		if err != nil {
			if err == io.EOF {
				TraceEvent(ctx, "transformed", slog.Int("nodes", count))
				return nil
			}
			return err
		}

		if err := dispatch(ctx, h, n); err != nil {
			TraceError(ctx, err, "handler failed", slog.String("node", n.String()))
			return errors.Wrapf(err, "handler failed on %s", n.Kind())
		}
		count++
	}
}

func dispatch(ctx context.Context, h sax.Handler, n node.Node) error {
	li := n.LineInfo()
	switch n.Kind() {
	case node.StartObject:
		return h.StartObject(ctx, n.Type(), li)
	case node.EndObject:
		return h.EndObject(ctx, li)
	case node.StartMember:
		return h.StartMember(ctx, n.Property(), li)
	case node.EndMember:
		return h.EndMember(ctx, li)
	case node.Text:
		return h.Text(ctx, n.Text(), li)
	case node.StartConditionalScope:
		return h.StartConditionalScope(ctx, n.Predicate(), li)
	case node.EndConditionalScope:
		return h.EndConditionalScope(ctx, li)
	case node.PrefixDefinition:
		return h.PrefixDefinition(ctx, n.Namespace(), li)
	}
	return nil
}
