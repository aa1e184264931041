package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lestrrat-go/xaml"
	"github.com/lestrrat-go/xaml/s11n"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/mattn/go-isatty"
)

type cmdopts struct {
	Schema     string `long:"schema" description:"schema file (.yaml, .yml or .toml)"`
	Encoding   string `long:"encoding" description:"decode input with this encoding"`
	NoValidate bool   `long:"no-validate" description:"do not reject unknown types and members"`
	LineInfo   bool   `long:"line-info" description:"prefix each node with its position"`
	Trace      bool   `long:"trace" description:"write trace logs to stderr"`
	Version    bool   `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("xamllint: using xaml version %s\n", xaml.Version)
}

func showUsage() {
	fmt.Printf(`Usage : xamllint [options] XAMLfiles ...
	Parse the XAML files and output the resulting node stream
	--schema FILE   : resolve types against the schema in FILE
	                  (without it, validation is turned off)
	--encoding NAME : force the input encoding
	--no-validate   : do not reject unknown types and members
	--line-info     : prefix each node with line:column
	--trace         : write trace logs to stderr
	--version       : display the version of the XAML library used
`)
}

type input struct {
	name string
	src  io.Reader
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.NewParser(&opts, flags.PassDoubleDash).ParseArgs(os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	var inputs []input
	switch {
	case len(args) > 0: // filename present
		for _, f := range args {
			inputs = append(inputs, input{name: f})
		}
	case !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()):
		inputs = append(inputs, input{name: "-", src: os.Stdin})
	default:
		showUsage()
		return 1
	}

	var sc schema.Context = schema.NewStatic()
	validate := !opts.NoValidate
	if opts.Schema != "" {
		s, err := schema.LoadFile(opts.Schema)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		sc = s
	} else {
		validate = false
	}

	ctx := context.Background()
	if opts.Trace {
		ctx = xaml.WithTraceLogger(ctx, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	readerOpts := []xaml.ReaderOption{xaml.WithValidation(validate)}
	if opts.Encoding != "" {
		readerOpts = append(readerOpts, xaml.WithEncoding(opts.Encoding))
	}

	for _, in := range inputs {
		if err := lint(ctx, sc, in, opts.LineInfo, readerOpts); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", in.name, err)
			return 1
		}
	}
	return 0
}

func lint(ctx context.Context, sc schema.Context, in input, lineInfo bool, options []xaml.ReaderOption) error {
	src := in.src
	if src == nil {
		fh, err := os.Open(in.name)
		if err != nil {
			return err
		}
		defer fh.Close()
		src = fh
	}

	buf, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	r, err := xaml.NewTextReader(ctx, sc, buf, options...)
	if err != nil {
		return err
	}
	defer r.Close()

	return xaml.Transform(ctx, r, s11n.NewDumper(os.Stdout).LineInfo(lineInfo))
}
