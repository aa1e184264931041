package xaml

import "github.com/lestrrat-go/option"

type Option = option.Interface

type identEncoding struct{}
type identErrorReporter struct{}
type identValidation struct{}

// ReaderOption configures a TextReader
type ReaderOption interface {
	Option
	readerOption()
}

type readerOption struct{ Option }

func (*readerOption) readerOption() {}

// WithEncoding forces the input to be decoded with the named encoding
// instead of the detected one.
func WithEncoding(v string) ReaderOption {
	return &readerOption{option.New(identEncoding{}, v)}
}

// WithErrorReporter specifies where diagnostics go. By default a
// fresh *Reporter is used.
func WithErrorReporter(v ErrorReporter) ReaderOption {
	return &readerOption{option.New(identErrorReporter{}, v)}
}

// WithValidation turns the node stream validator on or off. It is on by
// default.
func WithValidation(v bool) ReaderOption {
	return &readerOption{option.New(identValidation{}, v)}
}
