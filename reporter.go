package xaml

import "github.com/lestrrat-go/xaml/node"

// ErrorReporter receives diagnostics. The recorded flag is a latch that
// lets the first diagnostic of a parse win; whoever reports is expected
// to check it first and set it afterwards.
type ErrorReporter interface {
	SetError(code ErrorCode, line, column int, params ...string) error
	IsErrorRecorded() bool
	SetIsErrorRecorded(bool)
}

// Reporter is the default ErrorReporter. It keeps every diagnostic it is
// given.
type Reporter struct {
	errors   []*ParseError
	recorded bool
}

var _ ErrorReporter = (*Reporter)(nil)

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) SetError(code ErrorCode, line, column int, params ...string) error {
	r.errors = append(r.errors, &ParseError{
		Code:   code,
		Line:   line,
		Column: column,
		Params: params,
	})
	return nil
}

func (r *Reporter) IsErrorRecorded() bool {
	return r.recorded
}

func (r *Reporter) SetIsErrorRecorded(v bool) {
	r.recorded = v
}

func (r *Reporter) Errors() []*ParseError {
	return r.errors
}

// report sends err to the reporter unless something was already recorded.
func report(r ErrorReporter, err *ParseError) error {
	if r == nil || r.IsErrorRecorded() {
		return nil
	}
	if rerr := r.SetError(err.Code, err.Line, err.Column, err.Params...); rerr != nil {
		return rerr
	}
	r.SetIsErrorRecorded(true)
	return nil
}

func newParseError(code ErrorCode, li node.LineInfo, cause error, params ...string) *ParseError {
	return &ParseError{
		Code:   code,
		Line:   li.Line,
		Column: li.Column,
		Params: params,
		Err:    cause,
	}
}
