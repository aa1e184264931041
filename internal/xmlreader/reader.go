package xmlreader

import (
	"bytes"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/strcursor"
	"github.com/lestrrat-go/xaml/internal/orderedmap"
	"github.com/lestrrat-go/xaml/internal/pool"
	"github.com/pkg/errors"
)

var predefinedEntities = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"quot": `"`,
	"apos": "'",
}

// standIn replaces U+FFFD while the text sits in the cursor, which
// takes U+FFFD for a decoding failure. U+FFFF is never a legal XML
// character, so it cannot clash with real input.
const standIn = '\uFFFF'

type position struct {
	line   int
	column int
}

// New creates a Reader over b, which should be UTF-8.
func New(b []byte) *Reader {
	clean, cut := prepare(b)
	return &Reader{
		cursor: strcursor.NewRuneCursor(bytes.NewReader(clean)),
		attrs:  orderedmap.New[string, Attr](),
		cut:    cut,
	}
}

// prepare normalizes line breaks to '\n' and swaps U+FFFD for standIn.
// The input is cut short at the first sequence that is not UTF-8 or
// that decodes to U+FFFE or U+FFFF. The returned position points there.
func prepare(b []byte) ([]byte, *position) {
	out := make([]byte, 0, len(b))
	line, column := 1, 1
	for i := 0; i < len(b); {
		c, w := utf8.DecodeRune(b[i:])
		switch {
		case c == utf8.RuneError && w <= 1, c == 0xFFFE, c == standIn:
			return out, &position{line: line, column: column}
		case c == utf8.RuneError:
			c = standIn
		case c == '\r':
			c = '\n'
			if i+1 < len(b) && b[i+1] == '\n' {
				w++
			}
		}
		out = utf8.AppendRune(out, c)
		i += w
		if c == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return out, nil
}

func restore(s string) string {
	if !strings.ContainsRune(s, standIn) {
		return s
	}
	return strings.ReplaceAll(s, string(standIn), "\uFFFD")
}

// Version returns the version from the XML declaration, if any.
func (r *Reader) Version() string {
	return r.version
}

// Encoding returns the encoding named in the XML declaration, if any.
func (r *Reader) Encoding() string {
	return r.encoding
}

func (r *Reader) LineNumber() int {
	return r.cursor.LineNumber()
}

func (r *Reader) Column() int {
	return r.cursor.Column()
}

func (r *Reader) context() string {
	return restore(strings.TrimPrefix(r.cursor.Line(), "\n"))
}

func (r *Reader) error(err error) error {
	if r.atCut {
		return &SyntaxError{
			Line:    r.cut.line,
			Column:  r.cut.column,
			Context: r.context(),
			Err:     ErrInvalidChar,
		}
	}

	var serr *SyntaxError
	if errors.As(err, &serr) {
		return err
	}
	return &SyntaxError{
		Line:    r.cursor.LineNumber(),
		Column:  r.cursor.Column(),
		Context: r.context(),
		Err:     err,
	}
}

// eof returns true if there is nothing left to read. Running into the
// point where the input was cut short is remembered, so that the error
// names the bad character instead of the missing markup.
func (r *Reader) eof() bool {
	if !r.cursor.Done() {
		return false
	}
	if r.cut != nil {
		r.atCut = true
	}
	return true
}

// peek returns the n-th rune ahead without consuming it. Peek positions
// are 1-based.
func (r *Reader) peek(n int) rune {
	c := r.cursor.PeekN(n)
	if c == standIn {
		return utf8.RuneError
	}
	return c
}

// consume returns the rune under the cursor and moves past it
func (r *Reader) consume() rune {
	c := r.cursor.Cur()
	if c == standIn {
		return utf8.RuneError
	}
	return c
}

// consumeUntil consumes everything up to, but not including, the first
// occurrence of s. It returns false if the input ends first.
func (r *Reader) consumeUntil(s string) (string, bool) {
	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()
	for !r.cursor.HasPrefixString(s) {
		if r.eof() {
			return "", false
		}
		buf = utf8.AppendRune(buf, r.consume())
	}
	return string(buf), true
}

func isBlankCh(c rune) bool {
	return c == 0x20 || (0x9 <= c && c <= 0xa) || c == 0xd
}

func isChar(r rune) bool {
	c := uint32(r)
	if c < 0x100 {
		return (0x9 <= c && c <= 0xa) || c == 0xd || 0x20 <= c
	}
	return (0x100 <= c && c <= 0xd7ff) || (0xe000 <= c && c <= 0xfffd) || (0x10000 <= c && c <= 0x10ffff)
}

func isNameStartChar(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isNameChar(c rune) bool {
	return c == '.' || c == '-' || c == '_' ||
		unicode.IsLetter(c) || unicode.IsDigit(c) ||
		unicode.Is(unicode.Mn, c) || unicode.Is(unicode.Mc, c) ||
		unicode.In(c, unicode.Extender)
}

func (r *Reader) skipBlanks() int {
	var n int
	for !r.eof() && isBlankCh(r.cursor.Peek()) {
		r.cursor.Advance(1)
		n++
	}
	return n
}

// Next returns the next token, or io.EOF once the root element has been
// closed and the trailing misc content consumed. Errors are sticky.
func (r *Reader) Next() (tok Token, err error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker().BindError(&err)
		defer g.End()
	}

	if r.err != nil {
		return Token{}, r.err
	}

	tok, err = r.next()
	if err != nil && (err != io.EOF || r.atCut) {
		r.err = r.error(err)
		return Token{}, r.err
	}
	return tok, err
}

func (r *Reader) next() (Token, error) {
	if r.state == psStart {
		r.state = psProlog
		if r.cursor.HasPrefixString("<?xml") && isBlankCh(r.peek(6)) {
			if err := r.parseXMLDecl(); err != nil {
				return Token{}, err
			}
		}
	}

	switch r.state {
	case psEOF:
		return Token{}, io.EOF
	case psProlog, psEpilog:
		return r.nextMisc()
	default:
		return r.nextContent()
	}
}

// nextMisc handles everything outside of the root element.
func (r *Reader) nextMisc() (Token, error) {
	r.skipBlanks()
	c := r.cursor
	if r.eof() {
		if r.state == psProlog {
			return Token{}, ErrEmptyDocument
		}
		r.state = psEOF
		return Token{}, io.EOF
	}

	switch {
	case c.HasPrefixString("<?"):
		return r.parsePI()
	case c.HasPrefixString("<!--"):
		return r.parseComment()
	case c.HasPrefixString("<!DOCTYPE"):
		return Token{}, ErrDTDNotAllowed
	case c.Peek() == '<' && r.state == psProlog:
		return r.parseStartTag()
	case r.state == psEpilog:
		return Token{}, ErrDocumentEnd
	default:
		return Token{}, ErrEmptyDocument
	}
}

func (r *Reader) nextContent() (Token, error) {
	c := r.cursor
	switch {
	case r.eof():
		return Token{}, ErrPrematureEOF
	case c.HasPrefixString("</"):
		return r.parseEndTag()
	case c.HasPrefixString("<![CDATA["):
		return r.parseCDSect()
	case c.HasPrefixString("<!--"):
		return r.parseComment()
	case c.HasPrefixString("<?"):
		return r.parsePI()
	case c.HasPrefixString("<!"):
		return Token{}, ErrDTDNotAllowed
	case c.Peek() == '<':
		return r.parseStartTag()
	default:
		return r.parseCharData()
	}
}

// [5NS] NCName ::= (Letter | '_') (NCNameChar)*
func (r *Reader) parseNCName() (string, error) {
	if r.eof() {
		return "", ErrPrematureEOF
	}
	if !isNameStartChar(r.peek(1)) {
		return "", ErrNameRequired
	}

	var sb strings.Builder
	for n := 0; !r.eof() && isNameChar(r.peek(1)); n++ {
		if n == MaxNameLength {
			return "", ErrNameTooLong
		}
		sb.WriteRune(r.cursor.Cur())
	}
	return sb.String(), nil
}

// [7] QName ::= (Prefix ':')? LocalPart
func (r *Reader) parseQName() (local string, prefix string, err error) {
	v, err := r.parseNCName()
	if err != nil {
		return "", "", err
	}
	if r.cursor.Peek() != ':' {
		return v, "", nil
	}
	r.cursor.Advance(1)

	local, err = r.parseNCName()
	if err != nil {
		return "", "", ErrInvalidName
	}
	if r.cursor.Peek() == ':' {
		return "", "", ErrInvalidName
	}
	return local, v, nil
}

func (r *Reader) parseStartTag() (Token, error) {
	if pdebug.Enabled {
		g := pdebug.Marker("parseStartTag")
		defer g.End()
	}

	c := r.cursor
	tok := Token{
		Kind:   StartElement,
		Line:   c.LineNumber(),
		Column: c.Column(),
	}
	c.Advance(1) // '<'

	local, prefix, err := r.parseQName()
	if err != nil {
		return Token{}, err
	}
	tok.Local = local
	tok.Prefix = prefix

	r.attrs.Reset()
	for {
		blanks := r.skipBlanks()
		if r.eof() {
			return Token{}, ErrPrematureEOF
		}
		if c.ConsumeString(">") {
			break
		}
		if c.ConsumeString("/>") {
			tok.SelfClosing = true
			break
		}
		if blanks == 0 {
			return Token{}, ErrSpaceRequired
		}

		attr, err := r.parseAttribute()
		if err != nil {
			return Token{}, err
		}
		if err := r.attrs.Set(attr.QName(), attr); err != nil {
			return Token{}, errors.Wrap(ErrDuplicateAttribute, attr.QName())
		}
	}

	if n := r.attrs.Len(); n > 0 {
		tok.Attrs = make([]Attr, 0, n)
		for _, attr := range r.attrs.Range() {
			tok.Attrs = append(tok.Attrs, attr)
		}
	}

	if tok.SelfClosing {
		if r.names.Len() == 0 {
			r.state = psEpilog
		}
	} else {
		r.names.Push(tok.QName())
		r.state = psContent
	}

	if pdebug.Enabled {
		pdebug.Printf("start tag %s (%d attributes, self closing = %t)", tok.QName(), len(tok.Attrs), tok.SelfClosing)
	}
	return tok, nil
}

// [42] ETag ::= '</' QName S? '>'
func (r *Reader) parseEndTag() (Token, error) {
	c := r.cursor
	tok := Token{
		Kind:   EndElement,
		Line:   c.LineNumber(),
		Column: c.Column(),
	}
	c.Advance(2) // '</'

	local, prefix, err := r.parseQName()
	if err != nil {
		return Token{}, err
	}
	tok.Local = local
	tok.Prefix = prefix

	r.skipBlanks()
	if !c.ConsumeString(">") {
		return Token{}, ErrGtRequired
	}

	open, ok := r.names.Top()
	if !ok {
		return Token{}, ErrDocumentEnd
	}
	if open != tok.QName() {
		return Token{}, errors.Wrapf(ErrTagMismatch, `'%s' != '%s'`, open, tok.QName())
	}
	r.names.Pop()
	if r.names.Len() == 0 {
		r.state = psEpilog
	}
	return tok, nil
}

func (r *Reader) parseAttribute() (Attr, error) {
	c := r.cursor
	attr := Attr{
		Line:   c.LineNumber(),
		Column: c.Column(),
	}
	local, prefix, err := r.parseQName()
	if err != nil {
		return Attr{}, err
	}
	attr.Local = local
	attr.Prefix = prefix

	r.skipBlanks()
	if !c.ConsumeString("=") {
		return Attr{}, ErrEqualSignRequired
	}
	r.skipBlanks()

	v, err := r.parseAttributeValue()
	if err != nil {
		return Attr{}, err
	}
	attr.Value = v
	return attr, nil
}

// parseAttributeValue reads a quoted value, expanding references and
// normalizing literal whitespace to spaces.
func (r *Reader) parseAttributeValue() (string, error) {
	c := r.cursor
	qch := r.peek(1)
	if qch != '"' && qch != '\'' {
		return "", ErrQuoteRequired
	}
	c.Advance(1)

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()
	for {
		if r.eof() {
			return "", ErrAttrValueNotFinished
		}
		ch := r.peek(1)
		switch {
		case ch == qch:
			c.Advance(1)
			return string(buf), nil
		case ch == '<':
			return "", ErrLtInAttributeValue
		case ch == '&':
			s, err := r.parseReference()
			if err != nil {
				return "", err
			}
			buf = append(buf, s...)
		case ch == '\n' || ch == '\t':
			c.Advance(1)
			buf = append(buf, ' ')
		case !isChar(ch):
			return "", ErrInvalidChar
		default:
			c.Advance(1)
			buf = utf8.AppendRune(buf, ch)
		}
	}
}

// [14] CharData ::= [^<&]* - ([^<&]* ']]>' [^<&]*)
func (r *Reader) parseCharData() (Token, error) {
	c := r.cursor
	tok := Token{
		Kind:   CharData,
		Line:   c.LineNumber(),
		Column: c.Column(),
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()
	for !r.eof() {
		ch := r.peek(1)
		switch {
		case ch == '<':
			tok.Data = string(buf)
			return tok, nil
		case ch == '&':
			s, err := r.parseReference()
			if err != nil {
				return Token{}, err
			}
			buf = append(buf, s...)
		case ch == ']' && c.HasPrefixString("]]>"):
			return Token{}, ErrMisplacedCDATAEnd
		case !isChar(ch):
			return Token{}, ErrInvalidChar
		default:
			c.Advance(1)
			buf = utf8.AppendRune(buf, ch)
		}
	}
	return Token{}, ErrPrematureEOF
}

func checkChars(s string) error {
	for _, ch := range s {
		if !isChar(ch) {
			return ErrInvalidChar
		}
	}
	return nil
}

func (r *Reader) parseCDSect() (Token, error) {
	c := r.cursor
	tok := Token{
		Kind:   CDATA,
		Line:   c.LineNumber(),
		Column: c.Column(),
	}
	c.Advance(9) // "<![CDATA["

	s, ok := r.consumeUntil("]]>")
	if !ok {
		return Token{}, ErrCDATANotFinished
	}
	if err := checkChars(s); err != nil {
		return Token{}, err
	}
	c.Advance(3)
	tok.Data = s
	return tok, nil
}

func (r *Reader) parseComment() (Token, error) {
	c := r.cursor
	tok := Token{
		Kind:   Comment,
		Line:   c.LineNumber(),
		Column: c.Column(),
	}
	c.Advance(4) // "<!--"

	s, ok := r.consumeUntil("-->")
	if !ok {
		return Token{}, ErrInvalidComment
	}
	if strings.Contains(s, "--") || strings.HasSuffix(s, "-") {
		return Token{}, ErrHyphenInComment
	}
	if err := checkChars(s); err != nil {
		return Token{}, err
	}
	c.Advance(3)
	tok.Data = s
	return tok, nil
}

// [16] PI ::= '<?' PITarget (S (Char* - (Char* '?>' Char*)))? '?>'
func (r *Reader) parsePI() (Token, error) {
	c := r.cursor
	tok := Token{
		Kind:   ProcInst,
		Line:   c.LineNumber(),
		Column: c.Column(),
	}
	c.Advance(2) // "<?"

	target, err := r.parseNCName()
	if err != nil {
		return Token{}, ErrInvalidProcessingInstruction
	}
	if strings.EqualFold(target, "xml") {
		return Token{}, ErrXMLDeclNotAtStart
	}
	tok.Local = target

	if c.ConsumeString("?>") {
		return tok, nil
	}
	if r.skipBlanks() == 0 {
		return Token{}, ErrSpaceRequired
	}
	s, ok := r.consumeUntil("?>")
	if !ok {
		return Token{}, ErrInvalidProcessingInstruction
	}
	if err := checkChars(s); err != nil {
		return Token{}, err
	}
	c.Advance(2)
	tok.Data = s
	return tok, nil
}

// [23] XMLDecl ::= '<?xml' VersionInfo EncodingDecl? SDDecl? S? '?>'
func (r *Reader) parseXMLDecl() error {
	c := r.cursor
	c.Advance(5) // "<?xml"

	seen := map[string]struct{}{}
	for {
		blanks := r.skipBlanks()
		if c.ConsumeString("?>") {
			break
		}
		if r.eof() {
			return ErrInvalidXMLDecl
		}
		if blanks == 0 {
			return ErrSpaceRequired
		}

		name, err := r.parseNCName()
		if err != nil {
			return ErrInvalidXMLDecl
		}
		if _, ok := seen[name]; ok {
			return ErrInvalidXMLDecl
		}
		seen[name] = struct{}{}

		r.skipBlanks()
		if !c.ConsumeString("=") {
			return ErrEqualSignRequired
		}
		r.skipBlanks()
		v, err := r.parseAttributeValue()
		if err != nil {
			return err
		}

		switch name {
		case "version":
			if len(seen) != 1 {
				return ErrInvalidXMLDecl
			}
			if !strings.HasPrefix(v, "1.") || len(v) < 3 || strings.TrimLeft(v[2:], "0123456789") != "" {
				return ErrInvalidVersionNum
			}
			r.version = v
		case "encoding":
			r.encoding = v
		case "standalone":
			if v != "yes" && v != "no" {
				return ErrInvalidXMLDecl
			}
		default:
			return ErrInvalidXMLDecl
		}
	}

	if r.version == "" {
		return ErrInvalidVersionNum
	}
	return nil
}

func accumulateDecimalCharRef(val int32, c rune) (int32, error) {
	if c >= '0' && c <= '9' {
		val = val*10 + (c - '0')
	} else {
		return 0, ErrInvalidCharRef
	}
	return val, nil
}

func accumulateHexCharRef(val int32, c rune) (int32, error) {
	if c >= '0' && c <= '9' {
		val = val*16 + (c - '0')
	} else if c >= 'a' && c <= 'f' {
		val = val*16 + (c - 'a') + 10
	} else if c >= 'A' && c <= 'F' {
		val = val*16 + (c - 'A') + 10
	} else {
		return 0, ErrInvalidCharRef
	}
	return val, nil
}

// parseReference expands a character or predefined entity reference.
//
// [66] CharRef ::= '&#' [0-9]+ ';' | '&#x' [0-9a-fA-F]+ ';'
// [68] EntityRef ::= '&' Name ';'
func (r *Reader) parseReference() (string, error) {
	c := r.cursor
	c.Advance(1) // '&'

	if c.ConsumeString("#") {
		accumulator := accumulateDecimalCharRef
		if c.ConsumeString("x") {
			accumulator = accumulateHexCharRef
		}

		var val int32
		digits := 0
		for {
			if r.eof() {
				return "", ErrSemicolonRequired
			}
			ch := r.consume()
			if ch == ';' {
				break
			}
			var err error
			val, err = accumulator(val, ch)
			if err != nil {
				return "", err
			}
			// anything past the unicode range is invalid anyway
			if val > unicode.MaxRune {
				return "", ErrInvalidCharRef
			}
			digits++
		}
		if digits == 0 || !isChar(val) {
			return "", ErrInvalidCharRef
		}
		return string(rune(val)), nil
	}

	name, err := r.parseNCName()
	if err != nil {
		return "", err
	}
	if !c.ConsumeString(";") {
		return "", ErrSemicolonRequired
	}
	v, ok := predefinedEntities[name]
	if !ok {
		return "", errors.Wrap(ErrUndeclaredEntity, name)
	}
	return v, nil
}
