package scanner

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tomhodgins/parse-css/token"
)

// eof represents the virtual code point past the end of the input.
const eof rune = -1

// maxLookahead is the number of code points the scanner may inspect
// past its current position.
const maxLookahead = 3

// Scanner implements a CSS3 standard compliant scanner.
//
// The scanner operates on a pre-decoded code point vector produced by
// Preprocess; it is single-owner and not safe for concurrent use.
type Scanner struct {
	// Errors contains a list of all errors that occur during scanning.
	Errors []*Error

	input []rune
	posns []token.Pos // position of every code point, plus the EOF slot
	index int         // offset of the next unread code point

	log *zap.Logger
}

// New returns a new instance of Scanner reading from r.
func New(r io.Reader) *Scanner {
	b, _ := io.ReadAll(r)
	return NewString(string(b))
}

// NewString returns a new instance of Scanner over a source string.
func NewString(s string) *Scanner {
	return NewRunes(Preprocess(s))
}

// NewRunes returns a new instance of Scanner over already-preprocessed
// code points.
func NewRunes(a []rune) *Scanner {
	posns := make([]token.Pos, len(a)+1)
	var pos token.Pos
	for i, ch := range a {
		posns[i] = pos
		if ch == '\n' {
			pos.Line++
			pos.Char = 0
		} else {
			pos.Char++
		}
	}
	posns[len(a)] = pos
	return &Scanner{input: a, posns: posns, log: zap.NewNop()}
}

// SetLogger replaces the logger that recoverable parse errors are
// reported through. Errors are always appended to Errors as well.
func (s *Scanner) SetLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// ScanAll scans every token up to but excluding EOF.
func (s *Scanner) ScanAll() []token.Token {
	var a []token.Token
	for {
		tok := s.Scan()
		if _, ok := tok.(*token.EOF); ok {
			return a
		}
		a = append(a, tok)
	}
}

func (s *Scanner) Scan() token.Token {
	// Each iteration either returns a token or consumes a comment, so
	// the dispatch loop is bounded by the input length.
	for steps := 0; ; steps++ {
		if steps > len(s.input)+1 {
			panic(&SpecError{Message: "scanner made no progress"})
		}

		// Read next code point.
		ch := s.read()
		pos := s.Pos()

		if ch == eof {
			return &token.EOF{Pos: pos}
		} else if isWhitespace(ch) {
			return s.scanWhitespace(pos)
		} else if ch == '"' || ch == '\'' {
			return s.scanString(pos, ch)
		} else if ch == '#' {
			return s.scanHash(pos)
		} else if ch == '$' {
			if s.peek(1) == '=' {
				s.read()
				return &token.SuffixMatch{Pos: pos}
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if ch == '*' {
			if s.peek(1) == '=' {
				s.read()
				return &token.SubstringMatch{Pos: pos}
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if ch == '^' {
			if s.peek(1) == '=' {
				s.read()
				return &token.PrefixMatch{Pos: pos}
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if ch == '~' {
			if s.peek(1) == '=' {
				s.read()
				return &token.IncludeMatch{Pos: pos}
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if ch == ',' {
			return &token.Comma{Pos: pos}
		} else if ch == '+' || ch == '.' {
			// A sign or full stop starts a numeric token only when the
			// following code points complete a number.
			if startsNumber(ch, s.peek(1), s.peek(2)) {
				s.unread(1)
				return s.scanNumeric(pos)
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if isDigit(ch) {
			s.unread(1)
			return s.scanNumeric(pos)
		} else if ch == '-' {
			// A hyphen can begin a number, a CDC, an identifier, or
			// stand alone as a delimiter.
			if startsNumber(ch, s.peek(1), s.peek(2)) {
				s.unread(1)
				return s.scanNumeric(pos)
			} else if s.peek(1) == '-' && s.peek(2) == '>' {
				s.read()
				s.read()
				return &token.CDC{Pos: pos}
			} else if startsIdentifier(ch, s.peek(1), s.peek(2)) {
				return s.scanIdent(pos)
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if ch == '/' {
			// Comments are ignored by the scanner so restart the loop
			// from the end of the comment and get the next token.
			if s.peek(1) == '*' {
				s.read()
				s.scanComment()
				continue
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if ch == ':' {
			return &token.Colon{Pos: pos}
		} else if ch == ';' {
			return &token.Semicolon{Pos: pos}
		} else if ch == '<' {
			// Attempt to read a comment open ("<!--").
			// If it's not possible then rollback and return DELIM.
			if s.peek(1) == '!' && s.peek(2) == '-' && s.peek(3) == '-' {
				s.read()
				s.read()
				s.read()
				return &token.CDO{Pos: pos}
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if ch == '@' {
			// This is an at-keyword token if an identifier follows.
			// Otherwise it's just a DELIM.
			if startsIdentifier(s.peek(1), s.peek(2), s.peek(3)) {
				s.read()
				return &token.AtKeyword{Value: s.scanName(), Pos: pos}
			}
			return &token.Delim{Value: ch, Pos: pos}
		} else if ch == '(' {
			return &token.LParen{Pos: pos}
		} else if ch == ')' {
			return &token.RParen{Pos: pos}
		} else if ch == '[' {
			return &token.LBrack{Pos: pos}
		} else if ch == ']' {
			return &token.RBrack{Pos: pos}
		} else if ch == '{' {
			return &token.LBrace{Pos: pos}
		} else if ch == '}' {
			return &token.RBrace{Pos: pos}
		} else if ch == '\\' {
			// Return a valid escape, if possible.
			if validEscape(ch, s.peek(1)) {
				return s.scanIdent(pos)
			}
			// Otherwise this is a parse error but continue on as a DELIM.
			s.errorf(pos, "unescaped \\")
			return &token.Delim{Value: ch, Pos: pos}
		} else if isNameStart(ch) {
			return s.scanIdent(pos)
		} else if ch == '|' {
			// If the next code point is an equals sign, it's a dash
			// match token. If it's a pipe, it's a column token.
			// Otherwise, just treat this pipe as a delim token.
			if s.peek(1) == '=' {
				s.read()
				return &token.DashMatch{Pos: pos}
			} else if s.peek(1) == '|' {
				s.read()
				return &token.Column{Pos: pos}
			}
			return &token.Delim{Value: ch, Pos: pos}
		}
		return &token.Delim{Value: ch, Pos: pos}
	}
}

// scanWhitespace consumes the current code point and all subsequent
// whitespace, producing a single collapsed whitespace token.
func (s *Scanner) scanWhitespace(pos token.Pos) token.Token {
	for isWhitespace(s.peek(1)) {
		s.read()
	}
	return &token.Whitespace{Pos: pos}
}

// scanString consumes a quoted string. (§4.3.4)
//
// This assumes that the opening quote has just been consumed.
// This function consumes all code points and escaped code points up
// until a matching, unescaped ending quote.
// An EOF closes out a string and records an "unterminated string" error.
// A newline closes a string and returns a bad-string token.
func (s *Scanner) scanString(pos token.Pos, ending rune) token.Token {
	var buf bytes.Buffer
	for {
		ch := s.read()
		if ch == ending {
			return &token.String{Value: buf.String(), Pos: pos}
		} else if ch == eof {
			s.errorf(s.Pos(), "unterminated string")
			return &token.String{Value: buf.String(), Pos: pos}
		} else if ch == '\n' {
			s.errorf(s.Pos(), "newline in string")
			s.unread(1)
			return &token.BadString{Pos: pos}
		} else if ch == '\\' {
			if next := s.peek(1); next == eof {
				// A backslash at EOF is ignored.
				continue
			} else if next == '\n' {
				// A backslash before a newline is a line continuation;
				// the newline is consumed and dropped.
				s.read()
				continue
			}
			_, _ = buf.WriteRune(s.scanEscape())
		} else {
			_, _ = buf.WriteRune(ch)
		}
	}
}

// scanNumeric consumes a numeric token.
//
// This assumes that the next code points form a number.
func (s *Scanner) scanNumeric(pos token.Pos) token.Token {
	num, typ, repr := s.scanNumber()

	// If the number is immediately followed by an identifier then scan
	// a dimension and keep the unit separate from the number's repr.
	if startsIdentifier(s.peek(1), s.peek(2), s.peek(3)) {
		s.read()
		unit := s.scanName()
		return &token.Dimension{Type: typ, Value: repr, Number: num, Unit: unit, Pos: pos}
	}

	// If the number is followed by a percent sign then return a percentage.
	if s.peek(1) == '%' {
		s.read()
		return &token.Percentage{Type: typ, Value: repr, Number: num, Pos: pos}
	}

	// Otherwise return a number token.
	return &token.Number{Type: typ, Value: repr, Number: num, Pos: pos}
}

// scanNumber consumes a number.
func (s *Scanner) scanNumber() (num float64, typ, repr string) {
	var buf bytes.Buffer
	typ = "integer"

	// If initial code point is + or - then store it.
	if ch := s.read(); ch == '+' || ch == '-' {
		_, _ = buf.WriteRune(ch)
	} else {
		s.unread(1)
	}

	// Read as many digits as possible.
	_, _ = buf.WriteString(s.scanDigits())

	// If next code points are a full stop and digit then consume them.
	if s.peek(1) == '.' && isDigit(s.peek(2)) {
		typ = "number"
		_, _ = buf.WriteRune(s.read())
		_, _ = buf.WriteRune(s.read())
		_, _ = buf.WriteString(s.scanDigits())
	}

	// Consume scientific notation (e0, e+0, e-0, E0, E+0, E-0).
	if ch := s.peek(1); ch == 'e' || ch == 'E' {
		if isDigit(s.peek(2)) {
			typ = "number"
			_, _ = buf.WriteRune(s.read())
			_, _ = buf.WriteRune(s.read())
			_, _ = buf.WriteString(s.scanDigits())
		} else if (s.peek(2) == '+' || s.peek(2) == '-') && isDigit(s.peek(3)) {
			typ = "number"
			_, _ = buf.WriteRune(s.read())
			_, _ = buf.WriteRune(s.read())
			_, _ = buf.WriteRune(s.read())
			_, _ = buf.WriteString(s.scanDigits())
		}
	}

	// Convert the repr to its numeric value.
	repr = buf.String()
	num, _ = strconv.ParseFloat(repr, 64)
	return num, typ, repr
}

// scanDigits consumes a contiguous series of digits.
func (s *Scanner) scanDigits() string {
	var buf bytes.Buffer
	for isDigit(s.peek(1)) {
		_, _ = buf.WriteRune(s.read())
	}
	return buf.String()
}

// scanComment consumes all characters up to "*/", inclusive.
// This function assumes that the initial "/*" have just been consumed.
func (s *Scanner) scanComment() {
	for {
		ch0 := s.read()
		if ch0 == eof {
			s.errorf(s.Pos(), "unterminated comment")
			break
		} else if ch0 == '*' && s.peek(1) == '/' {
			s.read()
			break
		}
	}
}

// scanHash consumes a hash token.
//
// This assumes the "#" has just been consumed.
// It will return a hash token if the next code points are a name or
// valid escape, and a delim token otherwise.
// Hash tokens' type flag is set to "id" if the value is an identifier.
func (s *Scanner) scanHash(pos token.Pos) token.Token {
	if isName(s.peek(1)) || validEscape(s.peek(1), s.peek(2)) {
		typ := "unrestricted"
		if startsIdentifier(s.peek(1), s.peek(2), s.peek(3)) {
			typ = "id"
		}
		s.read()
		return &token.Hash{Value: s.scanName(), Type: typ, Pos: pos}
	}
	return &token.Delim{Value: '#', Pos: pos}
}

// scanName consumes a name.
// Consumes contiguous name code points and escaped code points.
// This assumes the name's first code point has just been consumed.
func (s *Scanner) scanName() string {
	var buf bytes.Buffer
	s.unread(1)
	for {
		if ch := s.read(); isName(ch) {
			_, _ = buf.WriteRune(ch)
		} else if validEscape(ch, s.peek(1)) {
			_, _ = buf.WriteRune(s.scanEscape())
		} else {
			s.unread(1)
			return buf.String()
		}
	}
}

// scanIdent consumes an ident-like token.
// This function can return an ident, function, url, or bad-url.
func (s *Scanner) scanIdent(pos token.Pos) token.Token {
	v := s.scanName()

	// Check if this is the start of a url token: "url(" not followed
	// by a quoted string. A quoted form stays a plain function.
	if strings.EqualFold(v, "url") && s.peek(1) == '(' {
		s.read()
		for isWhitespace(s.peek(1)) && isWhitespace(s.peek(2)) {
			s.read()
		}
		if c1, c2 := s.peek(1), s.peek(2); c1 == '"' || c1 == '\'' ||
			(isWhitespace(c1) && (c2 == '"' || c2 == '\'')) {
			return &token.Function{Value: v, Pos: pos}
		}
		return s.scanURL(pos)
	} else if s.peek(1) == '(' {
		s.read()
		return &token.Function{Value: v, Pos: pos}
	}

	return &token.Ident{Value: v, Pos: pos}
}

// scanURL consumes the contents of a URL function.
// This function assumes that the "url(" has just been consumed.
// This function can return a url or bad-url token.
func (s *Scanner) scanURL(pos token.Pos) token.Token {
	// Consume all whitespace after the "(".
	for isWhitespace(s.peek(1)) {
		s.read()
	}

	// Consume all non-whitespace, non-quote and non-paren code points
	// to form the URL value.
	var buf bytes.Buffer
	for {
		ch := s.read()
		if ch == ')' {
			return &token.URL{Value: buf.String(), Pos: pos}
		} else if ch == eof {
			s.errorf(s.Pos(), "unterminated url")
			return &token.URL{Value: buf.String(), Pos: pos}
		} else if isWhitespace(ch) {
			// Trailing whitespace is allowed before the closing paren.
			for isWhitespace(s.peek(1)) {
				s.read()
			}
			if ch := s.read(); ch == ')' {
				return &token.URL{Value: buf.String(), Pos: pos}
			} else if ch == eof {
				s.errorf(s.Pos(), "unterminated url")
				return &token.URL{Value: buf.String(), Pos: pos}
			}
			s.errorf(s.Pos(), "unexpected content after url")
			s.scanBadURL()
			return &token.BadURL{Pos: pos}
		} else if ch == '"' || ch == '\'' || ch == '(' || isNonPrintable(ch) {
			s.errorf(s.Pos(), "invalid url code point: %c (%U)", ch, ch)
			s.scanBadURL()
			return &token.BadURL{Pos: pos}
		} else if ch == '\\' {
			if validEscape(ch, s.peek(1)) {
				_, _ = buf.WriteRune(s.scanEscape())
			} else {
				s.errorf(s.Pos(), "unescaped \\ in url")
				s.scanBadURL()
				return &token.BadURL{Pos: pos}
			}
		} else {
			_, _ = buf.WriteRune(ch)
		}
	}
}

// scanBadURL recovers the scanner from a malformed URL token.
// We simply consume all non-) and non-eof characters and escaped code
// points. This function does not return anything.
func (s *Scanner) scanBadURL() {
	for {
		ch := s.read()
		if ch == ')' || ch == eof {
			return
		} else if validEscape(ch, s.peek(1)) {
			s.scanEscape()
		}
	}
}

// scanEscape consumes an escaped code point.
// This assumes the backslash has just been consumed.
func (s *Scanner) scanEscape() rune {
	var buf bytes.Buffer
	ch := s.read()
	if isHexDigit(ch) {
		_, _ = buf.WriteRune(ch)
		for i := 0; i < 5 && isHexDigit(s.peek(1)); i++ {
			_, _ = buf.WriteRune(s.read())
		}
		// A single whitespace code point after the hex run is part of
		// the escape.
		if isWhitespace(s.peek(1)) {
			s.read()
		}
		v, _ := strconv.ParseInt(buf.String(), 16, 32)
		if v == 0 || v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
			return '\uFFFD'
		}
		return rune(v)
	} else if ch == eof {
		s.errorf(s.Pos(), "unexpected EOF after \\")
		return '\uFFFD'
	}
	return ch
}

// read consumes and returns the next code point, or eof past the end.
// Reads past the end still advance the cursor so read and unread stay
// symmetric around EOF.
func (s *Scanner) read() rune {
	s.index++
	if s.index > len(s.input) {
		return eof
	}
	return s.input[s.index-1]
}

// unread moves the cursor back by n code points.
func (s *Scanner) unread(n int) {
	if n > maxLookahead {
		panic(&SpecError{Message: fmt.Sprintf("unread(%d) exceeds lookahead limit", n)})
	}
	s.index -= n
	if s.index < 0 {
		s.index = 0
	}
}

// peek returns the nth code point past the current one, n ∈ {1,2,3},
// without consuming anything.
func (s *Scanner) peek(n int) rune {
	if n < 1 || n > maxLookahead {
		panic(&SpecError{Message: fmt.Sprintf("peek(%d) exceeds lookahead limit", n)})
	}
	if i := s.index + n - 1; i < len(s.input) {
		return s.input[i]
	}
	return eof
}

// Pos returns the position of the current code point.
func (s *Scanner) Pos() token.Pos {
	i := s.index - 1
	if i < 0 {
		i = 0
	}
	if i > len(s.input) {
		i = len(s.input)
	}
	return s.posns[i]
}

// errorf records a recoverable parse error and reports it through the
// scanner's logger.
func (s *Scanner) errorf(pos token.Pos, format string, args ...interface{}) {
	err := &Error{Message: fmt.Sprintf(format, args...), Pos: pos}
	s.Errors = append(s.Errors, err)
	s.log.Warn("parse error",
		zap.String("message", err.Message),
		zap.Int("line", pos.Line),
		zap.Int("char", pos.Char),
	)
}

// validEscape returns true if the two code points are a valid escape.
func validEscape(ch0, ch1 rune) bool {
	return ch0 == '\\' && ch1 != '\n'
}

// startsIdentifier returns true if the three code points would start
// an identifier.
func startsIdentifier(ch0, ch1, ch2 rune) bool {
	switch {
	case ch0 == '-':
		return isNameStart(ch1) || ch1 == '-' || validEscape(ch1, ch2)
	case isNameStart(ch0):
		return true
	case ch0 == '\\':
		return validEscape(ch0, ch1)
	}
	return false
}

// startsNumber returns true if the three code points would start a
// number.
func startsNumber(ch0, ch1, ch2 rune) bool {
	switch {
	case ch0 == '+' || ch0 == '-':
		return isDigit(ch1) || (ch1 == '.' && isDigit(ch2))
	case ch0 == '.':
		return isDigit(ch1)
	}
	return isDigit(ch0)
}

// isWhitespace returns true if the rune is a space, tab, or newline.
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n'
}

// isLetter returns true if the rune is a letter.
func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if the rune is a digit.
func isDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9')
}

// isHexDigit returns true if the rune is a hex digit.
func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isNonASCII returns true if the rune is U+0080 or greater.
func isNonASCII(ch rune) bool {
	return ch >= '\u0080'
}

// isNameStart returns true if the rune can start a name.
func isNameStart(ch rune) bool {
	return isLetter(ch) || isNonASCII(ch) || ch == '_'
}

// isName returns true if the character is a name code point.
func isName(ch rune) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-'
}

// isNonPrintable returns true if the character is non-printable.
func isNonPrintable(ch rune) bool {
	return (ch >= '\u0000' && ch <= '\u0008') || ch == '\u000B' || (ch >= '\u000E' && ch <= '\u001F') || ch == '\u007F'
}

// Error represents a recoverable parse error.
type Error struct {
	Message string
	Pos     token.Pos
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return e.Message
}

// SpecError reports a violation of an internal scanner invariant such
// as the lookahead limit. It is raised via panic because it indicates
// a bug, not bad input.
type SpecError struct {
	Message string
}

// Error returns the formatted string error message.
func (e *SpecError) Error() string {
	return e.Message
}
