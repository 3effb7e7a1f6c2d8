package parser

import (
	"fmt"
	"strings"

	"github.com/tomhodgins/parse-css/ast"
	"github.com/tomhodgins/parse-css/token"
)

// parser represents a CSS3 parser.
type parser struct {
	errors ErrorList
}

// ParseStyleSheet parses an input stream into a stylesheet.
func ParseStyleSheet(s Scanner) (*ast.StyleSheet, error) {
	var p parser
	ss := &ast.StyleSheet{}
	ss.Rules = p.consumeRules(s, true)
	return ss, p.error()
}

// ParseRules parses a list of rules. Unlike the top level of a
// stylesheet, CDO and CDC tokens are not skipped here.
func ParseRules(s Scanner) (ast.Rules, error) {
	var p parser
	a := p.consumeRules(s, false)
	return a, p.error()
}

// ParseRule parses a single qualified rule or at-rule.
// It fails if anything other than whitespace follows the rule.
func ParseRule(s Scanner) (ast.Rule, error) {
	var p parser
	var r ast.Rule

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	switch tok := s.Scan().(type) {
	case *token.EOF:
		p.errors = append(p.errors, &Error{Message: "unexpected EOF", Pos: tok.Position()})
		return nil, p.error()
	case *token.AtKeyword:
		r = p.consumeAtRule(s)
	default:
		s.Unscan()
		if qr := p.consumeQualifiedRule(s); qr != nil {
			r = qr
		} else {
			p.errors = append(p.errors, &Error{Message: "expected rule", Pos: s.Current().Position()})
			return nil, p.error()
		}
	}

	// Skip over trailing whitespace.
	p.skipWhitespace(s)

	// If we're not at EOF then return a syntax error.
	tok := s.Scan()
	if _, ok := tok.(*token.EOF); !ok {
		s.Unscan()
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected EOF, got %q", tok.ToSource()), Pos: tok.Position()})
		return nil, p.error()
	}

	return r, p.error()
}

// ParseDeclaration parses a name/value declaration.
func ParseDeclaration(s Scanner) (*ast.Declaration, error) {
	var p parser

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	// If the next token is not an ident then return an error.
	if _, ok := s.Scan().(*token.Ident); !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected ident, got %q", s.Current().ToSource()), Pos: s.Current().Position()})
		return nil, p.error()
	}
	s.Unscan()

	// Consume a declaration. If nothing is returned, return syntax error.
	d := p.consumeDeclaration(s)
	if d == nil {
		p.errors = append(p.errors, &Error{Message: "expected declaration", Pos: s.Current().Position()})
	}

	return d, p.error()
}

// ParseDeclarations parses a list of declarations and at-rules.
func ParseDeclarations(s Scanner) (ast.Declarations, error) {
	var p parser
	a := p.consumeDeclarations(s)
	return a, p.error()
}

// ParseComponentValue parses a component value.
// It fails if anything other than whitespace follows the value.
func ParseComponentValue(s Scanner) (ast.ComponentValue, error) {
	var p parser

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	// If the next token is EOF then return an error.
	if _, ok := s.Scan().(*token.EOF); ok {
		p.errors = append(p.errors, &Error{Message: "unexpected EOF", Pos: s.Current().Position()})
		return nil, p.error()
	}
	s.Unscan()

	// Consume component value.
	v := p.consumeComponentValue(s)
	if v == nil {
		p.errors = append(p.errors, &Error{Message: "expected component value", Pos: s.Current().Position()})
		return nil, p.error()
	}

	// Skip over any trailing whitespace.
	p.skipWhitespace(s)

	// If we're not at EOF then return a syntax error.
	tok := s.Scan()
	if _, ok := tok.(*token.EOF); !ok {
		s.Unscan()
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected EOF, got %q", tok.ToSource()), Pos: tok.Position()})
		return nil, p.error()
	}

	return v, nil
}

// ParseComponentValues parses a list of component values.
func ParseComponentValues(s Scanner) (ast.ComponentValues, error) {
	var a ast.ComponentValues

	// Repeatedly consume a component value until EOF.
	var p parser
	for {
		v := p.consumeComponentValue(s)

		// If the value is an EOF, then exit.
		if v, ok := v.(*ast.Token); ok {
			if _, ok := v.Token.(*token.EOF); ok {
				break
			}
		}

		// Otherwise append to list of component values.
		a = append(a, v)
	}

	return a, nil
}

// ParseCommaSeparatedComponentValues parses groups of component values
// split on top-level commas.
func ParseCommaSeparatedComponentValues(s Scanner) ([]ast.ComponentValues, error) {
	var p parser
	var groups []ast.ComponentValues
	var cur ast.ComponentValues
	for {
		switch s.Scan().(type) {
		case *token.EOF:
			groups = append(groups, cur)
			return groups, nil
		case *token.Comma:
			groups = append(groups, cur)
			cur = nil
		default:
			s.Unscan()
			cur = append(cur, p.consumeComponentValue(s))
		}
	}
}

// error returns the errors on the parser.
// Returns nil if there are no errors.
func (p *parser) error() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors
}

// consumeRules consumes a list of rules from a token stream. (§5.4.1)
func (p *parser) consumeRules(s Scanner, toplevel bool) ast.Rules {
	var a ast.Rules
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Whitespace:
			// nop
		case *token.EOF:
			return a
		case *token.CDO, *token.CDC:
			// CDO and CDC are only skipped at the top level; nested
			// rule lists reconsume them as a qualified rule prelude.
			if !toplevel {
				s.Unscan()
				if r := p.consumeQualifiedRule(s); r != nil {
					a = append(a, r)
				}
			}
		case *token.AtKeyword:
			if r := p.consumeAtRule(s); r != nil {
				a = append(a, r)
			}
		default:
			s.Unscan()
			if r := p.consumeQualifiedRule(s); r != nil {
				a = append(a, r)
			}
		}
	}
}

// consumeAtRule consumes a single at-rule. (§5.4.2)
// This assumes the current token is an at-keyword.
func (p *parser) consumeAtRule(s Scanner) *ast.AtRule {
	r := &ast.AtRule{}

	// Set the name to the value of the current token.
	r.Name = s.Current().(*token.AtKeyword).Value

	// Repeatedly consume the next token.
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Semicolon, *token.EOF:
			return r
		case *token.LBrace:
			r.Block = p.consumeSimpleBlock(s)
			return r
		default:
			s.Unscan()
			r.Prelude = append(r.Prelude, p.consumeComponentValue(s))
		}
	}
}

// consumeQualifiedRule consumes a single qualified rule. (§5.4.3)
func (p *parser) consumeQualifiedRule(s Scanner) *ast.QualifiedRule {
	r := &ast.QualifiedRule{}

	// Repeatedly consume the next token.
	for {
		tok := s.Scan()
		switch tok := tok.(type) {
		case *token.EOF:
			p.errors = append(p.errors, &Error{Message: "unexpected EOF", Pos: tok.Position()})
			return nil
		case *token.LBrace:
			r.Block = p.consumeSimpleBlock(s)
			return r
		default:
			s.Unscan()
			r.Prelude = append(r.Prelude, p.consumeComponentValue(s))
		}
	}
}

// consumeDeclarations consumes a list of declarations. (§5.4.4)
func (p *parser) consumeDeclarations(s Scanner) ast.Declarations {
	var a ast.Declarations

	// Repeatedly consume the next token.
	for {
		tok := s.Scan()
		switch tok := tok.(type) {
		case *token.Whitespace, *token.Semicolon:
			// nop
		case *token.EOF:
			return a
		case *token.AtKeyword:
			a = append(a, p.consumeAtRule(s))
		case *token.Ident:
			// Buffer component values up to the next top-level
			// semicolon, then reparse them as a single declaration.
			s.Unscan()
			buf := p.consumeDeclarationValues(s)
			if d := p.consumeDeclaration(NewTokenScanner(buf.Tokens())); d != nil {
				a = append(a, d)
			}
		default:
			// Any other token is a syntax error.
			p.errors = append(p.errors, &Error{Message: fmt.Sprintf("unexpected %q", tok.ToSource()), Pos: tok.Position()})

			// Repeatedly consume a component value until semicolon or EOF.
			p.skipComponentValues(s)
		}
	}
}

// consumeDeclaration consumes a single declaration. (§5.4.5)
// This assumes the next token is an ident.
func (p *parser) consumeDeclaration(s Scanner) *ast.Declaration {
	d := &ast.Declaration{}

	// The first token must be an ident.
	d.Name = s.Scan().(*token.Ident).Value

	// Skip over whitespace.
	p.skipWhitespace(s)

	// The next token must be a colon.
	if _, ok := s.Scan().(*token.Colon); !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected colon, got %q", s.Current().ToSource()), Pos: s.Current().Position()})
		return nil
	}

	// Consume the declaration value until EOF.
	for {
		tok := s.Scan()
		if _, ok := tok.(*token.EOF); ok {
			break
		}
		s.Unscan()
		d.Values = append(d.Values, p.consumeComponentValue(s))
	}

	// Check the trailing non-whitespace tokens for "!important".
	d.Values, d.Important = cleanImportantFlag(d.Values)

	return d
}

// cleanImportantFlag checks whether the last two non-whitespace values
// are a "!" delimiter followed by a case-insensitive "important" ident.
// If so it removes them, along with any surrounding whitespace, and
// returns the important flag set to true.
func cleanImportantFlag(values ast.ComponentValues) (ast.ComponentValues, bool) {
	values = trimTrailingWhitespace(values)
	if len(values) < 2 {
		return values, false
	}

	last, ok := values[len(values)-1].(*ast.Token)
	if !ok {
		return values, false
	}
	ident, ok := last.Token.(*token.Ident)
	if !ok || !strings.EqualFold(ident.Value, "important") {
		return values, false
	}

	// Walk backwards over whitespace to the "!" delimiter.
	for i := len(values) - 2; i >= 0; i-- {
		tok, ok := values[i].(*ast.Token)
		if !ok {
			return values, false
		}
		if _, ok := tok.Token.(*token.Whitespace); ok {
			continue
		}
		if delim, ok := tok.Token.(*token.Delim); ok && delim.Value == '!' {
			return trimTrailingWhitespace(values[:i]), true
		}
		return values, false
	}
	return values, false
}

// trimTrailingWhitespace removes trailing whitespace tokens.
func trimTrailingWhitespace(values ast.ComponentValues) ast.ComponentValues {
	for len(values) > 0 {
		tok, ok := values[len(values)-1].(*ast.Token)
		if !ok {
			break
		}
		if _, ok := tok.Token.(*token.Whitespace); !ok {
			break
		}
		values = values[:len(values)-1]
	}
	return values
}

// consumeComponentValue consumes a single component value. (§5.4.6)
func (p *parser) consumeComponentValue(s Scanner) ast.ComponentValue {
	tok := s.Scan()
	switch tok.(type) {
	case *token.LBrace, *token.LBrack, *token.LParen:
		return p.consumeSimpleBlock(s)
	case *token.Function:
		return p.consumeFunction(s)
	default:
		return &ast.Token{Token: tok}
	}
}

// consumeSimpleBlock consumes a simple block. (§5.4.7)
func (p *parser) consumeSimpleBlock(s Scanner) *ast.SimpleBlock {
	b := &ast.SimpleBlock{}

	// Set the block's associated token to the current token.
	b.Token = s.Current()

	for {
		tok := s.Scan()

		// If this token is EOF or the mirror of the starting token
		// then return. Mismatched closers stay preserved tokens.
		switch tok.(type) {
		case *token.EOF:
			return b
		case *token.RBrack:
			if _, ok := b.Token.(*token.LBrack); ok {
				return b
			}
		case *token.RBrace:
			if _, ok := b.Token.(*token.LBrace); ok {
				return b
			}
		case *token.RParen:
			if _, ok := b.Token.(*token.LParen); ok {
				return b
			}
		}

		// Otherwise consume a component value.
		s.Unscan()
		b.Values = append(b.Values, p.consumeComponentValue(s))
	}
}

// consumeFunction consumes a function. (§5.4.8)
func (p *parser) consumeFunction(s Scanner) *ast.Function {
	f := &ast.Function{}

	// Set the name to the first token.
	f.Name = s.Current().(*token.Function).Value

	for {
		tok := s.Scan()

		// If this token is EOF or a right parenthesis then return.
		switch tok.(type) {
		case *token.EOF, *token.RParen:
			return f
		}

		// Otherwise consume a component value.
		s.Unscan()
		f.Values = append(f.Values, p.consumeComponentValue(s))
	}
}

// consumeDeclarationValues collects component values up to but not
// including the next top-level semicolon or EOF.
func (p *parser) consumeDeclarationValues(s Scanner) ast.ComponentValues {
	var a ast.ComponentValues
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Semicolon, *token.EOF:
			s.Unscan()
			return a
		}
		s.Unscan()
		a = append(a, p.consumeComponentValue(s))
	}
}

// skipComponentValues consumes all component values until a semicolon
// or EOF.
func (p *parser) skipComponentValues(s Scanner) {
	for {
		v := p.consumeComponentValue(s)
		if tok, ok := v.(*ast.Token); ok {
			switch tok.Token.(type) {
			case *token.Semicolon, *token.EOF:
				return
			}
		}
	}
}

// skipWhitespace skips over all contiguous whitespace tokens.
func (p *parser) skipWhitespace(s Scanner) {
	for {
		if _, ok := s.Scan().(*token.Whitespace); !ok {
			s.Unscan()
			return
		}
	}
}

// Scanner represents a type that can retrieve the next token.
type Scanner interface {
	Current() token.Token
	Scan() token.Token
	Unscan()
}

// TokenScanner represents a scanner for a fixed list of tokens.
type TokenScanner struct {
	i      int // number of scanned tokens
	tokens []token.Token
}

// NewTokenScanner returns a new instance of TokenScanner.
func NewTokenScanner(tokens []token.Token) *TokenScanner {
	return &TokenScanner{tokens: tokens}
}

// Current returns the most recently scanned token.
// Scanning past the end always yields a fresh EOF token.
func (s *TokenScanner) Current() token.Token {
	if s.i == 0 || s.i > len(s.tokens) {
		return &token.EOF{}
	}
	return s.tokens[s.i-1]
}

// Scan returns the next token.
func (s *TokenScanner) Scan() token.Token {
	if s.i <= len(s.tokens) {
		s.i++
	}
	return s.Current()
}

// Unscan moves back one token.
func (s *TokenScanner) Unscan() {
	if s.i > 0 {
		s.i--
	}
}

// Error represents a syntax error.
type Error struct {
	Message string
	Pos     token.Pos
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return e.Message
}

// ErrorList represents a list of syntax errors.
type ErrorList []error

// Error returns the formatted string error message.
func (a ErrorList) Error() string {
	switch len(a) {
	case 0:
		return "no errors"
	case 1:
		return a[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", a[0], len(a)-1)
}
