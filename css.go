package css

import (
	"github.com/tomhodgins/parse-css/ast"
	"github.com/tomhodgins/parse-css/canon"
	"github.com/tomhodgins/parse-css/parser"
	"github.com/tomhodgins/parse-css/scanner"
	"github.com/tomhodgins/parse-css/token"
)

// Tokenize scans an entire source text into its token sequence.
// Recoverable parse errors do not stop tokenization; they are returned
// alongside the tokens as a *scanner.Error list.
func Tokenize(text string) ([]token.Token, []*scanner.Error) {
	s := scanner.NewString(text)
	toks := s.ScanAll()
	return toks, s.Errors
}

// stream tokenizes a source text into a random-access token stream.
func stream(text string) parser.Scanner {
	s := scanner.NewString(text)
	return parser.NewTokenScanner(s.ScanAll())
}

// ParseAStylesheet parses a source text into a stylesheet.
func ParseAStylesheet(text string) (*ast.StyleSheet, error) {
	return parser.ParseStyleSheet(stream(text))
}

// ParseAListOfRules parses a source text into a list of rules without
// the top-level handling of CDO and CDC.
func ParseAListOfRules(text string) (ast.Rules, error) {
	return parser.ParseRules(stream(text))
}

// ParseARule parses exactly one rule and fails if any content other
// than whitespace remains.
func ParseARule(text string) (ast.Rule, error) {
	return parser.ParseRule(stream(text))
}

// ParseADeclaration parses exactly one declaration and fails if the
// input does not begin with an ident.
func ParseADeclaration(text string) (*ast.Declaration, error) {
	return parser.ParseDeclaration(stream(text))
}

// ParseAListOfDeclarations parses a declaration list, which may also
// contain at-rules.
func ParseAListOfDeclarations(text string) (ast.Declarations, error) {
	return parser.ParseDeclarations(stream(text))
}

// ParseAComponentValue parses exactly one component value and fails if
// any content other than whitespace remains.
func ParseAComponentValue(text string) (ast.ComponentValue, error) {
	return parser.ParseComponentValue(stream(text))
}

// ParseAListOfComponentValues parses a source text into its component
// values.
func ParseAListOfComponentValues(text string) (ast.ComponentValues, error) {
	return parser.ParseComponentValues(stream(text))
}

// ParseACommaSeparatedListOfComponentValues parses component value
// groups split on top-level commas.
func ParseACommaSeparatedListOfComponentValues(text string) ([]ast.ComponentValues, error) {
	return parser.ParseCommaSeparatedComponentValues(stream(text))
}

// Canonicalize validates a parse tree against a grammar table. A nil
// grammar selects canon.DefaultGrammar.
func Canonicalize(n ast.Node, grammar, top *canon.Grammar) *canon.Record {
	return canon.Canonicalize(n, grammar, top)
}
