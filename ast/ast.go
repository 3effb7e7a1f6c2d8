package ast

import (
	"bytes"

	"github.com/tomhodgins/parse-css/token"
)

// Node represents a node in the CSS3 abstract syntax tree.
type Node interface {
	node()
	String() string
}

func (_ *StyleSheet) node()     {}
func (_ Rules) node()           {}
func (_ *AtRule) node()         {}
func (_ *QualifiedRule) node()  {}
func (_ Declarations) node()    {}
func (_ *Declaration) node()    {}
func (_ ComponentValues) node() {}
func (_ *SimpleBlock) node()    {}
func (_ *Function) node()       {}
func (_ *Token) node()          {}

// StyleSheet represents a top-level CSS3 stylesheet.
type StyleSheet struct {
	Rules Rules
}

func (s *StyleSheet) String() string {
	var buf bytes.Buffer
	for i, r := range s.Rules {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(r.String())
	}
	return buf.String()
}

// Rules represents a list of rules.
type Rules []Rule

func (a Rules) String() string {
	var buf bytes.Buffer
	for i, r := range a {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(r.String())
	}
	return buf.String()
}

// Rule represents a qualified rule or at-rule.
type Rule interface {
	Node
	rule()
}

func (_ *AtRule) rule()        {}
func (_ *QualifiedRule) rule() {}

// AtRule represents a rule starting with an "@" symbol.
type AtRule struct {
	Name    string
	Prelude ComponentValues
	Block   *SimpleBlock
}

func (r *AtRule) String() string {
	var buf bytes.Buffer
	buf.WriteString((&token.AtKeyword{Value: r.Name}).ToSource())
	buf.WriteString(r.Prelude.String())
	if r.Block != nil {
		buf.WriteString(r.Block.String())
	} else {
		buf.WriteString(";")
	}
	return buf.String()
}

// QualifiedRule represents an unnamed rule that includes a prelude and block.
type QualifiedRule struct {
	Prelude ComponentValues
	Block   *SimpleBlock
}

func (r *QualifiedRule) String() string {
	return r.Prelude.String() + r.Block.String()
}

// Declarations represents a list of declarations or at-rules.
type Declarations []Node

func (a Declarations) String() string {
	var buf bytes.Buffer
	for _, n := range a {
		buf.WriteString(n.String())
		if _, ok := n.(*Declaration); ok {
			buf.WriteString(";")
		}
	}
	return buf.String()
}

// Declaration represents a name/value pair.
type Declaration struct {
	Name      string
	Values    ComponentValues
	Important bool
}

func (d *Declaration) String() string {
	var buf bytes.Buffer
	buf.WriteString((&token.Ident{Value: d.Name}).ToSource())
	buf.WriteString(":")
	buf.WriteString(d.Values.String())
	if d.Important {
		buf.WriteString("!important")
	}
	return buf.String()
}

// ComponentValues represents a list of component values.
type ComponentValues []ComponentValue

func (a ComponentValues) String() string {
	var buf bytes.Buffer
	for _, v := range a {
		buf.WriteString(v.String())
	}
	return buf.String()
}

// Tokens flattens the component values back into the token sequence
// they were built from. Blocks and functions contribute their opening
// token, their flattened contents, and their mirror closer.
func (a ComponentValues) Tokens() []token.Token {
	var toks []token.Token
	for _, v := range a {
		toks = appendTokens(toks, v)
	}
	return toks
}

func appendTokens(toks []token.Token, v ComponentValue) []token.Token {
	switch v := v.(type) {
	case *Token:
		toks = append(toks, v.Token)
	case *SimpleBlock:
		toks = append(toks, v.Token)
		for _, inner := range v.Values {
			toks = appendTokens(toks, inner)
		}
		switch v.Token.(type) {
		case *token.LBrack:
			toks = append(toks, &token.RBrack{})
		case *token.LParen:
			toks = append(toks, &token.RParen{})
		default:
			toks = append(toks, &token.RBrace{})
		}
	case *Function:
		toks = append(toks, &token.Function{Value: v.Name})
		for _, inner := range v.Values {
			toks = appendTokens(toks, inner)
		}
		toks = append(toks, &token.RParen{})
	}
	return toks
}

// ComponentValue represents a component value.
type ComponentValue interface {
	Node
	componentValue()
}

func (_ *SimpleBlock) componentValue() {}
func (_ *Function) componentValue()    {}
func (_ *Token) componentValue()       {}

// SimpleBlock represents a {-block, [-block, or (-block.
// Token holds the block's opening token; the closer is its mirror.
type SimpleBlock struct {
	Token  token.Token
	Values ComponentValues
}

func (b *SimpleBlock) String() string {
	var buf bytes.Buffer
	buf.WriteString(b.Token.ToSource())
	buf.WriteString(b.Values.String())
	if m := token.Mirror(b.Token); m != 0 {
		buf.WriteRune(m)
	}
	return buf.String()
}

// Function represents a function call with a list of arguments.
type Function struct {
	Name   string
	Values ComponentValues
}

func (f *Function) String() string {
	return (&token.Function{Value: f.Name}).ToSource() + f.Values.String() + ")"
}

// Token represents a single preserved token in the AST.
type Token struct {
	token.Token
}

func (t *Token) String() string {
	return t.Token.ToSource()
}
