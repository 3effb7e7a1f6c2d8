// Package canon validates a parse tree against a declarative grammar
// of known at-rules and flattens it into plain records.
package canon

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/tomhodgins/parse-css/ast"
	"github.com/tomhodgins/parse-css/parser"
)

// Record is the canonical, plain form of a parse-tree node.
type Record struct {
	Kind         string              `json:"kind" yaml:"kind"`
	Name         string              `json:"name,omitempty" yaml:"name,omitempty"`
	Prelude      ast.ComponentValues `json:"prelude,omitempty" yaml:"-"`
	Value        ast.ComponentValues `json:"value,omitempty" yaml:"-"`
	Important    bool                `json:"important,omitempty" yaml:"important,omitempty"`
	Declarations map[string]*Record  `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	Rules        []*Record           `json:"rules,omitempty" yaml:"rules,omitempty"`
	Errors       []string            `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// DeclarationNames returns the record's declaration names in sorted
// order.
func (r *Record) DeclarationNames() []string {
	names := maps.Keys(r.Declarations)
	slices.Sort(names)
	return names
}

// Canonicalize walks a parse tree and cross-checks it against a
// grammar. A nil grammar selects the default table; top is the grammar
// used for nested stylesheet contexts such as @media and defaults to
// the grammar itself.
func Canonicalize(n ast.Node, grammar, top *Grammar) *Record {
	if grammar == nil {
		grammar = DefaultGrammar
	}
	if top == nil {
		top = grammar
	}

	switch n := n.(type) {
	case *ast.StyleSheet:
		return &Record{Kind: "stylesheet", Rules: canonicalizeRules(n.Rules, grammar, top)}
	case ast.Rules:
		return &Record{Kind: "stylesheet", Rules: canonicalizeRules(n, grammar, top)}
	case *ast.AtRule:
		return canonicalizeAtRule(n, grammar, top)
	case *ast.QualifiedRule:
		return canonicalizeQualifiedRule(n, grammar, top)
	case *ast.Declaration:
		return canonicalizeDeclaration(n)
	}
	return &Record{Kind: "error", Errors: []string{"unsupported node"}}
}

func canonicalizeRules(rules ast.Rules, g, top *Grammar) []*Record {
	var out []*Record
	for _, r := range rules {
		switch r := r.(type) {
		case *ast.AtRule:
			out = append(out, canonicalizeAtRule(r, g, top))
		case *ast.QualifiedRule:
			out = append(out, canonicalizeQualifiedRule(r, g, top))
		}
	}
	return out
}

func canonicalizeAtRule(r *ast.AtRule, g, top *Grammar) *Record {
	rec := &Record{Kind: "at-rule", Name: r.Name, Prelude: r.Prelude}

	sub, known := g.Children["@"+strings.ToLower(r.Name)]
	if !known {
		if g.Unknown != nil {
			return g.Unknown(r)
		}
		rec.Errors = append(rec.Errors, "unrecognized rule @"+r.Name)
		return rec
	}

	// A recognised rule with a nil grammar carries no structured
	// content, like @import.
	if sub == nil {
		if r.Block != nil {
			rec.Errors = append(rec.Errors, "@"+r.Name+" does not take a block")
		}
		return rec
	}

	eff := sub
	if sub.Stylesheet {
		eff = top
	}

	if r.Block == nil {
		rec.Errors = append(rec.Errors, "@"+r.Name+" requires a block")
		return rec
	}

	// A grammar with no structure of its own leaves the block
	// uninterpreted.
	if eff.empty() {
		return rec
	}

	fillBlock(rec, r.Block, eff, top)
	return rec
}

func canonicalizeQualifiedRule(r *ast.QualifiedRule, g, top *Grammar) *Record {
	rec := &Record{Kind: "qualified-rule", Prelude: r.Prelude}

	if g.Qualified == nil {
		if g.Unknown != nil {
			return g.Unknown(r)
		}
		rec.Errors = append(rec.Errors, "unexpected qualified rule")
		return rec
	}
	if r.Block == nil {
		rec.Errors = append(rec.Errors, "qualified rule requires a block")
		return rec
	}
	if g.Qualified.empty() {
		return rec
	}

	fillBlock(rec, r.Block, g.Qualified, top)
	return rec
}

func canonicalizeDeclaration(d *ast.Declaration) *Record {
	return &Record{
		Kind:      "declaration",
		Name:      d.Name,
		Value:     d.Values,
		Important: d.Important,
	}
}

// fillBlock reparses a rule's block according to its grammar, filling
// the record's declarations map and rules list.
func fillBlock(rec *Record, block *ast.SimpleBlock, g, top *Grammar) {
	stream := parser.NewTokenScanner(block.Values.Tokens())

	if g.Declarations {
		decls, err := parser.ParseDeclarations(stream)
		if err != nil {
			rec.Errors = append(rec.Errors, err.Error())
		}
		rec.Declarations = map[string]*Record{}
		for _, n := range decls {
			switch n := n.(type) {
			case *ast.Declaration:
				rec.Declarations[n.Name] = canonicalizeDeclaration(n)
			case *ast.AtRule:
				rec.Rules = append(rec.Rules, canonicalizeAtRule(n, g, top))
			}
		}
		return
	}

	rules, err := parser.ParseRules(stream)
	if err != nil {
		rec.Errors = append(rec.Errors, err.Error())
	}
	rec.Rules = canonicalizeRules(rules, g, top)
}
