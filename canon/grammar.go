package canon

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tomhodgins/parse-css/ast"
)

// Grammar describes the expected shape of one rule's contents.
//
// A grammar is declarative and shallow: it says whether a rule's block
// holds declarations, nested qualified rules, or a whole stylesheet,
// and which nested at-rules are recognised. A nil *Grammar stored in
// Children means the at-rule is recognised but carries no structured
// content (e.g. @import).
type Grammar struct {
	// Declarations indicates the block holds a declaration list.
	Declarations bool

	// Qualified, when non-nil, allows qualified rules inside the block
	// and describes their contents.
	Qualified *Grammar

	// Stylesheet indicates the block is parsed with the top-level
	// grammar.
	Stylesheet bool

	// Unknown transforms unrecognised child rules. When nil an
	// unrecognised rule produces an error record.
	Unknown func(n ast.Node) *Record

	// Children maps "@name" keys to the grammar for nested at-rules.
	Children map[string]*Grammar
}

// empty reports whether the grammar prescribes no structure at all.
func (g *Grammar) empty() bool {
	return g != nil && !g.Declarations && !g.Stylesheet &&
		g.Qualified == nil && g.Unknown == nil && len(g.Children) == 0
}

// UnmarshalYAML decodes a grammar from its declarative YAML form.
// A grammar node is either a boolean, null, or a mapping whose "@"
// prefixed keys declare child at-rule grammars.
func (g *Grammar) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return nil
		}
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		// A bare "true" means the construct is allowed with no
		// further structure; "false" is the zero grammar.
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			switch {
			case key.Value == "declarations":
				if err := val.Decode(&g.Declarations); err != nil {
					return err
				}
			case key.Value == "stylesheet":
				if err := val.Decode(&g.Stylesheet); err != nil {
					return err
				}
			case key.Value == "qualified":
				sub := &Grammar{}
				if err := sub.UnmarshalYAML(val); err != nil {
					return err
				}
				g.Qualified = sub
			case strings.HasPrefix(key.Value, "@"):
				if g.Children == nil {
					g.Children = map[string]*Grammar{}
				}
				if val.Kind == yaml.ScalarNode && val.Tag == "!!null" {
					g.Children[key.Value] = nil
					continue
				}
				sub := &Grammar{}
				if err := sub.UnmarshalYAML(val); err != nil {
					return err
				}
				g.Children[key.Value] = sub
			default:
				return fmt.Errorf("unknown grammar key %q", key.Value)
			}
		}
		return nil
	}
	return fmt.Errorf("invalid grammar node (line %d)", value.Line)
}

// ParseGrammar loads a grammar table from its YAML form.
func ParseGrammar(b []byte) (*Grammar, error) {
	g := &Grammar{}
	if err := yaml.Unmarshal(b, g); err != nil {
		return nil, err
	}
	return g, nil
}

// defaultGrammarYAML declares the grammar of the standard at-rules.
const defaultGrammarYAML = `
qualified: {declarations: true}
"@media": {stylesheet: true}
"@keyframes": {qualified: {declarations: true}}
"@font-face": {declarations: true}
"@supports": {stylesheet: true}
"@scope": {stylesheet: true}
"@counter-style": {declarations: true}
"@import": null
"@font-feature-values":
  qualified: true
  "@stylistic": {declarations: true}
  "@styleset": {declarations: true}
  "@character-variants": {declarations: true}
  "@swash": {declarations: true}
  "@ornaments": {declarations: true}
  "@annotation": {declarations: true}
"@viewport": {declarations: true}
"@page":
  declarations: true
  "@top-left-corner": {declarations: true}
  "@top-left": {declarations: true}
  "@top-center": {declarations: true}
  "@top-right": {declarations: true}
  "@top-right-corner": {declarations: true}
  "@bottom-left-corner": {declarations: true}
  "@bottom-left": {declarations: true}
  "@bottom-center": {declarations: true}
  "@bottom-right": {declarations: true}
  "@bottom-right-corner": {declarations: true}
  "@left-top": {declarations: true}
  "@left-middle": {declarations: true}
  "@left-bottom": {declarations: true}
  "@right-top": {declarations: true}
  "@right-middle": {declarations: true}
  "@right-bottom": {declarations: true}
"@custom-selector": null
"@custom-media": null
`

// DefaultGrammar is the built-in grammar table covering the standard
// at-rules.
var DefaultGrammar = mustParseGrammar(defaultGrammarYAML)

func mustParseGrammar(s string) *Grammar {
	g, err := ParseGrammar([]byte(s))
	if err != nil {
		panic(err)
	}
	return g
}
