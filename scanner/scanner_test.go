package scanner_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tomhodgins/parse-css/scanner"
	"github.com/tomhodgins/parse-css/token"
)

// Ensure that the scanner returns appropriate tokens and values.
func TestScanner_Scan(t *testing.T) {
	var tests = []struct {
		s   string
		tok token.Token
		err string
	}{
		{s: ``, tok: &token.EOF{}},
		{s: `   `, tok: &token.Whitespace{}},
		{s: "\t\n ", tok: &token.Whitespace{}},

		{s: `""`, tok: &token.String{Value: ``}},
		{s: `"`, tok: &token.String{Value: ``}, err: "unterminated string"},
		{s: `"foo`, tok: &token.String{Value: `foo`}, err: "unterminated string"},
		{s: `"hello world"`, tok: &token.String{Value: `hello world`}},
		{s: `'hello world'`, tok: &token.String{Value: `hello world`}},
		{s: "'foo\\\nbar'", tok: &token.String{Value: "foobar"}},
		{s: `'foo\ bar'`, tok: &token.String{Value: `foo bar`}},
		{s: `'foo\\bar'`, tok: &token.String{Value: `foo\bar`}},
		{s: `'frosty the \2603'`, tok: &token.String{Value: `frosty the ☃`}},
		{s: `'\0a foo'`, tok: &token.String{Value: "\nfoo"}},
		{s: "'foo\nbar'", tok: &token.BadString{}, err: "newline in string"},
		{s: `'\0'`, tok: &token.String{Value: "�"}},
		{s: `'\110000'`, tok: &token.String{Value: "�"}},
		{s: `'\d800'`, tok: &token.String{Value: "�"}},

		{s: `0`, tok: &token.Number{Type: "integer", Value: `0`, Number: 0.0}},
		{s: `1.0`, tok: &token.Number{Type: "number", Value: `1.0`, Number: 1.0}},
		{s: `1.123`, tok: &token.Number{Type: "number", Value: `1.123`, Number: 1.123}},
		{s: `.001`, tok: &token.Number{Type: "number", Value: `.001`, Number: 0.001}},
		{s: `-.001`, tok: &token.Number{Type: "number", Value: `-.001`, Number: -0.001}},
		{s: `10000`, tok: &token.Number{Type: "integer", Value: `10000`, Number: 10000}},
		{s: `10000.`, tok: &token.Number{Type: "integer", Value: `10000`, Number: 10000}},
		{s: `100E`, tok: &token.Dimension{Type: "integer", Value: `100`, Number: 100, Unit: "E"}},
		{s: `100E+`, tok: &token.Dimension{Type: "integer", Value: `100`, Number: 100, Unit: "E"}},
		{s: `100E-`, tok: &token.Dimension{Type: "integer", Value: `100`, Number: 100, Unit: "E-"}},
		{s: `10E-`, tok: &token.Dimension{Type: "integer", Value: `10`, Number: 10, Unit: "E-"}},
		{s: `1E2`, tok: &token.Number{Type: "number", Value: `1E2`, Number: 100}},
		{s: `1.5E2`, tok: &token.Number{Type: "number", Value: `1.5E2`, Number: 150}},
		{s: `1.5E+2`, tok: &token.Number{Type: "number", Value: `1.5E+2`, Number: 150}},
		{s: `1.5E-2`, tok: &token.Number{Type: "number", Value: `1.5E-2`, Number: 0.015}},
		{s: `+100`, tok: &token.Number{Type: "integer", Value: `+100`, Number: 100}},
		{s: `+1.0`, tok: &token.Number{Type: "number", Value: `+1.0`, Number: 1}},
		{s: `-100`, tok: &token.Number{Type: "integer", Value: `-100`, Number: -100}},
		{s: `-1.0`, tok: &token.Number{Type: "number", Value: `-1.0`, Number: -1}},
		{s: `+`, tok: &token.Delim{Value: '+'}},
		{s: `-`, tok: &token.Delim{Value: '-'}},
		{s: `.`, tok: &token.Delim{Value: '.'}},

		{s: `100em`, tok: &token.Dimension{Type: "integer", Value: `100`, Number: 100, Unit: "em"}},
		{s: `-1.2in`, tok: &token.Dimension{Type: "number", Value: `-1.2`, Number: -1.2, Unit: "in"}},
		{s: `10px`, tok: &token.Dimension{Type: "integer", Value: `10`, Number: 10, Unit: "px"}},

		{s: `100%`, tok: &token.Percentage{Type: "integer", Value: `100`, Number: 100}},
		{s: `-0.2%`, tok: &token.Percentage{Type: "number", Value: `-0.2`, Number: -0.2}},
		{s: `1.5e2%`, tok: &token.Percentage{Type: "number", Value: `1.5e2`, Number: 150}},

		{s: `url`, tok: &token.Ident{Value: `url`}},
		{s: `myIdent`, tok: &token.Ident{Value: `myIdent`}},
		{s: `my\2603`, tok: &token.Ident{Value: `my☃`}},
		{s: `-foo`, tok: &token.Ident{Value: `-foo`}},
		{s: `--foo`, tok: &token.Ident{Value: `--foo`}},
		{s: `--b`, tok: &token.Ident{Value: `--b`}},
		{s: `u`, tok: &token.Ident{Value: `u`}},

		{s: `url(`, tok: &token.URL{Value: ``}, err: "unterminated url"},
		{s: `url(foo`, tok: &token.URL{Value: `foo`}, err: "unterminated url"},
		{s: `url(http://foo.com#bar?baz=bat)`, tok: &token.URL{Value: `http://foo.com#bar?baz=bat`}},
		{s: `url(  foo`, tok: &token.URL{Value: `foo`}, err: "unterminated url"},
		{s: `url(  foo  `, tok: &token.URL{Value: `foo`}, err: "unterminated url"},
		{s: `url(  \2603  )`, tok: &token.URL{Value: `☃`}},
		{s: `url(foo)`, tok: &token.URL{Value: `foo`}},
		{s: `url( foo.png )`, tok: &token.URL{Value: `foo.png`}},
		{s: `url("http://foo.com")`, tok: &token.Function{Value: `url`}},
		{s: `url(  "foo"  )`, tok: &token.Function{Value: `url`}},
		{s: `url('foo')`, tok: &token.Function{Value: `url`}},
		{s: `url(foo bar)`, tok: &token.BadURL{}, err: "unexpected content after url"},
		{s: `url(foo"`, tok: &token.BadURL{}, err: `invalid url code point: " (U+0022)`},
		{s: `url(foo'`, tok: &token.BadURL{}, err: `invalid url code point: ' (U+0027)`},
		{s: `url(foo(`, tok: &token.BadURL{}, err: `invalid url code point: ( (U+0028)`},
		{s: "url(foo\001", tok: &token.BadURL{}, err: "invalid url code point: \001 (U+0001)"},
		{s: "url(foo\\\n", tok: &token.BadURL{}, err: `unescaped \ in url`},

		{s: `myFunc(`, tok: &token.Function{Value: `myFunc`}},

		{s: `#foo`, tok: &token.Hash{Value: `foo`, Type: "id"}},
		{s: `#foo\2603 bar`, tok: &token.Hash{Value: `foo☃bar`, Type: "id"}},
		{s: `#-x`, tok: &token.Hash{Value: `-x`, Type: "id"}},
		{s: `#_x`, tok: &token.Hash{Value: `_x`, Type: "id"}},
		{s: `#18273`, tok: &token.Hash{Value: `18273`, Type: "unrestricted"}},
		{s: `#0a`, tok: &token.Hash{Value: `0a`, Type: "unrestricted"}},
		{s: `#abc`, tok: &token.Hash{Value: `abc`, Type: "id"}},
		{s: `#`, tok: &token.Delim{Value: '#'}},

		{s: `/`, tok: &token.Delim{Value: '/'}},
		{s: `/**/`, tok: &token.EOF{Pos: token.Pos{Char: 4}}},
		{s: `/* unterminated`, tok: &token.EOF{Pos: token.Pos{Char: 15}}, err: "unterminated comment"},

		{s: `<`, tok: &token.Delim{Value: '<'}},
		{s: `<!`, tok: &token.Delim{Value: '<'}},
		{s: `<!-`, tok: &token.Delim{Value: '<'}},
		{s: `<!--`, tok: &token.CDO{}},
		{s: `-->`, tok: &token.CDC{}},

		{s: `@`, tok: &token.Delim{Value: '@'}},
		{s: `@foo`, tok: &token.AtKeyword{Value: "foo"}},
		{s: `@-foo`, tok: &token.AtKeyword{Value: "-foo"}},
		{s: `@import`, tok: &token.AtKeyword{Value: "import"}},

		{s: `\2603`, tok: &token.Ident{Value: "☃"}},
		{s: `\`, tok: &token.Ident{Value: "�"}, err: "unexpected EOF after \\"},
		{s: `\ `, tok: &token.Ident{Value: " "}},
		{s: "\\\n", tok: &token.Delim{Value: '\\'}, err: "unescaped \\"},

		{s: `$=`, tok: &token.SuffixMatch{}},
		{s: `$X`, tok: &token.Delim{Value: '$'}},
		{s: `$`, tok: &token.Delim{Value: '$'}},

		{s: `*=`, tok: &token.SubstringMatch{}},
		{s: `*X`, tok: &token.Delim{Value: '*'}},
		{s: `*`, tok: &token.Delim{Value: '*'}},

		{s: `^=`, tok: &token.PrefixMatch{}},
		{s: `^X`, tok: &token.Delim{Value: '^'}},
		{s: `^`, tok: &token.Delim{Value: '^'}},

		{s: `~=`, tok: &token.IncludeMatch{}},
		{s: `~X`, tok: &token.Delim{Value: '~'}},
		{s: `~`, tok: &token.Delim{Value: '~'}},

		{s: `|=`, tok: &token.DashMatch{}},
		{s: `||`, tok: &token.Column{}},
		{s: `|X`, tok: &token.Delim{Value: '|'}},
		{s: `|`, tok: &token.Delim{Value: '|'}},

		{s: `,`, tok: &token.Comma{}},
		{s: `:`, tok: &token.Colon{}},
		{s: `;`, tok: &token.Semicolon{}},
		{s: `(`, tok: &token.LParen{}},
		{s: `)`, tok: &token.RParen{}},
		{s: `[`, tok: &token.LBrack{}},
		{s: `]`, tok: &token.RBrack{}},
		{s: `{`, tok: &token.LBrace{}},
		{s: `}`, tok: &token.RBrace{}},
	}

	for i, tt := range tests {
		// Scan token.
		s := scanner.NewString(tt.s)
		s.SetLogger(zap.NewNop())
		tok := s.Scan()

		// Verify properties.
		if !reflect.DeepEqual(tok, tt.tok) {
			t.Errorf("%d. <%q> tok: => got %#v, want %#v", i, tt.s, tok, tt.tok)
		} else if tt.err != "" {
			if len(s.Errors) == 0 {
				t.Errorf("%d. <%q> error expected", i, tt.s)
			} else if s.Errors[0].Message != tt.err {
				t.Errorf("%d. <%q> error: got %q, want %q", i, tt.s, s.Errors[0].Message, tt.err)
			}
		} else if tt.err == "" && len(s.Errors) > 0 {
			t.Errorf("%d. <%q> unexpected error: %q", i, tt.s, s.Errors[0].Message)
		}
	}
}

// Ensure that token sequences come out in source order with the
// expected kinds and payloads. Positions are not part of the JSON
// projection so they are ignored here.
func TestScanner_ScanAll(t *testing.T) {
	var tests = []struct {
		s    string
		json string
	}{
		{
			s: `a:b`,
			json: `[{"token":"IDENT","value":"a"},{"token":"COLON"},` +
				`{"token":"IDENT","value":"b"}]`,
		},
		{
			s: `u+A`,
			json: `[{"token":"IDENT","value":"u"},{"token":"DELIM","value":"+"},` +
				`{"token":"IDENT","value":"A"}]`,
		},
		{
			s: `10E-`,
			json: `[{"repr":"10","token":"DIMENSION","type":"integer","unit":"E-","value":10}]`,
		},
		{
			s: `a/* comment */b`,
			json: `[{"token":"IDENT","value":"a"},{"token":"IDENT","value":"b"}]`,
		},
		{
			s: "a \t\n b",
			json: `[{"token":"IDENT","value":"a"},{"token":"WHITESPACE"},` +
				`{"token":"IDENT","value":"b"}]`,
		},
		{
			s: `url("foo")`,
			json: `[{"token":"FUNCTION","value":"url"},{"token":"STRING","value":"foo"},` +
				`{"token":"RPAREN"}]`,
		},
		{
			s: `1.5e2%`,
			json: `[{"repr":"1.5e2","token":"PERCENTAGE","type":"number","value":150}]`,
		},
	}

	for i, tt := range tests {
		s := scanner.NewString(tt.s)
		b, err := json.Marshal(s.ScanAll())
		if err != nil {
			t.Fatalf("%d. <%q> marshal: %s", i, tt.s, err)
		}
		if string(b) != tt.json {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.s, tt.json, b)
		}
	}
}

// Ensure that token positions track lines and characters.
func TestScanner_Pos(t *testing.T) {
	s := scanner.NewString("ab cd\nef")
	toks := s.ScanAll()
	want := []token.Pos{
		{Char: 0, Line: 0}, // ab
		{Char: 2, Line: 0}, // whitespace
		{Char: 3, Line: 0}, // cd
		{Char: 5, Line: 0}, // whitespace
		{Char: 0, Line: 1}, // ef
	}
	if len(toks) != len(want) {
		t.Fatalf("token count: got %d, want %d", len(toks), len(want))
	}
	for i, tok := range toks {
		if tok.Position() != want[i] {
			t.Errorf("%d. pos: got %+v, want %+v", i, tok.Position(), want[i])
		}
	}
}

// Ensure that whitespace runs collapse into exactly one token.
func TestScanner_WhitespaceCollapse(t *testing.T) {
	s := scanner.NewString("a \t \n\n\t b")
	toks := s.ScanAll()
	if len(toks) != 3 {
		t.Fatalf("token count: got %d, want 3", len(toks))
	}
	if _, ok := toks[1].(*token.Whitespace); !ok {
		t.Errorf("expected whitespace token, got %#v", toks[1])
	}
}

// Ensure that scanning always terminates, even on adversarial input.
func TestScanner_Terminates(t *testing.T) {
	inputs := []string{
		"",
		"/*",
		"/*/",
		strings.Repeat("/**/", 100),
		strings.Repeat("\\", 7),
		"url(" + strings.Repeat(" ", 9),
		strings.Repeat("'\n", 11),
		"@@@###(((",
	}
	for _, in := range inputs {
		s := scanner.NewString(in)
		toks := s.ScanAll()
		if len(toks) > 2*len(in)+1 {
			t.Errorf("<%q> produced %d tokens", in, len(toks))
		}
	}
}
