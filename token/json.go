package token

import "encoding/json"

// Tokens serialize to {"token": KIND, ...payload} objects so token
// streams can be compared structurally in round-trip tests.

func marshalToken(kind string, fields map[string]interface{}) ([]byte, error) {
	m := map[string]interface{}{"token": kind}
	for k, v := range fields {
		m[k] = v
	}
	return json.Marshal(m)
}

func (t *Ident) MarshalJSON() ([]byte, error) {
	return marshalToken("IDENT", map[string]interface{}{"value": t.Value})
}

func (t *Function) MarshalJSON() ([]byte, error) {
	return marshalToken("FUNCTION", map[string]interface{}{"value": t.Value})
}

func (t *AtKeyword) MarshalJSON() ([]byte, error) {
	return marshalToken("ATKEYWORD", map[string]interface{}{"value": t.Value})
}

func (t *Hash) MarshalJSON() ([]byte, error) {
	return marshalToken("HASH", map[string]interface{}{"value": t.Value, "type": t.Type})
}

func (t *String) MarshalJSON() ([]byte, error) {
	return marshalToken("STRING", map[string]interface{}{"value": t.Value})
}

func (t *BadString) MarshalJSON() ([]byte, error) {
	return marshalToken("BADSTRING", nil)
}

func (t *URL) MarshalJSON() ([]byte, error) {
	return marshalToken("URL", map[string]interface{}{"value": t.Value})
}

func (t *BadURL) MarshalJSON() ([]byte, error) {
	return marshalToken("BADURL", nil)
}

func (t *Delim) MarshalJSON() ([]byte, error) {
	return marshalToken("DELIM", map[string]interface{}{"value": string(t.Value)})
}

func (t *Number) MarshalJSON() ([]byte, error) {
	return marshalToken("NUMBER", map[string]interface{}{"value": t.Number, "type": t.Type, "repr": t.Value})
}

func (t *Percentage) MarshalJSON() ([]byte, error) {
	return marshalToken("PERCENTAGE", map[string]interface{}{"value": t.Number, "type": t.Type, "repr": t.Value})
}

func (t *Dimension) MarshalJSON() ([]byte, error) {
	return marshalToken("DIMENSION", map[string]interface{}{"value": t.Number, "type": t.Type, "repr": t.Value, "unit": t.Unit})
}

func (t *IncludeMatch) MarshalJSON() ([]byte, error)   { return marshalToken("INCLUDEMATCH", nil) }
func (t *DashMatch) MarshalJSON() ([]byte, error)      { return marshalToken("DASHMATCH", nil) }
func (t *PrefixMatch) MarshalJSON() ([]byte, error)    { return marshalToken("PREFIXMATCH", nil) }
func (t *SuffixMatch) MarshalJSON() ([]byte, error)    { return marshalToken("SUFFIXMATCH", nil) }
func (t *SubstringMatch) MarshalJSON() ([]byte, error) { return marshalToken("SUBSTRINGMATCH", nil) }
func (t *Column) MarshalJSON() ([]byte, error)         { return marshalToken("COLUMN", nil) }
func (t *Whitespace) MarshalJSON() ([]byte, error)     { return marshalToken("WHITESPACE", nil) }
func (t *CDO) MarshalJSON() ([]byte, error)            { return marshalToken("CDO", nil) }
func (t *CDC) MarshalJSON() ([]byte, error)            { return marshalToken("CDC", nil) }
func (t *Colon) MarshalJSON() ([]byte, error)          { return marshalToken("COLON", nil) }
func (t *Semicolon) MarshalJSON() ([]byte, error)      { return marshalToken("SEMICOLON", nil) }
func (t *Comma) MarshalJSON() ([]byte, error)          { return marshalToken("COMMA", nil) }
func (t *LBrack) MarshalJSON() ([]byte, error)         { return marshalToken("LBRACK", nil) }
func (t *RBrack) MarshalJSON() ([]byte, error)         { return marshalToken("RBRACK", nil) }
func (t *LParen) MarshalJSON() ([]byte, error)         { return marshalToken("LPAREN", nil) }
func (t *RParen) MarshalJSON() ([]byte, error)         { return marshalToken("RPAREN", nil) }
func (t *LBrace) MarshalJSON() ([]byte, error)         { return marshalToken("LBRACE", nil) }
func (t *RBrace) MarshalJSON() ([]byte, error)         { return marshalToken("RBRACE", nil) }
func (t *EOF) MarshalJSON() ([]byte, error)            { return marshalToken("EOF", nil) }
