package ast

import "encoding/json"

// Nodes serialize to {"type": KIND, ...} objects, mirroring the token
// projection in the token package.

func (s *StyleSheet) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":  "STYLESHEET",
		"rules": s.Rules,
	})
}

func (r *AtRule) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"type":    "AT-RULE",
		"name":    r.Name,
		"prelude": r.Prelude,
	}
	if r.Block != nil {
		m["block"] = r.Block
	} else {
		m["block"] = nil
	}
	return json.Marshal(m)
}

func (r *QualifiedRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":    "QUALIFIED-RULE",
		"prelude": r.Prelude,
		"block":   r.Block,
	})
}

func (d *Declaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":      "DECLARATION",
		"name":      d.Name,
		"value":     d.Values,
		"important": d.Important,
	})
}

func (b *SimpleBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":  "BLOCK",
		"name":  b.Token.ToSource(),
		"value": b.Values,
	})
}

func (f *Function) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":  "FUNCTION",
		"name":  f.Name,
		"value": f.Values,
	})
}

func (t *Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Token)
}
