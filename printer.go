package css

import (
	"io"

	"github.com/tomhodgins/parse-css/ast"
)

// Printer writes AST nodes back out as CSS source text. The output
// re-parses to a structurally equal tree.
type Printer struct{}

func (p *Printer) Print(w io.Writer, n ast.Node) (err error) {
	switch n := n.(type) {
	case *ast.StyleSheet:
		if n == nil {
			return nil
		}
		err = p.Print(w, n.Rules)

	case ast.Rules:
		for i, r := range n {
			if i > 0 {
				if _, err = w.Write([]byte{'\n'}); err != nil {
					return err
				}
			}
			if err = p.Print(w, r); err != nil {
				return err
			}
		}

	case *ast.AtRule:
		if n == nil {
			return nil
		}
		_, err = io.WriteString(w, n.String())

	case *ast.QualifiedRule:
		if n == nil {
			return nil
		}
		_, err = io.WriteString(w, n.String())

	case ast.Declarations:
		for _, d := range n {
			if err = p.Print(w, d); err != nil {
				return err
			}
			if _, ok := d.(*ast.Declaration); ok {
				if _, err = w.Write([]byte{';'}); err != nil {
					return err
				}
			}
		}

	case *ast.Declaration:
		if n == nil {
			return nil
		}
		_, err = io.WriteString(w, n.String())

	case ast.ComponentValues:
		for _, v := range n {
			if err = p.Print(w, v); err != nil {
				return err
			}
		}

	case *ast.SimpleBlock:
		if n == nil {
			return nil
		}
		_, err = io.WriteString(w, n.String())

	case *ast.Function:
		if n == nil {
			return nil
		}
		_, err = io.WriteString(w, n.String())

	case *ast.Token:
		if n == nil {
			return nil
		}
		_, err = io.WriteString(w, n.Token.ToSource())
	}

	return err
}
