// Package canon implements the two normalization passes run before
// refactoring: Canonicalize orders a Compare node's
// operands so "gender is 'Male'" and "'Male' is gender" land in the same
// shape, and StaticResolve pre-resolves unquoted literals and set literals
// that the resolver can determine without a document, so the rest of the
// pipeline can treat them as compile-time values. Ported from pypred/compare.py's canonicalize().
package canon

import (
	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/tiler"
)

// Canonicalize rewrites every Compare node in node so a Literal operand
// always ends up on the left; between two literals the non-static one
// (not a quoted string constant) goes left, and between two literals of
// the same kind they are ordered by name, so "gender is 'Male'" and
// "'Male' is gender" land in the same shape.
func Canonicalize(node ast.Node) ast.Node {
	pattern := tiler.SimplePattern{NodeP: "types:Compare"}
	return tiler.Tile(node, []tiler.Pattern{pattern}, func(_ tiler.Pattern, n ast.Node) ast.Node {
		c, ok := n.(*ast.Compare)
		if !ok {
			return nil
		}
		lLit, lIsLit := c.Left.(*ast.Literal)
		rLit, rIsLit := c.Right.(*ast.Literal)

		switch {
		case !lIsLit && rIsLit:
			c.Reverse()
		case lIsLit && rIsLit:
			lStatic := isStaticLiteral(lLit)
			rStatic := isStaticLiteral(rLit)
			if (lStatic && !rStatic) || (lStatic == rStatic && lLit.Name > rLit.Name) {
				c.Reverse()
			}
		}
		return nil
	})
}

func isStaticLiteral(l *ast.Literal) bool {
	return l.Quoted || l.Static
}

// StaticResolve asks resolver to resolve every unquoted Literal and every
// LiteralSet element without reference to a document. Literals/sets that
// resolver can determine ahead of time are marked Static so canon's
// callers (and the optimizer) can treat them as constants; anything the
// resolver cannot determine is left dynamic and resolved per-document as
// usual. A LiteralSet already marked Static keeps its current Values, so a
// later pass does not undo the narrowing done by rewrite.ContainsRewrite.
func StaticResolve(node ast.Node, resolver ast.Resolver) ast.Node {
	pattern := tiler.SimplePattern{NodeP: "types:Literal,LiteralSet"}
	return tiler.Tile(node, []tiler.Pattern{pattern}, func(_ tiler.Pattern, n ast.Node) ast.Node {
		switch t := n.(type) {
		case *ast.Literal:
			if t.Quoted {
				return nil
			}
			if v, ok := resolver.StaticResolve(t.Name); ok {
				t.Static = true
				t.StaticValue = v
			}
		case *ast.LiteralSet:
			if t.Static {
				return nil // already resolved; Values may have been narrowed since
			}
			vals := make([]interface{}, 0, len(t.Elements))
			for _, e := range t.Elements {
				switch el := e.(type) {
				case *ast.Literal:
					if qv, quoted := el.QuotedValue(); quoted {
						vals = append(vals, qv)
						continue
					}
					v, ok := resolver.StaticResolve(el.Name)
					if !ok {
						return nil // not every element is static; leave dynamic
					}
					vals = append(vals, v)
				case *ast.Number:
					vals = append(vals, el.Value)
				case *ast.Constant:
					vals = append(vals, el.Value)
				default:
					return nil
				}
			}
			t.Static = true
			t.Values = ast.NewValueSet(vals...)
		}
		return nil
	})
}
