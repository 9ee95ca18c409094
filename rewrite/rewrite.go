// Package rewrite implements the assume-and-substitute rewrites applied
// once a pivot expression's truth value has been assumed
// along a branch: every sibling expression that the pivot's assumed value
// determines collapses to a Constant. Ported from pypred/compare.py (the
// equality/order family) and pypred/contains.py (set-algebra family).
package rewrite

import (
	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/internal/log"
	"github.com/armon/go-pypred/internal/stats"
	"github.com/armon/go-pypred/tiler"
)

// Kind classifies a comparison expression's rewrite family.
type Kind int

const (
	KindEquality Kind = iota
	KindOrder
	KindContains
)

// ExprName is the hashable identity merge.CountExpressions groups
// compare/contains expressions under: the pivot's literal name, its kind,
// and (for compare expressions) whether the compared value is statically
// known, matching pypred/merge.py and compare.py's name tuples closely
// enough to drive the same pivot-selection rules.
type ExprName struct {
	Literal string
	Kind    Kind
	Static  bool
}

// scalarValue extracts the comparable Go value carried by a Compare's
// right-hand operand: a Number's float, a Constant's bool/nil, or a quoted
// or statically-resolved Literal's value.
func scalarValue(n ast.Node) (interface{}, bool) {
	switch t := n.(type) {
	case *ast.Number:
		return t.Value, true
	case *ast.Constant:
		return t.Value, true
	case *ast.Literal:
		if qv, quoted := t.QuotedValue(); quoted {
			return qv, true
		}
		if t.Static {
			return t.StaticValue, true
		}
	}
	return nil, false
}

// SelectCompareExpression picks, among exprs that all share the same
// pivot literal and compare family, the single expression with the
// highest selectivity to use for rewriting: the modal value for equality
// checks, the median for order checks against static numbers (the modal
// value when a static operand is not a number), and simply the first
// expression when no static ordering is available
// (pypred/compare.py's select_rewrite_expression).
func SelectCompareExpression(name ExprName, exprs []*ast.Compare) *ast.Compare {
	if len(exprs) == 0 {
		return nil
	}
	switch {
	case name.Kind == KindEquality:
		return modalExpression(exprs)
	case name.Kind == KindOrder && name.Static:
		values := make([]float64, len(exprs))
		for i, e := range exprs {
			n, ok := e.Right.(*ast.Number)
			if !ok {
				// Order pivots on non-numeric statics fall back to the
				// modal value, same as equality.
				return modalExpression(exprs)
			}
			values[i] = n.Value
		}
		target := stats.MedianFloat64(values)
		for i, e := range exprs {
			if values[i] == target {
				return e
			}
		}
	}
	return exprs[0]
}

func modalExpression(exprs []*ast.Compare) *ast.Compare {
	values := make([]interface{}, len(exprs))
	for i, e := range exprs {
		v, _ := scalarValue(e.Right)
		values[i] = v
	}
	target := stats.Mode(values)
	for i, e := range exprs {
		if values[i] == target {
			return e
		}
	}
	return exprs[0]
}

// Rewrite takes node, the chosen pivot expr (a *ast.Compare), and the
// truth value assumed for expr, and substitutes every sibling expression
// node determines into a Constant, returning the rewritten tree.
func Rewrite(node ast.Node, name ExprName, expr *ast.Compare, assumedResult bool) ast.Node {
	switch name.Kind {
	case KindEquality:
		return equalityRewrite(node, expr, assumedResult)
	case KindOrder:
		return orderRewrite(node, expr, assumedResult)
	default:
		log.Warnf("rewrite: unknown compare kind %d", name.Kind)
		return node
	}
}

// RewriteNode is the package's single entry point for package merge:
// it dispatches on name.Kind to the Compare or Contains rewrite family,
// type-asserting pivot to whichever concrete node each family expects.
func RewriteNode(node ast.Node, name ExprName, pivot ast.Node, assumedResult bool) ast.Node {
	switch name.Kind {
	case KindEquality, KindOrder:
		c, ok := pivot.(*ast.Compare)
		if !ok {
			log.Warnf("rewrite: compare pivot had unexpected type %T", pivot)
			return node
		}
		return Rewrite(node, name, c, assumedResult)
	case KindContains:
		c, ok := pivot.(*ast.Contains)
		if !ok {
			log.Warnf("rewrite: contains pivot had unexpected type %T", pivot)
			return node
		}
		return ContainsRewrite(node, c, assumedResult)
	default:
		return node
	}
}

// equalityRewrite is pypred/compare.py's equality_rewrite ported directly:
// once expr (literal OP staticValue) is assumed to be assumedResult,
// every other equality comparison against the same literal either
// collapses to a constant or is left untouched when it compares against a
// different static value under an assumed-false pivot (in which case
// nothing can be concluded).
func equalityRewrite(node ast.Node, expr *ast.Compare, assumedResult bool) ast.Node {
	literal := expr.Left.(*ast.Literal).Name
	staticValue, _ := scalarValue(expr.Right)

	known := expr.Op == ast.OpEq || expr.Op == ast.OpIs
	if !assumedResult {
		known = !known
	}

	pattern := tiler.SimplePattern{NodeP: "types:Compare", LeftP: "types:Literal"}
	return tiler.Tile(node, []tiler.Pattern{pattern}, func(_ tiler.Pattern, n ast.Node) ast.Node {
		c, ok := n.(*ast.Compare)
		if !ok || !c.Op.IsEquality() {
			return nil
		}
		lit, ok := c.Left.(*ast.Literal)
		if !ok || lit.Name != literal {
			return nil
		}
		val, ok := scalarValue(c.Right)
		if !ok {
			return nil
		}
		staticMatch := ast.Equal(val, staticValue)

		var constVal bool
		switch {
		case known:
			if c.Op == ast.OpEq || c.Op == ast.OpIs {
				constVal = staticMatch
			} else {
				constVal = !staticMatch
			}
		case staticMatch:
			// assumed-false pivot matched this node's compared value too:
			// "=" must be false, "!=" must be true.
			if c.Op == ast.OpEq || c.Op == ast.OpIs {
				constVal = false
			} else {
				constVal = true
			}
		default:
			// Compared against a third, unrelated value: nothing to conclude.
			return nil
		}
		return ast.NewConstantBool(c.Pos(), constVal)
	})
}

// orderRewrite is pypred/compare.py's order_rewrite ported directly: once
// expr's ordering relation against a literal is assumed, every other
// order comparison against the same literal (and, for non-numeric
// operands, the same static value) that the assumption determines
// collapses to a Constant.
func orderRewrite(node ast.Node, expr *ast.Compare, assumedResult bool) ast.Node {
	literal := expr.Left.(*ast.Literal).Name
	staticValue, _ := scalarValue(expr.Right)
	_, numeric := expr.Right.(*ast.Number)

	lessThan := expr.Op == ast.OpLt || expr.Op == ast.OpLte
	maybeEquals := expr.Op == ast.OpLte || expr.Op == ast.OpGte
	if !assumedResult {
		lessThan = !lessThan
		maybeEquals = !maybeEquals
	}

	var leftPattern, rightPattern string
	leftPattern = "types:Literal"
	if numeric {
		rightPattern = "types:Number"
	} else {
		rightPattern = "types:Literal"
	}
	pattern := tiler.SimplePattern{NodeP: "types:Compare", LeftP: leftPattern, RightP: rightPattern}

	return tiler.Tile(node, []tiler.Pattern{pattern}, func(_ tiler.Pattern, n ast.Node) ast.Node {
		c, ok := n.(*ast.Compare)
		if !ok || c.Op.IsEquality() {
			return nil
		}
		lit, ok := c.Left.(*ast.Literal)
		if !ok || lit.Name != literal {
			return nil
		}
		nodeVal, ok := scalarValue(c.Right)
		if !ok {
			return nil
		}
		if !numeric && !ast.Equal(nodeVal, staticValue) {
			return nil
		}

		assertLess := c.Op == ast.OpLt || c.Op == ast.OpLte
		assertEquals := c.Op == ast.OpLte || c.Op == ast.OpGte

		var constVal bool
		hasConst := false

		if !numeric {
			// Same compared value on both sides. With an inclusive known
			// bound, a claim of mismatched strictness hinges on whether the
			// literal sits exactly on the boundary, so it stays undecided.
			if lessThan == assertLess {
				if !maybeEquals || assertEquals {
					constVal, hasConst = true, true
				}
			} else if !maybeEquals || !assertEquals {
				constVal, hasConst = false, true
			}
		} else {
			nodeNum := c.Right.(*ast.Number).Value
			staticNum, _ := staticValue.(float64)
			switch {
			case lessThan && assertLess:
				if maybeEquals && !assertEquals {
					if nodeNum > staticNum {
						constVal, hasConst = true, true
					}
				} else if nodeNum >= staticNum {
					constVal, hasConst = true, true
				}
			case !lessThan && !assertLess:
				if maybeEquals && !assertEquals {
					if nodeNum < staticNum {
						constVal, hasConst = true, true
					}
				} else if nodeNum <= staticNum {
					constVal, hasConst = true, true
				}
			case lessThan && !assertLess:
				// Known upper bound on the literal, sibling asserts a lower
				// bound. When both bounds are inclusive the shared boundary
				// value satisfies the sibling, so strict excess is required.
				if maybeEquals && assertEquals {
					if nodeNum > staticNum {
						constVal, hasConst = false, true
					}
				} else if nodeNum >= staticNum {
					constVal, hasConst = false, true
				}
			case !lessThan && assertLess:
				if maybeEquals && assertEquals {
					if nodeNum < staticNum {
						constVal, hasConst = false, true
					}
				} else if nodeNum <= staticNum {
					constVal, hasConst = false, true
				}
			}
		}

		if !hasConst {
			return nil
		}
		return ast.NewConstantBool(c.Pos(), constVal)
	})
}
