package rewrite

import (
	"sort"

	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/internal/stats"
	"github.com/armon/go-pypred/tiler"
)

// MinDensity is the minimum harmonic-mean element frequency a contains
// pivot must clear before it is considered worth rewriting on, mirroring
// RefactorSettings.min_density in pypred/contains.py.
type ContainsSettings struct {
	MinDensity float64
}

// containsScore pairs a candidate Contains expression with its harmonic
// mean of element frequencies, the pivot-selection metric pypred/
// contains.py computes.
type containsScore struct {
	score float64
	expr  *ast.Contains
}

// SelectContainsExpression picks the Contains expression, among those
// testing the same right-side element against a LiteralSet, with the highest harmonic
// mean of per-element frequency across the group - i.e. the set whose
// elements are, on average, most common elsewhere in the predicate set,
// making it the most selective pivot.
//
// pypred/contains.py computes this score per candidate but then calls
// Python's sorted() without reusing the return value, so it silently
// picks scores[0] - whatever order dict iteration happened to produce -
// instead of the true maximum. This port sorts properly and returns the
// actual best scorer.
func SelectContainsExpression(settings ContainsSettings, exprs []*ast.Contains) *ast.Contains {
	if len(exprs) == 0 {
		return nil
	}

	counts := make(map[interface{}]int)
	total := 0
	sets := make([]ast.ValueSet, len(exprs))
	for i, e := range exprs {
		vs := e.Left.(*ast.LiteralSet).Values
		sets[i] = vs
		for v := range vs {
			counts[v]++
			total++
		}
	}

	scores := make([]containsScore, len(exprs))
	for i, vs := range sets {
		freqs := make([]float64, 0, len(vs))
		for v := range vs {
			freqs = append(freqs, float64(counts[v])/float64(total))
		}
		scores[i] = containsScore{score: stats.HarmonicMean(freqs), expr: exprs[i]}
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if scores[0].score < settings.MinDensity {
		return nil
	}
	return scores[0].expr
}

// ContainsRewrite is pypred/contains.py's contains_rewrite ported to Go's
// set algebra: once expr's LiteralSet (assumed to satisfy the assumed
// contains result) is fixed, every other Contains with a LiteralSet left
// side and the same right-side element gets its set intersected or
// differenced in place, possibly collapsing entirely to a Constant.
func ContainsRewrite(node ast.Node, expr *ast.Contains, assumedResult bool) ast.Node {
	exprSet := expr.Left.(*ast.LiteralSet).Values

	pattern := containsRewritePattern{rightExample: tiler.ASTPattern{Example: expr.Right}}

	return tiler.Tile(node, []tiler.Pattern{pattern}, func(_ tiler.Pattern, n ast.Node) ast.Node {
		c, ok := n.(*ast.Contains)
		if !ok {
			return nil
		}
		set, ok := c.Left.(*ast.LiteralSet)
		if !ok {
			return nil
		}

		if assumedResult {
			setPrime := set.Values.Intersect(exprSet)

			if setPrime.Equal(exprSet) {
				return ast.NewConstantBool(c.Pos(), true)
			}
			if setPrime.Len() == 0 {
				return ast.NewConstantBool(c.Pos(), false)
			}

			diff := exprSet.Diff(set.Values)
			if diff.Len() < setPrime.Len() {
				set.Values = diff
				return ast.NewNegate(c.Pos(), c)
			}
			set.Values = setPrime
			return nil
		}

		setPrime := set.Values.Diff(exprSet)
		if setPrime.Len() == 0 {
			return ast.NewConstantBool(c.Pos(), false)
		}
		set.Values = setPrime
		return nil
	})
}

// containsRewritePattern matches Contains nodes whose LiteralSet left side
// and right operand line up with the pivot expression, the Go analogue of
// pypred/contains.py's `SimplePattern("types:Contains", "types:LiteralSet",
// ASTPattern(expr.right))`.
type containsRewritePattern struct {
	rightExample tiler.ASTPattern
}

func (p containsRewritePattern) Matches(node ast.Node) bool {
	c, ok := node.(*ast.Contains)
	if !ok {
		return false
	}
	if _, ok := c.Left.(*ast.LiteralSet); !ok {
		return false
	}
	return p.rightExample.Matches(c.Right)
}
