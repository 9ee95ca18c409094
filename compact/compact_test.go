package compact

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armon/go-pypred/ast"
)

type mapResolver struct{}

func (mapResolver) Resolve(doc ast.Document, name string) ast.Value {
	if v, ok := doc.Get(name); ok {
		return v
	}
	return ast.Undefined{}
}

func (mapResolver) StaticResolve(string) (ast.Value, bool) { return nil, false }

func ageOver(v float64) *ast.Compare {
	return ast.NewCompare(ast.Position{}, ast.OpGt,
		ast.NewLiteral(ast.Position{}, "age"),
		ast.NewNumberValue(ast.Position{}, v))
}

func TestCompactSharesStructurallyIdenticalSubtrees(t *testing.T) {
	tree := ast.NewBoth(ast.Position{}, ageOver(30), ageOver(30))
	result := Compact(tree).(*ast.Both)
	require.True(t, result.Left == result.Right, "expected both sides to share one subtree")
}

func TestCompactLeavesDistinctSubtreesAlone(t *testing.T) {
	tree := ast.NewBoth(ast.Position{}, ageOver(30), ageOver(40))
	result := Compact(tree).(*ast.Both)
	require.False(t, result.Left == result.Right)
}

func TestCacheExpressionsWrapsRepeatedOperators(t *testing.T) {
	tree := ast.NewBoth(ast.Position{}, ageOver(30), ageOver(30))
	result := CacheExpressions(tree).(*ast.Both)

	left, ok := result.Left.(*ast.CachedNode)
	require.True(t, ok, "expected the repeated compare to be wrapped, got %T", result.Left)
	right, ok := result.Right.(*ast.CachedNode)
	require.True(t, ok)
	require.True(t, left == right, "expected one shared CachedNode")
}

func TestCacheExpressionsSkipsSingleOccurrences(t *testing.T) {
	tree := ast.NewBoth(ast.Position{}, ageOver(30), ageOver(40))
	result := CacheExpressions(tree).(*ast.Both)
	_, leftCached := result.Left.(*ast.CachedNode)
	_, rightCached := result.Right.(*ast.CachedNode)
	require.False(t, leftCached)
	require.False(t, rightCached)
}

func TestCachedEvaluationHitsOncePerContext(t *testing.T) {
	tree := CacheExpressions(ast.NewBoth(ast.Position{}, ageOver(30), ageOver(30)))

	ctx := ast.NewEvalContext(ast.MapDocument{"age": 50}, mapResolver{})
	v, err := tree.Eval(ctx)
	require.NoError(t, err)
	require.Equal(t, true, v)
	require.Equal(t, 1, ctx.CacheHits)

	// A fresh context starts cold again.
	ctx2 := ast.NewEvalContext(ast.MapDocument{"age": 20}, mapResolver{})
	v, err = tree.Eval(ctx2)
	require.NoError(t, err)
	require.Equal(t, false, v)
	require.Equal(t, 1, ctx2.CacheHits)
}

func TestCompactAndCachePreserveSemantics(t *testing.T) {
	build := func() ast.Node {
		return ast.NewBoth(ast.Position{},
			ast.NewLogical(ast.Position{}, ast.OpAnd, ageOver(30), ageOver(20)),
			ast.NewLogical(ast.Position{}, ast.OpAnd, ageOver(30), ageOver(40)),
		)
	}

	for _, doc := range []ast.MapDocument{{"age": 10}, {"age": 25}, {"age": 35}, {"age": 50}, {}} {
		plainCtx := ast.NewEvalContext(doc, mapResolver{})
		want, err := build().Eval(plainCtx)
		require.NoError(t, err)

		compacted := CacheExpressions(Compact(build()))
		ctx := ast.NewEvalContext(doc, mapResolver{})
		got, err := compacted.Eval(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got, "doc %v", doc)
	}
}
