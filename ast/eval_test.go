package ast

import "testing"

type fakeResolver struct{}

func (fakeResolver) Resolve(doc Document, name string) Value {
	if v, ok := doc.Get(name); ok {
		return v
	}
	return Undefined{}
}
func (fakeResolver) StaticResolve(name string) (Value, bool) { return nil, false }

func eval(t *testing.T, n Node, doc MapDocument) Value {
	t.Helper()
	ctx := NewEvalContext(doc, fakeResolver{})
	v, err := n.Eval(ctx)
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	return v
}

func TestCompareEquality(t *testing.T) {
	lit := NewLiteral(Position{}, "name")
	cmp := NewCompare(Position{}, OpIs, lit, NewLiteral(Position{}, "'Jack'"))
	if v := eval(t, cmp, MapDocument{"name": "Jack"}); v != true {
		t.Fatalf("expected true, got %v", v)
	}
	if v := eval(t, cmp, MapDocument{"name": "Jill"}); v != false {
		t.Fatalf("expected false, got %v", v)
	}
}

func TestCompareOrderAgainstUndefinedFails(t *testing.T) {
	cmp := NewCompare(Position{}, OpGt, NewLiteral(Position{}, "age"), NewNumberValue(Position{}, 10))
	if v := eval(t, cmp, MapDocument{}); v != false {
		t.Fatalf("order comparison against Undefined should be false, got %v", v)
	}
}

func TestLogicalShortCircuitsAnd(t *testing.T) {
	left := NewConstantBool(Position{}, false)
	called := false
	right := &countingNode{fn: func() { called = true }} // would be true if evaluated
	l := NewLogical(Position{}, OpAnd, left, right)
	if v := eval(t, l, MapDocument{}); v != false {
		t.Fatalf("expected false, got %v", v)
	}
	if called {
		t.Fatal("expected the right operand not to be evaluated")
	}
}

func TestContainsOnEmptyIsFalse(t *testing.T) {
	c := NewContains(Position{}, NewLiteral(Position{}, "errors"), NewLiteral(Position{}, "'disk'"))
	if v := eval(t, c, MapDocument{"errors": []string{"disk full", "cpu"}}); v != true {
		t.Fatalf("expected true, got %v", v)
	}
	if v := eval(t, c, MapDocument{"errors": []string{}}); v != false {
		t.Fatalf("expected false for empty slice, got %v", v)
	}
}

func TestCachedNodeMemoizesPerEvaluation(t *testing.T) {
	calls := 0
	countingTrue := &countingNode{fn: func() { calls++ }}
	cached := NewCachedNode(Position{}, countingTrue, 1)
	both := NewBoth(Position{}, cached, cached)

	ctx := NewEvalContext(MapDocument{}, fakeResolver{})
	if _, err := both.Eval(ctx); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected child to be evaluated once, got %d", calls)
	}
	if ctx.CacheHits != 1 {
		t.Fatalf("expected 1 cache hit, got %d", ctx.CacheHits)
	}
}

type countingNode struct {
	fn func()
}

func (c *countingNode) Pos() Position  { return Position{} }
func (c *countingNode) String() string { return "counting" }
func (c *countingNode) Eval(*EvalContext) (Value, error) {
	c.fn()
	return true, nil
}
