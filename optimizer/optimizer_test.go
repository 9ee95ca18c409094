package optimizer

import (
	"testing"

	"github.com/armon/go-pypred/ast"
)

func TestAndWithFalseFoldsToFalse(t *testing.T) {
	tree := ast.NewLogical(ast.Position{}, ast.OpAnd,
		ast.NewConstantBool(ast.Position{}, false),
		ast.NewCompare(ast.Position{}, ast.OpGt, ast.NewLiteral(ast.Position{}, "age"), ast.NewNumberValue(ast.Position{}, 1)))

	result := Optimize(tree, 8, 1)
	c, ok := result.(*ast.Constant)
	if !ok || c.Value != false {
		t.Fatalf("expected Constant(false), got %#v", result)
	}
}

func TestShortCircuitDropsRedundantTrue(t *testing.T) {
	inner := ast.NewCompare(ast.Position{}, ast.OpGt, ast.NewLiteral(ast.Position{}, "age"), ast.NewNumberValue(ast.Position{}, 1))
	tree := ast.NewLogical(ast.Position{}, ast.OpAnd, ast.NewConstantBool(ast.Position{}, true), inner)

	result := Optimize(tree, 8, 1)
	if result != inner {
		t.Fatalf("expected `true and x` to collapse to x itself, got %#v", result)
	}
}

func TestDeadBranchCollapses(t *testing.T) {
	trueChild := ast.NewConstantBool(ast.Position{}, true)
	falseChild := ast.NewConstantBool(ast.Position{}, false)
	branch := ast.NewBranch(ast.Position{}, ast.NewConstantBool(ast.Position{}, false), true, trueChild, falseChild)

	result := Optimize(branch, 8, 1)
	if result != falseChild {
		t.Fatalf("expected the Branch to collapse to its FalseChild, got %#v", result)
	}
}

func TestEmptyLiteralSetFoldsToEmptyNode(t *testing.T) {
	set := ast.NewLiteralSet(ast.Position{}, nil)
	set.Static = true
	set.Values = ast.NewValueSet()

	result := Optimize(set, 8, 1)
	if _, ok := result.(*ast.EmptyNode); !ok {
		t.Fatalf("expected an EmptyNode, got %#v", result)
	}
}

func TestContainsAgainstEmptyFoldsToFalse(t *testing.T) {
	c := ast.NewContains(ast.Position{}, ast.NewEmptyNode(ast.Position{}), ast.NewLiteral(ast.Position{}, "'disk'"))
	result := Optimize(c, 8, 1)
	if v, ok := result.(*ast.Constant); !ok || v.Value != false {
		t.Fatalf("expected Contains(Empty, _) to fold to false, got %#v", result)
	}
}

func TestOptimizeConvergesWithinMaxPass(t *testing.T) {
	tree := ast.NewNegate(ast.Position{}, ast.NewNegate(ast.Position{}, ast.NewConstantBool(ast.Position{}, false)))
	// not(not(false)) -> not(true) -> false, needs two passes.
	result := Optimize(tree, 10, 1)
	c, ok := result.(*ast.Constant)
	if !ok || c.Value != false {
		t.Fatalf("expected double negation to fold to false, got %#v", result)
	}
}
