package tiler

import (
	"testing"

	"github.com/armon/go-pypred/ast"
)

func TestSimplePatternTypesClause(t *testing.T) {
	p := SimplePattern{NodeP: "types:Compare,Logical"}
	cmp := ast.NewCompare(ast.Position{}, ast.OpEq, ast.NewLiteral(ast.Position{}, "x"), ast.NewNumberValue(ast.Position{}, 1))
	if !p.Matches(cmp) {
		t.Fatal("expected Compare to match types:Compare,Logical")
	}
	if p.Matches(ast.NewConstantBool(ast.Position{}, true)) {
		t.Fatal("Constant should not match types:Compare,Logical")
	}
}

func TestSimplePatternOpAndLeftClause(t *testing.T) {
	p := SimplePattern{NodeP: "ops:=,is", LeftP: "types:Literal"}
	match := ast.NewCompare(ast.Position{}, ast.OpIs, ast.NewLiteral(ast.Position{}, "name"), ast.NewLiteral(ast.Position{}, "'Jack'"))
	if !p.Matches(match) {
		t.Fatal("expected op+left clauses to match")
	}
	nonLiteralLeft := ast.NewCompare(ast.Position{}, ast.OpIs, ast.NewNumberValue(ast.Position{}, 1), ast.NewLiteral(ast.Position{}, "'x'"))
	if p.Matches(nonLiteralLeft) {
		t.Fatal("expected left clause to reject a non-Literal left operand")
	}
}

func TestASTPatternStructuralMatch(t *testing.T) {
	example := ast.NewConstantBool(ast.Position{}, false)
	p := ASTPattern{Example: example}
	if !p.Matches(ast.NewConstantBool(ast.Position{Line: 5}, false)) {
		t.Fatal("expected structurally-equal Constant(false) to match regardless of position")
	}
	if p.Matches(ast.NewConstantBool(ast.Position{}, true)) {
		t.Fatal("Constant(true) must not match Constant(false)'s pattern")
	}
}

func TestTileReplacesMatchedNodesDepthFirst(t *testing.T) {
	tree := ast.NewLogical(ast.Position{}, ast.OpAnd,
		ast.NewConstantBool(ast.Position{}, false),
		ast.NewCompare(ast.Position{}, ast.OpGt, ast.NewLiteral(ast.Position{}, "age"), ast.NewNumberValue(ast.Position{}, 1)))

	pattern := SimplePattern{NodeP: "types:Constant", RightP: ""}
	result := Tile(tree, []Pattern{pattern}, func(_ Pattern, n ast.Node) ast.Node {
		return ast.NewConstantBool(n.Pos(), true)
	})

	logical := result.(*ast.Logical)
	if _, ok := logical.Left.(*ast.Constant); !ok {
		t.Fatalf("expected left child still a Constant, got %T", logical.Left)
	}
	if logical.Left.(*ast.Constant).Value != true {
		t.Fatal("expected the matched Constant(false) to be rewritten to true")
	}
	if _, ok := logical.Right.(*ast.Compare); !ok {
		t.Fatal("expected the unmatched Compare child to be left untouched")
	}
}

func TestTileReturnsNilForNilNode(t *testing.T) {
	if Tile(nil, []Pattern{Always{}}, func(Pattern, ast.Node) ast.Node { return nil }) != nil {
		t.Fatal("Tile(nil, ...) must return nil")
	}
}
