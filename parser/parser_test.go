package parser

import (
	"testing"

	"github.com/armon/go-pypred/ast"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	res := Parse(src)
	if len(res.Errors) > 0 {
		t.Fatalf("parse %q: %v", src, res.Errors)
	}
	return res.Tree
}

func TestParseCompare(t *testing.T) {
	tree := mustParse(t, `name is 'Jack'`)
	c, ok := tree.(*ast.Compare)
	if !ok || c.Op != ast.OpIs {
		t.Fatalf("expected an `is` Compare, got %#v", tree)
	}
	if c.Left.(*ast.Literal).Name != "name" {
		t.Fatalf("expected literal name on the left, got %v", c.Left)
	}
	if v, quoted := c.Right.(*ast.Literal).QuotedValue(); !quoted || v != "Jack" {
		t.Fatalf("expected quoted 'Jack' on the right, got %v", c.Right)
	}
}

func TestParseIsNotBecomesNeq(t *testing.T) {
	tree := mustParse(t, `gender is not 'Male'`)
	c, ok := tree.(*ast.Compare)
	if !ok || c.Op != ast.OpNeq {
		t.Fatalf("expected `is not` to parse as !=, got %#v", tree)
	}
}

func TestParseLogicalRightAssociative(t *testing.T) {
	tree := mustParse(t, `a and b and c`)
	outer, ok := tree.(*ast.Logical)
	if !ok || outer.Op != ast.OpAnd {
		t.Fatalf("expected an and node, got %#v", tree)
	}
	if _, ok := outer.Left.(*ast.Literal); !ok {
		t.Fatalf("expected right-associative nesting (a on the left), got %#v", outer.Left)
	}
	inner, ok := outer.Right.(*ast.Logical)
	if !ok || inner.Op != ast.OpAnd {
		t.Fatalf("expected the b-and-c pair on the right, got %#v", outer.Right)
	}
}

func TestParseAndBindsTighterThanOr(t *testing.T) {
	tree := mustParse(t, `a or b and c`)
	outer, ok := tree.(*ast.Logical)
	if !ok || outer.Op != ast.OpOr {
		t.Fatalf("expected or at the root, got %#v", tree)
	}
	if inner, ok := outer.Right.(*ast.Logical); !ok || inner.Op != ast.OpAnd {
		t.Fatalf("expected b and c grouped under the or, got %#v", outer.Right)
	}
}

func TestParseNotBindsTighterThanAnd(t *testing.T) {
	tree := mustParse(t, `not a and b`)
	outer, ok := tree.(*ast.Logical)
	if !ok || outer.Op != ast.OpAnd {
		t.Fatalf("expected and at the root, got %#v", tree)
	}
	if _, ok := outer.Left.(*ast.Negate); !ok {
		t.Fatalf("expected not to bind only to a, got %#v", outer.Left)
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	tree := mustParse(t, `(a or b) and c`)
	outer, ok := tree.(*ast.Logical)
	if !ok || outer.Op != ast.OpAnd {
		t.Fatalf("expected and at the root, got %#v", tree)
	}
	if inner, ok := outer.Left.(*ast.Logical); !ok || inner.Op != ast.OpOr {
		t.Fatalf("expected the parenthesized or on the left, got %#v", outer.Left)
	}
}

func TestParseSetLiteralContains(t *testing.T) {
	tree := mustParse(t, `{1 2 3} contains x`)
	c, ok := tree.(*ast.Contains)
	if !ok {
		t.Fatalf("expected a Contains node, got %#v", tree)
	}
	set, ok := c.Left.(*ast.LiteralSet)
	if !ok || len(set.Elements) != 3 {
		t.Fatalf("expected a 3-element set literal, got %#v", c.Left)
	}
}

func TestParseMatchesRequiresQuotedRegex(t *testing.T) {
	tree := mustParse(t, `server matches '^web-[0-9]+$'`)
	m, ok := tree.(*ast.Match)
	if !ok {
		t.Fatalf("expected a Match node, got %#v", tree)
	}
	if r, ok := m.Right.(*ast.Regex); !ok || r.Pattern != "^web-[0-9]+$" {
		t.Fatalf("expected the stripped regex pattern, got %#v", m.Right)
	}

	res := Parse(`server matches web`)
	if len(res.Errors) == 0 {
		t.Fatal("expected an error for an unquoted matches operand")
	}
}

func TestParseConstants(t *testing.T) {
	for src, want := range map[string]interface{}{
		`flag is true`:  true,
		`flag is false`: false,
		`flag is null`:  nil,
	} {
		tree := mustParse(t, src)
		c := tree.(*ast.Compare)
		if c.Right.(*ast.Constant).Value != want {
			t.Fatalf("%s: expected constant %v, got %#v", src, want, c.Right)
		}
	}
	tree := mustParse(t, `x is undefined`)
	if _, ok := tree.(*ast.Compare).Right.(*ast.UndefinedNode); !ok {
		t.Fatalf("expected undefined node, got %#v", tree)
	}
	tree = mustParse(t, `errors is empty`)
	if _, ok := tree.(*ast.Compare).Right.(*ast.EmptyNode); !ok {
		t.Fatalf("expected empty node, got %#v", tree)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		``,
		`name is`,
		`(a or b`,
		`{1 2`,
		`a > > b`,
	} {
		res := Parse(src)
		if len(res.Errors) == 0 {
			t.Fatalf("expected parse errors for %q", src)
		}
		if res.Tree != nil {
			t.Fatalf("expected no tree alongside errors for %q", src)
		}
	}
}

func TestParseTrailingTokensRejected(t *testing.T) {
	res := Parse(`a > 1 b`)
	if len(res.Errors) == 0 {
		t.Fatal("expected an error for trailing tokens")
	}
}
