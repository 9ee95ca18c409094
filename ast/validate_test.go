package ast

import "testing"

func TestValidateRejectsBadRegex(t *testing.T) {
	m := NewMatch(Position{}, NewLiteral(Position{}, "server"), NewRegex(Position{}, "("))
	diag := NewDiagnostics()
	if Validate(m, diag) {
		t.Fatal("expected validation to fail for an unbalanced regex")
	}
	if len(diag.Regex) != 1 {
		t.Fatalf("expected one recorded regex error, got %d", len(diag.Regex))
	}
}

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	left := NewCompare(Position{}, OpGt, NewLiteral(Position{}, "age"), NewNumberValue(Position{}, 30))
	right := NewCompare(Position{}, OpIs, NewLiteral(Position{}, "gender"), NewLiteral(Position{}, "'M'"))
	tree := NewLogical(Position{}, OpAnd, left, right)

	diag := NewDiagnostics()
	if !Validate(tree, diag) {
		t.Fatalf("expected tree to validate, got errors: %v", diag.Errors)
	}
}

func TestValidateWalksBranchExpr(t *testing.T) {
	badExpr := NewMatch(Position{}, NewLiteral(Position{}, "server"), NewRegex(Position{}, "("))
	b := NewBranch(Position{}, badExpr, true, NewConstantBool(Position{}, true), NewConstantBool(Position{}, false))

	diag := NewDiagnostics()
	if Validate(b, diag) {
		t.Fatal("expected Branch.Expr's invalid regex to be caught")
	}
}

func TestValidateRejectsUnknownCompareOperator(t *testing.T) {
	c := NewCompare(Position{}, CompareOp("~="), NewLiteral(Position{}, "age"), NewNumberValue(Position{}, 1))
	diag := NewDiagnostics()
	if Validate(c, diag) {
		t.Fatal("expected an unknown compare operator to fail validation")
	}
}
