package canon

import (
	"testing"

	"github.com/armon/go-pypred/ast"
)

type staticOnlyResolver struct {
	vals map[string]ast.Value
}

func (r staticOnlyResolver) Resolve(doc ast.Document, name string) ast.Value {
	if v, ok := r.vals[name]; ok {
		return v
	}
	return ast.Undefined{}
}

func (r staticOnlyResolver) StaticResolve(name string) (ast.Value, bool) {
	v, ok := r.vals[name]
	return v, ok
}

func TestCanonicalizeMovesLiteralLeft(t *testing.T) {
	c := ast.NewCompare(ast.Position{}, ast.OpIs, ast.NewLiteral(ast.Position{}, "'Male'"), ast.NewLiteral(ast.Position{}, "gender"))
	result := Canonicalize(c).(*ast.Compare)

	lit, ok := result.Left.(*ast.Literal)
	if !ok || lit.Quoted {
		t.Fatalf("expected the unquoted identifier literal on the left, got %#v", result.Left)
	}
	if lit.Name != "gender" {
		t.Fatalf("expected 'gender' on the left, got %s", lit.Name)
	}
}

func TestCanonicalizeOrdersTwoLiteralsByName(t *testing.T) {
	c := ast.NewCompare(ast.Position{}, ast.OpIs, ast.NewLiteral(ast.Position{}, "zeta"), ast.NewLiteral(ast.Position{}, "alpha"))
	result := Canonicalize(c).(*ast.Compare)
	if result.Left.(*ast.Literal).Name != "alpha" {
		t.Fatalf("expected 'alpha' (lexically first) on the left, got %s", result.Left.(*ast.Literal).Name)
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	c := ast.NewCompare(ast.Position{}, ast.OpGt, ast.NewLiteral(ast.Position{}, "'x'"), ast.NewLiteral(ast.Position{}, "age"))
	once := Canonicalize(c)
	twice := Canonicalize(ast.DeepCopy(once))
	if !ast.StructurallyEqual(once, twice) {
		t.Fatal("expected canonicalizing twice to equal canonicalizing once")
	}
}

func TestStaticResolveMarksResolvableLiterals(t *testing.T) {
	resolver := staticOnlyResolver{vals: map[string]ast.Value{"region": "us-east"}}
	lit := ast.NewLiteral(ast.Position{}, "region")
	result := StaticResolve(lit, resolver).(*ast.Literal)
	if !result.Static || result.StaticValue != "us-east" {
		t.Fatalf("expected region to resolve statically to us-east, got %#v", result)
	}
}

func TestStaticResolveLeavesUnresolvableLiteralsDynamic(t *testing.T) {
	resolver := staticOnlyResolver{vals: map[string]ast.Value{}}
	lit := ast.NewLiteral(ast.Position{}, "unknown_field")
	result := StaticResolve(lit, resolver).(*ast.Literal)
	if result.Static {
		t.Fatal("expected an unresolvable literal to remain dynamic")
	}
}

func TestStaticResolveLiteralSetAllStatic(t *testing.T) {
	set := ast.NewLiteralSet(ast.Position{}, []ast.Node{
		ast.NewNumberValue(ast.Position{}, 1),
		ast.NewNumberValue(ast.Position{}, 2),
	})
	resolver := staticOnlyResolver{}
	result := StaticResolve(set, resolver).(*ast.LiteralSet)
	if !result.Static || result.Values.Len() != 2 {
		t.Fatalf("expected a fully-static 2-element set, got %#v", result)
	}
}

func TestStaticResolveLiteralSetPartialDynamicStaysDynamic(t *testing.T) {
	set := ast.NewLiteralSet(ast.Position{}, []ast.Node{
		ast.NewNumberValue(ast.Position{}, 1),
		ast.NewLiteral(ast.Position{}, "unknown_field"),
	})
	resolver := staticOnlyResolver{}
	result := StaticResolve(set, resolver).(*ast.LiteralSet)
	if result.Static {
		t.Fatal("expected the set to remain dynamic when one element can't be statically resolved")
	}
}
