// Package optimizer implements the peephole pass: repeated pattern-based
// constant folding to a fixpoint. Ported from
// pypred/optimizer.py; pattern objects pair a tiler.Pattern with a
// replacement (either a fixed node or a function of the matched node).
package optimizer

import (
	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/internal/log"
	"github.com/armon/go-pypred/tiler"
)

// Optimize repeatedly runs a peephole pass over node until either maxPass
// passes have run or a pass changes fewer than minChange nodes, matching
// pypred/optimizer.py's optimize().
func Optimize(node ast.Node, maxPass, minChange int) ast.Node {
	changes := minChange
	passes := 0
	for passes < maxPass && changes >= minChange {
		changes, node = Pass(node)
		passes++
	}
	log.Debugf("optimizer: converged after %d passes", passes)
	return node
}

// Pass runs a single optimization pass, returning the number of rewrites
// applied and the (possibly new) root.
func Pass(node ast.Node) (int, ast.Node) {
	count := 0
	patterns := optimizationPatterns()
	node = tiler.Tile(node, patterns, func(p tiler.Pattern, n ast.Node) ast.Node {
		count++
		return p.(replacer).Replacement(n)
	})
	return count, node
}

// replacer is implemented by every optimizer pattern: it both decides
// whether it applies (tiler.Pattern.Matches) and what to replace the
// matched node with.
type replacer interface {
	tiler.Pattern
	Replacement(node ast.Node) ast.Node
}

// fixedPattern pairs a tiler.SimplePattern with a constant replacement
// node, the Go analogue of optimizer.py's "p.replacement = ast.Constant(...)"
// patterns (p1-p4, p7, p8, p12-p14).
type fixedPattern struct {
	tiler.SimplePattern
	replacement ast.Node
}

func (p fixedPattern) Replacement(ast.Node) ast.Node { return p.replacement }

var cachedPatterns []tiler.Pattern

func optimizationPatterns() []tiler.Pattern {
	if cachedPatterns != nil {
		return cachedPatterns
	}

	falsePos := ast.Position{}

	cachedPatterns = []tiler.Pattern{
		// and with a False child folds to False (p1/p2).
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:Logical AND op:and", LeftP: "types:Constant AND value:false"},
			replacement:   ast.NewConstantBool(falsePos, false),
		},
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:Logical AND op:and", RightP: "types:Constant AND value:false"},
			replacement:   ast.NewConstantBool(falsePos, false),
		},
		// or with a True child folds to True (p3/p4).
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:Logical AND op:or", LeftP: "types:Constant AND value:true"},
			replacement:   ast.NewConstantBool(falsePos, true),
		},
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:Logical AND op:or", RightP: "types:Constant AND value:true"},
			replacement:   ast.NewConstantBool(falsePos, true),
		},
		// not true -> false, not false -> true (p5/p6).
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:Negate", LeftP: "types:Constant AND value:true"},
			replacement:   ast.NewConstantBool(falsePos, false),
		},
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:Negate", LeftP: "types:Constant AND value:false"},
			replacement:   ast.NewConstantBool(falsePos, true),
		},
		// push(false) is a no-op (p7).
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:PushResult", LeftP: "types:Constant AND value:false"},
			replacement:   ast.NewConstantBool(falsePos, false),
		},
		// both(false, false) -> false (p8).
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:Both", LeftP: "types:Constant AND value:false", RightP: "types:Constant AND value:false"},
			replacement:   ast.NewConstantBool(falsePos, false),
		},
		extraBothPattern{},
		shortCircuitLogicalPattern{},
		deadBranchPattern{},
		// empty set literal folds to the Empty sentinel (p12/p14).
		emptyLiteralSetPattern{},
		// Empty/Undefined contains anything -> false (p13).
		fixedPattern{
			SimplePattern: tiler.SimplePattern{NodeP: "types:Contains", LeftP: "types:EmptyNode,UndefinedNode"},
			replacement:   ast.NewConstantBool(falsePos, false),
		},
	}
	return cachedPatterns
}

// extraBothPattern detects Both(false, x) or Both(x, false) and replaces
// the whole node with the non-constant side, collapsing the join once one
// branch can never push a match (optimizer.py's ExtraBothPattern).
type extraBothPattern struct{}

func (extraBothPattern) Matches(node ast.Node) bool {
	_, ok := bothReplacement(node)
	return ok
}

func (extraBothPattern) Replacement(node ast.Node) ast.Node {
	r, _ := bothReplacement(node)
	return r
}

func bothReplacement(node ast.Node) (ast.Node, bool) {
	b, ok := node.(*ast.Both)
	if !ok {
		return nil, false
	}
	if c, ok := b.Left.(*ast.Constant); ok && c.Value == false {
		return b.Right, true
	}
	if c, ok := b.Right.(*ast.Constant); ok && c.Value == false {
		return b.Left, true
	}
	return nil, false
}

// shortCircuitLogicalPattern detects a Logical node whose short-circuiting
// side is a no-op constant (true and x, x and true, false or x, x or
// false) and replaces the whole node with the other operand
// (optimizer.py's ShortCircuitLogicalPattern).
type shortCircuitLogicalPattern struct{}

func (shortCircuitLogicalPattern) Matches(node ast.Node) bool {
	_, ok := shortCircuitReplacement(node)
	return ok
}

func (shortCircuitLogicalPattern) Replacement(node ast.Node) ast.Node {
	r, _ := shortCircuitReplacement(node)
	return r
}

func shortCircuitReplacement(node ast.Node) (ast.Node, bool) {
	l, ok := node.(*ast.Logical)
	if !ok {
		return nil, false
	}
	if c, ok := l.Left.(*ast.Constant); ok {
		if l.Op == ast.OpAnd && c.Value == true {
			return l.Right, true
		}
		if l.Op == ast.OpOr && c.Value == false {
			return l.Right, true
		}
		return nil, false
	}
	if c, ok := l.Right.(*ast.Constant); ok {
		if l.Op == ast.OpAnd && c.Value == true {
			return l.Left, true
		}
		if l.Op == ast.OpOr && c.Value == false {
			return l.Left, true
		}
	}
	return nil, false
}

// deadBranchPattern collapses a Branch whose Expr is a compile-time
// constant into whichever side is actually reachable (optimizer.py's
// DeadBranchPattern).
type deadBranchPattern struct{}

func (deadBranchPattern) Matches(node ast.Node) bool {
	b, ok := node.(*ast.Branch)
	if !ok {
		return false
	}
	_, ok = b.Expr.(*ast.Constant)
	return ok
}

func (deadBranchPattern) Replacement(node ast.Node) ast.Node {
	b := node.(*ast.Branch)
	c := b.Expr.(*ast.Constant)
	falsePos := ast.Position{}
	if ast.Truthy(c.Value) {
		if b.TrueChild != nil {
			return b.TrueChild
		}
		return ast.NewConstantBool(falsePos, false)
	}
	if b.FalseChild != nil {
		return b.FalseChild
	}
	return ast.NewConstantBool(falsePos, false)
}

// emptyLiteralSetPattern folds a LiteralSet with zero statically-known
// elements to the Empty sentinel node.
type emptyLiteralSetPattern struct{}

func (emptyLiteralSetPattern) Matches(node ast.Node) bool {
	s, ok := node.(*ast.LiteralSet)
	return ok && s.Static && s.Values.Len() == 0
}

func (emptyLiteralSetPattern) Replacement(node ast.Node) ast.Node {
	return ast.NewEmptyNode(node.Pos())
}
