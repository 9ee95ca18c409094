// Package tiler implements pattern matching against predicate AST trees,
// used both to rewrite the tree (peephole optimization, pivot expansion)
// and to walk it read-only (expression counting). Ported from
// pypred/tiler.py: a node's left/right children are discovered generically
// through ast.Left/Right rather than a virtual "accept(visitor)" dispatch,
// so adding a new Pattern never requires touching package ast.
package tiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/armon/go-pypred/ast"
)

// Pattern is the tiling predicate. The zero-value *Always always matches.
type Pattern interface {
	Matches(node ast.Node) bool
}

// Always matches every node, mirroring tiler.py's base Pattern class.
type Always struct{}

func (Always) Matches(ast.Node) bool { return true }

// ASTPattern matches nodes that are structurally equal to a fixed example
// tree, via ast.StructurallyEqual.
type ASTPattern struct {
	Example ast.Node
}

func (p ASTPattern) Matches(node ast.Node) bool {
	return ast.StructurallyEqual(p.Example, node)
}

// SimplePattern implements the small clause DSL from pypred/tiler.py:
//
//	types:Compare,Logical
//	op:=
//	ops:=,>,>=
//	value:foo
//
// clauses are joined with " AND ". NodeP applies to the node itself;
// LeftP/RightP (optional) apply to its left/right child, when present.
type SimplePattern struct {
	NodeP  string
	LeftP  string
	RightP string
}

func (p SimplePattern) Matches(node ast.Node) bool {
	if !checkClauses(p.NodeP, node) {
		return false
	}
	if p.LeftP != "" {
		left, ok := ast.Left(node)
		if !ok || !checkClauses(p.LeftP, left) {
			return false
		}
	}
	if p.RightP != "" {
		right, ok := ast.Right(node)
		if !ok || !checkClauses(p.RightP, right) {
			return false
		}
	}
	return true
}

func checkClauses(pattern string, node ast.Node) bool {
	for _, clause := range strings.Split(pattern, " AND ") {
		switch {
		case strings.HasPrefix(clause, "types:"):
			types := strings.Split(clause[len("types:"):], ",")
			if !containsString(types, nodeType(node)) {
				return false
			}
		case strings.HasPrefix(clause, "ops:"):
			ops := strings.Split(clause[len("ops:"):], ",")
			op, ok := nodeOp(node)
			if !ok || !containsString(ops, op) {
				return false
			}
		case strings.HasPrefix(clause, "op:"):
			want := clause[len("op:"):]
			op, ok := nodeOp(node)
			if !ok || op != want {
				return false
			}
		case strings.HasPrefix(clause, "value:"):
			want := clause[len("value:"):]
			val, ok := nodeValue(node)
			if !ok || val != want {
				return false
			}
		default:
			panic(fmt.Sprintf("tiler: invalid pattern clause %q", clause))
		}
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// nodeType returns the Go type name of node, sans package qualifier and
// pointer marker (pypred's node_type used __class__.__name__).
func nodeType(node ast.Node) string {
	t := fmt.Sprintf("%T", node) // "*ast.Compare"
	t = strings.TrimPrefix(t, "*ast.")
	t = strings.TrimPrefix(t, "ast.")
	return t
}

// nodeOp returns the operator tag for operator-bearing nodes (Compare,
// Logical), matching pypred's node_op (hasattr(node, "type")).
func nodeOp(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.Compare:
		return string(n.Op), true
	case *ast.Logical:
		return string(n.Op), true
	default:
		return "", false
	}
}

// nodeValue returns the literal value carried by leaf nodes, matching
// pypred's node_value (hasattr(node, "value")).
func nodeValue(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.Literal:
		return n.Name, true
	case *ast.Number:
		return strconv.FormatFloat(n.Value, 'g', -1, 64), true
	case *ast.Constant:
		return fmt.Sprintf("%v", n.Value), true
	case *ast.Regex:
		return n.Pattern, true
	default:
		return "", false
	}
}

// RewriteFunc is invoked for every pattern match. It may return nil to
// leave the node untouched, or a replacement node to graft in its place.
type RewriteFunc func(p Pattern, node ast.Node) ast.Node

// Tile depth-first walks node, applying every pattern that matches at each
// position and grafting in whatever RewriteFunc returns, then recursing
// into the (possibly just-replaced) left/right children. Returns the
// (possibly replaced) root.
func Tile(node ast.Node, patterns []Pattern, fn RewriteFunc) ast.Node {
	if node == nil {
		return nil
	}
	for _, p := range patterns {
		if p.Matches(node) {
			if result := fn(p, node); result != nil {
				node = result
			}
		}
	}

	if left, ok := ast.Left(node); ok {
		if result := Tile(left, patterns, fn); result != nil {
			ast.SetLeft(node, result)
		}
	}
	if right, ok := ast.Right(node); ok {
		if result := Tile(right, patterns, fn); result != nil {
			ast.SetRight(node, result)
		}
	}

	return node
}
