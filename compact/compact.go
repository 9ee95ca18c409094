// Package compact implements the CSE passes:
// structural de-duplication of identical subtrees (Compact), followed by
// wrapping repeated operator subtrees in ast.CachedNode (CacheExpressions)
// so a merged tree evaluates each distinct expression only once per
// document. Ported from pypred/compact.py and pypred/cache.py; node_name's
// nested Python tuples become a recursive shape value hashed with
// mitchellh/hashstructure, since Go has no native structural-equality key
// for an interface{} tree.
package compact

import (
	"github.com/mitchellh/hashstructure"

	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/tiler"
)

// shape is the recursive, hashable description of a node used as compact.py's
// node_name: leaves carry their value, operators carry their tag plus their
// children's shapes. Two structurally identical subtrees always produce an
// equal shape and therefore the same hash.
type shape struct {
	Class    string
	Value    interface{}
	Tag      string
	Children []shape
}

// nodeShape returns (shape, true) for the node kinds compact.py assigns a
// name to, and (shape{}, false) for everything else (Both/Branch/
// PushResult/CachedNode, which are never deduplicated structurally).
func nodeShape(node ast.Node) (shape, bool) {
	switch n := node.(type) {
	case *ast.Literal:
		return shape{Class: "Literal", Value: n.Name}, true
	case *ast.Number:
		return shape{Class: "Number", Value: n.Value}, true
	case *ast.Constant:
		return shape{Class: "Constant", Value: n.Value}, true
	case *ast.Regex:
		return shape{Class: "Regex", Value: n.Pattern}, true
	case *ast.LiteralSet:
		if !n.Static {
			elems := make([]shape, 0, len(n.Elements))
			for _, e := range n.Elements {
				es, ok := nodeShape(e)
				if !ok {
					return shape{}, false
				}
				elems = append(elems, es)
			}
			return shape{Class: "LiteralSet", Children: elems}, true
		}
		return shape{Class: "LiteralSet", Value: n.Values.Sorted()}, true
	case *ast.UndefinedNode:
		return shape{Class: "UndefinedNode"}, true
	case *ast.EmptyNode:
		return shape{Class: "EmptyNode"}, true
	case *ast.Negate:
		child, ok := nodeShape(n.Child)
		if !ok {
			return shape{}, false
		}
		return shape{Class: "Negate", Children: []shape{child}}, true
	case *ast.Compare:
		left, ok := nodeShape(n.Left)
		if !ok {
			return shape{}, false
		}
		right, ok := nodeShape(n.Right)
		if !ok {
			return shape{}, false
		}
		return shape{Class: "Compare", Tag: string(n.Op), Children: []shape{left, right}}, true
	case *ast.Logical:
		left, ok := nodeShape(n.Left)
		if !ok {
			return shape{}, false
		}
		right, ok := nodeShape(n.Right)
		if !ok {
			return shape{}, false
		}
		return shape{Class: "Logical", Tag: string(n.Op), Children: []shape{left, right}}, true
	case *ast.Match:
		left, ok := nodeShape(n.Left)
		if !ok {
			return shape{}, false
		}
		right, ok := nodeShape(n.Right)
		if !ok {
			return shape{}, false
		}
		return shape{Class: "Match", Children: []shape{left, right}}, true
	case *ast.Contains:
		left, ok := nodeShape(n.Left)
		if !ok {
			return shape{}, false
		}
		right, ok := nodeShape(n.Right)
		if !ok {
			return shape{}, false
		}
		return shape{Class: "Contains", Children: []shape{left, right}}, true
	default:
		return shape{}, false
	}
}

// isOperator reports whether node is one of the five "Operator" kinds
// cache.py restricts caching to (Negate, Compare, Logical, Match,
// Contains) - caching a bare Literal would cost more than it saves.
func isOperator(node ast.Node) bool {
	switch node.(type) {
	case *ast.Negate, *ast.Compare, *ast.Logical, *ast.Match, *ast.Contains:
		return true
	default:
		return false
	}
}

func shapeHash(s shape) uint64 {
	h, err := hashstructure.Hash(s, nil)
	if err != nil {
		// shape contains only strings, floats, bools and nested shapes, so
		// hashstructure cannot fail on it in practice.
		return 0
	}
	return h
}

// Compact walks node and replaces every subtree that is structurally
// identical to one seen earlier with a shared pointer to the first
// occurrence, the way pypred/compact.py's compact() does.
func Compact(node ast.Node) ast.Node {
	seen := make(map[uint64]ast.Node)
	return tiler.Tile(node, []tiler.Pattern{tiler.Always{}}, func(_ tiler.Pattern, n ast.Node) ast.Node {
		s, ok := nodeShape(n)
		if !ok {
			return nil
		}
		h := shapeHash(s)
		if existing, found := seen[h]; found {
			return existing
		}
		seen[h] = n
		return nil
	})
}

// CacheExpressions walks node twice: first to count how many times each
// distinct operator subtree occurs, then to wrap every subtree occurring
// more than once in an ast.CachedNode, so repeated evaluation within one
// EvalContext hits the memoization table instead of recomputing
// (pypred/cache.py's cache_expressions()).
//
// This does not reuse tiler.Tile for the rewrite pass: a CachedNode's
// child is the very node being wrapped, and Tile always re-descends into a
// replacement's children, which would re-visit (and re-wrap) that same
// node forever. Walking and rewriting bottom-up by hand sidesteps that:
// a subtree shared by Compact may be reached more than once, but an
// existing CachedNode is returned as-is rather than descended into.
func CacheExpressions(node ast.Node) ast.Node {
	counts := make(map[uint64]int)
	tiler.Tile(node, []tiler.Pattern{tiler.Always{}}, func(_ tiler.Pattern, n ast.Node) ast.Node {
		if isOperator(n) {
			if s, ok := nodeShape(n); ok {
				counts[shapeHash(s)]++
			}
		}
		return nil
	})

	var nextID uint64
	replacements := make(map[uint64]ast.Node)
	return wrapRepeated(node, counts, replacements, &nextID)
}

// wrapRepeated rewrites node's children bottom-up, then wraps node itself
// in a shared CachedNode if it is an operator subtree that occurs more
// than once.
func wrapRepeated(node ast.Node, counts map[uint64]int, replacements map[uint64]ast.Node, nextID *uint64) ast.Node {
	if node == nil {
		return nil
	}
	if _, isCached := node.(*ast.CachedNode); isCached {
		return node
	}
	if b, isBranch := node.(*ast.Branch); isBranch {
		b.Expr = wrapRepeated(b.Expr, counts, replacements, nextID)
	}
	if left, ok := ast.Left(node); ok {
		ast.SetLeft(node, wrapRepeated(left, counts, replacements, nextID))
	}
	if right, ok := ast.Right(node); ok {
		ast.SetRight(node, wrapRepeated(right, counts, replacements, nextID))
	}

	if !isOperator(node) {
		return node
	}
	// nodeShape has no case for *ast.CachedNode, so once a child has been
	// wrapped, node no longer qualifies for caching itself; only the
	// innermost repeated subtrees get memoized.
	s, ok := nodeShape(node)
	if !ok {
		return node
	}
	h := shapeHash(s)
	if counts[h] <= 1 {
		return node
	}
	if existing, found := replacements[h]; found {
		return existing
	}
	cached := ast.NewCachedNode(node.Pos(), node, *nextID)
	*nextID++
	replacements[h] = cached
	return cached
}
