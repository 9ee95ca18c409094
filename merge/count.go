package merge

import (
	"fmt"
	"sort"

	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/rewrite"
	"github.com/armon/go-pypred/tiler"
)

// Candidate groups every Compare or Contains node in a tree that shares a
// canonical name: the same pivot literal and the same rewrite family
// (equality, order, or contains). These are the refactor loop's pivot
// candidates; Negate/Logical/Match nodes are not counted here because
// only Compare and Contains carry a rewrite family; there is nothing for
// a chosen Match/Negate pivot to rewrite beyond what the optimizer's own
// constant-folding already achieves once the expression is duplicated
// into a branch.
type Candidate struct {
	Name     string
	Key      rewrite.ExprName
	Compares []*ast.Compare
	Contains []*ast.Contains
}

// CountExpressions walks node and groups every eligible Compare/Contains
// node by canonical name, returning the groups by descending count (ties
// by name). A Compare is eligible when its left operand is a Literal, a
// Contains when its left operand is a LiteralSet; the right operand may
// be of any kind.
func CountExpressions(node ast.Node) []*Candidate {
	byName := make(map[string]*Candidate)
	var order []string

	comparePattern := tiler.SimplePattern{NodeP: "types:Compare", LeftP: "types:Literal"}
	containsPattern := tiler.SimplePattern{NodeP: "types:Contains", LeftP: "types:LiteralSet"}

	tiler.Tile(node, []tiler.Pattern{comparePattern, containsPattern}, func(_ tiler.Pattern, n ast.Node) ast.Node {
		switch c := n.(type) {
		case *ast.Compare:
			lit, ok := c.Left.(*ast.Literal)
			if !ok {
				return nil
			}
			kind := rewrite.KindEquality
			if !c.Op.IsEquality() {
				kind = rewrite.KindOrder
			}
			static := isStaticOperand(c.Right)
			key := rewrite.ExprName{Literal: lit.Name, Kind: kind, Static: static}
			name := candidateName(key)
			cand, found := byName[name]
			if !found {
				cand = &Candidate{Name: name, Key: key}
				byName[name] = cand
				order = append(order, name)
			}
			cand.Compares = append(cand.Compares, c)
		case *ast.Contains:
			if _, ok := c.Left.(*ast.LiteralSet); !ok {
				return nil
			}
			key := rewrite.ExprName{Literal: containsElementName(c.Right), Kind: rewrite.KindContains}
			name := candidateName(key)
			cand, found := byName[name]
			if !found {
				cand = &Candidate{Name: name, Key: key}
				byName[name] = cand
				order = append(order, name)
			}
			cand.Contains = append(cand.Contains, c)
		}
		return nil
	})

	out := make([]*Candidate, 0, len(order))
	for _, n := range order {
		out = append(out, byName[n])
	}

	// Deterministic descending-count order, ties broken by the name
	// string so priority selection never depends on map iteration order.
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].count(), out[j].count()
		if ci != cj {
			return ci > cj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (c *Candidate) count() int { return len(c.Compares) + len(c.Contains) }

func isStaticOperand(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.Number:
		return true
	case *ast.Constant:
		return true
	case *ast.Literal:
		if _, quoted := t.QuotedValue(); quoted {
			return true
		}
		return t.Static
	default:
		return false
	}
}

func candidateName(key rewrite.ExprName) string {
	kindName := "equality"
	switch key.Kind {
	case rewrite.KindOrder:
		kindName = "order"
	case rewrite.KindContains:
		kindName = "contains"
	}
	return fmt.Sprintf("%s|%s|static=%v", key.Literal, kindName, key.Static)
}

// containsElementName groups Contains candidates by their right-side
// element, not by set contents: the contains rewrite fires across
// different LiteralSets tested against the same X ("{1 2 3} contains x"
// and "{2 3 4} contains x" belong to one pivot group).
func containsElementName(right ast.Node) string {
	switch t := right.(type) {
	case *ast.Literal:
		return t.Name
	case *ast.Number:
		return t.String()
	case *ast.Constant:
		return t.String()
	default:
		return fmt.Sprintf("%T", right)
	}
}
