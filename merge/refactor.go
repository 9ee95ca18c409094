// Package merge implements the merger and refactorer: it combines many
// predicate ASTs under one balanced Both tree, then recursively expands
// the tree into Branch nodes around the most selective shared
// sub-expression at each level. Ported from pypred/merge.py.
package merge

import (
	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/canon"
	"github.com/armon/go-pypred/compact"
	"github.com/armon/go-pypred/internal/log"
	"github.com/armon/go-pypred/optimizer"
	"github.com/armon/go-pypred/rewrite"
)

// Compile runs the full compile pipeline: static resolve,
// canonicalize, an initial optimizer pass, the recursive refactor loop,
// a final static resolve, then CSE compaction and cache insertion. Each
// stage can be switched off via settings' per-stage toggles.
func Compile(node ast.Node, resolver ast.Resolver, settings RefactorSettings) ast.Node {
	if settings.StaticRewrite {
		node = canon.StaticResolve(node, resolver)
	}
	if settings.Canonicalize {
		node = canon.Canonicalize(node)
	}
	if settings.InitialOptimize {
		node = optimizer.Optimize(node, settings.MaxOptPass, settings.MinChange)
	}
	if settings.Refactor {
		node = recursiveRefactor(node, 0, settings)
	}
	if settings.StaticRewrite {
		node = canon.StaticResolve(node, resolver)
	}
	if settings.Compact {
		node = compact.Compact(node)
	}
	if settings.CacheExpr {
		node = compact.CacheExpressions(node)
	}
	return node
}

// recursiveRefactor picks the most selective
// pivot reachable from node and replace node with Branch(pivot, node
// assuming pivot=true, node assuming pivot=false), recursing into each
// branch until max_depth is hit or no candidate clears min_select.
func recursiveRefactor(node ast.Node, depth int, settings RefactorSettings) ast.Node {
	if depth >= settings.MaxDepth {
		return node
	}

	candidates := CountExpressions(node)
	for _, cand := range candidates {
		if cand.count() < settings.MinSelect {
			// Candidates are sorted by descending count; once one falls
			// below the threshold, every later candidate does too.
			return node
		}

		pivotExpr, ok := selectPivot(cand, settings)
		if !ok {
			continue
		}

		log.Debugf("merge: depth %d pivoting on %s (count=%d)", depth, cand.Name, cand.count())

		trueBranch := ast.DeepCopy(node)
		trueBranch = rewrite.RewriteNode(trueBranch, cand.Key, pivotExpr, true)
		trueBranch = optimizer.Optimize(trueBranch, settings.MaxOptPass, settings.MinChange)
		trueBranch = recursiveRefactor(trueBranch, depth+1, settings)

		falseBranch := rewrite.RewriteNode(node, cand.Key, pivotExpr, false)
		falseBranch = optimizer.Optimize(falseBranch, settings.MaxOptPass, settings.MinChange)
		falseBranch = recursiveRefactor(falseBranch, depth+1, settings)

		exprCopy := ast.DeepCopy(pivotExpr)
		return ast.NewBranch(exprCopy.Pos(), exprCopy, true, trueBranch, falseBranch)
	}

	return node
}

// selectPivot picks the single expression within cand's group to use for
// branch expansion, delegating to the family-specific selector. It
// returns ok=false when the family has no selectable expression (e.g. a
// contains group whose best score falls under min_density).
func selectPivot(cand *Candidate, settings RefactorSettings) (ast.Node, bool) {
	switch cand.Key.Kind {
	case rewrite.KindEquality, rewrite.KindOrder:
		e := rewrite.SelectCompareExpression(cand.Key, cand.Compares)
		if e == nil {
			return nil, false
		}
		return e, true
	case rewrite.KindContains:
		e := rewrite.SelectContainsExpression(settings.containsSettings(), cand.Contains)
		if e == nil {
			return nil, false
		}
		return e, true
	default:
		return nil, false
	}
}
