package merge

import "github.com/armon/go-pypred/ast"

// Input pairs one predicate's handle with its parsed (and already-
// validated) AST, the unit Merge combines.
type Input struct {
	Handle ast.Handle
	Tree   ast.Node
}

// Merge wraps each input's tree in a PushResult carrying its handle, then
// combines the results pairwise into a balanced tree of Both nodes, the
// way pypred/merge.py's merge() does. An empty input list returns a
// Constant(true). Every tree is deep-copied first since
// Merge may be called again if the caller mutates a predicate set.
func Merge(inputs []Input) ast.Node {
	if len(inputs) == 0 {
		return ast.NewConstantBool(ast.Position{}, true)
	}

	leaves := make([]ast.Node, len(inputs))
	for i, in := range inputs {
		leaves[i] = ast.NewPushResult(in.Tree.Pos(), ast.DeepCopy(in.Tree), in.Handle)
	}
	return balance(leaves)
}

// balance folds leaves pairwise into a balanced binary tree of Both
// nodes: each pass combines adjacent pairs, halving the level's width,
// until one node remains. A leftover odd leaf carries forward unpaired.
func balance(nodes []ast.Node) ast.Node {
	for len(nodes) > 1 {
		next := make([]ast.Node, 0, (len(nodes)+1)/2)
		for i := 0; i < len(nodes); i += 2 {
			if i+1 < len(nodes) {
				next = append(next, ast.NewBoth(nodes[i].Pos(), nodes[i], nodes[i+1]))
			} else {
				next = append(next, nodes[i])
			}
		}
		nodes = next
	}
	return nodes[0]
}
