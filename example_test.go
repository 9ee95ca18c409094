package pypred_test

import (
	"fmt"

	"github.com/armon/go-pypred/ast"
	pypred "github.com/armon/go-pypred"
	"github.com/armon/go-pypred/merge"
)

func Example() {
	preds := []*pypred.Predicate{
		pypred.NewPredicate(`name is 'Jack'`),
		pypred.NewPredicate(`name is 'Jill'`),
	}

	set := pypred.NewOptimizedPredicateSet(merge.ShallowSettings(), preds...)
	matches := set.Evaluate(ast.MapDocument{"name": "Jill"})

	for _, m := range matches {
		fmt.Println(m)
	}
	// Output: name is 'Jill'
}
