// Package benchmark generates synthetic predicate workloads for the
// benchmarks in this directory: a small fixed schema of fields, a pool of
// predicates drawn from it, and a batch of random documents to evaluate
// against. The generation is seeded so runs are comparable.
package benchmark

import (
	"fmt"
	"math/rand"

	"github.com/armon/go-pypred/ast"
)

// Schema is the field pool predicates draw from.
var (
	names   = []string{"Jack", "Jill", "Alice", "Bob", "Carol", "Dave"}
	genders = []string{"Male", "Female"}
	tags    = []string{"music", "sports", "films", "books", "travel"}
)

// GeneratePredicates returns n predicate source strings over the schema:
// equality checks on name/gender, order checks on age, and contains
// checks on interest sets. Many predicates share literals and compared
// values so the refactorer has pivots worth branching on.
func GeneratePredicates(rng *rand.Rand, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		switch i % 4 {
		case 0:
			out = append(out, fmt.Sprintf("name is '%s'", names[rng.Intn(len(names))]))
		case 1:
			out = append(out, fmt.Sprintf("gender is '%s' and age > %d", genders[rng.Intn(len(genders))], 10*rng.Intn(8)))
		case 2:
			out = append(out, fmt.Sprintf("age > %d", 10*rng.Intn(8)))
		default:
			a := tags[rng.Intn(len(tags))]
			b := tags[rng.Intn(len(tags))]
			out = append(out, fmt.Sprintf("{'%s' '%s'} contains interest", a, b))
		}
	}
	return out
}

// GenerateDocuments returns n random documents over the same schema.
func GenerateDocuments(rng *rand.Rand, n int) []ast.MapDocument {
	out := make([]ast.MapDocument, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ast.MapDocument{
			"name":     names[rng.Intn(len(names))],
			"gender":   genders[rng.Intn(len(genders))],
			"age":      float64(rng.Intn(90)),
			"interest": tags[rng.Intn(len(tags))],
		})
	}
	return out
}
