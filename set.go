package pypred

import (
	"fmt"

	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/merge"
)

// PredicateSet is the naive, unoptimized predicate set: it loops over
// its predicates one by one. Ported near-literally from pypred/set.py's
// PredicateSet.
type PredicateSet struct {
	predicates map[*Predicate]struct{}
}

// NewPredicateSet builds a set from zero or more already-parsed
// predicates, panicking (via ErrInvalidPredicate, matching set.py's
// ValueError) if any of them failed to parse or validate.
func NewPredicateSet(preds ...*Predicate) *PredicateSet {
	s := &PredicateSet{predicates: make(map[*Predicate]struct{})}
	if len(preds) > 0 {
		s.Update(preds)
	}
	return s
}

func (s *PredicateSet) Add(p *Predicate) {
	if !p.IsValid() {
		panic(ErrInvalidPredicate.New(fmt.Sprintf("%q", p.Source)))
	}
	s.predicates[p] = struct{}{}
}

func (s *PredicateSet) Update(preds []*Predicate) {
	for _, p := range preds {
		if !p.IsValid() {
			panic(ErrInvalidPredicate.New(fmt.Sprintf("%q", p.Source)))
		}
	}
	for _, p := range preds {
		s.predicates[p] = struct{}{}
	}
}

// Evaluate sequentially evaluates every predicate in the set, returning
// those that matched doc. This is the reference implementation
// OptimizedPredicateSet is checked against.
func (s *PredicateSet) Evaluate(doc ast.Document) []*Predicate {
	var matched []*Predicate
	for p := range s.predicates {
		if p.Evaluate(doc) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (s *PredicateSet) Description() string {
	return fmt.Sprintf("PredicateSet(%d predicates, naive)", len(s.predicates))
}

// OptimizedPredicateSet compiles its predicates into a single merged and
// refactored AST (package merge), evaluating every predicate in one
// pass. Ported from set.py's
// OptimizedPredicateSet, which subclasses LiteralResolver directly; here
// that composition is a field instead, since Go has no implementation
// inheritance.
type OptimizedPredicateSet struct {
	predicates map[*Predicate]struct{}
	resolver   *DefaultResolver
	settings   merge.RefactorSettings

	tree      ast.Node
	finalized bool
}

// NewOptimizedPredicateSet builds a set using settings (e.g.
// merge.ShallowSettings()) to control how aggressively Compile refactors
// the merged tree.
func NewOptimizedPredicateSet(settings merge.RefactorSettings, preds ...*Predicate) *OptimizedPredicateSet {
	s := &OptimizedPredicateSet{
		predicates: make(map[*Predicate]struct{}),
		resolver:   NewDefaultResolver(),
		settings:   settings,
	}
	if len(preds) > 0 {
		s.Update(preds)
	}
	return s
}

// SetResolver registers a named static value or ResolverFunc shared by
// every predicate this set evaluates.
func (s *OptimizedPredicateSet) SetResolver(name string, fnOrValue interface{}) {
	s.resolver.SetResolver(name, fnOrValue)
}

func (s *OptimizedPredicateSet) requireNotFinalized() {
	if s.finalized {
		panic(ErrFinalizedSet.New())
	}
}

// Add inserts p, invalidating any previously compiled tree - matching
// set.py's "invalidate the current ast" comment on its Add method.
func (s *OptimizedPredicateSet) Add(p *Predicate) {
	s.requireNotFinalized()
	if !p.IsValid() {
		panic(ErrInvalidPredicate.New(fmt.Sprintf("%q", p.Source)))
	}
	before := len(s.predicates)
	s.predicates[p] = struct{}{}
	if len(s.predicates) != before {
		s.tree = nil
	}
}

func (s *OptimizedPredicateSet) Update(preds []*Predicate) {
	s.requireNotFinalized()
	for _, p := range preds {
		if !p.IsValid() {
			panic(ErrInvalidPredicate.New(fmt.Sprintf("%q", p.Source)))
		}
	}
	before := len(s.predicates)
	for _, p := range preds {
		s.predicates[p] = struct{}{}
	}
	if len(s.predicates) != before {
		s.tree = nil
	}
}

// CompileAST forces (re-)compilation of the merged tree. Called lazily by
// Evaluate/Analyze, matching set.py's compile_ast.
func (s *OptimizedPredicateSet) CompileAST() {
	inputs := make([]merge.Input, 0, len(s.predicates))
	for p := range s.predicates {
		inputs = append(inputs, merge.Input{Handle: p, Tree: p.Tree()})
	}
	merged := merge.Merge(inputs)
	s.tree = merge.Compile(merged, s.resolver, s.settings)
}

// Finalize locks the set against further Add/Update. It forces
// compilation up front, then drops the per-predicate ASTs and the
// predicate set itself to save memory: after Finalize the compiled tree
// is the only thing needed to evaluate, and its PushResult leaves are the
// only remaining references to the predicates (set.py's finalize clears
// `p.predicate` and `p.ast` the same way).
func (s *OptimizedPredicateSet) Finalize() {
	if s.finalized {
		return
	}
	if s.tree == nil {
		s.CompileAST()
	}
	for p := range s.predicates {
		p.dropCompiled()
	}
	s.predicates = nil
	s.finalized = true
}

// Evaluate runs every predicate against doc in a single pass over the
// compiled tree, returning the predicates whose PushResult leaves fired.
// No failure traces are recorded; use Analyze for those.
func (s *OptimizedPredicateSet) Evaluate(doc ast.Document) []*Predicate {
	matches, _ := s.eval(doc, false)
	return matches
}

// Analyze is Evaluate plus the EvalContext's analyze-mode failure trace.
func (s *OptimizedPredicateSet) Analyze(doc ast.Document) ([]*Predicate, []string) {
	return s.eval(doc, true)
}

func (s *OptimizedPredicateSet) eval(doc ast.Document, analyze bool) ([]*Predicate, []string) {
	if s.tree == nil {
		s.CompileAST()
	}
	ctx := ast.NewEvalContext(doc, s.resolver)
	ctx.Analyze = analyze
	if _, err := s.tree.Eval(ctx); err != nil {
		return nil, []string{err.Error()}
	}
	matches := make([]*Predicate, 0, len(ctx.Matches))
	for _, h := range ctx.Matches {
		matches = append(matches, h.(*Predicate))
	}
	return matches, ctx.Failed
}

func (s *OptimizedPredicateSet) Description() string {
	return fmt.Sprintf("OptimizedPredicateSet(%d predicates, compiled=%v)", len(s.predicates), s.tree != nil)
}
