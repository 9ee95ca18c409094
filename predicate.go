// Package pypred is the public front end: Predicate, PredicateSet and
// OptimizedPredicateSet wrap the lexer/parser and the ast/merge pipeline
// behind an embedding API that never raises for user-facing predicate
// errors. Ported from pypred/predicate.py (Predicate) and set.py
// (PredicateSet/OptimizedPredicateSet).
package pypred

import (
	"fmt"

	"github.com/satori/go.uuid"

	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/parser"
)

// Errors is the structural error bag:
// {errors: [string], regex: {pattern: compile_error}}.
type Errors struct {
	Errors []string
	Regex  map[string]string
}

// Predicate parses and validates a single predicate source string. It
// never panics or returns a Go error for malformed predicate text; all
// failures accumulate in ErrorsBag() and IsValid() reports false.
type Predicate struct {
	Source string
	Handle uuid.UUID

	tree ast.Node

	validated bool
	valid     bool
	diag      *ast.Diagnostics
	parseErrs []string

	resolver *DefaultResolver
}

// NewPredicate parses source immediately; parse failures are recorded,
// not returned, matching predicate.py's constructor (a parse exception is
// caught and folded into ast_errors rather than propagated).
func NewPredicate(source string) *Predicate {
	p := &Predicate{
		Source:   source,
		Handle:   uuid.NewV4(),
		resolver: NewDefaultResolver(),
	}

	res := parser.Parse(source)
	if len(res.Errors) > 0 {
		p.parseErrs = res.Errors
		p.validated = true
		p.valid = false
		return p
	}
	p.tree = res.Tree
	return p
}

// SetResolver registers a named static value or ResolverFunc, overriding
// the default document lookup for that identifier.
func (p *Predicate) SetResolver(name string, fnOrValue interface{}) {
	p.resolver.SetResolver(name, fnOrValue)
}

// IsValid runs (and caches) AST validation the first time it's called,
// the way predicate.py's is_valid lazily validates once.
func (p *Predicate) IsValid() bool {
	if p.validated {
		return p.valid
	}
	p.validated = true
	if p.tree == nil {
		p.valid = false
		return false
	}
	p.diag = ast.NewDiagnostics()
	p.valid = ast.Validate(p.tree, p.diag)
	return p.valid
}

// ErrorsBag returns every accumulated lex/parse/validate error, in that
// order, matching predicate.py's parse_errors merge order.
func (p *Predicate) ErrorsBag() Errors {
	p.IsValid()
	out := Errors{Regex: map[string]string{}}
	out.Errors = append(out.Errors, p.parseErrs...)
	if p.diag != nil {
		out.Errors = append(out.Errors, p.diag.Errors...)
		for k, v := range p.diag.Regex {
			out.Regex[k] = v
		}
	}
	return out
}

// Evaluate evaluates the predicate against doc without recording failure
// traces. Panics via ErrInvalidPredicate if the predicate is not valid.
func (p *Predicate) Evaluate(doc ast.Document) bool {
	result, _ := p.eval(doc, false)
	return result
}

// Analyze evaluates the predicate against doc and also returns the
// analyze-mode failure trace describing why it didn't match.
func (p *Predicate) Analyze(doc ast.Document) (bool, []string) {
	return p.eval(doc, true)
}

func (p *Predicate) eval(doc ast.Document, analyze bool) (bool, []string) {
	if !p.IsValid() || p.tree == nil {
		panic(ErrInvalidPredicate.New(fmt.Sprintf("%q", p.Source)))
	}
	ctx := ast.NewEvalContext(doc, p.resolver)
	ctx.Analyze = analyze
	v, err := p.tree.Eval(ctx)
	if err != nil {
		return false, []string{err.Error()}
	}
	return ast.Truthy(v), ctx.Failed
}

// Tree exposes the validated AST, for package merge's Input wrapping (and
// tests that want to assert on compiled shape).
func (p *Predicate) Tree() ast.Node { return p.tree }

// dropCompiled releases the parsed AST once a finalized set no longer
// needs it. The predicate keeps its Source and Handle for identification
// but can no longer evaluate standalone.
func (p *Predicate) dropCompiled() {
	p.tree = nil
}

func (p *Predicate) String() string { return p.Source }
