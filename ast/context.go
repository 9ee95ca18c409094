package ast

import "fmt"

// Document is the opaque key/value bag predicates are evaluated against.
// Get is a single-key lookup; dotted nested paths ("req.sdk.version") are
// handled by Resolver implementations, which split on "." themselves and
// call Get once per path component.
type Document interface {
	// Get returns the value stored at key and whether it was present.
	Get(key string) (Value, bool)
}

// MapDocument is the default Document: a plain nested map, the way most
// schemaless documents arrive from JSON decoding.
type MapDocument map[string]interface{}

func (d MapDocument) Get(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}

// Resolver resolves a Literal's name against a document (or, for static
// resolution at compile time, independent of any document). Quoted string
// literals never reach the resolver; Literal.Eval strips and returns them
// directly.
type Resolver interface {
	// Resolve looks up name in doc, returning Undefined{} if it cannot be
	// found by any means (direct key, dotted path, or a registered
	// constant/callable).
	Resolve(doc Document, name string) Value

	// StaticResolve attempts to resolve name without a document, for the
	// canonicalizer/static-resolver pass. Returns ok=false when name cannot
	// be statically determined (e.g. it depends on the document).
	StaticResolve(name string) (Value, bool)
}

// Handle is an opaque token identifying one input predicate. PushResult
// leaves carry a Handle and append it to the EvalContext's match list when
// their child evaluates truthy. The ast package never looks inside a
// Handle; package pypred assigns *Predicate pointers as handles.
type Handle = interface{}

// EvalContext is created fresh for every document evaluation. It owns the
// per-document literal-resolution cache, the CachedNode memoization table,
// the analyze-mode failure trace, and the match sink PushResult appends to.
type EvalContext struct {
	Doc      Document
	Resolver Resolver

	names map[string]Value

	cacheVals map[uint64]Value
	cacheSeen map[uint64]bool
	CacheHits int

	Reach int

	Analyze bool
	Failed  []string

	Matches []Handle
}

// NewEvalContext creates a context for evaluating doc with resolver.
func NewEvalContext(doc Document, resolver Resolver) *EvalContext {
	return &EvalContext{
		Doc:       doc,
		Resolver:  resolver,
		names:     make(map[string]Value),
		cacheVals: make(map[uint64]Value),
		cacheSeen: make(map[uint64]bool),
	}
}

// resolveName resolves name against the document exactly once per
// evaluation, caching the result so any non-determinism in the resolver is
// observed a single time.
func (ctx *EvalContext) resolveName(name string) Value {
	if v, ok := ctx.names[name]; ok {
		return v
	}
	v := ctx.Resolver.Resolve(ctx.Doc, name)
	ctx.names[name] = v
	return v
}

// cachedValue/storeCache implement CachedNode's per-evaluation memoization.
func (ctx *EvalContext) cachedValue(id uint64) (Value, bool) {
	if !ctx.cacheSeen[id] {
		return nil, false
	}
	return ctx.cacheVals[id], true
}

func (ctx *EvalContext) storeCache(id uint64, v Value) {
	ctx.cacheSeen[id] = true
	ctx.cacheVals[id] = v
}

// pushMatch is invoked by PushResult when its child is truthy.
func (ctx *EvalContext) pushMatch(h Handle) {
	ctx.Matches = append(ctx.Matches, h)
}

// recordFailure appends a human-readable failure reason when analyze mode
// is on.
func (ctx *EvalContext) recordFailure(reason string) {
	if ctx.Analyze {
		ctx.Failed = append(ctx.Failed, reason)
	}
}

// WithAnalyzeOff runs fn with ctx.Analyze temporarily forced false, then
// restores the previous value. failureInfo implementations use this to
// re-evaluate a subtree for diagnostic purposes without recursing into
// their own tracing.
func WithAnalyzeOff(ctx *EvalContext, fn func()) {
	prev := ctx.Analyze
	ctx.Analyze = false
	defer func() { ctx.Analyze = prev }()
	fn()
}

// Diagnostics accumulates validation errors in the
// `{errors: [string], regex: {pattern: compile_error}}` shape.
type Diagnostics struct {
	Errors []string
	Regex  map[string]string
}

// NewDiagnostics returns an empty diagnostics bag.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{Regex: make(map[string]string)}
}

func (d *Diagnostics) addError(format string, args ...interface{}) {
	d.Errors = append(d.Errors, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) Valid() bool {
	return len(d.Errors) == 0
}
