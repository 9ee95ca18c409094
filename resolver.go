package pypred

import (
	"strings"

	"github.com/armon/go-pypred/ast"
)

// ResolverFunc lets a caller register a computed value for an identifier
// instead of a static one, e.g. `set_resolver("now", func(doc) {...})` in
// the source's terms.
type ResolverFunc func(doc ast.Document) ast.Value

// DefaultResolver implements ast.Resolver the way
// pypred/predicate.py's resolve_identifier does: quoted
// literals never reach it (ast.Literal.Eval strips those itself before
// calling Resolve), a direct key lookup is tried first, then the dotted
// "a.b.c" nested-lookup form, and anything still unresolved becomes
// Undefined. Callers can layer registered names (constants or callables)
// on top via SetResolver, checked before the document lookup so an
// override always wins.
type DefaultResolver struct {
	registered map[string]interface{} // ast.Value or ResolverFunc
}

// NewDefaultResolver returns a resolver with no registered overrides.
func NewDefaultResolver() *DefaultResolver {
	return &DefaultResolver{registered: make(map[string]interface{})}
}

// SetResolver registers a static value or a ResolverFunc for name, checked
// ahead of any document lookup. Passing a plain ast.Value is equivalent to
// always resolving to that value regardless of document.
func (r *DefaultResolver) SetResolver(name string, fnOrValue interface{}) {
	r.registered[name] = fnOrValue
}

// Resolve implements ast.Resolver.
func (r *DefaultResolver) Resolve(doc ast.Document, name string) ast.Value {
	if v, ok := r.registered[name]; ok {
		switch t := v.(type) {
		case ResolverFunc:
			return t(doc)
		default:
			return t
		}
	}

	if v, ok := doc.Get(name); ok {
		return v
	}

	if strings.Contains(name, ".") {
		if v, ok := resolveDotted(doc, name); ok {
			return v
		}
	}

	return ast.Undefined{}
}

// StaticResolve implements ast.Resolver for the canonicalizer's
// compile-time pass: only names with a registered static value (not a
// ResolverFunc, which depends on a document) can be determined without
// one.
func (r *DefaultResolver) StaticResolve(name string) (ast.Value, bool) {
	if v, ok := r.registered[name]; ok {
		if _, isFunc := v.(ResolverFunc); isFunc {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

// resolveDotted walks "a.b.c" through successive Get calls, the way
// predicate.py's resolve_identifier does: each intermediate value must
// itself behave as a Document (either ast.Document or a plain
// map[string]interface{}, the shape most schemaless documents arrive in
// after JSON decoding).
func resolveDotted(doc ast.Document, name string) (ast.Value, bool) {
	parts := strings.Split(name, ".")
	var cur ast.Document = doc
	for i, part := range parts {
		v, ok := cur.Get(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := asDocument(v)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

func asDocument(v ast.Value) (ast.Document, bool) {
	switch t := v.(type) {
	case ast.Document:
		return t, true
	case map[string]interface{}:
		return ast.MapDocument(t), true
	default:
		return nil, false
	}
}
