package ast

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/spf13/cast"
)

// Value is whatever an AST node evaluates to: a bool, float64, string,
// Undefined, Empty, a ValueSet, a compiled regex, or a document-supplied
// value of arbitrary type (slice/map/string/number) flowing through a
// Literal lookup.
type Value = interface{}

// Undefined represents "name not found". It is falsy and equals itself and
// Empty and any zero-length collection; see Equal.
type Undefined struct{}

func (Undefined) String() string { return "undefined" }

// Empty represents the null set (a zero-length collection or string). It
// is falsy and equal to Undefined and any zero-length collection.
type Empty struct{}

func (Empty) String() string { return "empty" }

// ValueSet is the runtime value of a LiteralSet: a frozen set of resolved
// scalar values, supporting the set algebra the contains-rewriter needs.
type ValueSet map[interface{}]struct{}

// NewValueSet builds a ValueSet from the given values.
func NewValueSet(vals ...interface{}) ValueSet {
	s := make(ValueSet, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func (s ValueSet) Contains(v interface{}) bool {
	_, ok := s[v]
	return ok
}

func (s ValueSet) Len() int { return len(s) }

func (s ValueSet) Clone() ValueSet {
	out := make(ValueSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Union returns s ∪ other.
func (s ValueSet) Union(other ValueSet) ValueSet {
	out := s.Clone()
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Intersect returns s ∩ other.
func (s ValueSet) Intersect(other ValueSet) ValueSet {
	out := make(ValueSet)
	for k := range s {
		if other.Contains(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Diff returns s \ other.
func (s ValueSet) Diff(other ValueSet) ValueSet {
	out := make(ValueSet)
	for k := range s {
		if !other.Contains(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Subset reports whether s ⊆ other.
func (s ValueSet) Subset(other ValueSet) bool {
	for k := range s {
		if !other.Contains(k) {
			return false
		}
	}
	return true
}

// Equal reports whether s and other contain exactly the same elements.
func (s ValueSet) Equal(other ValueSet) bool {
	if len(s) != len(other) {
		return false
	}
	return s.Subset(other)
}

// Sorted returns the set's elements in a deterministic order, used
// anywhere a ValueSet needs a stable string form (diagnostics, node
// naming).
func (s ValueSet) Sorted() []interface{} {
	out := make([]interface{}, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprint(out[i]) < fmt.Sprint(out[j])
	})
	return out
}

func (s ValueSet) String() string {
	return fmt.Sprintf("%v", s.Sorted())
}

// Truthy implements the dynamic truthiness the three-valued logic
// relies on: Undefined and Empty are always falsy, bool is itself, nil and
// an empty ValueSet are falsy, everything else (including 0 and "") is
// truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case Undefined:
		return false
	case Empty:
		return false
	case ValueSet:
		return len(t) > 0
	default:
		return true
	}
}

func isFalsySentinel(v Value) bool {
	switch v.(type) {
	case Undefined, Empty:
		return true
	}
	return false
}

// isZeroLength reports whether v is a zero-length string/slice/array/map
// or a zero-length ValueSet, which Undefined/Empty equality treats as
// equal to Undefined/Empty.
func isZeroLength(v Value) bool {
	if vs, ok := v.(ValueSet); ok {
		return vs.Len() == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// Equal implements the three-valued equality: Undefined and
// Empty equal each other and any zero-length collection; numbers compare
// numerically regardless of their concrete Go numeric type; everything
// else falls back to Go equality.
func Equal(a, b Value) bool {
	aSentinel := isFalsySentinel(a)
	bSentinel := isFalsySentinel(b)
	switch {
	case aSentinel && bSentinel:
		return true
	case aSentinel:
		return isZeroLength(b)
	case bSentinel:
		return isZeroLength(a)
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return as == bs
		}
	}
	return reflect.DeepEqual(a, b)
}

// Order compares a and b for <,<=,>,>=. ok is false when the comparison is
// undefined: either side is Undefined/Empty, or the values aren't both
// numeric or both strings.
func Order(a, b Value) (cmp int, ok bool) {
	if isFalsySentinel(a) || isFalsySentinel(b) {
		return 0, false
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			switch {
			case as < bs:
				return -1, true
			case as > bs:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}

// asFloat coerces numeric values (the document may hand back any Go
// numeric type) to a float64 using spf13/cast, the way the source's Python
// numeric tower compares int/float transparently. Strings are never
// coerced, even when they contain digits, so "age" > "10" stays a
// lexicographic comparison.
func asFloat(v Value) (float64, bool) {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	default:
		return 0, false
	}
}

// Length returns the length of a sequence/set/map/string value and
// whether v supports a length at all.
func Length(v Value) (int, bool) {
	if vs, ok := v.(ValueSet); ok {
		return vs.Len(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}
