package ast

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Negate negates its child's truthiness.
type Negate struct {
	pos   Position
	Child Node
}

func NewNegate(pos Position, child Node) *Negate { return &Negate{pos: pos, Child: child} }

func (n *Negate) Pos() Position         { return n.pos }
func (n *Negate) String() string        { return "not " + n.Child.String() }
func (n *Negate) getLeft() Node         { return n.Child }
func (n *Negate) setLeft(c Node)        { n.Child = c }
func (n *Negate) validateSelf(*Diagnostics) bool { return true }

func (n *Negate) Eval(ctx *EvalContext) (Value, error) {
	v, err := n.Child.Eval(ctx)
	if err != nil {
		return nil, err
	}
	result := !Truthy(v)
	if !result && ctx.Analyze {
		ctx.recordFailure(n.failureInfo(ctx))
	}
	return result, nil
}

// failureInfo re-evaluates the child to include its value in the trace;
// the scoped toggle keeps that inner evaluation from appending its own
// (inverted) failure reasons.
func (n *Negate) failureInfo(ctx *EvalContext) string {
	var v Value
	WithAnalyzeOff(ctx, func() { v, _ = n.Child.Eval(ctx) })
	return fmt.Sprintf("negate at %s: child evaluated truthy (%v)", n.pos, v)
}

// CompareOp is the comparison operator tag. "=" and "is" are synonyms
// everywhere.
type CompareOp string

const (
	OpEq  CompareOp = "="
	OpIs  CompareOp = "is"
	OpNeq CompareOp = "!="
	OpLt  CompareOp = "<"
	OpLte CompareOp = "<="
	OpGt  CompareOp = ">"
	OpGte CompareOp = ">="
)

func (op CompareOp) valid() bool {
	switch op {
	case OpEq, OpIs, OpNeq, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// IsEquality reports whether op is one of the equality-family operators
// (=, is, !=), as opposed to an ordering operator.
func (op CompareOp) IsEquality() bool {
	switch op {
	case OpEq, OpIs, OpNeq:
		return true
	}
	return false
}

// Reverse returns the operator that holds when its operands are swapped:
// a > b  <=>  b < a.
func (op CompareOp) Reverse() CompareOp {
	switch op {
	case OpLt:
		return OpGt
	case OpLte:
		return OpGte
	case OpGt:
		return OpLt
	case OpGte:
		return OpLte
	default:
		return op // =, is, != are symmetric
	}
}

// Compare is a comparison node: =, is, !=, <, <=, >, >=.
type Compare struct {
	pos         Position
	Op          CompareOp
	Left, Right Node
}

func NewCompare(pos Position, op CompareOp, left, right Node) *Compare {
	return &Compare{pos: pos, Op: op, Left: left, Right: right}
}

func (c *Compare) Pos() Position  { return c.pos }
func (c *Compare) String() string { return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right) }
func (c *Compare) getLeft() Node  { return c.Left }
func (c *Compare) setLeft(n Node) { c.Left = n }
func (c *Compare) getRight() Node { return c.Right }
func (c *Compare) setRight(n Node) { c.Right = n }

// Reverse swaps left/right and flips the operator accordingly, used by the
// canonicalizer.
func (c *Compare) Reverse() {
	c.Left, c.Right = c.Right, c.Left
	c.Op = c.Op.Reverse()
}

func (c *Compare) validateSelf(diag *Diagnostics) bool {
	if !c.Op.valid() {
		diag.addError("unknown compare operator %s", c.Op)
		return false
	}
	return true
}

func (c *Compare) Eval(ctx *EvalContext) (Value, error) {
	left, err := c.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	right, err := c.Right.Eval(ctx)
	if err != nil {
		return nil, err
	}

	var result bool
	switch c.Op {
	case OpEq, OpIs:
		result = Equal(left, right)
	case OpNeq:
		result = !Equal(left, right)
	default:
		if isFalsySentinel(left) || isFalsySentinel(right) {
			if ctx.Analyze {
				ctx.recordFailure(fmt.Sprintf("compare at %s: comparison against undefined or empty", c.pos))
			}
			return false, nil
		}
		cmp, ok := Order(left, right)
		if !ok {
			if ctx.Analyze {
				ctx.recordFailure(fmt.Sprintf("compare at %s: %v and %v are not order-comparable", c.pos, left, right))
			}
			return false, nil
		}
		switch c.Op {
		case OpLt:
			result = cmp < 0
		case OpLte:
			result = cmp <= 0
		case OpGt:
			result = cmp > 0
		case OpGte:
			result = cmp >= 0
		}
	}
	if !result && ctx.Analyze {
		ctx.recordFailure(c.failureInfo(ctx, left, right))
	}
	return result, nil
}

func (c *Compare) failureInfo(ctx *EvalContext, left, right Value) string {
	return fmt.Sprintf("compare at %s: %v %s %v was false", c.pos, left, c.Op, right)
}

// LogicalOp is and/or.
type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

func (op LogicalOp) valid() bool { return op == OpAnd || op == OpOr }

// Logical is a short-circuiting and/or node.
type Logical struct {
	pos         Position
	Op          LogicalOp
	Left, Right Node
}

func NewLogical(pos Position, op LogicalOp, left, right Node) *Logical {
	return &Logical{pos: pos, Op: op, Left: left, Right: right}
}

func (l *Logical) Pos() Position  { return l.pos }
func (l *Logical) String() string { return fmt.Sprintf("(%s %s %s)", l.Left, l.Op, l.Right) }
func (l *Logical) getLeft() Node  { return l.Left }
func (l *Logical) setLeft(n Node) { l.Left = n }
func (l *Logical) getRight() Node { return l.Right }
func (l *Logical) setRight(n Node) { l.Right = n }
func (l *Logical) validateSelf(diag *Diagnostics) bool {
	if !l.Op.valid() {
		diag.addError("unknown logical operator %s", l.Op)
		return false
	}
	return true
}

// Eval implements standard short-circuit boolean logic. This is distinct
// from Both, which never short-circuits because it must reach every
// PushResult on both sides; the optimizer must never fold a Both into a
// Logical "or".
func (l *Logical) Eval(ctx *EvalContext) (Value, error) {
	left, err := l.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	if l.Op == OpAnd {
		if !Truthy(left) {
			return false, nil
		}
		right, err := l.Right.Eval(ctx)
		if err != nil {
			return nil, err
		}
		return Truthy(right), nil
	}
	if Truthy(left) {
		return true, nil
	}
	right, err := l.Right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return Truthy(right), nil
}

// Contains is a membership test: left must have membership semantics
// (sequence/set/map/string); right must be a scalar.
type Contains struct {
	pos         Position
	Left, Right Node
}

func NewContains(pos Position, left, right Node) *Contains {
	return &Contains{pos: pos, Left: left, Right: right}
}

func (c *Contains) Pos() Position  { return c.pos }
func (c *Contains) String() string { return fmt.Sprintf("%s contains %s", c.Left, c.Right) }
func (c *Contains) getLeft() Node  { return c.Left }
func (c *Contains) setLeft(n Node) { c.Left = n }
func (c *Contains) getRight() Node { return c.Right }
func (c *Contains) setRight(n Node) { c.Right = n }

func (c *Contains) validateSelf(diag *Diagnostics) bool {
	switch c.Right.(type) {
	case *Literal, *Number, *Constant:
		return true
	default:
		diag.addError("contains operator must take a literal or constant, got %T", c.Right)
		return false
	}
}

func (c *Contains) Eval(ctx *EvalContext) (Value, error) {
	left, err := c.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	right, err := c.Right.Eval(ctx)
	if err != nil {
		return nil, err
	}

	result := containsValue(left, right)
	if !result && ctx.Analyze {
		ctx.recordFailure(fmt.Sprintf("contains at %s: %v not in %v", c.pos, right, left))
	}
	return result, nil
}

func containsValue(left, right Value) bool {
	switch l := left.(type) {
	case ValueSet:
		if l.Contains(right) {
			return true
		}
		// Set elements resolve to float64; the document may hand back any
		// numeric type for the right side.
		if f, ok := asFloat(right); ok {
			return l.Contains(f)
		}
		return false
	case Undefined, Empty:
		return false
	case string:
		rs, ok := right.(string)
		if !ok {
			return false
		}
		return strings.Contains(l, rs)
	default:
		return reflectContains(left, right)
	}
}

// reflectContains handles slice/array/map document values the resolver may
// hand back (e.g. decoded JSON arrays), falling back on Equal's coercion
// rules so a document int slice still matches a float literal. String
// elements match on substring, the same rule a string left side gets, so
// `errors contains 'disk'` matches a log line list holding "disk full".
func reflectContains(left, right Value) bool {
	rs, rightIsString := right.(string)
	rv := reflect.ValueOf(left)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			el := rv.Index(i).Interface()
			if Equal(el, right) {
				return true
			}
			if es, ok := el.(string); ok && rightIsString && strings.Contains(es, rs) {
				return true
			}
		}
		return false
	case reflect.Map:
		for _, k := range rv.MapKeys() {
			if Equal(k.Interface(), right) {
				return true
			}
		}
		return false
	}
	return false
}

// Match tests a string against a precompiled regex.
type Match struct {
	pos   Position
	Left  Node
	Right Node // must be *Regex after validation
}

func NewMatch(pos Position, left, right Node) *Match { return &Match{pos: pos, Left: left, Right: right} }

func (m *Match) Pos() Position  { return m.pos }
func (m *Match) String() string { return fmt.Sprintf("%s matches %s", m.Left, m.Right) }
func (m *Match) getLeft() Node  { return m.Left }
func (m *Match) setLeft(n Node) { m.Left = n }
func (m *Match) getRight() Node { return m.Right }
func (m *Match) setRight(n Node) { m.Right = n }

func (m *Match) validateSelf(diag *Diagnostics) bool {
	if _, ok := m.Right.(*Regex); !ok {
		diag.addError("match operator must take a regex, got %T", m.Right)
		return false
	}
	return true
}

func (m *Match) Eval(ctx *EvalContext) (Value, error) {
	left, err := m.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	re, err := m.Right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := left.(string)
	if !ok {
		if ctx.Analyze {
			ctx.recordFailure(fmt.Sprintf("match at %s: input %v is not a string", m.pos, left))
		}
		return false, nil
	}
	matcher, ok := re.(*regexp.Regexp)
	if !ok || matcher == nil {
		if ctx.Analyze {
			ctx.recordFailure(fmt.Sprintf("match at %s: regex did not compile", m.pos))
		}
		return false, nil
	}
	result := matcher.MatchString(s)
	if !result && ctx.Analyze {
		ctx.recordFailure(fmt.Sprintf("match at %s: %v does not match %s", m.pos, m.Right, s))
	}
	return result, nil
}
