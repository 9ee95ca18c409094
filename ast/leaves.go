package ast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Literal is an identifier to be resolved against the document, or (when
// quoted) a string constant. Dotted names ("a.b.c") are nested lookups
// performed by the Resolver. Ported from pypred/ast.py's Literal, plus a
// static-resolution cache.
type Literal struct {
	pos Position

	// Name is the raw token text, including surrounding quotes if quoted.
	Name string

	Quoted      bool
	quotedValue string

	Static      bool
	StaticValue Value
}

// NewLiteral builds a Literal from the raw token text, stripping and
// recording quoting the way pypred/predicate.py's resolve_identifier does:
// "anything that is quoted [is] a string literal".
func NewLiteral(pos Position, name string) *Literal {
	l := &Literal{pos: pos, Name: name}
	if len(name) >= 2 {
		first, last := name[0], name[len(name)-1]
		if (first == '\'' || first == '"') && first == last {
			l.Quoted = true
			l.quotedValue = name[1 : len(name)-1]
		}
	}
	return l
}

func (l *Literal) Pos() Position { return l.pos }
func (l *Literal) String() string {
	if l.Quoted {
		return l.Name
	}
	return l.Name
}

func (l *Literal) Eval(ctx *EvalContext) (Value, error) {
	if l.Quoted {
		return l.quotedValue, nil
	}
	if l.Static {
		return l.StaticValue, nil
	}
	return ctx.resolveName(l.Name), nil
}

func (l *Literal) validateSelf(*Diagnostics) bool { return true }

// QuotedValue returns the literal's unquoted string value and true when
// the literal was written as a quoted string constant.
func (l *Literal) QuotedValue() (string, bool) {
	return l.quotedValue, l.Quoted
}

// Number is a numeric literal.
type Number struct {
	pos   Position
	Value float64
	valid bool
}

func NewNumber(pos Position, text string) *Number {
	f, err := strconv.ParseFloat(text, 64)
	return &Number{pos: pos, Value: f, valid: err == nil}
}

func NewNumberValue(pos Position, v float64) *Number {
	return &Number{pos: pos, Value: v, valid: true}
}

func (n *Number) Pos() Position { return n.pos }
func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}
func (n *Number) Eval(*EvalContext) (Value, error) { return n.Value, nil }
func (n *Number) validateSelf(diag *Diagnostics) bool {
	if !n.valid {
		diag.addError("failed to convert number to float: %v", n.Value)
		return false
	}
	return true
}

// Constant represents true, false, or null.
type Constant struct {
	pos   Position
	Value Value // bool or nil
}

func NewConstantBool(pos Position, v bool) *Constant { return &Constant{pos: pos, Value: v} }
func NewConstantNull(pos Position) *Constant         { return &Constant{pos: pos, Value: nil} }

func (c *Constant) Pos() Position { return c.pos }
func (c *Constant) String() string {
	if c.Value == nil {
		return "null"
	}
	return fmt.Sprintf("%v", c.Value)
}
func (c *Constant) Eval(*EvalContext) (Value, error) { return c.Value, nil }
func (c *Constant) validateSelf(diag *Diagnostics) bool {
	switch c.Value.(type) {
	case bool:
		return true
	case nil:
		return true
	default:
		diag.addError("invalid constant: %v", c.Value)
		return false
	}
}

// Regex is a regular-expression literal. It precompiles on validation;
// Eval returns the compiled matcher.
type Regex struct {
	pos      Position
	Pattern  string
	compiled *regexp.Regexp
}

func NewRegex(pos Position, pattern string) *Regex {
	return &Regex{pos: pos, Pattern: strings.Trim(pattern, "'\"")}
}

func (r *Regex) Pos() Position  { return r.pos }
func (r *Regex) String() string { return "/" + r.Pattern + "/" }
func (r *Regex) Eval(*EvalContext) (Value, error) {
	return r.compiled, nil
}
func (r *Regex) validateSelf(diag *Diagnostics) bool {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		diag.addError("regex compilation failed: %v", err)
		diag.Regex[r.Pattern] = err.Error()
		return false
	}
	r.compiled = re
	return true
}

// UndefinedNode is the `undefined` keyword literal; it evaluates to the
// Undefined sentinel value.
type UndefinedNode struct{ pos Position }

func NewUndefinedNode(pos Position) *UndefinedNode { return &UndefinedNode{pos: pos} }
func (n *UndefinedNode) Pos() Position              { return n.pos }
func (n *UndefinedNode) String() string             { return "undefined" }
func (n *UndefinedNode) Eval(*EvalContext) (Value, error) {
	return Undefined{}, nil
}
func (n *UndefinedNode) validateSelf(*Diagnostics) bool { return true }

// EmptyNode is the `empty` keyword literal; it evaluates to the Empty
// sentinel value (the null set).
type EmptyNode struct{ pos Position }

func NewEmptyNode(pos Position) *EmptyNode { return &EmptyNode{pos: pos} }
func (n *EmptyNode) Pos() Position           { return n.pos }
func (n *EmptyNode) String() string          { return "empty" }
func (n *EmptyNode) Eval(*EvalContext) (Value, error) {
	return Empty{}, nil
}
func (n *EmptyNode) validateSelf(*Diagnostics) bool { return true }

// LiteralSet is a `{a b c}` set literal: a frozen set of literal/number/
// constant element nodes that may be statically resolved to a concrete
// ValueSet. Unlike the other leaves, LiteralSet is mutable: the
// contains-rewriter shrinks a copy's Values in place, so
// DeepCopy never shares a LiteralSet the way it shares other leaves.
type LiteralSet struct {
	pos      Position
	Elements []Node
	Static   bool
	Values   ValueSet
}

func NewLiteralSet(pos Position, elements []Node) *LiteralSet {
	return &LiteralSet{pos: pos, Elements: elements}
}

func (s *LiteralSet) Pos() Position { return s.pos }
func (s *LiteralSet) String() string {
	parts := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (s *LiteralSet) Eval(ctx *EvalContext) (Value, error) {
	if s.Static {
		return s.Values, nil
	}
	vals := make([]interface{}, 0, len(s.Elements))
	for _, e := range s.Elements {
		v, err := e.Eval(ctx)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return NewValueSet(vals...), nil
}

func (s *LiteralSet) validateSelf(*Diagnostics) bool { return true }

// Clone returns a LiteralSet with its own Values set, sharing the
// (immutable) element nodes.
func (s *LiteralSet) Clone() *LiteralSet {
	return &LiteralSet{
		pos:      s.pos,
		Elements: s.Elements,
		Static:   s.Static,
		Values:   s.Values.Clone(),
	}
}
