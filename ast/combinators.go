package ast

import "fmt"

// PushResult wraps one input predicate's root expression inside a merged
// tree. When Child evaluates truthy, Handle is appended to the evaluation
// context's match list; PushResult itself always evaluates to Child's
// truthiness, so it composes under Both/Branch exactly like any other node.
type PushResult struct {
	pos    Position
	Child  Node
	Handle Handle
}

func NewPushResult(pos Position, child Node, handle Handle) *PushResult {
	return &PushResult{pos: pos, Child: child, Handle: handle}
}

func (p *PushResult) Pos() Position  { return p.pos }
func (p *PushResult) String() string { return fmt.Sprintf("push(%v, %s)", p.Handle, p.Child) }
func (p *PushResult) getLeft() Node  { return p.Child }
func (p *PushResult) setLeft(n Node) { p.Child = n }

func (p *PushResult) Eval(ctx *EvalContext) (Value, error) {
	ctx.Reach++
	v, err := p.Child.Eval(ctx)
	if err != nil {
		return nil, err
	}
	result := Truthy(v)
	if result {
		ctx.pushMatch(p.Handle)
	}
	return result, nil
}

func (p *PushResult) validateSelf(*Diagnostics) bool { return true }

// Both evaluates both children unconditionally and returns their logical
// OR, but - unlike Logical - never short-circuits: every PushResult
// reachable from either side must run so every matching input predicate
// gets a chance to append its Handle. This is the merge tree's join node;
// the optimizer must never rewrite it into a short-circuiting Logical
// for that reason.
type Both struct {
	pos         Position
	Left, Right Node
}

func NewBoth(pos Position, left, right Node) *Both { return &Both{pos: pos, Left: left, Right: right} }

func (b *Both) Pos() Position  { return b.pos }
func (b *Both) String() string { return fmt.Sprintf("both(%s, %s)", b.Left, b.Right) }
func (b *Both) getLeft() Node  { return b.Left }
func (b *Both) setLeft(n Node) { b.Left = n }
func (b *Both) getRight() Node { return b.Right }
func (b *Both) setRight(n Node) { b.Right = n }

func (b *Both) Eval(ctx *EvalContext) (Value, error) {
	left, err := b.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return Truthy(left) || Truthy(right), nil
}

func (b *Both) validateSelf(*Diagnostics) bool { return true }

// Branch is the refactorer's decision node: it evaluates Expr once and
// takes TrueChild or FalseChild depending on the result, the shared-pivot
// equivalent of an if/else. Expr is not reachable through Left/Right (it is
// neither branch's child, just the test); TrueChild/FalseChild are exposed
// as Left/Right so the Tiler can still rewrite the two outcome subtrees.
type Branch struct {
	pos                   Position
	Expr                  Node
	Assumed               bool // the truth value Expr is assumed to have down TrueChild
	TrueChild, FalseChild Node
}

func NewBranch(pos Position, expr Node, assumed bool, trueChild, falseChild Node) *Branch {
	return &Branch{pos: pos, Expr: expr, Assumed: assumed, TrueChild: trueChild, FalseChild: falseChild}
}

func (b *Branch) Pos() Position { return b.pos }
func (b *Branch) String() string {
	return fmt.Sprintf("branch(%s ? %s : %s)", b.Expr, b.TrueChild, b.FalseChild)
}
func (b *Branch) getLeft() Node  { return b.TrueChild }
func (b *Branch) setLeft(n Node) { b.TrueChild = n }
func (b *Branch) getRight() Node { return b.FalseChild }
func (b *Branch) setRight(n Node) { b.FalseChild = n }

func (b *Branch) Eval(ctx *EvalContext) (Value, error) {
	v, err := b.Expr.Eval(ctx)
	if err != nil {
		return nil, err
	}
	// A missing branch child is false (the refactorer may prune one side
	// away entirely).
	if Truthy(v) {
		if b.TrueChild == nil {
			return false, nil
		}
		return b.TrueChild.Eval(ctx)
	}
	if b.FalseChild == nil {
		return false, nil
	}
	return b.FalseChild.Eval(ctx)
}

func (b *Branch) validateSelf(*Diagnostics) bool { return true }

// CachedNode memoizes Child's evaluation within a single EvalContext,
// keyed by a structural hash computed once at compaction time (package
// compact). Identical subtrees that the CSE pass detected share one
// CachedNode instance; re-evaluating the same id within one EvalContext
// short-circuits to the stored value instead of recomputing.
type CachedNode struct {
	pos   Position
	Child Node
	ID    uint64
}

func NewCachedNode(pos Position, child Node, id uint64) *CachedNode {
	return &CachedNode{pos: pos, Child: child, ID: id}
}

func (c *CachedNode) Pos() Position  { return c.pos }
func (c *CachedNode) String() string { return fmt.Sprintf("cached(#%d, %s)", c.ID, c.Child) }
func (c *CachedNode) getLeft() Node  { return c.Child }
func (c *CachedNode) setLeft(n Node) { c.Child = n }

func (c *CachedNode) Eval(ctx *EvalContext) (Value, error) {
	if v, ok := ctx.cachedValue(c.ID); ok {
		ctx.CacheHits++
		return v, nil
	}
	v, err := c.Child.Eval(ctx)
	if err != nil {
		return nil, err
	}
	ctx.storeCache(c.ID, v)
	return v, nil
}

func (c *CachedNode) validateSelf(*Diagnostics) bool { return true }
