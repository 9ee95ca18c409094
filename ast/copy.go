package ast

// DeepCopy clones n and every descendant, except immutable leaves (Literal,
// Number, Constant, Regex, UndefinedNode, EmptyNode), which carry no
// mutable state and are safe to alias across branch duplicates produced by
// the refactorer. LiteralSet is the one leaf that IS copied, via its own
// Clone, because the contains-rewriter shrinks a copy's Values in place.
func DeepCopy(n Node) Node {
	if n == nil {
		return nil
	}
	switch t := n.(type) {
	case *Literal, *Number, *Constant, *Regex, *UndefinedNode, *EmptyNode:
		return n
	case *LiteralSet:
		return t.Clone()
	case *Negate:
		return &Negate{pos: t.pos, Child: DeepCopy(t.Child)}
	case *Compare:
		return &Compare{pos: t.pos, Op: t.Op, Left: DeepCopy(t.Left), Right: DeepCopy(t.Right)}
	case *Logical:
		return &Logical{pos: t.pos, Op: t.Op, Left: DeepCopy(t.Left), Right: DeepCopy(t.Right)}
	case *Contains:
		return &Contains{pos: t.pos, Left: DeepCopy(t.Left), Right: DeepCopy(t.Right)}
	case *Match:
		return &Match{pos: t.pos, Left: DeepCopy(t.Left), Right: DeepCopy(t.Right)}
	case *PushResult:
		return &PushResult{pos: t.pos, Child: DeepCopy(t.Child), Handle: t.Handle}
	case *Both:
		return &Both{pos: t.pos, Left: DeepCopy(t.Left), Right: DeepCopy(t.Right)}
	case *Branch:
		return &Branch{
			pos:        t.pos,
			Expr:       DeepCopy(t.Expr),
			Assumed:    t.Assumed,
			TrueChild:  DeepCopy(t.TrueChild),
			FalseChild: DeepCopy(t.FalseChild),
		}
	case *CachedNode:
		return &CachedNode{pos: t.pos, Child: DeepCopy(t.Child), ID: t.ID}
	default:
		return n
	}
}

// StructurallyEqual reports whether a and b are the same shape with the
// same operators/values, used by ASTPattern matching in package tiler. It
// does not compare Position.
func StructurallyEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Name == y.Name && x.Quoted == y.Quoted
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Constant:
		y, ok := b.(*Constant)
		return ok && x.Value == y.Value
	case *Regex:
		y, ok := b.(*Regex)
		return ok && x.Pattern == y.Pattern
	case *UndefinedNode:
		_, ok := b.(*UndefinedNode)
		return ok
	case *EmptyNode:
		_, ok := b.(*EmptyNode)
		return ok
	case *LiteralSet:
		y, ok := b.(*LiteralSet)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !StructurallyEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *Negate:
		y, ok := b.(*Negate)
		return ok && StructurallyEqual(x.Child, y.Child)
	case *Compare:
		y, ok := b.(*Compare)
		return ok && x.Op == y.Op && StructurallyEqual(x.Left, y.Left) && StructurallyEqual(x.Right, y.Right)
	case *Logical:
		y, ok := b.(*Logical)
		return ok && x.Op == y.Op && StructurallyEqual(x.Left, y.Left) && StructurallyEqual(x.Right, y.Right)
	case *Contains:
		y, ok := b.(*Contains)
		return ok && StructurallyEqual(x.Left, y.Left) && StructurallyEqual(x.Right, y.Right)
	case *Match:
		y, ok := b.(*Match)
		return ok && StructurallyEqual(x.Left, y.Left) && StructurallyEqual(x.Right, y.Right)
	case *PushResult:
		y, ok := b.(*PushResult)
		return ok && x.Handle == y.Handle && StructurallyEqual(x.Child, y.Child)
	case *Both:
		y, ok := b.(*Both)
		return ok && StructurallyEqual(x.Left, y.Left) && StructurallyEqual(x.Right, y.Right)
	case *Branch:
		y, ok := b.(*Branch)
		return ok && x.Assumed == y.Assumed &&
			StructurallyEqual(x.Expr, y.Expr) &&
			StructurallyEqual(x.TrueChild, y.TrueChild) &&
			StructurallyEqual(x.FalseChild, y.FalseChild)
	case *CachedNode:
		y, ok := b.(*CachedNode)
		return ok && StructurallyEqual(x.Child, y.Child)
	default:
		return false
	}
}
