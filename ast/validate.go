package ast

// Validate walks n post-order, calling each node's validateSelf and
// collecting every failure into diag. It returns true iff the whole tree
// is valid. Branch's Expr is not reachable via Left/Right, so it is walked
// explicitly.
func Validate(n Node, diag *Diagnostics) bool {
	if n == nil {
		return true
	}
	ok := true
	if b, isBranch := n.(*Branch); isBranch {
		if !Validate(b.Expr, diag) {
			ok = false
		}
	}
	if left, has := Left(n); has {
		if !Validate(left, diag) {
			ok = false
		}
	}
	if right, has := Right(n); has {
		if !Validate(right, diag) {
			ok = false
		}
	}
	type selfValidator interface {
		validateSelf(*Diagnostics) bool
	}
	if sv, has := n.(selfValidator); has {
		if !sv.validateSelf(diag) {
			ok = false
		}
	}
	return ok
}
