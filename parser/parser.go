// Package parser builds an ast.Node from predicate source text, following
// the grammar: `expression := expression ("and"|"or") expression |
// "not" expression | term`; `term := factor (cmp|"contains"|"matches")
// factor | factor "is" "not" factor | factor`; `factor := identifier |
// number | constant | "(" expression ")" | "{" factor* "}"`. and/or are
// right-associative, not binds tighter than and/or.
//
// Grounded structurally on EliasDB's eql/parser.go
// Pratt-style binding-power loop (run/next, null/left denotation), adapted
// from its generic ASTNode-with-children shape to build this package's
// concrete ast.Node variants directly, since the grammar here is small and
// fixed rather than driven by a runtime token table.
package parser

import (
	"fmt"

	"github.com/armon/go-pypred/ast"
	"github.com/armon/go-pypred/lexer"
)

// Result bundles the parsed tree with any errors collected along the way.
// A non-nil Tree only appears when Errors is empty: end-of-input and
// unexpected-token errors are fatal to AST production.
type Result struct {
	Tree   ast.Node
	Errors []string
}

// Parse lexes and parses source, returning the AST or the errors that
// prevented one from being built.
func Parse(source string) Result {
	toks := lexer.Lex(source)
	p := &parser{toks: toks}
	tree, err := p.parseExpression(0)
	if err != nil {
		return Result{Errors: append(p.errs, err.Error())}
	}
	if len(p.errs) > 0 {
		return Result{Errors: p.errs}
	}
	if p.cur().Kind != lexer.TokenEOF {
		return Result{Errors: append(p.errs, fmt.Sprintf("unexpected trailing token %s", p.cur()))}
	}
	return Result{Tree: tree}
}

type parser struct {
	toks []lexer.Token
	idx  int
	errs []string
}

func (p *parser) cur() lexer.Token {
	if p.idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.idx]
}

func (p *parser) advance() lexer.Token {
	t := p.cur()
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	return t
}

func pos(t lexer.Token) ast.Position {
	return ast.Position{Line: t.Line, Col: t.Col, Offset: t.Offset}
}

// bindingPower returns the infix binding power of a token's operator role,
// or 0 when the token cannot appear as an infix operator at this
// position. "or" binds loosest, "and" next, "not" is handled as a prefix
// (see parseTerm) and never reaches this table.
func bindingPower(k lexer.TokenKind) int {
	switch k {
	case lexer.TokenOr:
		return 10
	case lexer.TokenAnd:
		return 20
	default:
		return 0
	}
}

// parseExpression implements and/or as right-associative infix operators
// via precedence climbing: passing the operator's own binding power to the
// recursive call on the right (rather than bp+1, as a left-associative
// climb would) lets a chain of same-precedence operators nest to the right.
func (p *parser) parseExpression(minBind int) (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		k := p.cur().Kind
		bp := bindingPower(k)
		if bp == 0 || bp < minBind {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseExpression(bp)
		if err != nil {
			return nil, err
		}
		op := ast.OpAnd
		if opTok.Kind == lexer.TokenOr {
			op = ast.OpOr
		}
		left = ast.NewLogical(pos(opTok), op, left, right)
	}
}

// parseTerm handles "not", and the comparison/contains/matches/"is not"
// family, which never chain (a term compares at most one pair of
// factors), per the `term` production.
func (p *parser) parseTerm() (ast.Node, error) {
	if p.cur().Kind == lexer.TokenNot {
		notTok := p.advance()
		child, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return ast.NewNegate(pos(notTok), child), nil
	}

	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	switch p.cur().Kind {
	case lexer.TokenEq, lexer.TokenEqEq, lexer.TokenIs, lexer.TokenNeq,
		lexer.TokenLt, lexer.TokenLte, lexer.TokenGt, lexer.TokenGte:
		opTok := p.advance()
		op, err := compareOpFor(opTok)
		if err != nil {
			return nil, err
		}
		if opTok.Kind == lexer.TokenIs && p.cur().Kind == lexer.TokenNot {
			p.advance()
			op = ast.OpNeq
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return ast.NewCompare(pos(opTok), op, left, right), nil

	case lexer.TokenContains:
		opTok := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return ast.NewContains(pos(opTok), left, right), nil

	case lexer.TokenMatches:
		opTok := p.advance()
		patTok := p.cur()
		if patTok.Kind != lexer.TokenString {
			return nil, p.errorf(patTok, "matches requires a quoted regular expression, got %s", patTok)
		}
		p.advance()
		right := ast.NewRegex(pos(patTok), patTok.Text)
		return ast.NewMatch(pos(opTok), left, right), nil
	}

	return left, nil
}

func compareOpFor(t lexer.Token) (ast.CompareOp, error) {
	switch t.Kind {
	case lexer.TokenEq, lexer.TokenEqEq:
		return ast.OpEq, nil
	case lexer.TokenIs:
		return ast.OpIs, nil
	case lexer.TokenNeq:
		return ast.OpNeq, nil
	case lexer.TokenLt:
		return ast.OpLt, nil
	case lexer.TokenLte:
		return ast.OpLte, nil
	case lexer.TokenGt:
		return ast.OpGt, nil
	case lexer.TokenGte:
		return ast.OpGte, nil
	default:
		return "", fmt.Errorf("unreachable: %s is not a compare operator token", t)
	}
}

// parseFactor implements the `factor` production: identifiers,
// numbers, true/false/undefined/empty/null, parenthesized sub-expressions
// and `{...}` set literals.
func (p *parser) parseFactor() (ast.Node, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.TokenIdentifier, lexer.TokenString:
		p.advance()
		return ast.NewLiteral(pos(t), t.Text), nil
	case lexer.TokenNumber:
		p.advance()
		return ast.NewNumber(pos(t), t.Text), nil
	case lexer.TokenTrue:
		p.advance()
		return ast.NewConstantBool(pos(t), true), nil
	case lexer.TokenFalse:
		p.advance()
		return ast.NewConstantBool(pos(t), false), nil
	case lexer.TokenNull:
		p.advance()
		return ast.NewConstantNull(pos(t)), nil
	case lexer.TokenUndefined:
		p.advance()
		return ast.NewUndefinedNode(pos(t)), nil
	case lexer.TokenEmpty:
		p.advance()
		return ast.NewEmptyNode(pos(t)), nil
	case lexer.TokenLParen:
		p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if p.cur().Kind != lexer.TokenRParen {
			return nil, p.errorf(p.cur(), "expected ')', got %s", p.cur())
		}
		p.advance()
		return inner, nil
	case lexer.TokenLBrace:
		return p.parseSet(t)
	case lexer.TokenError:
		p.advance()
		return nil, p.errorf(t, "unrecognized character %q", t.Text)
	case lexer.TokenEOF:
		return nil, p.errorf(t, "unexpected end of input")
	default:
		p.advance()
		return nil, p.errorf(t, "unexpected token %s", t)
	}
}

func (p *parser) parseSet(openTok lexer.Token) (ast.Node, error) {
	p.advance() // consume '{'
	var elems []ast.Node
	for p.cur().Kind != lexer.TokenRBrace {
		if p.cur().Kind == lexer.TokenEOF {
			return nil, p.errorf(p.cur(), "unterminated set literal")
		}
		el, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	p.advance() // consume '}'
	return ast.NewLiteralSet(pos(openTok), elems), nil
}

func (p *parser) errorf(t lexer.Token, format string, args ...interface{}) error {
	return fmt.Errorf("%d:%d: %s", t.Line, t.Col, fmt.Sprintf(format, args...))
}
