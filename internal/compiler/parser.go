/*
Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify it
under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful, but
WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public
License along with this program. If not, see
<http://www.gnu.org/licenses/>.
*/

package compiler

// parser.go - hand-written recursive-descent parser, one function per
// grammar production, following the LL(1) grammar in spec.md §4.2:
//
//   Program          -> (ClassDef | ImplDef | FuncDef)*
//   ClassDef         -> class id Isa { VisMemberDecl* }  ;
//   Isa              -> (isa id (, id)*)?
//   ImplDef          -> implementation id { FuncDef* }
//   FuncDef          -> FuncHead FuncBody
//   FuncHead         -> function id ( FParams ) => ReturnType | constructor ( FParams )
//   FuncBody         -> { (VarDecl | Statement)* }
//   VarDecl          -> id : Type ArraySizes ;
//   Statement        -> FuncCallOrAssign ;
//                      | if ( RelExpr ) then StatBlock else StatBlock ;
//                      | while ( RelExpr ) StatBlock ;
//                      | read ( Variable ) ; | write ( Expr ) ; | return ( Expr ) ;
//   Expr             -> ArithExpr (Relop ArithExpr)?
//   ArithExpr        -> Term (Addop Term)*
//   Term             -> Factor (Multop Factor)*
//   Factor           -> IdOrSelf Factor2 (. id (...))* | intlit | floatlit
//                      | ( ArithExpr ) | not Factor | Sign Factor
//
// Every production returns a bool success flag. Sub-calls are always
// evaluated - never short-circuited - so the parser builds as much of
// the tree and reports as many syntax errors as it can on one pass,
// matching spec.md §7's panic-mode recovery requirement. Recovery points
// use skipErrors(first, follow) exactly as described there.

import (
	"fmt"
	"strconv"
	"strings"
)

// derivationTrace mirrors the original compiler's sentential-form trace:
// a single ordered list of grammar symbols, with each production either
// replacing the symbol at the cursor with its right-hand side
// (insert), replacing it with a matched terminal (acceptToken), or
// dropping it (acceptEpsilon). insert and acceptToken each record one
// line; acceptEpsilon records nothing itself, so its removal first shows
// in the next recorded line.
type derivationTrace struct {
	symbols []string
	index   int
	lines   []string
}

func (d *derivationTrace) insert(line int, syms ...string) {
	next := make([]string, 0, len(d.symbols)+len(syms))
	next = append(next, d.symbols[:d.index]...)
	next = append(next, syms...)
	if d.index < len(d.symbols) {
		next = append(next, d.symbols[d.index+1:]...)
	}
	d.symbols = next
	d.record(line)
}

func (d *derivationTrace) acceptToken(line int, lexeme string) {
	if d.index >= len(d.symbols) {
		d.symbols = append(d.symbols, lexeme)
	} else {
		d.symbols[d.index] = lexeme
	}
	d.index++
	d.record(line)
}

func (d *derivationTrace) acceptEpsilon() {
	if d.index < len(d.symbols) {
		d.symbols = append(d.symbols[:d.index], d.symbols[d.index+1:]...)
	}
}

func (d *derivationTrace) record(line int) {
	d.lines = append(d.lines, fmt.Sprintf("%d: %s", line, strings.Join(d.symbols, " ")))
}

func (d *derivationTrace) String() string {
	return strings.Join(d.lines, "\n") + "\n"
}

// Parser holds one token of lookahead (next) and the one just matched
// (cur), plus the derivation trace and the syntax-error sink.
type Parser struct {
	lex  *Lexer
	cur  Token
	next Token

	deriv derivationTrace
	errs  Diagnostics
}

// Parse runs the parser to completion and returns the Program node, the
// rendered derivation trace (for the .outderivation sink), and the
// syntax diagnostics (for .outsyntaxerrors). The AST is always
// returned, even when HasError() is true: as much of the tree as could
// be recovered is still useful for the .outast sink.
func Parse(lex *Lexer) (*AST, string, *Diagnostics) {
	p := &Parser{lex: lex}
	p.advance()
	dbg("parse: starting at line %d", p.next.Line)
	p.deriv.insert(p.next.Line, "START")
	p.deriv.insert(p.next.Line, "PROGRAM")

	prog := NewNode(TagProgram, p.next.Line)
	p.program(prog)

	p.deriv.acceptEpsilon()
	p.deriv.record(p.next.Line)

	return prog, p.deriv.String(), &p.errs
}

func (p *Parser) advance() {
	p.cur = p.next
	p.next = p.lex.GetToken()
}

func (p *Parser) peek(k Kind) bool { return p.next.Kind == k }

func tokenIn(k Kind, set []Kind) bool {
	for _, s := range set {
		if s == k {
			return true
		}
	}
	return false
}

func (p *Parser) in(set []Kind) bool { return tokenIn(p.next.Kind, set) }

func (p *Parser) match(k Kind) bool {
	if p.peek(k) {
		p.deriv.acceptToken(p.next.Line, p.next.Lexeme)
		p.advance()
		return true
	}
	return false
}

func describeSet(set []Kind) string {
	var names []string
	for _, k := range set {
		if k == KEpsilon {
			continue
		}
		names = append(names, k.String())
	}
	switch len(names) {
	case 0:
		return "epsilon"
	case 1:
		return names[0]
	default:
		return "one of: (" + strings.Join(names, ", ") + ")"
	}
}

func (p *Parser) error(expected string) {
	found := p.next.Lexeme
	if p.next.Kind == KEOF {
		found = "end of input"
	}
	p.errs.Errorf(p.next.Line, "Syntax error: Expected %s but found %s", expected, found)
}

func (p *Parser) expect(k Kind) bool {
	if p.match(k) {
		return true
	}
	p.error(k.String())
	p.deriv.acceptEpsilon()
	p.advance()
	return false
}

// skipErrors implements panic-mode recovery: if the lookahead is
// already in first (or first admits epsilon and lookahead is in
// follow), nothing to recover from. Otherwise it reports one error and
// discards tokens until the lookahead lands in first or follow.
func (p *Parser) skipErrors(first, follow []Kind) bool {
	if p.next.Kind == KEOF {
		return false
	}
	if p.in(first) || (tokenIn(KEpsilon, first) && p.in(follow)) {
		return true
	}
	p.error(describeSet(first))
	for !(p.in(first) || p.in(follow)) {
		dbg("parse: panic-mode discarding %s at line %d", p.next.Lexeme, p.next.Line)
		p.advance()
		if p.next.Kind == KEOF {
			return false
		}
		if tokenIn(KEpsilon, first) && p.in(follow) {
			p.deriv.acceptEpsilon()
			return false
		}
	}
	return true
}

// --- lookahead classifiers -------------------------------------------------

var factorStarters = []Kind{KIntLit, KFloatLit, KId, KSelf, KLParen, KPlus, KMinus, KNot}
var addopSet = []Kind{KPlus, KMinus, KOr}
var relopSet = []Kind{KEq, KNe, KLt, KGt, KLe, KGe}
var multopSet = []Kind{KStar, KSlash, KAnd}
var statementStarters = []Kind{KIf, KWhile, KRead, KWrite, KReturn, KId, KSelf}

func (p *Parser) isFactor() bool    { return p.in(factorStarters) }
func (p *Parser) isAddop() bool     { return p.in(addopSet) }
func (p *Parser) isRelop() bool     { return p.in(relopSet) }
func (p *Parser) isMultop() bool    { return p.in(multopSet) }
func (p *Parser) isStatement() bool { return p.in(statementStarters) }

// --- Program / ClassDef / ImplDef -----------------------------------------

func (p *Parser) program(prog *AST) bool {
	first := []Kind{KClass, KImplementation, KFunction, KConstructor, KEpsilon}
	if !p.skipErrors(first, []Kind{KEOF}) {
		return false
	}
	if p.peek(KClass) || p.peek(KImplementation) || p.peek(KFunction) || p.peek(KConstructor) {
		p.deriv.insert(p.next.Line, "CLASSIMPLFUNC", "PROGRAM")
		ok1 := p.block(prog)
		ok2 := p.program(prog)
		return ok1 && ok2
	}
	if p.peek(KEOF) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

func (p *Parser) block(prog *AST) bool {
	switch {
	case p.peek(KClass):
		p.deriv.insert(p.next.Line, "CLASS")
		c := NewNode(TagClassDef, p.next.Line)
		ok := p.classdef(c)
		prog.Adopt(c)
		return ok
	case p.peek(KImplementation):
		p.deriv.insert(p.next.Line, "IMPLEMENTATION")
		i := NewNode(TagImplDef, p.next.Line)
		ok := p.implementation(i)
		prog.Adopt(i)
		return ok
	case p.peek(KFunction) || p.peek(KConstructor):
		p.deriv.insert(p.next.Line, "FUNCDEF")
		f := NewNode(TagFuncDef, p.next.Line)
		ok := p.funcdef(f)
		prog.Adopt(f)
		return ok
	case p.peek(KEOF):
		p.deriv.acceptEpsilon()
		return true
	default:
		p.error("class, implementation, function, or constructor")
		return false
	}
}

func (p *Parser) classdef(c *AST) bool {
	p.deriv.insert(p.next.Line, "class", "id", "ISA", "{", "VISMEMBERDECL", "}", ";")
	id := NewNode(TagId, p.next.Line)
	isaNode := NewNode(TagIsa, p.next.Line)
	members := NewNode(TagMembers, p.next.Line)

	ok1 := p.expect(KClass)
	ok2 := p.identifier(id)
	ok3 := p.isa(isaNode)
	ok4 := p.expect(KLBrace)
	ok5 := p.vismemberdecl(members)
	ok6 := p.expect(KRBrace)
	ok7 := p.expect(KSemi)
	if ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 {
		c.AdoptAll(id, isaNode, members)
		return true
	}
	return false
}

func (p *Parser) vismemberdecl(members *AST) bool {
	first := []Kind{KPublic, KPrivate, KEpsilon}
	if !p.skipErrors(first, []Kind{KRBrace}) {
		return false
	}
	if p.peek(KPublic) || p.peek(KPrivate) {
		p.deriv.insert(p.next.Line, "VISIBILITY", "MEMBERDECL", "VISMEMBERDECL")
		vismem := NewNode(TagClassMember, p.next.Line)
		v := NewNode(TagVisibility, p.next.Line)
		mem := NewNode(TagClassMember, p.next.Line) // tag reassigned inside memdecl
		vismem.AdoptAll(v, mem)
		members.Adopt(vismem)
		ok1 := p.visibility(v)
		ok2 := p.memdecl(mem)
		ok3 := p.vismemberdecl(members)
		return ok1 && ok2 && ok3
	}
	if p.peek(KRBrace) {
		p.deriv.acceptEpsilon()
		return true
	}
	p.deriv.acceptEpsilon()
	return false
}

func (p *Parser) memdecl(mem *AST) bool {
	if p.peek(KFunction) || p.peek(KConstructor) {
		p.deriv.insert(p.next.Line, "FUNCHEAD", ";")
		ok1 := p.funchead(mem)
		ok2 := p.expect(KSemi)
		return ok1 && ok2
	}
	if p.peek(KAttribute) {
		p.deriv.insert(p.next.Line, "ATTRIBUTE")
		mem.Tag = TagVarDecl
		return p.attributedecl(mem)
	}
	return false
}

func (p *Parser) isa(i *AST) bool {
	first := []Kind{KIsa, KEpsilon}
	if !p.skipErrors(first, []Kind{KLBrace}) {
		return false
	}
	if p.peek(KIsa) {
		p.deriv.insert(p.next.Line, "isa", "id", "REPTISA")
		id := NewNode(TagId, p.next.Line)
		ok1 := p.expect(KIsa)
		ok2 := p.identifier(id)
		i.Adopt(id)
		ok3 := p.reptisa(id)
		return ok1 && ok2 && ok3
	}
	if p.peek(KLBrace) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

func (p *Parser) reptisa(id *AST) bool {
	first := []Kind{KComma, KEpsilon}
	if !p.skipErrors(first, []Kind{KLBrace}) {
		return false
	}
	if p.peek(KComma) {
		p.deriv.insert(p.next.Line, ",", "id", "REPTISA")
		id2 := NewNode(TagId, p.next.Line)
		ok1 := p.expect(KComma)
		ok2 := p.identifier(id2)
		if id.Parent != nil {
			id.Parent.Adopt(id2)
		}
		ok3 := p.reptisa(id2)
		return ok1 && ok2 && ok3
	}
	if p.peek(KLBrace) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

func (p *Parser) implementation(i *AST) bool {
	p.deriv.insert(p.next.Line, "implementation", "id", "{", "IMPLBODY", "}")
	id := NewNode(TagId, p.next.Line)
	body := NewNode(TagImplBody, p.next.Line)

	ok1 := p.expect(KImplementation)
	ok2 := p.identifier(id)
	ok3 := p.expect(KLBrace)
	ok4 := p.implbody(body)
	ok5 := p.expect(KRBrace)
	if ok1 && ok2 && ok3 && ok4 && ok5 {
		i.AdoptAll(id, body)
		return true
	}
	return false
}

func (p *Parser) implbody(body *AST) bool {
	first := []Kind{KFunction, KConstructor, KEpsilon}
	if !p.skipErrors(first, []Kind{KRBrace}) {
		return false
	}
	if p.peek(KFunction) || p.peek(KConstructor) {
		p.deriv.insert(p.next.Line, "FUNCDEF", "IMPLBODY")
		fdef := NewNode(TagFuncDef, p.next.Line)
		body.Adopt(fdef)
		ok1 := p.funcdef(fdef)
		ok2 := p.implbody(body)
		return ok1 && ok2
	}
	if p.peek(KRBrace) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

func (p *Parser) funcdef(fdef *AST) bool {
	if p.peek(KFunction) || p.peek(KConstructor) {
		p.deriv.insert(p.next.Line, "FUNCHEAD", "FUNCBODY")
		head := NewNode(TagFuncHead, p.next.Line)
		body := NewNode(TagFuncBody, p.next.Line)
		ok1 := p.funchead(head)
		ok2 := p.funcbody(body)
		if ok1 && ok2 {
			fdef.AdoptAll(head, body)
			return true
		}
		return false
	}
	p.error("function or constructor")
	return false
}

func (p *Parser) visibility(v *AST) bool {
	if p.match(KPublic) || p.match(KPrivate) {
		v.StrValue = p.cur.Lexeme
		return true
	}
	p.error("visibility")
	return false
}

func (p *Parser) funchead(f *AST) bool {
	if p.peek(KFunction) {
		p.deriv.insert(p.next.Line, "function", "id", "(", "FPARAMS", ")", "=>", "RETURNTYPE")
		f.Tag = TagFuncHead
		id := NewNode(TagId, p.next.Line)
		params := NewNode(TagFParams, p.next.Line)
		rtype := NewNode(TagType, p.next.Line)

		ok1 := p.expect(KFunction)
		ok2 := p.identifier(id)
		ok3 := p.expect(KLParen)
		ok4 := p.fparams(params)
		ok5 := p.expect(KRParen)
		ok6 := p.expect(KArrow)
		ok7 := p.returntype(rtype)
		if ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 {
			f.AdoptAll(id, params, rtype)
			return true
		}
		return false
	}
	if p.peek(KConstructor) {
		p.deriv.insert(p.next.Line, "constructor", "(", "FPARAMS", ")")
		f.Tag = TagConstructor
		params := NewNode(TagFParams, p.next.Line)

		ok1 := p.expect(KConstructor)
		ok2 := p.expect(KLParen)
		ok3 := p.fparams(params)
		ok4 := p.expect(KRParen)
		if ok1 && ok2 && ok3 && ok4 {
			f.Adopt(params)
			return true
		}
		return false
	}
	p.error("function or constructor")
	return false
}

func (p *Parser) funcbody(body *AST) bool {
	p.deriv.insert(p.next.Line, "{", "REPTFUNCBODY", "}")
	ok1 := p.expect(KLBrace)
	ok2 := p.reptfuncbody(body)
	ok3 := p.expect(KRBrace)
	return ok1 && ok2 && ok3
}

func (p *Parser) reptfuncbody(body *AST) bool {
	first := []Kind{KLocal, KId, KSelf, KIf, KWhile, KRead, KWrite, KReturn, KEpsilon}
	if !p.skipErrors(first, []Kind{KRBrace}) {
		return false
	}
	if p.peek(KLocal) || p.isStatement() {
		p.deriv.insert(p.next.Line, "LOCALVARDECLORSTAT", "REPTFUNCBODY")
		declorstat := NewNode(TagStatement, p.next.Line)
		body.Adopt(declorstat)
		ok1 := p.localvardeclorstat(declorstat)
		ok2 := p.reptfuncbody(body)
		return ok1 && ok2
	}
	if p.peek(KRBrace) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

func (p *Parser) localvardeclorstat(declorstat *AST) bool {
	if p.peek(KLocal) {
		p.deriv.insert(p.next.Line, "LOCALVARDECL")
		declorstat.Tag = TagVarDecl
		return p.localvardecl(declorstat)
	}
	if p.isStatement() {
		p.deriv.insert(p.next.Line, "STATEMENT")
		declorstat.Tag = TagStatement
		return p.statement(declorstat)
	}
	p.deriv.acceptEpsilon()
	return false
}

func (p *Parser) attributedecl(attr *AST) bool {
	p.deriv.insert(p.next.Line, "attribute", "VARDECL")
	ok1 := p.expect(KAttribute)
	ok2 := p.vardecl(attr)
	return ok1 && ok2
}

func (p *Parser) localvardecl(decl *AST) bool {
	p.deriv.insert(p.next.Line, "local", "VARDECL")
	ok1 := p.expect(KLocal)
	ok2 := p.vardecl(decl)
	return ok1 && ok2
}

func (p *Parser) vardecl(decl *AST) bool {
	if !p.skipErrors([]Kind{KId}, nil) {
		return false
	}
	p.deriv.insert(p.next.Line, "id", ":", "TYPE", "ARRAYSIZES", ";")
	id := NewNode(TagId, p.next.Line)
	t := NewNode(TagType, p.next.Line)
	as := NewNode(TagArraySizes, p.next.Line)

	ok1 := p.identifier(id)
	ok2 := p.expect(KColon)
	ok3 := p.parseType(t)
	ok4 := p.arraysizes(as)
	ok5 := p.expect(KSemi)
	if ok1 && ok2 && ok3 && ok4 && ok5 {
		decl.AdoptAll(id, t, as)
		return true
	}
	p.deriv.acceptEpsilon()
	return false
}

// --- Statements -------------------------------------------------------

func (p *Parser) statement(s *AST) bool {
	switch {
	case p.peek(KId) || p.peek(KSelf):
		p.deriv.insert(p.next.Line, "FUNCALLORASSIGN", ";")
		f, ok1 := p.funcallorassign()
		ok2 := p.expect(KSemi)
		if ok1 && ok2 {
			s.Adopt(f)
			return true
		}
		return false
	case p.peek(KIf):
		p.deriv.insert(p.next.Line, "if", "(", "RELEXPR", ")", "then", "STATBLOCK", "else", "STATBLOCK", ";")
		r := NewNode(TagRelop, p.next.Line)
		s1 := NewNode(TagStatblock, p.next.Line)
		s2 := NewNode(TagStatblock, p.next.Line)
		ok1 := p.expect(KIf)
		ok2 := p.expect(KLParen)
		ok3 := p.relexpr(r)
		ok4 := p.expect(KRParen)
		ok5 := p.expect(KThen)
		ok6 := p.statblock(s1)
		ok7 := p.expect(KElse)
		ok8 := p.statblock(s2)
		ok9 := p.expect(KSemi)
		if ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 && ok8 && ok9 {
			s.Adopt(NewNode(TagIf, p.next.Line, r, s1, s2))
			return true
		}
		return false
	case p.peek(KWhile):
		p.deriv.insert(p.next.Line, "while", "(", "RELEXPR", ")", "STATBLOCK", ";")
		r := NewNode(TagRelop, p.next.Line)
		sb := NewNode(TagStatblock, p.next.Line)
		ok1 := p.expect(KWhile)
		ok2 := p.expect(KLParen)
		ok3 := p.relexpr(r)
		ok4 := p.expect(KRParen)
		ok5 := p.statblock(sb)
		ok6 := p.expect(KSemi)
		if ok1 && ok2 && ok3 && ok4 && ok5 && ok6 {
			s.Adopt(NewNode(TagWhile, p.next.Line, r, sb))
			return true
		}
		return false
	case p.peek(KRead):
		p.deriv.insert(p.next.Line, "read", "(", "VARIABLE", ")", ";")
		r := NewNode(TagRead, p.next.Line)
		v := NewNode(TagVariable, p.next.Line)
		ok1 := p.expect(KRead)
		ok2 := p.expect(KLParen)
		ok3 := p.variable(v)
		ok4 := p.expect(KRParen)
		ok5 := p.expect(KSemi)
		if ok1 && ok2 && ok3 && ok4 && ok5 {
			r.Adopt(v)
			s.Adopt(r)
			return true
		}
		return false
	case p.peek(KWrite):
		p.deriv.insert(p.next.Line, "write", "(", "EXPR", ")", ";")
		w := NewNode(TagWrite, p.next.Line)
		e := NewNode(TagExpr, p.next.Line)
		ok1 := p.expect(KWrite)
		ok2 := p.expect(KLParen)
		ok3 := p.expr(e)
		ok4 := p.expect(KRParen)
		ok5 := p.expect(KSemi)
		if ok1 && ok2 && ok3 && ok4 && ok5 {
			w.Adopt(e)
			s.Adopt(w)
			return true
		}
		return false
	case p.peek(KReturn):
		p.deriv.insert(p.next.Line, "return", "(", "EXPR", ")", ";")
		r := NewNode(TagReturn, p.next.Line)
		e := NewNode(TagExpr, p.next.Line)
		ok1 := p.expect(KReturn)
		ok2 := p.expect(KLParen)
		ok3 := p.expr(e)
		ok4 := p.expect(KRParen)
		ok5 := p.expect(KSemi)
		if ok1 && ok2 && ok3 && ok4 && ok5 {
			r.Adopt(e)
			s.Adopt(r)
			return true
		}
		return false
	default:
		p.error("statement")
		return false
	}
}

func (p *Parser) funcallorassign() (*AST, bool) {
	if p.peek(KId) || p.peek(KSelf) {
		p.deriv.insert(p.next.Line, "IDORSELF", "FUNCALLORASSIGN2")
		id := NewNode(TagId, p.next.Line)
		ok1 := p.idorself(id)
		f, ok2 := p.funcallorassign2(id)
		return f, ok1 && ok2
	}
	p.error("id or self")
	return nil, false
}

func (p *Parser) funcallorassign2(left *AST) (*AST, bool) {
	if p.peek(KLParen) {
		p.deriv.insert(p.next.Line, "(", "APARAMS", ")", "FUNCALLORASSIGN4")
		f := NewNode(TagFunCall, p.next.Line)
		a := NewNode(TagAParams, p.next.Line)
		f.AdoptAll(left, a)
		ok1 := p.expect(KLParen)
		ok2 := p.aparams(a)
		ok3 := p.expect(KRParen)
		r, ok4 := p.funcallorassign4(f)
		if ok1 && ok2 && ok3 && ok4 {
			return r, true
		}
		return nil, false
	}
	if p.peek(KLBracket) || p.peek(KDot) || p.peek(KAssign) {
		p.deriv.insert(p.next.Line, "INDICES", "FUNCALLORASSIGN3")
		i := NewNode(TagIndices, p.next.Line)
		v := NewNode(TagDataMember, p.next.Line)
		v.AdoptAll(left, i)
		ok1 := p.indices(i)
		r, ok2 := p.funcallorassign3(v)
		if ok1 && ok2 {
			return r, true
		}
		return nil, false
	}
	p.error("'(', '[', '.', or ':='")
	return nil, false
}

func (p *Parser) funcallorassign3(left *AST) (*AST, bool) {
	if p.peek(KAssign) {
		p.deriv.insert(p.next.Line, ":=", "EXPR")
		a := NewNode(TagAssign, p.next.Line)
		e := NewNode(TagExpr, p.next.Line)
		a.AdoptAll(left, e)
		ok1 := p.expect(KAssign)
		ok2 := p.expr(e)
		if ok1 && ok2 {
			return a, true
		}
		return nil, false
	}
	if p.peek(KDot) {
		p.deriv.insert(p.next.Line, ".", "id", "FUNCALLORASSIGN2")
		d := NewNode(TagDot, p.next.Line)
		id := NewNode(TagId, p.next.Line)
		d.AdoptAll(left, id)
		ok1 := p.expect(KDot)
		ok2 := p.identifier(id)
		r, ok3 := p.funcallorassign2(d)
		return r, ok1 && ok2 && ok3
	}
	p.error("':=' or '.'")
	return nil, false
}

func (p *Parser) funcallorassign4(left *AST) (*AST, bool) {
	if !p.skipErrors([]Kind{KDot, KEpsilon}, []Kind{KSemi}) {
		return nil, false
	}
	if p.peek(KDot) {
		p.deriv.insert(p.next.Line, ".", "id", "FUNCALLORASSIGN2")
		d := NewNode(TagDot, p.next.Line)
		id := NewNode(TagId, p.next.Line)
		d.AdoptAll(left, id)
		ok1 := p.expect(KDot)
		ok2 := p.identifier(id)
		r, ok3 := p.funcallorassign2(d)
		if ok1 && ok2 && ok3 {
			return r, true
		}
		return nil, false
	}
	if p.peek(KSemi) {
		p.deriv.acceptEpsilon()
		return left, true
	}
	p.error("'.' or ';'")
	return nil, false
}

func (p *Parser) statblock(sb *AST) bool {
	first := []Kind{KLBrace, KIf, KWhile, KRead, KWrite, KReturn, KId, KSelf, KEpsilon}
	if !p.skipErrors(first, []Kind{KElse, KSemi}) {
		return false
	}
	if p.peek(KLBrace) {
		p.deriv.insert(p.next.Line, "{", "STATEMENTS", "}")
		stmts := NewNode(TagStatements, p.next.Line)
		ok1 := p.expect(KLBrace)
		ok2 := p.statements(stmts)
		ok3 := p.expect(KRBrace)
		if ok1 && ok2 && ok3 {
			sb.Adopt(stmts)
			return true
		}
		return false
	}
	if p.isStatement() {
		p.deriv.insert(p.next.Line, "STATEMENT")
		s := NewNode(TagStatement, p.next.Line)
		if p.statement(s) {
			sb.Adopt(s)
			return true
		}
		return false
	}
	if p.peek(KElse) || p.peek(KSemi) {
		p.deriv.acceptEpsilon()
		return true
	}
	p.error("'{' or statement")
	return false
}

func (p *Parser) statements(stmts *AST) bool {
	first := []Kind{KIf, KWhile, KRead, KWrite, KReturn, KId, KSelf, KEpsilon}
	if !p.skipErrors(first, []Kind{KRBrace}) {
		return false
	}
	if p.isStatement() {
		p.deriv.insert(p.next.Line, "STATEMENT", "STATEMENTS")
		s := NewNode(TagStatement, p.next.Line)
		stmts.Adopt(s)
		ok1 := p.statement(s)
		ok2 := p.statements(stmts)
		return ok1 && ok2
	}
	if p.peek(KRBrace) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

// --- Expressions --------------------------------------------------------

func (p *Parser) expr(e *AST) bool {
	p.deriv.insert(p.next.Line, "ARITHEXPR", "EXPRTAIL")
	a, ok1 := p.arithexpr()
	right, ok2 := p.exprtail(a)
	if ok1 && ok2 {
		e.Adopt(right)
		return true
	}
	return false
}

func (p *Parser) exprtail(left *AST) (*AST, bool) {
	follow := []Kind{KRParen, KSemi, KComma}
	first := []Kind{KEq, KNe, KLt, KGt, KLe, KGe, KEpsilon}
	if !p.skipErrors(first, follow) {
		return nil, false
	}
	if p.isRelop() {
		p.deriv.insert(p.next.Line, "RELOP", "ARITHEXPR")
		r := NewNode(TagRelop, p.next.Line)
		ok1 := p.relop(r)
		a, ok2 := p.arithexpr()
		if ok1 && ok2 {
			r.AdoptAll(left, a)
			return r, true
		}
		return nil, false
	}
	if p.in(follow) {
		p.deriv.acceptEpsilon()
		return left, true
	}
	p.error("relop, ')', ';', or ','")
	return nil, false
}

func (p *Parser) relexpr(rel *AST) bool {
	p.deriv.insert(p.next.Line, "ARITHEXPR", "RELOP", "ARITHEXPR")
	a1, ok1 := p.arithexpr()
	ok2 := p.relop(rel)
	a2, ok3 := p.arithexpr()
	if ok1 && ok2 && ok3 {
		rel.AdoptAll(a1, a2)
		return true
	}
	return false
}

func (p *Parser) arithexpr() (*AST, bool) {
	p.deriv.insert(p.next.Line, "TERM", "RIGHTRECARITHEXPR")
	t, ok1 := p.term()
	r, ok2 := p.rightrecarithexpr(t)
	return r, ok1 && ok2
}

func (p *Parser) rightrecarithexpr(left *AST) (*AST, bool) {
	follow := []Kind{KRParen, KSemi, KComma, KEq, KGt, KGe, KLt, KLe, KNe, KRBracket}
	first := []Kind{KPlus, KMinus, KOr, KEpsilon}
	if !p.skipErrors(first, follow) {
		return nil, false
	}
	if p.isAddop() {
		p.deriv.insert(p.next.Line, "ADDOP", "TERM", "RIGHTRECARITHEXPR")
		a := NewNode(TagAddOp, p.next.Line)
		ok1 := p.addop(a)
		t, ok2 := p.term()
		a.AdoptAll(left, t)
		r, ok3 := p.rightrecarithexpr(a)
		if ok1 && ok2 && ok3 {
			return r, true
		}
		return nil, false
	}
	if p.in(follow) {
		p.deriv.acceptEpsilon()
		return left, true
	}
	p.error("addop, ')', ';', ',', '==', '<>', '<', '>', '<=', '>=', or ']'")
	return nil, false
}

func (p *Parser) sign(s *AST) bool {
	if p.match(KPlus) || p.match(KMinus) {
		s.StrValue = p.cur.Lexeme
		return true
	}
	p.error("sign")
	return false
}

func (p *Parser) term() (*AST, bool) {
	p.deriv.insert(p.next.Line, "FACTOR", "RIGHTRECTERM")
	f, ok1 := p.factor()
	r, ok2 := p.rightrecterm(f)
	return r, ok1 && ok2
}

func (p *Parser) rightrecterm(left *AST) (*AST, bool) {
	follow := []Kind{KRParen, KSemi, KComma, KEq, KGt, KGe, KLt, KLe, KNe, KRBracket, KMinus, KPlus, KOr}
	first := []Kind{KStar, KSlash, KAnd, KEpsilon}
	if !p.skipErrors(first, follow) {
		return nil, false
	}
	if p.isMultop() {
		p.deriv.insert(p.next.Line, "MULTOP", "FACTOR", "RIGHTRECTERM")
		m := NewNode(TagMultOp, p.next.Line)
		ok1 := p.multop(m)
		f, ok2 := p.factor()
		m.AdoptAll(left, f)
		r, ok3 := p.rightrecterm(m)
		if ok1 && ok2 && ok3 {
			return r, true
		}
		return nil, false
	}
	if p.in(follow) {
		p.deriv.acceptEpsilon()
		return left, true
	}
	p.error("multop, ')', ';', ',', '==', '>', '>=', '<', '<=', '<>', ']', '+', '-', or 'or'")
	return nil, false
}

func (p *Parser) factor() (*AST, bool) {
	switch {
	case p.peek(KIntLit):
		p.deriv.insert(p.next.Line, "intlit")
		il := NewNode(TagIntLit, p.next.Line)
		if p.intlit(il) {
			return il, true
		}
		return nil, false
	case p.peek(KFloatLit):
		p.deriv.insert(p.next.Line, "floatlit")
		fl := NewNode(TagFloatLit, p.next.Line)
		if p.floatlit(fl) {
			return fl, true
		}
		return nil, false
	case p.peek(KLParen):
		p.deriv.insert(p.next.Line, "(", "ARITHEXPR", ")")
		ok1 := p.expect(KLParen)
		a, ok2 := p.arithexpr()
		ok3 := p.expect(KRParen)
		if ok1 && ok2 && ok3 {
			return a, true
		}
		return nil, false
	case p.peek(KPlus) || p.peek(KMinus):
		p.deriv.insert(p.next.Line, "SIGN", "FACTOR")
		s := NewNode(TagSign, p.next.Line)
		ok1 := p.sign(s)
		f2, ok2 := p.factor()
		if ok1 && ok2 {
			s.Adopt(f2)
			return s, true
		}
		return nil, false
	case p.peek(KNot):
		p.deriv.insert(p.next.Line, "not", "FACTOR")
		n := NewNode(TagNot, p.next.Line)
		ok1 := p.expect(KNot)
		f2, ok2 := p.factor()
		if ok1 && ok2 {
			n.Adopt(f2)
			return n, true
		}
		return nil, false
	case p.peek(KId) || p.peek(KSelf):
		p.deriv.insert(p.next.Line, "IDORSELF", "FACTOR2", "REPTIDNEST")
		id := NewNode(TagId, p.next.Line)
		ok1 := p.idorself(id)
		result, ok2 := p.factor2(id)
		result2, ok3 := p.reptidnest(result)
		if ok1 && ok2 && ok3 {
			return result2, true
		}
		return nil, false
	default:
		p.error("intlit, floatlit, '(', '+', '-', 'not', id, or self")
		return nil, false
	}
}

func (p *Parser) factor2(left *AST) (*AST, bool) {
	follow := []Kind{KRParen, KSemi, KComma, KEq, KGt, KGe, KLt, KLe, KNe, KRBracket, KPlus, KMinus, KOr, KStar, KSlash, KAnd, KDot}
	first := []Kind{KLParen, KLBracket, KEpsilon}
	if !p.skipErrors(first, follow) {
		return nil, false
	}
	if p.peek(KLParen) {
		p.deriv.insert(p.next.Line, "(", "APARAMS", ")")
		f := NewNode(TagFunCall, p.next.Line)
		a := NewNode(TagAParams, p.next.Line)
		ok1 := p.expect(KLParen)
		ok2 := p.aparams(a)
		ok3 := p.expect(KRParen)
		if ok1 && ok2 && ok3 {
			f.AdoptAll(left, a)
			return f, true
		}
		return nil, false
	}
	p.deriv.insert(p.next.Line, "INDICES")
	d := NewNode(TagDataMember, p.next.Line)
	i := NewNode(TagIndices, p.next.Line)
	d.AdoptAll(left, i)
	if p.indices(i) {
		return d, true
	}
	return nil, false
}

func (p *Parser) indices(i *AST) bool {
	follow := []Kind{KDot, KAssign, KRParen, KSemi, KComma, KEq, KGt, KGe, KLt, KLe, KNe, KRBracket, KPlus, KMinus, KOr, KStar, KSlash, KAnd}
	if !p.skipErrors([]Kind{KLBracket, KEpsilon}, follow) {
		return false
	}
	if p.peek(KLBracket) {
		p.deriv.insert(p.next.Line, "INDICE", "INDICES")
		ind, ok1 := p.indice()
		i.Adopt(ind)
		ok2 := p.indices(i)
		return ok1 && ok2
	}
	if p.in(follow) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

func (p *Parser) indice() (*AST, bool) {
	p.deriv.insert(p.next.Line, "[", "ARITHEXPR", "]")
	line := p.next.Line
	ok1 := p.expect(KLBracket)
	a, ok2 := p.arithexpr()
	ok3 := p.expect(KRBracket)
	node := NewNode(TagIndice, line, a)
	return node, ok1 && ok2 && ok3
}

func (p *Parser) reptidnest(left *AST) (*AST, bool) {
	follow := []Kind{KRParen, KSemi, KComma, KEq, KGt, KGe, KLt, KLe, KNe, KRBracket, KPlus, KMinus, KOr, KStar, KSlash, KAnd}
	if !p.skipErrors([]Kind{KDot, KEpsilon}, follow) {
		return nil, false
	}
	if p.peek(KDot) {
		p.deriv.insert(p.next.Line, "IDNEST", "REPTIDNEST")
		right, ok1 := p.idnest(left)
		result, ok2 := p.reptidnest(right)
		return result, ok1 && ok2
	}
	if p.in(follow) {
		p.deriv.acceptEpsilon()
		return left, true
	}
	return nil, false
}

func (p *Parser) idnest(left *AST) (*AST, bool) {
	p.deriv.insert(p.next.Line, ".", "id", "IDNESTTAIL")
	d := NewNode(TagDot, p.next.Line)
	id := NewNode(TagId, p.next.Line)
	d.AdoptAll(left, id)
	ok1 := p.expect(KDot)
	ok2 := p.identifier(id)
	r, ok3 := p.idnesttail(d)
	if ok1 && ok2 && ok3 {
		return r, true
	}
	return nil, false
}

func (p *Parser) idnesttail(left *AST) (*AST, bool) {
	follow := []Kind{KDot, KRParen, KSemi, KComma, KEq, KGt, KGe, KLt, KLe, KNe, KRBracket, KPlus, KMinus, KOr, KStar, KSlash, KAnd}
	if !p.skipErrors([]Kind{KLParen, KLBracket, KEpsilon}, follow) {
		return nil, false
	}
	if p.peek(KLParen) {
		p.deriv.insert(p.next.Line, "(", "APARAMS", ")")
		f := NewNode(TagFunCall, p.next.Line)
		a := NewNode(TagAParams, p.next.Line)
		ok1 := p.expect(KLParen)
		ok2 := p.aparams(a)
		ok3 := p.expect(KRParen)
		if ok1 && ok2 && ok3 {
			f.AdoptAll(left, a)
			return f, true
		}
		return nil, false
	}
	p.deriv.insert(p.next.Line, "INDICES")
	d := NewNode(TagDataMember, p.next.Line)
	i := NewNode(TagIndices, p.next.Line)
	if p.indices(i) {
		d.AdoptAll(left, i)
		return d, true
	}
	return nil, false
}

// --- Variable (read-target / l-value) ------------------------------------

func (p *Parser) variable(v *AST) bool {
	p.deriv.insert(p.next.Line, "IDORSELF", "VARIABLE2")
	id := NewNode(TagId, p.next.Line)
	ok1 := p.idorself(id)
	result, ok2 := p.variable2(id)
	if ok1 && ok2 {
		v.Adopt(result)
		return true
	}
	return false
}

func (p *Parser) variable2(left *AST) (*AST, bool) {
	if !p.skipErrors([]Kind{KLParen, KLBracket, KDot, KEpsilon}, []Kind{KRParen}) {
		return nil, false
	}
	if p.peek(KLParen) {
		p.deriv.insert(p.next.Line, "(", "APARAMS", ")", "VARIDNEST")
		f := NewNode(TagFunCall, p.next.Line)
		a := NewNode(TagAParams, p.next.Line)
		f.AdoptAll(left, a)
		ok1 := p.expect(KLParen)
		ok2 := p.aparams(a)
		ok3 := p.expect(KRParen)
		result, ok4 := p.varidnest(f)
		if ok1 && ok2 && ok3 && ok4 {
			return result, true
		}
		return nil, false
	}
	if p.peek(KLBracket) || p.peek(KDot) {
		p.deriv.insert(p.next.Line, "INDICES", "REPTVARIABLE")
		d := NewNode(TagDataMember, p.next.Line)
		i := NewNode(TagIndices, p.next.Line)
		d.AdoptAll(left, i)
		ok1 := p.indices(i)
		result, ok2 := p.reptvariable(d)
		if ok1 && ok2 {
			return result, true
		}
		return nil, false
	}
	if p.peek(KRParen) {
		d := NewNode(TagDataMember, p.next.Line)
		i := NewNode(TagIndices, p.next.Line)
		d.AdoptAll(left, i)
		p.deriv.acceptEpsilon()
		return d, true
	}
	p.error("'(' or '['")
	return nil, false
}

func (p *Parser) reptvariable(left *AST) (*AST, bool) {
	if !p.skipErrors([]Kind{KDot, KEpsilon}, []Kind{KRParen}) {
		return nil, false
	}
	if p.peek(KDot) {
		p.deriv.insert(p.next.Line, "VARIDNEST", "REPTVARIABLE")
		result, ok1 := p.varidnest(left)
		final, ok2 := p.reptvariable(result)
		return final, ok1 && ok2
	}
	if p.peek(KRParen) {
		p.deriv.acceptEpsilon()
		return left, true
	}
	return nil, false
}

func (p *Parser) varidnest(left *AST) (*AST, bool) {
	if !p.peek(KDot) {
		p.error(".")
		return nil, false
	}
	p.deriv.insert(p.next.Line, ".", "id", "VARIDNESTTAIL")
	d := NewNode(TagDot, p.next.Line)
	id := NewNode(TagId, p.next.Line)
	d.AdoptAll(left, id)
	ok1 := p.expect(KDot)
	ok2 := p.identifier(id)
	r, ok3 := p.varidnesttail(d)
	if ok1 && ok2 && ok3 {
		return r, true
	}
	return nil, false
}

func (p *Parser) varidnesttail(left *AST) (*AST, bool) {
	if !p.skipErrors([]Kind{KLParen, KLBracket, KEpsilon}, []Kind{KRParen, KDot}) {
		return nil, false
	}
	if p.peek(KLParen) {
		p.deriv.insert(p.next.Line, "(", "APARAMS", ")", "VARIDNEST")
		f := NewNode(TagFunCall, p.next.Line)
		a := NewNode(TagAParams, p.next.Line)
		f.AdoptAll(left, a)
		ok1 := p.expect(KLParen)
		ok2 := p.aparams(a)
		ok3 := p.expect(KRParen)
		r, ok4 := p.varidnest(f)
		if ok1 && ok2 && ok3 && ok4 {
			return r, true
		}
		return nil, false
	}
	p.deriv.insert(p.next.Line, "INDICES")
	d := NewNode(TagDataMember, p.next.Line)
	i := NewNode(TagIndices, p.next.Line)
	d.AdoptAll(left, i)
	if p.indices(i) {
		return d, true
	}
	return nil, false
}

// --- Array sizes / types --------------------------------------------------

func (p *Parser) arraysize(size *AST) bool {
	p.deriv.insert(p.next.Line, "[", "ARRAYSIZETAIL")
	ok1 := p.expect(KLBracket)
	ok2 := p.arraysizetail(size)
	return ok1 && ok2
}

func (p *Parser) arraysizetail(size *AST) bool {
	if p.peek(KIntLit) {
		p.deriv.insert(p.next.Line, "intlit", "]")
		i := NewNode(TagIntLit, p.next.Line)
		ok1 := p.intlit(i)
		ok2 := p.expect(KRBracket)
		if ok1 && ok2 {
			size.Adopt(i)
			return true
		}
		return false
	}
	if p.peek(KRBracket) {
		p.deriv.insert(p.next.Line, "]")
		return p.expect(KRBracket)
	}
	p.error("intlit or ']'")
	return false
}

func (p *Parser) arraysizes(as *AST) bool {
	follow := []Kind{KSemi, KRParen, KComma}
	if !p.skipErrors([]Kind{KLBracket, KEpsilon}, follow) {
		return false
	}
	if p.peek(KLBracket) {
		p.deriv.insert(p.next.Line, "ARRAYSIZE", "ARRAYSIZES")
		size := NewNode(TagArraySize, p.next.Line)
		ok1 := p.arraysize(size)
		if ok1 {
			as.Adopt(size)
		}
		ok2 := p.arraysizes(as)
		return ok1 && ok2
	}
	if p.in(follow) {
		p.deriv.acceptEpsilon()
		return true
	}
	p.deriv.acceptEpsilon()
	return false
}

func (p *Parser) parseType(t *AST) bool {
	if p.match(KId) || p.match(KInt) || p.match(KFloat) {
		t.StrValue = p.cur.Lexeme
		return true
	}
	p.error("type")
	return false
}

func (p *Parser) returntype(t *AST) bool {
	if p.match(KVoid) {
		t.StrValue = p.cur.Lexeme
		return true
	}
	return p.parseType(t)
}

// --- Parameter lists -------------------------------------------------------

func (p *Parser) aparams(params *AST) bool {
	if !p.skipErrors([]Kind{KIntLit, KFloatLit, KId, KLParen, KPlus, KMinus, KNot, KSelf, KEpsilon}, []Kind{KRParen}) {
		return false
	}
	if p.isFactor() {
		p.deriv.insert(p.next.Line, "EXPR", "REPTAPARAMS")
		e := NewNode(TagExpr, p.next.Line)
		params.Adopt(e)
		ok1 := p.expr(e)
		ok2 := p.reptaparams(params)
		return ok1 && ok2
	}
	if p.peek(KRParen) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

func (p *Parser) reptaparams(params *AST) bool {
	if !p.skipErrors([]Kind{KComma, KEpsilon}, []Kind{KRParen}) {
		return false
	}
	if p.peek(KComma) {
		p.deriv.insert(p.next.Line, "APARAMSTAIL", "REPTAPARAMS")
		e := NewNode(TagExpr, p.next.Line)
		params.Adopt(e)
		ok1 := p.aparamstail(e)
		ok2 := p.reptaparams(params)
		return ok1 && ok2
	}
	if p.peek(KRParen) {
		p.deriv.acceptEpsilon()
		return true
	}
	return false
}

func (p *Parser) aparamstail(e *AST) bool {
	p.deriv.insert(p.next.Line, ",", "EXPR")
	ok1 := p.expect(KComma)
	ok2 := p.expr(e)
	return ok1 && ok2
}

func (p *Parser) fparams(fp *AST) bool {
	if !p.skipErrors([]Kind{KId, KEpsilon}, []Kind{KRParen}) {
		return false
	}
	if p.peek(KId) {
		param := NewNode(TagFParam, p.next.Line)
		id := NewNode(TagId, p.next.Line)
		t := NewNode(TagType, p.next.Line)
		as := NewNode(TagArraySizes, p.next.Line)

		p.deriv.insert(p.next.Line, "id", ":", "TYPE", "ARRAYSIZES", "REPTFPARAMS")
		fp.Adopt(param)
		ok1 := p.identifier(id)
		ok2 := p.expect(KColon)
		ok3 := p.parseType(t)
		ok4 := p.arraysizes(as)
		ok5 := p.reptfparams(fp)
		if ok1 && ok2 && ok3 && ok4 && ok5 {
			param.AdoptAll(id, t, as)
			return true
		}
		return false
	}
	if p.peek(KRParen) {
		p.deriv.acceptEpsilon()
		return true
	}
	p.deriv.acceptEpsilon()
	return false
}

func (p *Parser) reptfparams(fp *AST) bool {
	if !p.skipErrors([]Kind{KComma, KEpsilon}, []Kind{KRParen}) {
		return false
	}
	if p.peek(KComma) {
		p.deriv.insert(p.next.Line, ",", "id", ":", "TYPE", "ARRAYSIZES", "REPTFPARAMS")
		param := NewNode(TagFParam, p.next.Line)
		id := NewNode(TagId, p.next.Line)
		t := NewNode(TagType, p.next.Line)
		as := NewNode(TagArraySizes, p.next.Line)
		fp.Adopt(param)
		ok1 := p.expect(KComma)
		ok2 := p.identifier(id)
		ok3 := p.expect(KColon)
		ok4 := p.parseType(t)
		ok5 := p.arraysizes(as)
		ok6 := p.reptfparams(fp)
		if ok1 && ok2 && ok3 && ok4 && ok5 && ok6 {
			param.AdoptAll(id, t, as)
			return true
		}
		return false
	}
	if p.peek(KRParen) {
		p.deriv.acceptEpsilon()
		return true
	}
	p.deriv.acceptEpsilon()
	return false
}

// --- Operators and leaves --------------------------------------------------

func (p *Parser) relop(r *AST) bool {
	if p.match(KEq) || p.match(KNe) || p.match(KLt) || p.match(KGt) || p.match(KLe) || p.match(KGe) {
		r.StrValue = p.cur.Lexeme
		r.Line = p.cur.Line
		return true
	}
	p.error("relop")
	return false
}

func (p *Parser) addop(a *AST) bool {
	if p.match(KPlus) || p.match(KMinus) || p.match(KOr) {
		a.StrValue = p.cur.Lexeme
		return true
	}
	p.error("addop")
	return false
}

func (p *Parser) multop(m *AST) bool {
	if p.match(KStar) || p.match(KSlash) || p.match(KAnd) {
		m.StrValue = p.cur.Lexeme
		return true
	}
	p.error("multop")
	return false
}

func (p *Parser) idorself(i *AST) bool {
	if p.peek(KId) {
		i.Tag = TagId
		return p.identifier(i)
	}
	if p.peek(KSelf) {
		i.Tag = TagSelf
		return p.expect(KSelf)
	}
	p.error("id or self")
	return false
}

func (p *Parser) intlit(i *AST) bool {
	if !p.expect(KIntLit) {
		return false
	}
	v, _ := strconv.Atoi(p.cur.Lexeme)
	i.IntValue = v
	return true
}

func (p *Parser) floatlit(f *AST) bool {
	if !p.expect(KFloatLit) {
		return false
	}
	v, _ := strconv.ParseFloat(p.cur.Lexeme, 64)
	f.FloatValue = v
	return true
}

func (p *Parser) identifier(id *AST) bool {
	if !p.expect(KId) {
		return false
	}
	id.StrValue = p.cur.Lexeme
	return true
}
