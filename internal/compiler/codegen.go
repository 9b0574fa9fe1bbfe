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

// codegen.go - fourth AST walk. Emits VM assembly text using a free-list
// register pool (r1..r12), a per-call frame-pointer bump scheme, and
// fixed slots (-8(r14), -12(r14)) for the runtime-library int/string
// conversion calls backing read/write. Ported from the original
// compiler's codegenvisitor.h, generalized from its hand-written
// switch-on-node-kind into a Go type switch over Tag.

import (
	"fmt"
	"strings"
)

const (
	numRegisters = 12
	// writeArgOff/readArgOff are the two fixed argument slots the
	// runtime library's string/int conversion routines use, relative
	// to the advanced frame pointer.
	writeArgOff = -8
	writeBufOff = -12
	readBufOff  = -12
	readArgOff  = -8
)

type CodeGen struct {
	Diags Diagnostics

	out   strings.Builder
	pool  []string // free registers, pool[len-1] is popped first
	label int
}

func NewCodeGen() *CodeGen {
	cg := &CodeGen{}
	for i := numRegisters; i >= 1; i-- {
		cg.pool = append(cg.pool, fmt.Sprintf("r%d", i))
	}
	return cg
}

// Generate walks prog's top-level FuncDef/ImplDef nodes and returns the
// emitted assembly text, or ("", diags) if a
// fatal code-gen error (register exhaustion, unsupported operator,
// non-int read/write) is hit.
func (cg *CodeGen) Generate(prog *AST) (string, *Diagnostics) {
	for _, child := range prog.Children {
		switch child.Tag {
		case TagFuncDef:
			dbg("codegen: free function")
			cg.funcDef(child)
		case TagImplDef:
			dbg("codegen: implementation %s", child.Children[0].StrValue)
			for _, fdef := range child.Children[1].Children {
				cg.funcDef(fdef)
			}
		}
	}
	cg.emit("buf        res 20")
	if cg.Diags.HasError() {
		return "", &cg.Diags
	}
	return cg.out.String(), &cg.Diags
}

func (cg *CodeGen) emit(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

// pop removes and returns the top register; a fatal error is reported
// (and r0, harmlessly inert, returned) if the pool is exhausted so the
// walk can keep going far enough to report more than one instance.
func (cg *CodeGen) pop() string {
	if len(cg.pool) == 0 {
		cg.Diags.Errorf(0, "register pool exhausted")
		return "r0"
	}
	r := cg.pool[len(cg.pool)-1]
	cg.pool = cg.pool[:len(cg.pool)-1]
	return r
}

func (cg *CodeGen) push(r string) {
	if r == "r0" {
		return
	}
	cg.pool = append(cg.pool, r)
}

func (cg *CodeGen) newLabel(base string) string {
	cg.label++
	return fmt.Sprintf("%s%d", base, cg.label)
}

// funcDef emits one function/method's prologue, body, and epilogue.
// main gets the VM's entry/frame-init sequence in addition to the jump
// slot every scope saves its return address into.
func (cg *CodeGen) funcDef(fdef *AST) {
	head, body := fdef.Children[0], fdef.Children[1]
	table := fdef.Scope
	name := table.GetUniqueName()
	jumpSym := table.FindChild("jump", nil)
	isMain := name == "main"

	cg.emit("; function %s", name)
	if isMain {
		cg.emit("entry")
		cg.emit("addi r14,r0,topaddr")
	}
	cg.emit("%s:", name)
	cg.emit("sw %d(r14),r15", jumpSym.Offset)

	_ = head
	cg.funcBody(body)

	if isMain {
		cg.emit("hlt")
	} else {
		cg.emit("lw r15,%d(r14)", jumpSym.Offset)
		cg.emit("jr r15")
	}
}

func (cg *CodeGen) funcBody(body *AST) {
	for _, item := range body.Children {
		if item.Tag == TagStatement {
			cg.statement(item)
		}
	}
}

func (cg *CodeGen) statement(s *AST) {
	if len(s.Children) == 0 {
		return
	}
	inner := s.Children[0]
	switch inner.Tag {
	case TagAssign:
		cg.assign(inner)
	case TagFunCall:
		cg.funCall(inner)
	case TagIf:
		cg.ifStmt(inner)
	case TagWhile:
		cg.whileStmt(inner)
	case TagRead:
		cg.read(inner)
	case TagWrite:
		cg.write(inner)
	case TagReturn:
		cg.returnStmt(inner)
	}
}

func (cg *CodeGen) ifStmt(n *AST) {
	cond, thenBlk, elseBlk := n.Children[0], n.Children[1], n.Children[2]
	cg.expr(cond)
	elseLabel := cg.newLabel("else")
	endLabel := cg.newLabel("end_if")

	r := cg.pop()
	cg.emit("lw %s,%d(r14)", r, cond.Sym.Offset)
	cg.emit("bz %s,%s", r, elseLabel)
	cg.push(r)

	cg.statblock(thenBlk)
	cg.emit("j %s", endLabel)
	cg.emit("%s:", elseLabel)
	cg.statblock(elseBlk)
	cg.emit("%s:", endLabel)
}

func (cg *CodeGen) whileStmt(n *AST) {
	cond, body := n.Children[0], n.Children[1]
	topLabel := cg.newLabel("while")
	endLabel := cg.newLabel("end_while")

	cg.emit("%s:", topLabel)
	cg.expr(cond)
	r := cg.pop()
	cg.emit("lw %s,%d(r14)", r, cond.Sym.Offset)
	cg.emit("bz %s,%s", r, endLabel)
	cg.push(r)

	cg.statblock(body)
	cg.emit("j %s", topLabel)
	cg.emit("%s:", endLabel)
}

func (cg *CodeGen) statblock(sb *AST) {
	for _, child := range sb.Children {
		if child.Tag == TagStatements {
			for _, st := range child.Children {
				cg.statement(st)
			}
		} else if child.Tag == TagStatement {
			cg.statement(child)
		}
	}
}

// expr dispatches on every expression-node kind that can appear under
// an Expr wrapper, a relop operand, an aparams entry, or a data-member
// base; it never allocates registers itself except transiently while
// computing its own node, always returning with the pool at the size
// it started with.
func (cg *CodeGen) expr(n *AST) {
	if n == nil {
		return
	}
	switch n.Tag {
	case TagExpr:
		cg.expr(n.Children[0])
	case TagIntLit:
		cg.intLit(n)
	case TagFloatLit:
		cg.floatLit(n)
	case TagSign:
		cg.sign(n)
	case TagNot:
		cg.not(n)
	case TagAddOp:
		cg.binOp(n, addOpInstr(n.StrValue))
	case TagMultOp:
		cg.binOp(n, multOpInstr(n.StrValue))
	case TagRelop:
		cg.relOp(n)
	case TagDataMember:
		cg.expr(n.Children[0])
		for _, idx := range n.Children[1].Children {
			cg.expr(idx.Children[0])
		}
	case TagDot:
		cg.expr(n.Children[0])
	case TagFunCall:
		cg.funCall(n)
	case TagId, TagSelf:
		// bare name reference: nothing to emit, the value already lives
		// at n.Sym's frame offset (a param/local/attribute slot).
	}
}

func addOpInstr(op string) string {
	switch op {
	case "+":
		return "add"
	case "-":
		return "sub"
	case "or":
		// the VM fragment has no dedicated logical-or; with bool
		// represented as 0/1, add gives the right truth table for
		// every input except true-or-true, which yields 2.
		return "add"
	}
	return "add"
}

func multOpInstr(op string) string {
	switch op {
	case "*":
		return "mul"
	case "/":
		return "div"
	case "and":
		return "mul"
	}
	return "mul"
}

func relOpInstr(op string) string {
	switch op {
	case "==":
		return "ceq"
	case "<>":
		return "cne"
	case "<":
		return "clt"
	case "<=":
		return "cle"
	case ">":
		return "cgt"
	case ">=":
		return "cge"
	}
	return "ceq"
}

// binOp implements AddOp/MultOp exactly as spec.md §4.6 describes: pop
// two registers, load both operands, apply the instruction, store to
// the node's own temp offset, push both registers back.
func (cg *CodeGen) binOp(n *AST, instr string) {
	left, right := n.Children[0], n.Children[1]
	cg.expr(left)
	cg.expr(right)

	_, leftOff := cg.addr(left)
	_, rightOff := cg.addr(right)
	r1, r2 := cg.pop(), cg.pop()
	cg.emit("lw %s,%d(r14)", r1, leftOff)
	cg.emit("lw %s,%d(r14)", r2, rightOff)
	cg.emit("%s %s,%s,%s", instr, r1, r1, r2)
	cg.emit("sw %d(r14),%s", n.Sym.Offset, r1)
	cg.push(r2)
	cg.push(r1)
}

func (cg *CodeGen) relOp(n *AST) {
	cg.binOp(n, relOpInstr(n.StrValue))
}

// sign and not have no dedicated passthrough in the instruction
// fragment; both are expressed with instructions the VM already has
// (sub for negation, ceq-against-zero for logical not) so their temp
// slot always holds a defined value rather than being left unwritten.
func (cg *CodeGen) sign(n *AST) {
	inner := n.Children[0]
	cg.expr(inner)
	_, off := cg.addr(inner)
	r := cg.pop()
	cg.emit("lw %s,%d(r14)", r, off)
	if n.StrValue == "-" {
		cg.emit("sub %s,r0,%s", r, r)
	}
	cg.emit("sw %d(r14),%s", n.Sym.Offset, r)
	cg.push(r)
}

func (cg *CodeGen) not(n *AST) {
	inner := n.Children[0]
	cg.expr(inner)
	_, off := cg.addr(inner)
	r := cg.pop()
	cg.emit("lw %s,%d(r14)", r, off)
	cg.emit("ceq %s,%s,r0", r, r)
	cg.emit("sw %d(r14),%s", n.Sym.Offset, r)
	cg.push(r)
}

func (cg *CodeGen) intLit(n *AST) {
	r := cg.pop()
	cg.emit("addi %s,r0,%d", r, n.IntValue)
	cg.emit("sw %d(r14),%s", n.Sym.Offset, r)
	cg.push(r)
}

func (cg *CodeGen) floatLit(n *AST) {
	r := cg.pop()
	cg.emit("addi %s,r0,%g", r, n.FloatValue)
	cg.emit("sw %d(r14),%s", n.Sym.Offset, r)
	cg.push(r)
}

// assign loads the right symbol into a register and stores it to the
// left symbol's offset, per spec.md §4.6. The left side is whatever
// DataMember/Dot/Id chain funcallorassign3 built; Indices on the left
// are evaluated for their side effects (bounds temporaries) but static
// constant addressing is assumed, as addr below describes.
func (cg *CodeGen) assign(a *AST) {
	left, right := a.Children[0], a.Children[1]
	cg.expr(right)
	cg.expr(left)

	rightSym, rightOff := cg.addr(right)
	leftSym, leftOff := cg.addr(left)
	if rightSym == nil || leftSym == nil {
		return
	}
	r := cg.pop()
	cg.emit("lw %s,%d(r14)", r, rightOff)
	cg.emit("sw %d(r14),%s", leftOff, r)
	cg.push(r)
}

// exprSym finds the symbol that holds an expression node's computed
// value: its own Sym if it has one (temp, literal, or resolved
// variable), else (for an Expr wrapper) its single child's.
func exprSym(n *AST) *Symbol {
	if n == nil {
		return nil
	}
	if n.Sym != nil {
		return n.Sym
	}
	if n.Tag == TagExpr && len(n.Children) == 1 {
		return exprSym(n.Children[0])
	}
	return nil
}

// addr resolves the frame-relative offset to use when loading or
// storing a node's value. For anything but an indexed DataMember this
// is just its symbol's own offset. For `a[i][j]...` it folds each
// literal-int index into the base symbol's offset using
// Symbol.GetArrayOffsetMultiplier, giving the row-major address
// spec.md §4.5/§8's S6 scenario describes. A non-literal index can't be
// folded at compile time; the original codegenvisitor.h never
// addressed array elements at all, so a non-literal index gets a
// diagnostic and adds nothing to the address.
func (cg *CodeGen) addr(n *AST) (*Symbol, int) {
	if n == nil {
		return nil, 0
	}
	if n.Tag == TagExpr && len(n.Children) == 1 {
		return cg.addr(n.Children[0])
	}
	if n.Tag == TagDataMember {
		base := n.Children[0]
		indices := n.Children[1]
		sym := exprSym(base)
		if sym == nil {
			return nil, 0
		}
		off := sym.Offset
		for i, idx := range indices.Children {
			iv := idx.Children[0]
			if iv.Tag != TagIntLit {
				cg.Diags.Errorf(idx.Line, "array index must be a constant")
				continue
			}
			off += iv.IntValue * sym.GetArrayOffsetMultiplier(i)
		}
		return sym, off
	}
	sym := exprSym(n)
	if sym == nil {
		return nil, 0
	}
	return sym, sym.Offset
}

// funCall implements spec.md §4.6's call sequence: copy each argument
// into the callee's parameter slot (addressed relative to the current,
// not-yet-advanced frame pointer), bump r14 by the caller's own frame
// size, jump-and-link, restore r14, then - an extension of the
// original's call sequence, which never copies a value back - read the
// callee's return slot before the restore and store it into this
// FunCall node's own temp so an enclosing assign/expr can find it.
func (cg *CodeGen) funCall(n *AST) {
	callee, aparams := n.Children[0], n.Children[1]
	calleeSym := callee.Sym
	if calleeSym == nil || calleeSym.Subtable == nil {
		return
	}
	calleeTable := calleeSym.Subtable
	calleeLabel := calleeTable.GetUniqueName()

	callerTable := cg.enclosingFrame(n)
	if callerTable == nil {
		return
	}
	callerSize := callerTable.Size()

	params := paramSymbols(calleeTable)
	for i, arg := range aparams.Children {
		cg.expr(arg)
		if i >= len(params) {
			continue
		}
		argSym, argOff := cg.addr(arg)
		if argSym == nil {
			continue
		}
		r := cg.pop()
		cg.emit("lw %s,%d(r14)", r, argOff)
		cg.emit("sw %d(r14),%s", callerSize+params[i].Offset, r)
		cg.push(r)
	}

	cg.emit("addi r14,r14,%d", callerSize)
	cg.emit("jl r15,%s", calleeLabel)

	if calleeSym.Type != "void" {
		retSym := calleeTable.FindChild("return", nil)
		r := cg.pop()
		cg.emit("lw %s,%d(r14)", r, retSym.Offset)
		cg.emit("subi r14,r14,%d", callerSize)
		if n.Sym != nil {
			cg.emit("sw %d(r14),%s", n.Sym.Offset, r)
		}
		cg.push(r)
	} else {
		cg.emit("subi r14,r14,%d", callerSize)
	}
}

func paramSymbols(table *SymbolTable) []*Symbol {
	var out []*Symbol
	for _, s := range table.Symbols {
		if s.Kind == SymParam {
			out = append(out, s)
		}
	}
	return out
}

// enclosingFrame walks up to the nearest function/method scope holding
// n, so funCall/read/write know the current frame's size to bump r14
// by. Every node's Scope is set by SymbolTablePass to its innermost
// scope (function table or a nested block table); block tables chain
// up to their function table via Parent.
func (cg *CodeGen) enclosingFrame(n *AST) *SymbolTable {
	t := n.Scope
	for t != nil && t.IsClass {
		t = t.Parent
	}
	for t != nil {
		if t.FindChild("jump", nil) != nil {
			return t
		}
		t = t.Parent
	}
	return nil
}

// read/write require int, matching spec.md §4.6 and §7's category-5
// code-gen error; both round-trip through the runtime library's
// intstr/putstr or getstr/strint pair using the fixed -8/-12 argument
// slots relative to the advanced frame pointer.
func (cg *CodeGen) write(w *AST) {
	e := w.Children[0]
	cg.expr(e)
	sym, off := cg.addr(e)
	if sym == nil {
		return
	}
	if sym.Type != "int" {
		cg.Diags.Errorf(w.Line, "write of non-int type %s", sym.Type)
		return
	}
	frame := cg.enclosingFrame(w)
	frameSize := frame.Size()

	r := cg.pop()
	cg.emit("lw %s,%d(r14)", r, off)
	cg.emit("addi r14,r14,%d", frameSize)
	cg.emit("sw %d(r14),%s", writeArgOff, r)
	cg.emit("jl r15,intstr")
	cg.emit("jl r15,putstr")
	cg.emit("subi r14,r14,%d", frameSize)
	cg.push(r)
}

func (cg *CodeGen) read(rd *AST) {
	v := rd.Children[0]
	target := v
	if v.Tag == TagVariable {
		target = v.Children[0]
	}
	sym, off := cg.addr(target)
	if sym == nil {
		return
	}
	if sym.Type != "int" {
		cg.Diags.Errorf(rd.Line, "read of non-int type %s", sym.Type)
		return
	}
	frame := cg.enclosingFrame(rd)
	frameSize := frame.Size()

	cg.emit("addi r14,r14,%d", frameSize)
	cg.emit("jl r15,getstr")
	cg.emit("jl r15,strint")
	r := cg.pop()
	cg.emit("lw %s,%d(r14)", r, readArgOff)
	cg.emit("subi r14,r14,%d", frameSize)
	cg.emit("sw %d(r14),%s", off, r)
	cg.push(r)
}

// returnStmt evaluates the return expression and stores it into the
// enclosing function's return slot. The original codegenvisitor.h
// leaves Return a no-op default_visit; since spec.md §3/§4.5 describes
// the return slot as actually holding the return value, this
// implementation completes that contract rather than reproducing the
// stub.
func (cg *CodeGen) returnStmt(n *AST) {
	e := n.Children[0]
	if len(e.Children) == 0 {
		return
	}
	cg.expr(e)
	sym, off := cg.addr(e)
	frame := cg.enclosingFrame(n)
	if sym == nil || frame == nil {
		return
	}
	retSym := frame.FindChild("return", nil)
	if retSym == nil {
		return
	}
	r := cg.pop()
	cg.emit("lw %s,%d(r14)", r, off)
	cg.emit("sw %d(r14),%s", retSym.Offset, r)
	cg.push(r)
}
