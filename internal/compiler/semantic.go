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

// semantic.go - second semantic walk. Resolves inheritance (with cycle
// detection), then type-checks every expression and statement
// bottom-up, attaching DataType and Sym to the nodes that need them at
// code-gen time. A subtree whose type can't be determined gets
// typeErrorSentinel so ancestors propagate the failure without
// re-reporting it.

import "fmt"

type SemanticPass struct {
	Diags  Diagnostics
	global *SymbolTable

	tempSeq int
	fnScope *SymbolTable // nearest enclosing function/method table, for temps
	class   *SymbolTable // nearest enclosing class table, for self/attribute lookup
}

func NewSemanticPass(global *SymbolTable) *SemanticPass {
	return &SemanticPass{global: global}
}

func (s *SemanticPass) Run(prog *AST, classes map[string]*SymbolTable) {
	dbg("semantic: resolving inheritance over %d classes", len(classes))
	s.resolveInheritance(classes)
	for _, child := range prog.Children {
		switch child.Tag {
		case TagClassDef:
			s.classDef(child, classes)
		case TagImplDef:
			s.implDef(child)
		case TagFuncDef:
			s.funcDef(child, nil)
		}
	}
}

// resolveInheritance checks every class's Isa list for a cycle via DFS,
// tracking the current recursion stack so that when a back-edge closes
// a cycle, every class on that cycle - not just the one where the
// back-edge was found - has its parent list cleared. Clearing only one
// side would leave the other still pointing at a cycle member, which
// is exactly the "loop forever" case this check exists to prevent.
func (s *SemanticPass) resolveInheritance(classes map[string]*SymbolTable) {
	visiting := make(map[*SymbolTable]bool)
	done := make(map[*SymbolTable]bool)
	var stack []*SymbolTable
	var visit func(t *SymbolTable)
	visit = func(t *SymbolTable) {
		if done[t] {
			return
		}
		if visiting[t] {
			s.Diags.Errorf(0, "circular inheritance involving class %s", t.Name)
			start := len(stack) - 1
			for start >= 0 && stack[start] != t {
				start--
			}
			for _, cyc := range stack[max(start, 0):] {
				dbg("semantic: circular inheritance, clearing parents of %s", cyc.Name)
				cyc.Parents = nil
			}
			return
		}
		visiting[t] = true
		stack = append(stack, t)
		for _, p := range t.Parents {
			if !p.Declared {
				s.Diags.Errorf(0, "class %s inherits from undeclared class %s", t.Name, p.Name)
				continue
			}
			visit(p)
		}
		stack = stack[:len(stack)-1]
		visiting[t] = false
		done[t] = true
	}
	for _, t := range classes {
		visit(t)
	}
}

func (s *SemanticPass) classDef(n *AST, classes map[string]*SymbolTable) {
	table := n.Scope
	s.class = table
	members := n.Children[2]
	for _, vismem := range members.Children {
		mem := vismem.Children[1]
		if mem.Tag == TagVarDecl {
			s.checkAttrShadow(mem, table)
		}
	}
	s.checkDeclDefMatch(n.Line, table)
	s.class = nil
}

// checkDeclDefMatch reports, per spec.md §4.4, every method in the
// class whose declared/defined pair isn't both true: a method header
// with no matching implementation, or (symmetrically) one the
// SymbolTablePass had to insert fresh because an ImplDef defined a
// method no ClassDef had declared.
func (s *SemanticPass) checkDeclDefMatch(line int, table *SymbolTable) {
	for _, sym := range table.Symbols {
		if sym.Kind != SymMethod {
			continue
		}
		if !sym.Declared {
			s.Diags.Errorf(line, "method %s of class %s is defined but never declared", sym.Name, table.Name)
		} else if !sym.Defined {
			s.Diags.Errorf(line, "method %s of class %s is declared but never defined", sym.Name, table.Name)
		}
	}
}

// checkAttrShadow warns when an attribute's name is also declared by a
// parent class - the child's copy wins at lookup time, per
// SymbolTable.Lookup's first-match rule, so shadowing is legal but
// worth flagging.
func (s *SemanticPass) checkAttrShadow(decl *AST, table *SymbolTable) {
	name := decl.Children[0].StrValue
	for _, p := range table.Parents {
		if sym := p.findLocalOrClassParents(name); sym != nil {
			s.Diags.Warnf(decl.Line, "attribute %s shadows an inherited member", name)
			return
		}
	}
}

func (s *SemanticPass) implDef(n *AST) {
	body := n.Children[1]
	for _, fdef := range body.Children {
		s.funcDef(fdef, n.Scope)
	}
}

func (s *SemanticPass) funcDef(fdef *AST, class *SymbolTable) {
	head, body := fdef.Children[0], fdef.Children[1]
	prevClass := s.class
	s.class = class
	s.fnScope = fdef.Scope
	s.tempSeq = 0

	for _, item := range body.Children {
		switch item.Tag {
		case TagStatement:
			s.statement(item)
		case TagVarDecl:
			// nothing further to check: type already resolved by SymbolTablePass.
		}
	}

	_ = head
	s.fnScope = nil
	s.class = prevClass
}

func (s *SemanticPass) statement(st *AST) {
	if len(st.Children) == 0 {
		return
	}
	inner := st.Children[0]
	switch inner.Tag {
	case TagAssign:
		s.assign(inner)
	case TagFunCall:
		s.funCall(inner)
	case TagIf:
		s.relExpr(inner.Children[0])
		s.statblock(inner.Children[1])
		s.statblock(inner.Children[2])
	case TagWhile:
		s.relExpr(inner.Children[0])
		s.statblock(inner.Children[1])
	case TagRead:
		s.variable(inner.Children[0])
	case TagWrite:
		s.expr(inner.Children[0])
	case TagReturn:
		s.expr(inner.Children[0])
	}
}

func (s *SemanticPass) statblock(sb *AST) {
	for _, child := range sb.Children {
		if child.Tag == TagStatements {
			for _, st := range child.Children {
				s.statement(st)
			}
		} else if child.Tag == TagStatement {
			s.statement(child)
		}
	}
}

// relExpr type-checks a RelOp used as an If/While condition (parsed
// directly into the statement, bypassing the Expr/typeOfExpr dispatch
// a RelOp reached as an ordinary operand goes through) - so it must
// attach its own temp here the same way typeOfExpr's TagRelop case
// does, or CodeGen has nowhere to find the condition's computed value.
func (s *SemanticPass) relExpr(rel *AST) {
	left := s.typeOfExpr(rel.Children[0])
	right := s.typeOfExpr(rel.Children[1])
	if left != right && left != typeErrorSentinel && right != typeErrorSentinel {
		s.Diags.Errorf(rel.Line, "relational operator %s applied to mismatched types %s and %s", rel.StrValue, left, right)
	}
	rel.DataType = "bool"
	rel.Sym = s.attachTemp(rel)
}

func (s *SemanticPass) assign(a *AST) {
	lhs := s.variableType(a.Children[0])
	rhs := s.expr(a.Children[1])
	if lhs != rhs && lhs != typeErrorSentinel && rhs != typeErrorSentinel {
		s.Diags.Errorf(a.Line, "cannot assign %s to variable of type %s", rhs, lhs)
	}
	a.DataType = lhs
}

// expr unwraps the Expr wrapper node spec.md §4.1 always creates around
// a top-level arith/rel expression and returns its computed type.
func (s *SemanticPass) expr(e *AST) string {
	if len(e.Children) == 0 {
		return typeErrorSentinel
	}
	t := s.typeOfExpr(e.Children[0])
	e.DataType = t
	return t
}

// typeOfExpr computes (and memoizes on the node) the type of any
// expression subtree: literal, variable reference, operator
// application, or function call.
func (s *SemanticPass) typeOfExpr(n *AST) string {
	if n == nil {
		return typeErrorSentinel
	}
	switch n.Tag {
	case TagIntLit:
		n.DataType = "int"
	case TagFloatLit:
		n.DataType = "float"
	case TagSign:
		n.DataType = s.typeOfExpr(n.Children[0])
	case TagNot:
		inner := s.typeOfExpr(n.Children[0])
		if inner != "bool" && inner != typeErrorSentinel {
			s.Diags.Errorf(n.Line, "'not' applied to non-bool type %s", inner)
			n.DataType = typeErrorSentinel
		} else {
			n.DataType = "bool"
		}
	case TagAddOp, TagMultOp:
		n.DataType = s.binOp(n)
	case TagRelop:
		s.relExpr(n)
		n.DataType = "bool"
	case TagDataMember:
		n.DataType = s.dataMember(n)
	case TagDot:
		n.DataType = s.dot(n)
	case TagFunCall:
		n.DataType = s.funCall(n)
	case TagId:
		n.DataType = s.resolveSimpleID(n)
	case TagSelf:
		n.DataType = s.selfType(n)
	default:
		n.DataType = typeErrorSentinel
	}
	n.Sym = s.attachTemp(n)
	return n.DataType
}

// attachTemp gives every operator, literal, and function-call node that
// has no symbol yet a compiler-generated temp slot in the enclosing
// function frame, the way MemoryLayout and CodeGen expect to find
// somewhere to spill an intermediate value.
func (s *SemanticPass) attachTemp(n *AST) *Symbol {
	if n.Sym != nil {
		return n.Sym
	}
	switch n.Tag {
	case TagAddOp, TagMultOp, TagNot, TagSign, TagRelop, TagIntLit, TagFloatLit, TagFunCall:
		if s.fnScope == nil {
			return nil
		}
		s.tempSeq++
		name := fmt.Sprintf("_t%d", s.tempSeq)
		sym := NewSymbol(SymTemp, n.DataType, name)
		sym.Reference = n
		s.fnScope.AddEntry(sym)
		return sym
	}
	return nil
}

func (s *SemanticPass) binOp(n *AST) string {
	left := s.typeOfExpr(n.Children[0])
	right := s.typeOfExpr(n.Children[1])
	if left == typeErrorSentinel || right == typeErrorSentinel {
		return typeErrorSentinel
	}
	if left != right {
		s.Diags.Errorf(n.Line, "operator %s applied to mismatched types %s and %s", n.StrValue, left, right)
		return typeErrorSentinel
	}
	if left != "int" && left != "float" {
		if n.StrValue == "and" || n.StrValue == "or" {
			if left != "bool" {
				s.Diags.Errorf(n.Line, "operator %s requires bool operands, got %s", n.StrValue, left)
				return typeErrorSentinel
			}
			return "bool"
		}
		s.Diags.Errorf(n.Line, "operator %s requires numeric operands, got %s", n.StrValue, left)
		return typeErrorSentinel
	}
	return left
}

// resolveSimpleID handles a bare identifier reached as the left edge of
// a DataMember/Dot chain with no indices or further qualification:
// local/param/attribute lookup through the lexical+class scope chain.
func (s *SemanticPass) resolveSimpleID(n *AST) string {
	sym := s.lookup(n.StrValue)
	if sym == nil {
		s.Diags.Errorf(n.Line, "undeclared identifier %s", n.StrValue)
		return typeErrorSentinel
	}
	n.Sym = sym
	return sym.Type
}

func (s *SemanticPass) selfType(n *AST) string {
	if s.class == nil {
		s.Diags.Errorf(n.Line, "'self' used outside a method")
		return typeErrorSentinel
	}
	return s.class.Name
}

func (s *SemanticPass) lookup(name string) *Symbol {
	if s.fnScope != nil {
		if sym := s.fnScope.Lookup(name); sym != nil {
			return sym
		}
	}
	if s.class != nil {
		if sym := s.class.Lookup(name); sym != nil {
			return sym
		}
	}
	return s.global.Lookup(name)
}

// dataMember resolves `base[i1][i2]...`: base is either a bare Id/Self
// (resolveSimpleID/selfType) and the Indices child strips one array
// dimension per index, erroring if more indices are given than
// dimensions declared.
func (s *SemanticPass) dataMember(n *AST) string {
	base, indices := n.Children[0], n.Children[1]
	var baseType string
	switch base.Tag {
	case TagId:
		baseType = s.resolveSimpleID(base)
	case TagSelf:
		baseType = s.selfType(base)
	default:
		baseType = s.typeOfExpr(base)
	}
	n.Sym = base.Sym
	if baseType == typeErrorSentinel {
		return typeErrorSentinel
	}
	result := baseType
	for _, idx := range indices.Children {
		if idxType := s.typeOfExpr(idx.Children[0]); idxType != typeErrorSentinel && idxType != "int" {
			s.Diags.Errorf(idx.Line, "array index must be int, got %s", idxType)
		}
		if stripped, ok := StripOneArraySuffix(result); ok {
			result = stripped
		} else {
			s.Diags.Errorf(idx.Line, "too many indices on %s", baseType)
			return typeErrorSentinel
		}
	}
	return result
}

// dot resolves `left.id`: left's type must be a known class; id is
// looked up as a public member of that class (or any member, if we're
// inside a method of that same class - self.x style access).
func (s *SemanticPass) dot(n *AST) string {
	left, id := n.Children[0], n.Children[1]
	leftType := s.typeOfExpr(left)
	if leftType == typeErrorSentinel {
		return typeErrorSentinel
	}
	classTable, ok := s.classes()[leftType]
	if !ok {
		s.Diags.Errorf(n.Line, "%s is not a class type", leftType)
		return typeErrorSentinel
	}
	sym := classTable.FindChild(id.StrValue, nil)
	if sym == nil {
		s.Diags.Errorf(id.Line, "%s has no member %s", leftType, id.StrValue)
		return typeErrorSentinel
	}
	if !sym.IsPublic && (s.class == nil || s.class.Name != leftType) {
		s.Diags.Errorf(id.Line, "%s is a private member of %s", id.StrValue, leftType)
	}
	id.Sym = sym
	n.Sym = sym
	return sym.Type
}

func (s *SemanticPass) classes() map[string]*SymbolTable {
	out := make(map[string]*SymbolTable)
	for _, sym := range s.global.Symbols {
		if sym.Kind == SymClass {
			out[sym.Name] = sym.Subtable
		}
	}
	return out
}

// funCall resolves overload by exact parameter-type match against the
// callee's class (for a Dot-qualified call) or the global/class scope
// otherwise.
func (s *SemanticPass) funCall(n *AST) string {
	callee, aparams := n.Children[0], n.Children[1]
	argTypes := make([]string, 0, len(aparams.Children))
	for _, arg := range aparams.Children {
		argTypes = append(argTypes, s.expr(arg))
	}

	var table *SymbolTable
	var name string
	idCallee := false
	switch callee.Tag {
	case TagId:
		name = callee.StrValue
		idCallee = true
		if s.class != nil {
			table = s.class
		}
	case TagDot:
		left, id := callee.Children[0], callee.Children[1]
		leftType := s.typeOfExpr(left)
		name = id.StrValue
		table = s.classes()[leftType]
	case TagSelf:
		name = "constructor"
		table = s.class
	default:
		s.typeOfExpr(callee)
	}
	if table == nil {
		table = s.global
	}
	sym := table.FindFuncChild(name, argTypes)
	// A bare id() inside a method may name a free global function rather
	// than one of the class's own methods/parents - fall back to global
	// scope before reporting it undeclared.
	if sym == nil && idCallee && table != s.global {
		if fallback := s.global.FindFuncChild(name, argTypes); fallback != nil {
			dbg("semantic: %s not found on class %s, resolved as free function", name, table.Name)
			sym, table = fallback, s.global
		}
	}
	if sym == nil {
		if byName := table.FindFuncChildByName(name); byName != nil {
			s.Diags.Errorf(n.Line, "no overload of %s matches the given arguments", name)
		} else if idCallee && table != s.global && s.global.FindFuncChildByName(name) != nil {
			s.Diags.Errorf(n.Line, "no overload of %s matches the given arguments", name)
		} else {
			s.Diags.Errorf(n.Line, "call to undeclared function %s", name)
		}
		return typeErrorSentinel
	}
	// callee.Sym records the resolved function/method being invoked;
	// n.Sym (attached by attachTemp, below) is the FunCall node's own
	// temporary slot for the returned value, a distinct symbol.
	callee.Sym = sym
	return sym.Type
}

// variable type-checks an l-value used by `read` or assignment.
func (s *SemanticPass) variable(v *AST) string {
	if len(v.Children) == 0 {
		return typeErrorSentinel
	}
	return s.typeOfExpr(v.Children[0])
}

func (s *SemanticPass) variableType(v *AST) string {
	return s.typeOfExpr(v)
}
