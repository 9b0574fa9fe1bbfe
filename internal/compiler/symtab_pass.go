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

// symtab_pass.go - first semantic walk. Builds the nested symbol table
// tree top-down: one global table, one class table per ClassDef, one
// function table per FuncHead/FuncDef, one block table per nested
// Statblock. FuncHead under an ImplDef reuses the signature already
// declared by the matching ClassDef instead of creating a duplicate
// entry; a FuncHead with no prior class declaration is an error.

import "strings"

type SymbolTablePass struct {
	Diags  Diagnostics
	Global *SymbolTable

	classes map[string]*SymbolTable
}

func NewSymbolTablePass() *SymbolTablePass {
	return &SymbolTablePass{
		Global:  NewSymbolTable(0, "global", nil),
		classes: make(map[string]*SymbolTable),
	}
}

// Classes returns the class-name -> class-table map built while walking
// ClassDef/ImplDef nodes, the same map SemanticPass.Run needs for
// inheritance resolution and Dot/FunCall lookups.
func (w *SymbolTablePass) Classes() map[string]*SymbolTable {
	return w.classes
}

// Run walks prog and returns the populated global table. It never stops
// early on error: every class/impl/func is visited so the .outsymboltables
// sink reflects everything that could be recovered.
func (w *SymbolTablePass) Run(prog *AST) *SymbolTable {
	prog.Scope = w.Global
	for _, child := range prog.Children {
		switch child.Tag {
		case TagClassDef:
			dbg("symtab: class %s", child.Children[0].StrValue)
			w.classDef(child)
		case TagImplDef:
			dbg("symtab: implementation %s", child.Children[0].StrValue)
			w.implDef(child)
		case TagFuncDef:
			dbg("symtab: free function")
			w.funcDef(child, w.Global, false)
		}
	}
	w.Global.SetSize(0)
	return w.Global
}

func (w *SymbolTablePass) classDef(n *AST) {
	id, isaNode, members := n.Children[0], n.Children[1], n.Children[2]
	name := id.StrValue
	n.Scope = w.Global

	table := w.classes[name]
	if table == nil {
		table = NewSymbolTable(1, name, w.Global)
		table.IsClass = true
		w.classes[name] = table
	} else if table.Declared {
		w.Diags.Errorf(n.Line, "class %s redeclared", name)
	}
	if !table.Declared {
		sym := NewSymbol(SymClass, name, name)
		sym.Subtable = table
		w.Global.AddEntry(sym)
	}
	table.Declared = true
	n.Scope = table

	for _, parentID := range isaNode.Children {
		pname := parentID.StrValue
		parent := w.classes[pname]
		if parent == nil {
			parent = NewSymbolTable(1, pname, w.Global)
			parent.IsClass = true
			w.classes[pname] = parent
		}
		table.Parents = append(table.Parents, parent)
	}

	for _, vismem := range members.Children {
		visibility := vismem.Children[0]
		mem := vismem.Children[1]
		isPublic := visibility.StrValue == "public"
		switch mem.Tag {
		case TagVarDecl:
			w.attrDecl(mem, table, isPublic)
		case TagFuncHead, TagConstructor:
			w.funcHeadDecl(mem, table, isPublic)
		}
	}
}

func (w *SymbolTablePass) attrDecl(decl *AST, table *SymbolTable, isPublic bool) {
	id, typeNode, arraySizes := decl.Children[0], decl.Children[1], decl.Children[2]
	name := id.StrValue
	if existing := table.FindChild(name, nil); existing != nil {
		w.Diags.Errorf(decl.Line, "attribute %s redeclared in class %s", name, table.Name)
		return
	}
	sym := NewSymbol(SymData, canonicalType(typeNode, arraySizes), name)
	sym.Dimensions = arrayDims(arraySizes)
	sym.IsPublic = isPublic
	sym.Reference = decl
	table.AddEntry(sym)
	decl.Scope = table
	decl.Sym = sym
}

func (w *SymbolTablePass) funcHeadDecl(head *AST, table *SymbolTable, isPublic bool) {
	sym, params := w.makeFuncSymbol(head, SymMethod)
	if existing := table.FindFuncChild(sym.Name, params); existing != nil {
		w.Diags.Errorf(head.Line, "function %s redeclared in class %s", sym.Name, table.Name)
		return
	}
	sym.IsPublic = isPublic
	sym.Declared = true
	sym.Params = params
	table.AddEntry(sym)
	head.Sym = sym
	head.Scope = table
}

func (w *SymbolTablePass) implDef(n *AST) {
	id, body := n.Children[0], n.Children[1]
	name := id.StrValue
	table := w.classes[name]
	if table == nil {
		w.Diags.Errorf(n.Line, "implementation of undeclared class %s", name)
		table = NewSymbolTable(1, name, w.Global)
		table.IsClass = true
		w.classes[name] = table
	}
	if table.Implemented {
		w.Diags.Errorf(n.Line, "implementation of %s repeated", name)
	}
	table.Implemented = true
	n.Scope = table

	for _, fdef := range body.Children {
		w.funcDef(fdef, table, true)
	}
}

// funcDef builds the function-scope table for a FuncDef (either a
// free function, or a method body inside an ImplDef). inImpl selects
// whether the symbol must already exist in the class table (method
// definition) or is created fresh (free function / constructor body).
func (w *SymbolTablePass) funcDef(fdef *AST, enclosing *SymbolTable, inImpl bool) {
	head, body := fdef.Children[0], fdef.Children[1]
	var sym *Symbol
	var params []string

	if inImpl {
		sym, params = w.makeFuncSymbol(head, SymMethod)
		existing := enclosing.FindFuncChild(sym.Name, params)
		if existing == nil {
			byName := enclosing.FindFuncChildByName(sym.Name)
			if byName != nil {
				w.Diags.Errorf(head.Line, "function %s defined with parameters that don't match its declaration in class %s", sym.Name, enclosing.Name)
			} else {
				w.Diags.Errorf(head.Line, "function %s is not a member of class %s", sym.Name, enclosing.Name)
			}
			enclosing.AddEntry(sym)
		} else {
			if existing.Defined {
				w.Diags.Errorf(head.Line, "function %s redefined in class %s", sym.Name, enclosing.Name)
			}
			existing.Defined = true
			sym = existing
		}
	} else {
		sym, params = w.makeFuncSymbol(head, SymFunction)
		if existing := enclosing.FindChild(sym.Name, nil); existing != nil &&
			(existing.Kind != SymFunction || enclosing.FindFuncChild(sym.Name, params) != nil) {
			w.Diags.Errorf(head.Line, "%s redeclared at global scope", sym.Name)
		}
		sym.Declared = true
		sym.Defined = true
		enclosing.AddEntry(sym)
	}
	sym.Params = params
	head.Sym = sym
	head.Scope = enclosing
	fdef.Sym = sym

	fnTable := NewSymbolTable(enclosing.Level+1, sym.Name, enclosing)
	sym.Subtable = fnTable
	fdef.Scope = fnTable
	body.Scope = fnTable

	w.fparams(head, fnTable)

	// Every scope gets return/jump synthetic symbols right after its
	// parameters, per spec.md §4.3 and §4.5: layout walks symbols in
	// this declaration order, so return sits right after the parameters
	// and jump right after return, regardless of how many locals/temps
	// follow.
	retSym := NewSymbol(SymReturn, sym.Type, "return")
	fnTable.AddEntry(retSym)
	jumpSym := NewSymbol(SymJump, "int", "jump")
	fnTable.AddEntry(jumpSym)

	w.funcBody(body, fnTable)
}

// makeFuncSymbol builds (but does not insert) a function/method symbol
// from a FuncHead or Constructor node, along with its parameter-type
// signature for overload matching.
func (w *SymbolTablePass) makeFuncSymbol(head *AST, kind SymKind) (*Symbol, []string) {
	if head.Tag == TagConstructor {
		params := head.Children[0]
		sym := NewSymbol(kind, "void", "constructor")
		return sym, fparamTypes(params)
	}
	id, params, rtype := head.Children[0], head.Children[1], head.Children[2]
	sym := NewSymbol(kind, rtype.StrValue, id.StrValue)
	return sym, fparamTypes(params)
}

func fparamTypes(params *AST) []string {
	var out []string
	for _, fp := range params.Children {
		_, typeNode, arraySizes := fp.Children[0], fp.Children[1], fp.Children[2]
		out = append(out, canonicalType(typeNode, arraySizes))
	}
	return out
}

func (w *SymbolTablePass) fparams(head *AST, fnTable *SymbolTable) {
	var params *AST
	if head.Tag == TagConstructor {
		params = head.Children[0]
	} else {
		params = head.Children[1]
	}
	for _, fp := range params.Children {
		id, typeNode, arraySizes := fp.Children[0], fp.Children[1], fp.Children[2]
		name := id.StrValue
		if existing := fnTable.FindChild(name, nil); existing != nil {
			w.Diags.Errorf(fp.Line, "parameter %s redeclared", name)
			continue
		}
		sym := NewSymbol(SymParam, canonicalType(typeNode, arraySizes), name)
		sym.Dimensions = arrayDims(arraySizes)
		sym.Reference = fp
		fnTable.AddEntry(sym)
		fp.Sym = sym
		fp.Scope = fnTable
	}
}

func (w *SymbolTablePass) funcBody(body *AST, fnTable *SymbolTable) {
	for _, item := range body.Children {
		item.Scope = fnTable
		switch item.Tag {
		case TagVarDecl:
			w.localVarDecl(item, fnTable)
		case TagStatement:
			w.statement(item, fnTable)
		}
	}
}

func (w *SymbolTablePass) localVarDecl(decl *AST, scope *SymbolTable) {
	id, typeNode, arraySizes := decl.Children[0], decl.Children[1], decl.Children[2]
	name := id.StrValue
	if existing := scope.FindChild(name, nil); existing != nil {
		w.Diags.Errorf(decl.Line, "local variable %s redeclared", name)
		return
	}
	sym := NewSymbol(SymLocal, canonicalType(typeNode, arraySizes), name)
	sym.Dimensions = arrayDims(arraySizes)
	sym.Reference = decl
	scope.AddEntry(sym)
	decl.Scope = scope
	decl.Sym = sym
}

// statement recurses into If/While bodies to open nested block scopes;
// every other statement kind carries no declarations of its own.
func (w *SymbolTablePass) statement(s *AST, scope *SymbolTable) {
	s.Scope = scope
	if len(s.Children) == 0 {
		return
	}
	inner := s.Children[0]
	var setScope func(n *AST)
	setScope = func(n *AST) {
		n.Scope = scope
		for _, c := range n.Children {
			setScope(c)
		}
	}
	setScope(inner)
	switch inner.Tag {
	case TagIf:
		w.statblock(inner.Children[1], scope)
		w.statblock(inner.Children[2], scope)
	case TagWhile:
		w.statblock(inner.Children[1], scope)
	}
}

func (w *SymbolTablePass) statblock(sb *AST, enclosing *SymbolTable) {
	sb.Scope = enclosing
	block := NewSymbolTable(enclosing.Level+1, "block", enclosing)
	for _, child := range sb.Children {
		if child.Tag == TagStatements {
			for _, s := range child.Children {
				w.statement(s, block)
			}
		} else if child.Tag == TagStatement {
			w.statement(child, block)
		}
	}
}

// canonicalType renders a Type+ArraySizes pair as the flat type string
// the rest of the compiler uses ("int", "MyClass[]", "float[][]", ...).
func canonicalType(typeNode, arraySizes *AST) string {
	var b strings.Builder
	b.WriteString(typeNode.StrValue)
	for range arraySizes.Children {
		b.WriteString("[]")
	}
	return b.String()
}

// arrayDims extracts the declared dimension sizes; an unsized dimension
// (a bare "[]") is recorded as 0 and resolved, if possible, from context
// by MemoryLayout.
func arrayDims(arraySizes *AST) []int {
	var dims []int
	for _, size := range arraySizes.Children {
		if len(size.Children) == 0 {
			dims = append(dims, 0)
			continue
		}
		dims = append(dims, size.Children[0].IntValue)
	}
	return dims
}
