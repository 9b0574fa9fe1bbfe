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

// symtable.go - ported from the original compiler's symtable.h/cpp. The
// class-table parent-list lookup order (own symbols first, then each
// parent table in declaration order, first match wins) is taken directly
// from ClassSymbolTable::lookup in symtable.cpp.

import (
	"fmt"
	"io"
	"strings"
)

type SymbolTable struct {
	Name   string
	Level  int
	Parent *SymbolTable
	Symbols []*Symbol

	// ClassSymbolTable extension
	IsClass     bool
	Declared    bool
	Implemented bool
	Parents     []*SymbolTable

	// unique label used by CodeGen; computed once, memoized.
	uniqueName string

	// size is set once by MemoryLayout; see Size()/SetSize() below.
	size int
}

func NewSymbolTable(level int, name string, parent *SymbolTable) *SymbolTable {
	return &SymbolTable{Name: name, Level: level, Parent: parent}
}

func (st *SymbolTable) AddEntry(sym *Symbol) {
	st.Symbols = append(st.Symbols, sym)
}

// Lookup searches this table's own symbols, then its class parents (if
// any), then recurses into the lexical parent. The class-parent pass
// uses the same single-pass "first match wins" rule described in
// spec.md §3 for ClassSymbolTable.
func (st *SymbolTable) Lookup(name string) *Symbol {
	if sym := st.findLocalOrClassParents(name); sym != nil {
		return sym
	}
	if st.Parent != nil {
		return st.Parent.Lookup(name)
	}
	return nil
}

func (st *SymbolTable) findLocalOrClassParents(name string) *Symbol {
	for _, s := range st.Symbols {
		if s.Name == name {
			return s
		}
	}
	if st.IsClass {
		for _, p := range st.Parents {
			if s := p.findLocalOrClassParents(name); s != nil {
				return s
			}
		}
	}
	return nil
}

// FindChild searches only the local table (plus, for a class table, its
// parents) - it never recurses into the lexical parent. An empty kind
// filter matches any kind.
func (st *SymbolTable) FindChild(name string, kind *SymKind) *Symbol {
	for _, s := range st.Symbols {
		if s.Name == name && (kind == nil || s.Kind == *kind) {
			return s
		}
	}
	if st.IsClass {
		for _, p := range st.Parents {
			if s := p.FindChild(name, kind); s != nil {
				return s
			}
		}
	}
	return nil
}

// FindFuncChild locates a function/method symbol whose name and formal
// parameter-type signature match exactly.
func (st *SymbolTable) FindFuncChild(name string, params []string) *Symbol {
	for _, s := range st.Symbols {
		if s.Name != name || (s.Kind != SymFunction && s.Kind != SymMethod) {
			continue
		}
		if sameSignature(s.Params, params) {
			return s
		}
	}
	if st.IsClass {
		for _, p := range st.Parents {
			if s := p.FindFuncChild(name, params); s != nil {
				return s
			}
		}
	}
	return nil
}

// FindFuncChildByName locates the first function/method symbol matching
// name regardless of signature - used to report a parameter mismatch
// against *some* overload when no exact match exists.
func (st *SymbolTable) FindFuncChildByName(name string) *Symbol {
	for _, s := range st.Symbols {
		if s.Name == name && (s.Kind == SymFunction || s.Kind == SymMethod) {
			return s
		}
	}
	if st.IsClass {
		for _, p := range st.Parents {
			if s := p.FindFuncChildByName(name); s != nil {
				return s
			}
		}
	}
	return nil
}

func sameSignature(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetUniqueName returns the globally-unique assembly label for a
// function/method scope: the scope name, qualified by its enclosing
// class (if any) so that two classes' same-named methods don't collide,
// and numbered "_1", "_2", ... for each overload after the first.
func (st *SymbolTable) GetUniqueName() string {
	if st.uniqueName != "" {
		return st.uniqueName
	}
	name := st.Name
	if st.Parent != nil {
		n := 0
		for _, s := range st.Parent.Symbols {
			if s.Subtable == st {
				break
			}
			if s.Name == st.Name && s.Subtable != nil {
				n++
			}
		}
		if n > 0 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
	}
	if st.Parent != nil && st.Parent.IsClass {
		st.uniqueName = st.Parent.Name + "_" + name
	} else {
		st.uniqueName = name
	}
	return st.uniqueName
}

// String renders the boxed-frame symbol table dump spec.md §6 requires
// for the .outsymboltables sink.
func (st *SymbolTable) String() string {
	var b strings.Builder
	st.render(&b, 0)
	return b.String()
}

func (st *SymbolTable) render(w io.Writer, depth int) {
	prefix := strings.Repeat("|    ", depth)
	rule := prefix + strings.Repeat("=", 73)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s| table: %s (size=%d)\n", prefix, st.Name, st.Size())
	fmt.Fprintln(w, rule)
	for _, s := range st.Symbols {
		fmt.Fprintf(w, "%s| %-10s %-20s %-6d %-6d\n", prefix, s.Kind, s.Name+": "+s.Type, s.Size, s.Offset)
		if s.Subtable != nil && s.Subtable != st {
			s.Subtable.render(w, depth+1)
		}
	}
	fmt.Fprintln(w, rule)
}

// Size is the scope's own total size, as set by MemoryLayout: for a
// function/method scope this is the sum of its symbols' sizes (the
// frame size); for a class table it's the sum of attribute sizes.
func (st *SymbolTable) Size() int {
	return st.size
}

// SetSize records the scope's total size. MemoryLayout sets it once per
// table in each run; SymbolTablePass sets the global table's size to 0.
func (st *SymbolTable) SetSize(n int) {
	st.size = n
}
