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

// layout.go - assigns every symbol a byte size and a frame offset.
// A symbol's offset is the running total of the sizes of the symbols
// entered before it in the same table: the first symbol sits at offset
// 0 and offsets grow upward, so no offset is negative. Class tables are
// sized depth-first so that a symbol whose type
// is another class can read that class's already-computed size.

type MemoryLayout struct {
	sized map[*SymbolTable]bool
}

func NewMemoryLayout() *MemoryLayout {
	return &MemoryLayout{sized: make(map[*SymbolTable]bool)}
}

// Run lays out every class table reachable from global, then every
// function/method table (including the ones nested under class
// tables), so that by the time a function frame is sized, any
// class-typed locals it holds already know their size.
func (l *MemoryLayout) Run(global *SymbolTable) {
	dbg("layout: sizing %d top-level symbols", len(global.Symbols))
	for _, sym := range global.Symbols {
		if sym.Kind == SymClass {
			l.layoutClass(sym.Subtable)
		}
	}
	for _, sym := range global.Symbols {
		if sym.Kind == SymFunction {
			l.layoutFrame(sym.Subtable)
		}
	}
	for _, sym := range global.Symbols {
		if sym.Kind == SymClass {
			for _, m := range sym.Subtable.Symbols {
				if m.Kind == SymMethod || m.Kind == SymFunction {
					l.layoutFrame(m.Subtable)
				}
			}
		}
	}
}

// layoutClass sizes one class's own attributes, after first laying out
// (and reserving room for) every parent's attributes: an instance's
// total size, per spec.md §8's S3 scenario, includes what it inherits,
// not just what it declares itself.
func (l *MemoryLayout) layoutClass(table *SymbolTable) {
	if table == nil || l.sized[table] {
		return
	}
	l.sized[table] = true
	total := 0
	for _, parent := range table.Parents {
		l.layoutClass(parent)
		total += parent.Size()
	}
	for _, sym := range table.Symbols {
		if sym.Kind != SymData {
			continue
		}
		if sym.Subtable != nil {
			l.layoutClass(sym.Subtable)
		}
		sym.CalculateSize()
		total += sym.Size
		sym.Offset = total - sym.Size
	}
	table.SetSize(total)
}

// layoutFrame lays out a function/method frame: parameters first (in
// declaration order, matching the original's calling convention of
// pushing arguments before the call), then locals and compiler temps
// in the order SymbolTablePass/SemanticPass added them.
func (l *MemoryLayout) layoutFrame(table *SymbolTable) {
	if table == nil || l.sized[table] {
		return
	}
	l.sized[table] = true
	total := 0
	for _, sym := range table.Symbols {
		switch sym.Kind {
		case SymParam, SymLocal, SymTemp, SymReturn, SymJump:
			if sym.Subtable != nil {
				l.layoutClass(sym.Subtable)
			}
			sym.CalculateSize()
			total += sym.Size
			sym.Offset = total - sym.Size
		}
	}
	table.SetSize(total)
}
