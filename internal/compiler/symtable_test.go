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

import "testing"

func TestSymbolTableLookupRecursesToParent(t *testing.T) {
	global := NewSymbolTable(0, "global", nil)
	global.AddEntry(NewSymbol(SymFunction, "void", "main"))
	fn := NewSymbolTable(1, "main", global)

	if fn.Lookup("main") == nil {
		t.Fatalf("expected lexical lookup to find global symbol main")
	}
	if fn.FindChild("main", nil) != nil {
		t.Fatalf("FindChild must not recurse into the lexical parent")
	}
}

func TestClassSymbolTableConsultsParentsFirstMatchWins(t *testing.T) {
	global := NewSymbolTable(0, "global", nil)
	a := NewSymbolTable(1, "A", global)
	a.IsClass = true
	xInA := NewSymbol(SymData, "int", "x")
	a.AddEntry(xInA)

	b := NewSymbolTable(1, "B", global)
	b.IsClass = true
	b.Parents = []*SymbolTable{a}

	if got := b.FindChild("x", nil); got != xInA {
		t.Fatalf("expected B's FindChild to resolve x via its parent A")
	}

	xInB := NewSymbol(SymData, "int", "x")
	b.AddEntry(xInB)
	if got := b.FindChild("x", nil); got != xInB {
		t.Fatalf("expected B's own x to shadow A's x")
	}
}

func TestFindFuncChildMatchesExactSignature(t *testing.T) {
	global := NewSymbolTable(0, "global", nil)
	one := NewSymbol(SymFunction, "void", "f")
	one.Params = []string{"int"}
	two := NewSymbol(SymFunction, "void", "f")
	two.Params = []string{"int", "int"}
	global.AddEntry(one)
	global.AddEntry(two)

	if got := global.FindFuncChild("f", []string{"int"}); got != one {
		t.Fatalf("expected exact single-int overload to match")
	}
	if got := global.FindFuncChild("f", []string{"int", "int"}); got != two {
		t.Fatalf("expected exact two-int overload to match")
	}
	if got := global.FindFuncChild("f", []string{"float"}); got != nil {
		t.Fatalf("expected no match for a signature that doesn't exist")
	}
}

func TestGetUniqueNameQualifiesMethodsByClass(t *testing.T) {
	global := NewSymbolTable(0, "global", nil)
	class := NewSymbolTable(1, "Account", global)
	class.IsClass = true
	method := NewSymbolTable(2, "deposit", class)

	check(t, "Account_deposit", method.GetUniqueName())

	free := NewSymbolTable(1, "main", global)
	check(t, "main", free.GetUniqueName())
}

func TestCalculateSizeMapsBaseTypes(t *testing.T) {
	i := NewSymbol(SymLocal, "int", "i")
	i.CalculateSize()
	check(t, 4, i.Size)

	f := NewSymbol(SymLocal, "float", "f")
	f.CalculateSize()
	check(t, 8, f.Size)

	b := NewSymbol(SymLocal, "bool", "b")
	b.CalculateSize()
	check(t, 4, b.Size)

	arr := NewSymbol(SymLocal, "int[][]", "a")
	arr.Dimensions = []int{3, 4}
	arr.CalculateSize()
	check(t, 48, arr.Size)
	check(t, 4, arr.BaseSize)
}
