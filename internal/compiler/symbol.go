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

// symbol.go - ported from the original comp442_compiler's symbol.h/cpp.
// Go has no class hierarchy to spare us the VarSymbol/FuncSymbol split,
// so a single flat struct carries every field; IsPublic/Declared/Defined/
// Params are simply unused (zero value) on symbols that aren't functions
// or methods.

import "strings"

type SymKind int

const (
	SymClass SymKind = iota
	SymFunction
	SymMethod
	SymData
	SymParam
	SymLocal
	SymReturn
	SymJump
	SymTemp
	SymLit
)

func (k SymKind) String() string {
	switch k {
	case SymClass:
		return "class"
	case SymFunction:
		return "function"
	case SymMethod:
		return "method"
	case SymData:
		return "data"
	case SymParam:
		return "param"
	case SymLocal:
		return "local"
	case SymReturn:
		return "return"
	case SymJump:
		return "jump"
	case SymTemp:
		return "temp"
	case SymLit:
		return "lit"
	}
	return "?"
}

type Symbol struct {
	Kind       SymKind
	Type       string
	Name       string
	Subtable   *SymbolTable
	Dimensions []int

	BaseSize int
	Size     int
	Offset   int

	// VarSymbol extension
	IsPublic bool

	// FuncSymbol extension
	Declared bool
	Defined  bool
	Params   []string // formal parameter type strings, for overload resolution

	// Reference points back at the AST node that declared or produced the
	// symbol; SymbolTablePass and SemanticPass set it.
	Reference *AST
}

func NewSymbol(kind SymKind, typ, name string) *Symbol {
	return &Symbol{Kind: kind, Type: typ, Name: name}
}

// CalculateSize maps the base type to a byte width and multiplies by the
// product of Dimensions, per spec.md §3. Class-typed symbols take their
// size from the class's own subtable (computed in layout.go before any
// symbol of that class type is sized).
func (s *Symbol) CalculateSize() {
	switch {
	case s.Type == "int" || strings.HasPrefix(s.Type, "int[]"):
		s.BaseSize = 4
	case s.Type == "float" || strings.HasPrefix(s.Type, "float[]"):
		s.BaseSize = 8
	case s.Type == "bool" || strings.HasPrefix(s.Type, "bool[]"):
		s.BaseSize = 4
	case s.Subtable != nil:
		s.BaseSize = s.Subtable.Size()
	default:
		s.BaseSize = 0
	}
	s.Size = s.BaseSize
	for _, d := range s.Dimensions {
		s.Size *= d
	}
}

// GetArrayOffsetMultiplier returns base_size * product(dimensions[i+1:]),
// the row-major stride for dimension i, per spec.md §4.5.
func (s *Symbol) GetArrayOffsetMultiplier(i int) int {
	m := s.BaseSize
	for j := i + 1; j < len(s.Dimensions); j++ {
		m *= s.Dimensions[j]
	}
	return m
}

// BaseTypeName strips every "[]" suffix from a canonical type string.
func BaseTypeName(t string) string {
	return strings.TrimRight(strings.ReplaceAll(t, "[]", "\x00"), "\x00")
}

// ArraySuffixCount counts the number of "[]" suffixes on a canonical type.
func ArraySuffixCount(t string) int {
	return strings.Count(t, "[]")
}

// StripOneArraySuffix removes one trailing "[]" from t, if present.
func StripOneArraySuffix(t string) (string, bool) {
	if !strings.HasSuffix(t, "[]") {
		return t, false
	}
	return t[:len(t)-2], true
}
