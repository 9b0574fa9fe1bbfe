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

func check(t *testing.T, a1 any, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
}

func TestLexer1(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "class isa implementation")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KClass, tk.Kind)
	tk = lx.GetToken()
	check(t, KIsa, tk.Kind)
	tk = lx.GetToken()
	check(t, KImplementation, tk.Kind)
	tk = lx.GetToken()
	check(t, KEOF, tk.Kind)
}

func TestLexer2(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "x := 1 + 2; // trailing comment\n")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KId, tk.Kind)
	check(t, "x", tk.Lexeme)
	tk = lx.GetToken()
	check(t, KAssign, tk.Kind)
	tk = lx.GetToken()
	check(t, KIntLit, tk.Kind)
	check(t, "1", tk.Lexeme)
	tk = lx.GetToken()
	check(t, KPlus, tk.Kind)
	tk = lx.GetToken()
	check(t, KIntLit, tk.Kind)
	tk = lx.GetToken()
	check(t, KSemi, tk.Kind)
	tk = lx.GetToken()
	check(t, KEOF, tk.Kind)
}

func TestLexerNestedBlockComment(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "/* outer /* inner */ still-comment */ write")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KWrite, tk.Kind)
	tk = lx.GetToken()
	check(t, KEOF, tk.Kind)
}

func TestLexerTwoCharOperators(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "== <> <= >= => : < >")
	check(t, err, nil)
	for _, want := range []Kind{KEq, KNe, KLe, KGe, KArrow, KColon, KLt, KGt} {
		tk := lx.GetToken()
		check(t, want, tk.Kind)
	}
}

func TestLexerLeadingZeroIsInvalid(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "007")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KErrInvalidNumber, tk.Kind)
	check(t, "007", tk.Lexeme)
}

func TestLexerBareZeroIsValid(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "0")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KIntLit, tk.Kind)
	check(t, "0", tk.Lexeme)
}

func TestLexerFloatTrailingZeroIsInvalid(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "1.50")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KErrInvalidNumber, tk.Kind)
}

func TestLexerFloatZeroFractionIsValid(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "1.0")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KFloatLit, tk.Kind)
	check(t, "1.0", tk.Lexeme)
}

func TestLexerExponent(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "1.5e10 2.0e-3")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KFloatLit, tk.Kind)
	check(t, "1.5e10", tk.Lexeme)
	tk = lx.GetToken()
	check(t, KFloatLit, tk.Kind)
	check(t, "2.0e-3", tk.Lexeme)
}

func TestLexerGluedIdentifierAfterNumber(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "3F 1x0")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KErrInvalidIdentifier, tk.Kind)
	check(t, "3F", tk.Lexeme)
	tk = lx.GetToken()
	check(t, KErrInvalidIdentifier, tk.Kind)
	check(t, "1x0", tk.Lexeme)
}

func TestLexerUnderscoreIdentifierIsInvalid(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "_foo bar")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KErrInvalidIdentifier, tk.Kind)
	check(t, "_foo", tk.Lexeme)
	tk = lx.GetToken()
	check(t, KId, tk.Kind)
	check(t, "bar", tk.Lexeme)
}

func TestLexerInvalidChar(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "a $ b")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KId, tk.Kind)
	tk = lx.GetToken()
	check(t, KErrInvalidChar, tk.Kind)
	check(t, "$", tk.Lexeme)
	tk = lx.GetToken()
	check(t, KId, tk.Kind)
}

func TestLexerLineNumbers(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "a\nb\n\nc")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, 1, tk.Line)
	tk = lx.GetToken()
	check(t, 2, tk.Line)
	tk = lx.GetToken()
	check(t, 4, tk.Line)
}

func TestLexerEOFIsSticky(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "")
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, KEOF, tk.Kind)
	tk = lx.GetToken()
	check(t, KEOF, tk.Kind)
}

func TestLexerWordOperators(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "a and b or not c")
	check(t, err, nil)
	lx.GetToken() // a
	tk := lx.GetToken()
	check(t, KAnd, tk.Kind)
	lx.GetToken() // b
	tk = lx.GetToken()
	check(t, KOr, tk.Kind)
	tk = lx.GetToken()
	check(t, KNot, tk.Kind)
}
