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
package main

// driver.go - runs the five-stage pipeline in the order spec.md §2
// describes and routes each stage's output to the sibling file spec.md
// §6 names. The driver stops before MemoryLayout/CodeGen if an earlier
// stage's has_error flag is set, per spec.md §5's early-exit rule.

import (
	"fmt"
	"os"
	"strings"

	"github.com/gmofishsauce/yaplc/internal/compiler"
)

type Driver struct {
	srcPath string
	base    string
	failed  bool
}

func NewDriver(srcPath string) *Driver {
	base := strings.TrimSuffix(srcPath, ".src")
	return &Driver{srcPath: srcPath, base: base}
}

func (d *Driver) sinkPath(suffix string) string {
	return d.base + "." + suffix
}

func (d *Driver) HasError() bool {
	return d.failed
}

// Run executes Lexer -> Parser -> SymbolTablePass -> SemanticPass ->
// MemoryLayout -> CodeGen, writing each of the seven sibling files spec.md
// §6 names (truncating any that already exist) as each stage completes.
func (d *Driver) Run() error {
	lex, err := compiler.MakeFileLexer(d.srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer lex.Close()

	ast, derivation, syntaxErrs := compiler.Parse(lex)
	if err := d.writeSink("outderivation", derivation); err != nil {
		return err
	}
	if err := d.writeSink("outsyntaxerrors", syntaxErrs.String()); err != nil {
		return err
	}
	if err := d.writeSink("outast", ast.Sprint()); err != nil {
		return err
	}

	var combined strings.Builder
	combined.WriteString(syntaxErrs.String())

	if syntaxErrs.HasError() {
		d.failed = true
		if err := d.writeSink("outerrors", combined.String()); err != nil {
			return err
		}
		return nil
	}

	symtabPass := compiler.NewSymbolTablePass()
	global := symtabPass.Run(ast)

	semPass := compiler.NewSemanticPass(global)
	semPass.Run(ast, symtabPass.Classes())

	var semOut strings.Builder
	semOut.WriteString(symtabPass.Diags.String())
	semOut.WriteString(semPass.Diags.String())
	if err := d.writeSink("outsemerrors", semOut.String()); err != nil {
		return err
	}
	if err := d.writeSink("outsymboltables", global.String()); err != nil {
		return err
	}

	combined.WriteString(semOut.String())

	if symtabPass.Diags.HasError() || semPass.Diags.HasError() {
		d.failed = true
		if err := d.writeSink("outerrors", combined.String()); err != nil {
			return err
		}
		return nil
	}

	layout := compiler.NewMemoryLayout()
	layout.Run(global)

	cg := compiler.NewCodeGen()
	asm, cgDiags := cg.Generate(ast)
	combined.WriteString(cgDiags.String())
	if err := d.writeSink("outerrors", combined.String()); err != nil {
		return err
	}
	if cgDiags.HasError() {
		d.failed = true
		return nil
	}
	return d.writeSink("m", asm)
}

func (d *Driver) writeSink(suffix, content string) error {
	f, err := os.Create(d.sinkPath(suffix))
	if err != nil {
		return fmt.Errorf("create %s: %w", d.sinkPath(suffix), err)
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
