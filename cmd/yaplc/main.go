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

// main.go - the thin driver named in spec.md §6: one positional .src
// path, an optional -d debug flag, and the seven per-phase output
// files written next to the input. The driver owns file routing and
// the pipeline's early-exit-on-error policy; the five compiler passes
// themselves live in internal/compiler and know nothing about files.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmofishsauce/yaplc/internal/compiler"
	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
yaplc compiles one .src file written in a small statically-typed object
oriented language into a textual VM assembly listing, plus a derivation
trace, a pretty-printed AST, a rendered symbol-table forest, and the
recovered syntax and semantic diagnostics.
`, "\n", " ")

var Yaplc = cli.New(Description).
	WithArg(cli.NewArg("source", "The .src file to compile").WithType(cli.TypeString)).
	WithOption(cli.NewOption("d", "Enable debug chatter on stderr").WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "yaplc: expected exactly one source-file argument, use --help")
		return 2
	}
	if _, enabled := options["d"]; enabled {
		compiler.Debug = true
	}

	path := args[0]
	if filepath.Ext(path) != ".src" {
		fmt.Fprintf(os.Stderr, "yaplc: %s: expected a .src file\n", path)
		return 2
	}

	driver := NewDriver(path)
	if err := driver.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "yaplc: %s: %s\n", path, err)
		return 1
	}
	if driver.HasError() {
		fmt.Fprintf(os.Stderr, "yaplc: %s: compilation failed, see %s\n", path, driver.sinkPath("outerrors"))
		return 1
	}
	return 0
}

func main() { os.Exit(Yaplc.Run(os.Args, os.Stdout)) }
