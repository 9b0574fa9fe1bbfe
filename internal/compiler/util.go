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

import (
	"fmt"
	"os"
)

// Debug is toggled by the driver (-d flag) and gates dbg() output. It's
// never consulted by anything that affects compiler output, only by
// stderr chatter useful while developing a pass.
var Debug = false

func dbg(s string, args ...any) {
	if !Debug {
		return
	}
	fmt.Fprintf(os.Stderr, "yaplc: "+s+"\n", args...)
}

// assert panics on an internal invariant violation - never on anything
// a source program can trigger. Those go through Diagnostics instead.
func assert(b bool, msg string) {
	if !b {
		panic("assertion failure: " + msg)
	}
}
