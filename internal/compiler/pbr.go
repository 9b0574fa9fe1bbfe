/*
Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package compiler

// pbr.go - PushbackByteReader, byte-at-a-time reading with pushback.
// The lexer uses this instead of bufio.Reader directly so that the line
// counter can be adjusted symmetrically on each rewind (e.g. after the
// maximal munch of a number or identifier). Pushed-back bytes form a
// stack, so the lexer can return several bytes at once when an 'e'
// after a number turns out not to start an exponent.

import (
	"bufio"
	"io"
	"os"
	"strings"
)

type PushbackByteReader interface {
	io.ByteReader
	io.Closer
	UnreadByte(b byte)
}

type pbr struct {
	br     io.ByteReader
	closer io.Closer
	pb     []byte // pushed-back bytes, most recent last
}

func NewFilePushbackByteReader(path string) (PushbackByteReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &pbr{br: bufio.NewReader(f), closer: f}, nil
}

func NewStringPushbackByteReader(body string) (PushbackByteReader, error) {
	return &pbr{br: strings.NewReader(body)}, nil
}

func (p *pbr) ReadByte() (byte, error) {
	if n := len(p.pb); n > 0 {
		b := p.pb[n-1]
		p.pb = p.pb[:n-1]
		return b, nil
	}
	return p.br.ReadByte()
}

func (p *pbr) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

func (p *pbr) UnreadByte(b byte) {
	p.pb = append(p.pb, b)
}
