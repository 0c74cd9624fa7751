/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Package history keeps a bounded record of the most recently executed
// CHIP-8 instructions so they can be reported when the machine faults.
package history

import (
	"fmt"

	"github.com/c8emu/chip8/chip8"
)

type entry struct {
	address uint16
	inst    chip8.Instruction
}

// History is a ring buffer of executed instructions.
type History struct {
	// buf contains the recorded instructions.
	buf []entry

	// pos is where the next instruction is written.
	pos int

	// full is set once buf has wrapped.
	full bool
}

// New creates a History holding up to size instructions.
func New(size int) *History {
	if size < 1 {
		size = 1
	}

	return &History{
		buf: make([]entry, size),
	}
}

// Record an executed instruction. Matches the CHIP_8 Trace hook.
func (h *History) Record(address uint16, inst chip8.Instruction) {
	h.buf[h.pos] = entry{address: address, inst: inst}

	h.pos++
	if h.pos == len(h.buf) {
		h.pos = 0
		h.full = true
	}
}

// Len returns how many instructions are held.
func (h *History) Len() int {
	if h.full {
		return len(h.buf)
	}
	return h.pos
}

// Window returns the last n instructions, oldest first, formatted as
// address and mnemonic.
func (h *History) Window(n int) []string {
	if n > h.Len() {
		n = h.Len()
	}

	lines := make([]string, 0, n)

	// start n entries back from the write position
	start := h.pos - n
	if start < 0 {
		start += len(h.buf)
	}

	for i := 0; i < n; i++ {
		e := h.buf[(start+i)%len(h.buf)]
		lines = append(lines, fmt.Sprintf("%04X - %s", e.address, e.inst))
	}

	return lines
}

// Clear the history.
func (h *History) Clear() {
	h.pos = 0
	h.full = false
}
