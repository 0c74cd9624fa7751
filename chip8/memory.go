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

package chip8

import (
	"fmt"
)

const (
	// MemorySize is the number of addressable bytes.
	MemorySize = 0x1000

	// ProgramStart is where a ROM image is copied and where execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest ROM image that fits above the reserved area.
	MaxProgramSize = MemorySize - ProgramStart

	// FontStart is the address of the built-in hex digit sprites.
	FontStart = 0x050
)

// Memory is the flat CHIP-8 address space. Every access made by the virtual
// machine goes through the checked accessors below, and an address outside
// of the 4K space is a fault. Addresses never wrap and are never clamped.
type Memory [MemorySize]byte

// span validates the n bytes beginning at address.
func (m *Memory) span(address uint, n uint) error {
	if address >= MemorySize || n > MemorySize-address {
		return fmt.Errorf("%w: #%04X+%d", ErrAddressOutOfRange, address, n)
	}

	return nil
}

// Read a single byte.
func (m *Memory) Read(address uint) (byte, error) {
	if err := m.span(address, 1); err != nil {
		return 0, err
	}

	return m[address], nil
}

// Write a single byte.
func (m *Memory) Write(address uint, b byte) error {
	if err := m.span(address, 1); err != nil {
		return err
	}

	m[address] = b
	return nil
}

// Word reads a big-endian 16-bit value, which is how instructions are stored.
func (m *Memory) Word(address uint) (uint16, error) {
	if err := m.span(address, 2); err != nil {
		return 0, err
	}

	return uint16(m[address])<<8 | uint16(m[address+1]), nil
}

// Slice returns the n bytes at address. The slice aliases the memory, so
// writes through it are visible to the machine.
func (m *Memory) Slice(address uint, n uint) ([]byte, error) {
	if err := m.span(address, n); err != nil {
		return nil, err
	}

	return m[address : address+n], nil
}
