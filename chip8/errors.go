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
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge is returned when a ROM image does not fit in memory.
	ErrProgramTooLarge = errors.New("program too large to fit in memory")

	// ErrInvalidOpcode is returned when a word decodes to no instruction.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrStackUnderflow is returned on a return with an empty call stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrStackOverflow is returned when a call exceeds StackDepth.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrAddressOutOfRange is returned for any access outside of memory.
	ErrAddressOutOfRange = errors.New("address out of range")
)

// Fault is a run-time error the machine cannot continue past. Once a fault
// occurs the machine is halted and every Step returns the same fault until
// the machine is reset.
type Fault struct {
	// Address of the instruction that faulted.
	Address uint16

	// Opcode is the raw instruction word, zero if it could not be fetched.
	Opcode uint16

	// Err is the cause, one of the Err* values above.
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at #%04X (opcode #%04X): %v", f.Address, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
