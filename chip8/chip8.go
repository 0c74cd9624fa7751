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
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// Width of the display in pixels.
	///
	Width = 64

	/// Height of the display in pixels.
	///
	Height = 32

	/// StackDepth is how many return addresses the call stack can hold.
	///
	StackDepth = 16
)

/// Frame is the monochrome display, row-major. A true cell is lit.
///
type Frame [Height][Width]bool

/// CHIP_8 virtual machine emulator.
///
/// The machine is not safe for concurrent use. Step, PressKey and ReleaseKey
/// must all be called from the same goroutine (or otherwise serialised).
///
type CHIP_8 struct {
	/// ROM memory for CHIP-8. This holds the reserved 512 bytes (with the
	/// font) as well as the program. It is the pristine state that Memory
	/// is reset back to.
	///
	ROM Memory

	/// Memory addressable by CHIP-8.
	///
	Memory Memory

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// I is the address register.
	///
	I uint16

	/// V are the 16 virtual registers. VF doubles as the carry, borrow and
	/// collision flag and is clobbered by the instructions that set it.
	///
	V [16]byte

	/// Stack of return addresses, the last element is the top.
	///
	Stack []uint16

	/// The delay timer register. Counts down once per step to zero.
	///
	DT byte

	/// The sound timer register. A tone plays while it is non-zero.
	///
	ST byte

	/// Cycles is how many instructions have been executed since reset.
	///
	Cycles int64

	/// Rand is the source for the RND instruction.
	///
	Rand *rand.Rand

	/// Trace, if set, is called with each instruction before it executes.
	///
	Trace func(address uint16, inst Instruction)

	// video memory, only changed by CLS and DRW
	video Frame

	// the key latch; only a single key is tracked
	key     byte
	pressed bool

	// fault the machine is halted on
	fault *Fault

	logger *log.Logger
}

/// Load a ROM from a byte array and return a new CHIP-8 virtual machine.
///
func LoadROM(logger *log.Logger, program []byte) (*CHIP_8, error) {
	if len(program) > MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	// create the new CHIP-8 virtual machine
	vm := &CHIP_8{
		Stack:  make([]uint16, 0, StackDepth),
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}

	// copy the font and the program into the CHIP-8
	copy(vm.ROM[FontStart:], Font[:])
	copy(vm.ROM[ProgramStart:], program)

	logger.Debug("ROM loaded",
		log.Int("size", len(program)),
		log.Hex("start", ProgramStart))

	// reset the VM memory
	vm.Reset()

	return vm, nil
}

/// Load a ROM file and return a new CHIP-8 virtual machine.
///
func LoadFile(logger *log.Logger, file string) (*CHIP_8, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading ROM '%s': %w", file, err)
	}

	vm, err := LoadROM(logger, program)
	if err != nil {
		return nil, fmt.Errorf("loading ROM '%s': %w", file, err)
	}

	return vm, nil
}

/// Reset the CHIP-8 virtual machine to the state just after loading.
///
func (vm *CHIP_8) Reset() {
	vm.Memory = vm.ROM

	// reset video memory
	vm.video = Frame{}

	// reset key latch
	vm.key = 0
	vm.pressed = false

	// reset program counter and stack
	vm.PC = ProgramStart
	vm.Stack = vm.Stack[:0]

	// reset address and virtual registers
	vm.I = 0
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	// clear any fault and the cycles executed
	vm.fault = nil
	vm.Cycles = 0

	vm.logger.Debug("Machine reset")
}

/// PressKey emulates a CHIP-8 key being pressed. Only one key is latched at
/// a time, so a press replaces whatever key was held. Keys above 0xF are
/// ignored.
///
func (vm *CHIP_8) PressKey(key uint) {
	if key < 16 {
		vm.key = byte(key)
		vm.pressed = true
	}
}

/// ReleaseKey emulates a CHIP-8 key being released. The latch is cleared no
/// matter which key is released: with two keys held, releasing either one
/// leaves no key pressed.
///
func (vm *CHIP_8) ReleaseKey(key uint) {
	if key < 16 {
		vm.pressed = false
	}
}

/// Frame returns a copy of the video memory.
///
func (vm *CHIP_8) Frame() Frame {
	return vm.video
}

/// Pixel returns true if the pixel at x, y is lit. Out of range is unlit.
///
func (vm *CHIP_8) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}

	return vm.video[y][x]
}

/// Beeping is true while the sound timer is running.
///
func (vm *CHIP_8) Beeping() bool {
	return vm.ST > 0
}

/// Halted returns the fault that stopped the machine, or nil if running.
///
func (vm *CHIP_8) Halted() error {
	if vm.fault == nil {
		return nil
	}

	return vm.fault
}

/// Step the CHIP-8 virtual machine a single instruction. A returned error
/// is always a *Fault, and the machine stays halted until Reset.
///
func (vm *CHIP_8) Step() error {
	if vm.fault != nil {
		return vm.fault
	}

	address := vm.PC

	// fetch the next instruction
	word, err := vm.fetch()
	if err != nil {
		return vm.halt(address, 0, err)
	}

	inst, err := Decode(word)
	if err != nil {
		return vm.halt(address, word, err)
	}

	vm.tick()

	if vm.Trace != nil {
		vm.Trace(address, inst)
	}

	if err := vm.execute(inst); err != nil {
		return vm.halt(address, word, err)
	}

	// increment the cycle count
	vm.Cycles++

	return nil
}

/// Fetch the next 16-bit instruction and advance the program counter.
///
func (vm *CHIP_8) fetch() (uint16, error) {
	inst, err := vm.Memory.Word(uint(vm.PC))
	if err != nil {
		return 0, err
	}

	vm.PC += 2

	return inst, nil
}

/// Count both timers down, stopping at zero.
///
func (vm *CHIP_8) tick() {
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}
}

/// Stop the machine on a fault.
///
func (vm *CHIP_8) halt(address, opcode uint16, err error) error {
	vm.fault = &Fault{
		Address: address,
		Opcode:  opcode,
		Err:     err,
	}

	vm.logger.Debug("Machine halted",
		log.Hex("address", address),
		log.Hex("opcode", opcode),
		log.Err(err))

	return vm.fault
}
