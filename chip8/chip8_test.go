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
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newTestVM assembles the instruction words into a ROM and loads it.
func newTestVM(t *testing.T, program ...uint16) *CHIP_8 {
	t.Helper()

	rom := make([]byte, 0, len(program)*2)
	for _, w := range program {
		rom = append(rom, byte(w>>8), byte(w))
	}

	vm, err := LoadROM(log.NewTestLogger(t), rom)
	assert.NoError(t, err)
	vm.Rand = rand.New(rand.NewSource(1))
	return vm
}

// run steps the machine n times, expecting no fault.
func run(t *testing.T, vm *CHIP_8, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Step())
	}
}

func lit(f Frame) int {
	n := 0
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				n++
			}
		}
	}
	return n
}

func TestLoadROM(t *testing.T) {
	vm := newTestVM(t, 0x00E0, 0x1200)

	assert.Equal(t, uint16(ProgramStart), vm.PC)
	assert.Equal(t, byte(0x00), vm.Memory[0x200])
	assert.Equal(t, byte(0xE0), vm.Memory[0x201])
	assert.Equal(t, byte(0x12), vm.Memory[0x202])
	assert.Equal(t, byte(0xF0), vm.Memory[FontStart])
	assert.Equal(t, byte(0x80), vm.Memory[FontStart+79])
	assert.Equal(t, 0, len(vm.Stack))
	assert.False(t, vm.Beeping())
	assert.NoError(t, vm.Halted())
}

func TestLoadROMTooLarge(t *testing.T) {
	logger := log.NewTestLogger(t)

	vm, err := LoadROM(logger, make([]byte, MaxProgramSize+1))
	assert.Nil(t, vm)
	assert.True(t, errors.Is(err, ErrProgramTooLarge))

	vm, err = LoadROM(logger, make([]byte, MaxProgramSize))
	assert.NoError(t, err)
	assert.NotNil(t, vm)
}

func TestLoadFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	file := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(file, []byte{0x60, 0x2A}, 0o644))

	vm, err := LoadFile(logger, file)
	assert.NoError(t, err)
	run(t, vm, 1)
	assert.Equal(t, byte(0x2A), vm.V[0])

	_, err = LoadFile(logger, filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)

	big := filepath.Join(t.TempDir(), "big.ch8")
	assert.NoError(t, os.WriteFile(big, make([]byte, MaxProgramSize+2), 0o644))
	_, err = LoadFile(logger, big)
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
}

func TestClearScreen(t *testing.T) {
	vm := newTestVM(t, 0x00E0)
	vm.video[5][5] = true
	assert.True(t, vm.Pixel(5, 5))

	run(t, vm, 1)

	assert.Equal(t, 0, lit(vm.Frame()))
	assert.Equal(t, uint16(0x202), vm.PC)
}

func TestSetAndAdd(t *testing.T) {
	vm := newTestVM(t, 0x6005, 0x7003)
	run(t, vm, 2)

	assert.Equal(t, byte(8), vm.V[0])
	assert.Equal(t, uint16(0x204), vm.PC)
	assert.Equal(t, int64(2), vm.Cycles)
}

func TestAddImmediateWrapsWithoutFlag(t *testing.T) {
	vm := newTestVM(t, 0x70FF)
	vm.V[0] = 2
	vm.V[0xF] = 0x55
	run(t, vm, 1)

	assert.Equal(t, byte(1), vm.V[0])
	assert.Equal(t, byte(0x55), vm.V[0xF])
}

func TestAddCarry(t *testing.T) {
	vm := newTestVM(t)

	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			vm.V[1], vm.V[2] = byte(a), byte(b)
			assert.NoError(t, vm.execute(Add{X: 1, Y: 2}))

			carry := byte(0)
			if a+b > 255 {
				carry = 1
			}
			if vm.V[1] != byte(a+b) || vm.V[0xF] != carry {
				t.Fatalf("ADD %d, %d: got %d (VF=%d)", a, b, vm.V[1], vm.V[0xF])
			}
		}
	}
}

func TestSubBorrow(t *testing.T) {
	vm := newTestVM(t)

	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			vm.V[1], vm.V[2] = byte(a), byte(b)
			assert.NoError(t, vm.execute(Sub{X: 1, Y: 2}))

			flag := byte(0)
			if a >= b {
				flag = 1
			}
			if vm.V[1] != byte(a-b) || vm.V[0xF] != flag {
				t.Fatalf("SUB %d, %d: got %d (VF=%d)", a, b, vm.V[1], vm.V[0xF])
			}
		}
	}
}

func TestSubNBorrow(t *testing.T) {
	vm := newTestVM(t)

	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			vm.V[1], vm.V[2] = byte(a), byte(b)
			assert.NoError(t, vm.execute(SubN{X: 1, Y: 2}))

			flag := byte(0)
			if b >= a {
				flag = 1
			}
			if vm.V[1] != byte(b-a) || vm.V[0xF] != flag {
				t.Fatalf("SUBN %d, %d: got %d (VF=%d)", a, b, vm.V[1], vm.V[0xF])
			}
		}
	}
}

func TestFlagWinsOverResult(t *testing.T) {
	vm := newTestVM(t, 0x8F14, 0x8F15, 0x8F0E)
	vm.V[0xF] = 200
	vm.V[1] = 100

	run(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[0xF])

	vm.V[0xF] = 5
	vm.V[1] = 6
	run(t, vm, 1)
	assert.Equal(t, byte(0), vm.V[0xF])

	vm.V[0xF] = 0x80
	run(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[0xF])
}

func TestBitwise(t *testing.T) {
	vm := newTestVM(t, 0x8011, 0x8022, 0x8033, 0x8040)
	vm.V[0] = 0xF0
	vm.V[1] = 0x0C
	vm.V[2] = 0x3C
	vm.V[3] = 0xFF
	vm.V[4] = 0x42
	vm.V[0xF] = 9

	run(t, vm, 1)
	assert.Equal(t, byte(0xFC), vm.V[0])
	run(t, vm, 1)
	assert.Equal(t, byte(0x3C), vm.V[0])
	run(t, vm, 1)
	assert.Equal(t, byte(0xC3), vm.V[0])
	run(t, vm, 1)
	assert.Equal(t, byte(0x42), vm.V[0])
	assert.Equal(t, byte(9), vm.V[0xF])
}

func TestShifts(t *testing.T) {
	vm := newTestVM(t, 0x8106, 0x8106, 0x810E, 0x810E)
	vm.V[1] = 0x81

	run(t, vm, 1)
	assert.Equal(t, byte(0x40), vm.V[1])
	assert.Equal(t, byte(1), vm.V[0xF])

	run(t, vm, 1)
	assert.Equal(t, byte(0x20), vm.V[1])
	assert.Equal(t, byte(0), vm.V[0xF])

	vm.V[1] = 0x81
	run(t, vm, 1)
	assert.Equal(t, byte(0x02), vm.V[1])
	assert.Equal(t, byte(1), vm.V[0xF])

	run(t, vm, 1)
	assert.Equal(t, byte(0x04), vm.V[1])
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		skip bool
	}{
		{"SE taken", 0x3105, true},
		{"SE not taken", 0x3106, false},
		{"SNE taken", 0x4106, true},
		{"SNE not taken", 0x4105, false},
		{"SE reg taken", 0x5120, true},
		{"SE reg not taken", 0x5130, false},
		{"SNE reg taken", 0x9130, true},
		{"SNE reg not taken", 0x9120, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.word)
			vm.V[1] = 5
			vm.V[2] = 5
			vm.V[3] = 6
			run(t, vm, 1)

			if tt.skip {
				assert.Equal(t, uint16(0x204), vm.PC)
			} else {
				assert.Equal(t, uint16(0x202), vm.PC)
			}
		})
	}
}

func TestCallReturn(t *testing.T) {
	vm := newTestVM(t, 0x2206, 0x0000, 0x0000, 0x00EE)

	run(t, vm, 1)
	assert.Equal(t, uint16(0x206), vm.PC)
	assert.Equal(t, 1, len(vm.Stack))

	run(t, vm, 1)
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.Equal(t, 0, len(vm.Stack))
}

func TestStackUnderflow(t *testing.T) {
	vm := newTestVM(t, 0x00EE)

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x200), fault.Address)
	assert.Equal(t, uint16(0x00EE), fault.Opcode)

	// the machine stays halted on the same fault
	assert.Equal(t, err, vm.Step())
	assert.Equal(t, err, vm.Halted())
	assert.Equal(t, int64(0), vm.Cycles)

	vm.Reset()
	assert.NoError(t, vm.Halted())
	assert.Equal(t, uint16(0x200), vm.PC)
}

func TestStackOverflow(t *testing.T) {
	vm := newTestVM(t, 0x2200)
	run(t, vm, StackDepth)
	assert.Equal(t, StackDepth, len(vm.Stack))

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestInvalidOpcodeFaults(t *testing.T) {
	vm := newTestVM(t, 0x6001, 0xFFFF)
	run(t, vm, 1)

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrInvalidOpcode))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x202), fault.Address)
	assert.Equal(t, uint16(0xFFFF), fault.Opcode)
	assert.Equal(t, "fault at #0202 (opcode #FFFF): invalid opcode: #FFFF", err.Error())
}

func TestFetchOutOfRange(t *testing.T) {
	vm := newTestVM(t, 0x1FFF)
	run(t, vm, 1)
	assert.Equal(t, uint16(0xFFF), vm.PC)

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0xFFF), fault.Address)
	assert.Equal(t, uint16(0), fault.Opcode)
}

func TestJumps(t *testing.T) {
	vm := newTestVM(t, 0xB300)
	vm.V[0] = 4
	run(t, vm, 1)
	assert.Equal(t, uint16(0x304), vm.PC)

	vm = newTestVM(t, 0x1234)
	run(t, vm, 1)
	assert.Equal(t, uint16(0x234), vm.PC)
}

func TestTimers(t *testing.T) {
	// LD V0, 3; LD DT, V0; LD ST, V0; JP self
	vm := newTestVM(t, 0x6003, 0xF015, 0xF018, 0x1206)

	run(t, vm, 2)
	assert.Equal(t, byte(3), vm.DT)

	// timers tick before the instruction executes
	run(t, vm, 1)
	assert.Equal(t, byte(2), vm.DT)
	assert.Equal(t, byte(3), vm.ST)
	assert.True(t, vm.Beeping())

	run(t, vm, 300)
	assert.Equal(t, byte(0), vm.DT)
	assert.Equal(t, byte(0), vm.ST)
	assert.False(t, vm.Beeping())
}

func TestGetDelay(t *testing.T) {
	vm := newTestVM(t, 0xF507)
	vm.DT = 10
	run(t, vm, 1)
	assert.Equal(t, byte(9), vm.V[5])
}

func TestGetKeySpins(t *testing.T) {
	vm := newTestVM(t, 0xF00A)
	vm.V[0] = 0x33

	run(t, vm, 1)
	assert.Equal(t, uint16(0x200), vm.PC)
	assert.Equal(t, byte(0x33), vm.V[0])

	run(t, vm, 5)
	assert.Equal(t, uint16(0x200), vm.PC)

	vm.PressKey(0x7)
	run(t, vm, 1)
	assert.Equal(t, byte(7), vm.V[0])
	assert.Equal(t, uint16(0x202), vm.PC)
}

func TestKeyLatch(t *testing.T) {
	vm := newTestVM(t, 0xE19E, 0xE1A1, 0xE19E, 0xE1A1)
	vm.V[1] = 0xF3

	// only the low nibble of VX is compared
	vm.PressKey(0x3)
	run(t, vm, 1)
	assert.Equal(t, uint16(0x204), vm.PC)

	vm.PC = 0x202
	run(t, vm, 1)
	assert.Equal(t, uint16(0x204), vm.PC)

	// a second press replaces the latch, releasing any key clears it
	vm.PressKey(0x5)
	vm.PressKey(0x3)
	vm.ReleaseKey(0x5)
	vm.PressKey(0x10)

	vm.PC = 0x200
	run(t, vm, 1)
	assert.Equal(t, uint16(0x202), vm.PC)
	run(t, vm, 1)
	assert.Equal(t, uint16(0x206), vm.PC)
}

func TestDrawTwiceRestores(t *testing.T) {
	// LD V0, 10; LD V1, 5; LD F, V0; DRW V0, V1, 5; DRW V0, V1, 5
	vm := newTestVM(t, 0x600A, 0x6105, 0xF029, 0xD015, 0xD015)
	vm.video[6][10] = true
	before := vm.Frame()

	run(t, vm, 4)
	assert.Equal(t, byte(1), vm.V[0xF])
	assert.False(t, vm.Pixel(10, 6))
	assert.True(t, vm.Pixel(13, 6))

	run(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[0xF])
	assert.Equal(t, before, vm.Frame())
}

func TestDrawNoCollision(t *testing.T) {
	vm := newTestVM(t, 0xA050, 0xD015)
	vm.V[0xF] = 1
	run(t, vm, 2)

	assert.Equal(t, byte(0), vm.V[0xF])
	assert.Equal(t, 14, lit(vm.Frame()))
	assert.True(t, vm.Pixel(0, 0))
	assert.True(t, vm.Pixel(3, 0))
	assert.False(t, vm.Pixel(1, 1))
}

func TestDrawClips(t *testing.T) {
	vm := newTestVM(t, 0xA300, 0xD014)
	vm.Memory[0x300] = 0xFF
	vm.Memory[0x301] = 0xFF
	vm.Memory[0x302] = 0xFF
	vm.Memory[0x303] = 0xFF
	vm.V[0] = 62
	vm.V[1] = 30
	run(t, vm, 2)

	assert.Equal(t, 4, lit(vm.Frame()))
	assert.True(t, vm.Pixel(62, 30))
	assert.True(t, vm.Pixel(63, 31))
	assert.False(t, vm.Pixel(0, 30))
	assert.False(t, vm.Pixel(62, 0))
}

func TestDrawOriginWraps(t *testing.T) {
	vm := newTestVM(t, 0xA300, 0xD011)
	vm.Memory[0x300] = 0x80
	vm.V[0] = 66
	vm.V[1] = 33
	run(t, vm, 2)

	assert.Equal(t, 1, lit(vm.Frame()))
	assert.True(t, vm.Pixel(2, 1))
}

func TestDrawIndexOutOfRange(t *testing.T) {
	vm := newTestVM(t, 0xAFFF, 0xD012)
	err := vm.Step()
	assert.NoError(t, err)

	err = vm.Step()
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))

	// the row past the end of memory is clipped, so never read
	vm = newTestVM(t, 0xAFFF, 0xD012)
	vm.V[1] = 31
	run(t, vm, 2)
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value    byte
		expected [3]byte
	}{
		{0, [3]byte{0, 0, 0}},
		{7, [3]byte{0, 0, 7}},
		{42, [3]byte{0, 4, 2}},
		{100, [3]byte{1, 0, 0}},
		{254, [3]byte{2, 5, 4}},
		{255, [3]byte{2, 5, 5}},
	}

	for _, tt := range tests {
		vm := newTestVM(t, 0xA300, 0xF233)
		vm.V[2] = tt.value
		run(t, vm, 2)

		var digits [3]byte
		copy(digits[:], vm.Memory[0x300:0x303])
		assert.Equal(t, tt.expected, digits)
	}

	vm := newTestVM(t, 0xAFFE, 0xF033)
	run(t, vm, 1)
	assert.True(t, errors.Is(vm.Step(), ErrAddressOutOfRange))
}

func TestFontAddr(t *testing.T) {
	vm := newTestVM(t, 0xF429)
	vm.V[4] = 0x1A
	run(t, vm, 1)
	assert.Equal(t, uint16(FontStart+5*0xA), vm.I)
}

func TestIndex(t *testing.T) {
	vm := newTestVM(t, 0xA123, 0xF31E)
	vm.V[3] = 0xFF
	vm.V[0xF] = 7
	run(t, vm, 2)
	assert.Equal(t, uint16(0x222), vm.I)
	assert.Equal(t, byte(7), vm.V[0xF])
}

func TestRegisterBlock(t *testing.T) {
	vm := newTestVM(t, 0xA300, 0xF355, 0xF365)
	vm.V = [16]byte{1, 2, 3, 4, 5}
	run(t, vm, 2)

	assert.Equal(t, []byte{1, 2, 3, 4, 0}, vm.Memory[0x300:0x305])
	assert.Equal(t, uint16(0x300), vm.I)

	vm.V = [16]byte{}
	vm.Memory[0x300] = 9
	run(t, vm, 1)
	assert.Equal(t, [16]byte{9, 2, 3, 4}, vm.V)

	vm = newTestVM(t, 0xAFFE, 0xF255)
	run(t, vm, 1)
	assert.True(t, errors.Is(vm.Step(), ErrAddressOutOfRange))
}

func TestRandomIsMasked(t *testing.T) {
	vm := newTestVM(t, 0xC00F, 0x1200)

	for i := 0; i < 100; i++ {
		vm.V[0] = 0xFF
		run(t, vm, 2)
		assert.Equal(t, byte(0), vm.V[0]&0xF0)
	}

	vm = newTestVM(t, 0xC000)
	vm.V[0] = 0xFF
	run(t, vm, 1)
	assert.Equal(t, byte(0), vm.V[0])
}

func TestTrace(t *testing.T) {
	vm := newTestVM(t, 0x6005, 0x7003)

	var trace []uint16
	vm.Trace = func(address uint16, inst Instruction) {
		trace = append(trace, address)
	}
	run(t, vm, 2)

	assert.Equal(t, []uint16{0x200, 0x202}, trace)
}

func TestReset(t *testing.T) {
	vm := newTestVM(t, 0x6005, 0xA050, 0xD015, 0x2200)
	vm.PressKey(1)
	run(t, vm, 4)
	vm.Memory[0x300] = 0xAA

	vm.Reset()

	assert.Equal(t, uint16(0x200), vm.PC)
	assert.Equal(t, uint16(0), vm.I)
	assert.Equal(t, [16]byte{}, vm.V)
	assert.Equal(t, 0, len(vm.Stack))
	assert.Equal(t, 0, lit(vm.Frame()))
	assert.Equal(t, byte(0), vm.Memory[0x300])
	assert.Equal(t, int64(0), vm.Cycles)
	assert.False(t, vm.pressed)
}
