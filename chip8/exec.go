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

/// Execute a decoded instruction against the machine. The program counter
/// has already been advanced past the instruction.
///
func (vm *CHIP_8) execute(inst Instruction) error {
	switch op := inst.(type) {
	case ClearScreen:
		vm.cls()
	case Return:
		return vm.ret()
	case Jump:
		vm.jump(op.Address)
	case Call:
		return vm.call(op.Address)
	case SkipEqual:
		vm.skipIf(op.X, op.Value)
	case SkipNotEqual:
		vm.skipIfNot(op.X, op.Value)
	case SkipRegEqual:
		vm.skipIfXY(op.X, op.Y)
	case SkipRegNotEqual:
		vm.skipIfNotXY(op.X, op.Y)
	case Set:
		vm.loadX(op.X, op.Value)
	case AddImmediate:
		vm.addX(op.X, op.Value)
	case Store:
		vm.loadXY(op.X, op.Y)
	case Or:
		vm.or(op.X, op.Y)
	case And:
		vm.and(op.X, op.Y)
	case Xor:
		vm.xor(op.X, op.Y)
	case Add:
		vm.addXY(op.X, op.Y)
	case Sub:
		vm.subXY(op.X, op.Y)
	case ShiftRight:
		vm.shr(op.X)
	case SubN:
		vm.subYX(op.X, op.Y)
	case ShiftLeft:
		vm.shl(op.X)
	case SetIndex:
		vm.loadI(op.Address)
	case JumpOffset:
		vm.jumpV0(op.Address)
	case Random:
		vm.rnd(op.X, op.Mask)
	case Draw:
		return vm.drw(op.X, op.Y, op.Height)
	case SkipKeyPressed:
		vm.skipIfPressed(op.X)
	case SkipKeyNotPressed:
		vm.skipIfNotPressed(op.X)
	case GetDelay:
		vm.loadXDT(op.X)
	case GetKey:
		vm.loadXK(op.X)
	case SetDelay:
		vm.loadDTX(op.X)
	case SetSound:
		vm.loadSTX(op.X)
	case AddIndex:
		vm.addIX(op.X)
	case FontAddr:
		vm.loadF(op.X)
	case BCD:
		return vm.loadB(op.X)
	case StoreRegs:
		return vm.saveRegs(op.X)
	case LoadRegs:
		return vm.loadRegs(op.X)
	}

	return nil
}

/// Set the carry flag. Always written after the result so that VF holds the
/// flag when it is also the destination.
///
func (vm *CHIP_8) carry(set bool) {
	if set {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// Clear the video display memory.
///
func (vm *CHIP_8) cls() {
	vm.video = Frame{}
}

/// call a subroutine at address.
///
func (vm *CHIP_8) call(address uint16) error {
	if len(vm.Stack) >= StackDepth {
		return ErrStackOverflow
	}

	// push program counter onto stack
	vm.Stack = append(vm.Stack, vm.PC)

	// jump to address
	vm.PC = address

	return nil
}

/// return from subroutine.
///
func (vm *CHIP_8) ret() error {
	if len(vm.Stack) == 0 {
		return ErrStackUnderflow
	}

	// restore program counter
	vm.PC = vm.Stack[len(vm.Stack)-1]
	vm.Stack = vm.Stack[:len(vm.Stack)-1]

	return nil
}

/// jump to address.
///
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0. May land outside memory, which faults on fetch.
///
func (vm *CHIP_8) jumpV0(address uint16) {
	vm.PC = address + uint16(vm.V[0])
}

/// skip next instruction if vx == n.
///
func (vm *CHIP_8) skipIf(x, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip next instruction if vx != n.
///
func (vm *CHIP_8) skipIfNot(x, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip next instruction if vx == vy.
///
func (vm *CHIP_8) skipIfXY(x, y byte) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if vx != vy.
///
func (vm *CHIP_8) skipIfNotXY(x, y byte) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is latched.
///
func (vm *CHIP_8) skipIfPressed(x byte) {
	if vm.pressed && vm.key == vm.V[x]&0xF {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is not latched.
///
func (vm *CHIP_8) skipIfNotPressed(x byte) {
	if !vm.pressed || vm.key != vm.V[x]&0xF {
		vm.PC += 2
	}
}

/// load n into vx.
///
func (vm *CHIP_8) loadX(x, b byte) {
	vm.V[x] = b
}

/// load y into vx.
///
func (vm *CHIP_8) loadXY(x, y byte) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *CHIP_8) loadXDT(x byte) {
	vm.V[x] = vm.DT
}

/// load vx into delay timer.
///
func (vm *CHIP_8) loadDTX(x byte) {
	vm.DT = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *CHIP_8) loadSTX(x byte) {
	vm.ST = vm.V[x]
}

/// load vx with the latched key. With no key latched the program counter is
/// rewound so this instruction runs again on the next step.
///
func (vm *CHIP_8) loadXK(x byte) {
	if !vm.pressed {
		vm.PC -= 2
		return
	}

	vm.V[x] = vm.key
}

/// load address register.
///
func (vm *CHIP_8) loadI(address uint16) {
	vm.I = address
}

/// load address with BCD of vx.
///
func (vm *CHIP_8) loadB(x byte) error {
	mem, err := vm.Memory.Slice(uint(vm.I), 3)
	if err != nil {
		return err
	}

	n := uint16(vm.V[x])
	b := uint16(0)

	// double dabble: perform 8 shifts
	for i := uint(0); i < 8; i++ {
		if (b>>0)&0xF >= 5 {
			b += 3
		}
		if (b>>4)&0xF >= 5 {
			b += 3 << 4
		}

		// apply shift, pull next bit
		b = (b << 1) | (n >> (7 - i) & 1)
	}

	// write to memory
	mem[0] = byte(b>>8) & 0xF
	mem[1] = byte(b>>4) & 0xF
	mem[2] = byte(b>>0) & 0xF

	return nil
}

/// load font sprite for vx into I.
///
func (vm *CHIP_8) loadF(x byte) {
	vm.I = FontStart + uint16(vm.V[x]&0xF)*5
}

/// or vx with vy into vx.
///
func (vm *CHIP_8) or(x, y byte) {
	vm.V[x] |= vm.V[y]
}

/// and vx with vy into vx.
///
func (vm *CHIP_8) and(x, y byte) {
	vm.V[x] &= vm.V[y]
}

/// xor vx with vy into vx.
///
func (vm *CHIP_8) xor(x, y byte) {
	vm.V[x] ^= vm.V[y]
}

/// shl vx 1 bit, set carry to MSB of vx before shift.
///
func (vm *CHIP_8) shl(x byte) {
	msb := vm.V[x]&0x80 != 0

	vm.V[x] <<= 1
	vm.carry(msb)
}

/// shr vx 1 bit, set carry to LSB of vx before shift.
///
func (vm *CHIP_8) shr(x byte) {
	lsb := vm.V[x]&1 != 0

	vm.V[x] >>= 1
	vm.carry(lsb)
}

/// add n to vx, no carry.
///
func (vm *CHIP_8) addX(x, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry.
///
func (vm *CHIP_8) addXY(x, y byte) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.carry(sum > 0xFF)
}

/// add vx to i.
///
func (vm *CHIP_8) addIX(x byte) {
	vm.I += uint16(vm.V[x])
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *CHIP_8) subXY(x, y byte) {
	noBorrow := vm.V[x] >= vm.V[y]

	vm.V[x] -= vm.V[y]
	vm.carry(noBorrow)
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *CHIP_8) subYX(x, y byte) {
	noBorrow := vm.V[y] >= vm.V[x]

	vm.V[x] = vm.V[y] - vm.V[x]
	vm.carry(noBorrow)
}

/// load a random number & n into vx.
///
func (vm *CHIP_8) rnd(x, b byte) {
	vm.V[x] = byte(vm.Rand.Intn(256)) & b
}

/// draw a sprite at I to video memory at vx, vy. The origin wraps onto the
/// screen, but the sprite itself is clipped at the right and bottom edges.
/// VF is set if any lit pixel was turned off.
///
func (vm *CHIP_8) drw(x, y, n byte) error {
	c := false

	// origin pixel
	px := uint(vm.V[x] % Width)
	py := uint(vm.V[y] % Height)

	// draw each row of the sprite
	for row := uint(0); row < uint(n) && py+row < Height; row++ {
		s, err := vm.Memory.Read(uint(vm.I) + row)
		if err != nil {
			return err
		}

		line := &vm.video[py+row]

		for bit := uint(0); bit < 8 && px+bit < Width; bit++ {
			if s&(0x80>>bit) == 0 {
				continue
			}

			// was the pixel turned off?
			if line[px+bit] {
				c = true
			}

			line[px+bit] = !line[px+bit]
		}
	}

	// set carry flag if any collision occurred
	vm.carry(c)

	return nil
}

/// save registers v0..vx to I.
///
func (vm *CHIP_8) saveRegs(x byte) error {
	mem, err := vm.Memory.Slice(uint(vm.I), uint(x)+1)
	if err != nil {
		return err
	}

	copy(mem, vm.V[:x+1])
	return nil
}

/// load registers v0..vx from I.
///
func (vm *CHIP_8) loadRegs(x byte) error {
	mem, err := vm.Memory.Slice(uint(vm.I), uint(x)+1)
	if err != nil {
		return err
	}

	copy(vm.V[:x+1], mem)
	return nil
}
