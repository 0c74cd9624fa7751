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

/// Decode a 16-bit instruction word. The word is split into four nibbles,
/// the first selects the instruction family and families 0, 5, 8, 9, E and
/// F are further qualified by their low nibble or low byte. Any word that
/// matches no form returns ErrInvalidOpcode.
///
func Decode(inst uint16) (Instruction, error) {
	// 12-bit address operand
	a := inst & 0xFFF

	// byte and nibble operands
	b := byte(inst & 0xFF)
	n := byte(inst & 0xF)

	// x and y register operands
	x := byte(inst >> 8 & 0xF)
	y := byte(inst >> 4 & 0xF)

	switch inst >> 12 {
	case 0x0:
		switch inst {
		case 0x00E0:
			return ClearScreen{}, nil
		case 0x00EE:
			return Return{}, nil
		}
	case 0x1:
		return Jump{Address: a}, nil
	case 0x2:
		return Call{Address: a}, nil
	case 0x3:
		return SkipEqual{X: x, Value: b}, nil
	case 0x4:
		return SkipNotEqual{X: x, Value: b}, nil
	case 0x5:
		if n == 0 {
			return SkipRegEqual{X: x, Y: y}, nil
		}
	case 0x6:
		return Set{X: x, Value: b}, nil
	case 0x7:
		return AddImmediate{X: x, Value: b}, nil
	case 0x8:
		return decodeALU(x, y, n)
	case 0x9:
		if n == 0 {
			return SkipRegNotEqual{X: x, Y: y}, nil
		}
	case 0xA:
		return SetIndex{Address: a}, nil
	case 0xB:
		return JumpOffset{Address: a}, nil
	case 0xC:
		return Random{X: x, Mask: b}, nil
	case 0xD:
		return Draw{X: x, Y: y, Height: n}, nil
	case 0xE:
		switch b {
		case 0x9E:
			return SkipKeyPressed{X: x}, nil
		case 0xA1:
			return SkipKeyNotPressed{X: x}, nil
		}
	case 0xF:
		return decodeMisc(x, b)
	}

	return nil, fmt.Errorf("%w: #%04X", ErrInvalidOpcode, inst)
}

/// 8XYN register to register operations.
///
func decodeALU(x, y, n byte) (Instruction, error) {
	switch n {
	case 0x0:
		return Store{X: x, Y: y}, nil
	case 0x1:
		return Or{X: x, Y: y}, nil
	case 0x2:
		return And{X: x, Y: y}, nil
	case 0x3:
		return Xor{X: x, Y: y}, nil
	case 0x4:
		return Add{X: x, Y: y}, nil
	case 0x5:
		return Sub{X: x, Y: y}, nil
	case 0x6:
		return ShiftRight{X: x}, nil
	case 0x7:
		return SubN{X: x, Y: y}, nil
	case 0xE:
		return ShiftLeft{X: x}, nil
	}

	return nil, fmt.Errorf("%w: #8%X%X%X", ErrInvalidOpcode, x, y, n)
}

/// FXNN timer, key, index and register block operations.
///
func decodeMisc(x, b byte) (Instruction, error) {
	switch b {
	case 0x07:
		return GetDelay{X: x}, nil
	case 0x0A:
		return GetKey{X: x}, nil
	case 0x15:
		return SetDelay{X: x}, nil
	case 0x18:
		return SetSound{X: x}, nil
	case 0x1E:
		return AddIndex{X: x}, nil
	case 0x29:
		return FontAddr{X: x}, nil
	case 0x33:
		return BCD{X: x}, nil
	case 0x55:
		return StoreRegs{X: x}, nil
	case 0x65:
		return LoadRegs{X: x}, nil
	}

	return nil, fmt.Errorf("%w: #F%X%02X", ErrInvalidOpcode, x, b)
}
