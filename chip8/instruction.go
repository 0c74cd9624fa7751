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

/// Instruction is a single decoded CHIP-8 instruction. There is one concrete
/// type per instruction form, each carrying only its own operands. X and Y
/// are always V-register indices.
///
type Instruction interface {
	fmt.Stringer

	// isInstruction restricts implementations to this package.
	isInstruction()
}

type (
	/// ClearScreen - 00E0
	///
	ClearScreen struct{}

	/// Return - 00EE
	///
	Return struct{}

	/// Jump - 1NNN
	///
	Jump struct{ Address uint16 }

	/// Call - 2NNN
	///
	Call struct{ Address uint16 }

	/// SkipEqual - 3XNN
	///
	SkipEqual struct{ X, Value byte }

	/// SkipNotEqual - 4XNN
	///
	SkipNotEqual struct{ X, Value byte }

	/// SkipRegEqual - 5XY0
	///
	SkipRegEqual struct{ X, Y byte }

	/// Set - 6XNN
	///
	Set struct{ X, Value byte }

	/// AddImmediate - 7XNN
	///
	AddImmediate struct{ X, Value byte }

	/// Store - 8XY0
	///
	Store struct{ X, Y byte }

	/// Or - 8XY1
	///
	Or struct{ X, Y byte }

	/// And - 8XY2
	///
	And struct{ X, Y byte }

	/// Xor - 8XY3
	///
	Xor struct{ X, Y byte }

	/// Add - 8XY4
	///
	Add struct{ X, Y byte }

	/// Sub - 8XY5
	///
	Sub struct{ X, Y byte }

	/// ShiftRight - 8XY6
	///
	ShiftRight struct{ X byte }

	/// SubN - 8XY7
	///
	SubN struct{ X, Y byte }

	/// ShiftLeft - 8XYE
	///
	ShiftLeft struct{ X byte }

	/// SkipRegNotEqual - 9XY0
	///
	SkipRegNotEqual struct{ X, Y byte }

	/// SetIndex - ANNN
	///
	SetIndex struct{ Address uint16 }

	/// JumpOffset - BNNN
	///
	JumpOffset struct{ Address uint16 }

	/// Random - CXNN
	///
	Random struct{ X, Mask byte }

	/// Draw - DXYN
	///
	Draw struct{ X, Y, Height byte }

	/// SkipKeyPressed - EX9E
	///
	SkipKeyPressed struct{ X byte }

	/// SkipKeyNotPressed - EXA1
	///
	SkipKeyNotPressed struct{ X byte }

	/// GetDelay - FX07
	///
	GetDelay struct{ X byte }

	/// GetKey - FX0A
	///
	GetKey struct{ X byte }

	/// SetDelay - FX15
	///
	SetDelay struct{ X byte }

	/// SetSound - FX18
	///
	SetSound struct{ X byte }

	/// AddIndex - FX1E
	///
	AddIndex struct{ X byte }

	/// FontAddr - FX29
	///
	FontAddr struct{ X byte }

	/// BCD - FX33
	///
	BCD struct{ X byte }

	/// StoreRegs - FX55
	///
	StoreRegs struct{ X byte }

	/// LoadRegs - FX65
	///
	LoadRegs struct{ X byte }
)

func (ClearScreen) isInstruction()       {}
func (Return) isInstruction()            {}
func (Jump) isInstruction()              {}
func (Call) isInstruction()              {}
func (SkipEqual) isInstruction()         {}
func (SkipNotEqual) isInstruction()      {}
func (SkipRegEqual) isInstruction()      {}
func (Set) isInstruction()               {}
func (AddImmediate) isInstruction()      {}
func (Store) isInstruction()             {}
func (Or) isInstruction()                {}
func (And) isInstruction()               {}
func (Xor) isInstruction()               {}
func (Add) isInstruction()               {}
func (Sub) isInstruction()               {}
func (ShiftRight) isInstruction()        {}
func (SubN) isInstruction()              {}
func (ShiftLeft) isInstruction()         {}
func (SkipRegNotEqual) isInstruction()   {}
func (SetIndex) isInstruction()          {}
func (JumpOffset) isInstruction()        {}
func (Random) isInstruction()            {}
func (Draw) isInstruction()              {}
func (SkipKeyPressed) isInstruction()    {}
func (SkipKeyNotPressed) isInstruction() {}
func (GetDelay) isInstruction()          {}
func (GetKey) isInstruction()            {}
func (SetDelay) isInstruction()          {}
func (SetSound) isInstruction()          {}
func (AddIndex) isInstruction()          {}
func (FontAddr) isInstruction()          {}
func (BCD) isInstruction()               {}
func (StoreRegs) isInstruction()         {}
func (LoadRegs) isInstruction()          {}

// The mnemonics follow the common Cowgod syntax.

func (ClearScreen) String() string       { return "CLS" }
func (Return) String() string            { return "RET" }
func (i Jump) String() string            { return fmt.Sprintf("JP     #%04X", i.Address) }
func (i Call) String() string            { return fmt.Sprintf("CALL   #%04X", i.Address) }
func (i SkipEqual) String() string       { return fmt.Sprintf("SE     V%X, #%02X", i.X, i.Value) }
func (i SkipNotEqual) String() string    { return fmt.Sprintf("SNE    V%X, #%02X", i.X, i.Value) }
func (i SkipRegEqual) String() string    { return fmt.Sprintf("SE     V%X, V%X", i.X, i.Y) }
func (i Set) String() string             { return fmt.Sprintf("LD     V%X, #%02X", i.X, i.Value) }
func (i AddImmediate) String() string    { return fmt.Sprintf("ADD    V%X, #%02X", i.X, i.Value) }
func (i Store) String() string           { return fmt.Sprintf("LD     V%X, V%X", i.X, i.Y) }
func (i Or) String() string              { return fmt.Sprintf("OR     V%X, V%X", i.X, i.Y) }
func (i And) String() string             { return fmt.Sprintf("AND    V%X, V%X", i.X, i.Y) }
func (i Xor) String() string             { return fmt.Sprintf("XOR    V%X, V%X", i.X, i.Y) }
func (i Add) String() string             { return fmt.Sprintf("ADD    V%X, V%X", i.X, i.Y) }
func (i Sub) String() string             { return fmt.Sprintf("SUB    V%X, V%X", i.X, i.Y) }
func (i ShiftRight) String() string      { return fmt.Sprintf("SHR    V%X", i.X) }
func (i SubN) String() string            { return fmt.Sprintf("SUBN   V%X, V%X", i.X, i.Y) }
func (i ShiftLeft) String() string       { return fmt.Sprintf("SHL    V%X", i.X) }
func (i SkipRegNotEqual) String() string { return fmt.Sprintf("SNE    V%X, V%X", i.X, i.Y) }
func (i SetIndex) String() string        { return fmt.Sprintf("LD     I, #%04X", i.Address) }
func (i JumpOffset) String() string      { return fmt.Sprintf("JP     V0, #%04X", i.Address) }
func (i Random) String() string          { return fmt.Sprintf("RND    V%X, #%02X", i.X, i.Mask) }
func (i Draw) String() string            { return fmt.Sprintf("DRW    V%X, V%X, %d", i.X, i.Y, i.Height) }
func (i SkipKeyPressed) String() string  { return fmt.Sprintf("SKP    V%X", i.X) }
func (i SkipKeyNotPressed) String() string {
	return fmt.Sprintf("SKNP   V%X", i.X)
}
func (i GetDelay) String() string  { return fmt.Sprintf("LD     V%X, DT", i.X) }
func (i GetKey) String() string    { return fmt.Sprintf("LD     V%X, K", i.X) }
func (i SetDelay) String() string  { return fmt.Sprintf("LD     DT, V%X", i.X) }
func (i SetSound) String() string  { return fmt.Sprintf("LD     ST, V%X", i.X) }
func (i AddIndex) String() string  { return fmt.Sprintf("ADD    I, V%X", i.X) }
func (i FontAddr) String() string  { return fmt.Sprintf("LD     F, V%X", i.X) }
func (i BCD) String() string       { return fmt.Sprintf("LD     B, V%X", i.X) }
func (i StoreRegs) String() string { return fmt.Sprintf("LD     [I], V%X", i.X) }
func (i LoadRegs) String() string  { return fmt.Sprintf("LD     V%X, [I]", i.X) }
