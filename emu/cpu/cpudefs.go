/*
 * S2200 - CPU definitions
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package cpu

import "github.com/rcornwell/S2200/emu/bank"

// Base registers with fixed uses.
const (
	L0BDTBaseRegister  = 16 // Level 0 bank descriptor table, B16+level for others.
	RCSBaseRegister    = 25 // Return control stack.
	ICSBaseRegister    = 26 // Interrupt control stack.
	ActiveBaseEntries  = 15 // B1 through B15.
	BasicModeFirstBase = 12 // B12 through B15 used in basic mode.
)

// General register set layout.
const (
	GRSSize   = 0o200
	X0        = 0o000 // User index registers.
	A0        = 0o014 // User accumulators.
	R0        = 0o100 // User R registers.
	ER0       = 0o120 // Exec R registers.
	EX0       = 0o140 // Exec index registers.
	EA0       = 0o154 // Exec accumulators.
	RCSIndex  = EX0   // Exec X0 holds RCS frame pointer.
	ICSIndex  = EX0 + 1
	X11Offset = 11
)

// Designator register bits.
const (
	DB0ActivityLevelQueueMonitor uint64 = 1 << 35
	DB6FaultHandling             uint64 = 1 << 29
	DB11Exec24BitIndexing        uint64 = 1 << 24
	DB12QuantumTimer             uint64 = 1 << 23
	DB13Deferrable               uint64 = 1 << 22
	DB14ProcessorPrivilege       uint64 = 3 << 20 // DB14-15.
	DB16BasicMode                uint64 = 1 << 19
	DB17ExecRegisterSet          uint64 = 1 << 18
	DB18Carry                    uint64 = 1 << 17
	DB19Overflow                 uint64 = 1 << 16
	DB21CharUnderflow            uint64 = 1 << 14
	DB22CharOverflow             uint64 = 1 << 13
	DB23DivideCheck              uint64 = 1 << 12
	DB27OperationTrap            uint64 = 1 << 8
	DB29ArithmeticException      uint64 = 1 << 6
	DB31BasicModeBaseSelection   uint64 = 1 << 4
	DB32QuarterWord              uint64 = 1 << 3
)

// Instruction word fields.
const (
	instFShift = 30
	instJShift = 26
	instAShift = 22
	instXShift = 18
)

// Decoded fields of the instruction being executed.
type Instruction uint64

func (i Instruction) F() int { return int((uint64(i) >> instFShift) & 0o77) }
func (i Instruction) J() int { return int((uint64(i) >> instJShift) & 0o17) }
func (i Instruction) A() int { return int((uint64(i) >> instAShift) & 0o17) }
func (i Instruction) X() int { return int((uint64(i) >> instXShift) & 0o17) }
func (i Instruction) U() uint64 {
	return uint64(i) & 0o177777
}

// Build instruction word from fields.
func NewInstruction(f, j, a, x int, u uint64) Instruction {
	return Instruction((uint64(f&0o77) << instFShift) | (uint64(j&0o17) << instJShift) |
		(uint64(a&0o17) << instAShift) | (uint64(x&0o17) << instXShift) | (u & 0o177777))
}

// Processor words are kept to 36 bits.
func mask(v uint64) uint64 {
	return v & bank.WordMask
}
