/*
 * S2200 - Absolute and virtual addresses
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

package bank

import "fmt"

// Location of a word in a storage module.
type AbsoluteAddress struct {
	UPI     uint16 // Processor index of storage module.
	Segment uint32 // Segment within module.
	Offset  int64  // Word offset, may be negative before limits are applied.
}

const (
	segmentMask uint64 = 0x1ffffff
	offsetMask  uint64 = 0xffffffff
)

// Decode two word form used by bank descriptors.
func AbsoluteAddressFromWords(word0, word1 uint64) AbsoluteAddress {
	return AbsoluteAddress{
		UPI:     uint16((word1 >> 32) & 0o17),
		Segment: uint32(word0 & segmentMask),
		Offset:  int64(int32(uint32(word1 & offsetMask))),
	}
}

// Two word form of address.
func (a AbsoluteAddress) Words() (uint64, uint64) {
	word0 := uint64(a.Segment) & segmentMask
	word1 := (uint64(a.UPI&0o17) << 32) | (uint64(uint32(int32(a.Offset))) & offsetMask)
	return word0, word1
}

// Return address displaced by offset.
func (a AbsoluteAddress) Add(offset int64) AbsoluteAddress {
	return AbsoluteAddress{UPI: a.UPI, Segment: a.Segment, Offset: a.Offset + offset}
}

func (a AbsoluteAddress) String() string {
	return fmt.Sprintf("%o:%o:%o", a.UPI, a.Segment, a.Offset)
}

// L,BDI and offset, the form held by the program address register.
type VirtualAddress struct {
	Level  uint8
	BDI    uint16
	Offset uint32
}

// Decode L bits 0-2, BDI bits 3-17, offset H2.
func NewVirtualAddress(word uint64) VirtualAddress {
	return VirtualAddress{
		Level:  uint8((word >> 33) & 0o7),
		BDI:    uint16((word >> 18) & 0o77777),
		Offset: uint32(H2(word)),
	}
}

func (v VirtualAddress) Word() uint64 {
	return v.LevelBDI().Word() | uint64(v.Offset&0o777777)
}

func (v VirtualAddress) LevelBDI() LevelBDI {
	return LevelBDI{Level: v.Level, BDI: v.BDI}
}

func (v VirtualAddress) String() string {
	return fmt.Sprintf("%o,%05o,%06o", v.Level, v.BDI, v.Offset)
}

// Basic mode linkage fields of an index register.
const (
	BasicExec      uint64 = 0o400000_000000 // Exec bank flag.
	BasicLevelSpec uint64 = 0o040000_000000 // Level spec flag.
)

// Convert L,BDI,offset to the basic mode E,LS,BDI,offset form. Banks whose
// index will not fit in 12 bits become the void bank.
func TranslateToBasicMode(level uint8, bdi uint16, offset uint32) uint64 {
	if bdi > 0o7777 {
		return BasicExec | BasicLevelSpec | uint64(offset&0o777777)
	}

	result := (uint64(bdi) << 18) | uint64(offset&0o777777)
	switch level {
	case 0:
		result |= BasicExec | BasicLevelSpec
	case 2:
		result |= BasicExec
	case 6:
		result |= BasicLevelSpec
	}
	return result
}

// Recover L,BDI from basic mode form.
func LevelBDIFromBasicMode(word uint64) LevelBDI {
	exec := (word & BasicExec) != 0
	levelSpec := (word & BasicLevelSpec) != 0
	var level uint8
	switch {
	case exec && levelSpec:
		level = 0
	case exec:
		level = 2
	case levelSpec:
		level = 6
	default:
		level = 4
	}
	return LevelBDI{Level: level, BDI: uint16((word >> 18) & 0o7777)}
}
