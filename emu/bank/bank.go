/*
 * S2200 - Bank types and access control
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

import (
	"errors"
	"fmt"
)

const (
	WordMask uint64 = 0o777777_777777 // 36 bit word.
	H1Mask   uint64 = 0o777777_000000 // Upper half word.
	H2Mask   uint64 = 0o000000_777777 // Lower half word.
)

// Upper half of a word.
func H1(word uint64) uint64 {
	return (word >> 18) & H2Mask
}

// Lower half of a word.
func H2(word uint64) uint64 {
	return word & H2Mask
}

// Bank descriptor type codes.
type Type uint8

const (
	ExtendedModeBank    Type = 0 // Extended mode bank.
	BasicModeBank       Type = 1 // Basic mode bank.
	GateBank            Type = 2 // Gate bank.
	IndirectBank        Type = 3 // Indirect bank, names another bank.
	QueueBank           Type = 4 // Queue bank.
	QueueRepositoryBank Type = 6 // Queue bank repository.
)

var ErrInvalidBankType = errors.New("invalid bank-type code")

var typeNames = map[Type]string{
	ExtendedModeBank:    "Extended",
	BasicModeBank:       "Basic",
	GateBank:            "Gate",
	IndirectBank:        "Indirect",
	QueueBank:           "Queue",
	QueueRepositoryBank: "QueueRepository",
}

func (t Type) String() string {
	name, ok := typeNames[t]
	if !ok {
		return fmt.Sprintf("Reserved(%o)", uint8(t))
	}
	return name
}

// Convert a 4 bit type code, reserved codes return error.
func TypeFromCode(code uint64) (Type, error) {
	t := Type(code & 0o17)
	if _, ok := typeNames[t]; !ok {
		return t, fmt.Errorf("%w: %o", ErrInvalidBankType, code&0o17)
	}
	return t, nil
}

// Enter, Read, Write permission triple.
type Permissions struct {
	Enter bool
	Read  bool
	Write bool
}

// Decode three bit E,R,W field.
func NewPermissions(bits uint64) Permissions {
	return Permissions{
		Enter: (bits & 0o4) != 0,
		Read:  (bits & 0o2) != 0,
		Write: (bits & 0o1) != 0,
	}
}

// Three bit E,R,W field.
func (p Permissions) Bits() uint64 {
	bits := uint64(0)
	if p.Enter {
		bits |= 0o4
	}
	if p.Read {
		bits |= 0o2
	}
	if p.Write {
		bits |= 0o1
	}
	return bits
}

func (p Permissions) String() string {
	str := []byte("---")
	if p.Enter {
		str[0] = 'E'
	}
	if p.Read {
		str[1] = 'R'
	}
	if p.Write {
		str[2] = 'W'
	}
	return string(str)
}

// Ring and domain, used for both access keys and access locks.
type AccessInfo struct {
	Ring   uint8  // Privilege ring 0-3.
	Domain uint16 // Owning domain.
}

// Decode 18 bit key or lock.
func NewAccessInfo(value uint64) AccessInfo {
	return AccessInfo{
		Ring:   uint8((value >> 16) & 0o3),
		Domain: uint16(value & 0o177777),
	}
}

// Return 18 bit value.
func (a AccessInfo) Word() uint64 {
	return (uint64(a.Ring&0o3) << 16) | uint64(a.Domain)
}

func (a AccessInfo) String() string {
	return fmt.Sprintf("%o,%06o", a.Ring, a.Domain)
}

// Select the permission set a key gets against a lock. Keys in a higher
// domain or matching the lock exactly get the special set.
func EffectivePermissions(key, lock AccessInfo, general, special Permissions) Permissions {
	if key.Domain > lock.Domain || key == lock {
		return special
	}
	return general
}

// Level and bank descriptor index naming one bank.
type LevelBDI struct {
	Level uint8  // Bank descriptor table level 0-7.
	BDI   uint16 // Index into table.
}

// Decode L,BDI held in upper half of a word.
func LevelBDIFromWord(word uint64) LevelBDI {
	return LevelBDI{
		Level: uint8((word >> 33) & 0o7),
		BDI:   uint16((word >> 18) & 0o77777),
	}
}

// Place L,BDI in upper half of a word.
func (l LevelBDI) Word() uint64 {
	return (uint64(l.Level&0o7) << 33) | (uint64(l.BDI&0o77777) << 18)
}

// Level 0 bank index 0 names the void bank.
func (l LevelBDI) IsVoid() bool {
	return l.Level == 0 && l.BDI == 0
}

// Level 0 indexes 1 through 31 are reserved for interrupt vectors.
func (l LevelBDI) IsReserved() bool {
	return l.Level == 0 && l.BDI > 0 && l.BDI < 32
}

func (l LevelBDI) String() string {
	return fmt.Sprintf("%o,%05o", l.Level, l.BDI)
}
