/*
 * S2200 - Base registers
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

// Number of base registers.
const BaseRegisters = 32

// Bank bound to a base register. Never modified once built, a new register
// is constructed for every load.
type BaseRegister struct {
	Void                 bool
	Type                 Type
	BaseAddress          AbsoluteAddress
	LargeSize            bool
	LowerLimitNormalized uint64
	UpperLimitNormalized uint64
	Lock                 AccessInfo
	GeneralPerms         Permissions
	SpecialPerms         Permissions
}

var VoidBaseRegister = BaseRegister{Void: true}

// Build register from a descriptor.
func NewBaseRegister(bd *Descriptor) BaseRegister {
	if bd == nil {
		return VoidBaseRegister
	}
	br := BaseRegister{
		Type:                 bd.Type,
		BaseAddress:          bd.BaseAddress,
		LargeSize:            bd.LargeBank,
		LowerLimitNormalized: bd.LowerLimitNormalized(),
		UpperLimitNormalized: bd.UpperLimitNormalized(),
		Lock:                 bd.Lock,
		GeneralPerms:         bd.GeneralPerms,
		SpecialPerms:         bd.SpecialPerms,
	}
	br.Void = br.LowerLimitNormalized > br.UpperLimitNormalized
	return br
}

// Build register covering the part of a bank starting at offset. Limits are
// rebased so relative address 0 is offset in the original bank.
func NewSubsetBaseRegister(bd *Descriptor, offset uint64) BaseRegister {
	br := NewBaseRegister(bd)
	if bd == nil {
		return br
	}
	lower := int64(bd.LowerLimitNormalized()) - int64(offset)
	if lower < 0 {
		lower = 0
	}
	upper := int64(bd.UpperLimitNormalized()) - int64(offset)
	br.BaseAddress = bd.BaseAddress.Add(int64(offset))
	if upper < 0 || lower > upper {
		br.Void = true
		br.LowerLimitNormalized = uint64(lower)
		br.UpperLimitNormalized = 0
		return br
	}
	br.LowerLimitNormalized = uint64(lower)
	br.UpperLimitNormalized = uint64(upper)
	br.Void = false
	return br
}

// Check relative address within limits.
func (br BaseRegister) Contains(relative uint64) bool {
	if br.Void {
		return false
	}
	return relative >= br.LowerLimitNormalized && relative <= br.UpperLimitNormalized
}

// Absolute address of a relative address.
func (br BaseRegister) Absolute(relative uint64) AbsoluteAddress {
	return br.BaseAddress.Add(int64(relative))
}

// Permissions key has to this bank.
func (br BaseRegister) Permissions(key AccessInfo) Permissions {
	return EffectivePermissions(key, br.Lock, br.GeneralPerms, br.SpecialPerms)
}

// Four word form for display and save areas.
func (br BaseRegister) Words() [4]uint64 {
	var words [4]uint64

	w0 := br.Lock.Word()
	if br.GeneralPerms.Read {
		w0 |= 0o200000_000000
	}
	if br.GeneralPerms.Write {
		w0 |= 0o100000_000000
	}
	if br.SpecialPerms.Read {
		w0 |= 0o020000_000000
	}
	if br.SpecialPerms.Write {
		w0 |= 0o010000_000000
	}
	if br.Void {
		w0 |= 0o000200_000000
	}
	lowerShift, upperShift := 9, 0
	if br.LargeSize {
		w0 |= 0o000004_000000
		lowerShift, upperShift = 15, 6
	}
	words[0] = w0
	words[1] = (((br.LowerLimitNormalized >> lowerShift) & 0o777) << 27) |
		((br.UpperLimitNormalized >> upperShift) & 0o777_777777)
	words[2], words[3] = br.BaseAddress.Words()
	return words
}

func (br BaseRegister) String() string {
	if br.Void {
		return "void"
	}
	return fmt.Sprintf("%s base=%s limits=%o-%o lock=%s GAP=%s SAP=%s",
		br.Type, br.BaseAddress, br.LowerLimitNormalized, br.UpperLimitNormalized,
		br.Lock, br.GeneralPerms, br.SpecialPerms)
}
