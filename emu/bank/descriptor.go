/*
 * S2200 - Bank descriptor
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

// Words in a bank descriptor, also stride of the descriptor table.
const DescriptorWords = 8

// Word 0 fields.
const (
	bdGAPShift     = 33
	bdSAPShift     = 30
	bdTypeShift    = 24
	bdGeneralFault = uint64(0o000020_000000)
	bdLargeBank    = uint64(0o000004_000000)
	bdUpperSuppr   = uint64(0o000002_000000)
)

// Decoded bank descriptor. For indirect banks the limit fields are not
// used and word 1 upper half holds the L,BDI of the target bank instead.
type Descriptor struct {
	Type          Type
	GeneralPerms  Permissions // GAP.
	SpecialPerms  Permissions // SAP.
	GeneralFault  bool        // G bit.
	LargeBank     bool        // S bit.
	UpperSuppress bool        // U bit.
	Lock          AccessInfo
	LowerLimit    uint32 // Raw 9 bit lower limit.
	UpperLimit    uint32 // Raw 27 bit upper limit.
	Target        LevelBDI
	BaseAddress   AbsoluteAddress
	Displacement  uint16
	Reserved      [3]uint64 // Words 5-7.
}

// Decode descriptor words. Only an unknown type code is an error.
func DecodeDescriptor(words [DescriptorWords]uint64) (*Descriptor, error) {
	w0 := words[0] & WordMask
	ty, err := TypeFromCode(w0 >> bdTypeShift)
	if err != nil {
		return nil, err
	}

	bd := &Descriptor{
		Type:          ty,
		GeneralPerms:  NewPermissions(w0 >> bdGAPShift),
		SpecialPerms:  NewPermissions(w0 >> bdSAPShift),
		GeneralFault:  (w0 & bdGeneralFault) != 0,
		LargeBank:     (w0 & bdLargeBank) != 0,
		UpperSuppress: (w0 & bdUpperSuppr) != 0,
		Lock:          NewAccessInfo(H2(w0)),
		BaseAddress:   AbsoluteAddressFromWords(words[2], words[3]),
		Displacement:  uint16((words[4] >> 18) & 0o77777),
	}

	w1 := words[1] & WordMask
	if ty == IndirectBank {
		bd.Target = LevelBDIFromWord(w1)
	} else {
		bd.LowerLimit = uint32((w1 >> 27) & 0o777)
		bd.UpperLimit = uint32(w1 & 0o777_777777)
	}
	copy(bd.Reserved[:], words[5:])
	return bd, nil
}

// Encode descriptor to table form.
func (bd *Descriptor) Encode() [DescriptorWords]uint64 {
	var words [DescriptorWords]uint64

	w0 := (bd.GeneralPerms.Bits() << bdGAPShift) |
		(bd.SpecialPerms.Bits() << bdSAPShift) |
		(uint64(bd.Type&0o17) << bdTypeShift) |
		bd.Lock.Word()
	if bd.GeneralFault {
		w0 |= bdGeneralFault
	}
	if bd.LargeBank {
		w0 |= bdLargeBank
	}
	if bd.UpperSuppress {
		w0 |= bdUpperSuppr
	}
	words[0] = w0

	if bd.Type == IndirectBank {
		words[1] = bd.Target.Word()
	} else {
		words[1] = (uint64(bd.LowerLimit&0o777) << 27) | (uint64(bd.UpperLimit) & 0o777_777777)
	}
	words[2], words[3] = bd.BaseAddress.Words()
	words[4] = uint64(bd.Displacement&0o77777) << 18
	copy(words[5:], bd.Reserved[:])
	return words
}

// Lower limit in words.
func (bd *Descriptor) LowerLimitNormalized() uint64 {
	if bd.LargeBank {
		return uint64(bd.LowerLimit) << 15
	}
	return uint64(bd.LowerLimit) << 9
}

// Upper limit in words.
func (bd *Descriptor) UpperLimitNormalized() uint64 {
	if bd.LargeBank {
		return uint64(bd.UpperLimit) << 6
	}
	return uint64(bd.UpperLimit)
}

// Check if either permission set allows enter.
func (bd *Descriptor) CanEnter() bool {
	return bd.GeneralPerms.Enter || bd.SpecialPerms.Enter
}

func (bd *Descriptor) String() string {
	if bd.Type == IndirectBank {
		return fmt.Sprintf("%s G=%t target=%s", bd.Type, bd.GeneralFault, bd.Target)
	}
	return fmt.Sprintf("%s GAP=%s SAP=%s lock=%s limits=%o-%o base=%s",
		bd.Type, bd.GeneralPerms, bd.SpecialPerms, bd.Lock,
		bd.LowerLimitNormalized(), bd.UpperLimitNormalized(), bd.BaseAddress)
}
