/*
 * S2200 - Codec tests
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
	"testing"
)

// Patterns all zero, all one and each single bit.
func testPatterns() []uint64 {
	patterns := []uint64{0, WordMask}
	for bit := range 36 {
		patterns = append(patterns, uint64(1)<<bit)
	}
	return patterns
}

var validTypes = []Type{ExtendedModeBank, BasicModeBank, GateBank, IndirectBank, QueueBank, QueueRepositoryBank}

// Check descriptor fields survive decode and encode.
func TestDescriptorRoundTrip(t *testing.T) {
	typeMask := uint64(0o17) << 24
	word0Mask := uint64(0o770000_000000) | typeMask | bdGeneralFault | bdLargeBank | bdUpperSuppr | H2Mask
	masks := [DescriptorWords]uint64{
		word0Mask, WordMask, segmentMask, WordMask, uint64(0o77777) << 18, WordMask, WordMask, WordMask,
	}

	for _, pattern := range testPatterns() {
		for _, ty := range validTypes {
			var words [DescriptorWords]uint64
			for i := range words {
				words[i] = pattern
			}
			words[0] = (pattern &^ typeMask) | (uint64(ty) << 24)

			bd, err := DecodeDescriptor(words)
			if err != nil {
				t.Errorf("Decode pattern %012o type %s failed: %v", pattern, ty, err)
				continue
			}
			if bd.Type != ty {
				t.Errorf("Type not correct got: %s expected: %s", bd.Type, ty)
			}
			out := bd.Encode()
			for i := range words {
				mask := masks[i]
				if i == 1 && ty == IndirectBank {
					mask = H1Mask
				}
				if (out[i] & mask) != (words[i] & mask) {
					t.Errorf("Pattern %012o type %s word %d got: %012o expected: %012o",
						pattern, ty, i, out[i]&mask, words[i]&mask)
				}
			}
		}
	}
}

// Check reserved type codes fail decode.
func TestDescriptorInvalidType(t *testing.T) {
	for _, code := range []uint64{5, 7, 8, 0o17} {
		var words [DescriptorWords]uint64
		words[0] = code << 24
		_, err := DecodeDescriptor(words)
		if !errors.Is(err, ErrInvalidBankType) {
			t.Errorf("Type %o did not fail: %v", code, err)
		}
	}
}

// Check individual descriptor fields.
func TestDescriptorFields(t *testing.T) {
	var words [DescriptorWords]uint64
	words[0] = 0o650100_412345 | bdGeneralFault
	words[1] = 0o000300_001000
	words[2] = 0o1234
	words[3] = (uint64(3) << 32) | 0xfffffe00
	words[4] = 0o012345_000000
	bd, err := DecodeDescriptor(words)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if bd.GeneralPerms.Bits() != 6 {
		t.Errorf("GAP got: %o expected: %o", bd.GeneralPerms.Bits(), 6)
	}
	if bd.SpecialPerms.Bits() != 5 {
		t.Errorf("SAP got: %o expected: %o", bd.SpecialPerms.Bits(), 5)
	}
	if bd.Type != BasicModeBank {
		t.Errorf("Type got: %s expected: %s", bd.Type, BasicModeBank)
	}
	if !bd.GeneralFault || bd.LargeBank || bd.UpperSuppress {
		t.Errorf("Flags wrong G=%t S=%t U=%t", bd.GeneralFault, bd.LargeBank, bd.UpperSuppress)
	}
	if bd.Lock.Ring != 2 || bd.Lock.Domain != 0o12345 {
		t.Errorf("Lock got: %s expected: 2,012345", bd.Lock)
	}
	if bd.LowerLimit != 0 || bd.UpperLimit != 0o300_001000 {
		t.Errorf("Limits got: %o %o expected: 0 %o", bd.LowerLimit, bd.UpperLimit, 0o300_001000)
	}
	if bd.BaseAddress.UPI != 3 || bd.BaseAddress.Segment != 0o1234 || bd.BaseAddress.Offset != -512 {
		t.Errorf("Base address got: %s", bd.BaseAddress)
	}
	if bd.Displacement != 0o12345 {
		t.Errorf("Displacement got: %o expected: %o", bd.Displacement, 0o12345)
	}
}

// Check limit granularity.
func TestDescriptorLimits(t *testing.T) {
	for _, lower := range []uint32{0, 1, 0o17, 0o777} {
		for _, upper := range []uint32{0, 1, 0o777777, 0o777_777777} {
			bd := &Descriptor{LowerLimit: lower, UpperLimit: upper}
			if bd.LowerLimitNormalized() != uint64(lower)<<9 {
				t.Errorf("Small lower got: %o expected: %o", bd.LowerLimitNormalized(), uint64(lower)<<9)
			}
			if bd.UpperLimitNormalized() != uint64(upper) {
				t.Errorf("Small upper got: %o expected: %o", bd.UpperLimitNormalized(), upper)
			}
			bd.LargeBank = true
			if bd.LowerLimitNormalized() != uint64(lower)<<15 {
				t.Errorf("Large lower got: %o expected: %o", bd.LowerLimitNormalized(), uint64(lower)<<15)
			}
			if bd.UpperLimitNormalized() != uint64(upper)<<6 {
				t.Errorf("Large upper got: %o expected: %o", bd.UpperLimitNormalized(), uint64(upper)<<6)
			}
		}
	}
}

// Check indirect target uses word 1.
func TestDescriptorIndirect(t *testing.T) {
	bd := &Descriptor{Type: IndirectBank, Target: LevelBDI{Level: 3, BDI: 0o1234}}
	words := bd.Encode()
	if words[1] != 0o301234_000000 {
		t.Errorf("Indirect word 1 got: %012o expected: %012o", words[1], uint64(0o301234_000000))
	}
	out, err := DecodeDescriptor(words)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Target != bd.Target {
		t.Errorf("Target got: %s expected: %s", out.Target, bd.Target)
	}
}

// Check gate fields survive decode and encode.
func TestGateRoundTrip(t *testing.T) {
	masks := [GateWords]uint64{
		(uint64(0o7777) << 24) | H2Mask,
		WordMask,
		(uint64(3) << 34) | (uint64(0o77) << 18) | H2Mask,
		WordMask,
		WordMask,
	}
	for _, pattern := range testPatterns() {
		var words [GateWords]uint64
		for i := range words {
			words[i] = pattern
		}
		out := DecodeGate(words).Encode()
		for i := range words {
			if (out[i] & masks[i]) != (words[i] & masks[i]) {
				t.Errorf("Gate pattern %012o word %d got: %012o expected: %012o",
					pattern, i, out[i]&masks[i], words[i]&masks[i])
			}
		}
	}
}

// Check gate flags decode to the right fields.
func TestGateFields(t *testing.T) {
	g := &Gate{
		GeneralPerms:    Permissions{Enter: true},
		GotoInhibit:     true,
		KeyInhibit:      true,
		Lock:            AccessInfo{Ring: 1, Domain: 7},
		Target:          VirtualAddress{Level: 2, BDI: 0o40, Offset: 0o1000},
		BasicModeSelect: 2,
		DesignatorBits:  0o25,
		AccessKey:       AccessInfo{Ring: 3, Domain: 0o100},
		LatentParam0:    0o123,
		LatentParam1:    0o456,
	}
	words := g.Encode()
	if words[0] != 0o402400_200007 {
		t.Errorf("Gate word 0 got: %012o expected: %012o", words[0], uint64(0o402400_200007))
	}
	out := DecodeGate(words)
	if *out != *g {
		t.Errorf("Gate decode got: %+v expected: %+v", *out, *g)
	}
}

// Check RCS frame fields survive decode and encode.
func TestRCSFrameRoundTrip(t *testing.T) {
	masks := [RCSFrameWords]uint64{
		WordMask,
		rcsTrap | (uint64(3) << 24) | (uint64(0o77) << 18) | H2Mask,
	}
	for _, pattern := range testPatterns() {
		words := [RCSFrameWords]uint64{pattern, pattern}
		out := DecodeRCSFrame(words).Encode()
		for i := range words {
			if (out[i] & masks[i]) != (words[i] & masks[i]) {
				t.Errorf("Frame pattern %012o word %d got: %012o expected: %012o",
					pattern, i, out[i]&masks[i], words[i]&masks[i])
			}
		}
	}
}

// Check RCS frame fields.
func TestRCSFrameFields(t *testing.T) {
	f := &ReturnControlStackFrame{
		Reentry:         VirtualAddress{Level: 0, BDI: 0o12, Offset: 0o1001},
		Trap:            true,
		BasicModeSelect: 3,
		DesignatorBits:  0o41,
		AccessKey:       AccessInfo{Ring: 2, Domain: 0o55},
	}
	words := f.Encode()
	if words[0] != 0o000012_001001 {
		t.Errorf("Frame word 0 got: %012o expected: %012o", words[0], uint64(0o000012_001001))
	}
	if words[1] != 0o400341_400055 {
		t.Errorf("Frame word 1 got: %012o expected: %012o", words[1], uint64(0o400341_400055))
	}
	if *DecodeRCSFrame(words) != *f {
		t.Errorf("Frame decode not equal")
	}
}
