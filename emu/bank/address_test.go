/*
 * S2200 - Address and base register tests
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

import "testing"

// Check absolute address two word form.
func TestAbsoluteAddress(t *testing.T) {
	addrs := []AbsoluteAddress{
		{UPI: 0, Segment: 0, Offset: 0},
		{UPI: 15, Segment: 0x1ffffff, Offset: 0x7fffffff},
		{UPI: 1, Segment: 2, Offset: -1},
		{UPI: 7, Segment: 0o1000, Offset: -0o1000},
	}
	for _, addr := range addrs {
		w0, w1 := addr.Words()
		out := AbsoluteAddressFromWords(w0, w1)
		if out != addr {
			t.Errorf("Address got: %s expected: %s", out, addr)
		}
		if w1 > WordMask {
			t.Errorf("Address word exceeds 36 bits: %o", w1)
		}
	}
	a := AbsoluteAddress{UPI: 1, Segment: 2, Offset: -512}.Add(0o1000)
	if a.Offset != 0 {
		t.Errorf("Add got: %d expected: 0", a.Offset)
	}
}

// Check virtual address decode.
func TestVirtualAddress(t *testing.T) {
	v := NewVirtualAddress(0o600042_001234)
	if v.Level != 6 || v.BDI != 0o42 || v.Offset != 0o1234 {
		t.Errorf("Virtual address got: %s expected: 6,00042,001234", v)
	}
	if v.Word() != 0o600042_001234 {
		t.Errorf("Virtual word got: %012o", v.Word())
	}
}

// Check conversion to basic mode form and back.
func TestTranslateToBasicMode(t *testing.T) {
	tests := []struct {
		level uint8
		want  uint64
	}{
		{0, 0o440012_001000},
		{2, 0o400012_001000},
		{4, 0o000012_001000},
		{6, 0o040012_001000},
	}
	for _, test := range tests {
		got := TranslateToBasicMode(test.level, 0o12, 0o1000)
		if got != test.want {
			t.Errorf("Level %d got: %012o expected: %012o", test.level, got, test.want)
		}
		l := LevelBDIFromBasicMode(got)
		if l.Level != test.level || l.BDI != 0o12 {
			t.Errorf("Level %d decoded back to %s", test.level, l)
		}
	}

	// Index too large for basic mode gives void bank.
	got := TranslateToBasicMode(4, 0o10000, 0o55)
	if got != 0o440000_000055 {
		t.Errorf("Large BDI got: %012o expected: %012o", got, uint64(0o440000_000055))
	}
	if !LevelBDIFromBasicMode(got).IsVoid() {
		t.Errorf("Large BDI did not decode to void")
	}
}

func testDescriptor() *Descriptor {
	return &Descriptor{
		Type:         ExtendedModeBank,
		GeneralPerms: Permissions{Read: true},
		SpecialPerms: Permissions{Enter: true, Read: true, Write: true},
		Lock:         AccessInfo{Ring: 1, Domain: 10},
		LowerLimit:   1,
		UpperLimit:   0o7777,
		BaseAddress:  AbsoluteAddress{UPI: 1, Segment: 0, Offset: 0o10000 - 0o1000},
	}
}

// Check base register built from descriptor.
func TestNewBaseRegister(t *testing.T) {
	br := NewBaseRegister(testDescriptor())
	if br.Void {
		t.Errorf("Base register should not be void")
	}
	if br.LowerLimitNormalized != 0o1000 || br.UpperLimitNormalized != 0o7777 {
		t.Errorf("Limits got: %o-%o expected: 1000-7777", br.LowerLimitNormalized, br.UpperLimitNormalized)
	}
	if !br.Contains(0o1000) || !br.Contains(0o7777) {
		t.Errorf("Limits not inclusive")
	}
	if br.Contains(0o777) || br.Contains(0o10000) {
		t.Errorf("Address outside limits accepted")
	}
	if br.Absolute(0o1000).Offset != 0o10000 {
		t.Errorf("Absolute got: %o expected: %o", br.Absolute(0o1000).Offset, 0o10000)
	}

	bd := testDescriptor()
	bd.UpperLimit = 0o777
	if !NewBaseRegister(bd).Void {
		t.Errorf("Lower above upper not void")
	}
	if !NewBaseRegister(nil).Void {
		t.Errorf("Nil descriptor not void")
	}
}

// Check subset base register.
func TestSubsetBaseRegister(t *testing.T) {
	br := NewSubsetBaseRegister(testDescriptor(), 0o2000)
	if br.Void {
		t.Errorf("Subset should not be void")
	}
	if br.LowerLimitNormalized != 0 || br.UpperLimitNormalized != 0o5777 {
		t.Errorf("Subset limits got: %o-%o expected: 0-5777", br.LowerLimitNormalized, br.UpperLimitNormalized)
	}
	if br.Absolute(0).Offset != 0o11000 {
		t.Errorf("Subset absolute got: %o expected: %o", br.Absolute(0).Offset, 0o11000)
	}

	br = NewSubsetBaseRegister(testDescriptor(), 0o400)
	if br.LowerLimitNormalized != 0o400 {
		t.Errorf("Subset lower got: %o expected: %o", br.LowerLimitNormalized, 0o400)
	}

	br = NewSubsetBaseRegister(testDescriptor(), 0o10000)
	if !br.Void {
		t.Errorf("Subset past upper limit not void")
	}
}

// Check four word form.
func TestBaseRegisterWords(t *testing.T) {
	words := NewBaseRegister(testDescriptor()).Words()
	if words[0] != 0o230000_200012 {
		t.Errorf("Word 0 got: %012o expected: %012o", words[0], uint64(0o230000_200012))
	}
	if words[1] != 0o001000_007777 {
		t.Errorf("Word 1 got: %012o expected: %012o", words[1], uint64(0o001000_007777))
	}
	if VoidBaseRegister.Words()[0]&0o000200_000000 == 0 {
		t.Errorf("Void flag not set")
	}
}

// Check permissions for a key.
func TestBaseRegisterPermissions(t *testing.T) {
	br := NewBaseRegister(testDescriptor())
	if br.Permissions(AccessInfo{Ring: 3, Domain: 0}).Write {
		t.Errorf("Lower domain got write")
	}
	if !br.Permissions(AccessInfo{Ring: 3, Domain: 11}).Write {
		t.Errorf("Higher domain did not get write")
	}
}
