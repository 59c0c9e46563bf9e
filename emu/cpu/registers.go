/*
 * S2200 - Processor registers
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

import (
	"fmt"

	"github.com/rcornwell/S2200/emu/bank"
)

// Designator register, processor mode and state.
type DesignatorRegister uint64

func (d DesignatorRegister) is(bit uint64) bool {
	return (uint64(d) & bit) != 0
}

// Set or clear bits.
func (d *DesignatorRegister) Set(bits uint64, on bool) {
	if on {
		*d = DesignatorRegister(mask(uint64(*d) | bits))
	} else {
		*d = DesignatorRegister(uint64(*d) &^ bits)
	}
}

func (d DesignatorRegister) FaultHandling() bool { return d.is(DB6FaultHandling) }
func (d DesignatorRegister) QuantumTimerEnabled() bool { return d.is(DB12QuantumTimer) }
func (d DesignatorRegister) DeferrableInterruptsEnabled() bool {
	return d.is(DB13Deferrable)
}
func (d DesignatorRegister) BasicModeEnabled() bool { return d.is(DB16BasicMode) }
func (d DesignatorRegister) ExecRegisterSetSelected() bool { return d.is(DB17ExecRegisterSet) }
func (d DesignatorRegister) ArithmeticExceptionEnabled() bool {
	return d.is(DB29ArithmeticException)
}
func (d DesignatorRegister) BasicModeBaseRegisterSelection() bool {
	return d.is(DB31BasicModeBaseSelection)
}

// Processor privilege 0 (most) to 3 (least).
func (d DesignatorRegister) ProcessorPrivilege() uint8 {
	return uint8((uint64(d) >> 20) & 0o3)
}

func (d *DesignatorRegister) SetProcessorPrivilege(pp uint8) {
	*d = DesignatorRegister((uint64(*d) &^ DB14ProcessorPrivilege) | (uint64(pp&0o3) << 20))
}

// DB12 through DB17 right justified.
func (d DesignatorRegister) Bits12To17() uint64 {
	return (uint64(d) >> 18) & 0o77
}

func (d *DesignatorRegister) SetBits12To17(bits uint64) {
	*d = DesignatorRegister((uint64(*d) &^ (0o77 << 18)) | ((bits & 0o77) << 18))
}

func (d DesignatorRegister) String() string {
	return fmt.Sprintf("%012o PP=%d BM=%t EXR=%t DB31=%t", uint64(d), d.ProcessorPrivilege(),
		d.BasicModeEnabled(), d.ExecRegisterSetSelected(), d.BasicModeBaseRegisterSelection())
}

// Indicator and access key register.
type IndicatorKeyRegister uint64

func (k IndicatorKeyRegister) AccessKey() bank.AccessInfo {
	return bank.NewAccessInfo(bank.H2(uint64(k)))
}

func (k *IndicatorKeyRegister) SetAccessKey(key bank.AccessInfo) {
	*k = IndicatorKeyRegister((uint64(*k) &^ bank.H2Mask) | key.Word())
}

// Bits 0-5.
func (k IndicatorKeyRegister) ShortStatusField() uint64 {
	return (uint64(k) >> 30) & 0o77
}

func (k *IndicatorKeyRegister) SetShortStatusField(ssf uint64) {
	*k = IndicatorKeyRegister((uint64(*k) &^ (0o77 << 30)) | ((ssf & 0o77) << 30))
}

// Index register, increment in H1 and modifier in H2.
type IndexRegister uint64

func (x IndexRegister) XI() uint64 { return bank.H1(uint64(x)) }
func (x IndexRegister) XM() uint64 { return bank.H2(uint64(x)) }

func (x *IndexRegister) SetXM(xm uint64) {
	*x = IndexRegister((uint64(*x) &^ bank.H2Mask) | (xm & bank.H2Mask))
}

func (x *IndexRegister) SetXI(xi uint64) {
	*x = IndexRegister((uint64(*x) & bank.H2Mask) | ((xi & bank.H2Mask) << 18))
}

// Basic mode linkage fields used by LxJ.
func (x IndexRegister) BankSelector() uint8 { return uint8((uint64(x) >> 33) & 0o3) }
func (x IndexRegister) InterfaceSpec() uint8 { return uint8((uint64(x) >> 30) & 0o3) }
func (x IndexRegister) Source() bank.LevelBDI { return bank.LevelBDIFromBasicMode(uint64(x)) }

// Bank last loaded into one of B1-B15.
type ActiveBaseTableEntry struct {
	Level  uint8
	BDI    uint16
	Offset uint32
}

func NewActiveBaseTableEntry(word uint64) ActiveBaseTableEntry {
	v := bank.NewVirtualAddress(word)
	return ActiveBaseTableEntry{Level: v.Level, BDI: v.BDI, Offset: v.Offset}
}

func (e ActiveBaseTableEntry) Word() uint64 {
	return bank.VirtualAddress{Level: e.Level, BDI: e.BDI, Offset: e.Offset}.Word()
}

func (e ActiveBaseTableEntry) LevelBDI() bank.LevelBDI {
	return bank.LevelBDI{Level: e.Level, BDI: e.BDI}
}
