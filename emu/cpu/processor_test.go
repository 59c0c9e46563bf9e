/*
 * S2200 - Processor register tests
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
	"errors"
	"testing"

	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/fault"
	"github.com/rcornwell/S2200/emu/memory"
)

// Check designator bit helpers.
func TestDesignatorRegister(t *testing.T) {
	var dr DesignatorRegister
	dr.Set(DB16BasicMode|DB31BasicModeBaseSelection, true)
	if !dr.BasicModeEnabled() || !dr.BasicModeBaseRegisterSelection() {
		t.Errorf("Bits not set: %s", dr)
	}
	dr.Set(DB16BasicMode, false)
	if dr.BasicModeEnabled() {
		t.Errorf("DB16 not cleared")
	}
	dr.SetProcessorPrivilege(2)
	if dr.ProcessorPrivilege() != 2 {
		t.Errorf("Privilege got: %d expected: %d", dr.ProcessorPrivilege(), 2)
	}
	if dr.Bits12To17() != 0o10 {
		t.Errorf("DB12-17 got: %o expected: %o", dr.Bits12To17(), 0o10)
	}
	dr.SetBits12To17(0o03)
	if dr.ProcessorPrivilege() != 0 || !dr.BasicModeEnabled() || !dr.ExecRegisterSetSelected() {
		t.Errorf("SetBits12To17 wrong: %s", dr)
	}
	if !dr.BasicModeBaseRegisterSelection() {
		t.Errorf("SetBits12To17 changed DB31")
	}
}

// Check access key in indicator key register.
func TestIndicatorKeyRegister(t *testing.T) {
	var ikr IndicatorKeyRegister
	ikr.SetShortStatusField(0o45)
	ikr.SetAccessKey(bank.AccessInfo{Ring: 1, Domain: 0o333})
	if ikr.ShortStatusField() != 0o45 {
		t.Errorf("SSF got: %o expected: %o", ikr.ShortStatusField(), 0o45)
	}
	key := ikr.AccessKey()
	if key.Ring != 1 || key.Domain != 0o333 {
		t.Errorf("Key got: %s expected: 1,000333", key)
	}
}

// Check index register halves and basic mode fields.
func TestIndexRegister(t *testing.T) {
	var x IndexRegister
	x.SetXI(0o12)
	x.SetXM(0o777776)
	if x.XI() != 0o12 || x.XM() != 0o777776 {
		t.Errorf("Index got: %o %o expected: 12 777776", x.XI(), x.XM())
	}
	x = IndexRegister(0o520123_000000)
	if x.BankSelector() != 1 {
		t.Errorf("Selector got: %d expected: 1", x.BankSelector())
	}
	if x.InterfaceSpec() != 2 {
		t.Errorf("IS got: %d expected: 2", x.InterfaceSpec())
	}
	src := x.Source()
	if src.Level != 2 || src.BDI != 0o123 {
		t.Errorf("Source got: %s expected: 2,00123", src)
	}
}

// Check instruction field decode.
func TestInstruction(t *testing.T) {
	inst := NewInstruction(0o07, 0o17, 0o5, 0o11, 0o1234)
	if inst.F() != 0o07 || inst.J() != 0o17 || inst.A() != 0o5 || inst.X() != 0o11 || inst.U() != 0o1234 {
		t.Errorf("Instruction fields wrong: %012o", uint64(inst))
	}
}

// Check register set selection.
func TestRegisterSets(t *testing.T) {
	p := NewProcessor(0, memory.New())
	*p.ExecOrUserXRegister(3) = 0o7
	if *p.GeneralRegister(EX0+3) != 0o7 {
		t.Errorf("Exec X3 not set")
	}
	p.Designator().Set(DB17ExecRegisterSet, false)
	*p.ExecOrUserXRegister(3) = 0o5
	*p.ExecOrUserRRegister(1) = 0o6
	if *p.GeneralRegister(X0+3) != 0o5 || *p.GeneralRegister(R0+1) != 0o6 {
		t.Errorf("User registers not set")
	}
	if *p.GeneralRegister(EX0+3) != 0o7 {
		t.Errorf("Exec X3 modified")
	}
}

func testBDTProcessor(t *testing.T) *Processor {
	t.Helper()
	m := memory.New()
	if err := m.AddSegment(0, 0, 0o10000); err != nil {
		t.Fatalf("Unable to create storage: %v", err)
	}
	p := NewProcessor(0, m)
	bdt := &bank.Descriptor{Type: bank.ExtendedModeBank, UpperLimit: 0o7777}
	p.SetBaseRegister(L0BDTBaseRegister, bank.NewBaseRegister(bdt))
	return p
}

// Check descriptor store and lookup.
func TestFindBankDescriptor(t *testing.T) {
	p := testBDTProcessor(t)
	bd := &bank.Descriptor{
		Type:         bank.BasicModeBank,
		GeneralPerms: bank.Permissions{Enter: true},
		Lock:         bank.AccessInfo{Ring: 2, Domain: 9},
		UpperLimit:   0o777,
		BaseAddress:  bank.AbsoluteAddress{Offset: 0o2000},
	}
	name := bank.LevelBDI{Level: 0, BDI: 0o40}
	if err := p.StoreBankDescriptor(name, bd); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	out, err := p.FindBankDescriptor(name)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if out.Type != bd.Type || out.Lock != bd.Lock || out.UpperLimit != bd.UpperLimit {
		t.Errorf("Descriptor got: %s expected: %s", out, bd)
	}

	// Outside table.
	_, err = p.FindBankDescriptor(bank.LevelBDI{Level: 0, BDI: 0o1000})
	var af *fault.AddressingFault
	if !errors.As(err, &af) || af.Reason != fault.FatalAddressingException {
		t.Errorf("Lookup outside table got: %v", err)
	}

	// Level with no table.
	_, err = p.FindBankDescriptor(bank.LevelBDI{Level: 1, BDI: 1})
	if !errors.As(err, &af) || af.Reason != fault.FatalAddressingException {
		t.Errorf("Lookup with void table got: %v", err)
	}

	// Bad type code.
	_ = p.Storage().PutWord(bank.AbsoluteAddress{Offset: 0o50 * 8}, 0o000500_000000)
	_, err = p.FindBankDescriptor(bank.LevelBDI{Level: 0, BDI: 0o50})
	if !errors.As(err, &af) {
		t.Errorf("Lookup with bad type got: %v", err)
	}
}

// Check stop records reason.
func TestStop(t *testing.T) {
	p := NewProcessor(0, memory.New())
	stopped, reason, _ := p.Stopped()
	if stopped || reason != fault.Cleared {
		t.Errorf("New processor stopped: %t %s", stopped, reason)
	}
	p.Stop(fault.L0BaseRegisterInvalid, 0o24)
	stopped, reason, detail := p.Stopped()
	if !stopped || reason != fault.L0BaseRegisterInvalid || detail != 0o24 {
		t.Errorf("Stop got: %t %s %o", stopped, reason, detail)
	}
	p.Start()
	stopped, _, _ = p.Stopped()
	if stopped {
		t.Errorf("Start did not clear stop")
	}
	if err := p.Debug("BDT"); err != nil {
		t.Errorf("Debug BDT failed: %v", err)
	}
	if err := p.Debug("NONE"); err == nil {
		t.Errorf("Debug NONE accepted")
	}
}
