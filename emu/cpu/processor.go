/*
 * S2200 - Processor state
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
	"fmt"
	"log/slog"

	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/fault"
	"github.com/rcornwell/S2200/emu/memory"
	"github.com/rcornwell/S2200/util/debug"
)

const (
	// Debug options.
	debugBDT  = 1 << iota // Bank descriptor lookups.
	debugStop             // Processor stops.
	debugRegs             // Register loads.
)

var debugOption = map[string]int{
	"BDT":  debugBDT,
	"STOP": debugStop,
	"REGS": debugRegs,
}

// Register file of one instruction processor.
type Processor struct {
	upi        uint16
	storage    *memory.Memory
	baseRegs   [bank.BaseRegisters]bank.BaseRegister
	abt        [ActiveBaseEntries]ActiveBaseTableEntry
	dr         DesignatorRegister
	ikr        IndicatorKeyRegister
	par        bank.VirtualAddress
	quantum    uint64
	grs        [GRSSize]uint64
	inst       Instruction // Instruction being executed.
	stopped    bool
	stopReason fault.StopReason
	stopDetail uint64
	debugMsk   int
}

// Create processor attached to storage, all base registers void.
func NewProcessor(upi uint16, storage *memory.Memory) *Processor {
	p := &Processor{upi: upi, storage: storage}
	p.Clear()
	return p
}

// Reset processor to cleared state.
func (p *Processor) Clear() {
	for i := range p.baseRegs {
		p.baseRegs[i] = bank.VoidBaseRegister
	}
	p.abt = [ActiveBaseEntries]ActiveBaseTableEntry{}
	p.grs = [GRSSize]uint64{}
	p.dr = DesignatorRegister(0)
	p.dr.Set(DB17ExecRegisterSet, true)
	p.ikr = 0
	p.par = bank.VirtualAddress{}
	p.quantum = 0
	p.inst = 0
	p.stopped = false
	p.stopReason = fault.Cleared
	p.stopDetail = 0
}

func (p *Processor) UPI() uint16 {
	return p.upi
}

func (p *Processor) Storage() *memory.Memory {
	return p.storage
}

func (p *Processor) BaseRegister(index int) bank.BaseRegister {
	return p.baseRegs[index&0o37]
}

func (p *Processor) SetBaseRegister(index int, br bank.BaseRegister) {
	debug.Debugf("CPU", p.debugMsk, debugRegs, "B%d <- %s", index, br)
	p.baseRegs[index&0o37] = br
}

// Entry for B1 through B15.
func (p *Processor) ActiveBaseTableEntry(register int) ActiveBaseTableEntry {
	return p.abt[register-1]
}

func (p *Processor) SetActiveBaseTableEntry(register int, entry ActiveBaseTableEntry) {
	p.abt[register-1] = entry
}

func (p *Processor) Designator() *DesignatorRegister {
	return &p.dr
}

func (p *Processor) IndicatorKey() *IndicatorKeyRegister {
	return &p.ikr
}

func (p *Processor) ProgramAddress() *bank.VirtualAddress {
	return &p.par
}

func (p *Processor) QuantumTimer() uint64 {
	return p.quantum
}

func (p *Processor) SetQuantumTimer(value uint64) {
	p.quantum = mask(value)
}

func (p *Processor) CurrentInstruction() Instruction {
	return p.inst
}

func (p *Processor) SetCurrentInstruction(inst Instruction) {
	p.inst = inst
}

// Register by absolute GRS address.
func (p *Processor) GeneralRegister(index int) *uint64 {
	return &p.grs[index&(GRSSize-1)]
}

// Index register from the set selected by DB17.
func (p *Processor) ExecOrUserXRegister(index int) *IndexRegister {
	base := X0
	if p.dr.ExecRegisterSetSelected() {
		base = EX0
	}
	return (*IndexRegister)(&p.grs[base+(index&0o17)])
}

// R register from the set selected by DB17.
func (p *Processor) ExecOrUserRRegister(index int) *uint64 {
	base := R0
	if p.dr.ExecRegisterSetSelected() {
		base = ER0
	}
	return &p.grs[base+(index&0o17)]
}

// Accumulator from the set selected by DB17.
func (p *Processor) ExecOrUserARegister(index int) *uint64 {
	base := A0
	if p.dr.ExecRegisterSetSelected() {
		base = EA0
	}
	return &p.grs[base+(index&0o17)]
}

var (
	basicCandidatesPrimary   = [4]int{12, 14, 13, 15}
	basicCandidatesSecondary = [4]int{13, 15, 12, 14}
)

// Select the basic mode base register whose bank holds relative address.
// Returns 0 if no register in B12-B15 covers it. When update is set and the
// address lies in the other pair, DB31 is flipped.
func (p *Processor) FindBasicModeBank(relative uint64, update bool) int {
	db31 := p.dr.BasicModeBaseRegisterSelection()
	table := basicCandidatesPrimary
	if db31 {
		table = basicCandidatesSecondary
	}
	for i, reg := range table {
		if !p.baseRegs[reg].Contains(relative) {
			continue
		}
		if update && i >= 2 {
			p.dr.Set(DB31BasicModeBaseSelection, !db31)
		}
		return reg
	}
	return 0
}

// Locate bank descriptor through the table for its level.
func (p *Processor) FindBankDescriptor(name bank.LevelBDI) (*bank.Descriptor, error) {
	br := p.baseRegs[L0BDTBaseRegister+int(name.Level&0o7)]
	if br.Void {
		debug.Debugf("CPU", p.debugMsk, debugBDT, "BDT for level %o void", name.Level)
		return nil, fault.NewAddressing(fault.FatalAddressingException, name)
	}

	offset := uint64(name.BDI) * bank.DescriptorWords
	if !br.Contains(offset) || !br.Contains(offset+bank.DescriptorWords-1) {
		debug.Debugf("CPU", p.debugMsk, debugBDT, "BD %s outside table", name)
		return nil, fault.NewAddressing(fault.FatalAddressingException, name)
	}

	words, err := p.storage.GetWords(br.Absolute(offset), bank.DescriptorWords)
	if err != nil {
		slog.Error("Bank descriptor table read failed: " + err.Error())
		return nil, fault.NewAddressing(fault.FatalAddressingException, name)
	}

	var raw [bank.DescriptorWords]uint64
	copy(raw[:], words)
	bd, err := bank.DecodeDescriptor(raw)
	if err != nil {
		debug.Debugf("CPU", p.debugMsk, debugBDT, "BD %s: %v", name, err)
		return nil, fault.NewAddressing(fault.FatalAddressingException, name)
	}
	debug.Debugf("CPU", p.debugMsk, debugBDT, "BD %s: %s", name, bd)
	return bd, nil
}

// Write a bank descriptor into the table for its level.
func (p *Processor) StoreBankDescriptor(name bank.LevelBDI, bd *bank.Descriptor) error {
	br := p.baseRegs[L0BDTBaseRegister+int(name.Level&0o7)]
	offset := uint64(name.BDI) * bank.DescriptorWords
	if br.Void || !br.Contains(offset) || !br.Contains(offset+bank.DescriptorWords-1) {
		return fmt.Errorf("bank %s outside level %o descriptor table", name, name.Level)
	}
	words := bd.Encode()
	return p.storage.PutWords(br.Absolute(offset), words[:])
}

// Halt the processor.
func (p *Processor) Stop(reason fault.StopReason, detail uint64) {
	p.stopped = true
	p.stopReason = reason
	p.stopDetail = detail
	debug.Debugf("CPU", p.debugMsk, debugStop, "Stop %s %012o", reason, detail)
	slog.Warn("Processor stopped", "reason", reason.String(), "detail", fmt.Sprintf("%012o", detail))
}

// Stop state and reason.
func (p *Processor) Stopped() (bool, fault.StopReason, uint64) {
	return p.stopped, p.stopReason, p.stopDetail
}

// Allow processor to run again after a stop.
func (p *Processor) Start() {
	p.stopped = false
	p.stopReason = fault.NotStopped
}

// Enable debug options.
func (p *Processor) Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("CPU debug option invalid: " + opt)
	}
	p.debugMsk |= flag
	return nil
}
