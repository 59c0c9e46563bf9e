/*
 * S2200 - Bank manipulation engine
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

package bankmanip

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/cpu"
	"github.com/rcornwell/S2200/emu/fault"
	"github.com/rcornwell/S2200/emu/memory"
	"github.com/rcornwell/S2200/util/debug"
)

const (
	// Debug options.
	debugStep = 1 << iota // Trace each step.
	debugGate             // Gate processing.
	debugRCS              // Return control stack traffic.
)

var debugOption = map[string]int{
	"STEP": debugStep,
	"GATE": debugGate,
	"RCS":  debugRCS,
}

// Register file and storage the engine works on.
type Processor interface {
	FindBankDescriptor(name bank.LevelBDI) (*bank.Descriptor, error)
	FindBasicModeBank(relative uint64, update bool) int
	BaseRegister(index int) bank.BaseRegister
	SetBaseRegister(index int, br bank.BaseRegister)
	ActiveBaseTableEntry(register int) cpu.ActiveBaseTableEntry
	SetActiveBaseTableEntry(register int, entry cpu.ActiveBaseTableEntry)
	Designator() *cpu.DesignatorRegister
	IndicatorKey() *cpu.IndicatorKeyRegister
	ProgramAddress() *bank.VirtualAddress
	SetQuantumTimer(value uint64)
	CurrentInstruction() cpu.Instruction
	GeneralRegister(index int) *uint64
	ExecOrUserXRegister(index int) *cpu.IndexRegister
	ExecOrUserRRegister(index int) *uint64
	Storage() *memory.Memory
	Stop(reason fault.StopReason, detail uint64)
}

// Instructions that manipulate banks.
type Operation int

const (
	OpCall Operation = 1 + iota
	OpGoto
	OpLOCL
	OpLAE
	OpLBE
	OpLBU
	OpLBJ
	OpLDJ
	OpLIJ
	OpRTN
	OpUR
)

var opNames = map[Operation]string{
	OpCall: "CALL",
	OpGoto: "GOTO",
	OpLOCL: "LOCL",
	OpLAE:  "LAE",
	OpLBE:  "LBE",
	OpLBU:  "LBU",
	OpLBJ:  "LBJ",
	OpLDJ:  "LDJ",
	OpLIJ:  "LIJ",
	OpRTN:  "RTN",
	OpUR:   "UR",
}

func (op Operation) String() string {
	name, ok := opNames[op]
	if !ok {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return name
}

// Find operation by mnemonic, any case.
func ParseOperation(name string) (Operation, bool) {
	name = strings.ToUpper(name)
	for op, n := range opNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

func (op Operation) isLxJ() bool {
	return op == OpLBJ || op == OpLDJ || op == OpLIJ
}

func (op Operation) isLoad() bool {
	return op == OpLAE || op == OpLBE || op == OpLBU
}

// Operand words of a UR instruction.
type UserReturnPacket struct {
	PAR          uint64
	Designator   uint64
	IndicatorKey uint64
	QuantumTimer uint64
}

var (
	errNotUR  = errors.New("user return requires a return packet")
	errNotLAE = errors.New("LAE requires a base register, use ManipulateLAE")
)

// Bank manipulation for one processor.
type Engine struct {
	proc     Processor
	debugMsk int
}

func New(proc Processor) *Engine {
	return &Engine{proc: proc}
}

// Enable debug options.
func (e *Engine) Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("Bank debug option invalid: " + opt)
	}
	e.debugMsk |= flag
	return nil
}

// Run bank manipulation for the current instruction. The operand is the
// L,BDI and offset word, or the jump address for LxJ.
func (e *Engine) Manipulate(op Operation, operand uint64) error {
	switch op {
	case OpUR:
		return errNotUR
	case OpLAE:
		return errNotLAE
	}
	return e.run(e.newInfo(op, operand))
}

// Load one slot of the addressing environment, register is 1 to 15.
func (e *Engine) ManipulateLAE(register int, operand uint64) error {
	if register < 1 || register > cpu.ActiveBaseEntries {
		return &fault.InvalidInstructionFault{Reason: fault.InvalidBaseRegister}
	}
	info := e.newInfo(OpLAE, operand)
	info.laeRegister = register
	return e.run(info)
}

// Load B1 through B15 from consecutive operand words. Stops at first fault,
// slots already loaded stay loaded.
func (e *Engine) LoadAddressingEnvironment(operands [cpu.ActiveBaseEntries]uint64) error {
	for i, operand := range operands {
		if err := e.ManipulateLAE(i+1, operand); err != nil {
			return err
		}
	}
	return nil
}

// Return to user state described by packet.
func (e *Engine) ManipulateUR(packet UserReturnPacket) error {
	info := e.newInfo(OpUR, packet.PAR)
	info.packet = &packet
	return e.run(info)
}

// Enter the handler for an interrupt class through the level 0 vector.
func (e *Engine) ManipulateInterrupt(class fault.InterruptClass) error {
	info := &manipulationInfo{interrupt: &class, callOp: true}
	return e.run(info)
}

func (e *Engine) newInfo(op Operation, operand uint64) *manipulationInfo {
	info := &manipulationInfo{
		op:      op,
		operand: operand,
		inst:    e.proc.CurrentInstruction(),
		loadOp:  op.isLoad(),
		lxjOp:   op.isLxJ(),
	}
	if info.lxjOp {
		info.lxjX = e.proc.ExecOrUserXRegister(info.inst.A())
		info.lxjIS = info.lxjX.InterfaceSpec()
		info.lxjSelector = info.lxjX.BankSelector()
	}
	info.callOp = op == OpCall || op == OpLOCL || (info.lxjOp && info.lxjIS < 2)
	info.returnOp = op == OpRTN || (info.lxjOp && info.lxjIS == 2)
	return info
}

// Execute steps until done, a fault or a halt.
func (e *Engine) run(info *manipulationInfo) error {
	info.next = stepPreflight
	for info.next > stepDone && info.next < stepEnd {
		s := info.next
		info.next++
		debug.Debugf("BANK", e.debugMsk, debugStep, "%s step %d", info, int(s))
		if err := steps[s](e, info); err != nil {
			debug.Debugf("BANK", e.debugMsk, debugStep, "%s step %d: %v", info, int(s), err)
			return err
		}
	}
	return nil
}

// Stop the processor and terminate manipulation.
func (e *Engine) halt(info *manipulationInfo, reason fault.StopReason, detail uint64) error {
	e.proc.Stop(reason, detail)
	info.next = stepDone
	return nil
}
