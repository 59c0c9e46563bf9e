/*
 * S2200 - Bank manipulation, source and target selection
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
	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/cpu"
	"github.com/rcornwell/S2200/emu/fault"
	"github.com/rcornwell/S2200/util/debug"
)

type step int

const (
	stepDone step = iota
	stepPreflight
	stepPrior
	stepSource
	stepReserved
	stepVoid
	stepFetchSource
	stepDispatch
	stepIndirect
	stepGate
	stepSlot
	stepPriorBank
	stepPushRCS
	stepLinkage
	stepCallerState
	stepGateState
	stepState
	stepProgramCounter
	stepBookkeeping
	stepLoadRegister
	stepBasicSelect
	stepFinalChecks
	stepEnd
)

var steps = [stepEnd]func(*Engine, *manipulationInfo) error{
	stepPreflight:      (*Engine).preflight,
	stepPrior:          (*Engine).capturePrior,
	stepSource:         (*Engine).findSource,
	stepReserved:       (*Engine).checkReserved,
	stepVoid:           (*Engine).checkVoid,
	stepFetchSource:    (*Engine).fetchSource,
	stepDispatch:       (*Engine).dispatch,
	stepIndirect:       (*Engine).indirect,
	stepGate:           (*Engine).processGate,
	stepSlot:           (*Engine).selectSlot,
	stepPriorBank:      (*Engine).releasePrior,
	stepPushRCS:        (*Engine).pushRCS,
	stepLinkage:        (*Engine).linkage,
	stepCallerState:    (*Engine).callerState,
	stepGateState:      (*Engine).gateState,
	stepState:          (*Engine).loadState,
	stepProgramCounter: (*Engine).programCounter,
	stepBookkeeping:    (*Engine).bookkeeping,
	stepLoadRegister:   (*Engine).loadRegister,
	stepBasicSelect:    (*Engine).basicSelect,
	stepFinalChecks:    (*Engine).finalChecks,
}

type transferMode int

const (
	basicToBasic transferMode = iota
	basicToExtended
	extendedToBasic
	extendedToExtended
)

func (m transferMode) toBasic() bool {
	return m == basicToBasic || m == extendedToBasic
}

// State carried between steps. Nil pointers are values not yet known.
type manipulationInfo struct {
	op          Operation
	operand     uint64
	packet      *UserReturnPacket
	interrupt   *fault.InterruptClass
	inst        cpu.Instruction
	laeRegister int

	callOp   bool
	returnOp bool
	loadOp   bool
	lxjOp    bool

	lxjX        *cpu.IndexRegister
	lxjIS       uint8
	lxjSelector uint8

	prior      *bank.LevelBDI
	priorIndex int // Basic mode register left by LxJ.

	source       bank.LevelBDI
	sourceOffset uint32
	sourceBD     *bank.Descriptor

	target       bank.LevelBDI
	targetOffset uint32
	targetBD     *bank.Descriptor // Nil for void bank.

	gate      *bank.Gate
	rcsFrame  *bank.ReturnControlStackFrame
	mode      *transferMode
	baseIndex int
	next      step
}

func (info *manipulationInfo) String() string {
	if info.interrupt != nil {
		return "interrupt " + info.interrupt.String()
	}
	return info.op.String()
}

// Level 0 indexes below 32, including the void bank.
func reservedOrVoid(name bank.LevelBDI) bool {
	return name.Level == 0 && name.BDI < 32
}

func (e *Engine) preflight(info *manipulationInfo) error {
	if info.interrupt != nil {
		return nil
	}
	if info.op == OpLBU && info.inst.A() < 2 {
		return &fault.InvalidInstructionFault{Reason: fault.InvalidBaseRegister}
	}
	if info.lxjOp && info.lxjIS == 3 {
		return fault.NewAddressing(fault.InvalidISValue, bank.LevelBDI{})
	}
	return nil
}

// Basic mode register named by an LxJ instruction.
func (e *Engine) lxjRegister(info *manipulationInfo) int {
	db31 := e.proc.Designator().BasicModeBaseRegisterSelection()
	switch info.op {
	case OpLBJ:
		return int(info.lxjSelector) + cpu.BasicModeFirstBase
	case OpLDJ:
		if db31 {
			return 15
		}
		return 14
	default:
		if db31 {
			return 13
		}
		return 12
	}
}

func (e *Engine) capturePrior(info *manipulationInfo) error {
	switch {
	case info.op == OpCall || info.op == OpLOCL:
		prior := e.proc.ProgramAddress().LevelBDI()
		info.prior = &prior
	case info.lxjOp && info.lxjIS < 2:
		info.priorIndex = e.lxjRegister(info)
		prior := e.proc.ActiveBaseTableEntry(info.priorIndex).LevelBDI()
		info.prior = &prior
	}
	return nil
}

func (e *Engine) findSource(info *manipulationInfo) error {
	switch {
	case info.interrupt != nil:
		return e.interruptVector(info)
	case info.op == OpUR:
		par := bank.NewVirtualAddress(info.packet.PAR)
		info.source = par.LevelBDI()
		info.sourceOffset = par.Offset
	case info.returnOp:
		return e.popRCS(info)
	case info.lxjOp:
		info.source = info.lxjX.Source()
		info.sourceOffset = uint32(bank.H2(info.operand))
	default:
		va := bank.NewVirtualAddress(info.operand)
		info.source = va.LevelBDI()
		info.sourceOffset = va.Offset
	}
	return nil
}

// Handler L,BDI for an interrupt class, from the level 0 table.
func (e *Engine) interruptVector(info *manipulationInfo) error {
	br := e.proc.BaseRegister(cpu.L0BDTBaseRegister)
	if br.Void {
		return e.halt(info, fault.L0BaseRegisterInvalid, 0)
	}
	offset := uint64(*info.interrupt)
	if !br.Contains(offset) {
		return e.halt(info, fault.InterruptHandlerOffsetOutOfRange, 0)
	}
	word, err := e.proc.Storage().GetWord(br.Absolute(offset))
	if err != nil {
		return e.halt(info, fault.InterruptHandlerHardwareFailure, 0)
	}
	vector := bank.NewVirtualAddress(word)
	info.source = vector.LevelBDI()
	info.sourceOffset = vector.Offset
	return nil
}

func (e *Engine) popRCS(info *manipulationInfo) error {
	br := e.proc.BaseRegister(cpu.RCSBaseRegister)
	xreg := (*cpu.IndexRegister)(e.proc.GeneralRegister(cpu.RCSIndex))
	fp := xreg.XM()
	if br.Void {
		return &fault.StackFault{Kind: fault.Underflow, BaseRegister: cpu.RCSBaseRegister, FramePointer: fp}
	}
	if fp > br.UpperLimitNormalized || fp+bank.RCSFrameWords-1 > br.UpperLimitNormalized {
		return &fault.StackFault{Kind: fault.Underflow, BaseRegister: cpu.RCSBaseRegister, FramePointer: fp}
	}
	words, err := e.proc.Storage().GetWords(br.Absolute(fp), bank.RCSFrameWords)
	if err != nil {
		return fault.NewAddressing(fault.FatalAddressingException, bank.LevelBDI{})
	}
	xreg.SetXM(fp + bank.RCSFrameWords)
	info.rcsFrame = bank.DecodeRCSFrame([bank.RCSFrameWords]uint64{words[0], words[1]})
	info.source = info.rcsFrame.Reentry.LevelBDI()
	info.sourceOffset = info.rcsFrame.Reentry.Offset
	debug.Debugf("BANK", e.debugMsk, debugRCS, "Pop RCS %o: %s key %s", fp,
		info.rcsFrame.Reentry, info.rcsFrame.AccessKey)
	return nil
}

func (e *Engine) checkReserved(info *manipulationInfo) error {
	if !info.source.IsReserved() {
		return nil
	}
	if info.interrupt != nil {
		return e.halt(info, fault.InterruptHandlerInvalidLevelBDI, bank.H1(info.source.Word()))
	}
	return fault.NewAddressing(fault.InvalidSourceLevelBDI, info.source)
}

// Designator DB16 of state being returned to.
func (info *manipulationInfo) returningToBasic() bool {
	if info.rcsFrame != nil {
		return (info.rcsFrame.DesignatorBits & 0o02) != 0
	}
	if info.packet != nil {
		return (info.packet.Designator & cpu.DB16BasicMode) != 0
	}
	return false
}

func (e *Engine) voidTarget(info *manipulationInfo) {
	info.target = bank.LevelBDI{}
	info.targetBD = nil
	info.targetOffset = info.sourceOffset
	info.next = stepSlot
}

func (e *Engine) checkVoid(info *manipulationInfo) error {
	if !info.source.IsVoid() {
		return nil
	}
	switch {
	case info.interrupt != nil:
		return e.halt(info, fault.InterruptHandlerInvalidLevelBDI, 0)
	case info.loadOp:
		e.voidTarget(info)
	case info.returnOp || info.op == OpUR:
		if !info.returningToBasic() {
			return fault.NewAddressing(fault.InvalidSourceLevelBDI, info.source)
		}
		e.voidTarget(info)
	default:
		// Nothing can be entered through the void bank.
		return fault.NewAddressing(fault.InvalidSourceLevelBDI, info.source)
	}
	return nil
}

func (e *Engine) fetchSource(info *manipulationInfo) error {
	bd, err := e.proc.FindBankDescriptor(info.source)
	if err != nil {
		if info.interrupt != nil {
			return e.halt(info, fault.InterruptHandlerInvalidLevelBDI, bank.H1(info.source.Word()))
		}
		return err
	}
	info.sourceBD = bd
	return nil
}

// LBU below privilege 1 may not base a bank it cannot enter.
func (e *Engine) reducedPrivilegeVoid(info *manipulationInfo, bd *bank.Descriptor) bool {
	return info.op == OpLBU && e.proc.Designator().ProcessorPrivilege() > 1 &&
		!bd.GeneralPerms.Enter && !bd.SpecialPerms.Enter
}

func (e *Engine) dispatch(info *manipulationInfo) error {
	info.target = info.source
	info.targetBD = info.sourceBD
	info.targetOffset = info.sourceOffset
	info.next = stepSlot

	invalid := func() error {
		if info.interrupt != nil {
			return e.halt(info, fault.InterruptHandlerInvalidBankType, bank.H1(info.source.Word()))
		}
		return fault.NewAddressing(fault.BDTypeInvalid, info.source)
	}

	switch info.sourceBD.Type {
	case bank.ExtendedModeBank:
	case bank.BasicModeBank:
		switch {
		case info.interrupt != nil:
			return invalid()
		case e.reducedPrivilegeVoid(info, info.sourceBD):
			info.targetBD = nil
		case info.returnOp && !info.returningToBasic():
			return invalid()
		}
	case bank.GateBank:
		switch {
		case info.interrupt != nil, info.returnOp, info.op == OpUR:
			return invalid()
		case info.callOp || info.op == OpGoto:
			info.next = stepGate
		}
	case bank.IndirectBank:
		switch {
		case info.interrupt != nil, info.returnOp, info.op == OpLAE, info.op == OpUR:
			return invalid()
		case info.callOp || info.loadOp:
			info.next = stepIndirect
		}
	case bank.QueueRepositoryBank:
		return invalid()
	default:
		if info.interrupt != nil || !info.loadOp {
			return invalid()
		}
	}
	return nil
}

func (e *Engine) indirect(info *manipulationInfo) error {
	if info.sourceBD.GeneralFault {
		return fault.NewAddressing(fault.GBitSetIndirect, info.source)
	}
	name := info.sourceBD.Target
	if reservedOrVoid(name) {
		return fault.NewAddressing(fault.InvalidSourceLevelBDI, info.source)
	}
	bd, err := e.proc.FindBankDescriptor(name)
	if err != nil {
		return fault.NewAddressing(fault.FatalAddressingException, name)
	}
	info.target = name
	info.targetBD = bd
	info.next = stepSlot

	switch bd.Type {
	case bank.ExtendedModeBank:
	case bank.BasicModeBank:
		if e.reducedPrivilegeVoid(info, bd) {
			info.targetBD = nil
		}
	case bank.GateBank:
		if info.callOp || info.op == OpGoto {
			info.next = stepGate
		}
	case bank.IndirectBank, bank.QueueRepositoryBank:
		return fault.NewAddressing(fault.FatalAddressingException, name)
	default:
		if !info.loadOp {
			return fault.NewAddressing(fault.FatalAddressingException, name)
		}
	}
	return nil
}

func (e *Engine) processGate(info *manipulationInfo) error {
	gbd := info.targetBD
	name := info.target
	if gbd.GeneralFault {
		return fault.NewAddressing(fault.GBitSetIndirect, name)
	}
	key := e.proc.IndicatorKey().AccessKey()
	if !bank.EffectivePermissions(key, gbd.Lock, gbd.GeneralPerms, gbd.SpecialPerms).Enter {
		return fault.NewAddressing(fault.EnterAccessDenied, name)
	}
	offset := uint64(info.targetOffset)
	if offset < gbd.LowerLimitNormalized() || offset > gbd.UpperLimitNormalized() ||
		(offset&(bank.GateSlotSize-1)) != 0 {
		return fault.NewAddressing(fault.GateBankBoundaryViolation, name)
	}

	br := bank.NewBaseRegister(gbd)
	words, err := e.proc.Storage().GetWords(br.Absolute(offset), bank.GateWords)
	if err != nil {
		return fault.NewAddressing(fault.FatalAddressingException, name)
	}
	var raw [bank.GateWords]uint64
	copy(raw[:], words)
	gate := bank.DecodeGate(raw)
	debug.Debugf("BANK", e.debugMsk, debugGate, "Gate %s+%o target %s lock %s", name, offset,
		gate.Target, gate.Lock)

	if !bank.EffectivePermissions(key, gate.Lock, gate.GeneralPerms, gate.SpecialPerms).Enter {
		return fault.NewAddressing(fault.EnterAccessDenied, name)
	}
	if (info.op == OpGoto || (info.lxjOp && info.lxjIS == 1)) && gate.GotoInhibit {
		return fault.NewAddressing(fault.GBitSetGate, name)
	}
	tname := gate.Target.LevelBDI()
	if reservedOrVoid(tname) {
		return fault.NewAddressing(fault.FatalAddressingException, name)
	}
	if gate.Library {
		return &fault.UnsupportedFault{Feature: "library gate"}
	}
	bd, err := e.proc.FindBankDescriptor(tname)
	if err != nil {
		return fault.NewAddressing(fault.FatalAddressingException, tname)
	}
	info.gate = gate
	info.target = tname
	info.targetBD = bd
	info.targetOffset = gate.Target.Offset
	info.next = stepSlot
	return nil
}

func (e *Engine) selectSlot(info *manipulationInfo) error {
	switch {
	case info.op == OpLAE:
		info.baseIndex = info.laeRegister
		info.next = stepBookkeeping
		return nil
	case info.op == OpLBE:
		info.baseIndex = info.inst.A() + 16
		info.next = stepBookkeeping
		return nil
	case info.op == OpLBU:
		info.baseIndex = info.inst.A()
		info.next = stepBookkeeping
		return nil
	case info.op == OpUR, info.interrupt != nil:
		info.baseIndex = 0
		info.next = stepState
		return nil
	}

	sourceBasic := e.proc.Designator().BasicModeEnabled()
	var destBasic bool
	switch {
	case info.returnOp:
		destBasic = info.returningToBasic()
	case info.targetBD == nil:
		destBasic = sourceBasic
	default:
		destBasic = info.targetBD.Type == bank.BasicModeBank
	}
	var mode transferMode
	switch {
	case sourceBasic && destBasic:
		mode = basicToBasic
	case sourceBasic:
		mode = basicToExtended
	case destBasic:
		mode = extendedToBasic
	default:
		mode = extendedToExtended
	}
	info.mode = &mode

	switch mode {
	case basicToBasic:
		switch {
		case info.returnOp:
			info.baseIndex = int(info.rcsFrame.BasicModeSelect) + cpu.BasicModeFirstBase
		case info.lxjOp:
			info.baseIndex = e.lxjRegister(info)
		}
	case extendedToBasic:
		switch {
		case info.returnOp:
			info.baseIndex = int(info.rcsFrame.BasicModeSelect) + cpu.BasicModeFirstBase
		case info.gate != nil:
			info.baseIndex = int(info.gate.BasicModeSelect) + cpu.BasicModeFirstBase
		default:
			info.baseIndex = cpu.BasicModeFirstBase
		}
	default:
		info.baseIndex = 0
	}
	return nil
}
