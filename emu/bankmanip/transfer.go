/*
 * S2200 - Bank manipulation, processor state update
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

func (e *Engine) releasePrior(info *manipulationInfo) error {
	if info.mode == nil {
		return nil
	}
	switch *info.mode {
	case extendedToBasic:
		e.proc.SetBaseRegister(0, bank.VoidBaseRegister)
		par := e.proc.ProgramAddress()
		par.Level = 0
		par.BDI = 0
	case basicToExtended:
		reg := info.baseIndex
		switch {
		case info.returnOp && info.rcsFrame != nil:
			reg = int(info.rcsFrame.BasicModeSelect) + cpu.BasicModeFirstBase
		case info.lxjOp && info.priorIndex != 0:
			reg = info.priorIndex
		}
		e.proc.SetBaseRegister(reg, bank.VoidBaseRegister)
	}
	return nil
}

func (info *manipulationInfo) priorName() bank.LevelBDI {
	if info.prior == nil {
		return bank.LevelBDI{}
	}
	return *info.prior
}

func (e *Engine) pushRCS(info *manipulationInfo) error {
	if !info.callOp {
		return nil
	}
	br := e.proc.BaseRegister(cpu.RCSBaseRegister)
	if br.Void {
		return &fault.StackFault{Kind: fault.Overflow, BaseRegister: cpu.RCSBaseRegister}
	}
	xreg := (*cpu.IndexRegister)(e.proc.GeneralRegister(cpu.RCSIndex))
	xm := xreg.XM()
	if xm < bank.RCSFrameWords || xm-bank.RCSFrameWords < br.LowerLimitNormalized {
		fp := (xm - bank.RCSFrameWords) & bank.H2Mask
		return &fault.StackFault{Kind: fault.Overflow, BaseRegister: cpu.RCSBaseRegister, FramePointer: fp}
	}
	fp := xm - bank.RCSFrameWords

	var bValue int
	switch *info.mode {
	case extendedToBasic:
		if info.gate != nil {
			bValue = int(info.gate.BasicModeSelect)
		}
	case basicToExtended:
		if info.lxjOp {
			bValue = e.lxjRegister(info) - cpu.BasicModeFirstBase
		}
	}

	prior := info.priorName()
	frame := bank.ReturnControlStackFrame{
		Reentry: bank.VirtualAddress{
			Level:  prior.Level,
			BDI:    prior.BDI,
			Offset: (e.proc.ProgramAddress().Offset + 1) & uint32(bank.H2Mask),
		},
		BasicModeSelect: uint8(bValue),
		DesignatorBits:  e.proc.Designator().Bits12To17(),
		AccessKey:       e.proc.IndicatorKey().AccessKey(),
	}
	words := frame.Encode()
	if err := e.proc.Storage().PutWords(br.Absolute(fp), words[:]); err != nil {
		return fault.NewAddressing(fault.FatalAddressingException, bank.LevelBDI{})
	}
	xreg.SetXM(fp)
	debug.Debugf("BANK", e.debugMsk, debugRCS, "Push RCS %o: %s key %s", fp, frame.Reentry, frame.AccessKey)
	return nil
}

func (e *Engine) linkage(info *manipulationInfo) error {
	switch {
	case info.lxjOp && *info.mode == basicToBasic:
		prior := info.priorName()
		pc := e.proc.ProgramAddress().Offset + 1
		value := bank.TranslateToBasicMode(prior.Level, prior.BDI, pc)
		value |= uint64(info.baseIndex&0o3) << 33
		*info.lxjX = cpu.IndexRegister(value)
	case info.op == OpCall && *info.mode == extendedToBasic:
		*e.proc.ExecOrUserXRegister(cpu.X11Offset) = cpu.IndexRegister(2 << 30)
	}
	return nil
}

func (e *Engine) callerState(info *manipulationInfo) error {
	if !info.callOp {
		return nil
	}
	value := e.proc.IndicatorKey().AccessKey().Word()
	if e.proc.Designator().BasicModeEnabled() {
		value |= 0o400000_000000
	}
	*e.proc.GeneralRegister(cpu.X0) = value
	return nil
}

func (e *Engine) gateState(info *manipulationInfo) error {
	gate := info.gate
	if gate == nil {
		return nil
	}
	if !gate.DBInhibit {
		dr := e.proc.Designator()
		value := uint64(*dr) & 0o777702_777777
		value |= (gate.DesignatorBits << 18) & 0o000075_000000
		*dr = cpu.DesignatorRegister(value)
	}
	if !gate.KeyInhibit {
		e.proc.IndicatorKey().SetAccessKey(gate.AccessKey)
	}
	if !gate.LP0Inhibit {
		*e.proc.ExecOrUserRRegister(0) = gate.LatentParam0
	}
	if !gate.LP1Inhibit {
		*e.proc.ExecOrUserRRegister(1) = gate.LatentParam1
	}
	info.next = stepProgramCounter
	return nil
}

func (e *Engine) loadState(info *manipulationInfo) error {
	dr := e.proc.Designator()
	switch {
	case info.interrupt != nil:
		*e.proc.ProgramAddress() = bank.VirtualAddress{
			Level:  info.target.Level,
			BDI:    info.target.BDI,
			Offset: info.targetOffset,
		}
		var nd cpu.DesignatorRegister
		nd.Set(cpu.DB17ExecRegisterSet|cpu.DB29ArithmeticException, true)
		nd.Set(cpu.DB16BasicMode, info.targetBD.Type == bank.BasicModeBank)
		nd.Set(cpu.DB31BasicModeBaseSelection, dr.BasicModeBaseRegisterSelection())
		nd.Set(cpu.DB6FaultHandling, *info.interrupt == fault.HardwareCheck)
		*dr = nd
		*e.proc.IndicatorKey() = 0
		info.next = stepBookkeeping
	case info.op == OpUR:
		*e.proc.ProgramAddress() = bank.NewVirtualAddress(info.packet.PAR)
		*dr = cpu.DesignatorRegister(info.packet.Designator & bank.WordMask)
		ikr := e.proc.IndicatorKey()
		ssf := ikr.ShortStatusField()
		*ikr = cpu.IndicatorKeyRegister(info.packet.IndicatorKey & bank.WordMask)
		ikr.SetShortStatusField(ssf)
		e.proc.SetQuantumTimer(info.packet.QuantumTimer)
		info.next = stepBookkeeping
	case info.returnOp:
		e.proc.IndicatorKey().SetAccessKey(info.rcsFrame.AccessKey)
		dr.SetBits12To17(info.rcsFrame.DesignatorBits)
		if dr.ProcessorPrivilege() > 1 {
			dr.Set(cpu.DB17ExecRegisterSet, false)
		}
	case info.op == OpGoto || info.op == OpCall:
		if *info.mode == extendedToBasic {
			dr.Set(cpu.DB16BasicMode, true)
		}
	case info.lxjOp:
		if *info.mode == basicToExtended {
			dr.Set(cpu.DB16BasicMode, false)
		}
	}
	return nil
}

func (e *Engine) programCounter(info *manipulationInfo) error {
	if info.mode != nil {
		e.proc.ProgramAddress().Offset = info.targetOffset
	}
	return nil
}

func (e *Engine) bookkeeping(info *manipulationInfo) error {
	switch {
	case info.baseIndex == 0:
		if info.interrupt == nil && info.op != OpUR {
			par := e.proc.ProgramAddress()
			par.Level = info.target.Level
			par.BDI = info.target.BDI
		}
	case info.baseIndex <= cpu.ActiveBaseEntries:
		var entry cpu.ActiveBaseTableEntry
		if info.targetBD != nil {
			entry.Level = info.target.Level
			entry.BDI = info.target.BDI
			if info.loadOp {
				entry.Offset = info.targetOffset
			}
		}
		e.proc.SetActiveBaseTableEntry(info.baseIndex, entry)
	}
	return nil
}

func (e *Engine) loadRegister(info *manipulationInfo) error {
	var br bank.BaseRegister
	switch {
	case info.targetBD == nil:
		br = bank.VoidBaseRegister
	case info.loadOp && info.targetOffset != 0:
		br = bank.NewSubsetBaseRegister(info.targetBD, uint64(info.targetOffset))
	default:
		br = bank.NewBaseRegister(info.targetBD)
	}
	e.proc.SetBaseRegister(info.baseIndex, br)
	return nil
}

func (e *Engine) basicSelect(info *manipulationInfo) error {
	if info.mode != nil && info.mode.toBasic() {
		e.proc.FindBasicModeBank(uint64(info.targetOffset), true)
	}
	return nil
}

func (e *Engine) finalChecks(info *manipulationInfo) error {
	info.next = stepDone
	bd := info.targetBD
	if bd == nil {
		return nil
	}
	fatal := fault.NewAddressing(fault.FatalAddressingException, info.target)
	if !info.loadOp && reservedOrVoid(info.target) {
		return fatal
	}
	transfer := info.mode != nil
	if (info.op == OpLBE || info.op == OpLBU || transfer) && bd.GeneralFault {
		return fatal
	}

	perms := bank.EffectivePermissions(e.proc.IndicatorKey().AccessKey(), bd.Lock,
		bd.GeneralPerms, bd.SpecialPerms)
	if transfer && info.gate == nil && !info.returnOp && !info.mode.toBasic() && !perms.Enter {
		return fatal
	}
	basic := bd.Type == bank.BasicModeBank
	if transfer && info.gate == nil && basic && !perms.Enter &&
		uint64(info.targetOffset) != bd.LowerLimitNormalized() {
		return fatal
	}
	if transfer && (info.gate != nil || !perms.Enter) && basic {
		br := e.proc.BaseRegister(info.baseIndex)
		if !br.Contains(uint64(e.proc.ProgramAddress().Offset)) {
			return fatal
		}
	}
	if info.rcsFrame != nil && info.rcsFrame.Trap {
		return fatal
	}
	return nil
}
