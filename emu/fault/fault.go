/*
 * S2200 - Faults raised by bank manipulation
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

package fault

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rcornwell/S2200/emu/bank"
)

// Machine interrupt classes, value is the vector index in the level 0 table.
type InterruptClass uint8

const (
	HardwareDefault                  InterruptClass = 0o00
	HardwareCheck                    InterruptClass = 0o01
	ReferenceViolation               InterruptClass = 0o10
	AddressingException              InterruptClass = 0o11
	TerminalAddressingException      InterruptClass = 0o12
	RCSGenericStackUnderflowOverflow InterruptClass = 0o13
	Signal                           InterruptClass = 0o14
	TestAndSet                       InterruptClass = 0o15
	InvalidInstruction               InterruptClass = 0o16
	PageException                    InterruptClass = 0o17
	ArithmeticException              InterruptClass = 0o20
	DataException                    InterruptClass = 0o21
	OperationTrap                    InterruptClass = 0o22
	Breakpoint                       InterruptClass = 0o23
	QuantumTimer                     InterruptClass = 0o24
	SoftwareBreak                    InterruptClass = 0o30
	JumpHistoryFull                  InterruptClass = 0o31
	Dayclock                         InterruptClass = 0o33
	PerformanceMonitoring            InterruptClass = 0o34
	InitialProgramLoad               InterruptClass = 0o35
	UPIInitial                       InterruptClass = 0o36
	UPINormal                        InterruptClass = 0o37
)

var classNames = map[InterruptClass]string{
	HardwareDefault:                  "HardwareDefault",
	HardwareCheck:                    "HardwareCheck",
	ReferenceViolation:               "ReferenceViolation",
	AddressingException:              "AddressingException",
	TerminalAddressingException:      "TerminalAddressingException",
	RCSGenericStackUnderflowOverflow: "RCSGenericStackUnderflowOverflow",
	Signal:                           "Signal",
	TestAndSet:                       "TestAndSet",
	InvalidInstruction:               "InvalidInstruction",
	PageException:                    "PageException",
	ArithmeticException:              "ArithmeticException",
	DataException:                    "DataException",
	OperationTrap:                    "OperationTrap",
	Breakpoint:                       "Breakpoint",
	QuantumTimer:                     "QuantumTimer",
	SoftwareBreak:                    "SoftwareBreak",
	JumpHistoryFull:                  "JumpHistoryFull",
	Dayclock:                         "Dayclock",
	PerformanceMonitoring:            "PerformanceMonitoring",
	InitialProgramLoad:               "InitialProgramLoad",
	UPIInitial:                       "UPIInitial",
	UPINormal:                        "UPINormal",
}

func (c InterruptClass) String() string {
	name, ok := classNames[c]
	if !ok {
		return fmt.Sprintf("Class(%o)", uint8(c))
	}
	return name
}

// Sorted names of all interrupt classes.
func ClassNames() []string {
	names := make([]string, 0, len(classNames))
	for _, name := range classNames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Look up class by name, case must match.
func ClassByName(name string) (InterruptClass, bool) {
	for class, n := range classNames {
		if n == name {
			return class, true
		}
	}
	return 0, false
}

// Error that is turned into a machine interrupt by the caller.
type Fault interface {
	error
	Class() InterruptClass
}

// Interrupt class for an error, ok false if not a fault.
func ClassOf(err error) (InterruptClass, bool) {
	var f Fault
	if errors.As(err, &f) {
		return f.Class(), true
	}
	return 0, false
}

type AddressingReason int

const (
	InvalidISValue AddressingReason = 1 + iota
	InvalidSourceLevelBDI
	BDTypeInvalid
	GBitSetIndirect
	GBitSetGate
	EnterAccessDenied
	GateBankBoundaryViolation
	FatalAddressingException
)

var addressingNames = map[AddressingReason]string{
	InvalidISValue:            "invalid IS value",
	InvalidSourceLevelBDI:     "invalid source L,BDI",
	BDTypeInvalid:             "bank descriptor type invalid",
	GBitSetIndirect:           "G bit set on indirect or gate bank",
	GBitSetGate:               "goto inhibited by gate",
	EnterAccessDenied:         "enter access denied",
	GateBankBoundaryViolation: "gate bank boundary violation",
	FatalAddressingException:  "fatal addressing exception",
}

func (r AddressingReason) String() string {
	name, ok := addressingNames[r]
	if !ok {
		return fmt.Sprintf("reason %d", int(r))
	}
	return name
}

type AddressingFault struct {
	Reason AddressingReason
	Source bank.LevelBDI // Bank being processed.
}

func NewAddressing(reason AddressingReason, source bank.LevelBDI) *AddressingFault {
	return &AddressingFault{Reason: reason, Source: source}
}

func (f *AddressingFault) Error() string {
	return fmt.Sprintf("addressing exception: %s at %s", f.Reason, f.Source)
}

// Fatal conditions are terminal, all others may be retried by software.
func (f *AddressingFault) Class() InterruptClass {
	if f.Reason == FatalAddressingException {
		return TerminalAddressingException
	}
	return AddressingException
}

type InvalidInstructionReason int

const (
	InvalidBaseRegister InvalidInstructionReason = 1 + iota
	InvalidProcessorPrivilege
)

type InvalidInstructionFault struct {
	Reason InvalidInstructionReason
}

func (f *InvalidInstructionFault) Error() string {
	switch f.Reason {
	case InvalidBaseRegister:
		return "invalid instruction: invalid base register"
	case InvalidProcessorPrivilege:
		return "invalid instruction: invalid processor privilege"
	}
	return fmt.Sprintf("invalid instruction: reason %d", int(f.Reason))
}

func (f *InvalidInstructionFault) Class() InterruptClass {
	return InvalidInstruction
}

type StackKind int

const (
	Overflow StackKind = 1 + iota
	Underflow
)

type StackFault struct {
	Kind         StackKind
	BaseRegister int    // Register holding the stack.
	FramePointer uint64 // Frame pointer being accessed.
}

func (f *StackFault) Error() string {
	kind := "overflow"
	if f.Kind == Underflow {
		kind = "underflow"
	}
	return fmt.Sprintf("RCS %s: B%d frame pointer %o", kind, f.BaseRegister, f.FramePointer)
}

func (f *StackFault) Class() InterruptClass {
	return RCSGenericStackUnderflowOverflow
}

// Feature not provided by this processor.
type UnsupportedFault struct {
	Feature string
}

func (f *UnsupportedFault) Error() string {
	return "unsupported: " + f.Feature
}

func (f *UnsupportedFault) Class() InterruptClass {
	return InvalidInstruction
}

// Reasons the processor halts instead of taking an interrupt.
type StopReason int

const (
	NotStopped StopReason = iota
	Cleared
	Debug
	L0BaseRegisterInvalid
	ICSBaseRegisterInvalid
	ICSOverflow
	InterruptHandlerHardwareFailure
	InterruptHandlerOffsetOutOfRange
	InterruptHandlerInvalidBankType
	InterruptHandlerInvalidLevelBDI
)

var stopNames = map[StopReason]string{
	NotStopped:                       "NotStopped",
	Cleared:                          "Cleared",
	Debug:                            "Debug",
	L0BaseRegisterInvalid:            "L0BaseRegisterInvalid",
	ICSBaseRegisterInvalid:           "ICSBaseRegisterInvalid",
	ICSOverflow:                      "ICSOverflow",
	InterruptHandlerHardwareFailure:  "InterruptHandlerHardwareFailure",
	InterruptHandlerOffsetOutOfRange: "InterruptHandlerOffsetOutOfRange",
	InterruptHandlerInvalidBankType:  "InterruptHandlerInvalidBankType",
	InterruptHandlerInvalidLevelBDI:  "InterruptHandlerInvalidLevelBDI",
}

func (r StopReason) String() string {
	name, ok := stopNames[r]
	if !ok {
		return fmt.Sprintf("Stop(%d)", int(r))
	}
	return name
}
