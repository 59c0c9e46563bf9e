/*
 * S2200 - Command interface
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

package command

import (
	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/bankmanip"
	"github.com/rcornwell/S2200/emu/fault"
)

// List of options given to a command.
type CmdOption struct {
	Name     string // Name of option.
	EqualOpt string // Value of string after =.
	Value    uint64 // Numeric value.
}

// List of option types.
const (
	OptionSwitch = 1 + iota
	OptionNumber
	OptionList
)

type Options struct {
	Name       string   // Name of option.
	OptionType int      // Type of argument.
	OptionList []string // List of valid values for this option.
}

// Requests the console makes of the simulator.
type Executor interface {
	SendStart(upi uint16) error
	SendStop(upi uint16) error
	SendClear(upi uint16) error
	SendManipulate(upi uint16, op bankmanip.Operation, register int, operand uint64) error
	SendLoadEnv(upi uint16, register int, operand uint64) error
	SendUserReturn(upi uint16, packet bankmanip.UserReturnPacket) error
	SendInterrupt(upi uint16, class fault.InterruptClass) error
	SendExamine(addr bank.AbsoluteAddress, count int) ([]uint64, error)
	SendDeposit(addr bank.AbsoluteAddress, words []uint64) error
	SendStatus(upi uint16, item string) (string, error)
}
