/*
 * S2200 - Console commands
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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	command "github.com/rcornwell/S2200/command/command"
	"github.com/rcornwell/S2200/emu/bankmanip"
	"github.com/rcornwell/S2200/emu/core"
	"github.com/rcornwell/S2200/emu/fault"
)

var cmdList = []cmd{
	{Name: "call", Min: 2, Process: transfer(bankmanip.OpCall, false)},
	{Name: "goto", Min: 1, Process: transfer(bankmanip.OpGoto, false)},
	{Name: "locl", Min: 2, Process: transfer(bankmanip.OpLOCL, false)},
	{Name: "lae", Min: 2, Process: transfer(bankmanip.OpLAE, true)},
	{Name: "lbe", Min: 3, Process: transfer(bankmanip.OpLBE, true)},
	{Name: "lbu", Min: 3, Process: transfer(bankmanip.OpLBU, true)},
	{Name: "lbj", Min: 3, Process: transfer(bankmanip.OpLBJ, true)},
	{Name: "ldj", Min: 2, Process: transfer(bankmanip.OpLDJ, true)},
	{Name: "lij", Min: 2, Process: transfer(bankmanip.OpLIJ, true)},
	{Name: "rtn", Min: 1, Process: rtn},
	{Name: "ur", Min: 2, Process: userReturn},
	{Name: "interrupt", Min: 2, Process: interrupt, Complete: interruptComplete},
	{Name: "show", Min: 2, Process: show, Complete: showComplete},
	{Name: "start", Min: 4, Process: start},
	{Name: "stop", Min: 3, Process: stop},
	{Name: "clear", Min: 2, Process: clearCPU},
	{Name: "examine", Min: 1, Process: examine},
	{Name: "deposit", Min: 1, Process: deposit},
	{Name: "quit", Min: 1, Process: quit},
}

// Build handler for a bank transfer instruction. Those that name a
// register take it before the operand.
func transfer(op bankmanip.Operation, register bool) func(*cmdLine, command.Executor) (bool, error) {
	return func(line *cmdLine, exec command.Executor) (bool, error) {
		slog.Debug("Command " + op.String())
		a := 0
		if register {
			value, err := line.getOctal(4)
			if err != nil {
				return false, fmt.Errorf("%s requires register: %w", op, err)
			}
			a = int(value)
		}
		operand, err := line.getOperand()
		if err != nil {
			return false, fmt.Errorf("%s requires operand: %w", op, err)
		}
		upi, err := line.getUPI()
		if err != nil {
			return false, err
		}
		if op == bankmanip.OpLAE {
			return false, exec.SendLoadEnv(upi, a, operand)
		}
		return false, exec.SendManipulate(upi, op, a, operand)
	}
}

// Return from a call.
func rtn(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command RTN")
	upi, err := line.getUPI()
	if err != nil {
		return false, err
	}
	return false, exec.SendManipulate(upi, bankmanip.OpRTN, 0, 0)
}

// User return, takes PAR, designator, indicator key and quantum words.
func userReturn(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command UR")
	var words [4]uint64
	for i := range words {
		value, err := line.getOctal(36)
		if err != nil {
			return false, fmt.Errorf("ur requires four words: %w", err)
		}
		words[i] = value
	}
	upi, err := line.getUPI()
	if err != nil {
		return false, err
	}
	packet := bankmanip.UserReturnPacket{
		PAR:          words[0],
		Designator:   words[1],
		IndicatorKey: words[2],
		QuantumTimer: words[3],
	}
	return false, exec.SendUserReturn(upi, packet)
}

// Find class by name in any case, or by octal vector number.
func (line *cmdLine) getClass() (fault.InterruptClass, error) {
	name := line.getWord(false)
	if name == "" {
		value, err := line.getOctal(6)
		if err != nil {
			return 0, errors.New("interrupt class required")
		}
		return fault.InterruptClass(value), nil
	}
	for _, className := range fault.ClassNames() {
		if strings.ToLower(className) == name {
			class, _ := fault.ClassByName(className)
			return class, nil
		}
	}
	return 0, errors.New("unknown interrupt class: " + name)
}

// Enter interrupt handler.
func interrupt(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command Interrupt")
	class, err := line.getClass()
	if err != nil {
		return false, err
	}
	upi, err := line.getUPI()
	if err != nil {
		return false, err
	}
	return false, exec.SendInterrupt(upi, class)
}

// Interrupt command completion.
func interruptComplete(line *cmdLine) []string {
	return line.completeWord(fault.ClassNames())
}

func showOptions() []command.Options {
	opts := []command.Options{upiOption}
	for _, item := range core.StatusItems {
		opts = append(opts, command.Options{Name: item, OptionType: command.OptionSwitch})
	}
	return opts
}

// Display processor state.
func show(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command Show")
	optlist, err := line.getOptions(showOptions())
	if err != nil {
		return false, err
	}
	upi, err := selectedUPI(optlist)
	if err != nil {
		return false, err
	}

	items := []string{}
	for _, opt := range optlist {
		if opt.Name != upiOption.Name {
			items = append(items, opt.Name)
		}
	}
	if len(items) == 0 {
		items = append(items, "all")
	}

	for _, item := range items {
		text, err := exec.SendStatus(upi, item)
		if err != nil {
			return false, err
		}
		fmt.Fprint(output, text)
	}
	return false, nil
}

// Show command completion.
func showComplete(line *cmdLine) []string {
	return line.completeWord(core.StatusItems)
}

// Allow processor to run again.
func start(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command Start")
	upi, err := line.getUPI()
	if err != nil {
		return false, err
	}
	return false, exec.SendStart(upi)
}

// Halt the processor.
func stop(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command Stop")
	upi, err := line.getUPI()
	if err != nil {
		return false, err
	}
	return false, exec.SendStop(upi)
}

// Clear processor registers.
func clearCPU(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command Clear")
	upi, err := line.getUPI()
	if err != nil {
		return false, err
	}
	return false, exec.SendClear(upi)
}

// Handle commands that quit simulation.
func quit(_ *cmdLine, _ command.Executor) (bool, error) {
	slog.Debug("Command Quit")
	return true, nil
}
