/*
 * S2200 - System unit registry
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

package system

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rcornwell/S2200/emu/bankmanip"
	"github.com/rcornwell/S2200/emu/cpu"
	"github.com/rcornwell/S2200/emu/memory"
)

// Largest processor index.
const MaxUPI = 0o17

// Processor with its bank manipulation engine.
type Unit struct {
	Proc   *cpu.Processor
	Engine *bankmanip.Engine
}

var (
	storage = memory.New()
	units   = map[uint16]*Unit{}
)

var ErrNoUnit = errors.New("processor not defined")

// Storage shared by all processors.
func Storage() *memory.Memory {
	return storage
}

// Define processor upi.
func AddProcessor(upi uint16) (*Unit, error) {
	if upi > MaxUPI {
		return nil, fmt.Errorf("processor %o out of range", upi)
	}
	if _, ok := units[upi]; ok {
		return nil, fmt.Errorf("processor %o already defined", upi)
	}
	proc := cpu.NewProcessor(upi, storage)
	unit := &Unit{Proc: proc, Engine: bankmanip.New(proc)}
	units[upi] = unit
	return unit, nil
}

// Return processor upi, creating it on first reference.
func GetOrAddUnit(upi uint16) (*Unit, error) {
	if unit, ok := units[upi]; ok {
		return unit, nil
	}
	return AddProcessor(upi)
}

func GetUnit(upi uint16) (*Unit, error) {
	unit, ok := units[upi]
	if !ok {
		return nil, fmt.Errorf("%w: %o", ErrNoUnit, upi)
	}
	return unit, nil
}

// Sorted list of defined processors.
func Units() []uint16 {
	list := make([]uint16, 0, len(units))
	for upi := range units {
		list = append(list, upi)
	}
	slices.Sort(list)
	return list
}

// Remove all processors and storage.
func Reset() {
	storage = memory.New()
	units = map[uint16]*Unit{}
}

// Set debug option on a processor. Options not known to the processor are
// given to its engine.
func Debug(upi uint16, opt string) error {
	unit, err := GetUnit(upi)
	if err != nil {
		return err
	}
	if err := unit.Proc.Debug(opt); err == nil {
		return nil
	}
	return unit.Engine.Debug(opt)
}
