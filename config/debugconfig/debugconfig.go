/*
 * S2200 - Debug options configuration.
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

package debugconfig

import (
	"errors"
	"strings"

	config "github.com/rcornwell/S2200/config/configparser"
	"github.com/rcornwell/S2200/emu/system"
)

// register a device on initialize.
func init() {
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
}

// Enable debug options. First value is CPU or BANK for all processors, or
// the number of one processor.
func setDebug(unit uint16, name string, options []config.Option) error {
	if len(options) == 0 {
		return errors.New("debug requires options: " + name)
	}
	var apply func(*system.Unit, string) error
	upis := system.Units()

	switch strings.ToUpper(name) {
	case "CPU":
		apply = func(u *system.Unit, opt string) error { return u.Proc.Debug(opt) }
	case "BANK":
		apply = func(u *system.Unit, opt string) error { return u.Engine.Debug(opt) }
	default:
		if unit == config.NoUnit {
			return errors.New("debug option invalid: " + name)
		}
		if _, err := system.GetUnit(unit); err != nil {
			return err
		}
		apply = func(u *system.Unit, opt string) error { return system.Debug(u.Proc.UPI(), opt) }
		upis = []uint16{unit}
	}
	if len(upis) == 0 {
		return errors.New("debug given before any processor defined")
	}

	for _, upi := range upis {
		u, err := system.GetUnit(upi)
		if err != nil {
			return err
		}
		for _, opt := range options {
			for _, flag := range opt.Names() {
				if err := apply(u, flag); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
