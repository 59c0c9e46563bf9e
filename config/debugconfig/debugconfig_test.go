/*
 * S2200 - Debug options configuration tests.
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
	"strings"
	"testing"

	config "github.com/rcornwell/S2200/config/configparser"
	"github.com/rcornwell/S2200/emu/system"
)

func load(text string) error {
	return config.LoadConfig(strings.NewReader(text))
}

// Check debug options reach processors.
func TestDebug(t *testing.T) {
	system.Reset()
	if err := load("DEBUG CPU BDT\n"); err == nil {
		t.Errorf("Debug before processor accepted")
	}
	for _, upi := range []uint16{0, 1} {
		if _, err := system.AddProcessor(upi); err != nil {
			t.Fatalf("AddProcessor failed: %v", err)
		}
	}

	good := []string{
		"DEBUG CPU BDT, STOP REGS\n",
		"DEBUG BANK STEP, GATE, RCS\n",
		"DEBUG 1 BDT STEP\n",
	}
	for _, text := range good {
		if err := load(text); err != nil {
			t.Errorf("%q failed: %v", text, err)
		}
	}

	bad := []string{
		"DEBUG CPU STEP\n",
		"DEBUG BANK BDT\n",
		"DEBUG 2 BDT\n",
		"DEBUG TAPE READ\n",
		"DEBUG CPU\n",
	}
	for _, text := range bad {
		if err := load(text); err == nil {
			t.Errorf("%q not rejected", text)
		}
	}
}
