/*
 * S2200 - Debug trace file tests
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

package debug

import (
	"bytes"
	"testing"
)

// Check messages only written when level enabled.
func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	Debugf("BANK", 0o1, 0o2, "step %d", 3)
	if buf.Len() != 0 {
		t.Errorf("Disabled message written: %s", buf.String())
	}
	Debugf("BANK", 0o3, 0o2, "step %d", 3)
	if buf.String() != "BANK: step 3\n" {
		t.Errorf("Message not correct got: %q", buf.String())
	}

	buf.Reset()
	DebugUnitf(0o12, 1, 1, "stop")
	if buf.String() != "IP12: stop\n" {
		t.Errorf("Unit message not correct got: %q", buf.String())
	}
}

// Check no output does not fail.
func TestNoOutput(t *testing.T) {
	SetOutput(nil)
	Debugf("CPU", 1, 1, "nothing")
}
