/*
 * S2200 - Log handler tests
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

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newTest(debug bool) (*slog.Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	h := NewHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}, debug)
	h.errOut = &errOut
	return slog.New(h), &out, &errOut
}

// Check message format.
func TestFormat(t *testing.T) {
	log, out, errOut := newTest(false)
	log.Info("Processor stopped", "reason", "L0BaseRegisterInvalid")
	line := out.String()
	if !strings.HasSuffix(line, "INFO: Processor stopped reason=L0BaseRegisterInvalid\n") {
		t.Errorf("Log line not correct got: %q", line)
	}
	if errOut.Len() != 0 {
		t.Errorf("Info message sent to stderr: %q", errOut.String())
	}
}

// Check warnings mirrored to stderr.
func TestMirror(t *testing.T) {
	log, out, errOut := newTest(false)
	log.Warn("Halt")
	if out.String() != errOut.String() {
		t.Errorf("Warning not mirrored got: %q expected: %q", errOut.String(), out.String())
	}

	log, _, errOut = newTest(true)
	log.Debug("Step")
	if !strings.Contains(errOut.String(), "DEBUG: Step") {
		t.Errorf("Debug not mirrored got: %q", errOut.String())
	}
}

// Check attributes and groups carried by derived loggers.
func TestWithAttrs(t *testing.T) {
	log, out, _ := newTest(false)
	log.With("upi", 0).WithGroup("bank").Info("Load", "reg", 3)
	if !strings.HasSuffix(out.String(), "Load upi=0 bank.reg=3\n") {
		t.Errorf("Attributes not correct got: %q", out.String())
	}
}
