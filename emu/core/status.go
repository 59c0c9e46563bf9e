/*
 * S2200 - Processor status display
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

package core

import (
	"fmt"
	"strings"

	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/cpu"
	"github.com/rcornwell/S2200/util/octal"
)

// Items accepted by status.
var StatusItems = []string{"all", "br", "abt", "dr", "key", "par", "x", "rcs", "stop"}

// Format one item of processor state.
func status(proc *cpu.Processor, item string) (string, error) {
	var str strings.Builder
	switch strings.ToLower(item) {
	case "", "all":
		showStop(&str, proc)
		fmt.Fprintf(&str, "DR  %s\n", proc.Designator())
		showKey(&str, proc)
		fmt.Fprintf(&str, "PAR %s\n", proc.ProgramAddress())
	case "br":
		for i := range bank.BaseRegisters {
			br := proc.BaseRegister(i)
			w := br.Words()
			fmt.Fprintf(&str, "B%-2d ", i)
			octal.FormatWord(&str, w[:]...)
			str.WriteString(br.String() + "\n")
		}
	case "abt":
		for i := 1; i <= cpu.ActiveBaseEntries; i++ {
			entry := proc.ActiveBaseTableEntry(i)
			fmt.Fprintf(&str, "B%-2d ", i)
			octal.FormatWord(&str, entry.Word())
			str.WriteString(entry.LevelBDI().String() + "\n")
		}
	case "dr":
		fmt.Fprintf(&str, "DR  %s\n", proc.Designator())
	case "key":
		showKey(&str, proc)
	case "par":
		fmt.Fprintf(&str, "PAR %s\n", proc.ProgramAddress())
	case "x":
		for i := range 16 {
			x := proc.ExecOrUserXRegister(i)
			fmt.Fprintf(&str, "X%-2d ", i)
			octal.FormatHalf(&str, true, x.XI(), x.XM())
			str.WriteString("\n")
		}
	case "rcs":
		if err := showRCS(&str, proc); err != nil {
			return "", err
		}
	case "stop":
		showStop(&str, proc)
	default:
		return "", fmt.Errorf("unknown status item: %s", item)
	}
	return str.String(), nil
}

func showKey(str *strings.Builder, proc *cpu.Processor) {
	ikr := proc.IndicatorKey()
	fmt.Fprintf(str, "KEY %012o %s\n", uint64(*ikr), ikr.AccessKey())
}

func showStop(str *strings.Builder, proc *cpu.Processor) {
	stopped, reason, detail := proc.Stopped()
	if stopped {
		fmt.Fprintf(str, "Stopped %s %012o\n", reason, detail)
	} else {
		str.WriteString("Running\n")
	}
}

// Frames from the top of the return control stack down.
func showRCS(str *strings.Builder, proc *cpu.Processor) error {
	br := proc.BaseRegister(cpu.RCSBaseRegister)
	if br.Void {
		str.WriteString("RCS void\n")
		return nil
	}
	x := (*cpu.IndexRegister)(proc.GeneralRegister(cpu.RCSIndex))
	fmt.Fprintf(str, "RCS XM=%06o limits=%o-%o\n", x.XM(), br.LowerLimitNormalized, br.UpperLimitNormalized)
	for fp := x.XM(); fp+bank.RCSFrameWords-1 <= br.UpperLimitNormalized; fp += bank.RCSFrameWords {
		words, err := proc.Storage().GetWords(br.Absolute(fp), bank.RCSFrameWords)
		if err != nil {
			return err
		}
		frame := bank.DecodeRCSFrame([bank.RCSFrameWords]uint64{words[0], words[1]})
		fmt.Fprintf(str, "%06o %s trap=%t key=%s DB=%02o B%d\n", fp, frame.Reentry, frame.Trap,
			frame.AccessKey, frame.DesignatorBits, int(frame.BasicModeSelect)+cpu.BasicModeFirstBase)
	}
	return nil
}
