/*
 * S2200 - Storage examine and deposit commands
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
	"github.com/rcornwell/S2200/util/octal"
)

// Largest examine count.
const maxExamine = 0o1000

// Display words of storage: examine upi:seg:offset [count].
func examine(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command Examine")
	addr, err := line.getAddress()
	if err != nil {
		return false, err
	}

	count := uint64(1)
	line.skipSpace()
	if !line.isEOL() {
		count, err = line.getOctal(12)
		if err != nil {
			return false, err
		}
		if count == 0 || count > maxExamine {
			return false, fmt.Errorf("count out of range: %o", count)
		}
	}
	line.skipSpace()
	if !line.isEOL() {
		return false, errors.New("extra text after examine: " + line.token())
	}

	words, err := exec.SendExamine(addr, int(count))
	if err != nil {
		return false, err
	}
	for i, word := range words {
		var str strings.Builder
		str.WriteString(addr.Add(int64(i)).String() + " ")
		octal.FormatWord(&str, word)
		octal.FormatHalves(&str, word)
		fmt.Fprintln(output, strings.TrimRight(str.String(), " "))
	}
	return false, nil
}

// Store words into storage: deposit upi:seg:offset value[,value...].
func deposit(line *cmdLine, exec command.Executor) (bool, error) {
	slog.Debug("Command Deposit")
	addr, err := line.getAddress()
	if err != nil {
		return false, err
	}

	words := []uint64{}
	for {
		line.skipSpace()
		if line.isEOL() {
			break
		}
		word, err := line.getOctal(36)
		if err != nil {
			return false, err
		}
		words = append(words, word)
		line.skipSpace()
		if line.peek() == ',' {
			line.pos++
		}
	}
	if len(words) == 0 {
		return false, errors.New("deposit requires a value")
	}
	return false, exec.SendDeposit(addr, words)
}
