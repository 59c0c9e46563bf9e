/*
 * S2200 - Command reader.
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

package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterh/liner"
	command "github.com/rcornwell/S2200/command/command"
	"github.com/rcornwell/S2200/command/parser"
)

// Where errors are reported.
var output io.Writer = os.Stdout

// Read commands from the console, or from stdin when it is not a terminal.
func Run(exec command.Executor) {
	if !isTerminal(os.Stdin.Fd()) {
		if _, err := ScriptReader(os.Stdin, exec); err != nil {
			slog.Error("error reading commands: " + err.Error())
		}
		return
	}
	ConsoleReader(exec)
}

// Interactive reader with history and completion.
func ConsoleReader(exec command.Executor) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) []string {
		return parser.CompleteCmd(line)
	})

	for {
		text, err := line.Prompt("S2200> ")
		if err == nil {
			line.AppendHistory(text)
			quit, err := parser.ProcessCommand(text, exec)
			if err != nil {
				fmt.Fprintln(output, "Error: "+err.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return
		}
		slog.Error("error reading line: " + err.Error())
		return
	}
}

// Run commands from r until end or quit. Errors are reported and
// processing continues. Returns true if quit was given.
func ScriptReader(r io.Reader, exec command.Executor) (bool, error) {
	scanner := bufio.NewScanner(r)
	number := 0
	for scanner.Scan() {
		number++
		quit, err := parser.ProcessCommand(scanner.Text(), exec)
		if err != nil {
			fmt.Fprintf(output, "Error: line %d: %s\n", number, err.Error())
		}
		if quit {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// Run commands from named file.
func ScriptFile(name string, exec command.Executor) (bool, error) {
	file, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer file.Close()
	return ScriptReader(file, exec)
}
