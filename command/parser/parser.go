/*
 * S2200 - Command parser
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
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	command "github.com/rcornwell/S2200/command/command"
	"github.com/rcornwell/S2200/emu/bank"
)

type cmd struct {
	Name     string // Command name.
	Min      int    // Minimum match size.
	Process  func(*cmdLine, command.Executor) (bool, error)
	Complete func(*cmdLine) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

// Where command output goes.
var output io.Writer = os.Stdout

// Execute the command line given. Returns true if simulator should exit.
func ProcessCommand(commandLine string, exec command.Executor) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord(false)
	if name == "" {
		line.skipSpace()
		if line.isEOL() {
			return false, nil
		}
		return false, errors.New("command not found: " + strings.TrimSpace(commandLine))
	}

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}

	if len(match) > 1 {
		return false, errors.New("unique command not found: " + name)
	}

	return match[0].Process(&line, exec)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, name string) bool {
	return len(name) >= match.Min && strings.HasPrefix(match.Name, name)
}

// Check if command matches one of the commands.
func matchList(name string) []cmd {
	if name == "" {
		return []cmd{}
	}

	var match []cmd
	for _, m := range cmdList {
		if m.Name == name {
			return []cmd{m}
		}
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

// Match list of options.
func matchOption(option string, optList []command.Options) command.Options {
	for _, opt := range optList {
		if opt.Name == option {
			return opt
		}
	}
	return command.Options{OptionType: -1}
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Current character, 0 at end of line.
func (line *cmdLine) peek() byte {
	if line.isEOL() {
		return 0
	}
	return line.line[line.pos]
}

// Check if character ends a token.
func (line *cmdLine) atSeparator() bool {
	by := line.peek()
	return by == 0 || unicode.IsSpace(rune(by))
}

// Parse a word of letters. If equal is set the word may be ended by =,
// which is skipped.
func (line *cmdLine) getWord(equal bool) string {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && unicode.IsLetter(rune(line.line[line.pos])) {
		line.pos++
	}
	word := strings.ToLower(line.line[start:line.pos])
	if line.atSeparator() {
		return word
	}
	if equal && line.pos != start && line.line[line.pos] == '=' {
		line.pos++
		return word
	}
	line.pos = start
	return ""
}

// Check if last word was ended by =.
func (line *cmdLine) afterEqual() bool {
	return line.pos > 0 && line.line[line.pos-1] == '='
}

// Parse an octal number of at most bits. It must be followed by a space,
// comma, colon or end of line.
func (line *cmdLine) getOctal(bits int) (uint64, error) {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && line.line[line.pos] >= '0' && line.line[line.pos] <= '7' {
		line.pos++
	}
	by := line.peek()
	if start == line.pos || (by != 0 && by != ',' && by != ':' && !unicode.IsSpace(rune(by))) {
		line.pos = start
		return 0, errors.New("not an octal number: " + line.token())
	}
	text := line.line[start:line.pos]
	value, err := strconv.ParseUint(text, 8, bits)
	if err != nil {
		return 0, errors.New("number out of range: " + text)
	}
	return value, nil
}

// Rest of current token for messages.
func (line *cmdLine) token() string {
	end := line.pos
	for end < len(line.line) && !unicode.IsSpace(rune(line.line[end])) {
		end++
	}
	return line.line[line.pos:end]
}

// Expect character c.
func (line *cmdLine) expect(c byte, what string) error {
	line.skipSpace()
	if line.peek() != c {
		return fmt.Errorf("%s expected at: %s", what, line.token())
	}
	line.pos++
	return nil
}

// Parse an operand word, either octal or L,BDI,offset.
func (line *cmdLine) getOperand() (uint64, error) {
	first, err := line.getOctal(36)
	if err != nil {
		return 0, err
	}
	line.skipSpace()
	if line.peek() != ',' {
		return first, nil
	}
	if first > 7 {
		return 0, fmt.Errorf("level out of range: %o", first)
	}
	line.pos++
	bdi, err := line.getOctal(15)
	if err != nil {
		return 0, err
	}
	if err := line.expect(',', "offset"); err != nil {
		return 0, err
	}
	offset, err := line.getOctal(18)
	if err != nil {
		return 0, err
	}
	va := bank.VirtualAddress{Level: uint8(first), BDI: uint16(bdi), Offset: uint32(offset)}
	return va.Word(), nil
}

// Parse absolute address upi:segment:offset.
func (line *cmdLine) getAddress() (bank.AbsoluteAddress, error) {
	var addr bank.AbsoluteAddress
	upi, err := line.getOctal(4)
	if err != nil {
		return addr, err
	}
	if err := line.expect(':', "segment"); err != nil {
		return addr, err
	}
	seg, err := line.getOctal(25)
	if err != nil {
		return addr, err
	}
	if err := line.expect(':', "offset"); err != nil {
		return addr, err
	}
	offset, err := line.getOctal(31)
	if err != nil {
		return addr, err
	}
	return bank.AbsoluteAddress{UPI: uint16(upi), Segment: uint32(seg), Offset: int64(offset)}, nil
}

// Get an option.
func (line *cmdLine) getOption(opts []command.Options) (*command.CmdOption, error) {
	name := line.getWord(true)
	if name == "" {
		return nil, errors.New("invalid option: " + line.token())
	}
	equal := line.afterEqual()

	opt := command.CmdOption{Name: name}
	match := matchOption(name, opts)
	switch match.OptionType {
	case -1:
		return nil, errors.New("unknown option: " + name)
	case command.OptionSwitch:
		if equal {
			return nil, errors.New("switch option can't have arguments: " + name)
		}
	case command.OptionNumber:
		if !equal {
			return nil, errors.New("number options must be followed by number: " + name)
		}
		num, err := line.getOctal(36)
		if err != nil {
			return nil, err
		}
		opt.Value = num
	case command.OptionList:
		if !equal {
			return nil, errors.New("list options must be followed by name: " + name)
		}
		value := line.getWord(false)
		for _, mod := range match.OptionList {
			if strings.ToLower(mod) == value {
				opt.EqualOpt = value
				return &opt, nil
			}
		}
		return nil, errors.New("option not valid for type: " + name)
	default:
		return nil, errors.New("invalid option type: " + name)
	}
	return &opt, nil
}

// Scan options to end of line.
func (line *cmdLine) getOptions(opts []command.Options) ([]*command.CmdOption, error) {
	optlist := []*command.CmdOption{}
	for {
		line.skipSpace()
		if line.isEOL() {
			return optlist, nil
		}
		opt, err := line.getOption(opts)
		if err != nil {
			return nil, err
		}
		optlist = append(optlist, opt)
	}
}

var upiOption = command.Options{Name: "upi", OptionType: command.OptionNumber}

// Processor selected by upi= option, default 0.
func selectedUPI(optlist []*command.CmdOption) (uint16, error) {
	upi := uint64(0)
	for _, opt := range optlist {
		if opt.Name == upiOption.Name {
			upi = opt.Value
		}
	}
	if upi > 0o17 {
		return 0, fmt.Errorf("processor out of range: %o", upi)
	}
	return uint16(upi), nil
}

// Parse remaining upi= option.
func (line *cmdLine) getUPI() (uint16, error) {
	optlist, err := line.getOptions([]command.Options{upiOption})
	if err != nil {
		return 0, err
	}
	return selectedUPI(optlist)
}
