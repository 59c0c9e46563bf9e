/*
 * S2200 - Configuration file parser
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

package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Unit number given when first parameter is not a number.
const NoUnit uint16 = 0xffff

// List of options to pass to create routine.
type Option struct {
	Name     string    // Name of option.
	EqualOpt string    // Value of string after =.
	Value    []*string // Value of option.
}

// Option after directive name.
type FirstOption struct {
	unit   uint16 // Value of option if octal.
	isUnit bool   // Valid number in unit.
	value  string // String value of option.
}

// Current option line being parsed.
type optionLine struct {
	line string // Current option line.
	pos  int    // Current position in line.
}

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <directive> <whitespace> <first> <whitespace> <options> |
 *            <directive> <first> |
 *            <directive>
 * <first> ::= <string> | <octalnumber>
 * <options> ::= *(<option> *(<whitespace>))
 * <option> ::= <name> ['=' <quoteopt>] *(<commaopt>)
 * <commaopt> ::= ',' *(<whitespace>) <name>
 * <quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 * <string> ::= *(<letter> | <number>)
 */

const (
	TypeModel   = 1 + iota // Directive needs unit number and options.
	TypeOption             // Accepts one parameter.
	TypeOptions            // Accepts a parameter followed by options.
	TypeSwitch             // Directive only sets a flag.
)

type modelDef struct {
	create func(uint16, string, []Option) error
	ty     int
}

var models = map[string]modelDef{}

var lineNumber int

// Return type of directive or 0 if not registered.
func getModel(mod string) int {
	model, ok := models[mod]
	if !ok {
		return 0
	}
	return model.ty
}

// Register should be called from init functions.
func RegisterModel(mod string, ty int, fn func(uint16, string, []Option) error) {
	models[strings.ToUpper(mod)] = modelDef{create: fn, ty: ty}
}

// Register should be called from init functions.
func RegisterSwitch(mod string, fn func(uint16, string, []Option) error) {
	RegisterModel(mod, TypeSwitch, fn)
}

// Register should be called from init functions.
func RegisterOption(mod string, fn func(uint16, string, []Option) error) {
	RegisterModel(mod, TypeOption, fn)
}

// Names of registered directives.
func Directives() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	return names
}

func lookup(mod string, ty int) (modelDef, error) {
	mod = strings.ToUpper(mod)
	model, ok := models[mod]
	if !ok {
		return model, errors.New("unknown directive: " + mod)
	}
	if model.ty != ty {
		return model, errors.New("wrong parameters for directive: " + mod)
	}
	return model, nil
}

func createModel(mod string, first *FirstOption, options []Option) error {
	model, err := lookup(mod, TypeModel)
	if err != nil {
		return err
	}
	return model.create(first.unit, first.value, options)
}

func createOption(mod string, first *FirstOption, options []Option) error {
	model, err := lookup(mod, TypeOption)
	if err != nil {
		return err
	}
	return model.create(first.unit, first.value, options)
}

func createOptions(mod string, first *FirstOption, options []Option) error {
	model, err := lookup(mod, TypeOptions)
	if err != nil {
		return err
	}
	return model.create(first.unit, first.value, options)
}

func createSwitch(mod string) error {
	model, err := lookup(mod, TypeSwitch)
	if err != nil {
		return err
	}
	return model.create(NoUnit, "", nil)
}

// Load in a configuration file.
func LoadConfigFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return LoadConfig(file)
}

// Process configuration lines from reader.
func LoadConfig(r io.Reader) error {
	lineNumber = 0
	reader := bufio.NewReader(r)
	for {
		text, err := reader.ReadString('\n')
		lineNumber++
		if len(text) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line := optionLine{line: text}
		if err := line.parseLine(); err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
}

// Parse one line from file.
func (line *optionLine) parseLine() error {
	model := line.parseModel()
	if model == "" {
		return nil
	}
	switch getModel(model) {
	case TypeModel:
		first := line.parseFirst()
		if first == nil || !first.isUnit {
			return fmt.Errorf("%s requires unit number", model)
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return createModel(model, first, options)

	case TypeOption:
		first := line.parseFirst()
		line.skipSpace()
		if !line.isEOL() || first == nil {
			return fmt.Errorf("option %s not followed by value", model)
		}
		return createOption(model, first, nil)

	case TypeOptions:
		first := line.parseFirst()
		if first == nil {
			return fmt.Errorf("option %s not followed by value", model)
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return createOptions(model, first, options)

	case TypeSwitch:
		line.skipSpace()
		if !line.isEOL() {
			return fmt.Errorf("switch %s followed by options", model)
		}
		return createSwitch(model)
	}
	return fmt.Errorf("no type %s registered", model)
}

// Skip forward over line until none whitespace character found.
func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Return next letter or digit in line. 0 if EOL or space.
func (line *optionLine) getNext(inQuote bool) byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	if unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by)) || inQuote {
		return by
	}
	return 0
}

// Peek at next character.
func (line *optionLine) getPeek() byte {
	if (line.pos + 1) >= len(line.line) {
		return 0
	}
	return line.line[line.pos+1]
}

// Collect letters and digits.
func (line *optionLine) getToken() string {
	start := line.pos
	for !line.isEOL() {
		by := rune(line.line[line.pos])
		if !unicode.IsLetter(by) && !unicode.IsNumber(by) {
			break
		}
		line.pos++
	}
	return line.line[start:line.pos]
}

// Parse directive name.
func (line *optionLine) parseModel() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}
	return strings.ToUpper(line.getToken())
}

// Parse first parameter, octal numbers are also returned as unit.
func (line *optionLine) parseFirst() *FirstOption {
	line.skipSpace()
	if line.isEOL() {
		return nil
	}

	value := line.getToken()
	option := FirstOption{unit: NoUnit, value: value}
	if unit, err := strconv.ParseUint(value, 8, 16); err == nil {
		option.unit = uint16(unit)
		option.isUnit = true
	}
	return &option
}

// Parse string that is "string" or just string.
func (line *optionLine) parseQuoteString() (string, bool) {
	inQuote := false
	value := ""

	// If quote, set we are in quoted string
	if line.getPeek() == '"' {
		inQuote = true
		_ = line.getNext(true)
	}

	for {
		by := line.getNext(inQuote)
		// "" inside quotes is a single quote.
		if by == '"' && inQuote {
			by = line.getNext(inQuote)
			if by != '"' {
				return value, true
			}
		}

		space := unicode.IsSpace(rune(by))
		if !inQuote && (space || by == 0 || by == ',') {
			return value, true
		}

		value += string(by)
		if line.isEOL() {
			return value, !inQuote
		}
	}
}

// Parse option name.
func (line *optionLine) getName() (string, error) {
	if line.isEOL() {
		return "", nil
	}

	// First character must be alphabetic.
	if !unicode.IsLetter(rune(line.line[line.pos])) {
		return "", fmt.Errorf("invalid option at column %d", line.pos)
	}
	return line.getToken(), nil
}

// Parse options for a line.
func (line *optionLine) parseOption() (*Option, error) {
	line.skipSpace()

	value, err := line.getName()
	if value == "" {
		return nil, err
	}

	option := Option{Name: value}
	if line.isEOL() {
		return &option, nil
	}

	if line.line[line.pos] == '=' {
		v, ok := line.parseQuoteString()
		if !ok {
			return nil, fmt.Errorf("invalid quoted string at column %d", line.pos)
		}
		option.EqualOpt = v
	}

	line.skipSpace()

	// Grab all , options
	for !line.isEOL() && line.line[line.pos] == ',' {
		line.pos++
		line.skipSpace()
		v, err := line.getName()
		if err != nil {
			return nil, err
		}
		if v != "" {
			option.Value = append(option.Value, &v)
		}
		line.skipSpace()
	}

	return &option, nil
}

// Collect all options for line.
func (line *optionLine) parseOptions() ([]Option, error) {
	options := []Option{}
	for {
		option, err := line.parseOption()
		if err != nil {
			return nil, err
		}
		if option == nil {
			break
		}
		options = append(options, *option)
	}
	return options, nil
}

// Value after = as an octal number of at most bits.
func (opt *Option) Octal(bits int) (uint64, error) {
	if opt.EqualOpt == "" {
		return 0, fmt.Errorf("option %s requires a value", opt.Name)
	}
	v, err := strconv.ParseUint(opt.EqualOpt, 8, bits)
	if err != nil {
		return 0, fmt.Errorf("option %s value %s not octal: %w", opt.Name, opt.EqualOpt, err)
	}
	return v, nil
}

// Option name followed by any comma values, upper cased.
func (opt *Option) Names() []string {
	names := []string{strings.ToUpper(opt.Name)}
	for _, v := range opt.Value {
		names = append(names, strings.ToUpper(*v))
	}
	return names
}
