/*
 * S2200 - Machine configuration directives.
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

package machineconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	config "github.com/rcornwell/S2200/config/configparser"
	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/cpu"
	"github.com/rcornwell/S2200/emu/system"
)

func init() {
	config.RegisterModel("CPU", config.TypeModel, createCPU)
	config.RegisterModel("MEMORY", config.TypeModel, createMemory)
	config.RegisterModel("BDT", config.TypeModel, createBDT)
	config.RegisterModel("BANK", config.TypeModel, createBank)
	config.RegisterModel("GATE", config.TypeModel, createGate)
	config.RegisterModel("BASEREG", config.TypeModel, setBaseRegister)
	config.RegisterModel("GRS", config.TypeModel, setGRS)
	config.RegisterModel("PAR", config.TypeModel, setPAR)
	config.RegisterModel("DESIGNATOR", config.TypeOptions, setDesignator)
	config.RegisterModel("KEY", config.TypeOptions, setKey)
}

type handler func(opt *config.Option) error

// Call handler for each option.
func eachOption(options []config.Option, handlers map[string]handler) error {
	for i := range options {
		opt := &options[i]
		fn, ok := handlers[strings.ToUpper(opt.Name)]
		if !ok {
			return errors.New("invalid option: " + opt.Name)
		}
		if len(opt.Value) != 0 {
			return errors.New("option does not take a list: " + opt.Name)
		}
		if err := fn(opt); err != nil {
			return err
		}
	}
	return nil
}

// Option sets octal value of at most bits.
func octal[T ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int64](dst *T, bits int) handler {
	return func(opt *config.Option) error {
		v, err := opt.Octal(bits)
		if err != nil {
			return err
		}
		*dst = T(v)
		return nil
	}
}

// Option is a flag with no value.
func flag(dst *bool) handler {
	return func(opt *config.Option) error {
		if opt.EqualOpt != "" {
			return errors.New("option takes no value: " + opt.Name)
		}
		*dst = true
		return nil
	}
}

// Permissions as letters E, R and W, or an octal digit.
func permissions(dst *bank.Permissions) handler {
	return func(opt *config.Option) error {
		value := strings.ToUpper(opt.EqualOpt)
		if v, err := strconv.ParseUint(value, 8, 3); err == nil {
			*dst = bank.NewPermissions(v)
			return nil
		}
		perms := bank.Permissions{}
		for _, c := range value {
			switch c {
			case 'E':
				perms.Enter = true
			case 'R':
				perms.Read = true
			case 'W':
				perms.Write = true
			default:
				return fmt.Errorf("invalid permission %c in %s", c, opt.Name)
			}
		}
		if value == "" {
			return errors.New("option requires permissions: " + opt.Name)
		}
		*dst = perms
		return nil
	}
}

// Processor a directive applies to, created if needed.
func unit(upi uint16) (*system.Unit, error) {
	return system.GetOrAddUnit(upi)
}

// Define processor.
func createCPU(upi uint16, _ string, options []config.Option) error {
	if len(options) != 0 {
		return errors.New("CPU takes no options")
	}
	_, err := system.AddProcessor(upi)
	return err
}

// Define storage segment: MEMORY <upi> SEG=<n> SIZE=<words>.
func createMemory(upi uint16, _ string, options []config.Option) error {
	var seg uint32
	var size uint64
	err := eachOption(options, map[string]handler{
		"SEG":  octal(&seg, 25),
		"SIZE": octal(&size, 27),
	})
	if err != nil {
		return err
	}
	if upi > system.MaxUPI {
		return fmt.Errorf("memory module %o out of range", upi)
	}
	return system.Storage().AddSegment(upi, seg, int(size))
}

// Place the bank descriptor table for a level:
// BDT <level> [MEM=<upi>] [SEG=<n>] BASE=<offset> SIZE=<words> [UPI=<n>].
func createBDT(level uint16, _ string, options []config.Option) error {
	var addr bank.AbsoluteAddress
	var size uint64
	var upi uint16
	err := eachOption(options, map[string]handler{
		"MEM":  octal(&addr.UPI, 4),
		"SEG":  octal(&addr.Segment, 25),
		"BASE": octal(&addr.Offset, 31),
		"SIZE": octal(&size, 27),
		"UPI":  octal(&upi, 4),
	})
	if err != nil {
		return err
	}
	if level > 7 {
		return fmt.Errorf("BDT level %o out of range", level)
	}
	if size == 0 {
		return errors.New("BDT requires SIZE")
	}
	u, err := unit(upi)
	if err != nil {
		return err
	}
	bd := &bank.Descriptor{
		Type:         bank.ExtendedModeBank,
		GeneralPerms: bank.Permissions{Read: true, Write: true},
		SpecialPerms: bank.Permissions{Read: true, Write: true},
		UpperLimit:   uint32(size - 1),
		BaseAddress:  addr,
	}
	u.Proc.SetBaseRegister(cpu.L0BDTBaseRegister+int(level), bank.NewBaseRegister(bd))
	return nil
}

var bankTypes = map[string]bank.Type{
	"EXT":      bank.ExtendedModeBank,
	"BASIC":    bank.BasicModeBank,
	"GATE":     bank.GateBank,
	"INDIRECT": bank.IndirectBank,
	"QUEUE":    bank.QueueBank,
	"QREPOS":   bank.QueueRepositoryBank,
}

// Write a bank descriptor into its table.
func createBank(bdi uint16, _ string, options []config.Option) error {
	bd := &bank.Descriptor{}
	var level uint8
	var upi uint16
	var lower, upper uint32
	err := eachOption(options, map[string]handler{
		"LEVEL": octal(&level, 3),
		"TYPE": func(opt *config.Option) error {
			ty, ok := bankTypes[strings.ToUpper(opt.EqualOpt)]
			if !ok {
				return errors.New("invalid bank type: " + opt.EqualOpt)
			}
			bd.Type = ty
			return nil
		},
		"MEM":      octal(&bd.BaseAddress.UPI, 4),
		"SEG":      octal(&bd.BaseAddress.Segment, 25),
		"BASE":     octal(&bd.BaseAddress.Offset, 31),
		"LOWER":    octal(&lower, 9),
		"UPPER":    octal(&upper, 27),
		"RING":     octal(&bd.Lock.Ring, 2),
		"DOMAIN":   octal(&bd.Lock.Domain, 16),
		"GAP":      permissions(&bd.GeneralPerms),
		"SAP":      permissions(&bd.SpecialPerms),
		"LARGE":    flag(&bd.LargeBank),
		"GFAULT":   flag(&bd.GeneralFault),
		"SUPPRESS": flag(&bd.UpperSuppress),
		"TLEVEL":   octal(&bd.Target.Level, 3),
		"TBDI":     octal(&bd.Target.BDI, 15),
		"DISP":     octal(&bd.Displacement, 15),
		"UPI":      octal(&upi, 4),
	})
	if err != nil {
		return err
	}
	if bdi > 0o77777 {
		return fmt.Errorf("bank index %o out of range", bdi)
	}
	bd.LowerLimit = lower
	bd.UpperLimit = upper
	u, err := unit(upi)
	if err != nil {
		return err
	}
	return u.Proc.StoreBankDescriptor(bank.LevelBDI{Level: level, BDI: bdi}, bd)
}

// Write a gate into a gate bank: GATE <bdi> LEVEL= SLOT= and gate fields.
func createGate(bdi uint16, _ string, options []config.Option) error {
	gate := &bank.Gate{}
	var level uint8
	var slot uint64
	var upi uint16
	var target bank.LevelBDI
	var offset uint32
	err := eachOption(options, map[string]handler{
		"LEVEL":   octal(&level, 3),
		"SLOT":    octal(&slot, 15),
		"GAP":     permissions(&gate.GeneralPerms),
		"SAP":     permissions(&gate.SpecialPerms),
		"RING":    octal(&gate.Lock.Ring, 2),
		"DOMAIN":  octal(&gate.Lock.Domain, 16),
		"TLEVEL":  octal(&target.Level, 3),
		"TBDI":    octal(&target.BDI, 15),
		"TOFFSET": octal(&offset, 18),
		"BMS":     octal(&gate.BasicModeSelect, 2),
		"DB":      octal(&gate.DesignatorBits, 6),
		"KRING":   octal(&gate.AccessKey.Ring, 2),
		"KDOMAIN": octal(&gate.AccessKey.Domain, 16),
		"LP0":     octal(&gate.LatentParam0, 36),
		"LP1":     octal(&gate.LatentParam1, 36),
		"LIB":     flag(&gate.Library),
		"GI":      flag(&gate.GotoInhibit),
		"DBI":     flag(&gate.DBInhibit),
		"AKI":     flag(&gate.KeyInhibit),
		"LP0I":    flag(&gate.LP0Inhibit),
		"LP1I":    flag(&gate.LP1Inhibit),
		"UPI":     octal(&upi, 4),
	})
	if err != nil {
		return err
	}
	gate.Target = bank.VirtualAddress{Level: target.Level, BDI: target.BDI, Offset: offset}

	u, err := unit(upi)
	if err != nil {
		return err
	}
	name := bank.LevelBDI{Level: level, BDI: bdi}
	bd, err := u.Proc.FindBankDescriptor(name)
	if err != nil {
		return fmt.Errorf("gate bank %s: %w", name, err)
	}
	if bd.Type != bank.GateBank {
		return fmt.Errorf("bank %s is not a gate bank", name)
	}
	pos := slot * bank.GateSlotSize
	br := bank.NewBaseRegister(bd)
	if !br.Contains(pos) || !br.Contains(pos+bank.GateWords-1) {
		return fmt.Errorf("gate slot %o outside bank %s", slot, name)
	}
	words := gate.Encode()
	return u.Proc.Storage().PutWords(br.Absolute(pos), words[:])
}

// Load a base register from a bank descriptor:
// BASEREG <n> LEVEL= BDI= OFFSET= [SUBSET] [VOID] [UPI=].
func setBaseRegister(register uint16, _ string, options []config.Option) error {
	var name bank.LevelBDI
	var offset uint32
	var subset, void bool
	var upi uint16
	err := eachOption(options, map[string]handler{
		"LEVEL":  octal(&name.Level, 3),
		"BDI":    octal(&name.BDI, 15),
		"OFFSET": octal(&offset, 18),
		"SUBSET": flag(&subset),
		"VOID":   flag(&void),
		"UPI":    octal(&upi, 4),
	})
	if err != nil {
		return err
	}
	if register >= bank.BaseRegisters {
		return fmt.Errorf("base register %o out of range", register)
	}
	u, err := unit(upi)
	if err != nil {
		return err
	}

	reg := int(register)
	active := reg > 0 && reg <= cpu.ActiveBaseEntries
	if void || name.IsVoid() {
		u.Proc.SetBaseRegister(reg, bank.VoidBaseRegister)
		if active {
			u.Proc.SetActiveBaseTableEntry(reg, cpu.ActiveBaseTableEntry{})
		}
		return nil
	}

	bd, err := u.Proc.FindBankDescriptor(name)
	if err != nil {
		return fmt.Errorf("base register %d bank %s: %w", reg, name, err)
	}
	br := bank.NewBaseRegister(bd)
	if subset {
		br = bank.NewSubsetBaseRegister(bd, uint64(offset))
	}
	u.Proc.SetBaseRegister(reg, br)
	if active {
		u.Proc.SetActiveBaseTableEntry(reg, cpu.ActiveBaseTableEntry{Level: name.Level, BDI: name.BDI, Offset: offset})
	}
	return nil
}

// Set general register: GRS <index> VALUE= or XI= XM= [UPI=].
func setGRS(index uint16, _ string, options []config.Option) error {
	var value, xi, xm uint64
	var upi uint16
	err := eachOption(options, map[string]handler{
		"VALUE": octal(&value, 36),
		"XI":    octal(&xi, 18),
		"XM":    octal(&xm, 18),
		"UPI":   octal(&upi, 4),
	})
	if err != nil {
		return err
	}
	if index >= cpu.GRSSize {
		return fmt.Errorf("register %o out of range", index)
	}
	u, err := unit(upi)
	if err != nil {
		return err
	}
	*u.Proc.GeneralRegister(int(index)) = value | (xi << 18) | xm
	return nil
}

// Set program address: PAR <level> BDI= OFFSET= [UPI=].
func setPAR(level uint16, _ string, options []config.Option) error {
	var bdi uint16
	var offset uint32
	var upi uint16
	err := eachOption(options, map[string]handler{
		"BDI":    octal(&bdi, 15),
		"OFFSET": octal(&offset, 18),
		"UPI":    octal(&upi, 4),
	})
	if err != nil {
		return err
	}
	if level > 7 {
		return fmt.Errorf("PAR level %o out of range", level)
	}
	u, err := unit(upi)
	if err != nil {
		return err
	}
	*u.Proc.ProgramAddress() = bank.VirtualAddress{Level: uint8(level), BDI: bdi, Offset: offset}
	return nil
}

// Get octal value of first parameter and optional UPI option.
func wordAndUnit(value string, bits int, options []config.Option) (uint64, *system.Unit, error) {
	word, err := strconv.ParseUint(value, 8, bits)
	if err != nil {
		return 0, nil, fmt.Errorf("value %s not octal", value)
	}
	var upi uint16
	if err := eachOption(options, map[string]handler{"UPI": octal(&upi, 4)}); err != nil {
		return 0, nil, err
	}
	u, err := unit(upi)
	return word, u, err
}

// Set designator register: DESIGNATOR <octal> [UPI=].
func setDesignator(_ uint16, value string, options []config.Option) error {
	word, u, err := wordAndUnit(value, 36, options)
	if err != nil {
		return err
	}
	*u.Proc.Designator() = cpu.DesignatorRegister(word)
	return nil
}

// Set access key: KEY <octal ring and domain> [UPI=].
func setKey(_ uint16, value string, options []config.Option) error {
	word, u, err := wordAndUnit(value, 18, options)
	if err != nil {
		return err
	}
	u.Proc.IndicatorKey().SetAccessKey(bank.NewAccessInfo(word))
	return nil
}
