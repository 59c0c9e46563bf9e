/*
 * S2200 - Simulation core
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
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/bankmanip"
	"github.com/rcornwell/S2200/emu/cpu"
	"github.com/rcornwell/S2200/emu/fault"
	"github.com/rcornwell/S2200/emu/master"
	"github.com/rcornwell/S2200/emu/system"
)

var ErrShutdown = errors.New("simulator shut down")

type Core struct {
	wg     sync.WaitGroup
	done   chan struct{} // Signal to shutdown simulator.
	Master chan master.Packet
}

// Create instance of core.
func New(master chan master.Packet) *Core {
	return &Core{
		Master: master,
		done:   make(chan struct{}),
	}
}

// Run requests until stopped. Processors are only touched from here.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	for {
		select {
		case <-core.done:
			return
		case packet := <-core.Master:
			reply := core.processPacket(packet)
			if packet.Reply != nil {
				packet.Reply <- reply
			}
		}
	}
}

// Stop a running core.
func (core *Core) Stop() {
	slog.Info("Shutting down core")
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for core to finish.")
		return
	}
}

// Send packet and wait for answer.
func (core *Core) send(packet master.Packet) master.Reply {
	packet.Reply = make(chan master.Reply, 1)
	select {
	case <-core.done:
		return master.Reply{Err: ErrShutdown}
	default:
	}
	select {
	case core.Master <- packet:
	case <-core.done:
		return master.Reply{Err: ErrShutdown}
	}
	select {
	case reply := <-packet.Reply:
		return reply
	case <-core.done:
		return master.Reply{Err: ErrShutdown}
	}
}

// Start processor after a stop.
func (core *Core) SendStart(upi uint16) error {
	return core.send(master.Packet{UPI: upi, Msg: master.Start}).Err
}

// Halt processor.
func (core *Core) SendStop(upi uint16) error {
	return core.send(master.Packet{UPI: upi, Msg: master.Stop}).Err
}

// Clear processor registers.
func (core *Core) SendClear(upi uint16) error {
	return core.send(master.Packet{UPI: upi, Msg: master.Clear}).Err
}

// Run bank manipulation, register is the a field of the instruction.
func (core *Core) SendManipulate(upi uint16, op bankmanip.Operation, register int, operand uint64) error {
	return core.send(master.Packet{UPI: upi, Msg: master.Manipulate, Op: op,
		Register: register, Operand: operand}).Err
}

// Load one base register of the addressing environment.
func (core *Core) SendLoadEnv(upi uint16, register int, operand uint64) error {
	return core.send(master.Packet{UPI: upi, Msg: master.LoadEnv,
		Register: register, Operand: operand}).Err
}

// User return.
func (core *Core) SendUserReturn(upi uint16, packet bankmanip.UserReturnPacket) error {
	return core.send(master.Packet{UPI: upi, Msg: master.UserReturn, Return: packet}).Err
}

// Enter interrupt handler.
func (core *Core) SendInterrupt(upi uint16, class fault.InterruptClass) error {
	return core.send(master.Packet{UPI: upi, Msg: master.Interrupt, Class: class}).Err
}

// Read count words of storage.
func (core *Core) SendExamine(addr bank.AbsoluteAddress, count int) ([]uint64, error) {
	reply := core.send(master.Packet{Msg: master.Examine, Address: addr, Count: count})
	return reply.Words, reply.Err
}

// Write words to storage.
func (core *Core) SendDeposit(addr bank.AbsoluteAddress, words []uint64) error {
	return core.send(master.Packet{Msg: master.Deposit, Address: addr, Words: words}).Err
}

// Processor state as text.
func (core *Core) SendStatus(upi uint16, item string) (string, error) {
	reply := core.send(master.Packet{UPI: upi, Msg: master.Status, Item: item})
	return reply.Text, reply.Err
}

// Process a packet sent to system simulation.
func (core *Core) processPacket(packet master.Packet) master.Reply {
	switch packet.Msg {
	case master.Examine:
		words, err := system.Storage().GetWords(packet.Address, packet.Count)
		return master.Reply{Words: words, Err: err}
	case master.Deposit:
		return master.Reply{Err: system.Storage().PutWords(packet.Address, packet.Words)}
	}

	unit, err := system.GetUnit(packet.UPI)
	if err != nil {
		return master.Reply{Err: err}
	}

	switch packet.Msg {
	case master.Start:
		unit.Proc.Start()
		return master.Reply{}
	case master.Stop:
		unit.Proc.Stop(fault.Debug, 0)
		return master.Reply{}
	case master.Clear:
		unit.Proc.Clear()
		return master.Reply{}
	case master.Status:
		text, err := status(unit.Proc, packet.Item)
		return master.Reply{Text: text, Err: err}
	}

	if stopped, reason, _ := unit.Proc.Stopped(); stopped {
		return master.Reply{Err: fmt.Errorf("processor %o stopped: %s", packet.UPI, reason)}
	}

	switch packet.Msg {
	case master.Manipulate:
		unit.Proc.SetCurrentInstruction(cpu.NewInstruction(0, 0, packet.Register, 0, 0))
		err = unit.Engine.Manipulate(packet.Op, packet.Operand)
	case master.LoadEnv:
		unit.Proc.SetCurrentInstruction(cpu.NewInstruction(0, 0, packet.Register, 0, 0))
		err = unit.Engine.ManipulateLAE(packet.Register, packet.Operand)
	case master.UserReturn:
		err = unit.Engine.ManipulateUR(packet.Return)
	case master.Interrupt:
		err = unit.Engine.ManipulateInterrupt(packet.Class)
	default:
		return master.Reply{Err: fmt.Errorf("unknown request %d", int(packet.Msg))}
	}
	if err != nil {
		raise(unit, err)
	}
	return master.Reply{Err: err}
}

// Turn a fault into entry of its interrupt handler.
func raise(unit *system.Unit, err error) {
	class, ok := fault.ClassOf(err)
	if !ok {
		slog.Error("Bank manipulation failed: " + err.Error())
		return
	}
	slog.Info("Fault", "upi", unit.Proc.UPI(), "class", class.String(), "error", err.Error())
	if ierr := unit.Engine.ManipulateInterrupt(class); ierr != nil {
		slog.Error("Interrupt entry failed: " + ierr.Error())
	}
}
