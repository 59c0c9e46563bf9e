/*
 * S2200 - Messages to simulation core
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

package master

import (
	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/bankmanip"
	"github.com/rcornwell/S2200/emu/fault"
)

type Msg int

const (
	Start      Msg = 1 + iota // Allow processor to run after a stop.
	Stop                      // Halt processor.
	Clear                     // Reset processor registers.
	Manipulate                // Run bank manipulation instruction.
	LoadEnv                   // LAE of a single base register.
	UserReturn                // UR with a return packet.
	Interrupt                 // Interrupt entry.
	Examine                   // Read storage.
	Deposit                   // Write storage.
	Status                    // Processor state as text.
)

// Request sent to core. Reply is sent one answer if not nil.
type Packet struct {
	UPI      uint16
	Msg      Msg
	Op       bankmanip.Operation
	Register int    // A field of instruction or LAE register.
	Operand  uint64 // Operand word.
	Class    fault.InterruptClass
	Return   bankmanip.UserReturnPacket
	Address  bank.AbsoluteAddress
	Count    int
	Words    []uint64
	Item     string // Status item to show.
	Reply    chan Reply
}

// Answer to a packet.
type Reply struct {
	Words []uint64
	Text  string
	Err   error
}
