/*
 * S2200 - Command parser tests
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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/S2200/emu/bank"
	"github.com/rcornwell/S2200/emu/bankmanip"
	"github.com/rcornwell/S2200/emu/fault"
)

type request struct {
	name     string
	upi      uint16
	op       bankmanip.Operation
	register int
	operand  uint64
	class    fault.InterruptClass
	packet   bankmanip.UserReturnPacket
	addr     bank.AbsoluteAddress
	count    int
	words    []uint64
	item     string
}

// Executor that records requests.
type recorder struct {
	requests []request
	words    []uint64
}

func (r *recorder) add(req request) error {
	r.requests = append(r.requests, req)
	return nil
}

func (r *recorder) SendStart(upi uint16) error { return r.add(request{name: "start", upi: upi}) }
func (r *recorder) SendStop(upi uint16) error { return r.add(request{name: "stop", upi: upi}) }
func (r *recorder) SendClear(upi uint16) error { return r.add(request{name: "clear", upi: upi}) }

func (r *recorder) SendManipulate(upi uint16, op bankmanip.Operation, register int, operand uint64) error {
	return r.add(request{name: "manipulate", upi: upi, op: op, register: register, operand: operand})
}

func (r *recorder) SendLoadEnv(upi uint16, register int, operand uint64) error {
	return r.add(request{name: "lae", upi: upi, register: register, operand: operand})
}

func (r *recorder) SendUserReturn(upi uint16, packet bankmanip.UserReturnPacket) error {
	return r.add(request{name: "ur", upi: upi, packet: packet})
}

func (r *recorder) SendInterrupt(upi uint16, class fault.InterruptClass) error {
	return r.add(request{name: "interrupt", upi: upi, class: class})
}

func (r *recorder) SendExamine(addr bank.AbsoluteAddress, count int) ([]uint64, error) {
	_ = r.add(request{name: "examine", addr: addr, count: count})
	return r.words, nil
}

func (r *recorder) SendDeposit(addr bank.AbsoluteAddress, words []uint64) error {
	return r.add(request{name: "deposit", addr: addr, words: words})
}

func (r *recorder) SendStatus(upi uint16, item string) (string, error) {
	_ = r.add(request{name: "status", upi: upi, item: item})
	return item + "\n", nil
}

// Run one command line that must succeed.
func run(t *testing.T, text string) (*recorder, string) {
	t.Helper()
	var buf bytes.Buffer
	output = &buf
	rec := &recorder{}
	quit, err := ProcessCommand(text, rec)
	require.NoError(t, err, text)
	assert.False(t, quit, text)
	return rec, buf.String()
}

func single(t *testing.T, rec *recorder) request {
	t.Helper()
	require.Len(t, rec.requests, 1)
	return rec.requests[0]
}

func va(level uint8, bdi uint16, offset uint32) uint64 {
	return bank.VirtualAddress{Level: level, BDI: bdi, Offset: offset}.Word()
}

// Check transfer commands build operands.
func TestTransfer(t *testing.T) {
	rec, _ := run(t, "call 0,40,100")
	req := single(t, rec)
	assert.Equal(t, "manipulate", req.name)
	assert.Equal(t, bankmanip.OpCall, req.op)
	assert.Equal(t, va(0, 0o40, 0o100), req.operand)
	assert.Equal(t, uint16(0), req.upi)

	rec, _ = run(t, "LBU 3 4, 1234, 5 upi=2")
	req = single(t, rec)
	assert.Equal(t, bankmanip.OpLBU, req.op)
	assert.Equal(t, 3, req.register)
	assert.Equal(t, va(4, 0o1234, 5), req.operand)
	assert.Equal(t, uint16(2), req.upi)

	rec, _ = run(t, "lae 5 000040000000")
	req = single(t, rec)
	assert.Equal(t, "lae", req.name)
	assert.Equal(t, 5, req.register)
	assert.Equal(t, uint64(0o000040_000000), req.operand)

	rec, _ = run(t, "lij 2 1000 # comment")
	req = single(t, rec)
	assert.Equal(t, bankmanip.OpLIJ, req.op)
	assert.Equal(t, uint64(0o1000), req.operand)

	rec, _ = run(t, "rtn upi=1")
	req = single(t, rec)
	assert.Equal(t, bankmanip.OpRTN, req.op)
	assert.Equal(t, uint16(1), req.upi)
}

// Check user return packet.
func TestUserReturn(t *testing.T) {
	rec, _ := run(t, "ur 1 2 3 4")
	req := single(t, rec)
	assert.Equal(t, bankmanip.UserReturnPacket{PAR: 1, Designator: 2, IndicatorKey: 3, QuantumTimer: 4}, req.packet)
}

// Check interrupt class by name or number.
func TestInterrupt(t *testing.T) {
	rec, _ := run(t, "interrupt referenceviolation")
	assert.Equal(t, fault.ReferenceViolation, single(t, rec).class)

	rec, _ = run(t, "int 11 upi=1")
	req := single(t, rec)
	assert.Equal(t, fault.AddressingException, req.class)
	assert.Equal(t, uint16(1), req.upi)
}

// Check show requests each item.
func TestShow(t *testing.T) {
	rec, out := run(t, "show br abt upi=1")
	require.Len(t, rec.requests, 2)
	assert.Equal(t, "br", rec.requests[0].item)
	assert.Equal(t, "abt", rec.requests[1].item)
	assert.Equal(t, uint16(1), rec.requests[1].upi)
	assert.Equal(t, "br\nabt\n", out)

	rec, out = run(t, "sh")
	assert.Equal(t, "all", single(t, rec).item)
	assert.Equal(t, "all\n", out)
}

// Check processor control commands.
func TestControl(t *testing.T) {
	for _, tc := range []struct{ text, name string }{
		{"start", "start"},
		{"stop", "stop"},
		{"cl upi=3", "clear"},
	} {
		rec, _ := run(t, tc.text)
		assert.Equal(t, tc.name, single(t, rec).name, tc.text)
	}
}

// Check examine and deposit.
func TestExamineDeposit(t *testing.T) {
	var buf bytes.Buffer
	output = &buf
	rec := &recorder{words: []uint64{1, 2}}
	_, err := ProcessCommand("ex 0:0:100 2", rec)
	require.NoError(t, err)
	req := single(t, rec)
	assert.Equal(t, bank.AbsoluteAddress{Offset: 0o100}, req.addr)
	assert.Equal(t, 2, req.count)
	assert.Equal(t, "0:0:100 000000000001 000000,000001\n0:0:101 000000000002 000000,000002\n", buf.String())

	rec, _ = run(t, "d 1:2:3 1,2 777777777777")
	req = single(t, rec)
	assert.Equal(t, bank.AbsoluteAddress{UPI: 1, Segment: 2, Offset: 3}, req.addr)
	assert.Equal(t, []uint64{1, 2, 0o777777_777777}, req.words)
}

// Check bad command lines are rejected.
func TestErrors(t *testing.T) {
	for _, text := range []string{
		"frob",
		"st",
		"l",
		"lbu x 0,40,0",
		"call 0,40",
		"call 10,1,1",
		"call 9",
		"lbu 3 0,40,0 bogus=1",
		"show upi=20",
		"show br=1",
		"interrupt nothing",
		"ur 1 2 3",
		"ex 0:0",
		"ex 0:0:0 0",
		"deposit 0:0:0",
		"deposit 0:0:0 1000000000000",
		"123",
	} {
		rec := &recorder{}
		_, err := ProcessCommand(text, rec)
		assert.Error(t, err, text)
		assert.Empty(t, rec.requests, text)
	}
}

// Check quit and empty lines.
func TestQuit(t *testing.T) {
	rec := &recorder{}
	quit, err := ProcessCommand("quit", rec)
	require.NoError(t, err)
	assert.True(t, quit)

	for _, text := range []string{"", "   ", "# comment"} {
		quit, err = ProcessCommand(text, rec)
		require.NoError(t, err)
		assert.False(t, quit)
	}
	assert.Empty(t, rec.requests)
}

// Check command line completion.
func TestComplete(t *testing.T) {
	assert.Equal(t, []string{"lae", "lbe", "lbj", "lbu", "ldj", "lij", "locl"}, CompleteCmd("l"))
	assert.Equal(t, []string{"show br"}, CompleteCmd("show b"))
	assert.Equal(t, []string{"interrupt ReferenceViolation"}, CompleteCmd("interrupt ref"))
	assert.Nil(t, CompleteCmd("call "))
	assert.Len(t, CompleteCmd(""), len(cmdList))
}
