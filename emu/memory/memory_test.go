/*
 * S2200 - Main storage tests
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

package memory

import (
	"errors"
	"testing"

	"github.com/rcornwell/S2200/emu/bank"
)

// Check segment creation.
func TestAddSegment(t *testing.T) {
	m := New()
	if err := m.AddSegment(0, 0, 0); err == nil {
		t.Errorf("Zero size segment created")
	}
	if err := m.AddSegment(0, 0, MaxSegment+1); err == nil {
		t.Errorf("Oversize segment created")
	}
	if err := m.AddSegment(1, 2, 1024); err != nil {
		t.Errorf("Unable to create segment: %v", err)
	}
	r := m.SegmentSize(1, 2)
	if r != 1024 {
		t.Errorf("Segment size not correct got: %d expected: %d", r, 1024)
	}
	r = m.SegmentSize(1, 3)
	if r != 0 {
		t.Errorf("Undefined segment size got: %d expected: %d", r, 0)
	}
}

// Check get and put word.
func TestGetPutWord(t *testing.T) {
	m := New()
	_ = m.AddSegment(0, 0, 256)
	for i := range int64(256) {
		err := m.PutWord(bank.AbsoluteAddress{Offset: i}, uint64(i)|0o7_000000_000000)
		if err != nil {
			t.Errorf("PutWord %o failed: %v", i, err)
		}
	}
	for i := range int64(256) {
		r, err := m.GetWord(bank.AbsoluteAddress{Offset: i})
		if err != nil {
			t.Errorf("GetWord %o failed: %v", i, err)
		}
		// Bits above 36 dropped.
		if r != uint64(i) {
			t.Errorf("GetWord not correct got: %o expected: %o", r, i)
		}
	}

	_, err := m.GetWord(bank.AbsoluteAddress{Offset: 256})
	if !errors.Is(err, ErrAddress) {
		t.Errorf("GetWord past end got: %v", err)
	}
	_, err = m.GetWord(bank.AbsoluteAddress{Offset: -1})
	if !errors.Is(err, ErrAddress) {
		t.Errorf("GetWord negative offset got: %v", err)
	}
	err = m.PutWord(bank.AbsoluteAddress{Segment: 1}, 0)
	if !errors.Is(err, ErrNoSegment) {
		t.Errorf("PutWord undefined segment got: %v", err)
	}
}

// Check block transfers.
func TestGetPutWords(t *testing.T) {
	m := New()
	_ = m.AddSegment(2, 5, 16)
	addr := bank.AbsoluteAddress{UPI: 2, Segment: 5, Offset: 10}
	err := m.PutWords(addr, []uint64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Errorf("PutWords failed: %v", err)
	}
	words, err := m.GetWords(addr, 6)
	if err != nil {
		t.Errorf("GetWords failed: %v", err)
	}
	for i, w := range words {
		if w != uint64(i+1) {
			t.Errorf("GetWords not correct got: %d expected: %d", w, i+1)
		}
	}

	// Partial write past end not done.
	err = m.PutWords(addr, []uint64{7, 7, 7, 7, 7, 7, 7})
	if err == nil {
		t.Errorf("PutWords past end succeeded")
	}
	r, _ := m.GetWord(addr)
	if r != 1 {
		t.Errorf("PutWords modified storage on error got: %d expected: 1", r)
	}
}
