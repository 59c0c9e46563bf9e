/*
 * S2200 - Main storage
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
	"fmt"
	"sync"

	"github.com/rcornwell/S2200/emu/bank"
)

var (
	ErrNoSegment = errors.New("storage segment not defined")
	ErrAddress   = errors.New("address out of range")
)

// Largest segment in words.
const MaxSegment = 16 * 1024 * 1024

type segmentKey struct {
	upi     uint16
	segment uint32
}

// Storage shared by all processors, organized as segments within
// storage modules.
type Memory struct {
	mu       sync.RWMutex
	segments map[segmentKey][]uint64
}

func New() *Memory {
	return &Memory{segments: map[segmentKey][]uint64{}}
}

// Create a segment of size words, an existing segment is replaced.
func (m *Memory) AddSegment(upi uint16, segment uint32, size int) error {
	if size <= 0 || size > MaxSegment {
		return fmt.Errorf("segment size %d invalid", size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments[segmentKey{upi, segment}] = make([]uint64, size)
	return nil
}

// Return size of segment in words, 0 if not defined.
func (m *Memory) SegmentSize(upi uint16, segment uint32) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.segments[segmentKey{upi, segment}])
}

// Locate words, caller holds lock.
func (m *Memory) locate(addr bank.AbsoluteAddress, count int) ([]uint64, error) {
	seg, ok := m.segments[segmentKey{addr.UPI, addr.Segment}]
	if !ok {
		return nil, fmt.Errorf("%w: %o:%o", ErrNoSegment, addr.UPI, addr.Segment)
	}
	if addr.Offset < 0 || addr.Offset+int64(count) > int64(len(seg)) {
		return nil, fmt.Errorf("%w: %s", ErrAddress, addr)
	}
	return seg[addr.Offset : addr.Offset+int64(count)], nil
}

// Get a word from storage.
func (m *Memory) GetWord(addr bank.AbsoluteAddress) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	words, err := m.locate(addr, 1)
	if err != nil {
		return 0, err
	}
	return words[0], nil
}

// Put a word to storage.
func (m *Memory) PutWord(addr bank.AbsoluteAddress, value uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	words, err := m.locate(addr, 1)
	if err != nil {
		return err
	}
	words[0] = value & bank.WordMask
	return nil
}

// Copy count words starting at addr.
func (m *Memory) GetWords(addr bank.AbsoluteAddress, count int) ([]uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	words, err := m.locate(addr, count)
	if err != nil {
		return nil, err
	}
	result := make([]uint64, count)
	copy(result, words)
	return result, nil
}

// Store words starting at addr. Nothing is written if any word is out of range.
func (m *Memory) PutWords(addr bank.AbsoluteAddress, values []uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	words, err := m.locate(addr, len(values))
	if err != nil {
		return err
	}
	for i, v := range values {
		words[i] = v & bank.WordMask
	}
	return nil
}
