/*
 * S2200 - Return control stack frames
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

package bank

// Words in one return control stack frame.
const RCSFrameWords = 2

const rcsTrap = uint64(1) << 35

type ReturnControlStackFrame struct {
	Reentry         VirtualAddress // L,BDI and offset to return to.
	Trap            bool
	BasicModeSelect uint8  // 0-3, selects B12-B15.
	DesignatorBits  uint64 // DB12-17 right justified.
	AccessKey       AccessInfo
}

// Word 0 carries the full reentry point, so the trap flag lives in word 1.
func DecodeRCSFrame(words [RCSFrameWords]uint64) *ReturnControlStackFrame {
	w1 := words[1] & WordMask
	return &ReturnControlStackFrame{
		Reentry:         NewVirtualAddress(words[0] & WordMask),
		Trap:            (w1 & rcsTrap) != 0,
		BasicModeSelect: uint8((w1 >> 24) & 0o3),
		DesignatorBits:  (w1 >> 18) & 0o77,
		AccessKey:       NewAccessInfo(H2(w1)),
	}
}

func (f *ReturnControlStackFrame) Encode() [RCSFrameWords]uint64 {
	w1 := (uint64(f.BasicModeSelect&0o3) << 24) |
		((f.DesignatorBits & 0o77) << 18) |
		f.AccessKey.Word()
	if f.Trap {
		w1 |= rcsTrap
	}
	return [RCSFrameWords]uint64{f.Reentry.Word(), w1}
}
