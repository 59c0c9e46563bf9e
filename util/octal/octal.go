/*
 * S2200 - Octal formatting
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

package octal

import "strings"

const digits = "01234567"

// Write count octal digits of value.
func format(str *strings.Builder, value uint64, count int) {
	shift := 3 * (count - 1)
	for range count {
		str.WriteByte(digits[(value>>shift)&0o7])
		shift -= 3
	}
}

// Write 36 bit words as 12 octal digits, each followed by a space.
func FormatWord(str *strings.Builder, words ...uint64) {
	for _, word := range words {
		format(str, word, 12)
		str.WriteByte(' ')
	}
}

// Write half words as 6 octal digits. If space set each is followed by a
// space, otherwise the group is.
func FormatHalf(str *strings.Builder, space bool, halves ...uint64) {
	for _, half := range halves {
		format(str, half, 6)
		if space {
			str.WriteByte(' ')
		}
	}
	if !space {
		str.WriteByte(' ')
	}
}

// Write word as H1,H2 followed by a space.
func FormatHalves(str *strings.Builder, word uint64) {
	format(str, word>>18, 6)
	str.WriteByte(',')
	format(str, word, 6)
	str.WriteByte(' ')
}
