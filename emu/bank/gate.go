/*
 * S2200 - Gate records
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

// Gate records occupy 8 word aligned slots in a gate bank.
const (
	GateWords    = 5
	GateSlotSize = 8
)

const (
	gateLibrary      = uint64(1) << 29 // LIB
	gateGotoInhibit  = uint64(1) << 28 // GI
	gateDBInhibit    = uint64(1) << 27 // DBI
	gateKeyInhibit   = uint64(1) << 26 // AKI
	gateLP0Inhibit   = uint64(1) << 25 // LP0I
	gateLP1Inhibit   = uint64(1) << 24 // LP1I
	gateDBFieldShift = 18
)

type Gate struct {
	GeneralPerms    Permissions
	SpecialPerms    Permissions
	Library         bool
	GotoInhibit     bool
	DBInhibit       bool // Do not transfer designator bits.
	KeyInhibit      bool // Do not transfer access key.
	LP0Inhibit      bool
	LP1Inhibit      bool
	Lock            AccessInfo
	Target          VirtualAddress
	BasicModeSelect uint8  // 0-3, selects B12-B15.
	DesignatorBits  uint64 // DB12-17 right justified.
	AccessKey       AccessInfo
	LatentParam0    uint64
	LatentParam1    uint64
}

func DecodeGate(words [GateWords]uint64) *Gate {
	w0 := words[0] & WordMask
	w2 := words[2] & WordMask
	return &Gate{
		GeneralPerms:    NewPermissions(w0 >> 33),
		SpecialPerms:    NewPermissions(w0 >> 30),
		Library:         (w0 & gateLibrary) != 0,
		GotoInhibit:     (w0 & gateGotoInhibit) != 0,
		DBInhibit:       (w0 & gateDBInhibit) != 0,
		KeyInhibit:      (w0 & gateKeyInhibit) != 0,
		LP0Inhibit:      (w0 & gateLP0Inhibit) != 0,
		LP1Inhibit:      (w0 & gateLP1Inhibit) != 0,
		Lock:            NewAccessInfo(H2(w0)),
		Target:          NewVirtualAddress(words[1] & WordMask),
		BasicModeSelect: uint8((w2 >> 34) & 0o3),
		DesignatorBits:  (w2 >> gateDBFieldShift) & 0o77,
		AccessKey:       NewAccessInfo(H2(w2)),
		LatentParam0:    words[3] & WordMask,
		LatentParam1:    words[4] & WordMask,
	}
}

func (g *Gate) Encode() [GateWords]uint64 {
	var words [GateWords]uint64

	w0 := (g.GeneralPerms.Bits() << 33) | (g.SpecialPerms.Bits() << 30) | g.Lock.Word()
	flags := []struct {
		set  bool
		mask uint64
	}{
		{g.Library, gateLibrary},
		{g.GotoInhibit, gateGotoInhibit},
		{g.DBInhibit, gateDBInhibit},
		{g.KeyInhibit, gateKeyInhibit},
		{g.LP0Inhibit, gateLP0Inhibit},
		{g.LP1Inhibit, gateLP1Inhibit},
	}
	for _, f := range flags {
		if f.set {
			w0 |= f.mask
		}
	}
	words[0] = w0
	words[1] = g.Target.Word()
	words[2] = (uint64(g.BasicModeSelect&0o3) << 34) |
		((g.DesignatorBits & 0o77) << gateDBFieldShift) |
		g.AccessKey.Word()
	words[3] = g.LatentParam0 & WordMask
	words[4] = g.LatentParam1 & WordMask
	return words
}
