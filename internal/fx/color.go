package fx

import (
	"image/color"
)

// RGB565 is one packed panel pixel: 5 bits red, 6 green, 5 blue.
type RGB565 uint16

// expansion below adapted from https://github.com/ev3go/ev3dev/blob/master/LICENSE
// Copyright ©2016 The ev3go Authors. All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// * Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
// * Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
// * The name of the author may not be used to endorse or promote products
// derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND
// ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED
// WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
// FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
// DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
// CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
// OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

const (
	rwid = 5
	gwid = 6
	bwid = 5

	boff = 0
	goff = boff + bwid
	roff = goff + gwid

	rmask = 1<<rwid - 1
	gmask = 1<<gwid - 1
	bmask = 1<<bwid - 1

	bytewid = 8
)

// To565 packs 8-bit channels, dropping the low 3 bits of red and blue and
// the low 2 of green.
func To565(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>(bytewid-rwid))<<roff |
		uint16(g>>(bytewid-gwid))<<goff |
		uint16(b>>(bytewid-bwid))<<boff)
}

// FromColor packs a color.RGBA, ignoring alpha.
func FromColor(c color.RGBA) RGB565 {
	return To565(c.R, c.G, c.B)
}

// RGB888 expands a packed pixel back to 8-bit channels. The dropped low
// bits are rebuilt by replicating the high bits, so packing the result
// again yields the identical RGB565 value.
func (c RGB565) RGB888() (r, g, b uint8) {
	rr := uint32(c&(rmask<<roff)) >> (roff - (bytewid - rwid)) // Shift to align high bit to bit 7.
	rr |= rr >> rwid                                          // Adjust by highest 3 bits.

	gg := uint32(c&(gmask<<goff)) >> (goff - (bytewid - gwid)) // Shift to align high bit to bit 7.
	gg |= gg >> gwid                                           // Adjust by highest 2 bits.

	bb := uint32(c&bmask) << (bytewid - bwid) // Shift to align high bit to bit 7.
	bb |= bb >> bwid                          // Adjust by highest 3 bits.

	return uint8(rr), uint8(gg), uint8(bb)
}

// RGBA expands a packed pixel to a color.RGBA with full alpha.
func (c RGB565) RGBA() color.RGBA {
	r, g, b := c.RGB888()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// Luma returns perceived brightness of 8-bit channels using the integer
// BT.601 weights (77, 150, 29)/256. Integer math keeps the result
// identical on every target.
func Luma(r, g, b uint8) uint8 {
	return uint8((77*uint32(r) + 150*uint32(g) + 29*uint32(b)) >> 8)
}

// Luma returns the packed pixel's perceived brightness.
func (c RGB565) Luma() uint8 {
	r, g, b := c.RGB888()
	return Luma(r, g, b)
}

// scale multiplies each channel of a packed pixel by k/256.
func scale(c RGB565, k uint32) RGB565 {
	r, g, b := c.RGB888()
	return To565(uint8(uint32(r)*k>>8), uint8(uint32(g)*k>>8), uint8(uint32(b)*k>>8))
}
