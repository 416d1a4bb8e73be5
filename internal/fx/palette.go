package fx

// Palette holds the four display colors the dither pass quantizes to,
// ordered darkest to lightest.
type Palette [4]RGB565

// PaletteID selects one of the built-in dither palettes.
type PaletteID uint8

const (
	PaletteGameBoy PaletteID = iota
	PaletteGray
	PaletteAmber
	PaletteIce
	PaletteBerry
	numPalettes
)

// NumPalettes is the count of built-in palettes, for menu option cycling.
const NumPalettes = int(numPalettes)

func (p PaletteID) String() string {
	switch p {
	case PaletteGameBoy:
		return "Game Boy"
	case PaletteGray:
		return "Grayscale"
	case PaletteAmber:
		return "Amber"
	case PaletteIce:
		return "Ice"
	case PaletteBerry:
		return "Berry"
	}
	return "???"
}

// palettes is indexed by PaletteID. Built at init because To565 cannot
// run at constant evaluation time.
var palettes [numPalettes]Palette

func init() {
	palettes[PaletteGameBoy] = Palette{
		To565(0x0F, 0x38, 0x0F),
		To565(0x30, 0x62, 0x30),
		To565(0x8B, 0xAC, 0x0F),
		To565(0x9B, 0xBC, 0x0F),
	}
	palettes[PaletteGray] = Palette{
		To565(0x00, 0x00, 0x00),
		To565(0x55, 0x55, 0x55),
		To565(0xAA, 0xAA, 0xAA),
		To565(0xFF, 0xFF, 0xFF),
	}
	palettes[PaletteAmber] = Palette{
		To565(0x1A, 0x0E, 0x00),
		To565(0x66, 0x3C, 0x00),
		To565(0xCC, 0x77, 0x00),
		To565(0xFF, 0xB0, 0x00),
	}
	palettes[PaletteIce] = Palette{
		To565(0x00, 0x10, 0x1A),
		To565(0x00, 0x4E, 0x66),
		To565(0x00, 0x9E, 0xCC),
		To565(0x66, 0xE0, 0xFF),
	}
	palettes[PaletteBerry] = Palette{
		To565(0x1A, 0x00, 0x10),
		To565(0x66, 0x00, 0x3C),
		To565(0xCC, 0x00, 0x77),
		To565(0xFF, 0x5C, 0xB8),
	}
}

// PaletteColors returns the colors of a built-in palette. Unknown ids
// fall back to the Game Boy palette.
func PaletteColors(id PaletteID) Palette {
	if id >= numPalettes {
		id = PaletteGameBoy
	}
	return palettes[id]
}

// Theme selects the tint pass color.
type Theme uint8

const (
	ThemeGreenPhosphor Theme = iota
	ThemeAmberPhosphor
	ThemeIceBlue
	ThemeViolet
	ThemeSepia
	numThemes
)

// NumThemes is the count of built-in themes, for menu option cycling.
const NumThemes = int(numThemes)

func (t Theme) String() string {
	switch t {
	case ThemeGreenPhosphor:
		return "Green"
	case ThemeAmberPhosphor:
		return "Amber"
	case ThemeIceBlue:
		return "Ice"
	case ThemeViolet:
		return "Violet"
	case ThemeSepia:
		return "Sepia"
	}
	return "???"
}

// themeColor is the full-brightness tint target per theme, 8-bit
// channels so the tint pass can scale by luma without expanding.
var themeColor = [numThemes][3]uint8{
	ThemeGreenPhosphor: {0x33, 0xFF, 0x66},
	ThemeAmberPhosphor: {0xFF, 0xB0, 0x00},
	ThemeIceBlue:       {0x66, 0xCC, 0xFF},
	ThemeViolet:        {0xB0, 0x66, 0xFF},
	ThemeSepia:         {0xC0, 0xA0, 0x70},
}

// ThemeColor returns the 8-bit tint target of a theme. Unknown ids fall
// back to green phosphor.
func ThemeColor(t Theme) (r, g, b uint8) {
	if t >= numThemes {
		t = ThemeGreenPhosphor
	}
	c := themeColor[t]
	return c[0], c[1], c[2]
}
