package byte90

import (
	"strconv"

	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/fx"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/sound"
	"github.com/alxv2016/Byte90-alxvlabs-sub000/internal/state"
)

// buildMenu assembles the settings tree. Every leaf goes through the
// owning subsystem's accessors, so values shown are always the values
// in force and everything persists through the same store.
func (d *Device) buildMenu() *SubMenu {
	return &SubMenu{
		Title: "BYTE-90",
		Items: []MenuItem{
			d.effectsMenu(),
			d.soundMenu(),
			d.clockMenu(),
			&ActionItem{Label: "Pair with friend", Invoke: func() {
				d.leaveMenuTo(state.Pairing, "menu pairing")
			}},
			d.systemMenu(),
			Back,
		},
	}
}

func (d *Device) effectsMenu() *SubMenu {
	items := make([]MenuItem, 0, fx.NumKinds+5)
	for i := 0; i < fx.NumKinds; i++ {
		k := fx.Kind(i)
		items = append(items, &ToggleItem{
			Label: k.String(),
			Get:   func() bool { return d.effects.Enabled(k) },
			Set: func(bool) {
				// Toggle rather than Set so the rapid-press cooldown
				// holds even when driven from the menu.
				d.effects.Toggle(k)
			},
		})
	}
	items = append(items,
		d.paletteItem(),
		d.themeItem(),
		d.scanModeItem(),
		&ActionItem{Label: "Reset effects", Invoke: func() {
			d.effects.ResetDefaults()
		}},
		Back,
	)
	return &SubMenu{Title: "Effects", Items: items}
}

func (d *Device) paletteItem() *OptionItem {
	opts := make([]string, fx.NumPalettes)
	for i := range opts {
		opts[i] = fx.PaletteID(i).String()
	}
	return &OptionItem{
		Label:   "Palette",
		Options: opts,
		Active:  func() int { return int(d.effects.Param(fx.Dither, "palette")) },
		Apply:   func(i int) { d.effects.SetParam(fx.Dither, "palette", float64(i)) },
	}
}

func (d *Device) themeItem() *OptionItem {
	opts := make([]string, fx.NumThemes)
	for i := range opts {
		opts[i] = fx.Theme(i).String()
	}
	return &OptionItem{
		Label:   "Tint theme",
		Options: opts,
		Active:  func() int { return int(d.effects.Param(fx.Tint, "theme")) },
		Apply:   func(i int) { d.effects.SetParam(fx.Tint, "theme", float64(i)) },
	}
}

func (d *Device) scanModeItem() *OptionItem {
	return &OptionItem{
		Label:   "Scan style",
		Options: []string{"Classic", "Animated", "Curved"},
		Active:  func() int { return int(d.effects.Param(fx.Scanline, "mode")) },
		Apply:   func(i int) { d.effects.SetParam(fx.Scanline, "mode", float64(i)) },
	}
}

func (d *Device) soundMenu() *SubMenu {
	vols := make([]string, sound.MaxVolume+1)
	for i := range vols {
		vols[i] = strconv.Itoa(i)
	}
	return &SubMenu{
		Title: "Sound",
		Items: []MenuItem{
			&OptionItem{
				Label:   "Volume",
				Options: vols,
				Active:  func() int { return d.sounds.Volume() },
				Apply: func(i int) {
					d.sounds.SetVolume(i)
					// Immediate feedback so the level is audible
					// before backing out.
					d.sounds.Preempt(sound.Confirm)
				},
			},
			&ActionItem{Label: "Test chime", Invoke: func() {
				d.sounds.Preempt(sound.HourChime)
			}},
			Back,
		},
	}
}

func (d *Device) clockMenu() *SubMenu {
	return &SubMenu{
		Title: "Clock",
		Items: []MenuItem{
			&ActionItem{Label: "Show clock", Invoke: func() {
				d.leaveMenuTo(state.Clock, "menu clock")
			}},
			d.timezoneItem(),
			Back,
		},
	}
}

// timezoneItem covers whole-hour offsets UTC-12 through UTC+14. The
// stored preference is in minutes, leaving room for half-hour zones
// without a key migration.
func (d *Device) timezoneItem() *OptionItem {
	opts := make([]string, 27)
	for i := range opts {
		h := i - 12
		switch {
		case h < 0:
			opts[i] = "UTC-" + strconv.Itoa(-h)
		case h == 0:
			opts[i] = "UTC"
		default:
			opts[i] = "UTC+" + strconv.Itoa(h)
		}
	}
	return &OptionItem{
		Label:   "Timezone",
		Options: opts,
		Active: func() int {
			h := d.store.IntWithFallback(prefTimezone, 0) / 60
			if h < -12 {
				h = -12
			}
			if h > 14 {
				h = 14
			}
			return h + 12
		},
		Apply: func(i int) {
			d.store.SetInt(prefTimezone, (i-12)*60)
		},
	}
}

func (d *Device) systemMenu() *SubMenu {
	return &SubMenu{
		Title: "System",
		Items: []MenuItem{
			&ActionItem{Label: "Sleep now", Invoke: func() {
				d.leaveMenuTo(state.Sleep, "menu sleep")
			}},
			&ActionItem{Label: "Update mode", Invoke: func() {
				d.leaveMenuTo(state.Updating, "menu update")
			}},
			Back,
		},
	}
}
