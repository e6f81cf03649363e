package calc

import (
	"math"
	"strings"

	"github.com/wippyai/rosu-bridge/wire"
)

// Mod bits as they appear in wire attributes and replays.
const (
	ModNoFail      uint32 = 1 << 0
	ModEasy        uint32 = 1 << 1
	ModTouchDevice uint32 = 1 << 2
	ModHidden      uint32 = 1 << 3
	ModHardRock    uint32 = 1 << 4
	ModSuddenDeath uint32 = 1 << 5
	ModDoubleTime  uint32 = 1 << 6
	ModRelax       uint32 = 1 << 7
	ModHalfTime    uint32 = 1 << 8
	ModNightcore   uint32 = 1 << 9
	ModFlashlight  uint32 = 1 << 10
	ModSpunOut     uint32 = 1 << 12
)

var modNames = []struct {
	bit  uint32
	name string
}{
	{ModNoFail, "NF"},
	{ModEasy, "EZ"},
	{ModTouchDevice, "TD"},
	{ModHidden, "HD"},
	{ModHardRock, "HR"},
	{ModSuddenDeath, "SD"},
	{ModDoubleTime, "DT"},
	{ModRelax, "RX"},
	{ModHalfTime, "HT"},
	{ModNightcore, "NC"},
	{ModFlashlight, "FL"},
	{ModSpunOut, "SO"},
}

// ModString renders mods as concatenated acronyms, "NM" for none.
func ModString(mods uint32) string {
	if mods == 0 {
		return "NM"
	}
	out := ""
	for _, m := range modNames {
		if mods&m.bit == 0 {
			continue
		}
		// NC implies DT
		if m.bit == ModDoubleTime && mods&ModNightcore != 0 {
			continue
		}
		out += m.name
	}
	return out
}

// ParseMods is the inverse of ModString. Unknown acronyms are ignored.
func ParseMods(s string) uint32 {
	var mods uint32
	for i := 0; i+1 < len(s); i += 2 {
		pair := s[i : i+2]
		for _, m := range modNames {
			if strings.EqualFold(pair, m.name) {
				mods |= m.bit
			}
		}
	}
	if mods&ModNightcore != 0 {
		mods |= ModDoubleTime
	}
	return mods
}

// ModClockRate is the playback rate implied by mods.
func ModClockRate(mods uint32) float64 {
	switch {
	case mods&(ModDoubleTime|ModNightcore) != 0:
		return 1.5
	case mods&ModHalfTime != 0:
		return 0.75
	default:
		return 1
	}
}

// difficultyValues are beatmap settings after mods and rate are applied.
type difficultyValues struct {
	CS, OD, AR, HP float64
	ClockRate      float64

	// window300 is the great hit window in ms, already rate-adjusted.
	window300 float64
	preempt   float64
}

func applyMods(bm *Beatmap, mods uint32, clockRate float64) difficultyValues {
	scale := 1.0
	switch {
	case mods&ModHardRock != 0:
		scale = 1.4
	case mods&ModEasy != 0:
		scale = 0.5
	}
	csScale := 1.0
	switch {
	case mods&ModHardRock != 0:
		csScale = 1.3
	case mods&ModEasy != 0:
		csScale = 0.5
	}

	v := difficultyValues{
		CS:        math.Min(bm.CS*csScale, 10),
		OD:        math.Min(bm.OD*scale, 10),
		AR:        math.Min(bm.AR*scale, 10),
		HP:        math.Min(bm.HP*scale, 10),
		ClockRate: clockRate,
	}
	if bm.Mode == wire.ModeMania {
		// key count is not a difficulty setting
		v.CS = bm.CS
	}

	v.window300 = (80 - 6*v.OD) / clockRate
	v.preempt = arToPreempt(v.AR) / clockRate
	v.AR = preemptToAR(v.preempt)
	v.OD = (80 - v.window300) / 6
	return v
}

func arToPreempt(ar float64) float64 {
	if ar > 5 {
		return 1200 - 150*(ar-5)
	}
	return 1200 + 120*(5-ar)
}

func preemptToAR(preempt float64) float64 {
	if preempt < 1200 {
		return 5 + (1200-preempt)/150
	}
	return 5 - (preempt-1200)/120
}
