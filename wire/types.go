package wire

import "strconv"

// Mode is the game mode a calculation runs under.
type Mode uint8

const (
	ModeStandard Mode = 0
	ModeTaiko    Mode = 1
	ModeCatch    Mode = 2
	ModeMania    Mode = 3

	// ModeUnspecified means "use the beatmap's own mode".
	ModeUnspecified Mode = 0xff
)

// ModeFromByte maps a wire mode byte to a Mode. Values above 3 are unspecified.
func ModeFromByte(b uint8) Mode {
	if b > uint8(ModeMania) {
		return ModeUnspecified
	}
	return Mode(b)
}

// Valid reports whether m is one of the four concrete modes.
func (m Mode) Valid() bool {
	return m <= ModeMania
}

// Tag returns the response tag byte for m.
func (m Mode) Tag() uint8 {
	switch m {
	case ModeStandard:
		return TagStandard
	case ModeTaiko:
		return TagTaiko
	case ModeCatch:
		return TagCatch
	case ModeMania:
		return TagMania
	default:
		return TagNone
	}
}

// ModeFromTag is the inverse of Mode.Tag.
func ModeFromTag(tag uint8) (Mode, bool) {
	switch tag {
	case TagStandard:
		return ModeStandard, true
	case TagTaiko:
		return ModeTaiko, true
	case TagCatch:
		return ModeCatch, true
	case TagMania:
		return ModeMania, true
	default:
		return ModeUnspecified, false
	}
}

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "osu"
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "catch"
	case ModeMania:
		return "mania"
	case ModeUnspecified:
		return "default"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Response tag bytes.
const (
	TagNone     uint8 = 0x00
	TagStandard uint8 = 0x01
	TagTaiko    uint8 = 0x02
	TagCatch    uint8 = 0x04
	TagMania    uint8 = 0x08
	TagError    uint8 = 0x80
)

// IsErrorTag reports whether tag marks an error envelope.
func IsErrorTag(tag uint8) bool {
	return tag&TagError != 0
}

// Layout sizes.
const (
	MapAttributesSize = 1 + 4 + 8 + 8
	ScoreStateSize    = 7 * 4
	ScoreSize         = MapAttributesSize + ScoreStateSize
	GradualHeaderSize = 1 + 4 + 8
)

// MapAttributes selects how a beatmap is evaluated.
type MapAttributes struct {
	Mode Mode
	Mods uint32
	// ClockRate overrides the mod-derived rate when > 0.
	ClockRate float64
	// Accuracy is raw as sent by the host, either a percentage or a fraction.
	Accuracy float64
}

// ScoreState is a (partial) play's hit counts.
type ScoreState struct {
	MaxCombo uint32
	NGeki    uint32
	NKatu    uint32
	N300     uint32
	N100     uint32
	N50      uint32
	Misses   uint32
}

// Score is a MapAttributes header with an optional ScoreState suffix.
type Score struct {
	Attributes MapAttributes
	State      *ScoreState
}

// PerformanceResult is the outcome of one calculation.
//
// PP, Stars and MaxCombo are common to all modes. The remaining fields are
// only carried on the wire for the modes that define them:
//
//	Standard  PPAcc, PPAim, PPSpeed, PPFlashlight
//	Taiko     PPAcc, PPDifficulty
//	Catch     -
//	Mania     PPDifficulty
type PerformanceResult struct {
	Mode         Mode
	PP           float64
	Stars        float64
	MaxCombo     uint32
	PPAcc        float64
	PPAim        float64
	PPSpeed      float64
	PPFlashlight float64
	PPDifficulty float64
}

// GradualHeader is the response to beginning a gradual session.
type GradualHeader struct {
	Mode   Mode
	Mods   uint32
	Handle uint64
}
