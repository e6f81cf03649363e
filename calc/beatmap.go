package calc

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/rosu-bridge/errors"
	"github.com/wippyai/rosu-bridge/wire"
)

const formatHeader = "osu file format v"

// ObjectKind is the kind of a hit object.
type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

// Hit object type bits.
const (
	typeCircle  = 1 << 0
	typeSlider  = 1 << 1
	typeSpinner = 1 << 3
	typeHold    = 1 << 7
)

// HitObject is one element of the beatmap timeline.
type HitObject struct {
	X, Y     float64
	Time     float64
	EndTime  float64
	Kind     ObjectKind
	Slides   int
	Length   float64
	HitSound int
}

// Beatmap is the subset of a .osu file the engine needs.
type Beatmap struct {
	Version          int
	Mode             wire.Mode
	HP               float64
	CS               float64
	OD               float64
	AR               float64
	SliderMultiplier float64
	Objects          []HitObject
	Converted        bool
}

// Parse reads a .osu beatmap. Objects are returned sorted by time.
func Parse(data []byte) (*Beatmap, error) {
	bm := &Beatmap{
		HP:               5,
		CS:               5,
		OD:               5,
		AR:               -1,
		SliderMultiplier: 1.4,
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""
	line := 0
	headerSeen := false
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" || strings.HasPrefix(text, "//") {
			continue
		}

		if !headerSeen {
			if !strings.HasPrefix(text, formatHeader) {
				return nil, parseError(line, "missing %q header", formatHeader)
			}
			v, err := strconv.Atoi(strings.TrimPrefix(text, formatHeader))
			if err != nil {
				return nil, parseError(line, "bad format version")
			}
			bm.Version = v
			headerSeen = true
			continue
		}

		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			section = text[1 : len(text)-1]
			continue
		}

		var err error
		switch section {
		case "General":
			err = bm.parseGeneral(text)
		case "Difficulty":
			err = bm.parseDifficulty(text)
		case "HitObjects":
			err = bm.parseHitObject(text)
		}
		if err != nil {
			return nil, parseError(line, "%v", err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Decode(errors.PhaseCalculate, "beatmap", err)
	}
	if !headerSeen {
		return nil, parseError(line, "empty beatmap")
	}

	if bm.AR < 0 {
		bm.AR = bm.OD
	}
	sort.SliceStable(bm.Objects, func(i, j int) bool {
		return bm.Objects[i].Time < bm.Objects[j].Time
	})
	return bm, nil
}

func parseError(line int, format string, args ...any) *errors.Error {
	return errors.New(errors.PhaseCalculate, errors.KindDecode).
		Path("beatmap", "line "+strconv.Itoa(line)).
		Detail(format, args...).
		Build()
}

func splitKeyValue(text string) (string, string, bool) {
	k, v, ok := strings.Cut(text, ":")
	return strings.TrimSpace(k), strings.TrimSpace(v), ok
}

func (bm *Beatmap) parseGeneral(text string) error {
	k, v, ok := splitKeyValue(text)
	if !ok || k != "Mode" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > int(wire.ModeMania) {
		return fmt.Errorf("invalid mode %q", v)
	}
	bm.Mode = wire.Mode(n)
	return nil
}

func (bm *Beatmap) parseDifficulty(text string) error {
	k, v, ok := splitKeyValue(text)
	if !ok {
		return nil
	}
	var dst *float64
	switch k {
	case "HPDrainRate":
		dst = &bm.HP
	case "CircleSize":
		dst = &bm.CS
	case "OverallDifficulty":
		dst = &bm.OD
	case "ApproachRate":
		dst = &bm.AR
	case "SliderMultiplier":
		dst = &bm.SliderMultiplier
	default:
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid %s %q", k, v)
	}
	*dst = f
	return nil
}

func (bm *Beatmap) parseHitObject(text string) error {
	fields := strings.Split(text, ",")
	if len(fields) < 4 {
		return fmt.Errorf("hit object needs at least 4 fields, got %d", len(fields))
	}
	var nums [4]float64
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("hit object field %d: %q is not a number", i, fields[i])
		}
		nums[i] = f
	}
	obj := HitObject{X: nums[0], Y: nums[1], Time: nums[2], EndTime: nums[2]}
	typ := int(nums[3])
	if len(fields) > 4 {
		obj.HitSound, _ = strconv.Atoi(strings.TrimSpace(fields[4]))
	}

	switch {
	case typ&typeSlider != 0:
		obj.Kind = KindSlider
		obj.Slides = 1
		if len(fields) > 6 {
			if n, err := strconv.Atoi(strings.TrimSpace(fields[6])); err == nil && n > 0 {
				obj.Slides = n
			}
		}
		if len(fields) > 7 {
			if l, err := strconv.ParseFloat(strings.TrimSpace(fields[7]), 64); err == nil && l > 0 {
				obj.Length = l
			}
		}
	case typ&typeSpinner != 0:
		obj.Kind = KindSpinner
		if len(fields) > 5 {
			if end, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64); err == nil {
				obj.EndTime = math.Max(end, obj.Time)
			}
		}
	case typ&typeHold != 0:
		obj.Kind = KindHold
		if len(fields) > 5 {
			end, _, _ := strings.Cut(fields[5], ":")
			if f, err := strconv.ParseFloat(strings.TrimSpace(end), 64); err == nil {
				obj.EndTime = math.Max(f, obj.Time)
			}
		}
	case typ&typeCircle != 0:
		obj.Kind = KindCircle
	default:
		return fmt.Errorf("unknown hit object type %d", typ)
	}

	bm.Objects = append(bm.Objects, obj)
	return nil
}

// Convert returns the beatmap evaluated in mode. Only standard beatmaps
// convert; other beatmaps and unspecified modes are returned unchanged.
func (bm *Beatmap) Convert(mode wire.Mode) *Beatmap {
	if !mode.Valid() || mode == bm.Mode || bm.Mode != wire.ModeStandard {
		return bm
	}
	out := *bm
	out.Mode = mode
	out.Converted = true
	if mode == wire.ModeMania {
		// converted maps pick a key count from the circle size
		out.CS = math.Max(4, math.Min(7, math.Round(bm.CS)))
	}
	return &out
}

// maxKeys is the widest playable mania layout.
const maxKeys = 18

// Keys returns the mania key count, clamped to 1..maxKeys.
func (bm *Beatmap) Keys() int {
	return int(math.Max(1, math.Min(maxKeys, math.Round(bm.CS))))
}

// Column returns the mania column of obj.
func (bm *Beatmap) Column(obj HitObject) int {
	keys := bm.Keys()
	col := int(obj.X * float64(keys) / 512)
	return max(0, min(keys-1, col))
}

// Combo returns the combo obj is worth in the beatmap's mode.
func (bm *Beatmap) Combo(obj HitObject) int {
	switch bm.Mode {
	case wire.ModeTaiko:
		if obj.Kind == KindCircle {
			return 1
		}
		return 0
	case wire.ModeCatch:
		switch obj.Kind {
		case KindSlider:
			return 1 + obj.Slides
		case KindSpinner:
			return 0
		}
		return 1
	case wire.ModeMania:
		return 1
	default:
		if obj.Kind == KindSlider {
			return 1 + obj.Slides
		}
		return 1
	}
}
