// Package calctest builds synthetic beatmaps for tests.
package calctest

import (
	"fmt"
	"strings"
)

// Options shapes a generated beatmap.
type Options struct {
	// Mode is the [General] Mode value.
	Mode int
	// Objects is the number of hit objects.
	Objects int
	// Sliders turns every third object into a slider.
	Sliders bool
	// Spacing is the time between objects in ms. Zero means 150.
	Spacing int
	OD, AR  float64
	CS      float64
}

// Beatmap returns a standard beatmap with n circles.
func Beatmap(n int) []byte {
	return Build(Options{Objects: n})
}

// Build returns a beatmap for opts.
func Build(opts Options) []byte {
	spacing := opts.Spacing
	if spacing == 0 {
		spacing = 150
	}
	od, ar, cs := opts.OD, opts.AR, opts.CS
	if od == 0 {
		od = 8
	}
	if ar == 0 {
		ar = 9
	}
	if cs == 0 {
		cs = 4
	}

	var b strings.Builder
	b.WriteString("osu file format v14\n\n")
	b.WriteString("[General]\n")
	fmt.Fprintf(&b, "Mode: %d\n\n", opts.Mode)
	b.WriteString("[Metadata]\nTitle:Synthetic\n\n")
	b.WriteString("[Difficulty]\n")
	fmt.Fprintf(&b, "HPDrainRate:5\nCircleSize:%g\nOverallDifficulty:%g\nApproachRate:%g\n", cs, od, ar)
	b.WriteString("SliderMultiplier:1.4\nSliderTickRate:1\n\n")
	b.WriteString("[HitObjects]\n")
	for i := 0; i < opts.Objects; i++ {
		x := 64 + (i*97)%384
		y := 48 + (i*61)%288
		t := 1000 + i*spacing
		hitSound := 0
		if i%2 == 1 {
			hitSound = 2
		}
		if opts.Sliders && i%3 == 2 {
			fmt.Fprintf(&b, "%d,%d,%d,2,%d,L|%d:%d,1,70\n", x, y, t, hitSound, x+70, y)
			continue
		}
		fmt.Fprintf(&b, "%d,%d,%d,1,%d\n", x, y, t, hitSound)
	}
	return []byte(b.String())
}
