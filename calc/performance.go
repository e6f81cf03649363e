package calc

import (
	"math"

	"github.com/wippyai/rosu-bridge/score"
	"github.com/wippyai/rosu-bridge/wire"
)

// performance rates state against attrs. Without a state the request
// accuracy is used on a full combo with no misses.
func performance(attrs Attributes, req score.Request, state wire.ScoreState, hasState bool) wire.PerformanceResult {
	h := newHits(attrs, req, state, hasState)

	res := wire.PerformanceResult{
		Mode:     attrs.Mode,
		Stars:    finite(attrs.Stars),
		MaxCombo: attrs.MaxCombo,
	}
	switch attrs.Mode {
	case wire.ModeTaiko:
		taikoPerformance(&res, attrs, h)
	case wire.ModeCatch:
		catchPerformance(&res, attrs, h)
	case wire.ModeMania:
		maniaPerformance(&res, attrs, h)
	default:
		standardPerformance(&res, attrs, h)
	}

	res.PP = finite(res.PP)
	res.PPAcc = finite(res.PPAcc)
	res.PPAim = finite(res.PPAim)
	res.PPSpeed = finite(res.PPSpeed)
	res.PPFlashlight = finite(res.PPFlashlight)
	res.PPDifficulty = finite(res.PPDifficulty)
	return res
}

// finite clamps NaN, infinities and negatives to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// hits is a score state resolved against the map.
type hits struct {
	geki, katu, n300, n100, n50, misses float64

	combo    float64
	total    float64
	accuracy float64
	// scored is false for the full-combo reference rating.
	scored bool
}

func newHits(attrs Attributes, req score.Request, state wire.ScoreState, hasState bool) hits {
	fallback := math.Max(0, math.Min(1, req.Accuracy/100))

	if !hasState {
		total := float64(attrs.ObjectCount)
		return hits{
			n300:     total,
			combo:    float64(attrs.MaxCombo),
			total:    total,
			accuracy: fallback,
		}
	}

	h := hits{
		scored: true,
		geki:   float64(state.NGeki),
		katu:   float64(state.NKatu),
		n300:   float64(state.N300),
		n100:   float64(state.N100),
		n50:    float64(state.N50),
		misses: float64(state.Misses),
		combo:  float64(state.MaxCombo),
	}

	var num, den float64
	switch attrs.Mode {
	case wire.ModeTaiko:
		h.total = h.n300 + h.n100 + h.misses
		num, den = h.n300*2+h.n100, h.total*2
	case wire.ModeCatch:
		h.total = h.n300 + h.n100 + h.misses
		caught := h.n300 + h.n100 + h.n50
		num, den = caught, caught+h.misses+h.katu
	case wire.ModeMania:
		h.total = h.geki + h.n300 + h.katu + h.n100 + h.n50 + h.misses
		num, den = (h.geki+h.n300)*300+h.katu*200+h.n100*100+h.n50*50, h.total*300
	default:
		h.total = h.n300 + h.n100 + h.n50 + h.misses
		num, den = h.n300*6+h.n100*2+h.n50, h.total*6
	}

	h.accuracy = fallback
	if den > 0 {
		h.accuracy = num / den
	}
	return h
}

func lengthBonus(total float64) float64 {
	bonus := 0.95 + 0.4*math.Min(1, total/2000)
	if total > 2000 {
		bonus += math.Log10(total/2000) * 0.5
	}
	return bonus
}

func difficultyToPerformance(rating float64) float64 {
	return math.Pow(5*math.Max(1, rating/0.0675)-4, 3) / 100000
}

func comboScaling(combo, maxCombo float64) float64 {
	if maxCombo <= 0 {
		return 1
	}
	return math.Min(math.Pow(combo, 0.8)/math.Pow(maxCombo, 0.8), 1)
}

func missPenalty(misses, total float64) float64 {
	if misses <= 0 || total <= 0 {
		return 1
	}
	return 0.97 * math.Pow(1-math.Pow(misses/total, 0.775), misses)
}

func standardPerformance(res *wire.PerformanceResult, attrs Attributes, h hits) {
	length := lengthBonus(h.total)
	miss := missPenalty(h.misses, h.total)
	combo := comboScaling(h.combo, float64(attrs.MaxCombo))
	odBonus := 0.98 + attrs.OD*attrs.OD/2500

	arFactor := 0.0
	if attrs.AR > 10.33 {
		arFactor = 0.3 * (attrs.AR - 10.33)
	} else if attrs.AR < 8 {
		arFactor = 0.05 * (8 - attrs.AR)
	}
	hidden := attrs.Mods&ModHidden != 0

	aim := difficultyToPerformance(attrs.Aim) * length * miss * combo
	aim *= 1 + arFactor*length
	if hidden {
		aim *= 1 + 0.04*(12-attrs.AR)
	}
	aim *= h.accuracy * odBonus

	speed := difficultyToPerformance(attrs.Speed) * length * miss * combo
	if attrs.AR > 10.33 {
		speed *= 1 + 0.3*(attrs.AR-10.33)*length
	}
	if hidden {
		speed *= 1 + 0.04*(12-attrs.AR)
	}
	speed *= (0.95 + attrs.OD*attrs.OD/750) * math.Pow(h.accuracy, (14.5-math.Max(attrs.OD, 8))/2)
	if h.n50 >= h.total/500 {
		speed *= math.Pow(0.99, h.n50-h.total/500)
	}

	circles := float64(attrs.Circles)
	better := h.accuracy
	if h.scored {
		better = 0
		if circles > 0 {
			better = math.Max(0, ((h.n300-(h.total-circles))*6+h.n100*2+h.n50)/(circles*6))
		}
	}
	acc := math.Pow(1.52163, attrs.OD) * math.Pow(better, 24) * 2.83
	acc *= math.Min(1.15, math.Pow(circles/1000, 0.3))
	if hidden {
		acc *= 1.08
	}
	if attrs.Mods&ModFlashlight != 0 {
		acc *= 1.02
	}

	var fl float64
	if attrs.Mods&ModFlashlight != 0 {
		fl = attrs.Flashlight * attrs.Flashlight * 25 * miss * combo
		scale := 0.7 + 0.1*math.Min(1, h.total/200)
		if h.total > 200 {
			scale += 0.2 * math.Min(1, (h.total-200)/200)
		}
		fl *= scale * (0.5 + h.accuracy/2) * odBonus
	}

	multiplier := 1.14
	if attrs.Mods&ModNoFail != 0 {
		multiplier *= math.Max(0.9, 1-0.02*h.misses)
	}
	if attrs.Mods&ModSpunOut != 0 && h.total > 0 {
		multiplier *= 1 - math.Pow(float64(attrs.Spinners)/h.total, 0.85)
	}
	if attrs.Mods&ModRelax != 0 {
		speed, acc = 0, 0
	}

	res.PPAim = aim
	res.PPSpeed = speed
	res.PPAcc = acc
	res.PPFlashlight = fl
	res.PP = math.Pow(
		math.Pow(finite(aim), 1.1)+
			math.Pow(finite(speed), 1.1)+
			math.Pow(finite(acc), 1.1)+
			math.Pow(finite(fl), 1.1),
		1/1.1,
	) * multiplier
}

func taikoPerformance(res *wire.PerformanceResult, attrs Attributes, h hits) {
	strain := math.Pow(5*math.Max(1, attrs.Strain/0.115)-4, 2.25) / 1150
	strain *= 1 + 0.1*math.Min(1, h.total/1500)
	strain *= math.Pow(0.986, h.misses)
	if attrs.Mods&ModHidden != 0 {
		strain *= 1.025
	}
	if attrs.Mods&ModFlashlight != 0 {
		strain *= 1.05 * (1 + 0.1*math.Min(1, h.total/1500))
	}
	strain *= math.Pow(h.accuracy, 2)

	var acc float64
	if attrs.GreatWindow > 0 {
		acc = math.Pow(60/attrs.GreatWindow, 1.1) * math.Pow(h.accuracy, 8) * math.Pow(attrs.Stars, 0.4) * 27
		acc *= math.Min(1.15, math.Pow(h.total/1500, 0.3))
	}

	multiplier := 1.13
	if attrs.Mods&ModNoFail != 0 {
		multiplier *= 0.9
	}
	if attrs.Mods&ModHidden != 0 {
		multiplier *= 1.075
	}

	res.PPDifficulty = strain
	res.PPAcc = acc
	res.PP = math.Pow(math.Pow(finite(strain), 1.1)+math.Pow(finite(acc), 1.1), 1/1.1) * multiplier
}

func catchPerformance(res *wire.PerformanceResult, attrs Attributes, h hits) {
	pp := math.Pow(5*math.Max(1, attrs.Strain/0.0049)-4, 2) / 100000

	combo := float64(attrs.MaxCombo)
	length := 0.95 + 0.3*math.Min(1, combo/2500)
	if combo > 2500 {
		length += math.Log10(combo/2500) * 0.475
	}
	pp *= length
	pp *= math.Pow(0.97, h.misses)
	if combo > 0 {
		pp *= math.Min(math.Pow(h.combo, 0.8)/math.Pow(combo, 0.8), 1)
	}

	ar := attrs.AR
	arFactor := 1.0
	if ar > 9 {
		arFactor += 0.1 * (ar - 9)
	}
	if ar > 10 {
		arFactor += 0.1 * (ar - 10)
	} else if ar < 8 {
		arFactor += 0.025 * (8 - ar)
	}
	pp *= arFactor

	if attrs.Mods&ModHidden != 0 && ar <= 10 {
		pp *= 1.05 + 0.075*(10-ar)
	}
	if attrs.Mods&ModFlashlight != 0 {
		pp *= 1.35 * length
	}
	pp *= math.Pow(h.accuracy, 5.5)
	if attrs.Mods&ModNoFail != 0 {
		pp *= 0.9
	}

	res.PP = pp
}

func maniaPerformance(res *wire.PerformanceResult, attrs Attributes, h hits) {
	diff := math.Pow(math.Max(attrs.Strain-0.15, 0.05), 2.2) * 8
	diff *= 1 + 0.1*math.Min(1, h.total/1500)

	judge := h.accuracy
	if h.scored && h.total > 0 {
		judge = (h.geki*320 + h.n300*300 + h.katu*200 + h.n100*100 + h.n50*50) / (h.total * 320)
	}
	diff *= math.Max(0, 5*judge-4)

	multiplier := 1.0
	if attrs.Mods&ModNoFail != 0 {
		multiplier *= 0.75
	}
	if attrs.Mods&ModEasy != 0 {
		multiplier *= 0.5
	}

	res.PPDifficulty = diff
	res.PP = diff * multiplier
}
