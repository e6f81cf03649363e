package calc

import (
	"math"

	"github.com/wippyai/rosu-bridge/score"
	"github.com/wippyai/rosu-bridge/wire"
)

const (
	// minDelta keeps near-simultaneous objects from exploding strain.
	minDelta = 25.0

	playfieldWidth = 512.0
	normRadius     = 52.0
	strainNorm     = 4.0
)

// Attributes is the difficulty of the objects processed so far.
type Attributes struct {
	Mode wire.Mode
	Mods uint32

	Stars      float64
	Aim        float64
	Speed      float64
	Flashlight float64

	// Strain is the single skill rating of taiko, catch and mania.
	Strain float64

	MaxCombo    uint32
	ObjectCount int
	Circles     int
	Sliders     int
	Spinners    int
	Holds       int

	CS, OD, AR, HP float64
	ClockRate      float64
	GreatWindow    float64
}

// skill accumulates a decaying strain and its power-mean over every object
// seen. The rating only ever grows as objects are added.
type skill struct {
	decay      float64
	multiplier float64
	current    float64
	sum        float64
}

func newSkill(decay, multiplier float64) *skill {
	return &skill{decay: decay, multiplier: multiplier}
}

// Process adds term after delta milliseconds of decay.
func (s *skill) Process(term, delta float64) {
	s.current = s.current*math.Pow(s.decay, delta/1000) + term*s.multiplier
	s.sum += math.Pow(s.current, strainNorm)
}

func (s *skill) value() float64 {
	return math.Pow(s.sum, 1/strainNorm)
}

func (s *skill) rating(scale float64) float64 {
	return math.Sqrt(s.value()) * scale
}

// processor walks a beatmap one object at a time.
type processor struct {
	bm     *Beatmap
	mods   uint32
	values difficultyValues

	idx      int
	combo    uint32
	objects  int
	circles  int
	sliders  int
	spinners int
	holds    int
	prev     *HitObject

	aim        *skill
	speed      *skill
	flashlight *skill
	strain     *skill

	// taiko
	lastKat   bool
	lastDelta float64
	// catch
	lastX float64
	// mania
	columns  []*skill
	holdEnds []float64
}

func newProcessor(bm *Beatmap, req score.Request) *processor {
	rate, ok := req.ClockRateOverride()
	if !ok {
		rate = ModClockRate(req.Mods)
	}
	p := &processor{
		bm:         bm,
		mods:       req.Mods,
		values:     applyMods(bm, req.Mods, rate),
		aim:        newSkill(0.15, 23.55),
		speed:      newSkill(0.3, 1375),
		flashlight: newSkill(0.15, 0.052),
		lastX:      playfieldWidth / 2,
	}
	switch bm.Mode {
	case wire.ModeTaiko:
		p.strain = newSkill(0.3, 1)
	case wire.ModeCatch:
		p.strain = newSkill(0.2, 500)
	case wire.ModeMania:
		p.strain = newSkill(0.3, 1)
		keys := bm.Keys()
		p.columns = make([]*skill, keys)
		for i := range p.columns {
			p.columns[i] = newSkill(0.125, 1)
		}
		p.holdEnds = make([]float64, keys)
	}
	return p
}

// step processes the next object. It reports false once all objects have
// been processed.
func (p *processor) step() bool {
	if p.idx >= len(p.bm.Objects) {
		return false
	}
	obj := p.bm.Objects[p.idx]
	p.idx++

	delta := minDelta
	if p.prev != nil {
		delta = math.Max((obj.Time-p.prev.Time)/p.values.ClockRate, minDelta)
	}

	switch p.bm.Mode {
	case wire.ModeTaiko:
		p.processTaiko(obj, delta)
	case wire.ModeCatch:
		p.processCatch(obj, delta)
	case wire.ModeMania:
		p.processMania(obj, delta)
	default:
		p.processStandard(obj, delta)
	}

	p.combo += uint32(p.bm.Combo(obj))
	switch obj.Kind {
	case KindCircle:
		p.circles++
	case KindSlider:
		p.sliders++
	case KindSpinner:
		p.spinners++
	case KindHold:
		p.holds++
	}
	p.countObject(obj)
	p.prev = &p.bm.Objects[p.idx-1]
	return true
}

// countObject tracks how many judgements a score over the processed part
// of the map is expected to carry.
func (p *processor) countObject(obj HitObject) {
	switch p.bm.Mode {
	case wire.ModeTaiko:
		if obj.Kind == KindCircle {
			p.objects++
		}
	case wire.ModeCatch:
		p.objects += p.bm.Combo(obj)
	default:
		p.objects++
	}
}

func (p *processor) radius() float64 {
	return 54.4 - 4.48*p.values.CS
}

func (p *processor) processStandard(obj HitObject, delta float64) {
	if obj.Kind == KindSpinner {
		p.aim.Process(0, delta)
		p.speed.Process(0, delta)
		p.flashlight.Process(0, delta)
		return
	}

	var dist float64
	if p.prev != nil && p.prev.Kind != KindSpinner {
		dist = math.Hypot(obj.X-p.prev.X, obj.Y-p.prev.Y) * normRadius / p.radius()
	}
	if obj.Kind == KindSlider {
		dist += obj.Length * float64(obj.Slides) * 0.25
	}

	p.aim.Process(dist/normRadius/delta, delta)
	p.speed.Process(1/math.Max(delta, 75), delta)
	if p.mods&ModFlashlight != 0 {
		p.flashlight.Process(dist*dist/delta, delta)
	}
}

func (p *processor) processTaiko(obj HitObject, delta float64) {
	if obj.Kind != KindCircle {
		p.strain.Process(0, delta)
		return
	}
	kat := obj.HitSound&(2|8) != 0

	term := 1.0
	if p.prev != nil && kat != p.lastKat {
		term += 0.75
	}
	if p.lastDelta > 0 {
		ratio := math.Max(delta, p.lastDelta) / math.Min(delta, p.lastDelta)
		if ratio > 1.05 {
			term += 0.5 * math.Min(1, math.Log2(ratio))
		}
	}
	p.strain.Process(term*100/delta, delta)
	p.lastKat = kat
	p.lastDelta = delta
}

func (p *processor) processCatch(obj HitObject, delta float64) {
	if obj.Kind == KindSpinner {
		p.strain.Process(0, delta)
		return
	}
	catcher := 106.75 * (1 - 0.7*(p.values.CS-5)/5) / 2
	dist := math.Abs(obj.X - p.lastX)
	p.strain.Process(math.Max(0, dist-catcher/2)/catcher/delta, delta)
	p.lastX = obj.X
}

func (p *processor) processMania(obj HitObject, delta float64) {
	col := p.bm.Column(obj)
	start := obj.Time / p.values.ClockRate
	end := obj.EndTime / p.values.ClockRate

	holding := 0
	for i, e := range p.holdEnds {
		if i != col && e > start {
			holding++
		}
	}
	term := 1 + 0.5*float64(holding)
	if obj.Kind == KindHold {
		term += 0.25
	}

	p.columns[col].Process(term, delta*float64(len(p.columns)))
	p.strain.Process(term+p.columns[col].current*0.1, delta)
	p.holdEnds[col] = math.Max(end, start)
}

func (p *processor) attributes() Attributes {
	a := Attributes{
		Mode:        p.bm.Mode,
		Mods:        p.mods,
		MaxCombo:    p.combo,
		ObjectCount: p.objects,
		Circles:     p.circles,
		Sliders:     p.sliders,
		Spinners:    p.spinners,
		Holds:       p.holds,
		CS:          p.values.CS,
		OD:          p.values.OD,
		AR:          p.values.AR,
		HP:          p.values.HP,
		ClockRate:   p.values.ClockRate,
		GreatWindow: p.values.window300,
	}

	switch p.bm.Mode {
	case wire.ModeTaiko:
		a.Strain = p.strain.rating(0.21)
		a.Stars = a.Strain
	case wire.ModeCatch:
		a.Strain = p.strain.rating(0.153)
		a.Stars = a.Strain
	case wire.ModeMania:
		a.Strain = p.strain.rating(0.2)
		a.Stars = a.Strain
	default:
		a.Aim = p.aim.rating(0.0675)
		a.Speed = p.speed.rating(0.0675)
		if p.mods&ModFlashlight != 0 {
			a.Flashlight = p.flashlight.rating(0.0675)
		}
		a.Stars = 1.1 * math.Cbrt(a.Aim*a.Aim*a.Aim+a.Speed*a.Speed*a.Speed+a.Flashlight*a.Flashlight*a.Flashlight)
	}
	return a
}
