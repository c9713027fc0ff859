package missile

import (
	"math/rand/v2"
)

// emitter paces particle emissions at a randomized per-missile frequency
type emitter struct {
	rng      *rand.Rand
	freqMin  float64
	freqMax  float64
	countMin int
	countMax int
	next     float64 // seconds until next emission
}

func newEmitter(seed uint64, v *VisualParams) emitter {
	e := emitter{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		freqMin:  v.SmokeEmissionFrequencyMin,
		freqMax:  v.SmokeEmissionFrequencyMax,
		countMin: v.SmokePerEmissionMin,
		countMax: v.SmokePerEmissionMax,
	}
	e.next = e.interval()
	return e
}

// interval draws the gap to the next emission, negative when emission is disabled
func (e *emitter) interval() float64 {
	f := e.freqMin
	if e.freqMax > e.freqMin {
		f += e.rng.Float64() * (e.freqMax - e.freqMin)
	}
	if f <= 0 {
		return -1
	}
	return 1.0 / f
}

// tick advances the emission clock by dt and returns the particle count to spawn
func (e *emitter) tick(dt float64) int {
	if e.next < 0 {
		return 0
	}
	e.next -= dt
	total := 0
	for e.next <= 0 {
		total += e.count()
		gap := e.interval()
		if gap < 0 {
			e.next = -1
			break
		}
		e.next += gap
	}
	return total
}

func (e *emitter) count() int {
	if e.countMax <= e.countMin {
		return e.countMin
	}
	return e.countMin + e.rng.IntN(e.countMax-e.countMin+1)
}
