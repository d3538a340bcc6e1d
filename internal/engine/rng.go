package engine

// RandomSequence is a Mulberry32 generator. The obstacle stream of a run is a
// pure function of its seed, so a sequence must never be shared outside the
// spawner that owns it.
type RandomSequence struct {
	state uint32
}

// NewRandomSequence creates a sequence starting from seed.
func NewRandomSequence(seed uint32) *RandomSequence {
	return &RandomSequence{state: seed}
}

// Next returns the next 32-bit value.
func (r *RandomSequence) Next() uint32 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns a value in [0, 1).
func (r *RandomSequence) Float64() float64 {
	return float64(r.Next()) / 4294967296.0
}

// Intn returns a value in [0, n). It returns 0 for n <= 0 without advancing.
func (r *RandomSequence) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Float64() * float64(n))
}

// Chance reports true with probability p.
func (r *RandomSequence) Chance(p float64) bool {
	return r.Float64() < p
}
