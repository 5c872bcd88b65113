package core

// Sampler is the per-pixel random stream (spec §4.4). State is a pair of
// 32-bit words — mirroring the UVec2 state the kernel persists between
// samples — advanced by a 32-bit xorshift step. The same starting state
// always produces the same stream: gen_r1/gen_r2/gen_r3 consume the stream
// in a fixed order, and NextState returns the state to persist for the next
// sample so that stratified/blue-noise seeding stays meaningful across
// frames.
type Sampler struct {
	state [2]uint32
}

// NewSampler seeds a Sampler from a 64-bit ray index. The xorshift step
// never recovers from a zero word, so a zero low word (which feeds every
// draw) is perturbed to a fixed nonzero pattern.
func NewSampler(seed uint64) Sampler {
	lo := uint32(seed)
	hi := uint32(seed >> 32)
	if lo == 0 {
		lo, hi = 0x9e3779b9, hi^0x85ebca6b
	}
	s := Sampler{state: [2]uint32{lo, hi}}
	// Burn a few steps so low-entropy sequential seeds (0, 1, 2, ...)
	// decorrelate before the first draw.
	for i := 0; i < 4; i++ {
		s.advance()
	}
	return s
}

// advance runs one xorshift32 step on each lane and returns the new lane 0,
// which is what Gen1 consumes.
func (s *Sampler) advance() uint32 {
	for i := range s.state {
		x := s.state[i]
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		s.state[i] = x
	}
	return s.state[0]
}

// toFloat maps a raw 32-bit word into [0,1) using the top 24 bits, the
// common trick for deriving a uniform float from an integer generator
// without the low bits' shorter period biasing the result.
func toFloat(x uint32) float64 {
	return float64(x>>8) / float64(1<<24)
}

// Gen1 draws one uniform float in [0,1).
func (s *Sampler) Gen1() float64 {
	return toFloat(s.advance())
}

// Gen2 draws two independent uniform floats in [0,1).
func (s *Sampler) Gen2() (float64, float64) {
	return s.Gen1(), s.Gen1()
}

// Gen3 draws three independent uniform floats in [0,1).
func (s *Sampler) Gen3() (float64, float64, float64) {
	return s.Gen1(), s.Gen1(), s.Gen1()
}

// Gen2Vec2 is a convenience wrapper over Gen2 for callers that want a Vec2,
// e.g. pixel-jitter offsets.
func (s *Sampler) Gen2Vec2() Vec2 {
	r1, r2 := s.Gen2()
	return Vec2{X: r1, Y: r2}
}

// NextState returns the state to persist for the following sample.
func (s *Sampler) NextState() [2]uint32 {
	return s.state
}
