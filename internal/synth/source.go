package synth

import "math"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// Source is a 32-bit Mersenne Twister with NumPy's legacy float derivations,
// so seed 42 yields the same table as np.random.seed(42) followed by the
// same draws. Not safe for concurrent use.
type Source struct {
	mt  [mtN]uint32
	pos int

	hasGauss bool
	gauss    float64
}

// NewSource returns a Source seeded the same way as MT19937's init_genrand.
func NewSource(seed uint32) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

// Seed resets the generator state, including any cached normal deviate.
func (s *Source) Seed(seed uint32) {
	s.mt[0] = seed
	for i := 1; i < mtN; i++ {
		prev := s.mt[i-1]
		s.mt[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	s.pos = mtN
	s.hasGauss = false
	s.gauss = 0
}

func (s *Source) twist() {
	for i := 0; i < mtN; i++ {
		y := (s.mt[i] & mtUpperMask) | (s.mt[(i+1)%mtN] & mtLowerMask)
		next := s.mt[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		s.mt[i] = next
	}
	s.pos = 0
}

// Uint32 returns the next tempered 32-bit output.
func (s *Source) Uint32() uint32 {
	if s.pos >= mtN {
		s.twist()
	}
	y := s.mt[s.pos]
	s.pos++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Float64 returns a 53-bit double in [0, 1) built from two outputs.
func (s *Source) Float64() float64 {
	a := s.Uint32() >> 5
	b := s.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}

// Uniform returns a draw from [low, high).
func (s *Source) Uniform(low, high float64) float64 {
	return low + (high-low)*s.Float64()
}

// Normal returns a draw from N(mean, stddev) using the Marsaglia polar
// method. Each accepted pair yields two deviates; the spare is returned by the
// next call, across calls with different parameters.
func (s *Source) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.gaussian()
}

func (s *Source) gaussian() float64 {
	if s.hasGauss {
		g := s.gauss
		s.hasGauss = false
		s.gauss = 0
		return g
	}

	var x1, x2, r2 float64
	for {
		x1 = 2*s.Float64() - 1
		x2 = 2*s.Float64() - 1
		r2 = x1*x1 + x2*x2
		if r2 < 1 && r2 != 0 {
			break
		}
	}
	f := math.Sqrt(-2 * math.Log(r2) / r2)
	s.gauss = f * x1
	s.hasGauss = true
	return f * x2
}
