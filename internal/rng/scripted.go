package rng

// Scripted replays a fixed sequence of uniform deviates, cycling when
// exhausted. Normal deviates are derived through the same Box-Muller
// transform as the production source, so a scripted uniform stream
// reproduces synthesis exactly.
type Scripted struct {
	Uniforms []float64
	idx      int
}

// NewScripted returns a Source replaying the given uniforms.
func NewScripted(uniforms ...float64) *Scripted {
	return &Scripted{Uniforms: uniforms}
}

func (s *Scripted) Uniform() float64 {
	if len(s.Uniforms) == 0 {
		return 0.5
	}
	u := s.Uniforms[s.idx%len(s.Uniforms)]
	s.idx++
	return u
}

func (s *Scripted) Normal() float64 {
	return BoxMuller(s)
}
