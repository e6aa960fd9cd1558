package view

// Sequencer hands out a monotonic token per endpoint and tells whether a
// response is still the newest one for its endpoint. Responses that were
// overtaken by a later request's response are rejected.
type Sequencer struct {
	issued  map[string]uint64
	applied map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{issued: map[string]uint64{}, applied: map[string]uint64{}}
}

// Next returns the token for a new request to endpoint.
func (s *Sequencer) Next(endpoint string) uint64 {
	s.issued[endpoint]++
	return s.issued[endpoint]
}

// Accept records seq as applied if it is newer than anything applied so far
// for endpoint, and reports whether the caller should apply the response.
func (s *Sequencer) Accept(endpoint string, seq uint64) bool {
	if seq <= s.applied[endpoint] {
		return false
	}
	s.applied[endpoint] = seq
	return true
}
