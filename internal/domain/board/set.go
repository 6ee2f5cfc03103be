package board

// PosSet is a set of board positions. Positions() always walks in
// canonical row-major order.
type PosSet struct {
	bits  []bool
	count int
}

func NewPosSet(cells int) *PosSet {
	return &PosSet{bits: make([]bool, cells)}
}

// Add reports whether pos was not yet present.
func (s *PosSet) Add(pos int) bool {
	if pos < 0 || pos >= len(s.bits) || s.bits[pos] {
		return false
	}
	s.bits[pos] = true
	s.count++
	return true
}

func (s *PosSet) Has(pos int) bool {
	return pos >= 0 && pos < len(s.bits) && s.bits[pos]
}

func (s *PosSet) Len() int {
	return s.count
}

func (s *PosSet) Union(o *PosSet) {
	for pos, ok := range o.bits {
		if ok {
			s.Add(pos)
		}
	}
}

func (s *PosSet) Clone() *PosSet {
	r := &PosSet{bits: make([]bool, len(s.bits)), count: s.count}
	copy(r.bits, s.bits)
	return r
}

func (s *PosSet) Positions() []int {
	r := make([]int, 0, s.count)
	for pos, ok := range s.bits {
		if ok {
			r = append(r, pos)
		}
	}
	return r
}
