package action

// Selector draws one category uniformly from an enabled set.
type Selector struct {
	rnd Rand
}

// NewSelector returns a selector drawing from rnd, or from a time-seeded
// source when rnd is nil.
func NewSelector(rnd Rand) *Selector {
	if rnd == nil {
		rnd = NewTimeSeededRand()
	}
	return &Selector{rnd: rnd}
}

// Eligible returns the enabled categories in fixed order.
func Eligible(enabled map[Category]bool) []Category {
	var out []Category
	for _, c := range All() {
		if enabled[c] {
			out = append(out, c)
		}
	}
	return out
}

// Select returns a uniformly chosen enabled category. It reports false when
// nothing is enabled.
func (s *Selector) Select(enabled map[Category]bool) (Category, bool) {
	return s.pick(Eligible(enabled))
}

// SelectExcluding is Select with the categories in exclude removed first.
func (s *Selector) SelectExcluding(enabled, exclude map[Category]bool) (Category, bool) {
	var pool []Category
	for _, c := range Eligible(enabled) {
		if !exclude[c] {
			pool = append(pool, c)
		}
	}
	return s.pick(pool)
}

func (s *Selector) pick(pool []Category) (Category, bool) {
	if len(pool) == 0 {
		return 0, false
	}
	return pool[s.rnd.IntN(len(pool))], true
}
