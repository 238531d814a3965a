package models

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is an offset/limit window over an ordered listing.
type Page struct {
	Offset int
	Limit  int
}

// Normalize clamps the window: a negative offset becomes 0 and the limit is
// kept within (0, MaxPageLimit], defaulting to DefaultPageLimit.
func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	return p
}
