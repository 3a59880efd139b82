package spell

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"
)

// RecentCastLimit is how many successful casts a profile remembers.
const RecentCastLimit = 5

// Profile is the persistent part of a player's spell state.
type Profile struct {
	Slots   Slots             `json:"slots"`
	Learned []AbilityId       `json:"learned,omitempty"`
	Mastery map[AbilityId]int `json:"mastery,omitempty"`
	Recent  []AbilityId       `json:"recent,omitempty"`
}

// NewProfile creates a profile that already knows the given abilities.
func NewProfile(learned ...AbilityId) *Profile {
	p := &Profile{}
	for _, id := range learned {
		p.Learn(id)
	}
	return p
}

func (p *Profile) Validate() error {
	el := errors.NewErrorList()

	for i, id := range p.Learned {
		if id == "" {
			el.Add(fmt.Errorf("learned[%d]: ability id must be set", i))
		}
	}
	for id, uses := range p.Mastery {
		if uses < 0 {
			el.Add(fmt.Errorf("mastery %q: uses must not be negative", id))
		}
	}
	if len(p.Recent) > RecentCastLimit {
		el.Add(fmt.Errorf("recent: at most %d entries allowed", RecentCastLimit))
	}

	return el.Err()
}

// Knows reports whether the ability has been learned.
func (p *Profile) Knows(id AbilityId) bool {
	for _, known := range p.Learned {
		if known == id {
			return true
		}
	}
	return false
}

// Learn adds the ability to the learned set. It reports whether it was new.
func (p *Profile) Learn(id AbilityId) bool {
	if id == "" || p.Knows(id) {
		return false
	}
	p.Learned = append(p.Learned, id)
	sort.Slice(p.Learned, func(i, j int) bool { return p.Learned[i] < p.Learned[j] })
	return true
}

// Forget removes the ability from the learned set. It reports whether it was known.
func (p *Profile) Forget(id AbilityId) bool {
	for i, known := range p.Learned {
		if known == id {
			p.Learned = append(p.Learned[:i], p.Learned[i+1:]...)
			return true
		}
	}
	return false
}

// RecordCast counts a successful cast towards mastery and the recent cast history.
func (p *Profile) RecordCast(id AbilityId) {
	if p.Mastery == nil {
		p.Mastery = make(map[AbilityId]int)
	}
	p.Mastery[id]++

	p.Recent = append(p.Recent, id)
	if len(p.Recent) > RecentCastLimit {
		p.Recent = append([]AbilityId(nil), p.Recent[len(p.Recent)-RecentCastLimit:]...)
	}
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	cp := &Profile{
		Slots:   p.Slots,
		Learned: append([]AbilityId(nil), p.Learned...),
		Recent:  append([]AbilityId(nil), p.Recent...),
	}
	if p.Mastery != nil {
		cp.Mastery = make(map[AbilityId]int, len(p.Mastery))
		for id, n := range p.Mastery {
			cp.Mastery[id] = n
		}
	}
	return cp
}
