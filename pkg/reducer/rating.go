package reducer

import "fmt"

// Vote is a user's vote on a rated item.
type Vote string

const (
	// VoteUnset means the user has not voted. It reflects as an absent attribute.
	VoteUnset Vote = ""
	// VoteUp is a positive vote.
	VoteUp Vote = "up"
	// VoteDown is a negative vote.
	VoteDown Vote = "down"
)

// Votes lists the values a Vote attribute may take.
var Votes = []Vote{VoteUp, VoteDown}

// Valid reports whether v is one of the known votes.
func (v Vote) Valid() bool {
	return v == VoteUnset || v == VoteUp || v == VoteDown
}

func (v Vote) String() string {
	if v == VoteUnset {
		return "unset"
	}
	return string(v)
}

func (v Vote) weight() int {
	switch v {
	case VoteUp:
		return 1
	case VoteDown:
		return -1
	default:
		return 0
	}
}

// RatingDelta returns how much the rating moves when a vote changes from
// previous to next. Repeating the same vote is a no-op; switching sides
// undoes the old vote and applies the new one.
//
//	previous  next  delta
//	unset     up    +1
//	unset     down  -1
//	up        down  -2
//	down      up    +2
//	x         x      0
func RatingDelta(previous, next Vote) int {
	if previous == next {
		return 0
	}
	return next.weight() - previous.weight()
}

// ParseVote converts s into a Vote. "unset" and "" both parse as VoteUnset.
func ParseVote(s string) (Vote, error) {
	switch s {
	case "", "unset":
		return VoteUnset, nil
	case string(VoteUp):
		return VoteUp, nil
	case string(VoteDown):
		return VoteDown, nil
	}
	return VoteUnset, fmt.Errorf("invalid vote %q", s)
}
