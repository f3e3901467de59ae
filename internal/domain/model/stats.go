package model

// StatName identifies one of the advisory display counters.
type StatName string

const (
	StatStudents StatName = "students"
	StatStartups StatName = "startups"
	StatMentors  StatName = "mentors"
)

// StatNames lists the counters in display order.
var StatNames = []StatName{StatStudents, StatStartups, StatMentors}

// Default returns the seed value used when the counter has never been written.
func (n StatName) Default() int {
	switch n {
	case StatStudents:
		return 124
	case StatStartups:
		return 18
	case StatMentors:
		return 32
	default:
		return 0
	}
}

// Key returns the storage key of the counter.
func (n StatName) Key() string { return "stat_" + string(n) }

// Known reports whether n is one of StatNames.
func (n StatName) Known() bool {
	for _, s := range StatNames {
		if s == n {
			return true
		}
	}
	return false
}
