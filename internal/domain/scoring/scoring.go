// Package scoring computes the dashboard "sandbox points" of a user.
package scoring

const (
	defaultApplicationWeight = 20
	defaultBookingWeight     = 10
	defaultMaxPoints         = 100
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights sets the points earned per application and per booking.
func WithWeights(application, booking int) Option {
	return func(s *Scorer) {
		if application >= 0 {
			s.applicationWeight = application
		}
		if booking >= 0 {
			s.bookingWeight = booking
		}
	}
}

// WithMaxPoints caps the score.
func WithMaxPoints(maxPoints int) Option {
	return func(s *Scorer) {
		if maxPoints > 0 {
			s.maxPoints = maxPoints
		}
	}
}

// Input is the activity a score is computed from.
type Input struct {
	Applications int
	Bookings     int
}

// Scorer turns activity counts into capped points.
type Scorer struct {
	applicationWeight int
	bookingWeight     int
	maxPoints         int
}

// New creates a Scorer: 20 points per application, 10 per booking, capped at 100.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		applicationWeight: defaultApplicationWeight,
		bookingWeight:     defaultBookingWeight,
		maxPoints:         defaultMaxPoints,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns min(maxPoints, applications*aw + bookings*bw). Negative
// counts are treated as zero.
func (s *Scorer) Score(in Input) int {
	apps := max(in.Applications, 0)
	bookings := max(in.Bookings, 0)
	return min(s.maxPoints, apps*s.applicationWeight+bookings*s.bookingWeight)
}
