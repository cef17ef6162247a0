package order

import "time"

const (
	DefaultOfferTimeout = 5 * time.Minute
	DefaultDisputeGrace = 30 * time.Minute
)

// Policy holds the timing rules of the lifecycle.
type Policy struct {
	// OfferTimeout is how long an offered courier has to accept before the offer
	// may be expired.
	OfferTimeout time.Duration
	// DisputeGrace is how long an arrival may stay unconfirmed by the patient before
	// it is surfaced for review and before the courier may force confirm.
	DisputeGrace time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		OfferTimeout: DefaultOfferTimeout,
		DisputeGrace: DefaultDisputeGrace,
	}
}

// WithDefaults replaces non-positive durations with the defaults.
func (p Policy) WithDefaults() Policy {
	if p.OfferTimeout <= 0 {
		p.OfferTimeout = DefaultOfferTimeout
	}
	if p.DisputeGrace <= 0 {
		p.DisputeGrace = DefaultDisputeGrace
	}
	return p
}
