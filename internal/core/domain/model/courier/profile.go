// Package courier contains the courier Profile aggregate: the presence,
// verification, and performance state the candidate locator filters and the
// scoring engine ranks. Availability is the dispatch reservation flag: it is
// false exactly while the courier is bound to an active order, and the flip
// itself happens as a conditional update in the persistence layer so two
// dispatchers can never win the same courier.
package courier

import (
	"errors"
	"fmt"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

// Verification is the KYC review outcome for a courier. Review itself happens
// outside this system; dispatch only ever matches APPROVED couriers.
type Verification int

const (
	// VerificationUnknown represents an invalid or undefined value.
	VerificationUnknown Verification = iota

	// VerificationPending means documents are under review.
	VerificationPending

	// VerificationApproved means the courier may receive assignments.
	VerificationApproved

	// VerificationRejected means the courier failed review.
	VerificationRejected
)

// String returns the wire/persistence name of the verification state.
func (v Verification) String() string {
	switch v {
	case VerificationPending:
		return "PENDING"
	case VerificationApproved:
		return "APPROVED"
	case VerificationRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// VerificationFromString parses the wire/persistence name back into a
// Verification.
func VerificationFromString(s string) (Verification, error) {
	switch s {
	case "PENDING":
		return VerificationPending, nil
	case "APPROVED":
		return VerificationApproved, nil
	case "REJECTED":
		return VerificationRejected, nil
	default:
		return VerificationUnknown, errs.NewValueIsInvalidErrorWithCause("verification",
			fmt.Errorf("%q is not a valid verification status", s))
	}
}

// Validate checks the verification state is one of the defined values.
func (v Verification) Validate() error {
	if v < VerificationPending || v > VerificationRejected {
		return errs.NewValueIsInvalidErrorWithCause("verification",
			fmt.Errorf("%d is not a valid verification status", v))
	}
	return nil
}

// Rating bounds for courier performance scores.
const (
	RatingMin = 0.0
	RatingMax = 5.0
)

// ErrProfileIsNotConstructed is returned when a Profile was not created via
// NewProfile or RestoreProfile.
var ErrProfileIsNotConstructed = errors.New("Profile must be created via NewProfile or RestoreProfile")

// Profile is the aggregate root for one courier.
//
// Invariants:
//   - rating stays within [RatingMin, RatingMax]
//   - completedDeliveries never decreases
//   - isAvailable is false exactly while the courier is assigned to an
//     active order; the dispatch coordinator owns the flag
type Profile struct {
	id                  kernel.UUID
	name                string
	tier                int
	rating              float64
	completedDeliveries int
	verification        Verification
	isOnline            bool
	isAvailable         bool
	location            *kernel.GeoPoint
	locationAt          *time.Time
	isConstructed       bool
}

// NewProfile creates a courier profile awaiting verification: offline,
// unavailable, with no known location and a starting rating.
func NewProfile(id kernel.UUID, name string, tier int, rating float64) (*Profile, error) {
	p := &Profile{
		verification:  VerificationPending,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setTier(tier),
		p.setRating(rating),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProfile reconstructs a courier profile from persistence.
func RestoreProfile(
	id kernel.UUID,
	name string,
	tier int,
	rating float64,
	completedDeliveries int,
	verification Verification,
	isOnline, isAvailable bool,
	location *kernel.GeoPoint,
	locationAt *time.Time,
) (*Profile, error) {
	p := &Profile{isConstructed: true}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setTier(tier),
		p.setRating(rating),
		verification.Validate(),
	); err != nil {
		return nil, err
	}

	if completedDeliveries < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("completed deliveries",
			fmt.Errorf("%d is negative", completedDeliveries))
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
	}

	p.completedDeliveries = completedDeliveries
	p.verification = verification
	p.isOnline = isOnline
	p.isAvailable = isAvailable
	p.location = location
	p.locationAt = locationAt
	return p, nil
}

// Validate ensures the Profile was created through a constructor.
func (p *Profile) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProfileIsNotConstructed
	}
	return nil
}

// ID returns the courier's unique identifier.
func (p *Profile) ID() kernel.UUID { return p.id }

// Name returns the courier's display name.
func (p *Profile) Name() string { return p.name }

// Tier returns the courier's service tier.
func (p *Profile) Tier() int { return p.tier }

// Rating returns the courier's average rating in [0, 5].
func (p *Profile) Rating() float64 { return p.rating }

// CompletedDeliveries returns the lifetime count of finished deliveries.
func (p *Profile) CompletedDeliveries() int { return p.completedDeliveries }

// VerificationStatus returns the KYC review outcome.
func (p *Profile) VerificationStatus() Verification { return p.verification }

// IsOnline reports whether the courier's app session is live.
func (p *Profile) IsOnline() bool { return p.isOnline }

// IsAvailable reports whether the courier can take a new assignment.
func (p *Profile) IsAvailable() bool { return p.isAvailable }

// Location returns the courier's last reported coordinate, or nil.
func (p *Profile) Location() *kernel.GeoPoint { return p.location }

// LocationAt returns when the location was last reported, or nil.
func (p *Profile) LocationAt() *time.Time { return p.locationAt }

// IsEligible reports whether the candidate locator may consider this
// courier: online, available, APPROVED, and with a known location.
// Soft-deletion is filtered at the persistence layer.
func (p *Profile) IsEligible() bool {
	return p.isOnline &&
		p.isAvailable &&
		p.verification == VerificationApproved &&
		p.location != nil
}

// Approve marks the courier as verified.
func (p *Profile) Approve() error {
	if p.verification == VerificationApproved {
		return errs.NewStateConflictError("courier", "already approved")
	}
	p.verification = VerificationApproved
	return nil
}

// RejectVerification marks the courier as failed review.
func (p *Profile) RejectVerification() error {
	if p.verification == VerificationRejected {
		return errs.NewStateConflictError("courier", "already rejected")
	}
	p.verification = VerificationRejected
	return nil
}

// SetOnline toggles the courier's session. Going offline withdraws
// availability; coming online makes an unassigned courier available again.
func (p *Profile) SetOnline(online bool) {
	p.isOnline = online
	p.isAvailable = online
}

// ReportLocation records the courier's latest coordinate.
func (p *Profile) ReportLocation(point kernel.GeoPoint, at time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}

	p.location = &point
	at = at.UTC()
	p.locationAt = &at
	return nil
}

// MarkReserved flips the courier to busy for an assignment. The persistence
// layer performs the equivalent conditional update at commit time; this
// method keeps the in-memory aggregate consistent with it.
func (p *Profile) MarkReserved() error {
	if !p.isAvailable {
		return errs.NewStateConflictError("courier", "no longer available")
	}
	p.isAvailable = false
	return nil
}

// MarkFree returns the courier to the available pool after a rejection,
// cancellation, or completed delivery.
func (p *Profile) MarkFree() {
	if p.isOnline {
		p.isAvailable = true
	}
}

// CompleteDelivery increments the lifetime delivery count and frees the
// courier for the next assignment.
func (p *Profile) CompleteDelivery() {
	p.completedDeliveries++
	p.MarkFree()
}

func (p *Profile) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Profile) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("courier name")
	}
	p.name = name
	return nil
}

func (p *Profile) setTier(tier int) error {
	if tier < 0 {
		return errs.NewValueIsInvalidErrorWithCause("tier",
			fmt.Errorf("%d is negative", tier))
	}
	p.tier = tier
	return nil
}

func (p *Profile) setRating(rating float64) error {
	if rating < RatingMin || rating > RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}
	p.rating = rating
	return nil
}
