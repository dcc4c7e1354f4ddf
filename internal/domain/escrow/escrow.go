// Package escrow splits shipment totals into carrier and platform shares
// and gates disclosure of the platform share by caller identity.
package escrow

import (
	"fmt"
	"math"
	"strings"
)

// PlatformShareFactor is the platform's fixed share of every settled total.
const PlatformShareFactor = 0.40

// Split divides a total into its carrier and platform shares. The carrier
// share is derived by subtraction so the two always sum exactly to the total.
type Split struct {
	Total         float64 `json:"total"`
	CarrierShare  float64 `json:"carrier_share"`
	PlatformShare float64 `json:"platform_share"`
}

// Settle computes the escrow split for a non-negative total.
func Settle(total float64) (Split, error) {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return Split{}, fmt.Errorf("total must be a finite number")
	}
	if total < 0 {
		return Split{}, fmt.Errorf("total must not be negative: %v", total)
	}

	platform := total * PlatformShareFactor
	return Split{
		Total:         total,
		CarrierShare:  total - platform,
		PlatformShare: platform,
	}, nil
}

// IsOwner reports whether the caller's email matches the configured owner
// email. The comparison is case-insensitive and ignores surrounding space;
// an empty owner configuration never matches.
func IsOwner(callerEmail, ownerEmail string) bool {
	owner := strings.ToLower(strings.TrimSpace(ownerEmail))
	if owner == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(callerEmail)) == owner
}

// Disclosure is the caller-facing view of a split. The platform share is
// computed unconditionally but only disclosed to the owner identity; every
// caller sees the carrier share and that an escrow-protected split exists.
type Disclosure struct {
	Total         float64  `json:"total"`
	CarrierShare  float64  `json:"carrier_share"`
	PlatformShare *float64 `json:"platform_share,omitempty"`
	Escrowed      bool     `json:"escrowed"`
}

// Disclose renders a split for the given caller. Suppression of the platform
// share is silent, not an error.
func (s Split) Disclose(callerEmail, ownerEmail string) Disclosure {
	d := Disclosure{
		Total:        s.Total,
		CarrierShare: s.CarrierShare,
		Escrowed:     true,
	}
	if IsOwner(callerEmail, ownerEmail) {
		platform := s.PlatformShare
		d.PlatformShare = &platform
	}
	return d
}
