package domain

import (
	"fmt"

	dErrors "kudos/pkg/domainerrors"
)

// RewardDomain names a category of submissions with its own point rule and
// trigger timing. Domains are configured at startup; an unknown domain is a
// configuration fault, not user input.
type RewardDomain string

// Built-in reward domains.
const (
	// DomainProject awards a fixed number of points when a project record
	// is approved.
	DomainProject RewardDomain = "project"
	// DomainInvoice awards formula-derived points from the invoice amount,
	// which may settle after the approval event.
	DomainInvoice RewardDomain = "invoice"
)

var knownDomains = map[RewardDomain]struct{}{
	DomainProject: {},
	DomainInvoice: {},
}

// ParseRewardDomain validates a domain string.
func ParseRewardDomain(s string) (RewardDomain, error) {
	d := RewardDomain(s)
	if _, ok := knownDomains[d]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown reward domain: %s", s))
	}
	return d, nil
}

func (d RewardDomain) String() string { return string(d) }
