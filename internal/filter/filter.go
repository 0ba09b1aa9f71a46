// Package filter screens collected metadata against a configured keyword
// denylist before any download work is spent on a job.
package filter

import (
	"fmt"

	"searchtube/internal/config"
)

// Decision is the outcome of screening one job's metadata.
type Decision struct {
	Accepted bool
	Reason   string
}

// Policy evaluates job metadata against the denylist. Matching is exact and
// case sensitive over whole keyword entries, not substrings.
type Policy struct {
	denylist map[string]struct{}
}

// NewPolicy builds a policy from configuration. The denylist has already been
// normalized during config load.
func NewPolicy(cfg *config.Config) *Policy {
	set := make(map[string]struct{}, len(cfg.Filter.Denylist))
	for _, word := range cfg.Filter.Denylist {
		set[word] = struct{}{}
	}
	return &Policy{denylist: set}
}

// Evaluate screens the provided keywords. The first denylisted keyword found
// decides the outcome; an empty denylist accepts everything.
func (p *Policy) Evaluate(keywords []string) Decision {
	if len(p.denylist) == 0 {
		return Decision{Accepted: true}
	}
	for _, keyword := range keywords {
		if _, denied := p.denylist[keyword]; denied {
			return Decision{
				Accepted: false,
				Reason:   fmt.Sprintf("keyword match: %s", keyword),
			}
		}
	}
	return Decision{Accepted: true}
}

// Size returns the number of denylist entries, for health reporting.
func (p *Policy) Size() int {
	return len(p.denylist)
}
