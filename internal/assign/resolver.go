// Package assign routes inbound call requests to the best-matching responder
// using a deterministic keyword-scoring table.
package assign

import (
	"fmt"
	"strings"
)

// Profile describes one responder and the lowercase keyword stems that pull
// topics toward it. Table order matters: earlier profiles win ties, and the
// first profile is the fallback when nothing matches.
type Profile struct {
	ID       string
	Name     string
	Type     string
	Keywords []string
}

// Assignment is the resolver's decision for a single topic.
type Assignment struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Context carries submission fields that flavor the justification text.
type Context struct {
	Company string
	Name    string
}

// DefaultProfiles is the production responder table. Sales is listed first
// and therefore acts as the catch-all for unmatched topics.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			ID:   "agent-sales",
			Name: "Ava",
			Type: "sales",
			Keywords: []string{
				"pricing", "price", "plan", "demo", "trial", "quote",
				"purchase", "buy", "upgrade", "subscription", "cost",
			},
		},
		{
			ID:   "agent-tech",
			Name: "Miles",
			Type: "technical-support",
			Keywords: []string{
				"api", "integration", "webhook", "sdk", "error", "bug",
				"crash", "setup", "configure", "install", "latency",
				"authentication token", "not working",
			},
		},
		{
			ID:   "agent-billing",
			Name: "Priya",
			Type: "billing",
			Keywords: []string{
				"invoice", "billing", "refund", "payment", "charge",
				"receipt", "credit", "overcharge",
			},
		},
		{
			ID:   "agent-success",
			Name: "Jonah",
			Type: "customer-success",
			Keywords: []string{
				"onboarding", "training", "getting started", "best practice",
				"migration", "account review", "renewal",
			},
		},
	}
}

// Resolver scores topics against a fixed profile table.
type Resolver struct {
	profiles []Profile
}

// NewResolver creates a resolver over the given table. An empty table falls
// back to DefaultProfiles.
func NewResolver(profiles []Profile) *Resolver {
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	return &Resolver{profiles: profiles}
}

// Assign picks the profile with the most keyword hits in the topic. The scan
// is stable: ties keep the earlier profile, and a zero score everywhere
// degrades to the first profile. It never fails, even on empty topics.
func (r *Resolver) Assign(topic string, rctx Context) Assignment {
	lowered := strings.ToLower(topic)

	best := r.profiles[0]
	bestScore := 0
	var bestHits []string

	for _, p := range r.profiles {
		score := 0
		var hits []string
		for _, kw := range p.Keywords {
			if strings.Contains(lowered, kw) {
				score++
				hits = append(hits, kw)
			}
		}
		if score > bestScore {
			best = p
			bestScore = score
			bestHits = hits
		}
	}

	return Assignment{
		ID:     best.ID,
		Name:   best.Name,
		Type:   best.Type,
		Reason: reason(best, bestScore, bestHits, rctx),
	}
}

func reason(p Profile, score int, hits []string, rctx Context) string {
	who := strings.TrimSpace(rctx.Company)
	if who == "" {
		who = strings.TrimSpace(rctx.Name)
	}
	if who == "" {
		who = "the caller"
	}
	if score == 0 {
		return fmt.Sprintf("No topic keywords matched; routing %s to %s (%s) as the default responder.", who, p.Name, p.Type)
	}
	return fmt.Sprintf("Routed %s to %s (%s): topic matched %d keyword(s): %s.", who, p.Name, p.Type, score, strings.Join(hits, ", "))
}
