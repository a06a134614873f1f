// Package budget holds the budget snapshot of a usage report.
package budget

// Budget is a point-in-time view of the embedding token budget. A zero
// limit means no cap is configured.
type Budget struct {
	tokensLimit     int
	tokensRemaining int
	isExhausted     bool
	resetsAt        int64 // unix millis, rendered as ISO 8601 at the transport layer
}

// New creates a budget snapshot.
func New(limit, remaining int, isExhausted bool, resetsAt int64) Budget {
	return Budget{
		tokensLimit:     limit,
		tokensRemaining: remaining,
		isExhausted:     isExhausted,
		resetsAt:        resetsAt,
	}
}

// TokensLimit returns the configured cap.
func (b Budget) TokensLimit() int { return b.tokensLimit }

// TokensRemaining returns what is left of the cap in this window.
func (b Budget) TokensRemaining() int { return b.tokensRemaining }

// IsExhausted reports whether the cap has been spent.
func (b Budget) IsExhausted() bool { return b.isExhausted }

// Unlimited reports whether no cap is configured.
func (b Budget) Unlimited() bool { return b.tokensLimit == 0 }

// ResetsAt returns when the window rolls over (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }
