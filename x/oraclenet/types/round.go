package types

import (
	sdkmath "cosmossdk.io/math"
)

// PriceRound is the current submission window of a feed
type PriceRound struct {
	FeedID   string `json:"feed_id"`
	RoundID  uint64 `json:"round_id"`
	OpenedAt int64  `json:"opened_at"`
	ClosesAt int64  `json:"closes_at"`
	Resolved bool   `json:"resolved"`
}

// AcceptsSubmissions reports whether a submission at now falls inside the round
func (r PriceRound) AcceptsSubmissions(now int64) bool {
	return !r.Resolved && now <= r.ClosesAt
}

// CanBeReplaced reports whether a new round may be opened over this one at now
func (r PriceRound) CanBeReplaced(now int64) bool {
	return r.Resolved || now >= r.ClosesAt
}

// ResolvedRounds counts the rounds of the feed that have been resolved so far
func (r PriceRound) ResolvedRounds() uint64 {
	if r.Resolved {
		return r.RoundID
	}
	if r.RoundID == 0 {
		return 0
	}
	return r.RoundID - 1
}

// PriceSubmission is one provider's observation for a round
type PriceSubmission struct {
	Oracle     string      `json:"oracle"`
	Price      sdkmath.Int `json:"price"`
	Timestamp  int64       `json:"timestamp"`
	Confidence uint32      `json:"confidence"`
}

// SubmissionSet holds every submission of a single (feed, round)
type SubmissionSet struct {
	Submissions []PriceSubmission `json:"submissions"`
}

// Has reports whether oracle already submitted to the set
func (s SubmissionSet) Has(oracle string) bool {
	for _, sub := range s.Submissions {
		if sub.Oracle == oracle {
			return true
		}
	}
	return false
}

// Len returns the number of submissions
func (s SubmissionSet) Len() int {
	return len(s.Submissions)
}

// RoundSubmissions pairs a submission set with its round for genesis export
type RoundSubmissions struct {
	FeedID      string            `json:"feed_id"`
	RoundID     uint64            `json:"round_id"`
	Submissions []PriceSubmission `json:"submissions"`
}
