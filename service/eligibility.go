package service

import (
	"context"

	"luckydraw/models"
)

// eligibleCandidates loads the candidate pool for one draw attempt.
// The returned slice is the fixed snapshot the engine samples from.
func eligibleCandidates(ctx context.Context, repo AttendeeRepository, eventID int64) ([]*models.Attendee, error) {
	attendees, err := repo.ListEligible(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// The query already filters, this keeps the contract when a repository does not
	pool := make([]*models.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if a.IsEligible() {
			pool = append(pool, a)
		}
	}

	return pool, nil
}

// remainingCandidates returns the members of pool not in tried, preserving order
func remainingCandidates(pool []*models.Attendee, tried map[int64]bool) []*models.Attendee {
	remaining := make([]*models.Attendee, 0, len(pool))
	for _, a := range pool {
		if !tried[a.ID] {
			remaining = append(remaining, a)
		}
	}
	return remaining
}

// attemptLimit bounds the retry loop to min(maxAttempts, poolSize)
func attemptLimit(maxAttempts, poolSize int) int {
	if poolSize < maxAttempts {
		return poolSize
	}
	return maxAttempts
}
