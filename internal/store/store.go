// Package store persists scheduled interview records.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no interview matches the given ID.
var ErrNotFound = errors.New("interview not found")

// Status is the lifecycle state of a scheduled interview record.
// Created at scheduling time, read by the dashboard; the live turn
// orchestrator never mutates records.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Interview is a scheduled interview record.
type Interview struct {
	ID             string    `json:"id"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail string    `json:"candidateEmail"`
	Position       string    `json:"position"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Duration       string    `json:"duration"`
	Type           string    `json:"type"`
	Interviewers   []string  `json:"interviewers"`
	Notes          string    `json:"notes,omitempty"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	ScheduledAt    time.Time `json:"scheduledAt"`
}

// Repository stores interview records. Listing returns records in
// ascending scheduled-time order; upcoming/past partitioning is done by
// the caller against the current time.
type Repository interface {
	Create(ctx context.Context, iv *Interview) error
	Get(ctx context.Context, id string) (*Interview, error)
	List(ctx context.Context) ([]*Interview, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// IsUpcoming reports whether an interview counts as upcoming at the
// given instant: scheduled in the future and neither completed nor
// cancelled.
func IsUpcoming(iv *Interview, now time.Time) bool {
	return !iv.ScheduledAt.Before(now) && iv.Status != StatusCompleted && iv.Status != StatusCancelled
}

// Partition splits records into upcoming and past relative to now.
func Partition(interviews []*Interview, now time.Time) (upcoming, past []*Interview) {
	for _, iv := range interviews {
		if IsUpcoming(iv, now) {
			upcoming = append(upcoming, iv)
		} else {
			past = append(past, iv)
		}
	}
	return upcoming, past
}
