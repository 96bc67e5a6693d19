package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("leave not found")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Approve moves a PENDING leave to APPROVED, recording the approver. Any
// other current status is reported back as a business-rule rejection.
func (s *Service) Approve(ctx context.Context, leaveID, approverUserID string) error {
	return s.transition(ctx, leaveID, StatusApproved, approverUserID)
}

// Reject moves a PENDING leave to REJECTED, recording the acting user.
func (s *Service) Reject(ctx context.Context, leaveID, approverUserID string) error {
	return s.transition(ctx, leaveID, StatusRejected, approverUserID)
}

func (s *Service) transition(ctx context.Context, leaveID, target, approverUserID string) error {
	current, err := s.Store.Status(ctx, leaveID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := Transition(current, target); err != nil {
		return err
	}

	moved, err := s.Store.SetStatus(ctx, leaveID, target, approverUserID)
	if err != nil {
		return err
	}
	if moved {
		return nil
	}

	// Lost a race with a concurrent transition; report the winner's state.
	current, err = s.Store.Status(ctx, leaveID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return &InvalidStateError{Current: current}
}
