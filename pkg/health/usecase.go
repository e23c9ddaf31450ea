// Package health reports whether the service's backing stores are reachable.
package health

import (
	"context"
	"errors"
	"fmt"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	// Ready runs every checker and returns a status per dependency. The error
	// joins all failures.
	Ready(ctx context.Context) (map[string]string, error)
}

const (
	StatusUp   = "up"
	StatusDown = "down"
)

type service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers. Nil checkers are skipped so
// optional stores can be passed unconditionally.
func NewService(checkers ...Checker) ReadinessUseCase {
	s := &service{}
	for _, ch := range checkers {
		if ch != nil {
			s.checkers = append(s.checkers, ch)
		}
	}
	return s
}

func (s *service) Ready(ctx context.Context) (map[string]string, error) {
	statuses := make(map[string]string, len(s.checkers))
	var errs []error
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			statuses[ch.Name()] = StatusDown
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		statuses[ch.Name()] = StatusUp
	}
	return statuses, errors.Join(errs...)
}
