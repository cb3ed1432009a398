package service

import (
	"context"
	"time"

	"github.com/guttosm/neopulse/internal/domain/models"
	"github.com/guttosm/neopulse/internal/storage"
)

// NeoService serves stored daily aggregates to the read API.
type NeoService interface {
	// GetDaily returns the live aggregate for fetchDate, or nil when absent or expired.
	GetDaily(ctx context.Context, fetchDate string) (*models.DailyAggregate, error)
}

type neoService struct {
	repo storage.AggregateRepository
	now  func() time.Time
}

func NewNeoService(repo storage.AggregateRepository) NeoService {
	return &neoService{repo: repo, now: time.Now}
}

func (s *neoService) GetDaily(ctx context.Context, fetchDate string) (*models.DailyAggregate, error) {
	return s.repo.GetAggregate(ctx, fetchDate, s.now())
}
