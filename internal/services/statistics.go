package services

import (
	"context"

	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/internal/store"
	"github.com/evidentia/evidence-store/pkg/query"
)

// StatisticsSummary folds the per kind and status counts into totals.
type StatisticsSummary struct {
	Total    int64
	ByKind   map[models.EntityKind]int64
	ByStatus map[models.Status]int64
	Groups   []models.Statistics
}

type StatisticsService struct {
	store *store.Store
}

func NewStatisticsService(st *store.Store) *StatisticsService {
	return &StatisticsService{store: st}
}

// Summary counts the records visible to the caller that match filter.
func (s *StatisticsService) Summary(ctx context.Context, filter *models.StatisticsFilter) (StatisticsSummary, error) {
	page, err := s.store.Statistics().List(ctx, filter, query.Unpaged(query.SortBy("entityKind"), query.SortBy("status")))
	if err != nil {
		return StatisticsSummary{}, err
	}

	summary := StatisticsSummary{
		ByKind:   make(map[models.EntityKind]int64),
		ByStatus: make(map[models.Status]int64),
		Groups:   page.Content,
	}
	for _, g := range page.Content {
		summary.Total += g.Count
		summary.ByKind[g.EntityKind] += g.Count
		summary.ByStatus[g.Status] += g.Count
	}
	return summary, nil
}
