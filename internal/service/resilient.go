package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"dossier/internal/domain"
	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
	"dossier/internal/metrics"
)

// QueryResult is the outcome of a resilient document read. Degraded is true
// whenever any fallback was used; callers must not assume server-side
// ordering when it is set.
type QueryResult struct {
	Documents []models.Document
	Degraded  bool
}

// ResilientQuery wraps filtered+sorted document reads over a store whose
// composite indexes may be missing. The fallback chain is: indexed
// filter+sort, then filter-only with a client-side sort, then a full scan
// with client-side filter and sort. domain.ErrIndexUnavailable never
// escapes this layer.
type ResilientQuery struct {
	docRepo repositories.DocumentRepository
	logger  *slog.Logger
}

// NewResilientQuery creates a new resilient query wrapper
func NewResilientQuery(docRepo repositories.DocumentRepository, logger *slog.Logger) *ResilientQuery {
	return &ResilientQuery{docRepo: docRepo, logger: logger}
}

// Documents runs the filter+sort, degrading as needed.
func (q *ResilientQuery) Documents(ctx context.Context, filter repositories.DocumentFilter, sortSpec *repositories.Sort) (QueryResult, error) {
	docs, err := q.docRepo.Query(ctx, filter, sortSpec)
	if err == nil {
		return QueryResult{Documents: docs}, nil
	}
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		return QueryResult{}, err
	}

	// Stage 1: drop the server-side sort, keep the filter.
	q.logger.Warn("compound index unavailable, retrying filter-only",
		"structure_id", filter.StructureID,
	)
	metrics.DegradedQueries.WithLabelValues("filter_only").Inc()

	docs, err = q.docRepo.Query(ctx, filter, nil)
	if err == nil {
		sortDocuments(docs, sortSpec)
		return QueryResult{Documents: docs, Degraded: true}, nil
	}
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		return QueryResult{}, err
	}

	// Stage 2: full scan, filter and sort in-process.
	q.logger.Warn("filtered read unavailable, falling back to full scan",
		"structure_id", filter.StructureID,
	)
	metrics.DegradedQueries.WithLabelValues("full_scan").Inc()

	all, err := q.docRepo.ListAll(ctx, filter.StructureID)
	if err != nil {
		return QueryResult{}, err
	}

	docs = filterDocuments(all, filter)
	sortDocuments(docs, sortSpec)
	return QueryResult{Documents: docs, Degraded: true}, nil
}

// filterDocuments applies the equality filter in-process.
func filterDocuments(docs []models.Document, filter repositories.DocumentFilter) []models.Document {
	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		if d.StructureID != filter.StructureID {
			continue
		}
		switch {
		case filter.ParentID != nil:
			if d.ParentID == nil || *d.ParentID != *filter.ParentID {
				continue
			}
		case filter.NullParent:
			if d.ParentID != nil {
				continue
			}
		}
		switch {
		case filter.MissionID != nil:
			if d.MissionID == nil || *d.MissionID != *filter.MissionID {
				continue
			}
		case filter.NullMission:
			if d.MissionID != nil {
				continue
			}
		case filter.AnyMission:
			if d.MissionID == nil {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// sortDocuments applies the requested ordering in-process.
func sortDocuments(docs []models.Document, sortSpec *repositories.Sort) {
	if sortSpec == nil {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		var less bool
		switch sortSpec.Field {
		case repositories.SortName:
			less = strings.ToLower(docs[i].Name) < strings.ToLower(docs[j].Name)
		default:
			less = docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		if sortSpec.Desc {
			return !less && !equalKey(docs[i], docs[j], sortSpec.Field)
		}
		return less
	})
}

func equalKey(a, b models.Document, field repositories.SortField) bool {
	switch field {
	case repositories.SortName:
		return strings.EqualFold(a.Name, b.Name)
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}
