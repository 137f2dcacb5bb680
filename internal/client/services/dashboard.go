package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardPageSize = 100
	recentNotes       = 5
)

type NoteLister interface {
	List(ctx context.Context, f models.NoteFilter) (*models.Page[models.Note], error)
}

type CategoryLister interface {
	List(ctx context.Context, skip, limit int) ([]models.Category, error)
}

// Dashboard is the overview shown after login. View and favorite counts are
// taken from the first page of notes only.
type Dashboard struct {
	TotalNotes      int
	TotalCategories int
	TotalViews      int
	TotalFavorites  int
	Recent          []models.Note
}

type DashboardService struct {
	notes      NoteLister
	categories CategoryLister
}

func NewDashboardService(notes NoteLister, categories CategoryLister) *DashboardService {
	return &DashboardService{notes: notes, categories: categories}
}

// Summary fetches notes and categories concurrently. The group has no
// shared context, so a failed call does not cancel the other one: both run
// to completion and the summary is built only after both have returned.
// When both fail, both errors are reported.
func (s *DashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	var (
		g          errgroup.Group
		page       *models.Page[models.Note]
		categories []models.Category
		notesErr   error
		catsErr    error
	)

	g.Go(func() error {
		page, notesErr = s.notes.List(ctx, models.NoteFilter{Page: 1, PageSize: dashboardPageSize})
		return notesErr
	})
	g.Go(func() error {
		categories, catsErr = s.categories.List(ctx, 0, 0)
		return catsErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard: %w", errors.Join(notesErr, catsErr))
	}

	d := &Dashboard{
		TotalNotes:      page.Total,
		TotalCategories: len(categories),
	}
	for _, n := range page.Items {
		d.TotalViews += n.ViewCount
		if n.IsFavorite {
			d.TotalFavorites++
		}
	}
	d.Recent = page.Items[:min(recentNotes, len(page.Items))]
	return d, nil
}
