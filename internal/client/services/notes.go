package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type NoteClient interface {
	NoteLister
	Update(ctx context.Context, id int64, in models.NoteUpdate) (*models.Note, error)
}

type NoteService struct {
	notes NoteClient
}

func NewNoteService(notes NoteClient) *NoteService {
	return &NoteService{notes: notes}
}

// Favorites returns one page of favorite notes.
func (s *NoteService) Favorites(ctx context.Context, page, pageSize int) (*models.Page[models.Note], error) {
	fav := true
	p, err := s.notes.List(ctx, models.NoteFilter{Page: page, PageSize: pageSize, IsFavorite: &fav})
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return p, nil
}

// SetFavorite marks or unmarks a note. Only the flag is sent.
func (s *NoteService) SetFavorite(ctx context.Context, id int64, favorite bool) (*models.Note, error) {
	n, err := s.notes.Update(ctx, id, models.NoteUpdate{IsFavorite: &favorite})
	if err != nil {
		return nil, fmt.Errorf("update note %d: %w", id, err)
	}
	return n, nil
}

// ToggleFavorite flips the flag of a note the caller already holds.
func (s *NoteService) ToggleFavorite(ctx context.Context, n models.Note) (*models.Note, error) {
	return s.SetFavorite(ctx, n.ID, !n.IsFavorite)
}
