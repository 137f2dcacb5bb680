package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/go-resty/resty/v2"
)

type NoteAPI struct {
	c *Client
}

func (a *NoteAPI) List(ctx context.Context, f models.NoteFilter) (*models.Page[models.Note], error) {
	var out models.Page[models.Note]
	query := func(r *resty.Request) { r.SetQueryParamsFromValues(f.Values()) }
	if err := a.c.Do(ctx, http.MethodGet, "/api/notes", nil, &out, query); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NoteAPI) Search(ctx context.Context, keyword string) (*models.SearchResult, error) {
	var out models.SearchResult
	query := func(r *resty.Request) { r.SetQueryParam("keyword", keyword) }
	if err := a.c.Do(ctx, http.MethodGet, "/api/notes/search", nil, &out, query); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NoteAPI) Create(ctx context.Context, in models.NoteCreate) (*models.Note, error) {
	var out models.Note
	if err := a.c.Do(ctx, http.MethodPost, "/api/notes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NoteAPI) Get(ctx context.Context, id int64) (*models.Note, error) {
	var out models.Note
	if err := a.c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/notes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NoteAPI) Update(ctx context.Context, id int64, in models.NoteUpdate) (*models.Note, error) {
	var out models.Note
	if err := a.c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/notes/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NoteAPI) Delete(ctx context.Context, id int64) error {
	return a.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/notes/%d", id), nil, nil)
}
