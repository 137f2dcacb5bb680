package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type TagAPI struct {
	c *Client
}

func (a *TagAPI) List(ctx context.Context, skip, limit int) ([]models.Tag, error) {
	var out []models.Tag
	if err := a.c.Do(ctx, http.MethodGet, "/api/tags", nil, &out, withPaging(skip, limit)); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *TagAPI) Create(ctx context.Context, in models.TagInput) (*models.Tag, error) {
	var out models.Tag
	if err := a.c.Do(ctx, http.MethodPost, "/api/tags", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TagAPI) Get(ctx context.Context, id int64) (*models.Tag, error) {
	var out models.Tag
	if err := a.c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/tags/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TagAPI) Update(ctx context.Context, id int64, in models.TagInput) (*models.Tag, error) {
	var out models.Tag
	if err := a.c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/tags/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TagAPI) Delete(ctx context.Context, id int64) error {
	return a.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/tags/%d", id), nil, nil)
}
