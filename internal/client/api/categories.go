package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/go-resty/resty/v2"
)

func withPaging(skip, limit int) RequestOption {
	return func(r *resty.Request) {
		if skip > 0 {
			r.SetQueryParam("skip", strconv.Itoa(skip))
		}
		if limit > 0 {
			r.SetQueryParam("limit", strconv.Itoa(limit))
		}
	}
}

type CategoryAPI struct {
	c *Client
}

// List returns categories; zero skip and limit leave paging to the backend.
func (a *CategoryAPI) List(ctx context.Context, skip, limit int) ([]models.Category, error) {
	var out []models.Category
	if err := a.c.Do(ctx, http.MethodGet, "/api/categories", nil, &out, withPaging(skip, limit)); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CategoryAPI) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := a.c.Do(ctx, http.MethodPost, "/api/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CategoryAPI) Get(ctx context.Context, id int64) (*models.Category, error) {
	var out models.Category
	if err := a.c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/categories/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CategoryAPI) Update(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := a.c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CategoryAPI) Delete(ctx context.Context, id int64) error {
	return a.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil, nil)
}
