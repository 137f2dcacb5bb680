package models

import (
	"net/url"
	"strconv"
)

// Note content is an HTML fragment produced by a rich-text editor. The
// client never interprets or sanitises it.
type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID *int64    `json:"category_id,omitempty"`
	Category   *Category `json:"category,omitempty"`
	Tags       []Tag     `json:"tags"`
	IsFavorite bool      `json:"is_favorite"`
	ViewCount  int       `json:"view_count"`
	CreatedAt  Time      `json:"created_at"`
	UpdatedAt  Time      `json:"updated_at"`
}

type NoteCreate struct {
	Title      string  `json:"title"`
	Content    string  `json:"content,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
	TagIDs     []int64 `json:"tag_ids"`
	IsFavorite bool    `json:"is_favorite"`
}

// NoteUpdate is a partial update: nil fields are not sent.
type NoteUpdate struct {
	Title      *string  `json:"title,omitempty"`
	Content    *string  `json:"content,omitempty"`
	CategoryID *int64   `json:"category_id,omitempty"`
	TagIDs     *[]int64 `json:"tag_ids,omitempty"`
	IsFavorite *bool    `json:"is_favorite,omitempty"`
}

// NoteFilter selects a page of notes. Zero values are omitted from the query.
type NoteFilter struct {
	Page       int
	PageSize   int
	Keyword    string
	CategoryID *int64
	TagID      *int64
	IsFavorite *bool
}

func (f NoteFilter) Values() url.Values {
	v := url.Values{}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(f.PageSize))
	}
	if f.Keyword != "" {
		v.Set("keyword", f.Keyword)
	}
	if f.CategoryID != nil {
		v.Set("category_id", strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.TagID != nil {
		v.Set("tag_id", strconv.FormatInt(*f.TagID, 10))
	}
	if f.IsFavorite != nil {
		v.Set("is_favorite", strconv.FormatBool(*f.IsFavorite))
	}
	return v
}

// Page is the backend's pagination envelope.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type SearchResult struct {
	Results []Note `json:"results"`
	Total   int    `json:"total"`
}
