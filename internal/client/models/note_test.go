package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteFilter_Values(t *testing.T) {
	cat := int64(3)
	tag := int64(7)
	fav := true

	tests := []struct {
		name   string
		filter NoteFilter
		want   string
	}{
		{name: "empty", filter: NoteFilter{}, want: ""},
		{name: "paging", filter: NoteFilter{Page: 2, PageSize: 20}, want: "page=2&page_size=20"},
		{
			name:   "all filters",
			filter: NoteFilter{Page: 1, PageSize: 10, Keyword: "go lang", CategoryID: &cat, TagID: &tag, IsFavorite: &fav},
			want:   "category_id=3&is_favorite=true&keyword=go+lang&page=1&page_size=10&tag_id=7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Values().Encode())
		})
	}
}

func TestNoteUpdate_OmitsUnsetFields(t *testing.T) {
	fav := false
	b, err := json.Marshal(NoteUpdate{IsFavorite: &fav})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_favorite": false}`, string(b))
}

func TestNote_DecodesBackendShape(t *testing.T) {
	raw := `{
		"id": 12, "user_id": 1, "title": "T", "content": "<p>x</p>",
		"category_id": 3, "category": {"id": 3, "name": "Work"},
		"tags": [{"id": 1, "name": "go"}],
		"is_favorite": true, "view_count": 9,
		"created_at": "2024-05-01T10:00:00", "updated_at": "2024-05-02T10:00:00Z"
	}`

	var n Note
	require.NoError(t, json.Unmarshal([]byte(raw), &n))
	assert.Equal(t, int64(12), n.ID)
	require.NotNil(t, n.Category)
	assert.Equal(t, "Work", n.Category.Name)
	assert.True(t, n.IsFavorite)
	assert.Equal(t, 9, n.ViewCount)
	assert.Equal(t, "<p>x</p>", n.Content)
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(n.CreatedAt.Time))
	assert.True(t, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC).Equal(n.UpdatedAt.Time))
}

func TestTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: `"2024-05-01T10:00:00.123456"`, want: time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{in: `"2024-05-01T10:00:00+02:00"`, want: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		{in: `null`, want: time.Time{}},
		{in: `"yesterday"`, wantErr: true},
	}
	for _, tt := range tests {
		var got Time
		err := json.Unmarshal([]byte(tt.in), &got)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got.Time), "%s: got %v", tt.in, got.Time)
	}
}
