package models

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   Time   `json:"created_at,omitzero"`
}

type CategoryInput struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	CreatedAt Time   `json:"created_at,omitzero"`
}

type TagInput struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}
