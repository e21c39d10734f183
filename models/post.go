package models

import "time"

// Post is an image post on the feed. ImagePath is the public relative path
// ("/uploads/<file>") of the stored image, Author the owner's username.
type Post struct {
	ID        int64     `json:"id"`
	ImagePath string    `json:"imagem"`
	Caption   string    `json:"legenda"`
	Author    string    `json:"usuario"`
	CreatedAt time.Time `json:"criado_em"`
}
