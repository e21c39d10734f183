package repositories

import (
	"database/sql"
	"errors"
	"time"

	"echonet/models"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(author, imagePath, caption string) (*models.Post, error) {
	if imagePath == "" || caption == "" {
		return nil, ErrMissingField
	}

	createdAt := time.Now().UTC()
	res, err := r.db.Exec(
		"INSERT INTO posts (imagem, legenda, usuario, criado_em) VALUES (?, ?, ?, ?)",
		imagePath, caption, author, createdAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Post{
		ID:        id,
		ImagePath: imagePath,
		Caption:   caption,
		Author:    author,
		CreatedAt: createdAt,
	}, nil
}

func (r *postRepository) ListAll() ([]models.Post, error) {
	return r.list("SELECT id, imagem, legenda, usuario, criado_em FROM posts ORDER BY criado_em DESC, id DESC")
}

func (r *postRepository) ListByAuthor(author string) ([]models.Post, error) {
	return r.list(
		"SELECT id, imagem, legenda, usuario, criado_em FROM posts WHERE usuario = ? ORDER BY criado_em DESC, id DESC",
		author,
	)
}

func (r *postRepository) list(query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.ImagePath, &p.Caption, &p.Author, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postRepository) Delete(postID int64, requestingUser string) (string, error) {
	var imagePath string
	err := r.db.QueryRow(
		"SELECT imagem FROM posts WHERE id = ? AND usuario = ?",
		postID, requestingUser,
	).Scan(&imagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return "", err
	}

	if _, err := r.db.Exec("DELETE FROM posts WHERE id = ?", postID); err != nil {
		return "", err
	}
	return imagePath, nil
}
