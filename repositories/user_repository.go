package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"echonet/models"
)

const bcryptCost = 10

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Register(username, email, password string) (*models.User, error) {
	existing, err := r.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	res, err := r.db.Exec(
		"INSERT INTO users (username, email, password) VALUES (?, ?, ?)",
		username, email, string(hash),
	)
	if err != nil {
		// The UNIQUE index is the backstop for the read-then-insert race.
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.User{ID: id, Username: username, Email: email, Password: string(hash)}, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	return r.findBy("email", email)
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	return r.findBy("username", username)
}

func (r *userRepository) findBy(column, value string) (*models.User, error) {
	query := "SELECT id, username, email, password, ultimo_ativo FROM users WHERE " + column + " = ?"

	var u models.User
	var lastActive sql.NullTime
	err := r.db.QueryRow(query, value).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &lastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastActive.Valid {
		t := lastActive.Time
		u.LastActiveAt = &t
	}
	return &u, nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (r *userRepository) Touch(username string, at time.Time) error {
	_, err := r.db.Exec("UPDATE users SET ultimo_ativo = ? WHERE username = ?", at, username)
	return err
}

func (r *userRepository) ClearLastActive(username string) error {
	_, err := r.db.Exec("UPDATE users SET ultimo_ativo = NULL WHERE username = ?", username)
	return err
}

func (r *userRepository) ListOthers(excluding string) ([]models.UserActivity, error) {
	rows, err := r.db.Query(
		"SELECT username, ultimo_ativo FROM users WHERE username != ? ORDER BY username",
		excluding,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserActivity
	for rows.Next() {
		var u models.UserActivity
		var lastActive sql.NullTime
		if err := rows.Scan(&u.Username, &lastActive); err != nil {
			return nil, err
		}
		if lastActive.Valid {
			t := lastActive.Time
			u.LastActiveAt = &t
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
