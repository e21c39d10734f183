package repositories

import (
	"errors"
	"time"

	"echonet/models"
)

var (
	// ErrDuplicateEmail is returned by Register when the email is taken.
	ErrDuplicateEmail = errors.New("e-mail already registered")

	// ErrMissingField is returned by PostRepository.Create when the image
	// or the caption is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrNotFoundOrUnauthorized is returned by PostRepository.Delete when no
	// post with the given id belongs to the requesting user. The two cases
	// are deliberately indistinguishable.
	ErrNotFoundOrUnauthorized = errors.New("post not found or not authorized")
)

type UserRepository interface {
	Register(username, email, password string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)

	// Touch stamps the user's last-active time (presence heartbeat).
	Touch(username string, at time.Time) error
	// ClearLastActive resets the presence timestamp, used on logout.
	ClearLastActive(username string) error
	// ListOthers returns every user except the given one, alphabetically,
	// with their last-active time for presence classification.
	ListOthers(excluding string) ([]models.UserActivity, error)
}

type PostRepository interface {
	Create(author, imagePath, caption string) (*models.Post, error)
	ListAll() ([]models.Post, error)
	ListByAuthor(author string) ([]models.Post, error)

	// Delete removes the post if it exists and belongs to requestingUser,
	// returning the stored image path so the caller can clean up the file.
	Delete(postID int64, requestingUser string) (imagePath string, err error)
}

type MessageRepository interface {
	Send(sender, recipient, content string) (*models.Message, error)
	// Thread returns every message between the unordered pair {a, b},
	// ascending by send time.
	Thread(a, b string) ([]models.Message, error)
	// ContactsOf returns the distinct counterparties of every message
	// touching the user, alphabetically.
	ContactsOf(user string) ([]string, error)
}
