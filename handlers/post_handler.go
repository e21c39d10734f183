package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"echonet/models"
	"echonet/monitoring"
	"echonet/repositories"
	"echonet/session"
)

const maxUploadBytes = 10 << 20

// PostHandler covers the feed, the profile page and post create/delete.
type PostHandler struct {
	posts     repositories.PostRepository
	publicDir string
	uploadDir string
}

func NewPostHandler(posts repositories.PostRepository, publicDir, uploadDir string) *PostHandler {
	return &PostHandler{posts: posts, publicDir: publicDir, uploadDir: uploadDir}
}

type feedData struct {
	Username string
	Posts    []models.Post
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request, u session.User) {
	posts, err := h.posts.ListAll()
	if err != nil {
		logrus.WithError(err).Error("failed to load feed")
		failPage(w, "Erro ao carregar o feed.")
		return
	}
	renderPage(w, "index.html", feedData{Username: u.Username, Posts: posts})
}

func (h *PostHandler) Profile(w http.ResponseWriter, r *http.Request, u session.User) {
	posts, err := h.posts.ListByAuthor(u.Username)
	if err != nil {
		logrus.WithError(err).Error("failed to load profile")
		failPage(w, "Erro ao carregar o perfil.")
		return
	}
	renderPage(w, "perfil.html", feedData{Username: u.Username, Posts: posts})
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request, u session.User) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		failPage(w, "Erro: campos obrigatórios.")
		return
	}
	caption := r.FormValue("legenda")

	imagePath, err := h.saveUpload(r)
	if err != nil {
		logrus.WithError(err).Error("failed to store uploaded image")
		failPage(w, "Erro ao postar.")
		return
	}

	_, err = h.posts.Create(u.Username, imagePath, caption)
	if errors.Is(err, repositories.ErrMissingField) {
		failPage(w, "Erro: campos obrigatórios.")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("failed to create post")
		failPage(w, "Erro ao postar.")
		return
	}

	monitoring.PostsCreated.Inc()
	http.Redirect(w, r, "/", http.StatusFound)
}

// saveUpload writes the "imagem" form file into the upload directory under a
// fresh name and returns its public path. A missing file is not an error
// here; the store rejects the post.
func (h *PostHandler) saveUpload(r *http.Request) (string, error) {
	file, header, err := r.FormFile("imagem")
	if err != nil {
		return "", nil
	}
	defer file.Close()

	name := uuid.New().String() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request, u session.User) {
	postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		failPage(w, "Post não encontrado ou não autorizado.")
		return
	}

	imagePath, err := h.posts.Delete(postID, u.Username)
	if errors.Is(err, repositories.ErrNotFoundOrUnauthorized) {
		failPage(w, "Post não encontrado ou não autorizado.")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("failed to delete post")
		failPage(w, "Erro ao deletar o post.")
		return
	}

	// Best-effort cleanup; the row is already gone either way.
	fullPath := filepath.Join(h.publicDir, filepath.FromSlash(strings.TrimPrefix(imagePath, "/")))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warnf("failed to remove image %s", imagePath)
	}

	monitoring.PostsDeleted.Inc()
	http.Redirect(w, r, "/perfil", http.StatusFound)
}
