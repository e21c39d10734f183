package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"echonet/monitoring"
	"echonet/repositories"
	"echonet/session"
	"echonet/templates"
)

// AuthHandler covers registration, login, logout and the two public pages.
type AuthHandler struct {
	users    repositories.UserRepository
	sessions *session.Manager
	validate *validator.Validate
}

func NewAuthHandler(users repositories.UserRepository, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		validate: validator.New(),
	}
}

type registerForm struct {
	Username string `validate:"required,min=3,max=32"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if err := h.validate.Struct(form); err != nil {
		failPage(w, "Dados inválidos. <a href='/register.html'>Tente novamente</a>")
		return
	}

	_, err := h.users.Register(form.Username, form.Email, form.Password)
	if errors.Is(err, repositories.ErrDuplicateEmail) {
		failPage(w, "E-mail já cadastrado. <a href='/register.html'>Tente outro</a>")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("register failed")
		failPage(w, "Erro ao cadastrar.")
		return
	}

	monitoring.RegisterSuccess.Inc()
	failPage(w, "Cadastro realizado com sucesso! <a href='/login.html'>Fazer login</a>")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.users.FindByEmail(email)
	if err != nil {
		logrus.WithError(err).Error("login lookup failed")
		failPage(w, "Erro ao fazer login.")
		return
	}
	if user == nil {
		monitoring.LoginFailure.WithLabelValues("unknown_user").Inc()
		failPage(w, "Usuário não encontrado. <a href='/login.html'>Tentar novamente</a>")
		return
	}
	if !repositories.VerifyPassword(password, user.Password) {
		monitoring.LoginFailure.WithLabelValues("wrong_password").Inc()
		failPage(w, "Senha incorreta. <a href='/login.html'>Tente novamente</a>")
		return
	}

	identity := session.User{ID: user.ID, Username: user.Username, Email: user.Email}
	if err := h.sessions.SignIn(w, r, identity); err != nil {
		logrus.WithError(err).Error("failed to establish session")
		failPage(w, "Erro ao fazer login.")
		return
	}

	monitoring.LoginSuccess.Inc()
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the presence timestamp and destroys the session. It works
// for anonymous clients too, like the original route.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if u, ok := h.sessions.Current(r); ok {
		if err := h.users.ClearLastActive(u.Username); err != nil {
			logrus.WithError(err).Warn("failed to clear last-active on logout")
		}
	}
	if err := h.sessions.SignOut(w, r); err != nil {
		logrus.WithError(err).Warn("failed to destroy session")
	}
	http.Redirect(w, r, "/login.html", http.StatusFound)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, templates.FS, "login.html")
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, templates.FS, "register.html")
}
