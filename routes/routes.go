package routes

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"echonet/handlers"
	"echonet/monitoring"
	"echonet/session"
)

// SetupRoutes initializes all the application routes.
// The routing logic is isolated here.
func SetupRoutes(
	auth *handlers.AuthHandler,
	posts *handlers.PostHandler,
	messages *handlers.MessageHandler,
	presence *handlers.PresenceHandler,
	sessions *session.Manager,
	publicDir string,
) http.Handler {
	router := mux.NewRouter()

	// Page routes (redirect to login when anonymous)
	router.HandleFunc("/", sessions.RequirePage(posts.Feed)).Methods("GET")
	router.HandleFunc("/perfil", sessions.RequirePage(posts.Profile)).Methods("GET")
	router.HandleFunc("/postar", sessions.RequirePage(posts.CreatePost)).Methods("POST")
	router.HandleFunc("/deletar-post/{id}", sessions.RequirePage(posts.DeletePost)).Methods("POST")
	router.HandleFunc("/mensagens", sessions.RequirePage(messages.Inbox)).Methods("GET")
	router.HandleFunc("/mensagens", sessions.RequirePage(messages.Send)).Methods("POST")
	router.HandleFunc("/mensagens/{destinatario}", sessions.RequirePage(messages.Thread)).Methods("GET")

	// Auth routes
	router.HandleFunc("/register", auth.Register).Methods("POST")
	router.HandleFunc("/login", auth.Login).Methods("POST")
	router.HandleFunc("/logout", auth.Logout).Methods("GET")
	router.HandleFunc("/login.html", auth.LoginPage).Methods("GET")
	router.HandleFunc("/register.html", auth.RegisterPage).Methods("GET")

	// JSON routes (401 when anonymous)
	router.HandleFunc("/atualizar-ativo", sessions.RequireJSON(presence.Heartbeat)).Methods("POST")
	router.HandleFunc("/online-users", sessions.RequireJSON(presence.OnlineUsers)).Methods("GET")
	router.HandleFunc("/conversas", sessions.RequireJSON(messages.Contacts)).Methods("GET")

	// Uploaded images
	uploads := http.FileServer(http.Dir(filepath.Join(publicDir, "uploads")))
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", uploads))

	// Metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return monitoring.InstrumentHandler(router)
}
