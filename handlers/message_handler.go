package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"echonet/models"
	"echonet/monitoring"
	"echonet/repositories"
	"echonet/session"
)

// MessageHandler covers the messaging pages, message submission and the
// contacts JSON endpoint.
type MessageHandler struct {
	messages repositories.MessageRepository
}

func NewMessageHandler(messages repositories.MessageRepository) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type messagesData struct {
	Username  string
	Contacts  []string
	Recipient string
	Messages  []models.Message
}

func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request, u session.User) {
	contacts, err := h.messages.ContactsOf(u.Username)
	if err != nil {
		logrus.WithError(err).Error("failed to load contacts")
		failPage(w, "Erro ao carregar contatos.")
		return
	}
	renderPage(w, "mensagens.html", messagesData{Username: u.Username, Contacts: contacts})
}

func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request, u session.User) {
	recipient := mux.Vars(r)["destinatario"]
	if isSelf(recipient, u.Username) {
		http.Redirect(w, r, "/mensagens", http.StatusFound)
		return
	}

	contacts, err := h.messages.ContactsOf(u.Username)
	if err != nil {
		logrus.WithError(err).Error("failed to load contacts")
		failPage(w, "Erro ao carregar contatos.")
		return
	}

	thread, err := h.messages.Thread(u.Username, recipient)
	if err != nil {
		logrus.WithError(err).Error("failed to load thread")
		failPage(w, "Erro ao carregar mensagens.")
		return
	}

	renderPage(w, "mensagens.html", messagesData{
		Username:  u.Username,
		Contacts:  contacts,
		Recipient: recipient,
		Messages:  thread,
	})
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request, u session.User) {
	recipient := r.FormValue("destinatario")
	content := r.FormValue("conteudo")

	// Self-messages are dropped here, never at the store.
	if isSelf(recipient, u.Username) {
		http.Redirect(w, r, "/mensagens", http.StatusFound)
		return
	}

	if _, err := h.messages.Send(u.Username, recipient, content); err != nil {
		logrus.WithError(err).Error("failed to send message")
		failPage(w, "Erro ao enviar mensagem.")
		return
	}

	monitoring.MessagesSent.Inc()
	http.Redirect(w, r, "/mensagens/"+url.PathEscape(recipient), http.StatusFound)
}

func (h *MessageHandler) Contacts(w http.ResponseWriter, r *http.Request, u session.User) {
	contacts, err := h.messages.ContactsOf(u.Username)
	if err != nil {
		logrus.WithError(err).Error("failed to load contacts")
		http.Error(w, "Erro interno.", http.StatusInternalServerError)
		return
	}
	if contacts == nil {
		contacts = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contacts)
}

func isSelf(recipient, username string) bool {
	return strings.EqualFold(strings.TrimSpace(recipient), strings.TrimSpace(username))
}
