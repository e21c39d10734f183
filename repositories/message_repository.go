package repositories

import (
	"database/sql"
	"time"

	"echonet/models"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Send appends the message. The store does not check that the recipient
// exists, nor that sender and recipient differ; that policy lives in the
// handlers.
func (r *messageRepository) Send(sender, recipient, content string) (*models.Message, error) {
	sentAt := time.Now().UTC()
	res, err := r.db.Exec(
		"INSERT INTO messages (remetente, destinatario, conteudo, enviado_em) VALUES (?, ?, ?, ?)",
		sender, recipient, content, sentAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Message{
		ID:        id,
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		SentAt:    sentAt,
	}, nil
}

func (r *messageRepository) Thread(a, b string) ([]models.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, remetente, destinatario, conteudo, enviado_em FROM messages
		WHERE (remetente = ? AND destinatario = ?) OR
		      (remetente = ? AND destinatario = ?)
		ORDER BY enviado_em ASC, id ASC`,
		a, b, b, a,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &m.SentAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepository) ContactsOf(user string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT
			CASE
				WHEN remetente = ? THEN destinatario
				ELSE remetente
			END AS contato
		FROM messages
		WHERE remetente = ? OR destinatario = ?
		ORDER BY contato`,
		user, user, user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []string
	for rows.Next() {
		var contact string
		if err := rows.Scan(&contact); err != nil {
			return nil, err
		}
		// A self-addressed row would yield the user as its own counterparty.
		if contact == user {
			continue
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}
