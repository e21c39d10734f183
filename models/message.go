package models

import "time"

// Message is a directed private message. Rows are append-only.
type Message struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"remetente"`
	Recipient string    `json:"destinatario"`
	Content   string    `json:"conteudo"`
	SentAt    time.Time `json:"enviado_em"`
}
