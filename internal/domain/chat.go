package domain

// Chat is a conversation between one customer/architect and the staff.
// Keyed by (UserID, Role) — one chat per account per role.
type Chat struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Role      Role   `json:"role"`
	Nome      string `json:"nome"`
	CreatedAt string `json:"created_at"`
}

// ChatMessage is one message of a chat, ordered by CreatedAt ascending.
type ChatMessage struct {
	ID         string `json:"id"`
	ChatID     string `json:"chat_id"`
	SenderRole Role   `json:"sender_role"`
	SenderNome string `json:"sender_nome"`
	Conteudo   string `json:"conteudo"`
	CreatedAt  string `json:"created_at"`
}
