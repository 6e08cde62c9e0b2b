package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/user"
)

const (
	MaxSubjectLength = 100
	MaxContentLength = 5000
)

type Message struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Subject   *string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

// MessageDetail is a message joined with its sender.
type MessageDetail struct {
	Message
	User *user.User
}
