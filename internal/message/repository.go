package message

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/apperr"
)

var ErrMessageNotFound = apperr.NotFound("message not found")

type Repository interface {
	CreateMessage(ctx context.Context, m *Message) (*Message, error)

	// ListMessages returns newest first, joined with the sender.
	ListMessages(ctx context.Context, unreadOnly bool) ([]MessageDetail, error)

	// MarkMessageRead sets is_read and returns the row; already read rows are
	// returned unchanged.
	MarkMessageRead(ctx context.Context, id uuid.UUID) (*Message, error)

	DeleteMessage(ctx context.Context, id uuid.UUID) error
	CountUnreadMessages(ctx context.Context) (int, error)
}
