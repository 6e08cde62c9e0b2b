package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/apperr"
	"github.com/hackgods/medicare-hms/internal/user"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type CreateInput struct {
	Subject *string
	Content string
}

// Create stores a message from the caller. It always starts unread.
func (s *Service) Create(ctx context.Context, caller *user.User, in CreateInput) (*Message, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}

	m := &Message{
		ID:      uuid.New(),
		UserID:  caller.ID,
		Content: strings.TrimSpace(in.Content),
		IsRead:  false,
	}
	if in.Subject != nil {
		if subj := strings.TrimSpace(*in.Subject); subj != "" {
			m.Subject = &subj
		}
	}

	if m.Content == "" {
		return nil, apperr.Validation("content is required")
	}
	if utf8.RuneCountInString(m.Content) > MaxContentLength {
		return nil, apperr.Validation("content must be at most %d characters", MaxContentLength)
	}
	if m.Subject != nil && utf8.RuneCountInString(*m.Subject) > MaxSubjectLength {
		return nil, apperr.Validation("subject must be at most %d characters", MaxSubjectLength)
	}

	created, err := s.repo.CreateMessage(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.logger.InfoContext(ctx, "message received", "message_id", created.ID, "user_id", created.UserID)
	return created, nil
}

// List returns all messages, or only unread ones, to admins.
func (s *Service) List(ctx context.Context, caller *user.User, unreadOnly bool) ([]MessageDetail, error) {
	if !caller.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	list, err := s.repo.ListMessages(ctx, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return list, nil
}

// MarkRead is idempotent: marking a read message again succeeds.
func (s *Service) MarkRead(ctx context.Context, caller *user.User, id uuid.UUID) (*Message, error) {
	if !caller.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	m, err := s.repo.MarkMessageRead(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mark message read: %w", err)
	}
	return m, nil
}

// Delete removes a message permanently.
func (s *Service) Delete(ctx context.Context, caller *user.User, id uuid.UUID) error {
	if !caller.IsAdmin() {
		return apperr.ErrForbidden
	}
	if err := s.repo.DeleteMessage(ctx, id); err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("delete message: %w", err)
	}

	s.logger.InfoContext(ctx, "message deleted", "message_id", id, "deleted_by", caller.ID)
	return nil
}
