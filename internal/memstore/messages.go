package memstore

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/message"
)

var errMissingSender = errors.New("memstore: message references a missing user")

type Messages struct {
	s *Store
}

var _ message.Repository = (*Messages)(nil)

func (r *Messages) CreateMessage(_ context.Context, m *message.Message) (*message.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[m.UserID]; !ok {
		return nil, errMissingSender
	}

	row := *m
	row.CreatedAt = r.s.now()
	r.s.messages[row.ID] = row
	r.s.messageOrder = append(r.s.messageOrder, row.ID)
	return &row, nil
}

func (r *Messages) ListMessages(_ context.Context, unreadOnly bool) ([]message.MessageDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []message.MessageDetail{}
	for i := len(r.s.messageOrder) - 1; i >= 0; i-- {
		m := r.s.messages[r.s.messageOrder[i]]
		if unreadOnly && m.IsRead {
			continue
		}
		det := message.MessageDetail{Message: m}
		if u, ok := r.s.users[m.UserID]; ok {
			det.User = publicUser(u)
		}
		result = append(result, det)
	}
	return result, nil
}

func (r *Messages) MarkMessageRead(_ context.Context, id uuid.UUID) (*message.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.messages[id]
	if !ok {
		return nil, message.ErrMessageNotFound
	}
	m.IsRead = true
	r.s.messages[id] = m
	return &m, nil
}

func (r *Messages) DeleteMessage(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messages[id]; !ok {
		return message.ErrMessageNotFound
	}
	delete(r.s.messages, id)
	r.s.messageOrder = slices.DeleteFunc(r.s.messageOrder, func(x uuid.UUID) bool { return x == id })
	return nil
}

func (r *Messages) CountUnreadMessages(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, m := range r.s.messages {
		if !m.IsRead {
			n++
		}
	}
	return n, nil
}
