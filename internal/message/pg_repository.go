package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/medicare-hms/internal/user"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const messageColumns = `m.id, m.user_id, m.subject, m.content, m.is_read, m.created_at`

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message

	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Subject,
		&m.Content,
		&m.IsRead,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *PgRepository) CreateMessage(ctx context.Context, m *Message) (*Message, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages AS m (id, user_id, subject, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING `+messageColumns,
		m.ID, m.UserID, m.Subject, m.Content, m.IsRead)

	created, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return created, nil
}

func (r *PgRepository) ListMessages(ctx context.Context, unreadOnly bool) ([]MessageDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`,
		       u.id, u.email, u.first_name, u.last_name, u.role, u.created_at
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE NOT (m.is_read AND $1)
		ORDER BY m.created_at DESC, m.id
	`, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	result := []MessageDetail{}
	for rows.Next() {
		var (
			det MessageDetail
			u   user.User
		)
		err := rows.Scan(
			&det.ID, &det.UserID, &det.Subject, &det.Content, &det.IsRead, &det.CreatedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		det.User = &u
		result = append(result, det)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) MarkMessageRead(ctx context.Context, id uuid.UUID) (*Message, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE messages AS m
		SET is_read = TRUE
		WHERE m.id = $1
		RETURNING `+messageColumns,
		id)
	return scanMessage(row)
}

func (r *PgRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *PgRepository) CountUnreadMessages(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM messages WHERE NOT is_read`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}
