// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"context"
	"database/sql"
	"fmt"

	"blogpanel/internal/models"
)

// IdentityFunc resolves the acting user from the request context. The
// server wires this to the session middleware so the gateway package stays
// free of HTTP concerns.
type IdentityFunc func(ctx context.Context) *models.Identity

// PostgresGateway serves the gateway contract from a local PostgreSQL
// database instead of the hosted service. It is used for self-hosted
// deployments and integration tests; the semantics mirror the hosted API,
// including server-assigned id/created_at and ownership-scoped mutations.
type PostgresGateway struct {
	db       *sql.DB
	identity IdentityFunc
	pageSize int
}

// NewPostgres creates a Postgres-backed gateway. identity may be nil, in
// which case CurrentUser always reports no session.
func NewPostgres(db *sql.DB, identity IdentityFunc, pageSize int) *PostgresGateway {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &PostgresGateway{db: db, identity: identity, pageSize: pageSize}
}

// List returns one window of posts ordered by created_at descending, plus
// the exact total count used for the continuation flag.
func (g *PostgresGateway) List(ctx context.Context, page int) (Window, error) {
	var total int64
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_list`).Scan(&total); err != nil {
		return Window{}, gwErr("list", fmt.Errorf("count posts: %w", err))
	}

	rows, err := g.db.QueryContext(ctx, `
		SELECT id, title, author, category, description, created_at, user_id, email
		FROM blog_list
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`, offsetFor(page, g.pageSize), g.pageSize)
	if err != nil {
		return Window{}, gwErr("list", fmt.Errorf("list posts: %w", err))
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Author, &p.Category, &p.Description,
			&p.CreatedAt, &p.UserID, &p.Email,
		); err != nil {
			return Window{}, gwErr("list", fmt.Errorf("scan post: %w", err))
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return Window{}, gwErr("list", err)
	}

	return Window{
		Items:   items,
		Total:   total,
		HasMore: hasMore(page, g.pageSize, total),
	}, nil
}

// Create inserts a post and returns the stored row. The database assigns
// id and created_at; any client-side timestamp is ignored.
func (g *PostgresGateway) Create(ctx context.Context, draft models.Draft) (*models.Post, error) {
	p := &models.Post{}
	err := g.db.QueryRowContext(ctx, `
		INSERT INTO blog_list (title, author, category, description, user_id, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, author, category, description, created_at, user_id, email
	`, draft.Title, draft.Author, draft.Category, draft.Description, draft.UserID, draft.Email,
	).Scan(
		&p.ID, &p.Title, &p.Author, &p.Category, &p.Description,
		&p.CreatedAt, &p.UserID, &p.Email,
	)
	if err != nil {
		return nil, gwErr("create", fmt.Errorf("insert post: %w", err))
	}
	return p, nil
}

// Update rewrites the editable fields of an owned post. A row that exists
// under a different owner is left untouched and reported as an error.
func (g *PostgresGateway) Update(ctx context.Context, post models.Post) (*models.Post, error) {
	p := &models.Post{}
	err := g.db.QueryRowContext(ctx, `
		UPDATE blog_list
		SET title = $1, author = $2, category = $3, description = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, title, author, category, description, created_at, user_id, email
	`, post.Title, post.Author, post.Category, post.Description, post.ID, post.UserID,
	).Scan(
		&p.ID, &p.Title, &p.Author, &p.Category, &p.Description,
		&p.CreatedAt, &p.UserID, &p.Email,
	)
	if err == sql.ErrNoRows {
		return nil, &Error{Op: "update", Message: "no owned post matched id"}
	}
	if err != nil {
		return nil, gwErr("update", fmt.Errorf("update post: %w", err))
	}
	return p, nil
}

// Delete removes an owned post by id and returns the id.
func (g *PostgresGateway) Delete(ctx context.Context, id int64, userID string) (int64, error) {
	res, err := g.db.ExecContext(ctx, `
		DELETE FROM blog_list WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, gwErr("delete", fmt.Errorf("delete post: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, gwErr("delete", err)
	}
	if affected == 0 {
		return 0, &Error{Op: "delete", Message: "no owned post matched id"}
	}
	return id, nil
}

// CurrentUser reports the session identity carried in the context.
func (g *PostgresGateway) CurrentUser(ctx context.Context) (*models.Identity, error) {
	if g.identity == nil {
		return nil, nil
	}
	return g.identity(ctx), nil
}

// gwErr wraps a database failure as a gateway error.
func gwErr(op string, err error) *Error {
	return &Error{Op: op, Message: err.Error()}
}
