// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package form implements the create/edit form's field buffer. The buffer
// is the only state the form owns: it is seeded from the staged post when
// entering edit mode, from blank defaults when entering create mode, and
// written back to the rest of the system exclusively through submission.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"blogpanel/internal/models"
	"blogpanel/internal/ui"
)

// Values are the editable field values held by the buffer. CreatedAt is a
// display-only placeholder in create mode — the data service assigns the
// authoritative timestamp on insert.
type Values struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// InvalidError reports required fields that were left blank. Submission is
// blocked before any gateway call when validation fails.
type InvalidError struct {
	Fields map[string]string
}

func (e *InvalidError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	return fmt.Sprintf("form: invalid fields: %s", strings.Join(names, ", "))
}

// Handler receives the submitted field values. The buffer resets only when
// the handler returns nil.
type Handler func(ctx context.Context, v Values) error

// Buffer holds the form's local field state. Safe for concurrent use.
type Buffer struct {
	mu     sync.Mutex
	mode   ui.Mode
	values Values
	now    func() time.Time
}

// NewBuffer creates a form buffer seeded for create mode. now may be nil,
// in which case time.Now is used for the create-mode timestamp stamp.
func NewBuffer(now func() time.Time) *Buffer {
	if now == nil {
		now = time.Now
	}
	b := &Buffer{now: now}
	b.Seed(ui.ModeCreate, nil)
	return b
}

// Seed initializes the buffer for the given mode. In edit mode every field
// comes from the seed post, including its original CreatedAt, which edits
// never alter. In create mode all fields start blank and CreatedAt is
// stamped fresh as a display placeholder.
func (b *Buffer) Seed(mode ui.Mode, seed *models.Post) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mode = mode
	if mode == ui.ModeEdit && seed != nil {
		b.values = Values{
			Title:       seed.Title,
			Author:      seed.Author,
			Category:    string(seed.Category),
			Description: seed.Description,
			CreatedAt:   seed.CreatedAt,
		}
		return
	}
	b.values = Values{CreatedAt: b.now()}
}

// Apply overwrites the editable fields with what the user typed. The
// creation timestamp is not editable and keeps its seeded value.
func (b *Buffer) Apply(v Values) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.values.Title = v.Title
	b.values.Author = v.Author
	b.values.Category = v.Category
	b.values.Description = v.Description
}

// Values returns a copy of the current field values.
func (b *Buffer) Values() Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.values
}

// Mode returns the mode the buffer was last seeded for.
func (b *Buffer) Mode() ui.Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// Validate enforces required-field semantics: title, author, category, and
// description must be non-empty. No format or length rules apply here.
func (b *Buffer) Validate() map[string]string {
	b.mu.Lock()
	v := b.values
	b.mu.Unlock()

	fields := map[string]string{}
	if strings.TrimSpace(v.Title) == "" {
		fields["title"] = "Title is required."
	}
	if strings.TrimSpace(v.Author) == "" {
		fields["author"] = "Author is required."
	}
	if strings.TrimSpace(v.Category) == "" {
		fields["category"] = "Category is required."
	}
	if strings.TrimSpace(v.Description) == "" {
		fields["description"] = "Description is required."
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Submit validates the buffer and delegates to the handler. On success the
// fields reset to blank create-mode defaults; on failure they stay
// populated so the user can retry, and the error is returned to the
// caller's error channel.
func (b *Buffer) Submit(ctx context.Context, fn Handler) error {
	if fields := b.Validate(); fields != nil {
		return &InvalidError{Fields: fields}
	}

	if err := fn(ctx, b.Values()); err != nil {
		return err
	}

	b.Seed(ui.ModeCreate, nil)
	return nil
}
