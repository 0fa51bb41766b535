// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to the remote
// blog_list table and provides the core types used throughout the panel.
package models

import (
	"strings"
	"time"
)

// Category is the mood tag attached to a blog post. The panel's form offers
// a fixed set of values but the backing column is free text, so unknown
// values round-trip unchanged.
type Category string

const (
	CategoryHappy Category = "happy"
	CategorySad   Category = "sad"
	CategoryAnger Category = "anger"
	CategoryFear  Category = "fear"
)

// KnownCategories lists the categories offered by the create/edit form.
func KnownCategories() []Category {
	return []Category{CategoryHappy, CategorySad, CategoryAnger, CategoryFear}
}

// Post is a blog post record as stored by the remote data service.
//
// ID is assigned by the service on insert and never changes. UserID and
// Email identify the owner; the service refuses updates and deletes whose
// user_id does not match the stored row. CreatedAt is stamped by the
// service at insert time and is never altered by edits.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
}

// Draft holds the fields a caller supplies when creating a post. The
// service fills in ID and CreatedAt; the client-side CreatedAt placeholder
// shown in the form is display-only and is not sent.
type Draft struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
}

// OwnedBy reports whether the post belongs to the given user identity.
func (p *Post) OwnedBy(userID string) bool {
	return p.UserID == userID
}

// Normalize trims surrounding whitespace from the user-editable fields.
func (d *Draft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.Category = Category(strings.TrimSpace(string(d.Category)))
	d.Description = strings.TrimSpace(d.Description)
}
