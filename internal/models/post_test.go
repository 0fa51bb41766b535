package models

import "testing"

func TestDraftNormalize(t *testing.T) {
	d := Draft{
		Title:       "  Spaced out  ",
		Author:      "\tAdmin\n",
		Category:    " happy ",
		Description: " body ",
		UserID:      "u1",
	}
	d.Normalize()

	if d.Title != "Spaced out" {
		t.Errorf("title: got %q", d.Title)
	}
	if d.Author != "Admin" {
		t.Errorf("author: got %q", d.Author)
	}
	if d.Category != CategoryHappy {
		t.Errorf("category: got %q", d.Category)
	}
	if d.Description != "body" {
		t.Errorf("description: got %q", d.Description)
	}
	if d.UserID != "u1" {
		t.Errorf("user id must be untouched: got %q", d.UserID)
	}
}

func TestPostOwnedBy(t *testing.T) {
	p := Post{ID: 1, UserID: "u1"}
	if !p.OwnedBy("u1") {
		t.Error("owner rejected")
	}
	if p.OwnedBy("u2") {
		t.Error("non-owner accepted")
	}
}

func TestKnownCategories(t *testing.T) {
	got := KnownCategories()
	if len(got) != 4 {
		t.Fatalf("got %d categories, want 4", len(got))
	}
	if got[0] != CategoryHappy || got[3] != CategoryFear {
		t.Errorf("unexpected order: %v", got)
	}
}
