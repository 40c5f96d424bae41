package service_test

import (
	"testing"

	"album-server/internal/model"
	"album-server/internal/service"
)

func TestAddTagsSplitsAndDeduplicates(t *testing.T) {
	setup(t)
	alice := newUser(t)
	photo := uploadTestPhoto(t, alice)

	if err := service.AddTags(alice, photo, "  sky   sunset "); err != nil {
		t.Fatalf("add tags: %v", err)
	}
	// Re-adding an attached name must not duplicate the association.
	if err := service.AddTags(alice, photo, "sky"); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	tags, err := service.TagsForPhoto(photo)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("tag count = %d, want 2", len(tags))
	}
}

func TestAddTagsReusesExistingTagRow(t *testing.T) {
	setup(t)
	alice := newUser(t)
	first := uploadTestPhoto(t, alice)
	second := uploadTestPhoto(t, alice)

	if err := service.AddTags(alice, first, "shared"); err != nil {
		t.Fatalf("tag first: %v", err)
	}
	if err := service.AddTags(alice, second, "shared"); err != nil {
		t.Fatalf("tag second: %v", err)
	}
	if got := countRows(t, &model.Tag{}, "name = ?", "shared"); got != 1 {
		t.Fatalf("tag rows = %d, want 1", got)
	}
}

func TestAddTagsAuthorization(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	photo := uploadTestPhoto(t, alice)

	if err := service.AddTags(bob, photo, "vandal"); err == nil {
		t.Fatal("unrelated user tagged a photo")
	}
}

func TestRemoveTagDropsOrphan(t *testing.T) {
	setup(t)
	alice := newUser(t)
	first := uploadTestPhoto(t, alice)
	second := uploadTestPhoto(t, alice)

	if err := service.AddTags(alice, first, "shared"); err != nil {
		t.Fatalf("tag first: %v", err)
	}
	if err := service.AddTags(alice, second, "shared"); err != nil {
		t.Fatalf("tag second: %v", err)
	}

	tags, err := service.TagsForPhoto(first)
	if err != nil || len(tags) != 1 {
		t.Fatalf("tags: %v (%v)", tags, err)
	}
	tag := &tags[0]

	// Detaching from the first photo leaves the tag alive.
	if err := service.RemoveTag(alice, first, tag); err != nil {
		t.Fatalf("remove from first: %v", err)
	}
	if got := countRows(t, &model.Tag{}, "id = ?", tag.ID); got != 1 {
		t.Fatal("tag deleted while still attached elsewhere")
	}

	// Detaching the last association removes the tag row.
	if err := service.RemoveTag(alice, second, tag); err != nil {
		t.Fatalf("remove from second: %v", err)
	}
	if got := countRows(t, &model.Tag{}, "id = ?", tag.ID); got != 0 {
		t.Fatal("orphaned tag survived")
	}
}

func TestAddTagsValidation(t *testing.T) {
	setup(t)
	alice := newUser(t)
	photo := uploadTestPhoto(t, alice)

	if err := service.AddTags(alice, photo, "   "); err == nil {
		t.Fatal("blank tag input accepted")
	}

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}
	if err := service.AddTags(alice, photo, string(long)); err == nil {
		t.Fatal("65-char tag name accepted")
	}
}

func TestPhotosByTag(t *testing.T) {
	setup(t)
	alice := newUser(t)
	tagged := uploadTestPhoto(t, alice)
	uploadTestPhoto(t, alice) // untagged

	if err := service.AddTags(alice, tagged, "only"); err != nil {
		t.Fatalf("tag: %v", err)
	}
	tags, err := service.TagsForPhoto(tagged)
	if err != nil || len(tags) != 1 {
		t.Fatalf("tags: %v (%v)", tags, err)
	}

	photos, err := service.PhotosByTag(&tags[0], service.TagOrderByTime, 1, 10)
	if err != nil {
		t.Fatalf("photos by tag: %v", err)
	}
	if len(photos) != 1 || photos[0].ID != tagged.ID {
		t.Fatalf("photos = %+v, want just %d", photos, tagged.ID)
	}
}

func TestPhotosByTagOrderByCollects(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	carol := newUser(t)
	older := uploadTestPhoto(t, alice)
	newer := uploadTestPhoto(t, alice)

	if err := service.AddTags(alice, older, "ranked"); err != nil {
		t.Fatalf("tag older: %v", err)
	}
	if err := service.AddTags(alice, newer, "ranked"); err != nil {
		t.Fatalf("tag newer: %v", err)
	}
	tags, err := service.TagsForPhoto(older)
	if err != nil || len(tags) != 1 {
		t.Fatalf("tags: %v (%v)", tags, err)
	}
	tag := &tags[0]

	// Two collects on the older photo, one on the newer.
	for _, collector := range []*model.User{bob, carol} {
		if err := service.CollectPhoto(collector, older); err != nil {
			t.Fatalf("collect older: %v", err)
		}
	}
	if err := service.CollectPhoto(bob, newer); err != nil {
		t.Fatalf("collect newer: %v", err)
	}

	photos, err := service.PhotosByTag(tag, service.TagOrderByCollects, 1, 10)
	if err != nil {
		t.Fatalf("photos by collects: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("photo count = %d, want 2", len(photos))
	}
	if photos[0].ID != older.ID || photos[1].ID != newer.ID {
		t.Fatalf("order = [%d %d], want [%d %d]", photos[0].ID, photos[1].ID, older.ID, newer.ID)
	}

	// An unrecognized order value falls back to newest first.
	photos, err = service.PhotosByTag(tag, "bogus", 1, 10)
	if err != nil {
		t.Fatalf("photos by time: %v", err)
	}
	if len(photos) != 2 || photos[0].ID != newer.ID {
		t.Fatalf("default order returned photo %d first, want %d", photos[0].ID, newer.ID)
	}
}
