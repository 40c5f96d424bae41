package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"album-server/internal/config"
	"album-server/internal/consts"
	"album-server/internal/model"
	"album-server/internal/service"

	"github.com/disintegration/imaging"
)

func TestUploadPhotoCreatesVariants(t *testing.T) {
	setup(t)
	alice := newUser(t)

	photo, err := service.UploadPhoto(alice, "pic.png", testImageBytes(t, 1000, 600), "sunset")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	dir := config.Get().Upload.Path
	for _, name := range []string{photo.Filename, photo.FilenameS, photo.FilenameM} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("stored file %s missing: %v", name, err)
		}
	}

	small, err := imaging.Open(filepath.Join(dir, photo.FilenameS))
	if err != nil {
		t.Fatalf("open small variant: %v", err)
	}
	if small.Bounds().Dx() != 400 {
		t.Fatalf("small width = %d, want 400", small.Bounds().Dx())
	}
	medium, err := imaging.Open(filepath.Join(dir, photo.FilenameM))
	if err != nil {
		t.Fatalf("open medium variant: %v", err)
	}
	if medium.Bounds().Dx() != 800 {
		t.Fatalf("medium width = %d, want 800", medium.Bounds().Dx())
	}

	if !photo.CanComment {
		t.Fatal("new photo must accept comments")
	}
}

func TestUploadPhotoNeverUpscales(t *testing.T) {
	setup(t)
	alice := newUser(t)

	photo, err := service.UploadPhoto(alice, "small.png", testImageBytes(t, 300, 200), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	dir := config.Get().Upload.Path
	medium, err := imaging.Open(filepath.Join(dir, photo.FilenameM))
	if err != nil {
		t.Fatalf("open medium variant: %v", err)
	}
	if medium.Bounds().Dx() != 300 {
		t.Fatalf("medium width = %d, want 300 (no upscale)", medium.Bounds().Dx())
	}
}

func TestUploadPhotoRequiresConfirmation(t *testing.T) {
	setup(t)
	fresh := newUnconfirmedUser(t)

	_, err := service.UploadPhoto(fresh, "pic.png", testImageBytes(t, 100, 100), "")
	if err == nil {
		t.Fatal("unconfirmed account allowed to upload")
	}
	serviceErr, ok := service.AsServiceError(err)
	if !ok || serviceErr.Code != service.ErrorCodeForbidden {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUploadPhotoRejectsGarbage(t *testing.T) {
	setup(t)
	alice := newUser(t)

	if _, err := service.UploadPhoto(alice, "x.png", []byte("not an image"), ""); err == nil {
		t.Fatal("non-image payload accepted")
	}
}

func TestDeletePhotoCascades(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	photo := uploadTestPhoto(t, alice)

	if _, err := service.AddComment(bob, photo, "nice", nil); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := service.CollectPhoto(bob, photo); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if err := service.AddTags(alice, photo, "sky"); err != nil {
		t.Fatalf("tag: %v", err)
	}

	dir := config.Get().Upload.Path
	files := []string{photo.Filename, photo.FilenameS, photo.FilenameM}

	if err := service.DeletePhoto(alice, photo); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := countRows(t, &model.Comment{}, "photo_id = ?", photo.ID); got != 0 {
		t.Fatalf("comments left: %d", got)
	}
	if got := countRows(t, &model.Collect{}, "collected_id = ?", photo.ID); got != 0 {
		t.Fatalf("collect edges left: %d", got)
	}
	if got := countRows(t, &model.Tag{}, "name = ?", "sky"); got != 0 {
		t.Fatalf("orphaned tag survived")
	}
	for _, name := range files {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("stored file %s not removed", name)
		}
	}
}

func TestDeletePhotoAuthorization(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	photo := uploadTestPhoto(t, alice)

	if err := service.DeletePhoto(bob, photo); err == nil {
		t.Fatal("unrelated user deleted a photo")
	}

	promote(t, bob, consts.RoleModerator)
	if err := service.DeletePhoto(bob, photo); err != nil {
		t.Fatalf("moderator denied delete: %v", err)
	}
}

func TestReportPhotoIncrementsFlag(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	photo := uploadTestPhoto(t, alice)

	if err := service.ReportPhoto(bob, photo); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := service.ReportPhoto(bob, photo); err != nil {
		t.Fatalf("second report: %v", err)
	}

	fresh, err := service.GetPhotoByID(photo.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Flag != 2 {
		t.Fatalf("flag = %d, want 2", fresh.Flag)
	}

	unconfirmed := newUnconfirmedUser(t)
	if err := service.ReportPhoto(unconfirmed, photo); err == nil {
		t.Fatal("unconfirmed account allowed to report")
	}
}

func TestToggleCommentableAuthorOnly(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	photo := uploadTestPhoto(t, alice)

	if err := service.ToggleCommentable(bob, photo); err == nil {
		t.Fatal("non-author toggled comments")
	}
	if err := service.ToggleCommentable(alice, photo); err != nil {
		t.Fatalf("author toggle: %v", err)
	}
	if photo.CanComment {
		t.Fatal("can_comment not flipped")
	}
}

func TestNextAndPreviousPhoto(t *testing.T) {
	setup(t)
	alice := newUser(t)
	first := uploadTestPhoto(t, alice)
	second := uploadTestPhoto(t, alice)
	third := uploadTestPhoto(t, alice)

	next, err := service.NextPhoto(second)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("next of middle = %+v, want id %d", next, first.ID)
	}

	prev, err := service.PreviousPhoto(second)
	if err != nil {
		t.Fatalf("previous: %v", err)
	}
	if prev == nil || prev.ID != third.ID {
		t.Fatalf("previous of middle = %+v, want id %d", prev, third.ID)
	}

	if got, _ := service.NextPhoto(first); got != nil {
		t.Fatal("oldest photo should have no next")
	}
	if got, _ := service.PreviousPhoto(third); got != nil {
		t.Fatal("newest photo should have no previous")
	}
}

func TestHomeFeedFollowsJoin(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	carol := newUser(t)

	own := uploadTestPhoto(t, alice)
	bobs := uploadTestPhoto(t, bob)
	uploadTestPhoto(t, carol) // not followed

	if err := service.Follow(alice, bob); err != nil {
		t.Fatalf("follow: %v", err)
	}

	feed, err := service.HomeFeed(alice, 1, 10)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	ids := map[uint]bool{}
	for _, p := range feed {
		ids[p.ID] = true
	}
	if len(feed) != 2 || !ids[own.ID] || !ids[bobs.ID] {
		t.Fatalf("feed ids = %v, want own %d and followed %d only", ids, own.ID, bobs.ID)
	}
}

func TestExplorePhotosSamplesUpToLimit(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)

	uploaded := map[uint]bool{}
	for i := 0; i < 3; i++ {
		uploaded[uploadTestPhoto(t, alice).ID] = true
		uploaded[uploadTestPhoto(t, bob).ID] = true
	}

	photos, err := service.ExplorePhotos(4)
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if len(photos) != 4 {
		t.Fatalf("photo count = %d, want 4", len(photos))
	}
	seen := map[uint]bool{}
	for _, p := range photos {
		if !uploaded[p.ID] {
			t.Fatalf("explore returned unknown photo %d", p.ID)
		}
		if seen[p.ID] {
			t.Fatalf("explore returned photo %d twice", p.ID)
		}
		seen[p.ID] = true
	}

	// A limit above the table size returns everything once.
	photos, err = service.ExplorePhotos(50)
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if len(photos) != len(uploaded) {
		t.Fatalf("photo count = %d, want %d", len(photos), len(uploaded))
	}
}
