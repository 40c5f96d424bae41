package service_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"

	"album-server/internal/db"
	"album-server/internal/model"
	"album-server/internal/service"
	"album-server/internal/testutils"

	"github.com/disintegration/imaging"
)

var userSeq int

// setup brings up an isolated database plus a test configuration with
// temp upload directories.
func setup(t *testing.T) {
	t.Helper()
	testutils.SetupConfig(t)
	testutils.SetupDB(t)
}

// newUser registers a confirmed account with a unique name.
func newUser(t *testing.T) *model.User {
	t.Helper()
	userSeq++
	username := fmt.Sprintf("user%d", userSeq)
	user, err := service.Register(username, username+"@example.com", username, "password123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	if err := db.DB.Model(user).Update("confirmed", true).Error; err != nil {
		t.Fatalf("confirm %s: %v", username, err)
	}
	user.Confirmed = true
	return user
}

// newUnconfirmedUser registers an account without confirming it.
func newUnconfirmedUser(t *testing.T) *model.User {
	t.Helper()
	userSeq++
	username := fmt.Sprintf("fresh%d", userSeq)
	user, err := service.Register(username, username+"@example.com", username, "password123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

// promote moves a user into the named role directly.
func promote(t *testing.T, user *model.User, roleName string) {
	t.Helper()
	var role model.Role
	if err := db.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("load role %s: %v", roleName, err)
	}
	if err := db.DB.Model(user).Update("role_id", role.ID).Error; err != nil {
		t.Fatalf("promote to %s: %v", roleName, err)
	}
	user.RoleID = role.ID
}

// testImageBytes renders an encodable image of the given width.
func testImageBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

// uploadTestPhoto stores a photo for the user.
func uploadTestPhoto(t *testing.T, user *model.User) *model.Photo {
	t.Helper()
	photo, err := service.UploadPhoto(user, "test.png", testImageBytes(t, 1000, 600), "a test photo")
	if err != nil {
		t.Fatalf("upload photo: %v", err)
	}
	return photo
}

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.DB.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
