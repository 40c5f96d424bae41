package service_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"album-server/internal/config"
	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"
	"album-server/internal/service"
	"album-server/internal/testutils"
	"album-server/internal/utils"
)

func TestRegisterCreatesSelfFollowAndDefaultRole(t *testing.T) {
	setup(t)

	user, err := service.Register("Alice", "alice@example.com", "alice", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if !service.IsFollowing(user, user) {
		t.Fatal("self-follow edge missing after registration")
	}

	var role model.Role
	if err := db.DB.First(&role, user.RoleID).Error; err != nil {
		t.Fatalf("load role: %v", err)
	}
	if role.Name != consts.RoleUser {
		t.Fatalf("default role = %s, want %s", role.Name, consts.RoleUser)
	}
	if user.Confirmed {
		t.Fatal("new account must start unconfirmed")
	}
}

func TestRegisterAdminEmailGetsAdministratorRole(t *testing.T) {
	cfg := testutils.SetupConfig(t)
	cfg.App.AdminEmail = "admin@example.com"
	config.SetForTesting(cfg)
	testutils.SetupDB(t)

	user, err := service.Register("Admin", "admin@example.com", "admin", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !service.IsAdmin(user) {
		t.Fatal("admin email did not yield the Administrator role")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	setup(t)

	if _, err := service.Register("Alice", "alice@example.com", "alice", "password123"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := service.Register("Other", "ALICE@example.com", "other", "password123"); err == nil {
		t.Fatal("duplicate email (case-insensitive) accepted")
	}
	if _, err := service.Register("Other", "other@example.com", "alice", "password123"); err == nil {
		t.Fatal("duplicate username accepted")
	}
}

func TestRegisterWritesIdenticonAvatars(t *testing.T) {
	setup(t)

	user, err := service.Register("Alice", "alice@example.com", "alice", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	dir := config.Get().Upload.AvatarPath
	for _, name := range []string{user.AvatarS, user.AvatarM, user.AvatarL} {
		if name == "" {
			t.Fatal("avatar filename not set")
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("avatar file %s missing: %v", name, err)
		}
	}
}

func TestAuthenticateFailsClosed(t *testing.T) {
	setup(t)
	newUserWithCredentials(t, "alice", "alice@example.com", "password123")

	if user, err := service.Authenticate("alice@example.com", "wrongpass"); err != nil || user != nil {
		t.Fatalf("wrong password: got (%v, %v), want (nil, nil)", user, err)
	}
	if user, err := service.Authenticate("nobody@example.com", "password123"); err != nil || user != nil {
		t.Fatalf("unknown email: got (%v, %v), want (nil, nil)", user, err)
	}
	if user, err := service.Authenticate("ALICE@example.com ", "password123"); err != nil || user == nil {
		t.Fatalf("valid credentials rejected: (%v, %v)", user, err)
	}
}

func TestIssueLoginTokenRejectsBlockedAccount(t *testing.T) {
	setup(t)
	user := newUser(t)

	if _, err := service.IssueLoginToken(user); err != nil {
		t.Fatalf("active account: %v", err)
	}

	user.Active = false
	if _, err := service.IssueLoginToken(user); err == nil {
		t.Fatal("blocked account received a login token")
	}
}

func TestValidateTokenConfirm(t *testing.T) {
	setup(t)
	user := newUnconfirmedUser(t)

	token, err := service.RequestConfirmation(user)
	if err != nil {
		t.Fatalf("request confirmation: %v", err)
	}
	if !service.ValidateToken(user, token, consts.OperationConfirm, "") {
		t.Fatal("valid confirmation token rejected")
	}
	if !user.Confirmed {
		t.Fatal("confirmed flag not set")
	}

	fresh, err := service.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !fresh.Confirmed {
		t.Fatal("confirmed flag not persisted")
	}
}

func TestValidateTokenRejectsOperationMismatch(t *testing.T) {
	setup(t)
	user := newUnconfirmedUser(t)

	token, err := service.RequestConfirmation(user)
	if err != nil {
		t.Fatalf("request confirmation: %v", err)
	}
	if service.ValidateToken(user, token, consts.OperationResetPassword, "newpassword1") {
		t.Fatal("confirmation token accepted for password reset")
	}
	if user.Confirmed {
		t.Fatal("mismatched token still confirmed the account")
	}
}

func TestValidateTokenRejectsWrongSubject(t *testing.T) {
	setup(t)
	alice := newUnconfirmedUser(t)
	mallory := newUnconfirmedUser(t)

	token, err := service.RequestConfirmation(alice)
	if err != nil {
		t.Fatalf("request confirmation: %v", err)
	}
	if service.ValidateToken(mallory, token, consts.OperationConfirm, "") {
		t.Fatal("token accepted for a different user")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	setup(t)
	user := newUnconfirmedUser(t)

	token, err := utils.GenerateActionToken(user.ID, consts.OperationConfirm, -time.Minute, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if service.ValidateToken(user, token, consts.OperationConfirm, "") {
		t.Fatal("expired token accepted")
	}
}

func TestValidateTokenResetPassword(t *testing.T) {
	setup(t)
	user := newUserWithCredentials(t, "alice", "alice@example.com", "password123")

	token, err := service.RequestPasswordReset("alice@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}

	if service.ValidateToken(user, token, consts.OperationResetPassword, "short") {
		t.Fatal("invalid replacement password accepted")
	}
	if !service.ValidateToken(user, token, consts.OperationResetPassword, "newpassword1") {
		t.Fatal("valid reset token rejected")
	}

	if got, err := service.Authenticate("alice@example.com", "newpassword1"); err != nil || got == nil {
		t.Fatalf("new password does not authenticate: (%v, %v)", got, err)
	}
	if got, _ := service.Authenticate("alice@example.com", "password123"); got != nil {
		t.Fatal("old password still authenticates")
	}
}

func TestValidateTokenChangeEmailCommitsAddress(t *testing.T) {
	setup(t)
	user := newUserWithCredentials(t, "alice", "alice@example.com", "password123")

	token, err := service.RequestEmailChange(user, "new@example.com")
	if err != nil {
		t.Fatalf("request email change: %v", err)
	}

	// The stored address must not move before validation.
	fresh, err := service.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Email != "alice@example.com" {
		t.Fatalf("email changed before validation: %s", fresh.Email)
	}

	if !service.ValidateToken(user, token, consts.OperationChangeEmail, "") {
		t.Fatal("valid change-email token rejected")
	}
	fresh, err = service.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Email != "new@example.com" {
		t.Fatalf("email = %s, want new@example.com", fresh.Email)
	}
}

func TestRequestEmailChangeRejectsTakenAddress(t *testing.T) {
	setup(t)
	newUserWithCredentials(t, "bob", "bob@example.com", "password123")
	alice := newUserWithCredentials(t, "alice", "alice@example.com", "password123")

	if _, err := service.RequestEmailChange(alice, "bob@example.com"); err == nil {
		t.Fatal("change to an already registered address accepted")
	}
}

func TestRegisterConfirmUploadScenario(t *testing.T) {
	setup(t)

	user, err := service.Register("Dana", "dana@example.com", "dana", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.UploadPhoto(user, "early.png", testImageBytes(t, 100, 100), ""); err == nil {
		t.Fatal("upload allowed before confirmation")
	}

	token, err := service.RequestConfirmation(user)
	if err != nil {
		t.Fatalf("request confirmation: %v", err)
	}
	if !service.ValidateToken(user, token, consts.OperationConfirm, "") {
		t.Fatal("confirmation rejected")
	}

	if _, err := service.UploadPhoto(user, "first.png", testImageBytes(t, 100, 100), ""); err != nil {
		t.Fatalf("upload after confirmation: %v", err)
	}
}

func newUserWithCredentials(t *testing.T, username, email, password string) *model.User {
	t.Helper()
	user, err := service.Register(username, email, username, password)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}
