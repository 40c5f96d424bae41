package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"album-server/internal/config"
	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"
	"album-server/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register creates an account: validates input, hashes the password,
// assigns the default role, writes the self-follow edge in the same
// transaction and renders the identicon avatars. The confirmation mail is
// sent out-of-band by the caller via RequestConfirmation.
func Register(name, email, username, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if ok, msg := utils.ValidateEmail(email); !ok {
		return nil, NewValidationError(msg)
	}
	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, NewValidationError(msg)
	}

	var count int64
	if err := db.DB.Model(&model.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		return nil, NewInternalError("registration failed")
	}
	if count > 0 {
		return nil, NewValidationError("email is already registered")
	}
	if err := db.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, NewInternalError("registration failed")
	}
	if count > 0 {
		return nil, NewValidationError("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewInternalError("registration failed")
	}

	user := model.User{
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Active:       true,
		AvatarS:      utils.AvatarFilename(username, "_s"),
		AvatarM:      utils.AvatarFilename(username, "_m"),
		AvatarL:      utils.AvatarFilename(username, "_l"),

		ReceiveCommentNotification: true,
		ReceiveFollowNotification:  true,
		ReceiveCollectNotification: true,
		PublicCollections:          true,
		PublicFollowers:            true,
		PublicFollowing:            true,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := AssignDefaultRole(tx, &user); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		// Self-follow seeds the home-feed join.
		return tx.Create(&model.Follow{FollowerID: user.ID, FollowedID: user.ID}).Error
	})
	if err != nil {
		return nil, NewInternalError("registration failed")
	}

	if err := writeIdenticonAvatars(username); err != nil {
		log.Printf("failed to write avatars for %q: %v", username, err)
	}

	return &user, nil
}

// Authenticate looks a user up by email (case-insensitive) and verifies
// the password. It fails closed: any mismatch yields (nil, nil).
func Authenticate(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	err := db.DB.Where("LOWER(email) = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, NewInternalError("login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return &user, nil
}

// IssueLoginToken returns a signed session token. Blocked (inactive)
// accounts cannot log in; a locked account still can, its role is what
// limits it.
func IssueLoginToken(user *model.User) (string, error) {
	if !user.Active {
		return "", NewForbiddenError("this account has been blocked")
	}

	cfg := config.Get()
	token, err := utils.GenerateLoginToken(user.ID, user.Username, time.Hour*time.Duration(cfg.JWT.ExpirationHours))
	if err != nil {
		return "", NewInternalError("login failed, please retry later")
	}
	return token, nil
}

func actionTokenDuration() time.Duration {
	hours := config.Get().JWT.ActionTokenExpirationHours
	if hours <= 0 {
		hours = 1
	}
	return time.Hour * time.Duration(hours)
}

// RequestConfirmation issues a confirmation token and mails it.
func RequestConfirmation(user *model.User) (string, error) {
	token, err := utils.GenerateActionToken(user.ID, consts.OperationConfirm, actionTokenDuration(), "")
	if err != nil {
		return "", NewInternalError("failed to generate confirmation token")
	}
	go func() {
		if err := SendConfirmEmail(user.Email, user.Username, token); err != nil {
			log.Printf("failed to send confirmation email to %s: %v", user.Email, err)
		}
	}()
	return token, nil
}

// RequestPasswordReset issues a reset token for the account registered
// under email and mails it. Unknown addresses are reported as not found.
func RequestPasswordReset(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	err := db.DB.Where("LOWER(email) = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", NewNotFoundError("no account with that email")
	}
	if err != nil {
		return "", NewInternalError("failed to generate reset token")
	}

	token, err := utils.GenerateActionToken(user.ID, consts.OperationResetPassword, actionTokenDuration(), "")
	if err != nil {
		return "", NewInternalError("failed to generate reset token")
	}
	go func() {
		if err := SendResetPasswordEmail(user.Email, user.Username, token); err != nil {
			log.Printf("failed to send reset email to %s: %v", user.Email, err)
		}
	}()
	return token, nil
}

// RequestEmailChange issues a change-email token carrying the new address
// and mails it there. The stored email is untouched until the token is
// validated.
func RequestEmailChange(user *model.User, newEmail string) (string, error) {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if ok, msg := utils.ValidateEmail(newEmail); !ok {
		return "", NewValidationError(msg)
	}

	var count int64
	if err := db.DB.Model(&model.User{}).Where("LOWER(email) = ?", newEmail).Count(&count).Error; err != nil {
		return "", NewInternalError("failed to generate change-email token")
	}
	if count > 0 {
		return "", NewValidationError("email is already registered")
	}

	token, err := utils.GenerateActionToken(user.ID, consts.OperationChangeEmail, actionTokenDuration(), newEmail)
	if err != nil {
		return "", NewInternalError("failed to generate change-email token")
	}
	go func() {
		if err := SendChangeEmailEmail(newEmail, user.Username, token); err != nil {
			log.Printf("failed to send change-email mail to %s: %v", newEmail, err)
		}
	}()
	return token, nil
}

// ValidateToken verifies an account-action token against the presented
// user and, on success, commits the operation's side effect: CONFIRM
// marks the account confirmed, RESET_PASSWORD stores newPassword,
// CHANGE_EMAIL stores the address embedded in the token. Every rejection
// (bad signature, expiry, operation or subject mismatch, invalid input)
// returns false; this function never surfaces an error.
func ValidateToken(user *model.User, token, operation, newPassword string) bool {
	if user == nil {
		return false
	}

	claims, err := utils.ParseActionToken(token)
	if err != nil {
		return false
	}
	if claims.Operation != operation || claims.ID != user.ID {
		return false
	}

	switch operation {
	case consts.OperationConfirm:
		if err := db.DB.Model(user).Update("confirmed", true).Error; err != nil {
			return false
		}
		user.Confirmed = true
		return true

	case consts.OperationResetPassword:
		if ok, _ := utils.ValidatePassword(newPassword); !ok {
			return false
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return false
		}
		if err := db.DB.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			return false
		}
		user.PasswordHash = string(hash)
		return true

	case consts.OperationChangeEmail:
		newEmail := strings.ToLower(strings.TrimSpace(claims.NewEmail))
		if ok, _ := utils.ValidateEmail(newEmail); !ok {
			return false
		}
		var count int64
		if err := db.DB.Model(&model.User{}).
			Where("LOWER(email) = ? AND id != ?", newEmail, user.ID).
			Count(&count).Error; err != nil || count > 0 {
			return false
		}
		if err := db.DB.Model(user).Update("email", newEmail).Error; err != nil {
			return false
		}
		user.Email = newEmail
		return true
	}

	return false
}

func writeIdenticonAvatars(username string) error {
	dir := config.Get().Upload.AvatarPath
	if dir == "" {
		return nil
	}
	return SaveIdenticonAvatars(username, dir)
}
