package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/foodgram/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = 12

const (
	maxEmailLength    = 254
	maxUsernameLength = 150
	maxNameLength     = 150
	// ReservedUsername collides with the /users/me route.
	ReservedUsername = "me"
)

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is a registered member who can publish recipes, follow authors,
// and keep favorites and a shopping cart.
type User struct {
	shared.BaseEntity
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
}

// NewUser creates a user with a hashed password
func NewUser(email, username, firstName, lastName, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePersonName("first name", firstName); err != nil {
		return nil, err
	}
	if err := validatePersonName("last name", lastName); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	}, nil
}

// ErrPasswordUnchanged is returned when the new password repeats the current one
var ErrPasswordUnchanged = shared.NewDomainError("PASSWORD_UNCHANGED", "New password must differ from the current one")

// VerifyPassword checks a plain password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after checking the current one
func (u *User) ChangePassword(currentPassword, newPassword string) error {
	if !u.VerifyPassword(currentPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if newPassword == currentPassword {
		return ErrPasswordUnchanged
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// ValidateUsername checks the username rules shared by registration and
// request validation
func ValidateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 150 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, digits and @/./+/-/_")
	}
	if strings.EqualFold(username, ReservedUsername) {
		return shared.NewDomainError("INVALID_USERNAME", "Username 'me' is reserved")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > maxEmailLength {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePersonName(field, value string) error {
	if value == "" {
		return shared.NewDomainError("INVALID_NAME", strings.ToUpper(field[:1])+field[1:]+" cannot be empty")
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", strings.ToUpper(field[:1])+field[1:]+" cannot exceed 150 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
