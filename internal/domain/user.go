package domain

import "errors"

// Common validation errors for User.
var (
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the book exchange.
// Email and phone are optional contact channels; they are disclosed to the
// other party of a deal only once the deal has been agreed.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Password       string `json:"-"` // Plaintext password, present only between registration and hashing
	HashedPassword string `json:"-"` // Never expose the password hash in JSON
	IsAdmin        bool   `json:"is_admin"`
}

// NewUser creates a new User with the given credentials and contact details.
// The ID is assigned by the store on creation.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The store is responsible for hashing it before persisting.
func NewUser(username, email, phone, password string) (*User, error) {
	user := &User{
		Username: username,
		Email:    email,
		Phone:    phone,
		Password: password,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}

	// A user must carry either a plaintext password (pre-hashing) or an
	// already hashed one (loaded from the store).
	if u.Password == "" && u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// Contact returns the user's preferred contact detail: email when present,
// otherwise phone.
func (u *User) Contact() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Phone
}
