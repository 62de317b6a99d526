package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID                int64     `json:"-"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	DateOfBirth       time.Time `json:"dob"`
	IsVerified        bool      `json:"-"`
	ProfileImage      *string   `json:"profilePic,omitempty"`
	Password          []byte    `json:"-"`
	PlaintextPassword string    `json:"-"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}

// UserClaim is the self-contained signed claim set carried by every token
// kind. Purpose tells token kinds apart so a verification token can never
// pass as an access token even though both are signed with the same secret.
type UserClaim struct {
	UserID  int64  `json:"id"`
	Purpose string `json:"purpose"`

	jwt.RegisteredClaims
}
