package models

import (
	"time"
)

// User is the persisted identity record. The same struct is mapped by gorm
// (MySQL) and by the mongo driver (bson tags).
type User struct {
	ID              string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name            string    `gorm:"size:120;not null" bson:"name" json:"name"`
	Email           string    `gorm:"uniqueIndex;size:320;not null" bson:"email" json:"email"`
	PasswordHash    string    `gorm:"size:255" bson:"password,omitempty" json:"-"`
	IsEmailVerified bool      `bson:"isEmailVerified" json:"isEmailVerified"`
	OTP             OTP       `gorm:"embedded;embeddedPrefix:otp_" bson:"otp" json:"-"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OTP is the outstanding password reset code of a user. An empty code means
// no reset is pending.
type OTP struct {
	Code      string     `gorm:"size:8" bson:"code,omitempty"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty"`
}

// Pending reports whether a code has been issued and not yet cleared.
func (o OTP) Pending() bool {
	return o.Code != "" && o.ExpiresAt != nil
}

// HasPassword reports whether the account can log in with a local password.
// Accounts created through Google sign-in have none.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// UserPatch carries a partial profile update. Nil or blank fields are left
// untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}
