package models

import (
	"net/url"
	"strings"
	"time"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type User struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email" bson:"email"`
	Password   string    `json:"-" bson:"password"`
	Avatar     string    `json:"avatar" bson:"avatar"`
	Settings   Settings  `json:"settings" bson:"settings"`
	IsActive   bool      `json:"isActive" bson:"isActive"`
	LastActive time.Time `json:"lastActive" bson:"lastActive"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

type Settings struct {
	Theme            string `json:"theme" bson:"theme"`
	SoundEnabled     bool   `json:"soundEnabled" bson:"soundEnabled"`
	AutosaveEnabled  bool   `json:"autosaveEnabled" bson:"autosaveEnabled"`
	RemindersEnabled bool   `json:"remindersEnabled" bson:"remindersEnabled"`
	Notifications    bool   `json:"notifications" bson:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:            ThemeDark,
		SoundEnabled:     true,
		AutosaveEnabled:  true,
		RemindersEnabled: false,
		Notifications:    true,
	}
}

// DefaultAvatar builds the generated initials avatar for a display name.
func DefaultAvatar(name string) string {
	if strings.TrimSpace(name) == "" {
		name = "User"
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=6366f1&color=fff"
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CheckEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"`
}

type SettingsPatch struct {
	Theme            Optional[string] `json:"theme"`
	SoundEnabled     Optional[bool]   `json:"soundEnabled"`
	AutosaveEnabled  Optional[bool]   `json:"autosaveEnabled"`
	RemindersEnabled Optional[bool]   `json:"remindersEnabled"`
	Notifications    Optional[bool]   `json:"notifications"`
}

// Merge applies the supplied keys over s; absent or null keys keep their value.
func (p SettingsPatch) Merge(s Settings) Settings {
	if p.Theme.Present() {
		s.Theme = p.Theme.Value
	}
	if p.SoundEnabled.Present() {
		s.SoundEnabled = p.SoundEnabled.Value
	}
	if p.AutosaveEnabled.Present() {
		s.AutosaveEnabled = p.AutosaveEnabled.Value
	}
	if p.RemindersEnabled.Present() {
		s.RemindersEnabled = p.RemindersEnabled.Value
	}
	if p.Notifications.Present() {
		s.Notifications = p.Notifications.Value
	}
	return s
}

type ProfilePatch struct {
	Name   Optional[string] `json:"name"`
	Avatar Optional[string] `json:"avatar"`
}

// Apply updates the supplied profile fields. A null or empty avatar resets
// it to the generated default.
func (p ProfilePatch) Apply(u *User) {
	if p.Name.Present() {
		u.Name = strings.TrimSpace(p.Name.Value)
	}
	if p.Avatar.Set {
		avatar := strings.TrimSpace(p.Avatar.Value)
		if avatar == "" {
			avatar = DefaultAvatar(u.Name)
		}
		u.Avatar = avatar
	}
}
