package model

import (
	"time"
)

// User is a local account linked to an upstream identity provider.
// Subject is the provider's stable identifier for the user: the numeric
// GitHub ID rendered as a decimal string, or the QQ openid.
type User struct {
	ID        uint `gorm:"primaryKey"`
	Provider  string
	Subject   string
	Username  string
	Name      string
	Email     string
	AvatarURL string
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) TableName() string {
	return "users"
}
