package models

import "time"

// User represents a registered account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email    string `gorm:"type:text;not null;uniqueIndex"` // Email address.
	Password string `gorm:"type:text;not null"`             // Bcrypt password hash.
	FullName string `gorm:"type:text"`                      // Display name.

	UserID   string `gorm:"type:text;not null;uniqueIndex"` // External user ID exposed to clients.
	APIToken string `gorm:"type:text;not null;uniqueIndex"` // API token returned at login.

	Active        bool `gorm:"not null;default:true"`  // Whether the user can sign in.
	IsSuperuser   bool `gorm:"not null;default:false"` // Administrative flag.
	DeveloperMode bool `gorm:"not null;default:false"` // Developer features flag.

	Rooms []Room `gorm:"foreignKey:CreatorID"` // Rooms created by the user.
	Bots  []Bot  `gorm:"foreignKey:OwnerID"`   // Bots owned by the user.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
