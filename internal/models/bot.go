package models

import "time"

// Bot represents an AI persona owned by a user and optionally assigned
// to a room.
type Bot struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:varchar(100);not null"` // Bot name.
	Description string `gorm:"type:text"`                  // Bot description.
	Personality string `gorm:"type:text"`                  // Persona prompt text.

	BotToken string `gorm:"type:varchar(255);not null;uniqueIndex"` // Token the bot authenticates with.
	AIModel  string `gorm:"type:varchar(50);not null"`              // Backing AI model identifier.

	Active bool `gorm:"not null;default:true"` // Whether the bot responds in its room.

	OwnerID uint64  `gorm:"not null;index"`     // Owning user ID.
	Owner   *User   `gorm:"foreignKey:OwnerID"` // Owning user.
	RoomID  *uint64 `gorm:"index"`              // Assigned room ID, nil when unassigned.
	Room    *Room   `gorm:"foreignKey:RoomID"`  // Assigned room.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
