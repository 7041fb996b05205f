package models

import "time"

// Room represents a chat room.
type Room struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:varchar(100);not null"` // Room name.
	Description string `gorm:"type:text"`                  // Room description.

	RoomCode string `gorm:"type:varchar(10);not null;uniqueIndex"`  // Short join code used in the public URL.
	RoomURL  string `gorm:"type:varchar(255);not null;uniqueIndex"` // Public URL derived from the room code.

	Active     bool `gorm:"not null;default:true"`  // Whether the room accepts members.
	MaxMembers int  `gorm:"not null;default:50"`    // Member capacity.
	AllowBots  bool `gorm:"not null;default:true"`  // Whether bots may join.

	CreatorID uint64 `gorm:"not null;index"`         // Creating user ID.
	Creator   *User  `gorm:"foreignKey:CreatorID"`   // Creating user.

	Bots []Bot `gorm:"foreignKey:RoomID"` // Bots assigned to the room.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
