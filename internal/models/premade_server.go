package models

import "time"

// Pre-made server type categories.
const (
	ServerTypeGaming  = "GAMING"
	ServerTypeStudy   = "STUDY"
	ServerTypeWork    = "WORK"
	ServerTypeSocial  = "SOCIAL"
	ServerTypeGeneral = "GENERAL"
)

// PreMadeServer represents a curated server template users can join
// without creating a room themselves.
type PreMadeServer struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ServerName  string `gorm:"type:varchar(100);not null;uniqueIndex"` // Unique display name.
	Description string `gorm:"type:varchar(500)"`                      // Server description.
	ServerType  string `gorm:"type:varchar(50);not null"`              // Category, one of the ServerType constants.

	ThemeColor string `gorm:"type:varchar(20);not null;default:'#8B5CF6'"` // Accent color shown in clients.
	ServerIcon string `gorm:"type:varchar(500)"`                           // Icon URL.

	Active          bool `gorm:"not null;default:true"` // Whether the server is joinable.
	AutoAssignUsers bool `gorm:"not null;default:true"` // Whether new users are auto-assigned.

	MaxMembers     int `gorm:"not null;default:1000"` // Member capacity.
	CurrentMembers int `gorm:"not null;default:0"`    // Current member count.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
