package db

import (
	"fmt"

	"github.com/vibechat/service/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for the current dialect and
// seeds the default pre-made servers. Safe to run at every startup.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite, DialectPostgres, "":
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Bot{},
		&models.Subscription{},
		&models.PreMadeServer{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	if errSeed := ensureDefaultServers(conn); errSeed != nil {
		return errSeed
	}
	return nil
}

// ensureDefaultServers seeds the pre-made server catalog when empty.
func ensureDefaultServers(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.PreMadeServer{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count pre-made servers: %w", errCount)
	}
	if count > 0 {
		return nil
	}

	defaults := []models.PreMadeServer{
		{ServerName: "Gaming Lounge", Description: "Talk games, find teammates", ServerType: models.ServerTypeGaming, ThemeColor: "#EF4444", Active: true, AutoAssignUsers: true, MaxMembers: 1000},
		{ServerName: "Study Hall", Description: "Focused study sessions", ServerType: models.ServerTypeStudy, ThemeColor: "#3B82F6", Active: true, AutoAssignUsers: true, MaxMembers: 1000},
		{ServerName: "Workspace", Description: "Coworking and productivity", ServerType: models.ServerTypeWork, ThemeColor: "#10B981", Active: true, AutoAssignUsers: true, MaxMembers: 1000},
		{ServerName: "Social Club", Description: "Hang out and meet people", ServerType: models.ServerTypeSocial, ThemeColor: "#8B5CF6", Active: true, AutoAssignUsers: true, MaxMembers: 1000},
		{ServerName: "General Chat", Description: "Anything goes", ServerType: models.ServerTypeGeneral, ThemeColor: "#F59E0B", Active: true, AutoAssignUsers: true, MaxMembers: 1000},
	}
	if errCreate := conn.Create(&defaults).Error; errCreate != nil {
		return fmt.Errorf("db: seed pre-made servers: %w", errCreate)
	}
	return nil
}
