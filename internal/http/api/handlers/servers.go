package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/db"
	"github.com/vibechat/service/internal/models"
)

// PreMadeServerHandler serves the curated server catalog.
type PreMadeServerHandler struct {
	db *gorm.DB
}

// NewPreMadeServerHandler constructs a PreMadeServerHandler.
func NewPreMadeServerHandler(conn *gorm.DB) *PreMadeServerHandler {
	return &PreMadeServerHandler{db: conn}
}

// List returns active pre-made servers, optionally filtered by a
// case-insensitive name search.
func (h *PreMadeServerHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("server_name ASC")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := db.NormalizeLikePattern(h.db, "%"+search+"%")
		query = query.Where(db.CaseInsensitiveLikeExpr(h.db, "server_name"), pattern)
	}

	var servers []models.PreMadeServer
	if errFind := query.Find(&servers).Error; errFind != nil {
		respondError(c, errFind)
		return
	}

	out := make([]gin.H, 0, len(servers))
	for i := range servers {
		out = append(out, serverJSON(&servers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "servers": out})
}

// GetByName returns one pre-made server by its unique name.
func (h *PreMadeServerHandler) GetByName(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		respondError(c, validationError("Missing server name"))
		return
	}

	var server models.PreMadeServer
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("server_name = ?", name).First(&server).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondError(c, notFoundError("Server not found"))
			return
		}
		respondError(c, errFind)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "server": serverJSON(&server)})
}

// serverJSON renders a pre-made server's public fields.
func serverJSON(server *models.PreMadeServer) gin.H {
	return gin.H{
		"id":                server.ID,
		"server_name":       server.ServerName,
		"description":       server.Description,
		"server_type":       server.ServerType,
		"theme_color":       server.ThemeColor,
		"server_icon":       server.ServerIcon,
		"max_members":       server.MaxMembers,
		"current_members":   server.CurrentMembers,
		"auto_assign_users": server.AutoAssignUsers,
	}
}
