package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/idgen"
	"github.com/vibechat/service/internal/models"
)

// codeRetryAttempts bounds regeneration when a generated code or token
// collides with an existing row.
const codeRetryAttempts = 3

// defaultMaxMembers is the room capacity applied when none is given.
const defaultMaxMembers = 50

// RoomHandler serves room management endpoints.
type RoomHandler struct {
	db      *gorm.DB
	baseURL string
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(db *gorm.DB, baseURL string) *RoomHandler {
	return &RoomHandler{db: db, baseURL: baseURL}
}

// createRoomRequest defines the request body for room creation.
type createRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"`
	AllowBots   *bool  `json:"allow_bots"`
	UserID      string `json:"user_id"`
}

// Create creates a room owned by the given external user.
func (h *RoomHandler) Create(c *gin.Context) {
	var body createRoomRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		respondError(c, validationError("Missing room name"))
		return
	}

	ctx := c.Request.Context()
	creator, errCreator := findUserByExternalID(ctx, h.db, body.UserID)
	if errCreator != nil {
		respondError(c, errCreator)
		return
	}

	maxMembers := body.MaxMembers
	if maxMembers <= 0 {
		maxMembers = defaultMaxMembers
	}
	allowBots := true
	if body.AllowBots != nil {
		allowBots = *body.AllowBots
	}

	room := models.Room{
		Name:        name,
		Description: strings.TrimSpace(body.Description),
		Active:      true,
		MaxMembers:  maxMembers,
		AllowBots:   allowBots,
		CreatorID:   creator.ID,
	}
	var errCreate error
	for attempt := 0; attempt < codeRetryAttempts; attempt++ {
		room.RoomCode = idgen.RoomCode()
		room.RoomURL = idgen.RoomLink(h.baseURL, room.RoomCode)
		errCreate = h.db.WithContext(ctx).Create(&room).Error
		if errCreate == nil || !isDuplicateKey(errCreate) {
			break
		}
	}
	if errCreate != nil {
		if isDuplicateKey(errCreate) {
			respondError(c, conflictError("Could not allocate a unique room code"))
			return
		}
		respondError(c, errCreate)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Room created successfully",
		"room":    roomJSON(&room),
	})
}

// ListByUser returns rooms created by the given external user.
func (h *RoomHandler) ListByUser(c *gin.Context) {
	ctx := c.Request.Context()
	creator, errCreator := findUserByExternalID(ctx, h.db, c.Param("user_id"))
	if errCreator != nil {
		respondError(c, errCreator)
		return
	}

	var rooms []models.Room
	if errFind := h.db.WithContext(ctx).
		Where("creator_id = ?", creator.ID).
		Order("created_at DESC").
		Find(&rooms).Error; errFind != nil {
		respondError(c, errFind)
		return
	}

	out := make([]gin.H, 0, len(rooms))
	for i := range rooms {
		out = append(out, roomJSON(&rooms[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": out})
}

// GetByCode returns one room by its join code.
func (h *RoomHandler) GetByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, validationError("Missing room code"))
		return
	}

	var room models.Room
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("room_code = ?", code).First(&room).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondError(c, notFoundError("Room not found"))
			return
		}
		respondError(c, errFind)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "room": roomJSON(&room)})
}

// updateRoomRequest defines the request body for room updates. Only
// supplied fields change.
type updateRoomRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MaxMembers  *int    `json:"max_members"`
	AllowBots   *bool   `json:"allow_bots"`
	UserID      string  `json:"user_id"`
}

// Update modifies a room owned by the caller.
func (h *RoomHandler) Update(c *gin.Context) {
	var body updateRoomRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}

	ctx := c.Request.Context()
	room, errOwn := h.ownedRoom(c, body.UserID)
	if errOwn != nil {
		respondError(c, errOwn)
		return
	}

	updates := map[string]any{}
	if body.Name != nil {
		if name := strings.TrimSpace(*body.Name); name != "" {
			updates["name"] = name
		}
	}
	if body.Description != nil {
		updates["description"] = strings.TrimSpace(*body.Description)
	}
	if body.MaxMembers != nil && *body.MaxMembers > 0 {
		updates["max_members"] = *body.MaxMembers
	}
	if body.AllowBots != nil {
		updates["allow_bots"] = *body.AllowBots
	}
	if len(updates) > 0 {
		if errUpdate := h.db.WithContext(ctx).Model(room).Updates(updates).Error; errUpdate != nil {
			respondError(c, errUpdate)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Room updated successfully",
		"room":    roomJSON(room),
	})
}

// Delete removes a room owned by the caller and unassigns its bots.
func (h *RoomHandler) Delete(c *gin.Context) {
	room, errOwn := h.ownedRoom(c, c.Query("user_id"))
	if errOwn != nil {
		respondError(c, errOwn)
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errClear := tx.Model(&models.Bot{}).
			Where("room_id = ?", room.ID).
			Update("room_id", nil).Error; errClear != nil {
			return errClear
		}
		return tx.Delete(&models.Room{}, room.ID).Error
	})
	if errTx != nil {
		respondError(c, errTx)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Room deleted successfully"})
}

// ownedRoom loads the room from the :id param and verifies the caller,
// identified by external user ID, is its creator.
func (h *RoomHandler) ownedRoom(c *gin.Context, userID string) (*models.Room, error) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		return nil, validationError("Invalid room id")
	}

	ctx := c.Request.Context()
	caller, errCaller := findUserByExternalID(ctx, h.db, userID)
	if errCaller != nil {
		return nil, errCaller
	}

	var room models.Room
	if errFind := h.db.WithContext(ctx).First(&room, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Room not found")
		}
		return nil, errFind
	}
	if room.CreatorID != caller.ID {
		return nil, forbiddenError("Not the room owner")
	}
	return &room, nil
}

// roomJSON renders a room's public fields.
func roomJSON(room *models.Room) gin.H {
	return gin.H{
		"id":          room.ID,
		"name":        room.Name,
		"description": room.Description,
		"room_code":   room.RoomCode,
		"room_url":    room.RoomURL,
		"active":      room.Active,
		"max_members": room.MaxMembers,
		"allow_bots":  room.AllowBots,
		"creator_id":  room.CreatorID,
		"created_at":  room.CreatedAt,
		"updated_at":  room.UpdatedAt,
	}
}
