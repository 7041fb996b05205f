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

// BotHandler serves bot management endpoints.
type BotHandler struct {
	db           *gorm.DB
	defaultModel string
}

// NewBotHandler constructs a BotHandler.
func NewBotHandler(db *gorm.DB, defaultModel string) *BotHandler {
	return &BotHandler{db: db, defaultModel: defaultModel}
}

// createBotRequest defines the request body for bot creation.
type createBotRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Personality string  `json:"personality"`
	AIModel     string  `json:"ai_model"`
	RoomID      *uint64 `json:"room_id"`
	UserID      string  `json:"user_id"`
}

// Create creates a bot owned by the given external user, optionally
// assigned to one of their rooms.
func (h *BotHandler) Create(c *gin.Context) {
	var body createBotRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		respondError(c, validationError("Missing bot name"))
		return
	}

	ctx := c.Request.Context()
	owner, errOwner := findUserByExternalID(ctx, h.db, body.UserID)
	if errOwner != nil {
		respondError(c, errOwner)
		return
	}

	if body.RoomID != nil {
		var room models.Room
		if errFind := h.db.WithContext(ctx).First(&room, *body.RoomID).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				respondError(c, notFoundError("Room not found"))
				return
			}
			respondError(c, errFind)
			return
		}
		if room.CreatorID != owner.ID {
			respondError(c, forbiddenError("Not the room owner"))
			return
		}
	}

	aiModel := strings.TrimSpace(body.AIModel)
	if aiModel == "" {
		aiModel = h.defaultModel
	}

	bot := models.Bot{
		Name:        name,
		Description: strings.TrimSpace(body.Description),
		Personality: strings.TrimSpace(body.Personality),
		AIModel:     aiModel,
		Active:      true,
		OwnerID:     owner.ID,
		RoomID:      body.RoomID,
	}
	var errCreate error
	for attempt := 0; attempt < codeRetryAttempts; attempt++ {
		bot.BotToken = idgen.BotToken()
		errCreate = h.db.WithContext(ctx).Create(&bot).Error
		if errCreate == nil || !isDuplicateKey(errCreate) {
			break
		}
	}
	if errCreate != nil {
		if isDuplicateKey(errCreate) {
			respondError(c, conflictError("Could not allocate a unique bot token"))
			return
		}
		respondError(c, errCreate)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Bot created successfully",
		"bot":     botJSON(&bot),
	})
}

// ListByUser returns bots owned by the given external user.
func (h *BotHandler) ListByUser(c *gin.Context) {
	ctx := c.Request.Context()
	owner, errOwner := findUserByExternalID(ctx, h.db, c.Param("user_id"))
	if errOwner != nil {
		respondError(c, errOwner)
		return
	}

	var bots []models.Bot
	if errFind := h.db.WithContext(ctx).
		Where("owner_id = ?", owner.ID).
		Order("created_at DESC").
		Find(&bots).Error; errFind != nil {
		respondError(c, errFind)
		return
	}

	out := make([]gin.H, 0, len(bots))
	for i := range bots {
		out = append(out, botJSON(&bots[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bots": out})
}

// ListByRoom returns the active bots assigned to a room, each with a
// summary of its owner.
func (h *BotHandler) ListByRoom(c *gin.Context) {
	roomID, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("room_id")), 10, 64)
	if errParse != nil {
		respondError(c, validationError("Invalid room id"))
		return
	}

	ctx := c.Request.Context()
	var room models.Room
	if errFind := h.db.WithContext(ctx).First(&room, roomID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondError(c, notFoundError("Room not found"))
			return
		}
		respondError(c, errFind)
		return
	}

	var bots []models.Bot
	if errFind := h.db.WithContext(ctx).
		Preload("Owner").
		Where("room_id = ? AND active = ?", roomID, true).
		Order("created_at ASC").
		Find(&bots).Error; errFind != nil {
		respondError(c, errFind)
		return
	}

	out := make([]gin.H, 0, len(bots))
	for i := range bots {
		entry := botJSON(&bots[i])
		if owner := bots[i].Owner; owner != nil {
			entry["owner"] = gin.H{
				"user_id":   owner.UserID,
				"username":  owner.Username,
				"full_name": owner.FullName,
			}
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bots": out})
}

// updateBotRequest defines the request body for bot updates. Only
// supplied fields change.
type updateBotRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Personality *string `json:"personality"`
	AIModel     *string `json:"ai_model"`
	Active      *bool   `json:"active"`
	UserID      string  `json:"user_id"`
}

// Update modifies a bot owned by the caller.
func (h *BotHandler) Update(c *gin.Context) {
	var body updateBotRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}

	ctx := c.Request.Context()
	bot, errOwn := h.ownedBot(c, body.UserID)
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
	if body.Personality != nil {
		updates["personality"] = strings.TrimSpace(*body.Personality)
	}
	if body.AIModel != nil {
		if aiModel := strings.TrimSpace(*body.AIModel); aiModel != "" {
			updates["ai_model"] = aiModel
		}
	}
	if body.Active != nil {
		updates["active"] = *body.Active
	}
	if len(updates) > 0 {
		if errUpdate := h.db.WithContext(ctx).Model(bot).Updates(updates).Error; errUpdate != nil {
			respondError(c, errUpdate)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bot updated successfully",
		"bot":     botJSON(bot),
	})
}

// Delete removes a bot owned by the caller.
func (h *BotHandler) Delete(c *gin.Context) {
	bot, errOwn := h.ownedBot(c, c.Query("user_id"))
	if errOwn != nil {
		respondError(c, errOwn)
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).
		Delete(&models.Bot{}, bot.ID).Error; errDelete != nil {
		respondError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Bot deleted successfully"})
}

// ownedBot loads the bot from the :id param and verifies the caller,
// identified by external user ID, is its owner.
func (h *BotHandler) ownedBot(c *gin.Context, userID string) (*models.Bot, error) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		return nil, validationError("Invalid bot id")
	}

	ctx := c.Request.Context()
	caller, errCaller := findUserByExternalID(ctx, h.db, userID)
	if errCaller != nil {
		return nil, errCaller
	}

	var bot models.Bot
	if errFind := h.db.WithContext(ctx).First(&bot, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Bot not found")
		}
		return nil, errFind
	}
	if bot.OwnerID != caller.ID {
		return nil, forbiddenError("Not the bot owner")
	}
	return &bot, nil
}

// botJSON renders a bot's public fields.
func botJSON(bot *models.Bot) gin.H {
	return gin.H{
		"id":          bot.ID,
		"name":        bot.Name,
		"description": bot.Description,
		"personality": bot.Personality,
		"bot_token":   bot.BotToken,
		"ai_model":    bot.AIModel,
		"active":      bot.Active,
		"owner_id":    bot.OwnerID,
		"room_id":     bot.RoomID,
		"created_at":  bot.CreatedAt,
		"updated_at":  bot.UpdatedAt,
	}
}
