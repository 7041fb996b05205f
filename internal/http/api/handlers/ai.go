package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vibechat/service/internal/config"
	"github.com/vibechat/service/internal/idgen"
)

// maxGeneratedLength caps caller-supplied identifier lengths.
const maxGeneratedLength = 64

// analysisConfidence is the fixed confidence reported by the
// placeholder text analysis.
const analysisConfidence = 0.85

// AIHandler serves the identifier-generation and placeholder analysis
// endpoints. Real inference is out of scope; the configured provider
// keys are never dialed.
type AIHandler struct {
	cfg config.Config
}

// NewAIHandler constructs an AIHandler.
func NewAIHandler(cfg config.Config) *AIHandler {
	return &AIHandler{cfg: cfg}
}

// generateLinkRequest defines the request body for link generation.
type generateLinkRequest struct {
	Length int `json:"length"`
}

// GenerateRoomLink returns a fresh room code and its public URL.
func (h *AIHandler) GenerateRoomLink(c *gin.Context) {
	var body generateLinkRequest
	// An empty body means default length.
	if c.Request.ContentLength > 0 {
		if errBind := c.ShouldBindJSON(&body); errBind != nil {
			respondError(c, validationError("Invalid JSON body"))
			return
		}
	}

	length := body.Length
	if length <= 0 {
		length = idgen.RoomCodeLength
	}
	if length > maxGeneratedLength {
		respondError(c, validationError("Requested length too long"))
		return
	}

	code := idgen.Code(length)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Room link generated successfully",
		"data": gin.H{
			"room_code": code,
			"room_link": idgen.RoomLink(h.cfg.BaseURL, code),
		},
	})
}

// GenerateUserID returns a fresh external user ID.
func (h *AIHandler) GenerateUserID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User ID generated successfully",
		"data":    gin.H{"user_id": idgen.UserID()},
	})
}

// GenerateAPIToken returns a fresh API token.
func (h *AIHandler) GenerateAPIToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "API token generated successfully",
		"data":    gin.H{"api_token": idgen.APIToken()},
	})
}

// analyzeTextRequest defines the request body for text analysis.
type analyzeTextRequest struct {
	Text string `json:"text"`
}

// AnalyzeText returns placeholder text metrics in place of real
// sentiment or toxicity analysis.
func (h *AIHandler) AnalyzeText(c *gin.Context) {
	var body analyzeTextRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		respondError(c, validationError("Missing text"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Text analyzed successfully",
		"data": gin.H{
			"text_length": len(text),
			"word_count":  len(strings.Fields(text)),
			"sentiment":   "neutral",
			"confidence":  analysisConfidence,
			"model":       h.cfg.AI.DefaultModel,
		},
	})
}
