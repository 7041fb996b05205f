package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/models"
)

// errorKind is the closed set of handler error categories. Each kind
// maps to exactly one HTTP status code.
type errorKind int

const (
	kindValidation errorKind = iota
	kindUnauthorized
	kindForbidden
	kindNotFound
	kindConflict
	kindInternal
)

type apiError struct {
	kind    errorKind
	message string
}

func (e *apiError) Error() string { return e.message }

func validationError(message string) error {
	return &apiError{kind: kindValidation, message: message}
}

func unauthorizedError(message string) error {
	return &apiError{kind: kindUnauthorized, message: message}
}

func forbiddenError(message string) error {
	return &apiError{kind: kindForbidden, message: message}
}

func notFoundError(message string) error {
	return &apiError{kind: kindNotFound, message: message}
}

func conflictError(message string) error {
	return &apiError{kind: kindConflict, message: message}
}

// respondError maps an error to its status code and writes the JSON
// error body. Unknown errors become 500 with a generic message so
// internal details never reach clients.
func respondError(c *gin.Context, err error) {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		log.WithError(err).Error("handler: unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch apiErr.kind {
	case kindValidation:
		status = http.StatusBadRequest
	case kindUnauthorized:
		status = http.StatusUnauthorized
	case kindForbidden:
		status = http.StatusForbidden
	case kindNotFound:
		status = http.StatusNotFound
	case kindConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"success": false, "message": apiErr.message})
}

// isDuplicateKey reports whether err is a unique-constraint violation.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// findUserByExternalID resolves an external user ID to its record.
func findUserByExternalID(ctx context.Context, conn *gorm.DB, userID string) (*models.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, validationError("Missing user_id")
	}
	var user models.User
	if errFind := conn.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, errFind
	}
	return &user, nil
}
