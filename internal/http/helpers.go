package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/database"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "bad_request"})
}

// respondError maps a repository error onto the right status code.
// Validation and not-found errors are recoverable and carry their message
// to the client; everything else is a 500 with the detail kept server-side.
func respondError(c *gin.Context, err error, operation string) {
	var ve *database.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Error(), Code: "validation"})
		return
	}
	var nf *database.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: nf.Error(), Code: "not_found"})
		return
	}
	var ce *database.ConstraintError
	if errors.As(err, &ce) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: ce.Error(), Code: "conflict"})
		return
	}

	log.Printf("ERROR in %s: %v", operation, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: "internal"})
}

// respondCreated sends a 201 Created response with the new resource.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondOK sends a 200 OK response with a message.
func respondOK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}
