package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape for all error responses.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK sends a 200 JSON response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 JSON response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// BadRequest sends 400 with an error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: err})
}

// NotFound sends 404 with an error message.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, ErrorBody{Error: err})
}

// TooManyRequests sends 429 with an error message.
func TooManyRequests(c *gin.Context, err string) {
	c.JSON(http.StatusTooManyRequests, ErrorBody{Error: err})
}

// Internal sends 500 with a fixed body; internals are logged, never returned.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: "internal server error"})
}
