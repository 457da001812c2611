package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// errorBody is the JSON shape for every failure.
type errorBody struct {
	Error string `json:"error"`
}

// OK sends 200 with the resource as the response body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 with the created resource.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with an error message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: msg})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, errorBody{Error: msg})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, errorBody{Error: msg})
}

// NotFound sends 404.
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, errorBody{Error: msg})
}

// Conflict sends 409.
func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, errorBody{Error: msg})
}

// Internal sends 500. The underlying message is passed through to the caller
// to aid operator debugging.
func Internal(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, errorBody{Error: msg})
}

// Postgres SQLSTATEs the handlers distinguish.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsNotFound reports whether err is a pgx no-rows error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsConflict reports whether err is a postgres unique-constraint violation.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsForeignKey reports whether err is a postgres foreign-key violation,
// which handlers surface as a missing parent resource.
func IsForeignKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// StoreError maps a repository error to 404, 409 or 500.
func StoreError(c *gin.Context, err error, notFoundMsg, conflictMsg string) {
	switch {
	case IsNotFound(err):
		NotFound(c, notFoundMsg)
	case IsConflict(err):
		Conflict(c, conflictMsg)
	default:
		Internal(c, err.Error())
	}
}
