package handlers

import (
	"errors"
	"net/http"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/cleanup"
	"real-estate-investor/internal/compare"
	"real-estate-investor/internal/filter"
	"real-estate-investor/internal/models"
	"real-estate-investor/internal/scheduler"
	"strconv"

	"github.com/gin-gonic/gin"
)

// errorStatus maps domain errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, compare.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, filter.ErrInvalidParam), errors.Is(err, filter.ErrUnknownStrategy),
		errors.Is(err, models.ErrInvalidProperty), errors.Is(err, catalog.ErrDuplicateID):
		return http.StatusBadRequest
	case errors.Is(err, scheduler.ErrAlreadyRunning), errors.Is(err, cleanup.ErrTooManyDeletions):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

// queryInt reads a positive integer query parameter, clamped to max
func queryInt(c *gin.Context, key string, def, max int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// sessionMembers returns the ids in the session named by the "session"
// query parameter. No parameter yields a nil set.
func sessionMembers(c *gin.Context, store *compare.Store) (map[string]bool, error) {
	sid := c.Query("session")
	if sid == "" || store == nil {
		return nil, nil
	}
	ids, err := store.IDs(sid)
	if err != nil {
		return nil, err
	}
	members := make(map[string]bool, len(ids))
	for _, id := range ids {
		members[id] = true
	}
	return members, nil
}
