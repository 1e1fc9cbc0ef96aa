package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fitcoach/api/internal/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	dateLayout   = "2006-01-02"
	maxPageLimit = 1000
)

// idParam parses a path parameter as an ObjectID, answering 400 when it is not one.
func idParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// optionalIDQuery parses an optional ObjectID query parameter.
func optionalIDQuery(c *gin.Context, name string) (*primitive.ObjectID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return nil, false
	}
	return &id, true
}

// parseOptionalID parses an optional ObjectID taken from a request body.
func parseOptionalID(c *gin.Context, field string, raw *string) (*primitive.ObjectID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(*raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", field))
		return nil, false
	}
	return &id, true
}

func parseID(c *gin.Context, field, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", field))
		return primitive.NilObjectID, false
	}
	return id, true
}

// intQuery reads an optional integer query parameter; 0 means absent.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return n, true
}

// pageQuery reads skip and limit, defaulting to the first 100 items.
func pageQuery(c *gin.Context) (repository.Page, bool) {
	page := repository.DefaultPage
	skip, ok := intQuery(c, "skip")
	if !ok {
		return page, false
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return page, false
	}
	if skip < 0 || limit < 0 || limit > maxPageLimit {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("skip must be >= 0 and limit between 1 and %d", maxPageLimit))
		return page, false
	}
	page.Skip = int64(skip)
	if limit > 0 {
		page.Limit = int64(limit)
	}
	return page, true
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// bindJSON decodes the body into req, answering 400 on malformed input.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return false
	}
	return true
}
