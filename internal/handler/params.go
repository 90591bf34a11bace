package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter; absent yields 0.
func queryID(c *gin.Context, name string) (int64, error) {
	return parseOptionalID(c.Query(name), name)
}

func parseOptionalID(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// optionalQueryID is queryID returning nil when the parameter is absent.
func optionalQueryID(c *gin.Context, name string) (*int64, error) {
	id, err := queryID(c, name)
	if err != nil || id == 0 {
		return nil, err
	}
	return &id, nil
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	return page, size
}

func bindError(err error, what string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s payload", what))
}
