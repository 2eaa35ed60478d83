package request

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tranquility/internal/pkg/apperror"
	"tranquility/internal/pkg/response"
	"tranquility/internal/pkg/validator"
)

// BindJSON decodes and validates the body, writing a 400 on failure.
func BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Fail(c, apperror.Validation("Invalid request body"))
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return false
	}
	return true
}

// BindQuery decodes and validates query parameters.
func BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Fail(c, apperror.Validation("Invalid query parameters"))
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return false
	}
	return true
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, apperror.Validation("Invalid "+name))
		return 0, false
	}
	return id, true
}

// IDList parses "1,2,3" into ids, ignoring blanks.
func IDList(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperror.Validation("Invalid id list")
		}
		out = append(out, id)
	}
	return out, nil
}
