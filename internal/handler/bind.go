package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
)

// bindJSON decodes the request body. Every decode failure maps to the same client message.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return appErrors.InvalidInput(appErrors.MsgInvalidJSON, err)
	}
	return nil
}

// pathInt reads an integer path parameter. Ids are INTEGER columns, so values
// outside int32 are rejected here instead of failing in Postgres.
func pathInt(c *gin.Context, name string) (int, error) {
	value, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil {
		return 0, appErrors.InvalidInput(fmt.Sprintf("invalid %s", name), err)
	}
	return int(value), nil
}
