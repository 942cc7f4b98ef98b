package handlers

import (
	"errors"
	"net/http"
	"strings"

	"hausly/middleware"
	"hausly/models"
	"hausly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes the request body, rendering a VALIDATION_ERROR on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeValidation, "Invalid request body", describeBindError(err))
		return false
	}
	return true
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

// session returns the loaded session or renders 401. Routes using it must mount LoadUser.
func session(c *gin.Context) (*models.Session, bool) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Authentication required", "")
		return nil, false
	}
	return sess, true
}
