package handlers

import (
	"errors"
	"net/http"

	"user-mgmt-go/pkg/models"
	"user-mgmt-go/pkg/services"

	"github.com/gin-gonic/gin"
)

const successMessage = "success"

func ok[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, models.Result[T]{
		Code:    models.CodeSuccess,
		Message: successMessage,
		Data:    data,
	})
}

// fail reports business failures inside a 200 envelope; anything else is an
// internal error.
func fail(c *gin.Context, err error) {
	var be *services.Error
	if errors.As(err, &be) {
		c.JSON(http.StatusOK, models.Result[any]{Code: be.Code, Message: be.Message})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.Result[any]{
		Code:    models.CodeError,
		Message: "operation failed",
	})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusOK, models.Result[any]{
		Code:    models.CodeError,
		Message: "invalid request: " + err.Error(),
	})
}
