package controllers

import (
	"errors"
	"net/http"

	apperrors "storefront-api/errors"
	"storefront-api/middleware"
	"storefront-api/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// fail hands err to the error middleware as an *apperrors.Error.
func fail(c *gin.Context, err error) {
	_ = c.Error(toAppError(err))
}

func badRequest(c *gin.Context, details string) {
	_ = c.Error(apperrors.ErrValidation.WithDetails("%s", details))
}

func wrap(base *apperrors.Error, err error) *apperrors.Error {
	return apperrors.New(base.Code, base.Message, err)
}

var validationErrors = []error{
	services.ErrInvalidQuantity,
	services.ErrInvalidEmail,
	services.ErrPasswordTooShort,
	services.ErrPasswordFirstUpper,
	services.ErrPasswordNoLower,
	services.ErrPasswordNoNumber,
	services.ErrPasswordNoSpecial,
}

func toAppError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrLineItemNotFound):
		return wrap(apperrors.ErrProductNotFound, err)
	case errors.Is(err, services.ErrCartNotFound):
		return wrap(apperrors.ErrCartNotFound, err)
	case errors.Is(err, services.ErrStockExceeded):
		return wrap(apperrors.ErrStockLimitExceeded, err)
	case errors.Is(err, services.ErrConcurrentModification), errors.Is(err, services.ErrEmailTaken):
		return wrap(apperrors.ErrConflict, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		return wrap(apperrors.ErrInvalidCredentials, err)
	case errors.Is(err, services.ErrNoUpdateFields):
		return wrap(apperrors.ErrBadRequest, err)
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return wrap(apperrors.ErrValidation, err)
		}
	}
	return err
}

// objectIDParam parses a 24-hex path parameter, reporting a 400 when invalid.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	raw := c.Param(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		badRequest(c, "invalid "+name+": "+raw)
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser returns the authenticated user's id set by AuthRequired.
func currentUser(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.UserIDKey))
	if err != nil {
		_ = c.Error(apperrors.ErrUnauthorized.WithDetails("authentication required"))
		return primitive.NilObjectID, false
	}
	return id, true
}

func statusFor(outcome services.Outcome) int {
	if outcome == services.OutcomeCreated {
		return http.StatusCreated
	}
	return http.StatusOK
}
