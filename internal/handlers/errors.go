package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

var notFoundResources = []struct {
	err      error
	resource string
}{
	{services.ErrUserNotFound, "user"},
	{services.ErrAssetNotFound, "asset"},
	{services.ErrRequestNotFound, "request"},
	{services.ErrAssignmentNotFound, "assignment"},
	{services.ErrEmployeeNotFound, "employee"},
	{services.ErrPackageNotFound, "package"},
}

var conflictKeys = []struct {
	err error
	key string
}{
	{services.ErrUserExists, i18n.KeyAuthUserExists},
	{services.ErrAlreadyRequested, i18n.KeyRequestAlreadyRequested},
	{services.ErrAlreadyProcessed, i18n.KeyRequestAlreadyProcessed},
	{services.ErrAlreadyReturned, i18n.KeyAssignmentAlreadyReturned},
	{services.ErrAlreadyRemoved, i18n.KeyEmployeeAlreadyRemoved},
	{services.ErrSeatLimitReached, i18n.KeyEmployeeSeatLimitReached},
}

// respondError writes the response for an error returned by a service.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthUserNotFound))

	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")

	case errors.Is(err, services.ErrNotFound):
		resource := "resource"
		for _, r := range notFoundResources {
			if errors.Is(err, r.err) {
				resource = r.resource
				break
			}
		}
		utils.NotFoundResponse(c, resource)

	case errors.Is(err, services.ErrConflict):
		key := i18n.KeyConflict
		for _, k := range conflictKeys {
			if errors.Is(err, k.err) {
				key = k.key
				break
			}
		}
		utils.ConflictResponse(c, i18n.T(lang, key))

	case errors.Is(err, services.ErrPaymentProvider):
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyPaymentProviderFailed))

	case errors.Is(err, services.ErrUpload):
		logrus.WithError(err).Error("Image upload failed")
		utils.ErrorResponse(c, http.StatusBadGateway, "UPLOAD_FAILED", i18n.T(lang, i18n.KeyFileUploadFailed), nil)

	case errors.Is(err, services.ErrInvalidInput):
		if details := utils.GetValidationErrors(err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyWebhookInvalidSignature), nil)
		case errors.Is(err, services.ErrInvalidImage):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), err.Error())
		default:
			utils.BadRequestResponse(c, "", err.Error())
		}

	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes the body and answers 400 itself on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

// currentEmail returns the authenticated email or answers 401.
func currentEmail(c *gin.Context) (string, bool) {
	email, ok := utils.GetEmailFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return email, ok
}
