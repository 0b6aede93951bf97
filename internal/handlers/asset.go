package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/middleware"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

// imageField is the multipart part carrying the asset picture.
const imageField = "productImage"

type AssetHandler struct {
	assetService *services.AssetService
}

func NewAssetHandler(assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// POST /asset
// Accepts multipart/form-data with an optional image part, or JSON whose
// productImage is a URL or base64 payload.
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	hr, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateAssetRequest
	var image *services.ImageFile

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}

		fileHeader, err := c.FormFile(imageField)
		switch {
		case err == nil:
			if fileHeader.Size > services.MaxImageSize {
				utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooLarge), nil)
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
				return
			}
			data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
			file.Close()
			if err != nil {
				utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
				return
			}
			image = &services.ImageFile{Filename: fileHeader.Filename, Data: data}
			req.ProductImage = ""
		case err != http.ErrMissingFile:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
			return
		}
	} else if !bindJSON(c, &req) {
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), hr, &req, image)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusCreated, gin.H{
		"insertedId": asset.ID,
		"asset":      asset,
	}, i18n.KeyAssetCreated)
}

// GET /asset
func (h *AssetHandler) ListAssets(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	assets, total, err := h.assetService.ListAssets(c.Request.Context(), email, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(assets, total, params))
}

// GET /assets/available
func (h *AssetHandler) ListAvailableAssets(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	assets, total, err := h.assetService.ListAvailableAssets(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(assets, total, params))
}

// DELETE /asset/:id
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	if err := h.assetService.DeleteAsset(c.Request.Context(), email, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusOK, gin.H{"deletedCount": 1}, i18n.KeyAssetDeleted)
}
