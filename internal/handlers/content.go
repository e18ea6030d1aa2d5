// internal/handlers/content.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zksub/zksub-backend/internal/services"
	"github.com/zksub/zksub-backend/internal/utils"
)

type ContentHandler struct {
	contentService *services.ContentService
	maxUploadSize  int64
}

func NewContentHandler(contentService *services.ContentService, maxUploadSize int64) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		maxUploadSize:  maxUploadSize,
	}
}

// POST /upload-content
func (h *ContentHandler) UploadContent(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "No file received")
		return
	}
	defer file.Close()

	if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
		utils.ErrorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("File exceeds maximum upload size of %d bytes", h.maxUploadSize))
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid price")
		return
	}

	req := &services.UploadContentRequest{
		Name:           c.PostForm("name"),
		Description:    c.PostForm("description"),
		Price:          price,
		CreatorAddress: c.PostForm("creatorAddress"),
		FileName:       header.Filename,
		File:           file,
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, validationErrors[0].Message)
		return
	}

	record, err := h.contentService.Upload(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to upload content")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       record.ID,
		"filePath": record.FilePath,
	})
}

// GET /contents
func (h *ContentHandler) ListContents(c *gin.Context) {
	records, err := h.contentService.List(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GET /contents/:address
func (h *ContentHandler) ListByCreator(c *gin.Context) {
	records, err := h.contentService.ListByCreator(c.Request.Context(), c.Param("address"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// DELETE /content/:id
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	if err := h.contentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
