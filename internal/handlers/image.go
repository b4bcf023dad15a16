// internal/handlers/image.go
package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/i18n"
	"github.com/javajoker/catalog-admin/internal/services"
	"github.com/javajoker/catalog-admin/internal/utils"
)

type ImageHandler struct {
	imageService *services.ImageService
}

type DeleteImageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// POST /images
//
// Files that fail to upload are dropped; the response lists the URLs that made
// it, in the order the files were sent, and warns about the rest.
func (h *ImageHandler) Upload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		utils.BadRequestResponse(c, "No files provided", nil)
		return
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, header := range headers {
		data, err := readPart(header)
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read file", header.Filename)
			return
		}
		files = append(files, services.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result := h.imageService.UploadMany(c.Request.Context(), files, func(done, total int) {
		logrus.WithFields(logrus.Fields{
			"batch":   done,
			"batches": total,
		}).Debug("Upload batch settled")
	})
	if result.Partial() != nil {
		utils.SuccessWithWarnings(c, result, i18n.T(lang, i18n.KeyImagesPartialUpload, result.Failed, result.Total))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyImagesUploaded, len(result.URLs)),
		"urls":    result.URLs,
		"total":   result.Total,
		"failed":  result.Failed,
	})
}

// DELETE /images
//
// Always 200: deleted=false means the image may still be on the host and the
// caller should carry on.
func (h *ImageHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req DeleteImageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if !h.imageService.Delete(c.Request.Context(), req.URL) {
		utils.SuccessWithWarnings(c, gin.H{"deleted": false}, i18n.T(lang, i18n.KeyImageNotDeleted))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyImageDeleted),
		"deleted": true,
	})
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
