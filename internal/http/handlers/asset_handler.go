// Asset HTTP handlers.
//
//   - POST   /assets/        (multipart upload, optional resize)
//   - DELETE /assets/?url=   (delete by public URL)
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hristiyandudev55/flipcards-learner/internal/assets"
)

// AssetService stores and removes uploaded images.
type AssetService interface {
	Upload(ctx context.Context, f assets.File, folder string) (string, error)
	Delete(ctx context.Context, rawURL string) bool
}

// UploadResponse returns the public URL of a stored asset.
type UploadResponse struct {
	URL string `json:"url" example:"https://flipcards.s3.amazonaws.com/images/20250101_120000_1a2b3c4d.jpg"`
}

// DeleteAssetResponse reports whether the object was removed.
type DeleteAssetResponse struct {
	Deleted bool `json:"deleted" example:"true"`
}

const defaultAssetFolder = "images"

func (h *Handlers) storageReady(c *gin.Context) bool {
	if h.assetSvc == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Object storage is not configured.")
		return false
	}
	return true
}

// UploadAsset godoc
// @ID          uploadAsset
// @Summary     Upload an image
// @Description Validates and stores an image. With resize=true the image is flattened, fitted into 300x300, and stored as JPEG.
// @Tags        Assets
// @Accept      multipart/form-data
// @Produce     json
// @Param       file    formData  file    true   "Image (.jpg, .jpeg, .png, .svg; max 2 MiB)"
// @Param       folder  query     string  false  "Key prefix"  default(images)
// @Param       resize  query     bool    false  "Resize before upload"  default(false)
// @Success     200     {object}  handlers.UploadResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation or processing error"
// @Failure     500     {object}  handlers.ErrorResponse  "Upload failed"
// @Failure     503     {object}  handlers.ErrorResponse  "Storage not configured"
// @Router      /assets/ [post]
func (h *Handlers) UploadAsset(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart field 'file' is required")
		return
	}
	resize, _ := strconv.ParseBool(c.DefaultQuery("resize", "false"))
	folder := c.DefaultQuery("folder", defaultAssetFolder)

	f := assets.File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	if err := assets.Validate(f); err != nil {
		assetFail(c, err)
		return
	}
	content, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot read uploaded file")
		return
	}
	f.Content = content

	if resize {
		if f, err = assets.Normalize(f); err != nil {
			assetFail(c, err)
			return
		}
	}

	url, err := h.assetSvc.Upload(c.Request.Context(), f, folder)
	if err != nil {
		assetFail(c, err)
		return
	}
	ok(c, http.StatusOK, UploadResponse{URL: url})
}

// DeleteAsset godoc
// @ID          deleteAsset
// @Summary     Delete an image
// @Description Deletes the object behind a URL returned by the upload endpoint. An empty url counts as deleted.
// @Tags        Assets
// @Produce     json
// @Param       url  query     string  false  "Public URL of the asset"
// @Success     200  {object}  handlers.DeleteAssetResponse
// @Failure     503  {object}  handlers.ErrorResponse  "Storage not configured"
// @Router      /assets/ [delete]
func (h *Handlers) DeleteAsset(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}
	deleted := h.assetSvc.Delete(c.Request.Context(), c.Query("url"))
	ok(c, http.StatusOK, DeleteAssetResponse{Deleted: deleted})
}

func assetFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assets.ErrUnsupportedFormat):
		fail(c, http.StatusBadRequest, ErrCodeUnsupportedFormat,
			"Unsupported file format. Allowed formats: "+strings.Join(assets.AllowedExtensions, ", "))
	case errors.Is(err, assets.ErrFileTooLarge):
		fail(c, http.StatusBadRequest, ErrCodeFileTooLarge,
			fmt.Sprintf("File too large. Maximum size is %.1fMB", float64(assets.MaxFileSize)/1024/1024))
	case errors.Is(err, assets.ErrImageProcessing):
		failCause(c, http.StatusBadRequest, ErrCodeImageProcessing, "Error processing image: ", err, assets.ErrImageProcessing)
	default:
		failCause(c, http.StatusInternalServerError, ErrCodeUploadFailed, "Error uploading file: ", err, assets.ErrUpload)
	}
}
