package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/models"
)

const (
	maxUploadMemory = 32 << 20
	maxImageSize    = 10 << 20
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ImageHandler struct {
	ads       interfaces.AdRepository
	images    interfaces.ImageRepository
	store     interfaces.ObjectStore
	snapshots SnapshotSource
	log       logger.Logger
	validator *validator.Validate
}

func NewImageHandler(
	ads interfaces.AdRepository,
	images interfaces.ImageRepository,
	store interfaces.ObjectStore,
	snapshots SnapshotSource,
	log logger.Logger,
) *ImageHandler {
	return &ImageHandler{
		ads:       ads,
		images:    images,
		store:     store,
		snapshots: snapshots,
		log:       log,
		validator: validator.New(),
	}
}

// sniffImage returns the detected content type of an uploaded file and rewinds it.
func sniffImage(file multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

// Upload godoc
// @Tags Admin Images
// @Summary Upload ad images
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Ad ID"
// @Param files formData file true "Image files"
// @Param alt formData string false "Alt text applied to every uploaded image"
// @Success 201 {object} dataResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/admin/ads/{id}/images [post]
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	adID, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid ad ID")
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Failed to parse form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "No files uploaded")
		return
	}
	for _, fh := range files {
		if fh.Size > maxImageSize {
			writeJSONErrorResponse(w, http.StatusBadRequest, "file_too_large", fh.Filename+" exceeds 10MB")
			return
		}
	}

	if _, err := h.ads.GetByID(r.Context(), adID); err != nil {
		if !writeRepositoryError(w, err, "ad") {
			h.log.Error("upload: load ad failed", logger.Int64("ad_id", adID), logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "upload_failed", "Failed to upload images")
		}
		return
	}

	alt := r.FormValue("alt")
	uploaded := make([]models.AdImage, 0, len(files))
	for _, fh := range files {
		img, status, code, err := h.uploadOne(r, adID, alt, fh)
		if err != nil {
			h.log.Error("upload image failed",
				logger.Int64("ad_id", adID),
				logger.String("file", fh.Filename),
				logger.Error(err),
			)
			if len(uploaded) > 0 {
				invalidateSnapshot(r.Context(), h.snapshots, h.log)
			}
			writeJSONErrorResponse(w, status, code, "Failed to upload "+fh.Filename)
			return
		}
		uploaded = append(uploaded, *img)
	}

	invalidateSnapshot(r.Context(), h.snapshots, h.log)
	writeJSON(w, http.StatusCreated, dataResponse{Data: uploaded})
}

func (h *ImageHandler) uploadOne(r *http.Request, adID int64, alt string, fh *multipart.FileHeader) (*models.AdImage, int, string, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, http.StatusBadRequest, "invalid_request", err
	}
	defer file.Close()

	contentType, err := sniffImage(file)
	if err != nil {
		return nil, http.StatusBadRequest, "invalid_request", err
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, http.StatusBadRequest, "unsupported_media_type", errors.New("unsupported content type " + contentType)
	}

	img := &models.AdImage{
		ID:   uuid.NewString(),
		AdID: adID,
		Alt:  alt,
	}
	img.ObjectKey = filepath.ToSlash(filepath.Join("ads", strconv.FormatInt(adID, 10), img.ID+ext))

	url, err := h.store.Put(r.Context(), img.ObjectKey, contentType, file)
	if err != nil {
		return nil, http.StatusBadGateway, "upload_failed", err
	}
	img.URL = url

	if err := h.images.Add(r.Context(), img); err != nil {
		if derr := h.store.Delete(r.Context(), img.ObjectKey); derr != nil {
			h.log.Warn("cleanup orphaned object failed", logger.String("key", img.ObjectKey), logger.Error(derr))
		}
		return nil, http.StatusInternalServerError, "upload_failed", err
	}
	return img, 0, "", nil
}

// Delete godoc
// @Tags Admin Images
// @Summary Delete an ad image
// @Security BearerAuth
// @Produce json
// @Param id path int true "Ad ID"
// @Param imageID path string true "Image ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/ads/{id}/images/{imageID} [delete]
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	adID, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid ad ID")
		return
	}
	imageID := chi.URLParam(r, "imageID")
	if _, err := uuid.Parse(imageID); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "imageID must be a valid UUID")
		return
	}

	img, err := h.images.GetByID(r.Context(), adID, imageID)
	if err != nil {
		if !writeRepositoryError(w, err, "image") {
			h.log.Error("get image failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "delete_image_failed", "Failed to delete image")
		}
		return
	}
	if err := h.images.Delete(r.Context(), adID, imageID); err != nil {
		if !writeRepositoryError(w, err, "image") {
			h.log.Error("delete image failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "delete_image_failed", "Failed to delete image")
		}
		return
	}
	if err := h.store.Delete(r.Context(), img.ObjectKey); err != nil {
		h.log.Warn("delete image object failed", logger.String("key", img.ObjectKey), logger.Error(err))
	}

	invalidateSnapshot(r.Context(), h.snapshots, h.log)
	writeJSONMessage(w, http.StatusOK, "image deleted successfully")
}

// Reorder godoc
// @Tags Admin Images
// @Summary Set the display order of an ad's images
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Ad ID"
// @Param body body models.ReorderImagesRequest true "Every image ID of the ad, in display order"
// @Success 200 {object} dataResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/ads/{id}/images/order [put]
func (h *ImageHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	adID, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid ad ID")
		return
	}

	var req models.ReorderImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.images.Reorder(r.Context(), adID, req.ImageIDs); err != nil {
		if errors.Is(err, interfaces.ErrImageSetMismatch) {
			writeJSONErrorResponse(w, http.StatusBadRequest, "image_set_mismatch",
				"image_ids must list every image of the ad exactly once")
			return
		}
		if !writeRepositoryError(w, err, "ad") {
			h.log.Error("reorder images failed", logger.Int64("ad_id", adID), logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "reorder_failed", "Failed to reorder images")
		}
		return
	}
	invalidateSnapshot(r.Context(), h.snapshots, h.log)

	images, err := h.images.ListByAd(r.Context(), adID)
	if err != nil {
		h.log.Error("list images failed", logger.Int64("ad_id", adID), logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "reorder_failed", "Failed to reorder images")
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: images})
}
