package media

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/httpx"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

// Assets is what the image endpoints need from the gateway.
type Assets interface {
	Upload(ctx context.Context, ref string) (*models.Image, error)
	Remove(ctx context.Context, publicID string) error
}

// Handler serves the image upload and removal endpoints.
type Handler struct {
	assets Assets
	log    zerolog.Logger
}

func NewHandler(assets Assets, log zerolog.Logger) *Handler {
	return &Handler{assets: assets, log: log}
}

type uploadRequest struct {
	UploadImageFile string `json:"uploadImageFile"`
}

type removeRequest struct {
	PublicID string `json:"public_id"`
}

type removeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Upload handles POST /api/images/upload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decode(w, r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	img, err := h.assets.Upload(r.Context(), req.UploadImageFile)
	if err != nil {
		h.hostError(w, "image upload failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, img)
}

// Remove handles POST /api/images/remove.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := decode(w, r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := h.assets.Remove(r.Context(), req.PublicID); err != nil {
		h.hostError(w, "image remove failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, removeResponse{Success: true, Message: "image is removed"})
}

// hostError reports uncategorised failures as 502: they come from the media
// host or the remote file, not from this server.
func (h *Handler) hostError(w http.ResponseWriter, msg string, err error) {
	if apperror.CodeOf(err) == apperror.CodeInternal {
		h.log.Error().Err(err).Msg(msg)
	}
	httpx.WriteErrorStatus(w, http.StatusBadGateway, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 2*MaxFileSize))
	if err := dec.Decode(v); err != nil {
		return apperror.Validation("body", "invalid JSON body")
	}
	return nil
}
