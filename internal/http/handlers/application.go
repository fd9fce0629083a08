package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"wasata/internal/app"
	"wasata/internal/common"
	"wasata/internal/http/metrics"
	"wasata/internal/http/middleware"
	"wasata/internal/http/response"
)

const (
	applyLimit  = 5
	applyWindow = time.Minute
)

type ApplicationHandler struct {
	applications   *app.ApplicationService
	limiter        middleware.Limiter
	metrics        *metrics.Collector
	maxUploadBytes int64
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter, collector *metrics.Collector, maxUploadBytes int64) *ApplicationHandler {
	return &ApplicationHandler{
		applications:   applications,
		limiter:        limiter,
		metrics:        collector,
		maxUploadBytes: maxUploadBytes,
	}
}

type applyRequest struct {
	CoverLetter string `json:"cover_letter" validate:"max=5000"`
}

type applicationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Apply accepts either a JSON body or a multipart form carrying an optional CV file.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	jobID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow("apply:"+userID.String(), applyLimit, applyWindow) {
		h.metrics.IncRateLimited("apply")
		response.Error(w, r, common.NewError(common.CodeRateLimited, "rate limit exceeded", nil))
		return
	}

	var in app.ApplyInput
	if isMultipart(r) {
		file, err := readUpload(w, r, "file", h.maxUploadBytes, true)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		defer file.Close()
		if file != nil {
			in.CV = &file.file
		}
		in.CoverLetter = r.FormValue("cover_letter")
	} else {
		var req applyRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			response.Error(w, r, err)
			return
		}
		in.CoverLetter = req.CoverLetter
	}

	created, err := h.applications.Apply(r.Context(), userID, jobID, in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	items, err := h.applications.ListMine(r.Context(), userID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	listAll(w, items)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	applicationID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	withdrawn, err := h.applications.Withdraw(r.Context(), userID, applicationID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, withdrawn)
}

func (h *ApplicationHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	ownerID, jobID, err := ownerAndJob(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	items, err := h.applications.ListForJob(r.Context(), ownerID, jobID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	listAll(w, items)
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	applicationID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req applicationStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), ownerID, applicationID, req.Status)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

// decodeOptionalJSON treats an empty body as the zero value.
func decodeOptionalJSON(r *http.Request, dst any) error {
	err := decodeAndValidate(r, dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
