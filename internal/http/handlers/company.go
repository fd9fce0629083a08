package handlers

import (
	"net/http"

	"wasata/internal/app"
	"wasata/internal/http/response"
)

type CompanyHandler struct {
	companies      *app.CompanyService
	maxUploadBytes int64
}

func NewCompanyHandler(companies *app.CompanyService, maxUploadBytes int64) *CompanyHandler {
	return &CompanyHandler{companies: companies, maxUploadBytes: maxUploadBytes}
}

type companyRequest struct {
	Name        string `json:"name" validate:"required"`
	CRNumber    string `json:"cr_number" validate:"required"`
	City        string `json:"city" validate:"required"`
	Industry    string `json:"industry" validate:"max=100"`
	Website     string `json:"website" validate:"max=255"`
	Description string `json:"description"`
}

func (req companyRequest) input() app.CompanyInput {
	return app.CompanyInput{
		Name:        req.Name,
		CRNumber:    req.CRNumber,
		City:        req.City,
		Industry:    req.Industry,
		Website:     req.Website,
		Description: req.Description,
	}
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req companyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	created, err := h.companies.Create(r.Context(), ownerID, req.input())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *CompanyHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	ownerID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	item, err := h.companies.GetMine(r.Context(), ownerID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *CompanyHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	ownerID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req companyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	updated, err := h.companies.UpdateMine(r.Context(), ownerID, req.input())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *CompanyHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	ownerID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	file, err := readUpload(w, r, "file", h.maxUploadBytes, false)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer file.Close()
	updated, err := h.companies.UploadLogo(r.Context(), ownerID, file.file)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *CompanyHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	item, err := h.companies.GetPublic(r.Context(), companyID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}
