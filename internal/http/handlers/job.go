package handlers

import (
	"net/http"

	"wasata/internal/app"
	"wasata/internal/common"
	"wasata/internal/domain/job"
	"wasata/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Title                 string   `json:"title" validate:"required"`
	Description           string   `json:"description" validate:"required"`
	Requirements          []string `json:"requirements" validate:"max=50,dive,max=300"`
	Location              string   `json:"location" validate:"max=120"`
	EmploymentType        string   `json:"employment_type" validate:"required"`
	SalaryMin             *int     `json:"salary_min"`
	SalaryMax             *int     `json:"salary_max"`
	DisabilityTypes       []string `json:"disability_types" validate:"max=20,dive,max=100"`
	AccessibilityFeatures []string `json:"accessibility_features" validate:"max=50,dive,max=200"`
}

func (req jobRequest) input() app.JobInput {
	return app.JobInput{
		Title:                 req.Title,
		Description:           req.Description,
		Requirements:          req.Requirements,
		Location:              req.Location,
		EmploymentType:        req.EmploymentType,
		SalaryMin:             req.SalaryMin,
		SalaryMax:             req.SalaryMax,
		DisabilityTypes:       req.DisabilityTypes,
		AccessibilityFeatures: req.AccessibilityFeatures,
	}
}

type closeJobRequest struct {
	Closed *bool `json:"closed" validate:"required"`
}

func (h *JobHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	query := r.URL.Query()
	items, err := h.jobs.ListPublic(r.Context(), job.Filter{
		Query:          query.Get("q"),
		Location:       query.Get("location"),
		EmploymentType: job.EmploymentType(query.Get("type")),
		DisabilityType: query.Get("disability_type"),
	}, page)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.List(w, items, page)
}

func (h *JobHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	item, err := h.jobs.GetPublic(r.Context(), jobID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req jobRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), ownerID, req.input())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, jobID, err := ownerAndJob(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req jobRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	updated, err := h.jobs.Update(r.Context(), ownerID, jobID, req.input())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *JobHandler) SetClosed(w http.ResponseWriter, r *http.Request) {
	ownerID, jobID, err := ownerAndJob(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req closeJobRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	updated, err := h.jobs.SetClosed(r.Context(), ownerID, jobID, *req.Closed)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, jobID, err := ownerAndJob(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.jobs.Delete(r.Context(), ownerID, jobID); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *JobHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ownerID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	items, err := h.jobs.ListMine(r.Context(), ownerID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	listAll(w, items)
}

func ownerAndJob(r *http.Request) (common.UUID, common.UUID, error) {
	ownerID, err := currentUser(r)
	if err != nil {
		return "", "", err
	}
	jobID, err := pathID(r, "id")
	if err != nil {
		return "", "", err
	}
	return ownerID, jobID, nil
}
