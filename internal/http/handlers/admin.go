package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"wasata/internal/app"
	"wasata/internal/common"
	"wasata/internal/domain/approval"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/user"
	"wasata/internal/http/response"
)

type AdminHandler struct {
	admin     *app.AdminService
	companies *app.CompanyService
	jobs      *app.JobService
}

func NewAdminHandler(admin *app.AdminService, companies *app.CompanyService, jobs *app.JobService) *AdminHandler {
	return &AdminHandler{admin: admin, companies: companies, jobs: jobs}
}

type decisionRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type blockRequest struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	status, page, err := moderationQuery(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	items, err := h.companies.ListByStatus(r.Context(), status, page)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.List(w, items, page)
}

func (h *AdminHandler) DecideCompany(w http.ResponseWriter, r *http.Request) {
	admin, id, next, reason, err := decision(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	updated, err := h.companies.Decide(r.Context(), admin, id, next, reason)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	status, page, err := moderationQuery(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	items, err := h.jobs.ListByStatus(r.Context(), status, page)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.List(w, items, page)
}

func (h *AdminHandler) DecideJob(w http.ResponseWriter, r *http.Request) {
	admin, id, next, reason, err := decision(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	updated, err := h.jobs.Decide(r.Context(), admin, id, next, reason)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	query := r.URL.Query()
	filter := user.Filter{
		Role:  user.Role(query.Get("role")),
		Query: strings.TrimSpace(query.Get("q")),
	}
	if value := strings.TrimSpace(query.Get("blocked")); value != "" {
		blocked, err := strconv.ParseBool(value)
		if err != nil {
			response.Error(w, r, common.NewValidationError("invalid filter", map[string]string{"blocked": "value is invalid"}))
			return
		}
		filter.Blocked = &blocked
	}
	items, err := h.admin.ListUsers(r.Context(), filter, page)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.List(w, items, page)
}

func (h *AdminHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	admin, targetID, err := adminAndTarget(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req blockRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	updated, err := h.admin.SetBlocked(r.Context(), admin, targetID, *req.Blocked)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin, targetID, err := adminAndTarget(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.admin.DeleteUser(r.Context(), admin, targetID); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	query := r.URL.Query()
	filter := audit.Filter{
		Action:     strings.TrimSpace(query.Get("action")),
		TargetType: strings.TrimSpace(query.Get("target_type")),
	}
	if value := strings.TrimSpace(query.Get("actor_id")); value != "" {
		actorID, err := common.ParseUUID(value)
		if err != nil {
			response.Error(w, r, common.NewValidationError("invalid filter", map[string]string{"actor_id": "invalid uuid"}))
			return
		}
		filter.ActorID = &actorID
	}
	items, err := h.admin.ListAuditLogs(r.Context(), filter, page)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.List(w, items, page)
}

// moderationQuery reads ?status (pending when absent) and pagination.
func moderationQuery(r *http.Request) (approval.Status, common.Page, error) {
	page, err := pageFromQuery(r)
	if err != nil {
		return "", common.Page{}, err
	}
	value := r.URL.Query().Get("status")
	if strings.TrimSpace(value) == "" {
		return approval.StatusPending, page, nil
	}
	status, err := approval.ParseStatus(value)
	if err != nil {
		return "", common.Page{}, err
	}
	return status, page, nil
}

func decision(r *http.Request) (app.Actor, common.UUID, approval.Status, string, error) {
	admin, id, err := adminAndTarget(r)
	if err != nil {
		return app.Actor{}, "", "", "", err
	}
	var req decisionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		return app.Actor{}, "", "", "", err
	}
	next, err := approval.ParseStatus(req.Status)
	if err != nil {
		return app.Actor{}, "", "", "", err
	}
	return admin, id, next, req.Reason, nil
}

func adminAndTarget(r *http.Request) (app.Actor, common.UUID, error) {
	admin, err := currentActor(r)
	if err != nil {
		return app.Actor{}, "", err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return app.Actor{}, "", err
	}
	return admin, id, nil
}
