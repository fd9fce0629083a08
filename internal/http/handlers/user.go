package handlers

import (
	"net/http"

	"wasata/internal/app"
	"wasata/internal/domain/user"
	"wasata/internal/http/response"
)

type UserHandler struct {
	users          *app.UserService
	auth           *app.AuthService
	maxUploadBytes int64
}

func NewUserHandler(users *app.UserService, auth *app.AuthService, maxUploadBytes int64) *UserHandler {
	return &UserHandler{users: users, auth: auth, maxUploadBytes: maxUploadBytes}
}

type profileRequest struct {
	Name           string   `json:"name" validate:"required,max=100"`
	Phone          string   `json:"phone" validate:"max=20"`
	DisabilityType string   `json:"disability_type" validate:"max=100"`
	City           string   `json:"city" validate:"max=100"`
	Bio            string   `json:"bio" validate:"max=2000"`
	Skills         []string `json:"skills" validate:"dive,max=60"`
	Language       string   `json:"language" validate:"omitempty,oneof=ar en"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=72"`
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	account, err := h.users.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req profileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	updated, err := h.users.UpdateProfile(r.Context(), userID, user.Profile{
		Name:           req.Name,
		Phone:          req.Phone,
		DisabilityType: req.DisabilityType,
		City:           req.City,
		Bio:            req.Bio,
		Skills:         req.Skills,
		Language:       req.Language,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *UserHandler) UploadCV(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
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
	updated, err := h.users.UploadCV(r.Context(), userID, file.file)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req changePasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}
