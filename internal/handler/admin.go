package handler

import (
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/backend"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/utils"
	"go.uber.org/zap"
)

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	users, err := h.api.Users(r.Context(), sess.Token)
	if err != nil {
		h.backendError(w, r, err)
		return
	}

	h.successResponse(w, r, "users loaded", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var req struct {
		Username    string `json:"username" validate:"omitempty,max=50"`
		Name        string `json:"name" validate:"required,max=100"`
		Email       string `json:"email" validate:"required,email"`
		Role        string `json:"role" validate:"required"`
		StoreID     int64  `json:"storeId" validate:"required,gt=0"`
		PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=30"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Username == "" {
		req.Username = utils.SuggestUsername(req.Name)
		if req.Username == "" {
			h.errorResponse(w, r, "username is required")
			return
		}
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.errorResponse(w, r, "unknown role")
		return
	}

	// the backend never sends the password back, so it is generated here and mailed
	password, err := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user, err := h.api.CreateUser(r.Context(), sess.Token, backend.CreateUserRequest{
		ConsoleUser: domain.ConsoleUser{
			Username:    req.Username,
			Name:        req.Name,
			Email:       req.Email,
			Role:        role,
			StoreID:     req.StoreID,
			PhoneNumber: req.PhoneNumber,
		},
		Password: password,
	})
	if err != nil {
		h.backendError(w, r, err)
		return
	}

	h.recordActivity(sess.User.Username, domain.ActionUserCreate, domain.UserTarget(req.Username), string(role))

	if err := h.publishMail(domain.MailMessage{
		Type: domain.MailTypeCreateUser,
		To:   req.Email,
		Data: domain.CreateUserMailData{
			FullName: req.Name,
			Username: req.Username,
			Password: password,
			Role:     role,
		},
	}); err != nil {
		// the account exists, only the mail is missing
		h.log.Error("could not queue welcome mail", zap.String("username", req.Username), zap.Error(err))
		h.successResponse(w, r, "user created, but the welcome mail could not be sent", user)
		return
	}

	h.successResponse(w, r, "user created", user)
}

func (h *Handler) GetAllStores(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	stores, err := h.api.Stores(r.Context(), sess.Token)
	if err != nil {
		h.backendError(w, r, err)
		return
	}

	h.successResponse(w, r, "stores loaded", stores)
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var req struct {
		Name     string `json:"name" validate:"required,max=100"`
		Location string `json:"location" validate:"required,max=200"`
		Email    string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	store, err := h.api.CreateStore(r.Context(), sess.Token, domain.Store{
		Name:     req.Name,
		Location: req.Location,
		Email:    req.Email,
	})
	if err != nil {
		h.backendError(w, r, err)
		return
	}

	h.recordActivity(sess.User.Username, domain.ActionStoreCreate, domain.StoreTarget(store.StoreID), req.Name)

	h.successResponse(w, r, "store created", store)
}

func (h *Handler) GetActivities(w http.ResponseWriter, r *http.Request) {
	limit := h.config.Activity.PageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.errorResponse(w, r, "invalid limit")
			return
		}
		limit = min(n, h.config.Activity.MaxPageSize)
	}

	activities, err := h.repository.GetRecentActivities(limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "activity loaded", activities)
}
