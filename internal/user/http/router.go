package http

import (
	"net/http"
	"time"

	commonhttp "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/http"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/mapper"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/user/service"
)

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72,password_strength"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

type Config struct {
	APIPrefix      string
	APIKey         string
	RequestTimeout time.Duration
}

type Handler struct {
	users        service.Directory
	errorHandler *commonhttp.ErrorHandler
	timeout      time.Duration
	log          *logger.Logger
}

// NewHandler serves GET {prefix}/users/me for bearer tokens and
// POST {prefix}/users for callers holding the integration api key.
func NewHandler(users service.Directory, verifier jwtverify.Verifier, cfg Config, log *logger.Logger) http.Handler {
	h := &Handler{
		users:        users,
		errorHandler: commonhttp.NewErrorHandler(log),
		timeout:      cfg.RequestTimeout,
		log:          log,
	}

	requireJWT := jwtverify.Middleware(verifier, log)
	requireKey := commonhttp.APIKeyMiddleware(cfg.APIKey, log)
	withTimeout := commonhttp.WithTimeout(h.timeout)

	mux := http.NewServeMux()
	mux.Handle(cfg.APIPrefix+"/users/me", requireJWT(commonhttp.RequireMethod(http.MethodGet)(withTimeout(h.me))))
	mux.Handle(cfg.APIPrefix+"/users", requireKey(commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.create))))
	return mux
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing claims", nil, commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	user, err := h.users.FindByID(r.Context(), domain.ID(claims.UserID))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, mapper.UserToDTO(user))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), domain.Registration{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusCreated, mapper.UserToDTO(user))
}
