package http

import (
	"context"
	"net/http"
	"time"

	authdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/domain"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/service"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/dto"
	commonhttp "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/http"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/mapper"
	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72,password_strength"`
	Name     string `json:"name" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Authenticator is what the auth routes need from the service.
type Authenticator interface {
	Register(ctx context.Context, input service.RegisterInput) (userdomain.Profile, error)
	Login(ctx context.Context, email, password string) (authdomain.AuthResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (authdomain.AuthResult, error)
	Logout(ctx context.Context, userID, refreshToken string) error
}

type Config struct {
	APIPrefix      string
	RequestTimeout time.Duration
}

type Handler struct {
	auth         Authenticator
	errorHandler *commonhttp.ErrorHandler
	log          *logger.Logger
}

func NewHandler(auth Authenticator, verifier jwtverify.Verifier, cfg Config, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:         auth,
		errorHandler: commonhttp.NewErrorHandler(log),
		log:          log,
	}

	post := commonhttp.RequireMethod(http.MethodPost)
	withTimeout := commonhttp.WithTimeout(cfg.RequestTimeout)
	requireJWT := jwtverify.Middleware(verifier, log)

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.APIPrefix+"/auth/register", post(withTimeout(h.register)))
	mux.HandleFunc(cfg.APIPrefix+"/auth/login", post(withTimeout(h.login)))
	mux.HandleFunc(cfg.APIPrefix+"/auth/refresh", post(withTimeout(h.refresh)))
	mux.Handle(cfg.APIPrefix+"/auth/logout", requireJWT(post(withTimeout(h.logout))))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	profile, err := h.auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusCreated, mapper.ProfileToDTO(profile))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, toTokens(result))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, toTokens(result))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing claims", nil, commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	var req refreshRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := h.auth.Logout(r.Context(), claims.UserID, req.RefreshToken); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func toTokens(result authdomain.AuthResult) dto.AuthTokens {
	return dto.AuthTokens{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         mapper.ProfileToDTO(result.User),
	}
}
