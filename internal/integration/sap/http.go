package sap

import (
	"context"
	"net/http"
	"time"

	commonhttp "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/http"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

type Creator interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (CreatedUser, error)
}

type Config struct {
	APIPrefix      string
	APIKey         string
	RequestTimeout time.Duration
}

type Handler struct {
	svc          Creator
	errorHandler *commonhttp.ErrorHandler
}

// NewHandler serves POST {prefix}/integration/sap/users behind the api key.
func NewHandler(svc Creator, cfg Config, log *logger.Logger) http.Handler {
	h := &Handler{svc: svc, errorHandler: commonhttp.NewErrorHandler(log)}

	requireKey := commonhttp.APIKeyMiddleware(cfg.APIKey, log)
	create := commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(cfg.RequestTimeout)(h.create))

	mux := http.NewServeMux()
	mux.Handle(cfg.APIPrefix+"/integration/sap/users", requireKey(create))
	return mux
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	created, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusCreated, created)
}
