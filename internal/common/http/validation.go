package http

import (
	"errors"
	"io"
	"net/http"

	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/validation"
)

// DecodeAndValidate decodes a JSON body into dst and runs struct validation.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := DecodeJSON(r, dst); err != nil {
		if errors.Is(err, io.EOF) {
			return commonerrors.ErrInvalidPayload.WithCause(errors.New("empty body"))
		}
		return commonerrors.ErrInvalidPayload.WithCause(err)
	}
	return validation.Struct(dst)
}
