package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

func TestHandleRegistered(t *testing.T) {
	var buf bytes.Buffer
	handle := handleRegistered(logger.NewWriter(&buf, "notifier", "info"))

	assert.NoError(t, handle(context.Background(), []byte(`{"userId":"u-1","email":"jane@example.com","sapId":"s-1"}`)))
	assert.Contains(t, buf.String(), "jane@example.com")

	assert.Error(t, handle(context.Background(), []byte(`not json`)))
	assert.Error(t, handle(context.Background(), []byte(`{"email":"jane@example.com"}`)))
}
