package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/setuponce/backend/domain"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrBusinessRequired, http.StatusPreconditionFailed, "BUSINESS_REQUIRED"},
		{domain.ErrBusinessExists, http.StatusConflict, "CONFLICT"},
		{domain.ErrConfirmationRequired, http.StatusBadRequest, "INVALID"},
		{domain.ErrOrderNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrTokenRevoked, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{errors.New("driver: bad connection"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := StatusOf(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestFromErrorCarriesFieldsAndHidesInternals(t *testing.T) {
	status, env := FromError(domain.ValidationError(map[string]string{"price": "price is required"}))
	assert.Equal(t, http.StatusBadRequest, status)
	body := env.Error.(ErrorBody)
	assert.Equal(t, "price is required", body.Fields["price"])

	status, env = FromError(errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", env.Error.(ErrorBody).Message)
}

func TestWrite(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	Write(ctx, http.StatusCreated, NewSuccess([]string{"a"}, SnapshotMeta{Collection: "products", Revision: 4}))

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &decoded))
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, float64(4), decoded["meta"].(map[string]interface{})["revision"])
}
