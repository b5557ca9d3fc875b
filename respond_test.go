package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failAndDecode(t *testing.T, err error) (int, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	fail(c, err)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestFailMapsErrorKindsToStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errInvalidInput("bad"), http.StatusBadRequest},
		{errUnauthenticated("no"), http.StatusUnauthorized},
		{errForbidden("nope"), http.StatusForbidden},
		{errNotFound("gone"), http.StatusNotFound},
		{errConflict("dup"), http.StatusConflict},
		{errUpstream("down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, env := failAndDecode(t, tc.err)
		assert.Equal(t, tc.want, code)
		assert.Equal(t, tc.want, env.Status)
		assert.Nil(t, env.Data)
		assert.NotEmpty(t, env.Message)
	}
}

func TestFailHidesUnknownErrors(t *testing.T) {
	code, env := failAndDecode(t, errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", env.Message)
}
