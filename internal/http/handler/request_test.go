package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindContext(body, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBindStrictJSONRejectsNonJSONContentType(t *testing.T) {
	c, rec := bindContext(`{"name":"x"}`, "text/plain")

	var dst struct {
		Name string `json:"name"`
	}
	err := bindStrictJSON(c, &dst)

	require.Error(t, err)
	require.NoError(t, respondBindError(c, err))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestBindStrictJSONAcceptsCharsetSuffix(t *testing.T) {
	c, _ := bindContext(`{"name":"x"}`, "application/json; charset=utf-8")

	var dst struct {
		Name string `json:"name"`
	}
	assert.NoError(t, bindStrictJSON(c, &dst))
	assert.Equal(t, "x", dst.Name)
}

func TestBindStrictJSONRejectsUnknownFields(t *testing.T) {
	c, rec := bindContext(`{"name":"x","bogus":true}`, echo.MIMEApplicationJSON)

	var dst struct {
		Name string `json:"name"`
	}
	err := bindStrictJSON(c, &dst)

	require.Error(t, err)
	require.NoError(t, respondBindError(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBindStrictJSONRejectsTrailingGarbage(t *testing.T) {
	c, _ := bindContext(`{"name":"x"}{"name":"y"}`, echo.MIMEApplicationJSON)

	var dst struct {
		Name string `json:"name"`
	}
	assert.Error(t, bindStrictJSON(c, &dst))
}
