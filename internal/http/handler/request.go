package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Body parsing is strict: JSON only, unknown fields rejected, trailing
// garbage rejected, reads capped at the global body limit.
const maxStrictBodyBytes int64 = 1 << 20

var (
	errNotJSON       = errors.New("content type is not json")
	errMalformedBody = errors.New("malformed request body")
)

func bindStrictJSON(c echo.Context, dst any) error {
	contentType := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	if !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		return errNotJSON
	}

	decoder := json.NewDecoder(io.LimitReader(c.Request().Body, maxStrictBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errMalformedBody
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return errMalformedBody
	}

	return nil
}

// respondBindError translates bindStrictJSON failures. A wrong content type
// is a 415, any body problem a 400.
func respondBindError(c echo.Context, err error) error {
	if errors.Is(err, errNotJSON) {
		return respondError(c, http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}
	return respondError(c, http.StatusBadRequest, msgInvalidRequestBody)
}
