package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// maxInflatedBody caps a decompressed request body.
const maxInflatedBody = 4 * postCommandMaxSize

// GzipRequestMiddleware inflates gzip-encoded request bodies so handlers read
// plain JSON. Invalid gzip payloads are rejected with 400.
func GzipRequestMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !hasGzipEncoding(req.Header.Get(echo.HeaderContentEncoding)) {
				return next(c)
			}

			body := req.Body
			gr, err := gzip.NewReader(body)
			if err != nil {
				_ = body.Close()
				return echo.NewHTTPError(http.StatusBadRequest, "invalid gzip body")
			}

			req.Body = &inflatedBody{
				Reader: io.LimitReader(gr, maxInflatedBody),
				gz:     gr,
				body:   body,
			}
			req.ContentLength = -1
			req.Header.Del(echo.HeaderContentEncoding)
			req.Header.Del(echo.HeaderContentLength)

			return next(c)
		}
	}
}

func hasGzipEncoding(header string) bool {
	for _, enc := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(enc), "gzip") {
			return true
		}
	}
	return false
}

type inflatedBody struct {
	io.Reader
	gz   *gzip.Reader
	body io.Closer
}

func (b *inflatedBody) Close() error {
	err := b.gz.Close()
	if cerr := b.body.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
