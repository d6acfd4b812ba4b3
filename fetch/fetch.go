// Package fetch loads initial section rows from a remote JSON endpoint or a
// local directory. Both sources use the file name {section}Data.json.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"menu-planner/domain"
)

// maxBody bounds the size of a section payload.
const maxBody = 4 << 20

// FileName returns the payload name for a section, e.g. lunchData.json.
func FileName(section domain.MealSection) string {
	return strings.ToLower(section.String()) + "Data.json"
}

// HTTP fetches section rows from BaseURL.
type HTTP struct {
	BaseURL string
	HTTP    *http.Client
}

// NewHTTP creates a fetcher for baseURL.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{}}
}

func (h *HTTP) FetchRows(ctx context.Context, section domain.MealSection) ([]domain.PlanRow, error) {
	url := h.BaseURL + "/" + FileName(section)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return Decode(data)
}

// Dir reads section rows from files in a directory.
type Dir struct {
	Path string
}

func (d Dir) FetchRows(ctx context.Context, section domain.MealSection) ([]domain.PlanRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.Path, FileName(section)))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a JSON array of rows. Day lists are normalised to seven slots.
func Decode(data []byte) ([]domain.PlanRow, error) {
	var rows []domain.PlanRow
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if rows == nil {
		rows = []domain.PlanRow{}
	}
	return rows, nil
}
