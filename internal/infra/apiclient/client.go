// Package apiclient talks to the unit-monitor REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 10 * time.Second
	UserAgent      = "unitctl"
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying client, tests use it to plug a mock transport.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.http.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request. path is relative to the base URL and keeps its trailing slash.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	var payload io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		payload = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ConnectivityError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectivityError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeServiceError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func decodeServiceError(status int, raw []byte) error {
	se := &ServiceError{Status: status}
	var body struct {
		Message string       `json:"message"`
		Code    string       `json:"code"`
		Fields  []FieldError `json:"fields"`
	}
	if json.Unmarshal(raw, &body) == nil {
		se.Message, se.Code, se.Fields = body.Message, body.Code, body.Fields
	} else {
		se.Message = strings.TrimSpace(string(raw))
	}
	return se
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + strconv.FormatInt(id, 10) + "/" + suffix
}

// ---- units

// UnitInput is the body of create and update.
type UnitInput struct {
	Name       string `json:"nome_unidade"`
	Group      string `json:"grupo_unidade"`
	Technician string `json:"tecnico_unidade,omitempty"`
	ExternalID string `json:"id_unidade"`
	Notes      string `json:"observacoes,omitempty"`
}

type DeleteResult struct {
	UnitID          units.ID `json:"id"`
	Policy          string   `json:"politica"`
	FailuresRemoved int64    `json:"falhas_removidas"`
}

func (c *Client) ListUnits(ctx context.Context) ([]*units.Unit, error) {
	var out []*units.Unit
	err := c.do(ctx, http.MethodGet, "/unidades/", nil, nil, &out)
	return out, err
}

func (c *Client) GetUnit(ctx context.Context, id units.ID) (*units.Unit, error) {
	var out units.Unit
	if err := c.do(ctx, http.MethodGet, idPath("/unidades/", id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUnit(ctx context.Context, in UnitInput) (*units.Unit, error) {
	var out units.Unit
	if err := c.do(ctx, http.MethodPost, "/unidades/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUnit(ctx context.Context, id units.ID, in UnitInput) (*units.Unit, error) {
	var out units.Unit
	if err := c.do(ctx, http.MethodPut, idPath("/unidades/", id, ""), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUnit(ctx context.Context, id units.ID) (DeleteResult, error) {
	var out DeleteResult
	err := c.do(ctx, http.MethodDelete, idPath("/unidades/", id, ""), nil, nil, &out)
	return out, err
}

// UnitHistory lists every failure of one unit, newest first.
func (c *Client) UnitHistory(ctx context.Context, id units.ID) ([]*dashboard.FailureWithUnitName, error) {
	var out []*dashboard.FailureWithUnitName
	err := c.do(ctx, http.MethodGet, idPath("/unidades/", id, "falhas/"), nil, nil, &out)
	return out, err
}

// ---- failures

// FailureInput is the body of create and full update. Date is required by
// the service; nil Active means active on create.
type FailureInput struct {
	Description string        `json:"falha_ocorrida"`
	Date        failures.Date `json:"data_falha"`
	Active      *bool         `json:"ativa,omitempty"`
	Note        string        `json:"observacao"`
	UnitID      units.ID      `json:"unidade"`
}

// FailurePatch only sends the fields that are set.
type FailurePatch struct {
	Description *string        `json:"falha_ocorrida,omitempty"`
	Date        *failures.Date `json:"data_falha,omitempty"`
	Active      *bool          `json:"ativa,omitempty"`
	Note        *string        `json:"observacao,omitempty"`
	UnitID      *units.ID      `json:"unidade,omitempty"`
}

func (c *Client) ListFailures(ctx context.Context, f failures.Filter) ([]*failures.Failure, error) {
	q := url.Values{}
	if f.UnitID != nil {
		q.Set("unidade", strconv.FormatInt(*f.UnitID, 10))
	}
	if f.Active != nil {
		q.Set("ativa", strconv.FormatBool(*f.Active))
	}
	var out []*failures.Failure
	err := c.do(ctx, http.MethodGet, "/falhas/", q, nil, &out)
	return out, err
}

// ListDetailed returns failures with their unit names; closed ones only when showClosed.
func (c *Client) ListDetailed(ctx context.Context, showClosed bool) ([]*dashboard.FailureWithUnitName, error) {
	q := url.Values{}
	if showClosed {
		q.Set("encerradas", "true")
	}
	var out []*dashboard.FailureWithUnitName
	err := c.do(ctx, http.MethodGet, "/falhas/detalhadas/", q, nil, &out)
	return out, err
}

func (c *Client) GetFailure(ctx context.Context, id failures.ID) (*failures.Failure, error) {
	var out failures.Failure
	if err := c.do(ctx, http.MethodGet, idPath("/falhas/", id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFailure(ctx context.Context, in FailureInput) (*failures.Failure, error) {
	var out failures.Failure
	if err := c.do(ctx, http.MethodPost, "/falhas/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFailure(ctx context.Context, id failures.ID, in FailureInput) (*failures.Failure, error) {
	var out failures.Failure
	if err := c.do(ctx, http.MethodPut, idPath("/falhas/", id, ""), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PatchFailure(ctx context.Context, id failures.ID, p FailurePatch) (*failures.Failure, error) {
	var out failures.Failure
	if err := c.do(ctx, http.MethodPatch, idPath("/falhas/", id, ""), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetActive toggles ativa, used for resolve and reopen.
func (c *Client) SetActive(ctx context.Context, id failures.ID, active bool) (*failures.Failure, error) {
	return c.PatchFailure(ctx, id, FailurePatch{Active: &active})
}

// ---- dashboard & menu

func periodQuery(p dashboard.Period) url.Values {
	q := url.Values{}
	q.Set("mes", strconv.Itoa(int(p.Month)))
	q.Set("ano", strconv.Itoa(p.Year))
	return q
}

func (c *Client) Dashboard(ctx context.Context, p dashboard.Period) (dashboard.Report, error) {
	var out dashboard.Report
	err := c.do(ctx, http.MethodGet, "/dashboard/", periodQuery(p), nil, &out)
	return out, err
}

func (c *Client) DashboardDetails(ctx context.Context, p dashboard.Period, kind dashboard.Subset, page, size int) (dashboard.Page, error) {
	q := periodQuery(p)
	q.Set("tipo", string(kind))
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("page_size", strconv.Itoa(size))
	}
	var out dashboard.Page
	err := c.do(ctx, http.MethodGet, "/dashboard/falhas/", q, nil, &out)
	return out, err
}

// MenuItem mirrors one sidebar node as served by /menu/.
type MenuItem struct {
	Kind  string     `json:"kind"`
	Title string     `json:"title"`
	Icon  string     `json:"icon"`
	Path  string     `json:"path,omitempty"`
	Items []MenuItem `json:"items,omitempty"`
}

func (c *Client) Menu(ctx context.Context) ([]MenuItem, error) {
	var out []MenuItem
	err := c.do(ctx, http.MethodGet, "/menu/", nil, nil, &out)
	return out, err
}
