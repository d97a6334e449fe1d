package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/project"
	"github.com/safina-app/safina/internal/team"
)

// TransportError reports a network failure or a non-2xx response.
// Retry policy is the caller's concern; the client never retries and
// never caches.
type TransportError struct {
	Op         string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client is the typed wrapper around the backend REST API. It owns
// wire-shape translation and nothing else.
type Client struct {
	base   string
	token  string
	client *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}

// ExpenseQuery narrows a server-side expense listing. Zero value lists
// the full collection.
type ExpenseQuery struct {
	Project string
	Status  expense.Status
}

func (c *Client) ListExpenses(ctx context.Context, q ExpenseQuery) ([]expense.Request, error) {
	query := url.Values{}

	if q.Project != "" {
		query.Set("project", q.Project)
	}

	if q.Status != "" {
		query.Set("status", string(q.Status))
	}

	var dtos []ExpenseDTO
	if err := c.do(ctx, "list expenses", http.MethodGet, "/expenses", query, nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]expense.Request, len(dtos))
	for i, d := range dtos {
		out[i] = d.ToDomain()
	}

	return out, nil
}

// CreateExpenseParams carries a new submission. The backend derives the
// total, currency and request code.
type CreateExpenseParams struct {
	Purpose   string
	ProjectID string
	Items     []expense.Item
	Date      *time.Time
}

func (c *Client) CreateExpense(ctx context.Context, params CreateExpenseParams) (expense.Request, error) {
	body := CreateExpenseDTO{
		Purpose:   params.Purpose,
		ProjectID: params.ProjectID,
		Items:     ItemsToDTO(params.Items),
		Date:      params.Date,
	}

	var dto ExpenseDTO
	if err := c.do(ctx, "create expense", http.MethodPost, "/expenses", nil, body, &dto); err != nil {
		return expense.Request{}, err
	}

	return dto.ToDomain(), nil
}

// SetExpenseStatus commits a status transition and returns the
// authoritative updated record. The call is idempotent on the backend.
func (c *Client) SetExpenseStatus(ctx context.Context, id string, status expense.Status, comment string) (expense.Request, error) {
	body := StatusUpdateDTO{Status: string(status), Comment: comment}

	var dto ExpenseDTO
	if err := c.do(ctx, "set expense status", http.MethodPatch, "/expenses/"+id+"/status", nil, body, &dto); err != nil {
		return expense.Request{}, err
	}

	return dto.ToDomain(), nil
}

func (c *Client) SetInternalComment(ctx context.Context, id, text string) error {
	body := InternalCommentDTO{InternalComment: text}

	return c.do(ctx, "set internal comment", http.MethodPut, "/expenses/"+id+"/comment", nil, body, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]project.Project, error) {
	var dtos []ProjectDTO
	if err := c.do(ctx, "list projects", http.MethodGet, "/projects", nil, nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]project.Project, len(dtos))
	for i, d := range dtos {
		out[i] = d.ToDomain()
	}

	return out, nil
}

func (c *Client) CreateProject(ctx context.Context, name, code string) (project.Project, error) {
	var dto ProjectDTO
	if err := c.do(ctx, "create project", http.MethodPost, "/projects", nil, CreateProjectDTO{Name: name, Code: code}, &dto); err != nil {
		return project.Project{}, err
	}

	return dto.ToDomain(), nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, "delete project", http.MethodDelete, "/projects/"+id, nil, nil, nil)
}

func (c *Client) ListTeam(ctx context.Context) ([]team.Member, error) {
	var dtos []TeamMemberDTO
	if err := c.do(ctx, "list team", http.MethodGet, "/team", nil, nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]team.Member, len(dtos))
	for i, d := range dtos {
		out[i] = d.ToDomain()
	}

	return out, nil
}

func (c *Client) CreateTeamMember(ctx context.Context, params team.CreateParams) (team.Member, error) {
	body := CreateTeamMemberDTO{
		LastName:   params.LastName,
		FirstName:  params.FirstName,
		Position:   params.Position,
		ProjectIDs: params.ProjectIDs,
		Login:      params.Login,
		Password:   params.Password,
	}

	var dto TeamMemberDTO
	if err := c.do(ctx, "create team member", http.MethodPost, "/team", nil, body, &dto); err != nil {
		return team.Member{}, err
	}

	return dto.ToDomain(), nil
}

func (c *Client) DeleteTeamMember(ctx context.Context, id string) error {
	return c.do(ctx, "delete team member", http.MethodDelete, "/team/"+id, nil, nil, nil)
}

// CSVExportQuery mirrors the backend export filter parameters.
type CSVExportQuery struct {
	Project     string
	From        *time.Time
	To          *time.Time
	AllStatuses bool
}

// ExportExpensesCSV downloads the server-rendered CSV report into dir
// and returns the written path.
func (c *Client) ExportExpensesCSV(ctx context.Context, q CSVExportQuery, dir string) (string, error) {
	query := url.Values{}

	if q.Project != "" && q.Project != "all" {
		query.Set("project", q.Project)
	}

	if q.From != nil {
		query.Set("from_date", q.From.Format(time.DateOnly))
	}

	if q.To != nil {
		query.Set("to_date", q.To.Format(time.DateOnly))
	}

	if q.AllStatuses {
		query.Set("all_statuses", "true")
	}

	fallback := fmt.Sprintf("expenses_%s.csv", time.Now().Format("20060102"))

	return c.download(ctx, "export expenses csv", "/expenses/export", query, dir, fallback)
}

// ExportExpenseDocument downloads the formatted single-request document
// rendered by the backend.
func (c *Client) ExportExpenseDocument(ctx context.Context, id, dir string) (string, error) {
	return c.download(ctx, "export expense document", "/expenses/"+id+"/document", nil, dir, id+".pdf")
}

func (c *Client) download(ctx context.Context, op, path string, query url.Values, dir, fallback string) (string, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("%s: creating request: %w", op, err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: creating output directory: %w", op, err)
	}

	name := filenameFromResponse(resp, fallback)
	target := filepath.Join(dir, name)

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("%s: creating file: %w", op, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("%s: writing file: %w", op, err)
	}

	return target, nil
}

func filenameFromResponse(resp *http.Response, fallback string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				return strings.ReplaceAll(filepath.Base(filename), " ", "_")
			}
		}
	}

	return fallback
}
