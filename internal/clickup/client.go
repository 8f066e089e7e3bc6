// Package clickup fetches task records from the ClickUp v2 REST API.
package clickup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"taskchat/internal/metrics"
	"taskchat/internal/models"
)

const (
	// DefaultBaseURL is the public ClickUp v2 API root.
	DefaultBaseURL = "https://api.clickup.com/api/v2"

	// FolderlessName is the folder label given to lists that live directly in a space.
	FolderlessName = "No Folder"

	defaultTimeout     = 30 * time.Second
	defaultConcurrency = 4
	maxTaskPages       = 200
	maxErrorBodyBytes  = 4 << 10

	personalTokenPrefix = "pk_"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	AccessToken       string
	SpaceID           string
	Timeout           time.Duration
	Concurrency       int
	IncludeClosed     bool
	IncludeFolderless bool
	// HTTPClient overrides the transport; auth headers are still added.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client walks a ClickUp space and returns its tasks as flat rows.
type Client struct {
	baseURL           string
	spaceID           string
	http              *http.Client
	concurrency       int
	includeClosed     bool
	includeFolderless bool
	logger            *slog.Logger
}

type folderRef struct {
	ID   string
	Name string
}

type listRef struct {
	ID     string
	Name   string
	Folder string
}

// New creates a ClickUp client.
func New(opts Options) (*Client, error) {
	token := strings.TrimSpace(opts.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("clickup access token is required")
	}
	spaceID := strings.TrimSpace(opts.SpaceID)
	if spaceID == "" {
		return nil, fmt.Errorf("clickup space id is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var base http.RoundTripper = http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		base = opts.HTTPClient.Transport
	}

	return &Client{
		baseURL:           baseURL,
		spaceID:           spaceID,
		http:              &http.Client{Timeout: timeout, Transport: authTransport(token, base)},
		concurrency:       concurrency,
		includeClosed:     opts.IncludeClosed,
		includeFolderless: opts.IncludeFolderless,
		logger:            logger.With("component", "clickup"),
	}, nil
}

// authTransport sends personal tokens verbatim and OAuth access tokens as bearer tokens.
func authTransport(token string, base http.RoundTripper) http.RoundTripper {
	if strings.HasPrefix(token, personalTokenPrefix) {
		return &personalTokenTransport{token: token, base: base}
	}
	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base,
	}
}

type personalTokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *personalTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.token)
	return t.base.RoundTrip(clone)
}

// FetchTasks walks folders, their lists and (optionally) folderless lists, returning
// every task in walk order. Any failed call aborts the whole fetch.
func (c *Client) FetchTasks(ctx context.Context) ([]models.Task, error) {
	lists, err := c.collectLists(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]models.Task, len(lists))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, list := range lists {
		g.Go(func() error {
			tasks, err := c.listTasks(gctx, list)
			if err != nil {
				return err
			}
			c.logger.Debug("fetched list", "folder", list.Folder, "list", list.Name, "tasks", len(tasks))
			results[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, tasks := range results {
		total += len(tasks)
	}
	out := make([]models.Task, 0, total)
	for _, tasks := range results {
		out = append(out, tasks...)
	}
	c.logger.Info("fetched space", "space_id", c.spaceID, "lists", len(lists), "tasks", len(out))
	return out, nil
}

func (c *Client) collectLists(ctx context.Context) ([]listRef, error) {
	folders, err := c.folders(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched folders", "space_id", c.spaceID, "folders", len(folders))

	var lists []listRef
	for _, folder := range folders {
		folderLists, err := c.folderLists(ctx, folder)
		if err != nil {
			return nil, err
		}
		lists = append(lists, folderLists...)
	}

	if c.includeFolderless {
		spaceLists, err := c.spaceLists(ctx)
		if err != nil {
			return nil, err
		}
		lists = append(lists, spaceLists...)
	}
	return lists, nil
}

func (c *Client) folders(ctx context.Context) ([]folderRef, error) {
	body, err := c.get(ctx, "folder", "/space/"+url.PathEscape(c.spaceID)+"/folder", url.Values{"archived": {"false"}})
	if err != nil {
		return nil, err
	}
	var out []folderRef
	gjson.GetBytes(body, "folders").ForEach(func(_, folder gjson.Result) bool {
		out = append(out, folderRef{ID: folder.Get("id").String(), Name: folder.Get("name").String()})
		return true
	})
	return out, nil
}

func (c *Client) folderLists(ctx context.Context, folder folderRef) ([]listRef, error) {
	body, err := c.get(ctx, "list", "/folder/"+url.PathEscape(folder.ID)+"/list", url.Values{"archived": {"false"}})
	if err != nil {
		return nil, err
	}
	return parseLists(body, folder.Name), nil
}

func (c *Client) spaceLists(ctx context.Context) ([]listRef, error) {
	body, err := c.get(ctx, "list", "/space/"+url.PathEscape(c.spaceID)+"/list", url.Values{"archived": {"false"}})
	if err != nil {
		return nil, err
	}
	return parseLists(body, FolderlessName), nil
}

func parseLists(body []byte, folder string) []listRef {
	var out []listRef
	gjson.GetBytes(body, "lists").ForEach(func(_, list gjson.Result) bool {
		out = append(out, listRef{ID: list.Get("id").String(), Name: list.Get("name").String(), Folder: folder})
		return true
	})
	return out
}

// listTasks pages through a list until the provider reports the last page.
func (c *Client) listTasks(ctx context.Context, list listRef) ([]models.Task, error) {
	var out []models.Task
	for page := 0; page < maxTaskPages; page++ {
		query := url.Values{
			"page":           {strconv.Itoa(page)},
			"include_closed": {strconv.FormatBool(c.includeClosed)},
		}
		body, err := c.get(ctx, "task", "/list/"+url.PathEscape(list.ID)+"/task", query)
		if err != nil {
			return nil, err
		}

		tasks := gjson.GetBytes(body, "tasks").Array()
		for _, raw := range tasks {
			out = append(out, parseTask(raw, list.Name, list.Folder))
		}

		lastPage := gjson.GetBytes(body, "last_page")
		if len(tasks) == 0 || !lastPage.Exists() || lastPage.Bool() {
			return out, nil
		}
	}
	c.logger.Warn("task page limit reached", "list", list.Name, "pages", maxTaskPages)
	return out, nil
}

func parseTask(raw gjson.Result, listName, folderName string) models.Task {
	assignees := []string{}
	raw.Get("assignees.#.username").ForEach(func(_, name gjson.Result) bool {
		if value := strings.TrimSpace(name.String()); value != "" {
			assignees = append(assignees, value)
		}
		return true
	})

	return models.Task{
		ID:          raw.Get("id").String(),
		Name:        raw.Get("name").String(),
		Status:      raw.Get("status.status").String(),
		Priority:    raw.Get("priority.priority").String(),
		Assignees:   assignees,
		List:        listName,
		Folder:      folderName,
		DueDate:     parseMillis(raw.Get("due_date")),
		DateCreated: parseMillis(raw.Get("date_created")),
		DateUpdated: parseMillis(raw.Get("date_updated")),
		URL:         raw.Get("url").String(),
		Description: raw.Get("text_content").String(),
	}
}

// parseMillis reads a Unix-millisecond timestamp sent as a string or number.
func parseMillis(value gjson.Result) *time.Time {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(value.String()), 10, 64)
	if err != nil {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "transport_error")
		return nil, fmt.Errorf("clickup %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.RecordProviderRequest(endpoint, "http_error")
		return nil, decodeError(resp, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "transport_error")
		return nil, fmt.Errorf("clickup %s response: %w", endpoint, err)
	}
	if !gjson.ValidBytes(body) {
		metrics.RecordProviderRequest(endpoint, "http_error")
		return nil, &Error{Status: resp.StatusCode, Path: path, Message: "malformed JSON response"}
	}
	metrics.RecordProviderRequest(endpoint, "ok")
	return body, nil
}
