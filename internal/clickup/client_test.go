package clickup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClickUp struct {
	mu       sync.Mutex
	auth     []string
	taskHits map[string]int
	failPath string
}

func (f *fakeClickUp) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /space/{id}/folder", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		fmt.Fprint(w, `{"folders":[{"id":"f1","name":"Engineering"},{"id":"f2","name":"Marketing"}]}`)
	})
	mux.HandleFunc("GET /space/{id}/list", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		fmt.Fprint(w, `{"lists":[{"id":"l9","name":"Inbox"}]}`)
	})
	mux.HandleFunc("GET /folder/{id}/list", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		switch r.PathValue("id") {
		case "f1":
			fmt.Fprint(w, `{"lists":[{"id":"l1","name":"Backend"},{"id":"l2","name":"Frontend"}]}`)
		default:
			fmt.Fprint(w, `{"lists":[{"id":"l3","name":"Campaigns"}]}`)
		}
	})
	mux.HandleFunc("GET /list/{id}/task", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		id := r.PathValue("id")
		if f.failPath != "" && r.URL.Path == f.failPath {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"err":"Token invalid","ECODE":"OAUTH_025"}`)
			return
		}
		f.mu.Lock()
		f.taskHits[id]++
		f.mu.Unlock()

		page := r.URL.Query().Get("page")
		switch {
		case id == "l1" && page == "0":
			fmt.Fprint(w, `{"tasks":[
				{"id":"t1","name":"Fix login","status":{"status":"in progress"},"priority":{"priority":"high"},
				 "assignees":[{"username":"ana"},{"username":"bo"}],"due_date":"1700000000000",
				 "date_created":"1690000000000","url":"https://app.clickup.com/t/t1","text_content":"desc"}
			],"last_page":false}`)
		case id == "l1" && page == "1":
			fmt.Fprint(w, `{"tasks":[
				{"id":"t2","name":"Add cache","status":{"status":"open"},"priority":null,"assignees":[],"due_date":null}
			],"last_page":true}`)
		case id == "l2":
			fmt.Fprint(w, `{"tasks":[{"id":"t3","name":"Navbar","status":{"status":"done"},"due_date":1700000000000}]}`)
		case id == "l3":
			fmt.Fprint(w, `{"tasks":[],"last_page":true}`)
		default:
			fmt.Fprint(w, `{"tasks":[{"id":"t9","name":"Triage","status":{"status":"open"},"due_date":"garbage"}]}`)
		}
	})
	return mux
}

func (f *fakeClickUp) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
}

func newFakeClient(t *testing.T, fake *fakeClickUp, token string, folderless bool) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := New(Options{
		BaseURL:           srv.URL,
		AccessToken:       token,
		SpaceID:           "s1",
		Concurrency:       2,
		IncludeFolderless: folderless,
	})
	require.NoError(t, err)
	return client
}

func TestFetchTasksWalksSpaceInOrder(t *testing.T) {
	fake := &fakeClickUp{taskHits: map[string]int{}}
	client := newFakeClient(t, fake, "pk_123", true)

	tasks, err := client.FetchTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	ids := []string{tasks[0].ID, tasks[1].ID, tasks[2].ID, tasks[3].ID}
	assert.Equal(t, []string{"t1", "t2", "t3", "t9"}, ids)

	first := tasks[0]
	assert.Equal(t, "Fix login", first.Name)
	assert.Equal(t, "in progress", first.Status)
	assert.Equal(t, "high", first.Priority)
	assert.Equal(t, []string{"ana", "bo"}, first.Assignees)
	assert.Equal(t, "Backend", first.List)
	assert.Equal(t, "Engineering", first.Folder)
	require.NotNil(t, first.DueDate)
	assert.True(t, first.DueDate.Equal(time.UnixMilli(1700000000000)))
	require.NotNil(t, first.DateCreated)
	assert.Nil(t, first.DateUpdated)
	assert.Equal(t, "desc", first.Description)

	assert.Empty(t, tasks[1].Priority, "null priority becomes empty")
	assert.Nil(t, tasks[1].DueDate, "null due date stays unset")
	assert.Empty(t, tasks[1].Assignees)

	require.NotNil(t, tasks[2].DueDate, "numeric due date is accepted")

	assert.Equal(t, FolderlessName, tasks[3].Folder)
	assert.Nil(t, tasks[3].DueDate, "unparsable due date becomes unset")

	assert.Equal(t, 2, fake.taskHits["l1"], "paged list requested until last_page")
}

func TestFetchTasksSkipsFolderlessListsWhenDisabled(t *testing.T) {
	fake := &fakeClickUp{taskHits: map[string]int{}}
	client := newFakeClient(t, fake, "pk_123", false)

	tasks, err := client.FetchTasks(context.Background())
	require.NoError(t, err)
	for _, task := range tasks {
		assert.NotEqual(t, FolderlessName, task.Folder)
	}
	assert.Len(t, tasks, 3)
}

func TestPersonalTokenSentVerbatim(t *testing.T) {
	fake := &fakeClickUp{taskHits: map[string]int{}}
	client := newFakeClient(t, fake, "pk_abc", false)

	_, err := client.FetchTasks(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, fake.auth)
	for _, got := range fake.auth {
		assert.Equal(t, "pk_abc", got)
	}
}

func TestOAuthTokenSentAsBearer(t *testing.T) {
	fake := &fakeClickUp{taskHits: map[string]int{}}
	client := newFakeClient(t, fake, "oauth-access", false)

	_, err := client.FetchTasks(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, fake.auth)
	for _, got := range fake.auth {
		assert.Equal(t, "Bearer oauth-access", got)
	}
}

func TestFetchTasksFailsOnProviderError(t *testing.T) {
	fake := &fakeClickUp{taskHits: map[string]int{}, failPath: "/list/l2/task"}
	client := newFakeClient(t, fake, "pk_123", false)

	tasks, err := client.FetchTasks(context.Background())
	require.Error(t, err)
	assert.Nil(t, tasks)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "OAUTH_025", apiErr.Code)
	assert.Equal(t, "Token invalid", apiErr.Message)
	assert.True(t, apiErr.IsAuth())
	assert.Contains(t, err.Error(), "Token invalid")
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Options{SpaceID: "1"})
	require.Error(t, err)
	_, err = New(Options{AccessToken: "pk_1"})
	require.Error(t, err)
}

func TestDecodeErrorPlainBody(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusBadGateway)
	_, _ = rec.WriteString("upstream down\n")

	err := decodeError(rec.Result(), "/space/1/folder")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.False(t, apiErr.IsAuth())
}
