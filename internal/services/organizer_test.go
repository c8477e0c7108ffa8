package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/apperr"
)

func fakeCompletionServer(t *testing.T, content string, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		resp := map[string]any{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOrganizer(srv *httptest.Server) *OrganizerService {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOrganizerService(openai.NewClientWithConfig(cfg), "")
}

func TestOrganizeDump(t *testing.T) {
	srv := fakeCompletionServer(t, `["Train on GitHub", "Buy milk"]`, 0)
	svc := newTestOrganizer(srv)

	tasks, err := svc.OrganizeDump(context.Background(), "train on github and buy milk", "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"Train on GitHub", "Buy milk"}, tasks)
}

func TestOrganizeDump_FencedJSON(t *testing.T) {
	srv := fakeCompletionServer(t, "```json\n[\"Call Mom\"]\n```", 0)
	svc := newTestOrganizer(srv)

	tasks, err := svc.OrganizeDump(context.Background(), "call mom", "private")
	require.NoError(t, err)
	assert.Equal(t, []string{"Call Mom"}, tasks)
}

func TestOrganizeDump_BadPayload(t *testing.T) {
	srv := fakeCompletionServer(t, "sure, here are your tasks!", 0)
	svc := newTestOrganizer(srv)

	_, err := svc.OrganizeDump(context.Background(), "anything", "work")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrUpstreamTimeout)
}

func TestOrganizeDump_Timeout(t *testing.T) {
	srv := fakeCompletionServer(t, `[]`, 500*time.Millisecond)
	svc := newTestOrganizer(srv)
	svc.timeout = 20 * time.Millisecond

	_, err := svc.OrganizeDump(context.Background(), "anything", "work")
	assert.ErrorIs(t, err, apperr.ErrUpstreamTimeout)
}

// A user-initiated abort is reported differently from a timeout.
func TestOrganizeDump_Canceled(t *testing.T) {
	srv := fakeCompletionServer(t, `[]`, 500*time.Millisecond)
	svc := newTestOrganizer(srv)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := svc.OrganizeDump(ctx, "anything", "work")
	assert.ErrorIs(t, err, apperr.ErrUpstreamCanceled)
}

func TestDescribeGoal(t *testing.T) {
	srv := fakeCompletionServer(t, "  Ship v1 to prove the product works.  ", 0)
	svc := newTestOrganizer(srv)

	desc, err := svc.DescribeGoal(context.Background(), "Ship v1")
	require.NoError(t, err)
	assert.Equal(t, "Ship v1 to prove the product works.", desc)
}

func TestParseTaskList(t *testing.T) {
	tasks, err := parseTaskList("```\n[\"A\", \"B\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tasks)

	_, err = parseTaskList(`{"tasks": ["A"]}`)
	assert.Error(t, err)
}
