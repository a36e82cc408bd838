package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/multitab/internal/domain/entity"
)

func TestNewClientBaseURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:9000", NewClient("127.0.0.1:9000").baseURL)
	assert.Equal(t, "http://localhost:1", NewClient("http://localhost:1/").baseURL)
}

func TestClientRoundTrip(t *testing.T) {
	cmds := &fakeCommands{
		createID: "tab-9",
		tabs:     []entity.TabSnapshot{{ID: "tab-1", URL: "https://a.example", Title: "A"}},
		downloads: []entity.DownloadView{
			{ID: "d1", Filename: "a.bin", TotalBytes: 4096, ReceivedBytes: 1024, State: entity.DownloadProgressing},
		},
	}
	srv, _ := newTestServer(t, cmds)
	client := NewClient(srv.URL)
	ctx := context.Background()

	tabs, err := client.Tabs(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.TabID("tab-1"), tabs.Active)
	assert.Equal(t, cmds.tabs, tabs.Tabs)

	downloads, err := client.Downloads(ctx)
	require.NoError(t, err)
	require.Len(t, downloads.Downloads, 1)
	assert.Equal(t, 1, downloads.Active)
	require.NotNil(t, downloads.Downloads[0].Human)
	assert.Equal(t, "4.0 KB", downloads.Downloads[0].Human.Total)

	result, err := client.Send(ctx, Command{Name: "createTab", URL: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "tab-9"}, result.Data)
	assert.Contains(t, cmds.recorded(), "create example.com")
}

func TestClientErrors(t *testing.T) {
	srv, _ := newTestServer(t, &fakeCommands{})
	client := NewClient(srv.URL)

	_, err := client.Send(context.Background(), Command{Name: "switchTab"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	_, err = NewClient(failing.URL).Tabs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
