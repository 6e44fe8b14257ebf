package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prodscope/prodscope/pkg/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisWatchStreamsUntilTerminal(t *testing.T) {
	s := newTestServer(t)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	id := s.analyses.Start("garden furniture", "six_layer_insight")

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/analysis/" + id + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var last analysis.StatusView
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

		var view analysis.StatusView
		if err := conn.ReadJSON(&view); err != nil {
			// Server closes after the terminal snapshot.
			break
		}
		assert.Equal(t, id, view.ID)
		assert.GreaterOrEqual(t, view.Progress, last.Progress)
		last = view
		if view.Status != analysis.StatusRunning {
			break
		}
	}

	assert.Equal(t, analysis.StatusCompleted, last.Status)
	assert.Equal(t, 100, last.Progress)
}
