package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSONEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		data   any
		check  func(*testing.T, map[string]any)
	}{
		{
			name:   "object payload",
			status: http.StatusOK,
			data:   map[string]int{"current": 4, "best": 12},
			check: func(t *testing.T, body map[string]any) {
				data, ok := body["data"].(map[string]any)
				require.True(t, ok, "data should be an object")
				assert.Equal(t, float64(4), data["current"])
				assert.Equal(t, float64(12), data["best"])
			},
		},
		{
			name:   "nil payload",
			status: http.StatusAccepted,
			data:   nil,
			check: func(t *testing.T, body map[string]any) {
				assert.Nil(t, body["data"])
			},
		},
		{
			name:   "list payload",
			status: http.StatusOK,
			data:   []string{"2024-06-03", "2024-06-10"},
			check: func(t *testing.T, body map[string]any) {
				data, ok := body["data"].([]any)
				require.True(t, ok, "data should be an array")
				assert.Len(t, data, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			respondJSON(w, tt.status, tt.data)

			resp := w.Result()
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, true, body["success"])

			ts, ok := body["timestamp"].(string)
			require.True(t, ok, "timestamp should be present")
			_, err := time.Parse(time.RFC3339, ts)
			assert.NoError(t, err)

			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid month format")

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Bad Request", body["error"])
	assert.Equal(t, "Invalid month format", body["message"])
}

func TestRespondJSONErrorTruncatesLongMessages(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", long)

	resp := w.Result()
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	msg, ok := body["message"].(string)
	require.True(t, ok)
	assert.Len(t, msg, 203) // 200 chars plus the ellipsis
	assert.True(t, strings.HasSuffix(msg, "..."))
}
