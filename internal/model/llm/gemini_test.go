package llm

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiTestServer(t *testing.T, status int, body string) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("GEMINI_BASE_URL", srv.URL)
	c, err := NewGeminiClient("gemini-1.5-flash", "test-key")
	require.NoError(t, err)
	return c
}

func TestGeminiClient_ParsesCandidates(t *testing.T) {
	c := newGeminiTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"量子计算依赖量子比特。"}]}}]}`)

	text, err := c.Generate("什么是量子计算", GenerateOptions{MaxTokens: 128})
	require.NoError(t, err)
	assert.Equal(t, "量子计算依赖量子比特。", text)
}

func TestGeminiClient_MalformedBody(t *testing.T) {
	c := newGeminiTestServer(t, http.StatusOK, `{not json`)

	_, err := c.Generate("anything", GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	c := newGeminiTestServer(t, http.StatusOK, `{"candidates":[]}`)

	_, err := c.Generate("anything", GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneration)
}
