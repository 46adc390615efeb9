package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultTimeout, svc.client.Timeout)
}

func TestNewEmbeddingService_HTTPClient(t *testing.T) {
	client := &http.Client{}
	svc := NewEmbeddingService(Config{HTTPClient: client})
	assert.Same(t, client, svc.client)
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	var got embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		out := embedResponse{}
		for i := range got.Input {
			out.Embeddings = append(out.Embeddings, []float32{float32(i), 1})
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Model: "mxbai-embed-large"})

	vectors, err := svc.EmbedBatch(context.Background(), []string{"python", "go", "sql"})
	require.NoError(t, err)

	assert.Equal(t, "mxbai-embed-large", got.Model)
	assert.Equal(t, []string{"python", "go", "sql"}, got.Input)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}, {2, 1}}, vectors)
}

func TestEmbeddingService_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.5,0.25]]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	vec, err := svc.Embed(context.Background(), "skills")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, vec)
}

func TestEmbeddingService_EmbedBatch_Empty(t *testing.T) {
	svc := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"})
	vectors, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbeddingService_EmbedBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "model missing",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`model "nomic-embed-text" not found`))
			},
			wantMsg: "status 404",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"embeddings":`))
			},
			wantMsg: "decode response",
		},
		{
			name: "count mismatch",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"embeddings":[[1]]}`))
			},
			wantMsg: "got 1 embeddings for 2 texts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			svc := NewEmbeddingService(Config{BaseURL: server.URL})
			_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestEmbeddingService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}

func TestEmbeddingService_Ping_Unreachable(t *testing.T) {
	svc := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"})
	err := svc.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama: ping failed")
}
