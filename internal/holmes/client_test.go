package holmes_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userTI10/Dashboard-admissao/internal/holmes"
	"github.com/userTI10/Dashboard-admissao/internal/logger"
)

func TestClient_Search_Success(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"docs":[
			{"identifier":"PRC-1","props":[
				{"identifier":"titulo","value":"Analista"},
				{"identifier":"quantidade_de_vagas","value":3}
			]},
			{"identifier":"PRC-2","props":[]}
		],"total":2}`))
	}))
	defer server.Close()

	client := holmes.NewClient(testHolmesConfig(server.URL), logger.NewNop())

	docs, err := client.Search(context.Background(), holmes.StatusOpened, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "PRC-1", docs[0].Identifier)
	require.Len(t, docs[0].Props, 2)
	assert.Equal(t, "titulo", docs[0].Props[0].Identifier)
	assert.Equal(t, "Analista", docs[0].Props[0].Value)
	assert.Equal(t, json.Number("3"), docs[0].Props[1].Value)
	assert.Empty(t, docs[1].Props)

	assert.Equal(t, "token-123", gotBody["api_token"])
	query, ok := gotBody["query"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 100, query["from"], 0)
	assert.InDelta(t, 100, query["size"], 0)
}

func TestClient_Search_MissingDocs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := holmes.NewClient(testHolmesConfig(server.URL), logger.NewNop())

	docs, err := client.Search(context.Background(), holmes.StatusCanceled, 1)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestClient_Search_WithHTTPClient(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[{"identifier":"PRC-9","props":[]}]}`))
	}))
	defer server.Close()

	// The default transport does not trust the test certificate.
	_, err := holmes.NewClient(testHolmesConfig(server.URL), logger.NewNop()).
		Search(context.Background(), holmes.StatusOpened, 1)
	require.Error(t, err)

	client := holmes.NewClient(testHolmesConfig(server.URL), logger.NewNop()).
		WithHTTPClient(server.Client())

	docs, err := client.Search(context.Background(), holmes.StatusOpened, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "PRC-9", docs[0].Identifier)
}

func TestClient_Search_Failures(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantCode    int
		wantMessage string
	}{
		{
			name: "json error body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid api token"}`))
			},
			wantCode:    http.StatusUnauthorized,
			wantMessage: "invalid api token",
		},
		{
			name: "plain text body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("upstream exploded"))
			},
			wantCode:    http.StatusInternalServerError,
			wantMessage: "upstream exploded",
		},
		{
			name: "json api errors",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"errors":[{"title":"bad query","detail":"size too large"}]}`))
			},
			wantCode:    http.StatusBadRequest,
			wantMessage: "bad query: size too large",
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"docs":`))
			},
			wantCode:    http.StatusOK,
			wantMessage: "decode search response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := holmes.NewClient(testHolmesConfig(server.URL), logger.NewNop())

			docs, err := client.Search(context.Background(), holmes.StatusOpened, 1)
			require.Error(t, err)
			assert.Nil(t, docs)

			failed, ok := holmes.IsSearchRequestFailed(err)
			require.True(t, ok, "want SearchRequestFailed, got %T", err)
			assert.Equal(t, holmes.StatusOpened, failed.StatusCategory)
			assert.Equal(t, tt.wantCode, failed.StatusCode)
			assert.Contains(t, failed.Message, tt.wantMessage)
		})
	}
}

func TestClient_Search_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := holmes.NewClient(testHolmesConfig(url), logger.NewNop())

	_, err := client.Search(context.Background(), holmes.StatusCanceled, 1)
	require.Error(t, err)

	failed, ok := holmes.IsSearchRequestFailed(err)
	require.True(t, ok)
	assert.Equal(t, holmes.StatusCanceled, failed.StatusCategory)
	assert.Zero(t, failed.StatusCode)
	assert.NotContains(t, err.Error(), "token-123")
}

func TestClient_Search_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[]}`))
	}))
	defer server.Close()

	client := holmes.NewClient(testHolmesConfig(server.URL), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, holmes.StatusOpened, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSearchRequestFailed_Error(t *testing.T) {
	withCode := &holmes.SearchRequestFailed{StatusCategory: holmes.StatusOpened, StatusCode: 502, Message: "bad gateway"}
	assert.Equal(t, "search opened processes failed (HTTP 502): bad gateway", withCode.Error())

	noCode := &holmes.SearchRequestFailed{StatusCategory: holmes.StatusCanceled, Message: "timeout"}
	assert.Equal(t, "search canceled processes failed: timeout", noCode.Error())
}
