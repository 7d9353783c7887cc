package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pinnacledb/qtd"
	qtdhttp "github.com/pinnacledb/qtd/http"
	"github.com/pinnacledb/qtd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postQuery(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/documents/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (kind, message string) {
	t.Helper()

	var payload struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Kind, payload.Message
}

func TestServer_Query(t *testing.T) {
	t.Parallel()

	t.Run("answers a valid question", func(t *testing.T) {
		t.Parallel()

		var got qtd.Request
		srv := qtdhttp.NewServer(&mock.QueryClient{
			AskFn: func(_ context.Context, req qtd.Request) (*qtd.Answer, error) {
				got = req
				return &qtd.Answer{Text: "Use pip.", Sources: []string{"install.md"}}, nil
			},
		})

		rec := postQuery(t, srv.Handler(), `{"knowledgeBase":"PinnacleDB","question":"  How to install?  "}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"answer":"Use pip.","sources":["install.md"]}`, rec.Body.String())
		assert.Equal(t, qtd.Request{KnowledgeBase: qtd.KnowledgeBasePinnacleDB, Question: "How to install?"}, got)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		t.Parallel()

		srv := qtdhttp.NewServer(&mock.QueryClient{})
		rec := postQuery(t, srv.Handler(), `{not json`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		kind, _ := decodeError(t, rec)
		assert.Equal(t, qtd.EINVALID, kind)
	})

	t.Run("rejects unknown knowledge bases", func(t *testing.T) {
		t.Parallel()

		srv := qtdhttp.NewServer(&mock.QueryClient{})
		rec := postQuery(t, srv.Handler(), `{"knowledgeBase":"llamaindex","question":"hi"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		kind, message := decodeError(t, rec)
		assert.Equal(t, qtd.EINVALID, kind)
		assert.Contains(t, message, "llamaindex")
	})

	t.Run("rejects empty questions", func(t *testing.T) {
		t.Parallel()

		srv := qtdhttp.NewServer(&mock.QueryClient{})
		rec := postQuery(t, srv.Handler(), `{"knowledgeBase":"fastchat","question":"   "}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		_, message := decodeError(t, rec)
		assert.Equal(t, "question required", message)
	})

	t.Run("maps answerer errors to statuses", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			err    error
			status int
			kind   string
		}{
			{"not found", qtd.Errorf(qtd.ENOTFOUND, "no documents"), http.StatusNotFound, qtd.ENOTFOUND},
			{"timeout", qtd.Errorf(qtd.ETIMEOUT, "slow"), http.StatusGatewayTimeout, qtd.ETIMEOUT},
			{"backend", qtd.Errorf(qtd.EBACKEND, "model refused"), http.StatusBadGateway, qtd.EBACKEND},
			{"internal", errors.New("disk on fire"), http.StatusInternalServerError, qtd.EINTERNAL},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				srv := qtdhttp.NewServer(&mock.QueryClient{
					AskFn: func(context.Context, qtd.Request) (*qtd.Answer, error) {
						return nil, tt.err
					},
				})
				rec := postQuery(t, srv.Handler(), `{"knowledgeBase":"langchain","question":"What is a chain?"}`)

				require.Equal(t, tt.status, rec.Code)
				kind, message := decodeError(t, rec)
				assert.Equal(t, tt.kind, kind)
				assert.Equal(t, qtd.ErrorMessage(tt.err), message)
			})
		}
	})

	t.Run("reports a missing answer as a backend error", func(t *testing.T) {
		t.Parallel()

		srv := qtdhttp.NewServer(&mock.QueryClient{
			AskFn: func(context.Context, qtd.Request) (*qtd.Answer, error) {
				return nil, nil
			},
		})
		rec := postQuery(t, srv.Handler(), `{"knowledgeBase":"langchain","question":"What is a chain?"}`)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		kind, message := decodeError(t, rec)
		assert.Equal(t, qtd.EBACKEND, kind)
		assert.Equal(t, "backend returned no answer", message)
	})

	t.Run("rate limits per knowledge base", func(t *testing.T) {
		t.Parallel()

		srv := qtdhttp.NewServer(&mock.QueryClient{
			AskFn: func(context.Context, qtd.Request) (*qtd.Answer, error) {
				return &qtd.Answer{Text: "ok"}, nil
			},
		})
		srv.Limiter = qtdhttp.NewKnowledgeBaseLimiter(0.001, 1)
		h := srv.Handler()

		first := postQuery(t, h, `{"knowledgeBase":"langchain","question":"one"}`)
		second := postQuery(t, h, `{"knowledgeBase":"langchain","question":"two"}`)
		other := postQuery(t, h, `{"knowledgeBase":"fastchat","question":"three"}`)

		assert.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, http.StatusTooManyRequests, second.Code)
		kind, _ := decodeError(t, second)
		assert.Equal(t, "rate_limited", kind)
		assert.Equal(t, http.StatusOK, other.Code)
	})
}

func TestServer_KnowledgeBases(t *testing.T) {
	t.Parallel()

	srv := qtdhttp.NewServer(&mock.QueryClient{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/knowledge-bases", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":"pinnacledb","label":"SuperDuperDB"},
		{"id":"langchain","label":"LangChain"},
		{"id":"fastchat","label":"FastChat"}
	]`, rec.Body.String())
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	srv := qtdhttp.NewServer(&mock.QueryClient{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	t.Run("echoes an allowed origin with credentials", func(t *testing.T) {
		t.Parallel()

		srv := qtdhttp.NewServer(&mock.QueryClient{})
		srv.AllowedOrigins = []string{"http://localhost:3000"}

		req := httptest.NewRequest(http.MethodOptions, "/documents/query", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard allows without credentials", func(t *testing.T) {
		t.Parallel()

		srv := qtdhttp.NewServer(&mock.QueryClient{})
		srv.AllowedOrigins = []string{"*"}

		req := httptest.NewRequest(http.MethodGet, "/knowledge-bases", nil)
		req.Header.Set("Origin", "https://example.com")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("omits headers for other origins", func(t *testing.T) {
		t.Parallel()

		srv := qtdhttp.NewServer(&mock.QueryClient{})
		srv.AllowedOrigins = []string{"http://localhost:3000"}

		req := httptest.NewRequest(http.MethodGet, "/knowledge-bases", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	srv := qtdhttp.NewServer(&mock.QueryClient{
		AskFn: func(_ context.Context, req qtd.Request) (*qtd.Answer, error) {
			return &qtd.Answer{Text: "about " + req.KnowledgeBase.Label()}, nil
		},
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	client := qtdhttp.NewClient("http://" + ln.Addr().String())
	answer, err := client.Ask(context.Background(), qtd.Request{
		KnowledgeBase: qtd.KnowledgeBaseFastChat,
		Question:      "What is it?",
	})
	require.NoError(t, err)
	assert.Equal(t, "about FastChat", answer.Text)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
