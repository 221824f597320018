package runner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	name   string
	result *Result
	err    error
	calls  int32
}

func (s *stubRunner) Name() string { return s.name }

func (s *stubRunner) Run(ctx context.Context, language, source string) (*Result, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.result, s.err
}

func TestProxy(t *testing.T) {
	t.Run("returns the first success", func(t *testing.T) {
		first := &stubRunner{name: "first", result: &Result{Stdout: "ok"}}
		second := &stubRunner{name: "second", result: &Result{Stdout: "unused"}}
		p := NewProxy(first, second)

		res, err := p.Execute(context.Background(), "python", "print(1)")
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Stdout)
		assert.EqualValues(t, 0, atomic.LoadInt32(&second.calls))
	})

	t.Run("falls through a failing backend", func(t *testing.T) {
		first := &stubRunner{name: "first", err: errors.New("backend unreachable")}
		second := &stubRunner{name: "second", result: &Result{Stdout: "ok"}}
		p := NewProxy(first, second)

		res, err := p.Execute(context.Background(), "python", "print(1)")
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Stdout)
	})

	t.Run("exhaustion yields the typed error, not a backend error", func(t *testing.T) {
		first := &stubRunner{name: "first", err: errors.New("boom")}
		second := &stubRunner{name: "second", err: errors.New("also boom")}
		p := NewProxy(first, second)

		_, err := p.Execute(context.Background(), "python", "print(1)")
		assert.ErrorIs(t, err, ErrAllRunnersFailed)
		assert.NotContains(t, err.Error(), "boom")
	})
}

func TestPaiza(t *testing.T) {
	t.Run("submits then polls until completed", func(t *testing.T) {
		var polls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/runners/create":
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "nodejs", body["language"]) // javascript is mapped
				assert.Equal(t, "guest", body["api_key"])
				json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
			case "/runners/get_details":
				assert.Equal(t, "job-1", r.URL.Query().Get("id"))
				if atomic.AddInt32(&polls, 1) < 2 {
					json.NewEncoder(w).Encode(map[string]string{"status": "running"})
					return
				}
				json.NewEncoder(w).Encode(map[string]string{
					"status": "completed",
					"stdout": "hello\n",
					"stderr": "",
				})
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		p := NewPaiza(srv.URL, time.Millisecond, 5, time.Second)
		res, err := p.Run(context.Background(), "javascript", "console.log('hello')")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", res.Stdout)
		assert.EqualValues(t, 2, atomic.LoadInt32(&polls))
	})

	t.Run("fails once the poll budget is spent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/runners/create":
				json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
			default:
				json.NewEncoder(w).Encode(map[string]string{"status": "running"})
			}
		}))
		defer srv.Close()

		p := NewPaiza(srv.URL, time.Millisecond, 3, time.Second)
		_, err := p.Run(context.Background(), "python", "while True: pass")
		assert.Error(t, err)
	})

	t.Run("fails on a create without a job id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		p := NewPaiza(srv.URL, time.Millisecond, 3, time.Second)
		_, err := p.Run(context.Background(), "python", "print(1)")
		assert.Error(t, err)
	})

	t.Run("build errors surface through the normalized result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/runners/create":
				json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
			default:
				json.NewEncoder(w).Encode(map[string]string{
					"status":       "completed",
					"build_stderr": "syntax error",
				})
			}
		}))
		defer srv.Close()

		p := NewPaiza(srv.URL, time.Millisecond, 3, time.Second)
		res, err := p.Run(context.Background(), "c", "int main( {}")
		require.NoError(t, err)
		assert.Equal(t, "syntax error", res.Stdout)
		assert.Equal(t, "syntax error", res.Stderr)
	})

	t.Run("respects context cancellation between polls", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/runners/create":
				json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
			default:
				json.NewEncoder(w).Encode(map[string]string{"status": "running"})
			}
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := NewPaiza(srv.URL, time.Hour, 3, time.Second)
		_, err := p.Run(ctx, "python", "print(1)")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPiston(t *testing.T) {
	t.Run("normalizes the run response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "https://emkc.org/", r.Header.Get("Referer"))
			assert.Equal(t, "https://emkc.org", r.Header.Get("Origin"))

			var body pistonRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "*", body.Version)
			require.Len(t, body.Files, 1)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"run": map[string]string{"stdout": "out\n", "stderr": "warn\n"},
			})
		}))
		defer srv.Close()

		p := NewPiston(srv.URL, time.Second)
		res, err := p.Run(context.Background(), "python", "print('out')")
		require.NoError(t, err)
		assert.Equal(t, "out\n", res.Stdout)
		assert.Equal(t, "warn\n", res.Stderr)
	})

	t.Run("falls back to the combined output field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"run": map[string]string{"output": "combined\n"},
			})
		}))
		defer srv.Close()

		p := NewPiston(srv.URL, time.Second)
		res, err := p.Run(context.Background(), "python", "print(1)")
		require.NoError(t, err)
		assert.Equal(t, "combined\n", res.Stdout)
	})

	t.Run("non-success status is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		p := NewPiston(srv.URL, time.Second)
		_, err := p.Run(context.Background(), "python", "print(1)")
		assert.Error(t, err)
	})

	t.Run("a response without run is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"message": "unknown language"})
		}))
		defer srv.Close()

		p := NewPiston(srv.URL, time.Second)
		_, err := p.Run(context.Background(), "klingon", "nuqneH")
		assert.Error(t, err)
	})
}
