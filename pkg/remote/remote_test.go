package remote

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	engine, err := os.Executable()
	require.Nil(t, err)

	opts := DefaultOptions()
	opts.Engine = engine
	opts.Bind = "127.0.0.1:0"
	opts.Secret = "s3cret"
	opts.Name = "test-engine"
	opts.MaxThreads = 4
	opts.MaxHash = 256
	return opts
}

func TestMakeServer(t *testing.T) {
	opts := testOptions(t)
	spec, srv, err := MakeServer(opts, nil)
	require.Nil(t, err)
	defer srv.Close()

	t.Run("advertises the bound address", func(t *testing.T) {
		assert.Equal(t, "ws://"+srv.Addr().String()+"/socket", spec.SocketURL())
	})

	t.Run("registration url is stable", func(t *testing.T) {
		first := spec.RegistrationURL()
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, spec.RegistrationURL())
		}
	})

	t.Run("registration url parameters", func(t *testing.T) {
		u, err := url.Parse(spec.RegistrationURL())
		require.Nil(t, err)
		assert.Equal(t, "lichess.org", u.Host)
		assert.Equal(t, "/analysis/external", u.Path)

		q := u.Query()
		assert.Equal(t, spec.SocketURL(), q.Get("url"))
		assert.Equal(t, "s3cret", q.Get("secret"))
		assert.Equal(t, "test-engine", q.Get("name"))
		assert.Equal(t, "4", q.Get("maxThreads"))
		assert.Equal(t, "256", q.Get("maxHash"))
		assert.False(t, q.Has("variants"))
		assert.False(t, q.Has("officialStockfish"))
	})
}

func TestRegistrationURLOptionalParams(t *testing.T) {
	opts := testOptions(t)
	opts.Variants = []string{"chess", "atomic"}
	opts.OfficialStockfish = true
	spec := newSpec("example.org:9670", opts)

	u, err := url.Parse(spec.RegistrationURL())
	require.Nil(t, err)
	q := u.Query()
	assert.Equal(t, "ws://example.org:9670/socket", q.Get("url"))
	assert.Equal(t, "chess,atomic", q.Get("variants"))
	assert.Equal(t, "true", q.Get("officialStockfish"))

	opts.Variants[0] = "mutated"
	assert.Equal(t, []string{"chess", "atomic"}, spec.variants)
}

func TestMakeServerPublishAddr(t *testing.T) {
	opts := testOptions(t)
	opts.PublishAddr = "engine.example.org:443"
	spec, srv, err := MakeServer(opts, nil)
	require.Nil(t, err)
	defer srv.Close()

	assert.Equal(t, "ws://engine.example.org:443/socket", spec.SocketURL())
}

func TestMakeServerGeneratesSecret(t *testing.T) {
	opts := testOptions(t)
	opts.Secret = ""
	spec, srv, err := MakeServer(opts, nil)
	require.Nil(t, err)
	defer srv.Close()

	assert.Len(t, spec.Secret(), 36)
}

func TestMakeServerBindFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	defer l.Close()

	opts := testOptions(t)
	opts.Bind = l.Addr().String()
	spec, srv, err := MakeServer(opts, nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "bind")
	assert.Nil(t, spec)
	assert.Nil(t, srv)
}

func TestMakeServerInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"missing engine", func(o *Options) { o.Engine = "" }},
		{"missing bind", func(o *Options) { o.Bind = "" }},
		{"missing name", func(o *Options) { o.Name = "" }},
		{"zero threads", func(o *Options) { o.MaxThreads = 0 }},
		{"zero hash", func(o *Options) { o.MaxHash = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			tt.modify(&opts)
			_, _, err := MakeServer(opts, nil)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestMakeServerUnknownEngine(t *testing.T) {
	opts := testOptions(t)
	opts.Engine = "no-such-engine-binary-on-path"
	_, _, err := MakeServer(opts, nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "no-such-engine-binary-on-path")
}

func TestServeUntil(t *testing.T) {
	_, srv, err := MakeServer(testOptions(t), nil)
	require.Nil(t, err)

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- srv.ServeUntil(stop)
	}()

	res, err := http.Get("http://" + srv.Addr().String() + "/status?secret=s3cret")
	require.Nil(t, err)
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get(requestIDHeader))

	close(stop)
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.NotNil(t, srv.ServeUntil(make(chan struct{})))
}

func TestHandlers(t *testing.T) {
	_, srv, err := MakeServer(testOptions(t), nil)
	require.Nil(t, err)
	defer srv.Close()
	h := srv.http.Handler

	t.Run("status requires the secret", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status?secret=wrong", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("status reports engine limits", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status?secret=s3cret", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body statusResponse
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "test-engine", body.Name)
		assert.Equal(t, 4, body.MaxThreads)
		assert.Equal(t, 256, body.MaxHash)
	})

	t.Run("status rejects other methods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status?secret=s3cret", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("socket requires an upgrade", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/socket?secret=s3cret", nil))
		assert.Equal(t, http.StatusUpgradeRequired, rec.Code)
	})

	t.Run("keeps a caller supplied request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/status?secret=s3cret", nil)
		req.Header.Set(requestIDHeader, "abc")
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))
	})
}
