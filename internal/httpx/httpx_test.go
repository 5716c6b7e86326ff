package httpx

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

func TestClient_Do_DefaultHeaders(t *testing.T) {
    var gotUA, gotOrigin, gotKeep string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotUA = r.Header.Get("User-Agent")
        gotOrigin = r.Header.Get("Origin")
        gotKeep = r.Header.Get("X-Keep")
        w.WriteHeader(http.StatusNoContent)
    }))
    defer srv.Close()

    c := New(2 * time.Second)
    c.Headers = map[string]string{"Origin": "http://localhost", "X-Keep": "default"}

    req, err := http.NewRequestWithContext(testContext(t), http.MethodGet, srv.URL, http.NoBody)
    require.NoError(t, err)
    req.Header.Set("X-Keep", "explicit")

    res, err := c.Do(req)
    require.NoError(t, err)
    defer res.Body.Close()

    require.Equal(t, http.StatusNoContent, res.StatusCode)
    require.Equal(t, "fxconvert/1.0", gotUA)
    require.Equal(t, "http://localhost", gotOrigin)
    // headers already on the request win over defaults
    require.Equal(t, "explicit", gotKeep)
}

func TestNew_ZeroTimeout(t *testing.T) {
    c := New(0)
    require.Zero(t, c.HTTP.Timeout)
}
