package breach

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/credential-defense/creddef/internal/errs"
)

func TestClient_PwnedPasswordCount_SendsOnlyPrefix(t *testing.T) {
	t.Parallel()
	password := "abc123"
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))

	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		require.Equal(t, "true", r.Header.Get("Add-Padding"))
		// suffix list is lowercased to exercise case-insensitive matching
		fmt.Fprintf(w, "0000000000000000000000000000000000A:12\r\n%s:42\r\nFFFF:1\n", strings.ToLower(digest[5:]))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/range/", srv.URL+"/account/", time.Second)
	count, err := c.PwnedPasswordCount(context.Background(), password)
	require.NoError(t, err)
	require.Equal(t, 42, count)
	require.Equal(t, "/range/"+digest[:5], requestedPath, "only the 5-char hash prefix may leave the machine")
}

func TestClient_PwnedPasswordCount_NoMatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA:3\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/range/", srv.URL+"/account/", time.Second)
	count, err := c.PwnedPasswordCount(context.Background(), "unique-password")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestClient_PwnedPasswordCount_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/range/", srv.URL+"/account/", time.Second)
	_, err := c.PwnedPasswordCount(context.Background(), "x")
	require.ErrorIs(t, err, errs.ErrRemoteCheckUnavailable)
}

func TestClient_BreachesForEmail_NotFoundMeansClean(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/range/", srv.URL+"/account/", time.Second)
	events, err := c.BreachesForEmail(context.Background(), "kid@example.com", "key")
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestClient_BreachesForEmail_ParsesListAndSendsKey(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret-key", r.Header.Get("hibp-api-key"))
		fmt.Fprint(w, `[{"Name":"Adobe"},{"Name":"LinkedIn"}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/range/", srv.URL+"/account/", time.Second)
	events, err := c.BreachesForEmail(context.Background(), "kid@example.com", "secret-key")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "Adobe", events[0].Name)
}
