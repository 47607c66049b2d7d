package gcs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyAppliesPrefix(t *testing.T) {
	c := &Client{bucket: "shieldwrap-media", keyPrefix: "warranty-uploads"}
	assert.Equal(t, "warranty-uploads/42/vehicle.jpg", c.ObjectKey("42", "vehicle.jpg"))

	bare := &Client{bucket: "shieldwrap-media"}
	assert.Equal(t, "42/vehicle.jpg", bare.ObjectKey("42", "vehicle.jpg"))
}

func TestPublicURL(t *testing.T) {
	c := &Client{bucket: "shieldwrap-media"}
	assert.Equal(t,
		"https://storage.googleapis.com/shieldwrap-media/warranty-uploads/1/rc.jpg",
		c.PublicURL("warranty-uploads/1/rc.jpg"))
}

func TestTokenSourceCachesUntilNearExpiry(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", token)
	}
	assert.Equal(t, 1, calls)
}

func TestUploadSendsMediaRequest(t *testing.T) {
	var gotPath, gotAuth, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "obj"})
	}))
	defer server.Close()

	c := &Client{
		httpClient: server.Client(),
		bucket:     "shieldwrap-media",
		tokenSource: &tokenSource{
			fetch: func(context.Context) (string, time.Time, error) {
				return "tok", time.Now().Add(time.Hour), nil
			},
		},
	}

	// Rewrite the request through the test server by swapping the transport.
	c.httpClient = &http.Client{Transport: rewriteHost(server.URL)}

	publicURL, err := c.Upload(context.Background(), "warranty-uploads/9/vehicle.jpg", "image/jpeg", strings.NewReader("fake-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/shieldwrap-media/warranty-uploads/9/vehicle.jpg", publicURL)
	assert.Contains(t, gotPath, "uploadType=media")
	assert.Contains(t, gotPath, "name=warranty-uploads%2F9%2Fvehicle.jpg")
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "image/jpeg", gotType)
}

type hostRewriter struct {
	target string
}

func rewriteHost(target string) http.RoundTripper {
	return hostRewriter{target: strings.TrimPrefix(target, "http://")}
}

func (h hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = h.target
	return http.DefaultTransport.RoundTrip(req)
}
