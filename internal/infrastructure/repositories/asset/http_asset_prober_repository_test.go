//go:build unit

package asset_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/asset"
)

const metadataBody = "Metadata-Version: 2.1\nName: core\n"

func newServer(t *testing.T, withMetadata bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/core-1.0.0-py3-none-any.whl", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "2048")
		w.Header().Set("Last-Modified", "Mon, 01 Jan 2024 00:00:00 GMT")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/core-1.0.0-py3-none-any.whl.metadata", func(w http.ResponseWriter, _ *http.Request) {
		if !withMetadata {
			http.NotFound(w, nil)
			return
		}
		_, _ = w.Write([]byte(metadataBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPAssetProberRepository_Probe(t *testing.T) {
	t.Parallel()

	t.Run("should read size and last-modified from a HEAD request", func(t *testing.T) {
		t.Parallel()

		// given
		server := newServer(t, false)
		prober := asset.NewHTTPAssetProberRepository("")

		// when
		probe, err := prober.Probe(context.Background(), server.URL+"/core-1.0.0-py3-none-any.whl")

		// then
		require.NoError(t, err)
		assert.Equal(t, int64(2048), probe.Size)
		assert.Equal(t, "Mon, 01 Jan 2024 00:00:00 GMT", probe.LastModified)
	})

	t.Run("should fail for a missing asset", func(t *testing.T) {
		t.Parallel()

		// given
		server := newServer(t, false)
		prober := asset.NewHTTPAssetProberRepository("")

		// when
		_, err := prober.Probe(context.Background(), server.URL+"/missing.whl")

		// then
		require.Error(t, err)
	})
}

func TestHTTPAssetProberRepository_MetadataDigest(t *testing.T) {
	t.Parallel()

	t.Run("should hash the sidecar metadata when it exists", func(t *testing.T) {
		t.Parallel()

		// given
		server := newServer(t, true)
		prober := asset.NewHTTPAssetProberRepository("")
		sum := sha256.Sum256([]byte(metadataBody))

		// when
		digest := prober.MetadataDigest(context.Background(), server.URL+"/core-1.0.0-py3-none-any.whl")

		// then
		assert.Equal(t, hex.EncodeToString(sum[:]), digest)
	})

	t.Run("should return an empty digest when there is no sidecar", func(t *testing.T) {
		t.Parallel()

		// given
		server := newServer(t, false)
		prober := asset.NewHTTPAssetProberRepository("")

		// when
		digest := prober.MetadataDigest(context.Background(), server.URL+"/core-1.0.0-py3-none-any.whl")

		// then
		assert.Empty(t, digest)
	})
}
