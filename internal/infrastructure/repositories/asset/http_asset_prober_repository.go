package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

const (
	requestTimeout  = 30 * time.Second
	metadataSuffix  = ".metadata"
	maxMetadataSize = 10 << 20
)

// HTTPAssetProberRepository probes release assets over plain HTTP.
type HTTPAssetProberRepository struct {
	client *http.Client
	token  string
}

// NewHTTPAssetProberRepository creates a prober that authenticates with
// token when one is given.
func NewHTTPAssetProberRepository(token string) *HTTPAssetProberRepository {
	return &HTTPAssetProberRepository{
		client: &http.Client{Timeout: requestTimeout},
		token:  token,
	}
}

func (r *HTTPAssetProberRepository) Probe(ctx context.Context, url string) (entities.AssetProbe, error) {
	resp, err := r.do(ctx, http.MethodHead, url)
	if err != nil {
		return entities.AssetProbe{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return entities.AssetProbe{}, fmt.Errorf("HEAD %s returned %d", url, resp.StatusCode)
	}

	size, _ := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	return entities.AssetProbe{
		Size:         size,
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

func (r *HTTPAssetProberRepository) MetadataDigest(ctx context.Context, url string) string {
	metadataURL := url + metadataSuffix

	head, err := r.do(ctx, http.MethodHead, metadataURL)
	if err != nil {
		logger.Debugf("[asset] No sidecar metadata for %s: %v", url, err)
		return ""
	}
	head.Body.Close()
	if head.StatusCode != http.StatusOK {
		return ""
	}

	resp, err := r.do(ctx, http.MethodGet, metadataURL)
	if err != nil {
		logger.Debugf("[asset] Could not fetch sidecar metadata for %s: %v", url, err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataSize))
	if err != nil || len(body) == 0 {
		return ""
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func (r *HTTPAssetProberRepository) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	return r.client.Do(req)
}
