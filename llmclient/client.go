package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"intent-miner/config"

	"go.uber.org/zap"
)

// Embedding request/response mirror the OpenAI-compatible schema served by
// llama.cpp and most hosted embedding backends. Responses are not guaranteed
// to preserve input order, so each item carries its input index.
type embeddingRequest struct {
	Input []string `json:"input"`
}

type embeddingItem struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

type embeddingResponse struct {
	Data []embeddingItem `json:"data"`
}

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.EmbeddingTimeout},
		logger:     logger,
	}
}

// EmbedBatch generates embeddings for a batch of texts in a single request.
// The returned slice is sorted back into input order regardless of the order
// the server returned items in. All vectors in a response must share the same
// dimensionality.
func (c *Client) EmbedBatch(ctx context.Context, host string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embeddingRequest{Input: texts}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/embeddings", strings.TrimRight(host, "/"))
	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("create embedding request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		r, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if r.StatusCode == http.StatusServiceUnavailable {
			io.Copy(io.Discard, r.Body)
			r.Body.Close()
			c.logger.Warn("Embedding model loading, retrying", zap.Int("attempt", attempt+1))
			c.backoffSleep(attempt)
			continue
		}

		resp = r
		break
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from embedding server: %w", lastErr)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding server status %s: %s", resp.Status, string(bodyBytes))
	}

	var er embeddingResponse
	if err := json.Unmarshal(bodyBytes, &er); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(er.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response had %d items for %d inputs", len(er.Data), len(texts))
	}

	// Restore input order before use.
	sort.Slice(er.Data, func(i, j int) bool { return er.Data[i].Index < er.Data[j].Index })

	vectors := make([][]float32, len(texts))
	dim := -1
	for i, item := range er.Data {
		if item.Index != i {
			return nil, fmt.Errorf("embedding response missing index %d", i)
		}
		if len(item.Embedding) == 0 {
			return nil, fmt.Errorf("embedding response item %d was empty", i)
		}
		if dim == -1 {
			dim = len(item.Embedding)
		} else if len(item.Embedding) != dim {
			return nil, fmt.Errorf("embedding dimensions differ within batch: %d vs %d", len(item.Embedding), dim)
		}
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

func (c *Client) backoffSleep(attempt int) {
	// Exponential backoff with configurable jitter and cap
	base := c.cfg.RetryDelaySeconds
	if base <= 0 {
		base = time.Second // config normalization should prevent this
	}
	d := base * time.Duration(1<<attempt)
	maxWait := c.cfg.BackoffMaxSeconds
	if maxWait > 0 && d > maxWait {
		d = maxWait
	}
	jitterRatio := c.cfg.BackoffJitterRatio
	if jitterRatio < 0 || jitterRatio > 1 {
		jitterRatio = 0.1
	}
	jitter := time.Duration(float64(d) * jitterRatio)
	time.Sleep(d - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter+1)))
}
