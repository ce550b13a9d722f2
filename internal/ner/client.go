package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claimsight/claim-analyzer/internal/common"
)

// ErrModelUnavailable reports that the sidecar is up but its language model
// failed to load. Callers must treat this as a boundary failure: extraction
// fails fast instead of producing an empty record.
var ErrModelUnavailable = errors.New("ner: recognition model not loaded")

// Config holds sidecar client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the spaCy-style recognition sidecar and overlays gazetteer
// matches for the PROVIDER kind.
type Client struct {
	cfg        Config
	gazetteer  *Gazetteer
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, gaz *Gazetteer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if gaz == nil {
		gaz = NewGazetteer(nil)
	}
	return &Client{
		cfg:        cfg,
		gazetteer:  gaz,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

type recognizeResponse struct {
	Model    string `json:"model"`
	Entities []struct {
		Label string `json:"label"`
		Text  string `json:"text"`
	} `json:"entities"`
}

// Recognize posts text to the sidecar and returns PERSON/DATE/MONEY spans in
// recognizer order, followed by gazetteer PROVIDER matches. Other span kinds
// the sidecar emits (ORG, GPE, ...) are dropped here.
func (c *Client) Recognize(ctx context.Context, text string) ([]Entity, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Debug("ner.recognize.start", "req_id", rid, "text_len", len(text))

	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/entities", map[string]any{"text": text})
	if err != nil {
		c.log.Error("ner.recognize.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	if err := common.ValidateJSONAgainstSchema(responseSchema(), raw); err != nil {
		c.log.Error("ner.recognize.schema_validation_failed", "req_id", rid, "error", err)
		return nil, fmt.Errorf("recognize response: %w", err)
	}

	var resp recognizeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode recognize response: %w", err)
	}

	entities := make([]Entity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		switch Kind(e.Label) {
		case KindPerson, KindDate, KindMoney:
			entities = append(entities, Entity{Kind: Kind(e.Label), Text: strings.TrimSpace(e.Text)})
		}
	}
	entities = append(entities, c.gazetteer.Match(text)...)

	c.log.Info("ner.recognize.ok",
		"req_id", rid,
		"model", resp.Model,
		"entities", len(entities),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return entities, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if cerr := Body.Close(); cerr != nil {
			c.log.Warn("ner response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, strings.TrimSpace(buf.String()))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ner status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}
