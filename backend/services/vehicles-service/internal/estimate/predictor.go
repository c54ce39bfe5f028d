package estimate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoPrediction is returned when the model server answers without a value.
var ErrNoPrediction = errors.New("estimate: model returned no prediction")

// Predictor scores one feature row.
type Predictor interface {
	Predict(ctx context.Context, f Features) (float64, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, f Features) (float64, error)

// Predict implements Predictor.
func (fn PredictorFunc) Predict(ctx context.Context, f Features) (float64, error) {
	return fn(ctx, f)
}

// ModelClient calls a remote model server. The request carries the column names and
// one encoded row; the server answers {"predictions":[value]}.
type ModelClient struct {
	endpoint   string
	columns    []string
	httpClient *http.Client
}

// NewModelClient builds a client. Nil columns use DefaultColumns.
func NewModelClient(endpoint string, columns []string, timeout time.Duration) *ModelClient {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ModelClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		columns:    columns,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Columns   []string    `json:"columns"`
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predict implements Predictor.
func (c *ModelClient) Predict(ctx context.Context, f Features) (float64, error) {
	body, err := json.Marshal(predictRequest{
		Columns:   c.columns,
		Instances: [][]float64{f.Vector(c.columns)},
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("estimate: model server status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("estimate: decode prediction: %w", err)
	}
	if len(out.Predictions) == 0 {
		return 0, ErrNoPrediction
	}
	return out.Predictions[0], nil
}
