package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"go.uber.org/zap"

	"gobot/internal/bootstrap"
)

// HTTPModel talks to a TensorFlow Serving style predict endpoint.
type HTTPModel struct {
	log      *zap.SugaredLogger
	modelURL string
	client   *http.Client
}

func NewHTTPModel(cfg *bootstrap.Config, log *zap.SugaredLogger, client *http.Client) *HTTPModel {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPModel{
		log:      log,
		modelURL: cfg.ModelUrl,
		client:   client,
	}
}

type PredictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

type PredictResponse struct {
	Predictions []any  `json:"predictions"`
	Error       string `json:"error,omitempty"`
}

// Predict sends every plane as a 1xNxN instance.
func (h *HTTPModel) Predict(ctx context.Context, batch [][]float32) ([][]float32, error) {
	instances := make([][][][]float32, 0, len(batch))
	for i, plane := range batch {
		inst, err := toInstance(plane)
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		instances = append(instances, inst)
	}

	reqBody, err := json.Marshal(PredictRequest{Instances: instances})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.modelURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, result.Error)
	}
	if len(result.Predictions) != len(batch) {
		return nil, fmt.Errorf("model returned %d predictions for %d instances", len(result.Predictions), len(batch))
	}

	out := make([][]float32, len(result.Predictions))
	for i, p := range result.Predictions {
		flat, err := flatten(p, nil)
		if err != nil {
			return nil, fmt.Errorf("prediction %d: %w", i, err)
		}
		out[i] = flat
	}
	h.log.Debugw("model answered", "instances", len(batch))
	return out, nil
}

func toInstance(plane []float32) ([][][]float32, error) {
	size := int(math.Sqrt(float64(len(plane))))
	if size == 0 || size*size != len(plane) {
		return nil, fmt.Errorf("%d cells is not a square board", len(plane))
	}
	rows := make([][]float32, size)
	for r := range rows {
		rows[r] = plane[r*size : (r+1)*size]
	}
	return [][][]float32{rows}, nil
}

// flatten walks nested JSON arrays depth first and collects the numbers.
func flatten(v any, dst []float32) ([]float32, error) {
	switch x := v.(type) {
	case float64:
		return append(dst, float32(x)), nil
	case []any:
		var err error
		for _, item := range x {
			if dst, err = flatten(item, dst); err != nil {
				return nil, err
			}
		}
		return dst, nil
	}
	return nil, fmt.Errorf("unexpected %T in prediction", v)
}
