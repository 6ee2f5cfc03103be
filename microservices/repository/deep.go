package repository

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/patrikeh/go-deep"
	"go.uber.org/zap"

	"gobot/internal/bootstrap"
)

// DeepModel is a pure Go network restored from a go-deep JSON dump. It
// needs no native runtime and suits small boards and tests.
type DeepModel struct {
	log *zap.SugaredLogger

	mu      sync.Mutex
	network *deep.Neural
}

func NewDeepModel(cfg *bootstrap.Config, log *zap.SugaredLogger) (*DeepModel, error) {
	data, err := os.ReadFile(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	network, err := deep.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	log.Infow("deep model loaded", "path", cfg.ModelPath, "inputs", network.Config.Inputs)
	return &DeepModel{log: log, network: network}, nil
}

func NewDeepModelFromNetwork(network *deep.Neural, log *zap.SugaredLogger) *DeepModel {
	return &DeepModel{log: log, network: network}
}

// Predict serializes callers: the network keeps activations in its layers.
func (d *DeepModel) Predict(ctx context.Context, batch [][]float32) ([][]float32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([][]float32, 0, len(batch))
	for i, plane := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(plane) != d.network.Config.Inputs {
			return nil, fmt.Errorf("plane %d has %d cells, network takes %d", i, len(plane), d.network.Config.Inputs)
		}
		features := make([]float64, len(plane))
		for j, v := range plane {
			features[j] = float64(v)
		}
		prediction := d.network.Predict(features)
		scores := make([]float32, len(prediction))
		for j, v := range prediction {
			scores[j] = float32(v)
		}
		out = append(out, scores)
	}
	return out, nil
}
