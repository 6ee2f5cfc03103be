package repository

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"gobot/internal/bootstrap"
)

// OnnxModel runs the policy network in-process. Input is shaped
// [maxBatch, 1, N, N] and output [maxBatch, N*N]; shorter batches are
// zero padded and longer ones are split.
type OnnxModel struct {
	log      *zap.SugaredLogger
	cells    int
	maxBatch int

	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func NewOnnxModel(cfg *bootstrap.Config, log *zap.SugaredLogger) (*OnnxModel, error) {
	if !ort.IsInitialized() {
		if cfg.OnnxLibraryPath != "" {
			ort.SetSharedLibraryPath(cfg.OnnxLibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("init onnxruntime: %w", err)
		}
	}

	size := int64(cfg.BoardSize)
	maxBatch := int64(cfg.OnnxMaxBatch)
	if maxBatch < 1 {
		maxBatch = 16
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(maxBatch, 1, size, size))
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(maxBatch, size*size))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.OnnxInput}, []string{cfg.OnnxOutput},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("load %s: %w", cfg.ModelPath, err)
	}

	log.Infow("onnx model loaded", "path", cfg.ModelPath, "max_batch", maxBatch)
	return &OnnxModel{
		log:      log,
		cells:    int(size * size),
		maxBatch: int(maxBatch),
		session:  session,
		input:    input,
		output:   output,
	}, nil
}

func (o *OnnxModel) Predict(ctx context.Context, batch [][]float32) ([][]float32, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([][]float32, 0, len(batch))
	for start := 0; start < len(batch); start += o.maxBatch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+o.maxBatch, len(batch))
		chunk, err := o.run(batch[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (o *OnnxModel) run(chunk [][]float32) ([][]float32, error) {
	in := o.input.GetData()
	clear(in)
	for i, plane := range chunk {
		if len(plane) != o.cells {
			return nil, fmt.Errorf("plane %d has %d cells, want %d", i, len(plane), o.cells)
		}
		copy(in[i*o.cells:], plane)
	}

	if err := o.session.Run(); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	res := o.output.GetData()
	out := make([][]float32, len(chunk))
	for i := range chunk {
		out[i] = append([]float32(nil), res[i*o.cells:(i+1)*o.cells]...)
	}
	return out, nil
}

func (o *OnnxModel) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session != nil {
		o.session.Destroy()
	}
	o.input.Destroy()
	o.output.Destroy()
}
