package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonwraymond/autotune/algocache"
	"github.com/jonwraymond/autotune/fingerprint"
)

var errNoAlgorithm = errors.New("no algorithm satisfied the workspace limit")

// op is one kernel launch the simulated model performs every step.
type op struct {
	family string
	key    fingerprint.Fingerprint
	algos  []string
}

var (
	convAlgos      = []string{"implicit_gemm", "precomp_gemm", "fft", "winograd"}
	transposeAlgos = []string{"tiled", "vectorized", "naive"}
	matmulAlgos    = []string{"cublas", "cublaslt", "split_k"}
)

// model is a fixed set of kernel launches resembling a small convnet.
func model() []op {
	var ops []op
	channels := []int64{3, 64, 128, 256}
	for i := 1; i < len(channels); i++ {
		x := []int64{8, channels[i-1], 224 >> i, 224 >> i}
		w := []int64{channels[i], channels[i-1], 3, 3}
		key := fingerprint.ConvKey(x, w, []int{1, 1}, []int{1, 1}, []int{1, 1}, fingerprint.Float16)
		ops = append(ops,
			op{family: algocache.FamilyConvForward, key: key, algos: convAlgos},
			op{family: algocache.FamilyConvBackwardData, key: key, algos: convAlgos},
			op{family: algocache.FamilyConvBackwardFilter, key: key, algos: convAlgos},
		)
	}
	ops = append(ops,
		op{
			family: algocache.FamilyTranspose,
			key:    fingerprint.TransposeKey([]int64{8, 256, 28, 28}, []int{0, 2, 3, 1}, fingerprint.Float16),
			algos:  transposeAlgos,
		},
		op{
			family: algocache.FamilyMatmul,
			key:    fingerprint.MatmulKey([]int64{8, 200704}, []int64{200704, 1000}, false, true, fingerprint.Float16),
			algos:  matmulAlgos,
		},
	)
	return ops
}

// dynamicOp returns a matmul whose batch size changes every call.
func dynamicOp(r *rand.Rand) op {
	batch := int64(1 + r.IntN(4096))
	return op{
		family: algocache.FamilyMatmul,
		key:    fingerprint.MatmulKey([]int64{batch, 1024}, []int64{1024, 1024}, false, false, fingerprint.Float32),
		algos:  matmulAlgos,
	}
}

type searcher struct {
	min, max time.Duration
	failRate float64
}

// search pretends to benchmark every candidate and returns the fastest.
func (s searcher) search(o op, r *rand.Rand) algocache.SearchFunc[string] {
	d := s.min
	if span := s.max - s.min; span > 0 {
		d += time.Duration(r.Int64N(int64(span)))
	}
	fail := r.Float64() < s.failRate
	best := o.algos[r.IntN(len(o.algos))]

	return func(ctx context.Context) (string, error) {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		if fail {
			return "", fmt.Errorf("%s: %w", o.family, errNoAlgorithm)
		}
		return best, nil
	}
}
