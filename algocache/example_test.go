package algocache_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/autotune/algocache"
	"github.com/jonwraymond/autotune/fingerprint"
)

func ExampleAlgorithmCache() {
	cache := algocache.NewAlgorithmCache[int]()
	key := fingerprint.ConvKey(
		[]int64{1, 3, 224, 224}, []int64{64, 3, 3, 3},
		[]int{1, 1}, []int{0, 0}, []int{1, 1},
		fingerprint.Float32,
	)

	if !cache.Find(key) {
		cache.Set(key, 7)
	}
	if cache.Find(key) {
		algo, _ := cache.Get(key)
		fmt.Println("algorithm:", algo)
	}
	fmt.Printf("hit rate: %.2f\n", cache.CacheHitRate())

	// Output:
	// algorithm: 7
	// hit rate: 0.50
}

func ExampleRegistry_Clean() {
	ctx := context.Background()
	r := algocache.NewRegistry[string]()

	conv := r.RegisterOrGet(algocache.FamilyConvForward)
	for i := range 4 {
		key := fingerprint.MustKey(i)
		conv.Find(key)
		conv.Set(key, "gemm")
	}

	total := r.UpdateStatus(ctx)
	fmt.Println("size:", total.Size, "miss rate:", total.MissRate())
	fmt.Println("flushed:", r.Clean(ctx, total.MissRate()))
	fmt.Println("size after:", conv.Size())

	// Output:
	// size: 4 miss rate: 1
	// flushed: true
	// size after: 0
}

func ExampleTuner_Select() {
	ctx := context.Background()
	r := algocache.NewRegistry[string]()
	tuner := algocache.NewTuner(r, algocache.WithFallback("default"))

	key := fingerprint.MatmulKey([]int64{128, 256}, []int64{256, 64}, false, false, fingerprint.Float16)
	search := func(context.Context) (string, error) {
		fmt.Println("searching")
		return "cublaslt", nil
	}

	for range 2 {
		algo, err := tuner.Select(ctx, algocache.FamilyMatmul, key, search)
		fmt.Println(algo, err)
	}

	// Output:
	// searching
	// cublaslt <nil>
	// cublaslt <nil>
}
