package hybridscan_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/hybridscan"
	"github.com/hupe1980/hybridscan/blobstore"
	"github.com/hupe1980/hybridscan/distance"
	"github.com/hupe1980/hybridscan/fusion"
	"github.com/hupe1980/hybridscan/model"
)

func exampleSearcher(ctx context.Context) *hybridscan.Searcher {
	store := blobstore.NewMemoryStore()
	err := hybridscan.Write(ctx, store, "articles", []model.Document{
		{PK: 1, Fields: map[string]string{"title": "Go concurrency patterns"}, Tags: []string{"go"}, Vector: []float32{0.9, 0.1}},
		{PK: 2, Fields: map[string]string{"title": "Rust ownership"}, Tags: []string{"rust"}, Vector: []float32{0.1, 0.9}},
		{PK: 3, Fields: map[string]string{"title": "Go generics"}, Tags: []string{"go"}, Vector: []float32{0.8, 0.3}},
	})
	if err != nil {
		log.Fatal(err)
	}

	s, err := hybridscan.Open(ctx, store)
	if err != nil {
		log.Fatal(err)
	}
	return s
}

// Example_tags demonstrates a constant-score tag query.
func Example_tags() {
	ctx := context.Background()
	s := exampleSearcher(ctx)
	defer s.Close()

	hits, err := s.Query().Tags("go").Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, h := range hits {
		fmt.Printf("%d %.2f\n", h.PK, h.Score)
	}
	// Output:
	// 1 1.00
	// 3 1.00
}

// Example_rrf demonstrates reciprocal rank fusion of two tag queries.
func Example_rrf() {
	ctx := context.Background()
	s := exampleSearcher(ctx)
	defer s.Close()

	hits, err := s.Query().
		Tags("rust").
		Tags("go").
		Fusion(fusion.Options{Combination: fusion.RRF, RankConstant: 60}).
		Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, h := range hits {
		fmt.Println(h.PK, h.SubQueryScores)
	}
	// Output:
	// 1 [0 1]
	// 2 [1 0]
	// 3 [0 1]
}

// Example_hybrid demonstrates combining text and vector relevance.
func Example_hybrid() {
	ctx := context.Background()
	s := exampleSearcher(ctx)
	defer s.Close()

	hit, err := s.Query().
		Match("title", "go").
		KNN([]float32{1, 0}, distance.Cosine).
		First(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hit.PK)
	// Output: 1
}

// Example_count demonstrates counting matches without ranking them.
func Example_count() {
	ctx := context.Background()
	s := exampleSearcher(ctx)
	defer s.Close()

	n, err := s.Query().Match("title", "go generics").Count(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(n)
	// Output: 2
}
