// Package hybridscan provides embedded hybrid search over immutable segments.
//
// A hybrid query combines up to five sub-queries (BM25 text matches, exact
// terms, tag matches and exact k-NN over dense vectors). Every segment is
// evaluated window by window: the sub-query scorers fill a window-local
// match bitset and per-sub-query score rows, and a collector walks the
// matches while a shared score vector exposes the scores of the current
// document. The per-sub-query top K of all segments are then normalized and
// combined into one ranking, the way OpenSearch's hybrid query does.
//
// # Quick Start
//
// Write a segment:
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//	err := hybridscan.Write(ctx, store, "seg-0001", []model.Document{
//	    {PK: 1, Fields: map[string]string{"body": "the quick brown fox"}, Vector: v1},
//	    {PK: 2, Fields: map[string]string{"body": "a lazy dog"}, Tags: []string{"pets"}, Vector: v2},
//	})
//
// Open and search:
//
//	s, _ := hybridscan.Open(ctx, store)
//	defer s.Close()
//
//	hits, _ := s.Query().
//	    Match("body", "quick fox").
//	    KNN(query, distance.Cosine).
//	    K(10).
//	    Execute(ctx)
//	for _, h := range hits {
//	    fmt.Println(h.PK, h.Score, h.SubQueryScores)
//	}
//
// Cloud mode:
//
//	s3Store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("index/"))
//	s, _ := hybridscan.Open(ctx, s3Store)
//
// # Fusion
//
// Scores are normalized per sub-query (min-max by default, or L2 and
// z-score) and combined with a weighted arithmetic, geometric or harmonic
// mean. Reciprocal rank fusion ignores the raw scores:
//
//	hits, _ := s.Query().
//	    Match("body", "fox").
//	    KNN(query, distance.Cosine).
//	    Fusion(fusion.Options{Combination: fusion.RRF, RankConstant: 60}).
//	    Execute(ctx)
//
// # Deletes
//
// Delete marks a document as deleted and persists the tombstones of its
// segment next to the segment blob. Deleted documents never match.
//
// # Key Features
//
//   - Window-at-a-time scoring over roaring posting lists
//   - Per-segment fan-out with bounded concurrency
//   - LZ4 or Zstandard compressed segments on local disk, S3 or MinIO
//   - Memory, concurrency and IO limits via resource.Controller
//   - slog logging, and Prometheus metrics via PrometheusCollector
package hybridscan
