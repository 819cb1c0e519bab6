package retrieval

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/repository/unitofwork"
	"kanzlei-ai-be/pkg/embedding"
)

// Default retrieval knobs. Tight threshold: a legal citation that is only
// vaguely similar is worse than no citation.
const (
	DefaultTopK          = 4
	DefaultMinSimilarity = 0.55
)

// AllSources is the full legal knowledge base.
var AllSources = []string{
	entity.ChunkSourceGesetz,
	entity.ChunkSourceRechtsprechung,
	entity.ChunkSourceMuster,
}

// Searcher runs semantic search over the legal knowledge base. One query
// embedding is computed and then fanned out across the requested source
// types in parallel.
type Searcher struct {
	embedder   embedding.EmbeddingProvider
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewSearcher(embedder embedding.EmbeddingProvider, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *Searcher {
	return &Searcher{
		embedder:   embedder,
		uowFactory: uowFactory,
		log:        log,
	}
}

// Search returns the best matching chunks across the given sources,
// ordered by similarity. A failing source is logged and skipped, the
// remaining sources still answer.
func (s *Searcher) Search(ctx context.Context, query string, sources []string, topK int) ([]*entity.LegalChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(sources) == 0 {
		sources = AllSources
	}

	resp, err := s.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	vector := resp.Embedding.Values

	type sourceResult struct {
		chunks []*entity.LegalChunk
		err    error
		source string
	}

	results := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup

	for _, source := range sources {
		wg.Add(1)
		go func(src string) {
			defer wg.Done()
			uow := s.uowFactory.NewUnitOfWork(ctx)
			chunks, err := uow.LegalChunkRepository().
				SearchSimilarWithScore(ctx, vector, topK, src, DefaultMinSimilarity)
			results <- sourceResult{chunks: chunks, err: err, source: src}
		}(source)
	}

	wg.Wait()
	close(results)

	var merged []*entity.LegalChunk
	for r := range results {
		if r.err != nil {
			s.log.Warn("retrieval", "source search failed", map[string]interface{}{
				"source": r.source,
				"error":  r.err.Error(),
			})
			continue
		}
		merged = append(merged, r.chunks...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})

	// Cap the merged list so a three source search does not triple the
	// context budget.
	limit := topK * 2
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}
