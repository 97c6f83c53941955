package match

import (
	"context"

	"github.com/poiesic/vehiclematch/core"
)

// Retrieve embeds the given text and queries the vector index for up to
// topK candidates, ranked highest score first, with catalog metadata
// attached. Zero hits return an empty slice and no error; it is the
// caller's job to interpret scores. Embedding or index failures propagate.
func (m *Matcher) Retrieve(ctx context.Context, text string, topK int) ([]core.Candidate, error) {
	vector, err := m.embedder.EmbedText(ctx, text)
	if err != nil {
		m.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	candidates, err := m.index.Query(ctx, vector, topK, true)
	if err != nil {
		m.logger.Error("error querying vector index", "err", err)
		return nil, err
	}

	return candidates, nil
}
