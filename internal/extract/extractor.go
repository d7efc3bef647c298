package extract

// Extractor turns fetched markup into a Document. Implementations can swap
// selection tactics without changing callers.
type Extractor interface {
	// Extract must be deterministic and free of side effects. It returns
	// ErrNoContent when nothing readable is found.
	Extract(markup string) (Document, error)
}

// HeuristicExtractor trusts <article> when present and otherwise picks the
// largest <p>/<div> text block.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Extract(markup string) (Document, error) {
	return FromHTML(markup)
}
