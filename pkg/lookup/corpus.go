package lookup

import (
	"context"

	"github.com/apex/log"

	"github.com/japaniel/kanjikai/pkg/subject"
	"github.com/japaniel/kanjikai/pkg/words"
)

// WordsFor returns the corpus words containing k's literal, in corpus order.
// It returns nil while the corpus is being fetched; the first call ever
// starts that fetch. Once loaded, a kanji with no words yields an empty,
// non-nil slice. A failed corpus fetch also yields empty slices unless the
// engine retries on lookup, in which case the next call fetches again.
func (e *Engine) WordsFor(k *subject.Kanji) []subject.Word {
	if k == nil {
		return []subject.Word{}
	}

	e.mu.Lock()
	switch e.corpus {
	case corpusLoaded:
		idx := e.index
		e.mu.Unlock()
		return idx.For(k.Literal)
	case corpusLoading:
		e.mu.Unlock()
		return nil
	case corpusFailed:
		if e.retry != RetryOnLookup {
			e.mu.Unlock()
			return []subject.Word{}
		}
	}
	e.corpus = corpusLoading
	e.corpusErr = nil
	e.inflight++
	e.mu.Unlock()

	e.dispatch(func(ctx context.Context) {
		idx, err := e.loadCorpus(ctx)
		e.settleCorpus(idx, err)
	}, func(err error) {
		e.settleCorpus(nil, err)
	})
	return nil
}

// CorpusErr returns the error of the last failed corpus fetch.
func (e *Engine) CorpusErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.corpusErr
}

func (e *Engine) loadCorpus(ctx context.Context) (*words.Index, error) {
	path := e.resolver.WordsPath()
	e.logger.WithField("path", path).Debug("fetching word corpus")
	body, err := e.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	corpus, err := subject.ParseWords(body)
	if err != nil {
		return nil, err
	}
	return words.NewIndex(corpus), nil
}

func (e *Engine) settleCorpus(idx *words.Index, err error) {
	e.mu.Lock()
	if err != nil {
		e.corpus = corpusFailed
		e.corpusErr = err
	} else {
		e.corpus = corpusLoaded
		e.index = idx
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.WithError(err).Warn("word corpus unavailable")
	} else {
		e.logger.WithFields(log.Fields{"words": idx.Len(), "characters": idx.Characters()}).Info("word corpus loaded")
	}
	e.finish()
}
