package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/tuskswarm/internal/config"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/document"
	"github.com/sandevgo/tuskswarm/internal/providers/llm"
	"github.com/sandevgo/tuskswarm/internal/providers/rag"
	"github.com/sandevgo/tuskswarm/internal/service/ingest"
	"github.com/sandevgo/tuskswarm/internal/service/responder"
	"github.com/sandevgo/tuskswarm/internal/service/router"
	"github.com/sandevgo/tuskswarm/internal/storage/sqldb"
	"github.com/sandevgo/tuskswarm/internal/storage/sqlite"
	"github.com/sandevgo/tuskswarm/internal/storage/vector"
	"github.com/sandevgo/tuskswarm/pkg/lazy"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

// App holds the wired swarm. The vector index and the database are opened on
// first use so a session that never touches one of them does not pay for it.
type App struct {
	Settings *config.Settings
	Provider *llm.OpenAI

	Ingest *ingest.Service
	Index  *lazy.Value[*vector.Store]
	DB     *lazy.Value[*sqldb.Database]

	// Journal is nil when the session journal is disabled or unavailable.
	Journal   core.JournalRepository
	journalDB *sql.DB

	RAG   *responder.RAG
	SQL   *responder.SQL
	Swarm *router.Dispatcher
}

func NewApp(ctx context.Context, s *config.Settings) (*App, error) {
	logger := log.FromCtx(ctx)

	// 1. AI Provider
	provider, err := llm.NewProvider(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	app := &App{Settings: s, Provider: provider}

	// 2. Document index
	store, err := vector.NewPersistent(s.RAG.VectorStorePath, s.RAG.Collection, rag.NewEmbedder(provider))
	if err != nil {
		return nil, err
	}
	chunker, err := rag.NewChunker(rag.ChunkerConfig{Size: s.RAG.ChunkSize, Overlap: s.RAG.ChunkOverlap}, nil)
	if err != nil {
		return nil, err
	}
	app.Ingest = ingest.NewService(document.NewLoader(s.RAG.DocumentsPath), chunker, store)
	app.Index = lazy.New(func(ctx context.Context) (*vector.Store, error) {
		stats, err := app.Ingest.Ensure(ctx, s.RAG.RebuildIndex)
		if err != nil {
			return nil, err
		}
		log.FromCtx(ctx).Info().
			Int("documents", stats.Documents).
			Int("chunks", stats.Chunks).
			Bool("reused", stats.Reused).
			Msg("document index ready")
		return store, nil
	})

	// 3. Relational source
	app.DB = lazy.New(func(ctx context.Context) (*sqldb.Database, error) {
		return sqldb.Open(ctx, s.Database.Path, s.Database.ReadOnly)
	})

	// 4. Session journal
	if s.JournalEnabled {
		db, err := sqlite.NewDB(ctx, s.JournalPath())
		if err != nil {
			logger.Warn().Err(err).Str("path", s.JournalPath()).Msg("session journal disabled")
		} else {
			app.journalDB = db
			app.Journal = sqlite.NewMessagesRepo(db)
		}
	}

	// 5. Responders
	app.RAG = responder.NewRAG(app.retriever, provider, s.RAG.RetrieverK)
	app.SQL = responder.NewSQL(app.database, provider, s.Database.TopK)

	// 6. Routing
	classifier, err := newClassifier(s, provider)
	if err != nil {
		return nil, err
	}
	app.Swarm = router.NewSwarm(classifier, app.RAG, app.SQL, s.Router.MaxHandoffs)

	logger.Debug().
		Str("model", provider.Model()).
		Str("classifier", s.Router.Classifier).
		Bool("journal", app.Journal != nil).
		Msg("swarm wired")
	return app, nil
}

func (a *App) retriever(ctx context.Context) (responder.Retriever, error) {
	store, err := a.Index.Get(ctx)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (a *App) database(ctx context.Context) (responder.Database, error) {
	db, err := a.DB.Get(ctx)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func newClassifier(s *config.Settings, provider *llm.OpenAI) (core.Classifier, error) {
	keywords, err := router.LoadKeywords(s.Router.RoutingFile)
	if err != nil {
		return nil, err
	}
	kw := router.NewKeywordClassifier(keywords)
	if s.Router.Classifier == config.ClassifierLLM {
		return router.NewToolClassifier(provider, kw), nil
	}
	return kw, nil
}

// Close releases whatever was opened.
func (a *App) Close() error {
	var errs []error
	if db, ok := a.DB.Peek(); ok {
		errs = append(errs, db.Close())
	}
	if a.journalDB != nil {
		errs = append(errs, a.journalDB.Close())
	}
	return errors.Join(errs...)
}
