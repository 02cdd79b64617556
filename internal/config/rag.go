package config

// RAGConfig controls document ingestion and retrieval.
type RAGConfig struct {
	DocumentsPath   string `env:"DOCUMENTS_PATH" envDefault:"./data/documents" validate:"required"`
	VectorStorePath string `env:"VECTOR_STORE_PATH" envDefault:"./data/vector_stores/chroma_db" validate:"required"`
	Collection      string `env:"VECTOR_COLLECTION" envDefault:"my_collection" validate:"required"`
	ChunkSize       int    `env:"CHUNK_SIZE" envDefault:"4000" validate:"gt=0"`
	ChunkOverlap    int    `env:"CHUNK_OVERLAP" envDefault:"500" validate:"gte=0,ltfield=ChunkSize"`
	EmbeddingModel  string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small" validate:"required"`
	RetrieverK      int    `env:"RETRIEVER_K" envDefault:"4" validate:"gt=0"`
	// RebuildIndex re-embeds the corpus on the first retrieval of every process.
	// When false an existing on-disk collection is reused.
	RebuildIndex bool `env:"REBUILD_INDEX" envDefault:"true"`
}
