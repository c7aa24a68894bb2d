// Package pgstore mirrors embedded chunks into a pgvector table so the
// corpus can also be queried from Postgres.
package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/airobotics/ragservice"
)

type Store struct {
	conn *pgx.Conn
}

func Connect(ctx context.Context, dsn string) (*Store, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// EnsureSchema creates the vector extension, the chunks table and its
// ivfflat index. With drop set the table is recreated from scratch.
func (s *Store) EnsureSchema(ctx context.Context, drop bool) error {
	if _, err := s.conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	if drop {
		if _, err := s.conn.Exec(ctx, "DROP TABLE IF EXISTS chunks"); err != nil {
			return fmt.Errorf("drop chunks table: %w", err)
		}
	}
	_, err := s.conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS chunks (
		id bigserial PRIMARY KEY,
		chunk_id text,
		source text,
		page int,
		kind text,
		content text,
		embedding vector(1536))`)
	if err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	_, err = s.conn.Exec(ctx, "CREATE INDEX IF NOT EXISTS chunks_embedding_idx ON chunks USING ivfflat(embedding)")
	if err != nil {
		return fmt.Errorf("create embedding index: %w", err)
	}
	return nil
}

// InsertChunks inserts every chunk with its already-computed embedding,
// so ingestion embeds each chunk exactly once across backends.
func (s *Store) InsertChunks(ctx context.Context, chunks []ragservice.Chunk, embeddings [][]float32) (int, error) {
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}
	const sql = `INSERT INTO chunks (chunk_id, source, page, kind, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, c := range chunks {
		_, err := s.conn.Exec(ctx, sql,
			ragservice.ChunkID(c),
			c.Source,
			c.Page,
			c.Kind,
			c.Text,
			pgvector.NewVector(embeddings[i]))
		if err != nil {
			return i, fmt.Errorf("insert chunk from %s: %w", c.Source, err)
		}
	}
	return len(chunks), nil
}
