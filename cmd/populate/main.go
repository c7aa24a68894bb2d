// Command populate builds the vector store snapshot from a directory of
// source documents. PDF and markdown files are chunked, embedded with
// Titan and written to the chromem snapshot, optionally mirrored into a
// pgvector table.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/airobotics/ragservice"
	"github.com/airobotics/ragservice/bedrock"
	"github.com/airobotics/ragservice/config"
	"github.com/airobotics/ragservice/pgstore"
	"github.com/airobotics/ragservice/vectorstore"
)

const (
	maxChunkSize = 5000
	chunkOverlap = 200
	compactSize  = 300
)

func main() {
	dataPtr := flag.String("data", "data/source", "directory with source documents")
	dbPtr := flag.String("db", "", "snapshot directory, defaults to CHROMA_PATH")
	resetPtr := flag.Bool("reset", false, "reset the database")
	pgPtr := flag.String("pg", "", "postgres DSN for the pgvector mirror, defaults to PG_DSN")
	flag.Parse()

	log := ragservice.Logger
	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}
	dbPath := *dbPtr
	if dbPath == "" {
		dbPath = cfg.ChromaPath
	}
	dsn := *pgPtr
	if dsn == "" {
		dsn = cfg.PostgresDSN
	}

	if *resetPtr {
		log.Info("clearing database", "path", dbPath)
		if err := vectorstore.Reset(dbPath); err != nil {
			log.Error("reset failed", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	embed := bedrock.Embedding()

	store, err := vectorstore.Load(dbPath, embed)
	if err != nil {
		store, err = vectorstore.Init(dbPath, embed)
		if err != nil {
			log.Error("vector store init failed", "error", err)
			os.Exit(1)
		}
	}

	chunks, err := loadDocuments(*dataPtr)
	if err != nil {
		log.Error("loading documents failed", "error", err)
		os.Exit(1)
	}

	embeddings, err := store.Embed(ctx, chunks)
	if err != nil {
		log.Error("embedding documents failed", "error", err)
		os.Exit(1)
	}
	added, err := store.AddEmbedded(ctx, chunks, embeddings)
	if err != nil {
		log.Error("adding documents failed", "error", err)
		os.Exit(1)
	}
	if err := store.Save(); err != nil {
		log.Error("saving snapshot failed", "error", err)
		os.Exit(1)
	}
	log.Info("database populated", "chunks", added, "path", dbPath)

	if dsn != "" {
		// reuse the embeddings already computed for the snapshot
		if err := mirrorToPostgres(ctx, dsn, chunks, embeddings, *resetPtr); err != nil {
			log.Error("pgvector mirror failed", "error", err)
			os.Exit(1)
		}
	}
}

func mirrorToPostgres(ctx context.Context, dsn string, chunks []ragservice.Chunk, embeddings [][]float32, reset bool) error {
	pg, err := pgstore.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer pg.Close(ctx)
	if err := pg.EnsureSchema(ctx, reset); err != nil {
		return err
	}
	n, err := pg.InsertChunks(ctx, chunks, embeddings)
	if err != nil {
		return err
	}
	ragservice.Logger.Info("pgvector mirror updated", "chunks", n)
	return nil
}

func loadDocuments(dir string) ([]ragservice.Chunk, error) {
	log := ragservice.Logger
	var chunks []ragservice.Chunk

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf":
			log.Info("processing", "path", path)
			cs, err := ragservice.ExtractPDF(path)
			if err != nil {
				return err
			}
			chunks = append(chunks, ragservice.SplitChunks(cs, maxChunkSize, chunkOverlap)...)
		case ".md":
			log.Info("processing", "path", path)
			cs, err := markdownChunks(path)
			if err != nil {
				return err
			}
			chunks = append(chunks, cs...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

func markdownChunks(path string) ([]ragservice.Chunk, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta, err := ragservice.ExtractMetadata(path)
	if err != nil {
		ragservice.Logger.Warn("metadata extraction problem", "path", path, "error", err)
		meta = &ragservice.Metadata{}
	}
	chunks, err := ragservice.Parse(ragservice.StripFrontMatter(content))
	if err != nil {
		return nil, err
	}
	for i := range chunks {
		chunks[i].Source = path
		chunks[i].Title = meta.Title
	}
	return ragservice.CompressChunks(chunks, compactSize), nil
}
