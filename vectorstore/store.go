// Package vectorstore wraps the chromem database and its on-disk snapshot.
// The snapshot ships inside the container image; under an image-based
// runtime it is copied to /tmp before use because the image filesystem is
// read-only.
package vectorstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/airobotics/ragservice"
)

const CollectionName = "knowledge-base"

const snapshotFile = "db.gob"

// Store is a chromem database bound to a snapshot directory.
type Store struct {
	db    *chromem.DB
	path  string
	embed chromem.EmbeddingFunc
}

// Init creates an empty store with a fresh collection.
func Init(path string, embed chromem.EmbeddingFunc) (*Store, error) {
	db := chromem.NewDB()
	if _, err := db.CreateCollection(CollectionName, nil, embed); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Store{db: db, path: path, embed: embed}, nil
}

// Load reads an existing snapshot from path.
func Load(path string, embed chromem.EmbeddingFunc) (*Store, error) {
	db := chromem.NewDB()
	if err := db.Import(filepath.Join(path, snapshotFile), ""); err != nil {
		return nil, fmt.Errorf("import snapshot from %s: %w", path, err)
	}
	return &Store{db: db, path: path, embed: embed}, nil
}

var (
	openOnce sync.Once
	shared   *Store
	openErr  error
)

// runtimeRoot is where the snapshot lands under an image runtime. Only
// /tmp is writable in a Lambda container image.
var runtimeRoot = "/tmp"

// Open loads the process-wide store once. Under an image runtime the
// snapshot is first copied from the baked-in path to /tmp.
func Open(path string, imageRuntime bool, embed chromem.EmbeddingFunc) (*Store, error) {
	openOnce.Do(func() {
		shared, openErr = open(path, imageRuntime, embed)
	})
	return shared, openErr
}

func open(path string, imageRuntime bool, embed chromem.EmbeddingFunc) (*Store, error) {
	runtimePath := path
	if imageRuntime {
		runtimePath = filepath.Join(runtimeRoot, path)
		if err := copySnapshot(path, runtimePath); err != nil {
			return nil, err
		}
	}
	s, err := Load(runtimePath, embed)
	if err != nil {
		return nil, err
	}
	ragservice.Logger.Info("vector store loaded", "path", runtimePath)
	return s, nil
}

// Save exports the snapshot back to the store's directory.
func (s *Store) Save() error {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", s.path, err)
	}
	target := filepath.Join(s.path, snapshotFile)
	ragservice.Logger.Info("storing database", "path", target)
	return s.db.Export(target, false, "")
}

// Reset removes a snapshot directory entirely.
func Reset(path string) error {
	return os.RemoveAll(path)
}

// Embed computes the embedding for every chunk's text.
func (s *Store) Embed(ctx context.Context, chunks []ragservice.Chunk) ([][]float32, error) {
	embeddings := make([][]float32, len(chunks))
	for i, c := range chunks {
		embedding, err := s.embed(ctx, c.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk from %s: %w", c.Source, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Add embeds and upserts chunks. Chunk ids are deterministic, so adding
// the same content again overwrites the existing document.
func (s *Store) Add(ctx context.Context, chunks []ragservice.Chunk) (int, error) {
	embeddings, err := s.Embed(ctx, chunks)
	if err != nil {
		return 0, err
	}
	return s.AddEmbedded(ctx, chunks, embeddings)
}

// AddEmbedded upserts chunks whose embeddings were computed elsewhere,
// so a single embedding pass can feed more than one backend.
func (s *Store) AddEmbedded(ctx context.Context, chunks []ragservice.Chunk, embeddings [][]float32) (int, error) {
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}
	collection := s.db.GetCollection(CollectionName, s.embed)
	if collection == nil {
		return 0, fmt.Errorf("collection %q missing", CollectionName)
	}
	docs := make([]chromem.Document, 0, len(chunks))
	for i, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:        ragservice.ChunkID(c),
			Content:   c.Text,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				"source": c.Source,
				"page":   strconv.Itoa(c.Page),
				"kind":   c.Kind,
				"title":  c.Title,
			},
		})
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return 0, fmt.Errorf("add documents: %w", err)
	}
	return len(docs), nil
}

// Search returns the top k chunks for the query text, capped to the
// collection size.
func (s *Store) Search(ctx context.Context, text string, k int) ([]chromem.Result, error) {
	collection := s.db.GetCollection(CollectionName, s.embed)
	if collection == nil {
		return nil, fmt.Errorf("collection %q missing", CollectionName)
	}
	if n := collection.Count(); k > n {
		k = n
	}
	if k == 0 {
		return nil, nil
	}
	return collection.Query(ctx, text, k, nil, nil)
}

// Count reports the number of stored documents.
func (s *Store) Count() int {
	collection := s.db.GetCollection(CollectionName, s.embed)
	if collection == nil {
		return 0
	}
	return collection.Count()
}

func copySnapshot(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create runtime dir %s: %w", dst, err)
	}
	target := filepath.Join(dst, snapshotFile)
	if _, err := os.Stat(target); err == nil {
		ragservice.Logger.Info("snapshot already copied", "path", target)
		return nil
	}
	in, err := os.Open(filepath.Join(src, snapshotFile))
	if err != nil {
		return fmt.Errorf("open baked-in snapshot: %w", err)
	}
	defer in.Close()
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create runtime snapshot: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy snapshot: %w", err)
	}
	ragservice.Logger.Info("snapshot copied", "from", src, "to", dst)
	return nil
}
