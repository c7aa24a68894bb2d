package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gotest.tools/v3/assert"

	"github.com/airobotics/ragservice"
	"github.com/airobotics/ragservice/api"
	"github.com/airobotics/ragservice/record"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	items map[string]*record.Query
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]*record.Query)}
}

func (f *fakeStore) Put(ctx context.Context, q *record.Query) error {
	stored := *q
	f.items[q.QueryID] = &stored
	return nil
}

func (f *fakeStore) Get(ctx context.Context, queryID string) (*record.Query, error) {
	return f.items[queryID], nil
}

type fakeRunner struct{}

func (fakeRunner) Run(ctx context.Context, question string) (*ragservice.QueryResponse, error) {
	return &ragservice.QueryResponse{
		QueryText:    question,
		ResponseText: "the answer",
		Sources:      []string{"doc.pdf:1:text:abc"},
	}, nil
}

type fakeWorker struct {
	invoked []*record.Query
}

func (f *fakeWorker) Invoke(ctx context.Context, q *record.Query) error {
	f.invoked = append(f.invoked, q)
	return nil
}

func TestIndex(t *testing.T) {
	router := api.New(newFakeStore(), fakeRunner{}, nil).Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Body.String(), `{"Hello":"World"}`)
}

func TestGetQuery(t *testing.T) {
	store := newFakeStore()
	q := record.New("stored question")
	assert.NilError(t, store.Put(context.Background(), q))
	router := api.New(store, fakeRunner{}, nil).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_query?query_id="+q.QueryID, nil))
	assert.Equal(t, w.Code, http.StatusOK)

	var got record.Query
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, got.QueryText, "stored question")
}

func TestGetQueryMissingID(t *testing.T) {
	router := api.New(newFakeStore(), fakeRunner{}, nil).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_query", nil))
	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestGetQueryNotFound(t *testing.T) {
	router := api.New(newFakeStore(), fakeRunner{}, nil).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get_query?query_id=unknown", nil))
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestSubmitQuerySync(t *testing.T) {
	store := newFakeStore()
	router := api.New(store, fakeRunner{}, nil).Router()

	payload, err := json.Marshal(api.QueryRequest{QueryText: "What payloads?"})
	assert.NilError(t, err)
	body := bytes.NewBuffer(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit_query", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)
	var got record.Query
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Assert(t, got.IsComplete)
	assert.Equal(t, got.AnswerText, "the answer")
	assert.DeepEqual(t, got.Sources, []string{"doc.pdf:1:text:abc"})

	stored := store.items[got.QueryID]
	assert.Assert(t, stored != nil)
	assert.Assert(t, stored.IsComplete)
}

func TestSubmitQueryAsync(t *testing.T) {
	store := newFakeStore()
	worker := &fakeWorker{}
	router := api.New(store, nil, worker).Router()

	body := bytes.NewBufferString(`{"query_text":"What payloads?"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit_query", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)
	var got record.Query
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Assert(t, !got.IsComplete)
	assert.Equal(t, got.AnswerText, "")

	assert.Equal(t, len(worker.invoked), 1)
	stored := store.items[got.QueryID]
	assert.Assert(t, stored != nil)
	assert.Assert(t, !stored.IsComplete)
}

func TestSubmitQueryMissingText(t *testing.T) {
	router := api.New(newFakeStore(), fakeRunner{}, nil).Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit_query", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusBadRequest)
}
