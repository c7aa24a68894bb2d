package ragservice

// Content kinds a chunk can carry. Retrieval groups context by kind
// before prompting the model.
const (
	KindText  = "text"
	KindTable = "table"
	KindImage = "image"
)

// Chunk is a single retrievable unit extracted from a source document.
type Chunk struct {
	Text   string
	Kind   string
	Source string
	Page   int
	Title  string
}

// QueryResponse is the result of one RAG invocation.
type QueryResponse struct {
	QueryText    string   `json:"query_text"`
	ResponseText string   `json:"response_text"`
	Sources      []string `json:"sources"`
}

// TemplateData feeds the prompt template.
type TemplateData struct {
	Question string
	Context  string
}
