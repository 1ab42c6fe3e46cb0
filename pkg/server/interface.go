/*
Package server implements the MessagePack IPC protocol over stdin/stdout.

Clients write requests and read responses as msgpack maps with short field
names to keep frames small.

Request fields:

	id  - opaque request id, echoed back in every response
	op  - operation: "search", "rebuild", "reload", "hash", "status"
	q   - query text (search)
	v   - vocabulary: "predicates" or "contexts" (search)
	l   - max results, 0 means server default (search)
	m   - minimum score, 0 means server default (search)
	p   - predicate terms (rebuild)
	c   - context terms (rebuild)

Every response carries ok plus an error string and machine-readable error
kind when ok is false.
*/
package server

// Request is a single client request frame.
type Request struct {
	ID         string   `msgpack:"id"`
	Op         string   `msgpack:"op"`
	Query      string   `msgpack:"q,omitempty"`
	Vocabulary string   `msgpack:"v,omitempty"`
	Limit      int      `msgpack:"l,omitempty"`
	MinScore   float64  `msgpack:"m,omitempty"`
	Predicates []string `msgpack:"p,omitempty"`
	Contexts   []string `msgpack:"c,omitempty"`
}

// Match is a single scored candidate in a search response.
type Match struct {
	Value    string  `msgpack:"w"`
	Score    float64 `msgpack:"s"`
	Strategy string  `msgpack:"y"`
}

// SearchResponse answers a "search" request.
type SearchResponse struct {
	ID        string  `msgpack:"id"`
	OK        bool    `msgpack:"ok"`
	Error     string  `msgpack:"e,omitempty"`
	ErrorKind string  `msgpack:"k,omitempty"`
	Matches   []Match `msgpack:"r"`
	Count     int     `msgpack:"c"`
	TimeTaken int64   `msgpack:"t"` // microseconds
}

// RebuildResponse answers "rebuild" and "reload" requests.
type RebuildResponse struct {
	ID             string `msgpack:"id"`
	OK             bool   `msgpack:"ok"`
	Error          string `msgpack:"e,omitempty"`
	ErrorKind      string `msgpack:"k,omitempty"`
	PredicateCount int    `msgpack:"pc"`
	ContextCount   int    `msgpack:"cc"`
	Hash           string `msgpack:"h"`
	TimeTaken      int64  `msgpack:"t"` // microseconds
}

// StatusResponse answers "hash" and "status" requests, and is sent once
// at startup so clients know the server is up.
type StatusResponse struct {
	ID             string `msgpack:"id"`
	Ready          bool   `msgpack:"ready"`
	Hash           string `msgpack:"h"`
	PredicateCount int    `msgpack:"pc"`
	ContextCount   int    `msgpack:"cc"`
}

// ErrorResponse answers requests that could not be routed at all.
type ErrorResponse struct {
	ID        string `msgpack:"id"`
	Error     string `msgpack:"e"`
	ErrorKind string `msgpack:"k"`
}

// Error kinds carried in the "k" field.
const (
	KindEmptyVocabulary       = "empty_vocabulary"
	KindNotReady              = "not_ready"
	KindInvalidVocabularyType = "invalid_vocabulary_type"
	KindBadRequest            = "bad_request"
	KindInternal              = "internal"
)
