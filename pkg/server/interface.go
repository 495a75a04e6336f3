/*
Package server implements msgpack IPC for wildcard word queries.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. Requests are processed sequentially, with timing
info included in query responses. Errors are answered and never end the
session; only a broken stream or EOF does.

# IPC

Every request carries an ID that is echoed back, and an action in "a".
Query is the default action:

	{"id": "q1", "q": "hel*", "l": 10, "s": true}

The server answers with the matching words, their count, whether the limit
cut the answer short, and the time taken in microseconds:

	{"id": "q1", "w": ["held", "hello", "help"], "c": 3, "x": false, "t": 12}

Membership checks and index stats:

	{"id": "r1", "a": "recognize", "q": "help"}  ->  {"id": "r1", "q": "help", "ok": true}
	{"id": "s1", "a": "stats"}  ->  {"id": "s1", "words": 3, "backend": "ternary", "fwd_heap": 412, "rev_heap": 430}

Failures come back as {"id", "e", "c"} with HTTP-like codes: 400 for bad
patterns or malformed requests, 404 for unknown actions, 413 for patterns
over the configured length.

Once the index is built the server writes {"status": "ready"}.
*/
package server

// Actions understood by the server.
const (
	ActionQuery     = "query"
	ActionRecognize = "recognize"
	ActionStats     = "stats"
)

// Error codes sent in ErrorResponse.
const (
	CodeBadRequest      = 400
	CodeUnknownAction   = 404
	CodePatternTooLarge = 413
)

// Request is any client message. Action defaults to query. Sorted left
// unset falls back to the configured default; false turns sorting off.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"a,omitempty"`
	Pattern string `msgpack:"q"`
	Limit   int    `msgpack:"l,omitempty"`
	Sorted  *bool  `msgpack:"s,omitempty"`
}

// QueryResponse - wildcard query response
type QueryResponse struct {
	ID        string   `msgpack:"id"`
	Words     []string `msgpack:"w"`
	Count     int      `msgpack:"c"`
	Truncated bool     `msgpack:"x"`
	TimeTaken int64    `msgpack:"t"`
}

// RecognizeResponse - membership response
type RecognizeResponse struct {
	ID      string `msgpack:"id"`
	Pattern string `msgpack:"q"`
	OK      bool   `msgpack:"ok"`
}

// StatsResponse - index size report, heap sizes are -1 when unknown
type StatsResponse struct {
	ID          string `msgpack:"id"`
	Words       int    `msgpack:"words"`
	Backend     string `msgpack:"backend"`
	ForwardHeap int    `msgpack:"fwd_heap"`
	ReverseHeap int    `msgpack:"rev_heap"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// StatusResponse signals server state changes such as readiness
type StatusResponse struct {
	Status string `msgpack:"status"`
}
