package db

import "time"

// Response is a cached response body for an endpoint path.
type Response struct {
	Path      string
	Body      []byte
	FetchedAt time.Time
}

// Stats summarises the response cache.
type Stats struct {
	Count  int64
	Bytes  int64
	Oldest time.Time
	Newest time.Time
}
