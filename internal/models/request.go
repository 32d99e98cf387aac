package models

// WriteRequest is the body of a single-point write.
type WriteRequest struct {
	Timestamp uint64  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// BatchWriteRequest is the body of a batch write.
type BatchWriteRequest struct {
	Points []WriteRequest `json:"points"`
}

// SampleMessage is one sample on the ingest queue.
type SampleMessage struct {
	Key       string  `json:"key"`
	Timestamp uint64  `json:"timestamp"`
	Value     float64 `json:"value"`
}
