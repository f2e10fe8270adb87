package model

import "fmt"

// IntegrityKind classifies a DataIntegrityError.
type IntegrityKind int

const (
	// IntegrityMissingChunk means a file references a chunk id absent from the chunk map.
	IntegrityMissingChunk IntegrityKind = iota
	// IntegrityMalformedOffsets means a chunk's end offset precedes its start offset.
	IntegrityMalformedOffsets
)

func (k IntegrityKind) String() string {
	switch k {
	case IntegrityMissingChunk:
		return "missing chunk"
	case IntegrityMalformedOffsets:
		return "malformed offsets"
	default:
		return "unknown"
	}
}

// DataIntegrityError reports one inconsistency found while aggregating a
// snapshot. File is empty when the problem belongs to the chunk map itself.
type DataIntegrityError struct {
	Kind    IntegrityKind
	File    string
	ChunkID string
	Detail  string
}

func (e *DataIntegrityError) Error() string {
	msg := fmt.Sprintf("data integrity: %s: chunk %q", e.Kind, e.ChunkID)
	if e.File != "" {
		msg += fmt.Sprintf(" (file %q)", e.File)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
