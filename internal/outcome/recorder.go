// Package outcome records the result of every conversation turn to an
// append-only audit log.
package outcome

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sunsweeper/sunsweeper-ai-platform/pkg/logging"
)

// Record is an immutable snapshot of one conversation turn. Records are
// only ever appended, never rewritten.
type Record struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	ConversationID   string            `json:"conversation_id,omitempty"`
	OutcomeType      string            `json:"outcome_type"`
	DetectedIntents  []string          `json:"detected_intents,omitempty"`
	ServiceID        string            `json:"service_id,omitempty"`
	CollectedSlots   map[string]string `json:"collected_slots,omitempty"`
	Summary          string            `json:"conversation_summary,omitempty"`
	EscalationReason string            `json:"escalation_reason,omitempty"`
	MissingFields    []string          `json:"missing_fields,omitempty"`
}

// Sink receives finished records. Implementations must make each write
// atomic at the granularity of one record; turns from concurrent
// conversations append without coordination.
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

// Recorder stamps and forwards records to a sink. Write failures are
// logged and swallowed: the audit log must never block or fail a reply.
type Recorder struct {
	sink   Sink
	logger *logging.Logger
}

// NewRecorder creates a recorder. A nil sink disables recording.
func NewRecorder(sink Sink, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{sink: sink, logger: logger}
}

// Record fills in the record's ID and timestamp and hands it to the sink.
func (r *Recorder) Record(ctx context.Context, rec Record) {
	if r == nil || r.sink == nil {
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if err := r.sink.Write(ctx, rec); err != nil {
		r.logger.Error("outcome: failed to write record", "error", err, "conversation_id", rec.ConversationID)
	}
}

// FileSink appends newline-delimited JSON records to a file. Each record
// is marshalled first and written with a single Write call so concurrent
// appends cannot interleave partial lines.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileSink opens (or creates) the log file for appending.
func NewFileSink(path string) (*FileSink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("outcome: opening log file: %w", err)
	}
	return &FileSink{file: file}, nil
}

// Write appends one record as a single NDJSON line.
func (s *FileSink) Write(ctx context.Context, rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("outcome: marshalling record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(line); err != nil {
		return fmt.Errorf("outcome: appending record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// MemorySink captures records in memory for tests.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write stores the record.
func (s *MemorySink) Write(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of everything written so far.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
