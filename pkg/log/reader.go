package log

import (
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects allocation events by category, operation, outcome,
// provisioner, network and time window. Unset fields match everything.
type Filter struct {
	// Category restricts events to one category.
	Category *Category

	// Operation filters by operation.
	Operation *Operation

	// Outcome filters by outcome.
	Outcome *Outcome

	// ProvisionerID filters by provisioner UUID.
	ProvisionerID string

	// NetworkID filters by network UUID.
	NetworkID string

	// TimeStart keeps events at or after this instant.
	TimeStart *time.Time

	// TimeEnd keeps events strictly before this instant.
	TimeEnd *time.Time
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.Operation != nil && event.Operation != *f.Operation {
		return false
	}
	if f.Outcome != nil && event.Outcome != *f.Outcome {
		return false
	}
	if f.ProvisionerID != "" && event.ProvisionerID != f.ProvisionerID {
		return false
	}
	if f.NetworkID != "" && event.NetworkID != f.NetworkID {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader reads allocation events from a CBOR-encoded file.
// Events are decoded one at a time, so large logs are never loaded whole.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens an allocation log for reading every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens an allocation log, skipping events the filter rejects.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next decodes events until one passes the filter.
// It returns io.EOF at the end of the log.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if err == io.EOF {
				return Event{}, io.EOF
			}
			return Event{}, err
		}

		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close releases the log file.
func (r *Reader) Close() error {
	return r.file.Close()
}
