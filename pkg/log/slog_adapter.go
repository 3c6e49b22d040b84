package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes allocation events to an slog.Logger.
// Useful for development when you want to see allocator decisions in console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter logging at the given level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("request_id", event.RequestID),
		slog.String("category", event.Category.String()),
		slog.String("operation", event.Operation.String()),
		slog.String("outcome", event.Outcome.String()),
	}

	if event.ProvisionerID != "" {
		attrs = append(attrs, slog.String("provisioner_id", event.ProvisionerID))
	}
	if event.IVIndex != 0 {
		attrs = append(attrs, slog.Uint64("iv_index", uint64(event.IVIndex)))
	}

	switch {
	case event.Allocation != nil:
		alloc := event.Allocation
		attrs = append(attrs,
			slog.String("space", alloc.Space.String()),
			slog.Int("ranges", len(alloc.Ranges)),
		)
		if alloc.ElementsCount > 0 {
			attrs = append(attrs, slog.Int("elements", int(alloc.ElementsCount)))
		}
		if alloc.Offset != nil {
			attrs = append(attrs, slog.String("offset", alloc.Offset.String()))
		}
		if alloc.Excluded > 0 {
			attrs = append(attrs, slog.Int("excluded", alloc.Excluded))
		}
		if alloc.Result != nil {
			attrs = append(attrs, slog.Uint64("result", uint64(*alloc.Result)))
		}
	case event.Partition != nil:
		p := event.Partition
		attrs = append(attrs,
			slog.String("space", p.Space.String()),
			slog.Int("size", int(p.Size)),
			slog.Int("claimed", p.Claimed),
		)
		if p.Result != nil {
			attrs = append(attrs, slog.String("result", p.Result.String()))
		}
	case event.Predicate != nil:
		attrs = append(attrs,
			slog.String("range", event.Predicate.Range.String()),
			slog.Bool("result", event.Predicate.Result),
		)
		if event.Predicate.ExcludingNode != "" {
			attrs = append(attrs, slog.String("excluding_node", event.Predicate.ExcludingNode))
		}
	case event.Mutation != nil:
		m := event.Mutation
		if m.Entity != "" {
			attrs = append(attrs, slog.String("entity", m.Entity))
		}
		attrs = append(attrs, slog.Uint64("value", uint64(m.Value)))
		if m.Count > 0 {
			attrs = append(attrs, slog.Int("count", int(m.Count)))
		}
		if m.Error != "" {
			attrs = append(attrs, slog.String("error", m.Error))
		}
	}

	a.logger.LogAttrs(context.Background(), a.level, "allocation", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
