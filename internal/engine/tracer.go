package engine

// Tracer is the generation-history collaborator accepted at construction.
// The mock engine stores it but never emits events; the interface exists so
// a real trace subsystem can slot in at the same boundary.
type Tracer interface {
	RecordToken(pos, id int)
}

// NopTracer discards all events.
type NopTracer struct{}

func (NopTracer) RecordToken(pos, id int) {}
