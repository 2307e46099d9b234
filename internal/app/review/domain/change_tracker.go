package domain

// ChangeTracker records which review fields a patch touched, so stores
// write only those columns.
type ChangeTracker struct {
	dirty map[string]bool
}

// NewChangeTracker creates a new ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[string]bool)}
}

// MarkDirty marks a field as modified.
func (ct *ChangeTracker) MarkDirty(field string) {
	ct.dirty[field] = true
}

// Dirty reports whether field was modified.
func (ct *ChangeTracker) Dirty(field string) bool {
	return ct.dirty[field]
}

// HasChanges returns true if any field has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// Clear forgets all modifications.
func (ct *ChangeTracker) Clear() {
	ct.dirty = make(map[string]bool)
}
