package draft

// Field names used as debounce stream and request-token keys. Keeping them
// here gives the controllers and the graph one shared vocabulary.
const (
	FieldTopic  = "topic"
	FieldSkill  = "skill"
	FieldFormat = "format"
)

// Graph enforces the dependency edges between draft fields:
//
//	topic → skill      (skill's valid choices depend on the topic)
//	topic, skill → format  (format is derived, never user-edited)
//
// Any ancestor mutation synchronously clears the descendants it no longer
// guarantees are valid; recomputation happens asynchronously afterwards and
// its result is applied through ApplyFormat. The graph is acyclic and
// recomputation is idempotent: allocating format twice for the same
// (topic, skill) writes the same value.
type Graph struct {
	d *Draft
}

// NewGraph wraps a draft.
func NewGraph(d *Draft) *Graph {
	return &Graph{d: d}
}

// SetTopic writes a new topic value. When the value actually changes, the
// skill and format fields are cleared before the caller gets a chance to
// trigger any recomputation, so no stale descendant is ever visible next to
// the new topic. Returns true when the value changed.
func (g *Graph) SetTopic(v string) bool {
	if g.d.Topic == v {
		return false
	}
	g.d.Topic = v
	g.d.SkillName = ""
	g.d.Format = 0
	return true
}

// SetSkill writes a new skill value, clearing the derived format first.
// Returns true when the value changed.
func (g *Graph) SetSkill(v string) bool {
	if g.d.SkillName == v {
		return false
	}
	g.d.SkillName = v
	g.d.Format = 0
	return true
}

// NeedsFormat reports whether both ancestors are set, i.e. whether a format
// allocation should be requested. When it returns false the format field
// has already been cleared and no network call is warranted.
func (g *Graph) NeedsFormat() bool {
	return g.d.Topic != "" && g.d.SkillName != ""
}

// ApplyFormat writes an allocator result. Format is never user-editable so
// the write is unconditional; the caller is responsible for discarding
// stale allocator replies before calling.
func (g *Graph) ApplyFormat(n int) {
	g.d.Format = n
}
