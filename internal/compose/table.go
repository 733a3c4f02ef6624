package compose

import "github.com/mesh-intelligence/weave/pkg/types"

// slot is the resolved state of one public or protected member name.
// Slots are immutable once their class is composed; subclasses share a
// parent's slot until they replace it.
type slot struct {
	member    types.Member
	origin    types.Origin
	overrides []types.Origin // Origins this member replaced, nearest first.
	chain     []impl         // Static dispatch chain, most specific first.
	proxy     *proxy         // Set for virtual members a trait provides.
}

// dispatch returns the implementation chain a call on an instance of class
// c runs.
func (s *slot) dispatch(c *Class) []impl {
	if s.proxy != nil {
		return s.proxy.resolve(c)
	}
	return s.chain
}

// arity is the number of arguments the member accepts as seen by callers.
func (s *slot) arity() int {
	if s.proxy != nil {
		return s.proxy.arity
	}
	return s.member.Arity
}

// Entry is the public view of one resolved member.
type Entry struct {
	Member    types.Member
	Origin    types.Origin
	Proxied   bool
	Overrides []types.Origin
}

// Table is a resolved member table: each member name mapped to exactly one
// descriptor with its provenance. Names keep first-declaration order.
type Table struct {
	names   []string
	entries map[string]Entry
}

func newTable(names []string, slots map[string]*slot) *Table {
	t := &Table{
		names:   append([]string(nil), names...),
		entries: make(map[string]Entry, len(names)),
	}
	for _, name := range names {
		s := slots[name]
		t.entries[name] = Entry{
			Member:    s.member,
			Origin:    s.origin,
			Proxied:   s.proxy != nil,
			Overrides: s.overrides,
		}
	}
	return t
}

// Len returns the number of resolved members.
func (t *Table) Len() int { return len(t.names) }

// Names returns the member names in resolution order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Lookup returns the entry for name.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.entries[name]
	if ok {
		e.Overrides = append([]types.Origin(nil), e.Overrides...)
	}
	return e, ok
}

// Entries returns every entry in resolution order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.names))
	for _, name := range t.names {
		e, _ := t.Lookup(name)
		out = append(out, e)
	}
	return out
}

// Abstract returns the names of members still lacking an implementation.
func (t *Table) Abstract() []string {
	var out []string
	for _, name := range t.names {
		if t.entries[name].Member.IsAbstract() {
			out = append(out, name)
		}
	}
	return out
}
