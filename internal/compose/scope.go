package compose

import "github.com/mesh-intelligence/weave/pkg/types"

// scope holds the private members of one origin: a single application of a
// trait to a class, or a class level. Every instance keeps one private
// record per scope along its class chain.
type scope struct {
	origin  types.Origin
	methods map[string]types.Member
	props   map[string]types.Member
}

func newScope(origin types.Origin, private []types.Member) *scope {
	s := &scope{
		origin:  origin,
		methods: make(map[string]types.Member),
		props:   make(map[string]types.Member),
	}
	for _, m := range private {
		if m.Kind == types.KindProperty {
			s.props[m.Name] = m
		} else {
			s.methods[m.Name] = m
		}
	}
	return s
}

// newRecord returns a fresh private record holding the initial values of
// the scope's private properties.
func (s *scope) newRecord() map[string]any {
	rec := make(map[string]any, len(s.props))
	for name, m := range s.props {
		rec[name] = m.Value
	}
	return rec
}

// impl is one implementation in a dispatch chain, paired with the scope it
// executes in.
type impl struct {
	member types.Member
	scope  *scope
}
