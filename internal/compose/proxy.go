package compose

// proxy routes calls to a virtual member a trait provides. The trait's
// implementation is captured when the trait is mixed; overrides declared by
// the mixing class or its descendants are looked up per call, walking from
// the instance's class up to the class the trait was mixed into. An
// override that is present wins and can reach the trait's implementation
// through Super.
type proxy struct {
	name  string
	home  *Class // Class the trait was mixed into.
	base  []impl // Chain in effect at home, most specific first.
	arity int
}

func (p *proxy) withArity(n int) *proxy {
	c := *p
	c.arity = n
	return &c
}

// resolve returns the dispatch chain for an instance of class from, which
// must be home or one of its descendants.
func (p *proxy) resolve(from *Class) []impl {
	var chain []impl
	for c := from; c != nil; c = c.parent {
		if o, ok := c.overrides[p.name]; ok {
			chain = append(chain, o)
		}
		if c == p.home {
			break
		}
	}
	if len(chain) == 0 {
		return p.base
	}
	return append(chain, p.base...)
}
