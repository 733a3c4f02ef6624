package compose

import (
	"fmt"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// declaration renders a member the way the catalog stores it, with the
// arity suffixed to methods: "virtual protected foo/2".
func declaration(m types.Member) string {
	if m.IsMethod() {
		return fmt.Sprintf("%s/%d", m.Declaration(), m.Arity)
	}
	return m.Declaration()
}

// Record snapshots t for the catalog.
func (t *Trait) Record() types.TraitRecord {
	members := t.Members()
	decls := make([]string, 0, len(members))
	for _, m := range members {
		decls = append(decls, declaration(m))
	}
	return types.TraitRecord{
		TraitID:       t.origin.ID,
		Name:          t.origin.Name,
		Parameterized: t.Parameterized(),
		Members:       decls,
		CreatedAt:     t.createdAt,
	}
}

// Record snapshots c for the catalog.
func (c *Class) Record() types.ClassRecord {
	rec := types.ClassRecord{
		ClassID:   c.origin.ID,
		Name:      c.origin.Name,
		Traits:    make([]string, 0, len(c.mixins)),
		State:     string(c.State()),
		Abstract:  c.Abstract(),
		CreatedAt: c.createdAt,
	}
	if c.parent != nil {
		id := c.parent.origin.ID
		rec.ParentID = &id
	}
	for _, mx := range c.mixins {
		rec.Traits = append(rec.Traits, mx.trait.origin.Name)
	}
	return rec
}

// MemberRecords snapshots c's resolved member table in order. Member IDs
// are left empty for the catalog to assign.
func (c *Class) MemberRecords() []types.MemberRecord {
	out := make([]types.MemberRecord, 0, c.table.Len())
	for i, e := range c.table.Entries() {
		out = append(out, types.MemberRecord{
			ClassID:    c.origin.ID,
			Name:       e.Member.Name,
			Kind:       e.Member.Kind.String(),
			Visibility: e.Member.Visibility.String(),
			Modifiers:  e.Member.Modifiers.String(),
			Arity:      e.Member.Arity,
			OriginName: e.Origin.Name,
			OriginKind: string(e.Origin.Kind),
			Proxied:    e.Proxied,
			Ordinal:    i,
		})
	}
	return out
}
