package types

import "time"

// TraitRecord is the catalog snapshot of a trait definition.
type TraitRecord struct {
	TraitID       string    `json:"trait_id"`
	Name          string    `json:"name"`
	Parameterized bool      `json:"parameterized"`
	Members       []string  `json:"members"` // Declarations, e.g. "virtual protected foo/2".
	CreatedAt     time.Time `json:"created_at"`
}

// ClassRecord is the catalog snapshot of a composed class.
type ClassRecord struct {
	ClassID   string    `json:"class_id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Traits    []string  `json:"traits"` // Trait names in declaration order.
	State     string    `json:"state"`
	Abstract  bool      `json:"abstract"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberRecord is one entry of a class's resolved member table.
type MemberRecord struct {
	MemberID   string `json:"member_id"`
	ClassID    string `json:"class_id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Visibility string `json:"visibility"`
	Modifiers  string `json:"modifiers"`
	Arity      int    `json:"arity"`
	OriginName string `json:"origin_name"`
	OriginKind string `json:"origin_kind"`
	Proxied    bool   `json:"proxied"`
	Ordinal    int    `json:"ordinal"` // Position in the resolved table.
}
