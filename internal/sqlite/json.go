package sqlite

// JSONL record structures that mirror the data file format. SQLite columns
// use the same names so the loader can map fields to columns directly.

// traitJSON represents a trait in traits.jsonl.
type traitJSON struct {
	TraitID       string   `json:"trait_id"`
	Name          string   `json:"name"`
	Parameterized bool     `json:"parameterized"`
	Members       []string `json:"members"`
	CreatedAt     string   `json:"created_at"`
}

// classJSON represents a class in classes.jsonl.
type classJSON struct {
	ClassID   string   `json:"class_id"`
	Name      string   `json:"name"`
	ParentID  *string  `json:"parent_id"`
	Traits    []string `json:"traits"`
	State     string   `json:"state"`
	Abstract  bool     `json:"abstract"`
	CreatedAt string   `json:"created_at"`
}

// memberJSON represents a resolved member in members.jsonl.
type memberJSON struct {
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
	Ordinal    int    `json:"ordinal"`
}

// JSONL file names per table.
const (
	traitsFile  = "traits.jsonl"
	classesFile = "classes.jsonl"
	membersFile = "members.jsonl"
)
