package sqlite

// Schema DDL for the catalog tables.
const (
	createTraits = `CREATE TABLE traits (
    trait_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    parameterized INTEGER NOT NULL,
    members TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createClasses = `CREATE TABLE classes (
    class_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    parent_id TEXT,
    traits TEXT NOT NULL,
    state TEXT NOT NULL,
    abstract INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createMembers = `CREATE TABLE members (
    member_id TEXT PRIMARY KEY,
    class_id TEXT NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    visibility TEXT NOT NULL,
    modifiers TEXT NOT NULL,
    arity INTEGER NOT NULL,
    origin_name TEXT NOT NULL,
    origin_kind TEXT NOT NULL,
    proxied INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (class_id) REFERENCES classes(class_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxTraitsName    = `CREATE INDEX idx_traits_name ON traits(name);`
	idxClassesName   = `CREATE INDEX idx_classes_name ON classes(name);`
	idxClassesParent = `CREATE INDEX idx_classes_parent ON classes(parent_id);`
	idxMembersClass  = `CREATE INDEX idx_members_class ON members(class_id, ordinal);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createTraits,
	createClasses,
	createMembers,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTraitsName,
	idxClassesName,
	idxClassesParent,
	idxMembersClass,
}
