package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Compile-time interface check: membersTable must implement Table.
var _ types.Table = (*membersTable)(nil)

// membersTable implements the Table interface for resolved member records.
// Every member belongs to a class that must already be stored.
type membersTable struct {
	backend *Backend
}

const selectMembers = `SELECT member_id, class_id, name, kind, visibility, modifiers,
    arity, origin_name, origin_kind, proxied, ordinal FROM members`

var memberFilterColumns = map[string]string{
	"class_id":    "class_id",
	"name":        "name",
	"kind":        "kind",
	"origin_name": "origin_name",
	"proxied":     "proxied",
}

// Get retrieves a member record by ID.
func (mt *membersTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := mt.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rec, err := hydrateMember(b.db.QueryRow(selectMembers+" WHERE member_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting member %s: %w", id, err)
	}
	return rec, nil
}

// Set creates or replaces a member record. An empty id generates a UUID v7.
// Returns ErrInvalidData when the owning class is not in the catalog.
func (mt *membersTable) Set(id string, data any) (string, error) {
	rec, ok := data.(*types.MemberRecord)
	if !ok || rec == nil || rec.Name == "" || rec.ClassID == "" {
		return "", types.ErrInvalidData
	}
	b := mt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}

	var exists bool
	err := b.db.QueryRow("SELECT 1 FROM classes WHERE class_id = ?", rec.ClassID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: unknown class %s", types.ErrInvalidData, rec.ClassID)
	}
	if err != nil {
		return "", fmt.Errorf("checking class existence: %w", err)
	}

	if id == "" {
		id = generateUUID()
	}
	rec.MemberID = id

	_, err = b.db.Exec(`INSERT INTO members (member_id, class_id, name, kind, visibility, modifiers,
    arity, origin_name, origin_kind, proxied, ordinal)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(member_id) DO UPDATE SET
    class_id = excluded.class_id,
    name = excluded.name,
    kind = excluded.kind,
    visibility = excluded.visibility,
    modifiers = excluded.modifiers,
    arity = excluded.arity,
    origin_name = excluded.origin_name,
    origin_kind = excluded.origin_kind,
    proxied = excluded.proxied,
    ordinal = excluded.ordinal`,
		id, rec.ClassID, rec.Name, rec.Kind, rec.Visibility, rec.Modifiers,
		rec.Arity, rec.OriginName, rec.OriginKind, boolInt(rec.Proxied), rec.Ordinal)
	if err != nil {
		return "", fmt.Errorf("persisting member: %w", err)
	}
	if err := mt.persistJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", membersFile, err)
	}
	return id, nil
}

// Delete removes a member record.
func (mt *membersTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := mt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	res, err := b.db.Exec("DELETE FROM members WHERE member_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	if err := mt.persistJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", membersFile, err)
	}
	return nil
}

// Fetch returns member records matching filter ("class_id", "name",
// "kind", "origin_name", "proxied") in table order.
func (mt *membersTable) Fetch(filter map[string]any) ([]any, error) {
	b := mt.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	where, args, err := whereClause(filter, memberFilterColumns)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.Query(selectMembers+where+" ORDER BY class_id ASC, ordinal ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("fetching members: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		rec, err := hydrateMember(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating member: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return results, nil
}

func hydrateMember(row scanner) (*types.MemberRecord, error) {
	var rec types.MemberRecord
	err := row.Scan(&rec.MemberID, &rec.ClassID, &rec.Name, &rec.Kind, &rec.Visibility, &rec.Modifiers,
		&rec.Arity, &rec.OriginName, &rec.OriginKind, &rec.Proxied, &rec.Ordinal)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// persistJSONL rewrites members.jsonl from SQLite.
func (mt *membersTable) persistJSONL() error {
	b := mt.backend
	rows, err := b.db.Query(selectMembers + " ORDER BY class_id ASC, ordinal ASC")
	if err != nil {
		return fmt.Errorf("querying members for JSONL: %w", err)
	}
	defer rows.Close()

	var out []memberJSON
	for rows.Next() {
		rec, err := hydrateMember(rows)
		if err != nil {
			return fmt.Errorf("scanning member for JSONL: %w", err)
		}
		out = append(out, memberJSON(*rec))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating members for JSONL: %w", err)
	}

	records, err := marshalJSONL(out)
	if err != nil {
		return fmt.Errorf("marshaling members: %w", err)
	}
	return writeJSONL(b.jsonlPath(membersFile), records)
}
