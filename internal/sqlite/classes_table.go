package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Compile-time interface check: classesTable must implement Table.
var _ types.Table = (*classesTable)(nil)

// classesTable implements the Table interface for class records. Deleting
// a class cascades to its member rows.
type classesTable struct {
	backend *Backend
}

const selectClasses = "SELECT class_id, name, parent_id, traits, state, abstract, created_at FROM classes"

var classFilterColumns = map[string]string{
	"name":      "name",
	"parent_id": "parent_id",
	"state":     "state",
	"abstract":  "abstract",
}

// Get retrieves a class record by ID.
func (ct *classesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := ct.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rec, err := hydrateClass(b.db.QueryRow(selectClasses+" WHERE class_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting class %s: %w", id, err)
	}
	return rec, nil
}

// Set creates or replaces a class record. An empty id generates a UUID v7.
func (ct *classesTable) Set(id string, data any) (string, error) {
	rec, ok := data.(*types.ClassRecord)
	if !ok || rec == nil || rec.Name == "" {
		return "", types.ErrInvalidData
	}
	b := ct.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}

	if id == "" {
		id = generateUUID()
	}
	rec.ClassID = id
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.State == "" {
		rec.State = string(types.StateComposed)
	}
	traits, err := encodeList(rec.Traits)
	if err != nil {
		return "", fmt.Errorf("encoding traits: %w", err)
	}
	var parent sql.NullString
	if rec.ParentID != nil {
		parent = sql.NullString{String: *rec.ParentID, Valid: true}
	}

	_, err = b.db.Exec(`INSERT INTO classes (class_id, name, parent_id, traits, state, abstract, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(class_id) DO UPDATE SET
    name = excluded.name,
    parent_id = excluded.parent_id,
    traits = excluded.traits,
    state = excluded.state,
    abstract = excluded.abstract,
    created_at = excluded.created_at`,
		id, rec.Name, parent, traits, rec.State, boolInt(rec.Abstract), formatTime(rec.CreatedAt))
	if err != nil {
		return "", fmt.Errorf("persisting class: %w", err)
	}
	if err := ct.persistJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", classesFile, err)
	}
	return id, nil
}

// Delete removes a class record and its members.
func (ct *classesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := ct.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM members WHERE class_id = ?", id); err != nil {
		return fmt.Errorf("deleting class members: %w", err)
	}
	res, err := tx.Exec("DELETE FROM classes WHERE class_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting class: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	if err := ct.persistJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", classesFile, err)
	}
	if err := (&membersTable{backend: b}).persistJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", membersFile, err)
	}
	return nil
}

// Fetch returns class records matching filter ("name", "parent_id",
// "state", "abstract"), oldest first.
func (ct *classesTable) Fetch(filter map[string]any) ([]any, error) {
	b := ct.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	where, args, err := whereClause(filter, classFilterColumns)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.Query(selectClasses+where+" ORDER BY created_at ASC, rowid ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("fetching classes: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		rec, err := hydrateClass(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating class: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classes: %w", err)
	}
	return results, nil
}

func hydrateClass(row scanner) (*types.ClassRecord, error) {
	var rec types.ClassRecord
	var parent sql.NullString
	var traits, createdAt string
	if err := row.Scan(&rec.ClassID, &rec.Name, &parent, &traits, &rec.State, &rec.Abstract, &createdAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		p := parent.String
		rec.ParentID = &p
	}
	var err error
	if rec.Traits, err = decodeList(traits); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// persistJSONL rewrites classes.jsonl from SQLite.
func (ct *classesTable) persistJSONL() error {
	b := ct.backend
	rows, err := b.db.Query(selectClasses + " ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return fmt.Errorf("querying classes for JSONL: %w", err)
	}
	defer rows.Close()

	var out []classJSON
	for rows.Next() {
		rec, err := hydrateClass(rows)
		if err != nil {
			return fmt.Errorf("scanning class for JSONL: %w", err)
		}
		out = append(out, classJSON{
			ClassID:   rec.ClassID,
			Name:      rec.Name,
			ParentID:  rec.ParentID,
			Traits:    rec.Traits,
			State:     rec.State,
			Abstract:  rec.Abstract,
			CreatedAt: formatTime(rec.CreatedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating classes for JSONL: %w", err)
	}

	records, err := marshalJSONL(out)
	if err != nil {
		return fmt.Errorf("marshaling classes: %w", err)
	}
	return writeJSONL(b.jsonlPath(classesFile), records)
}
