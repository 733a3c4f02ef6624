package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Compile-time interface check: traitsTable must implement Table.
var _ types.Table = (*traitsTable)(nil)

// traitsTable implements the Table interface for trait records. Each write
// persists traits.jsonl atomically.
type traitsTable struct {
	backend *Backend
}

const selectTraits = "SELECT trait_id, name, parameterized, members, created_at FROM traits"

var traitFilterColumns = map[string]string{
	"name":          "name",
	"parameterized": "parameterized",
}

// Get retrieves a trait record by ID.
func (tt *traitsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := tt.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rec, err := hydrateTrait(b.db.QueryRow(selectTraits+" WHERE trait_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting trait %s: %w", id, err)
	}
	return rec, nil
}

// Set creates or replaces a trait record. An empty id generates a UUID v7.
func (tt *traitsTable) Set(id string, data any) (string, error) {
	rec, ok := data.(*types.TraitRecord)
	if !ok || rec == nil || rec.Name == "" {
		return "", types.ErrInvalidData
	}
	b := tt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}

	if id == "" {
		id = generateUUID()
	}
	rec.TraitID = id
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	members, err := encodeList(rec.Members)
	if err != nil {
		return "", fmt.Errorf("encoding members: %w", err)
	}

	_, err = b.db.Exec(`INSERT INTO traits (trait_id, name, parameterized, members, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(trait_id) DO UPDATE SET
    name = excluded.name,
    parameterized = excluded.parameterized,
    members = excluded.members,
    created_at = excluded.created_at`,
		id, rec.Name, boolInt(rec.Parameterized), members, formatTime(rec.CreatedAt))
	if err != nil {
		return "", fmt.Errorf("persisting trait: %w", err)
	}
	if err := tt.persistJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", traitsFile, err)
	}
	return id, nil
}

// Delete removes a trait record.
func (tt *traitsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := tt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	res, err := b.db.Exec("DELETE FROM traits WHERE trait_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting trait: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	if err := tt.persistJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", traitsFile, err)
	}
	return nil
}

// Fetch returns trait records matching filter ("name", "parameterized"),
// oldest first.
func (tt *traitsTable) Fetch(filter map[string]any) ([]any, error) {
	b := tt.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	where, args, err := whereClause(filter, traitFilterColumns)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.Query(selectTraits+where+" ORDER BY created_at ASC, rowid ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("fetching traits: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		rec, err := hydrateTrait(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating trait: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating traits: %w", err)
	}
	return results, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func hydrateTrait(row scanner) (*types.TraitRecord, error) {
	var rec types.TraitRecord
	var members, createdAt string
	if err := row.Scan(&rec.TraitID, &rec.Name, &rec.Parameterized, &members, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if rec.Members, err = decodeList(members); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// persistJSONL rewrites traits.jsonl from SQLite.
func (tt *traitsTable) persistJSONL() error {
	b := tt.backend
	rows, err := b.db.Query(selectTraits + " ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return fmt.Errorf("querying traits for JSONL: %w", err)
	}
	defer rows.Close()

	var out []traitJSON
	for rows.Next() {
		rec, err := hydrateTrait(rows)
		if err != nil {
			return fmt.Errorf("scanning trait for JSONL: %w", err)
		}
		out = append(out, traitJSON{
			TraitID:       rec.TraitID,
			Name:          rec.Name,
			Parameterized: rec.Parameterized,
			Members:       rec.Members,
			CreatedAt:     formatTime(rec.CreatedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating traits for JSONL: %w", err)
	}

	records, err := marshalJSONL(out)
	if err != nil {
		return fmt.Errorf("marshaling traits: %w", err)
	}
	return writeJSONL(b.jsonlPath(traitsFile), records)
}
