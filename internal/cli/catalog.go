package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/weave/internal/compose"
	"github.com/mesh-intelligence/weave/internal/manifest"
	"github.com/mesh-intelligence/weave/pkg/types"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Store and query composed classes",
	}
	cmd.AddCommand(newCatalogSaveCmd(), newCatalogListCmd(), newCatalogShowCmd())
	return cmd
}

func newCatalogSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <manifest>",
		Short: "Compose a manifest and save every trait and class to the catalog",
		Long: `Compose and activate every class in the manifest, then save its traits,
the class record, and the resolved member table. Saving replaces any
earlier record with the same name; stored subclasses of a replaced class
are moved onto the new record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := commandLogger(cmd)
			set, err := manifest.Load(args[0], compose.WithLogger(logger))
			if err != nil {
				return classify(fmt.Errorf("load %s: %w", args[0], err))
			}

			backend, err := attachCatalog()
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			defer backend.Detach()

			s, err := newSaver(backend, logger)
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			for _, name := range set.ClassNames() {
				if err := s.saveClass(set.Classes[name]); err != nil {
					return &ExitError{Code: exitSysError, Err: fmt.Errorf("save class %s: %w", name, err)}
				}
			}

			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"traits": len(s.traits), "classes": len(s.classes)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d traits and %d classes to %s\n",
				len(s.traits), len(s.classes), backend.DataDir())
			return nil
		},
	}
}

// saver writes composed classes to the catalog. Parents and traits are
// saved before the classes that use them, each at most once per run.
type saver struct {
	traitTable  types.Table
	classTable  types.Table
	memberTable types.Table
	logger      *log.Logger

	traits  map[string]bool // Trait IDs saved this run.
	classes map[string]bool // Class IDs saved this run.
}

func newSaver(catalog types.Catalog, logger *log.Logger) (*saver, error) {
	s := &saver{
		logger:  logger,
		traits:  make(map[string]bool),
		classes: make(map[string]bool),
	}
	var err error
	if s.traitTable, err = catalog.GetTable(types.TraitsTable); err != nil {
		return nil, err
	}
	if s.classTable, err = catalog.GetTable(types.ClassesTable); err != nil {
		return nil, err
	}
	if s.memberTable, err = catalog.GetTable(types.MembersTable); err != nil {
		return nil, err
	}
	return s, nil
}

// replaceByName deletes every record in table named name whose id differs
// from keep.
func replaceByName(table types.Table, name, keep string, idOf func(any) string) error {
	existing, err := table.Fetch(map[string]any{"name": name})
	if err != nil {
		return err
	}
	for _, rec := range existing {
		if id := idOf(rec); id != keep {
			if err := table.Delete(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *saver) saveTrait(t *compose.Trait) error {
	if s.traits[t.ID()] {
		return nil
	}
	rec := t.Record()
	err := replaceByName(s.traitTable, rec.Name, rec.TraitID, func(v any) string {
		return v.(*types.TraitRecord).TraitID
	})
	if err != nil {
		return err
	}
	if _, err := s.traitTable.Set(rec.TraitID, &rec); err != nil {
		return fmt.Errorf("trait %s: %w", rec.Name, err)
	}
	s.traits[t.ID()] = true
	s.logger.Debug("saved trait", "trait", rec.Name, "id", rec.TraitID)
	return nil
}

func (s *saver) saveClass(c *compose.Class) error {
	if s.classes[c.ID()] {
		return nil
	}
	if p := c.Parent(); p != nil {
		if err := s.saveClass(p); err != nil {
			return err
		}
	}
	for _, t := range c.Traits() {
		if err := s.saveTrait(t); err != nil {
			return err
		}
	}

	if err := c.Activate(); err != nil {
		s.logger.Warn("saving class that failed to activate", "class", c.Name(), "err", err)
	}
	rec := c.Record()
	if _, err := s.classTable.Set(rec.ClassID, &rec); err != nil {
		return err
	}
	if err := s.replaceClass(rec.Name, rec.ClassID); err != nil {
		return err
	}

	// Re-saving a class replaces its member table.
	stale, err := s.memberTable.Fetch(map[string]any{"class_id": rec.ClassID})
	if err != nil {
		return err
	}
	for _, m := range stale {
		if err := s.memberTable.Delete(m.(*types.MemberRecord).MemberID); err != nil {
			return err
		}
	}
	for _, m := range c.MemberRecords() {
		if _, err := s.memberTable.Set("", &m); err != nil {
			return fmt.Errorf("member %s: %w", m.Name, err)
		}
	}
	s.classes[c.ID()] = true
	s.logger.Debug("saved class", "class", rec.Name, "id", rec.ClassID, "state", rec.State)
	return nil
}

// replaceClass deletes earlier records of the class named name and moves
// their stored subclasses onto keep, so subclasses saved by an earlier run
// still resolve their parent.
func (s *saver) replaceClass(name, keep string) error {
	existing, err := s.classTable.Fetch(map[string]any{"name": name})
	if err != nil {
		return err
	}
	for _, row := range existing {
		old := row.(*types.ClassRecord)
		if old.ClassID == keep {
			continue
		}
		children, err := s.classTable.Fetch(map[string]any{"parent_id": old.ClassID})
		if err != nil {
			return err
		}
		for _, ch := range children {
			child := ch.(*types.ClassRecord)
			parent := keep
			child.ParentID = &parent
			if _, err := s.classTable.Set(child.ClassID, child); err != nil {
				return fmt.Errorf("re-parent %s: %w", child.Name, err)
			}
			s.logger.Debug("re-parented class", "class", child.Name, "parent", name)
		}
		if err := s.classTable.Delete(old.ClassID); err != nil {
			return err
		}
	}
	return nil
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List classes in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachCatalog()
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			defer backend.Detach()

			classTable, err := backend.GetTable(types.ClassesTable)
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			rows, err := classTable.Fetch(nil)
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			records := make([]*types.ClassRecord, 0, len(rows))
			names := make(map[string]string, len(rows))
			for _, row := range rows {
				rec := row.(*types.ClassRecord)
				records = append(records, rec)
				names[rec.ClassID] = rec.Name
			}

			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, SubtitleStyle.Render("catalog is empty"))
				return nil
			}
			for _, rec := range records {
				line := rec.Name
				if rec.ParentID != nil {
					line += " extends " + names[*rec.ParentID]
				}
				if len(rec.Traits) > 0 {
					line += " uses " + strings.Join(rec.Traits, ", ")
				}
				fmt.Fprintf(out, "%s [%s]\n", line, rec.State)
			}
			return nil
		},
	}
}

func newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <class>",
		Short: "Show a stored class's member table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachCatalog()
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			defer backend.Detach()

			classTable, err := backend.GetTable(types.ClassesTable)
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			memberTable, err := backend.GetTable(types.MembersTable)
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}

			found, err := classTable.Fetch(map[string]any{"name": args[0]})
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			if len(found) == 0 {
				return classify(fmt.Errorf("class %q: %w", args[0], types.ErrNotFound))
			}
			class := found[len(found)-1].(*types.ClassRecord)

			rows, err := memberTable.Fetch(map[string]any{"class_id": class.ClassID})
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			members := make([]types.MemberRecord, 0, len(rows))
			for _, row := range rows {
				members = append(members, *row.(*types.MemberRecord))
			}

			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"class": class, "members": members})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", TitleStyle.Render(class.Name), SubtitleStyle.Render("["+class.State+"]"))
			return renderMembers(out, members)
		},
	}
}
