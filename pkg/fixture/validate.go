package fixture

import (
	"github.com/matzehuels/gridkit/pkg/columns"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// Validate checks the fixture for structural errors: exactly one of columns
// or items, unique non-empty keys, parseable column sizes, row cell counts
// and known selection settings.
func (f *Fixture) Validate() error {
	switch {
	case len(f.Columns) > 0 && len(f.Items) > 0:
		return errors.New(errors.ErrCodeInvalidFixture, "fixture has both columns and items")
	case len(f.Columns) == 0 && len(f.Rows) > 0:
		return errors.New(errors.ErrCodeInvalidFixture, "fixture has rows but no columns")
	case len(f.Columns) == 0 && len(f.Items) == 0 && !f.Loading:
		return errors.New(errors.ErrCodeInvalidFixture, "fixture has neither columns nor items")
	}

	seen := make(map[string]string)
	claim := func(key, what string) error {
		if key == "" {
			return errors.New(errors.ErrCodeInvalidKey, "%s without key", what)
		}
		if prev, ok := seen[key]; ok {
			return errors.New(errors.ErrCodeDuplicateKey, "duplicate key %q (%s and %s)", key, prev, what)
		}
		seen[key] = what
		return nil
	}

	leaves, err := validateColumns(f.Columns, claim)
	if err != nil {
		return err
	}
	if err := validateRows(f.Rows, leaves, claim); err != nil {
		return err
	}
	if err := validateItems(f.Items, claim); err != nil {
		return err
	}
	return f.validateSelection(seen)
}

func validateColumns(cols []Column, claim func(string, string) error) (int, error) {
	leaves := 0
	for _, c := range cols {
		if err := claim(c.Key, "column"); err != nil {
			return 0, err
		}
		for _, raw := range []string{c.Width, c.DefaultWidth, c.MinWidth, c.MaxWidth} {
			if _, err := columns.ParseSize(raw); err != nil {
				return 0, errors.Wrap(errors.ErrCodeInvalidColumnSize, err, "column %q", c.Key)
			}
		}
		if c.Width != "" && c.DefaultWidth != "" {
			return 0, errors.New(errors.ErrCodeInvalidFixture, "column %q sets both width and default_width", c.Key)
		}
		if len(c.Children) == 0 {
			leaves++
			continue
		}
		n, err := validateColumns(c.Children, claim)
		if err != nil {
			return 0, err
		}
		leaves += n
	}
	return leaves, nil
}

func validateRows(rows []Row, leaves int, claim func(string, string) error) error {
	for _, r := range rows {
		if err := claim(r.Key, "row"); err != nil {
			return err
		}
		if len(r.Cells) > leaves {
			return errors.New(errors.ErrCodeInvalidFixture, "row %q has %d cells for %d columns", r.Key, len(r.Cells), leaves)
		}
		if err := validateRows(r.Children, leaves, claim); err != nil {
			return err
		}
	}
	return nil
}

func validateItems(items []Item, claim func(string, string) error) error {
	for _, it := range items {
		what := "item"
		if len(it.Children) > 0 {
			what = "section"
		}
		if err := claim(it.Key, what); err != nil {
			return err
		}
		if it.Loader && len(it.Children) > 0 {
			return errors.New(errors.ErrCodeInvalidFixture, "loader %q cannot have children", it.Key)
		}
		if err := validateItems(it.Children, claim); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fixture) validateSelection(seen map[string]string) error {
	s := f.Selection
	switch selection.Mode(s.Mode) {
	case "", selection.ModeNone, selection.ModeSingle, selection.ModeMultiple:
	default:
		return errors.New(errors.ErrCodeInvalidFixture, "unknown selection mode %q", s.Mode)
	}
	switch selection.Behavior(s.Behavior) {
	case "", selection.BehaviorToggle, selection.BehaviorReplace:
	default:
		return errors.New(errors.ErrCodeInvalidFixture, "unknown selection behavior %q", s.Behavior)
	}
	switch selection.DisabledBehavior(s.DisabledBehavior) {
	case "", selection.DisabledAll, selection.DisabledSelection:
	default:
		return errors.New(errors.ErrCodeInvalidFixture, "unknown disabled behavior %q", s.DisabledBehavior)
	}
	if selection.Mode(s.Mode) == selection.ModeSingle && len(s.Selected) > 1 {
		return errors.New(errors.ErrCodeInvalidFixture, "single selection mode with %d selected keys", len(s.Selected))
	}

	refs := [][]string{s.Disabled, s.Selected, f.Expanded}
	for _, list := range refs {
		for _, k := range list {
			if _, ok := seen[k]; !ok {
				return errors.New(errors.ErrCodeNotFound, "unknown key %q", k)
			}
		}
	}
	return nil
}
