package schema

import (
	"fmt"

	"github.com/leapstack-labs/logmerge/internal/channel"
	"github.com/leapstack-labs/logmerge/internal/model"
)

// ApplyHeaderMapping renames a data file's columns per mapping
// (oldName → newName). The loaded table, the header list, the metadata map
// keys, and the time column are all updated; metadata objects keep their
// identity with OriginalName rewritten to the new name.
func ApplyHeaderMapping(f *model.DataFile, mapping map[string]string) error {
	if len(mapping) == 0 {
		return nil
	}
	// Validate the whole mapping up front so a bad entry cannot leave the
	// file partially renamed.
	for oldName, newName := range mapping {
		if newName == "" {
			return fmt.Errorf("empty target name for header %q", oldName)
		}
		if newName == oldName || !hasHeader(f, oldName) {
			continue
		}
		if hasHeader(f, newName) {
			return fmt.Errorf("cannot rename %q to %q: header already exists", oldName, newName)
		}
	}

	if f.Frame != nil {
		for oldName, newName := range mapping {
			if !f.Frame.HasColumn(oldName) {
				continue
			}
			if err := f.Frame.RenameColumn(oldName, newName); err != nil {
				return fmt.Errorf("renaming %q: %w", oldName, err)
			}
		}
		f.Headers = f.Frame.Columns()
	} else {
		for i, h := range f.Headers {
			if newName, ok := mapping[h]; ok {
				f.Headers[i] = newName
			}
		}
	}

	remapped := make(map[string]*channel.Metadata, len(f.ChannelMetadata))
	for name, meta := range f.ChannelMetadata {
		if newName, ok := mapping[name]; ok {
			meta.OriginalName = newName
			remapped[newName] = meta
		} else {
			remapped[name] = meta
		}
	}
	f.ChannelMetadata = remapped

	if newName, ok := mapping[f.TimeColumn]; ok {
		f.TimeColumn = newName
	}
	return nil
}

func hasHeader(f *model.DataFile, name string) bool {
	if f.Frame != nil {
		return f.Frame.HasColumn(name)
	}
	for _, h := range f.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ResolveAndAdd adds a data file to a test under the chosen mismatch
// strategy. STRICT rejects the file when its headers differ from the
// test's canonical set, leaving the test untouched. UNION adds the file
// as-is and lets the canonical schema grow. MAP applies the rename mapping
// first, then adds. The join settings recorded on the file govern how it
// merges later.
func ResolveAndAdd(t *model.Test, f *model.DataFile, strategy model.MismatchStrategy, mapping map[string]string) error {
	switch strategy {
	case model.MismatchStrict:
		diff := ComputeDiff(t.CanonicalHeaders, f.Headers, DefaultFuzzyThreshold)
		if len(t.CanonicalHeaders) > 0 && diff.HasDifferences() {
			return fmt.Errorf("headers of %s do not match test %q: %s", f.Filename, t.Name, diff.Summary())
		}
	case model.MismatchUnion:
	case model.MismatchMap:
		if err := ApplyHeaderMapping(f, mapping); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mismatch strategy %q", strategy)
	}
	t.AddDataFile(f)
	return nil
}

// AddWithJoin records join settings on a file and adds it to the test.
// This is the "add a headers file" flow: the new file's columns merge into
// the test's existing data under the given strategy.
func AddWithJoin(t *model.Test, f *model.DataFile, strategy model.JoinStrategy, key string, tolerance float64) error {
	if err := f.SetJoin(strategy, key, tolerance); err != nil {
		return err
	}
	t.AddDataFile(f)
	return nil
}
