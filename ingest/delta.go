package ingest

import (
	"context"

	"github.com/fwojciec/docpipe"
)

// applyDelta reconciles parsed sections against the stored section set for
// one documentation. Checksum-equal sections are left untouched, changed
// sections are updated in place (the row ID survives), new paths are
// created, and stored paths absent from the parse are deleted. Two pages can
// parse to the same path (a split chunk of one page and the root of another);
// the repeated path lands on the row written earlier in the run, so the last
// occurrence wins and the unique path constraint never trips. A second pass
// re-links parent IDs by parent path; a missing parent leaves the section an
// orphan root rather than failing the run.
//
// The returned IDs cover only created or updated sections, so callers embed
// exactly what changed.
func applyDelta(ctx context.Context, sections docpipe.SectionService, documentationID string, parsed []docpipe.ParsedSection) ([]string, error) {
	existing, err := sections.FindSections(ctx, docpipe.SectionFilter{DocumentationID: &documentationID})
	if err != nil {
		return nil, err
	}

	existingByPath := make(map[string]*docpipe.Section, len(existing))
	for _, section := range existing {
		existingByPath[section.Path] = section
	}

	var changedIDs []string
	changed := make(map[string]bool)
	idByPath := make(map[string]string, len(parsed))
	parentPaths := make(map[string]string, len(parsed))
	// Rows written or matched this run, so a repeated path takes the update
	// branch instead of a conflicting create.
	writtenByPath := make(map[string]*docpipe.Section, len(parsed))

	for _, p := range parsed {
		parentPaths[p.Path] = p.ParentPath

		current, ok := writtenByPath[p.Path]
		if !ok {
			current, ok = existingByPath[p.Path]
		}
		if ok && current.Checksum == p.Checksum {
			idByPath[p.Path] = current.ID
			writtenByPath[p.Path] = current
			continue
		}

		if ok {
			updated, err := sections.UpdateSection(ctx, current.ID, docpipe.SectionUpdate{
				Title:      &p.Title,
				Summary:    &p.Summary,
				Content:    &p.Content,
				Level:      &p.Level,
				URL:        &p.URL,
				TokenCount: &p.TokenCount,
				Checksum:   &p.Checksum,
			})
			if err != nil {
				return nil, err
			}
			idByPath[p.Path] = updated.ID
			writtenByPath[p.Path] = updated
			if !changed[updated.ID] {
				changed[updated.ID] = true
				changedIDs = append(changedIDs, updated.ID)
			}
			continue
		}

		section := &docpipe.Section{
			DocumentationID: documentationID,
			Path:            p.Path,
			Title:           p.Title,
			Summary:         p.Summary,
			Content:         p.Content,
			Level:           p.Level,
			URL:             p.URL,
			TokenCount:      p.TokenCount,
			Checksum:        p.Checksum,
		}
		if err := sections.CreateSection(ctx, section); err != nil {
			return nil, err
		}
		idByPath[p.Path] = section.ID
		writtenByPath[p.Path] = section
		changed[section.ID] = true
		changedIDs = append(changedIDs, section.ID)
	}

	// Stale paths: stored sections the parse no longer produces.
	for path, section := range existingByPath {
		if _, ok := parentPaths[path]; ok {
			continue
		}
		if err := sections.DeleteSection(ctx, section.ID); err != nil {
			return nil, err
		}
	}

	// Second pass: resolve parent links by path now that every surviving
	// section has an ID.
	for path, parentPath := range parentPaths {
		var desired *string
		if parentPath != "" {
			if parentID, ok := idByPath[parentPath]; ok {
				desired = &parentID
			}
		}

		current := currentParentID(existingByPath, path)
		if parentIDEqual(current, desired) {
			continue
		}
		if err := sections.SetSectionParent(ctx, idByPath[path], desired); err != nil {
			return nil, err
		}
	}

	return changedIDs, nil
}

// currentParentID returns the stored parent ID for a path, nil for sections
// created this run.
func currentParentID(existingByPath map[string]*docpipe.Section, path string) *string {
	if section, ok := existingByPath[path]; ok {
		return section.ParentID
	}
	return nil
}

func parentIDEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
