// Package operations drives one grouped summary run over a folder tree.
//
// The Walker lists a folder, recurses into every subfolder first and then
// looks at the folder's own files. A folder holding the free recall, cued
// recall and recognition exports of one participant is a processing unit:
//
//   - all three present and no summary workbook yet: the workbook is built
//     and created in the folder (written)
//   - a summary workbook already present: skipped (exists), or replaced when
//     overwrite is on (updated)
//   - only some of the exports present: skipped with a warning (incomplete)
//   - dry run: the workbook is built but never uploaded (dry_run)
//
// The Summarizer does the per-unit work independent of any store, so the
// same code serves the walker and single-unit local runs:
//
//	summarizer := operations.NewSummarizer(parser, categories)
//	out, err := summarizer.Summarize(func(role files.Role) (io.ReadCloser, error) {
//		return os.Open(paths[role])
//	})
//
// The first storage, authentication or parsing error aborts the walk. The
// Report returned by Run still lists every unit finished before it.
package operations
