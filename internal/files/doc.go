// Package files writes generated workbooks to disk for the command-line tool.
//
// Relative paths resolve under the reports directory. Writes go through a
// temporary file in the target directory followed by a rename, so a crash
// never leaves a half-written month workbook behind. Before a workbook is
// overwritten in place a timestamped backup is kept next to it.
//
//	manager := files.NewManager(paths, logger)
//	if _, err := manager.Backup("五月.xlsx"); err != nil { ... }
//	written, err := manager.WriteFile("五月.xlsx", content)
package files
