// Package logtail reads the last lines of the stickerpicker log file.
//
// The TUI owns the terminal, so the program logs to a file instead of stderr
// and the log overlay shows its tail. Read seeks backwards from the end of
// the file in fixed blocks, so the cost depends on the number of lines
// requested rather than the size of the file:
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//	if err != nil {
//		log.Printf("[ui] read log: %v", err)
//	}
//
// A missing file is not an error; it simply has no lines yet.
package logtail
