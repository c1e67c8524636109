package tui

import "go.withmatt.com/paperdrop/internal/log"

func (m *Model) logf(format string, args ...any) {
	log.Printf(format, args...)
}
