package store

import (
	"database/sql"
	"log/slog"

	"github.com/sadopc/habitr/internal/habit"
)

// parseLastDone reads a stored last_done value. Unparsable text is treated
// as never done.
func parseLastDone(logger *slog.Logger, name string, v sql.NullString) *habit.Date {
	if !v.Valid || v.String == "" {
		return nil
	}
	d, err := habit.ParseDate(v.String)
	if err != nil {
		logger.Warn("ignoring stored last_done", "habit", name, "err", err)
		return nil
	}
	return &d
}

func formatLastDone(d *habit.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func sqlNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
