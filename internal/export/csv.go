package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/habitr/internal/habit"
)

var csvHeader = []string{"ID", "Name", "Frequency (days)", "Goal", "Progress", "Remaining", "Streak", "Last Done"}

func ToCSV(habits []habit.Habit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, h := range habits {
		lastDone := ""
		if h.LastDone != nil {
			lastDone = h.LastDone.String()
		}
		row := []string{
			strconv.FormatInt(h.ID, 10),
			h.Name,
			strconv.Itoa(h.Frequency),
			strconv.Itoa(h.Goal),
			strconv.Itoa(h.Progress),
			strconv.Itoa(h.Remaining()),
			strconv.Itoa(h.Streak),
			lastDone,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
