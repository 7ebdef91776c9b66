package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/habitr/internal/habit"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Habits     []jsonHabit `json:"habits"`
}

type jsonHabit struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Frequency int     `json:"frequency_days"`
	Goal      int     `json:"goal"`
	Progress  int     `json:"progress"`
	Remaining int     `json:"remaining"`
	Streak    int     `json:"streak"`
	LastDone  *string `json:"last_done"`
}

func ToJSON(habits []habit.Habit, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(habits),
	}

	for _, h := range habits {
		var lastDone *string
		if h.LastDone != nil {
			s := h.LastDone.String()
			lastDone = &s
		}
		export.Habits = append(export.Habits, jsonHabit{
			ID:        h.ID,
			Name:      h.Name,
			Frequency: h.Frequency,
			Goal:      h.Goal,
			Progress:  h.Progress,
			Remaining: h.Remaining(),
			Streak:    h.Streak,
			LastDone:  lastDone,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
