package shell

import (
	"strconv"
	"strings"
)

// Command is a main-menu entry.
type Command int

const (
	CmdAdd Command = iota + 1
	CmdView
	CmdMarkDone
	CmdEdit
	CmdRemove
	CmdExit
)

var commandLabels = map[Command]string{
	CmdAdd:      "Add new habit",
	CmdView:     "View habits",
	CmdMarkDone: "Mark done",
	CmdEdit:     "Edit habit",
	CmdRemove:   "Remove habit",
	CmdExit:     "Exit",
}

func (c Command) String() string {
	return commandLabels[c]
}

// ParseCommand maps a menu choice such as "3" to its command.
func ParseCommand(s string) (Command, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	c := Command(n)
	if _, ok := commandLabels[c]; !ok {
		return 0, false
	}
	return c, true
}

type editChoice int

const (
	editName editChoice = iota + 1
	editFrequency
	editGoal
	editSave
	editDiscard
)
