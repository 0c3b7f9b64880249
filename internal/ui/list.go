package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pomo/internal/models"
)

var (
	_ list.Item         = taskItem{}
	_ list.ItemDelegate = taskDelegate{}
)

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Text }

func taskItems(tasks []models.Task) []list.Item {
	items := make([]list.Item, len(tasks))
	for i, task := range tasks {
		items[i] = taskItem{task: task}
	}
	return items
}

// taskDelegate renders one checkbox line per task.
type taskDelegate struct {
	focused *bool
}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}

	box := "[ ]"
	text := ti.task.Text
	if ti.task.Completed {
		box = "[x]"
		text = styles.done.Render(text)
	}

	cursor := "  "
	if index == m.Index() && d.focused != nil && *d.focused {
		cursor = styles.cursor.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", cursor, box, text)
}
