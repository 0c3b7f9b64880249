package tasks

import (
	"strings"

	"github.com/desertthunder/pomo/internal/models"
)

// List is an ordered, in-memory task list. The zero value is empty and ready to use.
//
// A List is not safe for concurrent use; it belongs to the UI goroutine.
type List struct {
	items []models.Task
}

// Add appends an incomplete task and reports whether it did. Text that is blank after trimming
// is ignored; otherwise the text is stored as given.
func (l *List) Add(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	l.items = append(l.items, models.Task{Text: text})
	return true
}

// Toggle flips the completion flag of the task at index. Out-of-range indices are ignored.
func (l *List) Toggle(index int) bool {
	if !l.inRange(index) {
		return false
	}
	l.items[index].Completed = !l.items[index].Completed
	return true
}

// Delete removes the task at index. Out-of-range indices are ignored.
func (l *List) Delete(index int) bool {
	if !l.inRange(index) {
		return false
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return true
}

// Get returns the task at index.
func (l *List) Get(index int) (models.Task, bool) {
	if !l.inRange(index) {
		return models.Task{}, false
	}
	return l.items[index], true
}

// All returns a copy of the tasks in display order.
func (l *List) All() []models.Task {
	return append([]models.Task(nil), l.items...)
}

func (l *List) Len() int {
	return len(l.items)
}

// Remaining counts incomplete tasks.
func (l *List) Remaining() int {
	n := 0
	for _, task := range l.items {
		if !task.Completed {
			n++
		}
	}
	return n
}

func (l *List) inRange(index int) bool {
	return index >= 0 && index < len(l.items)
}
