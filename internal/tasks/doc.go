// Package tasks implements the todo list shown beside the session timer.
//
// Tasks are identified by position only. Deleting a task shifts every later task down by one,
// so an index is only meaningful against the list as it is right now.
package tasks
