package cmd

import (
	"fmt"
	"strconv"

	"github.com/josephgoksu/tasksage/internal/task"
)

// findTask returns the task with the given id argument.
func findTask(tasks []task.Task, idArg string) (task.Task, error) {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		return task.Task{}, fmt.Errorf("task id must be a number, got %q", idArg)
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return task.Task{}, fmt.Errorf("task %d not found", id)
}
