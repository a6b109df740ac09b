package task

import "github.com/Kilerd/todoki/internal/models"

// Sentinel transition values for todo tasks.
const (
	markDone = "done"
	markOpen = "open"
)

// Outcome is the computed result of a transition: the task fields to
// persist and the events to append with them, in order.
type Outcome struct {
	Status       string
	CurrentState string
	Done         bool
	Events       []models.TaskEvent
}

// Transition decides what moving t to target means, without touching the
// store. Unrecognized targets fail with an invalid-states error and no
// outcome. Re-selecting the current status or state is legal and emits
// again.
func Transition(t *models.Task, target string) (*Outcome, error) {
	switch t.Workflow {
	case models.WorkflowBoard:
		return boardTransition(t, target)
	case models.WorkflowStateful:
		return statefulTransition(t, target)
	default:
		return todoTransition(t, target)
	}
}

// boardTransition moves a board task to any of the five statuses. The
// status order is not enforced; a task may move backwards freely.
func boardTransition(t *models.Task, target string) (*Outcome, error) {
	if !models.KnownStatus(target) {
		return nil, invalidf("unknown status: %q", target)
	}
	return &Outcome{
		Status: target,
		Done:   target == models.StatusDone,
		Events: []models.TaskEvent{{
			TaskID:    t.ID,
			Kind:      models.EventStatusChanged,
			State:     target,
			FromState: t.Status,
		}},
	}, nil
}

// todoTransition accepts only the two sentinels marking a todo task done
// or open again.
func todoTransition(t *models.Task, target string) (*Outcome, error) {
	switch target {
	case markDone:
		return &Outcome{
			Status: deriveStatus(models.WorkflowTodo, true),
			Done:   true,
			Events: []models.TaskEvent{{TaskID: t.ID, Kind: models.EventDone}},
		}, nil
	case markOpen:
		return &Outcome{
			Status: deriveStatus(models.WorkflowTodo, false),
			Done:   false,
			Events: []models.TaskEvent{{TaskID: t.ID, Kind: models.EventOpen}},
		}, nil
	default:
		return nil, invalidf("unknown status: %q (want %q or %q)", target, markDone, markOpen)
	}
}

// statefulTransition matches target against the task's state list,
// case-sensitive. The task is done iff the matched entry sits at the
// last index; the entry's name is irrelevant, so a mid-list state called
// "done" does not close the task. Closing appends a synthetic done event
// after the state change.
func statefulTransition(t *models.Task, target string) (*Outcome, error) {
	pos := stateIndex(t.States, target)
	if pos < 0 {
		return nil, invalidf("no such state: %q", target)
	}

	done := pos == len(t.States)-1
	out := &Outcome{
		Status:       deriveStatus(models.WorkflowStateful, done),
		CurrentState: target,
		Done:         done,
		Events: []models.TaskEvent{{
			TaskID:    t.ID,
			Kind:      models.EventStateChanged,
			State:     target,
			FromState: t.CurrentState,
		}},
	}
	if done {
		out.Events = append(out.Events, models.TaskEvent{TaskID: t.ID, Kind: models.EventDone})
	}
	return out, nil
}

// resolveWorkflow normalizes a requested workflow kind against the
// presence of a custom state list. Within the non-board shape the kind
// follows the list: states present means stateful, absent means todo.
func resolveWorkflow(workflow string, states []string) (string, error) {
	switch workflow {
	case models.WorkflowBoard:
		if len(states) > 0 {
			return "", invalidf("custom states require a stateful task")
		}
		return models.WorkflowBoard, nil
	case "", models.WorkflowTodo, models.WorkflowStateful:
		if len(states) > 0 {
			if distinctStates(states) < 2 {
				return "", invalidf("stateful task requires at least 2 distinct states")
			}
			return models.WorkflowStateful, nil
		}
		if workflow == models.WorkflowStateful {
			return "", invalidf("stateful task requires at least 2 distinct states")
		}
		return models.WorkflowTodo, nil
	default:
		return "", invalidf("unknown workflow: %q", workflow)
	}
}

// deriveStatus maps a non-board task onto the status buckets used by the
// board listings. Board tasks carry their status directly.
func deriveStatus(workflow string, done bool) string {
	if done {
		return models.StatusDone
	}
	if workflow == models.WorkflowStateful {
		return models.StatusInProgress
	}
	return models.StatusTodo
}

// deriveCurrentState keeps the previous current state when the new list
// still contains it and falls back to the list's first entry otherwise.
func deriveCurrentState(current string, states []string) string {
	if stateIndex(states, current) >= 0 {
		return current
	}
	return states[0]
}

// stateIndex returns the first occurrence of state in states, or -1.
func stateIndex(states []string, state string) int {
	for i, s := range states {
		if s == state {
			return i
		}
	}
	return -1
}

// distinctStates counts unique entries in a state list.
func distinctStates(states []string) int {
	seen := make(map[string]struct{}, len(states))
	for _, s := range states {
		seen[s] = struct{}{}
	}
	return len(seen)
}
