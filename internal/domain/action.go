package domain

import "fmt"

// Action is an appointment lifecycle event to propagate to external calendars.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
)

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction converts a wire name into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "create":
		return ActionCreate, nil
	case "update":
		return ActionUpdate, nil
	case "delete":
		return ActionDelete, nil
	default:
		return 0, fmt.Errorf("unknown sync action %q", s)
	}
}
