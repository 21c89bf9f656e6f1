package event

import (
	"encoding/json"
	"errors"
)

type Type string

const (
	TypeTask     Type = "task"
	TypeAssignee Type = "assignee"
	TypeComment  Type = "comment"
	TypeDevice   Type = "device"
)

type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionAssignee Action = "assignee"
	ActionComment  Action = "comment"
)

// Event is the queued message between the request path and the notification
// pipeline. It exists only on the wire: delivery is at-least-once and there
// is no dedup key, so consumers must tolerate duplicates.
type Event struct {
	Type   Type   `json:"type"`
	ID     int64  `json:"id,omitempty"`
	Action Action `json:"action,omitempty"`
	Count  int    `json:"count,omitempty"`
}

var ErrInvalidEvent = errors.New("notify: invalid event")

func (e Event) Encode() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func Decode(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, err
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (e Event) Validate() error {
	switch e.Type {
	case TypeTask, TypeAssignee:
		if e.ID <= 0 {
			return ErrInvalidEvent
		}
		switch e.Action {
		case ActionCreate, ActionUpdate, ActionAssignee:
			return nil
		}
		return ErrInvalidEvent
	case TypeComment:
		if e.ID <= 0 {
			return ErrInvalidEvent
		}
		return nil
	case TypeDevice:
		if e.Count <= 0 {
			return ErrInvalidEvent
		}
		return nil
	}
	return ErrInvalidEvent
}
