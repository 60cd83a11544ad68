// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "github.com/altalias-project/altalias/lib/ref"

// PowerLevels is a typed representation of the Matrix m.room.power_levels
// state event content.
//
// Pointer-to-int fields distinguish "not set" (nil, omitted from JSON)
// from "explicitly set to 0" (pointer to 0). This matters for the
// fallback chain: a missing events entry falls back to StateDefault,
// and a missing StateDefault falls back to the Matrix spec default.
type PowerLevels struct {
	Users         map[string]int `json:"users,omitempty"`
	UsersDefault  *int           `json:"users_default,omitempty"`
	Events        map[string]int `json:"events,omitempty"`
	EventsDefault *int           `json:"events_default,omitempty"`
	StateDefault  *int           `json:"state_default,omitempty"`
	Invite        *int           `json:"invite,omitempty"`
	Ban           *int           `json:"ban,omitempty"`
	Kick          *int           `json:"kick,omitempty"`
	Redact        *int           `json:"redact,omitempty"`
}

// specStateDefault is the Matrix spec default required level for
// sending state events when state_default is absent.
const specStateDefault = 50

// UserLevel returns the power level for a Matrix user ID. If the user
// has an explicit entry in the Users map, that value is returned.
// Otherwise falls back to UsersDefault, then to 0 per the Matrix spec.
func (powerLevels *PowerLevels) UserLevel(userID ref.UserID) int {
	if powerLevels.Users != nil {
		if level, ok := powerLevels.Users[userID.String()]; ok {
			return level
		}
	}
	if powerLevels.UsersDefault != nil {
		return *powerLevels.UsersDefault
	}
	return 0
}

// StateEventLevel returns the power level required to send the given
// state event type: the explicit events map entry if present, otherwise
// state_default, otherwise 50 per the Matrix spec.
func (powerLevels *PowerLevels) StateEventLevel(eventType ref.EventType) int {
	if powerLevels.Events != nil {
		if level, ok := powerLevels.Events[eventType.String()]; ok {
			return level
		}
	}
	if powerLevels.StateDefault != nil {
		return *powerLevels.StateDefault
	}
	return specStateDefault
}

// CanSendStateEvent reports whether the user's power level meets the
// required level for the given state event type.
func (powerLevels *PowerLevels) CanSendStateEvent(userID ref.UserID, eventType ref.EventType) bool {
	return powerLevels.UserLevel(userID) >= powerLevels.StateEventLevel(eventType)
}
