package api

import (
	"encoding/json"

	"etymap/internal/store"
	"etymap/internal/timeline"
)

// FromSnapshot converts a timeline snapshot to its wire form.
func FromSnapshot(snap timeline.Snapshot) PlaybackStatus {
	status := PlaybackStatus{
		State:   string(snap.State),
		Index:   snap.Index,
		Playing: snap.Playing,
		Speed:   string(snap.Speed),
		Steps:   snap.Steps,
	}
	if snap.State != timeline.StateIdle {
		year := snap.Year
		status.Year = &year
	}
	return status
}

// FromSavedWord converts a stored collection entry to its wire form.
func FromSavedWord(saved *store.SavedWord) CollectionItem {
	item := CollectionItem{
		ID:        saved.ID,
		Word:      saved.Word,
		CreatedAt: saved.CreatedAt,
	}
	if saved.RecordJSON != "" {
		item.Record = json.RawMessage(saved.RecordJSON)
	}
	return item
}

// FromGroup converts a stored group to its wire form.
func FromGroup(group *store.Group) GroupPayload {
	return GroupPayload{
		ID:        group.ID,
		Name:      group.Name,
		JoinCode:  group.JoinCode,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
	}
}

// FromMessage converts a stored chat message to its wire form.
func FromMessage(msg *store.Message) MessagePayload {
	payload := MessagePayload{
		ID:           msg.ID,
		GroupID:      msg.GroupID,
		UserID:       msg.UserID,
		Content:      msg.Content,
		IsSharedWord: msg.IsSharedWord,
		CreatedAt:    msg.CreatedAt,
	}
	if msg.WordJSON != "" {
		payload.Word = json.RawMessage(msg.WordJSON)
	}
	return payload
}
