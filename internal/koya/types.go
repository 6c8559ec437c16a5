package koya

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MessageResponse is the {message} body returned by upload and update-location
type MessageResponse struct {
	Message string `json:"message"`
}

// MatchID identifies a match result. The service sends numeric ids from its
// database model and string ids from the recognizer, so both are accepted.
type MatchID string

func (id *MatchID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal match id: %w", err)
		}
		*id = MatchID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unmarshal match id: %w", err)
	}
	*id = MatchID(n.String())
	return nil
}

// MatchResult is one candidate face-match record
type MatchResult struct {
	ID       MatchID `json:"id"`
	PhotoURL string  `json:"photoUrl"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
}

// entryRequest is the body of an append-entry request
type entryRequest struct {
	Entry string `json:"entry"`
}

// locationRequest is the canonical update-location body
type locationRequest struct {
	Location string `json:"location"`
}

// faceLocationRequest is the legacy update-location body
type faceLocationRequest struct {
	FaceID   string `json:"faceId"`
	Location string `json:"location"`
}
