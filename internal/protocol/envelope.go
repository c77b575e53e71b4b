package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrProtocol marks malformed envelopes: wrong shape or missing fields.
var ErrProtocol = errors.New("protocol error")

// Well-known senders.
const (
	SenderLobby    = "lobby"
	SenderFrontend = "frontend"
)

// Player -> host headers.
const (
	HeaderConnection = "connection"
	HeaderCardPlay   = "card_play"
	HeaderTurnEnd    = "turn_end"
	HeaderAllStacks  = "all_stacks"
)

// Host -> player headers.
const (
	HeaderAttempt     = "attempt"
	HeaderHandState   = "hand_state"
	HeaderStacksState = "stacks_state"
	HeaderOthersState = "others_state"
	HeaderTurnState   = "turn_state"
)

// Envelope is the canonical protocol message. Both accepted wire dialects
// parse into it; nothing past the parse boundary branches on dialect.
type Envelope struct {
	Sender    string         `json:"sender"`
	Header    string         `json:"header"`
	Data      map[string]any `json:"data"`
	RequestID string         `json:"request_id,omitempty"`
}

// Build constructs an envelope. Data may be nil.
func Build(sender, header string, data map[string]any, requestID string) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{Sender: sender, Header: header, Data: data, RequestID: requestID}
}

// BuildAttempt is the host's result envelope for one player action.
func BuildAttempt(status bool, message, requestID string) Envelope {
	return Build(SenderLobby, HeaderAttempt, map[string]any{"status": status, "message": message}, requestID)
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Parse accepts the structured dialect {sender, header, data, request_id?}
// and the legacy flat dialect {action, ...}. Legacy end-turn synonyms map to
// a turn_end envelope; any other legacy action becomes a card_play envelope
// carrying the original object as data.
func Parse(raw []byte) (Envelope, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Envelope{}, fmt.Errorf("%w: payload must be a JSON object: %v", ErrProtocol, err)
	}

	if _, structured := payload["header"]; structured {
		return parseStructured(payload)
	}
	return parseLegacy(payload)
}

func parseStructured(payload map[string]any) (Envelope, error) {
	sender, ok := payload["sender"].(string)
	if !ok || sender == "" {
		return Envelope{}, fmt.Errorf("%w: missing/invalid 'sender'", ErrProtocol)
	}
	header, ok := payload["header"].(string)
	if !ok || header == "" {
		return Envelope{}, fmt.Errorf("%w: missing/invalid 'header'", ErrProtocol)
	}

	data := map[string]any{}
	if raw, present := payload["data"]; present && raw != nil {
		data, ok = raw.(map[string]any)
		if !ok {
			return Envelope{}, fmt.Errorf("%w: 'data' must be a JSON object", ErrProtocol)
		}
	}

	requestID := ""
	if raw, present := payload["request_id"]; present && raw != nil {
		requestID, ok = raw.(string)
		if !ok {
			return Envelope{}, fmt.Errorf("%w: 'request_id' must be a string", ErrProtocol)
		}
	}

	return Envelope{Sender: sender, Header: header, Data: data, RequestID: requestID}, nil
}

func parseLegacy(payload map[string]any) (Envelope, error) {
	action, ok := payload["action"].(string)
	if !ok || action == "" {
		return Envelope{}, fmt.Errorf("%w: missing/invalid 'action' (legacy) or 'header' (structured)", ErrProtocol)
	}

	if action == "end_turn" || action == "turn_end" {
		return Build(SenderFrontend, HeaderTurnEnd, map[string]any{"action": "end_turn"}, ""), nil
	}
	return Build(SenderFrontend, HeaderCardPlay, payload, ""), nil
}
