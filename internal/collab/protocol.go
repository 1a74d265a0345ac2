package collab

import "encoding/json"

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   string     `json:"selection,omitempty"` // selected layer id, "" = none
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

// WelcomePayload is sent once after a client connects.
type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

// DocSyncPayload carries the authoritative composition on join.
type DocSyncPayload struct {
	Document  json.RawMessage `json:"document"`
	ServerSeq int64           `json:"serverSeq"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// --- Operation types ---

const (
	OpLayerTransform = "layer.transform"
	OpLayerCrop      = "layer.crop"
	OpLayerCreate    = "layer.create"
	OpLayerDelete    = "layer.delete"
	OpLayerReorder   = "layer.reorder"
	OpLayerMirror    = "layer.mirror"
	OpLayerStyle     = "layer.style"
	OpLayerSource    = "layer.source"
	OpBackgroundSet  = "composition.background"
	OpProjectRename  = "project.rename"
)

// Operation represents a composition mutation submitted by a client.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	LayerID string `json:"layerId,omitempty"`

	// For layer.transform: any of x, y, width, height, rotation.
	Transform json.RawMessage `json:"transform,omitempty"`
	Previous  json.RawMessage `json:"previous,omitempty"`

	// For layer.crop: {top, bottom, left, right}.
	Crop json.RawMessage `json:"crop,omitempty"`

	// For layer.create: the full layer object (z is reassigned server-side).
	Layer json.RawMessage `json:"layer,omitempty"`

	// For layer.reorder: visual list indices (top-most z first).
	VisualFrom *int `json:"visualFrom,omitempty"`
	VisualTo   *int `json:"visualTo,omitempty"`

	// For layer.mirror / layer.source.
	Mirrored      *bool  `json:"mirrored,omitempty"`
	ShowCutout    *bool  `json:"showCutout,omitempty"`
	CutoutAssetID string `json:"cutoutAssetId,omitempty"`

	// For layer.style.
	StyleName *string `json:"styleName,omitempty"`

	// For composition.background: {assetId, width, height}.
	Background json.RawMessage `json:"background,omitempty"`

	// For project.rename.
	Name         string `json:"name,omitempty"`
	PreviousName string `json:"previousName,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages.
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages.
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages.
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages.
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}
