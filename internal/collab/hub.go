package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/montagehq/montage/backend-go/internal/document"
)

// saveInterval is how often dirty room compositions are flushed to storage.
const saveInterval = 30 * time.Second

// LoaderFunc fetches the latest composition for a project.
type LoaderFunc func(projectID string) (*document.Composition, error)

// SaverFunc persists a composition snapshot for a project.
type SaverFunc func(projectID string, comp *document.Composition) error

type Room struct {
	projectID string
	clients   map[string]*Client // clientID -> client
	presence  *presenceTable
	state     *CompositionState
	dirty     bool
}

func NewRoom(projectID string, comp *document.Composition) *Room {
	return &Room{
		projectID: projectID,
		clients:   make(map[string]*Client),
		presence:  newPresenceTable(),
		state:     NewCompositionState(comp),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // projectID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopped    chan struct{}

	load LoaderFunc
	save SaverFunc
}

func NewHub(load LoaderFunc, save SaverFunc) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		load:       load,
		save:       save,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveDirtyRooms()
		case <-h.done:
			h.saveAllRooms()
			close(h.stopped)
			return
		}
	}
}

// Stop flushes every room's composition and shuts the hub down.
func (h *Hub) Stop() {
	close(h.done)
	<-h.stopped
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		comp, err := h.load(client.ProjectID)
		if err != nil {
			slog.Error("load composition", "error", err, "project", client.ProjectID)
			comp = document.NewEmptyComposition(client.ProjectID, "")
		}
		room = NewRoom(client.ProjectID, comp)
		h.rooms[client.ProjectID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Welcome with identity, then the authoritative document.
	welcomePayload, _ := json.Marshal(WelcomePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
	})
	client.Send(&Message{Type: TypeWelcome, Payload: welcomePayload})

	if doc, seq, err := room.state.MarshalComposition(); err == nil {
		syncPayload, _ := json.Marshal(DocSyncPayload{Document: doc, ServerSeq: seq})
		client.Send(&Message{Type: TypeDocSync, Seq: seq, Payload: syncPayload})
	} else {
		slog.Error("marshal composition for sync", "error", err, "project", client.ProjectID)
	}

	// Current presence state, then announce the join to everyone else.
	statePayload, err := json.Marshal(PresenceStatePayload{Presences: room.presence.Snapshot()})
	if err == nil {
		client.Send(&Message{Type: TypePresenceState, Payload: statePayload})
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.ProjectID, &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.out)
	room.presence.Drop(client.UserID)

	var flush *Room
	if len(room.clients) == 0 {
		delete(h.rooms, client.ProjectID)
		if room.dirty {
			flush = room
		}
	}
	h.mu.Unlock()

	if flush != nil {
		h.saveRoom(flush)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{UserID: client.UserID})
	h.broadcastToRoom(client.ProjectID, &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var payload OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		return
	}
	op := payload.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	seq, err := room.state.ApplyOperation(op)
	if err != nil {
		nackPayload, _ := json.Marshal(OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
		})
		sender.Send(&Message{Type: TypeOpNack, Payload: nackPayload})
		return
	}

	h.mu.Lock()
	room.dirty = true
	h.mu.Unlock()

	ackPayload, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: GetServerTimestamp(),
	})
	sender.Send(&Message{Type: TypeOpAck, Seq: seq, Payload: ackPayload})

	broadcastPayload, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: seq,
	})
	h.broadcastToRoom(sender.ProjectID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Seq:     seq,
		Payload: broadcastPayload,
	}, sender.ClientID)
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Set(sender.UserID, presence)

	outPayload, _ := json.Marshal(presence)
	h.broadcastToRoom(sender.ProjectID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

func (h *Hub) broadcastToRoom(projectID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[projectID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (h *Hub) saveDirtyRooms() {
	h.mu.Lock()
	dirty := make([]*Room, 0)
	for _, room := range h.rooms {
		if room.dirty {
			room.dirty = false
			dirty = append(dirty, room)
		}
	}
	h.mu.Unlock()

	for _, room := range dirty {
		h.saveRoom(room)
	}
}

func (h *Hub) saveAllRooms() {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		if room.dirty {
			room.dirty = false
			rooms = append(rooms, room)
		}
	}
	h.mu.Unlock()

	for _, room := range rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if err := h.save(room.projectID, room.state.Composition()); err != nil {
		slog.Error("save composition", "error", err, "project", room.projectID)
		h.mu.Lock()
		room.dirty = true
		h.mu.Unlock()
		return
	}
	slog.Info("composition saved", "project", room.projectID)
}
