package server

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/spacehunter/Star-Raiders-sub000/config"
	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// isValidOrigin checks if the origin is allowed to connect
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	// Allow same-origin connections
	if r.Host == originURL.Host {
		return true
	}

	// Allow localhost connections for development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

// Message types
const (
	MsgTypeInit       = "init"
	MsgTypeStatus     = "status"
	MsgTypeChart      = "chart"
	MsgTypeWarp       = "warp"
	MsgTypeDifficulty = "difficulty"
	MsgTypeFire       = "fire"
	MsgTypeTarget     = "target"
	MsgTypeUpdate     = "update"
	MsgTypeEvent      = "event"
	MsgTypeMessage    = "message"
	MsgTypeError      = "error"
)

// ClientMessage represents a message from an observer to the server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to observers
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client represents a connected observer
type Client struct {
	ID     int
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
}

// broadcastDivisor thins full-state observer frames to 15 Hz. Events and
// messages still go out the tick they happen.
const broadcastDivisor = 4

// Server owns the engine state and the observer connections.
type Server struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan ServerMessage
	done       chan struct{}
	stopOnce   sync.Once
	nextID     int

	gameState *game.GameState
	cfg       *config.Config
	stats     map[game.HostileKind]game.HostileStats
	profiles  map[game.DifficultyTier]*game.DifficultyProfile
	rng       *rand.Rand
	log       *slog.Logger
	missionID string

	flight       flightState
	siegeTimer   float64
	tickWriters  []TickWriter
	eventWriters []EventWriter

	// Tuning updates queued by the config watcher, applied at the next
	// tick boundary.
	pendingCfg chan *config.Config

	// Events recorded while the state lock is held, flushed to writers
	// and observers after release.
	pendingEvents []telemetry.EventRow
}

// NewServer builds an engine from mission tuning. The rng drives every
// random decision the engine makes, so equal seeds replay equal missions.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	tier, err := cfg.Tier()
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	gs := game.NewGameState(tier)
	gs.Grid = game.NewSectorGrid(cfg.Galaxy.Cols, cfg.Galaxy.Rows)

	s := &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, 256),
		done:       make(chan struct{}),
		gameState:  gs,
		cfg:        cfg,
		stats:      cfg.ShipStats(),
		profiles:   cfg.DifficultyProfiles(),
		rng:        rng,
		log:        logger,
		missionID:  uuid.NewString(),
		pendingCfg: make(chan *config.Config, 1),
	}
	s.gameState.Profile = s.profiles[tier]
	s.flight = newFlightState(cfg.Flight)

	game.PopulateGalaxy(gs, rng)
	s.enterSector(gs.Player.SectorX, gs.Player.SectorY)
	s.log.Info("mission initialized",
		"mission", s.missionID,
		"difficulty", tier.String(),
		"seed", seed,
		"units", gs.Grid.TotalHostiles(),
		"starbases", len(gs.Grid.Starbases()))
	return s, nil
}

// AddTickWriter registers a telemetry sink for per-tick rows.
func (s *Server) AddTickWriter(w TickWriter) {
	s.tickWriters = append(s.tickWriters, w)
}

// AddEventWriter registers a telemetry sink for discrete events.
func (s *Server) AddEventWriter(w EventWriter) {
	s.eventWriters = append(s.eventWriters, w)
}

// ApplyTuning queues a reloaded tuning file. Only the safe subset is
// applied: difficulty profiles, siege timing and the flight script.
// Ship stats stay frozen for the life of the mission.
func (s *Server) ApplyTuning(cfg *config.Config) {
	select {
	case s.pendingCfg <- cfg:
	default:
	}
}

// Run starts the engine and the observer event loop. It blocks until
// Stop is called.
func (s *Server) Run() {
	go s.gameLoop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			s.sendInitFrame(client)
			s.log.Info("observer connected", "client", client.ID)

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
			}
			s.mu.Unlock()
			s.log.Info("observer disconnected", "client", client.ID)

		case message := <-s.broadcast:
			s.mu.RLock()
			for _, client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full, drop this frame for the client
				}
			}
			s.mu.RUnlock()

		case <-s.done:
			s.mu.Lock()
			for _, client := range s.clients {
				close(client.send)
			}
			s.clients = make(map[int]*Client)
			s.mu.Unlock()
			return
		}
	}
}

// Stop shuts the engine down. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// gameLoop drives real-time simulation.
func (s *Server) gameLoop() {
	interval := time.Second / time.Duration(s.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := 1.0 / float64(s.cfg.TickRate)
	for {
		select {
		case <-ticker.C:
			s.step(dt)
			if s.gameState.Frame%broadcastDivisor == 0 {
				s.sendGameState()
			}
		case <-s.done:
			return
		}
	}
}

// RunHeadless advances the mission for the given number of simulated
// seconds without observers. A speed of 0 runs unpaced; otherwise wall
// time is scaled by the multiplier. Returns early when done closes or
// the mission ends.
func (s *Server) RunHeadless(done <-chan struct{}, simSeconds, speed float64) {
	dt := 1.0 / float64(s.cfg.TickRate)
	var pace *time.Ticker
	if speed > 0 {
		pace = time.NewTicker(time.Duration(float64(time.Second) / (float64(s.cfg.TickRate) * speed)))
		defer pace.Stop()
	}

	ticks := int(simSeconds * float64(s.cfg.TickRate))
	for i := 0; i < ticks; i++ {
		select {
		case <-done:
			return
		case <-s.done:
			return
		default:
		}
		if pace != nil {
			select {
			case <-pace.C:
			case <-done:
				return
			case <-s.done:
				return
			}
		}
		s.step(dt)

		s.gameState.Mu.RLock()
		over := s.gameState.Status != game.MissionActive
		s.gameState.Mu.RUnlock()
		if over {
			return
		}
	}
}

// step advances one tick and flushes telemetry outside the state lock.
func (s *Server) step(dt float64) {
	if dt > game.MaxTickDelta {
		dt = game.MaxTickDelta
	}
	s.updateGame(dt)

	row := s.collectTickRow()
	s.flushTelemetry(row)
}

// updateGame advances the simulation by dt seconds. Order matters: the
// player frame moves first so entity updates see this tick's target
// position, fire decisions run on post-move state, and displacement is
// folded into hostiles and live shots before collisions resolve.
func (s *Server) updateGame(dt float64) {
	s.gameState.Mu.Lock()
	defer s.gameState.Mu.Unlock()

	s.applyPendingTuning()

	gs := s.gameState
	gs.Frame++
	gs.Time += dt

	if gs.Status != game.MissionActive {
		return
	}

	s.advanceFlight(dt)
	s.ensureSectorPopulation()

	target := gs.Player.Pos
	for _, h := range gs.Hostiles {
		s.updateHostile(h, dt, target)
	}

	s.hostileFirePass(target)
	s.scriptedFire(dt)

	s.applyDisplacement()
	s.updateProjectiles(dt)
	s.gcHostiles()

	s.siegeTimer += dt
	if s.siegeTimer >= s.cfg.Siege.IntervalSec {
		s.siegeTimer -= s.cfg.Siege.IntervalSec
		s.runSiegeStep()
	}
	s.checkSiegeDestruction()

	s.updateAlertLevel()
	s.checkMissionEnd()
}

// applyPendingTuning drains the config watcher queue. Called under the
// state lock.
func (s *Server) applyPendingTuning() {
	select {
	case cfg := <-s.pendingCfg:
		s.profiles = cfg.DifficultyProfiles()
		s.gameState.Profile = s.profiles[s.gameState.Tier]
		s.cfg.Siege = cfg.Siege
		s.cfg.Flight = cfg.Flight
		s.flight.retune(cfg.Flight)
		s.log.Info("tuning reloaded", "difficulty", s.gameState.Tier.String())
		s.recordEvent(telemetry.EventRow{
			EventType: telemetry.EventAlert,
			Detail:    "tuning reloaded",
		})
	default:
	}
}

// sendInitFrame hands a fresh observer the mission context: identity,
// tuning summary and a full chart snapshot. Event messages and throttled
// state frames follow through the broadcast fan-out.
func (s *Server) sendInitFrame(c *Client) {
	s.gameState.Mu.RLock()

	gs := s.gameState
	cells := make([]game.SectorCell, len(gs.Grid.Cells))
	copy(cells, gs.Grid.Cells)
	snapshot := struct {
		Mission    string             `json:"mission"`
		Difficulty string             `json:"difficulty"`
		TickRate   int                `json:"tickRate"`
		Siege      config.SiegeConfig `json:"siege"`
		Cols       int                `json:"cols"`
		Rows       int                `json:"rows"`
		Cells      []game.SectorCell  `json:"cells"`
		SectorX    int                `json:"sectorX"`
		SectorY    int                `json:"sectorY"`
		Frame      int64              `json:"frame"`
		Time       float64            `json:"time"`
		Status     string             `json:"status"`
	}{
		Mission:    s.missionID,
		Difficulty: gs.Tier.String(),
		TickRate:   s.cfg.TickRate,
		Siege:      s.cfg.Siege,
		Cols:       gs.Grid.Cols,
		Rows:       gs.Grid.Rows,
		Cells:      cells,
		SectorX:    gs.Player.SectorX,
		SectorY:    gs.Player.SectorY,
		Frame:      gs.Frame,
		Time:       gs.Time,
		Status:     gs.Status.String(),
	}

	s.gameState.Mu.RUnlock()

	c.sendMsg(ServerMessage{Type: MsgTypeInit, Data: snapshot})
}

// sendGameState broadcasts the observable state to all observers.
func (s *Server) sendGameState() {
	s.gameState.Mu.RLock()

	gs := s.gameState
	update := struct {
		Frame     int64              `json:"frame"`
		Time      float64            `json:"time"`
		Player    game.PlayerState   `json:"player"`
		Hostiles  []*game.Hostile    `json:"hostiles"`
		Shots     []*game.Projectile `json:"shots"`
		Alert     string             `json:"alert"`
		Status    string             `json:"status"`
		Score     int                `json:"score"`
		TargetIdx int                `json:"targetIdx"`
		Siege     game.SiegeState    `json:"siege"`
	}{
		Frame:     gs.Frame,
		Time:      gs.Time,
		Player:    gs.Player,
		Hostiles:  gs.Hostiles,
		Shots:     gs.Shots,
		Alert:     gs.Alert.String(),
		Status:    gs.Status.String(),
		Score:     gs.Score,
		TargetIdx: gs.TargetIdx,
		Siege:     gs.Siege,
	}

	s.gameState.Mu.RUnlock()

	s.broadcast <- ServerMessage{
		Type: MsgTypeUpdate,
		Data: update,
	}
}

// HandleStatus returns a mission summary over plain HTTP.
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	s.gameState.Mu.RLock()
	defer s.gameState.Mu.RUnlock()

	gs := s.gameState
	response := map[string]interface{}{
		"mission":    s.missionID,
		"difficulty": gs.Tier.String(),
		"frame":      gs.Frame,
		"time":       gs.Time,
		"status":     gs.Status.String(),
		"alert":      gs.Alert.String(),
		"score":      gs.Score,
		"units":      gs.Grid.TotalHostiles(),
		"starbases":  len(gs.Grid.Starbases()),
		"sector":     map[string]int{"x": gs.Player.SectorX, "y": gs.Player.SectorY},
	}

	json.NewEncoder(w).Encode(response)
}

// HandleWebSocket upgrades an observer connection.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	clientID := s.nextID
	s.nextID++
	s.mu.Unlock()

	client := &Client{
		ID:     clientID,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the observer
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Warn("websocket read failed", "client", c.ID, "error", err)
			}
			break
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the observer
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes a message from an observer
func (c *Client) handleMessage(msg ClientMessage) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			c.server.log.Error("panic in message handler", "client", c.ID, "type", msg.Type, "panic", r)
		}
	}()

	switch msg.Type {
	case MsgTypeStatus:
		c.handleStatusRequest(msg.Data)
	case MsgTypeChart:
		c.handleChartRequest(msg.Data)
	case MsgTypeWarp:
		c.handleWarp(msg.Data)
	case MsgTypeDifficulty:
		c.handleDifficulty(msg.Data)
	case MsgTypeFire:
		c.handleFire(msg.Data)
	case MsgTypeTarget:
		c.handleTarget(msg.Data)
	default:
		c.sendMsg(ServerMessage{
			Type: MsgTypeError,
			Data: map[string]interface{}{"text": "unknown message type: " + msg.Type},
		})
	}
}

// sendMsg queues a message for this observer only.
func (c *Client) sendMsg(msg ServerMessage) {
	select {
	case c.send <- msg:
	default:
	}
}
