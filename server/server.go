package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/townserver/broadcast"
	"github.com/wfunc/townserver/logger"
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/monitor"
	"github.com/wfunc/townserver/network"
	"github.com/wfunc/townserver/persistence"
	townserver_rpc "github.com/wfunc/townserver/rpc"
	"github.com/wfunc/townserver/services"
	"github.com/wfunc/townserver/session"
	"github.com/wfunc/townserver/timer"
	"github.com/wfunc/townserver/town"
	"github.com/wfunc/townserver/video"
)

const idleTimeout = 5 * time.Minute

type TownServer struct {
	addr           string
	upgrader       websocket.Upgrader
	townManager    *town.Manager
	sessionManager *session.Manager
	townService    *services.TownService
	broadcaster    broadcast.Broadcaster
	rpcServer      *townserver_rpc.Server
	monitor        *monitor.Monitor
	timers         *timer.Manager
	defaultMap     []models.MapObject
	shutdownChan   chan struct{}
}

type Options struct {
	HTTPAddress    string
	RPCAddress     string
	MetricsAddress string
	TokenSecret    string
	TokenTTL       time.Duration
	TownCapacity   int
	MapFile        string
}

func NewTownServer(opts Options, db persistence.Database) (*TownServer, error) {
	tokens, err := video.NewJWTProvider(opts.TokenSecret, opts.TokenTTL)
	if err != nil {
		return nil, err
	}

	mapObjects, err := LoadMapObjects(opts.MapFile)
	if err != nil {
		return nil, err
	}

	s := &TownServer{
		addr:           opts.HTTPAddress,
		sessionManager: session.NewManager(),
		monitor:        monitor.NewMonitor("townserver"),
		timers:         timer.NewManager(),
		defaultMap:     mapObjects,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器和城镇管理器
	s.broadcaster = broadcast.NewTownBroadcaster(s.sessionManager)
	s.townManager = town.NewManager(s.broadcaster, tokens, opts.TownCapacity)
	s.townService = services.NewTownService(db, s.townManager)
	s.townManager.SetRecorder(s.townService)

	// 初始化RPC服务器
	rpcServer, err := townserver_rpc.NewServer(opts.RPCAddress)
	if err != nil {
		return nil, err
	}
	s.rpcServer = rpcServer
	rpc.Register(townserver_rpc.NewDirectoryService(s.townManager, s.townService))

	s.monitor.StartServer(opts.MetricsAddress)

	// 周期任务：清理空闲会话、刷新活跃城镇指标
	s.timers.Schedule(30*time.Second, 30*time.Second, s.sweepIdleSessions)
	s.timers.Schedule(10*time.Second, 10*time.Second, func() {
		s.monitor.SetActiveTowns(s.townManager.Count())
	})

	return s, nil
}

func (s *TownServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Town server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *TownServer) Shutdown() {
	close(s.shutdownChan)
	for _, t := range s.townManager.Towns() {
		s.townManager.RemoveTown(t.ID)
	}
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *TownServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *TownServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncConnectedPlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.disconnectSession(sess)
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecConnectedPlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			sess.Touch()
			s.handlePacket(sess, packet)
		}
	}
}

// disconnectSession 把会话对应的玩家从其城镇移除
func (s *TownServer) disconnectSession(sess *session.Session) {
	if sess.TownID == "" {
		return
	}
	t, exists := s.townManager.GetTown(sess.TownID)
	if !exists {
		return
	}
	if p, ok := t.Player(sess.PlayerID); ok {
		t.RemovePlayer(p)
	}
}

func (s *TownServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		// Touch 已在读循环完成
	case network.MsgTypeListTowns:
		s.handleListTowns(sess)
	case network.MsgTypeCreateTown:
		s.handleCreateTown(sess, packet)
	case network.MsgTypeJoinTown:
		s.handleJoinTown(sess, packet)
	case network.MsgTypeMovement:
		s.handleMovement(sess, packet)
	case network.MsgTypeChatMessage:
		s.handleChatMessage(sess, packet)
	case network.MsgTypeInteractableCommand:
		s.handleInteractableCommand(sess, packet)
	case network.MsgTypeInteractableUpdate:
		s.handleInteractableUpdate(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *TownServer) handleListTowns(sess *session.Session) {
	sess.SendJSON(network.MsgTypeTownList, map[string]interface{}{
		"towns": s.townService.ListPublicTowns(),
	})
}

type createTownRequest struct {
	FriendlyName     string `json:"friendlyName"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
}

func (s *TownServer) handleCreateTown(sess *session.Session, packet *network.Packet) {
	var req createTownRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "malformed createTown request")
		return
	}
	if req.FriendlyName == "" {
		s.sendError(sess, "friendlyName must be specified")
		return
	}

	t, err := s.townService.CreateTown(req.FriendlyName, req.IsPubliclyListed, s.defaultMap)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}

	logger.Log.Infof("Session %s created town %s (%s)", sess.GetID(), t.ID, t.FriendlyName)
	sess.SendJSON(network.MsgTypeTownCreated, map[string]string{
		"townID":             t.ID,
		"townUpdatePassword": t.UpdatePassword,
	})
}

type joinTownRequest struct {
	UserName string `json:"userName"`
	TownID   string `json:"townID"`
}

func (s *TownServer) handleJoinTown(sess *session.Session, packet *network.Packet) {
	var req joinTownRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "malformed joinTown request")
		return
	}
	if req.UserName == "" || sess.TownID != "" {
		s.sendError(sess, "invalid join request")
		return
	}

	t, exists := s.townManager.GetTown(req.TownID)
	if !exists {
		s.sendError(sess, town.ErrTownNotFound.Error())
		return
	}

	p, err := t.AddPlayer(req.UserName, sess)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}

	sess.PlayerID = p.ID
	sess.TownID = t.ID
	sess.UserName = req.UserName

	logger.Log.Infof("Player %s (%s) joined town %s", p.ID, req.UserName, t.ID)
	sess.SendJSON(network.MsgTypeJoined, map[string]interface{}{
		"playerID":         p.ID,
		"videoToken":       p.VideoToken,
		"friendlyName":     t.FriendlyName,
		"isPubliclyListed": t.IsPubliclyListed,
		"currentPlayers":   t.PlayerModels(),
		"interactables":    t.InteractableModels(),
	})
}

// playerFor 解析会话所属的城镇和玩家
func (s *TownServer) playerFor(sess *session.Session) (*town.Town, bool) {
	if sess.TownID == "" {
		return nil, false
	}
	t, exists := s.townManager.GetTown(sess.TownID)
	return t, exists
}

func (s *TownServer) handleMovement(sess *session.Session, packet *network.Packet) {
	t, ok := s.playerFor(sess)
	if !ok {
		return
	}
	p, ok := t.Player(sess.PlayerID)
	if !ok {
		return
	}

	var loc models.PlayerLocation
	if err := json.Unmarshal(packet.Data, &loc); err != nil {
		return
	}
	t.UpdatePlayerLocation(p, loc)
}

func (s *TownServer) handleChatMessage(sess *session.Session, packet *network.Packet) {
	t, ok := s.playerFor(sess)
	if !ok {
		return
	}

	var msg models.ChatMessage
	if err := json.Unmarshal(packet.Data, &msg); err != nil {
		return
	}
	t.HandleChatMessage(msg)
}

func (s *TownServer) handleInteractableCommand(sess *session.Session, packet *network.Packet) {
	t, ok := s.playerFor(sess)
	if !ok {
		return
	}
	p, ok := t.Player(sess.PlayerID)
	if !ok {
		return
	}

	var cmd models.InteractableCommand
	if err := json.Unmarshal(packet.Data, &cmd); err != nil {
		return
	}

	start := time.Now()
	resp := t.HandleCommand(p, &cmd)
	s.monitor.ObserveCommandLatency(time.Since(start))
	s.monitor.IncCommandsProcessed()
	if resp.Error != "" {
		s.monitor.IncCommandErrors()
	}

	sess.SendJSON(network.MsgTypeCommandResponse, resp)
}

// handleInteractableUpdate 旧式区域更新：首次携带话题/视频视为激活，
// 否则作为观影状态直通更新。
func (s *TownServer) handleInteractableUpdate(sess *session.Session, packet *network.Packet) {
	t, ok := s.playerFor(sess)
	if !ok {
		return
	}

	var m models.InteractableModel
	if err := json.Unmarshal(packet.Data, &m); err != nil {
		return
	}

	switch m.Type {
	case models.TypeConversationArea:
		if !t.AddConversationArea(m) {
			s.sendError(sess, "unable to activate conversation area")
		}
	case models.TypeViewingArea:
		if t.AddViewingArea(m) {
			return
		}
		if !t.UpdateInteractable(m) {
			s.sendError(sess, "unable to update viewing area")
		}
	default:
		s.sendError(sess, "unsupported interactable update")
	}
}

func (s *TownServer) sendError(sess *session.Session, message string) {
	sess.SendJSON(network.MsgTypeError, map[string]string{"error": message})
}

// sweepIdleSessions 关闭长时间无入站流量的连接，由读循环完成清理
func (s *TownServer) sweepIdleSessions() {
	for _, sess := range s.sessionManager.All() {
		if sess.IdleSince(idleTimeout) {
			logger.Log.Infof("Closing idle session %s", sess.GetID())
			sess.Close()
		}
	}
}
