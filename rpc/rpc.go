package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/townserver/logger"
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/services"
	"github.com/wfunc/townserver/town"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// DirectoryService 运维工具用的城镇目录 RPC 服务
type DirectoryService struct {
	manager *town.Manager
	service *services.TownService
}

func NewDirectoryService(manager *town.Manager, service *services.TownService) *DirectoryService {
	return &DirectoryService{manager: manager, service: service}
}

type ListTownsArgs struct{}

type ListTownsReply struct {
	Towns []models.TownListing
}

func (d *DirectoryService) ListTowns(args *ListTownsArgs, reply *ListTownsReply) error {
	reply.Towns = d.service.ListPublicTowns()
	return nil
}

type TownStatsArgs struct {
	TownID string
}

type TownStatsReply struct {
	FriendlyName string
	PlayerCount  int
	ActiveAreas  int
	GamesPlayed  int
}

func (d *DirectoryService) GetTownStats(args *TownStatsArgs, reply *TownStatsReply) error {
	t, exists := d.manager.GetTown(args.TownID)
	if !exists {
		return town.ErrTownNotFound
	}
	reply.FriendlyName = t.FriendlyName
	reply.PlayerCount = t.PlayerCount()
	reply.ActiveAreas = t.ActiveAreaCount()

	records, err := d.service.GameHistory(args.TownID)
	if err != nil {
		return err
	}
	reply.GamesPlayed = len(records)
	return nil
}
