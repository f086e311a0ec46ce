package net

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"talon/internal/common"
)

const (
	maxRecvSize        = 4 * 1024
	defaultWorkers     = 10
	defaultConnTimeout = time.Second
)

// Engine is the subset of *engine.Engine the gateway depends on. Declaring
// it here (rather than importing internal/engine directly) keeps the
// gateway decoupled from the matching core's concurrency internals, the way
// the teacher's internal/net.Engine interface decouples from internal/engine.
type Engine interface {
	AddOrder(order *common.Order) ([]common.Trade, error)
	CancelOrder(id common.OrderID) bool
	LogBook() string
}

// clientSession is a connected TCP client. sessionToken is a per-connection
// correlation token assigned in addSession; nothing in this package reads
// it, and no log line includes it — the teacher's only
// remaining use for google/uuid once order identity became a caller-
// assigned integer (spec.md §3).
type clientSession struct {
	conn         net.Conn
	sessionToken uuid.UUID
}

type clientMessage struct {
	clientAddress string
	message       Message
}

// Server is the TCP gateway in front of an Engine: it accepts connections,
// parses the wire protocol, forwards orders to the engine, and routes back
// execution/error reports to the originating client.
type Server struct {
	address string
	port    int
	engine  Engine
	pool    connPool
	cancel  context.CancelFunc

	mu       sync.Mutex
	sessions map[string]clientSession
	// owners maps a resting order id to the client address that submitted
	// it, so a later trade report can be routed back without the engine
	// itself knowing anything about sessions.
	owners map[common.OrderID]string

	messages chan clientMessage
}

// New constructs a gateway bound to address:port in front of eng.
func New(address string, port int, eng Engine) *Server {
	return &Server{
		address:  address,
		port:     port,
		engine:   eng,
		pool:     newConnPool(defaultWorkers),
		sessions: make(map[string]clientSession),
		owners:   make(map[common.OrderID]string),
		messages: make(chan clientMessage, 1),
	}
}

func (s *Server) Shutdown() {
	log.Info().Msg("net: server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run accepts connections until ctx is cancelled. It blocks.
func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("net: unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("net: error closing listener")
		}
	}()

	t.Go(func() error {
		s.pool.setup(t, s.handleConnection)
		return nil
	})
	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Str("address", listener.Addr().String()).Msg("net: listening")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("net: error accepting client")
				continue
			}
			s.addSession(conn)
			s.pool.addTask(conn)
		}
	}
}

func (s *Server) addSession(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[conn.RemoteAddr().String()] = clientSession{conn: conn, sessionToken: uuid.New()}
}

func (s *Server) deleteSession(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, address)
}

func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case msg := <-s.messages:
			if err := s.handleMessage(msg); err != nil {
				log.Error().Err(err).Str("address", msg.clientAddress).Msg("net: error handling message")
			}
		}
	}
}

func (s *Server) handleMessage(msg clientMessage) error {
	switch msg.message.GetType() {
	case NewOrder:
		order, ok := msg.message.(NewOrderMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		o, err := order.Order()
		if err != nil {
			s.sendError(msg.clientAddress, 0, err)
			return err
		}
		s.registerOwner(o.ID, msg.clientAddress)
		if _, err := s.engine.AddOrder(o); err != nil {
			s.sendError(msg.clientAddress, o.ID, err)
			return err
		}
	case CancelOrder:
		order, ok := msg.message.(CancelOrderMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		s.engine.CancelOrder(order.OrderID)
	case LogBook:
		log.Info().Str("book", s.engine.LogBook()).Msg("net: book snapshot requested")
	default:
		return ErrInvalidMessageType
	}
	return nil
}

func (s *Server) registerOwner(id common.OrderID, address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[id] = address
}

func (s *Server) ownerAddress(id common.OrderID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr, ok := s.owners[id]
	return addr, ok
}

// OnTrade implements engine.Reporter. It routes one execution report to
// each side's owning client, if still connected.
func (s *Server) OnTrade(trade common.Trade) {
	s.sendExecution(trade.Bid, common.Buy)
	s.sendExecution(trade.Ask, common.Sell)
}

// OnReject implements engine.Reporter.
func (s *Server) OnReject(order *common.Order, reason error) {
	if addr, ok := s.ownerAddress(order.ID); ok {
		s.sendError(addr, order.ID, reason)
	}
}

func (s *Server) sendExecution(info common.TradeInfo, side common.Side) {
	addr, ok := s.ownerAddress(info.OrderID)
	if !ok {
		return
	}
	s.writeTo(addr, executionReport(info, side))
}

func (s *Server) sendError(address string, orderID common.OrderID, err error) {
	s.writeTo(address, errorReport(orderID, err))
}

func (s *Server) writeTo(address string, payload []byte) {
	s.mu.Lock()
	session, ok := s.sessions[address]
	s.mu.Unlock()
	if !ok {
		return
	}
	if _, err := session.conn.Write(payload); err != nil {
		log.Error().Err(err).Str("address", address).Msg("net: failed writing report")
		s.deleteSession(address)
	}
}

// handleConnection is a short-lived worker task: read one message off conn,
// forward it for handling, then requeue conn for its next message. Any
// returned error is fatal to the pool, mirroring the teacher's convention.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return fmt.Errorf("net: unexpected task type %T", task)
	}
	requeued := false
	defer func() {
		if requeued {
			return
		}
		if err := conn.Close(); err != nil {
			log.Error().Str("address", conn.RemoteAddr().String()).Err(err).Msg("net: error closing connection")
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Error().Err(err).Msg("net: failed setting connection deadline")
		return nil
	}

	select {
	case <-t.Dying():
		return nil
	default:
		buf := make([]byte, maxRecvSize)
		n, err := conn.Read(buf)
		if err != nil {
			s.deleteSession(conn.RemoteAddr().String())
			return nil
		}

		message, err := parseMessage(buf[:n])
		if err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("net: error parsing message")
			return nil
		}

		s.messages <- clientMessage{clientAddress: conn.RemoteAddr().String(), message: message}
		requeued = true
		s.pool.addTask(conn)
	}
	return nil
}
