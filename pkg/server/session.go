package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	lerrors "github.com/vango-dev/livedom/internal/errors"
	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/el"
	"github.com/vango-dev/livedom/pkg/protocol"
	"github.com/vango-dev/livedom/pkg/render"
	"github.com/vango-dev/livedom/pkg/style"
)

// App builds the root element of one session. It runs once per session,
// after which the session drives the element through Update.
type App func(s *Session) (el.Element, error)

// UpdateMiddleware wraps an update pass. Implementations must call next
// exactly once and return its error, possibly annotated.
type UpdateMiddleware func(ctx context.Context, s *Session, next func(context.Context) error) error

// Session is one live page: a document, the element tree mounted in its
// body and the connection patches are streamed to.
//
// All tree access goes through the session lock, so event handlers, Do
// callbacks and update passes never run concurrently.
type Session struct {
	ID        string
	CreatedAt time.Time

	// Tree state, protected by mu
	mu       sync.Mutex
	doc      *dom.Document
	builder  *el.Builder
	frames   *style.ManualFrames
	sheet    *style.Sheet
	recorder *protocol.Recorder
	root     el.Element
	event    *protocol.ClientEvent
	seq      uint64
	stale    bool // patches were dropped before a connection was attached

	// Connection
	conn    *websocket.Conn
	writeMu sync.Mutex // Protects conn writes
	closed  atomic.Bool
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc

	lastActive atomic.Int64

	// Configuration
	config       *SessionConfig
	middleware   []UpdateMiddleware
	listObserver el.ListObserver
	hooks        Hooks

	// Logger
	logger *slog.Logger

	// Metrics
	eventCount atomic.Uint64
	patchCount atomic.Uint64
	bytesSent  atomic.Uint64
	bytesRecv  atomic.Uint64

	// General-purpose session data storage.
	data   map[string]any
	dataMu sync.RWMutex
}

// sessionOptions carries the server-wide settings a session needs.
type sessionOptions struct {
	config       *SessionConfig
	middleware   []UpdateMiddleware
	listObserver el.ListObserver
	hooks        Hooks
	logger       *slog.Logger
}

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Weak IDs would let clients guess other sessions.
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// newSession creates a session and mounts the element built by app into the
// document body. Mutations are recorded only after mounting, since the
// initial tree reaches the client as the rendered page.
func newSession(app App, opts sessionOptions) (*Session, error) {
	if opts.config == nil {
		opts.config = DefaultSessionConfig()
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	now := time.Now()
	id := generateSessionID()
	doc := dom.NewDocument()
	b := el.NewBuilder(doc)
	frames := &style.ManualFrames{}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:           id,
		CreatedAt:    now,
		doc:          doc,
		builder:      b,
		frames:       frames,
		sheet:        style.NewSheet(b, frames),
		done:         make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
		config:       opts.config,
		middleware:   opts.middleware,
		listObserver: opts.listObserver,
		hooks:        opts.hooks,
		logger:       opts.logger.With("session_id", id),
		data:         make(map[string]any),
	}
	s.lastActive.Store(now.UnixNano())

	root, err := app(s)
	if err != nil {
		cancel()
		return nil, NewSessionError(id, "mount", err)
	}
	if root == nil {
		root = b.Empty()
	}
	if err := el.Append(doc.Body(), root); err != nil {
		root.Dispose()
		cancel()
		return nil, NewSessionError(id, "mount", err)
	}
	s.root = root
	frames.Flush()
	s.recorder = protocol.NewRecorder(doc)

	return s, nil
}

// Document returns the session's document.
func (s *Session) Document() *dom.Document { return s.doc }

// Builder returns the builder bound to the session's document.
func (s *Session) Builder() *el.Builder { return s.builder }

// Sheet returns the session's style sheet. Rules are flushed into the
// document head after every update pass.
func (s *Session) Sheet() *style.Sheet { return s.sheet }

// Root returns the mounted root element.
func (s *Session) Root() el.Element { return s.root }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Config returns the session configuration.
func (s *Session) Config() *SessionConfig { return s.config }

// Context returns a context cancelled when the session closes.
func (s *Session) Context() context.Context { return s.ctx }

// Event returns the client event being handled, or nil outside event
// dispatch. Only valid while the session lock is held, i.e. from handlers
// and update middleware.
func (s *Session) Event() *protocol.ClientEvent { return s.event }

// PendingPatches returns the number of recorded patches not yet sent.
func (s *Session) PendingPatches() int { return s.recorder.Len() }

// ListObserver returns an observer for lists built in this session. Failed
// passes are logged; all passes are forwarded to the server's observer.
func (s *Session) ListObserver() el.ListObserver {
	return el.ListObserverFunc(func(ps el.PassStats) {
		if ps.Err != nil {
			s.logger.Warn("list update failed",
				"list", ps.Label,
				"code", lerrors.Code(ps.Err),
				"error", ps.Err)
		}
		if s.listObserver != nil {
			s.listObserver.ObservePass(ps)
		}
	})
}

// Render writes the full page for this session, with node ids for live
// patching and the session id for the client script.
func (s *Session) Render(w io.Writer, page render.PageData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page.Doc = s.doc
	page.SessionID = s.ID
	r := render.NewRenderer(render.RendererConfig{NodeIDs: true})
	return r.RenderPage(w, page)
}

// Dispatch delivers a client event to the target node's listeners, then
// runs an update pass and sends the resulting patches.
func (s *Session) Dispatch(ctx context.Context, ev *protocol.ClientEvent) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.doc.NodeByID(ev.Target)
	if !ok {
		return unknownTarget(ev.Target)
	}

	s.eventCount.Add(1)
	s.event = ev
	defer func() { s.event = nil }()

	perr := s.safeExecute(ev.Type, func() {
		node.Dispatch(&dom.Event{Type: ev.Type, Detail: ev.Detail})
	})
	err := s.update(ctx)
	s.flushLocked()
	if perr != nil {
		return perr
	}
	return err
}

// Do runs fn under the session lock, then runs an update pass and sends
// the resulting patches. Use it to change parameter sources from outside
// event handlers, e.g. from timers.
func (s *Session) Do(ctx context.Context, fn func() error) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if fn != nil {
		var err error
		if perr := s.safeExecute("do", func() { err = fn() }); perr != nil {
			err = perr
		}
		if err != nil {
			s.flushLocked()
			return err
		}
	}
	err := s.update(ctx)
	s.flushLocked()
	return err
}

// safeExecute runs fn with panic recovery. A panic is logged with its stack
// and returned as a handler panic error.
func (s *Session) safeExecute(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			s.logger.Error("handler panic",
				"panic", r,
				"op", op,
				"stack", string(stack))
			err = handlerPanic(op)
		}
	}()
	fn()
	return nil
}

// Update runs an update pass and sends the resulting patches.
func (s *Session) Update(ctx context.Context) error {
	return s.Do(ctx, nil)
}

// update runs the root's Update through the middleware chain and flushes
// queued style rules. Must be called with mu held.
func (s *Session) update(ctx context.Context) error {
	next := func(context.Context) error {
		err := s.root.Update()
		s.frames.Flush()
		return err
	}
	for i := len(s.middleware) - 1; i >= 0; i-- {
		mw, inner := s.middleware[i], next
		next = func(ctx context.Context) error {
			return mw(ctx, s, inner)
		}
	}
	return next(ctx)
}

// flushLocked sends all recorded patches as one batch. Patches recorded
// before a failed pass are sent too, since they describe the server tree.
// Must be called with mu held.
func (s *Session) flushLocked() {
	patches, err := s.recorder.Take()
	if len(patches) == 0 && err == nil {
		return
	}
	if !s.connected() {
		s.stale = true
		return
	}
	if err != nil {
		s.logger.Error("patch render failed", "error", err)
		s.sendReload("render failed")
		return
	}

	s.seq++
	batch := &protocol.Batch{Seq: s.seq, Patches: patches}
	frames, err := batch.Frames()
	if err != nil {
		s.logger.Warn("patch batch cannot be framed, reloading client", "error", err)
		s.sendReload("patch too large")
		return
	}
	for _, f := range frames {
		if err := s.writeFrame(f); err != nil {
			s.logger.Error("write error", "error", err)
			go s.Close()
			return
		}
	}
	s.patchCount.Add(uint64(len(patches)))
	if s.hooks.OnBatch != nil {
		s.hooks.OnBatch(s, len(patches), len(frames))
	}
}

// attach binds a WebSocket connection to the session.
func (s *Session) attach(conn *websocket.Conn) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.writeMu.Lock()
	if s.conn != nil {
		s.writeMu.Unlock()
		return ErrSessionAttached
	}
	s.conn = conn
	s.writeMu.Unlock()
	s.UpdateLastActive()

	s.mu.Lock()
	stale := s.stale
	s.stale = false
	s.mu.Unlock()
	if stale {
		s.sendReload("missed updates")
	}
	return nil
}

func (s *Session) connected() bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn != nil
}

// writeFrame writes one frame with the configured deadline.
func (s *Session) writeFrame(f *protocol.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.conn == nil {
		return ErrNoConnection
	}
	data := f.Encode()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	s.bytesSent.Add(uint64(len(data)))
	return nil
}

func (s *Session) sendControl(ct protocol.ControlType, payload any) error {
	return s.writeFrame(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(ct, payload)))
}

// sendReload asks the client to fetch the page again.
func (s *Session) sendReload(reason string) {
	if err := s.sendControl(protocol.NewReload(reason)); err != nil && !errors.Is(err, ErrNoConnection) {
		s.logger.Error("reload error", "error", err)
	}
}

// sendError sends an error frame to the client.
func (s *Session) sendError(err error, fatal bool) {
	em := protocol.NewError(err)
	em.Fatal = fatal
	frame := protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em))
	if werr := s.writeFrame(frame); werr != nil && !errors.Is(werr, ErrNoConnection) {
		s.logger.Error("error frame write failed", "error", werr)
	}
}

// sendPing sends a heartbeat ping to the client.
func (s *Session) sendPing() error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.sendControl(protocol.NewPing(uint64(time.Now().UnixMilli())))
}

// Close closes the connection, disposes the element tree and runs the
// OnSessionEnd hook. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)
	s.cancel()

	s.writeMu.Lock()
	if s.conn != nil {
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
	}
	s.writeMu.Unlock()

	s.mu.Lock()
	if s.recorder != nil {
		s.recorder.Close()
	}
	if s.root != nil {
		s.root.Dispose()
	}
	s.mu.Unlock()

	if s.hooks.OnSessionEnd != nil {
		s.hooks.OnSessionEnd(s)
	}

	s.logger.Info("session closed",
		"events", s.eventCount.Load(),
		"patches", s.patchCount.Load(),
		"bytes_sent", s.bytesSent.Load(),
		"bytes_recv", s.bytesRecv.Load())
}

// IsClosed returns whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that's closed when the session is done.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// UpdateLastActive marks the session as active now.
func (s *Session) UpdateLastActive() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive returns the time of the last client activity.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// SessionStats is a snapshot of per-session counters.
type SessionStats struct {
	Events    uint64
	Patches   uint64
	BytesSent uint64
	BytesRecv uint64
}

// Stats returns the session counters.
func (s *Session) Stats() SessionStats {
	return SessionStats{
		Events:    s.eventCount.Load(),
		Patches:   s.patchCount.Load(),
		BytesSent: s.bytesSent.Load(),
		BytesRecv: s.bytesRecv.Load(),
	}
}

// Get returns a value from session data.
func (s *Session) Get(key string) any {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.data[key]
}

// Set stores a value in session data.
func (s *Session) Set(key string, value any) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.data[key] = value
}

// Delete removes a value from session data.
func (s *Session) Delete(key string) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	delete(s.data, key)
}
