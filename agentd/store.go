// ABOUTME: In-memory per-session store for the dev stub backend.
// ABOUTME: Thread-safe; holds uploaded datasets, confirmed mappings, and the session's push connection.
package agentd

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// File is one dataset held for a session: the original upload or a merge result.
type File struct {
	ID        string
	Name      string
	Rows      []workflow.Row
	Columns   []string
	Mappings  map[string]string
	IsMerged  bool
	Processed bool
	SizeKB    int64
}

// session is the server-side state for one client session.
type session struct {
	id        string
	files     map[string]*File
	order     []string // file ids in upload order
	push      func(workflow.ServerEvent)
	createdAt time.Time
}

// Store holds all live sessions. Sessions are created lazily on first
// contact (handshake or upload) and never expire; the stub is for dev runs.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// ensure returns the session for the given id, creating it if needed.
func (s *Store) ensure(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{
			id:        id,
			files:     make(map[string]*File),
			createdAt: time.Now(),
		}
		s.sessions[id] = sess
	}
	return sess
}

// AddFile stores a dataset under a fresh server-issued id and returns it.
func (s *Store) AddFile(sessionID, name string, rows []workflow.Row, sizeKB int64) *File {
	f := &File{
		ID:      uuid.NewString(),
		Name:    name,
		Rows:    rows,
		Columns: columnsOf(rows),
		SizeKB:  sizeKB,
	}
	sess := s.ensure(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.files[f.ID] = f
	sess.order = append(sess.order, f.ID)
	return f
}

// AddMerged stores a merge result, tagged as merged.
func (s *Store) AddMerged(sessionID, name string, rows []workflow.Row) *File {
	f := s.AddFile(sessionID, name, rows, 0)
	s.mu.Lock()
	defer s.mu.Unlock()
	f.IsMerged = true
	return f
}

// File looks up a dataset by session and file id.
func (s *Store) File(sessionID, fileID string) (*File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	f, ok := sess.files[fileID]
	return f, ok
}

// Files returns the session's datasets in upload order.
func (s *Store) Files(sessionID string) []*File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	files := make([]*File, 0, len(sess.order))
	for _, id := range sess.order {
		files = append(files, sess.files[id])
	}
	return files
}

// SetMappings records confirmed mappings for a file and marks it processed.
func (s *Store) SetMappings(sessionID, fileID string, mappings map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	f, ok := sess.files[fileID]
	if !ok {
		return false
	}
	f.Mappings = mappings
	f.Processed = true
	return true
}

// ReplaceRows swaps a file's rows for processed ones, recomputing columns.
func (s *Store) ReplaceRows(sessionID, fileID string, rows []workflow.Row) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	f, ok := sess.files[fileID]
	if !ok {
		return false
	}
	f.Rows = rows
	f.Columns = columnsOf(rows)
	f.Processed = true
	return true
}

// SetPush registers the session's WebSocket push function. A nil push
// unregisters (connection gone).
func (s *Store) SetPush(sessionID string, push func(workflow.ServerEvent)) {
	sess := s.ensure(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.push = push
}

// Push delivers an event to the session's connection, if one is registered.
func (s *Store) Push(sessionID string, ev workflow.ServerEvent) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	var push func(workflow.ServerEvent)
	if ok {
		push = sess.push
	}
	s.mu.RUnlock()
	if push != nil {
		push(ev)
	}
}

// columnsOf returns the sorted column names of the first row.
func columnsOf(rows []workflow.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
