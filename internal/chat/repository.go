package chat

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sevencode7/rafiq/internal/storage"
)

// Repository keeps the ordered chat collection (most recent first) and the
// active-session pointer in a storage.Store. Every mutation rewrites the
// whole collection.
type Repository struct {
	store storage.Store
	mu    sync.Mutex
	newID func() string
}

// NewRepository creates a repository backed by store
func NewRepository(store storage.Store) *Repository {
	return &Repository{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
}

func (r *Repository) load() []Session {
	return storage.Get(r.store, storage.KeyChats, []Session{})
}

func (r *Repository) save(chats []Session) {
	storage.Set(r.store, storage.KeyChats, chats)
}

func (r *Repository) activeID() string {
	return storage.Get(r.store, storage.KeyActiveChatID, "")
}

func (r *Repository) setActiveID(id string) {
	storage.Set(r.store, storage.KeyActiveChatID, id)
}

func indexOf(chats []Session, id string) int {
	for i := range chats {
		if chats[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns all sessions, most recently created first.
func (r *Repository) List() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats := r.load()
	out := make([]Session, len(chats))
	for i, c := range chats {
		out[i] = c.clone()
	}
	return out
}

// Create prepends a new empty session, makes it active and returns it.
func (r *Repository) Create(title string) Session {
	if title == "" {
		title = DefaultTitle
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	chats := r.load()
	id := r.newID()
	for indexOf(chats, id) >= 0 {
		id = r.newID()
	}

	s := Session{ID: id, Title: title, Messages: []Message{}}
	chats = append([]Session{s}, chats...)
	r.save(chats)
	r.setActiveID(s.ID)

	log.Debug("chat created", "id", s.ID, "title", title)
	return s.clone()
}

// Delete removes the session with id. If it was active, the active pointer
// moves to the new first session, or is cleared when none remain.
func (r *Repository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats := r.load()
	i := indexOf(chats, id)
	if i >= 0 {
		chats = append(chats[:i], chats[i+1:]...)
	}
	r.save(chats)

	if r.activeID() == id {
		next := ""
		if len(chats) > 0 {
			next = chats[0].ID
		}
		r.setActiveID(next)
	}
}

// Rename updates a session title. Unknown ids are ignored.
func (r *Repository) Rename(id, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats := r.load()
	i := indexOf(chats, id)
	if i < 0 {
		return
	}
	chats[i].Title = title
	r.save(chats)
}

// Get returns the session with id.
func (r *Repository) Get(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats := r.load()
	i := indexOf(chats, id)
	if i < 0 {
		return Session{}, false
	}
	return chats[i].clone(), true
}

// Active returns the active session, if any.
func (r *Repository) Active() (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.activeID()
	if id == "" {
		return Session{}, false
	}
	chats := r.load()
	i := indexOf(chats, id)
	if i < 0 {
		return Session{}, false
	}
	return chats[i].clone(), true
}

// SetActive points the active session at id. It reports false and leaves
// the pointer unchanged when id is not in the collection.
func (r *Repository) SetActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if indexOf(r.load(), id) < 0 {
		return false
	}
	r.setActiveID(id)
	return true
}

// Append pushes a message onto the session with chatID. Unknown ids are
// ignored.
func (r *Repository) Append(chatID string, role Role, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats := r.load()
	i := indexOf(chats, chatID)
	if i < 0 {
		log.Debug("append to unknown chat ignored", "id", chatID)
		return
	}
	chats[i].Messages = append(chats[i].Messages, Message{Role: role, Content: content})
	r.save(chats)
}

// EnsureActive guarantees that at least one session exists and that the
// active pointer references one of them. It returns the active session.
func (r *Repository) EnsureActive() Session {
	if len(r.List()) == 0 {
		return r.Create(FirstTitle)
	}
	if s, ok := r.Active(); ok {
		return s
	}

	r.mu.Lock()
	chats := r.load()
	r.setActiveID(chats[0].ID)
	r.mu.Unlock()
	return chats[0].clone()
}
