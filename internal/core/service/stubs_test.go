package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) conflicts(id, username, email string) bool {
	for _, u := range r.users {
		if u.ID == id {
			continue
		}
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts("", user.Username, user.Email) {
		return nil, domain.ErrUserExists
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.seq)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, c ports.UserChanges) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	var username, email string
	if c.Username != nil {
		username = *c.Username
	}
	if c.Email != nil {
		email = *c.Email
	}
	if r.conflicts(id, username, email) {
		return nil, domain.ErrUserExists
	}
	if c.Username != nil {
		u.Username = *c.Username
	}
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.Role != nil {
		u.Role = *c.Role
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	return u, nil
}

// ---------------------------------------------------------------------------
// Equipment
// ---------------------------------------------------------------------------

// stubEquipmentRepo serializes every call the way a single-document update
// does in Mongo.
type stubEquipmentRepo struct {
	mu      sync.Mutex
	items   map[string]*domain.Equipment
	seq     int
	incErr  error // returned by IncrementStock when set
	decErr  map[string]error
	decCall int
}

func newStubEquipmentRepo() *stubEquipmentRepo {
	return &stubEquipmentRepo{items: make(map[string]*domain.Equipment), decErr: make(map[string]error)}
}

func cloneEquipment(e *domain.Equipment) *domain.Equipment {
	c := *e
	return &c
}

func (r *stubEquipmentRepo) seed(code string, stock int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("e%d", r.seq)
	r.items[id] = &domain.Equipment{ID: id, Code: code, Name: "Item " + code, Stock: stock}
	return id
}

func (r *stubEquipmentRepo) stock(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Stock
}

func (r *stubEquipmentRepo) codeTaken(id, code string) bool {
	for _, e := range r.items {
		if e.ID != id && e.Code == code {
			return true
		}
	}
	return false
}

func (r *stubEquipmentRepo) Create(_ context.Context, e *domain.Equipment) (*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codeTaken("", e.Code) {
		return nil, domain.ErrCodeExists
	}
	r.seq++
	c := cloneEquipment(e)
	c.ID = fmt.Sprintf("e%d", r.seq)
	r.items[c.ID] = c
	return cloneEquipment(c), nil
}

func (r *stubEquipmentRepo) FindByID(_ context.Context, id string) (*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}
	return cloneEquipment(e), nil
}

func (r *stubEquipmentRepo) List(_ context.Context, f ports.ListEquipmentFilter) ([]*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Equipment
	for _, e := range r.items {
		if f.LowStock && !e.IsLowStock() {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(e.Name+e.Code+e.Notes), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneEquipment(e))
	}
	return out, nil
}

func (r *stubEquipmentRepo) Update(_ context.Context, id string, c ports.EquipmentChanges, at time.Time) (*domain.Equipment, *domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, nil, domain.ErrEquipmentNotFound
	}
	if c.Code != nil && r.codeTaken(id, *c.Code) {
		return nil, nil, domain.ErrCodeExists
	}
	before := cloneEquipment(e)
	c.ApplyTo(e)
	e.LastUpdated = at
	return before, cloneEquipment(e), nil
}

func (r *stubEquipmentRepo) Delete(_ context.Context, id string) (*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}
	delete(r.items, id)
	return e, nil
}

func (r *stubEquipmentRepo) Stats(_ context.Context) (domain.InventoryStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stocks := make([]int, 0, len(r.items))
	for _, e := range r.items {
		stocks = append(stocks, e.Stock)
	}
	return domain.StatsFromStocks(stocks), nil
}

func (r *stubEquipmentRepo) SetStock(_ context.Context, id string, stock int, at time.Time) (*domain.Equipment, *domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, nil, domain.ErrEquipmentNotFound
	}
	before := cloneEquipment(e)
	e.Stock = stock
	e.LastUpdated = at
	return before, cloneEquipment(e), nil
}

func (r *stubEquipmentRepo) IncrementStock(_ context.Context, id string, delta int, at time.Time) (*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incErr != nil {
		return nil, r.incErr
	}
	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}
	e.Stock += delta
	e.LastUpdated = at
	return cloneEquipment(e), nil
}

func (r *stubEquipmentRepo) DecrementStock(_ context.Context, id string, qty int, at time.Time) (*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decCall++
	if err := r.decErr[id]; err != nil {
		return nil, err
	}
	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}
	if e.Stock < qty {
		return nil, domain.ErrInsufficientStock
	}
	e.Stock -= qty
	e.LastUpdated = at
	return cloneEquipment(e), nil
}

// ---------------------------------------------------------------------------
// Movements
// ---------------------------------------------------------------------------

type stubPublisher struct {
	mu        sync.Mutex
	published []domain.StockMovement
}

func (p *stubPublisher) Publish(m domain.StockMovement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, m)
}

func (p *stubPublisher) kinds() []domain.MovementKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.MovementKind, len(p.published))
	for i, m := range p.published {
		out[i] = m.Kind
	}
	return out
}

type stubMovementRepo struct {
	insertErr error
	inserted  []domain.StockMovement
	lastLimit int
}

func (r *stubMovementRepo) Insert(_ context.Context, m domain.StockMovement) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, m)
	return nil
}

func (r *stubMovementRepo) ListByEquipment(_ context.Context, id string, limit int) ([]domain.StockMovement, error) {
	r.lastLimit = limit
	var out []domain.StockMovement
	for i := len(r.inserted) - 1; i >= 0 && len(out) < limit; i-- {
		if r.inserted[i].EquipmentID == id {
			out = append(out, r.inserted[i])
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Checkout guard
// ---------------------------------------------------------------------------

type stubGuard struct {
	mu         sync.Mutex
	keys       map[string]bool
	acquireErr error
	released   []string
}

func newStubGuard() *stubGuard {
	return &stubGuard{keys: make(map[string]bool)}
}

func (g *stubGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.acquireErr != nil {
		return false, g.acquireErr
	}
	if g.keys[key] {
		return false, nil
	}
	g.keys[key] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	g.released = append(g.released, key)
	return nil
}
