// Package cache provides the read-through entity cache over the directory
// collections. Collections are independent; the single consistency rule is
// "invalidate people after every person mutation".
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/ports"
	"github.com/Jacqui87/person-management-extension-sub000/internal/metrics"
)

const (
	// People change through this very tool, so their window is short.
	peopleTTL = 30 * time.Second
	// Roles and departments are reference data and change rarely.
	referenceTTL = 5 * time.Minute
)

type entry[T any] struct {
	data      T
	fetchedAt time.Time
	populated bool
}

func (e entry[T]) fresh(now time.Time, ttl time.Duration) bool {
	return e.populated && now.Sub(e.fetchedAt) < ttl
}

// Entities caches the people, roles and departments collections plus
// individual person lookups. Reads while a fetch for the same collection is
// outstanding do not serialize; a duplicate in-flight fetch is wasteful but
// harmless, and at least one fetch follows every invalidation.
type Entities struct {
	client ports.DirectoryClient
	log    zerolog.Logger
	now    func() time.Time

	mu          sync.Mutex
	people      entry[[]domain.Person]
	roles       entry[[]domain.Role]
	departments entry[[]domain.Department]
	byID        map[int]entry[domain.Person]
}

func New(client ports.DirectoryClient, log zerolog.Logger) *Entities {
	return &Entities{
		client: client,
		log:    log,
		now:    time.Now,
		byID:   make(map[int]entry[domain.Person]),
	}
}

// People returns the cached collection when fresh, fetching otherwise.
// force bypasses the cache and always fetches.
func (c *Entities) People(ctx context.Context, force bool) ([]domain.Person, error) {
	c.mu.Lock()
	if !force && c.people.fresh(c.now(), peopleTTL) {
		people := c.people.data
		c.mu.Unlock()
		metrics.CacheLookupsTotal.WithLabelValues("people", "hit").Inc()
		return people, nil
	}
	c.mu.Unlock()

	metrics.CacheLookupsTotal.WithLabelValues("people", "miss").Inc()
	people, err := c.client.ListPeople(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.people = entry[[]domain.Person]{data: people, fetchedAt: c.now(), populated: true}
	c.mu.Unlock()
	return people, nil
}

func (c *Entities) Roles(ctx context.Context, force bool) ([]domain.Role, error) {
	c.mu.Lock()
	if !force && c.roles.fresh(c.now(), referenceTTL) {
		roles := c.roles.data
		c.mu.Unlock()
		metrics.CacheLookupsTotal.WithLabelValues("roles", "hit").Inc()
		return roles, nil
	}
	c.mu.Unlock()

	metrics.CacheLookupsTotal.WithLabelValues("roles", "miss").Inc()
	roles, err := c.client.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.roles = entry[[]domain.Role]{data: roles, fetchedAt: c.now(), populated: true}
	c.mu.Unlock()
	return roles, nil
}

func (c *Entities) Departments(ctx context.Context, force bool) ([]domain.Department, error) {
	c.mu.Lock()
	if !force && c.departments.fresh(c.now(), referenceTTL) {
		departments := c.departments.data
		c.mu.Unlock()
		metrics.CacheLookupsTotal.WithLabelValues("departments", "hit").Inc()
		return departments, nil
	}
	c.mu.Unlock()

	metrics.CacheLookupsTotal.WithLabelValues("departments", "miss").Inc()
	departments, err := c.client.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.departments = entry[[]domain.Department]{data: departments, fetchedAt: c.now(), populated: true}
	c.mu.Unlock()
	return departments, nil
}

// Person returns the last-known snapshot for id: first from the fresh people
// collection, then from the per-id cache, finally from the backend. The
// returned snapshot is what the diff engine computes patches against.
func (c *Entities) Person(ctx context.Context, id int) (*domain.Person, error) {
	c.mu.Lock()
	now := c.now()
	if c.people.fresh(now, peopleTTL) {
		for i := range c.people.data {
			if c.people.data[i].ID == id {
				p := c.people.data[i]
				c.mu.Unlock()
				metrics.CacheLookupsTotal.WithLabelValues("person", "hit").Inc()
				return &p, nil
			}
		}
	}
	if e, ok := c.byID[id]; ok && e.fresh(now, peopleTTL) {
		p := e.data
		c.mu.Unlock()
		metrics.CacheLookupsTotal.WithLabelValues("person", "hit").Inc()
		return &p, nil
	}
	c.mu.Unlock()

	metrics.CacheLookupsTotal.WithLabelValues("person", "miss").Inc()
	p, err := c.client.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.byID[id] = entry[domain.Person]{data: *p, fetchedAt: c.now(), populated: true}
	c.mu.Unlock()
	return p, nil
}

// InvalidatePeople clears the people collection and all per-id snapshots so
// the next read fetches from the backend. Call after every person mutation.
func (c *Entities) InvalidatePeople() {
	c.mu.Lock()
	c.people = entry[[]domain.Person]{}
	c.byID = make(map[int]entry[domain.Person])
	c.mu.Unlock()
	c.log.Debug().Msg("people cache invalidated")
}
