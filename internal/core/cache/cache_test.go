package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/wI2L/jsondiff"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// countingClient serves canned collections and counts backend fetches.
type countingClient struct {
	people      []domain.Person
	roles       []domain.Role
	departments []domain.Department

	peopleCalls     int
	rolesCalls      int
	departmentCalls int
	personCalls     int
}

func (c *countingClient) Login(context.Context, string, string, string) (*domain.LoginResult, error) {
	return nil, nil
}

func (c *countingClient) ListPeople(context.Context) ([]domain.Person, error) {
	c.peopleCalls++
	return c.people, nil
}

func (c *countingClient) ListRoles(context.Context) ([]domain.Role, error) {
	c.rolesCalls++
	return c.roles, nil
}

func (c *countingClient) ListDepartments(context.Context) ([]domain.Department, error) {
	c.departmentCalls++
	return c.departments, nil
}

func (c *countingClient) GetPerson(_ context.Context, id int) (*domain.Person, error) {
	c.personCalls++
	for i := range c.people {
		if c.people[i].ID == id {
			p := c.people[i]
			return &p, nil
		}
	}
	return nil, domain.ErrPersonNotFound
}

func (c *countingClient) CreatePerson(context.Context, domain.Person) error { return nil }
func (c *countingClient) UpdatePerson(context.Context, int, jsondiff.Patch) error {
	return nil
}
func (c *countingClient) DeletePerson(context.Context, int) error { return nil }

func newTestCache() (*Entities, *countingClient) {
	client := &countingClient{
		people: []domain.Person{
			{ID: 1, FirstName: "Ada", Email: "ada@example.com"},
			{ID: 2, FirstName: "Ben", Email: "ben@example.com"},
		},
		roles:       []domain.Role{{ID: 1, Label: "Administrator"}},
		departments: []domain.Department{{ID: 1, Label: "Engineering"}},
	}
	return New(client, zerolog.Nop()), client
}

func TestPeople_ReadThrough(t *testing.T) {
	c, client := newTestCache()
	ctx := context.Background()

	first, err := c.People(ctx, false)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if len(first) != 2 || client.peopleCalls != 1 {
		t.Fatalf("first read should fetch once: %d calls", client.peopleCalls)
	}

	// Fresh entry: no second fetch.
	if _, err := c.People(ctx, false); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if client.peopleCalls != 1 {
		t.Fatalf("fresh read must not hit the backend: %d calls", client.peopleCalls)
	}
}

func TestPeople_ForceBypassesCache(t *testing.T) {
	c, client := newTestCache()
	ctx := context.Background()

	if _, err := c.People(ctx, false); err != nil {
		t.Fatalf("seed read: %v", err)
	}
	if _, err := c.People(ctx, true); err != nil {
		t.Fatalf("forced read: %v", err)
	}
	if client.peopleCalls != 2 {
		t.Fatalf("force must always fetch: %d calls", client.peopleCalls)
	}
}

func TestPeople_InvalidateTriggersRefetch(t *testing.T) {
	c, client := newTestCache()
	ctx := context.Background()

	if _, err := c.People(ctx, false); err != nil {
		t.Fatalf("seed read: %v", err)
	}

	client.people = append(client.people, domain.Person{ID: 3, FirstName: "Cem"})
	c.InvalidatePeople()

	people, err := c.People(ctx, false)
	if err != nil {
		t.Fatalf("post-invalidate read: %v", err)
	}
	if len(people) != 3 || client.peopleCalls != 2 {
		t.Fatalf("invalidation must force a fetch: %d people, %d calls", len(people), client.peopleCalls)
	}
}

func TestPeople_StalenessWindowExpires(t *testing.T) {
	c, client := newTestCache()
	ctx := context.Background()

	if _, err := c.People(ctx, false); err != nil {
		t.Fatalf("seed read: %v", err)
	}

	// Move the clock past the people TTL.
	base := time.Now()
	c.now = func() time.Time { return base.Add(peopleTTL + time.Second) }

	if _, err := c.People(ctx, false); err != nil {
		t.Fatalf("stale read: %v", err)
	}
	if client.peopleCalls != 2 {
		t.Fatalf("stale entry must refetch: %d calls", client.peopleCalls)
	}
}

func TestPerson_ServedFromFreshCollection(t *testing.T) {
	c, client := newTestCache()
	ctx := context.Background()

	if _, err := c.People(ctx, false); err != nil {
		t.Fatalf("seed read: %v", err)
	}

	p, err := c.Person(ctx, 2)
	if err != nil {
		t.Fatalf("person read: %v", err)
	}
	if p.FirstName != "Ben" {
		t.Fatalf("wrong person: %+v", p)
	}
	if client.personCalls != 0 {
		t.Fatalf("fresh collection should serve the lookup: %d calls", client.personCalls)
	}
}

func TestPerson_FetchesOnMissAndCachesByID(t *testing.T) {
	c, client := newTestCache()
	ctx := context.Background()

	p, err := c.Person(ctx, 1)
	if err != nil {
		t.Fatalf("person read: %v", err)
	}
	if p.ID != 1 || client.personCalls != 1 {
		t.Fatalf("expected a single backend lookup: %d", client.personCalls)
	}

	if _, err := c.Person(ctx, 1); err != nil {
		t.Fatalf("second person read: %v", err)
	}
	if client.personCalls != 1 {
		t.Fatalf("per-id snapshot should serve the repeat: %d calls", client.personCalls)
	}

	c.InvalidatePeople()
	if _, err := c.Person(ctx, 1); err != nil {
		t.Fatalf("post-invalidate person read: %v", err)
	}
	if client.personCalls != 2 {
		t.Fatalf("invalidation must clear per-id snapshots: %d calls", client.personCalls)
	}
}

func TestCollections_AreIndependent(t *testing.T) {
	c, client := newTestCache()
	ctx := context.Background()

	if _, err := c.Roles(ctx, false); err != nil {
		t.Fatalf("roles read: %v", err)
	}
	if _, err := c.Departments(ctx, false); err != nil {
		t.Fatalf("departments read: %v", err)
	}

	c.InvalidatePeople()

	if _, err := c.Roles(ctx, false); err != nil {
		t.Fatalf("roles reread: %v", err)
	}
	if _, err := c.Departments(ctx, false); err != nil {
		t.Fatalf("departments reread: %v", err)
	}
	if client.rolesCalls != 1 || client.departmentCalls != 1 {
		t.Fatalf("people invalidation must not touch other collections: roles=%d departments=%d",
			client.rolesCalls, client.departmentCalls)
	}
}
