// Package stubapi is an in-memory staff-directory backend implementing the
// REST surface the client consumes. It exists so the engine can be exercised
// over a real HTTP exchange in tests and local development; it is not a
// production server.
package stubapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// Server holds the in-memory directory and the echo instance serving it.
type Server struct {
	e         *echo.Echo
	jwtSecret string

	mu          sync.Mutex
	people      map[int]domain.Person
	passwords   map[int]string // bcrypt hash by person id
	sessions    map[string]domain.Session
	roles       []domain.Role
	departments []domain.Department
	nextID      int
}

// New builds a stub server with the standard role and department reference
// data seeded.
func New(jwtSecret string) *Server {
	s := &Server{
		jwtSecret: jwtSecret,
		people:    make(map[int]domain.Person),
		passwords: make(map[int]string),
		sessions:  make(map[string]domain.Session),
		roles: []domain.Role{
			{ID: domain.AdminRoleID, Label: "Administrator"},
			{ID: 2, Label: "User"},
		},
		departments: []domain.Department{
			{ID: 1, Label: "Engineering"},
			{ID: 2, Label: "Sales"},
			{ID: 3, Label: "HR"},
		},
		nextID: 1,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = newErrorHandler()

	e.POST("/api/auth/login", s.login)

	authed := e.Group("/api", s.requireSession)
	authed.GET("/person", s.listPeople)
	authed.POST("/person", s.createPerson)
	authed.GET("/person/:id", s.getPerson)
	authed.PATCH("/person/:id", s.updatePerson)
	authed.DELETE("/person/:id", s.deletePerson)
	authed.GET("/role", s.listRoles)
	authed.GET("/department", s.listDepartments)

	s.e = e
	return s
}

// Handler returns the HTTP handler, ready for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.e
}

// AddPerson seeds a person with a login password and returns the assigned id.
func (s *Server) AddPerson(p domain.Person, password string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.nextID
	}
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	p.Password = ""
	s.people[p.ID] = p

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("stubapi: hash password: %v", err))
	}
	s.passwords[p.ID] = string(hash)
	return p.ID
}

// ExpireSessions discards every issued session, so stored tokens become
// stale without the client knowing.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]domain.Session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

// login resolves a session from a previously issued token or from
// credentials. When neither yields a session the response is 204: a
// legitimate "no session" outcome, not an error.
func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A presented token settles the attempt: a stale token yields "no
	// session" even when valid credentials accompany it, which is what
	// forces the client's clear-and-retry protocol.
	if req.Token != "" {
		sess, ok := s.sessions[req.Token]
		if !ok {
			return c.NoContent(http.StatusNoContent)
		}
		user := s.people[sess.PersonID]
		return c.JSON(http.StatusOK, domain.LoginResult{Session: sess, User: user})
	}

	if req.Email != "" {
		for id, p := range s.people {
			if !strings.EqualFold(p.Email, req.Email) {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(s.passwords[id]), []byte(req.Password)) != nil {
				break
			}
			sess, err := s.mintSession(id)
			if err != nil {
				return err
			}
			return c.JSON(http.StatusOK, domain.LoginResult{Session: sess, User: p})
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// mintSession issues a signed bearer token for the person. Callers hold s.mu.
func (s *Server) mintSession(personID int) (domain.Session, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(personID),
		"iat": now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return domain.Session{}, err
	}

	sess := domain.Session{Token: token, PersonID: personID, CreatedAt: now}
	s.sessions[token] = sess
	return sess, nil
}

// requireSession validates the bearer token against issued sessions and
// injects the acting person id into the request context.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}

		s.mu.Lock()
		sess, ok := s.sessions[parts[1]]
		s.mu.Unlock()
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		c.Set("person_id", sess.PersonID)
		return next(c)
	}
}

func (s *Server) listPeople(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	people := make([]domain.Person, 0, len(s.people))
	for _, p := range s.people {
		people = append(people, p)
	}
	sort.Slice(people, func(i, j int) bool { return people[i].ID < people[j].ID })
	return c.JSON(http.StatusOK, people)
}

func (s *Server) getPerson(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid person id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.people[id]
	if !ok {
		return domain.ErrPersonNotFound
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createPerson(c echo.Context) error {
	var p domain.Person
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dup := s.emailTakenLocked(p.Email, 0); dup != nil {
		return c.JSON(http.StatusUnprocessableEntity, dup)
	}

	password := p.Password
	p.Password = ""
	p.ID = s.nextID
	s.nextID++
	s.people[p.ID] = p

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		s.passwords[p.ID] = string(hash)
	}
	return c.NoContent(http.StatusCreated)
}

// updatePerson applies an ordered RFC 6902 patch to the stored record.
func (s *Server) updatePerson(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid person id")
	}

	rawPatch, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patch")
	}
	patch, err := jsonpatch.DecodePatch(rawPatch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.people[id]
	if !ok {
		return domain.ErrPersonNotFound
	}

	doc, err := json.Marshal(current)
	if err != nil {
		return err
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patch does not apply")
	}

	var updated domain.Person
	if err := json.Unmarshal(patched, &updated); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patch produced an invalid person")
	}
	updated.ID = id

	if dup := s.emailTakenLocked(updated.Email, id); dup != nil {
		return c.JSON(http.StatusUnprocessableEntity, dup)
	}

	// A patched-in password updates the hash and is never stored in clear.
	if updated.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(updated.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		s.passwords[id] = string(hash)
		updated.Password = ""
	}

	s.people[id] = updated
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deletePerson(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid person id")
	}
	// The backend refuses self-deletion as well; the client guard is a
	// convenience, not the enforcement point.
	if actorID, _ := c.Get("person_id").(int); actorID == id {
		return domain.ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[id]; !ok {
		return domain.ErrPersonNotFound
	}
	delete(s.people, id)
	delete(s.passwords, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listRoles(c echo.Context) error {
	return c.JSON(http.StatusOK, s.roles)
}

func (s *Server) listDepartments(c echo.Context) error {
	return c.JSON(http.StatusOK, s.departments)
}

// fieldErrorEnvelope matches the backend's 422 body shape.
type fieldErrorEnvelope struct {
	Errors domain.FieldErrors `json:"errors"`
}

// emailTakenLocked returns a 422 envelope when email is already used by a
// different person. Callers hold s.mu.
func (s *Server) emailTakenLocked(email string, selfID int) *fieldErrorEnvelope {
	for id, p := range s.people {
		if id != selfID && strings.EqualFold(p.Email, email) {
			return &fieldErrorEnvelope{Errors: domain.FieldErrors{
				"email": {"email is already in use"},
			}}
		}
	}
	return nil
}

// newErrorHandler maps known domain errors to deterministic status codes and
// renders the canonical {"error": "<message>"} envelope.
func newErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal error"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = fmt.Sprintf("%v", he.Message)
		case errors.Is(err, domain.ErrPersonNotFound):
			code = http.StatusNotFound
			msg = "person not found"
		case errors.Is(err, domain.ErrForbidden):
			code = http.StatusForbidden
			msg = "access forbidden"
		}

		_ = c.JSON(code, map[string]string{"error": msg})
	}
}
