package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"motorlane/internal/catalog"
	"motorlane/internal/moderation"
	"motorlane/internal/profiles"
	"motorlane/internal/session"
)

type stubSource struct {
	session session.Session
	ready   chan struct{}
}

func (s *stubSource) Current() session.Session { return s.session }
func (s *stubSource) Ready() <-chan struct{}   { return s.ready }

func newStubSource() *stubSource {
	ready := make(chan struct{})
	close(ready)
	return &stubSource{session: session.Anonymous(), ready: ready}
}

func standSession(email string) session.Session {
	return session.Session{IsAuthenticated: true, Role: session.RoleStand, Source: session.SourceRemoteProvider, Email: email}
}

func adminSession(email string) session.Session {
	return session.Session{IsAuthenticated: true, Role: session.RoleAdmin, Source: session.SourceRemoteProvider, Email: email}
}

type CatalogHandlerSuite struct {
	suite.Suite

	cars     *catalog.MemoryStore
	profiles *profiles.MemoryStore
	source   *stubSource
	router   chi.Router
}

func (s *CatalogHandlerSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.cars = catalog.NewMemoryStore()
	s.profiles = profiles.NewMemoryStore()
	s.source = newStubSource()

	require.NoError(s.T(), s.profiles.Create(ctx, &profiles.Profile{
		ID:        "stand-1",
		FullName:  "Maria Costa",
		Email:     "stand@example.pt",
		Role:      session.RoleStand,
		StandName: "Lisboa Motors",
		Status:    profiles.StatusApproved,
		CreatedAt: time.Now(),
	}))
	require.NoError(s.T(), s.cars.Create(ctx, &catalog.Car{
		ID: "car-1", Brand: "BMW", Model: "320d", Year: 2021, Price: 28500,
		Category: "Sedan", UserID: "stand-1", StandName: "Lisboa Motors",
		CreatedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(s.T(), s.cars.Create(ctx, &catalog.Car{
		ID: "car-2", Brand: "Renault", Model: "Clio", Year: 2019, Price: 9900,
		Category: "Hatchback", UserID: "stand-2", StandName: "Porto Autos",
		CreatedAt: time.Now(),
	}))

	catalogSvc := catalog.New(s.cars, catalog.WithLogger(logger))
	profilesSvc := profiles.New(s.profiles, profiles.WithLogger(logger))
	moderationSvc := moderation.New(
		moderation.Backends{},
		moderation.Backends{Listings: s.cars, Profiles: s.profiles},
		session.NewMemoryMarkerStore(),
		moderation.WithLogger(logger),
	)

	h := NewCatalogHandler(catalogSvc, profilesSvc, moderationSvc, s.source, logger)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func TestCatalogHandlerSuite(t *testing.T) {
	suite.Run(t, new(CatalogHandlerSuite))
}

func (s *CatalogHandlerSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CatalogHandlerSuite) decode(rec *httptest.ResponseRecorder, v any) {
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *CatalogHandlerSuite) TestListIsPublic() {
	rec := s.do(http.MethodGet, "/listings", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp struct {
		Listings []catalog.Car `json:"listings"`
	}
	s.decode(rec, &resp)
	assert.Len(s.T(), resp.Listings, 2)
	// Newest first.
	assert.Equal(s.T(), "car-2", resp.Listings[0].ID)
}

func (s *CatalogHandlerSuite) TestListFiltersByBrand() {
	rec := s.do(http.MethodGet, "/listings?brand=bmw", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp struct {
		Listings []catalog.Car `json:"listings"`
	}
	s.decode(rec, &resp)
	require.Len(s.T(), resp.Listings, 1)
	assert.Equal(s.T(), "car-1", resp.Listings[0].ID)
}

func (s *CatalogHandlerSuite) TestListRejectsBadMaxPrice() {
	rec := s.do(http.MethodGet, "/listings?max_price=cheap", nil)
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)

	var resp map[string]string
	s.decode(rec, &resp)
	assert.Equal(s.T(), "bad_request", resp["error"])
}

func (s *CatalogHandlerSuite) TestGetUnknownListing() {
	rec := s.do(http.MethodGet, "/listings/nope", nil)
	require.Equal(s.T(), http.StatusNotFound, rec.Code)

	var resp map[string]string
	s.decode(rec, &resp)
	assert.Equal(s.T(), "not_found", resp["error"])
}

func (s *CatalogHandlerSuite) TestFilterOptions() {
	rec := s.do(http.MethodGet, "/listings/options", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp struct {
		Brands     []string `json:"brands"`
		Categories []string `json:"categories"`
	}
	s.decode(rec, &resp)
	assert.Equal(s.T(), []string{"BMW", "Renault"}, resp.Brands)
	assert.Contains(s.T(), resp.Categories, "Sedan")
}

func (s *CatalogHandlerSuite) TestCreateRedirectsVisitors() {
	rec := s.do(http.MethodPost, "/listings", catalog.Car{Brand: "Fiat", Model: "500"})
	require.Equal(s.T(), http.StatusFound, rec.Code)
	assert.Equal(s.T(), "/login", rec.Header().Get("Location"))
}

func (s *CatalogHandlerSuite) TestCreateRedirectsAdmins() {
	// Publishing a listing is a stand activity, even for administrators.
	s.source.session = adminSession("admin@facilitadorcar.pt")

	rec := s.do(http.MethodPost, "/listings", catalog.Car{Brand: "Fiat", Model: "500"})
	assert.Equal(s.T(), http.StatusFound, rec.Code)
}

func (s *CatalogHandlerSuite) TestCreateAsStand() {
	s.source.session = standSession("stand@example.pt")

	rec := s.do(http.MethodPost, "/listings", catalog.Car{
		Brand: "Fiat", Model: "500", Year: 2022, Price: 13500,
	})
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	var created catalog.Car
	s.decode(rec, &created)
	assert.NotEmpty(s.T(), created.ID)
	assert.Equal(s.T(), "stand-1", created.UserID)
	assert.Equal(s.T(), "Lisboa Motors", created.StandName)
}

func (s *CatalogHandlerSuite) TestUpdateRejectsForeignListing() {
	s.source.session = standSession("stand@example.pt")

	rec := s.do(http.MethodPut, "/listings/car-2", catalog.Car{
		Brand: "Renault", Model: "Clio", Price: 1,
	})
	require.Equal(s.T(), http.StatusForbidden, rec.Code)

	var resp map[string]string
	s.decode(rec, &resp)
	assert.Equal(s.T(), "forbidden", resp["error"])
}

func (s *CatalogHandlerSuite) TestUpdateOwnListing() {
	s.source.session = standSession("stand@example.pt")

	rec := s.do(http.MethodPut, "/listings/car-1", catalog.Car{
		Brand: "BMW", Model: "320d", Year: 2021, Price: 26900,
	})
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var updated catalog.Car
	s.decode(rec, &updated)
	assert.Equal(s.T(), 26900.0, updated.Price)
	assert.Equal(s.T(), "stand-1", updated.UserID)
}

func (s *CatalogHandlerSuite) TestAdminUpdatesAnyListing() {
	s.source.session = adminSession("admin@facilitadorcar.pt")

	rec := s.do(http.MethodPut, "/listings/car-2", catalog.Car{
		Brand: "Renault", Model: "Clio", Price: 8900,
	})
	assert.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *CatalogHandlerSuite) TestDeleteOwnListing() {
	s.source.session = standSession("stand@example.pt")

	rec := s.do(http.MethodDelete, "/listings/car-1", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp map[string]string
	s.decode(rec, &resp)
	assert.Equal(s.T(), "applied_remotely", resp["outcome"])

	_, err := s.cars.Get(context.Background(), "car-1")
	assert.Error(s.T(), err)
}

func (s *CatalogHandlerSuite) TestDashboardListsOwnInventory() {
	s.source.session = standSession("stand@example.pt")

	rec := s.do(http.MethodGet, "/dashboard", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp struct {
		Listings []catalog.Car `json:"listings"`
	}
	s.decode(rec, &resp)
	require.Len(s.T(), resp.Listings, 1)
	assert.Equal(s.T(), "car-1", resp.Listings[0].ID)
}

func (s *CatalogHandlerSuite) TestDashboardShowsAdminsEverything() {
	s.source.session = adminSession("admin@facilitadorcar.pt")

	rec := s.do(http.MethodGet, "/dashboard", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp struct {
		Listings []catalog.Car `json:"listings"`
	}
	s.decode(rec, &resp)
	assert.Len(s.T(), resp.Listings, 2)
}

func (s *CatalogHandlerSuite) TestStandsDirectory() {
	rec := s.do(http.MethodGet, "/stands", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp struct {
		Stands []profiles.Profile `json:"stands"`
	}
	s.decode(rec, &resp)
	require.Len(s.T(), resp.Stands, 1)
	assert.Equal(s.T(), "Lisboa Motors", resp.Stands[0].StandName)
}

func (s *CatalogHandlerSuite) TestStandDetailIncludesInventory() {
	rec := s.do(http.MethodGet, "/stands/stand-1", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp struct {
		Stand    profiles.Profile `json:"stand"`
		Listings []catalog.Car    `json:"listings"`
	}
	s.decode(rec, &resp)
	assert.Equal(s.T(), "stand@example.pt", resp.Stand.Email)
	require.Len(s.T(), resp.Listings, 1)
	assert.Equal(s.T(), "car-1", resp.Listings[0].ID)
}
