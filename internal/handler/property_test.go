package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/patchwork-body/the-booking-system/internal/model"
	"github.com/patchwork-body/the-booking-system/internal/queue"
	"github.com/patchwork-body/the-booking-system/internal/repository"
	"github.com/patchwork-body/the-booking-system/internal/utils"
)

// fakeProperties implements PropertyStore over a map.
type fakeProperties struct {
	props map[string]*model.Property
	seq   int
}

func (f *fakeProperties) Create(_ context.Context, p *model.Property) error {
	f.seq++
	p.ID = fmt.Sprintf("p%d", f.seq)
	f.props[p.ID] = p
	return nil
}

func (f *fakeProperties) GetByID(_ context.Context, id string) (*model.Property, error) {
	p, ok := f.props[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProperties) GetWithOwner(_ context.Context, id string) (*repository.PropertyWithOwner, error) {
	p, ok := f.props[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	return &repository.PropertyWithOwner{Property: *p, Owner: repository.OwnerContact{ID: p.OwnerID}}, nil
}

func (f *fakeProperties) List(context.Context, string, int) ([]*model.Property, error) {
	out := make([]*model.Property, 0, len(f.props))
	for _, p := range f.props {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProperties) Update(_ context.Context, p *model.Property) error {
	if _, ok := f.props[p.ID]; !ok {
		return repository.ErrPropertyNotFound
	}
	f.props[p.ID] = p
	return nil
}

func (f *fakeProperties) Delete(_ context.Context, id string) error {
	if _, ok := f.props[id]; !ok {
		return repository.ErrPropertyNotFound
	}
	delete(f.props, id)
	return nil
}

// fakeReservations records created reservations.
type fakeReservations struct {
	created  []*model.Reservation
	guestIDs [][]string
}

func (f *fakeReservations) Create(_ context.Context, res *model.Reservation, guestIDs []string) error {
	res.ID = "r1"
	f.created = append(f.created, res)
	f.guestIDs = append(f.guestIDs, guestIDs)
	return nil
}

func (f *fakeReservations) ListByProperty(context.Context, string) ([]*repository.ReservationDetail, error) {
	return nil, nil
}

// fakeChats records created chats.
type fakeChats struct {
	created [][]string // participant user ids per chat
}

func (f *fakeChats) Create(_ context.Context, propertyID string, participantUserIDs ...string) (*model.Chat, error) {
	f.created = append(f.created, participantUserIDs)
	return &model.Chat{ID: "c1", PropertyID: propertyID}, nil
}

func (f *fakeChats) ListByProperty(context.Context, string) ([]*model.Chat, error) {
	return nil, nil
}

// capturedEvents collects published events.
type capturedEvents struct {
	events []queue.ReservationConfirmedEvent
}

func (e *capturedEvents) PublishReservationConfirmed(_ context.Context, ev queue.ReservationConfirmedEvent) error {
	e.events = append(e.events, ev)
	return nil
}

func newPropertyHandler() (*PropertyHandler, *fakeProperties, *fakeReservations, *fakeChats, *capturedEvents) {
	props := &fakeProperties{props: map[string]*model.Property{}}
	res := &fakeReservations{}
	chats := &fakeChats{}
	events := &capturedEvents{}
	h := &PropertyHandler{Properties: props, Reservations: res, Chats: chats, Events: events}
	return h, props, res, chats, events
}

// request builds an Echo context with optional body, claims and :id param.
func request(method, body string, claims *utils.AccessClaims, paramID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("claims", claims)
	}
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	return c, rec
}

func TestPropertyCreate(t *testing.T) {
	t.Parallel()

	t.Run("created with chat for owner", func(t *testing.T) {
		h, props, _, chats, _ := newPropertyHandler()
		claims := &utils.AccessClaims{UserID: "u1", OwnerID: "o1", Role: model.RoleOwner}
		c, rec := request(http.MethodPost, `{"name":"Sea View","price":120,"currency":"USD","bedrooms":2,"bathrooms":1}`, claims, "")

		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var got model.Property
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, "o1", got.OwnerID)
		require.Equal(t, "Sea View", got.Name)

		require.Len(t, props.props, 1)
		require.Equal(t, [][]string{{"u1"}}, chats.created, "owner must be the chat's first participant")
	})

	t.Run("missing name rejected", func(t *testing.T) {
		h, _, _, _, _ := newPropertyHandler()
		claims := &utils.AccessClaims{UserID: "u1", OwnerID: "o1", Role: model.RoleOwner}
		c, rec := request(http.MethodPost, `{"price":120,"currency":"USD"}`, claims, "")

		err := h.Create(c)
		if err != nil {
			c.Echo().HTTPErrorHandler(err, c)
		}
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPropertyReserve(t *testing.T) {
	t.Parallel()

	seed := func(props *fakeProperties) {
		props.props["p1"] = &model.Property{
			ID:       "p1",
			OwnerID:  "o1",
			Name:     "Sea View",
			Price:    decimal.NewFromInt(100),
			Currency: "USD",
		}
	}

	t.Run("total is price times nights times guests", func(t *testing.T) {
		h, props, res, _, events := newPropertyHandler()
		seed(props)
		claims := &utils.AccessClaims{UserID: "u2", GuestID: "g1", Role: model.RoleGuest}
		body := `{"checkIn":"2026-10-01T00:00:00Z","checkOut":"2026-10-04T00:00:00Z","guestIds":["g1","g2"]}`
		c, rec := request(http.MethodPost, body, claims, "p1")

		require.NoError(t, h.Reserve(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		// 3 nights x 2 guests x 100 = 600
		require.Len(t, res.created, 1)
		require.True(t, res.created[0].Total.Equal(decimal.NewFromInt(600)),
			"got total %s", res.created[0].Total)
		require.Equal(t, "USD", res.created[0].Currency)
		require.Equal(t, [][]string{{"g1", "g2"}}, res.guestIDs)

		require.Len(t, events.events, 1)
		require.Equal(t, "r1", events.events[0].ReservationID)
		require.Equal(t, "600", events.events[0].Total)
	})

	t.Run("unknown property is 404", func(t *testing.T) {
		h, _, _, _, _ := newPropertyHandler()
		claims := &utils.AccessClaims{UserID: "u2", GuestID: "g1", Role: model.RoleGuest}
		body := `{"checkIn":"2026-10-01T00:00:00Z","checkOut":"2026-10-02T00:00:00Z","guestIds":["g1"]}`
		c, rec := request(http.MethodPost, body, claims, "missing")

		require.NoError(t, h.Reserve(c))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `{"message":"Property not found"}`, rec.Body.String())
	})

	t.Run("check-out before check-in rejected", func(t *testing.T) {
		h, props, _, _, _ := newPropertyHandler()
		seed(props)
		claims := &utils.AccessClaims{UserID: "u2", GuestID: "g1", Role: model.RoleGuest}
		body := `{"checkIn":"2026-10-04T00:00:00Z","checkOut":"2026-10-01T00:00:00Z","guestIds":["g1"]}`
		c, rec := request(http.MethodPost, body, claims, "p1")

		require.NoError(t, h.Reserve(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPropertyByID(t *testing.T) {
	t.Parallel()

	t.Run("unknown property is 404", func(t *testing.T) {
		h, _, _, _, _ := newPropertyHandler()
		c, rec := request(http.MethodGet, "", nil, "missing")
		require.NoError(t, h.ByID(c))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("owner include adds contact block", func(t *testing.T) {
		h, props, _, _, _ := newPropertyHandler()
		props.props["p1"] = &model.Property{ID: "p1", OwnerID: "o1", Name: "Sea View", Currency: "USD"}

		e := echo.New()
		e.Validator = NewValidator()
		req := httptest.NewRequest(http.MethodGet, "/?owner=true", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("p1")

		require.NoError(t, h.ByID(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Contains(t, got, "owner")
	})
}

func TestReservationByID(t *testing.T) {
	t.Parallel()

	detail := &repository.ReservationDetail{
		Reservation:     model.Reservation{ID: "r1", PropertyID: "p1"},
		PropertyOwnerID: "o1",
		Guests:          []repository.ReservationGuest{{ID: "g1", UserID: "u2", Name: "Bob"}},
	}

	t.Run("property owner may read", func(t *testing.T) {
		require.True(t, canReadReservation("o1", "", detail))
	})

	t.Run("staying guest may read", func(t *testing.T) {
		require.True(t, canReadReservation("", "g1", detail))
	})

	t.Run("other owner may not", func(t *testing.T) {
		require.False(t, canReadReservation("o2", "", detail))
	})

	t.Run("other guest may not", func(t *testing.T) {
		require.False(t, canReadReservation("", "g9", detail))
	})
}
