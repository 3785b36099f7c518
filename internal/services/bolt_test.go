package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boltNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestBoltServer(t *testing.T, failVehicles bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("client_id") != "id" || r.PostForm.Get("client_secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "fleet-integration:api", r.PostForm.Get("scope"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})

	authorized := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("/v1/drivers", authorized(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"drivers":[{"id":42,"first_name":"Rui","last_name":"Costa","tax_id":"111"}]}`))
	}))
	mux.HandleFunc("/v1/vehicles", authorized(func(w http.ResponseWriter, r *http.Request) {
		if failVehicles {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"vehicles":[{"id":"v9","plate_number":"ZZ-99-ZZ","make":"Kia","year":"2021"}]}`))
	}))
	mux.HandleFunc("/v1/earnings", authorized(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-02-08", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-03-10", r.URL.Query().Get("end_date"))
		w.Write([]byte(`{"earnings":[{"id":"e1","driver_name":"Rui Costa","amount":"310,40"},{"id":"e2","name":"Ana","total_amount":120}]}`))
	}))

	return httptest.NewServer(mux)
}

func newTestBoltClient(srv *httptest.Server) *HTTPBoltClient {
	c := NewHTTPBoltClient(srv.URL+"/token", srv.URL+"/v1/", 5*time.Second)
	c.Now = func() time.Time { return boltNow }
	return c
}

func TestHTTPBoltClient_Sync(t *testing.T) {
	srv := newTestBoltServer(t, false)
	defer srv.Close()

	payload, err := newTestBoltClient(srv).Sync(context.Background(), BoltCredentials{ClientID: "id", ClientSecret: "secret"})
	require.NoError(t, err)

	assert.False(t, payload.IsMock)
	require.Len(t, payload.Drivers, 1)
	assert.Equal(t, FlexString("42"), payload.Drivers[0].ID)
	assert.Equal(t, "Rui Costa", payload.Drivers[0].DisplayName())

	require.Len(t, payload.Vehicles, 1)
	assert.Equal(t, "ZZ-99-ZZ", payload.Vehicles[0].PlateValue())
	assert.Equal(t, FlexFloat(2021), payload.Vehicles[0].Year)

	require.Len(t, payload.Earnings, 2)
	assert.Equal(t, FlexFloat(310.40), payload.Earnings[0].Amount)
	assert.Equal(t, FlexFloat(120), payload.Earnings[1].TotalAmount)
}

func TestHTTPBoltClient_FailedListIsEmpty(t *testing.T) {
	srv := newTestBoltServer(t, true)
	defer srv.Close()

	payload, err := newTestBoltClient(srv).Sync(context.Background(), BoltCredentials{ClientID: "id", ClientSecret: "secret"})
	require.NoError(t, err)

	assert.NotNil(t, payload.Vehicles)
	assert.Empty(t, payload.Vehicles)
	assert.Len(t, payload.Drivers, 1)
}

func TestHTTPBoltClient_TokenFailure(t *testing.T) {
	srv := newTestBoltServer(t, false)
	defer srv.Close()

	payload, err := newTestBoltClient(srv).Sync(context.Background(), BoltCredentials{ClientID: "id", ClientSecret: "wrong"})
	assert.ErrorIs(t, err, ErrBoltToken)
	assert.Nil(t, payload)
}

func TestHTTPBoltClient_MissingCredentialsReturnsMock(t *testing.T) {
	c := NewHTTPBoltClient("http://127.0.0.1:0/token", "http://127.0.0.1:0", time.Second)
	c.Now = func() time.Time { return boltNow }

	payload, err := c.Sync(context.Background(), BoltCredentials{ClientID: "only-id"})
	require.NoError(t, err)

	assert.True(t, payload.IsMock)
	assert.Len(t, payload.Drivers, 2)
	assert.Len(t, payload.Vehicles, 2)
	require.Len(t, payload.Earnings, 2)
	assert.Equal(t, "2026-03-10", payload.Earnings[0].Date)
	assert.Equal(t, "Semana Atual", payload.Earnings[0].Period)
}

func TestMockPayload_JSON(t *testing.T) {
	data, err := json.Marshal(MockPayload(boltNow))
	require.NoError(t, err)

	var decoded BoltPayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.IsMock)
	assert.Equal(t, FlexFloat(450.50), decoded.Earnings[0].Amount)
	assert.Equal(t, FlexString("mock-1"), decoded.Drivers[0].ID)
}

func TestResolveBoltCredentials(t *testing.T) {
	env := BoltCredentials{ClientID: "env-id", ClientSecret: "env-secret"}

	got := ResolveBoltCredentials(models.CompanySettings{BoltClientID: "s-id", BoltClientSecret: "s-secret"}, env)
	assert.Equal(t, BoltCredentials{ClientID: "s-id", ClientSecret: "s-secret"}, got)

	got = ResolveBoltCredentials(models.CompanySettings{BoltClientID: "s-id"}, env)
	assert.Equal(t, env, got)
}
