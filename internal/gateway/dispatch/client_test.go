package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"dispatcherhub/internal/domain"
	dispatchgw "dispatcherhub/internal/gateway/dispatch"
	"dispatcherhub/internal/metrics"
)

func newClient(t *testing.T, h http.HandlerFunc) *dispatchgw.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return dispatchgw.NewClient(srv.URL+"/", 0, nil)
}

func TestClient_ListLoads_AcceptsNumberAndStringIDs(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/loads", r.URL.Path)
		_, _ = io.WriteString(w, `{"loads":[
			{"id":1,"ref":"L-1","pickup_lat":41.8781,"pickup_lon":-87.6298,"drop_lat":39.7392,"drop_lon":-104.9903,"status":"unassigned"},
			{"id":"abc","ref":"L-2","status":"in_transit"}
		]}`)
	})

	got, err := c.ListLoads(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "1", got[0].ID)
	require.Equal(t, domain.LatLon{Lat: 41.8781, Lon: -87.6298}, got[0].Pickup)
	require.Equal(t, domain.DispatchUnassigned, got[0].Status)
	require.Equal(t, "abc", got[1].ID)
	require.Equal(t, domain.DispatchInTransit, got[1].Status)
}

func TestClient_ListLoads_MissingKeyIsEmpty(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	got, err := c.ListLoads(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClient_NonOK_ReturnsHTTPError(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.ETA(context.Background(), domain.LatLon{}, domain.LatLon{})
	var he *dispatchgw.HTTPError
	require.True(t, errors.As(err, &he))
	require.Equal(t, 500, he.StatusCode)
	require.Equal(t, "500 Internal Server Error", err.Error())
}

func TestClient_ETA_SendsTripQuery(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/eta", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "41.8781", q.Get("from_lat"))
		require.Equal(t, "-87.6298", q.Get("from_lon"))
		require.Equal(t, "39.7392", q.Get("to_lat"))
		require.Equal(t, "-104.9903", q.Get("to_lon"))
		_, _ = io.WriteString(w, `{"distance_km":1480.2,"eta_minutes":900,"avg_speed_kph":98.7,"source":"osrm"}`)
	})

	eta, err := c.ETA(context.Background(),
		domain.LatLon{Lat: 41.8781, Lon: -87.6298},
		domain.LatLon{Lat: 39.7392, Lon: -104.9903})
	require.NoError(t, err)
	require.Equal(t, domain.ETA{DistanceKM: 1480.2, ETAMinutes: 900, AvgSpeedKPH: 98.7, Source: "osrm"}, eta)
}

func TestClient_Route_DecodesGeometry(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/eta/route", r.URL.Path)
		_, _ = io.WriteString(w, `{"geometry":{"coordinates":[[-87.6,41.9],[-104.9,39.7]]}}`)
	})

	route, err := c.Route(context.Background(), domain.LatLon{}, domain.LatLon{})
	require.NoError(t, err)
	require.Equal(t, [][2]float64{{-87.6, 41.9}, {-104.9, 39.7}}, route.Coordinates)
}

func TestClient_CreateLoad_Body(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]float64{
			"pickup_lat": 34.0522, "pickup_lon": -118.2437,
			"drop_lat": 36.1699, "drop_lon": -115.1398,
		}, body)
		w.WriteHeader(http.StatusCreated)
	})

	err := c.CreateLoad(context.Background(), domain.NewDispatchLoad{
		Pickup: domain.LatLon{Lat: 34.0522, Lon: -118.2437},
		Drop:   domain.LatLon{Lat: 36.1699, Lon: -115.1398},
	})
	require.NoError(t, err)
}

func TestClient_SetStatus(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/loads/7/status", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "delivered", body["status"])
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SetStatus(context.Background(), "7", domain.DispatchDelivered))
}

func TestClient_SendFeedback_Payload(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/copilot/feedback", r.URL.Path)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"load_id":12,"vehicle_id":null,"verdict":"up","reason":"ui","score":1}`, string(b))
	})

	require.NoError(t, c.SendFeedback(context.Background(), domain.Feedback{
		LoadID: "12", Verdict: domain.VerdictUp, Reason: "ui", Score: 1,
	}))
}

func TestClient_SendFeedback_StringID(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"load_id":"ab-1","vehicle_id":null,"verdict":"down","reason":"ui","score":0}`, string(b))
	})

	require.NoError(t, c.SendFeedback(context.Background(), domain.Feedback{
		LoadID: "ab-1", Verdict: domain.VerdictDown, Reason: "ui",
	}))
}

func TestClient_Health_CountsOutcomes(t *testing.T) {
	t.Parallel()

	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	t.Cleanup(srv.Close)

	m := metrics.NewDomain(nil)
	c := dispatchgw.NewClient(srv.URL, 0, m.DispatchAPIRequests)

	require.NoError(t, c.Health(context.Background()))
	status.Store(http.StatusServiceUnavailable)
	require.Error(t, c.Health(context.Background()))

	require.Equal(t, 1.0, testutil.ToFloat64(m.DispatchAPIRequests.WithLabelValues("health", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.DispatchAPIRequests.WithLabelValues("health", "http_5xx")))
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := dispatchgw.NewClient(url, 0, nil)
	_, err := c.ListLoads(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "dispatch api: GET /loads")
}
