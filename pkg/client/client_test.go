package client

import (
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/thermoreg/thermoreg/pkg/sim"
)

func serveUnix(t *testing.T, handler http.Handler) string {
	t.Helper()

	sock := filepath.Join(t.TempDir(), "thermoreg.sock")
	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("failed to listen on unix socket: %v", err)
	}

	srv := &http.Server{Handler: handler}
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return sock
}

func TestClientDecodesTypedResponses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(sim.Snapshot{
			Temperature:   20,
			BatteryCharge: 22,
			State:         sim.StateCharging,
		})
	})

	c := NewClient(serveUnix(t, mux))
	snap, err := c.GetSnapshot()
	if err != nil {
		t.Fatalf("GetSnapshot returned error: %v", err)
	}
	if snap.State != sim.StateCharging {
		t.Fatalf("snapshot state = %q, want %q", snap.State, sim.StateCharging)
	}
	if snap.Temperature != 20 || snap.BatteryCharge != 22 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestClientSendsJSONBodies(t *testing.T) {
	gotMS := make(chan int, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/tick-interval", func(w http.ResponseWriter, r *http.Request) {
		var ms int
		if err := json.NewDecoder(r.Body).Decode(&ms); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotMS <- ms
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode("set tick interval to 250ms")
	})

	c := NewClient(serveUnix(t, mux))
	msg, err := c.SetTickInterval(250 * time.Millisecond)
	if err != nil {
		t.Fatalf("SetTickInterval returned error: %v", err)
	}
	if msg != "set tick interval to 250ms" {
		t.Fatalf("response message = %q", msg)
	}
	if ms := <-gotMS; ms != 250 {
		t.Fatalf("daemon received %d ms, want 250", ms)
	}
}

func TestClientSurfacesErrorResponses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/reseed-schedule", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad cron expression", http.StatusBadRequest)
	})

	c := NewClient(serveUnix(t, mux))
	if _, err := c.SetReseedSchedule("no such thing"); err == nil {
		t.Fatalf("expected error for a 400 response")
	}
}
