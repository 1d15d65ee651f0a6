package main

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/maze-pursuit/internal/scenario"
	"github.com/Garsondee/maze-pursuit/internal/stream"
)

// restartDelay is how long a finished run stays on viewers' screens.
const restartDelay = 2 * time.Second

// serveRuns plays runs back to back at fps, publishing every frame. Viewer
// steering replaces the wanderer while requests keep arriving.
func serveRuns(addr string, sc *scenario.Scenario, fps int, seed int64, wander float64) error {
	if fps <= 0 {
		fps = 60
	}
	hub := stream.NewHub(stream.HubConfig{})
	defer hub.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", stream.NewHandler(hub, stream.HandlerConfig{}).Handle)
	srv := &http.Server{Addr: addr, Handler: mux}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf("streaming frames on ws://%s/ws", addr)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for run := 0; ; run++ {
		s, err := sc.Build()
		if err != nil {
			return err
		}
		id := uuid.NewString()
		hub.SetRun(id)
		log.Printf("run %s started (viewers=%d)", id, hub.Viewers())

		w := newWanderer(seed+int64(run), wander)
		if err := hub.Publish(s.Frame()); err != nil {
			return err
		}
		for !s.Outcome().Ended {
			select {
			case err := <-errc:
				return err
			case <-ticker.C:
			}
			if hub.Drain(s) == 0 {
				w.steer(s)
			}
			if _, err := s.Step(); err != nil {
				return err
			}
			if err := hub.Publish(s.Frame()); err != nil {
				return err
			}
		}
		log.Printf("run %s: %s at T=%d", id, outcomeLabel(s.Outcome()), s.CurrentTick())

		select {
		case err := <-errc:
			return err
		case <-time.After(restartDelay):
		}
	}
}
