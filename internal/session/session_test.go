package session_test

import (
	"sync"
	"testing"

	"tsunagari/internal/domain"
	"tsunagari/internal/session"
)

func TestStartGetEnd(t *testing.T) {
	m := session.NewManager()

	st := m.Start(domain.SurfacePairing, "akane")
	if st.ID == "" {
		t.Fatal("session id must be assigned")
	}
	if st.Surface != domain.SurfacePairing || st.Handle != "akane" {
		t.Fatalf("state = %+v", st)
	}

	got, ok := m.Get(st.ID)
	if !ok || got.Handle != "akane" {
		t.Fatalf("lookup failed: %+v %v", got, ok)
	}

	m.End(st.ID)
	if _, ok := m.Get(st.ID); ok {
		t.Fatal("ended session still resolvable")
	}
	// Ending twice is harmless.
	m.End(st.ID)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := session.NewManager()

	a := m.Start(domain.SurfacePairing, "akane")
	b := m.Start(domain.SurfacePairing, "akane") // same handle, second login

	if a.ID == b.ID {
		t.Fatal("two logins must get distinct sessions")
	}
	m.Update(a.ID, func(st *session.State) { st.Partner = "midori" })
	got, _ := m.Get(b.ID)
	if got.Partner != "" {
		t.Fatalf("update leaked across sessions: %+v", got)
	}
}

func TestUpdateUnknownSession(t *testing.T) {
	m := session.NewManager()
	if m.Update("missing", func(st *session.State) { st.CardIndex = 5 }) {
		t.Fatal("update of a missing session must report false")
	}
}

// TestConcurrentUpdates mixes writers with readers, mirroring the
// polling client: state refreshes and user actions hit the same
// session at once. Run with -race.
func TestConcurrentUpdates(t *testing.T) {
	m := session.NewManager()
	st := m.Start(domain.SurfacePairing, "akane")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update(st.ID, func(s *session.State) {
				s.CardIndex++
				s.Partner = "midori"
			})
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := m.Get(st.ID)
			if !ok {
				t.Error("session vanished mid-read")
				return
			}
			// The snapshot must be internally consistent even while
			// writers are running.
			_ = got.CardIndex
			_ = got.Partner
		}()
	}
	wg.Wait()

	got, _ := m.Get(st.ID)
	if got.CardIndex != 50 {
		t.Fatalf("lost updates: CardIndex = %d", got.CardIndex)
	}
}
