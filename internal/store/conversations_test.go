package store_test

import (
	"testing"
	"time"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/identity"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/store"
)

const me = "u-me"

func conv(id, otherID, otherEmail string, updatedAt time.Time) model.Conversation {
	return model.Conversation{
		ID: id,
		Participants: []model.User{
			{ID: me, Email: "me@example.com", Role: model.RoleBusiness},
			{ID: otherID, Email: otherEmail, Role: model.RoleStudent},
		},
		UpdatedAt: updatedAt,
	}
}

func viewConvs(views []store.ConversationView) []model.Conversation {
	out := make([]model.Conversation, len(views))
	for i, v := range views {
		out[i] = v.Conversation
	}
	return out
}

func TestDedupeKeepsLatestPerCounterpart(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := []model.Conversation{
		conv("c1", "u-amara", "amara@example.com", base),
		conv("c2", "u-bekele", "bekele@example.com", base.Add(time.Minute)),
		conv("c3", "u-amara", "amara@example.com", base.Add(2*time.Minute)),
	}

	views := store.Dedupe(list, me, identity.NewRoster())

	if len(views) != 2 {
		t.Fatalf("got %d conversations, want 2", len(views))
	}
	// First-seen order: amara's group appeared first, represented by c3.
	if views[0].Conversation.ID != "c3" {
		t.Errorf("views[0] = %s, want c3 (latest for u-amara)", views[0].Conversation.ID)
	}
	if views[1].Conversation.ID != "c2" {
		t.Errorf("views[1] = %s, want c2", views[1].Conversation.ID)
	}
}

func TestDedupeTieKeepsFirstSeen(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := []model.Conversation{
		conv("c1", "u-amara", "amara@example.com", at),
		conv("c2", "u-amara", "amara@example.com", at),
	}

	views := store.Dedupe(list, me, identity.NewRoster())

	if len(views) != 1 || views[0].Conversation.ID != "c1" {
		t.Fatalf("got %v, want just c1", viewConvs(views))
	}
}

func TestDedupeIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := []model.Conversation{
		conv("c1", "u-amara", "amara@example.com", base.Add(time.Hour)),
		conv("c2", "u-amara", "amara@example.com", base),
		conv("c3", "u-bekele", "bekele@example.com", base),
		conv("c4", "u-bekele", "bekele@example.com", base.Add(2*time.Hour)),
		{ID: "c5", UpdatedAt: base}, // malformed, no participants
	}
	roster := identity.NewRoster()

	once := store.Dedupe(list, me, roster)
	twice := store.Dedupe(viewConvs(once), me, roster)

	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Conversation.ID != twice[i].Conversation.ID {
			t.Errorf("position %d: %s then %s", i, once[i].Conversation.ID, twice[i].Conversation.ID)
		}
	}

	// At most one conversation per distinct counterpart id.
	seen := make(map[string]bool)
	for _, v := range once {
		if v.Counterpart.Known {
			if seen[v.Counterpart.UserID] {
				t.Errorf("duplicate counterpart %s in result", v.Counterpart.UserID)
			}
			seen[v.Counterpart.UserID] = true
		}
	}
}

func TestDedupeUnknownCounterpartsNeverCollapse(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := []model.Conversation{
		{ID: "c1", UpdatedAt: at},
		{ID: "c2", UpdatedAt: at},
	}

	views := store.Dedupe(list, me, identity.NewRoster())

	if len(views) != 2 {
		t.Fatalf("got %d conversations, want 2 separate unknown threads", len(views))
	}
}

func TestSnapshotFilterByCounterpartName(t *testing.T) {
	roster := identity.NewRoster()
	roster.Replace([]model.StudentProfile{
		{UserID: "u-amara", FirstName: "Amara", LastName: "Phiri"},
		{UserID: "u-bekele", FirstName: "Bekele", LastName: "Tadesse"},
	})

	s := store.NewConversationStore(me, roster)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Replace([]model.Conversation{
		conv("c1", "u-amara", "amara@example.com", base),
		conv("c2", "u-bekele", "bekele@example.com", base),
	})

	s.SetFilter("amara")
	views := s.Snapshot()
	if len(views) != 1 || views[0].Conversation.ID != "c1" {
		t.Fatalf("filtered snapshot = %v, want just c1", viewConvs(views))
	}

	s.SetFilter("")
	if got := len(s.Snapshot()); got != 2 {
		t.Fatalf("unfiltered snapshot has %d entries, want 2", got)
	}
}

func TestTouchBumpsUpdatedAt(t *testing.T) {
	s := store.NewConversationStore(me, identity.NewRoster())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Replace([]model.Conversation{conv("c1", "u-amara", "amara@example.com", base)})

	later := base.Add(time.Minute)
	s.Touch("c1", later)

	got, ok := s.Get("c1")
	if !ok || !got.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}

	// An older timestamp never rewinds the record.
	s.Touch("c1", base)
	got, _ = s.Get("c1")
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt rewound to %v", got.UpdatedAt)
	}

	// Unknown ids are ignored.
	s.Touch("nope", later)
}

func TestUpsert(t *testing.T) {
	s := store.NewConversationStore(me, identity.NewRoster())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	c := conv("c1", "u-amara", "amara@example.com", base)
	s.Upsert(c)
	if _, ok := s.Get("c1"); !ok {
		t.Fatal("expected c1 after upsert")
	}

	c.UpdatedAt = base.Add(time.Hour)
	s.Upsert(c)
	got, _ := s.Get("c1")
	if !got.UpdatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("UpdatedAt = %v after second upsert", got.UpdatedAt)
	}
	if len(s.Snapshot()) != 1 {
		t.Fatal("upsert of an existing id must not add a row")
	}
}

func TestSnapshotIsolatedFromLaterMutation(t *testing.T) {
	s := store.NewConversationStore(me, identity.NewRoster())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Replace([]model.Conversation{conv("c1", "u-amara", "amara@example.com", base)})

	snap := s.Snapshot()
	s.Touch("c1", base.Add(time.Hour))

	if !snap[0].Conversation.UpdatedAt.Equal(base) {
		t.Fatal("earlier snapshot observed a later mutation")
	}
}
