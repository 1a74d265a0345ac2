package collab

import "testing"

func TestPresenceTable(t *testing.T) {
	table := newPresenceTable()

	table.Set("user_a", PresencePayload{Selection: "layer_1", DisplayName: "Ada"})
	table.Set("user_b", PresencePayload{Cursor: &CursorPos{X: 10, Y: 20}})

	snap := table.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("got %d entries, want 2", len(snap))
	}
	if snap["user_a"].Selection != "layer_1" {
		t.Errorf("user_a selection = %q", snap["user_a"].Selection)
	}

	// A second update replaces the stale entry for the same user.
	table.Set("user_a", PresencePayload{Selection: ""})
	if table.Snapshot()["user_a"].Selection != "" {
		t.Error("updated presence not reflected")
	}

	table.Drop("user_b")
	if _, ok := table.Snapshot()["user_b"]; ok {
		t.Error("dropped user still present")
	}

	// Snapshot hands out copies; mutating one must not leak back.
	snap = table.Snapshot()
	snap["user_a"].Selection = "layer_hacked"
	if table.Snapshot()["user_a"].Selection == "layer_hacked" {
		t.Error("snapshot aliases internal state")
	}
}
