package pairing

import "testing"

func TestIDCommutative(t *testing.T) {
	pairs := [][2]string{
		{"a1", "b2"},
		{"zz", "aa"},
		{"user-1", "user-2"},
		{"9", "10"}, // lexicographic, not numeric
	}
	for _, p := range pairs {
		if got, rev := ID(p[0], p[1]), ID(p[1], p[0]); got != rev {
			t.Errorf("ID(%q, %q) = %q but reversed = %q", p[0], p[1], got, rev)
		}
	}
}

func TestIDKnownValue(t *testing.T) {
	if got := ID("a1", "b2"); got != "a1_b2" {
		t.Errorf("ID(a1, b2) = %q, want a1_b2", got)
	}
	if got := ID("b2", "a1"); got != "a1_b2" {
		t.Errorf("ID(b2, a1) = %q, want a1_b2", got)
	}
}

func TestContains(t *testing.T) {
	id := ID("a1", "b2")
	if !Contains(id, "a1") || !Contains(id, "b2") {
		t.Errorf("Contains(%q) should match both members", id)
	}
	if Contains(id, "c3") {
		t.Errorf("Contains(%q, c3) = true, want false", id)
	}
	if Contains(id, "") {
		t.Error("Contains with empty uid should be false")
	}
	if Contains(id, "a") {
		t.Error("Contains must not match uid prefixes")
	}
}

func TestIDDistinctPairs(t *testing.T) {
	uids := []string{"a", "b", "c", "d"}
	seen := make(map[string][2]string)
	for i, x := range uids {
		for _, y := range uids[i+1:] {
			id := ID(x, y)
			if prev, dup := seen[id]; dup {
				t.Errorf("pairs (%s,%s) and (%s,%s) collide on %q", prev[0], prev[1], x, y, id)
			}
			seen[id] = [2]string{x, y}
		}
	}
}
