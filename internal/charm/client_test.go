// ABOUTME: Unit tests for the Charm KV adapter helpers.
// ABOUTME: Network-backed paths are exercised only through the store.KV contract.
package charm

import (
	"testing"
)

func TestFilterPrefix(t *testing.T) {
	keys := [][]byte{
		[]byte("workouts/w1"),
		[]byte("workout_exercises/e1"),
		[]byte("workouts/w2"),
		[]byte("sets/s1"),
	}

	got := filterPrefix(keys, []byte("workouts/"))
	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(got))
	}
	for _, k := range got {
		if string(k[:9]) != "workouts/" {
			t.Errorf("unexpected key %q", k)
		}
	}
}

func TestFilterPrefixNoMatch(t *testing.T) {
	got := filterPrefix([][]byte{[]byte("sets/s1")}, []byte("workout_templates/"))
	if len(got) != 0 {
		t.Errorf("expected no keys, got %d", len(got))
	}
}
