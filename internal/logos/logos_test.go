package logos

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

func str(s string) *string { return &s }

func sponsors() Collection {
	return Collection{
		{Code: "SP1", URL: "a", Position: []string{"top-left"}, TypeDisplay: "square"},
		{Code: "SP2", URL: "b", Position: []string{"bottom-right"}, TypeDisplay: "round"},
	}
}

func TestReconcile_RemoveKeepsArraysAligned(t *testing.T) {
	wire := types.LogoCollection{CodeLogo: []string{"SP1"}}
	next := Reconcile(sponsors(), PatchFromWire(types.BehaviorRemove, &wire))

	got := next.ToWire()
	assert.Equal(t, []string{"SP2"}, got.CodeLogo)
	assert.Equal(t, []*string{str("b")}, got.URLLogo)
	assert.Equal(t, [][]string{{"bottom-right"}}, got.Position)
	assert.Equal(t, []*string{str("round")}, got.TypeDisplay)
}

func TestReconcile_DoesNotModifyCurrent(t *testing.T) {
	current := sponsors()
	_ = Reconcile(current, Patch{Behavior: types.BehaviorUpdate, Entries: []Entry{
		{Code: "SP1", URL: str("changed"), Position: []string{"center"}},
	}})
	_ = Reconcile(current, Patch{Behavior: types.BehaviorRemove, Entries: []Entry{{Code: "SP1"}}})

	assert.Equal(t, sponsors(), current)
}

func TestReconcile(t *testing.T) {
	cases := []struct {
		name  string
		patch Patch
		want  Collection
	}{
		{
			name: "add appends with defaults",
			patch: Patch{Behavior: types.BehaviorAdd, Entries: []Entry{
				{Code: "SP3"},
			}},
			want: append(sponsors(), Logo{Code: "SP3", Position: []string{}}),
		},
		{
			name: "add of existing code is a no-op",
			patch: Patch{Behavior: types.BehaviorAdd, Entries: []Entry{
				{Code: "SP1", URL: str("other")},
			}},
			want: sponsors(),
		},
		{
			name: "add repeated inside one patch appends once",
			patch: Patch{Behavior: types.BehaviorAdd, Entries: []Entry{
				{Code: "SP9", URL: str("x")},
				{Code: "SP9", URL: str("y")},
			}},
			want: append(sponsors(), Logo{Code: "SP9", URL: "x", Position: []string{}}),
		},
		{
			name: "update overwrites only provided fields",
			patch: Patch{Behavior: types.BehaviorUpdate, Entries: []Entry{
				{Code: "SP2", TypeDisplay: str("square")},
			}},
			want: Collection{
				{Code: "SP1", URL: "a", Position: []string{"top-left"}, TypeDisplay: "square"},
				{Code: "SP2", URL: "b", Position: []string{"bottom-right"}, TypeDisplay: "square"},
			},
		},
		{
			name: "update of unknown code is a no-op",
			patch: Patch{Behavior: types.BehaviorUpdate, Entries: []Entry{
				{Code: "NOPE", URL: str("z")},
			}},
			want: sponsors(),
		},
		{
			name:  "remove of unknown code is a no-op",
			patch: Patch{Behavior: types.BehaviorRemove, Entries: []Entry{{Code: "NOPE"}}},
			want:  sponsors(),
		},
		{
			name:  "unknown behavior is a no-op",
			patch: Patch{Behavior: "shuffle", Entries: []Entry{{Code: "SP1"}}},
			want:  sponsors(),
		},
		{
			name: "missing behavior replaces the collection",
			patch: Patch{Entries: []Entry{
				{Code: "OR1", URL: str("o")},
				{Code: "OR1", URL: str("dup")},
			}},
			want: Collection{{Code: "OR1", URL: "o", Position: []string{}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Reconcile(sponsors(), tc.patch))
		})
	}
}

func TestReconcile_AddIsIdempotent(t *testing.T) {
	patch := Patch{Behavior: types.BehaviorAdd, Entries: []Entry{
		{Code: "SP3", URL: str("c"), Position: []string{"top-right"}},
		{Code: "SP1", URL: str("ignored")},
	}}

	once := Reconcile(sponsors(), patch)
	twice := Reconcile(once, patch)
	assert.Equal(t, once, twice)
}

func TestReconcile_InvariantHoldsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	behaviors := []string{types.BehaviorAdd, types.BehaviorUpdate, types.BehaviorRemove}

	c := Collection{}
	for step := 0; step < 500; step++ {
		n := rng.IntN(4) + 1
		wire := types.LogoCollection{}
		for i := 0; i < n; i++ {
			wire.CodeLogo = append(wire.CodeLogo, fmt.Sprintf("L%d", rng.IntN(8)))
			// leave the other arrays ragged on purpose
			if rng.IntN(2) == 0 {
				wire.URLLogo = append(wire.URLLogo, str(fmt.Sprintf("u%d", step)))
			}
			if rng.IntN(3) == 0 {
				wire.Position = append(wire.Position, []string{"top-left"})
			}
		}
		c = Reconcile(c, PatchFromWire(behaviors[rng.IntN(len(behaviors))], &wire))

		w := c.ToWire()
		require.Len(t, w.URLLogo, len(w.CodeLogo))
		require.Len(t, w.Position, len(w.CodeLogo))
		require.Len(t, w.TypeDisplay, len(w.CodeLogo))

		seen := map[string]bool{}
		for _, code := range w.CodeLogo {
			require.False(t, seen[code], "duplicate code %s at step %d", code, step)
			seen[code] = true
		}
	}
}

func TestFromWire_PadsAndDedupes(t *testing.T) {
	w := &types.LogoCollection{
		CodeLogo:    []string{"A", "B", "A"},
		URLLogo:     []*string{str("ua")},
		TypeDisplay: []*string{nil, str("round")},
	}

	got := FromWire(w)
	assert.Equal(t, Collection{
		{Code: "A", URL: "ua", Position: []string{}},
		{Code: "B", Position: []string{}, TypeDisplay: "round"},
	}, got)
	assert.Equal(t, Collection{}, FromWire(nil))
}

func TestToWire_RoundTrip(t *testing.T) {
	w := sponsors().ToWire()
	assert.Equal(t, sponsors(), FromWire(&w))
}
