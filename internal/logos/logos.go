package logos

import (
	"slices"

	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

// Logo is one entry of a logo collection. Position is never nil.
type Logo struct {
	Code        string   `json:"code"`
	URL         string   `json:"url"`
	Position    []string `json:"position"`
	TypeDisplay string   `json:"typeDisplay"`
}

// Collection is an ordered set of logos keyed by Code.
type Collection []Logo

// Entry is one logo of an incoming patch. Nil fields were not provided.
type Entry struct {
	Code        string
	URL         *string
	Position    []string
	TypeDisplay *string
}

type Patch struct {
	Behavior string
	Entries  []Entry
}

func (c Collection) IndexOf(code string) int {
	return slices.IndexFunc(c, func(l Logo) bool { return l.Code == code })
}

func (c Collection) Codes() []string {
	codes := make([]string, len(c))
	for i, l := range c {
		codes[i] = l.Code
	}
	return codes
}

func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, l := range c {
		out[i] = l.clone()
	}
	return out
}

func (l Logo) clone() Logo {
	l.Position = append([]string{}, l.Position...)
	return l
}

// Reconcile merges patch into current and returns the next collection.
// current is never modified. Entries apply one at a time in patch order,
// so a code repeated inside one add patch is only appended once.
func Reconcile(current Collection, patch Patch) Collection {
	switch patch.Behavior {
	case "":
		return replace(patch.Entries)
	case types.BehaviorAdd, types.BehaviorUpdate, types.BehaviorRemove:
	default:
		return current
	}

	next := current.Clone()
	for _, e := range patch.Entries {
		idx := next.IndexOf(e.Code)
		switch patch.Behavior {
		case types.BehaviorAdd:
			if idx == -1 {
				next = append(next, newLogo(e))
			}
		case types.BehaviorUpdate:
			if idx != -1 {
				next[idx] = merge(next[idx], e)
			}
		case types.BehaviorRemove:
			if idx != -1 {
				next = slices.Delete(next, idx, idx+1)
			}
		}
	}
	return next
}

func replace(entries []Entry) Collection {
	next := Collection{}
	for _, e := range entries {
		if next.IndexOf(e.Code) == -1 {
			next = append(next, newLogo(e))
		}
	}
	return next
}

func newLogo(e Entry) Logo {
	return merge(Logo{Code: e.Code, Position: []string{}}, e)
}

func merge(l Logo, e Entry) Logo {
	if e.URL != nil {
		l.URL = *e.URL
	}
	if e.Position != nil {
		l.Position = append([]string{}, e.Position...)
	}
	if e.TypeDisplay != nil {
		l.TypeDisplay = *e.TypeDisplay
	}
	return l
}
