package logos

import "github.com/ngoclaithe/scoliv2-sub000/pkg/types"

// PatchFromWire unpacks the parallel arrays of a collection payload. Arrays
// shorter than code_logo leave the missing fields unset.
func PatchFromWire(behavior string, w *types.LogoCollection) Patch {
	p := Patch{Behavior: behavior}
	if w == nil {
		return p
	}
	p.Entries = make([]Entry, 0, len(w.CodeLogo))
	for i, code := range w.CodeLogo {
		e := Entry{Code: code}
		if i < len(w.URLLogo) {
			e.URL = w.URLLogo[i]
		}
		if i < len(w.Position) {
			e.Position = w.Position[i]
		}
		if i < len(w.TypeDisplay) {
			e.TypeDisplay = w.TypeDisplay[i]
		}
		p.Entries = append(p.Entries, e)
	}
	return p
}

// FromWire builds a whole collection from its wire form, dropping repeated
// codes and defaulting missing fields.
func FromWire(w *types.LogoCollection) Collection {
	return Reconcile(nil, PatchFromWire("", w))
}

// ToWire re-serializes to the four parallel arrays. All four always have
// the same length.
func (c Collection) ToWire() types.LogoCollection {
	w := types.LogoCollection{
		CodeLogo:    make([]string, len(c)),
		URLLogo:     make([]*string, len(c)),
		Position:    make([][]string, len(c)),
		TypeDisplay: make([]*string, len(c)),
	}
	for i, l := range c {
		url, typeDisplay := l.URL, l.TypeDisplay
		w.CodeLogo[i] = l.Code
		w.URLLogo[i] = &url
		w.Position[i] = append([]string{}, l.Position...)
		w.TypeDisplay[i] = &typeDisplay
	}
	return w
}
