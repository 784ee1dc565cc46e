package types

// Collection behaviors.
const (
	BehaviorAdd    = "add"
	BehaviorUpdate = "update"
	BehaviorRemove = "remove"
)

// LogoCollection is the wire form of a logo collection: four parallel
// arrays where index i across all of them describes one logo. A null
// element (or a short array) means "not provided" for that index.
type LogoCollection struct {
	CodeLogo    []string   `json:"code_logo"`
	URLLogo     []*string  `json:"url_logo"`
	Position    [][]string `json:"position"`
	TypeDisplay []*string  `json:"type_display"`
}

// CollectionPayload carries one collection under the key that matches its
// event (sponsors_updated -> "sponsors", and so on). Some senders tag the
// behavior as "command".
type CollectionPayload struct {
	Behavior       string          `json:"behavior,omitempty"`
	Command        string          `json:"command,omitempty"`
	Sponsors       *LogoCollection `json:"sponsors,omitempty"`
	Organizing     *LogoCollection `json:"organizing,omitempty"`
	MediaPartners  *LogoCollection `json:"mediaPartners,omitempty"`
	TournamentLogo *LogoCollection `json:"tournamentLogo,omitempty"`
}

func (p CollectionPayload) Tag() string {
	if p.Behavior != "" {
		return p.Behavior
	}
	return p.Command
}
