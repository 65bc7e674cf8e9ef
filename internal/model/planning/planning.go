package planning

import "encoding/json"

// User is a member of one or more groups.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// Group is a circle of friends that plans together.
type Group struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Members []User `json:"members"`
}

// RSVPStatus is a member's answer to an event invitation.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPNotGoing RSVPStatus = "not-going"
	RSVPMaybe    RSVPStatus = "maybe"
)

// RSVP records one member's answer.
type RSVP struct {
	UserID string     `json:"userId"`
	Status RSVPStatus `json:"status"`
}

// Event is a planned get-together of a group.
type Event struct {
	ID       string `json:"id"`
	GroupID  string `json:"groupId"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
	RSVPs    []RSVP `json:"rsvps"`
}

// PollOption is one answer of a poll; Votes holds user ids.
type PollOption struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Votes []string `json:"votes"`
}

// Poll is a group question with a single vote per user.
type Poll struct {
	ID       string       `json:"id"`
	GroupID  string       `json:"groupId"`
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
}

// TotalVotes sums the votes of all options.
func (p Poll) TotalVotes() int {
	total := 0
	for _, opt := range p.Options {
		total += len(opt.Votes)
	}
	return total
}

// MarshalJSON adds totalVotes so clients can render vote shares without summing.
func (p Poll) MarshalJSON() ([]byte, error) {
	type poll Poll
	return json.Marshal(struct {
		poll
		TotalVotes int `json:"totalVotes"`
	}{poll: poll(p), TotalVotes: p.TotalVotes()})
}

// Clone returns a deep copy so callers cannot mutate shared vote slices.
func (p Poll) Clone() Poll {
	out := p
	out.Options = make([]PollOption, len(p.Options))
	for i, opt := range p.Options {
		opt.Votes = append([]string{}, opt.Votes...)
		out.Options[i] = opt
	}
	return out
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	out := e
	out.RSVPs = append([]RSVP(nil), e.RSVPs...)
	return out
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := g
	out.Members = append([]User(nil), g.Members...)
	return out
}

// Dataset bundles the collections the planning store is built from.
type Dataset struct {
	Users  []User
	Groups []Group
	Events []Event
	Polls  []Poll
}
