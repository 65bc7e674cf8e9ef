package planning

// Seed provides the demo groups, events and polls the planner starts with.
func Seed() Dataset {
	users := []User{
		{ID: "u1", Name: "Rohan", AvatarURL: "https://i.pravatar.cc/150?u=rohan"},
		{ID: "u2", Name: "Priya", AvatarURL: "https://i.pravatar.cc/150?u=priya"},
		{ID: "u3", Name: "Aarav", AvatarURL: "https://i.pravatar.cc/150?u=aarav"},
		{ID: "u4", Name: "Saanvi", AvatarURL: "https://i.pravatar.cc/150?u=saanvi"},
	}

	groups := []Group{
		{ID: "g1", Name: "Weekend Warriors", Members: []User{users[0], users[1], users[3]}},
		{ID: "g2", Name: "Foodie Fam", Members: []User{users[0], users[2], users[3]}},
		{ID: "g3", Name: "Movie Buffs", Members: []User{users[0], users[1], users[2]}},
	}

	events := []Event{
		{
			ID: "e1", GroupID: "g1", Title: "Trip to Jaipur", Date: "Sat, Nov 16", Location: "Jaipur, Rajasthan",
			RSVPs: []RSVP{{UserID: "u1", Status: RSVPGoing}, {UserID: "u2", Status: RSVPGoing}, {UserID: "u4", Status: RSVPMaybe}},
		},
		{
			ID: "e2", GroupID: "g2", Title: "Dilli Chaat Crawl", Date: "Sun, Nov 10", Location: "Chandni Chowk, Delhi",
			RSVPs: []RSVP{{UserID: "u1", Status: RSVPGoing}, {UserID: "u3", Status: RSVPGoing}},
		},
	}

	polls := []Poll{
		{
			ID: "p1", GroupID: "g3", Question: "What movie should we watch this Friday?",
			Options: []PollOption{
				{ID: "o1", Text: "Jawan 🎬", Votes: []string{"u1", "u3"}},
				{ID: "o2", Text: "RRR (rewatch!) 🔥", Votes: []string{"u2"}},
				{ID: "o3", Text: "3 Idiots (classic!) 😂", Votes: []string{}},
			},
		},
		{
			ID: "p2", GroupID: "g1", Question: "Best time for the trip?",
			Options: []PollOption{
				{ID: "o4", Text: "Early Morning (6 AM)", Votes: []string{"u2"}},
				{ID: "o5", Text: "Afternoon (1 PM)", Votes: []string{"u1", "u4"}},
			},
		},
	}

	return Dataset{Users: users, Groups: groups, Events: events, Polls: polls}
}

// CurrentUserID is the demo user acting in the front end.
const CurrentUserID = "u1"
