package planning

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/zhouzirui/jashn-planner/backend/internal/model/planning"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("poll option not found")
	ErrUserRequired   = errors.New("user id is required")
)

// Service holds groups, events and polls in memory. Reads return copies.
type Service struct {
	mu            sync.RWMutex
	users         []planning.User
	groups        []planning.Group
	events        []planning.Event
	polls         []planning.Poll
	selectedGroup string
}

// NewService builds the store from a dataset and selects the first group, if any.
func NewService(data planning.Dataset) *Service {
	s := &Service{
		users:  append([]planning.User(nil), data.Users...),
		groups: make([]planning.Group, 0, len(data.Groups)),
		events: make([]planning.Event, 0, len(data.Events)),
		polls:  make([]planning.Poll, 0, len(data.Polls)),
	}
	for _, g := range data.Groups {
		s.groups = append(s.groups, g.Clone())
	}
	for _, e := range data.Events {
		s.events = append(s.events, e.Clone())
	}
	for _, p := range data.Polls {
		s.polls = append(s.polls, p.Clone())
	}
	if len(s.groups) > 0 {
		s.selectedGroup = s.groups[0].ID
	}
	return s
}

// Users returns every known user.
func (s *Service) Users(_ context.Context) []planning.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]planning.User(nil), s.users...)
}

// FindUser looks up a user by id.
func (s *Service) FindUser(_ context.Context, id string) (planning.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return planning.User{}, false
}

// ListGroups returns all groups in seed order.
func (s *Service) ListGroups(_ context.Context) []planning.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]planning.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g.Clone())
	}
	return out
}

// SelectGroup marks a group as the one being viewed.
func (s *Service) SelectGroup(_ context.Context, id string) (planning.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.findGroupLocked(id)
	if !ok {
		return planning.Group{}, ErrGroupNotFound
	}
	s.selectedGroup = group.ID
	return group.Clone(), nil
}

// Selected returns the currently selected group; ok is false when nothing is selected.
func (s *Service) Selected(_ context.Context) (planning.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.findGroupLocked(s.selectedGroup)
	if !ok {
		return planning.Group{}, false
	}
	return group.Clone(), true
}

// FilteredEvents returns the events that belong to groupID.
func (s *Service) FilteredEvents(_ context.Context, groupID string) []planning.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]planning.Event, 0)
	for _, e := range s.events {
		if e.GroupID == groupID {
			out = append(out, e.Clone())
		}
	}
	return out
}

// FilteredPolls returns the polls that belong to groupID.
func (s *Service) FilteredPolls(_ context.Context, groupID string) []planning.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]planning.Poll, 0)
	for _, p := range s.polls {
		if p.GroupID == groupID {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Vote records userID's vote for optionID. A user holds at most one vote per poll: voting for the
// option already held removes the vote, voting for another option moves it.
func (s *Service) Vote(_ context.Context, pollID, optionID, userID string) (planning.Poll, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return planning.Poll{}, ErrUserRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.polls {
		if s.polls[i].ID == pollID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return planning.Poll{}, ErrPollNotFound
	}

	poll := &s.polls[idx]
	found := false
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			found = true
			break
		}
	}
	if !found {
		return planning.Poll{}, ErrOptionNotFound
	}

	for i := range poll.Options {
		opt := &poll.Options[i]
		hadVote := containsUser(opt.Votes, userID)
		opt.Votes = removeUser(opt.Votes, userID)
		if opt.ID == optionID && !hadVote {
			opt.Votes = append(opt.Votes, userID)
		}
	}

	return poll.Clone(), nil
}

func (s *Service) findGroupLocked(id string) (planning.Group, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return planning.Group{}, false
}

func containsUser(votes []string, userID string) bool {
	for _, v := range votes {
		if v == userID {
			return true
		}
	}
	return false
}

func removeUser(votes []string, userID string) []string {
	out := make([]string, 0, len(votes))
	for _, v := range votes {
		if v != userID {
			out = append(out, v)
		}
	}
	return out
}
