// Package identity resolves conversation counterparts to display identities.
//
// A conversation's participant records and the student roster come from
// different endpoints and may be loaded in either order, so resolution has to
// degrade gracefully when the roster is missing or a participant record is
// malformed. Resolve is total: it never panics and never returns an error,
// only a fallback identity.
package identity

import (
	"sync"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/metrics"
)

// UnknownDisplayName is the sentinel shown when a counterpart cannot be
// resolved at all.
const UnknownDisplayName = "Unknown User"

// Counterpart is the fully resolved display identity of the participant on
// the other side of a conversation.
type Counterpart struct {
	UserID      string
	DisplayName string
	AvatarURL   string
	// Known is false when the other participant could not be determined.
	Known bool
}

// Unknown returns the sentinel counterpart.
func Unknown() Counterpart {
	return Counterpart{DisplayName: UnknownDisplayName}
}

// Roster holds the separately fetched student profiles keyed by user id.
// Fetches replace it wholesale; readers may observe an empty roster while
// the first fetch is still in flight.
type Roster struct {
	mu       sync.RWMutex
	profiles map[string]model.StudentProfile
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{profiles: make(map[string]model.StudentProfile)}
}

// Replace swaps in a freshly fetched roster.
func (r *Roster) Replace(students []model.StudentProfile) {
	profiles := make(map[string]model.StudentProfile, len(students))
	for _, s := range students {
		if s.UserID != "" {
			profiles[s.UserID] = s
		}
	}

	r.mu.Lock()
	r.profiles = profiles
	r.mu.Unlock()

	metrics.RosterSize.Set(float64(len(profiles)))
}

// Lookup returns the roster profile for a user id, if loaded.
func (r *Roster) Lookup(userID string) (model.StudentProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	return p, ok
}

// Len returns the number of loaded profiles.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

// Resolve determines the participant on the other side of conv from the
// local user's perspective and enriches it into a display identity.
//
// Fallback ladder: students resolve through the roster (name and avatar);
// businesses display their email; a student missing from the roster falls
// back to email; anything unresolvable yields the Unknown sentinel.
func Resolve(conv model.Conversation, localUserID string, roster *Roster) Counterpart {
	var other *model.User
	for i := range conv.Participants {
		if conv.Participants[i].ID != "" && conv.Participants[i].ID != localUserID {
			other = &conv.Participants[i]
			break
		}
	}
	if other == nil {
		return Unknown()
	}

	cp := Counterpart{UserID: other.ID, Known: true}

	if other.Role == model.RoleStudent && roster != nil {
		if profile, ok := roster.Lookup(other.ID); ok {
			if name := profile.FullName(); name != "" {
				cp.DisplayName = name
				cp.AvatarURL = profile.AvatarURL
				return cp
			}
		}
	}

	if other.Email != "" {
		cp.DisplayName = other.Email
		return cp
	}

	cp.DisplayName = UnknownDisplayName
	return cp
}
