package models

// AnonymousUserID is the id the anonymous projection is published under.
const AnonymousUserID = "anonymous"

// Identity is the author of a post, story or message.
// An anonymous identity never carries a user id.
type Identity struct {
	UserID    string `json:"userId,omitempty" bson:"user_id,omitempty"`
	Anonymous bool   `json:"anonymous" bson:"anonymous"`
}

// Identified returns the identity of a known user
func Identified(userID string) Identity {
	return Identity{UserID: userID}
}

// AnonymousIdentity returns the anonymous identity
func AnonymousIdentity() Identity {
	return Identity{Anonymous: true}
}

// NewIdentity picks the anonymous identity when anonymous is set, the user's otherwise.
func NewIdentity(userID string, anonymous bool) Identity {
	if anonymous {
		return AnonymousIdentity()
	}
	return Identified(userID)
}

// ParseIdentity reads a path or form value, where "anonymous" names the anonymous counterpart.
func ParseIdentity(s string) Identity {
	if s == AnonymousUserID {
		return AnonymousIdentity()
	}
	return Identified(s)
}

// Is reports whether the identity is the known user userID.
func (i Identity) Is(userID string) bool {
	return !i.Anonymous && userID != "" && i.UserID == userID
}

// String renders the identity the way it is addressed in URLs.
func (i Identity) String() string {
	if i.Anonymous {
		return AnonymousUserID
	}
	return i.UserID
}

// Project resolves the identity to its public projection. The second result is
// false when the identity names a user that no longer exists.
func (i Identity) Project(users UserIndex) (PublicUser, bool) {
	if i.Anonymous {
		return AnonymousPublicUser(), true
	}
	u, ok := users[i.UserID]
	if !ok {
		return PublicUser{}, false
	}
	return u.ToPublic(), true
}
