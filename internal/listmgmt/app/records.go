package app

// ShortMember is the denormalized identity copy of a user embedded both in
// a list's member set and inside each membership reference's member snapshot.
type ShortMember struct {
	UserID     string `json:"id"`
	ScreenName string `json:"screen_name"`
}

// Item is a single entry on a list. Items are owned exclusively by their
// list aggregate and created/removed only through the item operations.
type Item struct {
	ItemID       string `json:"id"`
	Name         string `json:"name"`
	ClaimedBy    string `json:"member,omitempty"` // claimant screen name; empty when unclaimed
	Purchased    bool   `json:"purchased"`
	LastModified string `json:"last_modified"`
}

// MembershipRef is the denormalized copy of a list embedded in a user
// account so membership can be displayed without a join. Its members,
// list_name, and last_modified are a cached snapshot of the canonical
// aggregate at last propagation time - not guaranteed current, only
// guaranteed to be refreshed by the propagator after every canonical
// mutation this engine performs.
type MembershipRef struct {
	ListID       string        `json:"id"`
	ListName     string        `json:"list_name"`
	Owned        bool          `json:"owned"`
	Members      []ShortMember `json:"members"`
	LastModified string        `json:"last_modified"`
}

// UserRecord is the canonical user account. Owned membership references are
// kept contiguous at the front of Lists; all insertion goes through
// insertMembership so the partition holds structurally.
type UserRecord struct {
	UserID       string          `json:"id"`
	Email        string          `json:"email,omitempty"`
	PasswordHash string          `json:"-"`
	ScreenName   string          `json:"screen_name"`
	Lists        []MembershipRef `json:"lists"`
	JoinDate     string          `json:"join_date"`
	Version      int64           `json:"-"`
}

// ListRecord is the canonical list aggregate: the source of truth for its
// own members and items. OwnerID always references an ID present in
// Members, and Members is never empty while the aggregate exists.
type ListRecord struct {
	ListID       string        `json:"id"`
	OwnerID      string        `json:"owner"`
	Name         string        `json:"list_name"`
	Code         string        `json:"code"`
	Members      []ShortMember `json:"members"`
	Items        []Item        `json:"items"`
	Created      string        `json:"created"`
	LastModified string        `json:"last_modified"`
	Version      int64         `json:"-"`
}

// shortMember returns the denormalized identity copy for a user account.
func shortMember(u *UserRecord) ShortMember {
	return ShortMember{UserID: u.UserID, ScreenName: u.ScreenName}
}

// cloneMembers returns a copy of a member set so cached snapshots never
// alias the canonical aggregate's slice.
func cloneMembers(members []ShortMember) []ShortMember {
	out := make([]ShortMember, len(members))
	copy(out, members)
	return out
}
