package app

// memberIndex returns the position of userID in the list's member set,
// or -1 when absent.
func memberIndex(list *ListRecord, userID string) int {
	for i, m := range list.Members {
		if m.UserID == userID {
			return i
		}
	}
	return -1
}

// itemIndex returns the position of itemID in the list's item set,
// or -1 when absent.
func itemIndex(list *ListRecord, itemID string) int {
	for i, it := range list.Items {
		if it.ItemID == itemID {
			return i
		}
	}
	return -1
}

// membershipIndex returns the position of the membership reference for
// listID in the user's membership sequence, or -1 when absent.
func membershipIndex(user *UserRecord, listID string) int {
	for i, ref := range user.Lists {
		if ref.ListID == listID {
			return i
		}
	}
	return -1
}

// ownedRunEnd returns the index just past the run of owned references at
// the front of the user's membership sequence.
func ownedRunEnd(user *UserRecord) int {
	for i, ref := range user.Lists {
		if !ref.Owned {
			return i
		}
	}
	return len(user.Lists)
}

// insertMembership adds a membership reference to the user's sequence.
// Owned references are inserted at the end of the owned run at the front;
// unowned references are appended. Every insertion goes through here, so
// the owned-first partition is a structural guarantee rather than a
// convention.
func insertMembership(user *UserRecord, ref MembershipRef) {
	if !ref.Owned {
		user.Lists = append(user.Lists, ref)
		return
	}
	at := ownedRunEnd(user)
	user.Lists = append(user.Lists, MembershipRef{})
	copy(user.Lists[at+1:], user.Lists[at:])
	user.Lists[at] = ref
}

// removeMembership deletes the membership reference at index i, keeping
// the remaining order intact.
func removeMembership(user *UserRecord, i int) MembershipRef {
	ref := user.Lists[i]
	user.Lists = append(user.Lists[:i], user.Lists[i+1:]...)
	return ref
}

// promoteMembership marks the reference at index i as owned and moves it
// into the owned run so the partition invariant survives the promotion.
func promoteMembership(user *UserRecord, i int) {
	ref := removeMembership(user, i)
	ref.Owned = true
	insertMembership(user, ref)
}
