package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aelexs/listshare-platform/internal/domain"
)

// listMutation carries the entities and indices the validation gate
// resolved, for reuse by the mutation that requested them. Indices are -1
// when the corresponding lookup was not requested or did not resolve.
type listMutation struct {
	list  *ListRecord
	user  *UserRecord
	owner *UserRecord

	memberIdx int // user's position in list.Members
	refIdx    int // list's position in user.Lists
	itemIdx   int // item's position in list.Items
}

func newListMutation() *listMutation {
	return &listMutation{memberIdx: -1, refIdx: -1, itemIdx: -1}
}

// resolveUser loads a user account for validation. Missing or unknown IDs
// become field failures; store errors abort validation as operation
// failures.
func (s *Service) resolveUser(ctx context.Context, userID, field string, ve *domain.ValidationError) (*UserRecord, error) {
	if userID == "" {
		ve.Set(field, "User ID must not be empty")
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		ve.SetErr(field, domain.ErrNotFound, "User with that ID not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validate: resolve user %s: %w", userID, err)
	}
	return user, nil
}

// resolveList loads a list aggregate by ID for validation.
func (s *Service) resolveList(ctx context.Context, listID string, ve *domain.ValidationError) (*ListRecord, error) {
	if listID == "" {
		ve.Set("listID", "List ID must not be empty")
		return nil, nil
	}
	list, err := s.lists.GetByID(ctx, listID)
	if errors.Is(err, domain.ErrNotFound) {
		ve.SetErr("listID", domain.ErrNotFound, "List with that ID not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validate: resolve list %s: %w", listID, err)
	}
	return list, nil
}

// validateCreateList checks the inputs for list creation and resolves the
// owner-to-be.
func (s *Service) validateCreateList(ctx context.Context, name, userID string) (*listMutation, error) {
	ve := domain.NewValidationError()
	res := newListMutation()

	validateListName(name, ve)

	user, err := s.resolveUser(ctx, userID, "userID", ve)
	if err != nil {
		return nil, err
	}
	res.user = user

	return res, ve.ErrOrNil()
}

// validateJoinList resolves the list by share code and checks that the
// user is not already a member.
func (s *Service) validateJoinList(ctx context.Context, code, userID string) (*listMutation, error) {
	ve := domain.NewValidationError()
	res := newListMutation()

	if strings.TrimSpace(code) == "" {
		ve.Set("code", "Code must not be empty")
	} else {
		list, err := s.lists.FindByCode(ctx, code)
		if errors.Is(err, domain.ErrNotFound) {
			ve.SetErr("code", domain.ErrNotFound, "List not found")
		} else if err != nil {
			return nil, fmt.Errorf("validate: resolve list by code: %w", err)
		}
		res.list = list
	}

	user, err := s.resolveUser(ctx, userID, "userID", ve)
	if err != nil {
		return nil, err
	}
	res.user = user

	if res.list != nil && res.user != nil {
		if memberIndex(res.list, res.user.UserID) != -1 {
			ve.SetErr("userID", domain.ErrAlreadyMember, "User is already a part of this list")
		}
	}

	return res, ve.ErrOrNil()
}

// validateLeaveList checks that the user is a member of the list and holds
// the corresponding membership reference, resolving both indices.
func (s *Service) validateLeaveList(ctx context.Context, listID, userID string) (*listMutation, error) {
	ve := domain.NewValidationError()
	res := newListMutation()

	list, err := s.resolveList(ctx, listID, ve)
	if err != nil {
		return nil, err
	}
	res.list = list

	user, err := s.resolveUser(ctx, userID, "userID", ve)
	if err != nil {
		return nil, err
	}
	res.user = user

	if list != nil && user != nil {
		res.memberIdx = memberIndex(list, user.UserID)
		if res.memberIdx == -1 {
			ve.SetErr("userID", domain.ErrNotMember, "User is not a part of the list")
		}
		res.refIdx = membershipIndex(user, list.ListID)
		if res.refIdx == -1 {
			ve.SetErr("listID", domain.ErrNotFound, "List not found in user's list array")
		}
	}

	return res, ve.ErrOrNil()
}

// validateUpdateList checks that the requester (and, when supplied, the
// new owner) are current members of the list.
func (s *Service) validateUpdateList(ctx context.Context, listID, userID string, ownerID *string, name *string) (*listMutation, error) {
	ve := domain.NewValidationError()
	res := newListMutation()

	if name != nil {
		validateListName(*name, ve)
	}

	list, err := s.resolveList(ctx, listID, ve)
	if err != nil {
		return nil, err
	}
	res.list = list

	user, err := s.resolveUser(ctx, userID, "userID", ve)
	if err != nil {
		return nil, err
	}
	res.user = user

	if list != nil && user != nil && memberIndex(list, user.UserID) == -1 {
		ve.SetErr("userID", domain.ErrNotMember, "User is not a part of the list")
	}

	if ownerID != nil {
		owner, err := s.resolveUser(ctx, *ownerID, "ownerID", ve)
		if err != nil {
			return nil, err
		}
		res.owner = owner
		if list != nil && owner != nil && memberIndex(list, owner.UserID) == -1 {
			ve.SetErr("ownerID", domain.ErrNotMember, "Owner is not a part of the list")
		}
	}

	return res, ve.ErrOrNil()
}

// validateAddItem combines the item name checks with the shared item
// operation preconditions so all field failures land in one error.
func (s *Service) validateAddItem(ctx context.Context, listID, name, userID string) (*listMutation, error) {
	ve := domain.NewValidationError()
	res := newListMutation()

	validateItemName(name, ve)

	if err := s.resolveItemOp(ctx, listID, "", userID, ve, res); err != nil {
		return nil, err
	}

	return res, ve.ErrOrNil()
}

// validateItemOp checks the shared preconditions of the item operations:
// the list exists, the acting user is a member, and - when an item ID is
// supplied - the item exists in the list.
func (s *Service) validateItemOp(ctx context.Context, listID, itemID, userID string) (*listMutation, error) {
	ve := domain.NewValidationError()
	res := newListMutation()

	if err := s.resolveItemOp(ctx, listID, itemID, userID, ve, res); err != nil {
		return nil, err
	}

	return res, ve.ErrOrNil()
}

func (s *Service) resolveItemOp(ctx context.Context, listID, itemID, userID string, ve *domain.ValidationError, res *listMutation) error {
	list, err := s.resolveList(ctx, listID, ve)
	if err != nil {
		return err
	}
	res.list = list

	if itemID != "" && list != nil {
		res.itemIdx = itemIndex(list, itemID)
		if res.itemIdx == -1 {
			ve.SetErr("itemID", domain.ErrNotFound, "Item with that ID does not exist in the list")
		}
	}

	user, err := s.resolveUser(ctx, userID, "userID", ve)
	if err != nil {
		return err
	}
	res.user = user

	if list != nil && user != nil {
		res.memberIdx = memberIndex(list, user.UserID)
		if res.memberIdx == -1 {
			ve.SetErr("userID", domain.ErrNotMember, "User is not a part of this list")
		}
	}

	return nil
}

// validateListName enforces the list name constraints shared by create
// and update.
func validateListName(name string, ve *domain.ValidationError) {
	if strings.TrimSpace(name) == "" {
		ve.Set("list_name", "List name must not be empty")
	} else if len(name) > domain.MaxListNameLength {
		ve.Set("list_name", "List name is too long")
	}
}

// validateItemName enforces the item name constraints for add_item.
func validateItemName(name string, ve *domain.ValidationError) {
	if strings.TrimSpace(name) == "" {
		ve.Set("name", "Name must not be empty")
	} else if len(name) > domain.MaxItemNameLength {
		ve.Set("name", "Name is too long")
	}
}
