package services

import (
	"context"
	"time"
)

// DefaultAccountTimeout bounds the multi-collection delete cascade.
func DefaultAccountTimeout() time.Duration {
	return 30 * time.Second
}

// AccountService deletes all backend data for a user across collections.
// Deletes are sequential independent calls; a mid-cascade failure leaves
// already-deleted collections gone, which is acceptable for account removal.
type AccountService struct {
	Users         *MongoUserService
	Profiles      *MongoProfileService
	Releases      *MongoReleaseService
	Fines         *MongoFineService
	Payouts       *MongoPayoutService
	Tickets       *MongoTicketService
	Notifications *MongoNotificationService
	Royalties     *MongoRoyaltyService
	Allowances    *MongoAllowanceService
	Appeals       *MongoAppealService
}

type DeleteUserResult struct {
	ObjectURLs []string `json:"object_urls"`
	ReleaseIDs []string `json:"release_ids"`
}

// DeleteUser removes the user's rows everywhere and returns storage object
// URLs (artwork, audio) for the caller to delete client-side, best effort.
func (s *AccountService) DeleteUser(ctx context.Context, userID string) (*DeleteUserResult, error) {
	releaseIDs, objectURLs, err := s.Releases.ListUserArtifacts(ctx, userID)
	if err != nil {
		return nil, err
	}

	prof, err := s.Profiles.GetByUserID(ctx, userID)
	if err == nil && prof.AvatarURL != "" {
		objectURLs = append(objectURLs, prof.AvatarURL)
	}

	if err := s.Releases.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Fines.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Payouts.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Tickets.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Notifications.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Royalties.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Allowances.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Appeals.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Profiles.Delete(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		return nil, err
	}

	return &DeleteUserResult{
		ObjectURLs: objectURLs,
		ReleaseIDs: releaseIDs,
	}, nil
}
