package services

import (
	"context"
	"fmt"
	"log"

	"github.com/tunedrop/backend/internal/models"
)

// releaseTransitioner is the slice of the release service the lifecycle
// drives.
type releaseTransitioner interface {
	UpdateStatus(ctx context.Context, id string, req *models.UpdateReleaseStatusRequest) (*models.Release, error)
	ReviewTakedown(ctx context.Context, id string, approve bool, note string) (*models.Release, error)
}

type notificationInserter interface {
	Insert(ctx context.Context, userID, title, body string) (*models.Notification, error)
}

type ownerProfileReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// ReleaseLifecycle wires status transitions to their advisory side effects:
// a notification row and a status email to the owner. The status write is
// the operation; everything after it is best effort and never rolled back.
type ReleaseLifecycle struct {
	Releases      releaseTransitioner
	Profiles      ownerProfileReader
	Notifications notificationInserter
	Mailer        *Mailer
}

// UpdateStatus performs the admin status transition and fires side effects.
func (l *ReleaseLifecycle) UpdateStatus(ctx context.Context, releaseID string, req *models.UpdateReleaseStatusRequest) (*models.Release, error) {
	release, err := l.Releases.UpdateStatus(ctx, releaseID, req)
	if err != nil {
		return nil, err
	}

	l.notifyStatus(ctx, release)
	return release, nil
}

// ReviewTakedown resolves a pending takedown request and notifies the owner
// of the outcome.
func (l *ReleaseLifecycle) ReviewTakedown(ctx context.Context, releaseID string, approve bool, note string) (*models.Release, error) {
	release, err := l.Releases.ReviewTakedown(ctx, releaseID, approve, note)
	if err != nil {
		return nil, err
	}

	title := "Takedown request denied"
	body := fmt.Sprintf("Your takedown request for %q was denied.", release.Title)
	if approve {
		title = "Release taken down"
		body = fmt.Sprintf("Your release %q has been taken down.", release.Title)
	} else if note != "" {
		body = fmt.Sprintf("Your takedown request for %q was denied: %s", release.Title, note)
	}

	if _, err := l.Notifications.Insert(ctx, release.UserID, title, body); err != nil {
		log.Printf("[lifecycle] takedown notification failed release=%s err=%v", release.ID, err)
	}
	return release, nil
}

func (l *ReleaseLifecycle) notifyStatus(ctx context.Context, release *models.Release) {
	title := "Release status updated"
	body := fmt.Sprintf("Your release %q is now %q.", release.Title, release.Status)
	if release.Status == models.StatusRejected && release.RejectionReason != "" {
		body = fmt.Sprintf("Your release %q was rejected: %s", release.Title, release.RejectionReason)
	}

	if _, err := l.Notifications.Insert(ctx, release.UserID, title, body); err != nil {
		log.Printf("[lifecycle] notification failed release=%s err=%v", release.ID, err)
	}

	if l.Mailer == nil {
		return
	}
	prof, err := l.Profiles.GetByUserID(ctx, release.UserID)
	if err != nil {
		log.Printf("[lifecycle] owner email lookup failed release=%s err=%v", release.ID, err)
		return
	}
	if prof.Email == "" {
		log.Printf("[lifecycle] owner has no email on file, skipping status email release=%s", release.ID)
		return
	}
	if err := l.Mailer.SendReleaseStatusEmail(ctx, prof.Email, release.Title, string(release.Status), release.RejectionReason); err != nil {
		log.Printf("[lifecycle] status email failed release=%s err=%v", release.ID, err)
	}
}
