package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tunedrop/backend/internal/config"
	"github.com/tunedrop/backend/internal/services"
	"github.com/tunedrop/backend/internal/storage"
)

// Eventarc delivers CloudEvents; for GCS finalized events the body carries
// the object info. Only bucket and name are needed, plus the uploader id
// from custom metadata.
type gcsFinalizeEvent struct {
	Bucket   string            `json:"bucket"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}

// cloudEventEnvelope handles structured content mode where the GCS payload
// is nested under "data".
type cloudEventEnvelope struct {
	Data gcsFinalizeEvent `json:"data"`
}

type worker struct {
	releases   *services.MongoReleaseService
	moderation *services.ArtworkModerationService
	ledger     *storage.EventLedger
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := services.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	profileService := services.NewMongoProfileService(ctx, db)
	releaseService := services.NewMongoReleaseService(ctx, db)

	moderation, err := services.NewArtworkModerationService(ctx, cfg.StorageBucket, cfg.MaxUploadSizeMB, profileService)
	if err != nil {
		log.Fatalf("Failed to initialize artwork moderation: %v", err)
	}

	ledger, err := storage.NewEventLedger(cfg.DataDir, "artwork-events.json", 7*24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to open event ledger: %v", err)
	}

	w := &worker{
		releases:   releaseService,
		moderation: moderation,
		ledger:     ledger,
	}

	http.HandleFunc("/", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	http.HandleFunc("/events", w.handleFinalize)

	log.Printf("artwork-worker listening on %s", cfg.ServerAddress)
	log.Fatal(http.ListenAndServe(cfg.ServerAddress, nil))
}

func (wk *worker) handleFinalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eventID := r.Header.Get("Ce-Id")
	log.Printf("[worker] event received: Ce-Id=%s Ce-Type=%s Ce-Subject=%s",
		eventID, r.Header.Get("Ce-Type"), r.Header.Get("Ce-Subject"))

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("[worker] failed to read request body: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Binary content mode first, then the structured envelope.
	var ev gcsFinalizeEvent
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		log.Printf("[worker] failed to decode event body: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if ev.Bucket == "" || ev.Name == "" {
		var envelope cloudEventEnvelope
		if err := json.Unmarshal(rawBody, &envelope); err == nil && envelope.Data.Name != "" {
			ev = envelope.Data
		}
	}

	if ev.Bucket == "" || ev.Name == "" {
		log.Printf("[worker] skipping event: bucket or name is empty")
		w.WriteHeader(http.StatusOK)
		return
	}
	if !strings.HasPrefix(ev.Name, "pending/") {
		log.Printf("[worker] skipping non-pending object: name=%s", ev.Name)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Eventarc redelivers on any non-2xx; the ledger keeps retries of an
	// already-processed event from repeating side effects.
	if wk.ledger.Seen(eventID) {
		log.Printf("[worker] duplicate delivery, acking: event=%s", eventID)
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	userID := ""
	if ev.Metadata != nil {
		userID = ev.Metadata["userId"]
	}
	if userID == "" {
		// Fall back to the release owner.
		if release, err := wk.releases.FindByArtworkPath(ctx, ev.Name); err == nil {
			userID = release.UserID
		}
	}

	res, err := wk.moderation.ModerateAndPromote(ctx, ev.Name, userID)
	if err == services.ErrArtworkRejected || err == services.ErrArtworkTooLarge {
		if release, rerr := wk.releases.RejectPendingArtwork(ctx, ev.Name); rerr != nil {
			log.Printf("[worker] reject reference update failed path=%s err=%v", ev.Name, rerr)
		} else if release != nil {
			log.Printf("[worker] artwork rejected, release on hold: %s", release.ID)
		}
		if lerr := wk.ledger.MarkProcessed(eventID); lerr != nil {
			log.Printf("[worker] ledger write failed event=%s err=%v", eventID, lerr)
		}
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		log.Printf("[worker] moderation failed path=%s err=%v", ev.Name, err)
		// Non-2xx so Eventarc retries.
		http.Error(w, "moderation failed", http.StatusInternalServerError)
		return
	}

	if err := wk.releases.ApprovePendingArtwork(ctx, ev.Name, res.ApprovedURL); err != nil {
		log.Printf("[worker] approve reference update failed path=%s err=%v", ev.Name, err)
		http.Error(w, "reference update failed", http.StatusInternalServerError)
		return
	}

	if lerr := wk.ledger.MarkProcessed(eventID); lerr != nil {
		log.Printf("[worker] ledger write failed event=%s err=%v", eventID, lerr)
	}

	log.Printf("[worker] done: name=%s approvedURL=%s", ev.Name, res.ApprovedURL)
	w.WriteHeader(http.StatusOK)
}
