// File: internal/profile/firestore_store.go
package profile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"puck_buddy_auth/internal/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type firestoreStore struct {
	client *firestore.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewFirestoreStore initializes the Firebase Admin SDK and returns a profile
// store backed by Firestore, plus a cleanup func closing the client.
func NewFirestoreStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, func(), error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var app *firebase.App
	var err error
	if cfg.FirebaseProjectID != "" {
		conf := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		app, err = firebase.NewApp(ctx, conf, opt)
	} else {
		// Let the SDK infer the project from the credentials file.
		app, err = firebase.NewApp(ctx, nil, opt)
	}
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		logger.Error("Failed to get Firestore client", zap.Error(err))
		return nil, nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	logger.Info("Firestore profile store initialized.")
	store := &firestoreStore{
		client: client,
		logger: logger.Named("FirestoreStore"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close Firestore client", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func (s *firestoreStore) doc(id string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(id)
}

func (s *firestoreStore) Create(ctx context.Context, seed CreateProfileSeed) (*UserProfile, error) {
	if err := ValidateSeed(seed); err != nil {
		return nil, err
	}

	now := s.now()
	p := &UserProfile{
		ID:          seed.GoogleID,
		GoogleID:    seed.GoogleID,
		Email:       strings.ToLower(strings.TrimSpace(seed.Email)),
		Name:        seed.Name,
		PictureURL:  seed.PictureURL,
		CreatedAt:   now,
		LastLoginAt: now,
		Preferences: seed.Preferences,
	}

	// DocumentRef.Create fails when the document already exists, which is
	// what enforces the one-profile-per-provider-id invariant remotely.
	if _, err := s.doc(p.ID).Create(ctx, p); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, ErrAlreadyExists
		}
		s.logger.Error("Failed to create user profile document", zap.Error(err), zap.String("id", p.ID))
		return nil, err
	}
	return p, nil
}

func (s *firestoreStore) Get(ctx context.Context, id string) (*UserProfile, error) {
	snap, err := s.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var p UserProfile
	if err := snap.DataTo(&p); err != nil {
		s.logger.Error("Failed to decode user profile document", zap.Error(err), zap.String("id", id))
		return nil, err
	}
	// Firestore stores instants in UTC; normalize so round-trips compare equal.
	p.CreatedAt = p.CreatedAt.UTC()
	p.LastLoginAt = p.LastLoginAt.UTC()
	return &p, nil
}

func (s *firestoreStore) Update(ctx context.Context, id string, updates Updates) (*UserProfile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*updates.Email))
	}
	if updates.Name != nil {
		p.Name = *updates.Name
	}
	if updates.PictureURL != nil {
		p.PictureURL = updates.PictureURL
	}
	if updates.Preferences != nil {
		p.Preferences = *updates.Preferences
	}
	p.LastLoginAt = s.now()

	if _, err := s.doc(id).Set(ctx, p); err != nil {
		s.logger.Error("Failed to update user profile document", zap.Error(err), zap.String("id", id))
		return nil, err
	}
	return p, nil
}

func (s *firestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.doc(id).Delete(ctx); err != nil {
		s.logger.Error("Failed to delete user profile document", zap.Error(err), zap.String("id", id))
		return err
	}
	return nil
}

func (s *firestoreStore) TouchLastLogin(ctx context.Context, id string) error {
	_, err := s.doc(id).Update(ctx, []firestore.Update{
		{Path: "lastLoginAt", Value: s.now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}
