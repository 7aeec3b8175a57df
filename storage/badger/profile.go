package badger

import (
	"context"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(backend *Backend) (storage.ProfileRepository, error) {
	return newProfileRepository(backend)
}

func newProfileRepository(backend *Backend) (*ProfileRepository, error) {
	return &ProfileRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *ProfileRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ProfileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddProfiles adds one or more clinician profiles to storage.
func (r *ProfileRepository) AddProfiles(ctx context.Context, profiles ...*core.Candidate) ([]*core.Candidate, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, profile := range profiles {
			if profile.Id == 0 {
				profile.Id = identityID(profile)
			}

			key := makeProfileKey(profile.Id)
			value := storage.MarshalProfile(profile)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			if err := r.updateSpecialtyIndex(tx, profile); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return profiles, err
}

// UpdateProfiles updates existing profiles.
func (r *ProfileRepository) UpdateProfiles(ctx context.Context, profiles ...*core.Candidate) ([]*core.Candidate, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, profile := range profiles {
			key := makeProfileKey(profile.Id)

			// Read old profile to detect index changes
			old, err := r.readProfile(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			value := storage.MarshalProfile(profile)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update specialty index if the specialty changed
			if normalizeSpecialty(old.Specialty) != normalizeSpecialty(profile.Specialty) {
				if err := r.deleteSpecialtyIndex(tx, old); err != nil {
					return err
				}
				if err := r.updateSpecialtyIndex(tx, profile); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return profiles, err
}

// DeleteProfiles removes profiles by their IDs.
func (r *ProfileRepository) DeleteProfiles(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeProfileKey(id)

			// Read profile to get metadata for index cleanup
			profile, err := r.readProfile(tx, key)
			if err != nil {
				return err
			}
			if profile == nil {
				return storage.ErrNotFound
			}

			if err := r.deleteSpecialtyIndex(tx, profile); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetProfile retrieves a single profile by ID.
func (r *ProfileRepository) GetProfile(ctx context.Context, id core.ID) (*core.Candidate, error) {
	var result *core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(id)
		var err error
		result, err = r.readProfile(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetProfiles retrieves multiple profiles by their IDs.
func (r *ProfileRepository) GetProfiles(ctx context.Context, ids ...core.ID) ([]*core.Candidate, error) {
	var result []*core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeProfileKey(id)
			profile, err := r.readProfile(tx, key)
			if err != nil {
				return err
			}
			if profile != nil {
				result = append(result, profile)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetProfilesBySpecialty retrieves profiles whose primary specialty matches.
func (r *ProfileRepository) GetProfilesBySpecialty(ctx context.Context, specialty string) ([]*core.Candidate, error) {
	if strings.TrimSpace(specialty) == "" {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialSpecialtyKey(specialty)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) {
				break
			}
			if slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			// Read the ID from the index
			var profileID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				profileID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full profile
			profileKey := makeProfileKey(profileID)
			profile, err := r.readProfile(tx, profileKey)
			if err != nil {
				return err
			}
			if profile != nil {
				results = append(results, profile)
			}
		}
		return nil
	}, false)

	return results, err
}

// AllProfiles retrieves every stored profile, ordered by ID.
func (r *ProfileRepository) AllProfiles(ctx context.Context) ([]*core.Candidate, error) {
	var results []*core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var profile *core.Candidate
			err := iter.Item().Value(func(val []byte) error {
				var err error
				profile, err = storage.UnmarshalProfile(val)
				return err
			})
			if err != nil {
				return err
			}
			if profile != nil {
				results = append(results, profile)
			}
		}
		return nil
	}, false)

	return results, err
}

// Count returns the number of stored profiles.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Helper methods

// readProfile reads a profile from the transaction.
func (r *ProfileRepository) readProfile(tx *badger.Txn, key []byte) (*core.Candidate, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.Candidate
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		profile, unmarshalErr = storage.UnmarshalProfile(val)
		return unmarshalErr
	})
	return profile, err
}

// updateSpecialtyIndex adds a specialty index entry for a profile.
func (r *ProfileRepository) updateSpecialtyIndex(tx *badger.Txn, profile *core.Candidate) error {
	if strings.TrimSpace(profile.Specialty) == "" {
		return nil
	}
	key := makeSpecialtyKey(profile.Specialty, profile.Id)
	return tx.Set(key, storage.MarshalID(profile.Id))
}

// deleteSpecialtyIndex removes the specialty index entry for a profile.
func (r *ProfileRepository) deleteSpecialtyIndex(tx *badger.Txn, profile *core.Candidate) error {
	if strings.TrimSpace(profile.Specialty) == "" {
		return nil
	}
	key := makeSpecialtyKey(profile.Specialty, profile.Id)
	return tx.Delete(key)
}

// identityID derives a stable content ID from the identifying fields of a
// profile. The same clinician ingested twice lands on the same key.
func identityID(profile *core.Candidate) core.ID {
	return core.IDFromContent(profile.Name + "|" + profile.Specialty + "|" + profile.AddressLocality)
}
