package mfa

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	credentialCollection = "user_mfa"
	activityCollection   = "user_activity"
)

// MongoStorage implements Storage and ActivityLogger on top of the
// document store. Availability is explicit: the constructor requires a
// connected database handle, and every operation returns the store error
// instead of degrading to a fake success.
type MongoStorage struct {
	credentials *mongo.Collection
	activity    *mongo.Collection
}

// NewMongoStorage returns a storage adapter bound to db.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{
		credentials: db.Collection(credentialCollection),
		activity:    db.Collection(activityCollection),
	}
}

func (s *MongoStorage) Get(ctx context.Context, userID string) (*Credential, error) {
	var cred Credential
	err := s.credentials.FindOne(ctx, bson.M{"_id": userID}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCredentialNotFound
		}
		return nil, errors.Join(ErrStoreFailed, err)
	}
	return &cred, nil
}

func (s *MongoStorage) Upsert(ctx context.Context, cred *Credential) error {
	_, err := s.credentials.ReplaceOne(ctx,
		bson.M{"_id": cred.UserID},
		cred,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (s *MongoStorage) Update(ctx context.Context, cred *Credential) error {
	res, err := s.credentials.ReplaceOne(ctx, bson.M{"_id": cred.UserID}, cred)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	if res.MatchedCount == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// ConsumeRecoveryCode uses a filtered positional update so the used flag
// flips only if the targeted code is still unused. Under two concurrent
// attempts with the same code exactly one write matches; the other sees
// ModifiedCount zero and the caller reports the code as invalid.
func (s *MongoStorage) ConsumeRecoveryCode(ctx context.Context, userID, hash string, now time.Time) (bool, error) {
	res, err := s.credentials.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"recovery_codes.$[code].used":    true,
			"recovery_codes.$[code].used_at": now,
			"last_used_at":                   now,
			"updated_at":                     now,
		}},
		options.UpdateOne().SetArrayFilters([]any{
			bson.M{"code.hash": hash, "code.used": false},
		}),
	)
	if err != nil {
		return false, errors.Join(ErrStoreFailed, err)
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoStorage) UpdateLastUsed(ctx context.Context, userID string, now time.Time) error {
	res, err := s.credentials.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"last_used_at": now, "updated_at": now}},
	)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	if res.MatchedCount == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// Log appends an event to the user activity feed.
func (s *MongoStorage) Log(ctx context.Context, userID, activityType, message string) error {
	_, err := s.activity.InsertOne(ctx, bson.M{
		"_id":        uuid.NewString(),
		"uid":        userID,
		"type":       activityType,
		"message":    message,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}
