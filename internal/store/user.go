// Package store wraps the users collection: one document per user with the
// mood history embedded as an append-only array.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moodifyapp/moodify-backend/internal/models"
)

// ErrNotFound is returned when no user matches the given id.
// Handlers map it to 404; everything else is an opaque 500.
var ErrNotFound = errors.New("user not found")

const usersCollection = "users"

type UserStore struct {
	users *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique index on google_id. Together with the
// upsert in FindOrCreateByGoogleID it guarantees repeated logins for the same
// Google account never create a second user.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "google_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// FindOrCreateByGoogleID returns the user owning the given Google account,
// creating the document on first login. The find-and-upsert is a single
// atomic operation on the collection.
func (s *UserStore) FindOrCreateByGoogleID(ctx context.Context, googleID, name, email string) (*models.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"google_id":  googleID,
			"name":       name,
			"email":      email,
			"moods":      []models.MoodEntry{},
			"created_at": now,
		},
		"$set": bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"google_id": googleID}, update, opts).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by its local id. Malformed ids count as not found.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AppendMood pushes one entry onto the user's mood history and returns the
// updated history. The $push happens in a single document write, so
// concurrent appends to the same user cannot lose entries.
func (s *UserStore) AppendMood(ctx context.Context, id string, entry models.MoodEntry) ([]models.MoodEntry, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{
		"$push": bson.M{"moods": entry},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return nonNilMoods(user.Moods), nil
}

// ListMoods returns the user's mood history in insertion order.
func (s *UserStore) ListMoods(ctx context.Context, id string) ([]models.MoodEntry, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nonNilMoods(user.Moods), nil
}

// MoodStats counts the user's entries per mood and per genre label with an
// aggregation pipeline over the embedded history.
func (s *UserStore) MoodStats(ctx context.Context, id string) (*models.MoodStats, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	// Existence check first: $unwind drops users with an empty history, so a
	// zero-row pipeline result cannot distinguish "no user" from "no entries".
	err = s.users.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$unwind", Value: "$moods"}},
		{{Key: "$facet", Value: bson.M{
			"byMood": bson.A{
				bson.M{"$group": bson.M{"_id": "$moods.mood", "count": bson.M{"$sum": 1}}},
			},
			"byGenre": bson.A{
				bson.M{"$group": bson.M{"_id": "$moods.genre", "count": bson.M{"$sum": 1}}},
			},
			"total": bson.A{
				bson.M{"$count": "count"},
			},
		}}},
	}

	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ByMood []struct {
			Label string `bson:"_id"`
			Count int    `bson:"count"`
		} `bson:"byMood"`
		ByGenre []struct {
			Label string `bson:"_id"`
			Count int    `bson:"count"`
		} `bson:"byGenre"`
		Total []struct {
			Count int `bson:"count"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &models.MoodStats{
		Moods:  make(map[string]int),
		Genres: make(map[string]int),
	}
	if len(rows) == 0 {
		return stats, nil
	}
	for _, m := range rows[0].ByMood {
		stats.Moods[m.Label] = m.Count
	}
	for _, g := range rows[0].ByGenre {
		stats.Genres[g.Label] = g.Count
	}
	if len(rows[0].Total) > 0 {
		stats.TotalEntries = rows[0].Total[0].Count
	}
	return stats, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}

// nonNilMoods keeps empty histories serialising as [] instead of null.
func nonNilMoods(moods []models.MoodEntry) []models.MoodEntry {
	if moods == nil {
		return []models.MoodEntry{}
	}
	return moods
}
