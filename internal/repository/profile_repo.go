package repository

import (
	"context"
	"time"

	"devconnector-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProfileRepo struct {
	collection *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) *ProfileRepo {
	return &ProfileRepo{
		collection: db.Collection("profiles"),
	}
}

func (r *ProfileRepo) FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepo) FindAll(ctx context.Context) ([]models.Profile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert applies the sparse field set in one atomic conditional update,
// creating the profile when none exists. The owner and creation date are
// written with $setOnInsert so they never change on later upserts and the
// call stays idempotent. Two first-time upserts racing on the unique "user"
// index make the loser fail with a duplicate key; that attempt is retried
// once as a plain update.
func (r *ProfileRepo) Upsert(ctx context.Context, userID bson.ObjectID, update models.ProfileUpdate) (*models.Profile, error) {
	set := bson.M{}
	for path, value := range update.Fields {
		set[path] = value
	}
	doc := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"user": userID, "date": time.Now()},
	}
	filter := bson.M{"user": userID}

	var profile models.Profile
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, filter, doc, opts).Decode(&profile)
	if mongo.IsDuplicateKeyError(err) {
		retryOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.collection.FindOneAndUpdate(ctx, filter, doc, retryOpts).Decode(&profile)
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteByUser removes the profile if one exists. A missing profile is not
// an error.
func (r *ProfileRepo) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user": userID})
	return err
}

// AddExperience prepends the entry so the list stays newest-first. Returns
// (nil, nil) when the user has no profile; adding an entry never creates
// the parent document.
func (r *ProfileRepo) AddExperience(ctx context.Context, userID bson.ObjectID, exp models.Experience) (*models.Profile, error) {
	update := bson.M{
		"$push": bson.M{"experience": bson.M{"$each": bson.A{exp}, "$position": 0}},
	}
	return r.findAndUpdate(ctx, bson.M{"user": userID}, update)
}

// RemoveExperience pulls the entry with the given id. Returns (nil, nil)
// when the profile does not exist or carries no entry with that id.
func (r *ProfileRepo) RemoveExperience(ctx context.Context, userID bson.ObjectID, expID string) (*models.Profile, error) {
	filter := bson.M{"user": userID, "experience.id": expID}
	update := bson.M{"$pull": bson.M{"experience": bson.M{"id": expID}}}
	return r.findAndUpdate(ctx, filter, update)
}

func (r *ProfileRepo) AddEducation(ctx context.Context, userID bson.ObjectID, edu models.Education) (*models.Profile, error) {
	update := bson.M{
		"$push": bson.M{"education": bson.M{"$each": bson.A{edu}, "$position": 0}},
	}
	return r.findAndUpdate(ctx, bson.M{"user": userID}, update)
}

func (r *ProfileRepo) RemoveEducation(ctx context.Context, userID bson.ObjectID, eduID string) (*models.Profile, error) {
	filter := bson.M{"user": userID, "education.id": eduID}
	update := bson.M{"$pull": bson.M{"education": bson.M{"id": eduID}}}
	return r.findAndUpdate(ctx, filter, update)
}

func (r *ProfileRepo) findAndUpdate(ctx context.Context, filter, update bson.M) (*models.Profile, error) {
	var profile models.Profile
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// EnsureIndexes creates necessary indexes for the profiles collection. The
// unique index on "user" is what enforces one profile per owner under
// concurrent upserts.
func (r *ProfileRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
