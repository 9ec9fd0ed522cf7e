package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "cinehub/internal/bookings/errors"
	"cinehub/pkg/config"
	"cinehub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoShowRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoShowRepository(cfg *config.Config) ShowRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoShowRepository{
		cfg:        cfg,
		collection: db.Collection(ShowsCollectionName),
	}
}

func (r *mongoShowRepository) GetOrCreate(ctx context.Context, show *model.Show) (*model.Show, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": show.ID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"movie_id":       show.MovieID,
			"movie_title":    show.MovieTitle,
			"cinema":         show.Cinema,
			"datetime":       storeTimestamp(show.Datetime),
			"price_per_seat": show.PricePerSeat,
			"booked_seats":   []string{},
			"version":        int64(0),
			"created_at":     storeTimestamp(time.Now()),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored model.Show
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		// Two concurrent upserts on the same _id: the loser gets E11000 and
		// the winner's record is the one to return.
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByID(ctx, show.ID)
		}
		return nil, fmt.Errorf("failed to get or create show: %w", err)
	}

	return &stored, nil
}

func (r *mongoShowRepository) FindByID(ctx context.Context, id string) (*model.Show, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var show model.Show
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&show)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrShowNotFound
		}
		return nil, fmt.Errorf("failed to find show: %w", err)
	}

	return &show, nil
}

func (r *mongoShowRepository) UpdateSeats(ctx context.Context, id string, expectedVersion int64, seats []string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if seats == nil {
		seats = []string{}
	}

	filter := bson.M{"_id": id, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"booked_seats": seats},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booked seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrVersionConflict
	}

	return nil
}
