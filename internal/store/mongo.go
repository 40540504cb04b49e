package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Quadrial/Quad-Harvest-Backend/internal/models"
)

// MongoStore handles post CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("posts")}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

func (s *MongoStore) InsertPost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return post, nil
}

func (s *MongoStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var post models.Post
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoStore) ListPostsByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

func (s *MongoStore) ListPostsSavedBy(ctx context.Context, userID string) ([]models.Post, error) {
	return s.find(ctx, bson.M{"saves": userID})
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cur, err := s.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleMember flips userID's membership in the post's likes or saves array as
// a single conditional update: present → removed, absent → appended. Doing the
// flip server-side keeps concurrent toggles from losing each other's writes,
// which a read-then-save loop would.
func (s *MongoStore) ToggleMember(ctx context.Context, postID, field, userID string) (*models.Post, error) {
	if field != "likes" && field != "saves" {
		return nil, fmt.Errorf("toggle: unknown field %q", field)
	}
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrNotFound
	}

	current := bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}
	update := bson.A{bson.M{"$set": bson.M{field: bson.M{"$cond": bson.A{
		bson.M{"$in": bson.A{userID, current}},
		bson.M{"$setDifference": bson.A{current, bson.A{userID}}},
		bson.M{"$concatArrays": bson.A{current, bson.A{userID}}},
	}}}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
