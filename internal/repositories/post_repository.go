package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/stylesnap/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when a post id does not resolve to a
// document (including malformed ids).
var ErrPostNotFound = errors.New("post not found")

// PostQuery is the feed composer's predicate vocabulary, translated to a
// MongoDB filter by the repository. OwnerIDs restricts to a set of
// authors; OwnerID to exactly one. Text engages the description+tags text
// index.
type PostQuery struct {
	Status      string
	OwnerIDs    []uint
	OwnerID     *uint
	Occasion    string
	Style       string
	Tags        []string
	Text        string
	SortPopular bool
	Skip        int64
	Limit       int64
}

// PostRepository defines the interface for the MongoDB post store.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error)
	UpdatePostFields(ctx context.Context, id string, fields map[string]interface{}) error
	DeletePost(ctx context.Context, id string) error
	FindPosts(ctx context.Context, q PostQuery) ([]models.Post, error)
	CountPosts(ctx context.Context, q PostQuery) (int64, error)
	IncrementViewsCount(ctx context.Context, postID string) error
	AdjustLikesCount(ctx context.Context, postID string, delta int) error
	AdjustCommentsCount(ctx context.Context, postID string, delta int) error
	AdjustSavedCount(ctx context.Context, postID string, delta int) error
	SetRatingSummary(ctx context.Context, postID string, avg float64, count int64) error
	TagSuggestions(ctx context.Context, prefix string, limit int) ([]string, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

func objectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrPostNotFound
	}
	return objID, nil
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.ClothItems == nil {
		post.ClothItems = []models.ClothItem{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}
	if len(objIDs) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePostFields applies a partial $set update.
func (r *MongoPostRepository) UpdatePostFields(ctx context.Context, id string, fields map[string]interface{}) error {
	objID, err := objectID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func buildFilter(q PostQuery) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.OwnerID != nil {
		filter["user_id"] = *q.OwnerID
	} else if q.OwnerIDs != nil {
		filter["user_id"] = bson.M{"$in": q.OwnerIDs}
	}
	if q.Occasion != "" {
		filter["occasion"] = q.Occasion
	}
	if q.Style != "" {
		filter["style"] = q.Style
	}
	if len(q.Tags) > 0 {
		filter["tags"] = bson.M{"$in": q.Tags}
	}
	if q.Text != "" {
		filter["$text"] = bson.M{"$search": q.Text}
	}
	return filter
}

// FindPosts runs the predicate with sorting and offset pagination.
func (r *MongoPostRepository) FindPosts(ctx context.Context, q PostQuery) ([]models.Post, error) {
	sort := bson.D{{Key: "created_at", Value: -1}}
	if q.SortPopular {
		sort = bson.D{{Key: "likes_count", Value: -1}, {Key: "created_at", Value: -1}}
	}
	findOptions := options.Find().SetSkip(q.Skip).SetLimit(q.Limit).SetSort(sort)

	cursor, err := r.collection.Find(ctx, buildFilter(q), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts counts documents matching the same predicate FindPosts uses.
func (r *MongoPostRepository) CountPosts(ctx context.Context, q PostQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, buildFilter(q))
}

// IncrementViewsCount bumps viewsCount; every read is a view.
func (r *MongoPostRepository) IncrementViewsCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "views_count", 1)
}

func (r *MongoPostRepository) AdjustLikesCount(ctx context.Context, postID string, delta int) error {
	return r.adjustCounter(ctx, postID, "likes_count", delta)
}

func (r *MongoPostRepository) AdjustCommentsCount(ctx context.Context, postID string, delta int) error {
	return r.adjustCounter(ctx, postID, "comments_count", delta)
}

func (r *MongoPostRepository) AdjustSavedCount(ctx context.Context, postID string, delta int) error {
	return r.adjustCounter(ctx, postID, "saved_count", delta)
}

func (r *MongoPostRepository) adjustCounter(ctx context.Context, postID, field string, delta int) error {
	objID, err := objectID(postID)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: delta}})
	return err
}

// SetRatingSummary persists a freshly recomputed rating average and count.
func (r *MongoPostRepository) SetRatingSummary(ctx context.Context, postID string, avg float64, count int64) error {
	objID, err := objectID(postID)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"rating_avg": avg, "rating_count": count},
	})
	return err
}

// TagSuggestions returns the most used tags starting with prefix across
// published posts.
func (r *MongoPostRepository) TagSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.PostStatusPublished}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$match", Value: bson.M{"tags": tagPrefixPattern(prefix)}}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Tag string `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, row.Tag)
	}
	return tags, nil
}

// tagPrefixPattern builds a case-insensitive anchored prefix match,
// escaping any regex metacharacters in the user-supplied prefix.
func tagPrefixPattern(prefix string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix), Options: "i"}
}
