package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const MongoCollection = "blogs"

var _ Repository = (*MongoRepository)(nil)

type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Tags      []string           `bson:"tags"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// listProjection keeps documents written by other tools (e.g. __v) out of responses.
var listProjection = bson.D{
	{Key: "title", Value: 1},
	{Key: "content", Value: 1},
	{Key: "tags", Value: 1},
	{Key: "status", Value: 1},
	{Key: "created_at", Value: 1},
	{Key: "updated_at", Value: 1},
}

// listSort matches the other drivers: newest write first, then newest post.
var listSort = bson.D{
	{Key: "updated_at", Value: -1},
	{Key: "created_at", Value: -1},
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(MongoCollection)}
}

// EnsureIndexes creates the index backing the List sort.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: listSort,
	})
	if err != nil {
		return fmt.Errorf("create list index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, p *Post) (*Post, error) {
	doc := toMongo(p)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return doc.toPost(), nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc mongoPost
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toPost(), nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*Post, error) {
	opts := options.Find().
		SetSort(listSort).
		SetProjection(listProjection)

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	var docs []mongoPost
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	list := make([]*Post, len(docs))
	for i := range docs {
		list[i] = docs[i].toPost()
	}
	return list, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, u Update) (*Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := updateDocument(u)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoPost
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return doc.toPost(), nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func updateDocument(u Update) bson.M {
	tags := u.Tags
	if tags == nil {
		tags = []string{}
	}
	set := bson.M{
		"title":      u.Title,
		"content":    u.Content,
		"tags":       tags,
		"updated_at": u.UpdatedAt,
	}
	if u.Status != nil {
		set["status"] = string(*u.Status)
	}
	return set
}

func toMongo(p *Post) mongoPost {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return mongoPost{
		Title:     p.Title,
		Content:   p.Content,
		Tags:      tags,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d *mongoPost) toPost() *Post {
	p := &Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      d.Tags,
		Status:    Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	p.normalize()
	return p
}
