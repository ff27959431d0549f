package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parnasoft/blog-platform/internal/core/domain"
	"github.com/parnasoft/blog-platform/internal/core/ports"
)

const (
	collectionPosts    = "posts"
	collectionCounters = "counters"
)

type PostRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		col:      db.Collection(collectionPosts),
		counters: db.Collection(collectionCounters),
	}
}

// Create inserts a new post document. A duplicate slug surfaces as
// domain.ErrSlugTaken (backed by the unique index).
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return err
	}
	return nil
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Post
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Post
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns posts matching filter, newest first. Visibility scoping is
// mandatory: an empty tier list matches nothing.
func (r *PostRepository) List(ctx context.Context, f ports.ListPostsFilter) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tiers := make([]domain.Visibility, len(f.Visibilities))
	copy(tiers, f.Visibilities)
	filter := bson.M{"visibility": bson.M{"$in": tiers}}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	if f.Search != "" {
		re := primitiveRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"excerpt": re},
			bson.M{"content": re},
			bson.M{"tags": re},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []*domain.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces the document addressed by p.Slug.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"slug": p.Slug}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// Replace replaces the document addressed by p.ID. ReplaceOne on _id is a
// single atomic write; a slug collision with another post trips the unique
// index and surfaces as domain.ErrSlugTaken.
func (r *PostRepository) Replace(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// NextID reserves the next numeric post id from the counters collection.
func (r *PostRepository) NextID(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "posts"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// CountByTier aggregates post totals by visibility and author type.
func (r *PostRepository) CountByTier(ctx context.Context) (*ports.PostStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.PostStats{
		ByTier:   map[domain.Visibility]int64{},
		ByAuthor: map[domain.AuthorType]int64{},
	}

	for _, tier := range []domain.Visibility{domain.VisibilityPublic, domain.VisibilityInternal, domain.VisibilityRestricted} {
		n, err := r.col.CountDocuments(ctx, bson.M{"visibility": tier})
		if err != nil {
			return nil, err
		}
		stats.ByTier[tier] = n
		stats.Total += n
	}
	for _, at := range []domain.AuthorType{domain.AuthorGeneral, domain.AuthorMD, domain.AuthorNotice} {
		n, err := r.col.CountDocuments(ctx, bson.M{"author_type": at})
		if err != nil {
			return nil, err
		}
		stats.ByAuthor[at] = n
	}

	featured, err := r.col.CountDocuments(ctx, bson.M{"featured": true})
	if err != nil {
		return nil, err
	}
	stats.Featured = featured
	return stats, nil
}

// EnsureIndexes creates the unique slug index and the listing indexes.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func primitiveRegex(search string) bson.M {
	return bson.M{"$regex": escapeRegex(search), "$options": "i"}
}

// escapeRegex neutralizes regex metacharacters so a search term is always a
// literal substring match.
func escapeRegex(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
