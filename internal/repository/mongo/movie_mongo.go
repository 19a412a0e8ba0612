package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"moviesapi/internal/model"
	"moviesapi/internal/query"
	"moviesapi/internal/repository"
)

// documentValidationFailure is the server code for a $jsonSchema rejection.
const documentValidationFailure = 121

// movieDocument is the stored shape of a movie.
type movieDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Director    *string       `bson:"director,omitempty"`
	ReleaseYear *int          `bson:"releaseYear,omitempty"`
	Genre       *string       `bson:"genre,omitempty"`
	Rating      *float64      `bson:"rating,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (d movieDocument) toModel() model.Movie {
	return model.Movie{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Director:    d.Director,
		ReleaseYear: d.ReleaseYear,
		Genre:       d.Genre,
		Rating:      d.Rating,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// MovieMongo is a MongoDB implementation of repository.MovieRepository.
type MovieMongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMovieMongo creates a repository over the given collection.
func NewMovieMongo(client *mongo.Client, coll *mongo.Collection) *MovieMongo {
	return &MovieMongo{client: client, coll: coll, now: time.Now}
}

var _ repository.MovieRepository = (*MovieMongo)(nil)

// EnsureIndexes creates the secondary indexes used by filters and sorts.
// Creating an index that already exists is a no-op on the server.
func (r *MovieMongo) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "director", Value: 1}}},
		{Keys: bson.D{{Key: "genre", Value: 1}}},
		{Keys: bson.D{{Key: "releaseYear", Value: -1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Find returns one page of matching movies.
func (r *MovieMongo) Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]model.Movie, error) {
	opts := options.Find().SetSort(buildSort(sort))
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, translateError(err)
	}
	var docs []movieDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}

	items := make([]model.Movie, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toModel())
	}
	return items, nil
}

// Count returns the number of matching movies.
func (r *MovieMongo) Count(ctx context.Context, filter query.Filter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

// FindByID fetches a single movie.
func (r *MovieMongo) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var d movieDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		return nil, translateError(err)
	}
	m := d.toModel()
	return &m, nil
}

// Insert stores a new movie with a fresh ObjectID and timestamps.
func (r *MovieMongo) Insert(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	d := movieDocument{
		ID:          bson.NewObjectID(),
		Title:       m.Title,
		Director:    m.Director,
		ReleaseYear: m.ReleaseYear,
		Genre:       m.Genre,
		Rating:      m.Rating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, translateError(err)
	}
	out := d.toModel()
	return &out, nil
}

// UpdateByID applies $set with only the fields present in patch and returns
// the post-image. It does not upsert.
func (r *MovieMongo) UpdateByID(ctx context.Context, id string, patch model.MoviePatch) (*model.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	update := bson.D{{Key: "$set", Value: buildSet(patch, r.now().UTC().Truncate(time.Millisecond))}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d movieDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&d); err != nil {
		return nil, translateError(err)
	}
	m := d.toModel()
	return &m, nil
}

// DeleteByID removes a movie and returns what was stored.
func (r *MovieMongo) DeleteByID(ctx context.Context, id string) (*model.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var d movieDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		return nil, translateError(err)
	}
	m := d.toModel()
	return &m, nil
}

// statisticsDocument is the single $group output row.
type statisticsDocument struct {
	TotalMovies   int64    `bson:"totalMovies"`
	AverageRating *float64 `bson:"averageRating"`
	HighestRating *float64 `bson:"highestRating"`
	LowestRating  *float64 `bson:"lowestRating"`
	LatestYear    *int     `bson:"latestYear"`
	OldestYear    *int     `bson:"oldestYear"`
}

// AggregateStatistics runs one $group over the collection. $avg, $max and $min
// skip documents where the field is missing.
func (r *MovieMongo) AggregateStatistics(ctx context.Context) (*model.Statistics, error) {
	cur, err := r.coll.Aggregate(ctx, statisticsPipeline())
	if err != nil {
		return nil, translateError(err)
	}
	var rows []statisticsDocument
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translateError(err)
	}

	stats := &model.Statistics{}
	if len(rows) == 0 {
		return stats, nil
	}
	row := rows[0]
	stats.TotalMovies = row.TotalMovies
	stats.LatestYear = row.LatestYear
	stats.OldestYear = row.OldestYear
	if row.AverageRating != nil {
		stats.AverageRating = *row.AverageRating
	}
	if row.HighestRating != nil {
		stats.HighestRating = *row.HighestRating
	}
	if row.LowestRating != nil {
		stats.LowestRating = *row.LowestRating
	}
	return stats, nil
}

// Ping checks the primary is reachable.
func (r *MovieMongo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func statisticsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalMovies", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "highestRating", Value: bson.D{{Key: "$max", Value: "$rating"}}},
			{Key: "lowestRating", Value: bson.D{{Key: "$min", Value: "$rating"}}},
			{Key: "latestYear", Value: bson.D{{Key: "$max", Value: "$releaseYear"}}},
			{Key: "oldestYear", Value: bson.D{{Key: "$min", Value: "$releaseYear"}}},
		}}},
	}
}

// buildFilter translates a store-agnostic filter. Field names are stored
// under their public spelling, so no mapping is needed.
func buildFilter(f query.Filter) bson.D {
	out := bson.D{}
	for _, c := range f.Conditions {
		key := string(c.Field)
		switch c.Op {
		case query.OpContains:
			s, _ := c.Value.(string)
			out = append(out, bson.E{Key: key, Value: bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}})
		case query.OpEquals:
			out = append(out, bson.E{Key: key, Value: c.Value})
		case query.OpRange:
			rng, _ := c.Value.(query.Range)
			bounds := bson.D{}
			if rng.Min != nil {
				bounds = append(bounds, bson.E{Key: "$gte", Value: *rng.Min})
			}
			if rng.Max != nil {
				bounds = append(bounds, bson.E{Key: "$lte", Value: *rng.Max})
			}
			out = append(out, bson.E{Key: key, Value: bounds})
		}
	}
	return out
}

// buildSort adds _id as a tiebreaker so paging over equal keys is stable.
func buildSort(s query.Sort) bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: string(s.Field), Value: dir}, {Key: "_id", Value: dir}}
}

func buildSet(p model.MoviePatch, now time.Time) bson.D {
	set := bson.D{}
	if p.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *p.Title})
	}
	if p.Director != nil {
		set = append(set, bson.E{Key: "director", Value: *p.Director})
	}
	if p.ReleaseYear != nil {
		set = append(set, bson.E{Key: "releaseYear", Value: *p.ReleaseYear})
	}
	if p.Genre != nil {
		set = append(set, bson.E{Key: "genre", Value: *p.Genre})
	}
	if p.Rating != nil {
		set = append(set, bson.E{Key: "rating", Value: *p.Rating})
	}
	return append(set, bson.E{Key: "updatedAt", Value: now})
}

// translateError maps driver errors onto the repository sentinels. Anything
// else is returned wrapped and treated by callers as a store failure.
func translateError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrConstraintViolation, err)
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(documentValidationFailure) {
		return fmt.Errorf("%w: %v", repository.ErrConstraintViolation, err)
	}
	return fmt.Errorf("mongo: %w", err)
}
