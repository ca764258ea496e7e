// Package mongo implements a membership store on MongoDB.
//
// Pages live in the "page" collection keyed by page id; category links live
// in "categorylinks" as {from, to} documents. The aggregation is a single
// pipeline over categorylinks (see [SubcategoriesPipeline]).
package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

// Collection names.
const (
	PagesCollection = "page"
	LinksCollection = "categorylinks"
)

// DefaultDatabase is used when the connection URI names no database.
const DefaultDatabase = "categorycloud"

// Store queries a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New wraps a connected client. The store takes ownership of client and
// disconnects it in Close.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// Open connects to uri, verifies the connection and creates indexes.
func Open(ctx context.Context, uri string) (*Store, error) {
	database, err := DatabaseName(uri)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}

	s := New(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// DatabaseName returns the database named in uri, or DefaultDatabase.
func DatabaseName(uri string) (string, error) {
	cs, err := connstring.Parse(uri)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse mongo uri")
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

// EnsureIndexes creates the unique indexes that mirror the SQL schema.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(PagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create page index")
	}

	_, err = s.db.Collection(LinksCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "to", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create categorylinks indexes")
	}
	return nil
}

// SubcategoriesPipeline builds the aggregation run against categorylinks.
//
// Stages: links into category, joined to their page, restricted to the
// category namespace; then for each subcategory the number of its links
// whose member page exists and is not the subcategory itself. Subcategories
// with no counted members drop out at the $unwind.
func SubcategoriesPipeline(category string, order membership.Order) mongo.Pipeline {
	sort := bson.D{{Key: "name", Value: 1}}
	if order == membership.OrderByCount {
		sort = bson.D{{Key: "count", Value: -1}, {Key: "name", Value: 1}}
	}

	members := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$to", "$$title"}}},
			bson.D{{Key: "$ne", Value: bson.A{"$from", "$$id"}}},
		}}}}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: PagesCollection},
			{Key: "localField", Value: "from"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "page"},
		}}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "page.0", Value: bson.D{{Key: "$exists", Value: true}}}}}},
		bson.D{{Key: "$count", Value: "n"}},
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "to", Value: category}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: PagesCollection},
			{Key: "localField", Value: "from"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "sub"},
		}}},
		{{Key: "$unwind", Value: "$sub"}},
		{{Key: "$match", Value: bson.D{{Key: "sub.namespace", Value: membership.NamespaceCategory}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: LinksCollection},
			{Key: "let", Value: bson.D{{Key: "title", Value: "$sub.title"}, {Key: "id", Value: "$sub._id"}}},
			{Key: "pipeline", Value: members},
			{Key: "as", Value: "members"},
		}}},
		{{Key: "$unwind", Value: "$members"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: "$sub.title"},
			{Key: "count", Value: "$members.n"},
		}}},
		{{Key: "$sort", Value: sort}},
	}
}

// Subcategories implements [membership.Store].
func (s *Store) Subcategories(ctx context.Context, category string, order membership.Order) ([]membership.Entry, error) {
	cur, err := s.db.Collection(LinksCollection).Aggregate(ctx, SubcategoriesPipeline(category, order))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "aggregate subcategories of %s", category)
	}
	defer cur.Close(ctx)

	entries := []membership.Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode subcategories")
	}
	return entries, nil
}

// Load implements [membership.Loader]. Pages are inserted and must be new;
// links are upserted so duplicates are ignored. Without a replica set there
// is no transaction, so a failed page insert may leave earlier pages behind.
func (s *Store) Load(ctx context.Context, ds *membership.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	if len(ds.Pages) > 0 {
		docs := make([]any, len(ds.Pages))
		for i, p := range ds.Pages {
			docs[i] = p
		}
		if _, err := s.db.Collection(PagesCollection).InsertMany(ctx, docs); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "insert pages")
		}
	}

	if len(ds.Links) > 0 {
		models := make([]mongo.WriteModel, len(ds.Links))
		for i, l := range ds.Links {
			models[i] = mongo.NewUpdateOneModel().
				SetFilter(bson.D{{Key: "from", Value: l.From}, {Key: "to", Value: l.To}}).
				SetUpdate(bson.D{{Key: "$setOnInsert", Value: l}}).
				SetUpsert(true)
		}
		opts := options.BulkWrite().SetOrdered(false)
		if _, err := s.db.Collection(LinksCollection).BulkWrite(ctx, models, opts); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "upsert links")
		}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

var (
	_ membership.Store  = (*Store)(nil)
	_ membership.Loader = (*Store)(nil)
)
