package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"media-library/internal/models"
)

// ListOptions narrows and pages a catalog listing.
type ListOptions struct {
	Type   string // image | video | pdf | all
	Search string // case-insensitive substring over filename and display name
	Page   int
	Limit  int
}

type AssetRepo struct {
	col *mongo.Collection
}

func NewAssetRepo(col *mongo.Collection) *AssetRepo {
	return &AssetRepo{col: col}
}

func (r *AssetRepo) Insert(ctx context.Context, a *models.Asset) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *AssetRepo) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	var a models.Asset
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SumSizeByProject is the quota read: one aggregate over the project's rows.
func (r *AssetRepo) SumSizeByProject(ctx context.Context, projectID string) (int64, error) {
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"project_id": projectID}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$size"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var out struct {
		Total int64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&out); err != nil {
			return 0, err
		}
	}
	return out.Total, cur.Err()
}

func (r *AssetRepo) List(ctx context.Context, projectID string, opts ListOptions) ([]models.Asset, int64, error) {
	filter := bson.M{"project_id": projectID}
	switch opts.Type {
	case "image":
		filter["mime_type"] = bson.M{"$regex": "^image/"}
	case "video":
		filter["mime_type"] = bson.M{"$regex": "^video/"}
	case "pdf":
		filter["mime_type"] = "application/pdf"
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		pattern := regexp.QuoteMeta(s)
		filter["$or"] = bson.A{
			bson.M{"filename": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	// total is independent of the page window
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))
	cur, err := r.col.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var assets []models.Asset
	if err := cur.All(ctx, &assets); err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// UpdateMeta changes display name and alt text, the only mutable fields, and
// returns the row as updated.
func (r *AssetRepo) UpdateMeta(ctx context.Context, projectID, id string, name, altText *string) (*models.Asset, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if name != nil {
		set["name"] = *name
	}
	if altText != nil {
		set["alt_text"] = *altText
	}

	var a models.Asset
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "project_id": projectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
