package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"media-library/internal/models"
)

// PageRepo reads page content owned by other subsystems; this service never
// writes pages.
type PageRepo struct {
	col *mongo.Collection
}

func NewPageRepo(col *mongo.Collection) *PageRepo {
	return &PageRepo{col: col}
}

func (r *PageRepo) ListByProject(ctx context.Context, projectID string) ([]models.Page, error) {
	cur, err := r.col.Find(ctx, bson.M{"project_id": projectID},
		options.Find().SetSort(bson.D{{Key: "path", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pages []models.Page
	if err := cur.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// ProjectRepo answers the single question ingestion asks about projects.
type ProjectRepo struct {
	col *mongo.Collection
}

func NewProjectRepo(col *mongo.Collection) *ProjectRepo {
	return &ProjectRepo{col: col}
}

func (r *ProjectRepo) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
