// sync/mongo.go
package sync

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Karthick1242004/cmms-sub009/models"
)

// MongoAssetRepository reads and writes the assets collection directly.
// Used when the reconciler runs in-process with the API handlers.
type MongoAssetRepository struct {
	coll *mongo.Collection
}

func NewMongoAssetRepository(coll *mongo.Collection) *MongoAssetRepository {
	return &MongoAssetRepository{coll: coll}
}

func (r *MongoAssetRepository) GetAsset(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	var asset models.Asset
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&asset)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *MongoAssetRepository) UpdateAssetBOM(ctx context.Context, id primitive.ObjectID, bom []models.BOMItem) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"partsBOM":  bom,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoPartRepository is the part-side counterpart of MongoAssetRepository.
type MongoPartRepository struct {
	coll *mongo.Collection
}

func NewMongoPartRepository(coll *mongo.Collection) *MongoPartRepository {
	return &MongoPartRepository{coll: coll}
}

func (r *MongoPartRepository) GetPart(ctx context.Context, id primitive.ObjectID) (*models.Part, error) {
	var part models.Part
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&part)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *MongoPartRepository) UpdatePartLinks(ctx context.Context, id primitive.ObjectID, links []models.AssetLink) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"linkedAssets": links,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
