package repository

import (
	"context"
	"time"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMergedRecordRepository implements MergedRecordRepository
type MongoMergedRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoMergedRecordRepository creates a new merged record repository
func NewMongoMergedRecordRepository(db *mongo.Database) repository.MergedRecordRepository {
	collection := db.Collection("merged_flight_records")

	// Create unique index on flightKey
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"flightKey": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	// Create index on flightDate for report queries
	dateIndex := mongo.IndexModel{
		Keys: bson.M{"flightDate": 1},
	}
	collection.Indexes().CreateOne(ctx, dateIndex)

	return &MongoMergedRecordRepository{
		collection: collection,
	}
}

// FindByFlightKey finds a merged record by flight key
func (r *MongoMergedRecordRepository) FindByFlightKey(ctx context.Context, flightKey string) (*entity.MergedRecord, error) {
	var record entity.MergedRecord
	err := r.collection.FindOne(ctx, bson.M{"flightKey": flightKey}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert creates or updates a merged record
func (r *MongoMergedRecordRepository) Upsert(ctx context.Context, record *entity.MergedRecord) error {
	record.UpdatedAt = time.Now()

	// For new records
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
		record.CreatedAt = time.Now()
	}

	updateDoc := bson.M{
		"flightKey":        record.FlightKey,
		"flightNumber":     record.FlightNumber,
		"flightDate":       record.FlightDate,
		"timeOfDeparture":  record.TimeOfDeparture,
		"departureAirport": record.DepartureAirport,
		"arrivalAirport":   record.ArrivalAirport,
		"blockFuel":        record.BlockFuel,
		"tripFuel":         record.TripFuel,
		"fuelOnBoard":      record.FuelOnBoard,
		"airDistanceNm":    record.AirDistanceNM,
		"carbonEmissionKg": record.CarbonEmissionKg,
		"dataComplete":     record.DataComplete,
		"fields":           record.Fields,
		"createdAt":        record.CreatedAt,
		"updatedAt":        record.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"flightKey": record.FlightKey}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{"$set": updateDoc},
		opts,
	)
	if err != nil {
		return err
	}

	// If it was an insert, we need to get the new ID
	if result.UpsertedCount > 0 && result.UpsertedID != nil {
		if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
			record.ID = oid.Hex()
		}
	}

	return nil
}
