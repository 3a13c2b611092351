/* mongo_store.go
 * Contains the MongoDB implementation of the store, for deployments that already run
 * Mongo rather than a writable data directory. Active and archived tournaments live
 * in separate collections so restart reloads never scan concluded events
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Active  *mongo.Collection
		Archive *mongo.Collection
	}
}

// NewMongoStore initialises the Mongo connection and collection handles
// Preconditions: Receives the database name and mongo URI
// Postconditions: Returns a pointer to the MongoStore, or an error if it occurs
func NewMongoStore(dbName string, mongoURI string) (*MongoStore, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &MongoStore{
		Client:   client,
		Database: db,
	}
	s.Collections.Active = db.Collection("tournaments")
	s.Collections.Archive = db.Collection("tournaments_archive")
	return s, nil
}

// Save upserts the record into the active collection
// Preconditions: Receives a record with a non-empty ID
// Postconditions: The active collection holds the record, or an error is returned
func (s *MongoStore) Save(record *EventRecord) error {
	if record.ID == "" {
		return fmt.Errorf("cannot save a record without an id")
	}
	filter := bson.D{{Key: "_id", Value: record.ID}}
	opts := options.Replace().SetUpsert(true)
	_, err := s.Collections.Active.ReplaceOne(context.TODO(), filter, record, opts)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", record.ID, err)
	}
	return nil
}

// LoadAll returns every record in the active collection
// Preconditions: None
// Postconditions: Returns the decoded records, or an error if it occurs
func (s *MongoStore) LoadAll() ([]*EventRecord, error) {
	cursor, err := s.Collections.Active.Find(context.TODO(), bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query active tournaments: %w", err)
	}
	defer cursor.Close(context.TODO())

	var records []*EventRecord
	if err := cursor.All(context.TODO(), &records); err != nil {
		return nil, fmt.Errorf("failed to decode active tournaments: %w", err)
	}
	return records, nil
}

// Archive moves a record from the active to the archive collection. The insert
// happens before the delete so a crash between the two leaves a duplicate, not
// a lost record
// Preconditions: Receives the record id
// Postconditions: The record lives in the archive collection only, or an error is returned
func (s *MongoStore) Archive(id string) error {
	filter := bson.D{{Key: "_id", Value: id}}

	var record EventRecord
	err := s.Collections.Active.FindOne(context.TODO(), filter).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("no active record for %s", id)
		}
		return fmt.Errorf("failed to fetch record %s: %w", id, err)
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.Collections.Archive.ReplaceOne(context.TODO(), filter, &record, opts); err != nil {
		return fmt.Errorf("failed to write archive record %s: %w", id, err)
	}
	if _, err := s.Collections.Active.DeleteOne(context.TODO(), filter); err != nil {
		return fmt.Errorf("failed to remove active record %s: %w", id, err)
	}
	return nil
}

// Ensure MongoStore implements Interface
var _ Interface = (*MongoStore)(nil)
