package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/matsyaark/api/internal/entity"
)

// ContactsCollection is the MongoDB collection holding contact messages.
const ContactsCollection = "contactmessages"

// MongoDB server error codes.
const (
	mongoDocumentValidationFailure = 121
	mongoNamespaceExists           = 48
)

// contactDocument is the stored BSON shape of a contact message.
type contactDocument struct {
	ID        string    `bson:"_id"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone,omitempty"`
	PhoneE164 string    `bson:"phoneE164,omitempty"`
	Message   string    `bson:"message"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoContactsRepository implements ContactsRepository on MongoDB.
type MongoContactsRepository struct {
	db     *mongo.Database
	insert func(ctx context.Context, doc any) error
}

// NewMongoContactsRepository wires a repository on the given database.
func NewMongoContactsRepository(db *mongo.Database) *MongoContactsRepository {
	coll := db.Collection(ContactsCollection)
	return &MongoContactsRepository{
		db: db,
		insert: func(ctx context.Context, doc any) error {
			_, err := coll.InsertOne(ctx, doc)
			return err
		},
	}
}

// Create inserts one document into the contacts collection.
func (r *MongoContactsRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	if msg == nil {
		return fmt.Errorf("contact message payload is nil")
	}

	doc := contactDocument{
		ID:        msg.ID.String(),
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
		Email:     msg.Email,
		Phone:     msg.Phone,
		PhoneE164: msg.PhoneE164,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: msg.UpdatedAt,
	}
	if err := r.insert(ctx, doc); err != nil {
		var serverErr mongo.ServerError
		if errors.As(err, &serverErr) && serverErr.HasErrorCode(mongoDocumentValidationFailure) {
			return ValidationError{Message: "contact message rejected by storage schema"}
		}
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// EnsureSchema creates the collection with its $jsonSchema validator, or
// updates the validator when the collection already exists.
func (r *MongoContactsRepository) EnsureSchema(ctx context.Context) error {
	validator := contactsValidator()

	err := r.db.CreateCollection(ctx, ContactsCollection, options.CreateCollection().SetValidator(validator))
	if err != nil {
		var serverErr mongo.ServerError
		if !errors.As(err, &serverErr) || !serverErr.HasErrorCode(mongoNamespaceExists) {
			return fmt.Errorf("create %s collection: %w", ContactsCollection, err)
		}
		cmd := bson.D{{Key: "collMod", Value: ContactsCollection}, {Key: "validator", Value: validator}}
		if err := r.db.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("update %s validator: %w", ContactsCollection, err)
		}
	}

	_, err = r.db.Collection(ContactsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create %s index: %w", ContactsCollection, err)
	}
	return nil
}

func contactsValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"firstName", "email", "message", "createdAt", "updatedAt"},
			"properties": bson.M{
				"firstName": bson.M{"bsonType": "string", "minLength": 1},
				"lastName":  bson.M{"bsonType": "string"},
				"email":     bson.M{"bsonType": "string", "pattern": `^[^@\s]+@[^@\s]+\.[^@\s]{2,}$`},
				"phone":     bson.M{"bsonType": "string"},
				"phoneE164": bson.M{"bsonType": "string"},
				"message":   bson.M{"bsonType": "string", "minLength": 1},
				"createdAt": bson.M{"bsonType": "date"},
				"updatedAt": bson.M{"bsonType": "date"},
			},
		},
	}
}

var _ ContactsRepository = (*MongoContactsRepository)(nil)
