package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/templui/portfolio/internal/model"
)

const usersCollection = "users"

type userDocument struct {
	ID                      primitive.ObjectID            `bson:"_id,omitempty"`
	Name                    string                        `bson:"name"`
	Email                   string                        `bson:"email"`
	Password                *string                       `bson:"password,omitempty"`
	Role                    model.Role                    `bson:"role"`
	Image                   *string                       `bson:"image,omitempty"`
	Phone                   *string                       `bson:"phone,omitempty"`
	Address                 *string                       `bson:"address,omitempty"`
	Bio                     *string                       `bson:"bio,omitempty"`
	IsActive                bool                          `bson:"isActive"`
	EmailVerified           *time.Time                    `bson:"emailVerified,omitempty"`
	LastLogin               *time.Time                    `bson:"lastLogin,omitempty"`
	AuthProvider            model.AuthProvider            `bson:"authProvider,omitempty"`
	NotificationPreferences model.NotificationPreferences `bson:"notificationPreferences"`
	CreatedAt               time.Time                     `bson:"createdAt"`
	UpdatedAt               time.Time                     `bson:"updatedAt"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:                      d.ID.Hex(),
		Name:                    d.Name,
		Email:                   d.Email,
		PasswordHash:            d.Password,
		Role:                    d.Role,
		Image:                   d.Image,
		Phone:                   d.Phone,
		Address:                 d.Address,
		Bio:                     d.Bio,
		IsActive:                d.IsActive,
		EmailVerifiedAt:         d.EmailVerified,
		LastLoginAt:             d.LastLogin,
		AuthProvider:            d.AuthProvider,
		NotificationPreferences: d.NotificationPreferences,
		CreatedAt:               d.CreatedAt,
		UpdatedAt:               d.UpdatedAt,
	}
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository stores users as documents in the "users" collection.
// Call EnsureUserIndexes once at startup.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

// EnsureUserIndexes creates the unique email index and the secondary
// query indexes. It is idempotent.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "authProvider", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "isActive", Value: 1}}},
	}

	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	err := prepareForCreate(user)
	if err != nil {
		return err
	}

	doc := userDocument{
		ID:                      primitive.NewObjectID(),
		Name:                    user.Name,
		Email:                   user.Email,
		Password:                user.PasswordHash,
		Role:                    user.Role,
		Image:                   user.Image,
		Phone:                   user.Phone,
		Address:                 user.Address,
		Bio:                     user.Bio,
		IsActive:                user.IsActive,
		EmailVerified:           user.EmailVerifiedAt,
		LastLogin:               user.LastLoginAt,
		AuthProvider:            user.AuthProvider,
		NotificationPreferences: user.NotificationPreferences,
		CreatedAt:               user.CreatedAt,
		UpdatedAt:               user.UpdatedAt,
	}

	_, err = r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": model.NormalizeEmail(email)})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoUserRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, *upd.Role)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.Image != nil {
		set["image"] = nullable(*upd.Image)
	}
	if upd.Phone != nil {
		set["phone"] = nullable(*upd.Phone)
	}
	if upd.Address != nil {
		set["address"] = nullable(*upd.Address)
	}
	if upd.Bio != nil {
		set["bio"] = nullable(*upd.Bio)
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}
	if upd.EmailVerifiedAt != nil {
		set["emailVerified"] = upd.EmailVerifiedAt.UTC()
	}
	if upd.LastLoginAt != nil {
		set["lastLogin"] = upd.LastLoginAt.UTC()
	}
	if upd.AuthProvider != nil {
		set["authProvider"] = *upd.AuthProvider
	}
	if upd.PasswordHash != nil {
		set["password"] = nullable(*upd.PasswordHash)
	}
	if upd.NotificationPreferences != nil {
		set["notificationPreferences"] = *upd.NotificationPreferences
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return doc.toModel(), nil
}

func (r *mongoUserRepository) List(ctx context.Context, filter UserFilter) ([]model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
		if filter.Offset > 0 {
			opts.SetSkip(int64(filter.Offset))
		}
	}

	cursor, err := r.coll.Find(ctx, filter.bson(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	users := []model.User{}
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, *doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context, filter UserFilter) (int, error) {
	n, err := r.coll.CountDocuments(ctx, filter.bson())
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return int(n), nil
}

func (f UserFilter) bson() bson.M {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.Active != nil {
		q["isActive"] = *f.Active
	}
	if f.Provider != "" {
		q["authProvider"] = f.Provider
	}
	return q
}
