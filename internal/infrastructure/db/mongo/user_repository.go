package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID                    int64      `bson:"_id"`
	Username              string     `bson:"username"`
	Email                 string     `bson:"email"`
	PasswordHash          string     `bson:"password_hash"`
	FirstName             string     `bson:"first_name"`
	LastName              string     `bson:"last_name"`
	Role                  string     `bson:"role"`
	Enabled               bool       `bson:"enabled"`
	AccountNonExpired     bool       `bson:"account_non_expired"`
	CredentialsNonExpired bool       `bson:"credentials_non_expired"`
	AccountNonLocked      bool       `bson:"account_non_locked"`
	CreatedAt             time.Time  `bson:"created_at"`
	LastLogin             *time.Time `bson:"last_login,omitempty"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:                    u.ID,
		Username:              u.Username,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		Role:                  string(u.Role),
		Enabled:               u.Enabled,
		AccountNonExpired:     u.AccountNonExpired,
		CredentialsNonExpired: u.CredentialsNonExpired,
		AccountNonLocked:      u.AccountNonLocked,
		CreatedAt:             u.CreatedAt,
		LastLogin:             u.LastLogin,
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                    d.ID,
		Username:              d.Username,
		Email:                 d.Email,
		PasswordHash:          d.PasswordHash,
		FirstName:             d.FirstName,
		LastName:              d.LastName,
		Role:                  domain.Role(d.Role),
		Enabled:               d.Enabled,
		AccountNonExpired:     d.AccountNonExpired,
		CredentialsNonExpired: d.CredentialsNonExpired,
		AccountNonLocked:      d.AccountNonLocked,
		CreatedAt:             d.CreatedAt,
		LastLogin:             d.LastLogin,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, collectionUsers)
	if err != nil {
		return err
	}

	doc := toUserDocument(u)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return mapWriteError(err)
	}
	u.ID = id
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the stored document; username and created_at are kept.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"email":                   u.Email,
		"password_hash":           u.PasswordHash,
		"first_name":              u.FirstName,
		"last_name":               u.LastName,
		"role":                    string(u.Role),
		"enabled":                 u.Enabled,
		"account_non_expired":     u.AccountNonExpired,
		"credentials_non_expired": u.CredentialsNonExpired,
		"account_non_locked":      u.AccountNonLocked,
	}
	if u.LastLogin != nil {
		set["last_login"] = *u.LastLogin
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": set})
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": at}})
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.User, 0)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the unique username and email indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName(indexUsername).SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(indexUserEmail).SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
