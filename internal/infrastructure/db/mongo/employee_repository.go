package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

const collectionEmployees = "employees"

type EmployeeRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{db: db, col: db.Collection(collectionEmployees)}
}

type employeeDocument struct {
	ID         int64     `bson:"_id"`
	FirstName  string    `bson:"first_name"`
	LastName   string    `bson:"last_name"`
	Email      string    `bson:"email"`
	Phone      string    `bson:"phone,omitempty"`
	HireDate   time.Time `bson:"hire_date"`
	Salary     *float64  `bson:"salary"`
	Department string    `bson:"department,omitempty"`
}

func toEmployeeDocument(e *domain.Employee) employeeDocument {
	return employeeDocument{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		HireDate:   e.HireDate,
		Salary:     e.Salary,
		Department: e.Department,
	}
}

func (d employeeDocument) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:         d.ID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Phone:      d.Phone,
		HireDate:   domain.DateOnly(d.HireDate),
		Salary:     d.Salary,
		Department: d.Department,
	}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, collectionEmployees)
	if err != nil {
		return err
	}

	doc := toEmployeeDocument(e)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return mapWriteError(err)
	}
	e.ID = id
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc employeeDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

// Update overwrites every field except _id and hire_date.
func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": e.ID}, bson.M{"$set": bson.M{
		"first_name": e.FirstName,
		"last_name":  e.LastName,
		"email":      e.Email,
		"phone":      e.Phone,
		"salary":     e.Salary,
		"department": e.Department,
	}})
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete employee: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *EmployeeRepository) List(ctx context.Context, f ports.EmployeeFilter) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, employeeFilter(f), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.Employee, 0)
	for cur.Next(ctx) {
		var doc employeeDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode employee: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the unique email index and the department index.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(indexEmployeeEmail).SetUnique(true)},
		{Keys: bson.D{{Key: "department", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// employeeFilter translates the port filter into a query document. Range
// operators never match a null salary.
func employeeFilter(f ports.EmployeeFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"first_name": re},
			bson.M{"last_name": re},
		}
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}

	salary := bson.M{}
	if f.SalaryMin != nil {
		salary["$gte"] = *f.SalaryMin
	}
	if f.SalaryMax != nil {
		salary["$lte"] = *f.SalaryMax
	}
	if f.SalaryAbove != nil {
		salary["$gt"] = *f.SalaryAbove
	}
	if len(salary) > 0 {
		filter["salary"] = salary
	}
	return filter
}
