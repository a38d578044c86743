package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

func duplicateKey(index string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: employees.users index: " + index + " dup key: { }",
	}}}
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		index string
		want  error
	}{
		{indexUsername, domain.ErrDuplicateUsername},
		{indexUserEmail, domain.ErrDuplicateEmail},
		{indexEmployeeEmail, domain.ErrDuplicateEmail},
	}
	for _, tt := range tests {
		if got := mapWriteError(duplicateKey(tt.index)); !errors.Is(got, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.index, tt.want, got)
		}
	}

	plain := errors.New("network down")
	if got := mapWriteError(plain); got != plain {
		t.Fatalf("expected non-duplicate error untouched, got %v", got)
	}
}

func TestEmployeeFilter(t *testing.T) {
	if f := employeeFilter(ports.EmployeeFilter{}); len(f) != 0 {
		t.Fatalf("expected empty filter, got %v", f)
	}

	above := 5000.0
	f := employeeFilter(ports.EmployeeFilter{Name: "o'b.", Department: "IT", SalaryAbove: &above})
	if f["department"] != "IT" {
		t.Fatalf("missing department: %v", f)
	}
	salary, ok := f["salary"].(bson.M)
	if !ok || salary["$gt"] != above {
		t.Fatalf("unexpected salary clause: %v", f["salary"])
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("unexpected name clause: %v", f["$or"])
	}
	re := or[0].(bson.M)["first_name"].(primitive.Regex)
	if re.Pattern != `o'b\.` || re.Options != "i" {
		t.Fatalf("expected quoted case-insensitive pattern, got %+v", re)
	}
}
