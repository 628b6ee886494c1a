package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpExtractsPgxDetails(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "ux_coupons_code_lower",
		TableName:      "coupons",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, fmt.Errorf("insert coupon: %w", pgErr), "coupon exists")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGConstraint != "ux_coupons_code_lower" || d.PGTable != "coupons" {
		t.Fatalf("unexpected dump %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected three chain entries, got %d", len(d.Chain))
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation")
	}

	fields := d.Fields()
	if fields["pg_constraint"] != "ux_coupons_code_lower" {
		t.Fatalf("fields missing constraint: %#v", fields)
	}
}

func TestDumpExtractsPqDetails(t *testing.T) {
	err := fmt.Errorf("update stock: %w", &pq.Error{Code: "23514", Table: "products", Constraint: "ck_products_stock_non_negative"})

	d := Dump(err)
	if d.PGCode != "23514" || d.PGConstraint != "ck_products_stock_non_negative" {
		t.Fatalf("unexpected dump %+v", d)
	}
	if IsUniqueViolation(err) {
		t.Fatalf("check violation is not a unique violation")
	}
	if _, ok := d.Fields()["error_code"]; ok {
		t.Fatalf("untyped errors should not report a code")
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected zero dump, got %+v", d)
	}
}
