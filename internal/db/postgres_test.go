package db

import (
	"strings"
	"testing"
)

func TestForeignKeyDDLIsRerunnable(t *testing.T) {
	ddl := foreignKeyDDL("user_token", "fk_user_token_user_id", "user_id", "user")

	if !strings.Contains(ddl, "IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_user_token_user_id')") {
		t.Fatalf("missing existence guard:\n%s", ddl)
	}
	want := `ALTER TABLE "user_token" ADD CONSTRAINT "fk_user_token_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE;`
	if !strings.Contains(ddl, want) {
		t.Fatalf("unexpected constraint body:\n%s", ddl)
	}
}
