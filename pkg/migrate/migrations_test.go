package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestWarrantyMigrationContainsLookupIndexes(t *testing.T) {
	content := readMigration(t, "*_create_warranty_registrations.sql")

	checks := []string{
		"CREATE TABLE warranty_registrations",
		"idx_warranty_registrations_customer_phone",
		"idx_warranty_registrations_chassis_number",
		"idx_warranty_registrations_registration_number",
		"DROP TABLE IF EXISTS warranty_registrations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationHasUnpublishedPartialIndex(t *testing.T) {
	content := readMigration(t, "*_create_outbox_events.sql")

	if !strings.Contains(content, "WHERE published_at IS NULL") {
		t.Errorf("outbox unpublished index should be partial on published_at IS NULL")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matches %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
