package migration

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	pkglogger "github.com/PT-GSA/ai-cms-backend/pkg/logger"
)

// Run creates the schema, search infrastructure and seed data
func Run(db *gorm.DB) error {
	// pgcrypto provides gen_random_uuid() on PostgreSQL < 13,
	// pg_trgm backs the short-query ILIKE fallback
	for _, ext := range []string{"pgcrypto", "pg_trgm"} {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS " + ext).Error; err != nil {
			return err
		}
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.ContentType{},
		&domain.ContentEntry{},
		&domain.ContentEntryVersion{},
		&domain.Media{},
		&domain.RelationDefinition{},
		&domain.EntryRelation{},
		&domain.APIKey{},
	); err != nil {
		return err
	}

	if err := setupSearchVector(db); err != nil {
		return err
	}

	return seedAdmin(db)
}

// setupSearchVector maintains a tsvector column over title, slug and field
// values via trigger, so search stays consistent without application writes.
func setupSearchVector(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE content_entries ADD COLUMN IF NOT EXISTS search_vector tsvector`,

		`CREATE OR REPLACE FUNCTION content_entries_search_vector_update() RETURNS trigger AS $$
		BEGIN
			NEW.search_vector :=
				setweight(to_tsvector('simple', coalesce(NEW.title, '')), 'A') ||
				setweight(to_tsvector('simple', coalesce(NEW.slug, '')), 'B') ||
				setweight(to_tsvector('simple', coalesce(
					(SELECT string_agg(value, ' ')
					 FROM jsonb_each_text(coalesce(NEW.fields, '{}'::jsonb))), '')), 'C');
			RETURN NEW;
		END
		$$ LANGUAGE plpgsql`,

		`DROP TRIGGER IF EXISTS content_entries_search_vector_trigger ON content_entries`,

		`CREATE TRIGGER content_entries_search_vector_trigger
			BEFORE INSERT OR UPDATE OF title, slug, fields ON content_entries
			FOR EACH ROW EXECUTE FUNCTION content_entries_search_vector_update()`,

		`CREATE INDEX IF NOT EXISTS idx_content_entries_search_vector
			ON content_entries USING GIN (search_vector)`,

		`CREATE INDEX IF NOT EXISTS idx_content_entries_title_trgm
			ON content_entries USING GIN (title gin_trgm_ops)`,

		`CREATE INDEX IF NOT EXISTS idx_content_entries_fields
			ON content_entries USING GIN (fields)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin creates the initial admin account when the users table is empty
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		pkglogger.GetLogger().Warn().Msg("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username: "admin",
		Email:    "admin@localhost",
		Password: string(hashed),
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	pkglogger.GetLogger().Info().Str("username", admin.Username).Msg("seeded admin user")
	return nil
}
