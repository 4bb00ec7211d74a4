package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, a sample published post, and a sample product. It is a
// no-op when users already exist.
func Seed(db *sql.DB, log zerolog.Logger) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		log.Info().Msg("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, 'admin')
	`, "admin@arsysintela.local", string(hash), "Administrator")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (title, slug, excerpt, author, tag, published_at, header_image_url, content_html)
		VALUES (
			'Bienvenido al blog',
			'bienvenido-al-blog',
			'Primer artículo de ejemplo del blog.',
			'Equipo Arsys Intela',
			'noticias',
			NOW(),
			'https://placehold.co/1200x630',
			'<p>Este es el primer artículo del blog. Edítalo o elimínalo desde el panel.</p>'
		)
	`)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO products (code, name, description)
		VALUES ('WEB-BASIC', 'Sitio Web Básico', 'Sitio web corporativo con hosting incluido.')
	`)
	if err != nil {
		return fmt.Errorf("seed insert product: %w", err)
	}

	log.Info().
		Str("email", "admin@arsysintela.local").
		Msg("database seeded with default admin user")

	return nil
}
