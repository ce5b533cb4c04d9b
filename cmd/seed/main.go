package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newID() string { return uuid.New().String() }

func daysAgo(d int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -d)
}

func randBetween(min, max int) int {
	return min + rand.Intn(max-min+1)
}

func pick[T any](items []T) T {
	return items[rand.Intn(len(items))]
}

func sample(pool []string, n int) []string {
	cp := append([]string(nil), pool...)
	rand.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	if n > len(cp) {
		n = len(cp)
	}
	return cp[:n]
}

// ── main ─────────────────────────────────────────────────────────────────────

// seeds a handful of form_completed users across both genders so a local
// Preview Generator / Final Assigner round has something to match against.
func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "hilo"),
		envOr("DB_PASSWORD", "hilo"),
		envOr("DB_NAME", "hilo"),
		envOr("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}
	fmt.Println("connected to database")

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	// ── clean up previous seed data ──────────────────────────────────────
	const seedDomain = "@hilo.seed"
	_, _ = tx.Exec(ctx, `DELETE FROM users WHERE email LIKE '%' || $1`, seedDomain)
	fmt.Println("cleaned previous seed data")

	// Leaf tags mirrored from config/tags.json, so seeded forms reference
	// ids the Tag Catalog actually knows about.
	familiarPool := []string{
		"music.jazz", "music.rock", "sports.running", "sports.climbing",
		"food.baking", "food.spicy", "travel.backpacking", "travel.citybreaks",
		"games.boardgames", "games.videogames",
	}
	aspirationalPool := []string{
		"music.classical", "sports.yoga", "food.wine", "travel.roadtrips", "games.tabletop_rpg",
	}
	traitsPool := []string{
		"curious", "introverted", "extroverted", "planner", "spontaneous",
		"early_bird", "night_owl", "homebody", "adventurous", "foodie",
	}
	selfIntros := []string{
		"Enjoys quiet weekends and a good book, but always up for trying a new restaurant.",
		"Spends most weekends outdoors, climbing or running, and loves a loud concert.",
		"Into board games and slow mornings; looking for someone who likes the same pace.",
		"Recently got into backpacking and wants to find someone to plan trips with.",
	}
	recentTopics := []string{
		"Just finished a 10k and is looking for a running partner.",
		"Picked up sourdough baking during a rainy week and hasn't stopped since.",
		"Binged a new jazz album and wants recommendations for live shows.",
		"Planning a backpacking trip through Southeast Asia next spring.",
	}

	type seedUser struct {
		id     string
		email  string
		gender string
	}

	var users []seedUser
	for i := 0; i < 6; i++ {
		users = append(users, seedUser{newID(), fmt.Sprintf("alex%02d%s", i, seedDomain), "male"})
	}
	for i := 0; i < 6; i++ {
		users = append(users, seedUser{newID(), fmt.Sprintf("sam%02d%s", i, seedDomain), "female"})
	}

	for _, u := range users {
		createdAt := daysAgo(randBetween(3, 30))
		_, err = tx.Exec(ctx,
			`INSERT INTO users (id, email, status, grade, created_at, updated_at)
			 VALUES ($1, $2, 'form_completed', $3, $4, $4)`,
			u.id, u.email, randBetween(1, 4), createdAt,
		)
		must(err, "create user "+u.email)

		_, err = tx.Exec(ctx,
			`INSERT INTO forms (user_id, gender, familiar_tags, aspirational_tags, recent_topics,
			                     self_traits, ideal_traits, physical_boundary, self_intro, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
			u.id, u.gender,
			sample(familiarPool, randBetween(2, 5)),
			sample(aspirationalPool, randBetween(1, 3)),
			pick(recentTopics),
			sample(traitsPool, randBetween(2, 4)),
			sample(traitsPool, randBetween(2, 4)),
			randBetween(1, 4),
			pick(selfIntros),
			createdAt,
		)
		must(err, "create form for "+u.email)
	}
	fmt.Printf("created %d seed users with completed forms\n", len(users))

	// ── commit ───────────────────────────────────────────────────────────
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	fmt.Println("seed completed successfully")
	fmt.Printf("  %d male, %d female form_completed users ready for a preview/assigner round\n",
		6, 6)
}

func must(err error, msg string) {
	if err != nil {
		log.Fatalf("%s: %v", msg, err)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
