package main

import (
	"database/sql"
	"os"
	"time"

	_ "github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAdminEmail = "admin@retail.local"
	passwordLength    = 16
	passwordChars     = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789@#$%&*"
)

var schema = []struct {
	name string
	ddl  string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		name          VARCHAR(100) NOT NULL,
		lastname      VARCHAR(100),
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		role_id       INTEGER NOT NULL DEFAULT 3,
		avatar_url    TEXT,
		deleted       BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at    TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
	{"user_stores", `CREATE TABLE IF NOT EXISTS user_stores (
		user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		city       VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, city)
	)`},
	{"orders", `CREATE TABLE IF NOT EXISTS orders (
		id               VARCHAR(64) PRIMARY KEY,
		customer_email   VARCHAR(255),
		total_price      NUMERIC(14, 2) NOT NULL DEFAULT 0,
		currency_country VARCHAR(2),
		city             VARCHAR(100),
		created_at       TIMESTAMPTZ NOT NULL,
		tags             TEXT[] NOT NULL DEFAULT '{}',
		line_items       JSONB
	)`},
	{"orders_created_at_idx", `CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at)`},
	{"appointments", `CREATE TABLE IF NOT EXISTS appointments (
		id             VARCHAR(64) PRIMARY KEY,
		customer_email VARCHAR(255),
		category       VARCHAR(100),
		datetime       TIMESTAMPTZ NOT NULL,
		status         VARCHAR(20) NOT NULL DEFAULT 'booked',
		city           VARCHAR(100)
	)`},
	{"appointments_datetime_idx", `CREATE INDEX IF NOT EXISTS appointments_datetime_idx ON appointments (datetime)`},
	{"ad_spend", `CREATE TABLE IF NOT EXISTS ad_spend (
		date          DATE NOT NULL,
		campaign_id   VARCHAR(64) NOT NULL,
		campaign_name VARCHAR(255),
		spend         NUMERIC(14, 2) NOT NULL DEFAULT 0,
		impressions   BIGINT NOT NULL DEFAULT 0,
		clicks        BIGINT NOT NULL DEFAULT 0,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (date, campaign_id)
	)`},
	{"analytics_snapshots", `CREATE TABLE IF NOT EXISTS analytics_snapshots (
		date            DATE PRIMARY KEY,
		sessions        INTEGER NOT NULL DEFAULT 0,
		users           INTEGER NOT NULL DEFAULT 0,
		new_users       INTEGER NOT NULL DEFAULT 0,
		page_views      INTEGER NOT NULL DEFAULT 0,
		bounce_rate     NUMERIC(6, 4),
		traffic_sources JSONB,
		top_pages       JSONB
	)`},
}

func createSchema(tx *sql.Tx) error {
	log.L.Infof("Criando %d objetos do schema...", len(schema))
	startTime := time.Now()

	for _, s := range schema {
		if _, err := tx.Exec(s.ddl); err != nil {
			log.L.WithError(err).Errorf("ERRO ao criar %s", s.name)
			return err
		}
		log.L.Debugf("%s ok", s.name)
	}

	log.L.Infof("Schema criado em %v", time.Since(startTime))
	return nil
}

// seedAdmin cria o primeiro administrador com uma senha aleatória, exibida uma única vez
func seedAdmin(tx *sql.Tx, email string) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		log.L.Infof("Administrador %s já existe", email)
		return nil
	}

	password, err := gonanoid.Generate(passwordChars, passwordLength)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO users (name, lastname, email, password_hash, active, role_id) VALUES ($1, $2, $3, $4, TRUE, $5)`,
		"Admin", "", email, string(hash), domain.RoleAdmin,
	)
	if err != nil {
		return err
	}

	log.L.WithField("email", email).Warnf("Administrador criado. Senha inicial: %s", password)
	return nil
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatalf("ERRO ao carregar configuração: %v", err)
	}
	log.Configure(cfg.App.LogLevel)

	log.L.Info("Iniciando script de migração...")

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.L.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.L.Fatalf("ERRO ao verificar conexão com o banco: %v", err)
	}
	log.L.Info("Conexão com o banco de dados estabelecida com sucesso")

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = defaultAdminEmail
	}

	startTime := time.Now()
	tx, err := db.Begin()
	if err != nil {
		log.L.Fatalf("ERRO ao iniciar transação: %v", err)
	}

	if err := createSchema(tx); err != nil {
		rollback(tx)
	}

	if err := seedAdmin(tx, adminEmail); err != nil {
		log.L.WithError(err).Error("ERRO ao criar administrador")
		rollback(tx)
	}

	if err := tx.Commit(); err != nil {
		log.L.WithError(err).Error("ERRO ao confirmar transação")
		rollback(tx)
	}

	log.L.Infof("Migração concluída em %v!", time.Since(startTime))
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		log.L.Fatalf("ERRO ao reverter transação: %v", err)
	}
	log.L.Error("Transação revertida")
	os.Exit(1)
}
