package database

import (
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// InitSQLX 통계/집계용 raw SQL 커넥션 초기화 (pgx stdlib 드라이버)
// gorm 과 별도로 두어 분석 쿼리가 ORM 커넥션 풀을 점유하지 않게 한다
func InitSQLX() *sqlx.DB {
	db, err := sqlx.Connect("pgx", DSN())
	if err != nil {
		log.Fatalf("Failed to connect analytics database: %v", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	log.Println("Analytics (sqlx) connection established")
	return db
}
