package commands

import "gorm.io/gorm"

func closeDB(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("db: close failed", "err", err)
	}
}
