package boot

import (
	"log"

	"vrms/src/db"
	"vrms/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Customer{},
		&models.Location{},
		&models.PricingGroup{},
		&models.Season{},
		&models.Extra{},
		&models.Vehicle{},
		&models.Booking{},
		&models.BookingVehicle{},
		&models.Contract{},
		&models.Payment{},
		&models.Invoice{},
		&models.Setting{},
		&models.TrailLog{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}
