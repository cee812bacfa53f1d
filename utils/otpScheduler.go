package utils

import (
	"fmt"
	"log"
	"time"

	"planpractice/config"
	"planpractice/database"
	"planpractice/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeOTPCleanupScheduler sets up the expired-OTP sweep
func InitializeOTPCleanupScheduler() {
	log.Println("[OTP-SCHEDULER] Initializing expired-OTP cleanup scheduler...")

	interval := config.AppConfig.OTPCleanupInterval
	if interval < 1 {
		interval = 5
	}

	c := cron.New()

	c.AddFunc(fmt.Sprintf("*/%d * * * *", interval), func() {
		// A failing sweep must not take the process down with it
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[OTP-SCHEDULER] Recovered from panic during cleanup: %v", r)
			}
		}()

		deleted, err := CleanupExpiredOTPs(database.Database.Db)
		if err != nil {
			log.Printf("[OTP-SCHEDULER] Error cleaning up expired OTPs: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("[OTP-SCHEDULER] Deleted %d expired OTPs", deleted)
		}
	})

	c.Start()
	log.Printf("[OTP-SCHEDULER] Cleanup scheduler started - runs every %d minutes", interval)
}

// CleanupExpiredOTPs deletes all OTP rows past their expiry time and
// returns how many were removed
func CleanupExpiredOTPs(db *gorm.DB) (int64, error) {
	result := db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&models.QuizOTP{})
	return result.RowsAffected, result.Error
}
