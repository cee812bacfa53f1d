package paymentController

import (
	"path/filepath"
	"testing"

	"planpractice/apperrors"
	"planpractice/database"
	"planpractice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB) (*models.User, *models.CoinPackage, *models.Payment) {
	t.Helper()

	user := models.User{Name: "Thu", Email: "thu@example.com", Password: "x", Role: "TEACHER"}
	require.NoError(t, db.Create(&user).Error)

	pkg := models.CoinPackage{Name: "Standard", CoinAmount: 150, Price: 50000}
	require.NoError(t, db.Create(&pkg).Error)

	payment := models.Payment{
		UserID:    user.ID,
		PackageID: pkg.ID,
		OrderCode: 1756600000123,
		Amount:    pkg.Price,
		Status:    models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	return &user, &pkg, &payment
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) uint {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.CoinBalance
}

func TestApplyPaymentStatusCreditsExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	user, pkg, order := seedOrder(t, db)

	payment, credited, err := ApplyPaymentStatus(db, order.OrderCode, models.PaymentStatusPaid, "TX-1", []byte(`{"code":"00"}`))
	require.NoError(t, err)

	assert.True(t, credited)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	assert.Equal(t, "TX-1", payment.TransactionCode)
	require.NotNil(t, payment.PaidAt)
	assert.Equal(t, pkg.CoinAmount, balanceOf(t, db, user.ID))

	// a repeated PAID notification must not credit again
	payment, credited, err = ApplyPaymentStatus(db, order.OrderCode, models.PaymentStatusPaid, "TX-1", nil)
	require.NoError(t, err)

	assert.False(t, credited)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	assert.Equal(t, pkg.CoinAmount, balanceOf(t, db, user.ID))
}

func TestApplyPaymentStatusNeverDowngradesPaid(t *testing.T) {
	db := setupTestDB(t)
	user, pkg, order := seedOrder(t, db)

	_, credited, err := ApplyPaymentStatus(db, order.OrderCode, models.PaymentStatusPaid, "TX-1", nil)
	require.NoError(t, err)
	require.True(t, credited)

	// a late CANCELLED notification arrives after settlement
	payment, credited, err := ApplyPaymentStatus(db, order.OrderCode, models.PaymentStatusCancelled, "", nil)
	require.NoError(t, err)

	assert.False(t, credited)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	assert.Equal(t, pkg.CoinAmount, balanceOf(t, db, user.ID))
}

func TestApplyPaymentStatusCancelled(t *testing.T) {
	db := setupTestDB(t)
	user, _, order := seedOrder(t, db)

	payment, credited, err := ApplyPaymentStatus(db, order.OrderCode, models.PaymentStatusCancelled, "", nil)
	require.NoError(t, err)

	assert.False(t, credited)
	assert.Equal(t, models.PaymentStatusCancelled, payment.Status)
	assert.Zero(t, balanceOf(t, db, user.ID))
}

func TestApplyPaymentStatusUnknownOrder(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := ApplyPaymentStatus(db, 42, models.PaymentStatusPaid, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSeedCoinPackagesIdempotent(t *testing.T) {
	db := setupTestDB(t)

	database.SeedCoinPackages(db)
	database.SeedCoinPackages(db)

	var count int64
	db.Model(&models.CoinPackage{}).Count(&count)
	assert.Equal(t, int64(3), count)
}
