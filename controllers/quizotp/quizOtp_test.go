package quizOtpController

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"planpractice/apperrors"
	"planpractice/database"
	"planpractice/models"
	"planpractice/utils"
	quizOtpValidator "planpractice/validators/quizotp"

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

func seedQuiz(t *testing.T, db *gorm.DB, teacherID uint) *models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		UserID:      teacherID,
		Title:       "Past Simple",
		Description: "Unit 3 review",
		Questions: []models.Question{
			{
				Content: "Yesterday I ___ to school.",
				Answers: []models.Answer{
					{Content: "go"},
					{Content: "went", IsCorrect: true},
					{Content: "gone"},
				},
			},
			{
				Content: "She ___ a letter last night.",
				Answers: []models.Answer{
					{Content: "wrote", IsCorrect: true},
					{Content: "write"},
					{Content: "written"},
				},
			},
		},
	}
	require.NoError(t, db.Create(&quiz).Error)
	return &quiz
}

func seedOTP(t *testing.T, db *gorm.DB, quiz *models.Quiz, mutate func(*models.QuizOTP)) *models.QuizOTP {
	t.Helper()

	code, err := utils.GenerateOTPCode(8)
	require.NoError(t, err)

	otp := models.QuizOTP{
		Code:          code,
		QuizID:        quiz.ID,
		TeacherID:     quiz.UserID,
		ExpiresAt:     time.Now().Add(30 * time.Minute),
		ExpiryMinutes: 30,
		IsActive:      true,
	}
	if mutate != nil {
		mutate(&otp)
	}
	// Create ignores false because of the column default, so remember the
	// requested value and force it afterwards
	wantInactive := !otp.IsActive
	require.NoError(t, db.Create(&otp).Error)
	if wantInactive {
		require.NoError(t, db.Model(&otp).Update("is_active", false).Error)
		otp.IsActive = false
	}
	return &otp
}

func TestGenerateCode(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)

	otp, err := GenerateCode(db, 1, &quizOtpValidator.GenerateOTPRequest{
		QuizID:        quiz.ID,
		ExpiryMinutes: 15,
		MaxUsage:      10,
	})
	require.NoError(t, err)

	assert.Len(t, otp.Code, 8)
	assert.Equal(t, quiz.ID, otp.QuizID)
	assert.Equal(t, uint(1), otp.TeacherID)
	assert.True(t, otp.IsActive)
	assert.Equal(t, 0, otp.UsageCount)
	assert.Equal(t, 10, otp.MaxUsage)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), otp.ExpiresAt, 5*time.Second)
}

func TestGenerateCodeQuizNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GenerateCode(db, 1, &quizOtpValidator.GenerateOTPRequest{QuizID: 999, ExpiryMinutes: 15})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGenerateCodeWrongOwner(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)

	_, err := GenerateCode(db, 2, &quizOtpValidator.GenerateOTPRequest{QuizID: quiz.ID, ExpiryMinutes: 15})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestValidateCodeSuccess(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, nil)

	result, err := ValidateCode(db, otp.Code)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.Equal(t, quiz.ID, result.QuizID)
	require.NotNil(t, result.Quiz)
	assert.Equal(t, quiz.Title, result.Quiz.Title)
	assert.Len(t, result.Quiz.Questions, 2)
	assert.Len(t, result.Quiz.Questions[0].Answers, 3)

	var stored models.QuizOTP
	require.NoError(t, db.First(&stored, otp.ID).Error)
	assert.Equal(t, 1, stored.UsageCount)
}

func TestValidateCodeUnknown(t *testing.T) {
	db := setupTestDB(t)

	result, err := ValidateCode(db, "NOSUCHCD")
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "Invalid OTP code!", result.Message)
}

func TestValidateCodeRevokedImmediately(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, nil)

	// usable before revocation
	result, err := ValidateCode(db, otp.Code)
	require.NoError(t, err)
	require.True(t, result.IsValid)

	require.NoError(t, RevokeCode(db, quiz.UserID, otp.ID))

	result, err = ValidateCode(db, otp.Code)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "This OTP code has been revoked!", result.Message)
}

func TestValidateCodeExpiredBeatsRemainingUsage(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, func(o *models.QuizOTP) {
		o.ExpiresAt = time.Now().Add(-time.Minute)
		o.MaxUsage = 10
		o.UsageCount = 0
	})

	result, err := ValidateCode(db, otp.Code)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "This OTP code has expired!", result.Message)

	// the expired row is swept away on contact
	var count int64
	db.Model(&models.QuizOTP{}).Where("id = ?", otp.ID).Count(&count)
	assert.Zero(t, count)
}

func TestValidateCodeZeroMinuteExpiry(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)

	otp, err := GenerateCode(db, quiz.UserID, &quizOtpValidator.GenerateOTPRequest{
		QuizID:        quiz.ID,
		ExpiryMinutes: 0,
	})
	require.NoError(t, err)

	result, err := ValidateCode(db, otp.Code)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "This OTP code has expired!", result.Message)
}

func TestValidateCodeUsageCap(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, func(o *models.QuizOTP) { o.MaxUsage = 1 })

	first, err := ValidateCode(db, otp.Code)
	require.NoError(t, err)
	assert.True(t, first.IsValid)

	second, err := ValidateCode(db, otp.Code)
	require.NoError(t, err)
	assert.False(t, second.IsValid)
	assert.Equal(t, "OTP usage limit reached!", second.Message)

	var stored models.QuizOTP
	require.NoError(t, db.First(&stored, otp.ID).Error)
	assert.Equal(t, 1, stored.UsageCount)
}

func TestValidateCodeConcurrentCap(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, func(o *models.QuizOTP) { o.MaxUsage = 5 })

	const attempts = 20
	results := make([]bool, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := ValidateCode(db, otp.Code)
			if err == nil && result.IsValid {
				results[i] = true
			}
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, 5, succeeded)

	var stored models.QuizOTP
	require.NoError(t, db.First(&stored, otp.ID).Error)
	assert.Equal(t, 5, stored.UsageCount)
}

func TestValidateCodeRevokedDuringRedemption(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, func(o *models.QuizOTP) { o.MaxUsage = 3 })

	// flip the row between the initial read and the conditional increment
	flipped := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("revoke_midflight", func(tx *gorm.DB) {
		if flipped {
			return
		}
		flipped = true
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.QuizOTP{}).
			Where("id = ?", otp.ID).
			UpdateColumn("is_active", false)
	}))
	t.Cleanup(func() { db.Callback().Update().Remove("revoke_midflight") })

	result, err := ValidateCode(db, otp.Code)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "This OTP code has been revoked!", result.Message)

	var stored models.QuizOTP
	require.NoError(t, db.First(&stored, otp.ID).Error)
	assert.Equal(t, 0, stored.UsageCount)
}

func TestFetchQuizForCodeDoesNotConsumeUsage(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, func(o *models.QuizOTP) { o.MaxUsage = 1 })

	payload, err := FetchQuizForCode(db, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, payload.QuizID)

	var stored models.QuizOTP
	require.NoError(t, db.First(&stored, otp.ID).Error)
	assert.Equal(t, 0, stored.UsageCount)
}

func TestFetchQuizForCodeRejectsRevoked(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, func(o *models.QuizOTP) { o.IsActive = false })

	_, err := FetchQuizForCode(db, otp.Code)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
}

func TestRevokeCodeOwnership(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, nil)

	assert.ErrorIs(t, RevokeCode(db, 99, otp.ID), apperrors.ErrForbidden)
	assert.ErrorIs(t, RevokeCode(db, quiz.UserID, 12345), apperrors.ErrNotFound)
}

func TestExtendCode(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, nil)

	before := otp.ExpiresAt
	extended, err := ExtendCode(db, quiz.UserID, otp.ID, 20)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(20*time.Minute), extended.ExpiresAt, time.Second)
}

func TestRegenerateCode(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)
	otp := seedOTP(t, db, quiz, func(o *models.QuizOTP) {
		o.UsageCount = 3
		o.MaxUsage = 5
		o.IsActive = false
	})
	oldCode := otp.Code

	regenerated, err := RegenerateCode(db, quiz.UserID, otp.ID)
	require.NoError(t, err)

	assert.NotEqual(t, oldCode, regenerated.Code)
	assert.Len(t, regenerated.Code, 8)

	var stored models.QuizOTP
	require.NoError(t, db.First(&stored, otp.ID).Error)
	assert.Equal(t, 0, stored.UsageCount)
	assert.True(t, stored.IsActive)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), stored.ExpiresAt, 5*time.Second)

	// the previous code no longer opens anything
	result, err := ValidateCode(db, oldCode)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "Invalid OTP code!", result.Message)
}

func TestCleanupExpiredOTPs(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 1)

	seedOTP(t, db, quiz, func(o *models.QuizOTP) { o.ExpiresAt = time.Now().Add(-time.Hour) })
	seedOTP(t, db, quiz, func(o *models.QuizOTP) { o.ExpiresAt = time.Now().Add(-time.Minute) })
	fresh := seedOTP(t, db, quiz, nil)

	deleted, err := utils.CleanupExpiredOTPs(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining []models.QuizOTP
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)
}
