package paymentController

import (
	"errors"
	"log"
	"time"

	"planpractice/apperrors"
	"planpractice/database"
	"planpractice/middleware"
	"planpractice/models"
	"planpractice/utils"
	paymentValidator "planpractice/validators/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplyPaymentStatus moves a payment to the given status. The transition
// into PAID is guarded by a conditional update so repeated notifications
// for the same order credit the coins exactly once. Returns whether this
// call performed the credit.
func ApplyPaymentStatus(db *gorm.DB, orderCode int64, status models.PaymentStatus, transactionCode string, raw []byte) (*models.Payment, bool, error) {
	var payment models.Payment
	if err := db.Where("order_code = ?", orderCode).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrNotFound
		}
		return nil, false, err
	}

	credited := false

	if status == models.PaymentStatusPaid {
		updates := map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": time.Now(),
		}
		if transactionCode != "" {
			updates["transaction_code"] = transactionCode
		}
		if raw != nil {
			updates["provider_response"] = datatypes.JSON(raw)
		}

		tx := db.Begin()
		if tx.Error != nil {
			return nil, false, tx.Error
		}

		// Only the first transition into PAID matches this WHERE clause
		res := tx.Model(&models.Payment{}).
			Where("order_code = ? AND status <> ?", orderCode, models.PaymentStatusPaid).
			Updates(updates)
		if res.Error != nil {
			tx.Rollback()
			return nil, false, res.Error
		}

		if res.RowsAffected == 1 {
			var pkg models.CoinPackage
			if err := tx.Where("id = ?", payment.PackageID).First(&pkg).Error; err != nil {
				tx.Rollback()
				return nil, false, err
			}
			if err := tx.Model(&models.User{}).
				Where("id = ?", payment.UserID).
				UpdateColumn("coin_balance", gorm.Expr("coin_balance + ?", pkg.CoinAmount)).Error; err != nil {
				tx.Rollback()
				return nil, false, err
			}
			credited = true
		}

		if err := tx.Commit().Error; err != nil {
			return nil, false, err
		}
	} else {
		// a settled payment is never downgraded by a late notification
		updates := map[string]interface{}{"status": status}
		if transactionCode != "" {
			updates["transaction_code"] = transactionCode
		}
		if err := db.Model(&models.Payment{}).
			Where("order_code = ? AND status <> ?", orderCode, models.PaymentStatusPaid).
			Updates(updates).Error; err != nil {
			return nil, false, err
		}
	}

	if err := db.Where("order_code = ?", orderCode).First(&payment).Error; err != nil {
		return nil, credited, err
	}
	return &payment, credited, nil
}

// GetCoinPackages handles GET /api/payments/packages
func GetCoinPackages(c *fiber.Ctx) error {
	var packages []models.CoinPackage
	if err := database.Database.Db.
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&packages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch packages!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Packages fetched!", packages)
}

// CreatePayment handles POST /api/payments
func CreatePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreatePayment").(*paymentValidator.CreatePaymentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var pkg models.CoinPackage
	if err := db.Where("id = ? AND is_active = ?", reqData.PackageID, true).First(&pkg).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coin package not found!", nil)
	}

	payment := models.Payment{
		UserID:        userID,
		PackageID:     pkg.ID,
		OrderCode:     utils.GenerateOrderCode(),
		Amount:        pkg.Price,
		Status:        models.PaymentStatusPending,
		PaymentLinkID: uuid.NewString(),
	}

	if err := db.Create(&payment).Error; err != nil {
		log.Printf("Error creating payment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment!", nil)
	}

	// a gateway failure degrades to a bare order code, it does not fail the request
	if data, err := utils.CreatePaymentLink(payment.OrderCode, pkg.Price, "Coins: "+pkg.Name); err != nil {
		log.Printf("Error creating payment link for order %d: %v", payment.OrderCode, err)
	} else {
		db.Model(&payment).Updates(map[string]interface{}{
			"checkout_url":    data.CheckoutURL,
			"payment_link_id": data.PaymentLinkID,
		})
		payment.CheckoutURL = data.CheckoutURL
		payment.PaymentLinkID = data.PaymentLinkID
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment created!", payment)
}

// UpdatePaymentStatus handles POST /api/payments/status
func UpdatePaymentStatus(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUpdateStatus").(*paymentValidator.UpdateStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	payment, credited, err := ApplyPaymentStatus(db, reqData.OrderCode, models.PaymentStatus(reqData.Status), reqData.TransactionCode, c.Body())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
		}
		log.Printf("Error updating payment status: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment status!", nil)
	}

	if credited {
		var user models.User
		var pkg models.CoinPackage
		if db.Where("id = ?", payment.UserID).First(&user).Error == nil &&
			db.Where("id = ?", payment.PackageID).First(&pkg).Error == nil {
			utils.SendPaymentReceiptEmail(user.Name, user.Email, pkg.Name, pkg.CoinAmount, payment.OrderCode)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status updated!", fiber.Map{
		"payment":       payment,
		"coinsCredited": credited,
	})
}

// CheckPaymentStatus handles GET /api/payments/:orderCode/check. It polls
// the gateway and applies the reported status.
func CheckPaymentStatus(c *fiber.Ctx) error {
	orderCode, err := c.ParamsInt("orderCode")
	if err != nil || orderCode <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid order code!", nil)
	}

	db := database.Database.Db

	info, err := utils.GetPaymentInfo(int64(orderCode))
	if err != nil {
		log.Printf("Error polling payment gateway for order %d: %v", orderCode, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to reach payment gateway!", nil)
	}

	var status models.PaymentStatus
	switch info.Status {
	case "PAID":
		status = models.PaymentStatusPaid
	case "CANCELLED":
		status = models.PaymentStatusCancelled
	case "EXPIRED":
		status = models.PaymentStatusFailed
	default:
		status = models.PaymentStatusPending
	}

	payment, credited, err := ApplyPaymentStatus(db, int64(orderCode), status, "", nil)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
		}
		log.Printf("Error applying polled payment status: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status checked!", fiber.Map{
		"payment":       payment,
		"coinsCredited": credited,
	})
}

// GetMyBalance handles GET /api/payments/balance
func GetMyBalance(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance fetched!", fiber.Map{
		"coinBalance": user.CoinBalance,
	})
}

// GetMyPayments handles GET /api/payments/my
func GetMyPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(&models.Payment{}).Where("user_id = ?", userID).Count(&total)

	var payments []models.Payment
	if err := db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
