package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"planpractice/config"

	"github.com/go-resty/resty/v2"
)

// PayOSPaymentData is the payload returned by PayOS for an order
type PayOSPaymentData struct {
	OrderCode     int64  `json:"orderCode"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"` // PENDING, PAID, CANCELLED, EXPIRED
	CheckoutURL   string `json:"checkoutUrl"`
	PaymentLinkID string `json:"paymentLinkId"`
}

type payOSResponse struct {
	Code string            `json:"code"`
	Desc string            `json:"desc"`
	Data *PayOSPaymentData `json:"data"`
}

// CreatePaymentLink asks PayOS for a checkout link for the given order
func CreatePaymentLink(orderCode int64, amount uint, description string) (*PayOSPaymentData, error) {
	cfg := config.AppConfig
	if cfg.PayOSClientID == "" || cfg.PayOSApiKey == "" {
		return nil, fmt.Errorf("payos credentials not configured")
	}

	body := map[string]interface{}{
		"orderCode":   orderCode,
		"amount":      amount,
		"description": description,
		"returnUrl":   cfg.PayOSReturnURL,
		"cancelUrl":   cfg.PayOSCancelURL,
		"signature":   signPaymentRequest(orderCode, amount, description),
	}

	var result payOSResponse
	client := resty.New()
	resp, err := client.R().
		SetHeader("x-client-id", cfg.PayOSClientID).
		SetHeader("x-api-key", cfg.PayOSApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post(cfg.PayOSBaseURL + "/v2/payment-requests")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 || result.Code != "00" || result.Data == nil {
		return nil, fmt.Errorf("payos create link failed: %s (%s)", result.Desc, resp.Status())
	}

	return result.Data, nil
}

// GetPaymentInfo polls PayOS for the current status of an order
func GetPaymentInfo(orderCode int64) (*PayOSPaymentData, error) {
	cfg := config.AppConfig
	if cfg.PayOSClientID == "" || cfg.PayOSApiKey == "" {
		return nil, fmt.Errorf("payos credentials not configured")
	}

	var result payOSResponse
	client := resty.New()
	resp, err := client.R().
		SetHeader("x-client-id", cfg.PayOSClientID).
		SetHeader("x-api-key", cfg.PayOSApiKey).
		SetResult(&result).
		Get(fmt.Sprintf("%s/v2/payment-requests/%d", cfg.PayOSBaseURL, orderCode))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 || result.Code != "00" || result.Data == nil {
		return nil, fmt.Errorf("payos get order failed: %s (%s)", result.Desc, resp.Status())
	}

	return result.Data, nil
}

// signPaymentRequest builds the HMAC-SHA256 signature PayOS expects:
// the request fields sorted alphabetically in key=value form
func signPaymentRequest(orderCode int64, amount uint, description string) string {
	cfg := config.AppConfig
	data := fmt.Sprintf(
		"amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		amount, cfg.PayOSCancelURL, description, orderCode, cfg.PayOSReturnURL,
	)
	mac := hmac.New(sha256.New, []byte(cfg.PayOSChecksumKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
