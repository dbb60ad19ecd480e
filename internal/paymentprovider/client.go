// Package paymentprovider реализует HTTP-клиент платёжного шлюза Asaas
// для создания платежей PIX и Boleto и получения данных QR-кода.
package paymentprovider

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client — клиент REST API шлюза.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Asaas.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var gatewayErr ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&gatewayErr); decodeErr == nil && len(gatewayErr.Errors) > 0 {
			return errors.New("gateway: " + gatewayErr.Errors[0].Description)
		}
		return errors.New("unexpected status: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateCustomer регистрирует плательщика на стороне шлюза.
func (c *Client) CreateCustomer(reqParams CreateCustomerRequest) (*CreateCustomerResponse, error) {
	req, err := c.newRequest("POST", "/customers", reqParams)
	if err != nil {
		return nil, err
	}
	var customerResp CreateCustomerResponse
	if err := c.do(req, &customerResp); err != nil {
		return nil, err
	}
	return &customerResp, nil
}

// CreatePayment отправляет запрос на создание платежа PIX или Boleto.
func (c *Client) CreatePayment(reqParams CreatePaymentRequest) (*CreatePaymentResponse, error) {
	req, err := c.newRequest("POST", "/payments", reqParams)
	if err != nil {
		return nil, err
	}
	var paymentResp CreatePaymentResponse
	if err := c.do(req, &paymentResp); err != nil {
		return nil, err
	}
	return &paymentResp, nil
}

// GetPixQRCode запрашивает payload QR-кода для созданного PIX-платежа.
func (c *Client) GetPixQRCode(paymentID string) (*PixQRCodeResponse, error) {
	req, err := c.newRequest("GET", "/payments/"+paymentID+"/pixQrCode", nil)
	if err != nil {
		return nil, err
	}
	var qrResp PixQRCodeResponse
	if err := c.do(req, &qrResp); err != nil {
		return nil, err
	}
	return &qrResp, nil
}
