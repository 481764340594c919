package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"golang.org/x/time/rate"
)

const (
	sandboxBaseURL = "https://sandbox.sslcommerz.com"
	liveBaseURL    = "https://securepay.sslcommerz.com"

	initiatePath   = "/gwprocess/v4/api.php"
	requestTimeout = 15 * time.Second
)

// Client SSLCommerz支付网关客户端
type Client struct {
	storeID       string
	storePassword string
	baseURL       string
	httpClient    *http.Client
	limiter       *rate.Limiter
}

// PaymentRequest 发起支付的请求参数
type PaymentRequest struct {
	Amount   int64  // 金额，单位taka
	Currency string // 货币，固定BDT
	TranID   string // 交易号

	// 网关异步通知地址，按交易号区分
	SuccessURL string
	FailURL    string
	CancelURL  string

	ProductName   string
	CustomerName  string
	CustomerEmail string
}

// initResponse 网关初始化接口响应
type initResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
	SessionKey     string `json:"sessionkey"`
}

// New 创建网关客户端
func New(cfg config.SSLCommerzConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Sandbox {
			baseURL = sandboxBaseURL
		} else {
			baseURL = liveBaseURL
		}
	}

	return &Client{
		storeID:       cfg.StoreID,
		storePassword: cfg.StorePassword,
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: requestTimeout},
		// 网关侧限流，每秒10次足够覆盖报名高峰
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// Initiate 创建网关支付会话，返回收银台跳转地址。
// 调用失败不产生任何本地状态，由上层决定是否落库
func (c *Client) Initiate(ctx context.Context, req PaymentRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	form := url.Values{}
	form.Set("store_id", c.storeID)
	form.Set("store_passwd", c.storePassword)
	form.Set("total_amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", req.Currency)
	form.Set("tran_id", req.TranID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("shipping_method", "NO")
	form.Set("product_name", req.ProductName)
	form.Set("product_category", "Contest")
	form.Set("product_profile", "general")
	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_add1", "Dhaka")
	form.Set("cus_city", "Dhaka")
	form.Set("cus_postcode", "1000")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", "01711111111")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+initiatePath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var result initResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if !strings.EqualFold(result.Status, "SUCCESS") {
		return "", fmt.Errorf("gateway rejected initiation: %s", result.FailedReason)
	}
	if result.GatewayPageURL == "" {
		return "", fmt.Errorf("gateway returned empty redirect url")
	}

	return result.GatewayPageURL, nil
}
