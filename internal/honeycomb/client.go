package honeycomb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Space 活跃空间列表中的一个蜂巢格
type Space struct {
	Email        string    `json:"email"`
	Active       bool      `json:"active"`
	IsInitial    bool      `json:"isInitial"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// Email 空间内的一封邮件
type Email struct {
	ID          int64     `json:"id"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Fetcher 拉取蜂巢数据
type Fetcher interface {
	Spaces(ctx context.Context) ([]Space, error)
	Emails(ctx context.Context, address string) ([]Email, error)
}

// Client 访问 honeypoty HTTP API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient 创建 API 客户端，baseURL 形如 http://localhost:3000
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Spaces 获取活跃空间
func (c *Client) Spaces(ctx context.Context) ([]Space, error) {
	var spaces []Space
	if err := c.get(ctx, "/api/spaces", &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

// Emails 获取空间内的邮件，最新的在前
func (c *Client) Emails(ctx context.Context, address string) ([]Email, error) {
	var emails []Email
	if err := c.get(ctx, "/api/spaces/"+url.PathEscape(address)+"/emails", &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
