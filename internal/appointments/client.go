package appointments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"salonportal/internal/model"
)

const dateLayout = "2006-01-02"

// APISource reads appointments from the booking backend.
type APISource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

type appointmentsResponse struct {
	Appointments []model.AppointmentBlock `json:"appointments"`
}

// NewAPISource constructs a client for baseURL authenticated with apiKey.
func NewAPISource(baseURL, apiKey string) *APISource {
	return &APISource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRedisCache configures optional Redis caching of fetched ranges.
func (c *APISource) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// FetchAppointments implements Source.
// GET {base}/stylists/{id}/appointments?from=YYYY-MM-DD&to=YYYY-MM-DD
func (c *APISource) FetchAppointments(ctx context.Context, stylistID string, from, to time.Time) (Result, error) {
	fromStr, toStr := from.Format(dateLayout), to.Format(dateLayout)
	endpoint := fmt.Sprintf("%s/stylists/%s/appointments?from=%s&to=%s",
		c.baseURL, url.PathEscape(stylistID), url.QueryEscape(fromStr), url.QueryEscape(toStr))
	cacheKey := cacheKey(stylistID, fromStr, toStr)

	var resp appointmentsResponse
	if c.readCache(ctx, cacheKey, &resp) {
		return Result{Appointments: resp.Appointments, Origin: OriginCache}, nil
	}

	if err := c.doGet(ctx, endpoint, &resp); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	for i := range resp.Appointments {
		resp.Appointments[i].StartTime = model.NormalizeClock(resp.Appointments[i].StartTime)
	}
	c.writeCache(ctx, cacheKey, resp)
	return Result{Appointments: resp.Appointments, Origin: OriginAPI}, nil
}

// Invalidate drops every cached range of a stylist.
func (c *APISource) Invalidate(ctx context.Context, stylistID string) error {
	if c.redis == nil {
		return nil
	}
	iter := c.redis.Scan(ctx, 0, cacheKey(stylistID, "*", "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...).Err()
}

// HealthCheck reports whether the booking backend answers GET {base}/healthz
// with 200. /readyz uses it; it never touches the cache.
func (c *APISource) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: healthz returned %d", ErrUpstream, resp.StatusCode)
	}
	return nil
}

func cacheKey(stylistID, from, to string) string {
	return fmt.Sprintf("appointments:%s:%s:%s", stylistID, from, to)
}

func (c *APISource) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *APISource) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *APISource) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
