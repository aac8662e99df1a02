package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rickb777/date"

	"github.com/i474232898/route-schedule-sync/internal/schedule"
)

// DefaultOptimoRouteBaseURL is the production endpoint of the routing API.
const DefaultOptimoRouteBaseURL = "https://api.optimoroute.com/v1"

// OptimoRouteProvider implements the schedule.Fetcher interface against the
// OptimoRoute get_routes endpoint. It makes exactly one attempt per call;
// retrying is deliberately left to the next day's sync run.
type OptimoRouteProvider struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewOptimoRouteProvider(client *http.Client, baseURL, apiKey string) *OptimoRouteProvider {
	if baseURL == "" {
		baseURL = DefaultOptimoRouteBaseURL
	}
	return &OptimoRouteProvider{
		name:    "optimoroute",
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

func (p *OptimoRouteProvider) Name() string {
	return p.name
}

// FetchDay requests the routes scheduled for one calendar day. A payload
// without a routes field means the remote call itself failed; that case is
// reported as a schedule.FetchError carrying the remote message so the
// caller can fail just this day. Transport and decoding errors are returned
// as-is.
func (p *OptimoRouteProvider) FetchDay(ctx context.Context, day date.Date) (schedule.RawSchedule, error) {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("date", day.String())

	u := fmt.Sprintf("%s/get_routes?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return schedule.RawSchedule{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return schedule.RawSchedule{}, err
	}
	defer resp.Body.Close()

	// The API reports failures inside the JSON body (a message field in
	// place of routes), so the body is decoded regardless of status code.
	var payload struct {
		Routes  *[]schedule.RawRoute `json:"routes"`
		Message string               `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return schedule.RawSchedule{}, fmt.Errorf("decoding get_routes response for %s: %w", day, err)
	}

	if payload.Routes == nil {
		return schedule.RawSchedule{}, &schedule.FetchError{Day: day, Message: payload.Message}
	}

	return schedule.RawSchedule{Routes: *payload.Routes}, nil
}
