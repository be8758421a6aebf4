package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amishk599/jobmarket/internal/model"
)

// maxErrorBody caps how much of an error response ends up in HTTPError.
const maxErrorBody = 512

// jsearchFields lists the keys every job element must carry.
var jsearchFields = []string{
	"job_title",
	"job_description",
	"job_required_skills",
	"job_city",
	"job_state",
	"job_country",
	"job_latitude",
	"job_longitude",
	"job_min_salary",
	"job_max_salary",
	"job_google_link",
}

// jsearchResponse keeps data raw so a missing field can be told apart from an
// empty array.
type jsearchResponse struct {
	Data *[]json.RawMessage `json:"data"`
}

// JSearchAdapter queries the JSearch API for job postings.
type JSearchAdapter struct {
	baseURL string
	host    string
	apiKey  string
	client  *http.Client
}

// NewJSearchAdapter creates an adapter for the JSearch /search endpoint.
func NewJSearchAdapter(baseURL, host, apiKey string, client *http.Client) *JSearchAdapter {
	return &JSearchAdapter{
		baseURL: baseURL,
		host:    host,
		apiKey:  apiKey,
		client:  client,
	}
}

// SearchJobs fetches one page of results and maps each element into a Job,
// preserving upstream order.
func (a *JSearchAdapter) SearchJobs(ctx context.Context, params model.SearchParams) ([]model.Job, error) {
	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("date_posted", params.DatePosted)
	endpoint := a.baseURL + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", a.apiKey)
	req.Header.Set("X-RapidAPI-Host", a.host)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("jsearch: %w", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(body)),
		})
	}

	var jsResp jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&jsResp); err != nil {
		return nil, fmt.Errorf("jsearch: decode response: %w", err)
	}
	if jsResp.Data == nil {
		return nil, fmt.Errorf("jsearch: %w", model.ErrUnexpectedShape)
	}

	jobs := make([]model.Job, 0, len(*jsResp.Data))
	for i, raw := range *jsResp.Data {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		job, err := decodeJob(i, raw)
		if err != nil {
			return nil, fmt.Errorf("jsearch: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// decodeJob checks that every expected key is present and copies each value
// through untouched. A key with a null value is accepted.
func decodeJob(index int, raw json.RawMessage) (model.Job, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return model.Job{}, fmt.Errorf("job %d: %w", index, err)
	}
	for _, field := range jsearchFields {
		if _, ok := keys[field]; !ok {
			return model.Job{}, &model.MissingFieldError{Index: index, Field: field}
		}
	}

	return model.Job{
		Title:          model.RawValue(keys["job_title"]),
		Description:    model.RawValue(keys["job_description"]),
		RequiredSkills: model.RawValue(keys["job_required_skills"]),
		City:           model.RawValue(keys["job_city"]),
		State:          model.RawValue(keys["job_state"]),
		Country:        model.RawValue(keys["job_country"]),
		Latitude:       model.RawValue(keys["job_latitude"]),
		Longitude:      model.RawValue(keys["job_longitude"]),
		MinSalary:      model.RawValue(keys["job_min_salary"]),
		MaxSalary:      model.RawValue(keys["job_max_salary"]),
		Link:           model.RawValue(keys["job_google_link"]),
	}, nil
}
