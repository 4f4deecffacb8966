package cutoff

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jarawa/josaa-predictor/internal/predict"
)

// DefaultCSVURL is the published cutoff dataset this tool was built around.
const DefaultCSVURL = "https://raw.githubusercontent.com/JARAWA/JOSAA_login/refs/heads/main/josaa2024_cutoff.csv"

const fetchTimeout = 60 * time.Second

// HTTPSource fetches and parses the cutoff CSV from a URL on every call.
// Wrap it in a Cache for anything user-facing.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource builds a source for the given CSV URL ("" means
// DefaultCSVURL). A nil client gets a timeout-tuned default.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if url == "" {
		url = DefaultCSVURL
	}
	if client == nil {
		client = &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:          10,
				IdleConnTimeout:       fetchTimeout,
				ResponseHeaderTimeout: fetchTimeout,
			},
		}
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Records(ctx context.Context) ([]predict.CutoffRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnavailable, s.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrUnavailable, s.url, resp.StatusCode)
	}
	records, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return records, nil
}

func (s *HTTPSource) Branches(ctx context.Context) ([]string, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return BranchList(records), nil
}
