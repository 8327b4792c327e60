package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"timetable-export/internal/domain"
)

// SolverHTTPClient fetches a solved assignment table from the
// external constraint solver. The solver reads the uploaded source
// CSVs itself; this client only triggers a run and collects the
// resulting records.
type SolverHTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSolverHTTPClient(baseURL string, httpClient *http.Client) *SolverHTTPClient {
	return &SolverHTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type solverResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Assignments []domain.Assignment `json:"assignments"`
}

func (c *SolverHTTPClient) Generate(ctx context.Context) ([]domain.Assignment, error) {
	if c.baseURL == "" {
		return nil, ErrInvalidInput
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/solve", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solver unexpected status: %d", resp.StatusCode)
	}

	var body solverResponse
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}
	if !body.Success {
		if body.Message == "" {
			return nil, errors.New("solver reported failure")
		}
		return nil, errors.New(body.Message)
	}

	return body.Assignments, nil
}

// DefaultSolverHTTPClient returns the client used for solver calls.
// No client-side timeout: solver runs are long and the caller's
// context bounds them.
func DefaultSolverHTTPClient() *http.Client {
	return &http.Client{}
}
